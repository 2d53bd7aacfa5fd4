package walker

// categories maps file extensions (without dot, lowercased) to a coarse
// category used for faceting search results.
var categories = map[string]string{
	// Documents
	"pdf": "document", "docx": "document", "doc": "document",
	"txt": "document", "rtf": "document", "odt": "document",
	"md": "document", "tex": "document",

	// Spreadsheets
	"xlsx": "spreadsheet", "xls": "spreadsheet", "csv": "spreadsheet",
	"ods": "spreadsheet", "numbers": "spreadsheet",

	// Presentations
	"pptx": "presentation", "ppt": "presentation", "key": "presentation",
	"odp": "presentation",

	// Images
	"jpg": "image", "jpeg": "image", "png": "image", "gif": "image",
	"bmp": "image", "tiff": "image", "svg": "image", "webp": "image",

	// Audio
	"mp3": "audio", "wav": "audio", "ogg": "audio", "flac": "audio",
	"aac": "audio", "m4a": "audio",

	// Video
	"mp4": "video", "avi": "video", "mov": "video", "wmv": "video",
	"mkv": "video", "webm": "video", "flv": "video",

	// Archives
	"zip": "archive", "rar": "archive", "tar": "archive", "gz": "archive",
	"7z": "archive", "bz2": "archive",

	// Code
	"py": "code", "js": "code", "html": "code", "css": "code",
	"java": "code", "cpp": "code", "c": "code", "rs": "code",
	"go": "code", "php": "code", "rb": "code", "swift": "code",
	"kt": "code", "ts": "code", "jsx": "code", "tsx": "code",
	"json": "code", "xml": "code", "yaml": "code", "toml": "code",

	// Executables
	"exe": "executable", "msi": "executable", "app": "executable",
	"dmg": "executable", "deb": "executable", "rpm": "executable",
}

// CategoryForExtension returns the category for an extension (without dot),
// or "other" for anything unrecognized.
func CategoryForExtension(ext string) string {
	if c, ok := categories[ext]; ok {
		return c
	}
	return "other"
}
