package store

// FileRecord is a row in the files table.
type FileRecord struct {
	ID        int64
	Path      string
	Name      string
	Extension string
	Size      int64
	Category  string
}
