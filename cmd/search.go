package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search indexed files by name, path, and content",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := loadSettings()
		if err != nil {
			return err
		}
		query := strings.Join(args, " ")

		idx, err := openIndexer(settings)
		if err != nil {
			return err
		}
		defer idx.Close()

		hits, err := idx.Search(query, settings.TopK)
		if err != nil {
			return err
		}
		if len(hits) == 0 {
			fmt.Println("No results.")
			return nil
		}

		for i, h := range hits {
			fmt.Printf("%2d. %s\n", i+1, h.Path)
			if h.Category != "" {
				fmt.Printf("    category: %s\n", h.Category)
			}
			if h.Snippet != "" {
				fmt.Printf("    %s\n", snippet(h.Snippet, 160))
				if h.Section != "" {
					fmt.Printf("    section: %s\n", h.Section)
				}
				if h.PageNumber > 0 {
					fmt.Printf("    page: %d\n", h.PageNumber)
				}
			}
		}
		return nil
	},
}

// snippet collapses whitespace and truncates for one-line display.
func snippet(text string, limit int) string {
	text = strings.Join(strings.Fields(text), " ")
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + "…"
}

func init() {
	rootCmd.AddCommand(searchCmd)
}
