package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"spyglass/internal/llm"
	"spyglass/internal/rag"
)

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask a question about your indexed files",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := loadSettings()
		if err != nil {
			return err
		}
		question := strings.Join(args, " ")

		idx, err := openIndexer(settings)
		if err != nil {
			return err
		}
		defer idx.Close()

		if err := idx.Embedder().Ping(); err != nil {
			return err
		}

		chunks, err := rag.Retrieve(question, idx.Vectors(), idx.Embedder(), settings.TopK)
		if err != nil {
			return err
		}
		if len(chunks) == 0 {
			fmt.Println("Nothing indexed matches the question. Run `spyglass index` first.")
			return nil
		}

		chat := llm.NewOllamaChat(settings.OllamaURL, settings.ChatModel)
		answer, err := chat.Generate(rag.BuildMessages(chunks, question))
		if err != nil {
			return err
		}

		fmt.Println(answer)
		fmt.Println("\nSources:")
		seen := make(map[string]bool)
		for _, c := range chunks {
			if !seen[c.Path] {
				seen[c.Path] = true
				fmt.Printf("  %s\n", c.Path)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(askCmd)
}
