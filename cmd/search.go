package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/certgen/internal/retrieval"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>...",
	Short: "Rank ingested chunks against a query",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		topK, _ := cmd.Flags().GetInt("top-k")
		query := strings.Join(args, " ")

		rt, err := setup(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		chunks, err := rt.store.ContentRepo().GetChunks(cmd.Context())
		if err != nil {
			return fmt.Errorf("load chunks: %w", err)
		}
		if len(chunks) == 0 {
			fmt.Println("No chunks ingested. Run `certgen ingest <file>` first.")
			return nil
		}

		docs := make([]retrieval.Document, len(chunks))
		labels := make(map[int64]string, len(chunks))
		for i, c := range chunks {
			docs[i] = retrieval.Document{ID: c.ID, Text: c.Text}
			labels[c.ID] = fmt.Sprintf("%s#%d", c.FileName, c.Sequence)
		}

		ranked := retrieval.New(rt.cfg.Retrieval, rt.log.Named("retrieval")).Rank(query, docs, topK)
		if len(ranked) == 0 {
			fmt.Println("No relevant chunks found.")
			return nil
		}

		fmt.Printf("%-6s  %-28s  %s\n", "Score", "Chunk", "Text")
		fmt.Println(strings.Repeat("─", 100))
		for _, r := range ranked {
			fmt.Printf("%-6.3f  %-28s  %s\n", r.Score, truncate(labels[r.ID], 28), truncate(r.Text, 60))
		}
		return nil
	},
}

func init() {
	searchCmd.Flags().IntP("top-k", "k", 5, "Number of chunks to show")
}
