package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/certgen/internal/ingest"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest <file>...",
	Short: "Split documents into searchable chunks",
	Long:  "Extract text from .txt and .md files and store it as overlapping chunks. Re-ingesting a file replaces its chunks.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := setup(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		chunker := rt.cfg.Ingest
		if w, _ := cmd.Flags().GetInt("window"); w > 0 {
			chunker.Window = w
		}
		if cmd.Flags().Changed("overlap") {
			chunker.Overlap, _ = cmd.Flags().GetInt("overlap")
		}
		if err := chunker.Validate(); err != nil {
			return err
		}

		in := ingest.NewIngester(ingest.FileExtractor{}, chunker, rt.store.ContentRepo(), rt.log.Named("ingest"))
		total := 0
		for _, path := range args {
			n, err := in.IngestFile(cmd.Context(), path)
			if err != nil {
				return err
			}
			fmt.Printf("%-40s  %4d chunks\n", path, n)
			total += n
		}
		fmt.Printf("Stored %d chunks from %d file(s).\n", total, len(args))
		return nil
	},
}

func init() {
	ingestCmd.Flags().Int("window", 0, "Chunk size in words (default from config)")
	ingestCmd.Flags().Int("overlap", 0, "Words shared by consecutive chunks (default from config)")
}
