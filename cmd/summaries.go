package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/certgen/internal/ingest"
	"github.com/abhisek/certgen/internal/store"
)

var summariesCmd = &cobra.Command{
	Use:     "summaries",
	Aliases: []string{"summary"},
	Short:   "Manage curated summaries",
}

var summariesImportCmd = &cobra.Command{
	Use:   "import <file.yaml>",
	Short: "Import summaries from a YAML file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		summaries, err := ingest.ImportSummaries(args[0])
		if err != nil {
			return err
		}

		rt, err := setup(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		repo := rt.store.ContentRepo()
		for i := range summaries {
			id, err := repo.SaveSummary(cmd.Context(), &summaries[i])
			if err != nil {
				return fmt.Errorf("save summary %d: %w", i+1, err)
			}
			fmt.Printf("%5d  %s\n", id, summaryLabel(summaries[i]))
		}
		fmt.Printf("Imported %d summaries.\n", len(summaries))
		return nil
	},
}

var summariesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List summaries with their usage counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		domain, _ := cmd.Flags().GetString("domain")

		rt, err := setup(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		ctx := cmd.Context()
		repo := rt.store.ContentRepo()
		var summaries []store.Summary
		if domain != "" {
			summaries, err = repo.GetSummariesByDomain(ctx, domain)
		} else {
			summaries, err = repo.ListSummaries(ctx)
		}
		if err != nil {
			return fmt.Errorf("list summaries: %w", err)
		}
		if len(summaries) == 0 {
			fmt.Println("No summaries found.")
			return nil
		}

		ids := make([]int64, len(summaries))
		for i, s := range summaries {
			ids[i] = s.ID
		}
		counts, err := repo.GetUsageCounts(ctx, ids)
		if err != nil {
			return fmt.Errorf("usage counts: %w", err)
		}

		fmt.Printf("%-5s  %-36s  %-24s  %5s\n", "ID", "Title", "Domains", "Used")
		fmt.Println(strings.Repeat("─", 76))
		for _, s := range summaries {
			fmt.Printf("%-5d  %-36s  %-24s  %5d\n",
				s.ID,
				truncate(summaryLabel(s), 36),
				truncate(strings.Join(s.DomainTags, ","), 24),
				counts[s.ID],
			)
		}
		return nil
	},
}

var summariesTagCmd = &cobra.Command{
	Use:   "tag <id> <domain>...",
	Short: "Replace a summary's domain tags",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid ID %q: %w", args[0], err)
		}

		rt, err := setup(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		tags := ingest.NormalizeTags(args[1:])
		if err := rt.store.ContentRepo().UpdateDomainTags(cmd.Context(), id, tags); err != nil {
			return fmt.Errorf("tag summary %d: %w", id, err)
		}
		fmt.Printf("Summary %d tagged: %s\n", id, strings.Join(tags, ", "))
		return nil
	},
}

func summaryLabel(s store.Summary) string {
	switch {
	case s.DocumentTitle != "" && s.Topic != "":
		return s.DocumentTitle + " / " + s.Topic
	case s.DocumentTitle != "":
		return s.DocumentTitle
	case s.Topic != "":
		return s.Topic
	default:
		return truncate(s.Text, 36)
	}
}

func init() {
	summariesListCmd.Flags().StringP("domain", "d", "", "Only summaries tagged with this domain")

	summariesCmd.AddCommand(summariesImportCmd)
	summariesCmd.AddCommand(summariesListCmd)
	summariesCmd.AddCommand(summariesTagCmd)
}
