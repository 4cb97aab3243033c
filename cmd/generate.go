package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/certgen/internal/balancer"
	"github.com/abhisek/certgen/internal/pipeline"
	"github.com/abhisek/certgen/internal/retrieval"
	"github.com/abhisek/certgen/internal/stage"
	"github.com/abhisek/certgen/internal/ui/components"
	"github.com/abhisek/certgen/internal/ui/theme"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate and store a batch of questions",
	Example: `  certgen generate --domain networking -n 5
  certgen generate --query "s3 lifecycle policies" --topic Storage`,
	RunE: func(cmd *cobra.Command, args []string) error {
		count, _ := cmd.Flags().GetInt("count")
		domain, _ := cmd.Flags().GetString("domain")
		query, _ := cmd.Flags().GetString("query")
		topic, _ := cmd.Flags().GetString("topic")
		workers, _ := cmd.Flags().GetInt("workers")
		structured, _ := cmd.Flags().GetBool("structured")
		showAnswers, _ := cmd.Flags().GetBool("answers")

		if domain == "" && query == "" {
			return errors.New("one of --domain or --query is required")
		}
		if count <= 0 {
			return fmt.Errorf("--count must be positive, got %d", count)
		}

		rt, err := setup(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		provider, err := rt.provider(ctx)
		if err != nil {
			return err
		}

		stageCfg := rt.cfg.Stages
		if cmd.Flags().Changed("structured") {
			stageCfg.StructuredOutput = structured
		}
		repo := rt.store.ContentRepo()
		orch := pipeline.New(
			repo,
			balancer.New(repo, balancer.WithLogger(rt.log.Named("balancer"))),
			stage.NewClient(provider, stageCfg, rt.log.Named("stage")),
			retrieval.New(rt.cfg.Retrieval, rt.log.Named("retrieval")),
			rt.cfg.Pipeline,
			pipeline.WithLogger(rt.log.Named("pipeline")),
		)

		batch, err := orch.Generate(ctx, pipeline.Request{
			Count:   count,
			Domain:  domain,
			Topic:   topic,
			Query:   query,
			Workers: workers,
		})
		if batch != nil {
			for _, q := range batch.Questions {
				fmt.Println(components.RenderQuestion(q, components.QuestionView{ShowAnswer: showAnswers}))
			}
			for _, f := range batch.Failures {
				rt.log.Debug("question failed", zap.Int("index", f.Index), zap.Error(f.Err))
			}
		}
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return errors.New("interrupted")
			}
			return err
		}

		summary := fmt.Sprintf("Generated %d of %d questions.", len(batch.Questions), batch.Requested)
		if len(batch.Questions) < batch.Requested {
			fmt.Println(theme.Warning.Render(summary))
		} else {
			fmt.Println(theme.Correct.Render(summary))
		}
		return nil
	},
}

func init() {
	generateCmd.Flags().IntP("count", "n", 10, "Number of questions to generate")
	generateCmd.Flags().StringP("domain", "d", "", "Draw context from summaries tagged with this domain")
	generateCmd.Flags().StringP("query", "q", "", "Draw context from material relevant to this query")
	generateCmd.Flags().StringP("topic", "t", "", "Topic label and focus for the questions")
	generateCmd.Flags().IntP("workers", "w", 0, "Questions generated in parallel (default from config)")
	generateCmd.Flags().Bool("structured", false, "Request native structured output from the provider")
	generateCmd.Flags().Bool("answers", false, "Mark the correct option in the output")
}
