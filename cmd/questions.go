package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/certgen/internal/store"
	"github.com/abhisek/certgen/internal/ui/components"
)

var questionsCmd = &cobra.Command{
	Use:     "questions",
	Aliases: []string{"q"},
	Short:   "Browse and curate stored questions",
}

var questionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored questions, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		topic, _ := cmd.Flags().GetString("topic")
		asJSON, _ := cmd.Flags().GetBool("json")

		rt, err := setup(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		questions, err := rt.store.ContentRepo().ListQuestions(cmd.Context(), store.QueryOpts{Limit: limit, Topic: topic})
		if err != nil {
			return fmt.Errorf("list questions: %w", err)
		}

		if asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(questions)
		}
		if len(questions) == 0 {
			fmt.Println("No questions found.")
			return nil
		}

		fmt.Printf("%-36s  %-19s  %-16s  %s\n", "ID", "Created", "Topic", "Question")
		fmt.Println(strings.Repeat("─", 110))
		for _, q := range questions {
			text := strings.Join(strings.Fields(q.QuestionText), " ")
			fmt.Printf("%-36s  %-19s  %-16s  %s\n",
				q.ID,
				q.CreatedAt.Local().Format("2006-01-02 15:04:05"),
				truncate(q.Topic, 16),
				truncate(text, 34),
			)
		}
		return nil
	},
}

var questionsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a question with its answer and provenance",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := setup(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		q, err := rt.store.ContentRepo().GetQuestion(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("get question: %w", err)
		}
		if q == nil {
			return fmt.Errorf("question %s not found", args[0])
		}

		fmt.Println(components.RenderQuestion(*q, components.QuestionView{ShowAnswer: true, ShowDetails: true}))
		fmt.Printf("Answer: %s\n", components.AnswerLabel(*q))
		return nil
	},
}

var questionsReportCmd = &cobra.Command{
	Use:   "report <id>",
	Short: "Remove a defective question",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := setup(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		err = rt.store.ContentRepo().DeleteQuestion(cmd.Context(), args[0])
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("question %s not found", args[0])
		}
		if err != nil {
			return fmt.Errorf("delete question: %w", err)
		}
		fmt.Printf("Question %s removed.\n", args[0])
		return nil
	},
}

func init() {
	questionsListCmd.Flags().IntP("limit", "n", 20, "Number of questions to show")
	questionsListCmd.Flags().StringP("topic", "t", "", "Filter by topic")
	questionsListCmd.Flags().Bool("json", false, "Print full questions as JSON")

	questionsCmd.AddCommand(questionsListCmd)
	questionsCmd.AddCommand(questionsShowCmd)
	questionsCmd.AddCommand(questionsReportCmd)
}
