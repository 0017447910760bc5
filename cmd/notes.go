package cmd

import (
	"fmt"
	"strings"

	"github.com/abhisek/mockexam/internal/review"
	"github.com/spf13/cobra"
)

var notesCmd = &cobra.Command{
	Use:   "notes",
	Short: "Inspect and prune review notes",
}

var notesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List a user's review notes, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		user, _ := cmd.Flags().GetString("user")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		notes, err := review.NewManager(s.ReviewRepo()).List(cmd.Context(), user)
		if err != nil {
			return fmt.Errorf("list notes: %w", err)
		}
		if len(notes) == 0 {
			fmt.Println("No review notes.")
			return nil
		}

		sep := strings.Repeat("─", 60)
		for _, n := range notes {
			fmt.Println(sep)
			fmt.Printf("[%s] %s  %s\n", n.Category, n.CreatedAt.Local().Format("2006-01-02 15:04"), n.Question)
			for i, opt := range n.Options {
				mark := " "
				if i == n.CorrectIndex {
					mark = "*"
				}
				fmt.Printf("  %s %d. %s\n", mark, i+1, opt)
			}
			if n.Explanation != "" {
				fmt.Printf("  %s\n", n.Explanation)
			}
		}
		fmt.Println(sep)
		return nil
	},
}

var notesDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete every note of a user with the given question text",
	RunE: func(cmd *cobra.Command, args []string) error {
		user, _ := cmd.Flags().GetString("user")
		question, _ := cmd.Flags().GetString("question")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		n, err := review.NewManager(s.ReviewRepo()).Delete(cmd.Context(), user, question)
		if err != nil {
			return fmt.Errorf("delete note: %w", err)
		}
		fmt.Printf("Deleted %d note(s).\n", n)
		return nil
	},
}

func init() {
	notesCmd.PersistentFlags().String("user", "", "Visitor id (the mockexam_uid cookie value)")
	_ = notesCmd.MarkPersistentFlagRequired("user")
	notesDeleteCmd.Flags().String("question", "", "Exact question text")
	_ = notesDeleteCmd.MarkFlagRequired("question")

	notesCmd.AddCommand(notesListCmd)
	notesCmd.AddCommand(notesDeleteCmd)
}
