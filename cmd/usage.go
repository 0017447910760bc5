package cmd

import (
	"fmt"

	"github.com/abhisek/mockexam/internal/quota"
	"github.com/spf13/cobra"
)

var usageCmd = &cobra.Command{
	Use:   "usage",
	Short: "Show a user's question usage for today",
	RunE: func(cmd *cobra.Command, args []string) error {
		user, _ := cmd.Flags().GetString("user")

		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		guard := quota.NewGuard(s.UsageRepo())
		allowed, count, err := guard.IsAllowed(cmd.Context(), user, cfg.DailyLimit)
		if err != nil {
			return fmt.Errorf("read usage: %w", err)
		}

		fmt.Printf("User:   %s\n", user)
		fmt.Printf("Day:    %s\n", guard.Today())
		fmt.Printf("Used:   %d / %d\n", count, cfg.DailyLimit)
		if !allowed {
			fmt.Println("Status: daily quota reached")
		} else {
			fmt.Println("Status: ok")
		}
		return nil
	},
}

func init() {
	usageCmd.Flags().String("user", "", "Visitor id (the mockexam_uid cookie value)")
	_ = usageCmd.MarkFlagRequired("user")
}
