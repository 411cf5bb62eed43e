package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joescharf/portfolio/internal/output"
)

var contactsLimit int

var contactsCmd = &cobra.Command{
	Use:   "contacts",
	Short: "List contact form messages",
	Long:  "List messages left through the contact form, newest first.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return contactsRun(cmd.Context())
	},
}

func init() {
	contactsCmd.Flags().IntVar(&contactsLimit, "limit", 20, "Maximum messages to show (0 for all)")
	rootCmd.AddCommand(contactsCmd)
}

func contactsRun(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	s, err := getStore()
	if err != nil {
		return err
	}

	msgs, err := s.ListContactMessages(ctx, contactsLimit)
	if err != nil {
		return err
	}
	if len(msgs) == 0 {
		ui.Info("No contact messages yet")
		return nil
	}

	table := ui.Table([]string{"Received", "Name", "Email", "Message"})
	for _, m := range msgs {
		if err := table.Append([]string{
			m.CreatedAt.Local().Format("2006-01-02 15:04"),
			output.Cyan(m.Name),
			m.Email,
			truncate(oneLine(m.Message), 60),
		}); err != nil {
			return err
		}
	}
	if err := table.Render(); err != nil {
		return err
	}

	total, err := s.CountContactMessages(ctx)
	if err != nil {
		return err
	}
	if total > len(msgs) {
		fmt.Fprintf(ui.Out, "\nShowing %d of %d messages\n", len(msgs), total)
	}
	return nil
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
