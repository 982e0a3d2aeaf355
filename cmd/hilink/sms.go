package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/eshaffer321/hilink-go/pkg/hilink"
	"github.com/spf13/cobra"
)

func newSMSCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sms",
		Short: "SMS inbox",
	}

	countCmd := &cobra.Command{
		Use:   "count",
		Short: "Show message counters",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := a.session(ctx); err != nil {
				return err
			}
			count, err := a.client.SMS.Count(ctx)
			if err != nil {
				return err
			}
			unread, err := count.TotalUnread()
			if err != nil {
				return err
			}
			inbox, err := count.TotalInbox()
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), a.cfg.Format, count, fields(
				"Unread", strconv.Itoa(unread),
				"Inbox", strconv.Itoa(inbox),
				"Outbox", count.LocalOutbox,
				"Drafts", count.LocalDraft,
				"New", yesNo(count.HasNewMessages()),
			))
		},
	}

	var (
		page       int
		perPage    int
		unreadOnly bool
	)
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List messages in the local inbox",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := a.session(ctx); err != nil {
				return err
			}
			params := hilink.DefaultSMSListParams()
			params.Page = page
			params.Count = perPage

			list, err := a.client.SMS.List(ctx, params)
			if err != nil {
				return err
			}
			if unreadOnly {
				var unread []*hilink.SMSMessage
				for _, m := range list.Messages {
					if m.IsUnread() {
						unread = append(unread, m)
					}
				}
				list.Messages = unread
			}

			tbl := tabular{headers: []string{"Index", "From", "Date", "Unread", "Content"}}
			for _, m := range list.Messages {
				tbl.rows = append(tbl.rows, []string{m.Index, m.Phone, m.Date, yesNo(m.IsUnread()), m.Content})
			}
			return render(cmd.OutOrStdout(), a.cfg.Format, list, tbl)
		},
	}
	listCmd.Flags().IntVar(&page, "page", 1, "page number")
	listCmd.Flags().IntVar(&perPage, "count", 20, "messages per page")
	listCmd.Flags().BoolVar(&unreadOnly, "unread-only", false, "show unread messages only")

	deleteCmd := newSMSIndexCmd(a, "delete", "Delete a message", "message %s deleted",
		func(ctx context.Context, index string) error { return a.client.SMS.Delete(ctx, index) })
	markReadCmd := newSMSIndexCmd(a, "mark-read", "Mark a message as read", "message %s marked as read",
		func(ctx context.Context, index string) error { return a.client.SMS.MarkRead(ctx, index) })

	cmd.AddCommand(countCmd, listCmd, deleteCmd, markReadCmd)
	return cmd
}

// newSMSIndexCmd builds a command acting on one message selected with --id.
func newSMSIndexCmd(a *app, use, short, message string, action func(ctx context.Context, index string) error) *cobra.Command {
	var index string
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := a.session(ctx); err != nil {
				return err
			}
			if err := action(ctx, index); err != nil {
				return err
			}
			return done(cmd.OutOrStdout(), a.cfg.Format, fmt.Sprintf(message, index))
		},
	}
	cmd.Flags().StringVar(&index, "id", "", "message index")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}
