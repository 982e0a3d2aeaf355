package main

import (
	"github.com/eshaffer321/hilink-go/pkg/hilink"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// statusReport combines the connection status with the registered operator.
type statusReport struct {
	Status   *hilink.MonitoringStatus `json:"status" yaml:"status"`
	Operator *hilink.PLMN             `json:"operator" yaml:"operator"`
}

func newStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show connection status and operator",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.session(cmd.Context()); err != nil {
				return err
			}

			var report statusReport
			g, ctx := errgroup.WithContext(cmd.Context())
			g.Go(func() error {
				var err error
				report.Status, err = a.client.Monitoring.Status(ctx)
				return err
			})
			g.Go(func() error {
				var err error
				report.Operator, err = a.client.Network.CurrentPLMN(ctx)
				return err
			})
			if err := g.Wait(); err != nil {
				return err
			}

			tbl := statusFields(report.Status)
			tbl.rows = append(tbl.rows, plmnFields(report.Operator).rows[0])
			return render(cmd.OutOrStdout(), a.cfg.Format, report, tbl)
		},
	}
}

func newLoginStateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "login-state",
		Short: "Show whether the device reports a logged-in session",
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := a.client.Auth.State(cmd.Context())
			if err != nil {
				return err
			}
			wait := "-"
			if state.IsLocked() {
				wait = state.WaitTime().String()
			}
			return render(cmd.OutOrStdout(), a.cfg.Format, state, fields(
				"Logged in", yesNo(state.IsLoggedIn()),
				"Username", orNA(state.Username),
				"Password type", state.PasswordType,
				"Locked", yesNo(state.IsLocked()),
				"Lock remaining", wait,
			))
		},
	}
}
