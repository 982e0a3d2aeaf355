package main

import (
	"strconv"

	"github.com/eshaffer321/hilink-go/pkg/hilink"
	"github.com/spf13/cobra"
)

func newMonitoringCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "monitoring",
		Short: "Connection monitoring",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show connection, signal and SIM state",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := a.session(ctx); err != nil {
				return err
			}
			status, err := a.client.Monitoring.Status(ctx)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), a.cfg.Format, status, statusFields(status))
		},
	})
	return cmd
}

func statusFields(s *hilink.MonitoringStatus) tabular {
	signal := "N/A"
	if percent, ok := s.SignalPercent(); ok {
		signal = strconv.Itoa(percent) + "%"
	}
	return fields(
		"Connection", s.ConnectionStatus.String(),
		"Network", s.CurrentNetworkType.String(),
		"Signal", signal,
		"Roaming", yesNo(s.IsRoaming()),
		"SIM ready", yesNo(s.IsSIMReady()),
		"Service", yesNo(s.IsServiceAvailable()),
		"Primary DNS", orNA(s.PrimaryDNS),
		"Secondary DNS", orNA(s.SecondaryDNS),
	)
}
