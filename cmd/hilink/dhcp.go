package main

import (
	"fmt"

	"github.com/eshaffer321/hilink-go/pkg/hilink"
	"github.com/spf13/cobra"
)

func newDHCPCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dhcp",
		Short: "LAN DHCP settings",
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show the DHCP configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := a.client.DHCP.Settings(cmd.Context())
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), a.cfg.Format, settings, dhcpFields(settings))
		},
	}

	var (
		gateway string
		netmask string
		start   string
		end     string
		lease   string
	)
	setIPCmd := &cobra.Command{
		Use:   "set-ip",
		Short: "Move the LAN to another 192.168.x.0/24 subnet",
		Long: `Moves the LAN to the subnet of the given gateway address.

The DHCP pool becomes .100-.200 and both DNS servers point at the gateway
unless overridden. The device restarts its LAN side and the current
connection to it is usually lost.`,
		Example: "  hilink dhcp set-ip --ip 192.168.10.1",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := a.session(ctx); err != nil {
				return err
			}
			current, err := a.client.DHCP.Settings(ctx)
			if err != nil {
				return err
			}
			settings, err := current.WithGateway(gateway)
			if err != nil {
				return err
			}
			if netmask != "" {
				settings.Netmask = netmask
			}
			if start != "" {
				settings.StartIP = start
			}
			if end != "" {
				settings.EndIP = end
			}
			if lease != "" {
				settings.LeaseTime = lease
			}

			if err := a.client.DHCP.SetSettings(ctx, settings); err != nil {
				return err
			}
			fmt.Fprintln(cmd.ErrOrStderr(), warningStyle.Render("!")+" reconnect at http://"+settings.GatewayIP)
			return done(cmd.OutOrStdout(), a.cfg.Format, fmt.Sprintf("gateway moved to %s", settings.GatewayIP))
		},
	}
	setIPCmd.Flags().StringVar(&gateway, "ip", "", "new gateway address (192.168.x.1)")
	setIPCmd.Flags().StringVar(&netmask, "netmask", "", "override the LAN netmask")
	setIPCmd.Flags().StringVar(&start, "start", "", "override the first pool address")
	setIPCmd.Flags().StringVar(&end, "end", "", "override the last pool address")
	setIPCmd.Flags().StringVar(&lease, "lease", "", "override the lease time in seconds")
	_ = setIPCmd.MarkFlagRequired("ip")

	cmd.AddCommand(showCmd, setIPCmd)
	return cmd
}

func dhcpFields(s *hilink.DHCPSettings) tabular {
	return fields(
		"Gateway", s.GatewayIP,
		"Netmask", s.Netmask,
		"Enabled", yesNo(s.IsEnabled()),
		"Pool", s.StartIP+" - "+s.EndIP,
		"Lease", s.LeaseTime+"s",
		"Primary DNS", orNA(s.PrimaryDNS),
		"Secondary DNS", orNA(s.SecondaryDNS),
	)
}
