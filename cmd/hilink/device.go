package main

import (
	"fmt"

	"github.com/eshaffer321/hilink-go/pkg/hilink"
	"github.com/spf13/cobra"
)

func newDeviceCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "device",
		Short: "Device information and power control",
	}

	infoCmd := &cobra.Command{
		Use:   "info",
		Short: "Show model, firmware and identifiers",
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := a.client.Device.Information(cmd.Context())
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), a.cfg.Format, info, fields(
				"Device", info.DeviceName,
				"Serial", info.SerialNumber,
				"IMEI", info.Imei,
				"IMSI", orNA(info.Imsi),
				"ICCID", orNA(info.Iccid),
				"Hardware", info.HardwareVersion,
				"Software", info.SoftwareVersion,
				"Web UI", info.WebUIVersion,
				"MAC", info.MacAddress1,
				"Product family", info.ProductFamily,
			))
		},
	}

	cmd.AddCommand(infoCmd,
		newControlCmd(a, "reboot", "Restart the device", hilink.ControlReboot),
		newControlCmd(a, "power-off", "Shut the device down", hilink.ControlPowerOff),
	)
	return cmd
}

func newControlCmd(a *app, use, short string, control hilink.ControlType) *cobra.Command {
	var confirm bool
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !confirm {
				return fmt.Errorf("%s requires --confirm", use)
			}
			ctx := cmd.Context()
			if err := a.session(ctx); err != nil {
				return err
			}
			if err := a.client.Device.Control(ctx, control); err != nil {
				return err
			}
			return done(cmd.OutOrStdout(), a.cfg.Format, fmt.Sprintf("%s requested", control))
		},
	}
	cmd.Flags().BoolVar(&confirm, "confirm", false, "confirm the operation")
	return cmd
}
