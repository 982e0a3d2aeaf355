package main

import (
	"fmt"

	"github.com/eshaffer321/hilink-go/pkg/hilink"
	"github.com/spf13/cobra"
)

func newNetworkCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "network",
		Short: "Network mode and operator",
	}

	modeCmd := &cobra.Command{
		Use:   "mode",
		Short: "Show the configured network mode",
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := a.client.Network.Mode(cmd.Context())
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), a.cfg.Format, mode, fields(
				"Mode", mode.ModeText(),
				"Code", string(mode.NetworkMode),
				"Network band", mode.NetworkBand,
				"LTE band", mode.LTEBand,
			))
		},
	}

	var (
		modeName    string
		networkBand string
		lteBand     string
	)
	setModeCmd := &cobra.Command{
		Use:   "set-mode",
		Short: "Change the network mode",
		Example: `  hilink network set-mode --mode 4g
  hilink network set-mode --mode 0302 --lte-band 80800C5`,
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := hilink.ParseNetworkMode(modeName)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if err := a.session(ctx); err != nil {
				return err
			}
			err = a.client.Network.SetMode(ctx, &hilink.NetworkModeParams{
				Mode:        code,
				NetworkBand: networkBand,
				LTEBand:     lteBand,
			})
			if err != nil {
				return err
			}
			return done(cmd.OutOrStdout(), a.cfg.Format, fmt.Sprintf("network mode set to %s", code))
		},
	}
	setModeCmd.Flags().StringVar(&modeName, "mode", "", "mode name (auto, 2g, 3g, 4g, 4g-preferred) or code")
	setModeCmd.Flags().StringVar(&networkBand, "network-band", "", "network band mask")
	setModeCmd.Flags().StringVar(&lteBand, "lte-band", "", "LTE band mask")
	_ = setModeCmd.MarkFlagRequired("mode")

	operatorCmd := &cobra.Command{
		Use:   "operator",
		Short: "Show the registered operator",
		RunE: func(cmd *cobra.Command, args []string) error {
			plmn, err := a.client.Network.CurrentPLMN(cmd.Context())
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), a.cfg.Format, plmn, plmnFields(plmn))
		},
	}

	cmd.AddCommand(modeCmd, setModeCmd, operatorCmd)
	return cmd
}

func plmnFields(p *hilink.PLMN) tabular {
	return fields(
		"Operator", orNA(p.OperatorName()),
		"Short name", orNA(p.ShortName),
		"Numeric", orNA(p.Numeric),
		"RAT", orNA(p.Rat),
	)
}
