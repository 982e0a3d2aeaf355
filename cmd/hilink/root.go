package main

import (
	"context"
	"fmt"

	"github.com/eshaffer321/hilink-go/internal/logging"
	"github.com/eshaffer321/hilink-go/pkg/hilink"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// app carries the state shared by every command of one invocation.
type app struct {
	v      *viper.Viper
	cfg    *Config
	logger *logging.Logger
	client *hilink.Client
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	rootCmd := &cobra.Command{
		Use:   "hilink",
		Short: "Huawei HiLink modem client",
		Long: `A command-line client for Huawei HiLink LTE modems and routers.

Reads device information and connection status, manages SMS, and changes
network and DHCP settings. Commands that need a session log in first when
a username and password are configured.`,
		Version:           fmt.Sprintf("%s (commit: %s)", version, commit),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: a.teardown,
	}
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default $HOME/.hilink.yaml)")
	flags.String("url", hilink.DefaultBaseURL, "device base URL")
	flags.Int("timeout", 30, "per-attempt HTTP timeout in seconds")
	flags.Int("retries", 3, "maximum attempts per call")
	flags.StringP("format", "f", "table", "output format (table, json, yaml)")
	flags.BoolP("verbose", "v", false, "enable debug logging")
	flags.String("username", "", "device username")
	flags.String("password", "", "device password")
	flags.Float64("rate", 0, "maximum requests per second (0 = unlimited)")
	bindFlags(a.v, rootCmd)

	rootCmd.AddCommand(
		newDeviceCmd(a),
		newMonitoringCmd(a),
		newNetworkCmd(a),
		newSMSCmd(a),
		newDHCPCmd(a),
		newLoginStateCmd(a),
		newStatusCmd(a),
		newVersionCmd(),
	)
	return rootCmd
}

func (a *app) setup(cmd *cobra.Command, args []string) error {
	configFile, err := cmd.Flags().GetString("config")
	if err != nil {
		return fmt.Errorf("failed to get config flag: %w", err)
	}

	if a.cfg, err = loadConfig(a.v, configFile); err != nil {
		return err
	}

	level := a.cfg.LogLevel
	if a.cfg.Verbose {
		level = "debug"
	}
	if a.logger, err = logging.New(level); err != nil {
		return err
	}

	a.client, err = newClient(a.cfg, a.logger)
	return err
}

func (a *app) teardown(cmd *cobra.Command, args []string) {
	if a.client != nil {
		a.client.Close()
	}
	if a.logger != nil {
		a.logger.Sync()
	}
}

// session logs in when credentials are configured and no session exists yet.
func (a *app) session(ctx context.Context) error {
	if a.cfg.Username == "" || a.client.IsAuthenticated() {
		return nil
	}
	if err := a.client.Login(ctx, a.cfg.Username, a.cfg.Password); err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		// the root pre-run builds a client, which version does not need
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "hilink %s (commit: %s)\n", version, commit)
		},
	}
}
