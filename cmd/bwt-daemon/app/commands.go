// Package app provides the commands of the bwt daemon.
package app

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bwt-dev/libbwt-go/pkg/versions"
)

// EnvPrefix is the prefix of the environment variables read by the daemon
const EnvPrefix = "BWT"

var rootCmd = &cobra.Command{
	Use:               "bwt-daemon",
	DisableAutoGenTag: true,
	SilenceUsage:      true,
	SilenceErrors:     true,
	Short:             "Bitcoin wallet tracker daemon",
	Long: `bwt-daemon runs the wallet tracker against a bitcoind node, reporting the
initial sync and rescan progress until it is ready, then follows the chain until
it receives SIGINT or SIGTERM.`,
	Run: func(cmd *cobra.Command, _ []string) {
		// If no subcommand is provided, print help
		if err := cmd.Help(); err != nil {
			slog.Error("Error displaying help", "error", err)
		}
	},
}

// NewRootCmd creates a new root command for the daemon.
func NewRootCmd() *cobra.Command {
	viper.SetEnvPrefix(EnvPrefix)
	viper.AutomaticEnv()

	rootCmd.PersistentFlags().String("config", "", "Path to the engine configuration file (JSON or YAML)")
	if err := viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config")); err != nil {
		slog.Error("Error binding config flag", "error", err)
	}

	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(testRPCCmd)
	rootCmd.AddCommand(versionCmd)

	return rootCmd
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, _ []string) {
		info := versions.GetVersionInfo()
		format, err := cmd.Flags().GetString("format")
		if err != nil {
			slog.Error("Error retrieving format flag", "error", err)
			return
		}

		if format == "json" {
			output, err := json.MarshalIndent(info, "", "  ")
			if err != nil {
				slog.Error("Error formatting version info as JSON", "error", err)
				return
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(output))
		} else {
			slog.Info("bwt-daemon version",
				"version", info.Version,
				"commit", info.Commit,
				"built", info.BuildDate,
				"go", info.GoVersion,
				"platform", info.Platform)
		}
	},
}

func init() {
	versionCmd.Flags().String("format", "", "Output format (json)")
}
