package app

import (
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bwt-dev/libbwt-go/pkg/daemon"
)

var testRPCCmd = &cobra.Command{
	Use:   "test-rpc",
	Short: "Check that bitcoind is reachable",
	RunE:  runTestRPC,
}

func runTestRPC(_ *cobra.Command, _ []string) error {
	cfg, err := loadEngineConfig(viper.GetString("config"))
	if err != nil {
		return err
	}
	if err := daemon.TestRPC(string(cfg.Raw)); err != nil {
		return err
	}
	slog.Info("bitcoind RPC check passed")
	return nil
}
