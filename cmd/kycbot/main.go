package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const defaultConfigPath = "config.yaml"

var configPath string

// rootCmd runs the bot when invoked without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "kycbot",
	Short: "Membership-gated KYC activation bot for Telegram",
	Long: `kycbot runs a Telegram bot that admits users after they join the required
channels, plays the KYC activation flow, keeps the activation leaderboard and
lets admins broadcast to every user.

Configuration is read from --config, $CONFIG_PATH or ./config.yaml, in that
order, and environment variables override file values.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBot()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to the YAML config file")
	rootCmd.AddCommand(runCmd, migrateCmd, seedAdminsCmd, versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
