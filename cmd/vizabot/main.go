package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jakhon09-png/vizabot/core/buildinfo"
	corecmd "github.com/jakhon09-png/vizabot/core/cmd"
	"github.com/jakhon09-png/vizabot/internal/app"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:   "vizabot",
		Short: "Telegram session router bot",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config file (overrides CONFIG_PATH)")

	run := &cobra.Command{
		Use:   "run",
		Short: "Start the bot",
		RunE: func(cmd *cobra.Command, args []string) error {
			return corecmd.Run(corecmd.Options{
				ConfigPath:        configPath,
				DefaultConfigPath: "config.yaml",
				LoadConfig:        app.LoadConfig,
				Bootstrap:         app.Bootstrap,
			})
		},
	}

	version := &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "vizabot %s (%s) %s\n",
				buildinfo.Version, buildinfo.Commit, buildinfo.Date)
		},
	}

	root.AddCommand(run, version)
	return root
}
