package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/arjun-29/veil/internal/config"
)

func newRootCmd(state *appState) *cobra.Command {
	var cfgPath string

	rootCmd := &cobra.Command{
		Use:          "veil",
		Short:        "Wrap secrets in redacting value types",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			resolvedPath, err := resolveConfigPath(cfgPath)
			if err != nil {
				return err
			}
			state.cfgPath = resolvedPath
			cfg, found, err := config.Load(resolvedPath)
			if err != nil {
				// Keep running on defaults so `init` and `validate` can
				// repair a broken config file.
				state.cfgErr = err
				state.cfg = config.DefaultConfig()
				return nil
			}
			state.cfg = cfg
			state.cfgFound = found
			if !found && cmd.Name() != "init" {
				fmt.Fprintln(os.Stderr, "veil: no config found; run `veil init`")
			}
			return cfg.Apply()
		},
	}

	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "config file path")

	rootCmd.AddCommand(newWrapCmd(state))
	rootCmd.AddCommand(newUnwrapCmd(state))
	rootCmd.AddCommand(newHashCmd(state))
	rootCmd.AddCommand(newValidateCmd(state))
	rootCmd.AddCommand(newListCmd(state))
	rootCmd.AddCommand(newRunCmd(state))
	rootCmd.AddCommand(newInitCmd(state, &cfgPath))
	rootCmd.AddCommand(newStatusCmd(state))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}
