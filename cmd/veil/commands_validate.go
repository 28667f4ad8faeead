package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arjun-29/veil/internal/template"
)

func newValidateCmd(state *appState) *cobra.Command {
	var tplFlag string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the config file and templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if tplFlag != "" {
				if err := template.Validate(tplFlag); err != nil {
					return fmt.Errorf("template: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "template: ok")
			}
			if state.cfgErr != nil {
				return fmt.Errorf("config %s: %w", state.cfgPath, state.cfgErr)
			}
			if !state.cfgFound {
				fmt.Fprintf(cmd.OutOrStdout(), "config %s: not found, defaults in effect\n", state.cfgPath)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "config %s: ok\n", state.cfgPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&tplFlag, "template", "", "validate a template against the sample context")
	return cmd
}
