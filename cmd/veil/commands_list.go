package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newListCmd(state *appState) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored secrets with redacted renderings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := state.ready(); err != nil {
				return err
			}
			st, err := openStore(state)
			if err != nil {
				return err
			}
			if len(st.Entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no secrets stored")
				return nil
			}
			for _, entry := range st.Entries {
				v, err := entry.Decode()
				if err != nil {
					fmt.Fprintf(cmd.OutOrStdout(), "%-20s %-8s (undecodable: %v)\n", entry.Name, entry.Kind, err)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-20s %-8s %s\n", entry.Name, entry.Kind, v.DisplayString())
				v.Close()
			}
			return nil
		},
	}
}
