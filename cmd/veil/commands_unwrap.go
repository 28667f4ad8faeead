package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arjun-29/veil/internal/audit"
	"github.com/arjun-29/veil/internal/types"
)

func newUnwrapCmd(state *appState) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "unwrap <name>",
		Short: "Reveal a stored secret's raw payload",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := state.ready(); err != nil {
				return err
			}
			if state.cfg.Security.Level == types.SecurityParanoid && !force {
				return errors.New("unwrap is disabled under security.level paranoid; pass --force to override")
			}

			st, err := openStore(state)
			if err != nil {
				return err
			}
			entry, err := st.Get(args[0])
			if err != nil {
				return err
			}
			v, err := entry.Decode()
			if err != nil {
				return err
			}
			defer v.Close()

			trail, err := openTrail(state)
			if err != nil {
				return err
			}
			defer trail.Close()
			trail.Record(audit.ActionUnwrap, entry.Name, entry.Kind, v.DisplayString())

			// The stored text encoding is the payload itself.
			fmt.Fprintln(cmd.OutOrStdout(), entry.Value)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "reveal even under paranoid")
	return cmd
}
