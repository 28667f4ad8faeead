package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arjun-29/veil/internal/audit"
	"github.com/arjun-29/veil/internal/store"
	"github.com/arjun-29/veil/internal/types"
)

func newHashCmd(state *appState) *cobra.Command {
	var (
		kindFlag  string
		valueFlag string
	)

	cmd := &cobra.Command{
		Use:   "hash [name]",
		Short: "Print the SHA-256 hex of a secret's payload",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := state.ready(); err != nil {
				return err
			}

			var entry store.Entry
			switch {
			case len(args) == 1:
				st, err := openStore(state)
				if err != nil {
					return err
				}
				entry, err = st.Get(args[0])
				if err != nil {
					return err
				}
			case valueFlag != "":
				kind, err := types.ParseKind(kindFlag)
				if err != nil {
					return err
				}
				entry = store.Entry{Name: "(direct)", Kind: kind, Value: valueFlag}
			default:
				return errors.New("hash requires a stored name or --value")
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
			trail.Record(audit.ActionHash, entry.Name, entry.Kind, v.HashHex())

			fmt.Fprintln(cmd.OutOrStdout(), v.HashHex())
			return nil
		},
	}

	cmd.Flags().StringVar(&kindFlag, "type", "string", "secret kind for --value")
	cmd.Flags().StringVar(&valueFlag, "value", "", "hash a direct value instead of a stored entry")
	return cmd
}
