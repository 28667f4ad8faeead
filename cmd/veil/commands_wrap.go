package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/arjun-29/veil/internal/audit"
	"github.com/arjun-29/veil/internal/policy"
	"github.com/arjun-29/veil/internal/store"
	"github.com/arjun-29/veil/internal/types"
)

func newWrapCmd(state *appState) *cobra.Command {
	var (
		kindFlag  string
		valueFlag string
		tplFlag   string
		nameFlag  string
	)

	cmd := &cobra.Command{
		Use:   "wrap",
		Short: "Wrap a value into a redacting secret",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := state.ready(); err != nil {
				return err
			}
			kind, err := types.ParseKind(kindFlag)
			if err != nil {
				return err
			}
			raw, err := readSecretValue(cmd, valueFlag)
			if err != nil {
				return err
			}

			entry := store.Entry{
				Name:     nameFlag,
				Kind:     kind,
				Value:    raw,
				Template: tplFlag,
			}
			if entry.Name == "" {
				entry.Name = "(unnamed)"
			}
			v, err := entry.Decode()
			if err != nil {
				return err
			}
			defer v.Close()

			engine, err := policy.Compile(state.cfg.Policy.Rules)
			if err != nil {
				return err
			}
			warnings, err := engine.Enforce(state.cfg.Security.Level, v)
			if err != nil {
				return err
			}
			for _, name := range warnings {
				fmt.Fprintf(os.Stderr, "veil: policy warning: rule %q failed\n", name)
			}

			trail, err := openTrail(state)
			if err != nil {
				return err
			}
			defer trail.Close()

			if nameFlag != "" {
				st, err := openStore(state)
				if err != nil {
					return err
				}
				entry.Name = nameFlag
				dups, err := st.Put(entry)
				if err != nil {
					return err
				}
				for _, dup := range dups {
					fmt.Fprintf(os.Stderr, "veil: payload duplicates entry %q\n", dup)
				}
				if err := st.Save(); err != nil {
					return err
				}
			}

			trail.Record(audit.ActionWrap, nameFlag, kind, v.DisplayString())
			fmt.Fprintln(cmd.OutOrStdout(), v.DisplayString())
			return nil
		},
	}

	cmd.Flags().StringVar(&kindFlag, "type", "string", "secret kind (string|int|bool|float|date|binary)")
	cmd.Flags().StringVar(&valueFlag, "value", "", "value in its text encoding (prompted when omitted)")
	cmd.Flags().StringVar(&tplFlag, "template", "", "redaction template for this secret")
	cmd.Flags().StringVar(&nameFlag, "name", "", "store the secret under this name")
	return cmd
}

// readSecretValue resolves the payload: the flag, piped stdin, or a
// no-echo terminal prompt, in that order.
func readSecretValue(cmd *cobra.Command, flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read value: %w", err)
		}
		value := strings.TrimRight(string(data), "\r\n")
		if value == "" {
			return "", errors.New("empty value on stdin")
		}
		return value, nil
	}
	fmt.Fprint(os.Stderr, "Value: ")
	data, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("read value: %w", err)
	}
	if len(data) == 0 {
		return "", errors.New("empty value")
	}
	return string(data), nil
}
