package main

import (
	"errors"
	"os"
	"os/exec"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/arjun-29/veil/internal/runwrap"
)

func newRunCmd(state *appState) *cobra.Command {
	return &cobra.Command{
		Use:   "run -- <cmd...>",
		Short: "Run a command with stored secrets scrubbed from its output",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := state.ready(); err != nil {
				return err
			}
			if cmd.ArgsLenAtDash() == -1 {
				return errors.New("run requires -- before the command")
			}
			runArgs := cmd.Flags().Args()
			if len(runArgs) == 0 {
				return errors.New("run requires a command after --")
			}

			secrets, err := collectSecrets(state)
			if err != nil {
				return err
			}

			command := exec.Command(runArgs[0], runArgs[1:]...)
			command.Env = os.Environ()
			code, err := runwrap.RunScrubbed(cmd.Context(), command, runwrap.Options{
				RawMode: term.IsTerminal(int(os.Stdin.Fd())),
				Secrets: secrets,
				Output:  os.Stdout,
			})
			if err != nil {
				return err
			}
			if code != 0 {
				return &exitCodeError{code: code}
			}
			return nil
		},
	}
}

// collectSecrets maps each stored payload's text encoding to the entry's
// redacted rendering.
func collectSecrets(state *appState) (map[string]string, error) {
	st, err := openStore(state)
	if err != nil {
		return nil, err
	}
	secrets := make(map[string]string, len(st.Entries))
	for _, entry := range st.Entries {
		v, err := entry.Decode()
		if err != nil {
			continue
		}
		secrets[entry.Value] = v.DisplayString()
		v.Close()
	}
	return secrets, nil
}
