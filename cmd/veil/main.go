package main

import (
	"fmt"
	"os"

	"github.com/arjun-29/veil/internal/config"
)

type appState struct {
	cfg      config.Config
	cfgFound bool
	cfgPath  string
	cfgErr   error
}

// ready reports whether the loaded config is usable. Commands that touch
// secrets refuse to run against a broken config instead of degrading.
func (s *appState) ready() error {
	return s.cfgErr
}

type exitCodeError struct {
	code int
}

func (e *exitCodeError) Error() string {
	return fmt.Sprintf("command exited with code %d", e.code)
}

func main() {
	state := &appState{}
	rootCmd := newRootCmd(state)
	if err := rootCmd.Execute(); err != nil {
		if exitErr, ok := err.(*exitCodeError); ok {
			os.Exit(exitErr.code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
