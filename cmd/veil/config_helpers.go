package main

import (
	"os"
	"strings"

	"github.com/arjun-29/veil/internal/audit"
	"github.com/arjun-29/veil/internal/config"
	"github.com/arjun-29/veil/internal/store"
	"github.com/arjun-29/veil/internal/types"
)

func resolveConfigPath(override string) (string, error) {
	override = strings.TrimSpace(override)
	if override != "" {
		return override, nil
	}
	if env := strings.TrimSpace(os.Getenv("VEIL_CONFIG")); env != "" {
		return env, nil
	}
	return config.DefaultPath()
}

func exists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// openTrail opens the audit trail for the current security level. Under
// minimal no trail is kept and the returned nil Trail drops every event.
func openTrail(state *appState) (*audit.Trail, error) {
	if state.cfg.Security.Level == types.SecurityMinimal {
		return nil, nil
	}
	path, err := state.cfg.AuditPath()
	if err != nil {
		return nil, err
	}
	return audit.Open(path)
}

func openStore(state *appState) (*store.Store, error) {
	path, err := state.cfg.StorePath()
	if err != nil {
		return nil, err
	}
	return store.Load(path)
}
