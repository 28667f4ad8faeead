package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arjun-29/veil/internal/secret"
	"github.com/arjun-29/veil/internal/types"
)

func newStatusCmd(state *appState) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Print effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Printf("config_path=%s\n", state.cfgPath)
			fmt.Printf("config_found=%t\n", state.cfgFound)
			if state.cfgErr != nil {
				fmt.Printf("config_error=%v\n", state.cfgErr)
			}
			fmt.Printf("security_level=%s\n", state.cfg.Security.Level)
			fmt.Printf("audit_config_changes=%t\n", state.cfg.Security.AuditConfigChanges)
			fmt.Printf("default_template=%s\n", secret.DefaultTemplate())
			fmt.Printf("policy_rules=%d\n", len(state.cfg.Policy.Rules))
			if storePath, err := state.cfg.StorePath(); err == nil {
				fmt.Printf("store_path=%s\n", storePath)
			}
			if state.cfg.Security.Level != types.SecurityMinimal {
				if auditPath, err := state.cfg.AuditPath(); err == nil {
					fmt.Printf("audit_path=%s\n", auditPath)
				}
			}
			return nil
		},
	}
}
