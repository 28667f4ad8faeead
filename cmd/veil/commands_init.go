package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/arjun-29/veil/internal/audit"
	"github.com/arjun-29/veil/internal/config"
	"github.com/arjun-29/veil/internal/template"
	"github.com/arjun-29/veil/internal/types"
)

func newInitCmd(state *appState, cfgPath *string) *cobra.Command {
	var useDefaults bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Run the first-time setup wizard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := resolveConfigPath(*cfgPath)
			if err != nil {
				return err
			}

			cfg := config.DefaultConfig()
			if useDefaults {
				if exists(path) {
					fmt.Printf("Config exists, overwriting: %s\n", path)
				}
				return writeInitConfig(state, path, cfg)
			}

			level := string(cfg.Security.Level)
			auditChanges := cfg.Security.AuditConfigChanges
			defaultTemplate := cfg.Redaction.DefaultTemplate
			overwrite := false

			form := huh.NewForm(
				huh.NewGroup(
					huh.NewConfirm().Title("Config exists. Overwrite?").Value(&overwrite),
				).WithHideFunc(func() bool { return !exists(path) }),
				huh.NewGroup(
					huh.NewSelect[string]().Title("Security level").Value(&level).Options(
						huh.NewOption("Standard (warn on policy violations, default)", string(types.SecurityStandard)),
						huh.NewOption("Paranoid (block violations, no unwrap)", string(types.SecurityParanoid)),
						huh.NewOption("Minimal (no policy, no audit)", string(types.SecurityMinimal)),
					),
				),
				huh.NewGroup(
					huh.NewConfirm().Title("Audit config changes?").Value(&auditChanges),
				).WithHideFunc(func() bool { return level == string(types.SecurityMinimal) }),
				huh.NewGroup(
					huh.NewInput().
						Title("Default redaction template (empty for built-in)").
						Value(&defaultTemplate).
						Validate(func(v string) error {
							if strings.TrimSpace(v) == "" {
								return nil
							}
							return template.Validate(v)
						}),
				),
			)

			if err := form.Run(); err != nil {
				return err
			}
			if exists(path) && !overwrite {
				return errors.New("init cancelled")
			}

			cfg.Security.Level = types.SecurityLevel(level)
			cfg.Security.AuditConfigChanges = auditChanges
			if cfg.Security.Level != types.SecurityMinimal {
				// standard/paranoid refuse to run without an audit trail.
				cfg.Security.AuditConfigChanges = true
			}
			cfg.Redaction.DefaultTemplate = strings.TrimSpace(defaultTemplate)

			return writeInitConfig(state, path, cfg)
		},
	}

	cmd.Flags().BoolVar(&useDefaults, "default", false, "write default config without prompts")
	return cmd
}

func writeInitConfig(state *appState, path string, cfg config.Config) error {
	if err := config.Write(path, cfg); err != nil {
		return err
	}
	fmt.Printf("Wrote config to %s\n", path)

	if cfg.Security.Level != types.SecurityMinimal && cfg.Security.AuditConfigChanges {
		auditPath, err := cfg.AuditPath()
		if err != nil {
			return err
		}
		trail, err := audit.Open(auditPath)
		if err != nil {
			return err
		}
		defer trail.Close()
		trail.Record(audit.ActionConfigChange, "", "", fmt.Sprintf("init wrote %s (level=%s)", path, cfg.Security.Level))
	}
	state.cfg = cfg
	state.cfgFound = true
	state.cfgErr = nil
	return nil
}
