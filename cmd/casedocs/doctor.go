package main

import (
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"

	"casedocs/internal/config"
	"casedocs/internal/scenario"
	"casedocs/internal/transport"

	"github.com/spf13/cobra"
)

func doctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Run diagnostic checks on your casedocs installation",
		Long: `Verifies that the configuration, scenario table, messaging credentials
and web port are correctly set up. Reports pass/fail for each check.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			cfgPath := config.ExpandPath(resolveConfigPath())
			fmt.Fprintf(out, "casedocs doctor v%s\n", version)
			fmt.Fprintf(out, "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n\n")

			r := &report{out: out}

			// 1. Config file exists (defaults are usable without one)
			if _, err := os.Stat(cfgPath); err != nil {
				r.warn("Config file", fmt.Sprintf("not found at %s, using defaults (run 'casedocs init')", cfgPath))
			} else {
				r.pass("Config file", cfgPath)
			}

			// 2. Config loads and validates
			cfg, err := loadConfig(cfgPath)
			if err != nil {
				r.fail("Config validation", err.Error())
				return r.summary()
			}
			r.pass("Config validation", "valid")

			// 3. Scenario table loads
			table, err := scenario.Load(cmd.Context(), cfg.Scenarios.Path, scenario.LoadOptions{
				SQLiteTable: cfg.Scenarios.SQLiteTable,
				Logger:      logger,
			})
			switch {
			case err != nil:
				r.fail("Scenarios", err.Error())
			case table.Len() == 0:
				r.warn("Scenarios", fmt.Sprintf("%s has no rows, nothing will match", cfg.Scenarios.Path))
			default:
				r.pass("Scenarios", fmt.Sprintf("%d rows from %s", table.Len(), cfg.Scenarios.Path))
			}

			// 4. Messaging credentials
			if _, err := transport.New(cfg.Transport, logger); err != nil {
				if errors.Is(err, config.ErrMissingCredentials) {
					r.warn("Transport: "+cfg.Transport.Provider, err.Error()+" (sending disabled)")
				} else {
					r.fail("Transport: "+cfg.Transport.Provider, err.Error())
				}
			} else {
				r.pass("Transport: "+cfg.Transport.Provider, "credentials configured")
			}

			// 5. Web port
			if err := checkPort(cfg.Web.Host, cfg.Web.Port); err != nil {
				r.warn("Web port", fmt.Sprintf("port %d may be in use: %v", cfg.Web.Port, err))
			} else {
				r.pass("Web port", fmt.Sprintf("%s:%d available", cfg.Web.Host, cfg.Web.Port))
			}

			// 6. Log file writable
			if cfg.General.LogFile != "" {
				if err := os.MkdirAll(filepath.Dir(cfg.General.LogFile), 0o755); err != nil {
					r.warn("Log file", fmt.Sprintf("cannot create log directory: %v", err))
				} else {
					r.pass("Log file", cfg.General.LogFile)
				}
			}

			return r.summary()
		},
	}
}

// report tallies and prints check results.
type report struct {
	out                    io.Writer
	passed, warned, failed int
}

func (r *report) pass(check, detail string) {
	r.passed++
	fmt.Fprintf(r.out, "  [PASS] %-20s %s\n", check, detail)
}

func (r *report) fail(check, detail string) {
	r.failed++
	fmt.Fprintf(r.out, "  [FAIL] %-20s %s\n", check, detail)
}

func (r *report) warn(check, detail string) {
	r.warned++
	fmt.Fprintf(r.out, "  [WARN] %-20s %s\n", check, detail)
}

func (r *report) summary() error {
	fmt.Fprintf(r.out, "\n━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n")
	fmt.Fprintf(r.out, "Results: %d passed, %d warnings, %d failed\n", r.passed, r.warned, r.failed)
	if r.failed > 0 {
		fmt.Fprintf(r.out, "\nPlease fix the failed checks before running casedocs.\n")
		return fmt.Errorf("%d check(s) failed", r.failed)
	}
	if r.warned > 0 {
		fmt.Fprintf(r.out, "\ncasedocs should work but consider fixing the warnings.\n")
	} else {
		fmt.Fprintf(r.out, "\nAll checks passed! casedocs is ready to run.\n")
	}
	return nil
}

func checkPort(host string, port int) error {
	ln, err := net.Listen("tcp", net.JoinHostPort(host, fmt.Sprint(port)))
	if err != nil {
		return err
	}
	return ln.Close()
}
