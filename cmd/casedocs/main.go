package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"casedocs/internal/channel"
	"casedocs/internal/config"
	"casedocs/internal/domain"
	"casedocs/internal/notify"
	"casedocs/internal/scenario"

	"github.com/spf13/cobra"
)

var (
	version    = "0.1.0"
	logger     *slog.Logger
	configPath string // overridable via --config flag
)

func main() {
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	root := &cobra.Command{
		Use:          "casedocs",
		Short:        "casedocs: legal document checklists for client meetings",
		Long:         "casedocs suggests the documents a client should bring for a case and sends the checklist with the appointment details over WhatsApp, SMS, Telegram, Discord or Slack.",
		Version:      version,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config.json (default: ~/.casedocs/config.json)")

	root.AddCommand(initCmd())
	root.AddCommand(suggestCmd())
	root.AddCommand(sendCmd())
	root.AddCommand(sessionCmd())
	root.AddCommand(serveCmd())
	root.AddCommand(scenariosCmd())
	root.AddCommand(configCmd())
	root.AddCommand(doctorCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func initCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a default config and a sample scenario table",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath := config.ExpandPath(resolveConfigPath())
			cfgDir := filepath.Dir(cfgPath)
			if err := os.MkdirAll(cfgDir, 0o755); err != nil {
				return err
			}
			if _, err := os.Stat(cfgPath); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", cfgPath)
			}

			cfg := config.Defaults()
			cfg.Scenarios.Path = filepath.Join(cfgDir, "court_scenarios.csv")
			if err := config.Save(cfgPath, cfg); err != nil {
				return err
			}
			if _, err := os.Stat(cfg.Scenarios.Path); errors.Is(err, os.ErrNotExist) {
				if err := os.WriteFile(cfg.Scenarios.Path, sampleScenarios, 0o644); err != nil {
					return fmt.Errorf("write sample scenarios: %w", err)
				}
			}
			logger.Info("initialized", "config", cfgPath, "scenarios", cfg.Scenarios.Path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config")
	return cmd
}

func suggestCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "suggest [description...]",
		Short: "Suggest documents for a case description (reads stdin when no arguments)",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer a.Close()

			description := strings.Join(args, " ")
			if len(args) == 0 {
				data, err := io.ReadAll(io.LimitReader(cmd.InOrStdin(), 1<<20))
				if err != nil {
					return err
				}
				description = string(data)
			}

			result := scenario.Suggest(description, a.table)
			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, result)
			}
			if len(result.Documents) == 0 {
				_, _ = fmt.Fprintln(out, result.Message)
				return nil
			}
			for _, doc := range result.Documents {
				_, _ = fmt.Fprintln(out, notify.Bullet+doc)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	return cmd
}

func sendCmd() *cobra.Command {
	var (
		description string
		documents   []string
		client      string
		recipient   string
		date        string
		clock       string
		location    string
		asJSON      bool
	)
	cmd := &cobra.Command{
		Use:   "send",
		Short: "Send a document checklist and appointment details to a client",
		Long: `Sends one message through the configured transport. Documents come from
--doc, or are suggested from --description when no --doc is given.`,
		Example: `  casedocs send -d "divorce and child custody" --client Asha --to +15550001111 \
    --date 2024-05-01 --time 10:00 --location "Room 4"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := openApp(ctx, true)
			if err != nil {
				return err
			}
			defer a.Close()

			if len(documents) == 0 {
				result := scenario.Suggest(description, a.table)
				if len(result.Documents) == 0 {
					return errors.New(result.Message)
				}
				documents = result.Documents
			}

			appt, err := domain.ParseAppointment(date, clock, location, time.Now())
			if err != nil {
				return err
			}

			d := a.notifier.Send(ctx, notify.Request{
				ClientName:  client,
				Recipient:   recipient,
				Documents:   documents,
				Appointment: appt,
			})
			if asJSON {
				if err := writeJSON(cmd.OutOrStdout(), d); err != nil {
					return err
				}
			}
			if !d.OK() {
				return errors.New(d.Detail)
			}
			if !asJSON {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), d.Detail)
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVarP(&description, "description", "d", "", "case description used to suggest documents")
	f.StringSliceVar(&documents, "doc", nil, "document to request (repeatable); overrides --description")
	f.StringVar(&client, "client", "", "client name")
	f.StringVar(&recipient, "to", "", "recipient phone number or channel ID")
	f.StringVar(&date, "date", "", "appointment date, YYYY-MM-DD (default: today)")
	f.StringVar(&clock, "time", "", "appointment time, HH:MM (default: now)")
	f.StringVar(&location, "location", "", "appointment location")
	f.BoolVar(&asJSON, "json", false, "print the delivery as JSON")
	return cmd
}

func sessionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "session",
		Short: "Start the interactive checklist form in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := openApp(ctx, true)
			if err != nil {
				return err
			}
			defer a.Close()

			s := channel.NewSession(channel.SessionConfig{
				Table:    a.table,
				Notifier: a.notifier,
				Logger:   logger,
				In:       cmd.InOrStdin(),
				Out:      cmd.OutOrStdout(),
			})
			return s.Run(ctx)
		},
	}
}

func serveCmd() *cobra.Command {
	var (
		host string
		port int
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the checklist form, JSON API and metrics over HTTP",
		Long:  "Starts the web UI. Press Ctrl+C to stop.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := openApp(ctx, true)
			if err != nil {
				return err
			}
			defer a.Close()

			if cmd.Flags().Changed("host") {
				a.cfg.Web.Host = host
			}
			if cmd.Flags().Changed("port") {
				a.cfg.Web.Port = port
			}
			var metricsPath string
			if a.cfg.Metrics.Enabled {
				metricsPath = a.cfg.Metrics.Endpoint
			}

			web := channel.NewWeb(channel.WebConfig{
				Host:        a.cfg.Web.Host,
				Port:        a.cfg.Web.Port,
				Table:       a.table,
				Notifier:    a.notifier,
				Logger:      logger,
				Version:     version,
				MetricsPath: metricsPath,
			})
			return web.Start(ctx)
		},
	}
	cmd.Flags().StringVar(&host, "host", "", "listen host (overrides web.host)")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "listen port (overrides web.port)")
	return cmd
}

func scenariosCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "scenarios",
		Short: "List the loaded scenario table",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer a.Close()

			rows := a.table.Rows()
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), rows)
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			_, _ = fmt.Fprintln(tw, "DESCRIPTION\tDOCUMENTS")
			for _, row := range rows {
				_, _ = fmt.Fprintf(tw, "%s\t%s\n", row.Description, strings.Join(row.Suggestions(), ", "))
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "\n%d scenarios from %s\n", len(rows), a.cfg.Scenarios.Path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the table as JSON")
	return cmd
}

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "View and modify configuration",
		Long:  "Get, set, and list configuration values. Changes are saved to the config file.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get [path]",
		Short: "Get a config value (e.g. transport.provider)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(resolveConfigPath())
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			val, err := config.GetByPath(config.Sanitize(cfg), args[0])
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), val)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set [path] [value]",
		Short: "Set a config value (e.g. transport.provider telegram)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath := resolveConfigPath()
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := config.SetByPath(cfg, args[0], args[1]); err != nil {
				return fmt.Errorf("set value: %w", err)
			}
			if err := config.Validate(cfg); err != nil {
				return fmt.Errorf("config validation: %w", err)
			}
			if err := config.Save(cfgPath, cfg); err != nil {
				return fmt.Errorf("save config: %w", err)
			}
			logger.Info("config updated", "path", args[0], "file", cfgPath)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List all config values",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(resolveConfigPath())
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			return writeJSON(cmd.OutOrStdout(), config.ListPaths(config.Sanitize(cfg)))
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show config file path",
		Run: func(cmd *cobra.Command, args []string) {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), resolveConfigPath())
		},
	})

	return cmd
}

// resolveConfigPath returns the config path from --config flag or default.
func resolveConfigPath() string {
	if configPath != "" {
		return configPath
	}
	return config.DefaultConfigPath()
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

