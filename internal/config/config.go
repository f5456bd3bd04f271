package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Transport provider names.
const (
	ProviderTwilio   = "twilio"
	ProviderWhatsApp = "whatsapp"
	ProviderTelegram = "telegram"
	ProviderDiscord  = "discord"
	ProviderSlack    = "slack"
)

// ErrMissingCredentials means the selected transport cannot authenticate.
// Suggestions keep working; only sending is disabled.
var ErrMissingCredentials = errors.New("missing messaging credentials")

// Config is the root configuration for casedocs.
type Config struct {
	General   GeneralConfig   `json:"general"`
	Scenarios ScenariosConfig `json:"scenarios"`
	Transport TransportConfig `json:"transport"`
	Web       WebConfig       `json:"web"`
	Metrics   MetricsConfig   `json:"metrics"`
}

type GeneralConfig struct {
	LogLevel string `json:"logLevel"`
	LogFile  string `json:"logFile,omitempty"` // optional log file path
}

// ScenariosConfig points at the scenario table (.csv, .yaml or SQLite).
type ScenariosConfig struct {
	Path        string `json:"path"`
	SQLiteTable string `json:"sqliteTable,omitempty"`
}

// TransportConfig selects exactly one messaging transport.
type TransportConfig struct {
	Provider string         `json:"provider"` // twilio | whatsapp | telegram | discord | slack
	Twilio   TwilioConfig   `json:"twilio"`
	WhatsApp WhatsAppConfig `json:"whatsapp"`
	Telegram TelegramConfig `json:"telegram"`
	Discord  DiscordConfig  `json:"discord"`
	Slack    SlackConfig    `json:"slack"`
}

type TwilioConfig struct {
	AccountSID string `json:"accountSid,omitempty"`
	AuthToken  string `json:"authToken,omitempty"`
	From       string `json:"from"`
	Channel    string `json:"channel"` // "whatsapp" | "sms"
}

// WhatsAppConfig configures the WhatsApp Business Cloud API.
type WhatsAppConfig struct {
	AccessToken   string `json:"accessToken,omitempty"`
	PhoneNumberID string `json:"phoneNumberId,omitempty"`
	APIBase       string `json:"apiBase,omitempty"`
}

type TelegramConfig struct {
	Token string `json:"token,omitempty"`
}

type DiscordConfig struct {
	Token string `json:"token,omitempty"`
}

type SlackConfig struct {
	BotToken string `json:"botToken,omitempty"`
}

type WebConfig struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

// MetricsConfig configures the Prometheus endpoint served by `casedocs serve`.
type MetricsConfig struct {
	Enabled  bool   `json:"enabled"`
	Endpoint string `json:"endpoint"`
}

// DefaultConfigDir returns the default config directory (~/.casedocs).
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".casedocs"
	}
	return filepath.Join(home, ".casedocs")
}

func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.json")
}

// Load reads the config file at path. Before parsing, .env files next to the
// config and in the working directory are loaded, ${VAR} references are
// expanded, and well-known credential variables override the file.
func Load(path string) (*Config, error) {
	path = ExpandPath(path)

	if err := LoadDotEnv(filepath.Dir(path), "."); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read config file %s: %w", path, err)
	}

	// Substitute environment variables: ${VAR} and ${VAR:-default}
	data = []byte(ExpandEnvVars(string(data)))

	cfg := Defaults()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("cannot parse config file %s: %w", path, err)
	}

	if err := ApplyEnv(cfg); err != nil {
		return nil, err
	}

	cfg.Scenarios.Path = ExpandPath(cfg.Scenarios.Path)
	cfg.General.LogFile = ExpandPath(cfg.General.LogFile)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// envVarPattern matches ${VAR} and ${VAR:-default} patterns in config strings.
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?::-(.*?))?\}`)

// ExpandEnvVars replaces ${VAR} with the environment variable value.
// Supports default values: ${VAR:-default} uses "default" when VAR is unset or empty.
func ExpandEnvVars(input string) string {
	return envVarPattern.ReplaceAllStringFunc(input, func(match string) string {
		groups := envVarPattern.FindStringSubmatch(match)
		if len(groups) < 2 {
			return match
		}
		varName := groups[1]
		defaultVal := ""
		hasDefault := len(groups) >= 3 && groups[2] != ""
		if hasDefault {
			defaultVal = groups[2]
		}

		val, exists := os.LookupEnv(varName)
		if !exists || val == "" {
			if hasDefault {
				return defaultVal
			}
			return match // Keep original if no env var and no default
		}
		return val
	})
}

func Save(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("cannot create config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("cannot marshal config: %w", err)
	}

	// Credentials may be stored inline.
	return os.WriteFile(path, data, 0o600)
}

// Validate checks that the config has valid values. Missing credentials are
// not a validation error; see TransportConfig.CheckCredentials.
func Validate(cfg *Config) error {
	var errs []string

	switch cfg.General.LogLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		errs = append(errs, "general.logLevel must be one of: debug, info, warn, error")
	}

	if strings.TrimSpace(cfg.Scenarios.Path) == "" {
		errs = append(errs, "scenarios.path is required")
	}

	switch cfg.Transport.Provider {
	case ProviderTwilio, ProviderWhatsApp, ProviderTelegram, ProviderDiscord, ProviderSlack:
		// valid
	default:
		errs = append(errs, "transport.provider must be one of: twilio, whatsapp, telegram, discord, slack")
	}
	switch cfg.Transport.Twilio.Channel {
	case "whatsapp", "sms":
		// valid
	default:
		errs = append(errs, "transport.twilio.channel must be one of: whatsapp, sms")
	}

	if cfg.Web.Port < 0 || cfg.Web.Port > 65535 {
		errs = append(errs, "web.port must be between 0 and 65535")
	}
	if cfg.Metrics.Enabled && !strings.HasPrefix(cfg.Metrics.Endpoint, "/") {
		errs = append(errs, "metrics.endpoint must start with /")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation errors:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// CheckCredentials reports which credentials the selected provider lacks.
// The returned error wraps ErrMissingCredentials.
func (t TransportConfig) CheckCredentials() error {
	var missing []string
	need := func(val, name string) {
		if strings.TrimSpace(val) == "" {
			missing = append(missing, name)
		}
	}

	switch t.Provider {
	case ProviderTwilio:
		need(t.Twilio.AccountSID, "TWILIO_ACCOUNT_SID")
		need(t.Twilio.AuthToken, "TWILIO_AUTH_TOKEN")
		need(t.Twilio.From, "transport.twilio.from")
		// The sandbox sender only exists on WhatsApp.
		if t.Twilio.Channel == "sms" && strings.TrimPrefix(t.Twilio.From, "whatsapp:") == strings.TrimPrefix(TwilioSandboxNumber, "whatsapp:") {
			missing = append(missing, "transport.twilio.from (an SMS-capable number, not the WhatsApp sandbox)")
		}
	case ProviderWhatsApp:
		need(t.WhatsApp.AccessToken, "WHATSAPP_ACCESS_TOKEN")
		need(t.WhatsApp.PhoneNumberID, "WHATSAPP_PHONE_NUMBER_ID")
	case ProviderTelegram:
		need(t.Telegram.Token, "TELEGRAM_BOT_TOKEN")
	case ProviderDiscord:
		need(t.Discord.Token, "DISCORD_BOT_TOKEN")
	case ProviderSlack:
		need(t.Slack.BotToken, "SLACK_BOT_TOKEN")
	default:
		return fmt.Errorf("unknown transport provider %q", t.Provider)
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w for %s: %s", ErrMissingCredentials, t.Provider, strings.Join(missing, ", "))
	}
	return nil
}

// ExpandPath resolves ~/ to the user's home directory.
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}
