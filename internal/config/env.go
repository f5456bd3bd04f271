package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// envOverlay lists the environment variables that override credentials and
// the scenario path. Unset variables leave the config untouched.
type envOverlay struct {
	TwilioAccountSID string `envconfig:"TWILIO_ACCOUNT_SID"`
	TwilioAuthToken  string `envconfig:"TWILIO_AUTH_TOKEN"`
	TwilioFrom       string `envconfig:"TWILIO_WHATSAPP_NUMBER"`
	WhatsAppToken    string `envconfig:"WHATSAPP_ACCESS_TOKEN"`
	WhatsAppPhoneID  string `envconfig:"WHATSAPP_PHONE_NUMBER_ID"`
	TelegramToken    string `envconfig:"TELEGRAM_BOT_TOKEN"`
	DiscordToken     string `envconfig:"DISCORD_BOT_TOKEN"`
	SlackToken       string `envconfig:"SLACK_BOT_TOKEN"`
	Provider         string `envconfig:"CASEDOCS_TRANSPORT"`
	ScenariosPath    string `envconfig:"CASEDOCS_SCENARIOS"`
}

// LoadDotEnv loads a .env file from each directory that has one. Variables
// already set in the process environment win.
func LoadDotEnv(dirs ...string) error {
	seen := make(map[string]bool)
	for _, dir := range dirs {
		path := filepath.Join(dir, ".env")
		abs, err := filepath.Abs(path)
		if err == nil {
			if seen[abs] {
				continue
			}
			seen[abs] = true
		}
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("cannot load %s: %w", path, err)
		}
	}
	return nil
}

// ApplyEnv overlays well-known environment variables onto cfg.
func ApplyEnv(cfg *Config) error {
	var o envOverlay
	if err := envconfig.Process("", &o); err != nil {
		return fmt.Errorf("read environment: %w", err)
	}

	set := func(dst *string, val string) {
		if val != "" {
			*dst = val
		}
	}
	set(&cfg.Transport.Twilio.AccountSID, o.TwilioAccountSID)
	set(&cfg.Transport.Twilio.AuthToken, o.TwilioAuthToken)
	set(&cfg.Transport.Twilio.From, o.TwilioFrom)
	set(&cfg.Transport.WhatsApp.AccessToken, o.WhatsAppToken)
	set(&cfg.Transport.WhatsApp.PhoneNumberID, o.WhatsAppPhoneID)
	set(&cfg.Transport.Telegram.Token, o.TelegramToken)
	set(&cfg.Transport.Discord.Token, o.DiscordToken)
	set(&cfg.Transport.Slack.BotToken, o.SlackToken)
	set(&cfg.Transport.Provider, o.Provider)
	set(&cfg.Scenarios.Path, o.ScenariosPath)
	return nil
}
