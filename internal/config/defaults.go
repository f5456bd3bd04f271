package config

// TwilioSandboxNumber is Twilio's shared WhatsApp sandbox sender.
const TwilioSandboxNumber = "whatsapp:+14155238886"

func Defaults() *Config {
	return &Config{
		General: GeneralConfig{
			LogLevel: "info",
		},
		Scenarios: ScenariosConfig{
			Path:        "court_scenarios.csv",
			SQLiteTable: "court_scenarios",
		},
		Transport: TransportConfig{
			Provider: ProviderTwilio,
			Twilio: TwilioConfig{
				From:    TwilioSandboxNumber,
				Channel: "whatsapp",
			},
			WhatsApp: WhatsAppConfig{
				APIBase: "https://graph.facebook.com/v21.0",
			},
		},
		Web: WebConfig{
			Host: "127.0.0.1",
			Port: 8080,
		},
		Metrics: MetricsConfig{
			Enabled:  true,
			Endpoint: "/metrics",
		},
	}
}
