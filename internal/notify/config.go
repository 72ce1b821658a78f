package notify

import (
	"fmt"
	"os"
	"time"
)

// Config enables the delivery channels. An empty SMTP host or AMQP URL
// disables that channel.
type Config struct {
	SMTP SMTPConfig
	AMQP AMQPConfig
}

type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
	Timeout  time.Duration
}

type AMQPConfig struct {
	URL      string
	Exchange string
	Timeout  time.Duration
}

// DefaultConfig returns a config with every channel disabled.
func DefaultConfig() Config {
	return Config{
		SMTP: SMTPConfig{Port: "587", Timeout: 10 * time.Second},
		AMQP: AMQPConfig{Exchange: "learnpath.events", Timeout: 5 * time.Second},
	}
}

// ConfigFromEnv reads LEARNPATH_SMTP_* and LEARNPATH_AMQP_* variables over
// the defaults.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	overrides := []struct {
		env string
		dst *string
	}{
		{"LEARNPATH_SMTP_HOST", &cfg.SMTP.Host},
		{"LEARNPATH_SMTP_PORT", &cfg.SMTP.Port},
		{"LEARNPATH_SMTP_USERNAME", &cfg.SMTP.Username},
		{"LEARNPATH_SMTP_PASSWORD", &cfg.SMTP.Password},
		{"LEARNPATH_SMTP_FROM", &cfg.SMTP.From},
		{"LEARNPATH_AMQP_URL", &cfg.AMQP.URL},
		{"LEARNPATH_AMQP_EXCHANGE", &cfg.AMQP.Exchange},
	}
	for _, o := range overrides {
		if v := os.Getenv(o.env); v != "" {
			*o.dst = v
		}
	}
	if cfg.SMTP.From == "" {
		cfg.SMTP.From = cfg.SMTP.Username
	}
	return cfg
}

func (c Config) Validate() error {
	if c.SMTP.Host != "" && c.SMTP.From == "" {
		return fmt.Errorf("LEARNPATH_SMTP_FROM or LEARNPATH_SMTP_USERNAME is required when SMTP is enabled")
	}
	if c.AMQP.URL != "" && c.AMQP.Exchange == "" {
		return fmt.Errorf("LEARNPATH_AMQP_EXCHANGE must not be empty")
	}
	return nil
}
