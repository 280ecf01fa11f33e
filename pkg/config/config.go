// pkg/config/config.go

package config

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Configuration is built once at startup and handed to the components that
// need it.
type Configuration struct {
	App     AppConfig     `mapstructure:"app" validate:"required"`
	Server  ServerConfig  `mapstructure:"server" validate:"required"`
	SMTP    SMTPConfig    `mapstructure:"smtp"`
	Webhook WebhookConfig `mapstructure:"webhook"`
	Logging LoggingConfig `mapstructure:"logging" validate:"required"`
}

type AppConfig struct {
	Name    string `mapstructure:"name" validate:"required"`
	BaseURL string `mapstructure:"base_url" validate:"omitempty,url"`
	Brand   string `mapstructure:"brand"`
}

type ServerConfig struct {
	Port         int           `mapstructure:"port" validate:"required,min=1,max=65535"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// SMTPConfig holds the mail submission credentials. Any of them may be
// empty; the mailer refuses to send until all are set.
type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port" validate:"min=0,max=65535"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"pass"`
	From     string `mapstructure:"from" validate:"omitempty,email"`
}

// Complete reports whether every credential needed to submit mail is set.
func (c SMTPConfig) Complete() bool {
	return c.Host != "" && c.Port != 0 && c.User != "" && c.Password != ""
}

type WebhookConfig struct {
	// Secret enables signature verification when non-empty.
	Secret string `mapstructure:"secret"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
}

// Load reads an optional .env file, then the environment.
func Load() (*Configuration, error) {
	// a missing .env is fine, production sets the environment directly
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// env names that don't follow the key layout
	_ = v.BindEnv("server.port", "PORT")
	_ = v.BindEnv("smtp.from", "SMTP_FROM", "FROM_EMAIL")
	_ = v.BindEnv("webhook.secret", "WEBHOOK_SECRET", "HOTMART_WEBHOOK_SECRET")

	var config Configuration
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	config.App.BaseURL = strings.TrimRight(config.App.BaseURL, "/")
	if config.App.Brand == "" {
		config.App.Brand = config.App.Name
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "Receipt Lite")
	v.SetDefault("app.base_url", "https://yourapp.onrender.com")
	v.SetDefault("app.brand", "")
	v.SetDefault("server.port", 10000)
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("smtp.host", "")
	v.SetDefault("smtp.port", 587)
	v.SetDefault("smtp.user", "")
	v.SetDefault("smtp.pass", "")
	v.SetDefault("smtp.from", "no-reply@yourapp.com")
	v.SetDefault("webhook.secret", "")
	v.SetDefault("logging.level", "info")
}

func (c Configuration) Validate() error {
	validate := validator.New()
	return validate.Struct(c)
}

// GetDefaultConfig returns a configuration for local runs and tests.
func GetDefaultConfig() *Configuration {
	return &Configuration{
		App: AppConfig{
			Name:    "Receipt Lite",
			BaseURL: "https://yourapp.onrender.com",
			Brand:   "Receipt Lite",
		},
		Server: ServerConfig{
			Port:         10000,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		SMTP: SMTPConfig{
			Port: 587,
			From: "no-reply@yourapp.com",
		},
		Logging: LoggingConfig{Level: "info"},
	}
}
