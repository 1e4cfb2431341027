package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/emamhosenCSE/aeos365-hrm/internal/utils"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type AppConfig struct {
	APP struct {
		Name  string `mapstructure:"NAME"`
		Port  string `mapstructure:"PORT"`
		State string `mapstructure:"STATE"`
	}

	DATABASE struct {
		Driver   string `mapstructure:"DRIVER"`
		Postgres struct {
			DSN string `mapstructure:"DSN"`
		}
		SQLite struct {
			Path string `mapstructure:"PATH"`
		}
		Redis struct {
			Addr     string `mapstructure:"ADDR"`
			Password string `mapstructure:"PASSWORD"`
		}
	}

	APP_SECRET struct {
		Paseto struct {
			HexKey string `mapstructure:"HEX_KEY"`
		}
	}

	MAILTRAP struct {
		Sandbox struct {
			SandboxURL    string `mapstructure:"SANDBOX_URL"`
			SandboxAPI    string `mapstructure:"SANDBOX_API"`
			SandboxDomain string `mapstructure:"SANDBOX_DOMAIN"`
		}
		API struct {
			MailtrapTokenAPI string `mapstructure:"MAILTRAP_TOKEN_API"`
			MailtrapURL      string `mapstructure:"MAILTRAP_URL"`
			MailtrapDomain   string `mapstructure:"MAILTRAP_DOMAIN"`
		}
	}

	TELEGRAM struct {
		Token  string `mapstructure:"TOKEN"`
		ChatID int64  `mapstructure:"CHAT_ID"`
	}

	LIFECYCLE LifecycleConfig
}

// LifecycleConfig steuert das Verhalten des Onboarding/Offboarding-Moduls.
type LifecycleConfig struct {
	EnforceSingleOpenCase bool          `mapstructure:"ENFORCE_SINGLE_OPEN_CASE"`
	CacheTTL              time.Duration `mapstructure:"CACHE_TTL"`
	BulkLimit             int           `mapstructure:"BULK_LIMIT"`
	Templates             struct {
		Onboarding  []TemplateTask `mapstructure:"ONBOARDING"`
		Offboarding []TemplateTask `mapstructure:"OFFBOARDING"`
	} `mapstructure:"TEMPLATES"`
}

type TemplateTask struct {
	Label       string `mapstructure:"LABEL"`
	Description string `mapstructure:"DESCRIPTION"`
	DueInDays   int    `mapstructure:"DUE_IN_DAYS"`
}

var DefaultOnboardingTemplate = []TemplateTask{
	{Label: "Complete HR documentation", DueInDays: 3},
	{Label: "IT equipment setup", DueInDays: 1},
	{Label: "Create system accounts", DueInDays: 1},
	{Label: "Assign buddy / mentor", DueInDays: 5},
	{Label: "Orientation session", DueInDays: 7},
}

var DefaultOffboardingTemplate = []TemplateTask{
	{Label: "Collect company equipment", DueInDays: 0},
	{Label: "Revoke system access", DueInDays: 0},
	{Label: "Knowledge transfer", DueInDays: -5},
	{Label: "Exit interview", DueInDays: -2},
	{Label: "Final settlement", DueInDays: 14},
}

func LoadConfig() (*AppConfig, error) {
	v := viper.New()
	v.SetConfigName("application")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.SetEnvPrefix("HRM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			log.Error().Err(err).Msg("Fehler beim Lesen der Konfigurationsdatei")
			return nil, fmt.Errorf("read config: %w", err)
		}
		log.Warn().Msg("Keine application.yaml gefunden, verwende Defaults und Umgebungsvariablen")
	}

	var config AppConfig
	if err := v.Unmarshal(&config); err != nil {
		log.Error().Err(err).Msg("Fehler beim Entpacken der Konfiguration")
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := config.normalize(); err != nil {
		return nil, err
	}

	log.Info().Str("driver", config.DATABASE.Driver).Msg("Konfiguration geladen...")
	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP.NAME", "aeos365-hrm")
	v.SetDefault("APP.PORT", "8080")
	v.SetDefault("APP.STATE", "local")
	v.SetDefault("DATABASE.DRIVER", DriverPostgres)
	v.SetDefault("DATABASE.SQLITE.PATH", "hrm.db")
	v.SetDefault("DATABASE.REDIS.ADDR", "localhost:6379")
	v.SetDefault("LIFECYCLE.ENFORCE_SINGLE_OPEN_CASE", true)
	v.SetDefault("LIFECYCLE.CACHE_TTL", "5m")
	v.SetDefault("LIFECYCLE.BULK_LIMIT", 200)
}

func (c *AppConfig) normalize() error {
	if c.APP.Port == "" {
		c.APP.Port = "8080"
	}

	switch c.DATABASE.Driver {
	case DriverPostgres:
		if c.DATABASE.Postgres.DSN == "" {
			log.Error().Msg("Datenbank-DSN ist nicht konfiguriert")
			return errors.New("config: DATABASE.POSTGRES.DSN is required for the postgres driver")
		}
	case DriverSQLite:
		if c.DATABASE.SQLite.Path == "" {
			return errors.New("config: DATABASE.SQLITE.PATH is required for the sqlite driver")
		}
	default:
		return fmt.Errorf("config: unknown DATABASE.DRIVER %q", c.DATABASE.Driver)
	}

	if c.APP_SECRET.Paseto.HexKey == "" {
		c.APP_SECRET.Paseto.HexKey = utils.GenerateSymmetricKey()
		log.Warn().Msg("Kein Paseto-Schlüssel konfiguriert, temporärer Schlüssel erzeugt")
	}

	c.LIFECYCLE.applyDefaults()
	return nil
}

func (l *LifecycleConfig) applyDefaults() {
	if l.CacheTTL <= 0 {
		l.CacheTTL = 5 * time.Minute
	}
	if l.BulkLimit <= 0 {
		l.BulkLimit = 200
	}
	if len(l.Templates.Onboarding) == 0 {
		l.Templates.Onboarding = DefaultOnboardingTemplate
	}
	if len(l.Templates.Offboarding) == 0 {
		l.Templates.Offboarding = DefaultOffboardingTemplate
	}
}

// DefaultLifecycleConfig liefert die Lifecycle-Einstellungen ohne Konfigurationsdatei.
func DefaultLifecycleConfig() LifecycleConfig {
	l := LifecycleConfig{EnforceSingleOpenCase: true}
	l.applyDefaults()
	return l
}
