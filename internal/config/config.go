package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTest        = "test"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	// InsecureSigningKey is the shipped placeholder. Production refuses to start with it.
	InsecureSigningKey = "CHANGE_THIS_IN_PRODUCTION_SECRET_KEY"
)

var ErrInsecureSigningKey = errors.New("auth.signing_key must be set to a private value in production")

type AppConfig struct {
	API      *APIConfig      `mapstructure:"api"`
	Auth     *AuthConfig     `mapstructure:"auth"`
	Gin      *GinConfig      `mapstructure:"gin"`
	Log      *LogConfig      `mapstructure:"log"`
	Database *DatabaseConfig `mapstructure:"database"`
	Postgres *PostgresConfig `mapstructure:"postgres"`
	SQLite   *SQLiteConfig   `mapstructure:"sqlite"`
	Camp     *CampConfig     `mapstructure:"camp"`
}

type APIConfig struct {
	Environment        string   `mapstructure:"environment"`
	Port               string   `mapstructure:"port"`
	BaseURL            string   `mapstructure:"base_url"`
	AllowedCORSDomains []string `mapstructure:"allowed_cors_domains"`
	CSRFKey            string   `mapstructure:"csrf_key"`
}

// AuthConfig is handed to the auth service and the session middleware.
type AuthConfig struct {
	SigningKey   string        `mapstructure:"signing_key"`
	SessionTTL   time.Duration `mapstructure:"session_ttl"`
	CookieName   string        `mapstructure:"cookie_name"`
	CookieSecure bool          `mapstructure:"cookie_secure"`
}

type GinConfig struct {
	Mode string `mapstructure:"mode"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type DatabaseConfig struct {
	Driver string `mapstructure:"driver"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DB       string `mapstructure:"db"`
	SSLMode  string `mapstructure:"sslmode"`
}

func (c *PostgresConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DB, c.SSLMode)
}

type SQLiteConfig struct {
	Path string `mapstructure:"path"`
}

type CampConfig struct {
	Timezone            string `mapstructure:"timezone"`
	MaxReservationHours int    `mapstructure:"max_reservation_hours"`
	TimelineLimit       int    `mapstructure:"timeline_limit"`
}

// Location resolves the camp time zone used for timestamps without an offset.
func (c *CampConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}

	return loc
}

// Load reads path (optional) and overlays environment variables such as
// API_PORT or AUTH_SIGNING_KEY.
func Load(path string) (*AppConfig, error) {
	v := newViper(path)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !isMissingFile(err) {
			return nil, fmt.Errorf("v.ReadInConfig -> %w", err)
		}
	}

	return decode(v)
}

// Watch reloads the file at path whenever it changes and passes the new
// configuration to onChange. Invalid revisions are reported through onErr.
func Watch(path string, onChange func(*AppConfig), onErr func(error)) error {
	v := newViper(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("v.ReadInConfig -> %w", err)
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}

		conf, err := decode(v)
		if err != nil {
			onErr(fmt.Errorf("reload %s -> %w", e.Name, err))
			return
		}
		onChange(conf)
	})
	v.WatchConfig()

	return nil
}

func newViper(path string) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.environment", EnvDevelopment)
	v.SetDefault("api.port", "8000")
	v.SetDefault("api.base_url", "localhost:8000")
	v.SetDefault("api.allowed_cors_domains", []string{"http://localhost:8000"})
	v.SetDefault("api.csrf_key", "")

	v.SetDefault("auth.signing_key", InsecureSigningKey)
	v.SetDefault("auth.session_ttl", 7*24*time.Hour)
	v.SetDefault("auth.cookie_name", "access_token")
	v.SetDefault("auth.cookie_secure", false)

	v.SetDefault("gin.mode", "debug")
	v.SetDefault("log.level", "info")

	v.SetDefault("database.driver", DriverSQLite)
	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", "5432")
	v.SetDefault("postgres.user", "postgres")
	v.SetDefault("postgres.password", "postgres")
	v.SetDefault("postgres.db", "campo")
	v.SetDefault("postgres.sslmode", "disable")
	v.SetDefault("sqlite.path", "campo.db")

	v.SetDefault("camp.timezone", "Europe/Rome")
	v.SetDefault("camp.max_reservation_hours", 4)
	v.SetDefault("camp.timeline_limit", 100)
}

func decode(v *viper.Viper) (*AppConfig, error) {
	var conf AppConfig
	if err := v.Unmarshal(&conf); err != nil {
		return nil, fmt.Errorf("v.Unmarshal -> %w", err)
	}

	if err := conf.Validate(); err != nil {
		return nil, err
	}

	return &conf, nil
}

func (c *AppConfig) Validate() error {
	err := validation.ValidateStruct(c.API,
		validation.Field(&c.API.Environment, validation.Required, validation.In(EnvDevelopment, EnvProduction, EnvTest)),
		validation.Field(&c.API.Port, validation.Required),
		validation.Field(&c.API.CSRFKey, validation.Length(32, 32)),
	)
	if err != nil {
		return fmt.Errorf("api: %w", err)
	}

	err = validation.ValidateStruct(c.Auth,
		validation.Field(&c.Auth.SigningKey, validation.Required),
		validation.Field(&c.Auth.SessionTTL, validation.Required, validation.Min(time.Minute)),
		validation.Field(&c.Auth.CookieName, validation.Required),
	)
	if err != nil {
		return fmt.Errorf("auth: %w", err)
	}
	if c.API.Environment == EnvProduction && c.Auth.SigningKey == InsecureSigningKey {
		return ErrInsecureSigningKey
	}

	err = validation.ValidateStruct(c.Database,
		validation.Field(&c.Database.Driver, validation.Required, validation.In(DriverPostgres, DriverSQLite)),
	)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}

	err = validation.ValidateStruct(c.Camp,
		validation.Field(&c.Camp.Timezone, validation.Required, validation.By(validLocation)),
		validation.Field(&c.Camp.MaxReservationHours, validation.Required, validation.Min(1)),
		validation.Field(&c.Camp.TimelineLimit, validation.Required, validation.Min(1)),
	)
	if err != nil {
		return fmt.Errorf("camp: %w", err)
	}

	return nil
}

func validLocation(value any) error {
	name, _ := value.(string)
	if _, err := time.LoadLocation(name); err != nil {
		return errors.New("must be an IANA time zone")
	}

	return nil
}

func isMissingFile(err error) bool {
	return strings.Contains(err.Error(), "no such file or directory")
}
