package config

import (
	"encoding/json"
	stderrors "errors"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/ilyakaznacheev/cleanenv"
)

const (
	configPathEnv         = "CONFIG_PATH"
	countryCredentialsEnv = "KLARNA_COUNTRY_CREDENTIALS_JSON"
)

type ConfigError struct {
	Code     string
	Message  string
	Metadata map[string]string
}

func (e *ConfigError) Error() string {
	if e == nil {
		return ""
	}

	return e.Message
}

// Config is read from the YAML file named by CONFIG_PATH, if any, and then
// from the environment. Environment values win.
type Config struct {
	Port            string        `yaml:"port" env:"PORT" env-default:"8080" validate:"required"`
	OpenAPISpecPath string        `yaml:"openapi_spec_path" env:"OPENAPI_SPEC_PATH"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT" env-default:"10s" validate:"gt=0"`
	DisplayTimeZone string        `yaml:"display_time_zone" env:"DISPLAY_TIME_ZONE" env-default:"UTC"`

	Log      LogConfig      `yaml:"log"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Klarna   KlarnaConfig   `yaml:"klarna"`
	Sync     SyncConfig     `yaml:"sync"`
}

type LogConfig struct {
	Level  string `yaml:"level" env:"LOG_LEVEL" env-default:"info" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json" validate:"oneof=json console"`
}

type DatabaseConfig struct {
	URL                    string        `yaml:"url" env:"DATABASE_URL"`
	ReadinessTimeout       time.Duration `yaml:"readiness_timeout" env:"DB_READINESS_TIMEOUT" env-default:"30s" validate:"gt=0"`
	ReadinessRetryInterval time.Duration `yaml:"readiness_retry_interval" env:"DB_READINESS_RETRY_INTERVAL" env-default:"2s" validate:"gt=0"`
	SkipMigrations         bool          `yaml:"skip_migrations" env:"DB_SKIP_MIGRATIONS" env-default:"false"`
	MaxOpenConns           int           `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS" env-default:"20" validate:"gte=1"`
	MaxIdleConns           int           `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS" env-default:"20" validate:"gte=0"`

	// Target is host/database, derived from URL for log lines.
	Target string `yaml:"-"`
}

// RedisConfig enables the per-order lock when Addr is set.
type RedisConfig struct {
	Addr          string        `yaml:"addr" env:"REDIS_ADDR"`
	Password      string        `yaml:"password" env:"REDIS_PASSWORD"`
	DB            int           `yaml:"db" env:"REDIS_DB" env-default:"0" validate:"gte=0"`
	LockTTL       time.Duration `yaml:"lock_ttl" env:"KLARNA_ORDER_LOCK_TTL" env-default:"30s" validate:"gt=0"`
	LockKeyPrefix string        `yaml:"lock_key_prefix" env:"KLARNA_ORDER_LOCK_PREFIX" env-default:"klarnasync:order-lock:"`
}

func (c RedisConfig) Enabled() bool {
	return strings.TrimSpace(c.Addr) != ""
}

type KlarnaCredentials struct {
	MerchantID string `yaml:"merchant_id" json:"merchant_id"`
	Password   string `yaml:"password" json:"password"`
	Mode       string `yaml:"mode" json:"mode"`
}

type KlarnaConfig struct {
	DefaultCountryISO string        `yaml:"default_country_iso" env:"KLARNA_DEFAULT_COUNTRY_ISO" env-default:"DE" validate:"len=2,alpha"`
	MerchantID        string        `yaml:"merchant_id" env:"KLARNA_MERCHANT_ID"`
	Password          string        `yaml:"password" env:"KLARNA_PASSWORD"`
	Mode              string        `yaml:"mode" env:"KLARNA_MODE" env-default:"playground" validate:"oneof=playground live"`
	BaseURL           string        `yaml:"base_url" env:"KLARNA_API_BASE_URL" validate:"omitempty,url"`
	HTTPTimeout       time.Duration `yaml:"http_timeout" env:"KLARNA_HTTP_TIMEOUT" env-default:"10s" validate:"gt=0"`
	UserAgent         string        `yaml:"user_agent" env:"KLARNA_USER_AGENT" env-default:"klarnasync/1.0"`

	// Countries maps an ISO alpha-2 code to its own credentials.
	Countries map[string]KlarnaCredentials `yaml:"countries"`
}

type SyncConfig struct {
	PollInterval time.Duration `yaml:"poll_interval" env:"KLARNA_SYNC_POLL_INTERVAL" env-default:"5m" validate:"gt=0"`
	BatchSize    int           `yaml:"batch_size" env:"KLARNA_SYNC_BATCH_SIZE" env-default:"50" validate:"gte=1,lte=1000"`
}

var configValidator = validator.New(validator.WithRequiredStructEnabled())

func LoadConfig() (Config, *ConfigError) {
	var cfg Config

	path := strings.TrimSpace(os.Getenv(configPathEnv))
	if path != "" {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return Config{}, &ConfigError{
				Code:     "CONFIG_READ_FAILED",
				Message:  "failed to read configuration: " + err.Error(),
				Metadata: map[string]string{"path": path},
			}
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, &ConfigError{
			Code:    "CONFIG_READ_FAILED",
			Message: "failed to read configuration from environment: " + err.Error(),
		}
	}

	cfg.Database.URL = strings.TrimSpace(cfg.Database.URL)
	if cfg.Database.URL == "" {
		return Config{}, &ConfigError{
			Code:    "CONFIG_DATABASE_URL_REQUIRED",
			Message: "DATABASE_URL is required",
		}
	}

	databaseTarget, parseErr := parseDatabaseTarget(cfg.Database.URL)
	if parseErr != nil {
		return Config{}, parseErr
	}
	cfg.Database.Target = databaseTarget

	if err := configValidator.Struct(cfg); err != nil {
		return Config{}, validationError(err)
	}

	if _, err := time.LoadLocation(cfg.DisplayTimeZone); err != nil {
		return Config{}, &ConfigError{
			Code:     "CONFIG_DISPLAY_TIME_ZONE_INVALID",
			Message:  "DISPLAY_TIME_ZONE is not a known time zone",
			Metadata: map[string]string{"value": cfg.DisplayTimeZone},
		}
	}

	countries, countriesErr := mergeCountryCredentials(cfg.Klarna.Countries, os.Getenv(countryCredentialsEnv))
	if countriesErr != nil {
		return Config{}, countriesErr
	}
	cfg.Klarna.Countries = countries
	cfg.Klarna.DefaultCountryISO = strings.ToUpper(cfg.Klarna.DefaultCountryISO)

	return cfg, nil
}

func (c Config) Address() string {
	return ":" + c.Port
}

// DisplayLocation is the zone Klarna timestamps are rendered in.
func (c Config) DisplayLocation() *time.Location {
	location, err := time.LoadLocation(c.DisplayTimeZone)
	if err != nil {
		return time.UTC
	}

	return location
}

func parseDatabaseTarget(databaseURL string) (string, *ConfigError) {
	parsed, err := url.Parse(databaseURL)
	if err != nil {
		return "", &ConfigError{
			Code:    "CONFIG_DATABASE_URL_INVALID",
			Message: "DATABASE_URL is invalid",
		}
	}

	switch parsed.Scheme {
	case "postgres", "postgresql":
	default:
		return "", &ConfigError{
			Code:    "CONFIG_DATABASE_URL_SCHEME_INVALID",
			Message: "DATABASE_URL must use postgres or postgresql scheme",
		}
	}

	if parsed.Host == "" {
		return "", &ConfigError{
			Code:    "CONFIG_DATABASE_URL_HOST_MISSING",
			Message: "DATABASE_URL host is required",
		}
	}

	databaseName := strings.TrimPrefix(parsed.Path, "/")
	if databaseName == "" {
		return "", &ConfigError{
			Code:    "CONFIG_DATABASE_NAME_MISSING",
			Message: "DATABASE_URL database name is required",
		}
	}

	return parsed.Host + "/" + databaseName, nil
}

// mergeCountryCredentials overlays the JSON env entries on the YAML ones and
// upper-cases the country keys.
func mergeCountryCredentials(fromFile map[string]KlarnaCredentials, rawJSON string) (map[string]KlarnaCredentials, *ConfigError) {
	merged := map[string]KlarnaCredentials{}
	for countryISO, credentials := range fromFile {
		merged[strings.ToUpper(strings.TrimSpace(countryISO))] = credentials
	}

	rawJSON = strings.TrimSpace(rawJSON)
	if rawJSON == "" {
		return merged, nil
	}

	decoded := map[string]KlarnaCredentials{}
	if err := json.Unmarshal([]byte(rawJSON), &decoded); err != nil {
		return nil, &ConfigError{
			Code:    "CONFIG_COUNTRY_CREDENTIALS_INVALID",
			Message: countryCredentialsEnv + " must be a JSON object of credential objects",
		}
	}

	for countryISO, credentials := range decoded {
		normalized := strings.ToUpper(strings.TrimSpace(countryISO))
		if len(normalized) != 2 {
			return nil, &ConfigError{
				Code:     "CONFIG_COUNTRY_CREDENTIALS_INVALID",
				Message:  countryCredentialsEnv + " keys must be ISO alpha-2 country codes",
				Metadata: map[string]string{"country_iso": countryISO},
			}
		}
		merged[normalized] = credentials
	}

	return merged, nil
}

func validationError(err error) *ConfigError {
	var validationErrs validator.ValidationErrors
	if !stderrors.As(err, &validationErrs) || len(validationErrs) == 0 {
		return &ConfigError{
			Code:    "CONFIG_INVALID",
			Message: err.Error(),
		}
	}

	first := validationErrs[0]
	return &ConfigError{
		Code:    "CONFIG_VALUE_INVALID",
		Message: "configuration value " + first.Namespace() + " failed rule " + first.Tag(),
		Metadata: map[string]string{
			"field": first.Namespace(),
			"rule":  first.Tag(),
		},
	}
}
