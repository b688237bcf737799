package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type HTTPConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type PostgresConfig struct {
	DSN             string
	Host            string
	Port            int
	Database        string
	User            string
	Password        string
	SSLMode         string
	MaxOpen         int
	MaxIdle         int
	ConnMaxLifetime time.Duration
}

// ConnString returns DSN when set, otherwise builds one from the discrete fields.
func (c PostgresConfig) ConnString() string {
	if c.DSN != "" {
		return c.DSN
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.User, c.Password),
		Host:   fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:   "/" + c.Database,
	}
	q := u.Query()
	q.Set("sslmode", c.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type SessionConfig struct {
	Secret     string
	CookieName string
	TTL        time.Duration
	Secure     bool
}

type CatalogConfig struct {
	BaseURL         string
	TokenURL        string
	ClientID        string
	ClientSecret    string
	RefreshInterval time.Duration
	Timeout         time.Duration
	AnimalType      string
	DiscoverLimit   int
}

type Argon2Config struct {
	Time    uint32
	Memory  uint32
	Threads uint8
}

type SecurityConfig struct {
	PasswordMinScore int
	Argon2           Argon2Config
}

type AppConfig struct {
	Environment      string
	HTTP             HTTPConfig
	Postgres         PostgresConfig
	Redis            RedisConfig
	Session          SessionConfig
	Catalog          CatalogConfig
	Security         SecurityConfig
	AllowCORSOrigins []string
}

// Load reads config.yaml (or the file at path) and overlays PAWFINDER_* environment variables.
func Load(path string) (*AppConfig, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("../config")
	}

	v.SetEnvPrefix("PAWFINDER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)
	if err := bindEnv(v); err != nil {
		return nil, fmt.Errorf("bind env: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &cfg, nil
}

// Validate reports settings the server cannot start without.
func (c *AppConfig) Validate() error {
	var errs []error
	if c.Session.Secret == "" {
		errs = append(errs, errors.New("session.secret is required"))
	}
	if c.Catalog.ClientID == "" || c.Catalog.ClientSecret == "" {
		errs = append(errs, errors.New("catalog.clientid and catalog.clientsecret are required"))
	}
	if c.Catalog.RefreshInterval <= 0 {
		errs = append(errs, errors.New("catalog.refreshinterval must be positive"))
	}
	if c.Security.PasswordMinScore < 0 || c.Security.PasswordMinScore > 5 {
		errs = append(errs, errors.New("security.passwordminscore must be between 0 and 5"))
	}
	return errors.Join(errs...)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")

	v.SetDefault("http.host", "0.0.0.0")
	v.SetDefault("http.port", 3000)
	v.SetDefault("http.readtimeout", "10s")
	v.SetDefault("http.writetimeout", "15s")
	v.SetDefault("http.idletimeout", "60s")

	v.SetDefault("postgres.host", "db")
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.sslmode", "disable")
	v.SetDefault("postgres.maxopen", 10)
	v.SetDefault("postgres.maxidle", 2)
	v.SetDefault("postgres.connmaxlifetime", "30m")

	v.SetDefault("redis.addr", "127.0.0.1:6379")
	v.SetDefault("redis.db", 0)

	v.SetDefault("session.cookiename", "pawfinder_session")
	v.SetDefault("session.ttl", "24h")
	v.SetDefault("session.secure", false)

	v.SetDefault("catalog.baseurl", "https://api.petfinder.com/v2")
	v.SetDefault("catalog.tokenurl", "https://api.petfinder.com/v2/oauth2/token")
	v.SetDefault("catalog.refreshinterval", "55m") // tokens live for one hour
	v.SetDefault("catalog.timeout", "10s")
	v.SetDefault("catalog.animaltype", "dog")
	v.SetDefault("catalog.discoverlimit", 20)

	v.SetDefault("security.passwordminscore", 4)
	v.SetDefault("security.argon2.time", 3)
	v.SetDefault("security.argon2.memory", 64*1024)
	v.SetDefault("security.argon2.threads", 2)

	v.SetDefault("allowcorsorigins", []string{})
}

// bindEnv maps the unprefixed variable names used by the docker-compose deployment.
func bindEnv(v *viper.Viper) error {
	bindings := map[string][]string{
		"session.secret":       {"PAWFINDER_SESSION_SECRET", "SESSION_SECRET"},
		"postgres.dsn":         {"PAWFINDER_POSTGRES_DSN", "DATABASE_URL"},
		"postgres.host":        {"PAWFINDER_POSTGRES_HOST", "POSTGRES_HOST"},
		"postgres.port":        {"PAWFINDER_POSTGRES_PORT", "POSTGRES_PORT"},
		"postgres.database":    {"PAWFINDER_POSTGRES_DATABASE", "POSTGRES_DB"},
		"postgres.user":        {"PAWFINDER_POSTGRES_USER", "POSTGRES_USER"},
		"postgres.password":    {"PAWFINDER_POSTGRES_PASSWORD", "POSTGRES_PASSWORD"},
		"catalog.clientid":     {"PAWFINDER_CATALOG_CLIENTID", "API_KEY"},
		"catalog.clientsecret": {"PAWFINDER_CATALOG_CLIENTSECRET", "API_SECRET"},
	}
	for key, envs := range bindings {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return err
		}
	}
	return nil
}
