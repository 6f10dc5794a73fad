package config

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

type Config struct {
	Port     string `yaml:"port"`
	DBDriver string `yaml:"db_driver"`
	DBDSN    string `yaml:"db_dsn"`
	Env      string `yaml:"env"`

	// Secret signs the session cookie. EncryptionKey, when set, must be 16,
	// 24 or 32 bytes and additionally encrypts it.
	Secret        string `yaml:"secret"`
	EncryptionKey string `yaml:"encryption_key"`

	SessionTTL     string `yaml:"session_ttl"`
	SessionBackend string `yaml:"session_backend"`
	CookieName     string `yaml:"cookie_name"`
	CookieSecure   bool   `yaml:"cookie_secure"`
	CookieSameSite string `yaml:"cookie_samesite"`
	CookieDomain   string `yaml:"cookie_domain"`

	CORSOrigins []string `yaml:"cors_origins"`
	BcryptCost  int      `yaml:"bcrypt_cost"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Port:           "8080",
		DBDriver:       "sqlite3",
		DBDSN:          "todo.db?_foreign_keys=on&_busy_timeout=5000",
		SessionTTL:     "1h",
		SessionBackend: "db",
		CookieName:     "user-session",
		CookieSameSite: "lax",
		CORSOrigins:    []string{"http://localhost:5173"},
		BcryptCost:     10,
	}
}

// Load reads filename on top of the defaults, then applies .env and process
// environment overrides. A missing file is not an error.
func Load(filename string) (*Config, error) {
	config := Default()

	data, err := os.ReadFile(filename)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	if err == nil {
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("parse %s: %w", filename, err)
		}
	}

	_ = godotenv.Load() // .env is optional
	if err := config.applyEnv(); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) applyEnv() error {
	str := map[string]*string{
		"PORT":            &c.Port,
		"DB_DRIVER":       &c.DBDriver,
		"DATABASE_URL":    &c.DBDSN,
		"APP_ENV":         &c.Env,
		"SESSION_SECRET":  &c.Secret,
		"ENCRYPTION_KEY":  &c.EncryptionKey,
		"SESSION_TTL":     &c.SessionTTL,
		"SESSION_BACKEND": &c.SessionBackend,
		"COOKIE_NAME":     &c.CookieName,
		"COOKIE_SAMESITE": &c.CookieSameSite,
		"COOKIE_DOMAIN":   &c.CookieDomain,
	}
	for k, dst := range str {
		if v := os.Getenv(k); v != "" {
			*dst = v
		}
	}

	if v := os.Getenv("COOKIE_SECURE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("config: invalid COOKIE_SECURE %q", v)
		}
		c.CookieSecure = b
	}
	if v := os.Getenv("BCRYPT_COST"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: invalid BCRYPT_COST %q", v)
		}
		c.BcryptCost = n
	}
	// comma-separated list of origins
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		c.CORSOrigins = nil
		for _, p := range strings.Split(v, ",") {
			if o := strings.TrimRight(strings.TrimSpace(p), "/"); o != "" {
				c.CORSOrigins = append(c.CORSOrigins, o)
			}
		}
	}
	return nil
}

func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("config: port must be set")
	}
	if c.DBDriver != "sqlite3" && c.DBDriver != "postgres" {
		return fmt.Errorf("config: unsupported db_driver %q", c.DBDriver)
	}
	if c.DBDSN == "" {
		return errors.New("config: db_dsn must be set")
	}
	if c.SessionBackend != "memory" && c.SessionBackend != "db" {
		return fmt.Errorf("config: session_backend must be memory or db, got %q", c.SessionBackend)
	}
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		return errors.New("config: bcrypt_cost must be between 4 and 31")
	}
	if _, err := time.ParseDuration(c.SessionTTL); err != nil {
		return fmt.Errorf("config: invalid session_ttl %q", c.SessionTTL)
	}
	if _, err := parseSameSite(c.CookieSameSite); err != nil {
		return err
	}
	switch len(c.EncryptionKey) {
	case 0, 16, 24, 32:
	default:
		return errors.New("config: encryption_key must be 16, 24 or 32 bytes")
	}
	if c.Production() && c.Secret == "" {
		return errors.New("config: secret must be set in production")
	}
	return nil
}

func (c *Config) Production() bool {
	return c.Env == "production"
}

// TTL returns the session lifetime. Falls back to one hour if unparsable.
func (c *Config) TTL() time.Duration {
	d, err := time.ParseDuration(c.SessionTTL)
	if err != nil || d <= 0 {
		return time.Hour
	}
	return d
}

// SameSite returns the cookie SameSite mode; lax when unset.
func (c *Config) SameSite() http.SameSite {
	m, _ := parseSameSite(c.CookieSameSite)
	return m
}

// SecureCookie reports whether the session cookie gets the Secure flag.
// Browsers reject SameSite=None without it.
func (c *Config) SecureCookie() bool {
	return c.CookieSecure || c.Production() || c.SameSite() == http.SameSiteNoneMode
}

func parseSameSite(v string) (http.SameSite, error) {
	switch strings.ToLower(v) {
	case "", "lax":
		return http.SameSiteLaxMode, nil
	case "strict":
		return http.SameSiteStrictMode, nil
	case "none":
		return http.SameSiteNoneMode, nil
	default:
		return http.SameSiteDefaultMode, fmt.Errorf("config: invalid cookie_samesite %q", v)
	}
}
