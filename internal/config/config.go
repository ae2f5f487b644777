package config

import (
	"fmt"
	"os"
	"path"
	"time"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Public  Public
	Private Private
}

type Public struct {
	Port     string `yaml:"port"`
	LogLevel string `yaml:"log_level"`
	LogJSON  bool   `yaml:"log_json"`

	// DevMode exposes issued verification codes in send-verification
	// responses. Must be false in production.
	DevMode bool `yaml:"dev_mode"`

	JwtTTLHours int `yaml:"jwt_ttl_hours"`

	RateLimitMaxAttempts int `yaml:"rate_limit_max_attempts"`
	RateLimitWindowSec   int `yaml:"rate_limit_window_sec"`
	GlobalRps            int `yaml:"global_rps"`

	VerificationCodeTTLMin int `yaml:"verification_code_ttl_min"`
}

type Private struct {
	JwtKey string `yaml:"jwt_key"`
	Pg     Pg     `yaml:"pg"`
	Email  Email  `yaml:"email"`
}

type Pg struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Dbname   string `yaml:"dbname"`
}

type Email struct {
	SMTPServer string `yaml:"smtp_server"`
	SMTPPort   int    `yaml:"smtp_port"`
	Username   string `yaml:"username"`
	Password   string `yaml:"password"`
	SenderName string `yaml:"sender_name"`
	Timeout    int    `yaml:"timeout"`
}

func (c *Config) JwtTTL() time.Duration {
	return time.Duration(c.Public.JwtTTLHours) * time.Hour
}

func (c *Config) RateLimitWindow() time.Duration {
	return time.Duration(c.Public.RateLimitWindowSec) * time.Second
}

func (c *Config) VerificationCodeTTL() time.Duration {
	return time.Duration(c.Public.VerificationCodeTTLMin) * time.Minute
}

func mustLoadPath(configPath string, output interface{}) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		panic("can't read config file: " + configPath)
	}
	if err := yaml.Unmarshal(configFile, output); err != nil {
		panic("can't unmarshal config file: " + configPath)
	}
}

// MustLoad reads public.yaml and private.yaml from configFolder and panics
// on missing files or missing required fields. Defaults are applied for
// optional knobs so a minimal config stays usable.
func MustLoad(configFolder string) *Config {
	var public Public
	mustLoadPath(path.Join(configFolder, "public.yaml"), &public)

	var private Private
	mustLoadPath(path.Join(configFolder, "private.yaml"), &private)

	cfg := &Config{public, private}
	cfg.applyDefaults()
	cfg.mustValidate()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Public.Port == "" {
		c.Public.Port = "8080"
	}
	if c.Public.LogLevel == "" {
		c.Public.LogLevel = "info"
	}
	if c.Public.RateLimitMaxAttempts == 0 {
		c.Public.RateLimitMaxAttempts = 5
	}
	if c.Public.RateLimitWindowSec == 0 {
		c.Public.RateLimitWindowSec = 300
	}
	if c.Public.GlobalRps == 0 {
		c.Public.GlobalRps = 100
	}
	if c.Public.VerificationCodeTTLMin == 0 {
		c.Public.VerificationCodeTTLMin = 10
	}
	if c.Public.JwtTTLHours == 0 {
		c.Public.JwtTTLHours = 72
	}
}

func (c *Config) mustValidate() {
	if c.Private.JwtKey == "" {
		panic("config: jwt_key is required in private.yaml")
	}
	if c.Private.Pg.Host != "" && c.Private.Pg.Dbname == "" {
		panic("config: pg.dbname is required when pg.host is set")
	}
}

// PgURL builds the postgres connection URL used by the driver and the
// migration runner. Empty when no database is configured.
func (c *Config) PgURL() string {
	pg := c.Private.Pg
	if pg.Host == "" {
		return ""
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		pg.User, pg.Password, pg.Host, pg.Port, pg.Dbname)
}
