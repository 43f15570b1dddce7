// Package config carga la configuración YAML del servicio.
// Los secretos (JWT, SMTP, DSN) vienen del entorno, nunca del archivo.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	App struct {
		// dev | prod
		Env string `yaml:"env"`
		// LogLevel: debug | info | warn | error
		LogLevel string `yaml:"log_level"`
	} `yaml:"app"`

	Server struct {
		Addr               string   `yaml:"addr"`
		CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`
		ReadTimeout        string   `yaml:"read_timeout"`
		WriteTimeout       string   `yaml:"write_timeout"`
	} `yaml:"server"`

	Storage struct {
		// DSN sale de DATABASE_DSN si está vacío acá.
		DSN          string `yaml:"dsn"`
		MaxOpenConns int    `yaml:"max_open_conns"`
		MaxIdleConns int    `yaml:"max_idle_conns"`
	} `yaml:"storage"`

	JWT struct {
		Issuer string `yaml:"issuer"`
		// Secret siempre de entorno (JWT_SECRET); el campo YAML no existe.
	} `yaml:"jwt"`

	SMTP struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
		User string `yaml:"username"`
		// Password sale de SMTP_PASSWORD.
		From               string `yaml:"from"`
		TLS                string `yaml:"tls"` // auto | starttls | ssl | none
		InsecureSkipVerify bool   `yaml:"insecure_skip_verify"`
	} `yaml:"smtp"`

	Email struct {
		// BaseURL es el frontend que arma el link de verificación.
		BaseURL    string `yaml:"base_url"`
		IssuerName string `yaml:"issuer_name"` // issuer del otpauth:// y From de los mails
	} `yaml:"email"`

	Cache struct {
		// QuestionTTL es el TTL del cache de preguntas/categorías.
		QuestionTTL string `yaml:"question_ttl"`
	} `yaml:"cache"`

	Rate struct {
		Enabled bool `yaml:"enabled"`
		// RedisAddr vacío => limiter en memoria. También via REDIS_ADDR.
		RedisAddr string `yaml:"redis_addr"`
		Login     struct {
			Limit  int    `yaml:"limit"`
			Window string `yaml:"window"`
		} `yaml:"login"`
		TwoFA struct {
			Limit  int    `yaml:"limit"`
			Window string `yaml:"window"`
		} `yaml:"twofa"`
	} `yaml:"rate"`

	Hashing struct {
		// MaxConcurrent acota los hashes bcrypt en vuelo. 0 = GOMAXPROCS-1.
		MaxConcurrent int `yaml:"max_concurrent"`
	} `yaml:"hashing"`

	// Derivados de entorno, no de YAML.
	JWTSecret    string `yaml:"-"`
	SMTPPassword string `yaml:"-"`
}

// Load lee el YAML, aplica defaults y resuelve secretos de entorno.
func Load(path string) (*Config, error) {
	var c Config
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, err
		}
	}

	// sane defaults
	if c.App.Env == "" {
		c.App.Env = "dev"
	}
	if c.App.LogLevel == "" {
		c.App.LogLevel = "info"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.ReadTimeout == "" {
		c.Server.ReadTimeout = "10s"
	}
	if c.Server.WriteTimeout == "" {
		c.Server.WriteTimeout = "30s"
	}
	if c.JWT.Issuer == "" {
		c.JWT.Issuer = "secaware"
	}
	if c.Email.IssuerName == "" {
		c.Email.IssuerName = "Security Awareness"
	}
	if c.Email.BaseURL == "" {
		c.Email.BaseURL = "http://localhost:5173"
	}
	if c.SMTP.TLS == "" {
		c.SMTP.TLS = "auto"
	}
	if c.SMTP.Port == 0 {
		c.SMTP.Port = 587
	}
	if c.Cache.QuestionTTL == "" {
		c.Cache.QuestionTTL = "2m"
	}
	if c.Rate.Login.Limit == 0 {
		c.Rate.Login.Limit = 10
	}
	if c.Rate.Login.Window == "" {
		c.Rate.Login.Window = "1m"
	}
	if c.Rate.TwoFA.Limit == 0 {
		c.Rate.TwoFA.Limit = 10
	}
	if c.Rate.TwoFA.Window == "" {
		c.Rate.TwoFA.Window = "1m"
	}

	// secretos y overrides de entorno
	if v := os.Getenv("DATABASE_DSN"); v != "" {
		c.Storage.DSN = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Rate.RedisAddr = v
	}
	c.JWTSecret = os.Getenv("JWT_SECRET")
	c.SMTPPassword = os.Getenv("SMTP_PASSWORD")

	// validar duraciones declaradas como string
	for _, d := range []string{
		c.Server.ReadTimeout, c.Server.WriteTimeout,
		c.Cache.QuestionTTL, c.Rate.Login.Window, c.Rate.TwoFA.Window,
	} {
		if _, err := time.ParseDuration(d); err != nil {
			return nil, fmt.Errorf("config: invalid duration %q: %w", d, err)
		}
	}
	return &c, nil
}

// MustDuration parsea una duración ya validada por Load.
func MustDuration(s string) time.Duration {
	d, _ := time.ParseDuration(s)
	return d
}
