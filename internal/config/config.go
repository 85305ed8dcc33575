package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type AuthConfig struct {
	JWTSecret             string `yaml:"jwt_secret"`
	AccessTokenTTLHours   int    `yaml:"access_token_ttl_hours"`
	ActionTokenTTLMinutes int    `yaml:"action_token_ttl_minutes"`
	FrontendBaseURL       string `yaml:"frontend_base_url"`
}

type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`
	Database struct {
		DSN string `yaml:"url"`
	} `yaml:"database"`
	Auth  AuthConfig `yaml:"auth"`
	Email struct {
		SMTPHost     string `yaml:"smtp_host"`
		SMTPPort     int    `yaml:"smtp_port"`
		SMTPUser     string `yaml:"smtp_user"`
		SMTPPassword string `yaml:"smtp_password"`
		FromEmail    string `yaml:"from_email"`
	} `yaml:"email"`
}

func LoadConfig() *Config {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "config/config.yaml"
	}

	f, err := os.Open(path)
	if err != nil {
		panic("Failed to open " + path + ": " + err.Error())
	}
	defer f.Close()

	var cfg Config
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		panic("Failed to parse " + path + ": " + err.Error())
	}

	// secrets may come from the environment instead of the file
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.Auth.JWTSecret = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Database.DSN = v
	}
	if v := os.Getenv("SMTP_PASSWORD"); v != "" {
		cfg.Email.SMTPPassword = v
	}

	if cfg.Auth.JWTSecret == "" {
		panic("auth.jwt_secret is required (or set JWT_SECRET)")
	}
	if cfg.Auth.AccessTokenTTLHours <= 0 {
		cfg.Auth.AccessTokenTTLHours = 72
	}
	if cfg.Auth.ActionTokenTTLMinutes <= 0 {
		cfg.Auth.ActionTokenTTLMinutes = 30
	}
	if cfg.Auth.FrontendBaseURL == "" {
		cfg.Auth.FrontendBaseURL = "http://localhost:3000"
	}
	return &cfg
}
