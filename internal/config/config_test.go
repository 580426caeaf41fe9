package config_test

import (
	"log/slog"
	"strings"
	"testing"

	"github.com/taskpad/taskpad-api/internal/config"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"SERVER_PORT", "DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD",
		"DB_NAME", "DB_SSLMODE", "APP_ENV", "AUTH_DEV_MODE", "LOG_LEVEL",
		"COGNITO_REGION", "COGNITO_USER_POOL_ID", "COGNITO_APP_CLIENT_ID", "COGNITO_APP_CLIENT_SECRET",
		"S3_REGION", "S3_BUCKET", "S3_ACCESS_KEY", "S3_SECRET_KEY", "S3_BASE_ENDPOINT",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg := config.Load()

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"ServerPort", cfg.ServerPort, "8080"},
		{"AppEnv", cfg.AppEnv, "local"},
		{"DB.Host", cfg.DB.Host, "localhost"},
		{"DB.Port", cfg.DB.Port, "5432"},
		{"DB.User", cfg.DB.User, "taskpad"},
		{"DB.Name", cfg.DB.Name, "taskpad"},
		{"DB.SSLMode", cfg.DB.SSLMode, "disable"},
		{"Cognito.Region", cfg.Cognito.Region, "ap-northeast-1"},
		{"S3.Bucket", cfg.S3.Bucket, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("%s = %q, want %q", tt.name, tt.got, tt.want)
			}
		})
	}

	if cfg.AuthDevMode {
		t.Error("AuthDevMode should default to false")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("S3_BUCKET", "taskpad-photos")
	t.Setenv("S3_REGION", "eu-west-1")

	cfg := config.Load()

	if cfg.ServerPort != "9090" {
		t.Errorf("ServerPort = %q, want 9090", cfg.ServerPort)
	}
	if cfg.DB.Host != "db.internal" {
		t.Errorf("DB.Host = %q, want db.internal", cfg.DB.Host)
	}
	if cfg.S3.Bucket != "taskpad-photos" {
		t.Errorf("S3.Bucket = %q", cfg.S3.Bucket)
	}
}

func TestDSN(t *testing.T) {
	d := config.DBConfig{
		Host:     "localhost",
		Port:     "5432",
		User:     "user",
		Password: "p@ss/word",
		Name:     "taskpad",
		SSLMode:  "disable",
	}

	dsn := d.DSN()
	if !strings.HasPrefix(dsn, "postgres://") {
		t.Errorf("DSN missing scheme: %q", dsn)
	}
	if strings.Contains(dsn, "p@ss/word") {
		t.Errorf("DSN contains unescaped password: %q", dsn)
	}
	if !strings.Contains(dsn, "sslmode=disable") {
		t.Errorf("DSN missing sslmode: %q", dsn)
	}
}

func TestValidate(t *testing.T) {
	valid := func() config.Config {
		return config.Config{
			ServerPort: "8080",
			AppEnv:     "local",
			LogLevel:   "info",
			Cognito: config.CognitoConfig{
				UserPoolID:  "pool",
				AppClientID: "client",
			},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr string
	}{
		{"valid", func(c *config.Config) {}, ""},
		{"bad port", func(c *config.Config) { c.ServerPort = "http" }, "invalid SERVER_PORT"},
		{"bad env", func(c *config.Config) { c.AppEnv = "staging" }, "invalid APP_ENV"},
		{"dev mode outside local", func(c *config.Config) {
			c.AuthDevMode = true
			c.AppEnv = "prod"
		}, "AUTH_DEV_MODE"},
		{"missing pool id", func(c *config.Config) { c.Cognito.UserPoolID = "" }, "COGNITO_USER_POOL_ID"},
		{"missing client id", func(c *config.Config) { c.Cognito.AppClientID = "" }, "COGNITO_APP_CLIENT_ID"},
		{"bucket without region", func(c *config.Config) { c.S3.Bucket = "b" }, "S3_REGION"},
		{"bucket with region", func(c *config.Config) {
			c.S3.Bucket = "b"
			c.S3.Region = "eu-west-1"
		}, ""},
		{"dev mode skips cognito checks", func(c *config.Config) {
			c.AuthDevMode = true
			c.Cognito = config.CognitoConfig{}
		}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()

			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		level string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"WARN", slog.LevelWarn},
		{"error", slog.LevelError},
		{"garbage", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			cfg := config.Config{LogLevel: tt.level}
			if got := cfg.ParseLogLevel(); got != tt.want {
				t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.level, got, tt.want)
			}
		})
	}
}
