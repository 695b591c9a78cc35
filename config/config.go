package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all environment-driven settings for the server.
type Config struct {
	Server struct {
		Port       string
		StaticDir  string
		CORSOrigin string
	}

	Repository struct {
		// Backend selects the metadata store: "postgres", "jsonfile" or "memory".
		Backend     string
		PostgresDSN string
		JSONPath    string
	}

	Storage struct {
		// Backend selects the blob store: "s3", "minio" or "local".
		Backend string
		Folder  string

		S3 struct {
			Bucket    string
			Region    string
			AccessKey string
			SecretKey string
		}

		Minio struct {
			Endpoint  string
			AccessKey string
			SecretKey string
			Bucket    string
			UseSSL    bool
		}

		LocalPath string
	}

	Auth struct {
		AdminUsername     string
		AdminPasswordHash string
		JWTSecret         string
		TokenTTL          time.Duration
	}

	Mail struct {
		// Transport selects the notification path: "smtp", "amqp" or "" (mailto fallback).
		Transport string
		SMTPHost  string
		SMTPPort  string
		Username  string
		Password  string
		AMQPURL   string
		Recipient string
	}

	// OutboundTimeout bounds every blob-store and mail call.
	OutboundTimeout time.Duration
}

// Load reads configuration from the environment and validates the settings
// required by the selected backends. Callers load .env files beforehand.
func Load() (*Config, error) {
	var cfg Config

	cfg.Server.Port = getenv("PORT", "5000")
	cfg.Server.StaticDir = getenv("STATIC_DIR", "./dist")
	cfg.Server.CORSOrigin = getenv("CORS_ORIGIN", "*")

	cfg.Repository.Backend = getenv("REPOSITORY_BACKEND", "memory")
	cfg.Repository.PostgresDSN = os.Getenv("DATABASE_URL")
	cfg.Repository.JSONPath = getenv("PAPERS_JSON_PATH", "./data/papers.json")

	cfg.Storage.Backend = getenv("STORAGE_BACKEND", "local")
	cfg.Storage.Folder = getenv("STORAGE_FOLDER", "exam-papers")
	cfg.Storage.S3.Bucket = os.Getenv("AWS_S3_BUCKET")
	cfg.Storage.S3.Region = getenv("AWS_REGION", "us-east-1")
	cfg.Storage.S3.AccessKey = os.Getenv("AWS_ACCESS_KEY_ID")
	cfg.Storage.S3.SecretKey = os.Getenv("AWS_SECRET_ACCESS_KEY")
	cfg.Storage.Minio.Endpoint = os.Getenv("MINIO_ENDPOINT")
	cfg.Storage.Minio.AccessKey = os.Getenv("MINIO_ACCESS_KEY")
	cfg.Storage.Minio.SecretKey = os.Getenv("MINIO_SECRET_KEY")
	cfg.Storage.Minio.Bucket = getenv("MINIO_BUCKET", "crackexam")
	cfg.Storage.Minio.UseSSL = getenvBool("MINIO_USE_SSL", false)
	cfg.Storage.LocalPath = getenv("STORAGE_LOCAL_PATH", "./storage/files")

	cfg.Auth.AdminUsername = getenv("ADMIN_USERNAME", "admin")
	cfg.Auth.AdminPasswordHash = os.Getenv("ADMIN_PASSWORD_HASH")
	cfg.Auth.JWTSecret = os.Getenv("JWT_SECRET")
	cfg.Auth.TokenTTL = getenvDuration("TOKEN_TTL", 12*time.Hour)

	cfg.Mail.Transport = os.Getenv("MAIL_TRANSPORT")
	cfg.Mail.SMTPHost = getenv("SMTP_HOST", "smtp.gmail.com")
	cfg.Mail.SMTPPort = getenv("SMTP_PORT", "587")
	cfg.Mail.Username = os.Getenv("EMAIL_USER")
	cfg.Mail.Password = os.Getenv("EMAIL_PASS")
	cfg.Mail.AMQPURL = os.Getenv("AMQP_URL")
	cfg.Mail.Recipient = getenv("NOTIFY_EMAIL", "webauracompany@gmail.com")

	cfg.OutboundTimeout = getenvDuration("OUTBOUND_TIMEOUT", 30*time.Second)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Repository.Backend {
	case "postgres":
		if c.Repository.PostgresDSN == "" {
			return errors.New("DATABASE_URL is required for the postgres repository backend")
		}
	case "jsonfile", "memory":
	default:
		return fmt.Errorf("unknown repository backend: %s", c.Repository.Backend)
	}

	switch c.Storage.Backend {
	case "s3":
		if c.Storage.S3.Bucket == "" {
			return errors.New("AWS_S3_BUCKET is required for the s3 storage backend")
		}
	case "minio":
		if c.Storage.Minio.Endpoint == "" {
			return errors.New("MINIO_ENDPOINT is required for the minio storage backend")
		}
	case "local":
	default:
		return fmt.Errorf("unknown storage backend: %s", c.Storage.Backend)
	}

	// Auth is always active; an empty signing key would verify any forged
	// token and an empty hash would make login silently impossible.
	if c.Auth.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.Auth.AdminPasswordHash == "" {
		return errors.New("ADMIN_PASSWORD_HASH is required")
	}

	switch c.Mail.Transport {
	case "smtp":
		if c.Mail.Username == "" || c.Mail.Password == "" {
			return errors.New("EMAIL_USER and EMAIL_PASS are required for the smtp mail transport")
		}
	case "amqp":
		if c.Mail.AMQPURL == "" {
			return errors.New("AMQP_URL is required for the amqp mail transport")
		}
	case "":
	default:
		return fmt.Errorf("unknown mail transport: %s", c.Mail.Transport)
	}

	return nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
