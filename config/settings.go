package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

const (
	DefaultAPIBaseURL        = "https://portafolio-1-q45o.onrender.com/api"
	DefaultVideoAssetBaseURL = "https://portafoliovideo.s3.us-east-1.amazonaws.com/"
)

// Settings is the typed view over the environment used by every command.
type Settings struct {
	APIBaseURL     string
	RequestTimeout time.Duration
	UploadTimeout  time.Duration
	RetryMax       int

	VideoAssetMode    string // "static" or "presign"
	VideoAssetBaseURL string
	S3VideoBucket     string
	AWSRegion         string
	PresignExpire     time.Duration

	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	AcceptedOrigins []string

	SessionStore string // "memory" or "postgres"
	SessionFile  string
	Database     DatabaseSettings

	LogLevel  string
	LogFormat string

	CarouselAutoplay time.Duration
}

type DatabaseSettings struct {
	Host     string
	User     string
	Password string
	Name     string
	Port     string
	SSLMode  string
}

// DSN builds the postgres connection string the same way the original backend did.
func (d DatabaseSettings) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		d.Host, d.User, d.Password, d.Name, d.Port, d.SSLMode)
}

// Load reads an optional .env file and then the process environment.
func Load() Settings {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg("error loading .env file")
	}
	return FromMap(New())
}

// FromMap builds Settings from an environment map, applying defaults.
func FromMap(c map[string]string) Settings {
	seconds := func(key string, def int) time.Duration {
		return time.Duration(GetInt(c, key, def)) * time.Second
	}

	return Settings{
		APIBaseURL:     GetString(c, "API_BASE_URL", DefaultAPIBaseURL),
		RequestTimeout: seconds("REQUEST_TIMEOUT_SECONDS", 10),
		UploadTimeout:  seconds("UPLOAD_TIMEOUT_SECONDS", 30),
		RetryMax:       GetInt(c, "RETRY_MAX", 2),

		VideoAssetMode:    GetString(c, "VIDEO_ASSET_MODE", "static"),
		VideoAssetBaseURL: GetString(c, "VIDEO_ASSET_BASE_URL", DefaultVideoAssetBaseURL),
		S3VideoBucket:     GetString(c, "S3_VIDEO_BUCKET", "portafoliovideo"),
		AWSRegion:         GetString(c, "AWS_REGION", "us-east-1"),
		PresignExpire:     seconds("PRESIGN_EXPIRE_SECONDS", 900),

		Port:            GetString(c, "PORT", "8080"),
		ReadTimeout:     seconds("READ_TIMEOUT_SECONDS", 180),
		WriteTimeout:    seconds("WRITE_TIMEOUT_SECONDS", 180),
		IdleTimeout:     seconds("IDLE_TIMEOUT_SECONDS", 180),
		AcceptedOrigins: GetList(c, "ACCEPTED_ORIGINS", []string{"*"}),

		SessionStore: GetString(c, "SESSION_STORE", "memory"),
		SessionFile:  GetString(c, "SESSION_FILE", defaultSessionFile()),
		Database: DatabaseSettings{
			Host:     GetString(c, "DB_HOST", ""),
			User:     GetString(c, "DB_USER", ""),
			Password: GetString(c, "DB_PASSWORD", ""),
			Name:     GetString(c, "DB_NAME", ""),
			Port:     GetString(c, "DB_PORT", "5432"),
			SSLMode:  GetString(c, "DB_SSLMODE", "require"),
		},

		LogLevel:  GetString(c, "LOG_LEVEL", "info"),
		LogFormat: GetString(c, "LOG_FORMAT", "console"),

		CarouselAutoplay: seconds("CAROUSEL_AUTOPLAY_SECONDS", 5),
	}
}

func defaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "portfolio", "session.toml")
}
