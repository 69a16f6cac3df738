// Package cmd holds the portfolio CLI commands.
package cmd

import (
	"errors"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/aaronch12Ch/portafolio-sp/admin"
	"github.com/aaronch12Ch/portafolio-sp/client"
	"github.com/aaronch12Ch/portafolio-sp/config"
	"github.com/aaronch12Ch/portafolio-sp/models"
	"github.com/aaronch12Ch/portafolio-sp/session"
	"github.com/aaronch12Ch/portafolio-sp/tui"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ErrReported marks failures the user has already been told about.
var ErrReported = errors.New("reported")

var settings config.Settings

// Setup loads configuration and configures the global logger. It runs before
// every command.
func Setup() {
	settings = config.Load()
	ConfigureLogging(settings)
}

func ConfigureLogging(s config.Settings) {
	level, err := zerolog.ParseLevel(strings.ToLower(s.LogLevel))
	if err != nil || s.LogLevel == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if s.LogFormat == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	} else {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}
}

func cliSession() *session.Session {
	return session.New(session.NewFileStore(settings.SessionFile))
}

func newShell(confirmer admin.Confirmer) (*admin.Shell, *session.Session) {
	sess := cliSession()
	return admin.NewShell(sess, client.New(settings), tui.NewNotifier(), confirmer), sess
}

// reported wraps an error the shell already showed, so main only sets the exit code.
func reported(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrReported, err)
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid project id %q", raw)
	}
	return id, nil
}

var videoTypes = map[string]string{
	".mp4":  "video/mp4",
	".m4v":  "video/mp4",
	".webm": "video/webm",
	".mov":  "video/quicktime",
	".ogv":  "video/ogg",
}

func readVideo(path string) (models.VideoFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.VideoFile{}, fmt.Errorf("failed to read video: %w", err)
	}
	ext := strings.ToLower(filepath.Ext(path))
	contentType := videoTypes[ext]
	if contentType == "" {
		contentType = mime.TypeByExtension(ext)
	}
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	return models.VideoFile{
		Filename:    filepath.Base(path),
		ContentType: contentType,
		Data:        data,
	}, nil
}
