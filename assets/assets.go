// Package assets turns stored video keys into URLs a browser can play.
package assets

import (
	"context"
	"fmt"
	"strings"

	"github.com/aaronch12Ch/portafolio-sp/config"
)

const (
	ModeStatic  = "static"
	ModePresign = "presign"
)

type Resolver interface {
	// VideoURL returns the playable URL for key, or "" when key is blank.
	VideoURL(ctx context.Context, key string) (string, error)
}

// New picks the resolver named by settings.VideoAssetMode.
func New(ctx context.Context, settings config.Settings) (Resolver, error) {
	switch settings.VideoAssetMode {
	case "", ModeStatic:
		return NewStaticResolver(settings.VideoAssetBaseURL), nil
	case ModePresign:
		return NewPresignResolver(ctx, settings)
	default:
		return nil, fmt.Errorf("unknown VIDEO_ASSET_MODE %q", settings.VideoAssetMode)
	}
}

// StaticResolver appends the key to a public bucket base URL.
type StaticResolver struct {
	baseURL string
}

func NewStaticResolver(baseURL string) StaticResolver {
	if baseURL != "" && !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return StaticResolver{baseURL: baseURL}
}

func (r StaticResolver) VideoURL(_ context.Context, key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", nil
	}
	return r.baseURL + key, nil
}
