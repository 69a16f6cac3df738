package display

import (
	"context"
	"strings"

	"github.com/aaronch12Ch/portafolio-sp/assets"
	"github.com/aaronch12Ch/portafolio-sp/models"
	"github.com/rs/zerolog/log"
)

const (
	PlaceholderImage = "/placeholder.svg?height=400&width=600"
	DescriptionLimit = 120
)

// Card is the view of one project on the landing page.
type Card struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
	Link        string `json:"link"`
	Available   bool   `json:"available"`
	VideoURL    string `json:"videoUrl,omitempty"`
}

// NewCard builds the card for p. The video link is only set when the stored
// key is non-blank and resolves.
func NewCard(ctx context.Context, p models.Project, resolver assets.Resolver) Card {
	card := Card{
		ID:          p.IDValue(),
		Title:       p.Title,
		Description: Truncate(p.Description, DescriptionLimit),
		ImageURL:    p.ImageURL,
		Link:        p.Link,
		Available:   p.Available,
	}
	if strings.TrimSpace(card.ImageURL) == "" {
		card.ImageURL = PlaceholderImage
	}
	if p.HasVideo() && resolver != nil {
		url, err := resolver.VideoURL(ctx, p.VideoKeyValue())
		if err != nil {
			log.Warn().Err(err).Int64("project_id", card.ID).Msg("error resolving video url")
		} else {
			card.VideoURL = url
		}
	}
	return card
}

func Cards(ctx context.Context, projects []models.Project, resolver assets.Resolver) []Card {
	out := make([]Card, 0, len(projects))
	for _, p := range projects {
		out = append(out, NewCard(ctx, p, resolver))
	}
	return out
}

// Truncate cuts s to limit runes and appends an ellipsis when it was longer.
func Truncate(s string, limit int) string {
	runes := []rune(strings.TrimSpace(s))
	if len(runes) <= limit {
		return string(runes)
	}
	return strings.TrimRight(string(runes[:limit]), " ") + "…"
}
