package display

import (
	"context"

	"github.com/aaronch12Ch/portafolio-sp/assets"
	"github.com/aaronch12Ch/portafolio-sp/models"
)

// Page is one rendered view of the listing: every card in grid mode, or the
// current carousel page.
type Page struct {
	Mode     Mode     `json:"mode"`
	Viewport Viewport `json:"viewport"`
	Page     int      `json:"page"`
	Pages    int      `json:"pages"`
	PageSize int      `json:"pageSize"`
	Total    int      `json:"total"`
	Cards    []Card   `json:"cards"`
}

// BuildPage lays out projects for viewport and returns the requested page.
// Out of range pages wrap.
func BuildPage(ctx context.Context, projects []models.Project, viewport Viewport, page int, resolver assets.Resolver) Page {
	out := Page{
		Mode:     ModeFor(len(projects)),
		Viewport: viewport,
		Total:    len(projects),
	}
	if out.Mode == Grid {
		out.Pages = 1
		out.PageSize = len(projects)
		out.Cards = Cards(ctx, projects, resolver)
		return out
	}

	c := NewCarousel(len(projects), PageSize(viewport))
	pages := c.Pages()
	c.GoTo(((page % pages) + pages) % pages)

	out.Page = c.Page()
	out.Pages = pages
	out.PageSize = c.PageSize()
	out.Cards = Cards(ctx, c.Window(projects), resolver)
	return out
}
