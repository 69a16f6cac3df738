// Package display decides how the public project list is laid out and paged.
package display

import "strings"

type Mode int

const (
	Grid Mode = iota
	Carousel
)

func (m Mode) String() string {
	if m == Carousel {
		return "carousel"
	}
	return "grid"
}

// MarshalText lets Mode render as its name in JSON.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// maxGridItems is the largest list shown as a static grid.
const maxGridItems = 3

func ModeFor(n int) Mode {
	if n <= maxGridItems {
		return Grid
	}
	return Carousel
}

type Viewport int

const (
	Narrow Viewport = iota
	Wide
)

// wideMinWidth is the smallest width, in pixels, that shows three cards per page.
const wideMinWidth = 1024

func (v Viewport) String() string {
	if v == Narrow {
		return "narrow"
	}
	return "wide"
}

func (v Viewport) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// ParseViewport defaults to Wide for anything but "narrow".
func ParseViewport(s string) Viewport {
	if strings.EqualFold(strings.TrimSpace(s), "narrow") {
		return Narrow
	}
	return Wide
}

func ViewportFor(widthPx int) Viewport {
	if widthPx < wideMinWidth {
		return Narrow
	}
	return Wide
}

func PageSize(v Viewport) int {
	if v == Narrow {
		return 1
	}
	return 3
}
