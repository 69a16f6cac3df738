package display

import (
	"context"
	"sync"
	"time"

	"github.com/aaronch12Ch/portafolio-sp/models"
)

// MinDragDistance is how far, in pixels, a drag must travel to change page.
const MinDragDistance = 50.0

// CarouselPager pages through count items pageSize at a time. Paging wraps in both
// directions. It is safe for concurrent use, so Autoplay can run alongside
// user navigation.
type CarouselPager struct {
	mu        sync.Mutex
	count     int
	pageSize  int
	page      int
	dragging  bool
	dragStart float64
	dragLast  float64
}

func NewCarousel(count, pageSize int) *CarouselPager {
	if pageSize < 1 {
		pageSize = 1
	}
	if count < 0 {
		count = 0
	}
	return &CarouselPager{count: count, pageSize: pageSize}
}

// Pages is ceil(count/pageSize).
func (c *CarouselPager) Pages() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pagesLocked()
}

func (c *CarouselPager) pagesLocked() int {
	return (c.count + c.pageSize - 1) / c.pageSize
}

func (c *CarouselPager) Page() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.page
}

func (c *CarouselPager) PageSize() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pageSize
}

func (c *CarouselPager) Next() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stepLocked(1)
}

func (c *CarouselPager) Prev() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stepLocked(-1)
}

func (c *CarouselPager) stepLocked(delta int) {
	pages := c.pagesLocked()
	if pages == 0 {
		return
	}
	c.page = ((c.page+delta)%pages + pages) % pages
}

// GoTo jumps to page, as an indicator dot does. Out of range pages are ignored.
func (c *CarouselPager) GoTo(page int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if page < 0 || page >= c.pagesLocked() {
		return false
	}
	c.page = page
	return true
}

// Resize changes the item count or page size, keeping the first visible item
// on screen.
func (c *CarouselPager) Resize(count, pageSize int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if pageSize < 1 {
		pageSize = 1
	}
	first := c.page * c.pageSize
	c.count = count
	c.pageSize = pageSize
	c.page = first / pageSize
	if pages := c.pagesLocked(); c.page >= pages {
		c.page = 0
	}
}

// Bounds returns the half-open item range of the current page.
func (c *CarouselPager) Bounds() (int, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	start := c.page * c.pageSize
	end := min(start+c.pageSize, c.count)
	if start > end {
		start = end
	}
	return start, end
}

// Window returns the items of the current page.
func (c *CarouselPager) Window(items []models.Project) []models.Project {
	start, end := c.Bounds()
	end = min(end, len(items))
	start = min(start, end)
	return items[start:end]
}

func (c *CarouselPager) BeginDrag(x float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dragging = true
	c.dragStart = x
	c.dragLast = x
}

func (c *CarouselPager) MoveDrag(x float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.dragging {
		c.dragLast = x
	}
}

// EndDrag finishes a drag and reports whether it changed page. Dragging left
// past MinDragDistance advances; dragging right goes back.
func (c *CarouselPager) EndDrag() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.dragging {
		return false
	}
	c.dragging = false
	delta := c.dragLast - c.dragStart
	switch {
	case delta <= -MinDragDistance:
		c.stepLocked(1)
		return true
	case delta >= MinDragDistance:
		c.stepLocked(-1)
		return true
	}
	return false
}

func (c *CarouselPager) Dragging() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dragging
}

// Autoplay advances one page per interval until ctx is done. Ticks that land
// during a drag are skipped.
func (c *CarouselPager) Autoplay(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.mu.Lock()
			if !c.dragging {
				c.stepLocked(1)
			}
			c.mu.Unlock()
		}
	}
}
