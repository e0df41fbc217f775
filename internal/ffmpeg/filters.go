package ffmpeg

import (
	"fmt"
	"strings"
)

// VideoFilterChain builds video filter chains.
type VideoFilterChain struct {
	filters []string
}

// NewVideoFilterChain creates a new empty filter chain.
func NewVideoFilterChain() *VideoFilterChain {
	return &VideoFilterChain{}
}

// AddScale adds a scale filter to width, keeping the aspect ratio with an even height.
func (c *VideoFilterChain) AddScale(width int) *VideoFilterChain {
	if width > 0 {
		c.filters = append(c.filters, fmt.Sprintf("scale=%d:-2", width))
	}
	return c
}

// AddFPS adds a constant frame rate filter.
func (c *VideoFilterChain) AddFPS(fps string) *VideoFilterChain {
	if fps != "" {
		c.filters = append(c.filters, "fps="+fps)
	}
	return c
}

// Build builds the filter chain into a single filter string.
// Returns empty string if no filters are present.
func (c *VideoFilterChain) Build() string {
	if len(c.filters) == 0 {
		return ""
	}
	return strings.Join(c.filters, ",")
}
