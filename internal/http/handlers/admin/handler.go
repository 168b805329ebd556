package admin

import "github.com/decalforge/decalforge/internal/provider"

// Handler serves the back office API.
type Handler struct {
	*provider.Container
}

// New creates the back office handler.
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
