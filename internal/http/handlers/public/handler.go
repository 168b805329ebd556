package public

import "github.com/decalforge/decalforge/internal/provider"

// Handler serves the storefront API: catalog, cart, checkout, order
// tracking and payment webhooks.
type Handler struct {
	*provider.Container
}

// New creates the storefront handler.
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
