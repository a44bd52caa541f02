package api

import (
	"github.com/recipehub/recipehub-server/internal/service"
	"github.com/recipehub/recipehub-server/internal/sse"
)

// Services groups the domain services the handlers call.
type Services struct {
	Book    *service.BookService
	Recipe  *service.RecipeService
	Version *service.VersionService
	Compare *service.CompareService
	Search  *service.SearchService
	Profile *service.ProfileService
	// Events streams change notifications. Nil disables GET /api/events.
	Events *sse.Manager
}
