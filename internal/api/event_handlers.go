package api

import (
	"net/http"

	"github.com/recipehub/recipehub-server/internal/http/response"
	"github.com/recipehub/recipehub-server/internal/sse"
)

// registerEventRoutes mounts the change stream. It bypasses huma because
// the response is an open-ended text/event-stream.
func (s *Server) registerEventRoutes() {
	if s.services.Events == nil {
		return
	}

	handler := sse.NewHandler(s.services.Events, s.logger.With("component", "sse"))
	s.router.Get("/api/events", func(w http.ResponseWriter, r *http.Request) {
		identity, err := requireIdentity(r.Context())
		if err != nil {
			response.HandleError(w, err, s.logger)
			return
		}
		handler.Stream(w, r, identity.UserID)
	})
}
