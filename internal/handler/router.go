package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	chathandler "github.com/orviss/podium/backend/internal/handler/chat"
	feedbackhandler "github.com/orviss/podium/backend/internal/handler/feedback"
	idealhandler "github.com/orviss/podium/backend/internal/handler/ideal"
	mediahandler "github.com/orviss/podium/backend/internal/handler/media"
	middlewarePkg "github.com/orviss/podium/backend/internal/middleware"
	"github.com/orviss/podium/backend/internal/registry"
	"github.com/orviss/podium/backend/internal/service/conversation"
	idealservice "github.com/orviss/podium/backend/internal/service/ideal"
	"github.com/orviss/podium/backend/internal/service/speech"
	"github.com/orviss/podium/backend/pkg/utils"
)

// NewRouter wires HTTP routes to core services. The chat manager and the
// ideal workflow may be nil when their upstream credentials are missing;
// their routes then answer 503 instead of panicking.
func NewRouter(reg registry.Store, manager *conversation.Manager, workflow *idealservice.Workflow, clips *speech.ClipStore) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	r.Route("/api", func(api chi.Router) {
		feedbackhandler.New(reg).RegisterRoutes(api)

		resetWorkflow := func() {}
		if workflow != nil {
			resetWorkflow = workflow.Reset
		}
		mediahandler.New(reg, resetWorkflow).RegisterRoutes(api)

		if manager != nil {
			chathandler.New(manager, reg).RegisterRoutes(api)
		} else {
			api.Post("/chat/start", serviceUnavailable("chat unavailable"))
			api.Post("/chat/message", serviceUnavailable("chat unavailable"))
		}

		if workflow != nil {
			idealhandler.New(workflow, reg, clips).RegisterRoutes(api)
		} else {
			api.Post("/ideal/generate", serviceUnavailable("ideal speech unavailable"))
			api.Get("/ideal/status", serviceUnavailable("ideal speech unavailable"))
		}
	})

	return r
}

func serviceUnavailable(message string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		utils.RespondError(w, http.StatusServiceUnavailable, message)
	}
}
