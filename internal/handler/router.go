package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/boardman/internal/middleware"
)

// RouterDeps はルーター構築に必要な依存を保持する。
type RouterDeps struct {
	ProfileService    ProfileServiceInterface
	BoardService      BoardServiceInterface
	EntityService     EntityServiceInterface
	HealthChecker     HealthChecker
	MetricsHandler    http.Handler
	StatusRecorder    middleware.HTTPStatusRecorder
	CORSAllowedOrigin string
}

// NewRouter はAPIルーターを構築する。
func NewRouter(deps RouterDeps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewLoggingMiddleware(slog.Default(), deps.StatusRecorder))
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewSecurityHeadersMiddleware())

	healthHandler := NewHealthHandler(deps.HealthChecker)
	r.Get("/health", healthHandler.Check)

	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	profileHandler := NewProfileHandler(deps.ProfileService)
	boardHandler := NewBoardHandler(deps.BoardService)
	entityHandler := NewEntityHandler(deps.EntityService)

	r.Route("/api", func(r chi.Router) {
		r.Route("/profiles", func(r chi.Router) {
			r.Post("/", profileHandler.Create)
			r.Post("/login", profileHandler.Login)
			r.Post("/remove", profileHandler.Remove)
		})

		r.Route("/boards", func(r chi.Router) {
			r.Post("/", boardHandler.Save)
			r.Post("/all", boardHandler.List)
			r.Post("/{boardID}", boardHandler.Get)
			r.Post("/{boardID}/members", boardHandler.Members)
			r.Post("/{boardID}/members/add", boardHandler.AddMember)
		})

		r.Route("/lists", func(r chi.Router) {
			r.Post("/", entityHandler.CreateList)
			r.Put("/", entityHandler.UpdateList)
		})
		r.Route("/cards", func(r chi.Router) {
			r.Post("/", entityHandler.CreateCard)
			r.Put("/", entityHandler.UpdateCard)
		})
		r.Route("/checklists", func(r chi.Router) {
			r.Post("/", entityHandler.CreateChecklist)
			r.Put("/", entityHandler.UpdateChecklist)
		})
		r.Route("/points", func(r chi.Router) {
			r.Post("/", entityHandler.CreatePoint)
			r.Put("/", entityHandler.UpdatePoint)
		})
		r.Route("/comments", func(r chi.Router) {
			r.Post("/", entityHandler.CreateComment)
			r.Put("/", entityHandler.UpdateComment)
		})
	})

	return r
}
