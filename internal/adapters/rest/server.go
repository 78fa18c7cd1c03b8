package rest

import (
	"context"
	"fmt"
	"net/http"

	core_port "listings-service/internal/core/port"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Server - наш REST API сервер.
type Server struct {
	httpServer *http.Server
	logger     core_port.LoggerPort
}

// NewServer создает новый экземпляр сервера.
func NewServer(
	port string,
	allowedOrigins []string,
	listings *ListingsHandler,
	favorites *FavoritesHandler,
	recommendations *RecommendationsHandler,
	baseLogger core_port.LoggerPort,
) *Server {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RealIP)
	r.Use(LoggerMiddleware(baseLogger))
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-User-ID", "X-User-Role", "X-Trace-ID"},
		AllowCredentials: true,
		MaxAge:           300, // 5 минут
	}))

	// Неподдерживаемый метод на известном пути - 405, не 404.
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		WriteJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		WriteJSONError(w, http.StatusNotFound, "Route not found")
	})

	r.Route("/api/v1", func(r chi.Router) {
		// Публичные чтения каталога
		r.Get("/listings", listings.FindListings)
		r.Get("/listings/{externalID}", listings.GetListing)

		// Мутации каталога требуют идентичности ( API Gateway)
		r.Group(func(r chi.Router) {
			r.Use(AuthMiddleware)

			r.Post("/listings", listings.CreateListing)
			r.Put("/listings/{externalID}", listings.UpdateListing)
			r.Delete("/listings/{externalID}", listings.DeleteListing)
		})

		r.Route("/favorites", func(r chi.Router) {
			r.Use(AuthMiddleware)

			r.Get("/", favorites.GetUserFavorites)
			r.Post("/", favorites.AddToFavorites)
			r.Delete("/", favorites.RemoveFromFavorites)
		})

		r.Route("/recommendations", func(r chi.Router) {
			r.Use(AuthMiddleware)

			r.Get("/received", recommendations.GetReceivedRecommendations)
			r.Post("/send", recommendations.SendRecommendation)
		})
	})

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	return &Server{
		httpServer: srv,
		logger:     baseLogger,
	}
}

// Start запускает HTTP-сервер.
func (s *Server) Start() error {
	s.logger.Info("Starting REST API server", core_port.Fields{"address": s.httpServer.Addr})
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		s.logger.Error("Could not start server", err, nil)
		return fmt.Errorf("could not start server: %w", err)
	}
	return nil
}

// Stop корректно останавливает сервер.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping REST API server...", nil)
	return s.httpServer.Shutdown(ctx)
}
