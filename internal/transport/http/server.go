package http

import (
	"net/http"
	"time"

	"github.com/MonsieurBarti/quizz-webapp/internal/app"
	"github.com/MonsieurBarti/quizz-webapp/internal/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// Server exposes the quizz-taking use cases over REST and WebSocket.
type Server struct {
	router  *chi.Mux
	service *app.TakerService
	ws      *WSHandler
	log     *zap.Logger
	metrics *metrics.Metrics
}

func NewServer(service *app.TakerService, log *zap.Logger, m *metrics.Metrics) *Server {
	s := &Server{
		service: service,
		ws:      NewWSHandler(service, log),
		log:     log,
		metrics: m,
	}
	s.setupRouter()
	return s
}

// Router returns the configured router.
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) setupRouter() {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.observe)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", s.metrics.Handler())

	// long-lived, so kept out of the request timeout
	r.Get("/ws/leaderboard", s.ws.ServeWS)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Timeout(15 * time.Second))

		r.Post("/players", s.handleSavePlayer)
		r.Post("/attempts", s.handleSaveAttempt)
		r.Post("/responses", s.handleSubmitAnswer)
		r.Route("/quizzes/{quizzId}", func(r chi.Router) {
			r.Get("/questions/next", s.handleNextQuestion)
			r.Get("/leaderboard", s.handleLeaderboard)
		})
	})

	s.router = r
}

// observe logs and measures every request, labelled by route pattern.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			elapsed := time.Since(start)
			endpoint := r.URL.Path
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				endpoint = rctx.RoutePattern()
			}
			s.metrics.ObserveRequest(r.Method, endpoint, ww.Status(), elapsed)
			s.log.Info("http request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Int64("duration_ms", elapsed.Milliseconds()),
				zap.String("request_id", middleware.GetReqID(r.Context())),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}
