package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/pymenet/pymenet/internal/auth"
	"go.uber.org/zap"
)

// NewRouter assembles the full HTTP surface. Registration, login and the
// health check are public; everything else requires a valid token.
func NewRouter(
	accounts *AccountHandler,
	organizations *OrganizationHandler,
	messaging *MessagingHandler,
	jwtSecret string,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, logger, http.StatusOK, map[string]string{"status": "ok"})
		})
		r.Post("/auth/register", accounts.Register)
		r.Post("/auth/login", accounts.Login)

		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware(jwtSecret))

			r.Get("/dashboard", accounts.Dashboard)
			r.Get("/users", accounts.ListUsers)
			r.Get("/profile", accounts.GetProfile)
			r.Patch("/profile", accounts.UpdateProfile)

			r.Route("/companies", func(r chi.Router) {
				r.Post("/", organizations.CreateCompany)
				r.Get("/", organizations.ListCompanies)
				r.Get("/{id}", organizations.GetCompany)
				r.Patch("/{id}", organizations.UpdateCompany)
				r.Delete("/{id}", organizations.DeleteCompany)
				r.Post("/{id}/join", organizations.JoinCompany)
				r.Post("/{id}/leave", organizations.LeaveCompany)
				r.Post("/{id}/chat", messaging.ResolveCompanyChat)
			})

			r.Route("/cooperatives", func(r chi.Router) {
				r.Post("/", organizations.CreateCooperative)
				r.Get("/", organizations.ListCooperatives)
				r.Get("/{id}", organizations.GetCooperative)
				r.Patch("/{id}", organizations.UpdateCooperative)
				r.Delete("/{id}", organizations.DeleteCooperative)
				r.Post("/{id}/join", organizations.JoinCooperative)
				r.Post("/{id}/leave", organizations.LeaveCooperative)
				r.Post("/{id}/chat", messaging.ResolveCooperativeChat)
			})

			r.Post("/users/{id}/chat", messaging.ResolveDirectChat)

			r.Route("/chats", func(r chi.Router) {
				r.Get("/", messaging.ListChats)
				r.Get("/{id}", messaging.GetChat)
				r.Get("/{id}/messages", messaging.ListMessages)
				r.Post("/{id}/messages", messaging.PostMessage)
			})
		})
	})

	return r
}

// requestLogger logs one line per request with method, path, status and
// duration.
func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Info("Request handled",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("duration", time.Since(start)),
			)
		})
	}
}
