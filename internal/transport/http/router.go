// Пакет собирает HTTP-роутер сервиса: chi, мидлвары и REST-маршруты.
package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vsmolina/photoshare/internal/config"
	"github.com/vsmolina/photoshare/internal/transport/http/handlers"
	"github.com/vsmolina/photoshare/internal/transport/http/middleware"
)

// Options — параметры сборки HTTP-роутера.
type Options struct {
	Logger    *slog.Logger
	Timeout   time.Duration
	RateLimit config.RateLimitConfig
	Media     config.MediaConfig
	BasePath  string // например, "/api"; если пустой — роуты регистрируются на корне.
}

// NewRouter собирает http.Handler с chi и подключёнными middleware/роутами.
func NewRouter(svc handlers.Services, opts Options) http.Handler {
	root := chi.NewRouter()

	rl := middleware.NewRateLimiter(opts.RateLimit.RPS, opts.RateLimit.Burst)

	// Middleware (внешний -> внутренний). Шлюз чёрного списка идёт до
	// маршрутной аутентификации: отозванный токен отклоняется даже там,
	// где RequireAuth не навешан.
	root.Use(
		middleware.Recover(),
		middleware.RequestID(),
		middleware.Logging(opts.Logger),
		middleware.Metrics(),
		rl.Middleware(),
		middleware.AuthBearer(),
		middleware.Blacklist(svc.Auth),
	)
	if opts.Timeout > 0 {
		root.Use(middleware.Timeout(opts.Timeout))
	}

	h := handlers.New(svc, opts.Media)

	// Служебные эндпойнты — вне BasePath.
	root.Handle("/metrics", promhttp.Handler())
	root.Get("/livez", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	if opts.BasePath != "" {
		sub := chi.NewRouter()
		registerRoutes(sub, h, svc)
		root.Mount(opts.BasePath, sub)
		return root
	}

	registerRoutes(root, h, svc)
	return root
}

// registerRoutes — единая точка регистрации всех REST-эндпойнтов.
func registerRoutes(r chi.Router, h *handlers.Handlers, svc handlers.Services) {
	// auth
	r.Post("/auth/signup", h.Signup)
	r.Post("/auth/login", h.Login)
	r.Post("/auth/refresh", h.Refresh)
	r.Post("/auth/logout", h.Logout)
	r.Get("/auth/confirm", h.ConfirmEmail)

	// Публичное чтение.
	r.Get("/photos/search", h.SearchPhotos)
	r.Get("/photos/filter", h.FilterPhotos)
	r.Get("/photos/{id}", h.GetPhoto)
	r.Get("/photos/{id}/comments", h.ListComments)
	r.Get("/photos/{id}/rating", h.PhotoRating)
	r.Get("/users/{id}", h.Profile)
	r.Get("/users/{id}/photos", h.UserPhotos)

	// Всё остальное требует аутентификации.
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(svc.Auth))

		// профиль
		r.Get("/users/me", h.Me)
		r.Patch("/users/me", h.UpdateMe)
		r.Post("/users/me/avatar", h.UploadAvatar)

		// фотографии
		r.Post("/photos", h.UploadPhoto)
		r.Put("/photos/{id}/file", h.ReplacePhotoFile)
		r.Patch("/photos/{id}", h.UpdatePhotoDescription)
		r.Delete("/photos/{id}", h.DeletePhoto)

		// теги
		r.Post("/photos/{id}/tags", h.AddTags)
		r.Delete("/photos/{id}/tags/{name}", h.RemoveTag)
		r.Delete("/photos/{id}/tags", h.ClearTags)

		// комментарии
		r.Post("/photos/{id}/comments", h.CreateComment)
		r.Patch("/comments/{id}", h.UpdateComment)
		r.Delete("/comments/{id}", h.DeleteComment)

		// оценки
		r.Post("/photos/{id}/rating", h.RatePhoto)

		// администрирование
		r.Get("/admin/users", h.ListUsers)
		r.Patch("/admin/users/{id}/role", h.UpdateUserRole)
		r.Patch("/admin/users/{id}/allowed", h.SetUserAllowed)
		r.Get("/admin/users/{id}/statistics", h.UserStatistics)
	})
}
