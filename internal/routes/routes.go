package routes

import (
	"net/http"
	"time"

	"github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "portfolio-site/docs" // registers the swagger spec
	"portfolio-site/internal/app"
	"portfolio-site/internal/config"
	"portfolio-site/internal/handlers"
	"portfolio-site/internal/logging"
	"portfolio-site/internal/middleware"
)

// formOverhead is the room left for text fields next to an uploaded image.
const formOverhead = 1 << 20

// Setup builds the application handler: health checks, static assets, the
// JSON API, swagger docs, and the CSRF protected HTML site with its admin
// panel.
func Setup(cfg *config.Config, a *app.App, log logging.Logger) (http.Handler, error) {
	render, err := handlers.NewRenderer(log)
	if err != nil {
		return nil, err
	}
	protect, err := middleware.CSRF([]byte(cfg.Server.CSRFKey), cfg.Server.CookieSecure)
	if err != nil {
		return nil, err
	}

	var (
		services = a.Services
		health   = handlers.NewHealthHandler(a, cfg.Backend.Driver)
		api      = handlers.NewAPIHandler(services, log)
		site     = handlers.NewSiteHandler(services, render, log)
		auth     = handlers.NewAuthHandler(services, render, log, cfg.Server.CookieSecure, sessionTTL(cfg))
		projects = handlers.NewProjectsHandler(services, render, log)
		profiles = handlers.NewProfilesHandler(services, render, log)
		messages = handlers.NewMessagesHandler(services, render, log)
	)

	mux := http.NewServeMux()

	// Health check routes
	mux.HandleFunc("GET /healthz", health.HealthCheck)
	mux.HandleFunc("GET /livez", health.LivenessCheck)
	mux.HandleFunc("GET /readyz", health.ReadinessCheck)

	mux.Handle("GET /static/", handlers.StaticHandler())
	if a.Files != nil {
		mux.Handle("GET /storage/", a.Files)
	}
	mux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	// JSON API
	apiMux := http.NewServeMux()
	apiMux.HandleFunc("GET /api/projects", api.ListProjects)
	apiMux.HandleFunc("GET /api/projects/{id}", api.GetProject)
	apiMux.HandleFunc("GET /api/profiles", api.ListProfiles)
	apiMux.HandleFunc("POST /api/messages", api.CreateMessage)
	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   cfg.CORS.AllowedMethods,
		AllowedHeaders:   cfg.CORS.AllowedHeaders,
		AllowCredentials: cfg.CORS.AllowCredentials,
	})
	mux.Handle("/api/", c.Handler(apiMux))

	// HTML site
	html := http.NewServeMux()
	html.HandleFunc("GET /{$}", site.Home)
	html.HandleFunc("GET /about", site.About)
	html.HandleFunc("GET /portfolio", site.Portfolio)
	html.HandleFunc("GET /portfolio/{id}", site.ProjectDetail)
	html.HandleFunc("GET /contact", site.Contact)
	html.HandleFunc("POST /contact", site.SubmitContact)
	html.HandleFunc("/", site.NotFound)

	// Admin panel
	inflight := middleware.NewInFlight(http.HandlerFunc(site.Busy))
	guard := middleware.SessionGuard(services.Auth, "/admin/login", log)
	admin := func(h http.HandlerFunc) http.Handler {
		return guard(inflight.Wrap(h))
	}

	html.Handle("GET /admin/login", middleware.RedirectAuthenticated(services.Auth, "/admin/dashboard")(http.HandlerFunc(auth.LoginPage)))
	html.HandleFunc("POST /admin/login", auth.Login)
	html.HandleFunc("POST /admin/logout", auth.Logout)
	html.Handle("GET /admin/{$}", http.RedirectHandler("/admin/dashboard", http.StatusSeeOther))
	html.Handle("GET /admin/dashboard", admin(auth.Dashboard))

	html.Handle("GET /admin/projects", admin(projects.List))
	html.Handle("POST /admin/projects", admin(projects.Save))
	html.Handle("GET /admin/projects/{id}/delete", admin(projects.ConfirmDelete))
	html.Handle("POST /admin/projects/{id}/delete", admin(projects.Delete))

	html.Handle("GET /admin/profiles", admin(profiles.List))
	html.Handle("POST /admin/profiles", admin(profiles.Save))
	html.Handle("GET /admin/profiles/{id}/delete", admin(profiles.ConfirmDelete))
	html.Handle("POST /admin/profiles/{id}/delete", admin(profiles.Delete))

	html.Handle("GET /admin/messages", admin(messages.List))
	html.Handle("POST /admin/messages/{id}/read", admin(messages.MarkRead))
	html.Handle("GET /admin/messages/{id}/delete", admin(messages.ConfirmDelete))
	html.Handle("POST /admin/messages/{id}/delete", admin(messages.Delete))

	// the limit wraps CSRF because the token check parses the body
	mux.Handle("/", middleware.LimitBody(cfg.MaxUploadBytes()+formOverhead)(protect(html)))

	return middleware.Recover(log)(middleware.RequestLogger(log)(mux)), nil
}

// sessionTTL is the session cookie lifetime. Zero keeps it a browser session
// cookie; only the postgres driver issues sessions with a fixed lifetime.
func sessionTTL(cfg *config.Config) time.Duration {
	if cfg.Backend.Driver == config.DriverPostgres {
		return cfg.JWT.SessionTTL
	}
	return 0
}
