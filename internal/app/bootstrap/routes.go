// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	applicationsfeature "github.com/dalemusser/labsite/internal/app/features/applications"
	applyfeature "github.com/dalemusser/labsite/internal/app/features/apply"
	authgooglefeature "github.com/dalemusser/labsite/internal/app/features/authgoogle"
	errorsfeature "github.com/dalemusser/labsite/internal/app/features/errors"
	healthfeature "github.com/dalemusser/labsite/internal/app/features/health"
	homefeature "github.com/dalemusser/labsite/internal/app/features/home"
	loginfeature "github.com/dalemusser/labsite/internal/app/features/login"
	logoutfeature "github.com/dalemusser/labsite/internal/app/features/logout"
	membersfeature "github.com/dalemusser/labsite/internal/app/features/members"
	publicationsfeature "github.com/dalemusser/labsite/internal/app/features/publications"
	settingsfeature "github.com/dalemusser/labsite/internal/app/features/settings"
	adminstore "github.com/dalemusser/labsite/internal/app/store/admins"
	"github.com/dalemusser/labsite/internal/app/store/oauthstate"
	"github.com/dalemusser/labsite/internal/app/system/auth"
	"github.com/dalemusser/labsite/internal/app/system/mailer"
	"github.com/dalemusser/labsite/internal/app/system/ratelimit"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/csrf"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. At this point you have access to:
//   - coreCfg: WAFFLE core configuration (ports, env, timeouts, etc.)
//   - appCfg: app-specific configuration defined in AppConfig
//   - deps: any DB or backend clients bundled in DBDeps
//   - logger: the fully configured zap.Logger for this app
//
// The public site (home, members, publications, apply) needs no login.
// Everything under /admin requires a signed-in admin.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	if err := auth.InitSessionStore(appCfg.SessionKey, appCfg.SessionDomain, secure, logger); err != nil {
		logger.Error("session store init failed", zap.Error(err))
		return nil, err
	}

	// Initialize and boot the template engine once at startup.
	// Dev mode enables template reloading for faster iteration.
	eng := templates.New(coreCfg.Env == "dev")
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)

	// Create error logger for handlers.
	errLog := errorsfeature.NewErrorLogger(logger)

	db := deps.MongoDatabase

	smtp := mailer.New(mailer.Config{
		Host:     appCfg.MailSMTPHost,
		Port:     appCfg.MailSMTPPort,
		Username: appCfg.MailSMTPUser,
		Password: appCfg.MailSMTPPass,
		From:     appCfg.MailFrom,
	}, logger)

	r := chi.NewRouter()

	// Every form posts the gorilla.csrf.Token field; GETs pass through.
	r.Use(csrf.Protect([]byte(appCfg.SessionKey),
		csrf.Secure(secure),
		csrf.Path("/"),
	))

	// Global auth middleware: loads SessionUser into context if logged in.
	// This makes the current user available to all handlers via auth.CurrentUser(r).
	r.Use(auth.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/healthz", healthfeature.Routes(healthHandler))

	// Static assets with pre-compressed file support (gzip/brotli)
	r.Handle("/static/*", fileserver.Handler("/static", "public"))

	// Public pages
	homeHandler := homefeature.NewHandler(db, logger)
	r.Mount("/", homefeature.Routes(homeHandler))

	membersHandler := membersfeature.NewHandler(db, deps.Media, errLog, logger)
	r.Mount("/members", membersfeature.Routes(membersHandler))

	pubsHandler := publicationsfeature.NewHandler(db, deps.Media, errLog, logger)
	r.Mount("/publications", publicationsfeature.Routes(pubsHandler))

	applyHandler := applyfeature.NewHandler(db, smtp, appCfg.BaseURL, errLog, logger)
	r.Mount("/apply", applyfeature.Routes(applyHandler))

	// Authentication
	googleHandler := authgooglefeature.NewHandler(db, oauthstate.New(db), appCfg.GoogleClientID, appCfg.GoogleClientSecret, appCfg.BaseURL, errLog, logger)
	r.Mount("/auth/google", authgooglefeature.Routes(googleHandler))

	loginHandler := loginfeature.NewHandler(adminstore.New(db), ratelimit.NewLoginLimiter(), googleHandler.IsConfigured(), errLog, logger)
	r.Mount("/login", loginfeature.Routes(loginHandler))

	logoutHandler := logoutfeature.NewHandler(logger)
	r.Mount("/logout", logoutfeature.Routes(logoutHandler))

	// Error pages
	errorsHandler := errorsfeature.NewHandler()
	r.Get("/forbidden", errorsHandler.Forbidden)
	r.Get("/unauthorized", errorsHandler.Unauthorized)
	r.NotFound(errorsHandler.NotFound)

	// Admin area: roster, publications, applications, and site settings.
	r.Route("/admin", func(ar chi.Router) {
		ar.Use(auth.RequireSignedIn)
		ar.Use(auth.RequireRole("admin"))

		ar.Mount("/members", membersfeature.AdminRoutes(membersHandler))
		ar.Mount("/publications", publicationsfeature.AdminRoutes(pubsHandler))

		appsHandler := applicationsfeature.NewHandler(db, errLog, logger)
		ar.Mount("/applications", applicationsfeature.AdminRoutes(appsHandler))

		settingsHandler := settingsfeature.NewHandler(db, errLog, logger)
		ar.Mount("/settings", settingsfeature.AdminRoutes(settingsHandler))
	})

	return r, nil
}
