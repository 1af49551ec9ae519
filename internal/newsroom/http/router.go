package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/matteiweekly/newsroom/internal/newsroom/domain"
	"github.com/matteiweekly/newsroom/internal/newsroom/service"
	"github.com/matteiweekly/newsroom/internal/newsroom/store"
	"github.com/matteiweekly/newsroom/pkg/httpx"
	"github.com/matteiweekly/newsroom/pkg/slogx"

	_ "github.com/matteiweekly/newsroom/api/newsroom" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store               store.Store
	SessionService      *service.SessionService
	UserService         *service.UserService
	ArticleService      *service.ArticleService
	ChatService         *service.ChatService
	TodoService         *service.TodoService
	NotificationService *service.NotificationService
	ExportService       *service.ExportService
	BootstrapService    *service.BootstrapService
}

func NewRouter(buildVersion string, st store.Store, logger *slog.Logger) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerUsers()
	r.registerArticles()
	r.registerChat()
	r.registerTodos()
	r.registerNotifications()
	r.registerExport()
	r.registerSystem()
	r.registerBootstrap()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Newsroom API
//	@version		0.1.0
//	@description	Editorial workflow service for a school newsletter: accounts and roles, article
//	@description	drafting and review, team chat with mentions, a shared todo list and in-app
//	@description	notifications.
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Session token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

// secured wraps h with authentication, an optional role gate and a per-user
// rate limit.
func (r *Router) secured(h http.Handler, limit httpx.RateLimitConfig, roles ...string) http.Handler {
	middlewares := []httpx.Middleware{
		httpx.AuthnMiddleware(r.SessionService),
	}
	if len(roles) > 0 {
		middlewares = append(middlewares, httpx.RequireRole(roles...))
	}
	middlewares = append(middlewares, httpx.RateLimitByUser(limit))
	return httpx.Chain(h, middlewares...)
}

func (r *Router) registerAuth() {
	h := &AuthHandler{SessionService: r.SessionService}

	// POST /login - strict rate limit by IP (authentication attempts)
	r.Mux.Handle("POST /v1/auth/login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	r.Mux.Handle("POST /v1/auth/logout",
		r.secured(http.HandlerFunc(h.HandleLogout), httpx.ModerateLimit))
	r.Mux.Handle("GET /v1/auth/session",
		r.secured(http.HandlerFunc(h.HandleSession), httpx.LenientLimit))

	// Password changes are strict: they verify the current password, so they
	// are a brute force target like login.
	r.Mux.Handle("PUT /v1/auth/password",
		r.secured(http.HandlerFunc(h.HandleChangePassword), httpx.StrictLimit))
	r.Mux.Handle("PUT /v1/users/{id}/password",
		r.secured(http.HandlerFunc(h.HandleResetPassword), httpx.ModerateLimit, string(domain.RoleAdmin)))
}

func (r *Router) registerUsers() {
	h := &UsersHandler{UserService: r.UserService}

	// POST /register - strict rate limit by IP (public signup endpoint)
	r.Mux.Handle("POST /v1/register",
		httpx.Chain(http.HandlerFunc(h.HandleRegister),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	r.Mux.Handle("POST /v1/users",
		r.secured(http.HandlerFunc(h.HandleCreate), httpx.ModerateLimit, string(domain.RoleAdmin)))
	r.Mux.Handle("GET /v1/users",
		r.secured(http.HandlerFunc(h.HandleList), httpx.LenientLimit))
	r.Mux.Handle("GET /v1/users/{id}",
		r.secured(http.HandlerFunc(h.HandleGet), httpx.LenientLimit))
	r.Mux.Handle("PUT /v1/users/{id}",
		r.secured(http.HandlerFunc(h.HandleUpdate), httpx.ModerateLimit))
	r.Mux.Handle("PUT /v1/users/{id}/role",
		r.secured(http.HandlerFunc(h.HandleChangeRole), httpx.ModerateLimit, string(domain.RoleAdmin)))
	r.Mux.Handle("PUT /v1/users/{id}/active",
		r.secured(http.HandlerFunc(h.HandleSetActive), httpx.ModerateLimit, string(domain.RoleAdmin)))
	r.Mux.Handle("DELETE /v1/users/{id}",
		r.secured(http.HandlerFunc(h.HandleDelete), httpx.ModerateLimit, string(domain.RoleAdmin)))
}

func (r *Router) registerArticles() {
	h := &ArticlesHandler{ArticleService: r.ArticleService}

	staff := []string{string(domain.RoleReviewer), string(domain.RoleAdmin)}

	r.Mux.Handle("POST /v1/articles",
		r.secured(http.HandlerFunc(h.HandleCreate), httpx.ModerateLimit,
			string(domain.RoleWriter), string(domain.RoleAdmin)))
	r.Mux.Handle("GET /v1/articles",
		r.secured(http.HandlerFunc(h.HandleList), httpx.LenientLimit))
	r.Mux.Handle("GET /v1/articles/{id}",
		r.secured(http.HandlerFunc(h.HandleGet), httpx.LenientLimit))
	r.Mux.Handle("PUT /v1/articles/{id}",
		r.secured(http.HandlerFunc(h.HandleUpdate), httpx.ModerateLimit))
	r.Mux.Handle("POST /v1/articles/{id}/submit",
		r.secured(http.HandlerFunc(h.HandleSubmit), httpx.ModerateLimit))
	r.Mux.Handle("POST /v1/articles/{id}/approve",
		r.secured(http.HandlerFunc(h.HandleApprove), httpx.ModerateLimit, staff...))
	r.Mux.Handle("POST /v1/articles/{id}/reject",
		r.secured(http.HandlerFunc(h.HandleReject), httpx.ModerateLimit, staff...))
	r.Mux.Handle("POST /v1/articles/{id}/publish",
		r.secured(http.HandlerFunc(h.HandlePublish), httpx.ModerateLimit, string(domain.RoleAdmin)))
	r.Mux.Handle("POST /v1/articles/{id}/comments",
		r.secured(http.HandlerFunc(h.HandleAddComment), httpx.ModerateLimit))
	r.Mux.Handle("DELETE /v1/articles/{id}",
		r.secured(http.HandlerFunc(h.HandleDelete), httpx.ModerateLimit))
}

func (r *Router) registerChat() {
	h := &ChatHandler{ChatService: r.ChatService}

	r.Mux.Handle("POST /v1/chat/messages",
		r.secured(http.HandlerFunc(h.HandlePost), httpx.ModerateLimit))
	r.Mux.Handle("GET /v1/chat/messages",
		r.secured(http.HandlerFunc(h.HandleList), httpx.LenientLimit))
	r.Mux.Handle("DELETE /v1/chat/messages/{id}",
		r.secured(http.HandlerFunc(h.HandleDelete), httpx.ModerateLimit))
}

func (r *Router) registerTodos() {
	h := &TodosHandler{TodoService: r.TodoService}

	staff := []string{string(domain.RoleReviewer), string(domain.RoleAdmin)}

	r.Mux.Handle("POST /v1/todos",
		r.secured(http.HandlerFunc(h.HandleCreate), httpx.ModerateLimit, staff...))
	r.Mux.Handle("GET /v1/todos",
		r.secured(http.HandlerFunc(h.HandleList), httpx.LenientLimit))
	r.Mux.Handle("PUT /v1/todos/{id}",
		r.secured(http.HandlerFunc(h.HandleUpdate), httpx.ModerateLimit, staff...))
	// Assignees may toggle their own todos, so no role gate here. The service
	// checks the assignee itself.
	r.Mux.Handle("POST /v1/todos/{id}/toggle",
		r.secured(http.HandlerFunc(h.HandleToggle), httpx.ModerateLimit))
	r.Mux.Handle("DELETE /v1/todos/{id}",
		r.secured(http.HandlerFunc(h.HandleDelete), httpx.ModerateLimit, staff...))
}

func (r *Router) registerNotifications() {
	h := &NotificationsHandler{NotificationService: r.NotificationService}

	r.Mux.Handle("GET /v1/notifications",
		r.secured(http.HandlerFunc(h.HandleList), httpx.LenientLimit))
	r.Mux.Handle("GET /v1/notifications/unread",
		r.secured(http.HandlerFunc(h.HandleUnreadCount), httpx.LenientLimit))
	r.Mux.Handle("POST /v1/notifications/read",
		r.secured(http.HandlerFunc(h.HandleMarkAllRead), httpx.ModerateLimit))
	r.Mux.Handle("POST /v1/notifications/{id}/read",
		r.secured(http.HandlerFunc(h.HandleMarkRead), httpx.ModerateLimit))
	r.Mux.Handle("DELETE /v1/notifications",
		r.secured(http.HandlerFunc(h.HandleDeleteAll), httpx.ModerateLimit))
	r.Mux.Handle("DELETE /v1/notifications/{id}",
		r.secured(http.HandlerFunc(h.HandleDelete), httpx.ModerateLimit))
	r.Mux.Handle("GET /v1/notifications/settings",
		r.secured(http.HandlerFunc(h.HandleGetSettings), httpx.LenientLimit))
	r.Mux.Handle("PUT /v1/notifications/settings",
		r.secured(http.HandlerFunc(h.HandleUpdateSettings), httpx.ModerateLimit))
}

func (r *Router) registerExport() {
	h := &ExportHandler{ExportService: r.ExportService}

	r.Mux.Handle("GET /v1/export",
		r.secured(http.HandlerFunc(h.HandleExport), httpx.ModerateLimit, string(domain.RoleAdmin)))
	r.Mux.Handle("POST /v1/import",
		r.secured(http.HandlerFunc(h.HandleImport), httpx.ModerateLimit, string(domain.RoleAdmin)))
}

func (r *Router) registerBootstrap() {
	// POST /bootstrap - very strict rate limit by IP (one-time setup endpoint)
	bootstrapHandler := &BootstrapHandler{BootstrapService: r.BootstrapService}
	r.Mux.Handle("POST /v1/bootstrap",
		httpx.Chain(bootstrapHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
