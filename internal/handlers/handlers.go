package handlers

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"campusboard/api/internal/access"
	"campusboard/api/internal/activity"
	"campusboard/api/internal/apperr"
	"campusboard/api/internal/config"
	"campusboard/api/internal/middleware"
	"campusboard/api/internal/repository"
	"campusboard/api/internal/security"
	"campusboard/api/internal/service"
)

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// MediaHost is the external image store behind /upload-image.
type MediaHost interface {
	service.ObjectPutter
	Pinger
}

// Dependencies are the collaborators built once in main.
type Dependencies struct {
	Config   *config.AppConfig
	Log      zerolog.Logger
	Backend  repository.Backend
	Tokens   *security.TokenCodec
	Media    MediaHost
	Activity activity.Publisher
	// Cache is nil when Redis is disabled.
	Cache Pinger
}

type HandlerSet struct {
	log      zerolog.Logger
	cfg      *config.AppConfig
	cookies  security.CookiePolicy
	resolver *access.Resolver
	auth     *service.AuthService
	users    *service.UserService
	notices  *service.NoticeService
	events   *service.EventService
	uploads  *service.UploadService
	checks   map[string]Pinger
}

func NewHandlerSet(deps Dependencies) HandlerSet {
	publisher := deps.Activity
	if publisher == nil {
		publisher = activity.Nop{}
	}

	checks := map[string]Pinger{
		"database": deps.Backend,
		"media":    deps.Media,
	}
	if deps.Cache != nil {
		checks["cache"] = deps.Cache
	}

	return HandlerSet{
		log:      deps.Log,
		cfg:      deps.Config,
		cookies:  security.CookiePolicyFor(deps.Config.Environment),
		resolver: access.NewResolver(deps.Tokens, deps.Backend.Users()),
		auth:     service.NewAuthService(deps.Backend.Users(), deps.Tokens, publisher, deps.Log),
		users:    service.NewUserService(deps.Backend.Users(), publisher, deps.Log),
		notices:  service.NewNoticeService(deps.Backend.Notices(), publisher, deps.Log),
		events:   service.NewEventService(deps.Backend.Events(), publisher, deps.Log),
		uploads:  service.NewUploadService(deps.Media, deps.Config.Media.MaxUploadBytes, deps.Log),
		checks:   checks,
	}
}

func (h HandlerSet) Register(router *gin.RouterGroup) {
	session := middleware.Session(h.resolver)

	router.GET("/healthz", h.Health)
	router.POST("/signup", h.Signup)
	router.POST("/login", h.Login)
	router.POST("/logout", h.Logout)
	router.POST("/upload-image", h.UploadImage)
	router.GET("/events", h.ListEvents)
	router.GET("/events/:id", h.GetEvent)

	if h.cfg.Security.PublicUserDirectory {
		router.GET("/users", h.ListUsers)
	} else {
		router.GET("/users", session, middleware.RequireAdmin(), h.ListUsers)
	}

	authed := router.Group("/", session)
	{
		authed.GET("/me", h.Me)

		authed.GET("/users/:email", h.GetUser)
		authed.PATCH("/users/:email", h.UpdateUser)
		authed.DELETE("/users/:email", middleware.RequireAdmin(), h.DeleteUser)
		authed.PATCH("/users/:email/role", middleware.RequireSuperadmin(), h.PromoteUser)
		authed.PATCH("/users/:email/demote", middleware.RequireSuperadmin(), h.DemoteUser)

		authed.GET("/notices", h.ListNotices)
		authed.GET("/notices/:id", h.GetNotice)
		authed.POST("/notices", middleware.RequireAdmin(), h.CreateNotice)
		authed.PUT("/notices/:id", middleware.RequireAdmin(), h.UpdateNotice)
		authed.DELETE("/notices/:id", middleware.RequireAdmin(), h.DeleteNotice)

		authed.POST("/events", middleware.RequireAdmin(), h.CreateEvent)
		authed.PUT("/events/:id", middleware.RequireAdmin(), h.UpdateEvent)
		authed.DELETE("/events/:id", middleware.RequireAdmin(), h.DeleteEvent)
	}
}

// caller returns the identity set by the session middleware. Routes without
// the middleware never call it.
func caller(c *gin.Context) access.Identity {
	identity, _ := middleware.CurrentIdentity(c)
	return identity
}

// bindJSON decodes the request body, answering 400 on malformed input.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		middleware.AbortWithError(c, apperr.Validation("invalid request body: "+err.Error()))
		return false
	}
	return true
}
