package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"pawfinder/web/internal/catalog"
	"pawfinder/web/internal/middleware"
	"pawfinder/web/internal/models"
	"pawfinder/web/internal/service"
)

// PublicPaths are reachable without a session.
var PublicPaths = []string{"/login", "/register", "/welcome", "/healthz", "/metrics"}

type AuthService interface {
	Register(ctx context.Context, input service.RegisterInput) (models.User, error)
	Login(ctx context.Context, input service.LoginInput) (service.LoginResult, error)
	Logout(ctx context.Context, sessionID string) error
}

type ProfileService interface {
	Get(ctx context.Context, userID string) (models.User, error)
	Update(ctx context.Context, userID string, input service.ProfileInput) (models.User, error)
}

type FavoriteService interface {
	Add(ctx context.Context, userID string, animalID int64) error
	Remove(ctx context.Context, userID string, animalID int64) error
	IsFavorite(ctx context.Context, userID string, animalID int64) (bool, error)
	List(ctx context.Context, userID string) ([]catalog.Animal, error)
}

type AnimalService interface {
	Discover(ctx context.Context, location string, page int) ([]catalog.Animal, error)
	Get(ctx context.Context, animalID int64) (catalog.Animal, error)
}

type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a plain function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

type TokenStatus interface {
	State() catalog.TokenState
}

type Deps struct {
	Log         zerolog.Logger
	Environment string
	Cookie      middleware.SessionCookie
	Auth        AuthService
	Profiles    ProfileService
	Favorites   FavoriteService
	Animals     AnimalService
	Database    Pinger
	Cache       Pinger
	Tokens      TokenStatus
}

type HandlerSet struct {
	log         zerolog.Logger
	environment string
	cookie      middleware.SessionCookie
	auth        AuthService
	profiles    ProfileService
	favorites   FavoriteService
	animals     AnimalService
	database    Pinger
	cache       Pinger
	tokens      TokenStatus
}

func NewHandlerSet(d Deps) HandlerSet {
	return HandlerSet{
		log:         d.Log,
		environment: d.Environment,
		cookie:      d.Cookie,
		auth:        d.Auth,
		profiles:    d.Profiles,
		favorites:   d.Favorites,
		animals:     d.Animals,
		database:    d.Database,
		cache:       d.Cache,
		tokens:      d.Tokens,
	}
}

func (h HandlerSet) RegisterRoutes(router gin.IRouter) {
	router.GET("/", func(c *gin.Context) { c.Redirect(http.StatusFound, "/discover") })
	router.GET("/welcome", h.Welcome)
	router.GET("/healthz", h.Health)

	router.GET("/register", h.RegisterForm)
	router.POST("/register", h.Register)
	router.GET("/login", h.LoginForm)
	router.POST("/login", h.Login)
	router.GET("/logout", h.authed(h.Logout))

	router.GET("/discover", h.authed(h.Discover))
	router.GET("/dog/:animalId", h.authed(h.Animal))

	router.GET("/favorite", h.authed(h.ListFavorites))
	router.POST("/favorite", h.authed(h.AddFavorite))
	router.DELETE("/favorite", h.authed(h.RemoveFavorite))
	router.DELETE("/favorite/:animalId", h.authed(h.RemoveFavorite))

	router.GET("/profile", h.authed(h.Profile))
	router.POST("/profile", h.authed(h.UpdateProfile))
}

type sessionHandler func(c *gin.Context, session models.Session)

// authed hands the request's session to fn, redirecting to the login form when there is none.
func (h HandlerSet) authed(fn sessionHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := middleware.CurrentSession(c)
		if !ok {
			c.Redirect(http.StatusFound, middleware.LoginPath)
			return
		}
		fn(c, session)
	}
}

func wantsJSON(c *gin.Context) bool {
	return c.NegotiateFormat(gin.MIMEHTML, gin.MIMEJSON) == gin.MIMEJSON
}

func message(c *gin.Context, status int, msg string) {
	outcome := "success"
	if status >= http.StatusBadRequest {
		outcome = "error"
	}
	c.JSON(status, gin.H{"status": outcome, "message": msg})
}

// page builds template data; User drives the navigation bar.
func page(c *gin.Context, title string) gin.H {
	data := gin.H{"Title": title}
	if session, ok := middleware.CurrentSession(c); ok {
		user := session.User
		data["User"] = &user
	}
	return data
}

func (h HandlerSet) renderError(c *gin.Context, status int, title, detail string) {
	if wantsJSON(c) {
		message(c, status, detail)
		return
	}
	data := page(c, title)
	data["Error"] = detail
	c.HTML(status, "error.html", data)
}

func (h HandlerSet) logger(c *gin.Context, session models.Session) zerolog.Logger {
	return h.log.With().
		Str("request_id", c.Writer.Header().Get("X-Request-Id")).
		Str("user_id", session.User.ID).
		Logger()
}
