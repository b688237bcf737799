package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"pawfinder/web/internal/models"
	"pawfinder/web/internal/service"
)

type registerRequest struct {
	Email     string `form:"email" json:"email"`
	Password  string `form:"password" json:"password"`
	FirstName string `form:"first_name" json:"first_name"`
	LastName  string `form:"last_name" json:"last_name"`
	Location  string `form:"location" json:"location"`
}

func (h HandlerSet) RegisterForm(c *gin.Context) {
	c.HTML(http.StatusOK, "register.html", page(c, "Register"))
}

// Register answers every failure the same way so the response does not reveal
// whether an email is already taken.
func (h HandlerSet) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBind(&req); err != nil {
		h.registerFailed(c, http.StatusBadRequest, "Invalid input")
		return
	}

	_, err := h.auth.Register(c.Request.Context(), service.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Location:  req.Location,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			h.log.Info().Err(err).Msg("registration rejected")
			h.registerFailed(c, http.StatusBadRequest, "Invalid input")
			return
		}
		h.log.Warn().Err(err).Msg("registration failed")
		h.registerFailed(c, http.StatusBadRequest, "Registration failed")
		return
	}

	if wantsJSON(c) {
		message(c, http.StatusOK, "Success")
		return
	}
	c.Redirect(http.StatusFound, "/login")
}

func (h HandlerSet) registerFailed(c *gin.Context, status int, msg string) {
	if wantsJSON(c) {
		message(c, status, msg)
		return
	}
	c.Redirect(http.StatusFound, "/register")
}

type loginRequest struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

func (h HandlerSet) LoginForm(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", page(c, "Log in"))
}

func (h HandlerSet) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBind(&req); err != nil {
		h.loginFailed(c, http.StatusUnauthorized, "Password and Email do not Match")
		return
	}

	result, err := h.auth.Login(c.Request.Context(), service.LoginInput{
		Email:     req.Email,
		Password:  req.Password,
		IPAddress: c.ClientIP(),
		UserAgent: c.GetHeader("User-Agent"),
	})
	if err != nil {
		if errors.Is(err, service.ErrAuthenticationFailed) {
			h.loginFailed(c, http.StatusUnauthorized, "Password and Email do not Match")
			return
		}
		h.log.Error().Err(err).Msg("login failed")
		h.loginFailed(c, http.StatusServiceUnavailable, "Login is unavailable, try again later")
		return
	}

	h.cookie.Set(c, result.Token)
	if wantsJSON(c) {
		message(c, http.StatusOK, "Success")
		return
	}
	c.Redirect(http.StatusFound, "/discover")
}

func (h HandlerSet) loginFailed(c *gin.Context, status int, msg string) {
	if wantsJSON(c) {
		message(c, status, msg)
		return
	}
	c.Redirect(http.StatusFound, "/login")
}

func (h HandlerSet) Logout(c *gin.Context, session models.Session) {
	if err := h.auth.Logout(c.Request.Context(), session.ID); err != nil {
		log := h.logger(c, session)
		log.Error().Err(err).Msg("logout failed")
	}
	h.cookie.Clear(c)

	if wantsJSON(c) {
		message(c, http.StatusOK, "Logged out")
		return
	}
	// Rendered without the nav of a signed-in user.
	c.HTML(http.StatusOK, "logout.html", gin.H{"Title": "Logged out"})
}
