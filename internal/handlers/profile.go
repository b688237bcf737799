package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"pawfinder/web/internal/models"
	"pawfinder/web/internal/service"
)

type profileRequest struct {
	Email     string `form:"email" json:"email"`
	Password  string `form:"password" json:"password"`
	FirstName string `form:"first_name" json:"first_name"`
	LastName  string `form:"last_name" json:"last_name"`
	Location  string `form:"location" json:"location"`
}

func (h HandlerSet) Profile(c *gin.Context, session models.Session) {
	user, err := h.profiles.Get(c.Request.Context(), session.User.ID)
	if err != nil {
		log := h.logger(c, session)
		log.Error().Err(err).Msg("load profile failed")
		if wantsJSON(c) {
			message(c, http.StatusInternalServerError, "Profile unavailable")
			return
		}
		c.Redirect(http.StatusFound, "/discover")
		return
	}

	if wantsJSON(c) {
		c.JSON(http.StatusOK, gin.H{"user": user})
		return
	}
	data := page(c, "Profile")
	data["Profile"] = user
	c.HTML(http.StatusOK, "profile.html", data)
}

func (h HandlerSet) UpdateProfile(c *gin.Context, session models.Session) {
	log := h.logger(c, session)

	var req profileRequest
	if err := c.ShouldBind(&req); err != nil {
		log.Info().Err(err).Msg("profile update rejected")
		h.profileFailed(c, http.StatusBadRequest, "Invalid input")
		return
	}

	user, err := h.profiles.Update(c.Request.Context(), session.User.ID, service.ProfileInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Location:  req.Location,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			log.Info().Err(err).Msg("profile update rejected")
			h.profileFailed(c, http.StatusBadRequest, "Invalid input")
			return
		}
		log.Error().Err(err).Msg("profile update failed")
		h.profileFailed(c, http.StatusInternalServerError, "Profile update failed")
		return
	}

	if wantsJSON(c) {
		c.JSON(http.StatusOK, gin.H{"user": user})
		return
	}
	c.Redirect(http.StatusFound, "/profile")
}

func (h HandlerSet) profileFailed(c *gin.Context, status int, msg string) {
	if wantsJSON(c) {
		message(c, status, msg)
		return
	}
	c.Redirect(http.StatusFound, "/discover")
}
