package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"pawfinder/web/internal/models"
	"pawfinder/web/internal/service"
)

var errInvalidAnimalID = errors.New("animal_id must be a positive integer")

type favoriteRequest struct {
	AnimalID json.Number `form:"animal_id" json:"animal_id"`
}

// animalIDFrom reads the animal id from the path, then the query string, then the body.
func animalIDFrom(c *gin.Context) (int64, error) {
	raw := c.Param("animalId")
	if raw == "" {
		raw = c.Query("animal_id")
	}
	if raw == "" {
		var req favoriteRequest
		if err := c.ShouldBind(&req); err != nil {
			return 0, errInvalidAnimalID
		}
		raw = req.AnimalID.String()
	}
	return parseAnimalID(raw)
}

func parseAnimalID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errInvalidAnimalID
	}
	return id, nil
}

func (h HandlerSet) ListFavorites(c *gin.Context, session models.Session) {
	animals, err := h.favorites.List(c.Request.Context(), session.User.ID)
	if err != nil {
		log := h.logger(c, session)
		log.Error().Err(err).Msg("list favorites failed")
		h.renderError(c, http.StatusInternalServerError, "Favorites", "Your favorites could not be loaded right now.")
		return
	}

	if wantsJSON(c) {
		c.JSON(http.StatusOK, gin.H{"animals": animals})
		return
	}
	data := page(c, "Favorites")
	data["Animals"] = animals
	c.HTML(http.StatusOK, "favorites.html", data)
}

func (h HandlerSet) AddFavorite(c *gin.Context, session models.Session) {
	id, err := animalIDFrom(c)
	if err != nil {
		message(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.favorites.Add(c.Request.Context(), session.User.ID, id); err != nil {
		h.favoriteFailed(c, session, id, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h HandlerSet) RemoveFavorite(c *gin.Context, session models.Session) {
	id, err := animalIDFrom(c)
	if err != nil {
		message(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.favorites.Remove(c.Request.Context(), session.User.ID, id); err != nil {
		h.favoriteFailed(c, session, id, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h HandlerSet) favoriteFailed(c *gin.Context, session models.Session, animalID int64, err error) {
	if errors.Is(err, service.ErrInvalidInput) {
		message(c, http.StatusBadRequest, errInvalidAnimalID.Error())
		return
	}
	log := h.logger(c, session)
	log.Error().Err(err).Int64("animal_id", animalID).Msg("favorite update failed")
	message(c, http.StatusInternalServerError, "Favorite update failed")
}
