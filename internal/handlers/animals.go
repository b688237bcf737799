package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"pawfinder/web/internal/models"
	"pawfinder/web/internal/service"
)

func (h HandlerSet) Discover(c *gin.Context, session models.Session) {
	pageNum := 1
	if raw := c.Query("page"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			pageNum = v
		}
	}

	animals, err := h.animals.Discover(c.Request.Context(), session.User.LocationOrEmpty(), pageNum)
	if err != nil {
		log := h.logger(c, session)
		log.Error().Err(err).Int("page", pageNum).Msg("discover failed")
		if wantsJSON(c) {
			message(c, http.StatusBadGateway, "Listings are unavailable right now")
			return
		}
		data := page(c, "Discover")
		data["Error"] = "We could not reach the adoption listings right now. Please try again shortly."
		c.HTML(http.StatusBadGateway, "discover.html", data)
		return
	}

	if wantsJSON(c) {
		c.JSON(http.StatusOK, gin.H{"animals": animals, "page": pageNum})
		return
	}
	data := page(c, "Discover")
	data["Animals"] = animals
	data["NextPage"] = pageNum + 1
	c.HTML(http.StatusOK, "discover.html", data)
}

func (h HandlerSet) Animal(c *gin.Context, session models.Session) {
	log := h.logger(c, session)

	id, err := parseAnimalID(c.Param("animalId"))
	if err != nil {
		h.renderError(c, http.StatusBadRequest, "Not found", "That is not a valid animal.")
		return
	}

	animal, err := h.animals.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			h.renderError(c, http.StatusNotFound, "Not found", "This animal is no longer listed.")
			return
		}
		log.Error().Err(err).Int64("animal_id", id).Msg("animal lookup failed")
		h.renderError(c, http.StatusBadGateway, "Unavailable", "We could not reach the adoption listings right now.")
		return
	}

	favorite, err := h.favorites.IsFavorite(c.Request.Context(), session.User.ID, id)
	if err != nil {
		log.Warn().Err(err).Int64("animal_id", id).Msg("favorite lookup failed")
	}

	if wantsJSON(c) {
		c.JSON(http.StatusOK, gin.H{"animal": animal, "favorite": favorite})
		return
	}
	data := page(c, animal.Name)
	data["Animal"] = animal
	data["Favorite"] = favorite
	c.HTML(http.StatusOK, "animal.html", data)
}
