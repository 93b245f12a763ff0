package handler

import (
	"errors"
	"net/http"
	"strconv"

	"whatsapp-order-bot/internal/model"
	"whatsapp-order-bot/internal/service"

	"github.com/rs/zerolog"
)

// RestaurantHandler serves the restaurant and its menu.
type RestaurantHandler struct {
	service service.MenuService
	logger  zerolog.Logger
}

// NewRestaurantHandler creates a new restaurant handler.
func NewRestaurantHandler(service service.MenuService, logger zerolog.Logger) *RestaurantHandler {
	return &RestaurantHandler{
		service: service,
		logger:  logger.With().Str("handler", "restaurant").Logger(),
	}
}

// Get handles GET /api/restaurant requests.
func (h *RestaurantHandler) Get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.GetRestaurant(r.Context()))
}

// GetMenuItem handles GET /api/menu/{id} requests.
func (h *RestaurantHandler) GetMenuItem(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidRequest, "invalid menu item ID format", h.logger)
		return
	}

	item, err := h.service.GetMenuItem(r.Context(), id)
	if err != nil {
		if errors.Is(err, model.ErrMenuItemNotFound) {
			writeError(w, r, http.StatusNotFound, model.ErrCodeMenuItemNotFound, "menu item not found", h.logger)
			return
		}
		writeError(w, r, http.StatusInternalServerError, model.ErrCodeInternalError, "failed to retrieve menu item", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, item)
}
