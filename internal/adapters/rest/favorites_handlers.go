package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"listings-service/internal/contextkeys"
	"listings-service/internal/core/domain"
	"listings-service/internal/core/port"
	"listings-service/internal/core/port/usecases_port"
)

// FavoritesHandler обрабатывает запросы избранного.
type FavoritesHandler struct {
	addUC    usecases_port.AddToFavoritesUseCasePort
	removeUC usecases_port.RemoveFromFavoritesUseCasePort
	getUC    usecases_port.GetUserFavoritesUseCasePort
}

// NewFavoritesHandler - конструктор.
func NewFavoritesHandler(
	addUC usecases_port.AddToFavoritesUseCasePort,
	removeUC usecases_port.RemoveFromFavoritesUseCasePort,
	getUC usecases_port.GetUserFavoritesUseCasePort,
) *FavoritesHandler {
	return &FavoritesHandler{
		addUC:    addUC,
		removeUC: removeUC,
		getUC:    getUC,
	}
}

// GetUserFavorites обрабатывает GET /api/v1/favorites
func (h *FavoritesHandler) GetUserFavorites(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "GetUserFavorites"})

	caller, ok := CallerFromContext(r.Context())
	if !ok {
		logger.Error("Invalid or missing caller in context", nil, nil)
		WriteJSONError(w, http.StatusUnauthorized, "Invalid caller in context")
		return
	}

	handlerLogger := logger.WithFields(port.Fields{"user_id": caller.ID})
	handlerLogger.Info("Processing request to get user favorites", nil)

	listings, err := h.getUC.Execute(r.Context(), caller.ID)
	if err != nil {
		handlerLogger.Error("Get user favorites use case failed", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, "Failed to retrieve favorites")
		return
	}

	response := make([]ListingResponse, len(listings))
	for i, l := range listings {
		response[i] = listingToResponse(l)
	}

	handlerLogger.Info("Successfully retrieved user favorites", port.Fields{"count": len(listings)})
	RespondWithJSON(w, http.StatusOK, response)
}

// AddToFavorites обрабатывает POST /api/v1/favorites
func (h *FavoritesHandler) AddToFavorites(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "AddToFavorites"})

	caller, ok := CallerFromContext(r.Context())
	if !ok {
		logger.Error("Invalid or missing caller in context", nil, nil)
		WriteJSONError(w, http.StatusUnauthorized, "Invalid caller in context")
		return
	}

	var reqDTO FavoriteRequest
	if err := json.NewDecoder(r.Body).Decode(&reqDTO); err != nil {
		logger.Warn("Failed to decode request body for add favorite", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if reqDTO.PropertyID == "" {
		WriteJSONError(w, http.StatusBadRequest, "property_id is required")
		return
	}

	handlerLogger := logger.WithFields(port.Fields{
		"user_id":     caller.ID,
		"property_id": reqDTO.PropertyID,
	})
	handlerLogger.Info("Processing request to add to favorites", nil)

	if err := h.addUC.Execute(r.Context(), caller.ID, reqDTO.PropertyID); err != nil {
		switch {
		case errors.Is(err, domain.ErrListingNotFound):
			WriteJSONError(w, http.StatusNotFound, "Listing not found")
		case errors.Is(err, domain.ErrAlreadyInFavorites):
			WriteJSONError(w, http.StatusConflict, "Listing is already in favorites")
		default:
			handlerLogger.Error("Add to favorites use case failed", err, nil)
			WriteJSONError(w, http.StatusInternalServerError, "Failed to add to favorites")
		}
		return
	}

	handlerLogger.Info("Successfully added listing to favorites", nil)
	w.WriteHeader(http.StatusCreated)
}

// RemoveFromFavorites обрабатывает DELETE /api/v1/favorites
func (h *FavoritesHandler) RemoveFromFavorites(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "RemoveFromFavorites"})

	caller, ok := CallerFromContext(r.Context())
	if !ok {
		logger.Error("Invalid or missing caller in context", nil, nil)
		WriteJSONError(w, http.StatusUnauthorized, "Invalid caller in context")
		return
	}

	var reqDTO FavoriteRequest
	if err := json.NewDecoder(r.Body).Decode(&reqDTO); err != nil {
		logger.Warn("Failed to decode request body for remove favorite", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if reqDTO.PropertyID == "" {
		WriteJSONError(w, http.StatusBadRequest, "property_id is required")
		return
	}

	handlerLogger := logger.WithFields(port.Fields{
		"user_id":     caller.ID,
		"property_id": reqDTO.PropertyID,
	})
	handlerLogger.Info("Processing request to remove from favorites", nil)

	if err := h.removeUC.Execute(r.Context(), caller.ID, reqDTO.PropertyID); err != nil {
		handlerLogger.Error("Remove from favorites use case failed", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, "Failed to remove from favorites")
		return
	}

	handlerLogger.Info("Successfully removed listing from favorites", nil)
	w.WriteHeader(http.StatusNoContent)
}
