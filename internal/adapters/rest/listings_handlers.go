package rest

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"listings-service/internal/contextkeys"
	"listings-service/internal/contracts"
	"listings-service/internal/core/domain"
	"listings-service/internal/core/port"
	"listings-service/internal/core/port/usecases_port"

	"github.com/go-chi/chi/v5"
)

// ListingsHandler обрабатывает запросы каталога объявлений.
type ListingsHandler struct {
	findUC   usecases_port.FindListingsUseCasePort
	getUC    usecases_port.GetListingUseCasePort
	createUC usecases_port.CreateListingUseCasePort
	updateUC usecases_port.UpdateListingUseCasePort
	deleteUC usecases_port.DeleteListingUseCasePort
}

// NewListingsHandler - конструктор.
func NewListingsHandler(
	findUC usecases_port.FindListingsUseCasePort,
	getUC usecases_port.GetListingUseCasePort,
	createUC usecases_port.CreateListingUseCasePort,
	updateUC usecases_port.UpdateListingUseCasePort,
	deleteUC usecases_port.DeleteListingUseCasePort,
) *ListingsHandler {
	return &ListingsHandler{
		findUC:   findUC,
		getUC:    getUC,
		createUC: createUC,
		updateUC: updateUC,
		deleteUC: deleteUC,
	}
}

// parseListingFilters собирает доменный фильтр из query-параметров.
// Мусор в числовых и булевых параметрах - ошибка (400),
// неизвестные значения сортировки молча заменит Normalize.
func parseListingFilters(r *http.Request) (domain.ListingFilters, error) {
	q := r.URL.Query()
	var filters domain.ListingFilters

	if v := q.Get("type"); v != "" {
		filters.Type = &v
	}
	if v := q.Get("city"); v != "" {
		filters.City = &v
	}
	if v := q.Get("state"); v != "" {
		filters.State = &v
	}
	if v := q.Get("minPrice"); v != "" {
		minPrice, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return filters, errors.New("invalid minPrice parameter")
		}
		filters.MinPrice = &minPrice
	}
	if v := q.Get("maxPrice"); v != "" {
		maxPrice, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return filters, errors.New("invalid maxPrice parameter")
		}
		filters.MaxPrice = &maxPrice
	}
	if v := q.Get("bedrooms"); v != "" {
		bedrooms, err := strconv.Atoi(v)
		if err != nil {
			return filters, errors.New("invalid bedrooms parameter")
		}
		filters.Bedrooms = &bedrooms
	}
	if v := q.Get("bathrooms"); v != "" {
		bathrooms, err := strconv.Atoi(v)
		if err != nil {
			return filters, errors.New("invalid bathrooms parameter")
		}
		filters.Bathrooms = &bathrooms
	}
	if v := q.Get("furnished"); v != "" {
		furnished, err := strconv.ParseBool(v)
		if err != nil {
			return filters, errors.New("invalid furnished parameter")
		}
		filters.Furnished = &furnished
	}
	if v := q.Get("amenities"); v != "" {
		filters.Amenities = strings.Split(v, ",")
	}

	filters.SortBy = q.Get("sortBy")
	filters.SortOrder = q.Get("sortOrder")

	page, err := GetPageOrDefault(r)
	if err != nil {
		return filters, errors.New("invalid page parameter")
	}
	limit, err := GetLimitOrDefault(r)
	if err != nil {
		return filters, errors.New("invalid limit parameter")
	}
	filters.Page = page
	filters.Limit = limit

	return filters, nil
}

// FindListings обрабатывает GET /api/v1/listings
func (h *ListingsHandler) FindListings(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "FindListings"})

	filters, err := parseListingFilters(r)
	if err != nil {
		logger.Warn("Invalid query parameters", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	logger.Info("Processing request to find listings", port.Fields{"filters": filters.String()})

	result, err := h.findUC.Execute(r.Context(), filters)
	if err != nil {
		logger.Error("Find listings use case failed", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, "Failed to retrieve listings")
		return
	}

	response := PaginatedListingsResponse{
		Data:       make([]ListingResponse, len(result.Listings)),
		Total:      result.TotalCount,
		Page:       result.Page,
		Limit:      result.Limit,
		TotalPages: result.TotalPages,
	}
	for i, l := range result.Listings {
		response.Data[i] = listingToResponse(l)
	}

	logger.Info("Successfully retrieved listings", port.Fields{
		"total_found":   result.TotalCount,
		"items_on_page": len(result.Listings),
	})
	RespondWithJSON(w, http.StatusOK, response)
}

// GetListing обрабатывает GET /api/v1/listings/{externalID}
func (h *ListingsHandler) GetListing(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "GetListing"})

	externalID := chi.URLParam(r, "externalID")
	if externalID == "" {
		WriteJSONError(w, http.StatusBadRequest, "Listing id is required")
		return
	}

	handlerLogger := logger.WithFields(port.Fields{"external_id": externalID})
	handlerLogger.Info("Processing request to get listing", nil)

	listing, err := h.getUC.Execute(r.Context(), externalID)
	if err != nil {
		if errors.Is(err, domain.ErrListingNotFound) {
			WriteJSONError(w, http.StatusNotFound, "Listing not found")
			return
		}
		handlerLogger.Error("Get listing use case failed", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, "Failed to retrieve listing")
		return
	}

	RespondWithJSON(w, http.StatusOK, listingToResponse(*listing))
}

// CreateListing обрабатывает POST /api/v1/listings
func (h *ListingsHandler) CreateListing(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "CreateListing"})

	caller, ok := CallerFromContext(r.Context())
	if !ok {
		logger.Error("Invalid or missing caller in context", nil, nil)
		WriteJSONError(w, http.StatusUnauthorized, "Invalid caller in context")
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, "Failed to read request body")
		return
	}

	// Проверяем тело по JSON-схеме до маппинга в домен
	if err := contracts.ValidateRequest("ListingCreateRequest", "1.0.0", body); err != nil {
		logger.Warn("Create listing request failed schema validation", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	var reqDTO ListingRequest
	if err := json.Unmarshal(body, &reqDTO); err != nil {
		logger.Warn("Failed to decode request body for create listing", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	handlerLogger := logger.WithFields(port.Fields{"user_id": caller.ID})
	handlerLogger.Info("Processing request to create listing", nil)

	listing, err := h.createUC.Execute(r.Context(), caller, reqDTO.toDomainFields())
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			WriteJSONError(w, http.StatusBadRequest, err.Error())
			return
		}
		handlerLogger.Error("Create listing use case failed", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, "Failed to create listing")
		return
	}

	handlerLogger.Info("Successfully created listing", port.Fields{"external_id": listing.ExternalID})
	RespondWithJSON(w, http.StatusCreated, listingToResponse(*listing))
}

// UpdateListing обрабатывает PUT /api/v1/listings/{externalID}
func (h *ListingsHandler) UpdateListing(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "UpdateListing"})

	caller, ok := CallerFromContext(r.Context())
	if !ok {
		logger.Error("Invalid or missing caller in context", nil, nil)
		WriteJSONError(w, http.StatusUnauthorized, "Invalid caller in context")
		return
	}

	externalID := chi.URLParam(r, "externalID")

	body, err := io.ReadAll(r.Body)
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, "Failed to read request body")
		return
	}

	if err := contracts.ValidateRequest("ListingUpdateRequest", "1.0.0", body); err != nil {
		logger.Warn("Update listing request failed schema validation", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	var reqDTO ListingRequest
	if err := json.Unmarshal(body, &reqDTO); err != nil {
		logger.Warn("Failed to decode request body for update listing", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	handlerLogger := logger.WithFields(port.Fields{
		"user_id":     caller.ID,
		"external_id": externalID,
	})
	handlerLogger.Info("Processing request to update listing", nil)

	listing, err := h.updateUC.Execute(r.Context(), caller, externalID, reqDTO.toDomainFields())
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrListingNotFound):
			WriteJSONError(w, http.StatusNotFound, "Listing not found")
		case errors.Is(err, domain.ErrNotOwner):
			WriteJSONError(w, http.StatusForbidden, "You are not the owner of this listing")
		case errors.Is(err, domain.ErrValidation):
			WriteJSONError(w, http.StatusBadRequest, err.Error())
		default:
			handlerLogger.Error("Update listing use case failed", err, nil)
			WriteJSONError(w, http.StatusInternalServerError, "Failed to update listing")
		}
		return
	}

	handlerLogger.Info("Successfully updated listing", nil)
	RespondWithJSON(w, http.StatusOK, listingToResponse(*listing))
}

// DeleteListing обрабатывает DELETE /api/v1/listings/{externalID}
func (h *ListingsHandler) DeleteListing(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "DeleteListing"})

	caller, ok := CallerFromContext(r.Context())
	if !ok {
		logger.Error("Invalid or missing caller in context", nil, nil)
		WriteJSONError(w, http.StatusUnauthorized, "Invalid caller in context")
		return
	}

	externalID := chi.URLParam(r, "externalID")

	handlerLogger := logger.WithFields(port.Fields{
		"user_id":     caller.ID,
		"external_id": externalID,
	})
	handlerLogger.Info("Processing request to delete listing", nil)

	if err := h.deleteUC.Execute(r.Context(), caller, externalID); err != nil {
		switch {
		case errors.Is(err, domain.ErrListingNotFound):
			WriteJSONError(w, http.StatusNotFound, "Listing not found")
		case errors.Is(err, domain.ErrNotOwner):
			WriteJSONError(w, http.StatusForbidden, "You are not the owner of this listing")
		default:
			handlerLogger.Error("Delete listing use case failed", err, nil)
			WriteJSONError(w, http.StatusInternalServerError, "Failed to delete listing")
		}
		return
	}

	handlerLogger.Info("Successfully deleted listing", nil)
	w.WriteHeader(http.StatusNoContent)
}
