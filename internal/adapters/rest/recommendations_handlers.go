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

// RecommendationsHandler обрабатывает запросы рекомендаций.
type RecommendationsHandler struct {
	sendUC        usecases_port.SendRecommendationUseCasePort
	getReceivedUC usecases_port.GetReceivedRecommendationsUseCasePort
}

// NewRecommendationsHandler - конструктор.
func NewRecommendationsHandler(
	sendUC usecases_port.SendRecommendationUseCasePort,
	getReceivedUC usecases_port.GetReceivedRecommendationsUseCasePort,
) *RecommendationsHandler {
	return &RecommendationsHandler{
		sendUC:        sendUC,
		getReceivedUC: getReceivedUC,
	}
}

// SendRecommendation обрабатывает POST /api/v1/recommendations/send
func (h *RecommendationsHandler) SendRecommendation(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "SendRecommendation"})

	caller, ok := CallerFromContext(r.Context())
	if !ok {
		logger.Error("Invalid or missing caller in context", nil, nil)
		WriteJSONError(w, http.StatusUnauthorized, "Invalid caller in context")
		return
	}

	var reqDTO SendRecommendationRequest
	if err := json.NewDecoder(r.Body).Decode(&reqDTO); err != nil {
		logger.Warn("Failed to decode request body for send recommendation", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if reqDTO.PropertyID == "" {
		WriteJSONError(w, http.StatusBadRequest, "property_id is required")
		return
	}
	if reqDTO.RecipientEmail == "" {
		WriteJSONError(w, http.StatusBadRequest, "recipient_email is required")
		return
	}

	handlerLogger := logger.WithFields(port.Fields{
		"user_id":         caller.ID,
		"property_id":     reqDTO.PropertyID,
		"recipient_email": reqDTO.RecipientEmail,
	})
	handlerLogger.Info("Processing request to send recommendation", nil)

	rec, err := h.sendUC.Execute(r.Context(), caller.ID, reqDTO.PropertyID, reqDTO.RecipientEmail, reqDTO.Message)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecipientNotFound):
			WriteJSONError(w, http.StatusNotFound, "Recipient user not found")
		case errors.Is(err, domain.ErrListingNotFound):
			WriteJSONError(w, http.StatusNotFound, "Listing not found")
		default:
			handlerLogger.Error("Send recommendation use case failed", err, nil)
			WriteJSONError(w, http.StatusInternalServerError, "Failed to send recommendation")
		}
		return
	}

	handlerLogger.Info("Successfully sent recommendation", port.Fields{"recommendation_id": rec.ID})
	RespondWithJSON(w, http.StatusCreated, recommendationToResponse(*rec))
}

// GetReceivedRecommendations обрабатывает GET /api/v1/recommendations/received
func (h *RecommendationsHandler) GetReceivedRecommendations(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "GetReceivedRecommendations"})

	caller, ok := CallerFromContext(r.Context())
	if !ok {
		logger.Error("Invalid or missing caller in context", nil, nil)
		WriteJSONError(w, http.StatusUnauthorized, "Invalid caller in context")
		return
	}

	page, err := GetPageOrDefault(r)
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, "invalid page parameter")
		return
	}
	limit, err := GetLimitOrDefault(r)
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, "invalid limit parameter")
		return
	}

	handlerLogger := logger.WithFields(port.Fields{
		"user_id": caller.ID,
		"page":    page,
		"limit":   limit,
	})
	handlerLogger.Info("Processing request to get received recommendations", nil)

	result, err := h.getReceivedUC.Execute(r.Context(), caller.ID, page, limit)
	if err != nil {
		handlerLogger.Error("Get received recommendations use case failed", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, "Failed to retrieve recommendations")
		return
	}

	response := PaginatedRecommendationsResponse{
		Data:       make([]RecommendationResponse, len(result.Recommendations)),
		Total:      result.TotalCount,
		Page:       result.Page,
		Limit:      result.Limit,
		TotalPages: result.TotalPages,
	}
	for i, rec := range result.Recommendations {
		response.Data[i] = recommendationToResponse(rec)
	}

	handlerLogger.Info("Successfully retrieved received recommendations", port.Fields{
		"total_found":   result.TotalCount,
		"items_on_page": len(result.Recommendations),
	})
	RespondWithJSON(w, http.StatusOK, response)
}
