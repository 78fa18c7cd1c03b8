package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	logger_adapter "listings-service/internal/adapters/logger"
	"listings-service/internal/core/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// Stub use cases return canned values so the HTTP surface can be tested
// without storage.

type stubFindUC struct {
	result *domain.PaginatedListings
	err    error
}

func (s stubFindUC) Execute(ctx context.Context, filters domain.ListingFilters) (*domain.PaginatedListings, error) {
	return s.result, s.err
}

type stubGetUC struct {
	listing *domain.Listing
	err     error
}

func (s stubGetUC) Execute(ctx context.Context, externalID string) (*domain.Listing, error) {
	return s.listing, s.err
}

type stubCreateUC struct {
	listing *domain.Listing
	err     error
}

func (s stubCreateUC) Execute(ctx context.Context, caller domain.Caller, fields domain.ListingFields) (*domain.Listing, error) {
	return s.listing, s.err
}

type stubUpdateUC struct {
	listing *domain.Listing
	err     error
}

func (s stubUpdateUC) Execute(ctx context.Context, caller domain.Caller, externalID string, fields domain.ListingFields) (*domain.Listing, error) {
	return s.listing, s.err
}

type stubDeleteUC struct{ err error }

func (s stubDeleteUC) Execute(ctx context.Context, caller domain.Caller, externalID string) error {
	return s.err
}

type stubAddFavoriteUC struct{ err error }

func (s stubAddFavoriteUC) Execute(ctx context.Context, userID uuid.UUID, externalID string) error {
	return s.err
}

type stubRemoveFavoriteUC struct{ err error }

func (s stubRemoveFavoriteUC) Execute(ctx context.Context, userID uuid.UUID, externalID string) error {
	return s.err
}

type stubGetFavoritesUC struct {
	listings []domain.Listing
	err      error
}

func (s stubGetFavoritesUC) Execute(ctx context.Context, userID uuid.UUID) ([]domain.Listing, error) {
	return s.listings, s.err
}

type stubSendRecommendationUC struct {
	rec *domain.Recommendation
	err error
}

func (s stubSendRecommendationUC) Execute(ctx context.Context, senderID uuid.UUID, externalID, recipientEmail, message string) (*domain.Recommendation, error) {
	return s.rec, s.err
}

type stubGetReceivedUC struct {
	result *domain.PaginatedRecommendations
	err    error
}

func (s stubGetReceivedUC) Execute(ctx context.Context, userID uuid.UUID, page, limit int) (*domain.PaginatedRecommendations, error) {
	return s.result, s.err
}

type serverStubs struct {
	find   stubFindUC
	get    stubGetUC
	create stubCreateUC
	update stubUpdateUC
	del    stubDeleteUC

	addFav    stubAddFavoriteUC
	removeFav stubRemoveFavoriteUC
	getFav    stubGetFavoritesUC

	send        stubSendRecommendationUC
	getReceived stubGetReceivedUC
}

func newTestHandler(t *testing.T, stubs serverStubs) http.Handler {
	t.Helper()

	logger := logger_adapter.NewSlogAdapter(logger_adapter.SlogConfig{
		Writer: io.Discard,
		Level:  slog.LevelError,
	})

	srv := NewServer(
		"0",
		[]string{"*"},
		NewListingsHandler(stubs.find, stubs.get, stubs.create, stubs.update, stubs.del),
		NewFavoritesHandler(stubs.addFav, stubs.removeFav, stubs.getFav),
		NewRecommendationsHandler(stubs.send, stubs.getReceived),
		logger,
	)
	return srv.httpServer.Handler
}

func sampleListing() *domain.Listing {
	ownerID := uuid.New()
	return &domain.Listing{
		ID:          uuid.New(),
		ExternalID:  "PROP1",
		Title:       "Test listing",
		Type:        "apartment",
		Price:       1000,
		State:       "tx",
		City:        "austin",
		ListingType: "rent",
		CreatedBy:   &ownerID,
	}
}

func doRequest(handler http.Handler, method, path string, body []byte, authorized bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if authorized {
		req.Header.Set("X-User-ID", uuid.New().String())
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestPublicListingReads(t *testing.T) {
	handler := newTestHandler(t, serverStubs{
		find: stubFindUC{result: &domain.PaginatedListings{Listings: []domain.Listing{*sampleListing()}, TotalCount: 1, Page: 1, Limit: 10, TotalPages: 1}},
		get:  stubGetUC{listing: sampleListing()},
	})

	rec := doRequest(handler, http.MethodGet, "/api/v1/listings", nil, false)
	require.Equal(t, http.StatusOK, rec.Code)

	var page PaginatedListingsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	require.Equal(t, 1, page.Total)
	require.Equal(t, "PROP1", page.Data[0].ExternalID)

	rec = doRequest(handler, http.MethodGet, "/api/v1/listings/PROP1", nil, false)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestMutationsRequireIdentity(t *testing.T) {
	handler := newTestHandler(t, serverStubs{})

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/v1/listings"},
		{http.MethodPut, "/api/v1/listings/PROP1"},
		{http.MethodDelete, "/api/v1/listings/PROP1"},
		{http.MethodGet, "/api/v1/favorites/"},
		{http.MethodPost, "/api/v1/favorites/"},
		{http.MethodDelete, "/api/v1/favorites/"},
		{http.MethodGet, "/api/v1/recommendations/received"},
		{http.MethodPost, "/api/v1/recommendations/send"},
	}
	for _, tt := range tests {
		rec := doRequest(handler, tt.method, tt.path, []byte(`{}`), false)
		require.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", tt.method, tt.path)
	}
}

func TestMalformedIdentityHeader(t *testing.T) {
	handler := newTestHandler(t, serverStubs{})

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/listings/PROP1", nil)
	req.Header.Set("X-User-ID", "not-a-uuid")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMethodNotAllowed(t *testing.T) {
	handler := newTestHandler(t, serverStubs{})

	rec := doRequest(handler, http.MethodPatch, "/api/v1/listings", nil, true)
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Error)
}

func TestFindListingsRejectsGarbageParams(t *testing.T) {
	handler := newTestHandler(t, serverStubs{})

	for _, query := range []string{"?minPrice=abc", "?bedrooms=two", "?page=x", "?limit=y", "?furnished=maybe"} {
		rec := doRequest(handler, http.MethodGet, "/api/v1/listings"+query, nil, false)
		require.Equal(t, http.StatusBadRequest, rec.Code, "query %s", query)
	}
}

func TestGetListingNotFound(t *testing.T) {
	handler := newTestHandler(t, serverStubs{
		get: stubGetUC{err: domain.ErrListingNotFound},
	})

	rec := doRequest(handler, http.MethodGet, "/api/v1/listings/PROP404", nil, false)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateListingValidatesSchema(t *testing.T) {
	handler := newTestHandler(t, serverStubs{
		create: stubCreateUC{listing: sampleListing()},
	})

	// Missing required fields.
	rec := doRequest(handler, http.MethodPost, "/api/v1/listings", []byte(`{"title":"only title"}`), true)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	// Negative price.
	body := []byte(`{"title":"T","type":"apartment","price":-5,"state":"tx","city":"austin","listing_type":"rent"}`)
	rec = doRequest(handler, http.MethodPost, "/api/v1/listings", body, true)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	// Valid payload.
	body = []byte(`{"title":"T","type":"apartment","price":1000,"state":"tx","city":"austin","listing_type":"rent"}`)
	rec = doRequest(handler, http.MethodPost, "/api/v1/listings", body, true)
	require.Equal(t, http.StatusCreated, rec.Code)
}

func TestUpdateListingStatusMapping(t *testing.T) {
	body := []byte(`{"price":500000}`)

	rec := doRequest(newTestHandler(t, serverStubs{update: stubUpdateUC{err: domain.ErrListingNotFound}}),
		http.MethodPut, "/api/v1/listings/PROP404", body, true)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = doRequest(newTestHandler(t, serverStubs{update: stubUpdateUC{err: domain.ErrNotOwner}}),
		http.MethodPut, "/api/v1/listings/PROP1", body, true)
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = doRequest(newTestHandler(t, serverStubs{update: stubUpdateUC{listing: sampleListing()}}),
		http.MethodPut, "/api/v1/listings/PROP1", body, true)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestDeleteListingStatusMapping(t *testing.T) {
	rec := doRequest(newTestHandler(t, serverStubs{del: stubDeleteUC{err: domain.ErrNotOwner}}),
		http.MethodDelete, "/api/v1/listings/PROP1", nil, true)
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = doRequest(newTestHandler(t, serverStubs{}),
		http.MethodDelete, "/api/v1/listings/PROP1", nil, true)
	require.Equal(t, http.StatusNoContent, rec.Code)
}

func TestFavoritesEndpoints(t *testing.T) {
	body := []byte(`{"property_id":"PROP1"}`)

	// Missing property_id.
	rec := doRequest(newTestHandler(t, serverStubs{}), http.MethodPost, "/api/v1/favorites/", []byte(`{}`), true)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	// Duplicate maps to 409.
	rec = doRequest(newTestHandler(t, serverStubs{addFav: stubAddFavoriteUC{err: domain.ErrAlreadyInFavorites}}),
		http.MethodPost, "/api/v1/favorites/", body, true)
	require.Equal(t, http.StatusConflict, rec.Code)

	// Unknown listing maps to 404.
	rec = doRequest(newTestHandler(t, serverStubs{addFav: stubAddFavoriteUC{err: domain.ErrListingNotFound}}),
		http.MethodPost, "/api/v1/favorites/", body, true)
	require.Equal(t, http.StatusNotFound, rec.Code)

	// Successful add and idempotent removal.
	rec = doRequest(newTestHandler(t, serverStubs{}), http.MethodPost, "/api/v1/favorites/", body, true)
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = doRequest(newTestHandler(t, serverStubs{}), http.MethodDelete, "/api/v1/favorites/", body, true)
	require.Equal(t, http.StatusNoContent, rec.Code)
}

func TestSendRecommendationEndpoint(t *testing.T) {
	listing := sampleListing()
	okStub := stubSendRecommendationUC{rec: &domain.Recommendation{
		ID:      uuid.New(),
		Message: "check this out",
		Listing: listing,
	}}

	// Missing fields.
	rec := doRequest(newTestHandler(t, serverStubs{send: okStub}),
		http.MethodPost, "/api/v1/recommendations/send", []byte(`{"property_id":"PROP1"}`), true)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	// Unknown recipient.
	rec = doRequest(newTestHandler(t, serverStubs{send: stubSendRecommendationUC{err: domain.ErrRecipientNotFound}}),
		http.MethodPost, "/api/v1/recommendations/send",
		[]byte(`{"property_id":"PROP1","recipient_email":"ghost@example.com"}`), true)
	require.Equal(t, http.StatusNotFound, rec.Code)

	// Success.
	rec = doRequest(newTestHandler(t, serverStubs{send: okStub}),
		http.MethodPost, "/api/v1/recommendations/send",
		[]byte(`{"property_id":"PROP1","recipient_email":"dana@example.com","message":"check this out"}`), true)
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp RecommendationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "check this out", resp.Message)
}

func TestGetReceivedRecommendationsEndpoint(t *testing.T) {
	handler := newTestHandler(t, serverStubs{
		getReceived: stubGetReceivedUC{result: &domain.PaginatedRecommendations{
			Recommendations: []domain.Recommendation{{ID: uuid.New(), Message: "hi"}},
			TotalCount:      1, Page: 1, Limit: 10, TotalPages: 1,
		}},
	})

	rec := doRequest(handler, http.MethodGet, "/api/v1/recommendations/received?page=1&limit=10", nil, true)
	require.Equal(t, http.StatusOK, rec.Code)

	var page PaginatedRecommendationsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	require.Equal(t, 1, page.Total)

	rec = doRequest(handler, http.MethodGet, "/api/v1/recommendations/received?page=abc", nil, true)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
