package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"listings-service/internal/core/domain"

	"github.com/google/uuid"
)

// fakeListingStorage is an in-memory ListingStoragePort used across the
// use case tests. It counts reads so cache behavior can be asserted.
type fakeListingStorage struct {
	mu        sync.Mutex
	listings  map[string]domain.Listing
	findCalls int
	getCalls  int
}

func newFakeListingStorage() *fakeListingStorage {
	return &fakeListingStorage{listings: make(map[string]domain.Listing)}
}

func (s *fakeListingStorage) FindWithFilters(ctx context.Context, filters domain.ListingFilters) (*domain.PaginatedListings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.findCalls++

	n := filters.Normalize()
	all := make([]domain.Listing, 0, len(s.listings))
	for _, l := range s.listings {
		if !containsAllAmenities(l.Amenities, n.Amenities) {
			continue
		}
		all = append(all, l)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ExternalID < all[j].ExternalID })

	start := n.Offset()
	if start > len(all) {
		start = len(all)
	}
	end := start + n.Limit
	if end > len(all) {
		end = len(all)
	}

	return &domain.PaginatedListings{
		Listings:   all[start:end],
		TotalCount: len(all),
		Page:       n.Page,
		Limit:      n.Limit,
		TotalPages: n.TotalPages(len(all)),
	}, nil
}

func (s *fakeListingStorage) GetByExternalID(ctx context.Context, externalID string) (*domain.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.getCalls++

	l, ok := s.listings[externalID]
	if !ok {
		return nil, domain.ErrListingNotFound
	}
	return &l, nil
}

func (s *fakeListingStorage) Insert(ctx context.Context, listing domain.Listing) (*domain.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	listing.ID = uuid.New()
	s.listings[listing.ExternalID] = listing
	return &listing, nil
}

func (s *fakeListingStorage) Update(ctx context.Context, externalID string, fields domain.ListingFields) (*domain.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.listings[externalID]
	if !ok {
		return nil, domain.ErrListingNotFound
	}
	if fields.Title != nil {
		l.Title = *fields.Title
	}
	if fields.Price != nil {
		l.Price = *fields.Price
	}
	if fields.City != nil {
		l.City = *fields.City
	}
	if fields.Amenities != nil {
		l.Amenities = fields.Amenities
	}
	s.listings[externalID] = l
	return &l, nil
}

// containsAllAmenities mirrors the case-sensitive array containment the
// Postgres adapter uses: the listing must carry every requested amenity.
func containsAllAmenities(have, want []string) bool {
	set := make(map[string]bool, len(have))
	for _, a := range have {
		set[a] = true
	}
	for _, a := range want {
		if !set[a] {
			return false
		}
	}
	return true
}

func (s *fakeListingStorage) Delete(ctx context.Context, externalID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.listings[externalID]; !ok {
		return domain.ErrListingNotFound
	}
	delete(s.listings, externalID)
	return nil
}

// fakeSequenceAllocator hands out PROP<n> codes under a mutex, mirroring
// the atomic counter behavior of the Postgres implementation.
type fakeSequenceAllocator struct {
	mu   sync.Mutex
	next int
}

func (s *fakeSequenceAllocator) Next(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	return fmt.Sprintf("PROP%d", s.next), nil
}

// fakeFavoritesRepository keeps user -> listing sets in memory.
type fakeFavoritesRepository struct {
	mu       sync.Mutex
	byUser   map[uuid.UUID]map[uuid.UUID]bool
	listings *fakeListingStorage
}

func newFakeFavoritesRepository(listings *fakeListingStorage) *fakeFavoritesRepository {
	return &fakeFavoritesRepository{
		byUser:   make(map[uuid.UUID]map[uuid.UUID]bool),
		listings: listings,
	}
}

func (r *fakeFavoritesRepository) Add(ctx context.Context, userID, listingID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.byUser[userID] == nil {
		r.byUser[userID] = make(map[uuid.UUID]bool)
	}
	if r.byUser[userID][listingID] {
		return domain.ErrAlreadyInFavorites
	}
	r.byUser[userID][listingID] = true
	return nil
}

func (r *fakeFavoritesRepository) Remove(ctx context.Context, userID, listingID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.byUser[userID], listingID)
	return nil
}

func (r *fakeFavoritesRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]domain.Listing, error) {
	r.mu.Lock()
	ids := make(map[uuid.UUID]bool, len(r.byUser[userID]))
	for id := range r.byUser[userID] {
		ids[id] = true
	}
	r.mu.Unlock()

	r.listings.mu.Lock()
	defer r.listings.mu.Unlock()

	var out []domain.Listing
	for _, l := range r.listings.listings {
		if ids[l.ID] {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ExternalID < out[j].ExternalID })
	return out, nil
}

// fakeUserRepository resolves users by email.
type fakeUserRepository struct {
	byEmail map[string]domain.UserInfo
}

func (r *fakeUserRepository) GetByEmail(ctx context.Context, email string) (*domain.UserInfo, error) {
	u, ok := r.byEmail[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}

// fakeRecommendationStorage appends recommendations to a slice.
type fakeRecommendationStorage struct {
	mu   sync.Mutex
	recs []domain.Recommendation
}

func (s *fakeRecommendationStorage) Insert(ctx context.Context, rec domain.Recommendation) (*domain.Recommendation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec.ID = uuid.New()
	s.recs = append(s.recs, rec)
	return &rec, nil
}

func (s *fakeRecommendationStorage) FindReceived(ctx context.Context, recipientID uuid.UUID, page, limit int) (*domain.PaginatedRecommendations, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var received []domain.Recommendation
	for i := len(s.recs) - 1; i >= 0; i-- {
		if s.recs[i].RecipientID == recipientID {
			received = append(received, s.recs[i])
		}
	}

	start := (page - 1) * limit
	if start > len(received) {
		start = len(received)
	}
	end := start + limit
	if end > len(received) {
		end = len(received)
	}

	totalPages := (len(received) + limit - 1) / limit
	return &domain.PaginatedRecommendations{
		Recommendations: received[start:end],
		TotalCount:      len(received),
		Page:            page,
		Limit:           limit,
		TotalPages:      totalPages,
	}, nil
}

// fakeEventsPublisher records published actions.
type fakeEventsPublisher struct {
	mu      sync.Mutex
	actions []string
}

func (p *fakeEventsPublisher) PublishChanged(ctx context.Context, action string, listing *domain.Listing) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.actions = append(p.actions, action)
	return nil
}

// brokenCache fails every operation. Reads must fall through to storage
// and writes must not fail the request.
type brokenCache struct{}

func (brokenCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return nil, false, fmt.Errorf("cache is down")
}

func (brokenCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return fmt.Errorf("cache is down")
}

func (brokenCache) Delete(ctx context.Context, keys ...string) error {
	return fmt.Errorf("cache is down")
}

func (brokenCache) DeleteByPrefix(ctx context.Context, prefix string) error {
	return fmt.Errorf("cache is down")
}

func (brokenCache) Close() error { return nil }
