package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"listings-service/internal/adapters/memorycache"
	"listings-service/internal/core/cachekeys"
	"listings-service/internal/core/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

const testTTL = time.Minute

func requiredFields(title string, price float64) domain.ListingFields {
	listingType := "rent"
	propertyType := "apartment"
	state := "tx"
	city := "austin"
	return domain.ListingFields{
		Title:       &title,
		Type:        &propertyType,
		Price:       &price,
		State:       &state,
		City:        &city,
		ListingType: &listingType,
	}
}

func seedListing(t *testing.T, storage *fakeListingStorage, externalID string, price float64, owner *uuid.UUID) domain.Listing {
	t.Helper()

	stored, err := storage.Insert(context.Background(), domain.Listing{
		ExternalID:  externalID,
		Title:       "Seeded " + externalID,
		Type:        "apartment",
		Price:       price,
		State:       "tx",
		City:        "austin",
		ListingType: "rent",
		CreatedBy:   owner,
	})
	require.NoError(t, err)
	return *stored
}

// TestCreateListingAssignsUniqueSequentialIDs runs concurrent creates and
// verifies that no two listings ever receive the same external code.
func TestCreateListingAssignsUniqueSequentialIDs(t *testing.T) {
	storage := newFakeListingStorage()
	cache := memorycache.NewMemoryCacheAdapter()
	events := &fakeEventsPublisher{}
	uc := NewCreateListingUseCase(storage, &fakeSequenceAllocator{}, cache, events)

	const workers = 20
	ids := make([]string, workers)
	errs := make([]error, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			caller := domain.Caller{ID: uuid.New()}
			listing, err := uc.Execute(context.Background(), caller, requiredFields("Concurrent", 1000))
			if err != nil {
				errs[i] = err
				return
			}
			ids[i] = listing.ExternalID
		}(i)
	}
	wg.Wait()

	seen := make(map[string]bool, workers)
	for i, id := range ids {
		require.NoError(t, errs[i])
		require.NotEmpty(t, id)
		require.False(t, seen[id], "duplicate external id %s", id)
		seen[id] = true
	}
}

func TestCreateListingRejectsMissingRequiredFields(t *testing.T) {
	storage := newFakeListingStorage()
	uc := NewCreateListingUseCase(storage, &fakeSequenceAllocator{}, memorycache.NewMemoryCacheAdapter(), &fakeEventsPublisher{})

	fields := requiredFields("No price", 0)
	fields.Price = nil

	_, err := uc.Execute(context.Background(), domain.Caller{ID: uuid.New()}, fields)
	require.ErrorIs(t, err, domain.ErrValidation)
}

// TestCreateListingReportsFirstMissingField pins the check order: with
// several fields missing the error always names the first one.
func TestCreateListingReportsFirstMissingField(t *testing.T) {
	storage := newFakeListingStorage()
	uc := NewCreateListingUseCase(storage, &fakeSequenceAllocator{}, memorycache.NewMemoryCacheAdapter(), &fakeEventsPublisher{})

	_, err := uc.Execute(context.Background(), domain.Caller{ID: uuid.New()}, domain.ListingFields{})
	require.ErrorIs(t, err, domain.ErrValidation)
	require.ErrorContains(t, err, `"title"`)
}

func TestCreateListingRejectsNegativePrice(t *testing.T) {
	storage := newFakeListingStorage()
	uc := NewCreateListingUseCase(storage, &fakeSequenceAllocator{}, memorycache.NewMemoryCacheAdapter(), &fakeEventsPublisher{})

	_, err := uc.Execute(context.Background(), domain.Caller{ID: uuid.New()}, requiredFields("Negative", -1))
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestCreateListingRecordsCallerAsOwner(t *testing.T) {
	storage := newFakeListingStorage()
	events := &fakeEventsPublisher{}
	uc := NewCreateListingUseCase(storage, &fakeSequenceAllocator{}, memorycache.NewMemoryCacheAdapter(), events)

	caller := domain.Caller{ID: uuid.New()}
	listing, err := uc.Execute(context.Background(), caller, requiredFields("Owned", 500))
	require.NoError(t, err)

	require.NotNil(t, listing.CreatedBy)
	require.Equal(t, caller.ID, *listing.CreatedBy)
	require.Equal(t, []string{"listing.created"}, events.actions)
}

// TestCreateListingInvalidatesListCache verifies that every list cache
// entry disappears after a create, while detail entries survive.
func TestCreateListingInvalidatesListCache(t *testing.T) {
	storage := newFakeListingStorage()
	cache := memorycache.NewMemoryCacheAdapter()
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, cachekeys.ListingList(domain.ListingFilters{}), []byte("stale"), testTTL))
	city := "miami"
	require.NoError(t, cache.Set(ctx, cachekeys.ListingList(domain.ListingFilters{City: &city}), []byte("stale"), testTTL))
	require.NoError(t, cache.Set(ctx, cachekeys.ListingDetail("PROP99"), []byte("detail"), testTTL))

	uc := NewCreateListingUseCase(storage, &fakeSequenceAllocator{}, cache, &fakeEventsPublisher{})
	_, err := uc.Execute(ctx, domain.Caller{ID: uuid.New()}, requiredFields("Invalidator", 100))
	require.NoError(t, err)

	_, found, _ := cache.Get(ctx, cachekeys.ListingList(domain.ListingFilters{}))
	require.False(t, found, "list cache must be invalidated")
	_, found, _ = cache.Get(ctx, cachekeys.ListingDetail("PROP99"))
	require.True(t, found, "detail cache must survive a create")
}

func TestFindListingsServesSecondCallFromCache(t *testing.T) {
	storage := newFakeListingStorage()
	seedListing(t, storage, "PROP1", 100, nil)
	cache := memorycache.NewMemoryCacheAdapter()
	uc := NewFindListingsUseCase(storage, cache, testTTL)

	first, err := uc.Execute(context.Background(), domain.ListingFilters{})
	require.NoError(t, err)
	require.Equal(t, 1, first.TotalCount)

	second, err := uc.Execute(context.Background(), domain.ListingFilters{})
	require.NoError(t, err)
	require.Equal(t, first.TotalCount, second.TotalCount)
	require.Equal(t, 1, storage.findCalls, "second call must be served from cache")
}

// TestFindListingsSharesCacheBetweenEquivalentFilters covers the canonical
// key: two spellings of the same filter hit one cache entry.
func TestFindListingsSharesCacheBetweenEquivalentFilters(t *testing.T) {
	storage := newFakeListingStorage()
	seedListing(t, storage, "PROP1", 100, nil)
	cache := memorycache.NewMemoryCacheAdapter()
	uc := NewFindListingsUseCase(storage, cache, testTTL)

	city1 := "Austin"
	city2 := "austin"

	_, err := uc.Execute(context.Background(), domain.ListingFilters{City: &city1, Amenities: []string{"Pool", "Gym"}})
	require.NoError(t, err)
	_, err = uc.Execute(context.Background(), domain.ListingFilters{City: &city2, Amenities: []string{"gym", "pool"}})
	require.NoError(t, err)

	require.Equal(t, 1, storage.findCalls)
}

// TestFindListingsMatchesAmenitiesRegardlessOfInputCase: a listing created
// with "Pool" is stored in canonical form and stays findable whichever way
// the searcher capitalizes the amenity.
func TestFindListingsMatchesAmenitiesRegardlessOfInputCase(t *testing.T) {
	storage := newFakeListingStorage()
	createUC := NewCreateListingUseCase(storage, &fakeSequenceAllocator{}, memorycache.NewMemoryCacheAdapter(), &fakeEventsPublisher{})
	findUC := NewFindListingsUseCase(storage, memorycache.NewMemoryCacheAdapter(), testTTL)
	ctx := context.Background()

	fields := requiredFields("With pool", 1000)
	fields.Amenities = []string{"Pool", " WiFi "}
	created, err := createUC.Execute(ctx, domain.Caller{ID: uuid.New()}, fields)
	require.NoError(t, err)
	require.Equal(t, []string{"pool", "wifi"}, created.Amenities)

	for _, spelling := range []string{"pool", "Pool", "POOL"} {
		result, err := findUC.Execute(ctx, domain.ListingFilters{Amenities: []string{spelling}})
		require.NoError(t, err)
		require.Equal(t, 1, result.TotalCount, "amenity %q must match", spelling)
	}

	missing, err := findUC.Execute(ctx, domain.ListingFilters{Amenities: []string{"garage"}})
	require.NoError(t, err)
	require.Equal(t, 0, missing.TotalCount)
}

// TestFindListingsPageBeyondTotal: a page past the end answers with an
// empty item list while the total stays accurate.
func TestFindListingsPageBeyondTotal(t *testing.T) {
	storage := newFakeListingStorage()
	seedListing(t, storage, "PROP1", 100, nil)
	uc := NewFindListingsUseCase(storage, memorycache.NewMemoryCacheAdapter(), testTTL)

	result, err := uc.Execute(context.Background(), domain.ListingFilters{Page: 5, Limit: 10})
	require.NoError(t, err)
	require.Empty(t, result.Listings)
	require.Equal(t, 1, result.TotalCount)
	require.Equal(t, 1, result.TotalPages)
	require.Equal(t, 5, result.Page)
}

func TestFindListingsFailsOpenWhenCacheIsDown(t *testing.T) {
	storage := newFakeListingStorage()
	seedListing(t, storage, "PROP1", 100, nil)
	uc := NewFindListingsUseCase(storage, brokenCache{}, testTTL)

	result, err := uc.Execute(context.Background(), domain.ListingFilters{})
	require.NoError(t, err)
	require.Equal(t, 1, result.TotalCount)
}

func TestGetListingNotFound(t *testing.T) {
	uc := NewGetListingUseCase(newFakeListingStorage(), memorycache.NewMemoryCacheAdapter(), testTTL)

	_, err := uc.Execute(context.Background(), "PROP404")
	require.ErrorIs(t, err, domain.ErrListingNotFound)
}

// TestUpdateListingReadYourWrites is the core coherence scenario: a cached
// detail read must reflect a later price change immediately, not after TTL.
func TestUpdateListingReadYourWrites(t *testing.T) {
	storage := newFakeListingStorage()
	owner := uuid.New()
	seedListing(t, storage, "PROP1", 250000, &owner)
	cache := memorycache.NewMemoryCacheAdapter()
	ctx := context.Background()

	getUC := NewGetListingUseCase(storage, cache, testTTL)
	updateUC := NewUpdateListingUseCase(storage, cache, &fakeEventsPublisher{})

	before, err := getUC.Execute(ctx, "PROP1")
	require.NoError(t, err)
	require.Equal(t, 250000.0, before.Price)

	newPrice := 500000.0
	_, err = updateUC.Execute(ctx, domain.Caller{ID: owner}, "PROP1", domain.ListingFields{Price: &newPrice})
	require.NoError(t, err)

	after, err := getUC.Execute(ctx, "PROP1")
	require.NoError(t, err)
	require.Equal(t, 500000.0, after.Price, "stale cached price must not be served")
}

// TestUpdateListingInvalidatesFilteredLists verifies that a price change
// evicts list pages whose filter the listing previously matched.
func TestUpdateListingInvalidatesFilteredLists(t *testing.T) {
	storage := newFakeListingStorage()
	owner := uuid.New()
	seedListing(t, storage, "PROP1", 250000, &owner)
	cache := memorycache.NewMemoryCacheAdapter()
	ctx := context.Background()

	findUC := NewFindListingsUseCase(storage, cache, testTTL)
	updateUC := NewUpdateListingUseCase(storage, cache, &fakeEventsPublisher{})

	maxPrice := 300000.0
	page, err := findUC.Execute(ctx, domain.ListingFilters{MaxPrice: &maxPrice})
	require.NoError(t, err)
	require.Equal(t, 1, page.TotalCount)

	newPrice := 500000.0
	_, err = updateUC.Execute(ctx, domain.Caller{ID: owner}, "PROP1", domain.ListingFields{Price: &newPrice})
	require.NoError(t, err)

	findCallsBefore := storage.findCalls
	_, err = findUC.Execute(ctx, domain.ListingFilters{MaxPrice: &maxPrice})
	require.NoError(t, err)
	require.Equal(t, findCallsBefore+1, storage.findCalls, "filtered page must be recomputed after update")
}

func TestUpdateListingNotFoundBeforeForbidden(t *testing.T) {
	storage := newFakeListingStorage()
	owner := uuid.New()
	seedListing(t, storage, "PROP1", 100, &owner)
	uc := NewUpdateListingUseCase(storage, memorycache.NewMemoryCacheAdapter(), &fakeEventsPublisher{})

	stranger := domain.Caller{ID: uuid.New()}
	price := 200.0

	// Unknown listing: the stranger gets 404 semantics, never 403.
	_, err := uc.Execute(context.Background(), stranger, "PROP404", domain.ListingFields{Price: &price})
	require.ErrorIs(t, err, domain.ErrListingNotFound)

	// Known listing owned by someone else: 403 semantics.
	_, err = uc.Execute(context.Background(), stranger, "PROP1", domain.ListingFields{Price: &price})
	require.ErrorIs(t, err, domain.ErrNotOwner)
}

// TestUpdateListingRejectsInvalidFields: supplied fields are validated in
// the core too, not only by the HTTP schema gate.
func TestUpdateListingRejectsInvalidFields(t *testing.T) {
	storage := newFakeListingStorage()
	owner := uuid.New()
	seedListing(t, storage, "PROP1", 100, &owner)
	uc := NewUpdateListingUseCase(storage, memorycache.NewMemoryCacheAdapter(), &fakeEventsPublisher{})
	ctx := context.Background()

	negative := -5.0
	_, err := uc.Execute(ctx, domain.Caller{ID: owner}, "PROP1", domain.ListingFields{Price: &negative})
	require.ErrorIs(t, err, domain.ErrValidation)

	empty := ""
	_, err = uc.Execute(ctx, domain.Caller{ID: owner}, "PROP1", domain.ListingFields{Title: &empty})
	require.ErrorIs(t, err, domain.ErrValidation)

	// Nothing reached storage.
	current, err := storage.GetByExternalID(ctx, "PROP1")
	require.NoError(t, err)
	require.Equal(t, 100.0, current.Price)
	require.Equal(t, "Seeded PROP1", current.Title)
}

// TestUpdateListingNormalizesAmenities: the partial-update path stores
// amenities in the same canonical form as create.
func TestUpdateListingNormalizesAmenities(t *testing.T) {
	storage := newFakeListingStorage()
	owner := uuid.New()
	seedListing(t, storage, "PROP1", 100, &owner)
	uc := NewUpdateListingUseCase(storage, memorycache.NewMemoryCacheAdapter(), &fakeEventsPublisher{})

	updated, err := uc.Execute(context.Background(), domain.Caller{ID: owner}, "PROP1",
		domain.ListingFields{Amenities: []string{"Gym", "gym", " Pool "}})
	require.NoError(t, err)
	require.Equal(t, []string{"gym", "pool"}, updated.Amenities)
}

func TestUpdateOwnerlessListingAllowedForAnyCaller(t *testing.T) {
	storage := newFakeListingStorage()
	seedListing(t, storage, "PROP1", 100, nil)
	uc := NewUpdateListingUseCase(storage, memorycache.NewMemoryCacheAdapter(), &fakeEventsPublisher{})

	price := 300.0
	updated, err := uc.Execute(context.Background(), domain.Caller{ID: uuid.New()}, "PROP1", domain.ListingFields{Price: &price})
	require.NoError(t, err)
	require.Equal(t, 300.0, updated.Price)
}

func TestDeleteListingOwnershipGate(t *testing.T) {
	storage := newFakeListingStorage()
	owner := uuid.New()
	seedListing(t, storage, "PROP1", 100, &owner)
	seedListing(t, storage, "PROP2", 100, nil)
	events := &fakeEventsPublisher{}
	uc := NewDeleteListingUseCase(storage, memorycache.NewMemoryCacheAdapter(), events)

	stranger := domain.Caller{ID: uuid.New()}

	require.ErrorIs(t, uc.Execute(context.Background(), stranger, "PROP404"), domain.ErrListingNotFound)
	require.ErrorIs(t, uc.Execute(context.Background(), stranger, "PROP1"), domain.ErrNotOwner)

	// Ownerless listings are deletable by any authenticated caller.
	require.NoError(t, uc.Execute(context.Background(), stranger, "PROP2"))
	// The owner deletes their own listing.
	require.NoError(t, uc.Execute(context.Background(), domain.Caller{ID: owner}, "PROP1"))

	require.Equal(t, []string{"listing.deleted", "listing.deleted"}, events.actions)
}

func TestDeleteListingEvictsDetailCache(t *testing.T) {
	storage := newFakeListingStorage()
	owner := uuid.New()
	seedListing(t, storage, "PROP1", 100, &owner)
	cache := memorycache.NewMemoryCacheAdapter()
	ctx := context.Background()

	getUC := NewGetListingUseCase(storage, cache, testTTL)
	deleteUC := NewDeleteListingUseCase(storage, cache, &fakeEventsPublisher{})

	_, err := getUC.Execute(ctx, "PROP1")
	require.NoError(t, err)

	require.NoError(t, deleteUC.Execute(ctx, domain.Caller{ID: owner}, "PROP1"))

	_, err = getUC.Execute(ctx, "PROP1")
	require.ErrorIs(t, err, domain.ErrListingNotFound, "deleted listing must not be served from cache")
}
