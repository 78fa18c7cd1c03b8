package constants

// Обменник событий объявлений
const (
	ListingEventsExchange     = "listing_events_exchange"
	ListingEventsExchangeType = "direct"
)
