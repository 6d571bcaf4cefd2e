package domain

import "context"

// Cache is an injected key-value slot store for derived summaries.
// Get on an absent key returns "" and no error; callers treat empty and
// absent as equivalent. Concurrent writers race last-writer-wins.
type Cache interface {
	Set(ctx context.Context, key, value string) error
	Get(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
}

// SummaryService recomputes and serves the derived cache summaries. The
// recomputations scan global state and are safe to run concurrently with
// reads; they are triggered through the task queue, never on the mutation's
// response path.
type SummaryService interface {
	// RecomputeAnnouncement rebuilds the nearly-sold-out announcement from a
	// conference scan and publishes or clears the cached value. Returns the
	// announcement ("" when cleared).
	RecomputeAnnouncement(ctx context.Context) (string, error)
	// Announcement returns the cached announcement, "" when absent.
	Announcement(ctx context.Context) (string, error)
	// RecomputeFeaturedSpeaker publishes the featured speaker when the
	// speaker has two or more sessions within the conference; otherwise it
	// leaves the cached value untouched.
	RecomputeFeaturedSpeaker(ctx context.Context, conferenceID, speaker string) error
	// FeaturedSpeaker returns the cached featured speaker, "" when absent.
	FeaturedSpeaker(ctx context.Context) (string, error)
}
