package person

import "context"

// Service is the batch mutation engine and query resolver. Batch operations
// never fail wholesale because of one entry: per-entry outcomes come back in
// the returned outcome lists, and only store or input-shape failures surface
// as errors.
type Service interface {
	// InsertBatch processes entries sequentially in input order, so a
	// duplicate-email check observes inserts performed earlier in the same
	// batch.
	InsertBatch(ctx context.Context, entries []InsertEntry) (*InsertOutcome, error)

	// UpdateBatch processes entries sequentially with full per-entry error
	// isolation.
	UpdateBatch(ctx context.Context, entries []UpdateEntry) (*UpdateOutcome, error)

	// Delete removes the confirmed id set. Returns ErrNoIDs,
	// *ConfirmationRequiredError, or ErrNoneFound when nothing matched.
	Delete(ctx context.Context, req DeleteRequest) (*DeleteOutcome, error)

	// Query resolves a point lookup, a set lookup, or a full scan, in that
	// precedence. Returns ErrPersonNotFound for a missing point lookup and
	// ErrNoneFound when a set lookup matches nothing.
	Query(ctx context.Context, req QueryRequest) (*QueryOutcome, error)
}
