package person

import "context"

// Repository is the data access contract for person records. The store
// serializes individual operations but offers no multi-operation
// transactions; the service layer leans on that when it sequences batch
// items.
type Repository interface {
	// Insert stores a new record and returns the assigned id.
	Insert(ctx context.Context, p *Person) (int64, error)

	// CountByEmail returns how many records hold the given email.
	CountByEmail(ctx context.Context, email string) (int, error)

	// CountByEmailExcludingID returns how many records other than id hold
	// the given email.
	CountByEmailExcludingID(ctx context.Context, email string, id int64) (int, error)

	// Update replaces the mutable fields of the record with p.ID and
	// returns the number of rows affected (0 when the id does not exist).
	Update(ctx context.Context, p *Person) (int64, error)

	// DeleteByIDs removes all records in ids with one store operation and
	// returns the number of rows affected.
	DeleteByIDs(ctx context.Context, ids []int64) (int64, error)

	// FindByID returns ErrPersonNotFound when the id does not exist.
	FindByID(ctx context.Context, id int64) (*Person, error)

	// FindByIDs returns the subset of records whose ids exist; missing ids
	// are simply absent from the result.
	FindByIDs(ctx context.Context, ids []int64) ([]Person, error)

	// FindAll returns every record.
	FindAll(ctx context.Context) ([]Person, error)
}
