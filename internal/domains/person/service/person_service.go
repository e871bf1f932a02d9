package service

import (
	"context"
	"errors"
	"fmt"

	"person-registry/internal/domains/person"
	"person-registry/pkg/logger"
)

// personService implements person.Service. Batch entries are processed
// strictly sequentially in input order: uniqueness checks query live store
// state, so the check for entry k must observe the insert already performed
// for entry j<k in the same batch. Two same-batch entries with the same
// email must not both succeed.
//
// Across requests the store is the only shared state; concurrent inserts of
// the same email from separate requests can both pass the existence check.
// That race is accepted, not masked with locking.
type personService struct {
	repo person.Repository
}

func NewPersonService(repo person.Repository) person.Service {
	return &personService{repo: repo}
}

func (s *personService) InsertBatch(ctx context.Context, entries []person.InsertEntry) (*person.InsertOutcome, error) {
	out := &person.InsertOutcome{
		Inserted: make([]person.Person, 0, len(entries)),
	}

	for _, entry := range entries {
		if err := entry.Validate(); err != nil {
			out.Invalid = append(out.Invalid, person.InvalidEntry{
				Entry:  entry,
				Reason: err.Error(),
			})
			continue
		}

		if entry.Email != nil && *entry.Email != "" {
			count, err := s.repo.CountByEmail(ctx, *entry.Email)
			if err != nil {
				return nil, fmt.Errorf("check email uniqueness: %w", err)
			}
			if count > 0 {
				out.Duplicates = append(out.Duplicates, person.DuplicateEmail{
					Email:         *entry.Email,
					Message:       fmt.Sprintf("a record with email %s already exists", *entry.Email),
					ExistingCount: count,
				})
				continue
			}
		}

		p := &person.Person{
			Name:    entry.Name,
			Age:     *entry.Age,
			Email:   entry.Email,
			Address: entry.Address,
			Phone:   entry.Phone,
		}

		id, err := s.repo.Insert(ctx, p)
		if err != nil {
			return nil, fmt.Errorf("insert person: %w", err)
		}
		p.ID = id
		out.Inserted = append(out.Inserted, *p)
	}

	logger.Info("insert batch processed", map[string]interface{}{
		"total":      len(entries),
		"inserted":   len(out.Inserted),
		"duplicates": len(out.Duplicates),
		"invalid":    len(out.Invalid),
	})

	return out, nil
}

func (s *personService) UpdateBatch(ctx context.Context, entries []person.UpdateEntry) (*person.UpdateOutcome, error) {
	out := &person.UpdateOutcome{
		Updated: make([]person.UpdateEntry, 0, len(entries)),
	}

	// One entry's failure must never abort the batch: everything below is
	// recovered into the outcome lists.
	for _, entry := range entries {
		if !entry.ID.Present || !entry.ID.Valid {
			out.Errors = append(out.Errors, person.EntryError{
				Entry: entry,
				Error: "the 'id' field is required and must be numeric",
			})
			continue
		}

		if entry.Name == nil || entry.Age == nil {
			// Full-record replace: a missing name or age would violate the
			// record's required fields.
			out.Errors = append(out.Errors, person.EntryError{
				Entry: entry,
				Error: "name and age are required for an update",
			})
			continue
		}

		if entry.Email != nil && *entry.Email != "" {
			count, err := s.repo.CountByEmailExcludingID(ctx, *entry.Email, entry.ID.Value)
			if err != nil {
				out.Errors = append(out.Errors, person.EntryError{
					Entry: entry,
					Error: err.Error(),
				})
				continue
			}
			if count > 0 {
				out.EmailConflicts = append(out.EmailConflicts, person.EmailConflict{
					ID:      entry.ID.Value,
					Email:   *entry.Email,
					Message: fmt.Sprintf("the email %s already belongs to another record", *entry.Email),
				})
				continue
			}
		}

		p := &person.Person{
			ID:      entry.ID.Value,
			Name:    *entry.Name,
			Age:     *entry.Age,
			Email:   entry.Email,
			Address: entry.Address,
			Phone:   entry.Phone,
		}

		rows, err := s.repo.Update(ctx, p)
		if err != nil {
			out.Errors = append(out.Errors, person.EntryError{
				Entry: entry,
				Error: err.Error(),
			})
			continue
		}
		if rows == 0 {
			out.NotFound = append(out.NotFound, entry.ID.Value)
			continue
		}

		out.Updated = append(out.Updated, entry)
	}

	logger.Info("update batch processed", map[string]interface{}{
		"total":     len(entries),
		"updated":   len(out.Updated),
		"conflicts": len(out.EmailConflicts),
		"not_found": len(out.NotFound),
		"errors":    len(out.Errors),
	})

	return out, nil
}

func (s *personService) Delete(ctx context.Context, req person.DeleteRequest) (*person.DeleteOutcome, error) {
	if len(req.IDs) == 0 {
		return nil, person.ErrNoIDs
	}
	if !req.Confirm {
		return nil, &person.ConfirmationRequiredError{IDs: req.IDs}
	}

	rows, err := s.repo.DeleteByIDs(ctx, req.IDs)
	if err != nil {
		return nil, fmt.Errorf("delete persons: %w", err)
	}
	if rows == 0 {
		return nil, fmt.Errorf("%w for ids %v", person.ErrNoneFound, req.IDs)
	}

	return &person.DeleteOutcome{
		DeletedCount: rows,
		DeletedIDs:   req.IDs,
	}, nil
}

func (s *personService) Query(ctx context.Context, req person.QueryRequest) (*person.QueryOutcome, error) {
	switch {
	case req.ID != nil:
		p, err := s.repo.FindByID(ctx, *req.ID)
		if err != nil {
			if errors.Is(err, person.ErrPersonNotFound) {
				return nil, fmt.Errorf("%w with id %d", person.ErrPersonNotFound, *req.ID)
			}
			return nil, err
		}
		return &person.QueryOutcome{Records: []person.Person{*p}}, nil

	case len(req.IDs) > 0:
		found, err := s.repo.FindByIDs(ctx, req.IDs)
		if err != nil {
			return nil, err
		}
		if len(found) == 0 {
			return nil, fmt.Errorf("%w for ids %v", person.ErrNoneFound, req.IDs)
		}

		foundIDs := make(map[int64]bool, len(found))
		for _, p := range found {
			foundIDs[p.ID] = true
		}

		var notFound []int64
		for _, id := range req.IDs {
			if !foundIDs[id] {
				notFound = append(notFound, id)
			}
		}

		return &person.QueryOutcome{Records: found, NotFound: notFound}, nil

	default:
		all, err := s.repo.FindAll(ctx)
		if err != nil {
			return nil, err
		}
		return &person.QueryOutcome{Records: all}, nil
	}
}
