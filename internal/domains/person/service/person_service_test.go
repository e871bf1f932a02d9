package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"person-registry/internal/domains/person"
)

// --- Mock repository ---

// mockRepo is an in-memory person.Repository. Email lookups see records
// inserted earlier in the same test, which is exactly what the batch engine
// relies on for same-batch duplicate detection.
type mockRepo struct {
	records map[int64]person.Person
	nextID  int64

	insertErr error
	updateErr error
	countErr  error
	deleteErr error
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		records: make(map[int64]person.Person),
		nextID:  1,
	}
}

func (m *mockRepo) seed(p person.Person) int64 {
	id := m.nextID
	m.nextID++
	p.ID = id
	m.records[id] = p
	return id
}

func (m *mockRepo) Insert(_ context.Context, p *person.Person) (int64, error) {
	if m.insertErr != nil {
		return 0, m.insertErr
	}
	id := m.nextID
	m.nextID++
	stored := *p
	stored.ID = id
	m.records[id] = stored
	return id, nil
}

func (m *mockRepo) CountByEmail(_ context.Context, email string) (int, error) {
	if m.countErr != nil {
		return 0, m.countErr
	}
	count := 0
	for _, p := range m.records {
		if p.Email != nil && *p.Email == email {
			count++
		}
	}
	return count, nil
}

func (m *mockRepo) CountByEmailExcludingID(_ context.Context, email string, id int64) (int, error) {
	if m.countErr != nil {
		return 0, m.countErr
	}
	count := 0
	for _, p := range m.records {
		if p.ID != id && p.Email != nil && *p.Email == email {
			count++
		}
	}
	return count, nil
}

func (m *mockRepo) Update(_ context.Context, p *person.Person) (int64, error) {
	if m.updateErr != nil {
		return 0, m.updateErr
	}
	if _, ok := m.records[p.ID]; !ok {
		return 0, nil
	}
	m.records[p.ID] = *p
	return 1, nil
}

func (m *mockRepo) DeleteByIDs(_ context.Context, ids []int64) (int64, error) {
	if m.deleteErr != nil {
		return 0, m.deleteErr
	}
	var deleted int64
	for _, id := range ids {
		if _, ok := m.records[id]; ok {
			delete(m.records, id)
			deleted++
		}
	}
	return deleted, nil
}

func (m *mockRepo) FindByID(_ context.Context, id int64) (*person.Person, error) {
	p, ok := m.records[id]
	if !ok {
		return nil, person.ErrPersonNotFound
	}
	return &p, nil
}

func (m *mockRepo) FindByIDs(_ context.Context, ids []int64) ([]person.Person, error) {
	var found []person.Person
	for _, id := range ids {
		if p, ok := m.records[id]; ok {
			found = append(found, p)
		}
	}
	return found, nil
}

func (m *mockRepo) FindAll(_ context.Context) ([]person.Person, error) {
	all := make([]person.Person, 0, len(m.records))
	for _, p := range m.records {
		all = append(all, p)
	}
	return all, nil
}

// --- Helpers ---

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func insertEntry(name string, age int, email string) person.InsertEntry {
	e := person.InsertEntry{Name: name, Age: intPtr(age)}
	if email != "" {
		e.Email = strPtr(email)
	}
	return e
}

// --- Insert path ---

func TestInsertBatchAllClean(t *testing.T) {
	repo := newMockRepo()
	svc := NewPersonService(repo)

	out, err := svc.InsertBatch(context.Background(), []person.InsertEntry{
		insertEntry("Ana", 30, "ana@example.com"),
		insertEntry("Bruno", 25, ""),
	})
	require.NoError(t, err)

	assert.Len(t, out.Inserted, 2)
	assert.Empty(t, out.Duplicates)
	assert.Empty(t, out.Invalid)
	assert.NotZero(t, out.Inserted[0].ID)
	assert.Len(t, repo.records, 2)
}

func TestInsertBatchExistingEmailIsDuplicate(t *testing.T) {
	repo := newMockRepo()
	repo.seed(person.Person{Name: "Ana", Age: 30, Email: strPtr("ana@example.com")})
	svc := NewPersonService(repo)

	out, err := svc.InsertBatch(context.Background(), []person.InsertEntry{
		insertEntry("Ana Clone", 31, "ana@example.com"),
		insertEntry("Bruno", 25, "bruno@example.com"),
		insertEntry("Carla", 28, "carla@example.com"),
	})
	require.NoError(t, err)

	require.Len(t, out.Duplicates, 1)
	assert.Equal(t, "ana@example.com", out.Duplicates[0].Email)
	assert.Equal(t, 1, out.Duplicates[0].ExistingCount)
	assert.Len(t, out.Inserted, 2)
}

func TestInsertBatchSameBatchDuplicateFirstWins(t *testing.T) {
	repo := newMockRepo()
	svc := NewPersonService(repo)

	// Neither email pre-exists; the second entry must observe the first
	// entry's insert and land in the duplicate list.
	out, err := svc.InsertBatch(context.Background(), []person.InsertEntry{
		insertEntry("First", 20, "same@example.com"),
		insertEntry("Second", 21, "same@example.com"),
	})
	require.NoError(t, err)

	require.Len(t, out.Inserted, 1)
	assert.Equal(t, "First", out.Inserted[0].Name)
	require.Len(t, out.Duplicates, 1)
	assert.Equal(t, "same@example.com", out.Duplicates[0].Email)
}

func TestInsertBatchInvalidEntriesSurfaced(t *testing.T) {
	repo := newMockRepo()
	svc := NewPersonService(repo)

	out, err := svc.InsertBatch(context.Background(), []person.InsertEntry{
		{Name: "", Age: intPtr(30)},          // missing name
		{Name: "No Age"},                     // missing age
		insertEntry("Valid", 40, ""),
	})
	require.NoError(t, err)

	assert.Len(t, out.Invalid, 2)
	assert.Len(t, out.Inserted, 1)
	for _, inv := range out.Invalid {
		assert.NotEmpty(t, inv.Reason)
	}
}

func TestInsertBatchStoreFailureIsError(t *testing.T) {
	repo := newMockRepo()
	repo.insertErr = errors.New("connection refused")
	svc := NewPersonService(repo)

	_, err := svc.InsertBatch(context.Background(), []person.InsertEntry{
		insertEntry("Ana", 30, ""),
	})
	assert.Error(t, err)
}

// --- Update path ---

func TestUpdateBatchBadIDLandsInErrorsWithoutAbortingSiblings(t *testing.T) {
	repo := newMockRepo()
	id := repo.seed(person.Person{Name: "Ana", Age: 30})
	svc := NewPersonService(repo)

	out, err := svc.UpdateBatch(context.Background(), []person.UpdateEntry{
		{Name: strPtr("No ID"), Age: intPtr(1)},
		{ID: person.EntryID{Present: true, Valid: true, Value: id}, Name: strPtr("Ana Maria"), Age: intPtr(31)},
	})
	require.NoError(t, err)

	require.Len(t, out.Errors, 1)
	assert.Contains(t, out.Errors[0].Error, "'id'")
	require.Len(t, out.Updated, 1)
	assert.Equal(t, "Ana Maria", repo.records[id].Name)
}

func TestUpdateBatchUnknownIDGoesToNotFound(t *testing.T) {
	repo := newMockRepo()
	svc := NewPersonService(repo)

	out, err := svc.UpdateBatch(context.Background(), []person.UpdateEntry{
		{ID: person.EntryID{Present: true, Valid: true, Value: 999}, Name: strPtr("Ghost"), Age: intPtr(1)},
	})
	require.NoError(t, err)

	assert.Equal(t, []int64{999}, out.NotFound)
	assert.Empty(t, out.Updated)
}

func TestUpdateBatchEmailConflict(t *testing.T) {
	repo := newMockRepo()
	repo.seed(person.Person{Name: "Ana", Age: 30, Email: strPtr("ana@example.com")})
	bruno := repo.seed(person.Person{Name: "Bruno", Age: 25, Email: strPtr("bruno@example.com")})
	svc := NewPersonService(repo)

	out, err := svc.UpdateBatch(context.Background(), []person.UpdateEntry{
		{
			ID:    person.EntryID{Present: true, Valid: true, Value: bruno},
			Name:  strPtr("Bruno"),
			Age:   intPtr(25),
			Email: strPtr("ana@example.com"),
		},
	})
	require.NoError(t, err)

	require.Len(t, out.EmailConflicts, 1)
	assert.Equal(t, bruno, out.EmailConflicts[0].ID)
	assert.Equal(t, "ana@example.com", out.EmailConflicts[0].Email)
	assert.Empty(t, out.Updated)
}

func TestUpdateBatchKeepingOwnEmailIsNotAConflict(t *testing.T) {
	repo := newMockRepo()
	id := repo.seed(person.Person{Name: "Ana", Age: 30, Email: strPtr("ana@example.com")})
	svc := NewPersonService(repo)

	out, err := svc.UpdateBatch(context.Background(), []person.UpdateEntry{
		{
			ID:    person.EntryID{Present: true, Valid: true, Value: id},
			Name:  strPtr("Ana Maria"),
			Age:   intPtr(31),
			Email: strPtr("ana@example.com"),
		},
	})
	require.NoError(t, err)

	assert.Empty(t, out.EmailConflicts)
	assert.Len(t, out.Updated, 1)
}

func TestUpdateBatchStoreFailureIsRecoveredPerEntry(t *testing.T) {
	repo := newMockRepo()
	repo.updateErr = errors.New("disk full")
	id := repo.seed(person.Person{Name: "Ana", Age: 30})
	svc := NewPersonService(repo)

	out, err := svc.UpdateBatch(context.Background(), []person.UpdateEntry{
		{ID: person.EntryID{Present: true, Valid: true, Value: id}, Name: strPtr("A"), Age: intPtr(1)},
		{ID: person.EntryID{Present: true, Valid: true, Value: id}, Name: strPtr("B"), Age: intPtr(2)},
	})
	require.NoError(t, err)

	// Both entries fail, both are reported, neither aborts the batch.
	assert.Len(t, out.Errors, 2)
	assert.Empty(t, out.Updated)
}

// --- Delete path ---

func TestDeleteRequiresIDs(t *testing.T) {
	svc := NewPersonService(newMockRepo())

	_, err := svc.Delete(context.Background(), person.DeleteRequest{Confirm: true})
	assert.ErrorIs(t, err, person.ErrNoIDs)
}

func TestDeleteRequiresConfirmationNamingIDs(t *testing.T) {
	repo := newMockRepo()
	id := repo.seed(person.Person{Name: "Ana", Age: 30})
	svc := NewPersonService(repo)

	_, err := svc.Delete(context.Background(), person.DeleteRequest{IDs: []int64{id, 7}})

	var confirmErr *person.ConfirmationRequiredError
	require.ErrorAs(t, err, &confirmErr)
	assert.Equal(t, []int64{id, 7}, confirmErr.IDs)
	assert.Contains(t, confirmErr.Error(), "confirm")
	// Nothing was deleted.
	assert.Len(t, repo.records, 1)
}

func TestDeleteConfirmedRemovesRecords(t *testing.T) {
	repo := newMockRepo()
	a := repo.seed(person.Person{Name: "Ana", Age: 30})
	b := repo.seed(person.Person{Name: "Bruno", Age: 25})
	svc := NewPersonService(repo)

	out, err := svc.Delete(context.Background(), person.DeleteRequest{IDs: []int64{a, b}, Confirm: true})
	require.NoError(t, err)

	assert.Equal(t, int64(2), out.DeletedCount)
	assert.Equal(t, []int64{a, b}, out.DeletedIDs)
	assert.Empty(t, repo.records)
}

func TestDeleteUnknownIDsIsNotFound(t *testing.T) {
	svc := NewPersonService(newMockRepo())

	_, err := svc.Delete(context.Background(), person.DeleteRequest{IDs: []int64{1, 2}, Confirm: true})
	assert.ErrorIs(t, err, person.ErrNoneFound)
}

// --- Query path ---

func TestQueryPointLookup(t *testing.T) {
	repo := newMockRepo()
	id := repo.seed(person.Person{Name: "Ana", Age: 30})
	svc := NewPersonService(repo)

	out, err := svc.Query(context.Background(), person.QueryRequest{ID: &id})
	require.NoError(t, err)
	require.Len(t, out.Records, 1)
	assert.Equal(t, "Ana", out.Records[0].Name)
}

func TestQueryPointLookupMissing(t *testing.T) {
	svc := NewPersonService(newMockRepo())

	missing := int64(404)
	_, err := svc.Query(context.Background(), person.QueryRequest{ID: &missing})
	assert.ErrorIs(t, err, person.ErrPersonNotFound)
}

func TestQuerySetLookupReportsMissingSubset(t *testing.T) {
	repo := newMockRepo()
	a := repo.seed(person.Person{Name: "Ana", Age: 30})
	b := repo.seed(person.Person{Name: "Bruno", Age: 25})
	svc := NewPersonService(repo)

	out, err := svc.Query(context.Background(), person.QueryRequest{IDs: []int64{a, b, 999}})
	require.NoError(t, err)

	assert.Len(t, out.Records, 2)
	assert.Equal(t, []int64{999}, out.NotFound)
}

func TestQuerySetLookupAllMissing(t *testing.T) {
	svc := NewPersonService(newMockRepo())

	_, err := svc.Query(context.Background(), person.QueryRequest{IDs: []int64{999}})
	assert.ErrorIs(t, err, person.ErrNoneFound)
}

func TestQueryFullScan(t *testing.T) {
	repo := newMockRepo()
	repo.seed(person.Person{Name: "Ana", Age: 30})
	repo.seed(person.Person{Name: "Bruno", Age: 25})
	svc := NewPersonService(repo)

	out, err := svc.Query(context.Background(), person.QueryRequest{})
	require.NoError(t, err)
	assert.Len(t, out.Records, 2)
	assert.Empty(t, out.NotFound)
}

func TestQueryFullScanEmptyStoreSucceeds(t *testing.T) {
	svc := NewPersonService(newMockRepo())

	out, err := svc.Query(context.Background(), person.QueryRequest{})
	require.NoError(t, err)
	assert.Empty(t, out.Records)
}
