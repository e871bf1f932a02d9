package person

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsertRequestAcceptsSingleObject(t *testing.T) {
	var req InsertRequest
	err := json.Unmarshal([]byte(`{"name":"Ana","age":30}`), &req)
	require.NoError(t, err)

	require.Len(t, req.Entries, 1)
	assert.Equal(t, "Ana", req.Entries[0].Name)
	require.NotNil(t, req.Entries[0].Age)
	assert.Equal(t, 30, *req.Entries[0].Age)
}

func TestInsertRequestAcceptsArray(t *testing.T) {
	var req InsertRequest
	err := json.Unmarshal([]byte(`[{"name":"Ana","age":30},{"name":"Bruno","age":25}]`), &req)
	require.NoError(t, err)
	assert.Len(t, req.Entries, 2)
}

func TestInsertEntryValidation(t *testing.T) {
	age := 30
	email := "not-an-email"

	assert.NoError(t, InsertEntry{Name: "Ana", Age: &age}.Validate())
	assert.Error(t, InsertEntry{Name: "", Age: &age}.Validate())
	assert.Error(t, InsertEntry{Name: "Ana"}.Validate())
	assert.Error(t, InsertEntry{Name: "Ana", Age: &age, Email: &email}.Validate())
}

func TestEntryIDParsesNumbersAndNumericStrings(t *testing.T) {
	var entry UpdateEntry
	require.NoError(t, json.Unmarshal([]byte(`{"id":12}`), &entry))
	assert.True(t, entry.ID.Present)
	assert.True(t, entry.ID.Valid)
	assert.Equal(t, int64(12), entry.ID.Value)

	entry = UpdateEntry{}
	require.NoError(t, json.Unmarshal([]byte(`{"id":"34"}`), &entry))
	assert.True(t, entry.ID.Valid)
	assert.Equal(t, int64(34), entry.ID.Value)
}

func TestEntryIDToleratesGarbageWithoutFailingTheBatch(t *testing.T) {
	var req UpdateRequest
	payload := `[{"id":"abc","name":"Bad"},{"id":2,"name":"Good","age":20}]`
	require.NoError(t, json.Unmarshal([]byte(payload), &req))

	require.Len(t, req.Entries, 2)
	assert.True(t, req.Entries[0].ID.Present)
	assert.False(t, req.Entries[0].ID.Valid)
	assert.True(t, req.Entries[1].ID.Valid)
}

func TestEntryIDAbsentMeansNotPresent(t *testing.T) {
	var entry UpdateEntry
	require.NoError(t, json.Unmarshal([]byte(`{"name":"NoID"}`), &entry))
	assert.False(t, entry.ID.Present)
}

func TestEntryIDEchoesOriginalRawValue(t *testing.T) {
	var entry UpdateEntry
	require.NoError(t, json.Unmarshal([]byte(`{"id":"abc"}`), &entry))

	data, err := json.Marshal(entry.ID)
	require.NoError(t, err)
	assert.JSONEq(t, `"abc"`, string(data))
}
