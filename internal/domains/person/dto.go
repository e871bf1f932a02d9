package person

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// ========================================
// BATCH INPUT
// ========================================

// InsertEntry is one record descriptor in an insert batch.
type InsertEntry struct {
	Name    string  `json:"name"`
	Age     *int    `json:"age"`
	Email   *string `json:"email,omitempty"`
	Address *string `json:"address,omitempty"`
	Phone   *string `json:"phone,omitempty"`
}

func (e InsertEntry) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.Name, validation.Required.Error("name is required")),
		validation.Field(&e.Age, validation.NotNil.Error("age is required")),
		validation.Field(&e.Email, is.Email.Error("invalid email format")),
	)
}

// InsertRequest accepts either a single record object or an array of them;
// both normalize to Entries.
type InsertRequest struct {
	Entries []InsertEntry
}

func (r *InsertRequest) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		return json.Unmarshal(data, &r.Entries)
	}

	var single InsertEntry
	if err := json.Unmarshal(data, &single); err != nil {
		return err
	}
	r.Entries = []InsertEntry{single}
	return nil
}

// EntryID tolerates malformed identifiers. A bad id must land in the batch
// error list, not abort decoding of sibling entries, so unmarshalling never
// fails: it records whether the field was present and whether it parsed.
// Numeric strings are accepted. The raw bytes are kept so the originating
// payload can be echoed back in the error list.
type EntryID struct {
	Present bool
	Valid   bool
	Value   int64
	raw     json.RawMessage
}

func (e *EntryID) UnmarshalJSON(data []byte) error {
	e.Present = true
	e.raw = append(e.raw[:0], data...)

	var n int64
	if err := json.Unmarshal(data, &n); err == nil {
		e.Valid = true
		e.Value = n
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64); err == nil {
			e.Valid = true
			e.Value = v
		}
	}
	return nil
}

func (e EntryID) MarshalJSON() ([]byte, error) {
	if e.Valid {
		return []byte(strconv.FormatInt(e.Value, 10)), nil
	}
	if e.Present && len(e.raw) > 0 {
		return e.raw, nil
	}
	return []byte("null"), nil
}

// UpdateEntry is one record descriptor in an update batch: the target id
// plus the full set of mutable fields (full-record replace).
type UpdateEntry struct {
	ID      EntryID `json:"id"`
	Name    *string `json:"name,omitempty"`
	Age     *int    `json:"age,omitempty"`
	Email   *string `json:"email,omitempty"`
	Address *string `json:"address,omitempty"`
	Phone   *string `json:"phone,omitempty"`
}

// UpdateRequest accepts a single record object or an array of them.
type UpdateRequest struct {
	Entries []UpdateEntry
}

func (r *UpdateRequest) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		return json.Unmarshal(data, &r.Entries)
	}

	var single UpdateEntry
	if err := json.Unmarshal(data, &single); err != nil {
		return err
	}
	r.Entries = []UpdateEntry{single}
	return nil
}

// DeleteRequest requires an explicit confirmation flag alongside the ids.
type DeleteRequest struct {
	IDs     []int64 `json:"ids"`
	Confirm bool    `json:"confirm"`
}

// QueryRequest selects one of three modes, checked in this order: point
// lookup by ID, set lookup by IDs, full scan when neither is present.
type QueryRequest struct {
	ID  *int64  `json:"id,omitempty"`
	IDs []int64 `json:"ids,omitempty"`
}

// ========================================
// BATCH OUTCOME
// ========================================

// DuplicateEmail reports an insert entry whose email already exists.
type DuplicateEmail struct {
	Email         string `json:"email"`
	Message       string `json:"message"`
	ExistingCount int    `json:"existing_count"`
}

// InvalidEntry reports an insert entry that failed validation. Invalid
// entries are surfaced, never silently dropped.
type InvalidEntry struct {
	Entry  InsertEntry `json:"entry"`
	Reason string      `json:"reason"`
}

// InsertOutcome partitions an insert batch into disjoint lists.
type InsertOutcome struct {
	Inserted   []Person         `json:"inserted"`
	Duplicates []DuplicateEmail `json:"duplicates,omitempty"`
	Invalid    []InvalidEntry   `json:"invalid,omitempty"`
}

// EmailConflict reports an update entry whose email belongs to another
// record.
type EmailConflict struct {
	ID      int64  `json:"id"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// EntryError carries the originating payload together with the failure
// detail, so one bad entry is visible without aborting its siblings.
type EntryError struct {
	Entry UpdateEntry `json:"entry"`
	Error string      `json:"error"`
}

// UpdateOutcome partitions an update batch into disjoint lists.
type UpdateOutcome struct {
	Updated        []UpdateEntry   `json:"updated"`
	EmailConflicts []EmailConflict `json:"email_conflicts,omitempty"`
	NotFound       []int64         `json:"not_found,omitempty"`
	Errors         []EntryError    `json:"errors,omitempty"`
}

type DeleteOutcome struct {
	DeletedCount int64   `json:"deleted_count"`
	DeletedIDs   []int64 `json:"deleted_ids"`
}

// QueryOutcome lists the records found plus, for set lookups, the subset of
// requested ids that were not found.
type QueryOutcome struct {
	Records  []Person `json:"records"`
	NotFound []int64  `json:"not_found,omitempty"`
}
