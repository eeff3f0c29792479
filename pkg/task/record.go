package task

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// RecordID is a task id as found in plain records. Remote sources may send it
// as a JSON number; it is always kept as a string.
type RecordID string

// UnmarshalJSON implements the json.Unmarshaler interface for RecordID.
func (id *RecordID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("failed to decode record id: %w", err)
		}
		*id = RecordID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("failed to decode record id '%s': %w", string(b), err)
	}
	*id = RecordID(n.String())
	return nil
}

// Record is the plain, serializable form of a Task.
type Record struct {
	ID          RecordID   `json:"id"`
	Description string     `json:"description,omitempty"`
	Title       string     `json:"title,omitempty"` // legacy / remote name for Description
	Completed   bool       `json:"completed"`
	Deleted     bool       `json:"deleted,omitempty"`
	CreatedAt   *time.Time `json:"createdAt,omitempty"`
	Deadline    *Date      `json:"deadline"`
}

// Text returns the description, falling back to the legacy title.
func (r Record) Text() string {
	if strings.TrimSpace(r.Description) != "" {
		return r.Description
	}
	return r.Title
}

// Record serializes the task.
func (t *Task) Record() Record {
	created := t.CreatedAt
	rec := Record{
		ID:          RecordID(t.ID),
		Description: t.Description,
		Completed:   t.Completed,
		Deleted:     t.Deleted(),
		CreatedAt:   &created,
	}
	if t.Deadline != nil {
		day := *t.Deadline
		rec.Deadline = &day
	}
	return rec
}

// FromRecord rebuilds a task from its plain record. Missing fields default to
// an active, incomplete task created at now; the id is preserved verbatim.
func FromRecord(r Record, now time.Time) *Task {
	opts := []Option{
		WithID(string(r.ID)),
		WithCompleted(r.Completed),
		WithDeadline(r.Deadline),
		WithCreatedAt(now),
	}
	if r.CreatedAt != nil && !r.CreatedAt.IsZero() {
		opts = append(opts, WithCreatedAt(*r.CreatedAt))
	}
	if r.Deleted {
		opts = append(opts, WithStatus(Deleted))
	}
	return New(r.Text(), opts...)
}
