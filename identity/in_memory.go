package identity

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// InMemoryDirectory is a Directory backed by a static employee table. It
// stands in for the enterprise directory API in demos and tests.
type InMemoryDirectory struct {
	mu      sync.RWMutex
	records map[string]UserRecord
}

// NewInMemoryDirectory creates a directory pre-seeded with demo employees.
func NewInMemoryDirectory() *InMemoryDirectory {
	d := &InMemoryDirectory{records: map[string]UserRecord{}}
	for _, rec := range []UserRecord{
		{UserID: "EMP001", DisplayName: "Alice", Department: "Engineering", Email: "alice@company.com", JobTitle: "Software Engineer", Phone: "0912-345-678"},
		{UserID: "EMP002", DisplayName: "Bob", Department: "Human Resources", Email: "bob@company.com", JobTitle: "HR Specialist", Phone: "0923-456-789"},
		{UserID: "EMP003", DisplayName: "Carol", Department: "Sales", Email: "carol@company.com", JobTitle: "Sales Manager", Phone: "0934-567-890"},
		{UserID: "EMP004", DisplayName: "Dave", Department: "Finance", Email: "dave@company.com", JobTitle: "Finance Lead", Phone: "0945-678-901"},
		{UserID: "EMP005", DisplayName: "Eve", Department: "Research", Email: "eve@company.com", JobTitle: "CTO", Phone: "0956-789-012"},
	} {
		d.records[rec.UserID] = rec
	}
	return d
}

// Add registers or replaces a record. Intended for tests and demo wiring.
func (d *InMemoryDirectory) Add(rec UserRecord) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.records[strings.ToUpper(rec.UserID)] = rec
}

// Lookup resolves a user id case-insensitively, honoring the context.
func (d *InMemoryDirectory) Lookup(ctx context.Context, userID string) (UserRecord, error) {
	if err := ctx.Err(); err != nil {
		return UserRecord{}, err
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	rec, ok := d.records[strings.ToUpper(userID)]
	if !ok {
		return UserRecord{}, fmt.Errorf("%w: %s", ErrUserNotFound, userID)
	}
	return rec, nil
}
