package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hallwayhq/agenthub/core"
)

func TestInMemoryDirectory_Lookup(t *testing.T) {
	d := NewInMemoryDirectory()

	rec, err := d.Lookup(context.Background(), "EMP001")
	require.NoError(t, err)
	assert.Equal(t, "Alice", rec.DisplayName)
	assert.Equal(t, "Engineering", rec.Department)

	// Case-insensitive like the enterprise directory it mimics.
	rec, err = d.Lookup(context.Background(), "emp001")
	require.NoError(t, err)
	assert.Equal(t, "Alice", rec.DisplayName)
}

func TestInMemoryDirectory_Unknown(t *testing.T) {
	d := NewInMemoryDirectory()

	_, err := d.Lookup(context.Background(), "GHOST")
	assert.True(t, errors.Is(err, ErrUserNotFound))
}

func TestInMemoryDirectory_HonorsContext(t *testing.T) {
	d := NewInMemoryDirectory()

	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	<-ctx.Done()

	_, err := d.Lookup(ctx, "EMP001")
	assert.Error(t, err)
	assert.False(t, errors.Is(err, ErrUserNotFound))
}

func TestGuest(t *testing.T) {
	rec := Guest("GHOST")
	assert.Equal(t, "GHOST", rec.UserID)
	assert.Equal(t, "guest-GHOST", rec.DisplayName)
	assert.Equal(t, "unknown", rec.Department)
	assert.Equal(t, "unknown", rec.Email)
	assert.Empty(t, rec.JobTitle)
	assert.Empty(t, rec.Phone)
}

func TestMerge_FlattensRecord(t *testing.T) {
	sess := core.NewSession("concierge", "s1", "EMP001")

	Merge(sess, UserRecord{
		UserID:      "EMP001",
		DisplayName: "Alice",
		Department:  "Engineering",
		Email:       "alice@company.com",
		JobTitle:    "Software Engineer",
	}, true)

	for key, want := range map[string]any{
		core.StateKeyUserID:       "EMP001",
		core.StateKeyUserName:     "Alice",
		core.StateKeyDepartment:   "Engineering",
		core.StateKeyEmail:        "alice@company.com",
		core.StateKeyJobTitle:     "Software Engineer",
		core.StateKeyIsRegistered: true,
	} {
		v, ok := sess.GetState(key)
		require.True(t, ok, "missing key %s", key)
		assert.Equal(t, want, v)
	}

	// Absent optionals are omitted, not written as placeholders.
	_, ok := sess.GetState(core.StateKeyPhone)
	assert.False(t, ok)
}

func TestMerge_PreservesUnrelatedKeys(t *testing.T) {
	sess := core.NewSession("concierge", "s1", "EMP001")
	sess.SetState("lastBookingId", "bk-42")

	Merge(sess, Guest("GHOST"), false)

	v, ok := sess.GetState("lastBookingId")
	require.True(t, ok)
	assert.Equal(t, "bk-42", v)
	assert.False(t, sess.IsRegistered())
}

func TestMerge_RefreshesIdentityMidConversation(t *testing.T) {
	sess := core.NewSession("concierge", "s1", "GHOST")

	Merge(sess, Guest("GHOST"), false)
	assert.False(t, sess.IsRegistered())

	// Re-authentication mid-conversation replaces the guest identity.
	Merge(sess, UserRecord{UserID: "EMP001", DisplayName: "Alice", Department: "Engineering", Email: "alice@company.com"}, true)

	v, _ := sess.GetState(core.StateKeyUserName)
	assert.Equal(t, "Alice", v)
	assert.True(t, sess.IsRegistered())
}
