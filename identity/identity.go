// Package identity resolves user records from a directory and injects them
// into session state so agents and tools never have to ask "who are you".
//
// Lookups that fail resolve to a synthesized guest record: the pipeline never
// blocks on missing identity. Whether the record came from a genuine
// directory hit is carried separately as the isRegistered flag.
package identity

import (
	"context"
	"errors"

	"github.com/hallwayhq/agenthub/core"
)

// ErrUserNotFound signals that the directory has no record for a user id.
var ErrUserNotFound = errors.New("user not found")

// UserRecord is the directory's view of a user. Value type, copied into
// session state rather than aliased. JobTitle and Phone are optional; the
// empty string marks absence.
type UserRecord struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
	Department  string `json:"department"`
	Email       string `json:"email"`
	JobTitle    string `json:"job_title,omitempty"`
	Phone       string `json:"phone,omitempty"`
}

// Directory looks up user records by id. Implementations must honor the
// context deadline; the dispatcher bounds every lookup with a timeout.
type Directory interface {
	Lookup(ctx context.Context, userID string) (UserRecord, error)
}

// Guest synthesizes a record for an unknown user. The user id is echoed,
// the display name derived, and department/email carry sentinel values.
func Guest(userID string) UserRecord {
	return UserRecord{
		UserID:      userID,
		DisplayName: "guest-" + userID,
		Department:  "unknown",
		Email:       "unknown",
	}
}

// Merge flattens a user record into session state under the fixed keys and
// records whether the identity came from a genuine directory hit. Optional
// attributes that are absent are omitted rather than written as placeholders.
// Unrelated keys that agents or tools added for their own bookkeeping are
// left untouched. Merge runs on every request path, for newly created and
// resumed sessions alike, so identity can change mid-conversation.
func Merge(sess *core.Session, rec UserRecord, registered bool) {
	delta := map[string]any{
		core.StateKeyUserID:       rec.UserID,
		core.StateKeyUserName:     rec.DisplayName,
		core.StateKeyDepartment:   rec.Department,
		core.StateKeyEmail:        rec.Email,
		core.StateKeyIsRegistered: registered,
	}
	if rec.JobTitle != "" {
		delta[core.StateKeyJobTitle] = rec.JobTitle
	}
	if rec.Phone != "" {
		delta[core.StateKeyPhone] = rec.Phone
	}
	sess.ApplyStateDelta(delta)
}
