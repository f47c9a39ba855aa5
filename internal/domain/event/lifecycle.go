package event

import (
	"time"

	"github.com/youssefbibani/platform-sport/internal/domain/identity"
)

// Status is the lifecycle state of an event.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPending   Status = "pending"
	StatusPublished Status = "published"
	StatusRejected  Status = "rejected"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

// Statuses lists every lifecycle state.
var Statuses = []Status{
	StatusDraft, StatusPending, StatusPublished, StatusRejected, StatusCancelled, StatusCompleted,
}

func (s Status) Valid() bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

// transitionRule is the outcome of a requested status for one role.
type transitionRule struct {
	effective Status
	denied    bool
}

// transitions maps (role, requested status) to the status that is actually applied.
// Roles without an entry may not change status at all.
var transitions = map[identity.Role]map[Status]transitionRule{
	identity.RoleOrganizer: {
		StatusDraft:     {effective: StatusDraft},
		StatusPending:   {effective: StatusPending},
		StatusPublished: {effective: StatusPending},
		StatusRejected:  {denied: true},
		StatusCancelled: {effective: StatusCancelled},
		StatusCompleted: {effective: StatusCompleted},
	},
	identity.RoleAdministrator: {
		StatusDraft:     {effective: StatusDraft},
		StatusPending:   {effective: StatusPending},
		StatusPublished: {effective: StatusPublished},
		StatusRejected:  {effective: StatusRejected},
		StatusCancelled: {effective: StatusCancelled},
		StatusCompleted: {effective: StatusCompleted},
	},
}

// ResolveTransition returns the status applied when role requests requested.
func ResolveTransition(role identity.Role, requested Status) (Status, error) {
	if !requested.Valid() {
		return "", &ValidationError{Field: "status", Message: "unknown status", Err: ErrInvalidStatus}
	}
	table, ok := transitions[role]
	if !ok {
		return "", ErrUnauthorizedTransition
	}
	rule := table[requested]
	if rule.denied {
		return "", &ValidationError{
			Field:   "status",
			Message: "only administrators can reject events",
			Err:     ErrUnauthorizedTransition,
		}
	}
	return rule.effective, nil
}

// PublishedAt computes published_at after a transition from prev to next.
// Re-entering published keeps the original stamp.
func PublishedAt(prev, next Status, current *time.Time, now time.Time) *time.Time {
	if next != StatusPublished {
		return nil
	}
	if prev == StatusPublished && current != nil {
		return current
	}
	return &now
}

// ApplyStatus moves the event to the status the actor is allowed to reach.
func (e *Event) ApplyStatus(role identity.Role, requested Status, now time.Time) error {
	next, err := ResolveTransition(role, requested)
	if err != nil {
		return err
	}
	e.PublishedAt = PublishedAt(e.Status, next, e.PublishedAt, now)
	e.Status = next
	return nil
}

// ModerationTarget validates a single moderation decision.
func ModerationTarget(decision Status) (Status, error) {
	switch decision {
	case StatusPublished, StatusRejected:
		return decision, nil
	}
	return "", ErrInvalidModerationTarget
}

// BulkDecision is the action of a batch moderation request.
type BulkDecision string

const (
	BulkApprove BulkDecision = "approve"
	BulkReject  BulkDecision = "reject"
)

// Target returns the status the batch moves pending events to.
func (d BulkDecision) Target() (Status, error) {
	switch d {
	case BulkApprove:
		return StatusPublished, nil
	case BulkReject:
		return StatusRejected, nil
	}
	return "", ErrInvalidModerationTarget
}

// Moderate applies an administrator decision to a pending event.
func (e *Event) Moderate(decision Status, now time.Time) error {
	target, err := ModerationTarget(decision)
	if err != nil {
		return err
	}
	if e.Status != StatusPending {
		return ErrInvalidModerationTarget
	}
	e.PublishedAt = PublishedAt(e.Status, target, e.PublishedAt, now)
	e.Status = target
	return nil
}

// ModerationCriteria narrows a batch moderation. Empty fields match everything.
type ModerationCriteria struct {
	EventIDs    []string
	OrganizerID string
	SportID     string
}
