package event

import (
	"time"

	"github.com/youssefbibani/platform-sport/internal/domain/capacity"
	"github.com/youssefbibani/platform-sport/internal/domain/identity"
)

const (
	// SlugMaxLength bounds the generated slug.
	SlugMaxLength   = 180
	DefaultTimezone = "UTC"
	DefaultCurrency = "TND"
)

// Type is the format of a sports event.
type Type string

const (
	TypeCourse     Type = "course"
	TypeStage      Type = "stage"
	TypeTournament Type = "tournament"
	TypeMatch      Type = "match"
)

func (t Type) valid() bool {
	switch t {
	case TypeCourse, TypeStage, TypeTournament, TypeMatch:
		return true
	}
	return false
}

// Level is the skill level required to take part.
type Level string

const (
	LevelAll          Level = "all"
	LevelBeginner     Level = "beginner"
	LevelIntermediate Level = "intermediate"
	LevelAdvanced     Level = "advanced"
)

func (l Level) valid() bool {
	switch l {
	case LevelAll, LevelBeginner, LevelIntermediate, LevelAdvanced:
		return true
	}
	return false
}

// Event is a sports event published by an organizer.
type Event struct {
	ID                 string
	OrganizerID        string
	Title              string
	Slug               string
	ShortDescription   string
	Description        string
	SportID            string
	CategoryID         string
	EventType          Type
	Level              Level
	StartAt            time.Time
	EndAt              time.Time
	Timezone           string
	LocationID         string
	CapacityTotal      int
	CapacityReserved   int
	IsFree             bool
	Currency           string
	CancellationPolicy string
	CancellationPublic bool
	CoverImageURL      string
	Status             Status
	PublishedAt        *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
	Version            int // optimistic lock
	// Revision increases on every write to the row, capacity changes included.
	Revision int64
}

// NewEvent creates a draft event owned by organizerID.
func NewEvent(organizerID, title string, eventType Type, startAt, endAt time.Time, capacityTotal int, isFree bool) *Event {
	now := time.Now()
	return &Event{
		OrganizerID:   organizerID,
		Title:         title,
		EventType:     eventType,
		Level:         LevelAll,
		StartAt:       startAt,
		EndAt:         endAt,
		Timezone:      DefaultTimezone,
		CapacityTotal: capacityTotal,
		IsFree:        isFree,
		Currency:      DefaultCurrency,
		Status:        StatusDraft,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// CapacityAvailable returns the number of seats that can still be reserved.
func (e *Event) CapacityAvailable() int {
	return max(e.CapacityTotal-e.CapacityReserved, 0)
}

// CapacitySnapshot returns the capacity counters as read with the event.
func (e *Event) CapacitySnapshot() capacity.Snapshot {
	return capacity.Snapshot{
		EventID:  e.ID,
		Total:    e.CapacityTotal,
		Reserved: e.CapacityReserved,
		Revision: e.Revision,
	}
}

// IsJoinable reports whether participants may join the event right now.
func (e *Event) IsJoinable() bool {
	return e.Status == StatusPublished
}

// IsManagedBy reports whether actor may edit or delete the event.
func (e *Event) IsManagedBy(actor identity.Actor) bool {
	if actor.IsAdministrator() {
		return true
	}
	return actor.IsOrganizer() && actor.UserID == e.OrganizerID
}

// Validate checks field level constraints.
func (e *Event) Validate() error {
	if e.OrganizerID == "" {
		return invalid("organizer", "organizer is required")
	}
	if e.Title == "" {
		return invalid("title", "title is required")
	}
	if !e.EventType.valid() {
		return invalid("event_type", "unknown event type")
	}
	if !e.Level.valid() {
		return invalid("level_required", "unknown level")
	}
	if !e.EndAt.After(e.StartAt) {
		return invalid("end_at", "end time must be after start time")
	}
	if e.CapacityTotal < 0 {
		return invalid("capacity_total", "capacity must be zero or more")
	}
	if e.CapacityReserved < 0 {
		return invalid("capacity_reserved", "reserved seats must be zero or more")
	}
	if e.CapacityTotal < e.CapacityReserved {
		return &ValidationError{
			Field:   "capacity_total",
			Message: ErrCapacityBelowReservation.Error(),
			Err:     ErrCapacityBelowReservation,
		}
	}
	if len(e.Currency) != 3 {
		return invalid("currency", "currency must be a 3 letter code")
	}
	if !e.Status.Valid() {
		return &ValidationError{Field: "status", Message: "unknown status", Err: ErrInvalidStatus}
	}
	return nil
}
