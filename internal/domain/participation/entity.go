package participation

import (
	"time"
)

// Status is the internal state of a participation row.
type Status string

const (
	StatusActive    Status = "active"
	StatusCancelled Status = "cancelled"
)

// Participation links a participant to an event. One row exists per (event, user);
// leaving flips it to cancelled and joining again re-activates it.
type Participation struct {
	ID        string
	EventID   string
	UserID    string
	Status    Status
	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewParticipation(eventID, userID string) *Participation {
	now := time.Now()
	return &Participation{
		EventID:   eventID,
		UserID:    userID,
		Status:    StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (p *Participation) Validate() error {
	if p.EventID == "" {
		return ErrEventIDRequired
	}
	if p.UserID == "" {
		return ErrUserIDRequired
	}
	return nil
}

func (p *Participation) IsActive() bool {
	return p.Status == StatusActive
}
