package identity

import "errors"

// Role is the role tag the identity layer attaches to every request.
type Role string

const (
	RoleParticipant   Role = "participant"
	RoleOrganizer     Role = "organizer"
	RoleAdministrator Role = "administrator"
)

var (
	ErrUserIDRequired = errors.New("user id is required")
	ErrUnknownRole    = errors.New("unknown role")
	ErrForbidden      = errors.New("actor is not allowed to perform this action")
)

// ParseRole converts a role tag supplied by the identity layer.
func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleParticipant, RoleOrganizer, RoleAdministrator:
		return r, nil
	}
	return "", ErrUnknownRole
}

// Actor is the authenticated caller of an operation.
type Actor struct {
	UserID string
	Role   Role
}

// Validate checks that the actor carries an id and a known role.
func (a Actor) Validate() error {
	if a.UserID == "" {
		return ErrUserIDRequired
	}
	if _, err := ParseRole(string(a.Role)); err != nil {
		return err
	}
	return nil
}

func (a Actor) IsParticipant() bool   { return a.Role == RoleParticipant }
func (a Actor) IsOrganizer() bool     { return a.Role == RoleOrganizer }
func (a Actor) IsAdministrator() bool { return a.Role == RoleAdministrator }
