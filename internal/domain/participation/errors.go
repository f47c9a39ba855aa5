package participation

import "errors"

var (
	ErrEventNotJoinable = errors.New("event is not open for participation")
	ErrRoleNotEligible  = errors.New("only participants can join events")
	ErrPaymentRequired  = errors.New("paid events are not supported")
	ErrAlreadyJoined    = errors.New("already joined this event")
	ErrEventIDRequired  = errors.New("event id is required")
	ErrUserIDRequired   = errors.New("user id is required")
)
