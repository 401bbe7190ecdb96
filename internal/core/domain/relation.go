package domain

// RelationState is the friendship state of a pair seen from one side
type RelationState string

const (
	RelationNone     RelationState = "none"
	RelationSent     RelationState = "sent"
	RelationReceived RelationState = "received"
	RelationFriends  RelationState = "friends"
)

// RelationAction is a social graph operation applied by one side of a pair
type RelationAction string

const (
	ActionSend     RelationAction = "send"
	ActionAccept   RelationAction = "accept"
	ActionDecline  RelationAction = "decline"
	ActionCancel   RelationAction = "cancel"
	ActionUnfriend RelationAction = "unfriend"
)

// Transition returns the actor's state after applying action from state.
// It is the only place where friend request rules live.
func Transition(state RelationState, action RelationAction) (RelationState, error) {
	switch action {
	case ActionSend:
		switch state {
		case RelationNone:
			return RelationSent, nil
		case RelationSent:
			return state, ErrAlreadySent
		case RelationReceived:
			return state, ErrAlreadyReceived
		case RelationFriends:
			return state, ErrAlreadyFriends
		}
	case ActionAccept:
		if state == RelationReceived {
			return RelationFriends, nil
		}
		return state, ErrNoPendingRequest
	case ActionDecline:
		if state == RelationReceived {
			return RelationNone, nil
		}
		return state, ErrNoPendingRequest
	case ActionCancel:
		if state == RelationSent {
			return RelationNone, nil
		}
		return state, ErrNoPendingRequest
	case ActionUnfriend:
		// pending residue is cleared as well
		if state == RelationNone {
			return state, ErrNotFriends
		}
		return RelationNone, nil
	}
	return state, ErrInvalidInput
}
