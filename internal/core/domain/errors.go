package domain

import "errors"

// Kind classifies an error for transport mapping
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
	KindConsistency
)

// Validation errors
var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrInvalidAmount    = errors.New("amount must be greater than 0")
	ErrInvalidCardMonth = errors.New("please enter a valid month")
	ErrInvalidCardYear  = errors.New("please enter a valid year")
	ErrCardExpired      = errors.New("please enter a valid expiration date")
	ErrSelfTransfer     = errors.New("you cannot send money to yourself")
	ErrSelfRequest      = errors.New("you cannot send a request to yourself")
)

// Authorization errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("forbidden")
)

// Not found errors
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrRecipientNotFound = errors.New("recipient not found")
	ErrFriendNotFound    = errors.New("friend not found")
	ErrCardNotFound      = errors.New("card not found in saved cards")
)

// Conflict errors
var (
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrAlreadySent         = errors.New("friend request already sent")
	ErrAlreadyReceived     = errors.New("friend request already received")
	ErrAlreadyFriends      = errors.New("users are already friends")
	ErrNotFriends          = errors.New("users are not friends")
	ErrNoPendingRequest    = errors.New("no pending friend request")
	ErrEmailTaken          = errors.New("email already taken")
	ErrUsernameTaken       = errors.New("username already taken")
	ErrConcurrentUpdate    = errors.New("concurrent update, please retry")
)

// ErrConsistency marks a broken ledger or relation invariant
var ErrConsistency = errors.New("consistency violation")

var kinds = []struct {
	kind Kind
	errs []error
}{
	{KindValidation, []error{ErrInvalidInput, ErrInvalidAmount, ErrInvalidCardMonth, ErrInvalidCardYear, ErrCardExpired, ErrSelfTransfer, ErrSelfRequest}},
	{KindUnauthorized, []error{ErrInvalidCredentials}},
	{KindForbidden, []error{ErrForbidden}},
	{KindNotFound, []error{ErrUserNotFound, ErrRecipientNotFound, ErrFriendNotFound, ErrCardNotFound}},
	{KindConflict, []error{ErrInsufficientBalance, ErrAlreadySent, ErrAlreadyReceived, ErrAlreadyFriends, ErrNotFriends, ErrNoPendingRequest, ErrEmailTaken, ErrUsernameTaken, ErrConcurrentUpdate}},
	{KindConsistency, []error{ErrConsistency}},
}

// KindOf returns the kind of the first known sentinel wrapped by err
func KindOf(err error) Kind {
	if err == nil {
		return KindInternal
	}
	for _, k := range kinds {
		for _, target := range k.errs {
			if errors.Is(err, target) {
				return k.kind
			}
		}
	}
	return KindInternal
}
