package service

import (
	"errors"
)

// Expected, user-facing rule violations. Handlers branch on these with
// errors.Is and format a reply; none are retried. Anything else that
// surfaces from a service call is a storage or programming fault and
// aborts only the single command invocation.
var (
	// ErrAlreadyClaimed is returned when a member checks in twice on the
	// same UTC date.
	ErrAlreadyClaimed = errors.New("daily reward already claimed today")

	// ErrInsufficientFunds is returned when a balance cannot cover a
	// purchase, wager or transfer.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrOutOfStock is returned when an item's finite stock cannot cover
	// the requested quantity.
	ErrOutOfStock = errors.New("item out of stock")

	// ErrItemUnavailable is returned for unknown or non-purchasable items.
	ErrItemUnavailable = errors.New("item unavailable")

	// ErrInvalidWager is returned for non-positive wagers or wagers above
	// the member's balance.
	ErrInvalidWager = errors.New("invalid wager")

	// ErrInvalidTarget is returned for self-transfers and non-positive
	// amounts.
	ErrInvalidTarget = errors.New("invalid target")

	// ErrMemberNotFound is returned when an operation requires an existing
	// member record.
	ErrMemberNotFound = errors.New("member not found")
)
