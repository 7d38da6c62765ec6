package trades

import "errors"

var (
	ErrTradeNotFound       = errors.New("Trade not found")
	ErrTradeWithSelf       = errors.New("Cannot trade with yourself")
	ErrItemNotFound        = errors.New("Item not found")
	ErrItemNotOwned        = errors.New("Offered item does not belong to you")
	ErrItemUnavailable     = errors.New("Item unavailable")
	ErrNotParty            = errors.New("User is not a party to this trade")
	ErrNotTarget           = errors.New("Only the trade target can accept or decline")
	ErrNotInitiator        = errors.New("Only the trade initiator can cancel a pending request")
	ErrInvalidAction       = errors.New("Invalid trade action")
	ErrNotPending          = errors.New("Trade is no longer pending")
	ErrNotAccepted         = errors.New("Trade is not accepted")
	ErrTradeTerminal       = errors.New("Trade is already finalized")
	ErrArrangementMissing  = errors.New("No arrangement has been negotiated for this trade")
	ErrInvalidMethod       = errors.New("Arrangement method must be meetup or delivery")
	ErrCancelReasonMissing = errors.New("Cancellation reason is required")
)
