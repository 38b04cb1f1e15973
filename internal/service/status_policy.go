package service

import "github.com/acqua-delivery/backend/internal/model"

// TransitionPolicy decides whether an order may move between two statuses.
// Keeping this behind an interface centralizes the choice: the shipped
// product intentionally accepts any move among the four states, but a
// forward-only table can be swapped in without touching the order service.
type TransitionPolicy interface {
	Allowed(from, to model.OrderStatus) bool
}

// OpenTransitionPolicy accepts any transition between known statuses,
// including moves like delivered back to pending.
type OpenTransitionPolicy struct{}

// Allowed reports whether the target status is one of the four known values.
func (OpenTransitionPolicy) Allowed(_, to model.OrderStatus) bool {
	return to.Known()
}

// ForwardTransitionPolicy enforces one-way progression: pending can move to
// in_transit or cancelled, in_transit to delivered or cancelled, and
// delivered/cancelled are terminal. Not wired by default.
type ForwardTransitionPolicy struct{}

// Allowed reports whether the move follows the forward-only table.
func (ForwardTransitionPolicy) Allowed(from, to model.OrderStatus) bool {
	switch from {
	case model.StatusPending:
		return to == model.StatusInTransit || to == model.StatusCancelled
	case model.StatusInTransit:
		return to == model.StatusDelivered || to == model.StatusCancelled
	}
	return false
}
