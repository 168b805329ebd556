package service

import (
	"github.com/decalforge/decalforge/internal/constants"
	"github.com/decalforge/decalforge/internal/models"
)

// allowedTransitions is the order state machine. A missing entry means
// the status is terminal.
var allowedTransitions = map[string]map[string]bool{
	constants.OrderStatusPending: {
		constants.OrderStatusCompleted: true,
		constants.OrderStatusCancelled: true,
		constants.OrderStatusFailed:    true,
	},
	constants.OrderStatusOnHold: {
		constants.OrderStatusCompleted: true,
		constants.OrderStatusCancelled: true,
	},
	constants.OrderStatusCompleted: {
		constants.OrderStatusPartiallyRefunded: true,
		constants.OrderStatusRefunded:          true,
		constants.OrderStatusCancelled:         true,
	},
	constants.OrderStatusPartiallyRefunded: {
		constants.OrderStatusRefunded:  true,
		constants.OrderStatusCancelled: true,
	},
	constants.OrderStatusRefunded: {
		constants.OrderStatusCancelled: true,
	},
}

// isTransitionAllowed reports whether an order may move between two
// statuses. Re-entering the current status is always allowed so a
// second partial refund stays valid.
func isTransitionAllowed(current, target string) bool {
	if current == target {
		return true
	}
	nexts, ok := allowedTransitions[current]
	if !ok {
		return false
	}
	return nexts[target]
}

// isRefundableStatus reports whether a paid order can take a refund.
func isRefundableStatus(status string) bool {
	return status == constants.OrderStatusCompleted ||
		status == constants.OrderStatusPartiallyRefunded
}

// isCancellable reports whether the admin may void the order. Paid
// gateway orders stay cancellable because Cancel returns the money
// first; a fully refunded order is terminal.
func isCancellable(order *models.CheckoutOrder) bool {
	switch order.Status {
	case constants.OrderStatusPending,
		constants.OrderStatusOnHold,
		constants.OrderStatusCompleted:
		return true
	case constants.OrderStatusPartiallyRefunded:
		return cancelNeedsRefund(order)
	default:
		return false
	}
}

// cancelNeedsRefund reports whether cancelling the order must first
// return the captured payment at the gateway. COD collects on
// delivery, so there is nothing to return.
func cancelNeedsRefund(order *models.CheckoutOrder) bool {
	if order.PaymentMethod != constants.PaymentMethodStripe &&
		order.PaymentMethod != constants.PaymentMethodPaypal {
		return false
	}
	return order.Status == constants.OrderStatusCompleted ||
		order.Status == constants.OrderStatusPartiallyRefunded
}
