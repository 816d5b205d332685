package services

import (
	"context"
	"foodcourt/entity"
)

// CheckoutResult is returned on successful payment initiation; the browser
// must be navigated to RedirectUrl, a page hosted by the gateway.
type CheckoutResult struct {
	OrderId     string `json:"order_id"`
	RedirectUrl string `json:"redirect_url"`
}

// Payments drives the checkout flow and the callback reconciliation.
type Payments interface {
	// Checkout validates the session, creates a pending order and initiates
	// a payment with the gateway. Errors are always *entity.PaymentError.
	Checkout(ctx context.Context, session *entity.CheckoutSession) (*CheckoutResult, error)
	// ConfirmOrder re-verifies a payment outcome with the gateway's status
	// API and transitions the order accordingly. The transaction id arrives
	// from an untrusted callback, so nothing else from the callback is used.
	ConfirmOrder(ctx context.Context, merchantTxnId string) (string, error)
}
