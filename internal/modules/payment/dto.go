package payment

type InitiateRequest struct {
	BookingID int64 `json:"booking_id" binding:"required"`
}

// CheckoutParams is what the client needs to open the gateway checkout.
type CheckoutParams struct {
	KeyID       string  `json:"key_id,omitempty"`
	OrderID     string  `json:"order_id,omitempty"`
	AmountMinor int64   `json:"amount"`
	Amount      float64 `json:"amount_due"`
	Currency    string  `json:"currency"`
	Reference   string  `json:"reference"`
	// Settled reports a zero-amount booking that needed no gateway order.
	Settled bool `json:"settled,omitempty"`
}

type VerifyRequest struct {
	OrderID   string `json:"order_id" binding:"required"`
	PaymentID string `json:"payment_id" binding:"required"`
	Signature string `json:"signature" binding:"required"`
}

type webhookEvent struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity struct {
				ID      string `json:"id"`
				OrderID string `json:"order_id"`
				Status  string `json:"status"`
			} `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}
