package models

// InitiatePaymentRequest is the gateway-initiation contract: enough customer
// and metadata context for the gateway to render a checkout page and echo the
// booking back through its webhook.
type InitiatePaymentRequest struct {
	Amount           float64           `json:"amount"`
	Currency         string            `json:"currency"`
	PaymentReference string            `json:"reference"`
	CustomerName     string            `json:"customerName"`
	CustomerEmail    string            `json:"customerEmail"`
	CustomerPhone    string            `json:"customerPhone"`
	RedirectURL      string            `json:"redirectUrl"`
	Metadata         map[string]string `json:"metadata,omitempty"`
}

// InitiatePaymentResult carries the gateway's checkout handle.
type InitiatePaymentResult struct {
	CheckoutURL          string `json:"checkoutUrl"`
	PaymentReference     string `json:"paymentReference"`
	TransactionReference string `json:"transactionReference"`
}

// VerifyPaymentResult is the gateway's answer to a verification poll. Status
// is the gateway's raw status string; normalization happens in reconciliation.
type VerifyPaymentResult struct {
	Status               string         `json:"status"`
	Amount               float64        `json:"amount"`
	PaymentReference     string         `json:"paymentReference"`
	TransactionReference string         `json:"transactionReference"`
	Raw                  map[string]any `json:"raw,omitempty"`
}

// WebhookEvent is the gateway-defined callback payload. The status field is
// matched case-insensitively; metadata locates the booking when the top-level
// reference is absent.
type WebhookEvent struct {
	Event  string `json:"event"`
	Status string `json:"status"`
	Data   struct {
		Reference            string            `json:"reference"`
		TransactionReference string            `json:"transactionReference"`
		Status               string            `json:"status"`
		Amount               float64           `json:"amount"`
		Metadata             map[string]string `json:"metadata,omitempty"`
	} `json:"data"`
}

// PaymentReference extracts the local payment reference from whichever field
// the gateway populated.
func (e *WebhookEvent) PaymentReference() string {
	if e.Data.Reference != "" {
		return e.Data.Reference
	}
	return e.Data.Metadata["paymentReference"]
}

// NormalizedStatus returns the status field with event-level fallback.
func (e *WebhookEvent) NormalizedStatus() string {
	if e.Data.Status != "" {
		return e.Data.Status
	}
	return e.Status
}
