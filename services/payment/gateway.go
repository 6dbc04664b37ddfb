package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"vendora/models"
	"vendora/utils"
)

const defaultTimeout = 10 * time.Second

// RESTGatewayClient talks to the payment provider's checkout API over HTTP.
type RESTGatewayClient struct {
	baseURL   string
	secretKey string
	client    *http.Client
}

// NewRESTGatewayClient builds a gateway client with a bounded timeout. A zero
// timeout falls back to 10s.
func NewRESTGatewayClient(baseURL, secretKey string, timeout time.Duration) *RESTGatewayClient {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &RESTGatewayClient{
		baseURL:   strings.TrimRight(baseURL, "/"),
		secretKey: secretKey,
		client:    &http.Client{Timeout: timeout},
	}
}

type gatewayEnvelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type initiateData struct {
	Link                 string `json:"link"`
	Reference            string `json:"reference"`
	TransactionReference string `json:"transaction_reference"`
}

type verifyData struct {
	Status               string  `json:"status"`
	Amount               float64 `json:"amount"`
	Reference            string  `json:"reference"`
	TransactionReference string  `json:"transaction_reference"`
}

func (g *RESTGatewayClient) do(ctx context.Context, op, method, path string, body any) (*gatewayEnvelope, error) {
	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s request: %w", op, err)
		}
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s request: %w", op, err)
	}
	req.Header.Set("Authorization", "Bearer "+g.secretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		// Network-level failure or timeout; the gateway never answered.
		return nil, &GatewayUnreachableError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	var envelope gatewayEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, &GatewayUnreachableError{Op: op, Err: fmt.Errorf("malformed gateway response: %w", err)}
	}
	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, &GatewayUnreachableError{Op: op, Err: fmt.Errorf("gateway returned %d: %s", resp.StatusCode, envelope.Message)}
	}
	return &envelope, nil
}

// Initiate asks the gateway for a checkout URL for the given payment. The
// local payment reference travels in the request and in metadata, so webhook
// deliveries can locate the booking either way.
func (g *RESTGatewayClient) Initiate(ctx context.Context, req models.InitiatePaymentRequest) (*models.InitiatePaymentResult, error) {
	payload := map[string]any{
		"amount":       req.Amount,
		"currency":     req.Currency,
		"reference":    req.PaymentReference,
		"redirect_url": req.RedirectURL,
		"customer": map[string]string{
			"name":  req.CustomerName,
			"email": req.CustomerEmail,
			"phone": req.CustomerPhone,
		},
		"metadata": req.Metadata,
	}

	envelope, err := g.do(ctx, "initiate", http.MethodPost, "/payments/initiate", payload)
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(envelope.Status, "success") {
		return nil, &PaymentInitiationError{Reason: envelope.Message}
	}

	var data initiateData
	if err := json.Unmarshal(envelope.Data, &data); err != nil {
		return nil, &GatewayUnreachableError{Op: "initiate", Err: fmt.Errorf("malformed initiate data: %w", err)}
	}
	if data.Link == "" || data.TransactionReference == "" {
		return nil, &PaymentInitiationError{Reason: "gateway response missing checkout link or transaction reference"}
	}

	utils.GetLogger().Debug("payment initiated",
		zap.String("paymentReference", req.PaymentReference),
		zap.String("transactionReference", data.TransactionReference))

	return &models.InitiatePaymentResult{
		CheckoutURL:          data.Link,
		PaymentReference:     req.PaymentReference,
		TransactionReference: data.TransactionReference,
	}, nil
}

// Verify polls the gateway for the settlement status of a transaction.
func (g *RESTGatewayClient) Verify(ctx context.Context, transactionRef string) (*models.VerifyPaymentResult, error) {
	envelope, err := g.do(ctx, "verify", http.MethodGet, "/payments/verify/"+transactionRef, nil)
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(envelope.Status, "success") {
		return nil, &PaymentVerificationError{Reference: transactionRef, Reason: envelope.Message}
	}

	var data verifyData
	if err := json.Unmarshal(envelope.Data, &data); err != nil {
		return nil, &GatewayUnreachableError{Op: "verify", Err: fmt.Errorf("malformed verify data: %w", err)}
	}

	var raw map[string]any
	_ = json.Unmarshal(envelope.Data, &raw)

	return &models.VerifyPaymentResult{
		Status:               data.Status,
		Amount:               data.Amount,
		PaymentReference:     data.Reference,
		TransactionReference: data.TransactionReference,
		Raw:                  raw,
	}, nil
}
