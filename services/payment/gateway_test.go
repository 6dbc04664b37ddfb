package payment

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"vendora/models"
)

func testInitiateRequest() models.InitiatePaymentRequest {
	return models.InitiatePaymentRequest{
		Amount:           35000,
		Currency:         "NGN",
		PaymentReference: "VD-PAY-abc",
		CustomerName:     "Ada",
		CustomerEmail:    "ada@example.com",
		CustomerPhone:    "0800000001",
		RedirectURL:      "https://vendora.test/payment/done",
		Metadata:         map[string]string{"bookingID": "BK-TEST000001"},
	}
}

func TestInitiateSuccess(t *testing.T) {
	var gotAuth string
	var gotBody map[string]any
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/payments/initiate" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(map[string]any{
			"status":  "success",
			"message": "payment initiated",
			"data": map[string]any{
				"link":                  "https://gateway.test/checkout/xyz",
				"reference":             "VD-PAY-abc",
				"transaction_reference": "TXN-98765",
			},
		})
	}))
	defer ts.Close()

	g := NewRESTGatewayClient(ts.URL, "sk_test_123", 2*time.Second)
	res, err := g.Initiate(context.Background(), testInitiateRequest())
	if err != nil {
		t.Fatalf("Initiate: %v", err)
	}
	if res.CheckoutURL != "https://gateway.test/checkout/xyz" {
		t.Errorf("checkout URL = %q", res.CheckoutURL)
	}
	if res.TransactionReference != "TXN-98765" {
		t.Errorf("transaction reference = %q", res.TransactionReference)
	}
	if gotAuth != "Bearer sk_test_123" {
		t.Errorf("authorization header = %q", gotAuth)
	}
	if gotBody["reference"] != "VD-PAY-abc" {
		t.Errorf("request reference = %v", gotBody["reference"])
	}
}

func TestInitiateBusinessDecline(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"status":  "error",
			"message": "currency not supported",
		})
	}))
	defer ts.Close()

	g := NewRESTGatewayClient(ts.URL, "sk_test_123", 2*time.Second)
	_, err := g.Initiate(context.Background(), testInitiateRequest())

	var initErr *PaymentInitiationError
	if !errors.As(err, &initErr) {
		t.Fatalf("expected PaymentInitiationError, got %v", err)
	}
	var unreachable *GatewayUnreachableError
	if errors.As(err, &unreachable) {
		t.Error("a gateway decline must not look like an unreachable gateway")
	}
}

func TestInitiateTimeoutIsUnreachable(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer ts.Close()

	g := NewRESTGatewayClient(ts.URL, "sk_test_123", 50*time.Millisecond)
	_, err := g.Initiate(context.Background(), testInitiateRequest())

	var unreachable *GatewayUnreachableError
	if !errors.As(err, &unreachable) {
		t.Fatalf("expected GatewayUnreachableError, got %v", err)
	}
}

func TestInitiateServerErrorIsUnreachable(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		json.NewEncoder(w).Encode(map[string]any{"status": "error", "message": "upstream down"})
	}))
	defer ts.Close()

	g := NewRESTGatewayClient(ts.URL, "sk_test_123", 2*time.Second)
	_, err := g.Initiate(context.Background(), testInitiateRequest())

	var unreachable *GatewayUnreachableError
	if !errors.As(err, &unreachable) {
		t.Fatalf("expected GatewayUnreachableError for 502, got %v", err)
	}
}

func TestInitiateMissingCheckoutLink(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"status": "success",
			"data":   map[string]any{"reference": "VD-PAY-abc"},
		})
	}))
	defer ts.Close()

	g := NewRESTGatewayClient(ts.URL, "sk_test_123", 2*time.Second)
	_, err := g.Initiate(context.Background(), testInitiateRequest())

	var initErr *PaymentInitiationError
	if !errors.As(err, &initErr) {
		t.Fatalf("expected PaymentInitiationError, got %v", err)
	}
}

func TestVerifySuccess(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/payments/verify/TXN-98765" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"status": "success",
			"data": map[string]any{
				"status":                "successful",
				"amount":                35000,
				"reference":             "VD-PAY-abc",
				"transaction_reference": "TXN-98765",
			},
		})
	}))
	defer ts.Close()

	g := NewRESTGatewayClient(ts.URL, "sk_test_123", 2*time.Second)
	res, err := g.Verify(context.Background(), "TXN-98765")
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if res.Status != "successful" {
		t.Errorf("status = %q, want successful", res.Status)
	}
	if res.PaymentReference != "VD-PAY-abc" {
		t.Errorf("payment reference = %q", res.PaymentReference)
	}
	if res.Amount != 35000 {
		t.Errorf("amount = %.2f, want 35000", res.Amount)
	}
}

func TestVerifyNotFound(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]any{"status": "error", "message": "transaction not found"})
	}))
	defer ts.Close()

	g := NewRESTGatewayClient(ts.URL, "sk_test_123", 2*time.Second)
	_, err := g.Verify(context.Background(), "TXN-NOPE")

	var verifyErr *PaymentVerificationError
	if !errors.As(err, &verifyErr) {
		t.Fatalf("expected PaymentVerificationError, got %v", err)
	}
}
