package payment

import (
	"context"

	"vendora/models"
)

// GatewayClient is the boundary to the external payment provider. Initiation
// carries a bounded timeout; callers must be able to tell a gateway-declared
// failure from not having reached the gateway at all.
type GatewayClient interface {
	Initiate(ctx context.Context, req models.InitiatePaymentRequest) (*models.InitiatePaymentResult, error)
	Verify(ctx context.Context, transactionRef string) (*models.VerifyPaymentResult, error)
}
