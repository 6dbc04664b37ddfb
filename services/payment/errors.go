package payment

import "fmt"

// GatewayUnreachableError covers network failures and timeouts talking to the
// payment gateway. The booking creation path treats it as "nothing happened":
// no booking is persisted and the client may safely retry.
type GatewayUnreachableError struct {
	Op  string
	Err error
}

func (e *GatewayUnreachableError) Error() string {
	return fmt.Sprintf("payment gateway unreachable during %s: %v", e.Op, e.Err)
}

func (e *GatewayUnreachableError) Unwrap() error { return e.Err }

// PaymentInitiationError is a gateway-reported business failure while
// initiating a payment.
type PaymentInitiationError struct {
	Reason string
}

func (e *PaymentInitiationError) Error() string {
	return fmt.Sprintf("payment initiation failed: %s", e.Reason)
}

// PaymentVerificationError is a gateway-reported failure while verifying a
// transaction. The booking stays pending and can be re-polled.
type PaymentVerificationError struct {
	Reference string
	Reason    string
}

func (e *PaymentVerificationError) Error() string {
	return fmt.Sprintf("payment verification failed for %s: %s", e.Reference, e.Reason)
}
