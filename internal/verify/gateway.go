package verify

import (
	"context"
	"fmt"
)

// SendResult describes an accepted code-send request.
type SendResult struct {
	AttemptID string
	Status    string
}

// CheckResult describes the outcome of a code check. A consumed or wrong
// code yields Approved=false rather than an error.
type CheckResult struct {
	Approved bool
	Status   string
}

// Gateway dispatches and checks one-time codes through an external
// verification provider. Implementations must be safe for concurrent use;
// a single instance is shared across requests for the process lifetime.
// No retries happen at this layer.
type Gateway interface {
	SendCode(ctx context.Context, phone string) (SendResult, error)
	CheckCode(ctx context.Context, phone, code string) (CheckResult, error)
}

// GatewayError is a provider-side send/check failure, including rate
// limiting. Callers surface it generically; the detail is for server logs.
type GatewayError struct {
	Op         string
	StatusCode int
	Code       int
	Message    string
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("verification %s failed: status %d, code %d: %s", e.Op, e.StatusCode, e.Code, e.Message)
}
