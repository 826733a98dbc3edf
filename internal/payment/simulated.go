package payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Simulated is the default provider: it approves every non-negative
// capture without contacting a processor.
type Simulated struct{}

// NewSimulated returns a Simulated provider.
func NewSimulated() *Simulated {
	return &Simulated{}
}

// Capture approves the charge and fabricates a reference.
func (s *Simulated) Capture(_ context.Context, in CaptureInput) (CaptureResult, error) {
	if in.AmountCents < 0 {
		return CaptureResult{}, errors.New("negative capture amount")
	}
	return CaptureResult{Reference: fmt.Sprintf("sim_%s", uuid.NewString())}, nil
}
