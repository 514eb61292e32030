package gateway

import (
	"context"
	"crypto/rand"
	"math/big"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
)

// DeclineReasonRandom is the failure reason reported for simulated declines.
const DeclineReasonRandom = "VIRTUAL_GATEWAY_RANDOM_FAIL"

var draws = big.NewInt(100)

// Virtual simulates an external payment processor. It declines a
// configurable percentage of authorizations, drawn from a cryptographically
// strong random source, and approves the rest for the requested amount with
// a fresh transaction id. It exists to exercise the rollback path; tests
// inject deterministic fakes instead.
type Virtual struct {
	failPercent int64
}

var _ Gateway = (*Virtual)(nil)

// NewVirtual creates a simulator declining failPercent of calls.
// Values are clamped to [0, 100].
func NewVirtual(failPercent int) *Virtual {
	p := min(max(failPercent, 0), 100)
	return &Virtual{failPercent: int64(p)}
}

// Authorize draws a sample in [0, 100) and declines when it falls below the
// configured failure percentage.
func (g *Virtual) Authorize(_ context.Context, amount int64, _ string) (Result, error) {
	n, err := rand.Int(rand.Reader, draws)
	if err != nil {
		return Result{}, errors.Wrap(err, "draw decline sample")
	}
	if n.Int64() < g.failPercent {
		return Declined(DeclineReasonRandom), nil
	}
	return Approved("VT-"+uuid.New().String(), amount), nil
}
