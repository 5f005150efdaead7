package checkout

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

type Card struct {
	Number string `json:"number"`
	Expiry string `json:"expiry"`
	CVC    string `json:"cvc"`
	Holder string `json:"holder"`
}

type PaymentResult struct {
	Approved      bool    `json:"approved"`
	TransactionID string  `json:"transaction_id,omitempty"`
	Last4         string  `json:"last4"`
	Amount        float64 `json:"amount"`
	Message       string  `json:"message,omitempty"`
}

type PaymentProcessor interface {
	Charge(ctx context.Context, card Card, amount float64) (PaymentResult, error)
}

// declineSuffix marks the test card number that is always declined.
const declineSuffix = "0002"

// SimulatedProcessor stands in for a payment gateway. It never leaves the
// process.
type SimulatedProcessor struct{}

func (SimulatedProcessor) Charge(ctx context.Context, card Card, amount float64) (PaymentResult, error) {
	if err := ctx.Err(); err != nil {
		return PaymentResult{}, err
	}
	number := strings.ReplaceAll(strings.ReplaceAll(card.Number, " ", ""), "-", "")
	if len(number) < 12 || len(number) > 19 || strings.Trim(number, "0123456789") != "" {
		return PaymentResult{}, fmt.Errorf("%w: card number must be 12-19 digits", ErrInvalidCard)
	}
	if amount <= 0 {
		return PaymentResult{}, fmt.Errorf("%w: nothing to charge", ErrInvalidCard)
	}

	res := PaymentResult{Last4: number[len(number)-4:], Amount: amount}
	if strings.HasSuffix(number, declineSuffix) {
		res.Message = "card declined"
		return res, nil
	}
	res.Approved = true
	res.TransactionID = "sim_" + uuid.NewString()
	return res, nil
}
