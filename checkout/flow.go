// Package checkout sequences a session's checkout: review the cart, enter
// contact details, pay, and land on the confirmation.
package checkout

import (
	"context"
	"errors"
	"fmt"

	"bbq-storefront/cart"
)

var (
	ErrEmptyCart         = errors.New("cart is empty")
	ErrInvalidTransition = errors.New("invalid checkout step transition")
	ErrDetailsRequired   = errors.New("contact details are required before payment")
	ErrPaymentDeclined   = errors.New("payment declined")
	ErrInvalidCard       = errors.New("invalid card")
)

type Step string

const (
	StepReview       Step = "review"
	StepDetails      Step = "details"
	StepPayment      Step = "payment"
	StepConfirmation Step = "confirmation"
)

// AllowedTransitions is the checkout state machine.
var AllowedTransitions = map[Step][]Step{
	StepReview:       {StepDetails},
	StepDetails:      {StepPayment, StepReview},
	StepPayment:      {StepConfirmation, StepDetails},
	StepConfirmation: {},
}

func IsValidTransition(from, to Step) bool {
	for _, s := range AllowedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Flow is one session's progress through checkout.
type Flow struct {
	step        Step
	details     *Details
	payment     *PaymentResult
	orderNumber string
}

func NewFlow() *Flow {
	return &Flow{step: StepReview}
}

func (f *Flow) Step() Step {
	return f.step
}

func (f *Flow) Details() (Details, bool) {
	if f.details == nil {
		return Details{}, false
	}
	return *f.details, true
}

func (f *Flow) advance(to Step) error {
	if !IsValidTransition(f.step, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, f.step, to)
	}
	f.step = to
	return nil
}

// ConfirmReview accepts the cart as shown and moves on to details.
func (f *Flow) ConfirmReview(lines []cart.Line) error {
	if len(lines) == 0 {
		return ErrEmptyCart
	}
	return f.advance(StepDetails)
}

// SubmitDetails validates and stores contact details, then moves to payment.
func (f *Flow) SubmitDetails(d Details) error {
	if f.step != StepDetails {
		return fmt.Errorf("%w: cannot submit details during %s", ErrInvalidTransition, f.step)
	}
	if err := d.Validate(); err != nil {
		return err
	}
	f.details = &d
	return f.advance(StepPayment)
}

// Pay charges the card for the quoted total. A declined payment keeps the
// flow on the payment step so the shopper can retry.
func (f *Flow) Pay(ctx context.Context, p PaymentProcessor, card Card, totals cart.Totals) (PaymentResult, error) {
	if f.step != StepPayment {
		return PaymentResult{}, fmt.Errorf("%w: cannot pay during %s", ErrInvalidTransition, f.step)
	}
	if f.details == nil {
		return PaymentResult{}, ErrDetailsRequired
	}
	res, err := p.Charge(ctx, card, totals.Total)
	if err != nil {
		return PaymentResult{}, fmt.Errorf("charge card: %w", err)
	}
	if !res.Approved {
		return res, ErrPaymentDeclined
	}
	f.payment = &res
	if err := f.advance(StepConfirmation); err != nil {
		return res, err
	}
	return res, nil
}

// Back returns to the previous step.
func (f *Flow) Back() error {
	switch f.step {
	case StepDetails:
		return f.advance(StepReview)
	case StepPayment:
		return f.advance(StepDetails)
	}
	return fmt.Errorf("%w: cannot go back from %s", ErrInvalidTransition, f.step)
}

// Complete records the order number once the order has been stored.
func (f *Flow) Complete(orderNumber string) {
	f.orderNumber = orderNumber
}

// State is the JSON view of a flow.
type State struct {
	Step        Step           `json:"step"`
	Details     *Details       `json:"details,omitempty"`
	Payment     *PaymentResult `json:"payment,omitempty"`
	OrderNumber string         `json:"order_number,omitempty"`
}

func (f *Flow) State() State {
	return State{Step: f.step, Details: f.details, Payment: f.payment, OrderNumber: f.orderNumber}
}

// Quote prices the cart for the given order type. Only delivery orders pay
// the delivery fee.
func Quote(lines []cart.Line, orderType OrderType, deliveryFee float64) cart.Totals {
	fee := 0.0
	if orderType == OrderTypeDelivery {
		fee = deliveryFee
	}
	return cart.ComputeTotals(cart.Subtotal(lines), fee)
}
