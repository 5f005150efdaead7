package checkout

import (
	"context"
	"errors"
	"testing"

	"bbq-storefront/cart"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testLines = []cart.Line{
	{ID: "pulled-pork-plate", Name: "Pulled Pork Plate", Category: "plates", Price: 12.99, Quantity: 1},
	{ID: "coleslaw", Name: "Coleslaw", Category: "sides", Price: 3.49, Quantity: 1},
}

func validDetails() Details {
	return Details{
		Name:      "Jo Pitmaster",
		Email:     "jo@example.com",
		Phone:     "555-0100",
		OrderType: OrderTypePickup,
	}
}

func TestHappyPath(t *testing.T) {
	f := NewFlow()
	assert.Equal(t, StepReview, f.Step())

	require.NoError(t, f.ConfirmReview(testLines))
	assert.Equal(t, StepDetails, f.Step())

	require.NoError(t, f.SubmitDetails(validDetails()))
	assert.Equal(t, StepPayment, f.Step())

	totals := Quote(testLines, OrderTypePickup, 4.99)
	res, err := f.Pay(context.Background(), SimulatedProcessor{}, Card{Number: "4242 4242 4242 4242"}, totals)
	require.NoError(t, err)
	assert.True(t, res.Approved)
	assert.Equal(t, "4242", res.Last4)
	assert.Equal(t, totals.Total, res.Amount)
	assert.Equal(t, StepConfirmation, f.Step())

	f.Complete("BBQ-1")
	state := f.State()
	assert.Equal(t, "BBQ-1", state.OrderNumber)
	assert.NotNil(t, state.Payment)
}

func TestReviewRejectsEmptyCart(t *testing.T) {
	f := NewFlow()
	assert.ErrorIs(t, f.ConfirmReview(nil), ErrEmptyCart)
	assert.Equal(t, StepReview, f.Step())
}

func TestStepsCannotBeSkipped(t *testing.T) {
	f := NewFlow()
	assert.ErrorIs(t, f.SubmitDetails(validDetails()), ErrInvalidTransition)

	_, err := f.Pay(context.Background(), SimulatedProcessor{}, Card{Number: "4242424242424242"}, cart.Totals{Total: 10})
	assert.ErrorIs(t, err, ErrInvalidTransition)

	assert.ErrorIs(t, f.Back(), ErrInvalidTransition)
}

func TestBackTransitions(t *testing.T) {
	f := NewFlow()
	require.NoError(t, f.ConfirmReview(testLines))
	require.NoError(t, f.SubmitDetails(validDetails()))

	require.NoError(t, f.Back())
	assert.Equal(t, StepDetails, f.Step())
	require.NoError(t, f.Back())
	assert.Equal(t, StepReview, f.Step())
}

func TestDetailsValidation(t *testing.T) {
	d := validDetails()
	d.OrderType = OrderTypeDelivery
	err := d.Validate()
	require.Error(t, err)
	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Equal(t, "Address", verrs[0].Field())

	d.Address = "1 Smokehouse Rd"
	assert.NoError(t, d.Validate())

	bad := validDetails()
	bad.Email = "not-an-email"
	bad.OrderType = "drone"
	assert.Error(t, bad.Validate())
}

func TestInvalidDetailsStayOnDetails(t *testing.T) {
	f := NewFlow()
	require.NoError(t, f.ConfirmReview(testLines))
	assert.Error(t, f.SubmitDetails(Details{}))
	assert.Equal(t, StepDetails, f.Step())
	_, ok := f.Details()
	assert.False(t, ok)
}

func TestDeclinedPaymentStaysOnPayment(t *testing.T) {
	f := NewFlow()
	require.NoError(t, f.ConfirmReview(testLines))
	require.NoError(t, f.SubmitDetails(validDetails()))

	res, err := f.Pay(context.Background(), SimulatedProcessor{}, Card{Number: "4000000000000002"}, Quote(testLines, OrderTypePickup, 0))
	assert.ErrorIs(t, err, ErrPaymentDeclined)
	assert.False(t, res.Approved)
	assert.Equal(t, StepPayment, f.Step())
}

func TestSimulatedProcessorRejectsBadInput(t *testing.T) {
	p := SimulatedProcessor{}
	_, err := p.Charge(context.Background(), Card{Number: "1234"}, 10)
	assert.ErrorIs(t, err, ErrInvalidCard)
	_, err = p.Charge(context.Background(), Card{Number: "4242abcd42424242"}, 10)
	assert.ErrorIs(t, err, ErrInvalidCard)
	_, err = p.Charge(context.Background(), Card{Number: "4242424242424242"}, 0)
	assert.ErrorIs(t, err, ErrInvalidCard)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = p.Charge(ctx, Card{Number: "4242424242424242"}, 10)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestQuoteAppliesDeliveryFeeOnlyForDelivery(t *testing.T) {
	pickup := Quote(testLines, OrderTypePickup, 4.99)
	assert.Equal(t, 16.48, pickup.Subtotal)
	assert.Equal(t, 1.36, pickup.Tax)
	assert.Equal(t, 0.0, pickup.DeliveryFee)
	assert.Equal(t, 17.84, pickup.Total)

	delivery := Quote(testLines, OrderTypeDelivery, 4.99)
	assert.Equal(t, 22.83, delivery.Total)
}
