package payment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stripe/stripe-go/v83"
)

func TestMapIntentStatus(t *testing.T) {
	cases := map[stripe.PaymentIntentStatus]string{
		stripe.PaymentIntentStatusSucceeded:             StatusApproved,
		stripe.PaymentIntentStatusProcessing:            StatusInProcess,
		stripe.PaymentIntentStatusRequiresAction:        StatusPending,
		stripe.PaymentIntentStatusRequiresPaymentMethod: StatusRejected,
		stripe.PaymentIntentStatusCanceled:              StatusCancelled,
		stripe.PaymentIntentStatusRequiresCapture:       StatusPending,
	}
	for in, want := range cases {
		got, _ := mapIntentStatus(in)
		assert.Equal(t, want, got, string(in))
	}
}

func TestIntentAmountIsInSoles(t *testing.T) {
	got := intentAmount(&stripe.PaymentIntent{Amount: 18550})
	assert.Equal(t, "185.5", got.String())
}
