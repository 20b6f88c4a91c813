package payments

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v82"
	"go.uber.org/zap"
)

type fakeIntents struct {
	created *stripe.PaymentIntentParams
	intents map[string]*stripe.PaymentIntent
	err     error
}

func (f *fakeIntents) New(params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.created = params
	return &stripe.PaymentIntent{ID: "pi_new", ClientSecret: "pi_new_secret", Amount: *params.Amount}, nil
}

func (f *fakeIntents) Get(id string, params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error) {
	if f.err != nil {
		return nil, f.err
	}
	intent, ok := f.intents[id]
	if !ok {
		return nil, &stripe.Error{Code: stripe.ErrorCodeResourceMissing, HTTPStatusCode: 404}
	}
	return intent, nil
}

func TestCreatePaymentIntent(t *testing.T) {
	t.Run("UsesRequestedAmount", func(t *testing.T) {
		intents := &fakeIntents{}
		provider := newStripeProvider(intents, zap.NewNop())

		secret, err := provider.CreatePaymentIntent(context.Background(), 4999)

		require.NoError(t, err)
		assert.Equal(t, "pi_new_secret", secret)
		assert.Equal(t, int64(4999), *intents.created.Amount)
		assert.Equal(t, "usd", *intents.created.Currency)
		assert.True(t, *intents.created.AutomaticPaymentMethods.Enabled)
		assert.Equal(t, "never", *intents.created.AutomaticPaymentMethods.AllowRedirects)
	})

	t.Run("DefaultsNonPositiveAmount", func(t *testing.T) {
		for _, amount := range []int64{0, -10} {
			intents := &fakeIntents{}
			provider := newStripeProvider(intents, zap.NewNop())

			_, err := provider.CreatePaymentIntent(context.Background(), amount)

			require.NoError(t, err)
			assert.Equal(t, DefaultAmount, *intents.created.Amount)
		}
	})

	t.Run("StripeFailure", func(t *testing.T) {
		provider := newStripeProvider(&fakeIntents{err: errors.New("network down")}, zap.NewNop())

		_, err := provider.CreatePaymentIntent(context.Background(), 100)

		assert.Error(t, err)
	})
}

func TestVerifyPayment(t *testing.T) {
	intents := &fakeIntents{intents: map[string]*stripe.PaymentIntent{
		"pi_paid":    {ID: "pi_paid", Amount: 4999, Status: stripe.PaymentIntentStatusSucceeded},
		"pi_pending": {ID: "pi_pending", Amount: 4999, Status: stripe.PaymentIntentStatusRequiresPaymentMethod},
	}}
	provider := newStripeProvider(intents, zap.NewNop())
	ctx := context.Background()

	assert.NoError(t, provider.VerifyPayment(ctx, "pi_paid", 4999))
	assert.ErrorIs(t, provider.VerifyPayment(ctx, "pi_paid", 5999), ErrPaymentNotVerified)
	assert.ErrorIs(t, provider.VerifyPayment(ctx, "pi_pending", 4999), ErrPaymentNotVerified)
	assert.ErrorIs(t, provider.VerifyPayment(ctx, "pi_missing", 4999), ErrPaymentNotVerified)

	failing := newStripeProvider(&fakeIntents{err: errors.New("network down")}, zap.NewNop())
	err := failing.VerifyPayment(ctx, "pi_paid", 4999)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrPaymentNotVerified)
}

func TestNewStripeProviderRequiresKey(t *testing.T) {
	_, err := NewStripeProvider("", zap.NewNop())
	assert.Error(t, err)

	provider, err := NewStripeProvider("sk_test_123", zap.NewNop())
	require.NoError(t, err)
	assert.NotNil(t, provider)
}
