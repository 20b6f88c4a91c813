package payments

import (
	"context"
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"
	"go.uber.org/zap"
)

// DefaultAmount is charged when a client asks for an intent without a
// positive amount; it is Stripe's USD minimum in cents.
const DefaultAmount int64 = 50

var ErrPaymentNotVerified = errors.New("payment has not been completed")

type Provider interface {
	// CreatePaymentIntent returns the client secret the browser confirms
	// the payment with.
	CreatePaymentIntent(ctx context.Context, amount int64) (string, error)
	// VerifyPayment checks that paymentID is a settled payment of amount.
	VerifyPayment(ctx context.Context, paymentID string, amount int64) error
}

type paymentIntents interface {
	New(params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)
	Get(id string, params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)
}

type stripeProvider struct {
	log     *zap.Logger
	intents paymentIntents
}

func NewStripeProvider(secretKey string, log *zap.Logger) (Provider, error) {
	if secretKey == "" {
		return nil, fmt.Errorf("missing env var STRIPE_SECRET_KEY")
	}
	sc := &client.API{}
	sc.Init(secretKey, nil)
	return newStripeProvider(sc.PaymentIntents, log), nil
}

func newStripeProvider(intents paymentIntents, log *zap.Logger) *stripeProvider {
	return &stripeProvider{log: log.With(zap.String("service", "StripeProvider")), intents: intents}
}

func (p *stripeProvider) CreatePaymentIntent(ctx context.Context, amount int64) (string, error) {
	if amount <= 0 {
		amount = DefaultAmount
	}
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amount),
		Currency: stripe.String(string(stripe.CurrencyUSD)),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled:        stripe.Bool(true),
			AllowRedirects: stripe.String(string(stripe.PaymentIntentAutomaticPaymentMethodsAllowRedirectsNever)),
		},
	}
	params.Context = ctx

	intent, err := p.intents.New(params)
	if err != nil {
		return "", fmt.Errorf("create payment intent: %w", err)
	}
	p.log.Debug("payment intent created", zap.String("payment_intent", intent.ID), zap.Int64("amount", amount))
	return intent.ClientSecret, nil
}

func (p *stripeProvider) VerifyPayment(ctx context.Context, paymentID string, amount int64) error {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx

	intent, err := p.intents.Get(paymentID, params)
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) && stripeErr.Code == stripe.ErrorCodeResourceMissing {
			return fmt.Errorf("%w: unknown payment %s", ErrPaymentNotVerified, paymentID)
		}
		return fmt.Errorf("retrieve payment intent %s: %w", paymentID, err)
	}
	if intent.Status != stripe.PaymentIntentStatusSucceeded {
		return fmt.Errorf("%w: payment %s is %s", ErrPaymentNotVerified, paymentID, intent.Status)
	}
	if intent.Amount != amount {
		return fmt.Errorf("%w: paid %d, expected %d", ErrPaymentNotVerified, intent.Amount, amount)
	}
	return nil
}
