package payment

import (
	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/checkout/session"
	"github.com/stripe/stripe-go/v74/price"
	"github.com/stripe/stripe-go/v74/product"
)

type StripeService struct {
	secretKey  string
	backendURL string
}

func NewStripeService(secretKey, backendURL string) *StripeService {
	stripe.Key = secretKey
	return &StripeService{
		secretKey:  secretKey,
		backendURL: backendURL,
	}
}

// CreateCheckoutSession creates a one-off product/price pair and a hosted
// checkout session for it. Metadata travels back on the webhook event.
func (s *StripeService) CreateCheckoutSession(name, description string, amount float64, metadata map[string]string) (*stripe.CheckoutSession, error) {
	productParams := &stripe.ProductParams{
		Name:        stripe.String(name),
		Description: stripe.String(description),
	}
	prod, err := product.New(productParams)
	if err != nil {
		return nil, err
	}

	priceParams := &stripe.PriceParams{
		Product:    stripe.String(prod.ID),
		UnitAmount: stripe.Int64(int64(amount * 100)), // USD to cents
		Currency:   stripe.String(string(stripe.CurrencyUSD)),
	}
	p, err := price.New(priceParams)
	if err != nil {
		return nil, err
	}

	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(p.ID),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(s.backendURL + "/payment/success?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:  stripe.String(s.backendURL + "/payment/cancel"),
	}
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}

	return session.New(params)
}
