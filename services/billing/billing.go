package billing

import (
	"encoding/json"
	"fmt"

	"flock/config"
	userRepo "flock/database/repository/user"
	"flock/services/notification"
	"flock/utils"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/checkout/session"
	"github.com/stripe/stripe-go/v76/webhook"
	"go.uber.org/zap"
)

// BillingService exposes subscription checkout and webhook bookkeeping.
type BillingService interface {
	// CreateCheckoutSession starts a subscription checkout for the given
	// price and customer email and returns the Stripe session ID.
	CreateCheckoutSession(priceID, email string) (string, error)
	// HandleWebhook verifies the payload signature and applies any
	// bookkeeping the event requires.
	HandleWebhook(payload []byte, signature string) error
}

// StripeBillingService is the production implementation.
type StripeBillingService struct {
	Repo          userRepo.UserRepository
	Notifier      notification.Notifier
	WebhookSecret string
}

func (s *StripeBillingService) CreateCheckoutSession(priceID, email string) (string, error) {
	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		CustomerEmail:      stripe.String(email),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(priceID),
				Quantity: stripe.Int64(1),
			},
		},
		Mode:       stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		SuccessURL: stripe.String(config.AppConfig.FrontendURL + "/success"),
		CancelURL:  stripe.String(config.AppConfig.FrontendURL + "/cancel"),
	}

	sess, err := session.New(params)
	if err != nil {
		return "", fmt.Errorf("failed to create checkout session: %w", err)
	}
	return sess.ID, nil
}

// HandleWebhook verifies the Stripe signature over the raw body and records
// completed subscription checkouts on the user document. The confirmation
// email is best-effort and only logged on failure.
func (s *StripeBillingService) HandleWebhook(payload []byte, signature string) error {
	logger := utils.GetLogger()

	event, err := webhook.ConstructEvent(payload, signature, s.WebhookSecret)
	if err != nil {
		return fmt.Errorf("webhook signature verification failed: %w", err)
	}

	if event.Type != "checkout.session.completed" {
		return nil
	}

	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		return fmt.Errorf("failed to parse checkout session: %w", err)
	}

	email := sess.CustomerEmail
	subscriptionID := ""
	if sess.Subscription != nil {
		subscriptionID = sess.Subscription.ID
	}

	if err := s.Repo.SetSubscription(email, subscriptionID); err != nil {
		logger.Error("Error updating user subscription", zap.Error(err))
	} else {
		logger.Sugar().Infof("User subscription updated: %s", email)
	}

	if err := s.Notifier.SendSubscriptionConfirmation(email, subscriptionID, sess.AmountTotal); err != nil {
		logger.Error("Error sending subscription email", zap.Error(err))
	}
	return nil
}
