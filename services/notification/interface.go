package notification

// Notifier defines the out-of-band channels the auth and billing flows
// dispatch through. Delivery is best-effort; failures are reported to the
// caller, never retried here.
type Notifier interface {
	// SendOTP delivers a one-time passcode to the destination address.
	SendOTP(to, code string) error
	// SendSubscriptionConfirmation notifies a user their subscription was created.
	SendSubscriptionConfirmation(to, subscriptionID string, amountTotal int64) error
}
