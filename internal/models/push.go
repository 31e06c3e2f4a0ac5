package models

import "github.com/SherClockHolmes/webpush-go"

// PushSubscriptionDescriptor is the browser subscription paired with the
// session's user id, in the shape the remote /suscription endpoint expects.
type PushSubscriptionDescriptor struct {
	Endpoint string       `json:"endpoint"`
	Keys     webpush.Keys `json:"keys"`
	UserID   string       `json:"userId"`
}

// NewPushSubscriptionDescriptor pairs a platform subscription with a user.
func NewPushSubscriptionDescriptor(sub *webpush.Subscription, userID string) PushSubscriptionDescriptor {
	return PushSubscriptionDescriptor{
		Endpoint: sub.Endpoint,
		Keys:     sub.Keys,
		UserID:   userID,
	}
}
