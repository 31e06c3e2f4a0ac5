// Package notify runs the one-shot push notification subscription flow.
package notify

import (
	"context"
	"errors"

	"github.com/SherClockHolmes/webpush-go"

	"tortas-web/internal/logger"
	"tortas-web/internal/metrics"
	"tortas-web/internal/models"
)

type State string

const (
	StateUnchecked            State = "unchecked"
	StateUnsupported          State = "unsupported"
	StateChecking             State = "checking"
	StateAlreadySubscribed    State = "already_subscribed"
	StateRequestingPermission State = "requesting_permission"
	StateDenied               State = "denied"
	StateSubscribing          State = "subscribing"
	StateFailed               State = "failed"
	StateReporting            State = "reporting"
	StateDone                 State = "done"
	// StateSkipped means the once-flag was already set.
	StateSkipped State = "skipped"
)

// Terminal reports whether the flow stops in s.
func (s State) Terminal() bool {
	switch s {
	case StateUnsupported, StateAlreadySubscribed, StateDenied, StateFailed, StateDone, StateSkipped:
		return true
	}
	return false
}

type Permission string

const (
	PermissionGranted Permission = "granted"
	PermissionDenied  Permission = "denied"
	PermissionDefault Permission = "default"
)

// ErrPermissionDenied is logged when the user refuses notifications.
var ErrPermissionDenied = errors.New("notification permission denied")

// Platform is the push facility of the user's browser.
type Platform interface {
	Supported() bool
	ExistingSubscription(ctx context.Context) (*webpush.Subscription, error)
	RequestPermission(ctx context.Context) (Permission, error)
	Subscribe(ctx context.Context, applicationServerKey string) (*webpush.Subscription, error)
}

// OnceFlag persists whether the flow already ran for this browser profile.
type OnceFlag interface {
	Done() bool
	MarkDone()
}

// Reporter forwards the descriptor to the remote service.
type Reporter interface {
	SubmitPushSubscription(ctx context.Context, desc models.PushSubscriptionDescriptor) (string, error)
}

type Subscriber struct {
	reporter             Reporter
	applicationServerKey string
	log                  logger.ILogger
	metrics              *metrics.Metrics
}

func NewSubscriber(reporter Reporter, applicationServerKey string, log logger.ILogger, m *metrics.Metrics) *Subscriber {
	return &Subscriber{
		reporter:             reporter,
		applicationServerKey: applicationServerKey,
		log:                  log,
		metrics:              m,
	}
}

func (s *Subscriber) ApplicationServerKey() string {
	return s.applicationServerKey
}

// Run walks the flow once per flag. The flag is set before anything else,
// so Denied and Failed outcomes are not retried.
func (s *Subscriber) Run(ctx context.Context, p Platform, flag OnceFlag, userID string) State {
	if flag.Done() {
		return StateSkipped
	}
	flag.MarkDone()

	state := StateUnchecked
	var sub *webpush.Subscription
	for !state.Terminal() {
		state, sub = s.step(ctx, state, p, sub, userID)
	}
	s.metrics.ObservePush(string(state))
	return state
}

func (s *Subscriber) step(ctx context.Context, state State, p Platform, sub *webpush.Subscription, userID string) (State, *webpush.Subscription) {
	details := map[string]interface{}{"user_id": userID}

	switch state {
	case StateUnchecked:
		if !p.Supported() {
			s.log.Info("push", "push notifications not supported", details)
			return StateUnsupported, nil
		}
		return StateChecking, nil

	case StateChecking:
		existing, err := p.ExistingSubscription(ctx)
		if err != nil {
			details["error"] = err.Error()
			s.log.Error("push", "failed to read existing subscription", details)
			return StateFailed, nil
		}
		if existing != nil {
			s.log.Info("push", "already subscribed", details)
			return StateAlreadySubscribed, nil
		}
		return StateRequestingPermission, nil

	case StateRequestingPermission:
		perm, err := p.RequestPermission(ctx)
		if err != nil {
			details["error"] = err.Error()
			s.log.Error("push", "permission request failed", details)
			return StateFailed, nil
		}
		if perm != PermissionGranted {
			details["error"] = ErrPermissionDenied.Error()
			details["permission"] = string(perm)
			s.log.Info("push", "notification permission denied", details)
			return StateDenied, nil
		}
		return StateSubscribing, nil

	case StateSubscribing:
		created, err := p.Subscribe(ctx, s.applicationServerKey)
		if err != nil || created == nil {
			if err == nil {
				err = errors.New("platform returned no subscription")
			}
			details["error"] = err.Error()
			s.log.Error("push", "push subscribe failed", details)
			return StateFailed, nil
		}
		return StateReporting, created

	case StateReporting:
		msg, err := s.reporter.SubmitPushSubscription(ctx, models.NewPushSubscriptionDescriptor(sub, userID))
		if err != nil {
			details["error"] = err.Error()
			s.log.Error("push", "failed to store subscription", details)
		} else {
			details["message"] = msg
			s.log.Info("push", "subscription stored", details)
		}
		return StateDone, sub
	}

	return StateFailed, nil
}
