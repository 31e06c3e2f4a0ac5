package notify

import (
	"context"
	"errors"

	"github.com/SherClockHolmes/webpush-go"
)

// Report is what the page script observed while running the browser side
// of the handshake.
type Report struct {
	Supported    bool                  `json:"supported"`
	Existing     *webpush.Subscription `json:"existing,omitempty"`
	Permission   Permission            `json:"permission,omitempty"`
	Subscription *webpush.Subscription `json:"subscription,omitempty"`
	Error        string                `json:"error,omitempty"`
	// Failure is set when the handshake broke before the subscribe step,
	// e.g. the service worker did not register.
	Failure string `json:"failure,omitempty"`
}

// ReportedPlatform answers Platform calls from a browser report.
type ReportedPlatform struct {
	report Report
}

func NewReportedPlatform(r Report) *ReportedPlatform {
	return &ReportedPlatform{report: r}
}

func (p *ReportedPlatform) Supported() bool {
	return p.report.Supported
}

func (p *ReportedPlatform) ExistingSubscription(context.Context) (*webpush.Subscription, error) {
	if p.report.Failure != "" {
		return nil, errors.New(p.report.Failure)
	}
	if p.report.Existing != nil && p.report.Existing.Endpoint != "" {
		return p.report.Existing, nil
	}
	return nil, nil
}

func (p *ReportedPlatform) RequestPermission(context.Context) (Permission, error) {
	if p.report.Permission == "" {
		return PermissionDefault, nil
	}
	return p.report.Permission, nil
}

func (p *ReportedPlatform) Subscribe(context.Context, string) (*webpush.Subscription, error) {
	if p.report.Error != "" {
		return nil, errors.New(p.report.Error)
	}
	if p.report.Subscription == nil || p.report.Subscription.Endpoint == "" {
		return nil, errors.New("browser reported no subscription")
	}
	return p.report.Subscription, nil
}
