package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"tortas-web/internal/logger"
	"tortas-web/internal/metrics"
	"tortas-web/internal/models"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakePlatform struct {
	supported     bool
	existing      *webpush.Subscription
	existingErr   error
	permission    Permission
	subscription  *webpush.Subscription
	subscribeErr  error
	subscribeKeys []string
}

func (f *fakePlatform) Supported() bool { return f.supported }

func (f *fakePlatform) ExistingSubscription(context.Context) (*webpush.Subscription, error) {
	return f.existing, f.existingErr
}

func (f *fakePlatform) RequestPermission(context.Context) (Permission, error) {
	return f.permission, nil
}

func (f *fakePlatform) Subscribe(_ context.Context, key string) (*webpush.Subscription, error) {
	f.subscribeKeys = append(f.subscribeKeys, key)
	return f.subscription, f.subscribeErr
}

type fakeReporter struct {
	sent []models.PushSubscriptionDescriptor
	err  error
}

func (f *fakeReporter) SubmitPushSubscription(_ context.Context, d models.PushSubscriptionDescriptor) (string, error) {
	f.sent = append(f.sent, d)
	return "ok", f.err
}

func newSub() *webpush.Subscription {
	return &webpush.Subscription{Endpoint: "https://push.example/1", Keys: webpush.Keys{P256dh: "p", Auth: "a"}}
}

func TestSubscriber_Run(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		platform     *fakePlatform
		reporterErr  error
		want         State
		wantSent     int
		wantSubCalls int
	}{
		{
			name:     "unsupported",
			platform: &fakePlatform{supported: false},
			want:     StateUnsupported,
		},
		{
			name:     "already subscribed",
			platform: &fakePlatform{supported: true, existing: newSub()},
			want:     StateAlreadySubscribed,
		},
		{
			name:     "existing lookup fails",
			platform: &fakePlatform{supported: true, existingErr: errors.New("sw not ready")},
			want:     StateFailed,
		},
		{
			name:     "permission denied",
			platform: &fakePlatform{supported: true, permission: PermissionDenied},
			want:     StateDenied,
		},
		{
			name:     "permission dismissed",
			platform: &fakePlatform{supported: true, permission: PermissionDefault},
			want:     StateDenied,
		},
		{
			name:         "subscribe fails",
			platform:     &fakePlatform{supported: true, permission: PermissionGranted, subscribeErr: errors.New("push service down")},
			want:         StateFailed,
			wantSubCalls: 1,
		},
		{
			name:         "subscribed and reported",
			platform:     &fakePlatform{supported: true, permission: PermissionGranted, subscription: newSub()},
			want:         StateDone,
			wantSent:     1,
			wantSubCalls: 1,
		},
		{
			name:         "report fails still done",
			platform:     &fakePlatform{supported: true, permission: PermissionGranted, subscription: newSub()},
			reporterErr:  errors.New("502"),
			want:         StateDone,
			wantSent:     1,
			wantSubCalls: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			reporter := &fakeReporter{err: tt.reporterErr}
			s := NewSubscriber(reporter, "app-key", logger.NewNop(), metrics.New())
			sess := &models.Session{UserID: "u1"}

			got := s.Run(context.Background(), tt.platform, sess, "u1")

			assert.Equal(t, tt.want, got)
			assert.True(t, sess.PushPrompted, "flag is set whatever the outcome")
			assert.Len(t, reporter.sent, tt.wantSent)
			assert.Len(t, tt.platform.subscribeKeys, tt.wantSubCalls)
		})
	}
}

func TestSubscriber_ReportCarriesUserAndKey(t *testing.T) {
	t.Parallel()
	reporter := &fakeReporter{}
	p := &fakePlatform{supported: true, permission: PermissionGranted, subscription: newSub()}
	s := NewSubscriber(reporter, "app-key", logger.NewNop(), nil)

	s.Run(context.Background(), p, &models.Session{}, "u1")

	require.Len(t, reporter.sent, 1)
	assert.Equal(t, "u1", reporter.sent[0].UserID)
	assert.Equal(t, "https://push.example/1", reporter.sent[0].Endpoint)
	assert.Equal(t, []string{"app-key"}, p.subscribeKeys)
}

func TestSubscriber_RunsOncePerFlag(t *testing.T) {
	t.Parallel()
	reporter := &fakeReporter{}
	p := &fakePlatform{supported: true, permission: PermissionGranted, subscription: newSub()}
	s := NewSubscriber(reporter, "app-key", logger.NewNop(), nil)
	sess := &models.Session{UserID: "u1"}

	first := s.Run(context.Background(), p, sess, "u1")
	second := s.Run(context.Background(), p, sess, "u1")

	assert.Equal(t, StateDone, first)
	assert.Equal(t, StateSkipped, second)
	assert.Len(t, p.subscribeKeys, 1)
	assert.Len(t, reporter.sent, 1)
}

func TestSubscriber_DeniedIsNotRetried(t *testing.T) {
	t.Parallel()
	p := &fakePlatform{supported: true, permission: PermissionDenied}
	s := NewSubscriber(&fakeReporter{}, "k", logger.NewNop(), nil)
	sess := &models.Session{}

	require.Equal(t, StateDenied, s.Run(context.Background(), p, sess, "u1"))

	p.permission = PermissionGranted
	p.subscription = newSub()
	assert.Equal(t, StateSkipped, s.Run(context.Background(), p, sess, "u1"))
	assert.Empty(t, p.subscribeKeys)
}

func TestReportedPlatform(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	empty := NewReportedPlatform(Report{})
	assert.False(t, empty.Supported())
	existing, err := empty.ExistingSubscription(ctx)
	require.NoError(t, err)
	assert.Nil(t, existing)
	perm, err := empty.RequestPermission(ctx)
	require.NoError(t, err)
	assert.Equal(t, PermissionDefault, perm)
	_, err = empty.Subscribe(ctx, "k")
	assert.Error(t, err)

	failed := NewReportedPlatform(Report{Supported: true, Permission: PermissionGranted, Error: "AbortError"})
	_, err = failed.Subscribe(ctx, "k")
	assert.EqualError(t, err, "AbortError")

	ok := NewReportedPlatform(Report{Supported: true, Permission: PermissionGranted, Subscription: newSub()})
	sub, err := ok.Subscribe(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "https://push.example/1", sub.Endpoint)
}

func TestReportedPlatform_EarlyFailure(t *testing.T) {
	t.Parallel()
	p := NewReportedPlatform(Report{Supported: true, Failure: "SecurityError: sw.js"})
	_, err := p.ExistingSubscription(context.Background())
	assert.EqualError(t, err, "SecurityError: sw.js")

	sess := &models.Session{}
	s := NewSubscriber(&fakeReporter{}, "k", logger.NewNop(), nil)
	assert.Equal(t, StateFailed, s.Run(context.Background(), p, sess, "u1"))
	assert.True(t, sess.Done())
}

func TestSubscriber_LogsErrorText(t *testing.T) {
	t.Parallel()
	core, logs := observer.New(zapcore.DebugLevel)
	s := NewSubscriber(&fakeReporter{}, "k", logger.NewFromZap(zap.New(core)), nil)

	p := &fakePlatform{supported: true, permission: PermissionDenied}
	require.Equal(t, StateDenied, s.Run(context.Background(), p, &models.Session{}, "u1"))

	entries := logs.FilterMessage("notification permission denied").All()
	require.Len(t, entries, 1)
	details, ok := entries[0].ContextMap()["details"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, ErrPermissionDenied.Error(), details["error"])
}

func TestResolveKeys(t *testing.T) {
	t.Parallel()

	k, err := ResolveKeys("configured", "priv", true, "fallback")
	require.NoError(t, err)
	assert.Equal(t, Keys{Public: "configured", Private: "priv"}, k)

	k, err = ResolveKeys("", "", false, "fallback")
	require.NoError(t, err)
	assert.Equal(t, "fallback", k.Public)

	k, err = ResolveKeys("", "", true, "fallback")
	require.NoError(t, err)
	assert.NotEmpty(t, k.Public)
	assert.NotEmpty(t, k.Private)
	assert.NotEqual(t, "fallback", k.Public)
}
