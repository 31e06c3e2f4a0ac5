package notify

import (
	"fmt"

	"github.com/SherClockHolmes/webpush-go"
)

// Keys is a VAPID key pair.
type Keys struct {
	Public  string
	Private string
}

// ResolveKeys picks the application server key: the configured one, a
// generated pair when asked to, or fallback.
func ResolveKeys(configured, private string, generate bool, fallback string) (Keys, error) {
	if configured != "" {
		return Keys{Public: configured, Private: private}, nil
	}
	if !generate {
		return Keys{Public: fallback}, nil
	}
	priv, pub, err := webpush.GenerateVAPIDKeys()
	if err != nil {
		return Keys{}, fmt.Errorf("generate vapid keys: %w", err)
	}
	return Keys{Public: pub, Private: priv}, nil
}
