package payment

import (
	"errors"
	"time"
)

// PayPalConfig contains configuration for the PayPal REST checkout API
type PayPalConfig struct {
	// ClientID is the REST application client ID
	ClientID string
	// ClientSecret is the REST application secret
	ClientSecret string
	// Currency is the ISO 4217 code charged for every order
	Currency string
	// IsSandbox indicates whether to use the sandbox environment
	IsSandbox bool
	// Timeout bounds every call to the PayPal API
	Timeout time.Duration
}

// Errors for configuration validation
var (
	ErrPayPalMissingClientID     = errors.New("paypal: missing client ID")
	ErrPayPalMissingClientSecret = errors.New("paypal: missing client secret")
	ErrPayPalInvalidCurrency     = errors.New("paypal: currency must be a 3-letter code")
)

// Validate validates the configuration
func (c *PayPalConfig) Validate() error {
	if c.ClientID == "" {
		return ErrPayPalMissingClientID
	}
	if c.ClientSecret == "" {
		return ErrPayPalMissingClientSecret
	}
	if c.Currency == "" {
		c.Currency = "USD"
	}
	if len(c.Currency) != 3 {
		return ErrPayPalInvalidCurrency
	}
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
	return nil
}
