package payment

import (
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/storefront/backend/internal/infrastructure/config"
)

// PhonePe API hosts
const (
	PhonePeSandboxURL    = "https://api-preprod.phonepe.com/apis/pg-sandbox"
	PhonePeProductionURL = "https://api.phonepe.com/apis/hermes"

	defaultPhonePeTimeout = 30 * time.Second
)

// Configuration errors
var (
	ErrPhonePeMissingMerchantID  = errors.New("phonepe: missing merchant ID")
	ErrPhonePeMissingSaltKey     = errors.New("phonepe: missing salt key")
	ErrPhonePeMissingSaltIndex   = errors.New("phonepe: missing salt index")
	ErrPhonePeMissingRedirectURL = errors.New("phonepe: missing redirect URL")
	ErrPhonePeMissingCallbackURL = errors.New("phonepe: missing callback URL")
	ErrPhonePeInvalidBaseURL     = errors.New("phonepe: invalid base URL")
)

// PhonePeConfig holds merchant credentials for the PhonePe pay-page API
type PhonePeConfig struct {
	MerchantID  string
	SaltKey     string
	SaltIndex   string
	Production  bool
	BaseURL     string // overrides the environment host, used for tests
	RedirectURL string
	CallbackURL string
	Timeout     time.Duration
}

// PhonePeConfigFrom maps application configuration onto the client config
func PhonePeConfigFrom(cfg config.PhonePeConfig) PhonePeConfig {
	return PhonePeConfig{
		MerchantID:  cfg.MerchantID,
		SaltKey:     cfg.SaltKey,
		SaltIndex:   cfg.SaltIndex,
		Production:  strings.EqualFold(cfg.Environment, "production"),
		BaseURL:     cfg.BaseURL,
		RedirectURL: cfg.RedirectURL,
		CallbackURL: cfg.CallbackURL,
		Timeout:     cfg.Timeout,
	}
}

// Validate validates the configuration
func (c *PhonePeConfig) Validate() error {
	if c.MerchantID == "" {
		return ErrPhonePeMissingMerchantID
	}
	if c.SaltKey == "" {
		return ErrPhonePeMissingSaltKey
	}
	if c.SaltIndex == "" {
		return ErrPhonePeMissingSaltIndex
	}
	if c.RedirectURL == "" {
		return ErrPhonePeMissingRedirectURL
	}
	if c.CallbackURL == "" {
		return ErrPhonePeMissingCallbackURL
	}
	if c.BaseURL != "" {
		if u, err := url.Parse(c.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
			return ErrPhonePeInvalidBaseURL
		}
	}
	return nil
}

// APIBaseURL resolves the host to call
func (c *PhonePeConfig) APIBaseURL() string {
	if c.BaseURL != "" {
		return strings.TrimRight(c.BaseURL, "/")
	}
	if c.Production {
		return PhonePeProductionURL
	}
	return PhonePeSandboxURL
}

func (c *PhonePeConfig) timeout() time.Duration {
	if c.Timeout <= 0 {
		return defaultPhonePeTimeout
	}
	return c.Timeout
}
