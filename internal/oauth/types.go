// Package oauth normalizes authorization-code token exchange against CRM
// vendor token endpoints into a common record shape.
package oauth

import "context"

// TokenTypeBearer is the token type reported for every provider. Vendors
// occasionally report their own casing; callers always see this literal.
const TokenTypeBearer = "Bearer"

// ConnectionMetadata carries the redirect-flow parameters for an exchange.
type ConnectionMetadata struct {
	// Code is the authorization code received via the redirect callback
	Code string `json:"code"`
	// RedirectURI must exactly match the URI registered with the provider
	RedirectURI string `json:"redirect_uri"`
}

// ConnectionInput is the caller-supplied input for a token exchange. The
// client credentials arrive per call; exchangers hold no state of their own.
type ConnectionInput struct {
	ClientID     string             `json:"client_id"`
	ClientSecret string             `json:"client_secret"`
	Metadata     ConnectionMetadata `json:"metadata"`
}

// TokenRecord is the normalized result of a token exchange.
type TokenRecord struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	// ExpiresIn is seconds until AccessToken expiry; zero when the vendor
	// omits it
	ExpiresIn int    `json:"expires_in"`
	TokenType string `json:"token_type"`
	// Meta holds provider-specific extension data; empty for providers
	// without extras
	Meta map[string]any `json:"meta"`
}

// Exchanger performs the code-for-token exchange against one CRM provider.
type Exchanger interface {
	// Name returns the provider identifier used in routes and config
	Name() string

	// Exchange swaps an authorization code for tokens. Every failure,
	// whether a missing input field, a network error, a non-2xx status or
	// an undecodable body, surfaces as an *ExchangeError.
	Exchange(ctx context.Context, input ConnectionInput) (*TokenRecord, error)

	// AuthorizeURL builds the vendor consent-screen URL that starts the
	// redirect flow producing the authorization code
	AuthorizeURL(clientID, redirectURI, state string, scopes []string) string
}
