// Package providers holds the per-vendor token exchangers. Each provider is
// a flat implementation of oauth.Exchanger over the shared requester; the
// only differences are endpoints and which response extras land in Meta.
package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/crosslink-labs/crm-oauth/internal/config"
	"github.com/crosslink-labs/crm-oauth/internal/oauth"
	"github.com/crosslink-labs/crm-oauth/internal/requester"
	"go.uber.org/fx"
	"golang.org/x/oauth2"
)

// ErrUnknownProvider indicates a provider name with no exchanger behind it
var ErrUnknownProvider = errors.New("unknown oauth provider")

// NewRegistry builds the provider registry from configuration.
func NewRegistry(cfg *config.Config, req *requester.HTTPRequester) (*oauth.Registry, error) {
	exchangers := make([]oauth.Exchanger, 0, len(cfg.Providers))
	for name, pc := range cfg.Providers {
		switch name {
		case "hubspot":
			exchangers = append(exchangers, NewHubSpot(pc, req))
		case "salesforce":
			exchangers = append(exchangers, NewSalesforce(pc, req))
		case "zoho":
			exchangers = append(exchangers, NewZoho(pc, req))
		default:
			return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, name)
		}
	}
	return oauth.NewRegistry(exchangers...), nil
}

// authorizationCodeForm assembles the grant_type=authorization_code body.
// Required fields are checked here, during request assembly, so a missing
// field fails the exchange instead of posting an empty value.
func authorizationCodeForm(input oauth.ConnectionInput) (url.Values, error) {
	switch {
	case input.ClientID == "":
		return nil, errors.New("client_id is required")
	case input.ClientSecret == "":
		return nil, errors.New("client_secret is required")
	case input.Metadata.Code == "":
		return nil, errors.New("metadata.code is required")
	case input.Metadata.RedirectURI == "":
		return nil, errors.New("metadata.redirect_uri is required")
	}

	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", input.Metadata.Code)
	form.Set("client_id", input.ClientID)
	form.Set("client_secret", input.ClientSecret)
	form.Set("redirect_uri", input.Metadata.RedirectURI)
	return form, nil
}

// exchangeRequest runs the shared assemble/post/status-check portion of an
// exchange and returns the raw success body. All failures come back as
// *oauth.ExchangeError.
func exchangeRequest(ctx context.Context, req *requester.HTTPRequester, provider, tokenURL string, input oauth.ConnectionInput) ([]byte, error) {
	form, err := authorizationCodeForm(input)
	if err != nil {
		return nil, &oauth.ExchangeError{Provider: provider, Err: err}
	}

	resp, err := req.PostForm(ctx, tokenURL, form)
	if err != nil {
		return nil, &oauth.ExchangeError{Provider: provider, Err: err}
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &oauth.ExchangeError{
			Provider: provider,
			Err:      fmt.Errorf("token endpoint returned status %d: %s", resp.StatusCode, resp.Body),
		}
	}

	return resp.Body, nil
}

func decodeTokenResponse(provider string, body []byte, out any) error {
	if err := json.Unmarshal(body, out); err != nil {
		return &oauth.ExchangeError{
			Provider: provider,
			Err:      fmt.Errorf("failed to decode token response: %w", err),
		}
	}
	return nil
}

// authorizeURL builds the consent-screen URL for a provider endpoint pair.
func authorizeURL(authURL, tokenURL, clientID, redirectURI, state string, scopes, defaultScopes []string) string {
	if len(scopes) == 0 {
		scopes = defaultScopes
	}
	cfg := oauth2.Config{
		ClientID:    clientID,
		RedirectURL: redirectURI,
		Scopes:      scopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:  authURL,
			TokenURL: tokenURL,
		},
	}
	return cfg.AuthCodeURL(state)
}

// Module provides the provider registry
var Module = fx.Module("providers",
	fx.Provide(
		NewRegistry,
	),
)
