package providers

import (
	"context"

	"github.com/crosslink-labs/crm-oauth/internal/config"
	"github.com/crosslink-labs/crm-oauth/internal/oauth"
	"github.com/crosslink-labs/crm-oauth/internal/requester"
)

const (
	hubspotTokenURL = "https://api.hubapi.com/oauth/v1/token"
	hubspotAuthURL  = "https://app.hubspot.com/oauth/authorize"
)

var hubspotDefaultScopes = []string{"crm.objects.contacts.read"}

// HubSpot exchanges authorization codes against the HubSpot token endpoint.
type HubSpot struct {
	tokenURL  string
	authURL   string
	scopes    []string
	requester *requester.HTTPRequester
}

func NewHubSpot(cfg config.ProviderConfig, req *requester.HTTPRequester) *HubSpot {
	p := &HubSpot{
		tokenURL:  hubspotTokenURL,
		authURL:   hubspotAuthURL,
		scopes:    hubspotDefaultScopes,
		requester: req,
	}
	if cfg.TokenURL != "" {
		p.tokenURL = cfg.TokenURL
	}
	if cfg.AuthURL != "" {
		p.authURL = cfg.AuthURL
	}
	if len(cfg.Scopes) > 0 {
		p.scopes = cfg.Scopes
	}
	return p
}

func (p *HubSpot) Name() string { return "hubspot" }

func (p *HubSpot) Exchange(ctx context.Context, input oauth.ConnectionInput) (*oauth.TokenRecord, error) {
	body, err := exchangeRequest(ctx, p.requester, p.Name(), p.tokenURL, input)
	if err != nil {
		return nil, err
	}

	var token struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
		ExpiresIn    int    `json:"expires_in"`
	}
	if err := decodeTokenResponse(p.Name(), body, &token); err != nil {
		return nil, err
	}

	return &oauth.TokenRecord{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		ExpiresIn:    token.ExpiresIn,
		TokenType:    oauth.TokenTypeBearer,
		Meta:         map[string]any{},
	}, nil
}

func (p *HubSpot) AuthorizeURL(clientID, redirectURI, state string, scopes []string) string {
	return authorizeURL(p.authURL, p.tokenURL, clientID, redirectURI, state, scopes, p.scopes)
}
