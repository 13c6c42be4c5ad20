package providers

import (
	"context"

	"github.com/crosslink-labs/crm-oauth/internal/config"
	"github.com/crosslink-labs/crm-oauth/internal/oauth"
	"github.com/crosslink-labs/crm-oauth/internal/requester"
)

const (
	salesforceTokenURL = "https://login.salesforce.com/services/oauth2/token"
	salesforceAuthURL  = "https://login.salesforce.com/services/oauth2/authorize"
)

var salesforceDefaultScopes = []string{"api", "refresh_token"}

// Salesforce exchanges authorization codes against the Salesforce token
// endpoint. Salesforce omits expires_in and instead reports the org-specific
// instance URL, which callers need for every subsequent API call.
type Salesforce struct {
	tokenURL  string
	authURL   string
	scopes    []string
	requester *requester.HTTPRequester
}

func NewSalesforce(cfg config.ProviderConfig, req *requester.HTTPRequester) *Salesforce {
	p := &Salesforce{
		tokenURL:  salesforceTokenURL,
		authURL:   salesforceAuthURL,
		scopes:    salesforceDefaultScopes,
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

func (p *Salesforce) Name() string { return "salesforce" }

func (p *Salesforce) Exchange(ctx context.Context, input oauth.ConnectionInput) (*oauth.TokenRecord, error) {
	body, err := exchangeRequest(ctx, p.requester, p.Name(), p.tokenURL, input)
	if err != nil {
		return nil, err
	}

	var token struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
		ExpiresIn    int    `json:"expires_in"`
		InstanceURL  string `json:"instance_url"`
		ID           string `json:"id"`
		Signature    string `json:"signature"`
	}
	if err := decodeTokenResponse(p.Name(), body, &token); err != nil {
		return nil, err
	}

	meta := map[string]any{}
	if token.InstanceURL != "" {
		meta["instance_url"] = token.InstanceURL
	}
	if token.ID != "" {
		meta["id"] = token.ID
	}
	if token.Signature != "" {
		meta["signature"] = token.Signature
	}

	return &oauth.TokenRecord{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		ExpiresIn:    token.ExpiresIn,
		TokenType:    oauth.TokenTypeBearer,
		Meta:         meta,
	}, nil
}

func (p *Salesforce) AuthorizeURL(clientID, redirectURI, state string, scopes []string) string {
	return authorizeURL(p.authURL, p.tokenURL, clientID, redirectURI, state, scopes, p.scopes)
}
