package providers

import (
	"context"

	"github.com/crosslink-labs/crm-oauth/internal/config"
	"github.com/crosslink-labs/crm-oauth/internal/oauth"
	"github.com/crosslink-labs/crm-oauth/internal/requester"
)

const (
	zohoTokenURL = "https://accounts.zoho.com/oauth/v2/token"
	zohoAuthURL  = "https://accounts.zoho.com/oauth/v2/auth"
)

var zohoDefaultScopes = []string{"ZohoCRM.modules.ALL"}

// Zoho exchanges authorization codes against the Zoho Accounts token
// endpoint. The response carries the data-center api_domain the tokens are
// valid for.
type Zoho struct {
	tokenURL  string
	authURL   string
	scopes    []string
	requester *requester.HTTPRequester
}

func NewZoho(cfg config.ProviderConfig, req *requester.HTTPRequester) *Zoho {
	p := &Zoho{
		tokenURL:  zohoTokenURL,
		authURL:   zohoAuthURL,
		scopes:    zohoDefaultScopes,
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

func (p *Zoho) Name() string { return "zoho" }

func (p *Zoho) Exchange(ctx context.Context, input oauth.ConnectionInput) (*oauth.TokenRecord, error) {
	body, err := exchangeRequest(ctx, p.requester, p.Name(), p.tokenURL, input)
	if err != nil {
		return nil, err
	}

	var token struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
		ExpiresIn    int    `json:"expires_in"`
		APIDomain    string `json:"api_domain"`
	}
	if err := decodeTokenResponse(p.Name(), body, &token); err != nil {
		return nil, err
	}

	meta := map[string]any{}
	if token.APIDomain != "" {
		meta["api_domain"] = token.APIDomain
	}

	return &oauth.TokenRecord{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		ExpiresIn:    token.ExpiresIn,
		TokenType:    oauth.TokenTypeBearer,
		Meta:         meta,
	}, nil
}

func (p *Zoho) AuthorizeURL(clientID, redirectURI, state string, scopes []string) string {
	return authorizeURL(p.authURL, p.tokenURL, clientID, redirectURI, state, scopes, p.scopes)
}
