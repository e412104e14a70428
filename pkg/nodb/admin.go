package nodb

import (
	"context"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/nodb-io/nodb-go/pkg/models"
)

// CreateApplicationRequest creates an application, optionally bootstrapping
// its first environment in the same call. This is the one operation that
// may run anonymously: a fresh deployment has no token to present yet.
type CreateApplicationRequest struct {
	AppName        string
	AppDescription string

	// EnvironmentName, when set, bootstraps a first environment.
	EnvironmentName        string
	EnvironmentDescription string

	Token string
}

// Validate checks the request.
func (r CreateApplicationRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.AppName, validation.Required),
	)
}

// CreateEnvironmentRequest creates an environment within an existing
// application.
type CreateEnvironmentRequest struct {
	AppName     string
	EnvName     string
	Description string
	Token       string
}

// Validate checks the request.
func (r CreateEnvironmentRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.AppName, validation.Required),
		validation.Field(&r.EnvName, validation.Required),
	)
}

// CreateTokenRequest creates an application-scoped token, or an
// environment-scoped one when EnvName is set.
type CreateTokenRequest struct {
	AppName    string
	EnvName    string
	Permission models.Permission
	Token      string
}

// Validate checks the request.
func (r CreateTokenRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.AppName, validation.Required),
		validation.Field(&r.Permission, validation.Required,
			validation.In(models.PermissionAll, models.PermissionReadOnly)),
	)
}

// RevokeTokenRequest revokes an application-scoped token, or an
// environment-scoped one when EnvName is set. TokenToRevoke is the token
// being destroyed; Token authenticates the call itself.
type RevokeTokenRequest struct {
	AppName       string
	EnvName       string
	TokenToRevoke string
	Token         string
}

// Validate checks the request.
func (r RevokeTokenRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.AppName, validation.Required),
		validation.Field(&r.TokenToRevoke, validation.Required),
	)
}

type foundResponse struct {
	Found bool `json:"found"`
}

type successResponse struct {
	Success bool `json:"success"`
}

type createAppBody struct {
	AppName        string `json:"appName"`
	AppDescription string `json:"appDescription,omitempty"`
	EnvName        string `json:"envName,omitempty"`
	EnvDescription string `json:"envDescription,omitempty"`
}

type createEnvBody struct {
	EnvName     string `json:"envName"`
	Description string `json:"description,omitempty"`
}

type createTokenBody struct {
	Permission models.Permission `json:"permission"`
}

// CreateApplication creates an application and returns its token sets,
// including the bootstrapped environment's when one was requested. The
// returned application token is what a caller typically feeds to SetToken.
func (c *Client) CreateApplication(ctx context.Context, req CreateApplicationRequest) (*models.ApplicationTokens, error) {
	if err := req.Validate(); err != nil {
		return nil, newConfigurationError("invalid application request: %v", err)
	}
	// Anonymous bootstrap is allowed: attach a credential only if one
	// resolves.
	token, _ := c.resolveToken(req.Token)

	body := createAppBody{
		AppName:        req.AppName,
		AppDescription: req.AppDescription,
		EnvName:        req.EnvironmentName,
		EnvDescription: req.EnvironmentDescription,
	}

	var resp models.ApplicationTokens
	if err := c.do(ctx, http.MethodPost, AppPath(req.AppName), nil, token, body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DeleteApplication removes an application and everything under it:
// environments, entities and tokens all become unreachable. Returns whether
// the application existed.
func (c *Client) DeleteApplication(ctx context.Context, appName, tokenOverride string) (bool, error) {
	if appName == "" {
		return false, newConfigurationError("application name is required")
	}
	token, err := c.requireToken(tokenOverride)
	if err != nil {
		return false, err
	}

	var resp foundResponse
	if err := c.do(ctx, http.MethodDelete, AppPath(appName), nil, token, nil, &resp); err != nil {
		return false, err
	}
	return resp.Found, nil
}

// CreateEnvironment creates an environment within an application and
// returns its token set.
func (c *Client) CreateEnvironment(ctx context.Context, req CreateEnvironmentRequest) (*models.EnvironmentTokens, error) {
	if err := req.Validate(); err != nil {
		return nil, newConfigurationError("invalid environment request: %v", err)
	}
	token, err := c.requireToken(req.Token)
	if err != nil {
		return nil, err
	}

	body := createEnvBody{EnvName: req.EnvName, Description: req.Description}

	var resp models.EnvironmentTokens
	if err := c.do(ctx, http.MethodPost, EnvPath(req.AppName, req.EnvName), nil, token, body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DeleteEnvironment removes an environment and its entities and tokens.
// Returns whether the environment existed.
func (c *Client) DeleteEnvironment(ctx context.Context, appName, envName, tokenOverride string) (bool, error) {
	if appName == "" || envName == "" {
		return false, newConfigurationError("application and environment names are required")
	}
	token, err := c.requireToken(tokenOverride)
	if err != nil {
		return false, err
	}

	var resp foundResponse
	if err := c.do(ctx, http.MethodDelete, EnvPath(appName, envName), nil, token, nil, &resp); err != nil {
		return false, err
	}
	return resp.Found, nil
}

// CreateToken issues a new token with the declared permission level:
// application-scoped, or environment-scoped when EnvName is set.
func (c *Client) CreateToken(ctx context.Context, req CreateTokenRequest) (*models.TokenDescriptor, error) {
	if err := req.Validate(); err != nil {
		return nil, newConfigurationError("invalid token request: %v", err)
	}
	token, err := c.requireToken(req.Token)
	if err != nil {
		return nil, err
	}

	path := AppTokensPath(req.AppName)
	if req.EnvName != "" {
		path = EnvTokensPath(req.AppName, req.EnvName)
	}

	var resp models.TokenDescriptor
	if err := c.do(ctx, http.MethodPost, path, nil, token, createTokenBody{Permission: req.Permission}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// RevokeToken destroys a token. Returns whether the service accepted the
// revocation.
func (c *Client) RevokeToken(ctx context.Context, req RevokeTokenRequest) (bool, error) {
	if err := req.Validate(); err != nil {
		return false, newConfigurationError("invalid revoke request: %v", err)
	}
	token, err := c.requireToken(req.Token)
	if err != nil {
		return false, err
	}

	path := RevokeAppTokenPath(req.AppName, req.TokenToRevoke)
	if req.EnvName != "" {
		path = RevokeEnvTokenPath(req.AppName, req.EnvName, req.TokenToRevoke)
	}

	var resp successResponse
	if err := c.do(ctx, http.MethodDelete, path, nil, token, nil, &resp); err != nil {
		return false, err
	}
	return resp.Success, nil
}
