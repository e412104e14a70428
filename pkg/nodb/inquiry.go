package nodb

import (
	"context"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// InquiryRequest asks a free-text question of an environment's data.
type InquiryRequest struct {
	AppName string
	EnvName string
	Inquiry string
	Token   string
}

// Validate checks the request.
func (r InquiryRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.AppName, validation.Required),
		validation.Field(&r.EnvName, validation.Required),
		validation.Field(&r.Inquiry, validation.Required),
	)
}

type inquiryBody struct {
	Query string `json:"query"`
}

type inquiryResponse struct {
	Answer string `json:"answer"`
}

// Inquire forwards the question to the environment's knowledge endpoint and
// returns the service's textual answer verbatim; the client performs no
// local processing of it.
func (c *Client) Inquire(ctx context.Context, req InquiryRequest) (string, error) {
	if err := req.Validate(); err != nil {
		return "", newConfigurationError("invalid inquiry: %v", err)
	}
	token, err := c.requireToken(req.Token)
	if err != nil {
		return "", err
	}

	var resp inquiryResponse
	path := KnowledgeBasePath(req.AppName, req.EnvName)
	if err := c.do(ctx, http.MethodPost, path, nil, token, inquiryBody{Query: req.Inquiry}, &resp); err != nil {
		return "", err
	}
	return resp.Answer, nil
}
