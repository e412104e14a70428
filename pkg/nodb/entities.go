package nodb

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/hashicorp/go-multierror"

	"github.com/nodb-io/nodb-go/pkg/models"
)

// EntityRequest identifies the tenant scope and entity kind an operation
// runs against. Token optionally overrides the client-wide default
// credential for this single call; it is never persisted.
type EntityRequest struct {
	AppName    string
	EnvName    string
	EntityName string
	Token      string
}

// Validate checks that the full tenant scope is present.
func (r EntityRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.AppName, validation.Required),
		validation.Field(&r.EnvName, validation.Required),
		validation.Field(&r.EntityName, validation.Required),
	)
}

// WriteEntitiesRequest carries a batch of new records.
type WriteEntitiesRequest struct {
	EntityRequest
	Payload []models.EntityRecord
}

// WriteEntityRequest carries a single new record.
type WriteEntityRequest struct {
	EntityRequest
	Payload models.EntityRecord
}

// UpdateEntitiesRequest carries a batch of partial-field patches. Every
// record must carry the id of the record it patches.
type UpdateEntitiesRequest struct {
	EntityRequest
	Payload []models.EntityRecord
}

// UpdateEntityRequest carries a single partial-field patch; the record must
// carry its id.
type UpdateEntityRequest struct {
	EntityRequest
	Payload models.EntityRecord
}

// ReplaceEntitiesRequest carries a batch of full overwrites. Every record
// must carry the id of the record it replaces.
type ReplaceEntitiesRequest struct {
	EntityRequest
	Payload []models.EntityRecord
}

// ReplaceEntityRequest carries a single full overwrite; the record must
// carry its id.
type ReplaceEntityRequest struct {
	EntityRequest
	Payload models.EntityRecord
}

// GetEntityRequest identifies a single record.
type GetEntityRequest struct {
	EntityRequest
	EntityID string
}

// DeleteEntityRequest identifies a single record to delete.
type DeleteEntityRequest struct {
	EntityRequest
	EntityID string
}

// GetEntitiesRequest lists one page of an entity kind. Zero values leave
// the page size and number to the service's defaults.
type GetEntitiesRequest struct {
	EntityRequest
	Page    int
	PerPage int
}

type idsResponse struct {
	IDs []string `json:"ids"`
}

type deleteCountResponse struct {
	Deleted int `json:"deleted"`
}

type deleteFoundResponse struct {
	Deleted bool `json:"deleted"`
}

// WriteEntities creates a batch of records and returns the server-assigned
// ids, in payload order.
func (c *Client) WriteEntities(ctx context.Context, req WriteEntitiesRequest) ([]string, error) {
	if err := req.Validate(); err != nil {
		return nil, newConfigurationError("invalid write request: %v", err)
	}
	token, err := c.requireToken(req.Token)
	if err != nil {
		return nil, err
	}

	var resp idsResponse
	path := EntityPath(req.AppName, req.EnvName, req.EntityName, "")
	if err := c.do(ctx, http.MethodPost, path, nil, token, req.Payload, &resp); err != nil {
		return nil, err
	}
	return resp.IDs, nil
}

// WriteEntity creates a single record. It is strictly a one-element
// WriteEntities call, returning the first id.
func (c *Client) WriteEntity(ctx context.Context, req WriteEntityRequest) (string, error) {
	ids, err := c.WriteEntities(ctx, WriteEntitiesRequest{
		EntityRequest: req.EntityRequest,
		Payload:       []models.EntityRecord{req.Payload},
	})
	if err != nil {
		return "", err
	}
	return firstID(ids)
}

// UpdateEntities patches a batch of records (partial-field update) and
// returns the ids of the patched records.
func (c *Client) UpdateEntities(ctx context.Context, req UpdateEntitiesRequest) ([]string, error) {
	if err := req.Validate(); err != nil {
		return nil, newConfigurationError("invalid update request: %v", err)
	}
	if err := requireIDs(req.Payload); err != nil {
		return nil, newConfigurationError("invalid update payload: %v", err)
	}
	token, err := c.requireToken(req.Token)
	if err != nil {
		return nil, err
	}

	var resp idsResponse
	path := EntityPath(req.AppName, req.EnvName, req.EntityName, "")
	if err := c.do(ctx, http.MethodPatch, path, nil, token, req.Payload, &resp); err != nil {
		return nil, err
	}
	return resp.IDs, nil
}

// UpdateEntity patches a single record. It is strictly a one-element
// UpdateEntities call, returning the first id.
func (c *Client) UpdateEntity(ctx context.Context, req UpdateEntityRequest) (string, error) {
	ids, err := c.UpdateEntities(ctx, UpdateEntitiesRequest{
		EntityRequest: req.EntityRequest,
		Payload:       []models.EntityRecord{req.Payload},
	})
	if err != nil {
		return "", err
	}
	return firstID(ids)
}

// ReplaceEntities overwrites a batch of records in full and returns the ids
// of the replaced records.
func (c *Client) ReplaceEntities(ctx context.Context, req ReplaceEntitiesRequest) ([]string, error) {
	if err := req.Validate(); err != nil {
		return nil, newConfigurationError("invalid replace request: %v", err)
	}
	if err := requireIDs(req.Payload); err != nil {
		return nil, newConfigurationError("invalid replace payload: %v", err)
	}
	token, err := c.requireToken(req.Token)
	if err != nil {
		return nil, err
	}

	var resp idsResponse
	path := EntityPath(req.AppName, req.EnvName, req.EntityName, "")
	if err := c.do(ctx, http.MethodPut, path, nil, token, req.Payload, &resp); err != nil {
		return nil, err
	}
	return resp.IDs, nil
}

// ReplaceEntity overwrites a single record in full. It is strictly a
// one-element ReplaceEntities call, returning the first id.
func (c *Client) ReplaceEntity(ctx context.Context, req ReplaceEntityRequest) (string, error) {
	ids, err := c.ReplaceEntities(ctx, ReplaceEntitiesRequest{
		EntityRequest: req.EntityRequest,
		Payload:       []models.EntityRecord{req.Payload},
	})
	if err != nil {
		return "", err
	}
	return firstID(ids)
}

// DeleteEntities removes every record of the entity kind within the scope
// and returns how many were removed.
func (c *Client) DeleteEntities(ctx context.Context, req EntityRequest) (int, error) {
	if err := req.Validate(); err != nil {
		return 0, newConfigurationError("invalid delete request: %v", err)
	}
	token, err := c.requireToken(req.Token)
	if err != nil {
		return 0, err
	}

	var resp deleteCountResponse
	path := EntityPath(req.AppName, req.EnvName, req.EntityName, "")
	if err := c.do(ctx, http.MethodDelete, path, nil, token, nil, &resp); err != nil {
		return 0, err
	}
	return resp.Deleted, nil
}

// DeleteEntity removes a single record, reporting whether it existed.
func (c *Client) DeleteEntity(ctx context.Context, req DeleteEntityRequest) (bool, error) {
	if err := req.Validate(); err != nil {
		return false, newConfigurationError("invalid delete request: %v", err)
	}
	if req.EntityID == "" {
		return false, newConfigurationError("entity id is required")
	}
	token, err := c.requireToken(req.Token)
	if err != nil {
		return false, err
	}

	var resp deleteFoundResponse
	path := EntityPath(req.AppName, req.EnvName, req.EntityName, req.EntityID)
	if err := c.do(ctx, http.MethodDelete, path, nil, token, nil, &resp); err != nil {
		return false, err
	}
	return resp.Deleted, nil
}

// GetEntity fetches a single record. A missing id surfaces as a
// ServiceError with NotFound() true.
func (c *Client) GetEntity(ctx context.Context, req GetEntityRequest) (models.EntityRecord, error) {
	if err := req.Validate(); err != nil {
		return nil, newConfigurationError("invalid get request: %v", err)
	}
	if req.EntityID == "" {
		return nil, newConfigurationError("entity id is required")
	}
	token, err := c.requireToken(req.Token)
	if err != nil {
		return nil, err
	}

	var record models.EntityRecord
	path := EntityPath(req.AppName, req.EnvName, req.EntityName, req.EntityID)
	if err := c.do(ctx, http.MethodGet, path, nil, token, nil, &record); err != nil {
		return nil, err
	}
	return record, nil
}

// GetEntities fetches one page of records of an entity kind, with the
// service's pagination meta.
func (c *Client) GetEntities(ctx context.Context, req GetEntitiesRequest) (*models.EntityCollection, error) {
	if err := req.Validate(); err != nil {
		return nil, newConfigurationError("invalid list request: %v", err)
	}
	token, err := c.requireToken(req.Token)
	if err != nil {
		return nil, err
	}

	query := url.Values{}
	if req.Page > 0 {
		query.Set("__page", strconv.Itoa(req.Page))
	}
	if req.PerPage > 0 {
		query.Set("__per_page", strconv.Itoa(req.PerPage))
	}

	var coll models.EntityCollection
	path := EntityPath(req.AppName, req.EnvName, req.EntityName, "")
	if err := c.do(ctx, http.MethodGet, path, query, token, nil, &coll); err != nil {
		return nil, err
	}
	return &coll, nil
}

// requireIDs checks that every record in a patch/replace batch carries an
// id, reporting all offenders at once.
func requireIDs(payload []models.EntityRecord) error {
	var result *multierror.Error
	for i, record := range payload {
		if record.ID() == "" {
			result = multierror.Append(result,
				newConfigurationError("record %d is missing an id", i))
		}
	}
	return result.ErrorOrNil()
}

// firstID unwraps a batch response back to the singular result.
func firstID(ids []string) (string, error) {
	if len(ids) == 0 {
		return "", fmt.Errorf("service returned no ids")
	}
	return ids[0], nil
}
