package nodb

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nodb-io/nodb-go/pkg/models"
)

func TestNew_RequiresBaseURL(t *testing.T) {
	client, err := New(Config{})

	require.Error(t, err)
	assert.Nil(t, client)
	assert.True(t, IsConfigurationError(err))
}

func TestNew_TokenOptional(t *testing.T) {
	client, err := New(Config{BaseURL: "http://localhost:3000"})

	require.NoError(t, err)
	require.NotNil(t, client)
}

func TestNew_TrimsTrailingSlash(t *testing.T) {
	client, err := New(Config{BaseURL: "http://localhost:3000/"})

	require.NoError(t, err)
	assert.Equal(t, "http://localhost:3000", client.BaseURL())
}

// countingTransport fails every request but counts how many were attempted,
// so tests can assert an operation never reached the network.
type countingTransport struct {
	calls atomic.Int64
}

func (tr *countingTransport) RoundTrip(*http.Request) (*http.Response, error) {
	tr.calls.Add(1)
	return nil, http.ErrHandlerTimeout
}

func TestMissingCredentialFailsBeforeTransport(t *testing.T) {
	tr := &countingTransport{}
	client, err := New(Config{
		BaseURL:    "http://localhost:3000",
		HTTPClient: &http.Client{Transport: tr},
	})
	require.NoError(t, err)

	ctx := context.Background()
	scope := EntityRequest{AppName: "a", EnvName: "e", EntityName: "x"}

	calls := []struct {
		name string
		run  func() error
	}{
		{"WriteEntities", func() error {
			_, err := client.WriteEntities(ctx, WriteEntitiesRequest{EntityRequest: scope, Payload: []models.EntityRecord{{"t": "v"}}})
			return err
		}},
		{"UpdateEntities", func() error {
			_, err := client.UpdateEntities(ctx, UpdateEntitiesRequest{EntityRequest: scope, Payload: []models.EntityRecord{{"id": "1"}}})
			return err
		}},
		{"ReplaceEntities", func() error {
			_, err := client.ReplaceEntities(ctx, ReplaceEntitiesRequest{EntityRequest: scope, Payload: []models.EntityRecord{{"id": "1"}}})
			return err
		}},
		{"DeleteEntities", func() error {
			_, err := client.DeleteEntities(ctx, scope)
			return err
		}},
		{"DeleteEntity", func() error {
			_, err := client.DeleteEntity(ctx, DeleteEntityRequest{EntityRequest: scope, EntityID: "1"})
			return err
		}},
		{"GetEntity", func() error {
			_, err := client.GetEntity(ctx, GetEntityRequest{EntityRequest: scope, EntityID: "1"})
			return err
		}},
		{"GetEntities", func() error {
			_, err := client.GetEntities(ctx, GetEntitiesRequest{EntityRequest: scope})
			return err
		}},
		{"Inquire", func() error {
			_, err := client.Inquire(ctx, InquiryRequest{AppName: "a", EnvName: "e", Inquiry: "q"})
			return err
		}},
		{"CreateEnvironment", func() error {
			_, err := client.CreateEnvironment(ctx, CreateEnvironmentRequest{AppName: "a", EnvName: "e"})
			return err
		}},
		{"CreateToken", func() error {
			_, err := client.CreateToken(ctx, CreateTokenRequest{AppName: "a", Permission: models.PermissionAll})
			return err
		}},
		{"RevokeToken", func() error {
			_, err := client.RevokeToken(ctx, RevokeTokenRequest{AppName: "a", TokenToRevoke: "t"})
			return err
		}},
		{"DeleteApplication", func() error {
			_, err := client.DeleteApplication(ctx, "a", "")
			return err
		}},
		{"DeleteEnvironment", func() error {
			_, err := client.DeleteEnvironment(ctx, "a", "e", "")
			return err
		}},
	}

	for _, tc := range calls {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.run()
			require.Error(t, err)
			assert.True(t, IsConfigurationError(err), "want ConfigurationError, got %T: %v", err, err)
		})
	}

	assert.Zero(t, tr.calls.Load(), "no transport invocation may happen without a credential")
}

func TestTokenPrecedence(t *testing.T) {
	var seenTokens []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenTokens = append(seenTokens, r.Header.Get("token"))
		json.NewEncoder(w).Encode(map[string]any{"ids": []string{"1"}})
	}))
	defer server.Close()

	client, err := New(Config{BaseURL: server.URL, Token: "default-token"})
	require.NoError(t, err)

	ctx := context.Background()
	scope := EntityRequest{AppName: "a", EnvName: "e", EntityName: "x"}
	payload := []models.EntityRecord{{"t": "v"}}

	// Default token applies when no override is given.
	_, err = client.WriteEntities(ctx, WriteEntitiesRequest{EntityRequest: scope, Payload: payload})
	require.NoError(t, err)

	// A per-call override wins over the default.
	override := scope
	override.Token = "override-token"
	_, err = client.WriteEntities(ctx, WriteEntitiesRequest{EntityRequest: override, Payload: payload})
	require.NoError(t, err)

	// SetToken replaces the default for subsequent calls.
	client.SetToken("new-default")
	_, err = client.WriteEntities(ctx, WriteEntitiesRequest{EntityRequest: scope, Payload: payload})
	require.NoError(t, err)

	assert.Equal(t, []string{"default-token", "override-token", "new-default"}, seenTokens)
}

func TestServiceErrorCarriesBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"token expired"}`))
	}))
	defer server.Close()

	client, err := New(Config{BaseURL: server.URL, Token: "tok"})
	require.NoError(t, err)

	_, err = client.GetEntity(context.Background(), GetEntityRequest{
		EntityRequest: EntityRequest{AppName: "a", EnvName: "e", EntityName: "x"},
		EntityID:      "1",
	})

	require.Error(t, err)
	se, ok := IsServiceError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, se.StatusCode)
	assert.Contains(t, se.Error(), "token expired")
	assert.False(t, se.NotFound())
}

func TestTransportErrorPropagatesUnmodified(t *testing.T) {
	// Nothing listens here; the http.Client's own error must come back,
	// not a ServiceError.
	client, err := New(Config{BaseURL: "http://127.0.0.1:1", Token: "tok"})
	require.NoError(t, err)

	_, err = client.GetEntities(context.Background(), GetEntitiesRequest{
		EntityRequest: EntityRequest{AppName: "a", EnvName: "e", EntityName: "x"},
	})

	require.Error(t, err)
	_, isService := IsServiceError(err)
	assert.False(t, isService)
	assert.False(t, IsConfigurationError(err))
}

func TestRequestHeaders(t *testing.T) {
	var gotContentType, gotUserAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		gotUserAgent = r.Header.Get("User-Agent")
		json.NewEncoder(w).Encode(map[string]any{"ids": []string{"1"}})
	}))
	defer server.Close()

	client, err := New(Config{BaseURL: server.URL, Token: "tok"})
	require.NoError(t, err)

	_, err = client.WriteEntities(context.Background(), WriteEntitiesRequest{
		EntityRequest: EntityRequest{AppName: "a", EnvName: "e", EntityName: "x"},
		Payload:       []models.EntityRecord{{"t": "v"}},
	})
	require.NoError(t, err)

	assert.Equal(t, "application/json", gotContentType)
	assert.Contains(t, gotUserAgent, "nodb-go/")
}
