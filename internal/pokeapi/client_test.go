package pokeapi_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/listenupapp/pokedex/internal/errors"
	"github.com/listenupapp/pokedex/internal/pokeapi"
)

const mockBase = "https://pokedex.test/api"

func newMockClient(t *testing.T, opts ...pokeapi.Option) (*pokeapi.Client, *httpmock.MockTransport) {
	t.Helper()
	transport := httpmock.NewMockTransport()
	base := []pokeapi.Option{pokeapi.WithHTTPClient(&http.Client{Transport: transport})}
	return pokeapi.New(mockBase, append(base, opts...)...), transport
}

func TestNew_Defaults(t *testing.T) {
	c := pokeapi.New("")
	assert.Equal(t, pokeapi.DefaultBaseURL, c.BaseURL())
	assert.False(t, c.HasToken())

	c = pokeapi.New("http://localhost:8080/api/")
	assert.Equal(t, "http://localhost:8080/api", c.BaseURL())
}

func TestClient_SetToken(t *testing.T) {
	c := pokeapi.New(mockBase, pokeapi.WithToken("  abc  "))
	assert.Equal(t, "abc", c.Token())
	assert.True(t, c.HasToken())

	c.SetToken("   ")
	assert.False(t, c.HasToken())
	assert.Empty(t, c.Token())
}

func TestClient_ListPokemon_SendsExactlyLimitAndOffset(t *testing.T) {
	client, transport := newMockClient(t)

	transport.RegisterResponderWithQuery(http.MethodGet, mockBase+"/pokemon/",
		map[string]string{"limit": "10", "offset": "20"},
		httpmock.NewStringResponder(http.StatusOK, `[{"id":21,"name":"spearow"}]`))

	list, err := client.ListPokemon(context.Background(), 10, 20)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "spearow", list[0].Name)
	assert.Equal(t, 1, transport.GetTotalCallCount())
}

func TestClient_ListPokemon_NullBodyIsEmptyPage(t *testing.T) {
	client, transport := newMockClient(t)
	transport.RegisterResponder(http.MethodGet, `=~^https://pokedex\.test/api/pokemon/`,
		httpmock.NewStringResponder(http.StatusOK, `null`))

	list, err := client.ListPokemon(context.Background(), 10, 0)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestClient_BoxOperations_RequireToken(t *testing.T) {
	tests := []struct {
		name string
		call func(c *pokeapi.Client) error
	}{
		{"list", func(c *pokeapi.Client) error {
			_, err := c.ListBoxEntryIDs(context.Background())
			return err
		}},
		{"get", func(c *pokeapi.Client) error {
			_, err := c.GetBoxEntry(context.Background(), "a")
			return err
		}},
		{"create", func(c *pokeapi.Client) error {
			_, err := c.CreateBoxEntry(context.Background(), validInsert())
			return err
		}},
		{"update", func(c *pokeapi.Client) error {
			_, err := c.UpdateBoxEntry(context.Background(), "a", validUpdate())
			return err
		}},
		{"delete", func(c *pokeapi.Client) error {
			return c.DeleteBoxEntry(context.Background(), "a")
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limiter := &countingLimiter{}
			client, transport := newMockClient(t, pokeapi.WithToken("  "), pokeapi.WithLimiter(limiter))

			err := tt.call(client)
			require.Error(t, err)
			assert.ErrorIs(t, err, pokeapi.ErrAuthRequired)
			assert.ErrorIs(t, err, domainerrors.ErrAuthRequired)
			assert.Equal(t, 0, transport.GetTotalCallCount())
			assert.Equal(t, 0, limiter.calls)
		})
	}
}

func TestClient_Headers(t *testing.T) {
	var got http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`["a","b"]`))
	}))
	defer server.Close()

	client := pokeapi.New(server.URL, pokeapi.WithHTTPClient(server.Client()), pokeapi.WithToken(" secret\n"))

	ids, err := client.ListBoxEntryIDs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ids)

	assert.Equal(t, "Bearer secret", got.Get("Authorization"))
	assert.Equal(t, "application/json", got.Get("Accept"))
	assert.NotEmpty(t, got.Get("User-Agent"))
	assert.True(t, strings.HasPrefix(got.Get("X-Request-ID"), "req-"))
}

func TestClient_CreateBoxEntry_Body(t *testing.T) {
	var (
		contentType string
		body        string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/box/", r.URL.Path)
		contentType = r.Header.Get("Content-Type")
		raw, _ := io.ReadAll(r.Body)
		body = string(raw)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"e1","pokemonId":1,"location":"Route 1","level":5,"createdAt":"2025-03-01T10:00:00Z"}`))
	}))
	defer server.Close()

	client := pokeapi.New(server.URL, pokeapi.WithHTTPClient(server.Client()), pokeapi.WithToken("t"))

	entry, err := client.CreateBoxEntry(context.Background(), validInsert())
	require.NoError(t, err)
	assert.Equal(t, "e1", entry.ID)
	assert.Equal(t, "application/json", contentType)
	assert.Contains(t, body, `"pokemonId":1`)
	assert.NotContains(t, body, "notes")
}

func TestClient_DeleteBoxEntry_NoContent(t *testing.T) {
	client, transport := newMockClient(t, pokeapi.WithToken("t"))
	transport.RegisterResponder(http.MethodDelete, mockBase+"/box/e1",
		httpmock.NewStringResponder(http.StatusNoContent, ""))

	require.NoError(t, client.DeleteBoxEntry(context.Background(), "e1"))
	assert.Equal(t, 1, transport.GetCallCountInfo()["DELETE "+mockBase+"/box/e1"])
}

func TestClient_ErrorNormalization(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantMessage string
		wantCode    string
	}{
		{
			name:        "json body",
			status:      http.StatusUnauthorized,
			body:        `{"message":"Invalid token","code":"UNAUTHORIZED"}`,
			wantMessage: "Invalid token",
			wantCode:    "UNAUTHORIZED",
		},
		{
			name:        "json body without message",
			status:      http.StatusBadRequest,
			body:        `{"code":"BAD_INPUT"}`,
			wantMessage: "An error occurred",
			wantCode:    "BAD_INPUT",
		},
		{
			name:        "plain text body",
			status:      http.StatusBadGateway,
			body:        "upstream down\n",
			wantMessage: "upstream down",
			wantCode:    "UNKNOWN",
		},
		{
			name:        "empty body uses status phrase",
			status:      http.StatusServiceUnavailable,
			wantMessage: "Service Unavailable",
			wantCode:    "UNKNOWN",
		},
		{
			name:        "unknown status without body",
			status:      599,
			wantMessage: "An error occurred",
			wantCode:    "UNKNOWN",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, transport := newMockClient(t, pokeapi.WithToken("t"))
			transport.RegisterResponder(http.MethodGet, mockBase+"/box/",
				httpmock.NewStringResponder(tt.status, tt.body))

			_, err := client.ListBoxEntryIDs(context.Background())
			require.Error(t, err)

			var httpErr *pokeapi.HTTPError
			require.ErrorAs(t, err, &httpErr)
			assert.Equal(t, tt.status, httpErr.Status)
			assert.Equal(t, tt.wantMessage, httpErr.Message)
			assert.Equal(t, tt.wantCode, httpErr.Code)

			var opErr *pokeapi.Error
			require.ErrorAs(t, err, &opErr)
			assert.Equal(t, "listBox", opErr.Op)

			assert.Equal(t, tt.wantMessage, pokeapi.Message(err))
			assert.Equal(t, tt.status, pokeapi.Status(err))
		})
	}
}

func TestHTTPError_MatchesDomainCodes(t *testing.T) {
	unauthorized := &pokeapi.HTTPError{Status: http.StatusUnauthorized, Message: "nope"}
	assert.True(t, unauthorized.Unauthorized())
	assert.ErrorIs(t, unauthorized, domainerrors.ErrUnauthorized)
	assert.NotErrorIs(t, unauthorized, domainerrors.ErrForbidden)

	forbidden := &pokeapi.HTTPError{Status: http.StatusForbidden}
	assert.True(t, forbidden.Forbidden())
	assert.ErrorIs(t, forbidden, domainerrors.ErrForbidden)

	missing := &pokeapi.HTTPError{Status: http.StatusNotFound}
	assert.True(t, missing.NotFound())
	assert.ErrorIs(t, missing, domainerrors.ErrNotFound)
}

func TestClient_DecodeFailure(t *testing.T) {
	client, transport := newMockClient(t)
	transport.RegisterResponder(http.MethodGet, mockBase+"/pokemon/pikachu",
		httpmock.NewStringResponder(http.StatusOK, `{not json`))

	_, err := client.GetPokemonByName(context.Background(), "pikachu")
	require.Error(t, err)

	var opErr *pokeapi.Error
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, "getPokemon", opErr.Op)
	assert.Equal(t, "pikachu", opErr.Ref)
	assert.Contains(t, err.Error(), "parse response")
	assert.ErrorIs(t, err, domainerrors.ErrInternal)
}

func TestClient_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()
	client := pokeapi.New(server.URL, pokeapi.WithHTTPClient(server.Client()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.ListPokemon(ctx, 10, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, err, domainerrors.ErrInternal)
	assert.Zero(t, pokeapi.Status(err))
}

func TestClient_LimiterKeyedByFamily(t *testing.T) {
	limiter := &countingLimiter{}
	client, transport := newMockClient(t, pokeapi.WithToken("t"), pokeapi.WithLimiter(limiter))
	transport.RegisterResponder(http.MethodGet, `=~/pokemon/`, httpmock.NewStringResponder(http.StatusOK, `[]`))
	transport.RegisterResponder(http.MethodGet, mockBase+"/box/", httpmock.NewStringResponder(http.StatusOK, `[]`))

	_, err := client.ListPokemon(context.Background(), 10, 0)
	require.NoError(t, err)
	_, err = client.ListBoxEntryIDs(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"pokemon", "box"}, limiter.keys)
}
