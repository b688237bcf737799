package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

type staticTokens struct {
	token *oauth2.Token
	err   error
}

func (s staticTokens) Get() (*oauth2.Token, error) {
	return s.token, s.err
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	tokens := staticTokens{token: &oauth2.Token{AccessToken: "tok-1", TokenType: "bearer"}}
	return NewClient(ts.URL+"/v2/", tokens, ts.Client(), zerolog.Nop())
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func TestClient_ListAnimals(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/animals", r.URL.Path)
		assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		assert.Equal(t, "dog", r.URL.Query().Get("type"))
		assert.Equal(t, "20", r.URL.Query().Get("limit"))
		assert.Equal(t, "80302", r.URL.Query().Get("location"))
		assert.Empty(t, r.URL.Query().Get("page"))

		writeJSON(t, w, map[string]any{
			"animals": []map[string]any{
				{"id": 1, "name": "Rex", "photos": []map[string]string{{"medium": "https://img/1.jpg"}}},
				{"id": 2, "name": "Shy", "photos": []map[string]string{}},
			},
			"pagination": map[string]any{"count_per_page": 20},
		})
	})

	animals, err := client.ListAnimals(context.Background(), ListQuery{Type: "dog", Limit: 20, Location: "80302"})
	require.NoError(t, err)
	require.Len(t, animals, 2)
	assert.Equal(t, int64(1), animals[0].ID)
	assert.True(t, animals[0].HasPhotos())
	assert.Equal(t, "https://img/1.jpg", animals[0].CoverPhoto())
	assert.False(t, animals[1].HasPhotos())
}

func TestClient_GetAnimal(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/animals/123", r.URL.Path)
		writeJSON(t, w, map[string]any{
			"animal": map[string]any{
				"id":     123,
				"name":   "Buddy",
				"breeds": map[string]any{"primary": "Labrador Retriever", "secondary": nil, "mixed": false},
				"contact": map[string]any{
					"email":   "shelter@example.org",
					"address": map[string]any{"city": "Denver", "state": "CO"},
				},
				"published_at": "2024-03-01T12:00:00+0000",
			},
		})
	})

	animal, err := client.GetAnimal(context.Background(), 123)
	require.NoError(t, err)
	assert.Equal(t, "Buddy", animal.Name)
	assert.Equal(t, "Labrador Retriever", animal.Breeds.Primary)
	assert.Nil(t, animal.Breeds.Secondary)
	assert.Equal(t, "Denver", animal.Contact.Address.City)
	assert.Empty(t, animal.CoverPhoto())
}

func TestClient_GetAnimalNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"title":"Not Found"}`, http.StatusNotFound)
	})

	_, err := client.GetAnimal(context.Background(), 9)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrUpstream))
}

func TestClient_UpstreamErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"unauthorized", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"title":"Unauthorized"}`, http.StatusUnauthorized)
		}},
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "oops", http.StatusBadGateway)
		}},
		{"bad body", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("{not json"))
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, tt.handler)
			_, err := client.ListAnimals(context.Background(), ListQuery{})
			assert.True(t, errors.Is(err, ErrUpstream), "got %v", err)
		})
	}
}

func TestClient_NoTokenIsUpstreamFailure(t *testing.T) {
	called := false
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true }))
	t.Cleanup(ts.Close)

	client := NewClient(ts.URL, staticTokens{err: ErrNoToken}, ts.Client(), zerolog.Nop())
	_, err := client.GetAnimal(context.Background(), 1)
	assert.True(t, errors.Is(err, ErrUpstream))
	assert.False(t, called)
}

func TestClient_TransportFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := ts.URL
	ts.Close()

	client := NewClient(url, staticTokens{token: &oauth2.Token{AccessToken: "t"}}, nil, zerolog.Nop())
	_, err := client.GetAnimal(context.Background(), 1)
	assert.True(t, errors.Is(err, ErrUpstream))
}
