package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/at-ishikawa/pokejournal/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPClient_FetchPage(t *testing.T) {
	server := testutil.NewCatalogServer(t)

	tests := []struct {
		name      string
		cursor    func(first *Page) string
		wantNames []string
		wantNext  bool
	}{
		{
			name:      "first page",
			cursor:    func(*Page) string { return "" },
			wantNames: []string{"bulbasaur", "ivysaur", "venusaur"},
			wantNext:  true,
		},
		{
			name:      "offset cursor",
			cursor:    func(*Page) string { return "6" },
			wantNames: []string{"squirtle", "wartortle"},
			wantNext:  false,
		},
		{
			name:      "next url cursor",
			cursor:    func(first *Page) string { return first.Next },
			wantNames: []string{"charmander", "charmeleon", "charizard"},
			wantNext:  true,
		},
	}

	client := NewHTTPClient(Config{BaseURL: server.URL, PageSize: 3})
	defer func() {
		_ = client.Close()
	}()
	first, err := client.FetchPage(context.Background(), "")
	require.NoError(t, err)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cursor := tt.cursor(first)
			page, err := client.FetchPage(context.Background(), cursor)
			require.NoError(t, err)

			names := make([]string, 0, len(page.Items))
			for _, item := range page.Items {
				names = append(names, item.Name)
			}
			assert.Equal(t, tt.wantNames, names)
			assert.Equal(t, tt.wantNext, page.HasNext())
			assert.Equal(t, len(testutil.DefaultCreatures), page.Count)
			assert.Equal(t, cursor, page.Cursor)
		})
	}

	for _, header := range server.Headers() {
		assert.Equal(t, "no-cache", header.Get("Cache-Control"))
	}
}

func TestHTTPClient_FetchPage_InvalidOffset(t *testing.T) {
	client := NewHTTPClient(Config{BaseURL: "http://127.0.0.1:1"})
	_, err := client.FetchPage(context.Background(), "-3")
	assert.Error(t, err)
}

func TestHTTPClient_FetchDetail(t *testing.T) {
	server := testutil.NewCatalogServer(t)
	client := NewHTTPClient(Config{BaseURL: server.URL})

	want := &Detail{
		ID:        4,
		Name:      "charmander",
		Types:     []string{"grass", "poison"},
		Abilities: []string{"overgrow"},
		SpriteURL: server.URL + "/sprites/4.png",
	}

	tests := []struct {
		name string
		ref  string
	}{
		{name: "reference url", ref: server.URL + "/pokemon/4/"},
		{name: "numeric id", ref: "4"},
		{name: "name with different case", ref: " Charmander "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := client.FetchDetail(context.Background(), tt.ref)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestHTTPClient_Errors(t *testing.T) {
	tests := []struct {
		name           string
		status         int
		retryAttempts  uint
		wantStatusCode int
		wantRequests   int32
	}{
		{
			name:           "not found is not retried",
			status:         http.StatusNotFound,
			retryAttempts:  2,
			wantStatusCode: http.StatusNotFound,
			wantRequests:   1,
		},
		{
			name:           "server error without retries",
			status:         http.StatusInternalServerError,
			wantStatusCode: http.StatusInternalServerError,
			wantRequests:   1,
		},
		{
			name:           "server error with retries",
			status:         http.StatusServiceUnavailable,
			retryAttempts:  2,
			wantStatusCode: http.StatusServiceUnavailable,
			wantRequests:   3,
		},
		{
			name:           "rate limited with retries",
			status:         http.StatusTooManyRequests,
			retryAttempts:  1,
			wantStatusCode: http.StatusTooManyRequests,
			wantRequests:   2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var requests atomic.Int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				requests.Add(1)
				http.Error(w, "failure", tt.status)
			}))
			defer server.Close()

			client := NewHTTPClient(Config{
				BaseURL:       server.URL,
				RetryAttempts: tt.retryAttempts,
				RetryDelay:    time.Millisecond,
			})
			_, err := client.FetchDetail(context.Background(), "pikachu")
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrNetwork)

			var networkErr *NetworkError
			require.True(t, errors.As(err, &networkErr))
			assert.Equal(t, tt.wantStatusCode, networkErr.StatusCode)
			assert.Equal(t, "/pokemon/pikachu", networkErr.URL)
			assert.Equal(t, tt.wantRequests, requests.Load())
		})
	}
}

func TestHTTPClient_RetryRecovers(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if requests.Add(1) == 1 {
			http.Error(w, "busy", http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":25,"name":"pikachu","sprites":{"front_default":null},"types":[{"type":{"name":"electric"}}],"abilities":[]}`))
	}))
	defer server.Close()

	client := NewHTTPClient(Config{BaseURL: server.URL, RetryAttempts: 1, RetryDelay: time.Millisecond})
	got, err := client.FetchDetail(context.Background(), "25")
	require.NoError(t, err)
	assert.Equal(t, &Detail{ID: 25, Name: "pikachu", Types: []string{"electric"}, Abilities: []string{}}, got)
	assert.Equal(t, int32(2), requests.Load())
}

func TestHTTPClient_TransportFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client := NewHTTPClient(Config{BaseURL: url})
	_, err := client.FetchPage(context.Background(), "")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNetwork)

	var networkErr *NetworkError
	require.True(t, errors.As(err, &networkErr))
	assert.Zero(t, networkErr.StatusCode)
}
