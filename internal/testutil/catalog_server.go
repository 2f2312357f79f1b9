package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
)

// DefaultCreatures is the catalog served by NewCatalogServer.
var DefaultCreatures = []string{
	"bulbasaur", "ivysaur", "venusaur", "charmander", "charmeleon",
	"charizard", "squirtle", "wartortle",
}

// CatalogServer is a fake of the public catalog API.
type CatalogServer struct {
	*httptest.Server

	creatures []string

	mu            sync.Mutex
	listRequests  int
	detailHits    map[string]int
	failingDetail map[string]int
	failingList   int
	headers       []http.Header
}

// NewCatalogServer starts a fake catalog serving creatures. It is closed with the test.
func NewCatalogServer(t *testing.T, creatures ...string) *CatalogServer {
	t.Helper()
	if len(creatures) == 0 {
		creatures = DefaultCreatures
	}

	s := &CatalogServer{
		creatures:     creatures,
		detailHits:    map[string]int{},
		failingDetail: map[string]int{},
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/pokemon", s.handleList)
	mux.HandleFunc("/pokemon/", s.handleDetail)
	s.Server = httptest.NewServer(mux)
	t.Cleanup(s.Close)
	return s
}

// FailDetail makes the detail endpoint of name answer with status.
func (s *CatalogServer) FailDetail(name string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failingDetail[name] = status
}

// FailList makes the listing endpoint answer with status.
func (s *CatalogServer) FailList(status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failingList = status
}

// ListRequests returns how many listing requests were served.
func (s *CatalogServer) ListRequests() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listRequests
}

// DetailRequests returns how many detail requests were served for name.
func (s *CatalogServer) DetailRequests(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.detailHits[name]
}

// Headers returns the headers of every request received.
func (s *CatalogServer) Headers() []http.Header {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]http.Header(nil), s.headers...)
}

func (s *CatalogServer) handleList(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.listRequests++
	s.headers = append(s.headers, r.Header.Clone())
	failing := s.failingList
	s.mu.Unlock()
	if failing != 0 {
		http.Error(w, "unavailable", failing)
		return
	}

	limit := queryInt(r, "limit", 20)
	offset := queryInt(r, "offset", 0)
	end := min(offset+limit, len(s.creatures))
	start := min(offset, end)

	results := make([]map[string]string, 0, end-start)
	for i := start; i < end; i++ {
		results = append(results, map[string]string{
			"name": s.creatures[i],
			"url":  fmt.Sprintf("%s/pokemon/%d/", s.URL, i+1),
		})
	}

	var next, previous *string
	if end < len(s.creatures) {
		v := fmt.Sprintf("%s/pokemon?offset=%d&limit=%d", s.URL, end, limit)
		next = &v
	}
	if start > 0 {
		v := fmt.Sprintf("%s/pokemon?offset=%d&limit=%d", s.URL, max(start-limit, 0), limit)
		previous = &v
	}

	writeJSON(w, map[string]any{
		"count":    len(s.creatures),
		"next":     next,
		"previous": previous,
		"results":  results,
	})
}

func (s *CatalogServer) handleDetail(w http.ResponseWriter, r *http.Request) {
	ref := strings.Trim(strings.TrimPrefix(r.URL.Path, "/pokemon/"), "/")
	index := -1
	if id, err := strconv.Atoi(ref); err == nil {
		index = id - 1
	} else {
		for i, name := range s.creatures {
			if name == ref {
				index = i
			}
		}
	}
	if index < 0 || index >= len(s.creatures) {
		http.NotFound(w, r)
		return
	}
	name := s.creatures[index]

	s.mu.Lock()
	s.detailHits[name]++
	s.headers = append(s.headers, r.Header.Clone())
	failing := s.failingDetail[name]
	s.mu.Unlock()
	if failing != 0 {
		http.Error(w, "unavailable", failing)
		return
	}

	writeJSON(w, map[string]any{
		"id":   index + 1,
		"name": name,
		"sprites": map[string]any{
			"front_default": fmt.Sprintf("%s/sprites/%d.png", s.URL, index+1),
		},
		"types": []map[string]any{
			{"slot": 1, "type": map[string]string{"name": "grass"}},
			{"slot": 2, "type": map[string]string{"name": "poison"}},
		},
		"abilities": []map[string]any{
			{"ability": map[string]string{"name": "overgrow"}, "is_hidden": false},
		},
	})
}

func queryInt(r *http.Request, key string, fallback int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return fallback
	}
	return v
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(v)
}
