package testutil

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync"
	"testing"
)

// ArchiveServer is an httptest server serving fixed pages and files by path,
// counting every request so tests can assert how often each path was fetched.
type ArchiveServer struct {
	*httptest.Server

	mu       sync.Mutex
	routes   map[string]http.HandlerFunc
	requests map[string]int
}

// NewArchiveServer starts a server that answers 404 for every unregistered path.
// It is closed automatically when the test ends.
func NewArchiveServer(t *testing.T) *ArchiveServer {
	t.Helper()
	s := &ArchiveServer{
		routes:   make(map[string]http.HandlerFunc),
		requests: make(map[string]int),
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	t.Cleanup(s.Close)
	return s
}

func (s *ArchiveServer) serve(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.requests[r.URL.Path]++
	h, ok := s.routes[r.URL.Path]
	s.mu.Unlock()

	if !ok {
		http.NotFound(w, r)
		return
	}
	h(w, r)
}

// Handle registers a handler for an unescaped path such as "/igcse/Chemistry (0620)/2014"
func (s *ArchiveServer) Handle(path string, h http.HandlerFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.routes[path] = h
}

// HTML serves a page at path
func (s *ArchiveServer) HTML(path, body string) {
	s.Handle(path, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(body))
	})
}

// File serves binary content at path with a Content-Length header
func (s *ArchiveServer) File(path string, content []byte) {
	s.Handle(path, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Length", strconv.Itoa(len(content)))
		_, _ = w.Write(content)
	})
}

// Requests returns how many times path was requested
func (s *ArchiveServer) Requests(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests[path]
}

// TotalRequests returns the number of requests received on any path
func (s *ArchiveServer) TotalRequests() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, n := range s.requests {
		total += n
	}
	return total
}

// URLFor returns the absolute URL for an unescaped path
func (s *ArchiveServer) URLFor(path string) string {
	u := url.URL{Path: path}
	return s.URL + u.EscapedPath()
}
