// Package testutil provides testing utilities for the inventory client.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"time"
)

// MockResponse defines the behavior for a mock inventory endpoint response.
type MockResponse struct {
	StatusCode int
	Body       string
	Headers    map[string]string
	Delay      time.Duration
}

// MockInventory is a configurable mock inventory API server for testing.
type MockInventory struct {
	server   *httptest.Server
	mu       sync.RWMutex
	handlers map[string]func(w http.ResponseWriter, r *http.Request)

	// ExpectUsername and ExpectPassword, when set, make the server reject
	// requests without matching basic auth credentials.
	ExpectUsername string
	ExpectPassword string

	// Tracking
	RequestCount      int
	Offsets           []int
	LastRequestHeader http.Header
}

// NewMockInventory creates a new mock inventory server.
func NewMockInventory() *MockInventory {
	mock := &MockInventory{
		handlers: make(map[string]func(w http.ResponseWriter, r *http.Request)),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mock.mu.Lock()
		mock.RequestCount++
		mock.LastRequestHeader = r.Header.Clone()
		if offset, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil {
			mock.Offsets = append(mock.Offsets, offset)
		}
		expectUser, expectPass := mock.ExpectUsername, mock.ExpectPassword
		mock.mu.Unlock()

		if expectUser != "" {
			user, pass, ok := r.BasicAuth()
			if !ok || user != expectUser || pass != expectPass {
				w.WriteHeader(http.StatusUnauthorized)
				fmt.Fprint(w, `{"error": "unauthorized"}`)
				return
			}
		}

		mock.mu.RLock()
		handler, exists := mock.handlers[r.URL.Path]
		mock.mu.RUnlock()

		if exists {
			handler(w, r)
			return
		}

		mock.defaultHandler(w, r)
	}))

	return mock
}

// URL returns the mock server URL.
func (m *MockInventory) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockInventory) Close() {
	m.server.Close()
}

// Reset clears all tracking counters.
func (m *MockInventory) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RequestCount = 0
	m.Offsets = nil
	m.LastRequestHeader = nil
}

// SetHandler sets a custom handler for a specific path.
func (m *MockInventory) SetHandler(path string, handler func(w http.ResponseWriter, r *http.Request)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[path] = handler
}

// SetResponse configures a fixed response for a path.
func (m *MockInventory) SetResponse(path string, resp MockResponse) {
	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		if resp.Delay > 0 {
			time.Sleep(resp.Delay)
		}

		for key, value := range resp.Headers {
			w.Header().Set(key, value)
		}

		w.WriteHeader(resp.StatusCode)
		if resp.Body != "" {
			w.Write([]byte(resp.Body))
		}
	})
}

// ServeDevices configures a path to serve the given device collection in
// offset/limit pages, the way the real API does.
func (m *MockInventory) ServeDevices(path string, devices []map[string]any) {
	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
		limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
		if err != nil || limit <= 0 {
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprint(w, `{"error": "missing limit"}`)
			return
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(PageBody(len(devices), limit, offset, slicePage(devices, offset, limit))))
	})
}

// PageBody builds one wire-format page response body.
func PageBody(totalCount, limit, offset int, devices []map[string]any) string {
	if devices == nil {
		devices = []map[string]any{}
	}
	body, err := json.Marshal(map[string]any{
		"total_count": totalCount,
		"limit":       limit,
		"offset":      offset,
		"devices":     devices,
	})
	if err != nil {
		panic(fmt.Sprintf("testutil: marshal page body: %v", err))
	}
	return string(body)
}

// EmptyCollectionBody builds the short-form terminal response for an empty
// collection. Only total_count is present, as the real API allows.
func EmptyCollectionBody() string {
	return `{"total_count": 0}`
}

// Device builds a minimal valid raw device record.
func Device(id int, name, serial string) map[string]any {
	return map[string]any{
		"id":     id,
		"name":   name,
		"serial": serial,
	}
}

// Devices builds n sequential valid device records starting at id 1.
func Devices(n int) []map[string]any {
	out := make([]map[string]any, n)
	for i := range out {
		out[i] = Device(i+1, fmt.Sprintf("device-%03d", i+1), fmt.Sprintf("SN%06d", i+1))
	}
	return out
}

// GetRequestCount returns the number of requests made to the server.
func (m *MockInventory) GetRequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.RequestCount
}

// GetOffsets returns the offsets observed so far, in request order.
func (m *MockInventory) GetOffsets() []int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]int, len(m.Offsets))
	copy(out, m.Offsets)
	return out
}

// defaultHandler serves an empty terminal collection.
func (m *MockInventory) defaultHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(EmptyCollectionBody()))
}

// slicePage returns the offset/limit window of devices.
func slicePage(devices []map[string]any, offset, limit int) []map[string]any {
	if offset >= len(devices) {
		return nil
	}
	end := offset + limit
	if end > len(devices) {
		end = len(devices)
	}
	return devices[offset:end]
}

// NewServerErrorResponse creates a 500 Internal Server Error response.
func NewServerErrorResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusInternalServerError,
		Body:       `{"error": "internal server error"}`,
		Headers: map[string]string{
			"Content-Type": "application/json; charset=utf-8",
		},
	}
}

// NewNotFoundResponse creates a 404 Not Found response.
func NewNotFoundResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusNotFound,
		Body:       `{"error": "not found"}`,
		Headers: map[string]string{
			"Content-Type": "application/json; charset=utf-8",
		},
	}
}

// NewConditionalHandler creates a handler that responds with 304 when the
// request carries a matching If-None-Match header.
func NewConditionalHandler(etag string, body string) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")

		if r.Header.Get("If-None-Match") == etag {
			w.Header().Set("Expires", time.Now().Add(5*time.Minute).Format(http.TimeFormat))
			w.WriteHeader(http.StatusNotModified)
			return
		}

		w.Header().Set("ETag", etag)
		w.Header().Set("Expires", time.Now().Add(5*time.Minute).Format(http.TimeFormat))
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(body))
	}
}
