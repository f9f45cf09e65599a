package amplitude

import (
	"context"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/amptrack/amptrack/internal/event"
)

type capturedUpload struct {
	Events []map[string]any `json:"events"`
	APIKey string           `json:"api_key"`
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := NewClient("test-key", zerolog.Nop(), Options{Endpoint: srv.URL})
	return c, srv
}

func TestSendEvents(t *testing.T) {
	var got capturedUpload
	calls := 0
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type = %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decode upload: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"code":200,"events_ingested":1}`))
	})

	resp, err := c.SendEvents(context.Background(), []event.Event{{
		"event_type": "Page view",
		"device_id":  nil,
		"language":   "",
	}})
	if err != nil {
		t.Fatalf("SendEvents error: %v", err)
	}
	if calls != 1 {
		t.Errorf("server saw %d calls, want 1", calls)
	}
	if got.APIKey != "test-key" {
		t.Errorf("api_key = %q, want test-key", got.APIKey)
	}
	want := []map[string]any{{"event_type": "Page view"}}
	if !reflect.DeepEqual(got.Events, want) {
		t.Errorf("events = %#v, want %#v (empty fields must be sanitized)", got.Events, want)
	}
	if resp["code"] != float64(200) {
		t.Errorf("response not returned verbatim: %#v", resp)
	}
}

func TestSendEventsBadStatus(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"code":400,"error":"missing api_key"}`, http.StatusBadRequest)
	})
	_, err := c.SendEvents(context.Background(), []event.Event{{"event_type": "Page view"}})
	if !Error.Has(err) {
		t.Fatalf("expected amplitude client error, got %v", err)
	}
}

func TestSendEventsConnectionError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewClient("test-key", zerolog.Nop(), Options{Endpoint: url})
	_, err := c.SendEvents(context.Background(), []event.Event{{"event_type": "Page view"}})
	if !Error.Has(err) {
		t.Fatalf("expected amplitude client error, got %v", err)
	}
}
