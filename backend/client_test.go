package backend

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"go.uber.org/zap"
)

func TestClientAttachesBearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"ok": true}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, zap.NewNop())
	var out map[string]bool
	if err := client.Get(context.Background(), "token-123", "/ping/", nil, &out); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if gotAuth != "Bearer token-123" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if !out["ok"] {
		t.Error("response not decoded")
	}
}

func TestClientOmitsAuthWhenTokenEmpty(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, zap.NewNop())
	if err := client.Post(context.Background(), "", "/auth/send-otp/", map[string]string{"mobile": "9999"}, nil); err != nil {
		t.Fatalf("Post: %v", err)
	}
	if gotAuth != "" {
		t.Errorf("Authorization = %q, want none", gotAuth)
	}
}

func TestClientMaps401ToErrUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail": "token expired"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, zap.NewNop())
	err := client.Get(context.Background(), "stale", "/bookings/", nil, nil)
	if !errors.Is(err, ErrUnauthorized) {
		t.Errorf("err = %v, want ErrUnauthorized", err)
	}
}

func TestClientFlattensValidationErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"scheduled_date": ["Date cannot be in the past."]}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, zap.NewNop())
	err := client.Post(context.Background(), "tok", "/bookings/", map[string]string{}, nil)

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want *APIError", err)
	}
	if apiErr.Status != http.StatusBadRequest {
		t.Errorf("Status = %d", apiErr.Status)
	}
	if apiErr.Message != "scheduled_date: Date cannot be in the past." {
		t.Errorf("Message = %q", apiErr.Message)
	}
}

func TestClientEncodesQuery(t *testing.T) {
	var gotQuery url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, zap.NewNop())
	query := url.Values{"search": {"asha rao"}, "staff": {"true"}}
	if _, err := client.GetRaw(context.Background(), "tok", "/crm/users/", query); err != nil {
		t.Fatalf("GetRaw: %v", err)
	}
	if gotQuery.Get("search") != "asha rao" || gotQuery.Get("staff") != "true" {
		t.Errorf("query = %v", gotQuery)
	}
}
