package gee

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"landscape-monitor/internal/config"
)

func newTestClient(endpoint string) *Client {
	cfg := &config.ExportsConfig{
		Endpoint: endpoint,
		Timeout:  5 * time.Second,
	}
	retry := &config.RetryConfig{MaxRetries: 0, BaseDelay: 10 * time.Millisecond}
	return NewClient(cfg, retry, zerolog.Nop())
}

func TestClient_Fetch_Success(t *testing.T) {
	body := "zone,indicator,year,month,current,baseline\nzone_1,ndvi,2025,7,0.42,0.51\n"
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ndvi_evi_2025_07.csv" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(body))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	data, err := client.Fetch(context.Background(), "ndvi_evi_2025_07.csv")
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if string(data) != body {
		t.Errorf("Fetch() body mismatch")
	}
}

func TestClient_Fetch_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.Fetch(context.Background(), "climate_2025_07.csv")
	if !errors.Is(err, ErrExportNotFound) {
		t.Errorf("Fetch() error = %v, want ErrExportNotFound", err)
	}
}

func TestClient_Fetch_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.Fetch(context.Background(), "climate_2025_07.csv")
	if err == nil {
		t.Error("Fetch() should return error on 500")
	}
	if errors.Is(err, ErrExportNotFound) {
		t.Error("500 must not map to ErrExportNotFound")
	}
}

func TestRetryCondition(t *testing.T) {
	if !retryCondition(nil, errors.New("connection refused")) {
		t.Error("connection errors should be retried")
	}
	if retryCondition(nil, nil) {
		t.Error("nil response without error should not be retried")
	}
}
