package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"pantry/internal/db"
	"pantry/internal/db/mock"
	"pantry/internal/events"
	"pantry/internal/handlers"
	"pantry/internal/middleware"
	"pantry/models"
)

func TestNewServesFoodItemsBehindAccessKey(t *testing.T) {
	database, err := mock.New(context.Background(), "kitchen")
	if err != nil {
		t.Fatalf("failed to open mock database: %v", err)
	}
	t.Cleanup(func() {
		handlers.Configure(nil, nil)
		_ = db.Close(database)
	})

	srv, err := New(Config{
		Addr:          ":8080",
		AccessKey:     "secret",
		ApplicationID: "kitchen",
		Database:      database,
		Publisher:     events.Nop{},
	})
	if err != nil {
		t.Fatalf("New() returned error: %v", err)
	}
	if srv.httpServer.Addr != ":8080" {
		t.Fatalf("expected server addr :8080, got %q", srv.httpServer.Addr)
	}

	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/food-items", nil))
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without access key, got %d", rr.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/food-items/101/amount", strings.NewReader(`{"method":"increment","amount":3}`))
	req.Header.Set(middleware.AccessKeyHeader, "secret")
	rr = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 for amount change, got %d: %s", rr.Code, rr.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/api/food-items/101", nil)
	req.Header.Set(middleware.AccessKeyHeader, "secret")
	rr = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, req)
	var item models.FoodItem
	if err := json.Unmarshal(rr.Body.Bytes(), &item); err != nil {
		t.Fatalf("failed to decode item: %v", err)
	}
	if item.AmountLasts != 5 {
		t.Fatalf("expected amountLasts 5, got %v", item.AmountLasts)
	}

	rr = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected home to require the access key, got %d", rr.Code)
	}
	if strings.Contains(rr.Body.String(), "Milk") {
		t.Fatalf("expected no items without access key, got %s", rr.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(middleware.AccessKeyHeader, "wrong")
	rr = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, req)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for a wrong key on home, got %d", rr.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(middleware.AccessKeyHeader, "secret")
	rr = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected home with access key to return 200, got %d", rr.Code)
	}
}

func TestNewRequiresApplicationIDWithDatabase(t *testing.T) {
	database, err := mock.Open(context.Background())
	if err != nil {
		t.Fatalf("failed to open mock database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close(database) })

	if _, err := New(Config{Addr: ":8080", Database: database}); err == nil {
		t.Fatal("expected error without application id")
	}
}

func TestServerHandler(t *testing.T) {
	srv, err := New(Config{Addr: ":9090"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() {
		handlers.Configure(nil, nil)
	})

	handler := srv.Handler()
	if handler == nil {
		t.Fatal("expected non-nil handler")
	}

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected /healthz to return 200, got %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/food-items", nil))
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 without a store, got %d", rr.Code)
	}
}
