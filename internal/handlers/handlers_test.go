package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"pantry/internal/db"
	dbmock "pantry/internal/db/mock"
	"pantry/internal/events"
	"pantry/internal/pantry"
)

const testApplicationID = "handlers-test"

type publisherMock struct {
	mock.Mock
}

func (m *publisherMock) Publish(ctx context.Context, event events.AmountChanged) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *publisherMock) Close() error {
	return m.Called().Error(0)
}

// withTestStore configures the handlers against a seeded in-memory store.
func withTestStore(t *testing.T, pub events.Publisher) *pantry.Repository {
	t.Helper()
	database, err := dbmock.New(context.Background(), testApplicationID)
	require.NoError(t, err)

	repo := pantry.NewRepository(database, testApplicationID)
	Configure(repo, pub)
	t.Cleanup(func() {
		Configure(nil, nil)
		_ = db.Close(database)
	})
	return repo
}

func testRouter() http.Handler {
	r := chi.NewRouter()
	r.Get(RouteHome, Home)
	r.Get("/healthz", Health)
	r.Route("/api/food-items", func(r chi.Router) {
		r.Get("/", ListFoodItems)
		r.Post("/", CreateFoodItem)
		r.Get("/{code}", ShowFoodItem)
		r.Patch("/{code}", EditFoodItem)
		r.Delete("/{code}", DeleteFoodItem)
		r.Post("/{code}/amount", AdjustFoodAmount)
	})
	return r
}

func serve(t *testing.T, method, target string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	if payload != nil {
		switch v := payload.(type) {
		case string:
			body.WriteString(v)
		default:
			require.NoError(t, json.NewEncoder(&body).Encode(v))
		}
	}
	req := httptest.NewRequest(method, target, &body)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	testRouter().ServeHTTP(rr, req)
	return rr
}

func decodeBody[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out), rr.Body.String())
	return out
}
