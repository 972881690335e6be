package infrastructure

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"restauReserva/internal/modules/reservations/domain"
	"restauReserva/internal/platform/apiclient"
)

func newService(t *testing.T, handler http.HandlerFunc) *ReservationHTTPClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewReservationHTTPClient(apiclient.New(apiclient.Options{BaseURL: server.URL + "/api"}, nil, server.Client()))
}

func TestCreatePostsCommandAndReturnsCode(t *testing.T) {
	t.Parallel()

	var gotPath, gotMethod string
	var gotBody map[string]any
	svc := newService(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotMethod = r.URL.Path, r.Method
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id": 10, "restaurant_id": 2, "customer_dni": "123", "date": "2025-05-01", "code": "777111"}`))
	})

	cmd := domain.CreateReservationCommand{RestaurantID: "2", CustomerName: "Ana", CustomerEmail: "a@b.c", CustomerDNI: "123", Date: "2025-05-01"}
	created, err := svc.Create(context.Background(), cmd)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotMethod != http.MethodPost || gotPath != "/api/reservations/" {
		t.Fatalf("unexpected request: %s %s", gotMethod, gotPath)
	}
	for _, key := range []string{"restaurant_id", "customer_name", "customer_email", "customer_dni", "date"} {
		if _, ok := gotBody[key]; !ok {
			t.Fatalf("expected %s in body: %#v", key, gotBody)
		}
	}
	if created.Code != "777111" || created.ID != "10" {
		t.Fatalf("unexpected creation response: %#v", created)
	}
}

func TestListReturnsEveryReservation(t *testing.T) {
	t.Parallel()

	var gotQuery string
	svc := newService(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(`[{"id": 1, "restaurant_id": 1}, {"id": 2, "restaurant_id": 3}]`))
	})

	items, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotQuery != "" {
		t.Fatalf("list must not send filters, got %q", gotQuery)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
}

func TestFindByDniAndCode(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		body  string
		count int
	}{
		{name: "array", body: `[{"id": 5, "customer_dni": "123", "code": "abc"}]`, count: 1},
		{name: "empty array", body: `[]`, count: 0},
		{name: "object", body: `{"id": 5, "code": "abc"}`, count: 1},
		{name: "null", body: `null`, count: 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var gotPath string
			var gotDNI, gotCode string
			svc := newService(t, func(w http.ResponseWriter, r *http.Request) {
				gotPath = r.URL.Path
				gotDNI, gotCode = r.URL.Query().Get("dni"), r.URL.Query().Get("code")
				_, _ = w.Write([]byte(tc.body))
			})

			items, err := svc.FindByDniAndCode(context.Background(), domain.Lookup{DNI: " 123 ", Code: "abc"})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if gotPath != "/api/reservations/search/" || gotDNI != "123" || gotCode != "abc" {
				t.Fatalf("unexpected request: %s dni=%s code=%s", gotPath, gotDNI, gotCode)
			}
			if len(items) != tc.count {
				t.Fatalf("expected %d items, got %d", tc.count, len(items))
			}
		})
	}
}

func TestFindByDniAndCodeRequiresBothKeys(t *testing.T) {
	t.Parallel()

	called := false
	svc := newService(t, func(w http.ResponseWriter, r *http.Request) { called = true })
	_, err := svc.FindByDniAndCode(context.Background(), domain.Lookup{DNI: "123"})
	if !errors.Is(err, domain.ErrMissingLookupKey) {
		t.Fatalf("expected ErrMissingLookupKey, got %v", err)
	}
	if called {
		t.Fatal("no request expected")
	}
}

func TestUpdateDatePropagatesServerMessage(t *testing.T) {
	t.Parallel()

	var gotPath string
	var gotBody map[string]string
	svc := newService(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error": "No hay mesas disponibles para ese restaurante en esa fecha."}`))
	})

	_, err := svc.UpdateDate(context.Background(), "8", domain.UpdateDateCommand{Date: "2025-07-01"})
	apiErr, ok := apiclient.AsError(err)
	if !ok {
		t.Fatalf("expected *apiclient.Error, got %v", err)
	}
	if apiErr.Status != http.StatusBadRequest || apiErr.Message != "No hay mesas disponibles para ese restaurante en esa fecha." {
		t.Fatalf("unexpected error detail: %#v", apiErr)
	}
	if gotPath != "/api/reservations/8" || gotBody["date"] != "2025-07-01" {
		t.Fatalf("unexpected request: %s %#v", gotPath, gotBody)
	}
}

func TestDeleteUsesResourcePath(t *testing.T) {
	t.Parallel()

	var gotMethod, gotPath string
	svc := newService(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		_, _ = w.Write([]byte(`{"message": "Reserva eliminada"}`))
	})

	if err := svc.Delete(context.Background(), "8"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotMethod != http.MethodDelete || gotPath != "/api/reservations/8" {
		t.Fatalf("unexpected request: %s %s", gotMethod, gotPath)
	}
	if err := svc.Delete(context.Background(), " "); !errors.Is(err, apiclient.ErrMissingIdentifier) {
		t.Fatalf("expected ErrMissingIdentifier, got %v", err)
	}
}
