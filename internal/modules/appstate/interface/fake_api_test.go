package transport

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"

	"restauReserva/internal/modules/appstate/application/usecase"
	"restauReserva/internal/modules/appstate/infrastructure"
	reservationinfra "restauReserva/internal/modules/reservations/infrastructure"
	restaurantinfra "restauReserva/internal/modules/restaurants/infrastructure"
	"restauReserva/internal/platform/apiclient"
	"restauReserva/internal/platform/tokenstore"
)

type remoteRestaurant struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
	City    string `json:"city"`
}

type remoteReservation struct {
	ID            int    `json:"id"`
	RestaurantID  int    `json:"restaurant_id"`
	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email"`
	CustomerDNI   string `json:"customer_dni"`
	Date          string `json:"date"`
	Code          string `json:"code"`
}

// fakeAPI is a small in-memory stand-in for the reservation backend.
type fakeAPI struct {
	mu              sync.Mutex
	restaurants     []remoteRestaurant
	reservations    []remoteReservation
	nextID          int
	failRestaurants bool
	lastAuth        string
	calls           map[string]int
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		nextID: 100,
		calls:  map[string]int{},
		restaurants: []remoteRestaurant{
			{ID: 1, Name: "Astrid", Address: "Av. 1", City: "Lima"},
			{ID: 2, Name: "Central", Address: "Av. 2", City: "Lima"},
			{ID: 3, Name: "Amaz", Address: "Av. 3", City: "Cusco"},
		},
		reservations: []remoteReservation{
			{ID: 10, RestaurantID: 1, CustomerName: "Ana", CustomerDNI: "111", Date: "2030-01-01", Code: "AAA111"},
			{ID: 11, RestaurantID: 2, CustomerName: "Luis", CustomerDNI: "222", Date: "2030-01-02", Code: "BBB222"},
		},
	}
}

func (f *fakeAPI) count(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[key]
}

func (f *fakeAPI) failRestaurantCalls() {
	f.mu.Lock()
	f.failRestaurants = true
	f.mu.Unlock()
}

func (f *fakeAPI) authorization() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastAuth
}

func (f *fakeAPI) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/restaurants", f.listRestaurants)
	mux.HandleFunc("POST /api/restaurants", f.createRestaurant)
	mux.HandleFunc("PUT /api/restaurants/{id}", f.updateRestaurant)
	mux.HandleFunc("DELETE /api/restaurants/{id}", f.deleteRestaurant)
	mux.HandleFunc("GET /api/reservations/{$}", f.listReservations)
	mux.HandleFunc("POST /api/reservations/{$}", f.createReservation)
	mux.HandleFunc("GET /api/reservations/search/{$}", f.searchReservations)
	mux.HandleFunc("PUT /api/reservations/{id}", f.updateReservation)
	mux.HandleFunc("DELETE /api/reservations/{id}", f.deleteReservation)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.lastAuth = r.Header.Get("Authorization")
		f.calls[r.Method+" "+r.URL.Path]++
		f.mu.Unlock()
		mux.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func (f *fakeAPI) listRestaurants(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failRestaurants {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "db down"})
		return
	}
	city, letter := r.URL.Query().Get("city"), strings.ToLower(r.URL.Query().Get("letter"))
	out := []remoteRestaurant{}
	for _, item := range f.restaurants {
		if city != "" && item.City != city {
			continue
		}
		if letter != "" && !strings.HasPrefix(strings.ToLower(item.Name), letter) {
			continue
		}
		out = append(out, item)
	}
	writeJSON(w, http.StatusOK, out)
}

func (f *fakeAPI) createRestaurant(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failRestaurants {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "db down"})
		return
	}
	var item remoteRestaurant
	_ = json.NewDecoder(r.Body).Decode(&item)
	f.nextID++
	item.ID = f.nextID
	f.restaurants = append(f.restaurants, item)
	writeJSON(w, http.StatusCreated, item)
}

func (f *fakeAPI) updateRestaurant(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id, _ := strconv.Atoi(r.PathValue("id"))
	var item remoteRestaurant
	_ = json.NewDecoder(r.Body).Decode(&item)
	for i := range f.restaurants {
		if f.restaurants[i].ID == id {
			item.ID = id
			f.restaurants[i] = item
			writeJSON(w, http.StatusOK, item)
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"error": "Restaurant not found"})
}

func (f *fakeAPI) deleteRestaurant(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failRestaurants {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "db down"})
		return
	}
	id, _ := strconv.Atoi(r.PathValue("id"))
	kept := f.restaurants[:0]
	for _, item := range f.restaurants {
		if item.ID != id {
			kept = append(kept, item)
		}
	}
	f.restaurants = kept
	w.WriteHeader(http.StatusNoContent)
}

func (f *fakeAPI) listReservations(w http.ResponseWriter, _ *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	writeJSON(w, http.StatusOK, f.reservations)
}

func (f *fakeAPI) createReservation(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var body struct {
		RestaurantID  json.Number `json:"restaurant_id"`
		CustomerName  string      `json:"customer_name"`
		CustomerEmail string      `json:"customer_email"`
		CustomerDNI   string      `json:"customer_dni"`
		Date          string      `json:"date"`
	}
	err := json.NewDecoder(r.Body).Decode(&body)
	restaurantID, convErr := body.RestaurantID.Int64()
	if err != nil || convErr != nil {
		writeJSON(w, http.StatusBadRequest, map[string][]string{"restaurant_id": {"Not a valid integer."}})
		return
	}
	item := remoteReservation{
		RestaurantID:  int(restaurantID),
		CustomerName:  body.CustomerName,
		CustomerEmail: body.CustomerEmail,
		CustomerDNI:   body.CustomerDNI,
		Date:          body.Date,
	}
	if item.RestaurantID == 999 {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Restaurant not found"})
		return
	}
	f.nextID++
	item.ID = f.nextID
	item.Code = "NEW" + strconv.Itoa(item.ID)
	f.reservations = append(f.reservations, item)
	writeJSON(w, http.StatusCreated, item)
}

func (f *fakeAPI) searchReservations(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	dni, code := r.URL.Query().Get("dni"), r.URL.Query().Get("code")
	out := []remoteReservation{}
	for _, item := range f.reservations {
		if item.CustomerDNI == dni && item.Code == code {
			out = append(out, item)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (f *fakeAPI) updateReservation(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id, _ := strconv.Atoi(r.PathValue("id"))
	var body struct {
		Date string `json:"date"`
	}
	_ = json.NewDecoder(r.Body).Decode(&body)
	if body.Date < "2000-01-01" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Date must be in the future"})
		return
	}
	for i := range f.reservations {
		if f.reservations[i].ID == id {
			f.reservations[i].Date = body.Date
			writeJSON(w, http.StatusOK, f.reservations[i])
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"error": "Reservation not found"})
}

func (f *fakeAPI) deleteReservation(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id, _ := strconv.Atoi(r.PathValue("id"))
	for i, item := range f.reservations {
		if item.ID == id {
			f.reservations = append(f.reservations[:i], f.reservations[i+1:]...)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"error": "Reservation not found"})
}

type gateway struct {
	api     *fakeAPI
	store   *usecase.Store
	tokens  *tokenstore.MemoryStore
	hub     *infrastructure.Hub
	handler *Handler
	echo    *echo.Echo
}

const testTokenKey = "RestauReserva-jwt"

// newGateway wires the real HTTP services, store and routes against a fake backend.
func newGateway(t *testing.T) *gateway {
	t.Helper()
	api := newFakeAPI()
	server := httptest.NewServer(api.handler())
	t.Cleanup(server.Close)

	tokens := tokenstore.NewMemoryStore()
	client := apiclient.New(apiclient.Options{BaseURL: server.URL + "/api"}, tokens, server.Client())
	hub := infrastructure.NewHub()
	store := usecase.NewStore(
		restaurantinfra.NewRestaurantHTTPClient(client),
		reservationinfra.NewReservationHTTPClient(client),
		usecase.WithNotifier(hub),
	)
	handler := NewHandler(store, tokens, client.TokenKey(), hub)
	e := echo.New()
	handler.Register(e)
	return &gateway{api: api, store: store, tokens: tokens, hub: hub, handler: handler, echo: e}
}

func (g *gateway) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	g.echo.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return out
}
