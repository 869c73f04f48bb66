package web_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
)

const (
	testEmail    = "ada@example.com"
	testPassword = "secret-pass"
	testToken    = "tok-ada"
)

// fakeBackend is an in-memory prediction backend speaking the REST API.
type fakeBackend struct {
	mu        sync.Mutex
	revoked   bool
	unhealthy bool
	nextID    int
	predicts  int
	history   []map[string]any
	favorites []map[string]any
}

func newFakeBackend(t *testing.T) (*fakeBackend, *httptest.Server) {
	t.Helper()
	f := &fakeBackend{nextID: 1}
	srv := httptest.NewServer(f.routes())
	t.Cleanup(srv.Close)
	return f, srv
}

func (f *fakeBackend) revoke() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.revoked = true
}

func (f *fakeBackend) counts() (predicts, history, favorites int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.predicts, len(f.history), len(f.favorites)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (f *fakeBackend) authorized(w http.ResponseWriter, r *http.Request) bool {
	f.mu.Lock()
	revoked := f.revoked
	f.mu.Unlock()
	if revoked || r.Header.Get("Authorization") != "Bearer "+testToken {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Token is invalid or expired"})
		return false
	}
	return true
}

func (f *fakeBackend) id() int {
	id := f.nextID
	f.nextID++
	return id
}

func (f *fakeBackend) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /login", func(w http.ResponseWriter, r *http.Request) {
		var body struct{ Email, Password string }
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body.Email != testEmail || body.Password != testPassword {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid email or password"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"token": testToken,
			"user":  map[string]any{"id": 7, "name": "Ada Lovelace", "email": testEmail},
		})
	})

	mux.HandleFunc("POST /register", func(w http.ResponseWriter, r *http.Request) {
		var body struct{ Email string }
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body.Email == testEmail {
			writeJSON(w, http.StatusConflict, map[string]string{"error": "Email already registered"})
			return
		}
		writeJSON(w, http.StatusCreated, map[string]string{"message": "User created"})
	})

	mux.HandleFunc("POST /predict", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.predicts++
		f.mu.Unlock()
		writeJSON(w, http.StatusOK, map[string]any{
			"traffic_level": 1,
			"traffic_info": map[string]any{
				"level":       "moderate",
				"color":       "yellow",
				"description": "Moderate traffic",
				"avg_speed":   32.5,
			},
			"timestamp": "2026-10-17T08:30:00",
		})
	})

	mux.HandleFunc("GET /search-history", func(w http.ResponseWriter, r *http.Request) {
		if !f.authorized(w, r) {
			return
		}
		f.mu.Lock()
		defer f.mu.Unlock()
		writeJSON(w, http.StatusOK, map[string]any{"search_history": f.history})
	})

	mux.HandleFunc("POST /search-history", func(w http.ResponseWriter, r *http.Request) {
		if !f.authorized(w, r) {
			return
		}
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.mu.Lock()
		defer f.mu.Unlock()
		body["id"] = f.id()
		body["created_at"] = "2026-10-17T08:30:00"
		f.history = append([]map[string]any{body}, f.history...)
		writeJSON(w, http.StatusCreated, map[string]any{"id": body["id"]})
	})

	mux.HandleFunc("GET /favorites", func(w http.ResponseWriter, r *http.Request) {
		if !f.authorized(w, r) {
			return
		}
		f.mu.Lock()
		defer f.mu.Unlock()
		writeJSON(w, http.StatusOK, map[string]any{"favorites": f.favorites})
	})

	mux.HandleFunc("POST /favorites", func(w http.ResponseWriter, r *http.Request) {
		if !f.authorized(w, r) {
			return
		}
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.mu.Lock()
		defer f.mu.Unlock()
		body["id"] = f.id()
		f.favorites = append(f.favorites, body)
		writeJSON(w, http.StatusCreated, map[string]any{"id": body["id"]})
	})

	mux.HandleFunc("DELETE /favorites/{id}", func(w http.ResponseWriter, r *http.Request) {
		if !f.authorized(w, r) {
			return
		}
		f.mu.Lock()
		defer f.mu.Unlock()
		for i, fav := range f.favorites {
			if strconv.Itoa(fav["id"].(int)) == r.PathValue("id") {
				f.favorites = append(f.favorites[:i], f.favorites[i+1:]...)
				writeJSON(w, http.StatusOK, map[string]string{"message": "deleted"})
				return
			}
		}
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Favorite not found"})
	})

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		unhealthy := f.unhealthy
		f.mu.Unlock()
		if unhealthy {
			writeJSON(w, http.StatusOK, map[string]any{"status": "degraded", "model_available": false})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"status": "healthy", "model_available": true})
	})

	return mux
}
