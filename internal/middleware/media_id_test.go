package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fhuszti/medias-lifecycle-go/internal/api_context"
	"github.com/go-chi/chi/v5"
)

// mediaRouter mounts the per-media routes behind WithMediaID.
func mediaRouter(next http.HandlerFunc) http.Handler {
	r := chi.NewRouter()
	r.Route("/media/{id}", func(r chi.Router) {
		r.Use(WithMediaID())
		r.Get("/url", next)
		r.Post("/fixate", next)
		r.Delete("/", next)
	})
	return r
}

func TestWithMediaID(t *testing.T) {
	const validID = "aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee"

	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
		wantNext   bool
		wantErr    string
	}{
		{"url of valid id", http.MethodGet, "/media/" + validID + "/url", http.StatusNoContent, true, ""},
		{"fixate valid id", http.MethodPost, "/media/" + validID + "/fixate", http.StatusNoContent, true, ""},
		{"delete valid id", http.MethodDelete, "/media/" + validID + "/", http.StatusNoContent, true, ""},
		{"url of bad id", http.MethodGet, "/media/not-a-uuid/url", http.StatusBadRequest, false, `"not-a-uuid" is not a valid UUID`},
		{"fixate bad id", http.MethodPost, "/media/1234/fixate", http.StatusBadRequest, false, `"1234" is not a valid UUID`},
		{"delete bad id", http.MethodDelete, "/media/xyz/", http.StatusBadRequest, false, `"xyz" is not a valid UUID`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			nextCalled := false
			next := func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
				if id, ok := api_context.IDFromContext(r.Context()); ok {
					w.Header().Set("X-ID", id.String())
				}
				w.WriteHeader(http.StatusNoContent)
			}

			rec := httptest.NewRecorder()
			mediaRouter(next).ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, nil))

			if rec.Code != tc.wantStatus {
				t.Errorf("status = %d; want %d", rec.Code, tc.wantStatus)
			}
			if nextCalled != tc.wantNext {
				t.Errorf("nextCalled = %v; want %v", nextCalled, tc.wantNext)
			}
			if tc.wantNext {
				if got := rec.Header().Get("X-ID"); got != validID {
					t.Errorf("ID in context = %q; want %q", got, validID)
				}
				return
			}

			var body struct {
				Error string `json:"error"`
			}
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("decode error body: %v", err)
			}
			if !strings.Contains(body.Error, tc.wantErr) {
				t.Errorf("error = %q; want it to contain %q", body.Error, tc.wantErr)
			}
		})
	}
}

func TestWithMediaID_MissingParam(t *testing.T) {
	nextCalled := false
	h := WithMediaID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nextCalled = true
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/media/url", nil))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d; want %d", rec.Code, http.StatusBadRequest)
	}
	if nextCalled {
		t.Error("next must not run without an id")
	}
}
