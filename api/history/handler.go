package history

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"time"

	corehistory "github.com/kilianp07/pitwall/core/history"
)

// NewHandler returns an HTTP handler exposing prediction history via GET /api/predictions.
// Requests must include an Authorization header with "Bearer <token>" when token is non-empty.
// start and end are RFC3339 timestamps; track and driver filter ignoring case.
func NewHandler(store corehistory.Store, token string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if token != "" {
			auth := r.Header.Get("Authorization")
			if subtle.ConstantTimeCompare([]byte(auth), []byte("Bearer "+token)) != 1 {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
		}
		params := r.URL.Query()
		q := corehistory.Query{Track: params.Get("track"), Driver: params.Get("driver")}
		var err error
		if q.Start, err = parseTime(params.Get("start")); err != nil {
			http.Error(w, "invalid start: "+err.Error(), http.StatusBadRequest)
			return
		}
		if q.End, err = parseTime(params.Get("end")); err != nil {
			http.Error(w, "invalid end: "+err.Error(), http.StatusBadRequest)
			return
		}
		records, err := store.Query(r.Context(), q)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if records == nil {
			records = []corehistory.Record{}
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(records); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	})
}

func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339, s)
}
