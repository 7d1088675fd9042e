package gen

import (
	"encoding/json"
	"net/http"

	log "github.com/sirupsen/logrus"
)

// StubHandler answers backupprefs requests the way the MySonicWall
// endpoint does, with synthetic payloads. Smoke and load harnesses
// point the audit at a local server running this handler.
func StubHandler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/product/backupprefs", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "" {
			http.Error(w, `{"message":"authorization required"}`, http.StatusUnauthorized)
			return
		}

		serial := r.URL.Query().Get("serial")
		if serial == "" {
			http.Error(w, `{"message":"serial is required"}`, http.StatusBadRequest)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(GenerateBackupPrefs(serial)); err != nil {
			log.Warnf("Failed to encode synthetic payload %s", err.Error())
		}
	})
	return mux
}
