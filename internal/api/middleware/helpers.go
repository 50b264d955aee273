package middleware

import (
	"encoding/json"
	"net/http"
)

// writeJSONError mirrors the handlers' error envelope so middleware
// rejections carry the same content type as everything else.
func writeJSONError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
