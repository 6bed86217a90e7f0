package httpx

import (
	"encoding/json"
	"net/http"
)

// Every route answers with the same envelope: {"data": ..., "message": ...}.
type envelope struct {
	Data    any    `json:"data"`
	Message string `json:"message"`
}

func respond(w http.ResponseWriter, code int, data any, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(envelope{Data: data, Message: message})
}

func respondErr(w http.ResponseWriter, code int, message string) {
	respond(w, code, nil, message)
}
