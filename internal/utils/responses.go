package utils

import (
	"encoding/json"
	"log"
	"net/http"
)

// JSONErrorData is the shape of a JSON error response
type JSONErrorData struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}

// WriteJSON converts the data into JSON-formatted string
// and writes the output to response
func WriteJSON(w http.ResponseWriter, r *http.Request, data any) {
	// Encode data to JSON
	jsonData, err := json.Marshal(data)
	if err != nil {
		log.Printf("Failed to encode JSON response on URI '%s': %v", r.RequestURI, err)
		HttpError(w, http.StatusInternalServerError)
		return
	}

	// Write to response
	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write(jsonData); err != nil {
		// Too late for recovery here, just log the error
		log.Printf("Failed to write JSON to response on URI '%s': %v", r.RequestURI, err)
	}
}

// JSONError writes a JSON error to response
func JSONError(w http.ResponseWriter, r *http.Request, statusCode int) {

	// Craft data
	data := JSONErrorData{
		Error: http.StatusText(statusCode),
		Code:  statusCode,
	}

	// Encode data to JSON
	jsonData, err := json.Marshal(data)
	if err != nil {
		log.Printf("Failed to encode JSON 'error' response on URI '%s': %v", r.RequestURI, err)
		HttpError(w, statusCode)
		return
	}

	// Set content type and status code before writing the response
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if _, err := w.Write(jsonData); err != nil {
		// Too late for recovery here, just log the error
		log.Printf("Failed to write JSON 'error' to response on URI '%s': %v", r.RequestURI, err)
	}
}
