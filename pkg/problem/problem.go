// Package problem writes RFC 7807 problem details responses.
package problem

import (
	"encoding/json"
	"net/http"
)

const ContentType = "application/problem+json; charset=utf-8"

type Problem struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`
}

// New builds a problem; an empty title falls back to the status text.
func New(status int, title, detail string) Problem {
	if title == "" {
		title = http.StatusText(status)
	}
	return Problem{
		Type:   "about:blank",
		Title:  title,
		Status: status,
		Detail: detail,
	}
}

func Write(w http.ResponseWriter, status int, title, detail string) {
	WriteProblem(w, New(status, title, detail))
}

// WriteProblem writes p with its own status code.
func WriteProblem(w http.ResponseWriter, p Problem) {
	w.Header().Set("Content-Type", ContentType)
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(p.Status)
	_ = json.NewEncoder(w).Encode(p)
}
