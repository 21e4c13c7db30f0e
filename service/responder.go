package service

import (
	"net/http"

	"github.com/go-chi/render"
)

// registration calls answer with `status`, dispatch calls with `success`;
// both shapes carry a human-readable message and never leak internal causes.

type statusResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
}

type pushResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type healthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func sendStatus(w http.ResponseWriter, r *http.Request, code int, ok bool, message string) {
	render.Status(r, code)
	render.JSON(w, r, &statusResponse{
		Status:  ok,
		Message: message,
	})
}

func sendPushResult(w http.ResponseWriter, r *http.Request, code int, ok bool, message string) {
	render.Status(r, code)
	render.JSON(w, r, &pushResponse{
		Success: ok,
		Message: message,
	})
}
