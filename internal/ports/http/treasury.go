package http

import (
	"encoding/json"
	"net/http"

	"medrecord-registry/internal/ports/http/middleware/auth"
)

func (ser *server) deposit(w http.ResponseWriter, r *http.Request) {
	caller := auth.CallerFromRequest(r)

	var body struct {
		Amount uint64 `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		ser.badRequest(w, "failed to parse the request body: "+err.Error())
		return
	}

	if err := ser.app.Deposit(r.Context(), caller, body.Amount); err != nil {
		ser.respondError(w, err)
		return
	}
}

func (ser *server) withdraw(w http.ResponseWriter, r *http.Request) {
	caller := auth.CallerFromRequest(r)

	amount, err := ser.app.Withdraw(r.Context(), caller)
	if err != nil {
		ser.respondError(w, err)
		return
	}

	ser.respondJSON(w, struct {
		Amount uint64 `json:"amount"`
	}{Amount: amount})
}
