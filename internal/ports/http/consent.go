package http

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"medrecord-registry/internal/model"
	"medrecord-registry/internal/ports/http/middleware/auth"
)

// setConsent toggles the caller's consent for the given doctor. The
// caller is always the patient; the registry checks they hold an active
// record.
func (ser *server) setConsent(w http.ResponseWriter, r *http.Request) {
	caller := auth.CallerFromRequest(r)
	doctor := model.Identity(normalize(mux.Vars(r)["doctorID"]))

	var body struct {
		Revoked *bool `json:"revoked"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		ser.badRequest(w, "failed to parse the request body: "+err.Error())
		return
	}
	if body.Revoked == nil {
		ser.badRequest(w, "revoked is missing")
		return
	}

	var err error
	if *body.Revoked {
		err = ser.app.RevokeConsent(r.Context(), caller, doctor)
	} else {
		err = ser.app.RestoreConsent(r.Context(), caller, doctor)
	}
	if err != nil {
		ser.respondError(w, err)
		return
	}
}
