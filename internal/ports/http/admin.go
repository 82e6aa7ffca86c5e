package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"medrecord-registry/internal/model"
	"medrecord-registry/internal/ports/http/middleware/auth"
)

func (ser *server) activateContract(w http.ResponseWriter, r *http.Request) {
	caller := auth.CallerFromRequest(r)

	if err := ser.app.ActivateContract(r.Context(), caller); err != nil {
		ser.respondError(w, err)
		return
	}
}

func (ser *server) deactivateContract(w http.ResponseWriter, r *http.Request) {
	caller := auth.CallerFromRequest(r)

	if err := ser.app.DeactivateContract(r.Context(), caller); err != nil {
		ser.respondError(w, err)
		return
	}
}

func (ser *server) authorizeDoctor(w http.ResponseWriter, r *http.Request) {
	caller := auth.CallerFromRequest(r)
	doctor := model.Identity(normalize(mux.Vars(r)["doctorID"]))

	if err := ser.app.AuthorizeDoctor(r.Context(), caller, doctor); err != nil {
		ser.respondError(w, err)
		return
	}
}

func (ser *server) deauthorizeDoctor(w http.ResponseWriter, r *http.Request) {
	caller := auth.CallerFromRequest(r)
	doctor := model.Identity(normalize(mux.Vars(r)["doctorID"]))

	if err := ser.app.DeauthorizeDoctor(r.Context(), caller, doctor); err != nil {
		ser.respondError(w, err)
		return
	}
}

func (ser *server) grantPrivilege(w http.ResponseWriter, r *http.Request) {
	caller := auth.CallerFromRequest(r)
	doctor := model.Identity(normalize(mux.Vars(r)["doctorID"]))

	if err := ser.app.GrantActivationPrivilege(r.Context(), caller, doctor); err != nil {
		ser.respondError(w, err)
		return
	}
}

func (ser *server) revokePrivilege(w http.ResponseWriter, r *http.Request) {
	caller := auth.CallerFromRequest(r)
	doctor := model.Identity(normalize(mux.Vars(r)["doctorID"]))

	if err := ser.app.RevokeActivationPrivilege(r.Context(), caller, doctor); err != nil {
		ser.respondError(w, err)
		return
	}
}
