package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/multierr"

	"medrecord-registry/internal/model"
	"medrecord-registry/internal/ports/http/middleware/auth"
)

type retrievedRecord struct {
	PatientID string    `json:"patientID"`
	Name      string    `json:"name"`
	Diagnosis string    `json:"diagnosis"`
	DateAdded time.Time `json:"dateAdded"`
	Active    bool      `json:"active"`
}

func (ser *server) getRecord(w http.ResponseWriter, r *http.Request) {
	caller := auth.CallerFromRequest(r)
	patient := model.Identity(normalize(mux.Vars(r)["patientID"]))

	record, err := ser.app.ViewRecord(caller, patient)
	if err != nil {
		ser.respondError(w, err)
		return
	}

	ser.respondJSON(w, retrievedRecord{
		PatientID: record.PatientID.String(),
		Name:      record.PatientName,
		Diagnosis: record.Diagnosis,
		DateAdded: record.DateAdded,
		Active:    record.IsActive,
	})
}

func (ser *server) addRecord(w http.ResponseWriter, r *http.Request) {
	caller := auth.CallerFromRequest(r)
	patient := model.Identity(normalize(mux.Vars(r)["patientID"]))

	var body struct {
		Name      string `json:"name"`
		Diagnosis string `json:"diagnosis"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		ser.badRequest(w, "failed to parse the request body: "+err.Error())
		return
	}

	var err error
	if body.Name == "" {
		err = multierr.Append(err, errors.New("name is missing"))
	}
	if body.Diagnosis == "" {
		err = multierr.Append(err, errors.New("diagnosis is missing"))
	}
	if err != nil {
		ser.badRequest(w, err.Error())
		return
	}

	if err := ser.app.AddRecord(r.Context(), caller, patient, body.Name, body.Diagnosis); err != nil {
		ser.respondError(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
}

func (ser *server) updateRecord(w http.ResponseWriter, r *http.Request) {
	caller := auth.CallerFromRequest(r)
	patient := model.Identity(normalize(mux.Vars(r)["patientID"]))

	var body struct {
		Diagnosis string `json:"diagnosis"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		ser.badRequest(w, "failed to parse the request body: "+err.Error())
		return
	}
	if body.Diagnosis == "" {
		ser.badRequest(w, "diagnosis is missing")
		return
	}

	if err := ser.app.UpdateRecord(r.Context(), caller, patient, body.Diagnosis); err != nil {
		ser.respondError(w, err)
		return
	}
}

func (ser *server) setRecordStatus(w http.ResponseWriter, r *http.Request) {
	caller := auth.CallerFromRequest(r)
	patient := model.Identity(normalize(mux.Vars(r)["patientID"]))

	var body struct {
		Active *bool `json:"active"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		ser.badRequest(w, "failed to parse the request body: "+err.Error())
		return
	}
	if body.Active == nil {
		ser.badRequest(w, "active is missing")
		return
	}

	var err error
	if *body.Active {
		err = ser.app.ActivateRecord(r.Context(), caller, patient)
	} else {
		err = ser.app.DeactivateRecord(r.Context(), caller, patient)
	}
	if err != nil {
		ser.respondError(w, err)
		return
	}
}
