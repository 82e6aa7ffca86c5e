package http

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"medrecord-registry/internal/model"
)

type retrievedEvent struct {
	Type      string    `json:"type"`
	At        time.Time `json:"at"`
	Actor     string    `json:"actor"`
	Patient   string    `json:"patient,omitempty"`
	Doctor    string    `json:"doctor,omitempty"`
	RequestID string    `json:"requestID,omitempty"`
	Field     string    `json:"field,omitempty"`
	Value     string    `json:"value,omitempty"`
	Amount    uint64    `json:"amount,omitempty"`
}

func (ser *server) getAuditTrail(w http.ResponseWriter, r *http.Request) {
	queryParams := r.URL.Query()
	patient := normalize(queryParams.Get("patient"))
	actor := normalize(queryParams.Get("actor"))

	ser.logger.Info("getting the audit trail", zap.String("patient", patient), zap.String("actor", actor))

	events, err := ser.app.GetAuditTrail(r.Context(), patient, actor)
	if err != nil {
		ser.respondError(w, err)
		return
	}

	retEvents := make([]retrievedEvent, len(events))
	for i, event := range events {
		retEvents[i] = assignEvent(event)
	}

	ser.respondJSON(w, retEvents)
}

func assignEvent(event model.Event) retrievedEvent {
	return retrievedEvent{
		Type:      string(event.Type),
		At:        event.At,
		Actor:     event.Actor.String(),
		Patient:   event.Patient.String(),
		Doctor:    event.Doctor.String(),
		RequestID: event.RequestID,
		Field:     event.Field,
		Value:     event.Value,
		Amount:    event.Amount,
	}
}
