package mongodb

import (
	"time"

	"medrecord-registry/internal/model"
)

type storedEvent struct {
	ID   string    `bson:"_id"`
	Type string    `bson:"type"`
	At   time.Time `bson:"at"`

	Actor   string `bson:"actor"`
	Patient string `bson:"patient,omitempty"`
	Doctor  string `bson:"doctor,omitempty"`

	RequestID string `bson:"requestID,omitempty"`
	Allowed   bool   `bson:"allowed,omitempty"`

	Field string `bson:"field,omitempty"`
	Value string `bson:"value,omitempty"`

	Amount uint64 `bson:"amount,omitempty"`
}

func (s storedEvent) toModel() model.Event {
	return model.Event{
		Type:      model.EventType(s.Type),
		At:        s.At,
		Actor:     model.Identity(s.Actor),
		Patient:   model.Identity(s.Patient),
		Doctor:    model.Identity(s.Doctor),
		RequestID: s.RequestID,
		Allowed:   s.Allowed,
		Field:     s.Field,
		Value:     s.Value,
		Amount:    s.Amount,
	}
}
