package mongodb

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"medrecord-registry/internal/config"
	"medrecord-registry/internal/model"
)

const auditCollection = "auditlog"

// Emit implements audit.Emitter. A failed insert is logged, never
// propagated: the state change already happened and must not be undone by
// an indexing hiccup.
func (b Repository) Emit(ctx context.Context, event model.Event) {
	if err := b.InsertEvent(ctx, event); err != nil {
		b.logger.Error("failed to persist an audit event: "+err.Error(),
			zap.String("type", string(event.Type)), zap.String("actor", event.Actor.String()))
	}
}

func (b Repository) InsertEvent(ctx context.Context, event model.Event) error {

	coll := b.client.Database(config.GetDatabaseName()).Collection(auditCollection)

	stored := storedEvent{
		ID:        uuid.NewString(),
		Type:      string(event.Type),
		At:        event.At,
		Actor:     event.Actor.String(),
		Patient:   event.Patient.String(),
		Doctor:    event.Doctor.String(),
		RequestID: event.RequestID,
		Allowed:   event.Allowed,
		Field:     event.Field,
		Value:     event.Value,
		Amount:    event.Amount,
	}

	data, err := bson.Marshal(stored)
	if err != nil {
		return errors.New("failed to marshal the audit event: " + err.Error())
	}

	if _, err := coll.InsertOne(ctx, data); err != nil {
		return errors.New("failed to insert the audit event: " + err.Error())
	}

	return nil
}

func (b Repository) GetPatientEvents(ctx context.Context, patient string) ([]model.Event, error) {
	return b.getEvents(ctx, bson.M{"patient": patient})
}

func (b Repository) GetActorEvents(ctx context.Context, actor string) ([]model.Event, error) {
	return b.getEvents(ctx, bson.M{"actor": actor})
}

func (b Repository) getEvents(ctx context.Context, filter bson.M) ([]model.Event, error) {
	coll := b.client.Database(config.GetDatabaseName()).Collection(auditCollection)

	cursor, err := coll.Find(ctx, filter)
	if err != nil {
		return nil, errors.New("failed to find the audit events: " + err.Error())
	}

	var stored []storedEvent
	if err := cursor.All(ctx, &stored); err != nil {
		return nil, errors.New("failed to read the audit events from the cursor: " + err.Error())
	}

	events := make([]model.Event, len(stored))
	for i, s := range stored {
		events[i] = s.toModel()
	}

	return events, nil
}
