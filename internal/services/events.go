package services

import (
	"time"

	"github.com/saeid-a/FlashFitBack/internal/models"
)

// EventPublisher pushes change notifications to a user's live connections.
type EventPublisher interface {
	Publish(userID int64, event models.SyncEvent)
}

type noopPublisher struct{}

func (noopPublisher) Publish(int64, models.SyncEvent) {}

func publisherOrNoop(events EventPublisher) EventPublisher {
	if events == nil {
		return noopPublisher{}
	}
	return events
}

func newSyncEvent(eventType, resource string, id int64) models.SyncEvent {
	return models.SyncEvent{Type: eventType, Resource: resource, ID: id, At: time.Now().UTC()}
}
