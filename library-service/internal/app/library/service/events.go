package service

import (
	"context"
	"encoding/json"
	"time"

	"nowherelibrary/library-service/internal/app/library/entity"
	"nowherelibrary/library-service/internal/app/library/infrastructure"
	"nowherelibrary/pkg/logger"
)

// publishEvent emits a LibraryEvent keyed by document id, falling back to
// email. A failed publish is logged; the write it describes already happened.
func publishEvent(ctx context.Context, publisher infrastructure.MessagePublisher, event entity.LibraryEvent) {
	event.Timestamp = time.Now().UTC()

	data, err := json.Marshal(event)
	if err != nil {
		logger.Error().Err(err).Str("event_type", event.EventType).Msg("Failed to marshal library event")
		return
	}

	key := event.DocumentID
	if key == "" {
		key = event.Email
	}

	if err := publisher.PublishMessage(ctx, key, data); err != nil {
		logger.Warn().
			Err(err).
			Str("event_type", event.EventType).
			Str("key", key).
			Msg("Failed to publish library event")
	}
}
