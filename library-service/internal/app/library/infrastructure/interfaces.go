package infrastructure

import (
	"context"

	"nowherelibrary/library-service/internal/app/library/entity"
)

// MessagePublisher sends library events to the message stream (Kafka).
type MessagePublisher interface {
	PublishMessage(ctx context.Context, key string, value []byte) error
	Close() error
}

// BookCache holds the full book list between writes.
// GetBooks reports found=false on a miss. SetBooks stores nothing when an
// Invalidate has happened since Generation returned gen.
type BookCache interface {
	GetBooks(ctx context.Context) (books []entity.Book, found bool, err error)
	Generation(ctx context.Context) (int64, error)
	SetBooks(ctx context.Context, gen int64, books []entity.Book) error
	Invalidate(ctx context.Context) error
	Close() error
}
