package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"nowherelibrary/library-service/internal/app/library/entity"
	"nowherelibrary/pkg/metrics"
)

type bookRepository struct {
	collection *mongo.Collection
}

// NewBookRepository creates a repository over the books collection.
func NewBookRepository(db *mongo.Database) BookRepository {
	return &bookRepository{
		collection: db.Collection(entity.BooksCollection),
	}
}

// GetAll returns every book. An empty collection yields an empty slice.
func (r *bookRepository) GetAll(ctx context.Context) ([]entity.Book, error) {
	done := instrument(metrics.DbOpFind, entity.BooksCollection)

	books := make([]entity.Book, 0)
	if err := done(findAll(ctx, r.collection, bson.M{}, &books)); err != nil {
		return nil, fmt.Errorf("failed to find books: %w", err)
	}

	return books, nil
}

// GetByID finds a book by its hex ObjectID.
func (r *bookRepository) GetByID(ctx context.Context, id string) (*entity.Book, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}

	done := instrument(metrics.DbOpFind, entity.BooksCollection)

	var book entity.Book
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&book)
	if done(err) != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get book: %w", err)
	}

	return &book, nil
}

// Create inserts the book and stores the assigned id back into it.
func (r *bookRepository) Create(ctx context.Context, book *entity.Book) error {
	done := instrument(metrics.DbOpInsert, entity.BooksCollection)

	result, err := r.collection.InsertOne(ctx, book)
	if done(err) != nil {
		return fmt.Errorf("failed to create book: %w", err)
	}

	book.ID = insertedObjectID(result)
	return nil
}

// Delete reports how many documents were removed; zero is not an error.
func (r *bookRepository) Delete(ctx context.Context, id string) (int64, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return 0, err
	}

	done := instrument(metrics.DbOpDelete, entity.BooksCollection)

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if done(err) != nil {
		return 0, fmt.Errorf("failed to delete book: %w", err)
	}

	return result.DeletedCount, nil
}
