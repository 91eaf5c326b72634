package service

import (
	"context"
	"errors"
	"fmt"

	"nowherelibrary/library-service/internal/app/library/entity"
	"nowherelibrary/library-service/internal/app/library/infrastructure"
	"nowherelibrary/library-service/internal/app/library/repository"
	"nowherelibrary/pkg/logger"
	"nowherelibrary/pkg/metrics"
)

// BookService serves the catalogue. The full list is cached and dropped on
// every successful add or delete.
type BookService struct {
	bookRepo  repository.BookRepository
	cache     infrastructure.BookCache
	publisher infrastructure.MessagePublisher
}

// NewBookService creates the book service with its store, cache and publisher.
func NewBookService(
	bookRepo repository.BookRepository,
	cache infrastructure.BookCache,
	publisher infrastructure.MessagePublisher,
) *BookService {
	return &BookService{
		bookRepo:  bookRepo,
		cache:     cache,
		publisher: publisher,
	}
}

// ListBooks serves the cached list when present and otherwise reads the store.
func (s *BookService) ListBooks(ctx context.Context) ([]entity.Book, error) {
	cached, found, err := s.cache.GetBooks(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("Book cache read failed, falling back to store")
	}
	if found {
		if cached == nil {
			cached = []entity.Book{}
		}
		return cached, nil
	}

	// The generation must be read before the store so that a write landing
	// in between keeps this list out of the cache.
	gen, genErr := s.cache.Generation(ctx)
	if genErr != nil {
		logger.Warn().Err(genErr).Msg("Book cache generation read failed, list will not be cached")
	}

	books, err := s.bookRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list books: %w", err)
	}

	if genErr == nil {
		if err := s.cache.SetBooks(ctx, gen, books); err != nil {
			logger.Warn().Err(err).Msg("Failed to cache book list")
		}
	}

	return books, nil
}

// GetBook returns a single book by ID.
func (s *BookService) GetBook(ctx context.Context, id string) (*entity.Book, error) {
	book, err := s.bookRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrInvalidID) {
			return nil, ErrInvalidID
		}
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, fmt.Errorf("failed to get book: %w", err)
	}

	return book, nil
}

// AddBook stores a new book, drops the cached list and sends BOOK_ADDED.
func (s *BookService) AddBook(ctx context.Context, req *entity.CreateBookRequest) (*entity.Book, error) {
	book := &entity.Book{
		Title:       req.Title,
		Author:      req.Author,
		Description: req.Description,
		Image:       req.Image,
		Price:       req.Price,
		Publisher:   req.Publisher,
		Category:    req.Category,
	}

	if err := s.bookRepo.Create(ctx, book); err != nil {
		return nil, fmt.Errorf("failed to add book: %w", err)
	}

	metrics.BooksAdded.Inc()
	s.invalidateCache(ctx)

	publishEvent(ctx, s.publisher, entity.LibraryEvent{
		EventType:  entity.EventBookAdded,
		Collection: entity.BooksCollection,
		DocumentID: book.ID.Hex(),
	})

	return book, nil
}

// DeleteBook returns the number of deleted documents. Deleting a missing
// book is not an error and reports zero.
func (s *BookService) DeleteBook(ctx context.Context, id string) (int64, error) {
	deleted, err := s.bookRepo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrInvalidID) {
			return 0, ErrInvalidID
		}
		return 0, fmt.Errorf("failed to delete book: %w", err)
	}

	if deleted > 0 {
		s.invalidateCache(ctx)
		publishEvent(ctx, s.publisher, entity.LibraryEvent{
			EventType:  entity.EventBookDeleted,
			Collection: entity.BooksCollection,
			DocumentID: id,
		})
	}

	return deleted, nil
}

func (s *BookService) invalidateCache(ctx context.Context) {
	if err := s.cache.Invalidate(ctx); err != nil {
		logger.Warn().Err(err).Msg("Failed to invalidate book cache")
	}
}
