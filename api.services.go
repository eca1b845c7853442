package main

import (
	"context"

	"go.uber.org/zap"
)

type BookServiceProvider interface {
	Add(ctx context.Context, book Book) error
	GetByIsbn(ctx context.Context, isbn string) (Book, error)
	SearchByTitle(ctx context.Context, term string) ([]Book, error)
	Update(ctx context.Context, isbn string, book Book) (Book, error)
	Delete(ctx context.Context, isbn string) error
}

// BookService fronts the primary book storage. Each successful
// mutation is also pushed onto its queue so the replica consumer
// can replay it. A nil queue disables mirroring.
type BookService struct {
	logger  *zap.Logger
	config  *Config
	storage BookStorage
	queue   Queuer
}

func NewBookService(logger *zap.Logger, config *Config, storage BookStorage, queue Queuer) BookServiceProvider {
	return &BookService{
		logger:  logger,
		config:  config,
		storage: storage,
		queue:   queue,
	}
}

func (bs *BookService) Add(ctx context.Context, book Book) error {
	if err := bs.storage.Add(ctx, book); err != nil {
		return err
	}
	bs.mirror(ctx, CreateQueue, book)
	return nil
}

func (bs *BookService) GetByIsbn(ctx context.Context, isbn string) (Book, error) {
	book, err := bs.storage.GetByIsbn(ctx, isbn)
	return book, err
}

func (bs *BookService) SearchByTitle(ctx context.Context, term string) ([]Book, error) {
	books, err := bs.storage.SearchByTitle(ctx, term)
	return books, err
}

func (bs *BookService) Update(ctx context.Context, isbn string, book Book) (Book, error) {
	updated, err := bs.storage.Update(ctx, isbn, book)
	if err != nil {
		return updated, err
	}
	bs.mirror(ctx, UpdateQueue, updated)
	return updated, nil
}

func (bs *BookService) Delete(ctx context.Context, isbn string) error {
	if err := bs.storage.Delete(ctx, isbn); err != nil {
		return err
	}
	bs.mirror(ctx, DeleteQueue, Book{Isbn: isbn})
	return nil
}

func (bs *BookService) mirror(ctx context.Context, qid string, book Book) {
	if bs.queue == nil {
		return
	}
	if err := bs.queue.Push(ctx, qid, book); err != nil {
		bs.logger.Error("service: failed to push book to queue", zap.String("qid", qid), zap.Error(err))
	}
}
