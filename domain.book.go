package main

import (
	"context"
	"errors"
	"time"
)

var (
	ErrBookNotFound      = errors.New("book not found")
	ErrBookAlreadyExists = errors.New("book already exists")
)

// Book represents a book entity. The Isbn field is the unique
// identifier of the record inside the store.
type Book struct {
	Isbn             string    `json:"isbn"`
	Title            string    `json:"title"`
	ShortDescription string    `json:"shortDescription"`
	Author           string    `json:"author"`
	PageCount        int       `json:"pageCount"`
	ReleaseDate      time.Time `json:"releaseDate"`
}

// BookStorage defines possible operations on book entity.
type BookStorage interface {
	Add(ctx context.Context, book Book) error
	GetByIsbn(ctx context.Context, isbn string) (Book, error)
	SearchByTitle(ctx context.Context, term string) ([]Book, error)
	Update(ctx context.Context, isbn string, book Book) (Book, error)
	Delete(ctx context.Context, isbn string) error
}
