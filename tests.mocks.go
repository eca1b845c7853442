package main

import (
	"context"
	"strings"
	"time"
)

// This file contains mocks definitions needed to perform unit tests.

type MockBookStorage struct {
	AddFunc           func(ctx context.Context, book Book) error
	GetByIsbnFunc     func(ctx context.Context, isbn string) (Book, error)
	SearchByTitleFunc func(ctx context.Context, term string) ([]Book, error)
	UpdateFunc        func(ctx context.Context, isbn string, book Book) (Book, error)
	DeleteFunc        func(ctx context.Context, isbn string) error
}

// Add mocks the behavior of book creation by the repository.
func (m *MockBookStorage) Add(ctx context.Context, book Book) error {
	return m.AddFunc(ctx, book)
}

// GetByIsbn mocks the behavior of retrieving a book by the repository.
func (m *MockBookStorage) GetByIsbn(ctx context.Context, isbn string) (Book, error) {
	return m.GetByIsbnFunc(ctx, isbn)
}

// SearchByTitle mocks the behavior of searching books by the repository.
func (m *MockBookStorage) SearchByTitle(ctx context.Context, term string) ([]Book, error) {
	return m.SearchByTitleFunc(ctx, term)
}

// Update mocks the behavior of updating a book by the repository.
func (m *MockBookStorage) Update(ctx context.Context, isbn string, book Book) (Book, error) {
	return m.UpdateFunc(ctx, isbn, book)
}

// Delete mocks the behavior of deleting a book by the repository.
func (m *MockBookStorage) Delete(ctx context.Context, isbn string) error {
	return m.DeleteFunc(ctx, isbn)
}

// MockQueuer implements a fake Queuer.
type MockQueuer struct {
	PushFunc func(ctx context.Context, qid string, book Book) error
	PopFunc  func(ctx context.Context, qids ...string) (string, Book, error)
}

// Push mocks the behavior of enqueueing a book mutation.
func (m *MockQueuer) Push(ctx context.Context, qid string, book Book) error {
	return m.PushFunc(ctx, qid, book)
}

// Pop mocks the behavior of dequeueing a book mutation.
func (m *MockQueuer) Pop(ctx context.Context, qids ...string) (string, Book, error) {
	return m.PopFunc(ctx, qids...)
}

// MockClocker implements a fake Clocker.
type MockClocker struct {
	MockNow time.Time
}

// NewMockClocker returns a mocked instance with fixed time.
func NewMockClocker() *MockClocker {
	return &MockClocker{time.Date(2023, 0o7, 0o2, 0o0, 0o0, 0o0, 0o00000000, time.UTC)}
}

// Now returns an already defined time to be used as mock.
func (mck *MockClocker) Now() time.Time {
	return mck.MockNow
}

// MockUIDHandler implements a fake UIDHandler.
type MockUIDHandler struct {
	MockedUID string
	Valid     bool
}

// NewMockUIDHandler returns a mocked instance with predictable id.
func NewMockUIDHandler(id string, valid bool) *MockUIDHandler {
	return &MockUIDHandler{MockedUID: id, Valid: valid}
}

// Generate constructs a predictable id to be used as mock.
func (muid *MockUIDHandler) Generate(prefix string) string {
	return prefix + ":" + muid.MockedUID
}

// IsValid mocks IsValid behavior by providing configured status.
func (muid *MockUIDHandler) IsValid(_, _ string) bool {
	return muid.Valid
}

// memBookStorage is a map-backed storage used by router level tests.
type memBookStorage struct {
	books map[string]Book
}

func newMemBookStorage() *memBookStorage {
	return &memBookStorage{books: make(map[string]Book)}
}

func (m *memBookStorage) Add(_ context.Context, book Book) error {
	if _, ok := m.books[book.Isbn]; ok {
		return ErrBookAlreadyExists
	}
	m.books[book.Isbn] = book
	return nil
}

func (m *memBookStorage) GetByIsbn(_ context.Context, isbn string) (Book, error) {
	book, ok := m.books[isbn]
	if !ok {
		return Book{}, ErrBookNotFound
	}
	return book, nil
}

func (m *memBookStorage) SearchByTitle(_ context.Context, term string) ([]Book, error) {
	books := []Book{}
	for _, book := range m.books {
		if containsFold(book.Title, term) {
			books = append(books, book)
		}
	}
	return books, nil
}

func (m *memBookStorage) Update(_ context.Context, isbn string, book Book) (Book, error) {
	if _, ok := m.books[isbn]; !ok {
		return Book{}, ErrBookNotFound
	}
	book.Isbn = isbn
	m.books[isbn] = book
	return book, nil
}

func (m *memBookStorage) Delete(_ context.Context, isbn string) error {
	if _, ok := m.books[isbn]; !ok {
		return ErrBookNotFound
	}
	delete(m.books, isbn)
	return nil
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
