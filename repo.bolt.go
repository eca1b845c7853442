package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/boltdb/bolt"
	"go.uber.org/zap"
)

type boltBookStorage struct {
	logger *zap.Logger
	client *bolt.DB
	config *BoltDBConfig
}

// GetBoltDBClient setup the database and the bucket then provides a ready to use client.
func GetBoltDBClient(config *Config) (*bolt.DB, error) {
	db, err := bolt.Open(config.BoltDB.FilePath, 0o600, &bolt.Options{Timeout: config.BoltDB.Timeout})
	if err != nil {
		return nil, fmt.Errorf("failed to open the database, %v", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		if _, errB := tx.CreateBucketIfNotExists([]byte(config.BoltDB.BucketName)); errB != nil {
			return fmt.Errorf("failed to create %s bucket: %v", config.BoltDB.BucketName, errB)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to set up bucket: %v", err)
	}
	return db, nil
}

// NewBoltBookStorage provides an instance of bolt-based book storage
// with records keyed by isbn.
func NewBoltBookStorage(logger *zap.Logger, boltConfig *BoltDBConfig, client *bolt.DB) BookStorage {
	return &boltBookStorage{
		logger: logger,
		client: client,
		config: boltConfig,
	}
}

// Close shuts down the bolt-based book storage.
func (bs *boltBookStorage) Close() error {
	return bs.client.Close()
}

// Add inserts a new book record into boltdb store. The isbn must
// not be present yet.
func (bs *boltBookStorage) Add(_ context.Context, book Book) error {
	bookBytes, err := json.Marshal(book)
	if err != nil {
		return err
	}
	return bs.client.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(bs.config.BucketName))
		if bucket.Get([]byte(book.Isbn)) != nil {
			return ErrBookAlreadyExists
		}
		return bucket.Put([]byte(book.Isbn), bookBytes)
	})
}

// GetByIsbn retrieves a book record based on its isbn from boltdb store.
func (bs *boltBookStorage) GetByIsbn(_ context.Context, isbn string) (Book, error) {
	var book Book
	// initialize a readable transaction.
	tx, err := bs.client.Begin(false)
	if err != nil {
		return book, err
	}
	defer tx.Rollback()

	result := tx.Bucket([]byte(bs.config.BucketName)).Get([]byte(isbn))
	if result == nil {
		return book, ErrBookNotFound
	}
	err = json.Unmarshal(result, &book)
	return book, err
}

// SearchByTitle walks the bucket and keeps books whose title contains
// the given term, ignoring case. Records come back in key order.
func (bs *boltBookStorage) SearchByTitle(_ context.Context, term string) ([]Book, error) {
	tx, err := bs.client.Begin(false)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	c := tx.Bucket([]byte(bs.config.BucketName)).Cursor()
	term = strings.ToLower(term)

	books := []Book{}
	for k, v := c.First(); k != nil; k, v = c.Next() {
		var book Book
		if err = json.Unmarshal(v, &book); err != nil {
			return nil, err
		}
		if strings.Contains(strings.ToLower(book.Title), term) {
			books = append(books, book)
		}
	}
	return books, nil
}

// Update replaces existing book record data. The isbn must be present.
func (bs *boltBookStorage) Update(_ context.Context, isbn string, book Book) (Book, error) {
	book.Isbn = isbn
	bookBytes, err := json.Marshal(book)
	if err != nil {
		return book, err
	}
	err = bs.client.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(bs.config.BucketName))
		if bucket.Get([]byte(isbn)) == nil {
			return ErrBookNotFound
		}
		return bucket.Put([]byte(isbn), bookBytes)
	})
	return book, err
}

// Delete removes a book record based on its isbn from boltdb store.
func (bs *boltBookStorage) Delete(_ context.Context, isbn string) error {
	return bs.client.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(bs.config.BucketName))
		if bucket.Get([]byte(isbn)) == nil {
			return ErrBookNotFound
		}
		return bucket.Delete([]byte(isbn))
	})
}
