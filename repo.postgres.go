package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const pgUniqueViolationCode = "23505"

const booksTableSchema = `
CREATE TABLE IF NOT EXISTS books (
	isbn              TEXT PRIMARY KEY,
	title             TEXT NOT NULL,
	short_description TEXT NOT NULL,
	author            TEXT NOT NULL,
	page_count        INTEGER NOT NULL,
	release_date      TIMESTAMPTZ NOT NULL
)`

type postgresBookStorage struct {
	logger *zap.Logger
	pool   *pgxpool.Pool
	config *PostgresConfig
}

// GetPostgresPool connects to the postgres server, ensures the books
// table exists and provides a ready to use connections pool.
func GetPostgresPool(ctx context.Context, config *Config) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(config.Postgres.URI())
	if err != nil {
		return nil, fmt.Errorf("failed to parse postgres config: %v", err)
	}
	if config.Postgres.MaxConns > 0 {
		poolConfig.MaxConns = config.Postgres.MaxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres pool: %v", err)
	}

	// test connection.
	if err = pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("test connection failed: %v", err)
	}

	if _, err = pool.Exec(ctx, booksTableSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to set up books table: %v", err)
	}
	return pool, nil
}

// NewPostgresBookStorage provides an instance of postgres-based book storage.
func NewPostgresBookStorage(logger *zap.Logger, pgConfig *PostgresConfig, pool *pgxpool.Pool) BookStorage {
	return &postgresBookStorage{
		logger: logger,
		pool:   pool,
		config: pgConfig,
	}
}

func (ps *postgresBookStorage) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if ps.config.QueryTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, ps.config.QueryTimeout)
}

// Add inserts a new book record. It fails with ErrBookAlreadyExists
// when the isbn is already present in the table.
func (ps *postgresBookStorage) Add(ctx context.Context, book Book) error {
	const query = `
		INSERT INTO books (isbn, title, short_description, author, page_count, release_date)
		VALUES ($1, $2, $3, $4, $5, $6)`

	tCtx, cancel := ps.withTimeout(ctx)
	defer cancel()
	_, err := ps.pool.Exec(tCtx, query,
		book.Isbn, book.Title, book.ShortDescription, book.Author, book.PageCount, book.ReleaseDate)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolationCode {
		return ErrBookAlreadyExists
	}
	return err
}

// GetByIsbn retrieves a book record based on its isbn.
func (ps *postgresBookStorage) GetByIsbn(ctx context.Context, isbn string) (Book, error) {
	const query = `
		SELECT isbn, title, short_description, author, page_count, release_date
		FROM books
		WHERE isbn = $1`

	var book Book
	tCtx, cancel := ps.withTimeout(ctx)
	defer cancel()
	err := ps.pool.QueryRow(tCtx, query, isbn).Scan(
		&book.Isbn, &book.Title, &book.ShortDescription, &book.Author, &book.PageCount, &book.ReleaseDate)
	if errors.Is(err, pgx.ErrNoRows) {
		return Book{}, ErrBookNotFound
	}
	if err != nil {
		return Book{}, err
	}
	return book, nil
}

// likeTermReplacer neutralizes the LIKE metacharacters so a search
// term always matches literally, like the other storage backends do.
var likeTermReplacer = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// SearchByTitle retrieves all books whose title contains the given term,
// ignoring case. An empty term matches every book.
func (ps *postgresBookStorage) SearchByTitle(ctx context.Context, term string) ([]Book, error) {
	const query = `
		SELECT isbn, title, short_description, author, page_count, release_date
		FROM books
		WHERE title ILIKE '%' || $1 || '%'
		ORDER BY isbn`

	tCtx, cancel := ps.withTimeout(ctx)
	defer cancel()
	rows, err := ps.pool.Query(tCtx, query, likeTermReplacer.Replace(term))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	books := []Book{}
	for rows.Next() {
		var book Book
		if err = rows.Scan(&book.Isbn, &book.Title, &book.ShortDescription, &book.Author, &book.PageCount, &book.ReleaseDate); err != nil {
			return nil, err
		}
		books = append(books, book)
	}
	return books, rows.Err()
}

// Update replaces all fields except the isbn of an existing book record.
func (ps *postgresBookStorage) Update(ctx context.Context, isbn string, book Book) (Book, error) {
	const query = `
		UPDATE books
		SET title = $2, short_description = $3, author = $4, page_count = $5, release_date = $6
		WHERE isbn = $1`

	tCtx, cancel := ps.withTimeout(ctx)
	defer cancel()
	tag, err := ps.pool.Exec(tCtx, query,
		isbn, book.Title, book.ShortDescription, book.Author, book.PageCount, book.ReleaseDate)
	if err != nil {
		return Book{}, err
	}
	if tag.RowsAffected() == 0 {
		return Book{}, ErrBookNotFound
	}
	book.Isbn = isbn
	return book, nil
}

// Delete removes a book record based on its isbn.
func (ps *postgresBookStorage) Delete(ctx context.Context, isbn string) error {
	const query = `DELETE FROM books WHERE isbn = $1`

	tCtx, cancel := ps.withTimeout(ctx)
	defer cancel()
	tag, err := ps.pool.Exec(tCtx, query, isbn)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrBookNotFound
	}
	return nil
}
