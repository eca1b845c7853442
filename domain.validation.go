package main

import (
	"context"
	"errors"
	"regexp"
)

var isbn13Pattern = regexp.MustCompile(`^[0-9]{13}$`)

// FieldError describes a single broken validation rule. Its json
// field names follow the public error contract of the api.
type FieldError struct {
	PropertyName string `json:"PropertyName"`
	ErrorMessage string `json:"ErrorMessage"`
}

// ValidationRule binds a book property to a predicate and the
// message reported when that predicate does not hold.
type ValidationRule struct {
	Property string
	Message  string
	Check    func(ctx context.Context, book Book) bool
}

// BookValidator evaluates a ruleset against a book submission.
type BookValidator interface {
	Validate(ctx context.Context, book Book) []FieldError
}

// Ruleset implements BookValidator by running its rules in order
// and collecting every broken one.
type Ruleset []ValidationRule

// Validate returns the ordered list of field errors or nil when
// all rules hold.
func (rs Ruleset) Validate(ctx context.Context, book Book) []FieldError {
	var errs []FieldError
	for _, rule := range rs {
		if !rule.Check(ctx, book) {
			errs = append(errs, FieldError{PropertyName: rule.Property, ErrorMessage: rule.Message})
		}
	}
	return errs
}

// IsbnFormatRule requires the isbn to be a 13-digit numeric string.
func IsbnFormatRule() ValidationRule {
	return ValidationRule{
		Property: "Isbn",
		Message:  "Value was not a valid ISBN-13",
		Check: func(_ context.Context, book Book) bool {
			return isbn13Pattern.MatchString(book.Isbn)
		},
	}
}

// IsbnNotTakenRule requires the isbn to be unused in the given storage.
// A malformed isbn passes here so the format rule stays the single
// reporter for bad input.
func IsbnNotTakenRule(storage BookStorage) ValidationRule {
	return ValidationRule{
		Property: "Isbn",
		Message:  "A book with this ISBN-13 already exists",
		Check: func(ctx context.Context, book Book) bool {
			if !isbn13Pattern.MatchString(book.Isbn) {
				return true
			}
			_, err := storage.GetByIsbn(ctx, book.Isbn)
			return errors.Is(err, ErrBookNotFound)
		},
	}
}

// PageCountRule requires a strictly positive number of pages.
func PageCountRule() ValidationRule {
	return ValidationRule{
		Property: "PageCount",
		Message:  "'Page Count' must be greater than '0'.",
		Check: func(_ context.Context, book Book) bool {
			return book.PageCount > 0
		},
	}
}

// NewCreateBookRuleset builds the ordered ruleset applied to book
// creation requests. The storage is consulted for isbn uniqueness.
func NewCreateBookRuleset(storage BookStorage) Ruleset {
	return Ruleset{
		IsbnFormatRule(),
		IsbnNotTakenRule(storage),
		PageCountRule(),
	}
}

// NewUpdateBookRuleset builds the ordered ruleset applied to book
// update requests. Uniqueness does not apply since updates target
// an existing isbn.
func NewUpdateBookRuleset() Ruleset {
	return Ruleset{
		IsbnFormatRule(),
		PageCountRule(),
	}
}
