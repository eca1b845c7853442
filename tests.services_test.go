package main

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// TestBookServiceMirroring ensures each successful mutation is pushed
// onto the right queue and failed ones are not.
func TestBookServiceMirroring(t *testing.T) {
	type push struct {
		qid  string
		book Book
	}

	t.Run("successful mutations are mirrored", func(t *testing.T) {
		var pushes []push
		mockQueue := &MockQueuer{
			PushFunc: func(ctx context.Context, qid string, book Book) error {
				pushes = append(pushes, push{qid, book})
				return nil
			},
		}
		bs := NewBookService(zap.NewNop(), nil, newMemBookStorage(), mockQueue)

		book := validTestBook()
		assert.NoError(t, bs.Add(context.TODO(), book))

		updated := book
		updated.PageCount = 400
		_, err := bs.Update(context.TODO(), book.Isbn, updated)
		assert.NoError(t, err)

		assert.NoError(t, bs.Delete(context.TODO(), book.Isbn))

		assert.Equal(t, []push{
			{CreateQueue, book},
			{UpdateQueue, updated},
			{DeleteQueue, Book{Isbn: book.Isbn}},
		}, pushes)
	})

	t.Run("failed mutations are not mirrored", func(t *testing.T) {
		mockQueue := &MockQueuer{
			PushFunc: func(ctx context.Context, qid string, book Book) error {
				t.Error("queue must not be reached on storage failure")
				return nil
			},
		}
		mockRepo := &MockBookStorage{
			AddFunc: func(ctx context.Context, book Book) error {
				return errors.New("storage failure")
			},
			DeleteFunc: func(ctx context.Context, isbn string) error {
				return ErrBookNotFound
			},
		}
		bs := NewBookService(zap.NewNop(), nil, mockRepo, mockQueue)

		assert.Error(t, bs.Add(context.TODO(), validTestBook()))
		assert.ErrorIs(t, bs.Delete(context.TODO(), "9999999999999"), ErrBookNotFound)
	})

	t.Run("nil queue disables mirroring", func(t *testing.T) {
		bs := NewBookService(zap.NewNop(), nil, newMemBookStorage(), nil)
		assert.NoError(t, bs.Add(context.TODO(), validTestBook()))
	})

	t.Run("push failure does not fail the mutation", func(t *testing.T) {
		mockQueue := &MockQueuer{
			PushFunc: func(ctx context.Context, qid string, book Book) error {
				return errors.New("queue unreachable")
			},
		}
		bs := NewBookService(zap.NewNop(), nil, newMemBookStorage(), mockQueue)
		assert.NoError(t, bs.Add(context.TODO(), validTestBook()))
	})
}
