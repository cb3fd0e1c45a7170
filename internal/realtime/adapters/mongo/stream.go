package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
)

// changeEvent is the part of a change notification the streams use.
type changeEvent struct {
	OperationType string   `bson:"operationType"`
	FullDocument  bson.Raw `bson:"fullDocument"`
}

// eventSource is satisfied by *mongo.ChangeStream.
type eventSource interface {
	Next(ctx context.Context) bool
	Decode(val any) error
	Err() error
	Close(ctx context.Context) error
}

// stream decodes the full document of each event. Events without a full document, or
// whose document does not decode, are skipped.
type stream[T any] struct {
	src    eventSource
	decode func(bson.Raw) (T, error)
	cur    T
	err    error
}

func newStream[T any](src eventSource, decode func(bson.Raw) (T, error)) *stream[T] {
	return &stream[T]{src: src, decode: decode}
}

func (s *stream[T]) Next(ctx context.Context) bool {
	for s.src.Next(ctx) {
		var ev changeEvent
		if err := s.src.Decode(&ev); err != nil {
			s.err = err
			return false
		}
		if len(ev.FullDocument) == 0 {
			continue
		}
		v, err := s.decode(ev.FullDocument)
		if err != nil {
			continue
		}
		s.cur = v
		return true
	}
	return false
}

func (s *stream[T]) Current() T {
	return s.cur
}

func (s *stream[T]) Err() error {
	if s.err != nil {
		return s.err
	}
	return s.src.Err()
}

func (s *stream[T]) Close(ctx context.Context) error {
	return s.src.Close(ctx)
}
