package mongo

import "context"

// Collection is the write surface of a collection.
type Collection interface {
	InsertOne(ctx context.Context, doc any) (insertedID any, err error)
	InsertMany(ctx context.Context, docs []any) error
	CountDocuments(ctx context.Context, filter any) (int64, error)
}
