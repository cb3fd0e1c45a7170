package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
)

type mongoCollection struct {
	c *mongo.Collection
}

func NewCollection(c *mongo.Collection) Collection {
	return &mongoCollection{c: c}
}

func (m *mongoCollection) Aggregate(ctx context.Context, pipeline any) (Cursor, error) {
	cur, err := m.c.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	return cur, nil
}

func (m *mongoCollection) Find(ctx context.Context, filter any) (Cursor, error) {
	cur, err := m.c.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	return cur, nil
}

func (m *mongoCollection) FindOne(ctx context.Context, filter any, out any) error {
	return m.c.FindOne(ctx, filter).Decode(out)
}

func (m *mongoCollection) CountDocuments(ctx context.Context, filter any) (int64, error) {
	return m.c.CountDocuments(ctx, filter)
}
