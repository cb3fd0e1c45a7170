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

func (m *mongoCollection) InsertOne(ctx context.Context, doc any) (any, error) {
	res, err := m.c.InsertOne(ctx, doc)
	if err != nil {
		return nil, err
	}
	return res.InsertedID, nil
}

func (m *mongoCollection) InsertMany(ctx context.Context, docs []any) error {
	_, err := m.c.InsertMany(ctx, docs)
	return err
}

func (m *mongoCollection) CountDocuments(ctx context.Context, filter any) (int64, error) {
	return m.c.CountDocuments(ctx, filter)
}
