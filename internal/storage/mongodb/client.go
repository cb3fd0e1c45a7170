// Package mongodb owns the connection to the document store and the document shapes
// shared by every adapter that reads or writes it.
package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	BookingsCollection      = "USVisaBookings"
	DashboardCollection     = "DashboardStats"
	CityLocationsCollection = "CityLocations"
)

// RequiredCollections must exist for the service to start serving views.
var RequiredCollections = []string{BookingsCollection, DashboardCollection, CityLocationsCollection}

const connectTimeout = 10 * time.Second

type Client struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect dials uri and pings the primary before returning.
func Connect(ctx context.Context, uri, database string) (*Client, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	opts := options.Client().
		ApplyURI(uri).
		SetServerSelectionTimeout(connectTimeout)

	c, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	if err := c.Ping(ctx, readpref.Primary()); err != nil {
		_ = c.Disconnect(context.Background())
		return nil, fmt.Errorf("ping: %w", err)
	}

	return &Client{client: c, db: c.Database(database)}, nil
}

func (c *Client) Database() *mongo.Database {
	return c.db
}

func (c *Client) Collection(name string) *mongo.Collection {
	return c.db.Collection(name)
}

func (c *Client) Ping(ctx context.Context) error {
	return c.client.Ping(ctx, readpref.Primary())
}

func (c *Client) Close(ctx context.Context) error {
	return c.client.Disconnect(ctx)
}

func (c *Client) CollectionNames(ctx context.Context) ([]string, error) {
	return c.db.ListCollectionNames(ctx, bson.D{})
}

func (c *Client) CountDocuments(ctx context.Context, collection string) (int64, error) {
	return c.db.Collection(collection).CountDocuments(ctx, bson.D{})
}
