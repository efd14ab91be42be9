package mongo

import (
	"context"
	"fmt"

	"github.com/JacobChan182/NoMoreTears/internal/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Client wraps the Mongo client and the application database.
type Client struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewClient connects to Mongo and verifies the connection with a ping.
func NewClient(ctx context.Context, cfg config.MongoConfig) (*Client, error) {
	clientOpts := options.Client().ApplyURI(cfg.URI)
	if cfg.ConnectTimeout > 0 {
		clientOpts.SetConnectTimeout(cfg.ConnectTimeout)
	}

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping: %w", err)
	}

	return &Client{
		client: client,
		db:     client.Database(cfg.Database),
	}, nil
}

// Database returns the application database handle.
func (c *Client) Database() *mongo.Database {
	return c.db
}

// Ping verifies connectivity.
func (c *Client) Ping(ctx context.Context) error {
	return c.client.Ping(ctx, nil)
}

// Close disconnects from Mongo.
func (c *Client) Close(ctx context.Context) error {
	return c.client.Disconnect(ctx)
}
