package mongo

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/notifycsc/notify-csc/internal/platform/config"
)

const (
	maxRetries     = 5
	initialBackoff = 1 * time.Second
	maxBackoff     = 30 * time.Second
)

type MongoClient struct {
	Client *mongo.Client
	DB     *mongo.Database
}

// NewClient connects and pings with exponential backoff, giving up after
// maxRetries attempts or when ctx is cancelled.
func NewClient(ctx context.Context, cfg *config.Config, log *slog.Logger) (*MongoClient, error) {
	clientOpts := options.Client().
		ApplyURI(cfg.MongoURI).
		SetAppName("notify-csc")

	var client *mongo.Client
	var err error

	backoff := initialBackoff
	for attempt := 1; attempt <= maxRetries; attempt++ {
		client, err = connectOnce(ctx, clientOpts, time.Duration(cfg.MongoConnectTimeoutSec)*time.Second)
		if err == nil {
			break
		}
		if attempt == maxRetries {
			return nil, fmt.Errorf("connect to mongo after %d attempts: %w", maxRetries, err)
		}
		log.Warn("mongo connect failed, retrying",
			"attempt", attempt,
			"backoff", backoff,
			"err", err)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
		backoff = min(backoff*2, maxBackoff)
	}

	return &MongoClient{Client: client, DB: client.Database(cfg.MongoDB)}, nil
}

func connectOnce(ctx context.Context, opts *options.ClientOptions, timeout time.Duration) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return client, nil
}

// Ping verifies connectivity (used by /readyz).
func (c *MongoClient) Ping(ctx context.Context) error {
	return c.Client.Ping(ctx, nil)
}

// Close gracefully disconnects from MongoDB.
func (c *MongoClient) Close(ctx context.Context) error {
	return c.Client.Disconnect(ctx)
}
