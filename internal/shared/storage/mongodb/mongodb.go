// Package mongodb connects to MongoDB for the document-backed repos.
package mongodb

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Options controls the client pool.
type Options struct {
	ServerSelectionTimeout time.Duration
	ConnectTimeout         time.Duration
	MaxPoolSize            uint64
	MinPoolSize            uint64
}

// DefaultOptions returns pool settings for a long-lived server.
func DefaultOptions() Options {
	return Options{
		ServerSelectionTimeout: 20 * time.Second,
		ConnectTimeout:         15 * time.Second,
		MaxPoolSize:            10,
		MinPoolSize:            1,
	}
}

// Connect dials uri and verifies the connection with a ping.
func Connect(ctx context.Context, uri string, opts Options) (*mongo.Client, error) {
	if strings.TrimSpace(uri) == "" {
		return nil, errors.New("mongo uri is empty")
	}
	clientOpts := options.Client().ApplyURI(uri).
		SetServerSelectionTimeout(opts.ServerSelectionTimeout).
		SetConnectTimeout(opts.ConnectTimeout).
		SetMaxPoolSize(opts.MaxPoolSize).
		SetMinPoolSize(opts.MinPoolSize)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return client, nil
}
