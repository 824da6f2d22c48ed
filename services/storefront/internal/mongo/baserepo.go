package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aquamarinepk/aqm"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	defaultURL     = "mongodb://localhost:27017"
	defaultDBName  = "dinner_storefront"
	defaultTimeout = 10 * time.Second
	appName        = "dinner-storefront"
)

// ErrNotConnected is returned by repositories used before Start or after
// Stop.
var ErrNotConnected = errors.New("mongo not connected")

// BaseRepo owns the client shared by the storefront repositories.
type BaseRepo struct {
	client *mongo.Client
	db     *mongo.Database
	logger aqm.Logger
	config *aqm.Config
}

func NewBaseRepo(config *aqm.Config, logger aqm.Logger) *BaseRepo {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}
	return &BaseRepo{
		logger: logger,
		config: config,
	}
}

// Start connects using db.mongo.url and db.mongo.name. db.mongo.timeout
// bounds both the connection and server selection.
func (r *BaseRepo) Start(ctx context.Context) error {
	uri, dbName, timeout := defaultURL, defaultDBName, defaultTimeout
	if r.config != nil {
		uri = r.config.GetStringOrDef("db.mongo.url", uri)
		dbName = r.config.GetStringOrDef("db.mongo.name", dbName)
		if raw, ok := r.config.GetString("db.mongo.timeout"); ok {
			if d, err := time.ParseDuration(raw); err == nil && d > 0 {
				timeout = d
			}
		}
	}

	opts := options.Client().
		ApplyURI(uri).
		SetAppName(appName).
		SetConnectTimeout(timeout).
		SetServerSelectionTimeout(timeout)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return fmt.Errorf("cannot connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return fmt.Errorf("cannot reach mongo at %s: %w", uri, err)
	}

	r.client = client
	r.db = client.Database(dbName)
	r.logger.Info("mongo connected", "database", dbName)
	return nil
}

func (r *BaseRepo) Stop(ctx context.Context) error {
	if r.client == nil {
		return nil
	}
	err := r.client.Disconnect(ctx)
	r.client, r.db = nil, nil
	if err != nil {
		return fmt.Errorf("cannot disconnect from mongo: %w", err)
	}
	r.logger.Info("mongo disconnected")
	return nil
}

// Collection returns the named collection of the connected database.
func (r *BaseRepo) Collection(name string) (*mongo.Collection, error) {
	if r == nil || r.db == nil {
		return nil, ErrNotConnected
	}
	return r.db.Collection(name), nil
}
