package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/appetiteclub/dinner/services/storefront/internal/hint"
)

const hintCollection = "delivery_hints"

type hintDoc struct {
	Key          string    `bson:"_id"`
	DeliveryTime string    `bson:"delivery_time"`
	ExpiresAt    time.Time `bson:"expires_at"`
}

// HintRepo stores delivery-time hints with a TTL index on expires_at.
// Mongo removes expired documents in the background; reads filter them too
// because the TTL monitor runs only once a minute.
type HintRepo struct {
	base *BaseRepo
	ttl  time.Duration
	now  func() time.Time
}

var _ hint.Store = (*HintRepo)(nil)

func NewHintRepo(base *BaseRepo, ttl time.Duration) *HintRepo {
	if ttl <= 0 {
		ttl = hint.DefaultTTL
	}
	return &HintRepo{base: base, ttl: ttl, now: time.Now}
}

// Start connects the base repo and ensures the TTL index.
func (r *HintRepo) Start(ctx context.Context) error {
	if err := r.base.Start(ctx); err != nil {
		return err
	}
	return r.EnsureIndexes(ctx)
}

func (r *HintRepo) Stop(ctx context.Context) error {
	return r.base.Stop(ctx)
}

func (r *HintRepo) EnsureIndexes(ctx context.Context) error {
	coll, err := r.collection()
	if err != nil {
		return err
	}
	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expires_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0).SetName("expires_at_ttl"),
	})
	if err != nil {
		return fmt.Errorf("cannot create hint ttl index: %w", err)
	}
	return nil
}

func (r *HintRepo) Put(ctx context.Context, key, deliveryTime string) error {
	if key == "" {
		return hint.ErrEmptyKey
	}
	coll, err := r.collection()
	if err != nil {
		return err
	}

	doc := hintDoc{Key: key, DeliveryTime: deliveryTime, ExpiresAt: r.now().Add(r.ttl).UTC()}
	_, err = coll.ReplaceOne(ctx, bson.M{"_id": key}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("cannot store delivery hint: %w", err)
	}
	return nil
}

func (r *HintRepo) Take(ctx context.Context, key string) (string, bool, error) {
	if key == "" {
		return "", false, hint.ErrEmptyKey
	}
	coll, err := r.collection()
	if err != nil {
		return "", false, err
	}

	filter := bson.M{"_id": key, "expires_at": bson.M{"$gt": r.now().UTC()}}
	var doc hintDoc
	err = coll.FindOneAndDelete(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("cannot take delivery hint: %w", err)
	}
	return doc.DeliveryTime, true, nil
}

// Clear removes every stored hint, expired or not.
func (r *HintRepo) Clear(ctx context.Context) (int64, error) {
	coll, err := r.collection()
	if err != nil {
		return 0, err
	}
	res, err := coll.DeleteMany(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("cannot clear delivery hints: %w", err)
	}
	return res.DeletedCount, nil
}

func (r *HintRepo) collection() (*mongo.Collection, error) {
	if r == nil || r.base == nil {
		return nil, ErrNotConnected
	}
	return r.base.Collection(hintCollection)
}
