package mongo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/appetiteclub/dinner/services/storefront/internal/hint"
)

func TestHintRepoRequiresConnection(t *testing.T) {
	repo := NewHintRepo(NewBaseRepo(nil, nil), time.Minute)

	if err := repo.Put(context.Background(), "customer:1", "2025-12-09T18:00:00"); !errors.Is(err, ErrNotConnected) {
		t.Errorf("Put() error = %v, want %v", err, ErrNotConnected)
	}
	if _, _, err := repo.Take(context.Background(), "customer:1"); err == nil {
		t.Error("Take() expected error without a connection")
	}
	if _, err := repo.Clear(context.Background()); err == nil {
		t.Error("Clear() expected error without a connection")
	}
}

func TestHintRepoEmptyKey(t *testing.T) {
	repo := NewHintRepo(NewBaseRepo(nil, nil), 0)

	if err := repo.Put(context.Background(), "", "x"); !errors.Is(err, hint.ErrEmptyKey) {
		t.Errorf("Put() error = %v, want %v", err, hint.ErrEmptyKey)
	}
	if repo.ttl != hint.DefaultTTL {
		t.Errorf("ttl = %v, want %v", repo.ttl, hint.DefaultTTL)
	}
}

func TestBaseRepoStopWithoutStart(t *testing.T) {
	if err := NewBaseRepo(nil, nil).Stop(context.Background()); err != nil {
		t.Errorf("Stop() error = %v", err)
	}
}

func TestBaseRepoCollectionRequiresConnection(t *testing.T) {
	if _, err := NewBaseRepo(nil, nil).Collection(hintCollection); !errors.Is(err, ErrNotConnected) {
		t.Errorf("Collection() error = %v, want %v", err, ErrNotConnected)
	}
}
