package checkout

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	redispkg "github.com/shoplux/shoplux-backend/pkg/redis"
)

type fakeRedis struct {
	data map[string]string
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: make(map[string]string)}
}

func (f *fakeRedis) Set(_ context.Context, key string, value any, _ time.Duration) error {
	switch v := value.(type) {
	case []byte:
		f.data[key] = string(v)
	case string:
		f.data[key] = v
	}
	return nil
}

func (f *fakeRedis) Get(_ context.Context, key string) (string, error) {
	if v, ok := f.data[key]; ok {
		return v, nil
	}
	return "", redispkg.ErrNotFound
}

func (f *fakeRedis) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.data, key)
	}
	return nil
}

func (f *fakeRedis) CheckoutSessionKey(userID string) string {
	return "slx:checkout:session:" + userID
}

func TestSessionStoreRoundTrip(t *testing.T) {
	t.Parallel()

	store, err := NewSessionStore(newFakeRedis(), time.Hour)
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	userID := uuid.New()

	missing, err := store.Load(context.Background(), userID)
	if err != nil {
		t.Fatalf("load empty: %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil session before save")
	}

	session := NewSession()
	session.Email = "awa@example.sn"
	session.Step = StepDelivery
	if err := store.Save(context.Background(), userID, session); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := store.Load(context.Background(), userID)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded == nil || loaded.Email != "awa@example.sn" || loaded.Step != StepDelivery {
		t.Fatalf("unexpected session %+v", loaded)
	}

	if err := store.Delete(context.Background(), userID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	gone, err := store.Load(context.Background(), userID)
	if err != nil || gone != nil {
		t.Fatalf("expected session removed, got %+v err=%v", gone, err)
	}
}

func TestSessionStoreIgnoresCorruptPayload(t *testing.T) {
	t.Parallel()

	backing := newFakeRedis()
	store, err := NewSessionStore(backing, time.Hour)
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	userID := uuid.New()
	backing.data[backing.CheckoutSessionKey(userID.String())] = "{not json"

	session, err := store.Load(context.Background(), userID)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if session != nil {
		t.Fatalf("expected corrupt session treated as absent")
	}
}
