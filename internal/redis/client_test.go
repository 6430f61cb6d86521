package redis

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/saviobatista/launch-tracker/internal/types"
)

// mockRedis is an in-memory RedisClientInterface
type mockRedis struct {
	data    map[string]string
	ttls    map[string]time.Duration
	getErr  error
	closed  bool
	deleted []string
}

func newMockRedis() *mockRedis {
	return &mockRedis{
		data: make(map[string]string),
		ttls: make(map[string]time.Duration),
	}
}

func (m *mockRedis) Ping(ctx context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", nil)
}

func (m *mockRedis) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	switch v := value.(type) {
	case []byte:
		m.data[key] = string(v)
	case string:
		m.data[key] = v
	}
	m.ttls[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func (m *mockRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	if m.getErr != nil {
		return redis.NewStringResult("", m.getErr)
	}
	v, ok := m.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (m *mockRedis) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	for _, k := range keys {
		delete(m.data, k)
		m.deleted = append(m.deleted, k)
	}
	return redis.NewIntResult(int64(len(keys)), nil)
}

func (m *mockRedis) Close() error {
	m.closed = true
	return nil
}

func TestNew_InvalidAddress(t *testing.T) {
	client, err := New("invalid:address:12345")
	if err == nil {
		t.Error("New() should fail with invalid address")
		client.Close()
		return
	}

	if client != nil {
		t.Error("New() should return nil client on error")
	}
}

func TestNew_InvalidURL(t *testing.T) {
	_, err := New("redis://localhost:notaport/0")
	if err == nil {
		t.Fatal("New() should fail with an unparseable URL")
	}
}

func TestClient_StoreAndGetResponse(t *testing.T) {
	mock := newMockRedis()
	client := NewWithClient(mock)
	ctx := context.Background()

	resp := &types.CachedResponse{
		Path:     "/rockets/5e9d0d95eda69973a809d1ec",
		Body:     []byte(`{"id":"5e9d0d95eda69973a809d1ec","name":"Falcon 9"}`),
		StoredAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	if err := client.StoreResponse(ctx, resp, time.Minute); err != nil {
		t.Fatalf("StoreResponse() failed: %v", err)
	}

	key := "spacex:response:/rockets/5e9d0d95eda69973a809d1ec"
	if _, ok := mock.data[key]; !ok {
		t.Fatalf("Expected key %s to be set, have %v", key, mock.data)
	}
	if mock.ttls[key] != time.Minute {
		t.Errorf("Expected TTL of 1m, got %s", mock.ttls[key])
	}

	got, err := client.GetResponse(ctx, resp.Path)
	if err != nil {
		t.Fatalf("GetResponse() failed: %v", err)
	}
	if got == nil {
		t.Fatal("GetResponse() returned nil")
	}
	if string(got.Body) != string(resp.Body) {
		t.Errorf("Body mismatch: got %s, want %s", got.Body, resp.Body)
	}
	if !got.StoredAt.Equal(resp.StoredAt) {
		t.Errorf("StoredAt mismatch: got %v, want %v", got.StoredAt, resp.StoredAt)
	}
}

func TestClient_GetResponse_Miss(t *testing.T) {
	client := NewWithClient(newMockRedis())

	got, err := client.GetResponse(context.Background(), "/launchpads")
	if err != nil {
		t.Fatalf("GetResponse() should not fail on a miss: %v", err)
	}
	if got != nil {
		t.Error("GetResponse() should return nil on a miss")
	}
}

func TestClient_GetResponse_Errors(t *testing.T) {
	mock := newMockRedis()
	mock.getErr = errors.New("connection reset")
	client := NewWithClient(mock)

	_, err := client.GetResponse(context.Background(), "/rockets")
	if err == nil || !strings.Contains(err.Error(), "failed to get cached response") {
		t.Errorf("Expected wrapped get error, got %v", err)
	}

	mock.getErr = nil
	mock.data[responseKey("/rockets")] = "not json"
	_, err = client.GetResponse(context.Background(), "/rockets")
	if err == nil || !strings.Contains(err.Error(), "failed to unmarshal") {
		t.Errorf("Expected unmarshal error, got %v", err)
	}
	if len(mock.deleted) != 1 || mock.deleted[0] != responseKey("/rockets") {
		t.Errorf("Expected corrupt entry to be deleted, got %v", mock.deleted)
	}
}

func TestClient_DeleteResponseAndClose(t *testing.T) {
	mock := newMockRedis()
	client := NewWithClient(mock)
	ctx := context.Background()

	_ = client.StoreResponse(ctx, &types.CachedResponse{Path: "/launches/abc"}, time.Minute)
	if err := client.DeleteResponse(ctx, "/launches/abc"); err != nil {
		t.Fatalf("DeleteResponse() failed: %v", err)
	}
	if len(mock.deleted) != 1 || mock.deleted[0] != responseKey("/launches/abc") {
		t.Errorf("Unexpected deleted keys: %v", mock.deleted)
	}

	if err := client.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}
	if !mock.closed {
		t.Error("Expected underlying client to be closed")
	}
}
