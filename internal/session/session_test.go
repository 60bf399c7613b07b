package session

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/hoshangsheth/customer-segmentation-kmeans/internal/segment"
)

func entry() Entry {
	return Entry{
		Features:   segment.Features{Income: 50000, WineSpend: 200, MeatSpend: 100, FishSpend: 50, WebVisits: 5, Age: 35},
		Prediction: segment.Prediction{Cluster: 1, Segment: "Budget-Conscious Buyer", Recommendation: "Run flash sales"},
		At:         time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func TestMemory(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	m := NewMemory(time.Hour)
	m.now = func() time.Time { return now }

	_, err := m.Load(ctx, "a")
	assert.True(t, errors.Is(err, ErrNotFound))

	require.NoError(t, m.Save(ctx, "a", entry()))
	got, err := m.Load(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, entry(), got)

	_, err = m.Load(ctx, "b")
	assert.True(t, errors.Is(err, ErrNotFound))

	now = now.Add(time.Hour)
	_, err = m.Load(ctx, "a")
	assert.True(t, errors.Is(err, ErrNotFound))

	require.NoError(t, m.Save(ctx, "b", entry()))
	assert.Len(t, m.entries, 1)
	assert.NoError(t, m.Close())
}

func TestMemory_SweepInterval(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	m := NewMemory(time.Hour)
	m.sweepEvery = 2 * time.Hour
	m.now = func() time.Time { return now }

	require.NoError(t, m.Save(ctx, "a", entry()))

	now = now.Add(time.Hour)
	require.NoError(t, m.Save(ctx, "b", entry()))
	assert.Len(t, m.entries, 2, "swept before the interval elapsed")
	_, err := m.Load(ctx, "a")
	assert.True(t, errors.Is(err, ErrNotFound))

	now = now.Add(time.Hour)
	require.NoError(t, m.Save(ctx, "c", entry()))
	assert.Len(t, m.entries, 1)
	_, err = m.Load(ctx, "c")
	assert.NoError(t, err)
}

func TestHeader(t *testing.T) {
	assert.Equal(t, "X-Session-ID", Header)
}

func TestMemory_NoTTL(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(0)
	m.now = func() time.Time { return time.Date(2100, 1, 1, 0, 0, 0, 0, time.UTC) }
	require.NoError(t, m.Save(ctx, "a", entry()))
	_, err := m.Load(ctx, "a")
	assert.NoError(t, err)
}

type mockClient struct {
	mock.Mock
}

func (m *mockClient) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	args := m.Called(key, value, expiration)
	return args.Get(0).(*redis.StatusCmd)
}

func (m *mockClient) Get(ctx context.Context, key string) *redis.StringCmd {
	args := m.Called(key)
	return args.Get(0).(*redis.StringCmd)
}

func (m *mockClient) Close() error {
	return m.Called().Error(0)
}

func TestRedis_Save(t *testing.T) {
	data, err := json.Marshal(entry())
	require.NoError(t, err)

	tests := []struct {
		name    string
		result  *redis.StatusCmd
		wantErr bool
	}{
		{name: "ok", result: redis.NewStatusResult("OK", nil)},
		{name: "server_error", result: redis.NewStatusResult("", errors.New("READONLY")), wantErr: true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			client := &mockClient{}
			client.On("Set", "s:abc", data, 30*time.Minute).Return(test.result)

			r := newRedis(client, "s:", 30*time.Minute)
			err := r.Save(context.Background(), "abc", entry())
			if test.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			client.AssertExpectations(t)
		})
	}
}

func TestRedis_Load(t *testing.T) {
	data, err := json.Marshal(entry())
	require.NoError(t, err)

	tests := []struct {
		name        string
		result      *redis.StringCmd
		expected    Entry
		expectedErr error
		wantErr     bool
	}{
		{name: "found", result: redis.NewStringResult(string(data), nil), expected: entry()},
		{name: "missing", result: redis.NewStringResult("", redis.Nil), expectedErr: ErrNotFound},
		{name: "garbage", result: redis.NewStringResult("{", nil), wantErr: true},
		{name: "connection", result: redis.NewStringResult("", errors.New("dial tcp")), wantErr: true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			client := &mockClient{}
			client.On("Get", "s:abc").Return(test.result)

			r := newRedis(client, "s:", time.Minute)
			got, err := r.Load(context.Background(), "abc")
			switch {
			case test.expectedErr != nil:
				assert.True(t, errors.Is(err, test.expectedErr), "got: %v", err)
			case test.wantErr:
				assert.Error(t, err)
				assert.False(t, errors.Is(err, ErrNotFound))
			default:
				require.NoError(t, err)
				assert.Equal(t, test.expected, got)
			}
		})
	}
}

func TestNewFromConfig(t *testing.T) {
	s, err := NewFromConfig(context.Background(), &Config{Backend: BackendMemory, TTL: time.Minute})
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, s)

	_, err = NewFromConfig(context.Background(), &Config{Backend: "memcached"})
	assert.Error(t, err)
}
