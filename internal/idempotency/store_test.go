package idempotency

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(now time.Time) (*Store, *simpleMock) {
	mock := newSimpleMock()
	s := NewStore(mock, "idempotency-table", 48*time.Hour)
	s.nowFunc = func() time.Time { return now }
	return s, mock
}

func TestBegin_Get_MarkDone(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s, mock := newTestStore(now)
	ctx := context.Background()
	key := "test-key-1"

	created, rec, err := s.Begin(ctx, key)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Nil(t, rec)

	// second begin sees the in-flight attempt
	created, rec, err = s.Begin(ctx, key)
	require.NoError(t, err)
	assert.False(t, created)
	require.NotNil(t, rec)
	assert.Equal(t, StatusInProgress, rec.Status)
	assert.Equal(t, now.Add(48*time.Hour).Unix(), rec.ExpiresAt)

	require.NoError(t, s.MarkDone(ctx, key, "p-1", `{"id":"p-1"}`, 200))

	item := mock.table[key]
	st, ok := item["status"].(*types.AttributeValueMemberS)
	require.True(t, ok)
	assert.Equal(t, StatusDone, st.Value)

	got, err := s.Get(ctx, key)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, StatusDone, got.Status)
	assert.Equal(t, "p-1", got.PedidoID)
	assert.Equal(t, `{"id":"p-1"}`, got.ResponseBody)
	assert.Equal(t, 200, got.ResponseStatus)

	// finished keys are not reclaimed
	created, rec, err = s.Begin(ctx, key)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, StatusDone, rec.Status)
}

func TestMarkFailed_AllowsRetry(t *testing.T) {
	s, mock := newTestStore(time.Now())
	ctx := context.Background()

	created, _, err := s.Begin(ctx, "k")
	require.NoError(t, err)
	require.True(t, created)

	require.NoError(t, s.MarkFailed(ctx, "k", "upstream down"))
	n, ok := mock.table["k"]["note"].(*types.AttributeValueMemberS)
	require.True(t, ok)
	assert.Equal(t, "upstream down", n.Value)

	created, rec, err := s.Begin(ctx, "k")
	require.NoError(t, err)
	assert.True(t, created, "a failed key can be claimed again")
	assert.Nil(t, rec)

	got, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, StatusInProgress, got.Status)
	assert.Empty(t, got.Note)
}

func TestExpiredKeys(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	s, _ := newTestStore(start)
	ctx := context.Background()

	created, _, err := s.Begin(ctx, "k")
	require.NoError(t, err)
	require.True(t, created)
	require.NoError(t, s.MarkDone(ctx, "k", "p", "{}", 200))

	s.nowFunc = func() time.Time { return start.Add(49 * time.Hour) }

	got, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Nil(t, got, "expired record is invisible")

	created, _, err = s.Begin(ctx, "k")
	require.NoError(t, err)
	assert.True(t, created)
}

func TestGet_Missing(t *testing.T) {
	s, _ := newTestStore(time.Now())
	got, err := s.Get(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestBackendErrors(t *testing.T) {
	s, mock := newTestStore(time.Now())
	boom := errors.New("throttled")
	mock.failWith = boom
	ctx := context.Background()

	_, _, err := s.Begin(ctx, "k")
	assert.ErrorIs(t, err, boom)
	_, err = s.Get(ctx, "k")
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, s.MarkDone(ctx, "k", "p", "{}", 200), boom)
	assert.ErrorIs(t, s.MarkFailed(ctx, "k", "n"), boom)
}

func TestRecordMarshalRoundTrip(t *testing.T) {
	rec := Record{
		IdempotencyKey: "k1",
		Status:         StatusDone,
		PedidoID:       "p1",
		ResponseBody:   `{"id":"p1"}`,
		ResponseStatus: 200,
		CreatedAt:      time.Now().UTC().Round(time.Second),
		UpdatedAt:      time.Now().UTC().Round(time.Second),
		ExpiresAt:      time.Now().Add(24 * time.Hour).Unix(),
	}
	m, err := attributevalue.MarshalMap(rec)
	require.NoError(t, err)
	assert.Contains(t, m, "idempotency_key")
	assert.Contains(t, m, "expires_at")

	var out Record
	require.NoError(t, attributevalue.UnmarshalMap(m, &out))
	assert.Equal(t, rec.IdempotencyKey, out.IdempotencyKey)
	assert.Equal(t, rec.PedidoID, out.PedidoID)
	assert.Equal(t, rec.ResponseBody, out.ResponseBody)
	assert.Equal(t, rec.ResponseStatus, out.ResponseStatus)
	assert.Equal(t, rec.ExpiresAt, out.ExpiresAt)
	assert.True(t, rec.CreatedAt.Equal(out.CreatedAt))
}
