package event

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestDispatcher_DispatchStopsAtFirstError(t *testing.T) {
	d := NewDispatcher(zap.NewNop())

	var calls []string
	d.Subscribe(TypeContractValidated, "first", func(_ context.Context, _ *Event) error {
		calls = append(calls, "first")
		return fmt.Errorf("first failed")
	})
	d.Subscribe(TypeContractValidated, "second", func(_ context.Context, _ *Event) error {
		calls = append(calls, "second")
		return nil
	})

	err := d.Dispatch(context.Background(), New(TypeContractValidated, nil))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "first")
	assert.Equal(t, []string{"first"}, calls)
}

func TestDispatcher_DispatchAsyncNeverFailsProducer(t *testing.T) {
	d := NewDispatcher(zap.NewNop())

	var delivered atomic.Int32
	d.Subscribe(TypeShiftBulkCancelled, "failing", func(_ context.Context, _ *Event) error {
		delivered.Add(1)
		return fmt.Errorf("smtp down")
	})
	d.Subscribe(TypeShiftBulkCancelled, "panicking", func(_ context.Context, _ *Event) error {
		delivered.Add(1)
		panic("handler bug")
	})

	d.DispatchAsync(context.Background(), New(TypeShiftBulkCancelled, map[string]interface{}{"cancelled": 3}))

	// Close waits for in-flight handlers
	require.NoError(t, d.Close())
	assert.Equal(t, int32(2), delivered.Load())
}

func TestDispatcher_ClosedDropsEvents(t *testing.T) {
	d := NewDispatcher(zap.NewNop())

	var delivered atomic.Int32
	d.Subscribe(TypeContractExpired, "counter", func(_ context.Context, _ *Event) error {
		delivered.Add(1)
		return nil
	})

	require.NoError(t, d.Close())

	err := d.Dispatch(context.Background(), New(TypeContractExpired, nil))
	assert.Error(t, err)

	d.DispatchAsync(context.Background(), New(TypeContractExpired, nil))
	assert.Equal(t, int32(0), delivered.Load())
}

func TestDispatcher_OnlyMatchingTypeReceives(t *testing.T) {
	d := NewDispatcher(zap.NewNop())

	var got Type
	d.Subscribe(TypeContractValidated, "recorder", func(_ context.Context, evt *Event) error {
		got = evt.Type
		return nil
	})

	require.NoError(t, d.Dispatch(context.Background(), New(TypeShiftBulkCancelled, nil)))
	assert.Empty(t, got)

	require.NoError(t, d.Dispatch(context.Background(), New(TypeContractValidated, nil)))
	assert.Equal(t, TypeContractValidated, got)
}

func TestEvent_PayloadAccessors(t *testing.T) {
	evt := New(TypeShiftBulkCancelled, map[string]interface{}{
		"guard_name": "Nguyễn Văn An",
		"cancelled":  3,
		"percentage": 66.67,
	})

	assert.NotEmpty(t, evt.ID)
	assert.False(t, evt.Timestamp.IsZero())

	assert.Equal(t, "Nguyễn Văn An", evt.GetString("guard_name"))
	assert.Equal(t, int64(3), evt.GetInt("cancelled"))
	assert.Equal(t, 66.67, evt.GetFloat("percentage"))
	assert.Equal(t, float64(3), evt.GetFloat("cancelled"))

	// Missing or mistyped keys fall back to zero values
	assert.Equal(t, "", evt.GetString("cancelled"))
	assert.Equal(t, int64(0), evt.GetInt("missing"))
}
