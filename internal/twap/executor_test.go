package twap

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/mselser95/futures-bot/internal/testutil"
	"github.com/mselser95/futures-bot/pkg/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// eventLog records placements and waits in the order they happen.
type eventLog struct {
	mu     sync.Mutex
	events []string
	waits  []time.Duration
}

func (l *eventLog) add(event string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, event)
}

func (l *eventLog) sleep(_ context.Context, d time.Duration) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, "wait")
	l.waits = append(l.waits, d)
	return nil
}

type loggingPlacer struct {
	inner *testutil.MockOrderPlacer
	log   *eventLog
}

func (p *loggingPlacer) PlaceLimitOrder(
	ctx context.Context,
	symbol string,
	side types.Side,
	quantity decimal.Decimal,
	price decimal.Decimal,
) (*types.OrderResponse, error) {
	p.log.add("place")
	return p.inner.PlaceLimitOrder(ctx, symbol, side, quantity, price)
}

func newTestExecutor(t *testing.T, placer OrderPlacer, sleep SleepFunc, out *bytes.Buffer) *Executor {
	t.Helper()

	exec, err := New(&Config{
		Placer: placer,
		Logger: zaptest.NewLogger(t),
		Output: out,
		Sleep:  sleep,
	})
	require.NoError(t, err)
	return exec
}

func mustRequest(t *testing.T, qty string, chunks, interval int) *Request {
	t.Helper()

	req, err := ValidateInputs("BTCUSDT", "BUY", d(qty), d("40000"), chunks, interval)
	require.NoError(t, err)
	return req
}

func TestNew(t *testing.T) {
	t.Run("nil-config", func(t *testing.T) {
		exec, err := New(nil)
		assert.Error(t, err)
		assert.Nil(t, exec)
	})

	t.Run("nil-logger", func(t *testing.T) {
		exec, err := New(&Config{})
		assert.Error(t, err)
		assert.Nil(t, exec)
	})

	t.Run("defaults", func(t *testing.T) {
		exec, err := New(&Config{Logger: zaptest.NewLogger(t)})
		require.NoError(t, err)
		assert.NotNil(t, exec.out)
		assert.NotNil(t, exec.sleep)
		assert.NotNil(t, exec.now)
	})
}

func TestExecute_AllChunksPlaced(t *testing.T) {
	log := &eventLog{}
	mock := testutil.NewMockOrderPlacer()
	var out bytes.Buffer
	exec := newTestExecutor(t, &loggingPlacer{inner: mock, log: log}, log.sleep, &out)

	result := exec.Execute(context.Background(), mustRequest(t, "1.0", 5, 60))

	assert.Equal(t, StatusCompleted, result.Status)
	assert.Equal(t, []int64{1001, 1002, 1003, 1004, 1005}, result.OrderIDs)
	assert.Empty(t, result.ChunkErrors)
	assert.True(t, result.ExecutedQuantity.Equal(d("1.0")))
	assert.NotEmpty(t, result.RunID)

	orders := mock.GetPlacedOrders()
	require.Len(t, orders, 5)
	for _, o := range orders {
		assert.Equal(t, "BTCUSDT", o.Symbol)
		assert.Equal(t, types.SideBuy, o.Side)
		assert.Equal(t, types.OrderTypeLimit, o.Type)
		assert.True(t, o.Quantity.Equal(d("0.2")))
		assert.True(t, o.Price.Equal(d("40000")))
	}

	// No wait before the first chunk, one wait between each later pair.
	assert.Equal(t, []string{"place", "wait", "place", "wait", "place", "wait", "place", "wait", "place"}, log.events)
	require.Len(t, log.waits, 4)
	for _, w := range log.waits {
		assert.Equal(t, 60*time.Second, w)
	}

	assert.Contains(t, out.String(), "✓ Order 1/5 placed (Order ID: 1001)")
	assert.Contains(t, out.String(), "✓ Order 5/5 placed (Order ID: 1005)")
}

func TestExecute_RemainderSubmittedWithLastChunk(t *testing.T) {
	log := &eventLog{}
	mock := testutil.NewMockOrderPlacer()
	exec := newTestExecutor(t, mock, log.sleep, &bytes.Buffer{})

	result := exec.Execute(context.Background(), mustRequest(t, "1.0", 3, 1))

	require.Equal(t, StatusCompleted, result.Status)
	orders := mock.GetPlacedOrders()
	require.Len(t, orders, 3)
	assert.Equal(t, "0.33333333", orders[0].Quantity.StringFixed(8))
	assert.Equal(t, "0.33333333", orders[1].Quantity.StringFixed(8))
	assert.Equal(t, "0.33333334", orders[2].Quantity.StringFixed(8))
	assert.True(t, result.ExecutedQuantity.Equal(d("1")))
}

func TestExecute_PartialFailureContinues(t *testing.T) {
	log := &eventLog{}
	mock := testutil.NewMockOrderPlacer()
	mock.FailOnCall(3, fmt.Errorf("insufficient margin"))
	var out bytes.Buffer
	exec := newTestExecutor(t, mock, log.sleep, &out)

	result := exec.Execute(context.Background(), mustRequest(t, "1.0", 5, 10))

	assert.Equal(t, StatusPartial, result.Status)
	assert.Len(t, result.OrderIDs, 4)
	assert.Equal(t, 5, mock.Calls())
	require.Len(t, result.ChunkErrors, 1)
	assert.EqualError(t, result.ChunkErrors[3], "insufficient margin")
	assert.Equal(t, []int{3}, result.FailedChunks())
	assert.True(t, result.ExecutedQuantity.Equal(d("0.8")))
	assert.Contains(t, out.String(), "✗ Order 3/5 failed: insufficient margin")
	// The failed chunk still consumed its slot in the schedule.
	assert.Len(t, log.waits, 4)
}

func TestExecute_AllChunksFailed(t *testing.T) {
	mock := testutil.NewMockOrderPlacer()
	mock.SetFailure(true, "exchange unavailable")
	exec := newTestExecutor(t, mock, (&eventLog{}).sleep, &bytes.Buffer{})

	result := exec.Execute(context.Background(), mustRequest(t, "1.0", 4, 0))

	assert.Equal(t, StatusFailed, result.Status)
	assert.Empty(t, result.OrderIDs)
	assert.Equal(t, []int{1, 2, 3, 4}, result.FailedChunks())
	assert.True(t, result.ExecutedQuantity.IsZero())
}

func TestExecute_DryRunNeverPlaces(t *testing.T) {
	log := &eventLog{}
	mock := testutil.NewMockOrderPlacer()
	var out bytes.Buffer
	exec := newTestExecutor(t, mock, log.sleep, &out)

	req := mustRequest(t, "1.0", 5, 60)
	req.DryRun = true
	result := exec.Execute(context.Background(), req)

	assert.Equal(t, StatusDryRunPreview, result.Status)
	assert.Equal(t, 0, mock.Calls())
	assert.Empty(t, log.events)
	assert.Empty(t, result.OrderIDs)
	assert.Empty(t, result.ChunkErrors)
	assert.Contains(t, out.String(), "TWAP EXECUTION PLAN (DRY RUN - NO ORDERS PLACED)")
}

func TestExecute_DryRunWithoutPlacer(t *testing.T) {
	var out bytes.Buffer
	exec := newTestExecutor(t, nil, nil, &out)

	req := mustRequest(t, "2", 4, 30)
	req.DryRun = true
	result := exec.Execute(context.Background(), req)

	assert.Equal(t, StatusDryRunPreview, result.Status)
	assert.Contains(t, out.String(), "Total Execution Time: 90 seconds (~1.5 minutes)")
}

func TestExecute_NoPlacerFailsEveryChunk(t *testing.T) {
	exec := newTestExecutor(t, nil, (&eventLog{}).sleep, &bytes.Buffer{})

	result := exec.Execute(context.Background(), mustRequest(t, "1", 2, 0))

	assert.Equal(t, StatusFailed, result.Status)
	require.Len(t, result.ChunkErrors, 2)
	assert.True(t, errors.Is(result.ChunkErrors[1], ErrPlacerNotConfigured))
}

func TestExecute_InterruptedWaitAbandonsRemainingChunks(t *testing.T) {
	mock := testutil.NewMockOrderPlacer()
	waits := 0
	sleep := func(_ context.Context, _ time.Duration) error {
		waits++
		if waits == 2 {
			return context.Canceled
		}
		return nil
	}

	var outcomes []ChunkOutcome
	exec, err := New(&Config{
		Placer:  mock,
		Logger:  zaptest.NewLogger(t),
		Output:  &bytes.Buffer{},
		Sleep:   sleep,
		OnChunk: func(o ChunkOutcome) { outcomes = append(outcomes, o) },
	})
	require.NoError(t, err)

	result := exec.Execute(context.Background(), mustRequest(t, "1.0", 5, 60))

	assert.Equal(t, StatusPartial, result.Status)
	assert.Equal(t, 2, mock.Calls())
	assert.Equal(t, []int64{1001, 1002}, result.OrderIDs)
	assert.Equal(t, []int{3, 4, 5}, result.FailedChunks())
	for _, n := range []int{3, 4, 5} {
		assert.True(t, errors.Is(result.ChunkErrors[n], context.Canceled))
		assert.Contains(t, result.ChunkErrors[n].Error(), "chunk not submitted")
	}

	require.Len(t, outcomes, 5)
	assert.Equal(t, int64(1001), outcomes[0].OrderID)
	assert.NoError(t, outcomes[1].Err)
	assert.Error(t, outcomes[2].Err)
	assert.True(t, outcomes[4].Executed.Equal(d("0.4")))
}

func TestExecute_ObserverSeesEveryChunk(t *testing.T) {
	mock := testutil.NewMockOrderPlacer()
	mock.FailOnCall(2, fmt.Errorf("rejected"))

	var outcomes []ChunkOutcome
	exec, err := New(&Config{
		Placer:  mock,
		Logger:  zaptest.NewLogger(t),
		Output:  &bytes.Buffer{},
		Sleep:   (&eventLog{}).sleep,
		OnChunk: func(o ChunkOutcome) { outcomes = append(outcomes, o) },
	})
	require.NoError(t, err)

	result := exec.Execute(context.Background(), mustRequest(t, "0.3", 3, 5))

	require.Len(t, outcomes, 3)
	for i, o := range outcomes {
		assert.Equal(t, result.RunID, o.RunID)
		assert.Equal(t, i, o.Chunk.Index)
		assert.Equal(t, 3, o.Total)
	}
	assert.EqualError(t, outcomes[1].Err, "rejected")
	assert.True(t, outcomes[2].Executed.Equal(d("0.2")))
}

func TestSleepContext(t *testing.T) {
	t.Run("zero-duration", func(t *testing.T) {
		assert.NoError(t, sleepContext(context.Background(), 0))
	})

	t.Run("cancelled-before-wait", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		assert.ErrorIs(t, sleepContext(ctx, time.Hour), context.Canceled)
	})

	t.Run("cancelled-during-wait", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()

		start := time.Now()
		err := sleepContext(ctx, time.Hour)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.Less(t, time.Since(start), time.Second)
	})

	t.Run("elapses", func(t *testing.T) {
		assert.NoError(t, sleepContext(context.Background(), time.Millisecond))
	})
}

func TestExecutePlan_UsesCallerPlan(t *testing.T) {
	log := &eventLog{}
	mock := testutil.NewMockOrderPlacer()
	exec := newTestExecutor(t, mock, log.sleep, &bytes.Buffer{})

	req := mustRequest(t, "1.0", 3, 0)
	plan := NewPlan(req.TotalQuantity, req.NumChunks, req.IntervalSeconds)

	result := exec.ExecutePlan(context.Background(), req, plan)

	assert.Same(t, plan, result.Plan)
	assert.Equal(t, StatusCompleted, result.Status)
	assert.Len(t, mock.GetPlacedOrders(), 3)
}

func TestExecutePlan_NilPlanIsComputed(t *testing.T) {
	exec := newTestExecutor(t, testutil.NewMockOrderPlacer(), (&eventLog{}).sleep, &bytes.Buffer{})

	result := exec.ExecutePlan(context.Background(), mustRequest(t, "1.0", 4, 0), nil)

	require.NotNil(t, result.Plan)
	assert.Len(t, result.Plan.Chunks, 4)
	assert.Equal(t, StatusCompleted, result.Status)
}
