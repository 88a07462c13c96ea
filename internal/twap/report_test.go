package twap

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteDryRunPlan(t *testing.T) {
	req, err := ValidateInputs("BTCUSDT", "buy", d("1.0"), d("40000"), 5, 60)
	require.NoError(t, err)

	var buf bytes.Buffer
	WriteDryRunPlan(&buf, req, NewPlan(req.TotalQuantity, req.NumChunks, req.IntervalSeconds))

	heavy := strings.Repeat("=", 70)
	light := strings.Repeat("-", 70)
	want := strings.Join([]string{
		"",
		heavy,
		"TWAP EXECUTION PLAN (DRY RUN - NO ORDERS PLACED)",
		heavy,
		"Symbol: BTCUSDT",
		"Side: BUY",
		"Total Quantity: 1.0",
		"Price: 40000.0",
		"Number of Chunks: 5",
		"Interval: 60 seconds",
		"Chunk Size: 0.20000000",
		"Remainder: 0.00000000",
		"",
		"Execution Schedule:",
		light,
		"Order 1: 0.20000000 BTCUSDT at $40000.0 (+0s from start)",
		"Order 2: 0.20000000 BTCUSDT at $40000.0 (+60s from start)",
		"Order 3: 0.20000000 BTCUSDT at $40000.0 (+120s from start)",
		"Order 4: 0.20000000 BTCUSDT at $40000.0 (+180s from start)",
		"Order 5: 0.20000000 BTCUSDT at $40000.0 (+240s from start)",
		light,
		"Total Execution Time: 240 seconds (~4.0 minutes)",
		heavy,
		"",
		"",
	}, "\n")

	assert.Equal(t, want, buf.String())
}

func TestWriteDryRunPlan_Remainder(t *testing.T) {
	req, err := ValidateInputs("ETHUSDT", "SELL", d("1"), d("2500.5"), 3, 0)
	require.NoError(t, err)

	var buf bytes.Buffer
	WriteDryRunPlan(&buf, req, NewPlan(req.TotalQuantity, req.NumChunks, req.IntervalSeconds))
	out := buf.String()

	assert.Contains(t, out, "Remainder: 0.00000001\n")
	assert.Contains(t, out, "Order 3: 0.33333334 ETHUSDT at $2500.5 (+0s from start)\n")
	assert.Contains(t, out, "Total Execution Time: 0 seconds (~0.0 minutes)\n")
}

func TestWriteSummary(t *testing.T) {
	req, err := ValidateInputs("BTCUSDT", "BUY", d("1.0"), d("40000"), 5, 60)
	require.NoError(t, err)

	t.Run("partial", func(t *testing.T) {
		res := &Result{
			Request:          *req,
			OrderIDs:         []int64{1, 2, 4, 5},
			ExecutedQuantity: d("0.8"),
			Status:           StatusPartial,
			ChunkErrors:      map[int]error{3: errors.New("insufficient margin")},
		}

		var buf bytes.Buffer
		WriteSummary(&buf, res)
		out := buf.String()

		assert.Contains(t, out, "TWAP ORDER EXECUTION PARTIALLY COMPLETED\n")
		assert.Contains(t, out, "Total Quantity: 1.00000000\n")
		assert.Contains(t, out, "Executed Quantity: 0.80000000\n")
		assert.Contains(t, out, "Price: $40000.0\n")
		assert.Contains(t, out, "Order IDs: [1, 2, 4, 5]\n")
		assert.Contains(t, out, "Failed Chunks:\n  Chunk 3: insufficient margin\n")
		assert.Contains(t, out, "Status: partial\n")
	})

	t.Run("completed", func(t *testing.T) {
		res := &Result{
			Request:          *req,
			OrderIDs:         []int64{7},
			ExecutedQuantity: d("1.0"),
			Status:           StatusCompleted,
			ChunkErrors:      map[int]error{},
		}

		var buf bytes.Buffer
		WriteSummary(&buf, res)
		out := buf.String()

		assert.Contains(t, out, "TWAP ORDER EXECUTION COMPLETED\n")
		assert.NotContains(t, out, "Failed Chunks")
		assert.Contains(t, out, "Status: completed\n")
	})

	t.Run("failed", func(t *testing.T) {
		res := &Result{
			Request:          *req,
			OrderIDs:         []int64{},
			ExecutedQuantity: decimal.Zero,
			Status:           StatusFailed,
			ChunkErrors:      map[int]error{1: errors.New("x"), 2: errors.New("y")},
		}

		var buf bytes.Buffer
		WriteSummary(&buf, res)
		out := buf.String()

		assert.Contains(t, out, "TWAP ORDER EXECUTION FAILED\n")
		assert.Contains(t, out, "Order IDs: []\n")
		assert.Less(t, strings.Index(out, "Chunk 1: x"), strings.Index(out, "Chunk 2: y"))
	})

	t.Run("dry-run-prints-nothing", func(t *testing.T) {
		var buf bytes.Buffer
		WriteSummary(&buf, &Result{Request: *req, Status: StatusDryRunPreview})
		assert.Empty(t, buf.String())
	})
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"40000", "40000.0"},
		{"1.0", "1.0"},
		{"0.5", "0.5"},
		{"2500.50", "2500.5"},
		{"0.00000001", "0.00000001"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, formatNumber(d(tt.in)))
		})
	}
}

func TestAggregateStatus(t *testing.T) {
	assert.Equal(t, StatusCompleted, aggregateStatus(5, 0))
	assert.Equal(t, StatusPartial, aggregateStatus(4, 1))
	assert.Equal(t, StatusFailed, aggregateStatus(0, 5))
}
