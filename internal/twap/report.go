package twap

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	heavyRule = strings.Repeat("=", 70)
	lightRule = strings.Repeat("-", 70)
)

// WriteDryRunPlan renders the execution plan without placing any order.
func WriteDryRunPlan(w io.Writer, req *Request, plan *Plan) {
	fmt.Fprintf(w, "\n%s\n", heavyRule)
	fmt.Fprintf(w, "TWAP EXECUTION PLAN (DRY RUN - NO ORDERS PLACED)\n")
	fmt.Fprintf(w, "%s\n", heavyRule)
	fmt.Fprintf(w, "Symbol: %s\n", req.Symbol)
	fmt.Fprintf(w, "Side: %s\n", req.Side)
	fmt.Fprintf(w, "Total Quantity: %s\n", formatNumber(req.TotalQuantity))
	fmt.Fprintf(w, "Price: %s\n", formatNumber(req.Price))
	fmt.Fprintf(w, "Number of Chunks: %d\n", req.NumChunks)
	fmt.Fprintf(w, "Interval: %d seconds\n", req.IntervalSeconds)
	fmt.Fprintf(w, "Chunk Size: %s\n", plan.ChunkSize.StringFixed(QuantityPrecision))
	fmt.Fprintf(w, "Remainder: %s\n", plan.Remainder.StringFixed(QuantityPrecision))
	fmt.Fprintf(w, "\nExecution Schedule:\n")
	fmt.Fprintf(w, "%s\n", lightRule)

	for _, chunk := range plan.Chunks {
		fmt.Fprintf(w, "Order %d: %s %s at $%s (+%ds from start)\n",
			chunk.Number(),
			chunk.Quantity.StringFixed(QuantityPrecision),
			req.Symbol,
			formatNumber(req.Price),
			chunk.OffsetSeconds)
	}

	totalTime := plan.DurationSeconds()
	fmt.Fprintf(w, "%s\n", lightRule)
	fmt.Fprintf(w, "Total Execution Time: %d seconds (~%.1f minutes)\n", totalTime, float64(totalTime)/60)
	fmt.Fprintf(w, "%s\n\n", heavyRule)
}

// WriteSummary renders the outcome of a live run. Dry runs print nothing
// here because the plan was already rendered.
func WriteSummary(w io.Writer, res *Result) {
	if res.Status == StatusDryRunPreview {
		return
	}

	req := res.Request

	fmt.Fprintf(w, "\n%s\n", heavyRule)
	fmt.Fprintf(w, "%s\n", summaryTitle(res.Status))
	fmt.Fprintf(w, "%s\n", heavyRule)
	fmt.Fprintf(w, "Symbol: %s\n", req.Symbol)
	fmt.Fprintf(w, "Side: %s\n", req.Side)
	fmt.Fprintf(w, "Total Quantity: %s\n", req.TotalQuantity.StringFixed(QuantityPrecision))
	fmt.Fprintf(w, "Executed Quantity: %s\n", res.ExecutedQuantity.StringFixed(QuantityPrecision))
	fmt.Fprintf(w, "Price: $%s\n", formatNumber(req.Price))
	fmt.Fprintf(w, "Number of Chunks: %d\n", req.NumChunks)
	fmt.Fprintf(w, "Interval: %d seconds\n", req.IntervalSeconds)
	fmt.Fprintf(w, "\nOrder IDs: %s\n", formatOrderIDs(res.OrderIDs))

	failed := res.FailedChunks()
	if len(failed) > 0 {
		fmt.Fprintf(w, "Failed Chunks:\n")
		for _, n := range failed {
			fmt.Fprintf(w, "  Chunk %d: %v\n", n, res.ChunkErrors[n])
		}
	}

	fmt.Fprintf(w, "Status: %s\n", res.Status)
	fmt.Fprintf(w, "%s\n\n", heavyRule)
}

func summaryTitle(status Status) string {
	switch status {
	case StatusPartial:
		return "TWAP ORDER EXECUTION PARTIALLY COMPLETED"
	case StatusFailed:
		return "TWAP ORDER EXECUTION FAILED"
	default:
		return "TWAP ORDER EXECUTION COMPLETED"
	}
}

// formatNumber prints user-supplied amounts the way the legacy reports did:
// integral values keep a trailing ".0".
func formatNumber(d decimal.Decimal) string {
	s := d.String()
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

func formatOrderIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
