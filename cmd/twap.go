package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mselser95/futures-bot/internal/twap"
)

type twapFlags struct {
	orderFlags
	chunks   int
	interval int
	dryRun   bool
}

func newTWAPCmd() *cobra.Command {
	flags := &twapFlags{}

	cmd := &cobra.Command{
		Use:   "twap",
		Short: "Place a TWAP order split into equal limit-order chunks",
		Long: `Splits the total quantity into equal chunks and submits one GTC limit
order per chunk, waiting the interval between submissions. The last chunk
absorbs any remainder. Failed chunks are recorded and the run continues.

Exit codes: 0 completed or dry run, 1 failed or rejected input, 2 partial.`,
		Example: `  futures-bot twap -s BTCUSDT -sd BUY -q 1.0 -p 40000 -c 5 -i 60 --dry-run
  futures-bot twap -s BTCUSDT -sd BUY -q 1.0 -p 40000 -c 5 -i 60`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTWAP(cmd, flags)
		},
	}

	flags.bind(cmd, true)
	cmd.Flags().IntVarP(&flags.chunks, "chunks", "c", 0, "Number of chunks to split into")
	cmd.Flags().IntVarP(&flags.interval, "interval", "i", 0, "Interval between chunks (seconds)")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "Preview execution plan without placing orders")
	_ = cmd.MarkFlagRequired("chunks")
	_ = cmd.MarkFlagRequired("interval")

	return cmd
}

func runTWAP(cmd *cobra.Command, flags *twapFlags) error {
	env, err := loadEnvironment()
	if err != nil {
		return err
	}
	defer env.sync()

	env.logger.Info("bot-started",
		zap.String("order-type", "twap"),
		zap.Bool("dry-run", flags.dryRun))

	quantity, err := flags.parseQuantity()
	if err != nil {
		return env.rejectInput("twap", err)
	}

	price, err := flags.parsePrice()
	if err != nil {
		return env.rejectInput("twap", err)
	}

	req, err := twap.ValidateInputs(
		flags.normalizedSymbol(),
		flags.normalizedSide(),
		quantity,
		price,
		flags.chunks,
		flags.interval,
	)
	if err != nil {
		return env.rejectInput("twap", err)
	}
	req.DryRun = flags.dryRun

	ctx, stop := signalContext(cmd.Context())
	defer stop()

	application, err := env.startApp(ctx, cmd.OutOrStdout(), !req.DryRun)
	if err != nil {
		return err
	}
	defer env.stopApp(application)

	result, err := application.RunTWAP(ctx, req)
	if err != nil {
		return fmt.Errorf("run twap: %w", err)
	}

	if ctx.Err() != nil {
		env.logger.Warn("twap-interrupted", zap.String("run-id", result.RunID))
		fmt.Fprintln(cmd.ErrOrStderr(), "Interrupted: remaining chunks were not submitted")
	}

	return twapOutcome(result)
}

// twapOutcome maps the terminal status of a run to an exit error.
func twapOutcome(result *twap.Result) error {
	total := result.Request.NumChunks

	switch result.Status {
	case twap.StatusPartial:
		return &ExitError{
			Code: exitPartial,
			Err: fmt.Errorf("twap run %s partially completed: %d of %d chunks failed",
				result.RunID, len(result.ChunkErrors), total),
		}
	case twap.StatusFailed:
		return &ExitError{
			Code: exitFailure,
			Err:  fmt.Errorf("twap run %s failed: all %d chunks failed", result.RunID, total),
		}
	default:
		return nil
	}
}
