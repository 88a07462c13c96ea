package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/mselser95/futures-bot/internal/app"
	"github.com/mselser95/futures-bot/pkg/config"
	"github.com/mselser95/futures-bot/pkg/types"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Process exit codes.
const (
	exitOK      = 0
	exitFailure = 1 // Failed run, rejected input or configuration error
	exitPartial = 2 // TWAP run with some chunks placed and some failed
)

// ExitError carries the exit code a command wants the process to end with.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "futures-bot",
		Short: "Binance USDⓈ-M futures order bot",
		Long: `Places market, limit and TWAP orders on Binance USDⓈ-M futures.

A TWAP order splits a total quantity into equal limit-order chunks submitted
at a fixed interval. Use --dry-run to preview the plan without credentials.

Credentials and endpoints are read from the environment or a .env file
(BINANCE_API_KEY, BINANCE_API_SECRET, BINANCE_FUTURES_URL).`,
		Example: `  futures-bot market -s BTCUSDT -sd BUY -q 0.01
  futures-bot limit -s BTCUSDT -sd BUY -q 0.01 -p 40000
  futures-bot twap -s BTCUSDT -sd BUY -q 1.0 -p 40000 -c 5 -i 60 --dry-run`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newMarketCmd(), newLimitCmd(), newTWAPCmd())

	return root
}

// Execute runs the command line and exits the process with the mapped code.
// This is called by main.main().
func Execute() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := newRootCmd()
	root.SetArgs(translateArgs(args))
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		if types.IsValidationError(err) {
			fmt.Fprintf(stderr, "Run '%s --help' for usage.\n", root.CommandPath())
		}
	}

	return exitCode(err)
}

// translateArgs rewrites the two-letter -sd shorthand to --side. pflag only
// supports single-letter shorthands and would read -sd as -s d.
func translateArgs(args []string) []string {
	translated := make([]string, 0, len(args))
	for i, arg := range args {
		if arg == "--" {
			return append(translated, args[i:]...)
		}

		switch {
		case arg == "-sd":
			arg = "--side"
		case strings.HasPrefix(arg, "-sd="):
			arg = "--side=" + strings.TrimPrefix(arg, "-sd=")
		}
		translated = append(translated, arg)
	}
	return translated
}

func exitCode(err error) int {
	if err == nil {
		return exitOK
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	return exitFailure
}

// orderFlags are the inputs shared by every order command.
type orderFlags struct {
	symbol   string
	side     string
	quantity string
	price    string
}

func (f *orderFlags) bind(cmd *cobra.Command, withPrice bool) {
	cmd.Flags().StringVarP(&f.symbol, "symbol", "s", "", "Trading pair (e.g., BTCUSDT)")
	cmd.Flags().StringVar(&f.side, "side", "", "Order side: BUY or SELL (also -sd)")
	cmd.Flags().StringVarP(&f.quantity, "quantity", "q", "", "Order quantity")
	_ = cmd.MarkFlagRequired("symbol")
	_ = cmd.MarkFlagRequired("side")
	_ = cmd.MarkFlagRequired("quantity")

	if withPrice {
		cmd.Flags().StringVarP(&f.price, "price", "p", "", "Limit price")
		_ = cmd.MarkFlagRequired("price")
	}
}

func (f *orderFlags) normalizedSymbol() string {
	return strings.ToUpper(strings.TrimSpace(f.symbol))
}

func (f *orderFlags) normalizedSide() string {
	return strings.ToUpper(strings.TrimSpace(f.side))
}

func (f *orderFlags) parseQuantity() (decimal.Decimal, error) {
	return parseDecimal("quantity", f.quantity, types.ErrInvalidQuantity)
}

func (f *orderFlags) parsePrice() (decimal.Decimal, error) {
	return parseDecimal("price", f.price, types.ErrInvalidPrice)
}

func parseDecimal(field, value string, kind error) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return decimal.Zero, types.NewValidationError(kind, field, "%s %q is not a number", field, value)
	}
	return d, nil
}

// environment is the configuration and logger shared by one command run.
type environment struct {
	cfg    *config.Config
	logger *zap.Logger
}

func loadEnvironment() (*environment, error) {
	// A missing .env file is fine; the environment may already be set.
	err := godotenv.Load()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg, err := config.LoadFromEnv()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := config.NewLogger(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	return &environment{cfg: cfg, logger: logger}, nil
}

func (e *environment) sync() {
	_ = e.logger.Sync()
}

// startApp builds and starts the application. The caller must call
// stopApp when done.
func (e *environment) startApp(ctx context.Context, out io.Writer, live bool) (*app.App, error) {
	application, err := app.New(ctx, e.cfg, e.logger, &app.Options{
		Live:   live,
		Output: out,
	})
	if err != nil {
		return nil, fmt.Errorf("create app: %w", err)
	}

	application.Start()
	return application, nil
}

func (e *environment) stopApp(application *app.App) {
	err := application.Shutdown()
	if err != nil {
		e.logger.Error("shutdown-error", zap.Error(err))
	}
}

// rejectInput logs a validation failure. Rejected input is not a trading
// failure so it is logged at warn level.
func (e *environment) rejectInput(orderType string, err error) error {
	e.logger.Warn("order-input-rejected",
		zap.String("order-type", orderType),
		zap.Error(err))
	return err
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
}

var bannerRule = strings.Repeat("=", 70)

func writeBanner(w io.Writer, title string, lines ...string) {
	fmt.Fprintf(w, "\n%s\n%s\n%s\n", bannerRule, title, bannerRule)
	for _, line := range lines {
		fmt.Fprintln(w, line)
	}
	fmt.Fprintf(w, "%s\n\n", bannerRule)
}
