package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mselser95/futures-bot/internal/orders"
)

func newLimitCmd() *cobra.Command {
	flags := &orderFlags{}

	cmd := &cobra.Command{
		Use:     "limit",
		Short:   "Place a GTC limit order",
		Example: "  futures-bot limit -s BTCUSDT -sd BUY -q 0.01 -p 40000",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runLimit(cmd, flags)
		},
	}
	flags.bind(cmd, true)

	return cmd
}

func runLimit(cmd *cobra.Command, flags *orderFlags) error {
	env, err := loadEnvironment()
	if err != nil {
		return err
	}
	defer env.sync()

	env.logger.Info("bot-started", zap.String("order-type", "limit"))

	quantity, err := flags.parseQuantity()
	if err != nil {
		return env.rejectInput("limit", err)
	}

	price, err := flags.parsePrice()
	if err != nil {
		return env.rejectInput("limit", err)
	}

	order, err := orders.ValidateLimit(flags.normalizedSymbol(), flags.normalizedSide(), quantity, price)
	if err != nil {
		return env.rejectInput("limit", err)
	}

	ctx, stop := signalContext(cmd.Context())
	defer stop()

	application, err := env.startApp(ctx, cmd.OutOrStdout(), true)
	if err != nil {
		return err
	}
	defer env.stopApp(application)

	resp, err := application.PlaceLimit(ctx, order)
	if err != nil {
		return fmt.Errorf("limit order failed: %w", err)
	}

	status := resp.Status
	if status == "" {
		status = "PENDING"
	}

	writeBanner(cmd.OutOrStdout(), "LIMIT ORDER PLACED",
		fmt.Sprintf("Symbol: %s", order.Symbol),
		fmt.Sprintf("Side: %s", order.Side),
		fmt.Sprintf("Quantity: %s", order.Quantity),
		fmt.Sprintf("Price: $%s", order.Price),
		fmt.Sprintf("Order ID: %d", resp.OrderID),
		fmt.Sprintf("Status: %s", status),
	)

	return nil
}
