package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mselser95/futures-bot/internal/orders"
)

func newMarketCmd() *cobra.Command {
	flags := &orderFlags{}

	cmd := &cobra.Command{
		Use:     "market",
		Short:   "Place a market order",
		Example: "  futures-bot market -s BTCUSDT -sd BUY -q 0.01",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMarket(cmd, flags)
		},
	}
	flags.bind(cmd, false)

	return cmd
}

func runMarket(cmd *cobra.Command, flags *orderFlags) error {
	env, err := loadEnvironment()
	if err != nil {
		return err
	}
	defer env.sync()

	env.logger.Info("bot-started", zap.String("order-type", "market"))

	quantity, err := flags.parseQuantity()
	if err != nil {
		return env.rejectInput("market", err)
	}

	order, err := orders.ValidateMarket(flags.normalizedSymbol(), flags.normalizedSide(), quantity)
	if err != nil {
		return env.rejectInput("market", err)
	}

	ctx, stop := signalContext(cmd.Context())
	defer stop()

	application, err := env.startApp(ctx, cmd.OutOrStdout(), true)
	if err != nil {
		return err
	}
	defer env.stopApp(application)

	resp, err := application.PlaceMarket(ctx, order)
	if err != nil {
		return fmt.Errorf("market order failed: %w", err)
	}

	writeBanner(cmd.OutOrStdout(), "MARKET ORDER EXECUTED",
		fmt.Sprintf("Symbol: %s", order.Symbol),
		fmt.Sprintf("Side: %s", order.Side),
		fmt.Sprintf("Quantity: %s", order.Quantity),
		fmt.Sprintf("Order ID: %d", resp.OrderID),
		fmt.Sprintf("Status: %s", resp.Status),
	)

	return nil
}
