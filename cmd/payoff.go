package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/vibast-solutions/ms-go-lava/app/lava"
)

var payoffCmd = &cobra.Command{
	Use:   "payoff",
	Short: "Create payoffs, query their status and check destinations",
}

var payoffCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Withdraw funds to a Lava wallet or a bank card",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, client := mustCreateLavaClient()
		req, err := payoffCreateRequestFromFlags(cmd.Flags(), client.ShopID())
		if err != nil {
			return err
		}
		return runCall(cmd.OutOrStdout(), "payoff_create", func(ctx context.Context) (gatewayResult, error) {
			return client.CreatePayoff(ctx, req)
		})
	},
}

var payoffStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the status of a payoff by order id or payoff id",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, client := mustCreateLavaClient()
		orderID, payoffID, err := exactlyOneID(cmd.Flags(), "order-id", "payoff-id")
		if err != nil {
			return err
		}
		req := lava.PayoffStatusFromPayoffID(client.ShopID(), payoffID)
		if orderID != "" {
			req = lava.PayoffStatusFromOrderID(client.ShopID(), orderID)
		}
		return runCall(cmd.OutOrStdout(), "payoff_status", func(ctx context.Context) (gatewayResult, error) {
			return client.PayoffStatus(ctx, req)
		})
	},
}

var payoffTariffsCmd = &cobra.Command{
	Use:   "tariffs",
	Short: "Show payoff tariffs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, client := mustCreateLavaClient()
		return runCall(cmd.OutOrStdout(), "payoff_tariffs", func(ctx context.Context) (gatewayResult, error) {
			return client.PayoffTariffs(ctx)
		})
	},
}

var payoffCheckWalletCmd = &cobra.Command{
	Use:   "check-wallet",
	Short: "Check that a Lava wallet or bank card can receive payoffs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, client := mustCreateLavaClient()
		req, err := walletCheckRequestFromFlags(cmd.Flags(), client.ShopID())
		if err != nil {
			return err
		}
		return runCall(cmd.OutOrStdout(), "payoff_check_wallet", func(ctx context.Context) (gatewayResult, error) {
			return client.CheckPayoffWallet(ctx, req)
		})
	},
}

func init() {
	rootCmd.AddCommand(payoffCmd)
	payoffCmd.AddCommand(payoffCreateCmd, payoffStatusCmd, payoffTariffsCmd, payoffCheckWalletCmd)

	addPayoffCreateFlags(payoffCreateCmd.Flags())
	_ = payoffCreateCmd.MarkFlagRequired("amount")
	_ = payoffCreateCmd.MarkFlagRequired("wallet")

	payoffStatusCmd.Flags().String("order-id", "", "Shop order id")
	payoffStatusCmd.Flags().String("payoff-id", "", "Gateway payoff id")

	addWalletCheckFlags(payoffCheckWalletCmd.Flags())
	_ = payoffCheckWalletCmd.MarkFlagRequired("wallet")
}

func addPayoffCreateFlags(flags *pflag.FlagSet) {
	flags.Float64("amount", 0, "Payoff amount")
	flags.String("order-id", "", "Shop order id (a UUID is generated when empty)")
	flags.String("service", string(lava.PayoffServiceLava), "Payoff service: lava_payoff or card_payoff")
	flags.String("wallet", "", "Destination Lava wallet (R followed by 8 digits) or 16-digit card number")
	flags.String("hook-url", "", "Webhook URL for this payoff")
	flags.Bool("subtract-from-balance", false, "Take the commission from the shop balance instead of the amount")
}

func addWalletCheckFlags(flags *pflag.FlagSet) {
	flags.String("service", string(lava.PayoffServiceLava), "Payoff service: lava_payoff or card_payoff")
	flags.String("wallet", "", "Lava wallet or card number to check")
}

func payoffCreateRequestFromFlags(flags *pflag.FlagSet, shopID string) (*lava.PayoffCreateRequest, error) {
	amount, _ := flags.GetFloat64("amount")
	if amount <= 0 {
		return nil, errors.New("amount must be > 0")
	}
	orderID, _ := flags.GetString("order-id")
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		orderID = uuid.NewString()
	}
	wallet, _ := flags.GetString("wallet")
	service, err := payoffServiceFlag(flags)
	if err != nil {
		return nil, err
	}

	var req *lava.PayoffCreateRequest
	switch service {
	case lava.PayoffServiceLava:
		req, err = lava.NewPayoffToLavaWallet(amount, orderID, shopID, wallet)
	case lava.PayoffServiceCard:
		req, err = lava.NewPayoffToBankCard(amount, orderID, shopID, wallet)
	default:
		req = lava.NewPayoffCreateRequest(amount, orderID, shopID, service, wallet)
	}
	if err != nil {
		return nil, err
	}

	req.HookURL = optionalStringFlag(flags, "hook-url")
	if subtract, _ := flags.GetBool("subtract-from-balance"); subtract {
		req.Subtract = 1
	}
	return req, nil
}

func walletCheckRequestFromFlags(flags *pflag.FlagSet, shopID string) (*lava.PayoffWalletCheckRequest, error) {
	wallet, _ := flags.GetString("wallet")
	service, err := payoffServiceFlag(flags)
	if err != nil {
		return nil, err
	}

	switch service {
	case lava.PayoffServiceLava:
		return lava.NewLavaWalletCheck(shopID, wallet)
	case lava.PayoffServiceCard:
		return lava.NewBankCardCheck(shopID, wallet)
	default:
		return &lava.PayoffWalletCheckRequest{ShopID: shopID, Service: service, WalletTo: wallet}, nil
	}
}

func payoffServiceFlag(flags *pflag.FlagSet) (lava.PayoffService, error) {
	raw, _ := flags.GetString("service")
	service := lava.PayoffService(strings.ToLower(strings.TrimSpace(raw)))
	if !service.Known() {
		return "", fmt.Errorf("unknown payoff service %q", raw)
	}
	return service, nil
}
