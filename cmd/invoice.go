package cmd

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/vibast-solutions/ms-go-lava/app/lava"
)

var invoiceCmd = &cobra.Command{
	Use:   "invoice",
	Short: "Create invoices and query their status",
}

var invoiceCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a payment invoice",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, client := mustCreateLavaClient()
		req, err := invoiceCreateRequestFromFlags(cmd.Flags(), client.ShopID())
		if err != nil {
			return err
		}
		return runCall(cmd.OutOrStdout(), "invoice_create", func(ctx context.Context) (gatewayResult, error) {
			return client.CreateInvoice(ctx, req)
		})
	},
}

var invoiceStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the status of an invoice by order id or invoice id",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, client := mustCreateLavaClient()
		req, err := invoiceStatusRequestFromFlags(cmd.Flags(), client.ShopID())
		if err != nil {
			return err
		}
		return runCall(cmd.OutOrStdout(), "invoice_status", func(ctx context.Context) (gatewayResult, error) {
			return client.InvoiceStatus(ctx, req)
		})
	},
}

var invoiceTariffsCmd = &cobra.Command{
	Use:   "tariffs",
	Short: "List invoice tariffs available to the shop",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, client := mustCreateLavaClient()
		return runCall(cmd.OutOrStdout(), "invoice_tariffs", func(ctx context.Context) (gatewayResult, error) {
			return client.InvoiceTariffs(ctx)
		})
	},
}

func init() {
	rootCmd.AddCommand(invoiceCmd)
	invoiceCmd.AddCommand(invoiceCreateCmd, invoiceStatusCmd, invoiceTariffsCmd)

	addInvoiceCreateFlags(invoiceCreateCmd.Flags())
	_ = invoiceCreateCmd.MarkFlagRequired("sum")

	invoiceStatusCmd.Flags().String("order-id", "", "Shop order id")
	invoiceStatusCmd.Flags().String("invoice-id", "", "Gateway invoice id")
}

func addInvoiceCreateFlags(flags *pflag.FlagSet) {
	flags.Float64("sum", 0, "Invoice amount")
	flags.String("order-id", "", "Shop order id (a UUID is generated when empty)")
	flags.Int("expire", lava.DefaultInvoiceExpireMinutes, "Minutes until the invoice expires")
	flags.String("hook-url", "", "Webhook URL for this invoice")
	flags.String("success-url", "", "Redirect URL after successful payment")
	flags.String("fail-url", "", "Redirect URL after failed payment")
	flags.String("custom-fields", "", "Opaque data echoed back in the webhook")
	flags.String("comment", "", "Invoice comment")
	flags.StringSlice("include-service", lava.DefaultIncludeServices(), "Payment methods offered to the payer")
}

func invoiceCreateRequestFromFlags(flags *pflag.FlagSet, shopID string) (*lava.InvoiceCreateRequest, error) {
	sum, _ := flags.GetFloat64("sum")
	if sum <= 0 {
		return nil, errors.New("sum must be > 0")
	}
	orderID, _ := flags.GetString("order-id")
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		orderID = uuid.NewString()
	}

	req := lava.NewInvoiceCreateRequest(sum, orderID, shopID)
	req.ExpireMinutes, _ = flags.GetInt("expire")
	if req.ExpireMinutes <= 0 {
		return nil, errors.New("expire must be > 0")
	}
	req.HookURL = optionalStringFlag(flags, "hook-url")
	req.SuccessURL = optionalStringFlag(flags, "success-url")
	req.FailURL = optionalStringFlag(flags, "fail-url")
	req.CustomFields = optionalStringFlag(flags, "custom-fields")
	req.Comment = optionalStringFlag(flags, "comment")
	if flags.Changed("include-service") {
		services, _ := flags.GetStringSlice("include-service")
		req.IncludeService = lava.Some(services)
	}

	return req, nil
}

func invoiceStatusRequestFromFlags(flags *pflag.FlagSet, shopID string) (*lava.InvoiceStatusRequest, error) {
	orderID, invoiceID, err := exactlyOneID(flags, "order-id", "invoice-id")
	if err != nil {
		return nil, err
	}
	if orderID != "" {
		return lava.InvoiceStatusFromOrderID(shopID, orderID), nil
	}
	return lava.InvoiceStatusFromInvoiceID(shopID, invoiceID), nil
}

func optionalStringFlag(flags *pflag.FlagSet, name string) lava.Optional[string] {
	if !flags.Changed(name) {
		return lava.Optional[string]{}
	}
	value, _ := flags.GetString(name)
	return lava.Some(value)
}

func exactlyOneID(flags *pflag.FlagSet, first, second string) (string, string, error) {
	a, _ := flags.GetString(first)
	b, _ := flags.GetString(second)
	a, b = strings.TrimSpace(a), strings.TrimSpace(b)
	if (a == "") == (b == "") {
		return "", "", errors.New("exactly one of --" + first + " or --" + second + " is required")
	}
	return a, b, nil
}
