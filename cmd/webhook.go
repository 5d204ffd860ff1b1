package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/vibast-solutions/ms-go-lava/app/entity"
	"github.com/vibast-solutions/ms-go-lava/app/mapper"
	"github.com/vibast-solutions/ms-go-lava/app/repository"
	"github.com/vibast-solutions/ms-go-lava/app/types"
)

var webhookCmd = &cobra.Command{
	Use:   "webhook",
	Short: "Verify webhook deliveries and inspect the webhook journal",
}

var webhookVerifyCmd = &cobra.Command{
	Use:   "verify <body-file>",
	Short: "Verify a stored webhook body against its Signature header value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, client := mustCreateLavaClient()

		rawBody, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		signature, _ := cmd.Flags().GetString("signature")

		hook, err := client.VerifyAndParseWebhook(rawBody, strings.TrimSpace(signature))
		if err != nil {
			logrus.WithError(err).WithField("file", args[0]).Error("webhook_rejected")
			return err
		}
		logrus.WithField("invoice_id", hook.InvoiceID).Info("webhook_verified")
		return printJSON(cmd.OutOrStdout(), hook)
	},
}

var webhookListCmd = &cobra.Command{
	Use:   "list",
	Short: "List journaled webhook deliveries",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, _, webhookService, cleanup := mustCreateWebhookService()
		defer cleanup()

		filter, err := webhookFilterFromFlags(cmd)
		if err != nil {
			return err
		}
		items, err := webhookService.ListWebhooks(cmd.Context(), filter)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), &types.ListLavaWebhooksResponse{Webhooks: mapper.LavaWebhooksToResponse(items)})
	},
}

func init() {
	rootCmd.AddCommand(webhookCmd)
	webhookCmd.AddCommand(webhookVerifyCmd, webhookListCmd)

	webhookVerifyCmd.Flags().String("signature", "", "Value of the Signature header that came with the body")
	_ = webhookVerifyCmd.MarkFlagRequired("signature")

	addWebhookListFlags(webhookListCmd.Flags())
}

func addWebhookListFlags(flags *pflag.FlagSet) {
	flags.String("invoice-id", "", "Only deliveries for this invoice")
	flags.String("outcome", "", "Only processed or rejected deliveries")
	flags.Int32("limit", 50, "Maximum number of rows")
}

func webhookFilterFromFlags(cmd *cobra.Command) (repository.LavaWebhookFilter, error) {
	invoiceID, _ := cmd.Flags().GetString("invoice-id")
	outcome, _ := cmd.Flags().GetString("outcome")
	limit, _ := cmd.Flags().GetInt32("limit")
	if limit <= 0 {
		return repository.LavaWebhookFilter{}, errors.New("limit must be > 0")
	}

	filter := repository.LavaWebhookFilter{InvoiceID: invoiceID, Limit: limit}
	switch strings.ToLower(strings.TrimSpace(outcome)) {
	case "":
	case "processed":
		filter.Outcome = entity.LavaWebhookOutcomeProcessed
	case "rejected":
		filter.Outcome = entity.LavaWebhookOutcomeRejected
	default:
		return repository.LavaWebhookFilter{}, fmt.Errorf("unknown outcome %q", outcome)
	}
	return filter, nil
}
