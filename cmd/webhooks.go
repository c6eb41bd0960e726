package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/JakeFAU/catalog-console/internal/catalog"
	"github.com/JakeFAU/catalog-console/internal/console"
	"github.com/JakeFAU/catalog-console/internal/editor"
	"github.com/JakeFAU/catalog-console/internal/listsync"
)

func newWebhooksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "webhooks",
		Aliases: []string{"webhook"},
		Short:   "Manage outbound webhooks",
	}
	cmd.AddCommand(newWebhooksListCmd(), newWebhooksSaveCmd(), newWebhooksDeleteCmd(), newWebhooksTestCmd())
	return cmd
}

func newWebhooksListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show all webhooks with their last delivery",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			appInstance, err := resolveApp(cmd.Context())
			if err != nil {
				return err
			}
			return appInstance.Session().Webhooks.Refresh(cmd.Context())
		},
	}
}

func newWebhooksSaveCmd() *cobra.Command {
	var (
		id      int64
		target  string
		event   string
		enabled string
	)
	cmd := &cobra.Command{
		Use:   "save",
		Short: "Create a webhook, or update one with --id",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			appInstance, err := resolveApp(cmd.Context())
			if err != nil {
				return err
			}
			session := appInstance.Session()
			bridge := session.WebhookEditor
			draft := bridge.New()
			if id != 0 {
				row, err := session.Webhooks.Locate(cmd.Context(), func(w catalog.Webhook) bool { return w.ID == id })
				if err != nil {
					return lookupError("webhook", id, err)
				}
				draft = bridge.BeginEdit(row)
			}
			flags := cmd.Flags()
			if flags.Changed("url") {
				draft.Fields.URL = target
			}
			if flags.Changed("event") {
				draft.Fields.Event = event
			}
			if flags.Changed("enabled") {
				if draft.Fields.Enabled, err = editor.ParseYesNo(enabled); err != nil {
					return err
				}
			}
			saved, err := bridge.Save(cmd.Context(), draft)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "saved webhook %d\n", saved.ID)
			return nil
		},
	}
	cmd.Flags().Int64Var(&id, "id", 0, "webhook to update (omit to create)")
	cmd.Flags().StringVar(&target, "url", "", "delivery URL")
	cmd.Flags().StringVar(&event, "event", "", "event name (new webhooks default to import.completed)")
	cmd.Flags().StringVar(&enabled, "enabled", "Yes", "Yes or No")
	return cmd
}

func newWebhooksDeleteCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete one webhook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			appInstance, err := resolveApp(cmd.Context())
			if err != nil {
				return err
			}
			confirm := console.NewPromptConfirmer(cmd.InOrStdin(), cmd.OutOrStdout(), yes)
			err = appInstance.Session().WebhookEditor.Delete(cmd.Context(), id, confirm)
			return reportConfirm(cmd, err, fmt.Sprintf("deleted webhook %d", id))
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func newWebhooksTestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "test ID",
		Short: "Send a test delivery to one webhook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			appInstance, err := resolveApp(cmd.Context())
			if err != nil {
				return err
			}
			res, err := appInstance.Session().WebhookEditor.Test(cmd.Context(), id)
			if err != nil {
				return err
			}
			if res.Error != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "delivery failed: %s\n", res.Error)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "delivered: %s\n", listsync.LastDelivery(res.StatusCode, res.ResponseMS))
			return nil
		},
	}
}
