package cmd

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/JakeFAU/catalog-console/internal/catalog"
	"github.com/JakeFAU/catalog-console/internal/console"
	"github.com/JakeFAU/catalog-console/internal/editor"
	"github.com/JakeFAU/catalog-console/internal/listsync"
)

func newProductsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "products",
		Aliases: []string{"product"},
		Short:   "Browse and edit catalog products",
	}
	cmd.AddCommand(newProductsListCmd(), newProductsBrowseCmd(), newProductsSaveCmd(), newProductsDeleteCmd(), newProductsPurgeCmd())
	return cmd
}

func newProductsListCmd() *cobra.Command {
	var (
		page    int
		filters = map[string]*string{}
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show one page of products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			appInstance, err := resolveApp(cmd.Context())
			if err != nil {
				return err
			}
			products := appInstance.Session().Products
			applied := make(map[string]string, len(filters))
			for name, value := range filters {
				if !cmd.Flags().Changed(name) {
					continue
				}
				v, err := normalizeProductFilter(name, *value)
				if err != nil {
					return err
				}
				applied[name] = v
			}
			q := products.Query().WithFilters(applied).WithPage(page)
			_, err = products.Load(cmd.Context(), q)
			return err
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	for _, name := range listsync.ProductFilters {
		filters[name] = cmd.Flags().String(name, "", "filter by "+name)
	}
	return cmd
}

func newProductsBrowseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Page through products interactively",
		Long: `Shows the first page of products, then reads commands from stdin:
  n / p        next or previous page
  g PAGE       jump to a page
  f NAME [V]   set a filter (sku, name, description, active); no value clears it
  r            reload the current page
  q            quit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			appInstance, err := resolveApp(cmd.Context())
			if err != nil {
				return err
			}
			return console.Browse(cmd.Context(), appInstance.Session().Products, cmd.InOrStdin(), cmd.OutOrStdout(),
				console.BrowseOptions{Filters: listsync.ProductFilters, Normalize: normalizeProductFilter})
		},
	}
}

// normalizeProductFilter sends the active filter as a boolean.
func normalizeProductFilter(name, value string) (string, error) {
	if name != listsync.FilterActive {
		return value, nil
	}
	active, err := editor.ParseYesNo(value)
	if err != nil {
		return "", err
	}
	return strconv.FormatBool(active), nil
}

func newProductsSaveCmd() *cobra.Command {
	var (
		id          int64
		sku         string
		name        string
		description string
		active      string
	)
	cmd := &cobra.Command{
		Use:   "save",
		Short: "Create a product, or update one with --id",
		Long: `Creates a product from the given flags. With --id the existing product is
loaded first and only the flags passed on the command line are changed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			appInstance, err := resolveApp(cmd.Context())
			if err != nil {
				return err
			}
			session := appInstance.Session()
			bridge := session.ProductEditor
			draft := bridge.New()
			if id != 0 {
				row, err := session.Products.Locate(cmd.Context(), func(p catalog.Product) bool { return p.ID == id })
				if err != nil {
					return lookupError("product", id, err)
				}
				draft = bridge.BeginEdit(row)
			}
			flags := cmd.Flags()
			if flags.Changed("sku") {
				draft.Fields.SKU = sku
			}
			if flags.Changed("name") {
				draft.Fields.Name = name
			}
			if flags.Changed("description") {
				draft.Fields.Description = description
			}
			if flags.Changed("active") {
				if draft.Fields.Active, err = editor.ParseYesNo(active); err != nil {
					return err
				}
			}
			saved, err := bridge.Save(cmd.Context(), draft)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "saved product %d\n", saved.ID)
			return nil
		},
	}
	cmd.Flags().Int64Var(&id, "id", 0, "product to update (omit to create)")
	cmd.Flags().StringVar(&sku, "sku", "", "stock keeping unit")
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&description, "description", "", "free-form description")
	cmd.Flags().StringVar(&active, "active", "Yes", "Yes or No (new products default to Yes)")
	return cmd
}

func newProductsDeleteCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete one product",
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
			err = appInstance.Session().ProductEditor.Delete(cmd.Context(), id, confirm)
			return reportConfirm(cmd, err, fmt.Sprintf("deleted product %d", id))
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func newProductsPurgeCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Delete every product",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			appInstance, err := resolveApp(cmd.Context())
			if err != nil {
				return err
			}
			confirm := console.NewPromptConfirmer(cmd.InOrStdin(), cmd.OutOrStdout(), yes)
			err = appInstance.Session().ProductEditor.BulkDelete(cmd.Context(), confirm)
			return reportConfirm(cmd, err, "deleted all products")
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func lookupError(noun string, id int64, err error) error {
	if errors.Is(err, listsync.ErrRowNotFound) {
		return fmt.Errorf("%s %d not found", noun, id)
	}
	return err
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}

// reportConfirm treats a declined prompt as a quiet no-op.
func reportConfirm(cmd *cobra.Command, err error, done string) error {
	switch {
	case errors.Is(err, editor.ErrNotConfirmed):
		fmt.Fprintln(cmd.OutOrStdout(), "cancelled")
		return nil
	case err != nil:
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), done)
	return nil
}
