package cli

import (
	"bufio"
	"fmt"
	"sync"

	"github.com/mrops-br/storefront-cart/internal/domain"
	"github.com/spf13/cobra"
)

func newProductsCommand(a *app) *cobra.Command {
	var query string

	cmd := &cobra.Command{
		Use:   "products",
		Short: "List the catalog, optionally filtered by a search",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.newClient()
			if err != nil {
				return err
			}

			products, err := c.catalog.LoadCatalog(cmd.Context())
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("search") {
				products, err = c.catalog.Search(cmd.Context(), query)
				if err != nil && products == nil {
					return err
				}
				if err != nil {
					cmd.PrintErrln("Search failed, showing the full catalog:", domain.DisplayMessage(err))
				}
			}

			renderProducts(cmd.OutOrStdout(), products)
			return nil
		},
	}

	cmd.Flags().StringVarP(&query, "search", "s", "", "only list products whose name or category matches")
	return cmd
}

func newSearchCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "search",
		Short: "Search the catalog as you type",
		Long: `Reads search text from stdin, one line per keystroke-state, and searches
once input has been quiet for the configured settle interval
(STOREFRONT_SEARCH_SETTLE). Pending input is searched at end of input.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.newClient()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			if _, err := c.catalog.LoadCatalog(ctx); err != nil {
				return err
			}

			var mu sync.Mutex
			out := cmd.OutOrStdout()
			d := c.catalog.NewSearchDebouncer(ctx, a.cfg.Client.SearchSettle,
				func(query string, products []domain.Product, err error) {
					mu.Lock()
					defer mu.Unlock()

					fmt.Fprintf(out, "Results for %q\n", query)
					if err != nil {
						fmt.Fprintln(out, domain.DisplayMessage(err))
						if products == nil {
							return
						}
					}
					renderProducts(out, products)
				})
			defer d.Stop()

			scanner := bufio.NewScanner(cmd.InOrStdin())
			for scanner.Scan() {
				d.OnInput(scanner.Text())
			}
			d.Flush()

			return scanner.Err()
		},
	}
}
