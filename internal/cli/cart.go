package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/mrops-br/storefront-cart/internal/app/service"
	"github.com/spf13/cobra"
)

func newCartCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Show or change the cart of the logged in user",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Show the cart with line subtotals and totals",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				c, err := a.loadCart(cmd.Context())
				if err != nil {
					return err
				}
				renderCart(cmd.OutOrStdout(), c.cart.View())
				return nil
			},
		},
		a.mutationCommand("add <product-id>", "Add a product that is not in the cart yet", cobra.ExactArgs(1),
			func(ctx context.Context, c *client, args []string) (*service.MutationResult, error) {
				return c.cart.AddToCart(ctx, a.identity(), args[0])
			}),
		a.mutationCommand("inc <product-id>", "Add one unit of a product", cobra.ExactArgs(1),
			func(ctx context.Context, c *client, args []string) (*service.MutationResult, error) {
				return c.cart.Increment(ctx, a.identity(), args[0])
			}),
		a.mutationCommand("dec <product-id>", "Remove one unit of a product", cobra.ExactArgs(1),
			func(ctx context.Context, c *client, args []string) (*service.MutationResult, error) {
				return c.cart.Decrement(ctx, a.identity(), args[0])
			}),
		a.mutationCommand("set <product-id> <qty>", "Set the quantity of a product; 0 removes it", cobra.ExactArgs(2),
			func(ctx context.Context, c *client, args []string) (*service.MutationResult, error) {
				qty, err := strconv.Atoi(args[1])
				if err != nil {
					return nil, fmt.Errorf("invalid quantity %q", args[1])
				}
				return c.cart.SetQuantity(ctx, a.identity(), args[0], qty)
			}),
	)

	return cmd
}

func (a *app) mutationCommand(
	use, short string,
	args cobra.PositionalArgs,
	mutate func(ctx context.Context, c *client, args []string) (*service.MutationResult, error),
) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  args,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.loadCart(cmd.Context())
			if err != nil {
				return err
			}

			res, err := mutate(cmd.Context(), c, args)
			if err != nil {
				return err
			}

			renderCart(cmd.OutOrStdout(), res.Items)
			return nil
		},
	}
}

// loadCart brings catalog and cart in so the view carries names and prices
// and duplicate adds are caught before the request.
func (a *app) loadCart(ctx context.Context) (*client, error) {
	c, err := a.newClient()
	if err != nil {
		return nil, err
	}
	if _, err := c.catalog.LoadCatalog(ctx); err != nil {
		return nil, err
	}
	if _, err := c.cart.LoadCart(ctx, a.identity()); err != nil {
		return nil, err
	}
	return c, nil
}
