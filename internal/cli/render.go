package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mrops-br/storefront-cart/internal/app/reconcile"
	"github.com/mrops-br/storefront-cart/internal/domain"
)

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)

var cellStyle = lipgloss.NewStyle().Padding(0, 1)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

func money(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func renderProducts(w io.Writer, products []domain.Product) {
	if len(products) == 0 {
		fmt.Fprintln(w, "No products found")
		return
	}

	t := newTable("ID", "NAME", "CATEGORY", "COST", "RATING")
	for _, p := range products {
		t.Row(p.ID, p.Name, p.Category, money(p.Cost), strconv.Itoa(p.Rating))
	}
	fmt.Fprintln(w, t.Render())
}

func renderCart(w io.Writer, items []domain.CartLineItem) {
	if len(items) == 0 {
		fmt.Fprintln(w, "Cart is empty")
		return
	}

	t := newTable("ID", "NAME", "QTY", "COST", "SUBTOTAL")
	for _, item := range items {
		t.Row(item.ID, item.Name, strconv.Itoa(item.Qty), money(item.Cost), money(item.Subtotal()))
	}
	fmt.Fprintln(w, t.Render())
	fmt.Fprintf(w, "Total: %s (%d items)\n", money(reconcile.TotalCartValue(items)), reconcile.TotalItemCount(items))
}
