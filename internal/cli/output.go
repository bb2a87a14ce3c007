package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/eshaffer321/pos-register/internal/application/register"
	"github.com/eshaffer321/pos-register/internal/domain/money"
	"github.com/eshaffer321/pos-register/internal/infrastructure/storage"
)

// PrintHeader prints the register banner
func PrintHeader(w io.Writer, dbPath string) {
	fmt.Fprintf(w, "pos-register (database: %s)\n", dbPath)
	fmt.Fprintln(w, "Type 'help' for commands.")
}

// PrintState prints the cart and, when open, the receipt
func PrintState(w io.Writer, st register.State) {
	fmt.Fprintln(w, "Cart:")
	if len(st.Cart.Lines) == 0 {
		fmt.Fprintln(w, "  (empty)")
	}
	for _, line := range st.Cart.Lines {
		fmt.Fprintf(w, "  %s\n", line)
	}
	fmt.Fprintln(w, st.Cart.TotalLabel)

	rv := st.Receipt
	if !rv.Visible {
		return
	}

	fmt.Fprintln(w, strings.Repeat("-", 12)+" Receipt "+strings.Repeat("-", 12))
	for _, line := range rv.Lines {
		fmt.Fprintf(w, "  %s\n", line)
	}
	fmt.Fprintln(w, rv.TotalLabel)
	check := " "
	if rv.DiscountChecked {
		check = "x"
	}
	fmt.Fprintf(w, "[%s] Discount\n", check)
	fmt.Fprintln(w, rv.DiscountedTotalLabel)
	if rv.PaymentInput != "" {
		fmt.Fprintf(w, "Payment: %s\n", rv.PaymentInput)
	}
	fmt.Fprintln(w, rv.ChangeLabel)
	fmt.Fprintln(w, strings.Repeat("-", 33))
}

// PrintSale prints a recorded sale
func PrintSale(w io.Writer, sale *storage.Sale) {
	fmt.Fprintf(w, "Sale %s recorded (%s, %s, %s)\n", sale.OrderNumber, sale.OrderType, sale.PaymentMethod, sale.Status)
	for _, item := range sale.Items {
		fmt.Fprintf(w, "  %-20s %10s\n", item.Name, money.FormatFixed(item.Amount))
	}
	fmt.Fprintf(w, "Total: %s  Paid: %s  Change: %s\n",
		money.FormatFixed(sale.Total),
		money.FormatFixed(sale.Payment),
		money.FormatFixed(sale.Change))
}

// PrintMenu prints the catalog grouped by category
func PrintMenu(w io.Writer, products []*storage.Product) {
	if len(products) == 0 {
		fmt.Fprintln(w, "Menu is empty.")
		return
	}
	category := "\x00"
	for _, p := range products {
		if p.Category != category {
			category = p.Category
			name := category
			if name == "" {
				name = "Other"
			}
			fmt.Fprintf(w, "%s:\n", name)
		}
		fmt.Fprintf(w, "  %-20s %10s\n", p.Name, money.FormatFixed(p.Price))
	}
}

// PrintSummary prints completed-sale stats
func PrintSummary(w io.Writer, stats *storage.Stats) {
	fmt.Fprintln(w, strings.Repeat("-", 33))
	fmt.Fprintf(w, "Sales=%d Items=%d Net=%s Discounts=%s Average=%s\n",
		stats.SaleCount,
		stats.ItemCount,
		money.FormatFixed(stats.NetAmount),
		money.FormatFixed(stats.DiscountAmount),
		money.FormatFixed(stats.AverageSale))
}

func printHelp(w io.Writer) {
	fmt.Fprintln(w, `Commands:
  add <item> [price]    add a line to the cart; without a price the
                        item is taken from the menu at its menu price
  menu [category]       list the products on sale
  checkout              open the receipt
  discount              apply the discount once per checkout
  pay <amount>          enter the payment and compute change
  complete [type] [method] [status]
                        record the paid sale (dine-in|take-out|delivery,
                        cash|card|online, completed|pending|in-progress)
  status <order> <status>
                        move a recorded order to in-progress, completed
                        or cancelled
  close                 abandon the receipt and empty the cart
  show                  print the cart and receipt
  stats                 print completed sales stats
  quit                  leave the register`)
}
