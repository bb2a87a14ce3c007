package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/eshaffer321/pos-register/internal/application/register"
	"github.com/eshaffer321/pos-register/internal/domain/cart"
	"github.com/eshaffer321/pos-register/internal/domain/money"
	"github.com/eshaffer321/pos-register/internal/infrastructure/config"
	"github.com/eshaffer321/pos-register/internal/infrastructure/logging"
	"github.com/eshaffer321/pos-register/internal/infrastructure/storage"
)

// Terminal is a line-oriented register: one command per line.
type Terminal struct {
	svc   *register.Service
	sales storage.SaleRepository
	in    io.Reader
	out   io.Writer
}

// NewTerminal creates a terminal register reading commands from in.
func NewTerminal(svc *register.Service, sales storage.SaleRepository, in io.Reader, out io.Writer) *Terminal {
	return &Terminal{svc: svc, sales: sales, in: in, out: out}
}

// AlertNotifier prints operator notices the way a popup would interrupt.
func AlertNotifier(w io.Writer) cart.Notifier {
	return cart.NotifierFunc(func(message string) {
		fmt.Fprintf(w, "ALERT: %s\n", message)
	})
}

// Run reads commands until quit, end of input or ctx is cancelled.
func (t *Terminal) Run(ctx context.Context) error {
	scanner := bufio.NewScanner(t.in)
	fmt.Fprint(t.out, "> ")
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if quit := t.Execute(ctx, scanner.Text()); quit {
			return nil
		}
		fmt.Fprint(t.out, "> ")
	}
	return scanner.Err()
}

// Execute runs one command line and reports whether the register should stop.
func (t *Terminal) Execute(ctx context.Context, line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}

	cmd, args := strings.ToLower(fields[0]), fields[1:]
	switch cmd {
	case "quit", "exit":
		return true
	case "help":
		printHelp(t.out)
	case "show":
		PrintState(t.out, t.svc.State())
	case "add":
		t.add(ctx, args)
	case "menu":
		t.menu(ctx, args)
	case "checkout":
		st, err := t.svc.Checkout(ctx)
		t.report(st, err)
	case "discount":
		st, err := t.svc.ApplyDiscount(ctx)
		t.report(st, err)
	case "pay":
		st, err := t.svc.CalculateChange(ctx, strings.Join(args, " "))
		t.report(st, err)
	case "complete":
		t.complete(ctx, args)
	case "close":
		st, err := t.svc.CloseReceipt(ctx)
		t.report(st, err)
	case "status":
		t.status(ctx, args)
	case "stats":
		t.stats()
	default:
		fmt.Fprintf(t.out, "unknown command %q (try 'help')\n", cmd)
	}
	return false
}

// add takes a trailing number as the price so item names may contain
// spaces. Without one the whole name is looked up in the catalog.
func (t *Terminal) add(ctx context.Context, args []string) {
	if len(args) == 0 {
		fmt.Fprintln(t.out, "usage: add <item> [price]")
		return
	}

	if len(args) > 1 {
		if price, err := money.ParseAmount(args[len(args)-1]); err == nil {
			st, err := t.svc.AddItem(ctx, strings.Join(args[:len(args)-1], " "), price)
			t.report(st, err)
			return
		}
	}

	st, err := t.svc.AddProduct(ctx, strings.Join(args, " "))
	t.report(st, err)
}

func (t *Terminal) menu(ctx context.Context, args []string) {
	products, err := t.svc.Products(ctx, strings.Join(args, " "))
	if err != nil {
		fmt.Fprintf(t.out, "error: %v\n", err)
		return
	}
	PrintMenu(t.out, products)
}

func (t *Terminal) status(ctx context.Context, args []string) {
	if len(args) != 2 {
		fmt.Fprintln(t.out, "usage: status <order-number> <pending|in-progress|completed|cancelled>")
		return
	}
	sale, err := t.svc.UpdateSaleStatus(ctx, args[0], args[1])
	if err != nil {
		fmt.Fprintf(t.out, "error: %v\n", err)
		return
	}
	fmt.Fprintf(t.out, "Sale %s is %s\n", sale.OrderNumber, sale.Status)
}

func (t *Terminal) complete(ctx context.Context, args []string) {
	var req register.CompleteRequest
	if len(args) > 0 {
		req.OrderType = args[0]
	}
	if len(args) > 1 {
		req.PaymentMethod = args[1]
	}
	if len(args) > 2 {
		req.Status = args[2]
	}

	sale, st, err := t.svc.CompleteSale(ctx, req)
	if err != nil {
		t.report(st, err)
		return
	}
	PrintSale(t.out, sale)
	PrintState(t.out, st)
}

func (t *Terminal) stats() {
	stats, err := t.sales.GetStats()
	if err != nil {
		fmt.Fprintf(t.out, "error: %v\n", err)
		return
	}
	PrintSummary(t.out, stats)
}

// report prints the state, then the error if any. A repeated discount was
// already announced by the notifier.
func (t *Terminal) report(st register.State, err error) {
	PrintState(t.out, st)
	if err != nil && !errors.Is(err, cart.ErrDiscountAlreadyApplied) {
		fmt.Fprintf(t.out, "error: %v\n", err)
	}
}

// RunRegister runs the terminal register on in/out. Logs go to logOut so
// they do not interleave with the register display.
func RunRegister(ctx context.Context, cfg *config.Config, in io.Reader, out, logOut io.Writer) error {
	logger := logging.NewLoggerTo(cfg.Observability.Logging, logOut)

	svc, store, err := OpenRegister(cfg, logger, AlertNotifier(out))
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	PrintHeader(out, cfg.Storage.DatabasePath)
	PrintState(out, svc.State())
	return NewTerminal(svc, store, in, out).Run(ctx)
}
