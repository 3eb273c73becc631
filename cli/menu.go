/*
menu.go - Interactive operator menu

PURPOSE:
  The wiring layer between the operator's terminal and the sales engine.
  Presents the numbered menu, gathers raw input strings, hands them to the
  engine untouched, and renders results. All validation lives in the
  engine; all rendering lives here.

MENU CONTRACT:
  1  create sale          (prompts date, member id, book id, qty, discount)
  2  display report
  3  update sale discount (select from listing)
  4  delete sale          (select from listing)
  5 or blank  exit
  anything else           "invalid option", menu re-shown

ERROR SURFACE:
  No operation error ever terminates the process. Each failure is printed
  as a "=>" line and the menu comes back. A blank response at a selection
  prompt cancels the operation silently.

SEE ALSO:
  - pos/engine.go: The operations behind choices 1/3/4
  - render.go: Report and message formatting
*/
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"github.com/warp/bookshop-ledger/pos"
)

// CLI drives the interactive menu over one engine and one output writer.
type CLI struct {
	engine *pos.Engine
	in     *bufio.Scanner
	out    io.Writer
	log    zerolog.Logger
}

// New creates a CLI reading operator input from in and writing to out.
func New(engine *pos.Engine, in io.Reader, out io.Writer, log zerolog.Logger) *CLI {
	return &CLI{
		engine: engine,
		in:     bufio.NewScanner(in),
		out:    out,
		log:    log.With().Str("component", "cli").Logger(),
	}
}

// Run shows the menu until the operator exits (choice 5, blank, or EOF).
// Operation errors are reported and the loop continues.
func (c *CLI) Run(ctx context.Context) error {
	for {
		c.printMenu()

		choice, ok := c.prompt("Choose an option (Enter to exit): ")
		if !ok {
			return nil // input closed
		}

		switch strings.TrimSpace(choice) {
		case "1":
			c.addSale(ctx)
		case "2":
			c.showReport(ctx)
		case "3":
			c.updateSale(ctx)
		case "4":
			c.deleteSale(ctx)
		case "5", "":
			fmt.Fprintln(c.out, "Goodbye!")
			return nil
		default:
			fmt.Fprintln(c.out, "=> Please choose a valid option (1-5)")
		}
	}
}

func (c *CLI) printMenu() {
	fmt.Fprintln(c.out)
	fmt.Fprintln(c.out, strings.Repeat("*", 15)+" Menu "+strings.Repeat("*", 15))
	fmt.Fprintln(c.out, "1. Add sale")
	fmt.Fprintln(c.out, "2. Show sales report")
	fmt.Fprintln(c.out, "3. Update sale")
	fmt.Fprintln(c.out, "4. Delete sale")
	fmt.Fprintln(c.out, "5. Exit")
	fmt.Fprintln(c.out, strings.Repeat("*", 36))
}

// prompt prints a prompt and reads one line. ok is false once input is
// exhausted.
func (c *CLI) prompt(label string) (string, bool) {
	fmt.Fprint(c.out, label)
	if !c.in.Scan() {
		return "", false
	}
	return c.in.Text(), true
}

// =============================================================================
// OPERATIONS
// =============================================================================

func (c *CLI) addSale(ctx context.Context) {
	var in pos.CreateSaleInput
	var ok bool

	if in.Date, ok = c.prompt("Sale date (YYYY-MM-DD): "); !ok {
		return
	}
	if in.MemberID, ok = c.prompt("Member id: "); !ok {
		return
	}
	if in.BookID, ok = c.prompt("Book id: "); !ok {
		return
	}
	if in.Quantity, ok = c.prompt("Quantity: "); !ok {
		return
	}
	if in.Discount, ok = c.prompt("Discount: "); !ok {
		return
	}

	sale, err := c.engine.CreateSale(ctx, in)
	if err != nil {
		fmt.Fprintln(c.out, errorMessage(err))
		return
	}
	fmt.Fprintf(c.out, "=> Sale recorded! (total: %s)\n", pos.FormatAmount(sale.Total))
}

func (c *CLI) updateSale(ctx context.Context) {
	saleID, ok := c.selectSale(ctx, "update")
	if !ok {
		return
	}

	discount, ok := c.prompt("New discount: ")
	if !ok {
		return
	}

	sale, err := c.engine.UpdateSaleDiscount(ctx, saleID, discount)
	if err != nil {
		fmt.Fprintln(c.out, errorMessage(err))
		return
	}
	fmt.Fprintf(c.out, "=> Sale %d updated! (total: %s)\n", sale.ID, pos.FormatAmount(sale.Total))
}

func (c *CLI) deleteSale(ctx context.Context) {
	saleID, ok := c.selectSale(ctx, "delete")
	if !ok {
		return
	}

	if err := c.engine.DeleteSale(ctx, saleID); err != nil {
		fmt.Fprintln(c.out, errorMessage(err))
		return
	}
	fmt.Fprintf(c.out, "=> Sale %d deleted\n", saleID)
}

// selectSale shows the shared listing and resolves the operator's 1-based
// choice to a sale id. ok is false on cancel, empty listing, or invalid
// selection (the message is already printed).
func (c *CLI) selectSale(ctx context.Context, verb string) (int64, bool) {
	listing, err := c.engine.ListSales(ctx)
	if err != nil {
		fmt.Fprintln(c.out, errorMessage(err))
		return 0, false
	}
	if len(listing) == 0 {
		fmt.Fprintf(c.out, "=> No sales to %s\n", verb)
		return 0, false
	}

	fmt.Fprintln(c.out)
	fmt.Fprintln(c.out, "======== Sales ========")
	for i, row := range listing {
		fmt.Fprintf(c.out, "%d. Sale %d - Member: %s - Date: %s\n",
			i+1, row.SaleID, row.MemberName, row.Date)
	}
	fmt.Fprintln(c.out, "=======================")

	choice, ok := c.prompt(fmt.Sprintf("Select a sale to %s (number, Enter to cancel): ", verb))
	if !ok {
		return 0, false
	}

	saleID, selected, err := pos.ResolveSelection(listing, choice)
	if err != nil {
		fmt.Fprintln(c.out, errorMessage(err))
		return 0, false
	}
	if !selected {
		return 0, false // cancelled, no-op
	}
	return saleID, true
}

func (c *CLI) showReport(ctx context.Context) {
	rows, err := c.engine.Report(ctx)
	if err != nil {
		fmt.Fprintln(c.out, errorMessage(err))
		return
	}
	c.renderReport(rows)
}
