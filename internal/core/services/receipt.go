// internal/core/services/receipt.go
package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/ammerola/partsdesk/internal/core/domain"
)

const (
	fullBusinessName  = "Automotive Junction Autoparts"
	shortBusinessName = "AJ Autoparts"
	receiptNameLimit  = 30
)

// ReceiptBusinessName shortens long business names for the receipt header
func ReceiptBusinessName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "Invoice"
	}
	if name == fullBusinessName {
		return shortBusinessName
	}
	if len([]rune(name)) <= receiptNameLimit {
		return name
	}

	words := strings.Fields(name)
	if len(words) < 2 {
		return name
	}

	initials := string([]rune(words[0])[0]) + string([]rune(words[1])[0])
	rest := words[2:]
	if len(rest) == 0 {
		return initials
	}
	return initials + " " + strings.Join(rest, " ")
}

// Receipt renders a plain-text receipt for the invoice with id
func (s *InvoiceService) Receipt(ctx context.Context, id int64) (string, error) {
	inv, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	return s.renderReceipt(inv), nil
}

func (s *InvoiceService) renderReceipt(inv *domain.InvoiceWithLines) string {
	settings := s.state.Settings()

	customer := "Walk-in"
	var contact []string
	if inv.CustomerID != nil {
		if c, ok := s.state.Customer(*inv.CustomerID); ok {
			customer = c.Name
			for _, v := range []string{c.Address, c.Phone} {
				if v = strings.TrimSpace(v); v != "" {
					contact = append(contact, v)
				}
			}
		}
	}

	var buf bytes.Buffer
	fmt.Fprintln(&buf, ReceiptBusinessName(settings.BusinessName()))
	fmt.Fprintf(&buf, "Invoice: %s\n", inv.Number)
	fmt.Fprintf(&buf, "Date:    %s\n", inv.Date)
	fmt.Fprintf(&buf, "Bill to: %s\n", customer)
	for _, line := range contact {
		fmt.Fprintf(&buf, "         %s\n", line)
	}
	fmt.Fprintln(&buf)

	tw := tabwriter.NewWriter(&buf, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Part\tItem\tQty\tPrice\tAmount\t")
	for _, l := range inv.Lines {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\t\n",
			l.PartNumber, l.Name, l.Qty, domain.FormatMoney(l.Price), domain.FormatMoney(l.Amount()))
	}
	fmt.Fprintf(tw, "\t\t\tTotal\t%s\t\n", domain.FormatMoney(inv.Total))
	tw.Flush()

	if footer := strings.TrimSpace(settings.InvoiceFooter()); footer != "" {
		fmt.Fprintf(&buf, "\n%s\n", footer)
	}

	return buf.String()
}
