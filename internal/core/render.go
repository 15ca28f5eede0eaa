package core

import (
	"fmt"
	"strings"
)

// Response templates for the resolver. Kept apart from the classification
// logic so the cascade stays readable.

func renderNoRecords(vendor string) string {
	return fmt.Sprintf("No records found for %s.", vendor)
}

func renderItems(vendor string, items []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Items ordered by %s:\n", vendor)
	for i, item := range items {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "• %s", item)
	}
	return b.String()
}

func renderTotal(vendor string, total float64) string {
	return fmt.Sprintf("Total amount spent by %s: %s", vendor, formatINR(total))
}

func renderGST(vendor, gst string) string {
	return fmt.Sprintf("GST Number of %s: %s", vendor, gst)
}

func renderPaymentStatus(vendor string, orders []VendorOrder) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Payment Status for %s:\n\n", vendor)
	for i, o := range orders {
		if i >= maxDetailedOrders {
			break
		}
		fmt.Fprintf(&b, "%d. Order %s - Payment: %s\n", i+1, o.Meta.OrderID, o.Meta.PaymentStatus)
	}
	return b.String()
}

func renderDates(vendor string, orders []VendorOrder) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Order Dates for %s:\n\n", vendor)
	for i, o := range orders {
		if i >= maxDetailedOrders {
			break
		}
		fmt.Fprintf(&b, "%d. Order %s - Date: %s\n", i+1, o.Meta.OrderID, o.Meta.OrderDate)
	}
	return b.String()
}

func renderFullDetails(vendor string, orders []VendorOrder) string {
	count := len(orders)
	show := count
	if show > maxFullOrders {
		show = maxFullOrders
	}
	var b strings.Builder
	fmt.Fprintf(&b, "COMPLETE Details for %s (%d total orders):\n\n", vendor, count)
	rule := strings.Repeat("=", 70)
	for i := 0; i < show; i++ {
		fmt.Fprintf(&b, "%s\nORDER #%d\n%s\n", rule, i+1, rule)
		b.WriteString(orders[i].Document)
		b.WriteString("\n\n")
	}
	if count > show {
		fmt.Fprintf(&b, "... and %d more orders\n", count-show)
	}
	return b.String()
}

func renderDetailed(vendor string, orders []VendorOrder) string {
	count := len(orders)
	show := count
	if show > maxDetailedOrders {
		show = maxDetailedOrders
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Detailed Orders for %s (%d total):\n\n", vendor, count)
	for i := 0; i < show; i++ {
		writeOrderBlock(&b, i, orders[i].Meta)
	}
	if count > show {
		fmt.Fprintf(&b, "... and %d more orders\n", count-show)
	}
	b.WriteString("\nTip: Use 'full details' or 'all details' to see every field")
	return b.String()
}

func renderSummary(vendor string, orders []VendorOrder) string {
	count := len(orders)
	show := count
	if show > maxSummaryOrders {
		show = maxSummaryOrders
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Found %d orders for %s:\n\n", count, vendor)
	for i := 0; i < show; i++ {
		m := orders[i].Meta
		fmt.Fprintf(&b, "%d. Order %s - %s - %s\n", i+1, m.OrderID, m.ItemName, formatINR(m.TotalInvoiceAmount))
	}
	if count > show {
		fmt.Fprintf(&b, "\n... and %d more orders", count-show)
	}
	b.WriteString("\n\nTip: Add 'details' to see more, or ask specific questions like 'payment status'")
	return b.String()
}

// renderVendorDefault is the view shown when a vendor is recognized but no
// intent keyword matched: the detailed block, capped at 3 orders.
func renderVendorDefault(vendor string, orders []VendorOrder) string {
	count := len(orders)
	show := count
	if show > maxDefaultOrders {
		show = maxDefaultOrders
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Orders for %s (%d total):\n\n", vendor, count)
	for i := 0; i < show; i++ {
		writeOrderBlock(&b, i, orders[i].Meta)
	}
	if count > show {
		fmt.Fprintf(&b, "... and %d more orders\n", count-show)
	}
	return b.String()
}

func renderSimilar(hits []SimilarOrder) string {
	if len(hits) == 0 {
		return "No records found for the requested information."
	}
	var b strings.Builder
	b.WriteString("Here are the relevant orders:\n\n")
	for i, h := range hits {
		fmt.Fprintf(&b, "%d. %s - %s - %s\n", i+1, h.Meta.VendorName, h.Meta.ItemName, formatINR(h.Meta.TotalInvoiceAmount))
	}
	return b.String()
}

func writeOrderBlock(b *strings.Builder, idx int, m OrderMeta) {
	rule := strings.Repeat("=", 60)
	fmt.Fprintf(b, "%s\nOrder #%d - ID: %s\n%s\n", rule, idx+1, m.OrderID, rule)
	fmt.Fprintf(b, "Item: %s (%s)\n", m.ItemName, m.ItemCategory)
	fmt.Fprintf(b, "Amount: %s\n", formatINR(m.TotalInvoiceAmount))
	fmt.Fprintf(b, "Payment Status: %s\n", m.PaymentStatus)
	fmt.Fprintf(b, "Order Date: %s\n", m.OrderDate)
	fmt.Fprintf(b, "GST Number: %s\n", m.GSTNumber)
	fmt.Fprintf(b, "Invoice: %s\n\n", m.InvoiceNo)
}

// formatINR renders an amount as ₹ with thousands separators and two
// decimals, e.g. ₹1,234.50.
func formatINR(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	dot := strings.IndexByte(s, '.')
	intPart, fracPart := s[:dot], s[dot:]
	var b strings.Builder
	for i, d := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	sign := ""
	if neg {
		sign = "-"
	}
	return "₹" + sign + b.String() + fracPart
}
