package repl

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"textile-assistant/internal/app"
)

// runAddWizard walks the user through every order field, prompting with the
// server-side default for each one. Empty input keeps the default.
func runAddWizard(ctx context.Context, reader *bufio.Reader, svc app.ApplicationService) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 70))
	fmt.Println("  ADD NEW ORDER")
	fmt.Println(strings.Repeat("=", 70))
	fmt.Println("\nPlease enter the order details (press Enter to accept a default):")

	prompt := func(label string) string {
		fmt.Printf("%s: ", label)
		raw, _ := reader.ReadString('\n')
		return strings.TrimSpace(raw)
	}
	promptDecimal := func(label string) decimal.Decimal {
		for {
			raw := prompt(label)
			if raw == "" {
				return decimal.Zero
			}
			d, err := decimal.NewFromString(raw)
			if err != nil || d.IsNegative() {
				fmt.Println("  Invalid number, try again.")
				continue
			}
			return d
		}
	}

	var req app.AddOrderRequest
	req.InvoiceNo = prompt("Invoice Number (e.g., INV-10001, blank = auto)")

	fmt.Println("\n--- Vendor Information ---")
	req.VendorName = prompt("Vendor Name")
	if req.VendorName == "" {
		fmt.Println("\nVendor name is required. Order entry cancelled.")
		return
	}
	req.VendorID = prompt("Vendor ID (e.g., V001)")
	req.GSTNumber = prompt("GST Number")
	req.VendorState = prompt("Vendor State (default: Tamil Nadu)")
	req.VendorContact = prompt("Vendor Contact")

	fmt.Println("\n--- Item Information ---")
	req.ItemName = prompt("Item Name (e.g., Cotton Yarn)")
	if req.ItemName == "" {
		fmt.Println("\nItem name is required. Order entry cancelled.")
		return
	}
	req.ItemID = prompt("Item ID (e.g., I001)")
	req.ItemCategory = prompt("Item Category (e.g., Yarn/Fabric)")
	req.HSNCode = prompt("HSN Code (e.g., 5205)")

	fmt.Println("\n--- Quantity & Pricing ---")
	req.Quantity = promptDecimal("Quantity")
	req.Unit = prompt("Unit (e.g., Kg)")
	req.UnitPrice = promptDecimal("Unit Price (₹)")

	fmt.Println("\n--- Dates (YYYY-MM-DD, blank = today) ---")
	req.OrderDate = prompt("Order Date")
	req.InvoiceDate = prompt("Invoice Date")
	req.DeliveryDate = prompt("Delivery Date")

	fmt.Println("\n--- Payment Information ---")
	req.PaymentStatus = prompt("Payment Status (Paid/Pending/Partial)")
	req.PaymentMode = prompt("Payment Mode (NEFT/UPI/RTGS/Cheque)")
	req.TransactionID = prompt("Transaction ID (optional)")

	fmt.Println("\n--- Logistics ---")
	req.TransportMode = prompt("Transport Mode (Road/Courier)")
	req.EwayBillNo = prompt("E-way Bill Number (optional)")
	req.ReceivedBy = prompt("Received By")
	req.QualityCheckStatus = prompt("Quality Check (Approved/Rejected/Pending)")

	taxable := req.Quantity.Mul(req.UnitPrice)
	total := taxable.Add(taxable.Mul(decimal.NewFromInt(18)).Div(decimal.NewFromInt(100)))

	fmt.Println()
	fmt.Println(strings.Repeat("=", 70))
	fmt.Println("  ORDER SUMMARY")
	fmt.Println(strings.Repeat("=", 70))
	fmt.Printf("Vendor: %s\n", req.VendorName)
	fmt.Printf("Item: %s\n", req.ItemName)
	fmt.Printf("Quantity: %s %s\n", req.Quantity, orDefault(req.Unit, "Kg"))
	fmt.Printf("Total Amount (incl. 18%% GST): ₹%s\n", total.StringFixed(2))
	fmt.Println(strings.Repeat("=", 70))

	choice := prompt("\nAdd this order to the database? (yes/no)")
	if strings.ToLower(choice) != "yes" && strings.ToLower(choice) != "y" {
		fmt.Println("\nOrder cancelled.")
		return
	}

	result, err := svc.AddOrder(ctx, req)
	if err != nil {
		fmt.Printf("\nFailed to add order: %v\n", err)
		return
	}
	count, _ := svc.Count(ctx)
	fmt.Println("\nOrder successfully added to the knowledge base.")
	fmt.Printf("Assigned Order ID: %d\n", result.OrderID)
	fmt.Printf("Total records in database: %d\n", count)
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
