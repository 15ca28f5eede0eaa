package core

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// LoadOrdersCSV reads the order dataset: a header row naming the columns,
// then one row per order. Unknown columns are ignored, so datasets with
// extra tax-breakdown columns load fine. Rows with a malformed order_id
// are rejected; blank numeric fields parse as zero.
func LoadOrdersCSV(path string) ([]Order, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open order csv: %w", err)
	}
	defer f.Close()
	orders, err := ReadOrders(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return orders, nil
}

// ReadOrders parses CSV order data from r.
func ReadOrders(r io.Reader) ([]Order, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}
	if _, ok := col["order_id"]; !ok {
		return nil, fmt.Errorf("missing order_id column")
	}

	var orders []Order
	line := 1
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line+1, err)
		}
		line++

		field := func(name string) string {
			i, ok := col[name]
			if !ok || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}
		num := func(name string) decimal.Decimal {
			s := field(name)
			if s == "" {
				return decimal.Zero
			}
			d, err := decimal.NewFromString(s)
			if err != nil {
				return decimal.Zero
			}
			return d
		}

		id, err := strconv.Atoi(field("order_id"))
		if err != nil {
			return nil, fmt.Errorf("row %d: bad order_id %q", line, field("order_id"))
		}

		o := Order{
			OrderID:            id,
			InvoiceNo:          field("invoice_no"),
			VendorName:         field("vendor_name"),
			VendorID:           field("vendor_id"),
			GSTNumber:          field("gst_number"),
			VendorState:        field("vendor_state"),
			VendorContact:      field("vendor_contact"),
			ItemName:           field("item_name"),
			ItemID:             field("item_id"),
			ItemCategory:       field("item_category"),
			HSNCode:            field("hsn_code"),
			Quantity:           num("quantity"),
			Unit:               field("unit"),
			UnitPrice:          num("unit_price"),
			TaxableAmount:      num("taxable_amount"),
			TotalTax:           num("total_tax"),
			TotalInvoiceAmount: num("total_invoice_amount"),
			OrderDate:          field("order_date"),
			InvoiceDate:        field("invoice_date"),
			DeliveryDate:       field("delivery_date"),
			PaymentStatus:      field("payment_status"),
			PaymentMode:        field("payment_mode"),
			TransactionID:      field("transaction_id"),
			TransportMode:      field("transport_mode"),
			EwayBillNo:         field("eway_bill_no"),
			ReceivedBy:         field("received_by"),
			QualityCheckStatus: field("quality_check_status"),
		}
		if o.TaxableAmount.IsZero() && o.TotalInvoiceAmount.IsZero() {
			o.ComputeTotals()
		}
		orders = append(orders, o)
	}
	return orders, nil
}
