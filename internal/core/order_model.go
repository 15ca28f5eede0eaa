package core

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// Order is one purchase transaction. Monetary fields are decimals; the
// metadata projection flattens the total to float64 for aggregation.
//
// Every order has two renderings that must stay in sync: Document(), the
// multi-line text that gets embedded and shown for full-detail views, and
// Metadata(), the flat key→scalar record used for exact filtering.
type Order struct {
	OrderID   int    `json:"order_id"`
	InvoiceNo string `json:"invoice_no"`

	VendorName    string `json:"vendor_name"`
	VendorID      string `json:"vendor_id"`
	GSTNumber     string `json:"gst_number"`
	VendorState   string `json:"vendor_state"`
	VendorContact string `json:"vendor_contact"`

	ItemName     string `json:"item_name"`
	ItemID       string `json:"item_id"`
	ItemCategory string `json:"item_category"`
	HSNCode      string `json:"hsn_code"`

	Quantity           decimal.Decimal `json:"quantity"`
	Unit               string          `json:"unit"`
	UnitPrice          decimal.Decimal `json:"unit_price"`
	TaxableAmount      decimal.Decimal `json:"taxable_amount"`
	TotalTax           decimal.Decimal `json:"total_tax"`
	TotalInvoiceAmount decimal.Decimal `json:"total_invoice_amount"`

	OrderDate    string `json:"order_date"` // free-form date strings, not validated
	InvoiceDate  string `json:"invoice_date"`
	DeliveryDate string `json:"delivery_date"`

	PaymentStatus      string `json:"payment_status"`
	PaymentMode        string `json:"payment_mode"`
	TransactionID      string `json:"transaction_id"`
	TransportMode      string `json:"transport_mode"`
	EwayBillNo         string `json:"eway_bill_no"`
	ReceivedBy         string `json:"received_by"`
	QualityCheckStatus string `json:"quality_check_status"`
}

// GST split applied when computing totals: 9% CGST + 9% SGST.
var gstRate = decimal.NewFromInt(18)

// ComputeTotals derives taxable amount, tax and invoice total from
// quantity and unit price.
func (o *Order) ComputeTotals() {
	o.TaxableAmount = o.Quantity.Mul(o.UnitPrice)
	o.TotalTax = o.TaxableAmount.Mul(gstRate).Div(decimal.NewFromInt(100))
	o.TotalInvoiceAmount = o.TaxableAmount.Add(o.TotalTax)
}

// ApplyDefaults fills every optional field that the caller left empty.
// OrderID must be set before calling; invoice, transaction and e-way
// numbers are derived from it.
func (o *Order) ApplyDefaults(now time.Time) {
	today := now.Format("2006-01-02")
	if o.InvoiceNo == "" {
		o.InvoiceNo = fmt.Sprintf("INV-%d", 10000+o.OrderID)
	}
	if o.VendorID == "" {
		o.VendorID = "V999"
	}
	if o.GSTNumber == "" {
		o.GSTNumber = "33XXXXX0000Z0"
	}
	if o.VendorState == "" {
		o.VendorState = "Tamil Nadu"
	}
	if o.VendorContact == "" {
		o.VendorContact = "+919999999999"
	}
	if o.ItemID == "" {
		o.ItemID = "I999"
	}
	if o.ItemCategory == "" {
		o.ItemCategory = "General"
	}
	if o.HSNCode == "" {
		o.HSNCode = "0000"
	}
	if o.Unit == "" {
		o.Unit = "Kg"
	}
	if o.OrderDate == "" {
		o.OrderDate = today
	}
	if o.InvoiceDate == "" {
		o.InvoiceDate = today
	}
	if o.DeliveryDate == "" {
		o.DeliveryDate = today
	}
	if o.PaymentStatus == "" {
		o.PaymentStatus = "Pending"
	}
	if o.PaymentMode == "" {
		o.PaymentMode = "NEFT"
	}
	if o.TransactionID == "" {
		o.TransactionID = fmt.Sprintf("TXN%d", o.OrderID)
	}
	if o.TransportMode == "" {
		o.TransportMode = "Road"
	}
	if o.EwayBillNo == "" {
		o.EwayBillNo = fmt.Sprintf("EWB%d", o.OrderID)
	}
	if o.ReceivedBy == "" {
		o.ReceivedBy = "Staff"
	}
	if o.QualityCheckStatus == "" {
		o.QualityCheckStatus = "Pending"
	}
}

// Document renders the order as the multi-line text used both for display
// and as the embedded similarity-search input.
func (o *Order) Document() string {
	return fmt.Sprintf(`Order ID: %d
Invoice: %s
Vendor: %s (ID: %s)
GST Number: %s
State: %s
Contact: %s
Item: %s (%s)
Item ID: %s
HSN Code: %s
Quantity: %s %s
Unit Price: ₹%s
Taxable Amount: ₹%s
Total Tax: ₹%s
Total Invoice Amount: ₹%s
Order Date: %s
Invoice Date: %s
Delivery Date: %s
Payment Status: %s
Payment Mode: %s
Transaction ID: %s
Transport Mode: %s
E-way Bill: %s
Received By: %s
Quality Check: %s`,
		o.OrderID, o.InvoiceNo,
		o.VendorName, o.VendorID, o.GSTNumber, o.VendorState, o.VendorContact,
		o.ItemName, o.ItemCategory, o.ItemID, o.HSNCode,
		o.Quantity, o.Unit, o.UnitPrice,
		o.TaxableAmount, o.TotalTax, o.TotalInvoiceAmount,
		o.OrderDate, o.InvoiceDate, o.DeliveryDate,
		o.PaymentStatus, o.PaymentMode, o.TransactionID,
		o.TransportMode, o.EwayBillNo, o.ReceivedBy, o.QualityCheckStatus)
}

// Metadata returns the flat projection stored next to the document.
// All values are strings except total_invoice_amount, which stays numeric
// so callers can aggregate it.
func (o *Order) Metadata() map[string]any {
	total, _ := o.TotalInvoiceAmount.Float64()
	return map[string]any{
		"order_id":             strconv.Itoa(o.OrderID),
		"invoice_no":           o.InvoiceNo,
		"vendor_id":            o.VendorID,
		"vendor_name":          o.VendorName,
		"gst_number":           o.GSTNumber,
		"item_id":              o.ItemID,
		"item_name":            o.ItemName,
		"item_category":        o.ItemCategory,
		"order_date":           o.OrderDate,
		"payment_status":       o.PaymentStatus,
		"total_invoice_amount": total,
	}
}

// OrderMeta is the typed view of a stored metadata record.
type OrderMeta struct {
	OrderID            string
	InvoiceNo          string
	VendorID           string
	VendorName         string
	GSTNumber          string
	ItemID             string
	ItemName           string
	ItemCategory       string
	OrderDate          string
	PaymentStatus      string
	TotalInvoiceAmount float64
}

func metaFromMap(m map[string]any) OrderMeta {
	return OrderMeta{
		OrderID:            asString(m["order_id"]),
		InvoiceNo:          asString(m["invoice_no"]),
		VendorID:           asString(m["vendor_id"]),
		VendorName:         asString(m["vendor_name"]),
		GSTNumber:          asString(m["gst_number"]),
		ItemID:             asString(m["item_id"]),
		ItemName:           asString(m["item_name"]),
		ItemCategory:       asString(m["item_category"]),
		OrderDate:          asString(m["order_date"]),
		PaymentStatus:      asString(m["payment_status"]),
		TotalInvoiceAmount: asFloat(m["total_invoice_amount"]),
	}
}

func asString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", t)
	}
}

// asFloat tolerates the numeric types a metadata value can come back as
// after a JSON round-trip through the store backends.
func asFloat(v any) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case float32:
		return float64(t)
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case json.Number:
		f, _ := t.Float64()
		return f
	case string:
		f, _ := strconv.ParseFloat(t, 64)
		return f
	default:
		return 0
	}
}
