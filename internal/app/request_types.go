package app

import "github.com/shopspring/decimal"

// AddOrderRequest carries the fields a caller may supply for a new order.
// VendorName and ItemName are required; everything else falls back to the
// server-side defaults.
type AddOrderRequest struct {
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

	Quantity  decimal.Decimal `json:"quantity"`
	Unit      string          `json:"unit"`
	UnitPrice decimal.Decimal `json:"unit_price"`

	OrderDate    string `json:"order_date"`
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
