package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"textile-assistant/internal/core"
)

// ErrMissingField marks input validation failures; the web adapter maps it
// to HTTP 400.
var ErrMissingField = errors.New("missing required field")

type appService struct {
	store    *core.OrderStore
	resolver *core.Resolver
	csvPath  string
	now      func() time.Time
}

// NewAppService constructs an appService that satisfies ApplicationService.
func NewAppService(store *core.OrderStore, csvPath string) ApplicationService {
	return &appService{
		store:    store,
		resolver: core.NewResolver(store),
		csvPath:  csvPath,
		now:      time.Now,
	}
}

func (s *appService) Answer(ctx context.Context, query string) (string, error) {
	return s.resolver.Answer(ctx, query)
}

func (s *appService) AddOrder(ctx context.Context, req AddOrderRequest) (*AddOrderResult, error) {
	if req.VendorName == "" {
		return nil, fmt.Errorf("%w: vendor_name", ErrMissingField)
	}
	if req.ItemName == "" {
		return nil, fmt.Errorf("%w: item_name", ErrMissingField)
	}

	order := core.Order{
		OrderID:            s.store.NextOrderID(),
		InvoiceNo:          req.InvoiceNo,
		VendorName:         req.VendorName,
		VendorID:           req.VendorID,
		GSTNumber:          req.GSTNumber,
		VendorState:        req.VendorState,
		VendorContact:      req.VendorContact,
		ItemName:           req.ItemName,
		ItemID:             req.ItemID,
		ItemCategory:       req.ItemCategory,
		HSNCode:            req.HSNCode,
		Quantity:           req.Quantity,
		Unit:               req.Unit,
		UnitPrice:          req.UnitPrice,
		OrderDate:          req.OrderDate,
		InvoiceDate:        req.InvoiceDate,
		DeliveryDate:       req.DeliveryDate,
		PaymentStatus:      req.PaymentStatus,
		PaymentMode:        req.PaymentMode,
		TransactionID:      req.TransactionID,
		TransportMode:      req.TransportMode,
		EwayBillNo:         req.EwayBillNo,
		ReceivedBy:         req.ReceivedBy,
		QualityCheckStatus: req.QualityCheckStatus,
	}
	order.ComputeTotals()
	order.ApplyDefaults(s.now())

	if err := s.store.AddOrder(ctx, &order); err != nil {
		return nil, err
	}
	return &AddOrderResult{OrderID: order.OrderID, Order: order}, nil
}

func (s *appService) Count(ctx context.Context) (int, error) {
	return s.store.Count(ctx)
}

func (s *appService) EnsureLoaded(ctx context.Context) (int, error) {
	n, err := s.store.Count(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		return n, nil
	}
	return s.load(ctx)
}

func (s *appService) Reload(ctx context.Context) (int, error) {
	if err := s.store.Reset(ctx); err != nil {
		return 0, err
	}
	return s.load(ctx)
}

func (s *appService) load(ctx context.Context) (int, error) {
	orders, err := core.LoadOrdersCSV(s.csvPath)
	if err != nil {
		return 0, err
	}
	if err := s.store.BulkLoad(ctx, orders, 100); err != nil {
		return 0, err
	}
	return s.store.Count(ctx)
}
