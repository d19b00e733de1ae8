package service

import (
    "context"
    "fmt"

    "github.com/poslight/pos-backend/internal/model"
    "github.com/poslight/pos-backend/internal/queue"
    "github.com/poslight/pos-backend/internal/repository"
)

// OrderTaxRate is applied to the order subtotal at creation time.
const OrderTaxRate = 0.085

// OrderStore is the slice of the order repository the ordering rules
// need.
type OrderStore interface {
    CreateWithItems(ctx context.Context, o *model.Order, items []model.OrderItem) error
    GetDetail(ctx context.Context, id uint64) (*repository.OrderDetail, error)
    UpdateStatus(ctx context.Context, id uint64, status string) error
}

// MenuPriceStore supplies authoritative menu item prices.
type MenuPriceStore interface {
    GetItemsByIDs(ctx context.Context, ids []uint64) (map[uint64]model.MenuItem, error)
}

// OrderService prices and records orders.  Unit prices always come
// from the menu, never from the request.
type OrderService struct {
    orders  OrderStore
    tables  TableStore
    menu    MenuPriceStore
    publish Publisher
}

// NewOrderService wires an OrderService.  publish may be nil, in
// which case no events are emitted.
func NewOrderService(orders OrderStore, tables TableStore, menu MenuPriceStore, publish Publisher) *OrderService {
    if publish == nil {
        publish = func(context.Context, string, uint64, any) error { return nil }
    }
    return &OrderService{orders: orders, tables: tables, menu: menu, publish: publish}
}

// OrderItemInput is one requested line: a menu item and a quantity.
type OrderItemInput struct {
    MenuItemID uint64
    Quantity   int
    Notes      *string
}

// OrderInput carries an order request.
type OrderInput struct {
    TableID   uint64
    SessionID *uint64
    UserID    *uint64
    Items     []OrderItemInput
    Discount  float64
    Notes     *string
}

// Create prices and persists an order with its line items in one
// transaction.  Every requested item must exist on the menu and be
// available; quantities must be positive.
func (s *OrderService) Create(ctx context.Context, in OrderInput) (*repository.OrderDetail, error) {
    if len(in.Items) == 0 {
        return nil, fmt.Errorf("order needs at least one item: %w", repository.ErrValidation)
    }
    table, err := s.tables.GetByID(ctx, in.TableID)
    if err != nil {
        return nil, err
    }

    ids := make([]uint64, 0, len(in.Items))
    for _, it := range in.Items {
        if it.Quantity <= 0 {
            return nil, fmt.Errorf("item quantity must be positive: %w", repository.ErrValidation)
        }
        ids = append(ids, it.MenuItemID)
    }
    menuItems, err := s.menu.GetItemsByIDs(ctx, ids)
    if err != nil {
        return nil, err
    }

    var subtotal float64
    lines := make([]model.OrderItem, 0, len(in.Items))
    for _, it := range in.Items {
        mi, ok := menuItems[it.MenuItemID]
        if !ok {
            return nil, fmt.Errorf("menu item %d not found: %w", it.MenuItemID, repository.ErrValidation)
        }
        if !mi.IsAvailable {
            return nil, fmt.Errorf("menu item %q is not available: %w", mi.Name, repository.ErrValidation)
        }
        lineTotal := roundCents(mi.Price * float64(it.Quantity))
        subtotal += lineTotal
        lines = append(lines, model.OrderItem{
            MenuItemID: it.MenuItemID,
            Quantity:   it.Quantity,
            UnitPrice:  mi.Price,
            TotalPrice: lineTotal,
            Notes:      it.Notes,
        })
    }
    subtotal = roundCents(subtotal)
    tax := roundCents(subtotal * OrderTaxRate)
    discount := in.Discount
    if discount < 0 {
        discount = 0
    }

    order := &model.Order{
        OrderNumber:    newRef("ORD"),
        SessionID:      in.SessionID,
        TableID:        in.TableID,
        UserID:         in.UserID,
        Subtotal:       subtotal,
        TaxAmount:      tax,
        DiscountAmount: discount,
        TotalAmount:    roundCents(subtotal + tax - discount),
        Notes:          in.Notes,
    }
    if err := s.orders.CreateWithItems(ctx, order, lines); err != nil {
        return nil, err
    }

    detail, err := s.orders.GetDetail(ctx, order.ID)
    if err != nil {
        return nil, err
    }
    _ = s.publish(ctx, queue.EventNewOrder, table.ID, orderEvent(detail))
    return detail, nil
}

var validOrderStatuses = map[string]bool{
    model.OrderPending:   true,
    model.OrderPreparing: true,
    model.OrderReady:     true,
    model.OrderServed:    true,
    model.OrderCancelled: true,
}

// UpdateStatus moves an order through pending → preparing → ready →
// served, or to cancelled.  Served and cancelled are terminal.
func (s *OrderService) UpdateStatus(ctx context.Context, id uint64, status string) (*repository.OrderDetail, error) {
    if !validOrderStatuses[status] {
        return nil, fmt.Errorf("invalid order status %q: %w", status, repository.ErrValidation)
    }
    if err := s.orders.UpdateStatus(ctx, id, status); err != nil {
        return nil, err
    }
    detail, err := s.orders.GetDetail(ctx, id)
    if err != nil {
        return nil, err
    }
    _ = s.publish(ctx, queue.EventOrderStatusUpdated, detail.TableID, orderEvent(detail))
    return detail, nil
}

func orderEvent(d *repository.OrderDetail) queue.OrderEvent {
    return queue.OrderEvent{
        OrderID:     d.ID,
        OrderNumber: d.OrderNumber,
        TableID:     d.TableID,
        TableNumber: d.TableNumber,
        Status:      d.Status,
        TotalAmount: d.TotalAmount,
    }
}
