package service

import (
    "context"
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/poslight/pos-backend/internal/model"
    "github.com/poslight/pos-backend/internal/queue"
    "github.com/poslight/pos-backend/internal/repository"
)

func orderTables() *mockTableStore {
    return &mockTableStore{
        getByIDFn: func(_ context.Context, id uint64) (*model.Table, error) {
            return &model.Table{ID: id, Number: "T2", Status: model.TableOccupied}, nil
        },
    }
}

func orderMenu() *mockMenuStore {
    return &mockMenuStore{items: map[uint64]model.MenuItem{
        1: {ID: 1, Name: "Masala Fries", Price: 4.5, IsAvailable: true, Station: "kitchen"},
        2: {ID: 2, Name: "Cold Brew", Price: 3.25, IsAvailable: true, Station: "bar"},
        3: {ID: 3, Name: "Seasonal Special", Price: 9.0, IsAvailable: false, Station: "kitchen"},
    }}
}

func TestOrderCreatePricesFromMenu(t *testing.T) {
    rec := &eventRecorder{}
    var createdOrder *model.Order
    var createdItems []model.OrderItem
    orders := &mockOrderStore{
        createFn: func(_ context.Context, o *model.Order, items []model.OrderItem) error {
            o.ID = 11
            createdOrder = o
            createdItems = items
            return nil
        },
        getDetailFn: func(_ context.Context, id uint64) (*repository.OrderDetail, error) {
            return &repository.OrderDetail{
                ID: id, OrderNumber: createdOrder.OrderNumber, TableID: 2, TableNumber: "T2",
                Status: model.OrderPending, TotalAmount: createdOrder.TotalAmount,
            }, nil
        },
    }
    svc := NewOrderService(orders, orderTables(), orderMenu(), rec.publish)

    detail, err := svc.Create(context.Background(), OrderInput{
        TableID: 2,
        Items: []OrderItemInput{
            {MenuItemID: 1, Quantity: 2}, // 9.00
            {MenuItemID: 2, Quantity: 1}, // 3.25
        },
    })
    require.NoError(t, err)
    assert.Regexp(t, `^ORD-\d+-\d{3}$`, createdOrder.OrderNumber)
    assert.Equal(t, 12.25, createdOrder.Subtotal)
    assert.Equal(t, 1.04, createdOrder.TaxAmount, "8.5 percent of $12.25, rounded to cents")
    assert.Equal(t, 13.29, createdOrder.TotalAmount)

    require.Len(t, createdItems, 2)
    assert.Equal(t, 4.5, createdItems[0].UnitPrice, "unit price comes from the menu, not the request")
    assert.Equal(t, 9.0, createdItems[0].TotalPrice)

    assert.Equal(t, model.OrderPending, detail.Status)
    assert.Equal(t, []string{queue.EventNewOrder}, rec.names())
}

func TestOrderCreateValidation(t *testing.T) {
    svc := NewOrderService(&mockOrderStore{}, orderTables(), orderMenu(), nil)

    _, err := svc.Create(context.Background(), OrderInput{TableID: 2})
    assert.ErrorIs(t, err, repository.ErrValidation, "empty order")

    _, err = svc.Create(context.Background(), OrderInput{
        TableID: 2,
        Items:   []OrderItemInput{{MenuItemID: 1, Quantity: 0}},
    })
    assert.ErrorIs(t, err, repository.ErrValidation, "zero quantity")

    _, err = svc.Create(context.Background(), OrderInput{
        TableID: 2,
        Items:   []OrderItemInput{{MenuItemID: 99, Quantity: 1}},
    })
    assert.ErrorIs(t, err, repository.ErrValidation, "unknown menu item")

    _, err = svc.Create(context.Background(), OrderInput{
        TableID: 2,
        Items:   []OrderItemInput{{MenuItemID: 3, Quantity: 1}},
    })
    assert.ErrorIs(t, err, repository.ErrValidation, "unavailable menu item")
}

func TestOrderCreateDiscount(t *testing.T) {
    var createdOrder *model.Order
    orders := &mockOrderStore{
        createFn: func(_ context.Context, o *model.Order, items []model.OrderItem) error {
            o.ID = 12
            createdOrder = o
            return nil
        },
        getDetailFn: func(_ context.Context, id uint64) (*repository.OrderDetail, error) {
            return &repository.OrderDetail{ID: id, TableID: 2}, nil
        },
    }
    svc := NewOrderService(orders, orderTables(), orderMenu(), nil)

    _, err := svc.Create(context.Background(), OrderInput{
        TableID:  2,
        Items:    []OrderItemInput{{MenuItemID: 1, Quantity: 2}},
        Discount: 2,
    })
    require.NoError(t, err)
    assert.Equal(t, 2.0, createdOrder.DiscountAmount)
    // 9.00 + 0.77 - 2.00
    assert.Equal(t, 7.77, createdOrder.TotalAmount)
}

func TestOrderUpdateStatus(t *testing.T) {
    rec := &eventRecorder{}
    orders := &mockOrderStore{
        updateStatusFn: func(_ context.Context, id uint64, status string) error { return nil },
        getDetailFn: func(_ context.Context, id uint64) (*repository.OrderDetail, error) {
            return &repository.OrderDetail{ID: id, TableID: 2, Status: model.OrderPreparing}, nil
        },
    }
    svc := NewOrderService(orders, orderTables(), orderMenu(), rec.publish)

    detail, err := svc.UpdateStatus(context.Background(), 11, model.OrderPreparing)
    require.NoError(t, err)
    assert.Equal(t, model.OrderPreparing, detail.Status)
    assert.Equal(t, []string{queue.EventOrderStatusUpdated}, rec.names())

    _, err = svc.UpdateStatus(context.Background(), 11, "eaten")
    assert.ErrorIs(t, err, repository.ErrValidation)
}

func TestOrderUpdateStatusTerminalReportsNotFound(t *testing.T) {
    orders := &mockOrderStore{
        updateStatusFn: func(_ context.Context, id uint64, status string) error {
            return repository.ErrNotFound
        },
    }
    svc := NewOrderService(orders, orderTables(), orderMenu(), nil)
    _, err := svc.UpdateStatus(context.Background(), 11, model.OrderReady)
    assert.ErrorIs(t, err, repository.ErrNotFound)
}
