package model

import "time"

// Order status values as stored in `orders.status`.  Orders move
// pending → preparing → ready → served; cancelled can be reached
// from any non-served state.
const (
    OrderPending   = "pending"
    OrderPreparing = "preparing"
    OrderReady     = "ready"
    OrderServed    = "served"
    OrderCancelled = "cancelled"
)

// Order is a food/drink order placed against a table, optionally
// attached to a running session so its totals roll into the session
// bill.  Mirrors the `orders` table.
//
// Fields:
//  ID             – primary key identifier.
//  OrderNumber    – public identifier ("ORD-<ms>-<n>").
//  SessionID      – owning session, if ordered during one.
//  TableID        – table the order was placed at.
//  UserID         – registered customer, if any.
//  Status         – kitchen state (see constants above).
//  Subtotal       – sum of line totals before tax.
//  TaxAmount      – tax charged on the subtotal.
//  DiscountAmount – discount applied.
//  TotalAmount    – subtotal + tax − discount.
//  Notes          – free-form notes (nullable).
//  CreatedAt      – timestamp of creation.
//  UpdatedAt      – timestamp of last update.
type Order struct {
    ID             uint64    // orders.id
    OrderNumber    string    // orders.order_number
    SessionID      *uint64   // orders.session_id (nullable)
    TableID        uint64    // orders.table_id
    UserID         *uint64   // orders.user_id (nullable)
    Status         string    // orders.status
    Subtotal       float64   // orders.subtotal
    TaxAmount      float64   // orders.tax_amount
    DiscountAmount float64   // orders.discount_amount
    TotalAmount    float64   // orders.total_amount
    Notes          *string   // orders.notes (nullable)
    CreatedAt      time.Time // orders.created_at
    UpdatedAt      time.Time // orders.updated_at
}

// OrderItem is a single line of an order, mirroring the
// `order_items` table.  UnitPrice is copied from the menu item at
// order time so menu edits never change a placed order.
//
// Fields:
//  ID         – primary key identifier.
//  OrderID    – owning order.
//  MenuItemID – ordered menu item.
//  Quantity   – units ordered.
//  UnitPrice  – price per unit at order time.
//  TotalPrice – quantity × unit price.
//  Notes      – per-line notes (nullable).
type OrderItem struct {
    ID         uint64  // order_items.id
    OrderID    uint64  // order_items.order_id
    MenuItemID uint64  // order_items.menu_item_id
    Quantity   int     // order_items.quantity
    UnitPrice  float64 // order_items.unit_price
    TotalPrice float64 // order_items.total_price
    Notes      *string // order_items.notes (nullable)
}
