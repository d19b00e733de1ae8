package model

import "time"

// MenuCategory groups menu items for display, mirroring the
// `menu_categories` table.
//
// Fields:
//  ID        – primary key identifier.
//  Name      – unique category name.
//  SortOrder – display ordering, ascending.
//  IsActive  – whether the category is shown.
type MenuCategory struct {
    ID        uint64 // menu_categories.id
    Name      string // menu_categories.name
    SortOrder int    // menu_categories.sort_order
    IsActive  bool   // menu_categories.is_active
}

// MenuItem is an orderable product, mirroring the `menu_items`
// table.  Station tags route printed tickets to the right prep
// area (kitchen, bar, counter).
//
// Fields:
//  ID          – primary key identifier.
//  CategoryID  – owning category.
//  Name        – item name.
//  Description – menu description (nullable).
//  Price       – current unit price.
//  IsAvailable – whether the item can currently be ordered.
//  Station     – prep station tag.
//  CreatedAt   – timestamp of creation.
//  UpdatedAt   – timestamp of last update.
type MenuItem struct {
    ID          uint64    // menu_items.id
    CategoryID  uint64    // menu_items.category_id
    Name        string    // menu_items.name
    Description *string   // menu_items.description (nullable)
    Price       float64   // menu_items.price
    IsAvailable bool      // menu_items.is_available
    Station     string    // menu_items.station
    CreatedAt   time.Time // menu_items.created_at
    UpdatedAt   time.Time // menu_items.updated_at
}
