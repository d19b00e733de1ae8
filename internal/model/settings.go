package model

// BusinessSettings is the single-row `business_settings` table
// holding opening hours and receipt fields.  Hours are "HH:MM"
// strings; an empty pair means the business is closed that day and
// slot generation rejects requests for it.  Weekday hours apply
// Monday through Friday; Saturday and Sunday each have their own
// window.
//
// Fields:
//  ID            – primary key (always the single row's id).
//  BusinessName  – display name printed on receipts.
//  Phone         – contact phone.
//  Address       – street address.
//  WeekdaysStart – Monday–Friday opening ("HH:MM", empty = closed).
//  WeekdaysEnd   – Monday–Friday closing.
//  SaturdayStart – Saturday opening.
//  SaturdayEnd   – Saturday closing.
//  SundayStart   – Sunday opening.
//  SundayEnd     – Sunday closing.
//  ReceiptHeader – text printed above receipt items.
//  ReceiptFooter – text printed below receipt totals.
type BusinessSettings struct {
    ID            uint64 // business_settings.id
    BusinessName  string // business_settings.business_name
    Phone         string // business_settings.phone
    Address       string // business_settings.address
    WeekdaysStart string // business_settings.weekdays_start
    WeekdaysEnd   string // business_settings.weekdays_end
    SaturdayStart string // business_settings.saturday_start
    SaturdayEnd   string // business_settings.saturday_end
    SundayStart   string // business_settings.sunday_start
    SundayEnd     string // business_settings.sunday_end
    ReceiptHeader string // business_settings.receipt_header
    ReceiptFooter string // business_settings.receipt_footer
}
