package enum

// ── State machines (CHECK constrained in DB) ──

const (
	OrderStatusNew       = "NEW"
	OrderStatusPreparing = "PREPARING"
	OrderStatusReady     = "READY"
	OrderStatusCompleted = "COMPLETED"
	OrderStatusCancelled = "CANCELLED"
)

const (
	PaymentStatusPending   = "PENDING"
	PaymentStatusCompleted = "COMPLETED"
	PaymentStatusFailed    = "FAILED"
)

// ── Order intake (CHECK constrained in DB) ──

const (
	OrderTypeDineIn   = "DINE_IN"
	OrderTypePickup   = "PICKUP"
	OrderTypeDelivery = "DELIVERY"
)

const (
	PaymentMethodCash   = "CASH"
	PaymentMethodOnline = "ONLINE"
)

// ── Variation selection rules ──
// Stored lowercase: these values come straight from catalog config rows.

const (
	SelectionTypeSingle   = "single"
	SelectionTypeMultiple = "multiple"
)

// ── Roles ──

const (
	UserRoleAdmin = "ADMIN"
	UserRoleStaff = "STAFF"
)
