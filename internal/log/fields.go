package log

// Common field names for structured logging.
const (
	FieldComponent  = "component"
	FieldAccount    = "account"
	FieldCategory   = "category"
	FieldAmount     = "amount_cents"
	FieldBalance    = "balance_cents"
	FieldPath       = "path"
	FieldMethod     = "method"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldClientIP   = "client_ip"
	FieldError      = "error"
)

// Standard component names.
const (
	ComponentApp     = "app"
	ComponentHTTP    = "http"
	ComponentStore   = "store"
	ComponentAccount = "account"
	ComponentLedger  = "ledger"
	ComponentChart   = "chart"
)
