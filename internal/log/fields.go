package log

import "github.com/shopspring/decimal"

// Common field names for structured logging
const (
	FieldComponent   = "component"
	FieldError       = "error"
	FieldOperation   = "operation"
	FieldBackend     = "backend"
	FieldKey         = "key"
	FieldRevision    = "revision"
	FieldAccountID   = "account_id"
	FieldFromAccount = "from_account_id"
	FieldToAccount   = "to_account_id"
	FieldRecordID    = "record_id"
	FieldAmount      = "amount"
	FieldCurrency    = "currency"
	FieldCategory    = "category"
	FieldMethod      = "payment_method"
	FieldFrequency   = "frequency"
	FieldCount       = "count"
	FieldEventType   = "event_type"
	FieldSheetsRef   = "sheets_ref"
	FieldYearMonth   = "year_month"
)

// Components defines standard component names
const (
	ComponentApp       = "app"
	ComponentLedger    = "ledger"
	ComponentPlanner   = "planner"
	ComponentStore     = "store"
	ComponentLifecycle = "lifecycle"
	ComponentInsights  = "insights"
	ComponentAMQP      = "amqp"
	ComponentKafka     = "kafka"
	ComponentWorker    = "worker"
	ComponentSheets    = "sheets"
	ComponentBackend   = "backend"
)

// Operations defines standard operation names
const (
	OpCreate   = "create"
	OpUpdate   = "update"
	OpDelete   = "delete"
	OpCommit   = "commit"
	OpLoad     = "load"
	OpImport   = "import"
	OpExport   = "export"
	OpClear    = "clear"
	OpPublish  = "publish"
	OpSync     = "sync"
	OpShutdown = "shutdown"
	OpStartup  = "startup"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

// WithComponent adds component field
func (f LogFields) WithComponent(component string) LogFields {
	f[FieldComponent] = component
	return f
}

// WithError adds error field
func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

// WithOperation adds operation field
func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithMoney adds amount and currency fields
func (f LogFields) WithMoney(amount decimal.Decimal, currency string) LogFields {
	f[FieldAmount] = amount.String()
	if currency != "" {
		f[FieldCurrency] = currency
	}
	return f
}

// WithAccount adds the account id field
func (f LogFields) WithAccount(id string) LogFields {
	if id != "" {
		f[FieldAccountID] = id
	}
	return f
}

// WithRecord adds the record id field
func (f LogFields) WithRecord(id string) LogFields {
	f[FieldRecordID] = id
	return f
}

// ToSlice converts LogFields to a slice for slog
func (f LogFields) ToSlice() []any {
	slice := make([]any, 0, len(f)*2)
	for k, v := range f {
		slice = append(slice, k, v)
	}
	return slice
}
