package log

// Common field names for structured logging
const (
	FieldComponent   = "component"
	FieldError       = "error"
	FieldOperation   = "operation"
	FieldBackend     = "backend"
	FieldPath        = "path"
	FieldRecords     = "records"
	FieldDate        = "date"
	FieldAmount      = "amount"
	FieldDescription = "description"
	FieldCategory    = "category"
	FieldMessageID   = "message_id"
	FieldExchange    = "exchange"
	FieldQueue       = "queue"
	FieldSpreadsheet = "spreadsheet"
	FieldTabs        = "tabs"
	FieldVersion     = "version"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentBackend = "backend"
	ComponentLedger  = "ledger"
	ComponentStorage = "storage"
	ComponentService = "service"
	ComponentAMQP    = "amqp"
	ComponentSheets  = "sheets"
	ComponentShell   = "shell"
)

// Operations defines standard operation names
const (
	OpAppend  = "append"
	OpLoad    = "load"
	OpSave    = "save"
	OpMigrate = "migrate"
	OpPublish = "publish"
	OpExport  = "export"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
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

// WithExpense adds expense-related fields
func (f LogFields) WithExpense(date string, amount float64, description, category string) LogFields {
	f[FieldDate] = date
	f[FieldAmount] = amount
	f[FieldDescription] = description
	f[FieldCategory] = category
	return f
}

// With adds an arbitrary field
func (f LogFields) With(key string, value any) LogFields {
	f[key] = value
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
