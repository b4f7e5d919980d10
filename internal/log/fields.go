package log

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldMessageID  = "message_id"
	FieldUser       = "user"
	FieldChannel    = "channel"
	FieldGateway    = "gateway"
	FieldIntent     = "intent"
	FieldCategory   = "category"
	FieldAmount     = "amount"
	FieldCeiling    = "ceiling"
	FieldTotal      = "total"
	FieldRowRef     = "row_ref"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldSuccess    = "success"
	FieldError      = "error"
	FieldOperation  = "operation"
)

// Components defines standard component names
const (
	ComponentApp      = "app"
	ComponentRouter   = "router"
	ComponentBudget   = "budget"
	ComponentExpense  = "expense"
	ComponentStorage  = "storage"
	ComponentAMQP     = "amqp"
	ComponentWorker   = "worker"
	ComponentSheets   = "sheets"
	ComponentGateway  = "gateway"
	ComponentBackend  = "backend"
	ComponentHTTP     = "http"
	ComponentClassify = "classifier"
)

// Operations defines standard operation names
const (
	OpAppend   = "append"
	OpRead     = "read"
	OpPersist  = "persist"
	OpLoad     = "load"
	OpPublish  = "publish"
	OpConsume  = "consume"
	OpReply    = "reply"
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

// WithMessage adds the inbound chat message identity fields
func (f LogFields) WithMessage(messageID, user, channel string) LogFields {
	f[FieldMessageID] = messageID
	f[FieldUser] = user
	if channel != "" {
		f[FieldChannel] = channel
	}
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

// WithExpense adds expense-related fields
func (f LogFields) WithExpense(user, category, amount string) LogFields {
	f[FieldUser] = user
	f[FieldCategory] = category
	f[FieldAmount] = amount
	return f
}

// WithHTTPRequest adds HTTP request fields
func (f LogFields) WithHTTPRequest(method, path string) LogFields {
	f[FieldMethod] = method
	f[FieldPath] = path
	return f
}

// WithHTTPResponse adds HTTP response fields
func (f LogFields) WithHTTPResponse(statusCode int, durationMs int64) LogFields {
	f[FieldStatusCode] = statusCode
	f[FieldDuration] = durationMs
	f[FieldSuccess] = statusCode < 400
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
