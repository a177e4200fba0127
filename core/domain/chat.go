package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Row is a single result row with column order preserved as returned by the
// row store. Values holds the column name -> value mapping.
type Row struct {
	Columns []string
	Values  map[string]any
}

// Get returns the value for a column and whether the column exists.
func (r Row) Get(column string) (any, bool) {
	v, ok := r.Values[column]
	return v, ok
}

// String renders the row as "col: value, col: value" in column order.
// Used when a whole row is substituted into a scalar placeholder.
func (r Row) String() string {
	var b strings.Builder
	for i, col := range r.Columns {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(col)
		b.WriteString(": ")
		b.WriteString(Stringify(r.Values[col]))
	}
	return b.String()
}

// Rows is an ordered sequence of result rows.
type Rows []Row

// Binding maps query keys to their results. Values are either Rows or a
// scalar-like value; it is the sole data context available to the renderer.
type Binding map[string]any

// QueryRequest is one entry of an LLM completion's queries array.
type QueryRequest struct {
	Key     string `json:"key"`
	SQL     string `json:"query"`
	Doctype string `json:"doctype,omitempty"`
}

// QueryResult is the guard's outcome for one QueryRequest.
type QueryResult struct {
	Success bool   `json:"success"`
	Rows    Rows   `json:"rows,omitempty"`
	Error   string `json:"error,omitempty"`
}

// SafetyVerdict is the guard's judgment for one SQL statement prior to
// execution. Transient, never persisted.
type SafetyVerdict struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
}

// Allow returns a passing verdict.
func Allow() SafetyVerdict {
	return SafetyVerdict{Allowed: true}
}

// Reject returns a failing verdict with a reason.
func Reject(format string, args ...any) SafetyVerdict {
	return SafetyVerdict{Allowed: false, Reason: fmt.Sprintf(format, args...)}
}

// MessageRole identifies who authored a conversation message.
type MessageRole string

const (
	RoleUser MessageRole = "user"
	RoleBot  MessageRole = "bot"
)

// Message is one entry of a conversation's history window.
type Message struct {
	Role      MessageRole `json:"role"`
	Content   string      `json:"content"`
	CreatedAt time.Time   `json:"created_at"`
}

// Stringify converts a row-store value to its canonical text form. The
// formatting is locale-independent so repeated renders are byte-identical.
func Stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.FormatInt(int64(v), 10)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float32:
		return strconv.FormatFloat(float64(v), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case time.Time:
		return v.Format("2006-01-02 15:04:05")
	case Row:
		return v.String()
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}
