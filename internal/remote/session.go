package remote

import "context"

// Domain is a search filter in the remote's polish-notation form.
type Domain []any

// Cond builds a single (field, operator, value) domain term.
func Cond(field, op string, value any) []any {
	return []any{field, op, value}
}

// Values is the field map sent on create/write.
type Values map[string]any

// Record is one row returned by read/search_read.
type Record map[string]any

// Int returns a numeric field as int64. JSON numbers decode as float64.
func (r Record) Int(field string) (int64, bool) {
	switch v := r[field].(type) {
	case float64:
		return int64(v), true
	case int64:
		return v, true
	case int:
		return int64(v), true
	default:
		return 0, false
	}
}

// String returns a text field. The remote uses false for empty values.
func (r Record) String(field string) string {
	s, _ := r[field].(string)
	return s
}

//go:generate mockgen -source=session.go -destination=mock/session_mock.go -package=mock
type Connector interface {
	Connect(ctx context.Context, creds Credentials) (Session, error)
}

type Session interface {
	UserID() int64
	Database() string
	Search(ctx context.Context, model string, domain Domain) ([]int64, error)
	SearchCount(ctx context.Context, model string, domain Domain) (int64, error)
	SearchRead(ctx context.Context, model string, domain Domain, fields []string) ([]Record, error)
	Read(ctx context.Context, model string, ids []int64, fields []string) ([]Record, error)
	Create(ctx context.Context, model string, vals Values) (int64, error)
	Write(ctx context.Context, model string, ids []int64, vals Values) error
	Unlink(ctx context.Context, model string, ids []int64) error
	Call(ctx context.Context, model, method string, ids []int64) error
}
