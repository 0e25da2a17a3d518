package errors

import stderrors "errors"

// Sentinels for the failure classes surfaced by the sync and read paths.
var (
	ErrSourceUnavailable     = stderrors.New("market data source unavailable")
	ErrNotFound              = stderrors.New("not found")
	ErrMarketDataUnavailable = stderrors.New("market data not available yet")
)

type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return e.Field + ": " + e.Message
}

// PersistenceError wraps a failed store operation.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return "persistence: " + e.Op + ": " + e.Err.Error()
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// Persistence wraps err with the failing operation name. Nil stays nil.
func Persistence(op string, err error) error {
	if err == nil {
		return nil
	}
	return &PersistenceError{Op: op, Err: err}
}

// IsValidation reports whether err carries an *ErrValidation.
func IsValidation(err error) bool {
	var v *ErrValidation
	return stderrors.As(err, &v)
}
