// Taksonomi error lintas fitur training:
// - ValidationError  → dikumpulkan per batch/per field, tidak menggugurkan batch lain
// - PreconditionError → pelanggaran prasyarat (mis. absensi di luar window OPEN)
// - konflik duplicate key → di-recover lokal, lihat IsDuplicateKey
package errs

import (
	"errors"
	"fmt"
	"strings"
)

/* =========================
   ValidationError
========================= */

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ValidationError struct {
	Errors []FieldError `json:"errors"`
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Errors) == 0 {
		return "validasi gagal"
	}
	parts := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		parts = append(parts, fmt.Sprintf("%s: %s", fe.Field, fe.Message))
	}
	return "validasi gagal: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Add(field, message string) {
	e.Errors = append(e.Errors, FieldError{Field: field, Message: message})
}

func (e *ValidationError) HasErrors() bool {
	return e != nil && len(e.Errors) > 0
}

// AsValidation membongkar err menjadi *ValidationError kalau memang tipenya itu.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

/* =========================
   PreconditionError
========================= */

type PreconditionError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *PreconditionError) Error() string { return e.Message }

func NewPrecondition(code, message string) *PreconditionError {
	return &PreconditionError{Code: code, Message: message}
}

// AsPrecondition membongkar err menjadi *PreconditionError kalau memang tipenya itu.
func AsPrecondition(err error) (*PreconditionError, bool) {
	var pe *PreconditionError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}

/* =========================
   Duplicate key (postgres)
========================= */

// IsDuplicateKey mendeteksi pelanggaran unique constraint dari driver.
func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "duplicate key") ||
		strings.Contains(s, "violates unique constraint") ||
		strings.Contains(s, "unique constraint") ||
		strings.Contains(s, "sqlstate 23505")
}
