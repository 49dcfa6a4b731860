package domain

import (
	"fmt"
	"sort"
	"strings"

	"leadportal_backend/platform/apperr"
)

// ValidationError reports submission fields that failed their constraints.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+" "+e.Fields[k])
	}
	return "invalid submission: " + strings.Join(parts, "; ")
}

func (e *ValidationError) AppError() *apperr.Error {
	return apperr.Validation("invalid submission").WithDetails(e.Fields)
}

// PersistenceError wraps a failed storage write.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return "persist lead: " + e.Err.Error()
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func (e *PersistenceError) AppError() *apperr.Error {
	return apperr.Wrap(apperr.KindInternal, "failed to store lead: "+e.Err.Error(), e.Err)
}

// DeletionAttempt is the outcome of one failed deletion strategy.
type DeletionAttempt struct {
	Method DeleteMethod
	Err    error
}

// DeletionExhausted is returned when every deletion strategy failed.
type DeletionExhausted struct {
	Attempts []DeletionAttempt
}

func (e *DeletionExhausted) Error() string {
	parts := make([]string, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		parts = append(parts, fmt.Sprintf("%s: %v", a.Method, a.Err))
	}
	return "all deletion strategies failed: " + strings.Join(parts, "; ")
}

// Details maps each strategy to its failure message.
func (e *DeletionExhausted) Details() map[string]string {
	out := make(map[string]string, len(e.Attempts))
	for _, a := range e.Attempts {
		out[string(a.Method)] = a.Err.Error()
	}
	return out
}

func (e *DeletionExhausted) AppError() *apperr.Error {
	return apperr.New(apperr.KindInternal, "failed to delete lead").WithDetails(e.Details())
}

// EnrichmentFailure records a country lookup that fell back to CountryUnknown.
// It never leaves the enrichment stage.
type EnrichmentFailure struct {
	IP  string
	Err error
}

func (e *EnrichmentFailure) Error() string {
	return fmt.Sprintf("geolocate %s: %v", e.IP, e.Err)
}

func (e *EnrichmentFailure) Unwrap() error {
	return e.Err
}

// NotificationError records a lead notification that could not be sent.
// It is logged and dropped by the intake service.
type NotificationError struct {
	Err error
}

func (e *NotificationError) Error() string {
	return "notify lead: " + e.Err.Error()
}

func (e *NotificationError) Unwrap() error {
	return e.Err
}
