package pipeline

import (
	"errors"
	"fmt"
)

// Kind classifies a pipeline failure so that the HTTP boundary and the bus
// handlers can decide between rejecting, retrying and dropping.
type Kind string

const (
	KindAuthentication Kind = "authentication"
	KindValidation     Kind = "validation"
	KindTransient      Kind = "transient"
	KindPermanent      Kind = "permanent"
)

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}

	return fmt.Sprintf("%s: %s: %s", e.Kind, e.Message, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func AuthenticationError(message string) error {
	return &Error{Kind: KindAuthentication, Message: message}
}

func ValidationError(message string, err error) error {
	return &Error{Kind: KindValidation, Message: message, Err: err}
}

// TransientInfraError marks failures that are safe to retry or replay:
// an unavailable bus, a timed out checkout.
func TransientInfraError(message string, err error) error {
	return &Error{Kind: KindTransient, Message: message, Err: err}
}

func PermanentError(message string, err error) error {
	return &Error{Kind: KindPermanent, Message: message, Err: err}
}

func KindOf(err error) (Kind, bool) {
	var perr *Error
	if errors.As(err, &perr) {
		return perr.Kind, true
	}

	return "", false
}

func IsAuthentication(err error) bool { return is(err, KindAuthentication) }
func IsValidation(err error) bool     { return is(err, KindValidation) }
func IsTransient(err error) bool      { return is(err, KindTransient) }
func IsPermanent(err error) bool      { return is(err, KindPermanent) }

func is(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}
