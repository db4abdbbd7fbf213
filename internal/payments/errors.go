package payments

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/stripe/stripe-go/v81"
)

// Kind classifies a failed Stripe call.
type Kind string

const (
	// KindValidation covers malformed or out-of-range request payloads,
	// e.g. more than 20 payment link line items.
	KindValidation Kind = "validation"
	// KindNotFound covers unknown resource ids, including ids that belong
	// to another account.
	KindNotFound Kind = "not_found"
	// KindAuth covers a missing or invalid secret key.
	KindAuth Kind = "auth"
	// KindRemote covers network and provider-side failures. Remote errors
	// are the only retryable kind; all others surface to the caller as-is.
	KindRemote Kind = "remote"
)

// Error wraps a failed Stripe call with its classified kind. The provider's
// original message is preserved in Message.
type Error struct {
	Kind    Kind
	Op      string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("stripe %s [%s]: %s", e.Op, e.Kind, e.Message)
	}
	return fmt.Sprintf("stripe %s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// wrapErr classifies err from a Stripe call named op. Transport failures and
// provider 5xx responses become KindRemote; everything else maps from the
// provider error's status and code.
func wrapErr(op string, err error) error {
	var stripeErr *stripe.Error
	if !errors.As(err, &stripeErr) {
		return &Error{Kind: KindRemote, Op: op, Err: err}
	}

	kind := KindRemote
	switch {
	case stripeErr.HTTPStatusCode == http.StatusUnauthorized,
		stripeErr.HTTPStatusCode == http.StatusForbidden:
		kind = KindAuth
	case stripeErr.HTTPStatusCode == http.StatusNotFound,
		stripeErr.Code == stripe.ErrorCodeResourceMissing:
		kind = KindNotFound
	case stripeErr.Type == stripe.ErrorTypeInvalidRequest,
		stripeErr.Type == stripe.ErrorTypeCard:
		kind = KindValidation
	}

	return &Error{Kind: kind, Op: op, Message: stripeErr.Msg, Err: err}
}

func isKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

// IsValidation reports whether err is a request validation failure.
func IsValidation(err error) bool { return isKind(err, KindValidation) }

// IsNotFound reports whether err refers to an unknown resource id.
func IsNotFound(err error) bool { return isKind(err, KindNotFound) }

// IsAuth reports whether err is a credential failure.
func IsAuth(err error) bool { return isKind(err, KindAuth) }

// IsRetryable reports whether a caller may retry the call. Only remote
// (network or provider-side) failures qualify; validation, auth and
// not-found errors are permanent.
func IsRetryable(err error) bool { return isKind(err, KindRemote) }
