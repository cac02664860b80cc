// Package errs defines the error values shared by the tag codec, the bitmap
// pipeline and the script backend.
//
// Every error produced by this module is an *Error. Its Kind records whether
// the message is a constant (KindStatic) or was formatted with computed
// values (KindAllocated); its Category classifies the failure so callers can
// match it with errors.Is against the sentinel values below. Errors nest: a
// failure deep inside a reflexive keeps every message on the way out, and
// Messages returns that sequence outermost first.
package errs

import (
	"errors"
	"fmt"
)

// Kind says how an error message was produced.
type Kind uint8

const (
	KindStatic    Kind = iota // message is a constant
	KindAllocated             // message includes computed values
)

// Category classifies an error for matching with errors.Is.
type Category uint8

const (
	CategoryMalformedData Category = iota
	CategoryInvalidInput
	CategoryLimitExceeded
	CategoryUnsupported
)

func (c Category) String() string {
	switch c {
	case CategoryMalformedData:
		return "malformed data"
	case CategoryInvalidInput:
		return "invalid input"
	case CategoryLimitExceeded:
		return "limit exceeded"
	case CategoryUnsupported:
		return "unsupported"
	}
	return "unknown"
}

// Sentinel values for errors.Is.
var (
	ErrMalformedData = errors.New("malformed data")
	ErrInvalidInput  = errors.New("invalid input")
	ErrLimitExceeded = errors.New("limit exceeded")
	ErrUnsupported   = errors.New("unsupported")
)

func (c Category) sentinel() error {
	switch c {
	case CategoryMalformedData:
		return ErrMalformedData
	case CategoryInvalidInput:
		return ErrInvalidInput
	case CategoryLimitExceeded:
		return ErrLimitExceeded
	case CategoryUnsupported:
		return ErrUnsupported
	}
	return nil
}

// Error is a categorized error message with an optional cause.
type Error struct {
	Kind     Kind
	Category Category
	Msg      string
	Err      error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Msg
	}
	return e.Msg + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is the sentinel for e's category.
func (e *Error) Is(target error) bool {
	return target != nil && target == e.Category.sentinel()
}

func static(c Category, msg string) error {
	return &Error{Kind: KindStatic, Category: c, Msg: msg}
}

func allocated(c Category, format string, args ...any) error {
	return &Error{Kind: KindAllocated, Category: c, Msg: fmt.Sprintf(format, args...)}
}

func Malformed(msg string) error { return static(CategoryMalformedData, msg) }

func Malformedf(format string, args ...any) error {
	return allocated(CategoryMalformedData, format, args...)
}

func Invalid(msg string) error { return static(CategoryInvalidInput, msg) }

func Invalidf(format string, args ...any) error {
	return allocated(CategoryInvalidInput, format, args...)
}

func Limit(msg string) error { return static(CategoryLimitExceeded, msg) }

func Limitf(format string, args ...any) error {
	return allocated(CategoryLimitExceeded, format, args...)
}

func Unsupported(msg string) error { return static(CategoryUnsupported, msg) }

func Unsupportedf(format string, args ...any) error {
	return allocated(CategoryUnsupported, format, args...)
}

// Wrap prefixes err with a constant context message. The category of the
// innermost *Error is kept; plain errors are treated as malformed data.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: KindStatic, Category: CategoryOf(err), Msg: msg, Err: err}
}

// Wrapf is Wrap with a formatted message.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: KindAllocated, Category: CategoryOf(err), Msg: fmt.Sprintf(format, args...), Err: err}
}

// CategoryOf returns the category of the outermost *Error in err's chain.
func CategoryOf(err error) Category {
	var e *Error
	if errors.As(err, &e) {
		return e.Category
	}
	return CategoryMalformedData
}

// Messages returns every message in err's chain, outermost first.
func Messages(err error) []string {
	var out []string
	for err != nil {
		var e *Error
		if !errors.As(err, &e) || e != err {
			out = append(out, err.Error())
			return out
		}
		out = append(out, e.Msg)
		err = e.Err
	}
	return out
}

// Bug panics with a formatted message. It marks programmer errors such as a
// field written past the end of its struct.
func Bug(format string, args ...any) {
	panic("bug: " + fmt.Sprintf(format, args...))
}
