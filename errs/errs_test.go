package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKinds(t *testing.T) {
	err := Malformed("leftover data")
	var e *Error
	require.True(t, errors.As(err, &e))
	require.Equal(t, KindStatic, e.Kind)
	require.ErrorIs(t, err, ErrMalformedData)
	require.NotErrorIs(t, err, ErrInvalidInput)

	err = Limitf("%d nodes exceeds %d", 10, 5)
	require.True(t, errors.As(err, &e))
	require.Equal(t, KindAllocated, e.Kind)
	require.Equal(t, "10 nodes exceeds 5", err.Error())
	require.ErrorIs(t, err, ErrLimitExceeded)
}

func TestWrapKeepsCategoryAndMessages(t *testing.T) {
	inner := Malformed("enum value out of range")
	mid := Wrapf(inner, "reading field %q", "format")
	outer := Wrap(mid, "reading bitmap")

	require.ErrorIs(t, outer, ErrMalformedData)
	require.Equal(t, []string{"reading bitmap", `reading field "format"`, "enum value out of range"}, Messages(outer))
	require.Equal(t, `reading bitmap: reading field "format": enum value out of range`, outer.Error())
}

func TestWrapPlainError(t *testing.T) {
	err := Wrap(fmt.Errorf("eof"), "reading header")
	require.ErrorIs(t, err, ErrMalformedData)
	require.Equal(t, []string{"reading header", "eof"}, Messages(err))
	require.Nil(t, Wrap(nil, "nothing"))
}

func TestBugPanics(t *testing.T) {
	require.Panics(t, func() { Bug("struct end %d exceeded", 4) })
}
