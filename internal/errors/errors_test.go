package errors_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	serrors "github.com/dbgateway/mysqlwire/internal/errors"
)

func TestWithStack(t *testing.T) {
	e := serrors.WithStack(serrors.New("boom"))
	require.Equal(t, "boom", fmt.Sprintf("%s", e))
	require.Contains(t, fmt.Sprintf("%+v", e), t.Name())
	require.Nil(t, serrors.WithStack(nil))
}

func TestWrapIsAndUnwrap(t *testing.T) {
	cause := stderrors.New("dial refused")
	sentinel := serrors.New("connect failed")
	err := serrors.Wrap(sentinel, cause)
	require.True(t, serrors.Is(err, sentinel))
	require.Equal(t, cause, serrors.Unwrap(err))
	require.Nil(t, serrors.Wrap(nil, cause))
}

func TestCollect(t *testing.T) {
	sentinel := serrors.New("close failed")
	e1 := stderrors.New("a")
	e2 := stderrors.New("b")
	err := serrors.Collect(sentinel, nil, e1, nil, e2)
	require.True(t, serrors.Is(err, sentinel))
	require.True(t, serrors.Is(err, e1))
	require.True(t, serrors.Is(err, e2))
	require.Nil(t, serrors.Collect(sentinel, nil, nil))
}
