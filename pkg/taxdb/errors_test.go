package taxdb_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gnames/gn"
	"github.com/gnames/gnlineage/pkg/errcode"
	"github.com/gnames/gnlineage/pkg/taxdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotFoundError(t *testing.T) {
	err := taxdb.NotFoundError("9606")
	require.NotNil(t, err)

	gnErr, ok := err.(*gn.Error)
	require.True(t, ok, "Error should be of type *gn.Error")
	assert.Equal(t, errcode.StoreNotFoundError, gnErr.Code)
	assert.Equal(t, []any{"9606"}, gnErr.Vars)
	assert.Contains(t, gnErr.Err.Error(), "9606")
}

func TestUnavailableError(t *testing.T) {
	cause := errors.New("connection refused")
	err := taxdb.UnavailableError("NodeByID", 3, cause)

	gnErr, ok := err.(*gn.Error)
	require.True(t, ok)
	assert.Equal(t, errcode.StoreUnavailableError, gnErr.Code)
	assert.ErrorIs(t, gnErr.Err, cause)
	assert.Len(t, gnErr.Vars, 2)
}

func TestClassification(t *testing.T) {
	tests := []struct {
		msg         string
		err         error
		notFound    bool
		noLink      bool
		unavailable bool
	}{
		{"not found", taxdb.NotFoundError("1"), true, false, false},
		{"no link", taxdb.NoLinkError("P1"), false, true, false},
		{"unavailable",
			taxdb.UnavailableError("op", 3, errors.New("x")), false, false, true},
		{"wrapped not found",
			fmt.Errorf("lookup: %w", taxdb.NotFoundError("1")), true, false, false},
		{"plain error", errors.New("boom"), false, false, false},
		{"nil", nil, false, false, false},
	}

	for _, v := range tests {
		assert.Equal(t, v.notFound, taxdb.IsNotFound(v.err), v.msg)
		assert.Equal(t, v.noLink, taxdb.IsNoLink(v.err), v.msg)
		assert.Equal(t, v.unavailable, taxdb.IsUnavailable(v.err), v.msg)
	}
}
