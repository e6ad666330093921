package queries_test

import (
	"testing"

	"dispatch/internal/core/application/usecases/queries"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGetPendingPackagesQuery_Valid(t *testing.T) {
	query := queries.NewGetPendingPackagesQuery()
	err := query.Validate()
	require.NoError(t, err)
}

func TestGetPendingPackagesQuery_NotConstructedViaConstructor(t *testing.T) {
	query := queries.GetPendingPackagesQuery{}
	err := query.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, queries.ErrGetPendingPackagesQueryIsNotConstructed)
}
