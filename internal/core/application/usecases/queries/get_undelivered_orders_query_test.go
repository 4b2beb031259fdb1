package queries_test

import (
	"testing"

	"fulfillment/internal/core/application/usecases/queries"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGetUndeliveredOrdersQuery_Valid(t *testing.T) {
	query := queries.NewGetUndeliveredOrdersQuery()
	require.NoError(t, query.Validate())
}

func TestGetUndeliveredOrdersQuery_NotConstructedViaConstructor(t *testing.T) {
	query := queries.GetUndeliveredOrdersQuery{}

	err := query.Validate()

	require.Error(t, err)
	assert.ErrorIs(t, err, queries.ErrGetUndeliveredOrdersQueryIsNotConstructed)
}
