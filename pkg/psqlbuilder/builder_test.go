package psqlbuilder

import (
	"testing"

	"github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelect_UsesDollarPlaceholders(t *testing.T) {
	query, args, err := Select("id", "status").
		From("reservations").
		Where(squirrel.Eq{"staff_id": int64(7)}).
		Where(squirrel.NotEq{"status": "cancelled"}).
		ToSql()

	require.NoError(t, err)
	assert.Equal(t, "SELECT id, status FROM reservations WHERE staff_id = $1 AND status <> $2", query)
	assert.Equal(t, []interface{}{int64(7), "cancelled"}, args)
}

func TestUpdate_UsesDollarPlaceholders(t *testing.T) {
	query, args, err := Update("reservations").
		Set("status", "confirmed").
		Where(squirrel.Eq{"id": int64(1), "status": "pending"}).
		ToSql()

	require.NoError(t, err)
	assert.Equal(t, "UPDATE reservations SET status = $1 WHERE id = $2 AND status = $3", query)
	assert.Len(t, args, 3)
}
