package db_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/ecommerce_api/internal/db"
	"github.com/Skotchmaster/ecommerce_api/internal/db/dbtest"
	"github.com/Skotchmaster/ecommerce_api/internal/models"
)

func TestOpen_EmptyDSN(t *testing.T) {
	_, err := db.Open(context.Background(), "")
	require.Error(t, err)
}

func TestOpen_MigratesSchema(t *testing.T) {
	gdb := dbtest.Open(t)

	for _, m := range models.All() {
		assert.True(t, gdb.Migrator().HasTable(m))
	}
	require.NoError(t, db.Ping(context.Background(), gdb))
}
