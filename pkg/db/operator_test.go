package db_test

import (
	"context"
	"testing"

	"github.com/phingest/phingest/internal/iodb"
	"github.com/phingest/phingest/pkg/db"
	"github.com/phingest/phingest/pkg/errcode"
	"github.com/stretchr/testify/assert"
)

func TestOperator_BeforeConnect(t *testing.T) {
	var op db.Operator = iodb.NewPgxOperator()
	assert.Nil(t, op.Pool(), "pool is nil before Connect")

	_, err := op.HasTables(context.Background())
	assert.True(t, errcode.Is(err, errcode.DBNotConnectedError))
}
