package tr

import (
	"context"
	"testing"

	"github.com/DRSN-tech/vending-machine/pkg/e"
	"github.com/stretchr/testify/assert"
)

func TestTxFromCtx_Missing(t *testing.T) {
	_, err := TxFromCtx(context.Background())
	assert.ErrorIs(t, err, e.ErrTransactionNotFound)
}

func TestTxFromCtx_WrongType(t *testing.T) {
	ctx := WithTx(context.Background(), "not a tx")

	_, err := TxFromCtx(ctx)
	assert.ErrorIs(t, err, e.ErrTransactionNotFound)
}
