package fill

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Parallel()
	_, err := New(Fill{Side: "HODL"})
	assert.ErrorIs(t, err, ErrInvalidSide)

	_, err = New(Fill{Side: Buy, Price: decimal.NewFromInt(100)})
	assert.ErrorIs(t, err, ErrInvalidFill)

	f, err := New(Fill{
		Time:  time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		Side:  Buy,
		Price: decimal.NewFromInt(100),
		Size:  decimal.NewFromInt(10),
		Fee:   decimal.NewFromInt(1),
	})
	require.NoError(t, err)
	assert.False(t, f.ID.IsNil())
	assert.Equal(t, "1000", f.Notional().String())
	assert.Equal(t, "1001", f.TotalCost().String())
}
