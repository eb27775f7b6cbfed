package models

import (
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Сервер кладёт в числовые поля строки "N/A" и null — декодер обязан
// это пережить молча и показать "N/A", а не уронить рефреш.
func TestPriceDecodeTolerance(t *testing.T) {
	var d struct {
		Price Price `json:"price"`
	}

	for _, raw := range []string{
		`{"price":"N/A"}`,
		`{"price":null}`,
		`{"price":"Error"}`,
		`{"price":{}}`,
	} {
		require.NoError(t, sonic.Unmarshal([]byte(raw), &d), raw)
		assert.False(t, d.Price.Valid, raw)
		assert.Equal(t, "N/A", d.Price.Format(), raw)
	}

	require.NoError(t, sonic.Unmarshal([]byte(`{"price":64250.12}`), &d))
	assert.True(t, d.Price.Valid)
	assert.Equal(t, "64250.1200", d.Price.Format())
}

func TestPriceRoundTripNA(t *testing.T) {
	bs, err := sonic.Marshal(Price{})
	require.NoError(t, err)
	assert.Equal(t, `"N/A"`, string(bs))
}
