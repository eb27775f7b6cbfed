package main

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trade_console/internal/models"
)

func TestQuitSignalsShutdown(t *testing.T) {
	called := false
	// "q" не трогает планировщик, только зовёт quit и выходит из цикла
	readCommands(context.Background(), nil, strings.NewReader("q\nt 1\n"), func() { called = true })
	assert.True(t, called)
}

func TestParseEdit(t *testing.T) {
	cfg, ok := parseEdit([]string{"edit", "7", "1.5", "2.0", "100", "usdc"})
	require.True(t, ok)
	assert.Equal(t, models.PairConfig{
		PairID:         7,
		BuyPercentage:  1.5,
		SellPercentage: 2.0,
		Amount:         100,
		ProfitMode:     "usdc",
	}, cfg)

	_, ok = parseEdit([]string{"edit", "7", "1.5"})
	assert.False(t, ok)
	_, ok = parseEdit([]string{"edit", "x", "1", "2", "3", "usdc"})
	assert.False(t, ok)
	_, ok = parseEdit([]string{"edit", "7", "a", "2", "3", "usdc"})
	assert.False(t, ok)
}
