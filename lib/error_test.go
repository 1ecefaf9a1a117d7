package lib

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestErrorDefect(t *testing.T) {
	plain := NewError(1, "helper", "bad input")
	defect := NewDefect(5, "helper", "negative delta")
	require.False(t, IsDefect(plain))
	require.True(t, IsDefect(defect))
	// wrapped defects are still detected
	require.True(t, IsDefect(fmt.Errorf("stage failed: %w", defect)))
	require.Contains(t, defect.Error(), "DEFECT")
	require.NotContains(t, plain.Error(), "DEFECT")
}

func TestErrorIs(t *testing.T) {
	err := ErrInvalidAmount("x")
	require.True(t, ErrorIs(err, ErrInvalidAmount("y")))
	require.False(t, ErrorIs(err, ErrEmptyBasket()))
	require.False(t, ErrorIs(nil, ErrEmptyBasket()))
}
