package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func neverExists(context.Context, string) (bool, error) { return false, nil }

func TestCodeGenerator_Format(t *testing.T) {
	gen := NewCodeGenerator(WithIntn(func(int) int { return 7 }))
	code, err := gen.Generate(context.Background(), neverExists)
	require.NoError(t, err)
	require.Equal(t, "O00007", code)
}

func TestCodeGenerator_RetriesOnCollision(t *testing.T) {
	taken := map[string]bool{"O00001": true, "O00002": true}
	values := []int{1, 2, 3}
	i := 0
	gen := NewCodeGenerator(WithIntn(func(int) int {
		v := values[i%len(values)]
		i++
		return v
	}))

	code, err := gen.Generate(context.Background(), func(_ context.Context, code string) (bool, error) {
		return taken[code], nil
	})
	require.NoError(t, err)
	require.Equal(t, "O00003", code)
	require.Equal(t, 3, i)
}

func TestCodeGenerator_GivesUpAfterMaxAttempts(t *testing.T) {
	gen := NewCodeGenerator(
		WithIntn(func(int) int { return 42 }),
		WithMaxAttempts(5),
	)
	attempts := 0
	_, err := gen.Generate(context.Background(), func(context.Context, string) (bool, error) {
		attempts++
		return true, nil
	})
	require.ErrorIs(t, err, ErrCodeSpaceExhausted)
	require.Equal(t, 5, attempts)
}

func TestCodeGenerator_PropagatesLookupError(t *testing.T) {
	gen := NewCodeGenerator()
	wantErr := context.DeadlineExceeded
	_, err := gen.Generate(context.Background(), func(context.Context, string) (bool, error) {
		return false, wantErr
	})
	require.ErrorIs(t, err, wantErr)
}

func TestCodeGenerator_CustomPrefix(t *testing.T) {
	gen := NewCodeGenerator(WithPrefix("P"), WithIntn(func(int) int { return 123 }))
	code, err := gen.Generate(context.Background(), neverExists)
	require.NoError(t, err)
	require.Equal(t, "P00123", code)
}
