package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_generateCode(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("first free code wins", func(t *testing.T) {
		t.Parallel()
		code, err := generateCode(ctx, func(context.Context, string) (bool, error) {
			return false, nil
		})
		require.NoError(t, err)
		require.True(t, strings.HasPrefix(code, codePrefix))
		require.Len(t, code, len(codePrefix)+8)
		require.Equal(t, strings.ToUpper(code), code)
	})

	t.Run("regenerates on collision", func(t *testing.T) {
		t.Parallel()
		calls := 0
		code, err := generateCode(ctx, func(context.Context, string) (bool, error) {
			calls++
			return calls == 1, nil
		})
		require.NoError(t, err)
		require.NotEmpty(t, code)
		require.Equal(t, 2, calls)
	})

	t.Run("gives up after bounded attempts", func(t *testing.T) {
		t.Parallel()
		calls := 0
		_, err := generateCode(ctx, func(context.Context, string) (bool, error) {
			calls++
			return true, nil
		})
		require.Error(t, err)
		require.Equal(t, codeAttempts, calls)
	})

	t.Run("codes differ between draws", func(t *testing.T) {
		t.Parallel()
		seen := map[string]bool{}
		for i := 0; i < 50; i++ {
			code, err := generateCode(ctx, func(context.Context, string) (bool, error) {
				return false, nil
			})
			require.NoError(t, err)
			require.False(t, seen[code], "duplicate code %s", code)
			seen[code] = true
		}
	})
}
