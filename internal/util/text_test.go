package util

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCleanText(t *testing.T) {
	t.Parallel()

	t.Run("strips invisible characters", func(t *testing.T) {
		require.Equal(t, "alice", CleanText(" al\u200bice\u200d ", false))
	})

	t.Run("strips control characters", func(t *testing.T) {
		require.Equal(t, "bobby", CleanText("bob\x00\x07by", false))
	})

	t.Run("single line drops newlines", func(t *testing.T) {
		require.Equal(t, "Gomeetup", CleanText("Go\nmeetup", false))
	})

	t.Run("multiline keeps newlines and tabs", func(t *testing.T) {
		require.Equal(t, "line one\n\tline two", CleanText("line one\r\n\tline two\n", true))
	})

	t.Run("only invisible is empty", func(t *testing.T) {
		require.Equal(t, "", CleanText("\u200b\ufeff", false))
	})

	t.Run("keeps non ascii text", func(t *testing.T) {
		require.Equal(t, "Caf\u00e9 \u6771\u4eac", CleanText("Caf\u00e9 \u6771\u4eac", false))
	})
}
