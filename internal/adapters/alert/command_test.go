package alert

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCommandNotifierPassesErrorAndLogTail(t *testing.T) {
	out := filepath.Join(t.TempDir(), "alert.txt")
	n := NewCommandNotifier(`{ printf '%s\n' "$POSTER_ERROR"; cat; } > `+out, zap.NewNop())

	err := n.Notify(context.Background(), errors.New("upload rejected"), []string{"line one", "line two"})
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	content := string(data)
	assert.True(t, strings.HasPrefix(content, "upload rejected\n"))
	assert.Contains(t, content, "line one\nline two")
}

func TestCommandNotifierReportsCommandFailure(t *testing.T) {
	n := NewCommandNotifier("exit 3", zap.NewNop())
	err := n.Notify(context.Background(), errors.New("boom"), nil)
	assert.Error(t, err)
}

func TestNoopNotifier(t *testing.T) {
	assert.NoError(t, NoopNotifier{}.Notify(context.Background(), errors.New("x"), nil))
}

func TestTailWriterKeepsRecentLines(t *testing.T) {
	w := NewTailWriter(3)
	_, err := w.Write([]byte("a\nb\n"))
	require.NoError(t, err)
	_, err = w.Write([]byte("c\n"))
	require.NoError(t, err)
	_, err = w.Write([]byte("d\n"))
	require.NoError(t, err)

	assert.Equal(t, []string{"b", "c", "d"}, w.Lines())
	assert.NoError(t, w.Sync())
}

func TestTailWriterSkipsBlankLines(t *testing.T) {
	w := NewTailWriter(10)
	_, err := w.Write([]byte("\n\na\n\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, w.Lines())
}

func TestTailWriterLinesReturnsCopy(t *testing.T) {
	w := NewTailWriter(10)
	_, _ = w.Write([]byte("a\n"))
	lines := w.Lines()
	lines[0] = "mutated"
	assert.Equal(t, []string{"a"}, w.Lines())
}
