package messages

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func write(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "msg.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestRead(t *testing.T) {
	path := write(t, "# header comment\nPrzerwa.\n<--insert-->\nNacisnij spacje.\n")

	msg, err := Read(path, "Blok 2 z 3\n")
	require.NoError(t, err)
	assert.Equal(t, "Przerwa.\nBlok 2 z 3\nNacisnij spacje.\n", msg)
}

func TestRead_NoInsert(t *testing.T) {
	path := write(t, "first\n<--insert--> anything after the marker\nlast")

	msg, err := Read(path, "")
	require.NoError(t, err)
	assert.Equal(t, "first\nlast", msg)
}

func TestRead_CommentOnlyAtLineStart(t *testing.T) {
	path := write(t, "  # indented stays\n#gone\n")

	msg, err := Read(path, "")
	require.NoError(t, err)
	assert.Equal(t, "  # indented stays\n", msg)
}

func TestRead_NormalisesToNFC(t *testing.T) {
	path := write(t, "z\u0307o\u0301\u0142ty\n")

	msg, err := Read(path, "")
	require.NoError(t, err)
	assert.Equal(t, "\u017c\u00f3\u0142ty\n", msg)
}

func TestRead_Missing(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "missing.txt"), "")
	assert.Error(t, err)
}

func TestIsImage(t *testing.T) {
	assert.True(t, IsImage("end.PNG"))
	assert.True(t, IsImage("dir/splash.jpg"))
	assert.False(t, IsImage("end.txt"))
	assert.False(t, IsImage("png"))
}
