package file

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.conf")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestGetLines_SkipsCommentsAndBlanks(t *testing.T) {
	path := writeTemp(t, "# header\n\n  first  \nsecond\n   # trailing comment\n")

	lines, err := NewParser().GetLines(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, lines)
}

func TestGetLines_KeepComments(t *testing.T) {
	path := writeTemp(t, "# kept\nvalue\n")

	lines, err := NewParser(WithSkipComments(false)).GetLines(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"# kept", "value"}, lines)
}

func TestGetLines_Errors(t *testing.T) {
	_, err := NewParser().GetLines("")
	assert.Error(t, err)

	_, err = NewParser().GetLines(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)

	big := writeTemp(t, strings.Repeat("x", 64)+"\n")
	_, err = NewParser(WithMaxSize(10)).GetLines(big)
	assert.Error(t, err)

	invalid := filepath.Join(t.TempDir(), "bin")
	require.NoError(t, os.WriteFile(invalid, []byte{0xff, 0xfe, 0xfd}, 0o644))
	_, err = NewParser().GetLines(invalid)
	assert.Error(t, err)
}

func TestGetFields(t *testing.T) {
	path := writeTemp(t, "a | b|c\nd|e\n")

	fields, err := NewParser().GetFields(path)
	require.NoError(t, err)
	require.Len(t, fields, 2)
	assert.Equal(t, []string{"a", "b", "c"}, fields[0])
	assert.Equal(t, []string{"d", "e"}, fields[1])
}

func TestGetFields_CustomDelimiter(t *testing.T) {
	path := writeTemp(t, "a;b;c\n")

	fields, err := NewParser(WithFieldDelimiter(";")).GetFields(path)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"a", "b", "c"}}, fields)
}
