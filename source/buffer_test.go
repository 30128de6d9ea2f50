package source

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestBuffer_TextAndLines(t *testing.T) {
	b := NewBuffer("standard")
	assert.Equal(t, "standard", b.Name())
	assert.Empty(t, b.Lines())
	assert.Equal(t, 1, b.LineCount())

	b.SetText("print(1)\nprint(2)\n")
	assert.Equal(t, []string{"print(1)", "print(2)"}, b.Lines())
	assert.Equal(t, 3, b.LineCount())
}

func TestBuffer_LoadWithMaxLines(t *testing.T) {
	path := writeFile(t, "long.py", []byte("a\nb\nc"))

	b := NewBuffer("standard")
	b.SetText("keep me")

	err := b.LoadWith(path, EncodingUTF8, WithMaxLines(2))
	require.ErrorIs(t, err, ErrTooManyLines)
	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, "lines", loadErr.Op)
	assert.Equal(t, "keep me", b.Text())
	assert.Empty(t, b.Path())

	require.NoError(t, b.LoadWith(path, EncodingUTF8, WithMaxLines(3)))
	assert.Equal(t, 3, b.LineCount())
}

func TestBuffer_Load(t *testing.T) {
	path := writeFile(t, "solution.py", []byte("x = 1\nprint(x)\n"))

	b := NewBuffer("standard")
	require.NoError(t, b.Load(path))
	assert.Equal(t, "x = 1\nprint(x)\n", b.Text())
	assert.Equal(t, path, b.Path())

	b.Clear()
	assert.Empty(t, b.Text())
	assert.Empty(t, b.Path())
}

func TestBuffer_LoadMissingFileLeavesContent(t *testing.T) {
	b := NewBuffer("standard")
	b.SetText("keep me")

	err := b.Load(filepath.Join(t.TempDir(), "missing.py"))
	require.Error(t, err)

	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, "stat", loadErr.Op)
	assert.True(t, errors.Is(err, os.ErrNotExist))
	assert.Equal(t, "keep me", b.Text())
	assert.Empty(t, b.Path())
}

func TestBuffer_LoadInvalidUTF8LeavesContent(t *testing.T) {
	path := writeFile(t, "bad.py", []byte{'p', 0xff, 0xfe, 0xfd, '\n', 0x80})

	b := NewBuffer("standard")
	b.SetText("original")

	err := b.Load(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidText)

	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, "decode", loadErr.Op)
	assert.Equal(t, "original", b.Text())
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		enc  Encoding
		want string
	}{
		{"plain utf-8", []byte("héllo\n"), EncodingUTF8, "héllo\n"},
		{"utf-8 bom stripped", append([]byte{0xEF, 0xBB, 0xBF}, "a = 1"...), EncodingUTF8, "a = 1"},
		{"utf-16le bom overrides", []byte{0xFF, 0xFE, 'h', 0, 'i', 0}, EncodingUTF8, "hi"},
		{"utf-16le without bom", []byte{'o', 0, 'k', 0}, EncodingUTF16LE, "ok"},
		{"utf-16be without bom", []byte{0, 'o', 0, 'k'}, EncodingUTF16BE, "ok"},
		{"empty", nil, EncodingUTF8, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.data, tt.enc)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseEncoding(t *testing.T) {
	enc, err := ParseEncoding("")
	require.NoError(t, err)
	assert.Equal(t, EncodingUTF8, enc)

	_, err = ParseEncoding("latin-1")
	assert.ErrorIs(t, err, ErrUnknownEncoding)
}

func TestLoadError_Message(t *testing.T) {
	err := &LoadError{Path: "/tmp/x.py", Op: "read", Err: os.ErrPermission}
	assert.Equal(t, "cannot open /tmp/x.py: read: permission denied", err.Error())
	assert.ErrorIs(t, err, os.ErrPermission)
}
