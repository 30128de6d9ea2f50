package source

import (
	"errors"
	"fmt"
	"os"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Encoding names a supported file encoding.
type Encoding string

// Supported encodings.
const (
	EncodingUTF8    Encoding = "utf-8"
	EncodingUTF16LE Encoding = "utf-16le"
	EncodingUTF16BE Encoding = "utf-16be"
)

// MaxFileBytes bounds the size of a file loaded into a pane.
const MaxFileBytes = 8 << 20

// MaxLines is the most lines an editor pane holds.
const MaxLines = 10000

// Errors wrapped by LoadError.
var (
	// ErrUnknownEncoding is returned for an encoding name that is not supported.
	ErrUnknownEncoding = errors.New("unknown encoding")

	// ErrInvalidText is returned when the file bytes are not valid in the
	// requested encoding.
	ErrInvalidText = errors.New("invalid text for encoding")

	// ErrFileTooLarge is returned when the file exceeds MaxFileBytes.
	ErrFileTooLarge = errors.New("file too large")

	// ErrTooManyLines is returned when the file has more lines than the
	// caller allows.
	ErrTooManyLines = errors.New("too many lines")
)

// ParseEncoding validates an encoding name. Empty selects UTF-8.
func ParseEncoding(name string) (Encoding, error) {
	switch Encoding(name) {
	case "", EncodingUTF8, "utf8":
		return EncodingUTF8, nil
	case EncodingUTF16LE:
		return EncodingUTF16LE, nil
	case EncodingUTF16BE:
		return EncodingUTF16BE, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownEncoding, name)
	}
}

// LoadError describes a failed file load.
type LoadError struct {
	// Path is the file that could not be loaded.
	Path string

	// Op is the failing step: "stat", "read", "decode" or "lines".
	Op string

	// Err is the underlying error.
	Err error
}

// Error returns a message suitable for showing to the user.
func (e *LoadError) Error() string {
	return fmt.Sprintf("cannot open %s: %s: %v", e.Path, e.Op, e.Err)
}

// Unwrap returns the underlying error for use with errors.Is and errors.As.
func (e *LoadError) Unwrap() error {
	return e.Err
}

// ReadFile reads the whole file at path and decodes it. A UTF-8 byte order
// mark is stripped; a UTF-16 byte order mark overrides the requested
// encoding.
func ReadFile(path string, enc Encoding) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", &LoadError{Path: path, Op: "stat", Err: err}
	}
	if info.Size() > MaxFileBytes {
		return "", &LoadError{Path: path, Op: "stat", Err: fmt.Errorf("%w: %d bytes", ErrFileTooLarge, info.Size())}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", &LoadError{Path: path, Op: "read", Err: err}
	}

	text, err := Decode(data, enc)
	if err != nil {
		return "", &LoadError{Path: path, Op: "decode", Err: err}
	}
	return text, nil
}

// Decode converts raw file bytes to text.
func Decode(data []byte, enc Encoding) (string, error) {
	enc, err := ParseEncoding(string(enc))
	if err != nil {
		return "", err
	}

	var fallback transform.Transformer
	switch enc {
	case EncodingUTF16LE:
		fallback = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder()
	case EncodingUTF16BE:
		fallback = unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewDecoder()
	default:
		// The UTF-8 decoder substitutes U+FFFD for bad input, so reject it
		// up front unless a UTF-16 BOM is about to switch decoders.
		if !hasUTF16BOM(data) && !utf8.Valid(data) {
			return "", ErrInvalidText
		}
		fallback = unicode.UTF8BOM.NewDecoder()
	}

	out, _, err := transform.Bytes(unicode.BOMOverride(fallback), data)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidText, err)
	}
	return string(out), nil
}

func hasUTF16BOM(data []byte) bool {
	if len(data) < 2 {
		return false
	}
	return (data[0] == 0xFF && data[1] == 0xFE) || (data[0] == 0xFE && data[1] == 0xFF)
}
