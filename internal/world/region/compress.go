package region

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
	"github.com/pierrec/lz4/v4"
)

// Scheme selects the per-chunk payload compression. The byte value is stored
// on disk after the length prefix; these constants are part of the file
// format and must not be renumbered.
type Scheme byte

const (
	SchemeGzip Scheme = 1
	SchemeZlib Scheme = 2
	SchemeNone Scheme = 3
	SchemeLZ4  Scheme = 4
)

func (s Scheme) String() string {
	switch s {
	case SchemeGzip:
		return "gzip"
	case SchemeZlib:
		return "zlib"
	case SchemeNone:
		return "none"
	case SchemeLZ4:
		return "lz4"
	default:
		return fmt.Sprintf("unknown(%d)", byte(s))
	}
}

// ParseScheme maps a config string to a Scheme.
func ParseScheme(name string) (Scheme, error) {
	switch name {
	case "gzip":
		return SchemeGzip, nil
	case "zlib":
		return SchemeZlib, nil
	case "none", "uncompressed":
		return SchemeNone, nil
	case "lz4":
		return SchemeLZ4, nil
	default:
		return 0, fmt.Errorf("unknown compression scheme %q", name)
	}
}

func compress(data []byte, s Scheme) ([]byte, error) {
	var buf bytes.Buffer

	var (
		w   io.WriteCloser
		err error
	)
	switch s {
	case SchemeGzip:
		w = gzip.NewWriter(&buf)
	case SchemeZlib:
		w, err = zlib.NewWriterLevel(&buf, zlib.DefaultCompression)
		if err != nil {
			return nil, fmt.Errorf("create zlib writer: %w", err)
		}
	case SchemeNone:
		out := make([]byte, len(data))
		copy(out, data)
		return out, nil
	case SchemeLZ4:
		w = lz4.NewWriter(&buf)
	default:
		return nil, fmt.Errorf("unknown compression scheme %d", byte(s))
	}

	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("compress (%s): %w", s, err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("close %s writer: %w", s, err)
	}
	return buf.Bytes(), nil
}

func decompress(data []byte, s Scheme) ([]byte, error) {
	var (
		r   io.Reader
		err error
	)
	switch s {
	case SchemeGzip:
		r, err = gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("open gzip stream: %w", err)
		}
	case SchemeZlib:
		r, err = zlib.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("open zlib stream: %w", err)
		}
	case SchemeNone:
		out := make([]byte, len(data))
		copy(out, data)
		return out, nil
	case SchemeLZ4:
		r = lz4.NewReader(bytes.NewReader(data))
	default:
		return nil, fmt.Errorf("unknown compression scheme %d", byte(s))
	}

	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("decompress (%s): %w", s, err)
	}
	return out, nil
}
