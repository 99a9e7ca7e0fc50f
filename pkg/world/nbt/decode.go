package nbt

import (
	"encoding/binary"
	"fmt"
	"math"
)

// DefaultMaxDepth bounds tag nesting during decode. Corrupt or hostile input
// with deeper nesting is rejected instead of growing the stack without limit.
const DefaultMaxDepth = 512

// Unmarshal decodes a named root tag using DefaultMaxDepth.
func Unmarshal(data []byte) (string, Tag, error) {
	return UnmarshalDepth(data, DefaultMaxDepth)
}

// UnmarshalDepth decodes a named root tag with an explicit nesting limit.
// Trailing bytes after the root tag are a format error.
func UnmarshalDepth(data []byte, maxDepth int) (string, Tag, error) {
	d := &decoder{data: data, maxDepth: maxDepth}
	typ, err := d.readType()
	if err != nil {
		return "", nil, err
	}
	if typ == TypeEnd {
		return "", nil, d.fail("root tag is End")
	}
	name, err := d.readString()
	if err != nil {
		return "", nil, err
	}
	t, err := d.payload(typ, 0)
	if err != nil {
		return "", nil, err
	}
	if d.off != len(d.data) {
		return "", nil, d.fail(fmt.Sprintf("%d trailing bytes", len(d.data)-d.off))
	}
	return name, t, nil
}

type decoder struct {
	data     []byte
	off      int
	maxDepth int
}

func (d *decoder) fail(msg string) error {
	return &FormatError{Offset: d.off, Msg: msg}
}

// need verifies n bytes remain before any read, so length fields from the
// stream can never index past the buffer.
func (d *decoder) need(n int) error {
	if n < 0 || len(d.data)-d.off < n {
		return d.fail(fmt.Sprintf("need %d bytes, have %d", n, len(d.data)-d.off))
	}
	return nil
}

func (d *decoder) readByte() (byte, error) {
	if err := d.need(1); err != nil {
		return 0, err
	}
	b := d.data[d.off]
	d.off++
	return b, nil
}

func (d *decoder) readType() (Type, error) {
	b, err := d.readByte()
	if err != nil {
		return 0, err
	}
	if Type(b) > TypeLongArray {
		return 0, &FormatError{Offset: d.off - 1, Msg: fmt.Sprintf("invalid tag type 0x%02x", b)}
	}
	return Type(b), nil
}

func (d *decoder) readUint16() (uint16, error) {
	if err := d.need(2); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint16(d.data[d.off:])
	d.off += 2
	return v, nil
}

func (d *decoder) readUint32() (uint32, error) {
	if err := d.need(4); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint32(d.data[d.off:])
	d.off += 4
	return v, nil
}

func (d *decoder) readUint64() (uint64, error) {
	if err := d.need(8); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint64(d.data[d.off:])
	d.off += 8
	return v, nil
}

func (d *decoder) readString() (string, error) {
	n, err := d.readUint16()
	if err != nil {
		return "", err
	}
	if err := d.need(int(n)); err != nil {
		return "", err
	}
	s := string(d.data[d.off : d.off+int(n)])
	d.off += int(n)
	return s, nil
}

// readCount reads a 4-byte element count and rejects negative values or
// counts that cannot fit in the remaining buffer at elemSize bytes each.
func (d *decoder) readCount(elemSize int) (int, error) {
	v, err := d.readUint32()
	if err != nil {
		return 0, err
	}
	n := int(int32(v))
	if n < 0 {
		return 0, d.fail(fmt.Sprintf("negative length %d", n))
	}
	if elemSize > 0 {
		if err := d.need(n * elemSize); err != nil {
			return 0, err
		}
	}
	return n, nil
}

func (d *decoder) payload(typ Type, depth int) (Tag, error) {
	if depth > d.maxDepth {
		return nil, d.fail(fmt.Sprintf("nesting exceeds %d levels", d.maxDepth))
	}

	switch typ {
	case TypeByte:
		b, err := d.readByte()
		return Byte(b), err
	case TypeShort:
		v, err := d.readUint16()
		return Short(v), err
	case TypeInt:
		v, err := d.readUint32()
		return Int(v), err
	case TypeLong:
		v, err := d.readUint64()
		return Long(v), err
	case TypeFloat:
		v, err := d.readUint32()
		return Float(math.Float32frombits(v)), err
	case TypeDouble:
		v, err := d.readUint64()
		return Double(math.Float64frombits(v)), err
	case TypeByteArray:
		n, err := d.readCount(1)
		if err != nil {
			return nil, err
		}
		v := make(ByteArray, n)
		copy(v, d.data[d.off:])
		d.off += n
		return v, nil
	case TypeString:
		s, err := d.readString()
		return String(s), err
	case TypeIntArray:
		n, err := d.readCount(4)
		if err != nil {
			return nil, err
		}
		v := make(IntArray, n)
		for i := range v {
			u, _ := d.readUint32()
			v[i] = int32(u)
		}
		return v, nil
	case TypeLongArray:
		n, err := d.readCount(8)
		if err != nil {
			return nil, err
		}
		v := make(LongArray, n)
		for i := range v {
			u, _ := d.readUint64()
			v[i] = int64(u)
		}
		return v, nil
	case TypeList:
		elem, err := d.readType()
		if err != nil {
			return nil, err
		}
		// Each list element consumes at least one byte, so the count is
		// bounded by the remaining buffer.
		n, err := d.readCount(1)
		if err != nil {
			return nil, err
		}
		if n > 0 && elem == TypeEnd {
			return nil, d.fail("non-empty list of End")
		}
		l := List{Elem: elem, Items: make([]Tag, 0, n)}
		for i := 0; i < n; i++ {
			item, err := d.payload(elem, depth+1)
			if err != nil {
				return nil, err
			}
			l.Items = append(l.Items, item)
		}
		return l, nil
	case TypeCompound:
		c := NewCompound()
		for {
			et, err := d.readType()
			if err != nil {
				return nil, err
			}
			if et == TypeEnd {
				return c, nil
			}
			name, err := d.readString()
			if err != nil {
				return nil, err
			}
			t, err := d.payload(et, depth+1)
			if err != nil {
				return nil, err
			}
			c.entries = append(c.entries, entry{name, t})
		}
	default:
		return nil, d.fail(fmt.Sprintf("unexpected tag type %s", typ))
	}
}
