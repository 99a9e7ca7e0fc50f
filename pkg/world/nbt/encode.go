package nbt

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Marshal encodes a named root tag. Encoding is deterministic: the same tag
// tree always produces identical bytes, since compounds keep entry order.
func Marshal(name string, t Tag) ([]byte, error) {
	e := &encoder{}
	e.putByte(byte(t.Type()))
	if err := e.putString(name); err != nil {
		return nil, err
	}
	if err := e.payload(t); err != nil {
		return nil, err
	}
	return e.buf, nil
}

type encoder struct {
	buf []byte
}

func (e *encoder) putByte(v byte) { e.buf = append(e.buf, v) }

func (e *encoder) putUint16(v uint16) {
	e.buf = binary.BigEndian.AppendUint16(e.buf, v)
}

func (e *encoder) putUint32(v uint32) {
	e.buf = binary.BigEndian.AppendUint32(e.buf, v)
}

func (e *encoder) putUint64(v uint64) {
	e.buf = binary.BigEndian.AppendUint64(e.buf, v)
}

func (e *encoder) putString(s string) error {
	if len(s) > math.MaxUint16 {
		return fmt.Errorf("nbt: string of %d bytes exceeds the 2-byte length prefix", len(s))
	}
	e.putUint16(uint16(len(s)))
	e.buf = append(e.buf, s...)
	return nil
}

func (e *encoder) payload(t Tag) error {
	switch v := t.(type) {
	case Byte:
		e.putByte(byte(v))
	case Short:
		e.putUint16(uint16(v))
	case Int:
		e.putUint32(uint32(v))
	case Long:
		e.putUint64(uint64(v))
	case Float:
		e.putUint32(math.Float32bits(float32(v)))
	case Double:
		e.putUint64(math.Float64bits(float64(v)))
	case ByteArray:
		e.putUint32(uint32(len(v)))
		e.buf = append(e.buf, v...)
	case String:
		if err := e.putString(string(v)); err != nil {
			return err
		}
	case IntArray:
		e.putUint32(uint32(len(v)))
		for _, n := range v {
			e.putUint32(uint32(n))
		}
	case LongArray:
		e.putUint32(uint32(len(v)))
		for _, n := range v {
			e.putUint64(uint64(n))
		}
	case List:
		e.putByte(byte(v.Elem))
		e.putUint32(uint32(len(v.Items)))
		for _, item := range v.Items {
			if item.Type() != v.Elem {
				return fmt.Errorf("nbt: list of %s holds %s element", v.Elem, item.Type())
			}
			if err := e.payload(item); err != nil {
				return err
			}
		}
	case *Compound:
		for i := range v.entries {
			ent := &v.entries[i]
			e.putByte(byte(ent.tag.Type()))
			if err := e.putString(ent.name); err != nil {
				return err
			}
			if err := e.payload(ent.tag); err != nil {
				return err
			}
		}
		e.putByte(byte(TypeEnd))
	default:
		return fmt.Errorf("nbt: cannot encode %T", t)
	}
	return nil
}
