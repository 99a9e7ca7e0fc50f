// Package nbt implements the binary tag format used to persist chunk data.
//
// The encoding is big-endian throughout. Strings are UTF-8 with a 2-byte
// length prefix. A named tag on the wire is: type byte, name string, payload.
// Compounds are sequences of named tags terminated by an End byte; lists hold
// an element type byte, a 4-byte count, and that many unnamed payloads.
package nbt

import "fmt"

// Type identifies a tag kind on the wire.
type Type byte

// Wire tag types. The set is closed: a type byte outside this range is a
// format error, since the payload length of an unknown kind cannot be
// determined.
const (
	TypeEnd Type = iota
	TypeByte
	TypeShort
	TypeInt
	TypeLong
	TypeFloat
	TypeDouble
	TypeByteArray
	TypeString
	TypeList
	TypeCompound
	TypeIntArray
	TypeLongArray
)

var typeNames = [...]string{
	"End", "Byte", "Short", "Int", "Long", "Float", "Double",
	"ByteArray", "String", "List", "Compound", "IntArray", "LongArray",
}

func (t Type) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return fmt.Sprintf("Unknown(0x%02x)", byte(t))
}

// Tag is a value in the tag tree. The concrete types below are the complete
// set; no other implementations exist.
type Tag interface {
	Type() Type
}

type (
	// Byte is a signed 8-bit integer tag.
	Byte int8
	// Short is a signed 16-bit integer tag.
	Short int16
	// Int is a signed 32-bit integer tag.
	Int int32
	// Long is a signed 64-bit integer tag.
	Long int64
	// Float is an IEEE 754 32-bit float tag.
	Float float32
	// Double is an IEEE 754 64-bit float tag.
	Double float64
	// ByteArray is a length-prefixed raw byte sequence.
	ByteArray []byte
	// String is a length-prefixed UTF-8 string.
	String string
	// IntArray is a length-prefixed sequence of 32-bit integers.
	IntArray []int32
	// LongArray is a length-prefixed sequence of 64-bit integers.
	LongArray []int64
)

func (Byte) Type() Type      { return TypeByte }
func (Short) Type() Type     { return TypeShort }
func (Int) Type() Type       { return TypeInt }
func (Long) Type() Type      { return TypeLong }
func (Float) Type() Type     { return TypeFloat }
func (Double) Type() Type    { return TypeDouble }
func (ByteArray) Type() Type { return TypeByteArray }
func (String) Type() Type    { return TypeString }
func (IntArray) Type() Type  { return TypeIntArray }
func (LongArray) Type() Type { return TypeLongArray }

// List holds unnamed tags that all share one element type. An empty list may
// use TypeEnd as its element type.
type List struct {
	Elem  Type
	Items []Tag
}

func (List) Type() Type { return TypeList }

type entry struct {
	name string
	tag  Tag
}

// Compound maps names to tags. Entry order is preserved so that a decoded
// compound re-encodes to the identical byte sequence.
type Compound struct {
	entries []entry
}

func (*Compound) Type() Type { return TypeCompound }

// NewCompound returns an empty compound.
func NewCompound() *Compound { return &Compound{} }

// Set adds or replaces the named entry. A replaced entry keeps its position.
func (c *Compound) Set(name string, t Tag) *Compound {
	for i := range c.entries {
		if c.entries[i].name == name {
			c.entries[i].tag = t
			return c
		}
	}
	c.entries = append(c.entries, entry{name, t})
	return c
}

// Get returns the named entry.
func (c *Compound) Get(name string) (Tag, bool) {
	for i := range c.entries {
		if c.entries[i].name == name {
			return c.entries[i].tag, true
		}
	}
	return nil, false
}

// Len returns the number of entries.
func (c *Compound) Len() int { return len(c.entries) }

// Range calls fn for each entry in insertion order until fn returns false.
func (c *Compound) Range(fn func(name string, t Tag) bool) {
	for i := range c.entries {
		if !fn(c.entries[i].name, c.entries[i].tag) {
			return
		}
	}
}

// Typed accessors. Each returns the zero value and false when the entry is
// missing or holds a different kind.

func (c *Compound) Byte(name string) (int8, bool) {
	if t, ok := c.Get(name); ok {
		if v, ok := t.(Byte); ok {
			return int8(v), true
		}
	}
	return 0, false
}

func (c *Compound) Int(name string) (int32, bool) {
	if t, ok := c.Get(name); ok {
		if v, ok := t.(Int); ok {
			return int32(v), true
		}
	}
	return 0, false
}

func (c *Compound) Long(name string) (int64, bool) {
	if t, ok := c.Get(name); ok {
		if v, ok := t.(Long); ok {
			return int64(v), true
		}
	}
	return 0, false
}

func (c *Compound) String(name string) (string, bool) {
	if t, ok := c.Get(name); ok {
		if v, ok := t.(String); ok {
			return string(v), true
		}
	}
	return "", false
}

func (c *Compound) ByteArray(name string) (ByteArray, bool) {
	if t, ok := c.Get(name); ok {
		if v, ok := t.(ByteArray); ok {
			return v, true
		}
	}
	return nil, false
}

func (c *Compound) IntArray(name string) (IntArray, bool) {
	if t, ok := c.Get(name); ok {
		if v, ok := t.(IntArray); ok {
			return v, true
		}
	}
	return nil, false
}

func (c *Compound) LongArray(name string) (LongArray, bool) {
	if t, ok := c.Get(name); ok {
		if v, ok := t.(LongArray); ok {
			return v, true
		}
	}
	return nil, false
}

func (c *Compound) List(name string) (List, bool) {
	if t, ok := c.Get(name); ok {
		if v, ok := t.(List); ok {
			return v, true
		}
	}
	return List{}, false
}

func (c *Compound) Compound(name string) (*Compound, bool) {
	if t, ok := c.Get(name); ok {
		if v, ok := t.(*Compound); ok {
			return v, true
		}
	}
	return nil, false
}

// FormatError reports a malformed tag stream.
type FormatError struct {
	Offset int
	Msg    string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("nbt: %s at offset %d", e.Msg, e.Offset)
}
