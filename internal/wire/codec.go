package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// ErrInvalidArgType is returned by Encode when an argument is not one of int32,
// float32, string, or []byte (spec.md §7 "Wire errors: encoding invalid argument
// types").
var ErrInvalidArgType = errors.New("wire: invalid argument type")

// ErrTruncated is returned by Decode when data ends before a well-formed
// message/bundle has been consumed.
var ErrTruncated = errors.New("wire: truncated message")

// EncodeMessage serializes msg into its OSC-shaped byte form: padded address, padded
// type-tag string, then each argument in its wire encoding (spec.md §4.8/§6). The
// guarded-byte-writer shape here (bytes.Buffer + explicit padding helpers) is adapted
// from the teacher's offline.go:EncodeWAVFloat32LE, a from-scratch length-prefixed
// binary writer with no ecosystem codec available to replace it.
func EncodeMessage(msg *Message) ([]byte, error) {
	var buf bytes.Buffer
	writePaddedString(&buf, msg.Address)

	tags := make([]byte, 0, len(msg.Args)+1)
	tags = append(tags, ',')
	for _, a := range msg.Args {
		tag, err := typeTag(a)
		if err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	writePaddedString(&buf, string(tags))

	for _, a := range msg.Args {
		if err := writeArg(&buf, a); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

// EncodeBundle serializes b: the fixed "#bundle\0" marker, the 64-bit timetag, then
// each element length-prefixed (spec.md §6).
func EncodeBundle(b *Bundle) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(bundleTag)
	var tt [8]byte
	binary.BigEndian.PutUint64(tt[:], b.TimeTag)
	buf.Write(tt[:])

	for _, el := range b.Elements {
		encoded, err := EncodeElement(el)
		if err != nil {
			return nil, err
		}
		var size [4]byte
		binary.BigEndian.PutUint32(size[:], uint32(len(encoded)))
		buf.Write(size[:])
		buf.Write(encoded)
	}
	return buf.Bytes(), nil
}

// EncodeElement dispatches to EncodeMessage or EncodeBundle by dynamic type.
func EncodeElement(el Element) ([]byte, error) {
	switch v := el.(type) {
	case *Message:
		return EncodeMessage(v)
	case *Bundle:
		return EncodeBundle(v)
	default:
		return nil, fmt.Errorf("%w: unknown element type %T", ErrInvalidArgType, el)
	}
}

// Decode parses data as either a Message or a Bundle, dispatching on the fixed
// "#bundle\0" prefix OSC itself uses to distinguish the two (spec.md §6).
func Decode(data []byte) (Element, error) {
	if len(data) >= 8 && string(data[:8]) == bundleTag {
		return decodeBundle(data)
	}
	return decodeMessage(data)
}

func decodeMessage(data []byte) (*Message, error) {
	c := &cursor{data: data}
	address, err := c.readPaddedString()
	if err != nil {
		return nil, err
	}
	tagStr, err := c.readPaddedString()
	if err != nil {
		return nil, err
	}
	if len(tagStr) == 0 || tagStr[0] != ',' {
		return nil, fmt.Errorf("%w: missing type tag", ErrTruncated)
	}
	tags := tagStr[1:]
	args := make([]interface{}, 0, len(tags))
	for _, tag := range []byte(tags) {
		arg, err := c.readArg(tag)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	return &Message{Address: address, Args: args}, nil
}

func decodeBundle(data []byte) (*Bundle, error) {
	if len(data) < 16 {
		return nil, fmt.Errorf("%w: bundle header", ErrTruncated)
	}
	b := &Bundle{TimeTag: binary.BigEndian.Uint64(data[8:16])}
	rest := data[16:]
	for len(rest) > 0 {
		if len(rest) < 4 {
			return nil, fmt.Errorf("%w: bundle element size", ErrTruncated)
		}
		size := binary.BigEndian.Uint32(rest[:4])
		rest = rest[4:]
		if uint32(len(rest)) < size {
			return nil, fmt.Errorf("%w: bundle element body", ErrTruncated)
		}
		el, err := Decode(rest[:size])
		if err != nil {
			return nil, err
		}
		b.Elements = append(b.Elements, el)
		rest = rest[size:]
	}
	return b, nil
}

func typeTag(a interface{}) (byte, error) {
	switch a.(type) {
	case int32:
		return 'i', nil
	case float32:
		return 'f', nil
	case string:
		return 's', nil
	case []byte:
		return 'b', nil
	default:
		return 0, fmt.Errorf("%w: %T", ErrInvalidArgType, a)
	}
}

func writeArg(buf *bytes.Buffer, a interface{}) error {
	switch v := a.(type) {
	case int32:
		var b [4]byte
		binary.BigEndian.PutUint32(b[:], uint32(v))
		buf.Write(b[:])
	case float32:
		var b [4]byte
		binary.BigEndian.PutUint32(b[:], math.Float32bits(v))
		buf.Write(b[:])
	case string:
		writePaddedString(buf, v)
	case []byte:
		var size [4]byte
		binary.BigEndian.PutUint32(size[:], uint32(len(v)))
		buf.Write(size[:])
		buf.Write(v)
		writePadding(buf, len(v))
	default:
		return fmt.Errorf("%w: %T", ErrInvalidArgType, a)
	}
	return nil
}

// writePaddedString writes s null-terminated and zero-padded to the next 4-byte
// boundary (OSC string encoding).
func writePaddedString(buf *bytes.Buffer, s string) {
	buf.WriteString(s)
	buf.WriteByte(0)
	writePadding(buf, len(s)+1)
}

// writePadding appends zero bytes until the buffer's logical write count (n bytes
// already written for the field in progress) reaches a 4-byte boundary.
func writePadding(buf *bytes.Buffer, n int) {
	for pad := (4 - n%4) % 4; pad > 0; pad-- {
		buf.WriteByte(0)
	}
}

// cursor is a position-tracked reader over an OSC byte stream, reading raw bytes and
// parsing arguments as it walks — the shape of internal/mml/parser.go's
// position-tracked, per-character tokenizer, applied to a binary format's type-tag
// string instead of an MML command string.
type cursor struct {
	data []byte
	pos  int
}

func (c *cursor) readPaddedString() (string, error) {
	start := c.pos
	for c.pos < len(c.data) && c.data[c.pos] != 0 {
		c.pos++
	}
	if c.pos >= len(c.data) {
		return "", fmt.Errorf("%w: unterminated string", ErrTruncated)
	}
	s := string(c.data[start:c.pos])
	c.pos++ // consume the null terminator
	for (c.pos-start)%4 != 0 {
		if c.pos >= len(c.data) {
			return "", fmt.Errorf("%w: string padding", ErrTruncated)
		}
		c.pos++
	}
	return s, nil
}

func (c *cursor) readArg(tag byte) (interface{}, error) {
	switch tag {
	case 'i':
		v, err := c.readU32()
		if err != nil {
			return nil, err
		}
		return int32(v), nil
	case 'f':
		v, err := c.readU32()
		if err != nil {
			return nil, err
		}
		return math.Float32frombits(v), nil
	case 's':
		return c.readPaddedString()
	case 'b':
		size, err := c.readU32()
		if err != nil {
			return nil, err
		}
		if c.pos+int(size) > len(c.data) {
			return nil, fmt.Errorf("%w: blob body", ErrTruncated)
		}
		blob := append([]byte(nil), c.data[c.pos:c.pos+int(size)]...)
		c.pos += int(size)
		pad := (4 - int(size)%4) % 4
		if c.pos+pad > len(c.data) {
			return nil, fmt.Errorf("%w: blob padding", ErrTruncated)
		}
		c.pos += pad
		return blob, nil
	default:
		return nil, fmt.Errorf("%w: unknown type tag %q", ErrInvalidArgType, tag)
	}
}

func (c *cursor) readU32() (uint32, error) {
	if c.pos+4 > len(c.data) {
		return 0, fmt.Errorf("%w: int32/float32", ErrTruncated)
	}
	v := binary.BigEndian.Uint32(c.data[c.pos : c.pos+4])
	c.pos += 4
	return v, nil
}
