package codec

import (
	"encoding/binary"
	"fmt"
)

// FieldKind identifies how a schema field is laid out on disk
type FieldKind uint8

const (
	KindUint32 FieldKind = iota + 1 // 4-byte big-endian unsigned integer
	KindUint8                       // single byte
	KindText                        // fixed-width ASCII, Width bytes, no terminator
	KindBlob                        // 4-byte big-endian length followed by that many bytes
)

// blobLengthSize is the size of the length prefix in front of every blob
const blobLengthSize = 4

func (k FieldKind) String() string {
	switch k {
	case KindUint32:
		return "uint32"
	case KindUint8:
		return "uint8"
	case KindText:
		return "text"
	case KindBlob:
		return "blob"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Field describes one entry of a record schema
type Field struct {
	Name  string
	Kind  FieldKind
	Width int // byte width, KindText only
}

// fixedSize returns the bytes the field occupies regardless of its value.
// For blobs this is the length prefix.
func (f Field) fixedSize() int {
	switch f.Kind {
	case KindUint32:
		return 4
	case KindUint8:
		return 1
	case KindText:
		return f.Width
	case KindBlob:
		return blobLengthSize
	default:
		return 0
	}
}

// Schema is an ordered list of field descriptors. Encode and Decode walk the
// list once, so the writer and the reader share one source of offsets.
//
// Values are passed as []any with one element per field:
// uint32 for KindUint32, uint8 for KindUint8, string for KindText and
// KindBlob.
type Schema struct {
	fields    []Field
	fixedSize int
}

// NewSchema builds a schema from the given fields
func NewSchema(fields ...Field) *Schema {
	s := &Schema{fields: append([]Field(nil), fields...)}
	for _, f := range s.fields {
		if f.Kind == KindText && f.Width <= 0 {
			panic(fmt.Sprintf("codec: text field %q needs a positive width", f.Name))
		}
		s.fixedSize += f.fixedSize()
	}
	return s
}

// Fields returns a copy of the schema's field list
func (s *Schema) Fields() []Field {
	return append([]Field(nil), s.fields...)
}

// FixedSize returns the encoded size of a record whose blobs are all empty
func (s *Schema) FixedSize() int {
	return s.fixedSize
}

// Size returns the encoded length of values, validating their types
func (s *Schema) Size(values []any) (int, error) {
	if len(values) != len(s.fields) {
		return 0, &FormatError{
			Field:  "record",
			Offset: -1,
			Reason: fmt.Sprintf("schema has %d fields, got %d values", len(s.fields), len(values)),
		}
	}

	size := s.fixedSize
	for i, f := range s.fields {
		switch f.Kind {
		case KindUint32:
			if _, ok := values[i].(uint32); !ok {
				return 0, typeError(f, values[i])
			}
		case KindUint8:
			if _, ok := values[i].(uint8); !ok {
				return 0, typeError(f, values[i])
			}
		case KindText:
			v, ok := values[i].(string)
			if !ok {
				return 0, typeError(f, values[i])
			}
			if len(v) != f.Width {
				return 0, &FormatError{
					Field:  f.Name,
					Offset: -1,
					Reason: fmt.Sprintf("text must be exactly %d bytes, got %d", f.Width, len(v)),
				}
			}
		case KindBlob:
			v, ok := values[i].(string)
			if !ok {
				return 0, typeError(f, values[i])
			}
			if uint64(len(v)) > uint64(^uint32(0)) {
				return 0, &FormatError{Field: f.Name, Offset: -1, Reason: "blob longer than 4GiB"}
			}
			size += len(v)
		default:
			return 0, &FormatError{Field: f.Name, Offset: -1, Reason: "unknown field kind " + f.Kind.String()}
		}
	}

	return size, nil
}

// Encode packs values into a freshly allocated byte slice
func (s *Schema) Encode(values []any) ([]byte, error) {
	size, err := s.Size(values)
	if err != nil {
		return nil, err
	}

	buf := make([]byte, size)
	off := 0
	for i, f := range s.fields {
		switch f.Kind {
		case KindUint32:
			binary.BigEndian.PutUint32(buf[off:], values[i].(uint32))
			off += 4
		case KindUint8:
			buf[off] = values[i].(uint8)
			off++
		case KindText:
			off += copy(buf[off:off+f.Width], values[i].(string))
		case KindBlob:
			v := values[i].(string)
			binary.BigEndian.PutUint32(buf[off:], uint32(len(v)))
			off += blobLengthSize
			off += copy(buf[off:], v)
		}
	}

	return buf, nil
}

// Decode reads one record starting at offset and returns its values and the
// number of bytes consumed
func (s *Schema) Decode(data []byte, offset int) ([]any, int, error) {
	if offset < 0 || offset > len(data) {
		return nil, 0, &FormatError{
			Field:  "record",
			Offset: offset,
			Reason: fmt.Sprintf("offset outside buffer of %d bytes", len(data)),
		}
	}

	values := make([]any, len(s.fields))
	off := offset
	for i, f := range s.fields {
		if err := need(data, off, f.fixedSize(), f); err != nil {
			return nil, 0, err
		}

		switch f.Kind {
		case KindUint32:
			values[i] = binary.BigEndian.Uint32(data[off:])
			off += 4
		case KindUint8:
			values[i] = data[off]
			off++
		case KindText:
			values[i] = string(data[off : off+f.Width])
			off += f.Width
		case KindBlob:
			n := binary.BigEndian.Uint32(data[off:])
			off += blobLengthSize
			if uint64(n) > uint64(len(data)-off) {
				return nil, 0, &FormatError{
					Field:  f.Name,
					Offset: off,
					Reason: fmt.Sprintf("declared length %d exceeds %d remaining bytes", n, len(data)-off),
				}
			}
			values[i] = string(data[off : off+int(n)])
			off += int(n)
		default:
			return nil, 0, &FormatError{Field: f.Name, Offset: off, Reason: "unknown field kind " + f.Kind.String()}
		}
	}

	return values, off - offset, nil
}

func need(data []byte, off, n int, f Field) error {
	if len(data)-off < n {
		return &FormatError{
			Field:  f.Name,
			Offset: off,
			Reason: fmt.Sprintf("need %d bytes, %d remaining", n, len(data)-off),
		}
	}
	return nil
}

func typeError(f Field, v any) error {
	return &FormatError{
		Field:  f.Name,
		Offset: -1,
		Reason: fmt.Sprintf("%s field got %T", f.Kind, v),
	}
}
