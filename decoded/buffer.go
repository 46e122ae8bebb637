package decoded

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"honnef.co/go/safeish"
)

// ErrUnsupportedBuffer is returned when a buffer attribute cannot be viewed
// with the requested element type.
var ErrUnsupportedBuffer = errors.New("decoded: unsupported buffer")

// ElementType is the element encoding of a buffer attribute.
type ElementType uint8

const (
	Float32 ElementType = iota
	Uint8
	Uint16
	Uint32
	Int8
	Int16
	Int32
)

var elementTypeNames = map[string]ElementType{
	"float": Float32,
	"uint8": Uint8, "uint16": Uint16, "uint32": Uint32,
	"int8": Int8, "int16": Int16, "int32": Int32,
}

// Size returns the element size in bytes.
func (t ElementType) Size() int {
	switch t {
	case Uint8, Int8:
		return 1
	case Uint16, Int16:
		return 2
	default:
		return 4
	}
}

// BufferAttribute is a typed, little-endian view description over raw
// bytes. ItemCount is the number of components per vertex.
type BufferAttribute struct {
	Name       string
	Type       ElementType
	ItemCount  int
	Normalized bool
	Buffer     []byte
}

// Len returns the number of elements in the buffer.
func (b *BufferAttribute) Len() int {
	return len(b.Buffer) / b.Type.Size()
}

// Count returns the number of items (vertices) in the buffer.
func (b *BufferAttribute) Count() int {
	if b.ItemCount <= 0 {
		return b.Len()
	}
	return b.Len() / b.ItemCount
}

// Float32s copies the buffer into a float32 slice. Only Float32 buffers
// are supported.
func (b *BufferAttribute) Float32s() ([]float32, error) {
	if b.Type != Float32 || len(b.Buffer)%4 != 0 {
		return nil, fmt.Errorf("%w: %q as float32", ErrUnsupportedBuffer, b.Name)
	}
	out := make([]float32, len(b.Buffer)/4)
	copy(safeish.SliceCast[[]byte](out), b.Buffer)
	return out, nil
}

// Uint32s widens an unsigned integer buffer to uint32, the form index
// buffers take on the GPU.
func (b *BufferAttribute) Uint32s() ([]uint32, error) {
	switch b.Type {
	case Uint8:
		out := make([]uint32, len(b.Buffer))
		for i, v := range b.Buffer {
			out[i] = uint32(v)
		}
		return out, nil
	case Uint16:
		if len(b.Buffer)%2 != 0 {
			break
		}
		out := make([]uint32, len(b.Buffer)/2)
		for i := range out {
			out[i] = uint32(binary.LittleEndian.Uint16(b.Buffer[2*i:]))
		}
		return out, nil
	case Uint32:
		if len(b.Buffer)%4 != 0 {
			break
		}
		out := make([]uint32, len(b.Buffer)/4)
		copy(safeish.SliceCast[[]byte](out), b.Buffer)
		return out, nil
	}
	return nil, fmt.Errorf("%w: %q as uint32", ErrUnsupportedBuffer, b.Name)
}

// Float64s returns every element as float64 regardless of type, applying
// normalization for integer types when Normalized is set.
func (b *BufferAttribute) Float64s() ([]float64, error) {
	n := b.Len()
	out := make([]float64, n)
	size := b.Type.Size()
	if len(b.Buffer)%size != 0 {
		return nil, fmt.Errorf("%w: %q has %d trailing bytes", ErrUnsupportedBuffer, b.Name, len(b.Buffer)%size)
	}
	for i := range n {
		p := b.Buffer[i*size:]
		var v, scale float64
		switch b.Type {
		case Float32:
			v = float64(math.Float32frombits(binary.LittleEndian.Uint32(p)))
			scale = 1
		case Uint8:
			v, scale = float64(p[0]), math.MaxUint8
		case Uint16:
			v, scale = float64(binary.LittleEndian.Uint16(p)), math.MaxUint16
		case Uint32:
			v, scale = float64(binary.LittleEndian.Uint32(p)), math.MaxUint32
		case Int8:
			v, scale = float64(int8(p[0])), math.MaxInt8
		case Int16:
			v, scale = float64(int16(binary.LittleEndian.Uint16(p))), math.MaxInt16
		case Int32:
			v, scale = float64(int32(binary.LittleEndian.Uint32(p))), math.MaxInt32
		default:
			return nil, fmt.Errorf("%w: %q element type %d", ErrUnsupportedBuffer, b.Name, b.Type)
		}
		if b.Normalized && b.Type != Float32 {
			v /= scale
		}
		out[i] = v
	}
	return out, nil
}

// NewFloat32Attribute builds a Float32 attribute from values.
func NewFloat32Attribute(name string, itemCount int, values []float32) BufferAttribute {
	buf := make([]byte, len(values)*4)
	copy(buf, safeish.SliceCast[[]byte](values))
	return BufferAttribute{Name: name, Type: Float32, ItemCount: itemCount, Buffer: buf}
}

// NewUint32Attribute builds a Uint32 attribute from values, typically an
// index buffer.
func NewUint32Attribute(name string, values []uint32) BufferAttribute {
	buf := make([]byte, len(values)*4)
	copy(buf, safeish.SliceCast[[]byte](values))
	return BufferAttribute{Name: name, Type: Uint32, ItemCount: 1, Buffer: buf}
}

// encodeValues packs numbers into a little-endian buffer of type t.
func encodeValues(t ElementType, values []float64) []byte {
	size := t.Size()
	buf := make([]byte, len(values)*size)
	for i, v := range values {
		p := buf[i*size:]
		switch t {
		case Float32:
			binary.LittleEndian.PutUint32(p, math.Float32bits(float32(v)))
		case Uint8, Int8:
			p[0] = byte(int64(v))
		case Uint16, Int16:
			binary.LittleEndian.PutUint16(p, uint16(int64(v)))
		case Uint32, Int32:
			binary.LittleEndian.PutUint32(p, uint32(int64(v)))
		}
	}
	return buf
}
