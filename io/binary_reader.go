package io

import (
	"bytes"
	"encoding/binary"
	"io"
	"reflect"

	"github.com/r3e-network/neogo-sdk/neoerr"
)

// MaxArraySize bounds how many elements ReadArray will allocate for,
// guarding against a maliciously large length prefix driving an
// out-of-memory allocation before any byte of the elements is read.
const MaxArraySize = 65536

// BinReader consumes bytes for a Serializable's wire form. Like
// BinWriter, the first error is sticky and every Read* call becomes a
// no-op (returning the zero value) once Err is set, so a decoder can
// read a whole structure and check Err once at the end.
type BinReader struct {
	r   io.Reader
	buf [8]byte
	Err error
}

// NewBinReaderFromIO wraps an existing io.Reader.
func NewBinReaderFromIO(r io.Reader) *BinReader {
	return &BinReader{r: r}
}

// NewBinReaderFromBuf wraps an in-memory byte slice.
func NewBinReaderFromBuf(b []byte) *BinReader {
	return NewBinReaderFromIO(bytes.NewReader(b))
}

func (r *BinReader) readBytes(p []byte) {
	if r.Err != nil {
		return
	}
	if _, err := io.ReadFull(r.r, p); err != nil {
		r.Err = neoerr.Wrap(neoerr.DeserializationError, "unexpected end of data", err)
	}
}

// ReadBytes reads exactly len(p) bytes into p.
func (r *BinReader) ReadBytes(p []byte) {
	r.readBytes(p)
}

// ReadB reads a single byte.
func (r *BinReader) ReadB() byte {
	r.readBytes(r.buf[:1])
	return r.buf[0]
}

// ReadBool reads a byte and reports whether it is non-zero.
func (r *BinReader) ReadBool() bool {
	return r.ReadB() != 0
}

// ReadU16LE reads a little-endian uint16.
func (r *BinReader) ReadU16LE() uint16 {
	r.readBytes(r.buf[:2])
	return binary.LittleEndian.Uint16(r.buf[:2])
}

// ReadU16BE reads a big-endian uint16.
func (r *BinReader) ReadU16BE() uint16 {
	r.readBytes(r.buf[:2])
	return binary.BigEndian.Uint16(r.buf[:2])
}

// ReadU32LE reads a little-endian uint32.
func (r *BinReader) ReadU32LE() uint32 {
	r.readBytes(r.buf[:4])
	return binary.LittleEndian.Uint32(r.buf[:4])
}

// ReadU64LE reads a little-endian uint64.
func (r *BinReader) ReadU64LE() uint64 {
	r.readBytes(r.buf[:8])
	return binary.LittleEndian.Uint64(r.buf[:8])
}

// ReadI64LE reads a little-endian int64.
func (r *BinReader) ReadI64LE() int64 {
	return int64(r.ReadU64LE())
}

// ReadI32LE reads a little-endian int32.
func (r *BinReader) ReadI32LE() int32 {
	return int32(r.ReadU32LE())
}

// ReadVarUint reads Neo's canonical var-int encoding (spec.md §4.6),
// rejecting non-canonical encodings such as 0xFD 0x01 0x00 (a value
// that fits in a single byte but was encoded with the 3-byte form).
func (r *BinReader) ReadVarUint() uint64 {
	if r.Err != nil {
		return 0
	}
	b := r.ReadB()
	switch b {
	case 0xfd:
		v := uint64(r.ReadU16LE())
		if r.Err == nil && v < 0xfd {
			r.Err = neoerr.New(neoerr.DeserializationError, "non-canonical var-int encoding")
		}
		return v
	case 0xfe:
		v := uint64(r.ReadU32LE())
		if r.Err == nil && v <= 0xffff {
			r.Err = neoerr.New(neoerr.DeserializationError, "non-canonical var-int encoding")
		}
		return v
	case 0xff:
		v := r.ReadU64LE()
		if r.Err == nil && v <= 0xffffffff {
			r.Err = neoerr.New(neoerr.DeserializationError, "non-canonical var-int encoding")
		}
		return v
	default:
		return uint64(b)
	}
}

// ReadVarBytes reads var-int(len) followed by len bytes. An optional
// maxSize caps the accepted length, rejecting an oversized prefix
// before attempting to read that many bytes.
func (r *BinReader) ReadVarBytes(maxSize ...int) []byte {
	n := r.ReadVarUint()
	if r.Err != nil {
		return nil
	}
	limit := uint64(MaxArraySize)
	if len(maxSize) > 0 {
		limit = uint64(maxSize[0])
	}
	if n > limit {
		r.Err = neoerr.New(neoerr.DeserializationError, "var-bytes length exceeds limit")
		return nil
	}
	b := make([]byte, n)
	r.readBytes(b)
	if r.Err != nil {
		return nil
	}
	return b
}

// ReadVarString reads a var-bytes value and interprets it as UTF-8.
func (r *BinReader) ReadVarString(maxSize ...int) string {
	return string(r.ReadVarBytes(maxSize...))
}

// ReadArray reads a var-int count followed by that many elements into
// *arr, which must be a pointer to a slice of a type implementing
// Serializable (by value or by pointer).
func (r *BinReader) ReadArray(arr interface{}, maxSize ...int) {
	ptr := reflect.ValueOf(arr)
	if ptr.Kind() != reflect.Ptr || ptr.Elem().Kind() != reflect.Slice {
		panic("ReadArray: expected a pointer to a slice")
	}
	sliceVal := ptr.Elem()
	elemType := sliceVal.Type().Elem()

	n := r.ReadVarUint()
	if r.Err != nil {
		return
	}
	limit := uint64(MaxArraySize)
	if len(maxSize) > 0 {
		limit = uint64(maxSize[0])
	}
	if n > limit {
		r.Err = neoerr.New(neoerr.DeserializationError, "array length exceeds limit")
		return
	}

	out := reflect.MakeSlice(sliceVal.Type(), int(n), int(n))
	for i := 0; i < int(n); i++ {
		elPtr := reflect.New(dereferencedType(elemType))
		s, ok := elPtr.Interface().(Serializable)
		if !ok {
			panic("ReadArray: element does not implement Serializable")
		}
		s.DecodeBinary(r)
		if r.Err != nil {
			return
		}
		if elemType.Kind() == reflect.Ptr {
			out.Index(i).Set(elPtr)
		} else {
			out.Index(i).Set(elPtr.Elem())
		}
	}
	sliceVal.Set(out)
}

func dereferencedType(t reflect.Type) reflect.Type {
	if t.Kind() == reflect.Ptr {
		return t.Elem()
	}
	return t
}
