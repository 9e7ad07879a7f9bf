// Package io implements Neo's binary wire format: little-endian fixed
// widths plus the canonical var-int/var-bytes/var-string encodings that
// every consensus-significant structure in this SDK serializes through.
package io

import (
	"bytes"
	"encoding/binary"
	"io"
	"reflect"

	"github.com/r3e-network/neogo-sdk/neoerr"
)

// Serializable is implemented by every type with a canonical binary
// form (signers, witnesses, attributes, transactions, ...).
type Serializable interface {
	EncodeBinary(w *BinWriter)
	DecodeBinary(r *BinReader)
}

// BinWriter accumulates bytes for a Serializable's wire form. The first
// error encountered by any Write* call is sticky: subsequent calls
// become no-ops so callers can write a whole structure and check
// Err/Error once at the end, matching the teacher's accumulate-then-
// check pattern.
type BinWriter struct {
	w   io.Writer
	buf [8]byte
	Err error
}

// NewBinWriterFromIO wraps an existing io.Writer.
func NewBinWriterFromIO(w io.Writer) *BinWriter {
	return &BinWriter{w: w}
}

// NewBufBinWriter returns a BinWriter backed by an in-memory buffer,
// whose contents are retrieved with Bytes().
func NewBufBinWriter() *BinWriter {
	return NewBinWriterFromIO(new(bytes.Buffer))
}

// Error returns the first error this writer encountered, or nil.
func (w *BinWriter) Error() error {
	return w.Err
}

// Bytes returns the accumulated bytes. Valid only when the writer was
// constructed with NewBufBinWriter.
func (w *BinWriter) Bytes() []byte {
	if bw, ok := w.w.(*bytes.Buffer); ok {
		return bw.Bytes()
	}
	return nil
}

func (w *BinWriter) writeBytes(p []byte) {
	if w.Err != nil {
		return
	}
	if _, err := w.w.Write(p); err != nil {
		w.Err = neoerr.Wrap(neoerr.DeserializationError, "write failed", err)
	}
}

// WriteBytes writes p verbatim, with no length prefix.
func (w *BinWriter) WriteBytes(p []byte) {
	w.writeBytes(p)
}

// WriteB writes a single byte.
func (w *BinWriter) WriteB(v byte) {
	w.buf[0] = v
	w.writeBytes(w.buf[:1])
}

// WriteBool writes a byte: 0x01 for true, 0x00 for false.
func (w *BinWriter) WriteBool(b bool) {
	if b {
		w.WriteB(1)
	} else {
		w.WriteB(0)
	}
}

// WriteU16LE writes v little-endian.
func (w *BinWriter) WriteU16LE(v uint16) {
	binary.LittleEndian.PutUint16(w.buf[:2], v)
	w.writeBytes(w.buf[:2])
}

// WriteU16BE writes v big-endian.
func (w *BinWriter) WriteU16BE(v uint16) {
	binary.BigEndian.PutUint16(w.buf[:2], v)
	w.writeBytes(w.buf[:2])
}

// WriteU32LE writes v little-endian.
func (w *BinWriter) WriteU32LE(v uint32) {
	binary.LittleEndian.PutUint32(w.buf[:4], v)
	w.writeBytes(w.buf[:4])
}

// WriteU64LE writes v little-endian.
func (w *BinWriter) WriteU64LE(v uint64) {
	binary.LittleEndian.PutUint64(w.buf[:8], v)
	w.writeBytes(w.buf[:8])
}

// WriteI64LE writes v little-endian.
func (w *BinWriter) WriteI64LE(v int64) {
	w.WriteU64LE(uint64(v))
}

// WriteI32LE writes v little-endian.
func (w *BinWriter) WriteI32LE(v int32) {
	w.WriteU32LE(uint32(v))
}

// WriteVarUint writes v using Neo's canonical var-int encoding
// (spec.md §4.6).
func (w *BinWriter) WriteVarUint(v uint64) {
	switch {
	case v < 0xfd:
		w.WriteB(byte(v))
	case v <= 0xffff:
		w.WriteB(0xfd)
		w.WriteU16LE(uint16(v))
	case v <= 0xffffffff:
		w.WriteB(0xfe)
		w.WriteU32LE(uint32(v))
	default:
		w.WriteB(0xff)
		w.WriteU64LE(v)
	}
}

// WriteVarBytes writes var-int(len(b)) followed by b.
func (w *BinWriter) WriteVarBytes(b []byte) {
	w.WriteVarUint(uint64(len(b)))
	w.writeBytes(b)
}

// WriteVarString writes s as var-bytes of its UTF-8 encoding.
func (w *BinWriter) WriteVarString(s string) {
	w.WriteVarBytes([]byte(s))
}

// WriteArray writes var-int(len(arr)) followed by each element's
// EncodeBinary. arr must be a slice or array of a type implementing
// Serializable (by value or by pointer); any other kind panics, as
// this indicates a programming error rather than bad input.
func (w *BinWriter) WriteArray(arr interface{}) {
	v := reflect.ValueOf(arr)
	switch v.Kind() {
	case reflect.Slice, reflect.Array:
	default:
		panic("WriteArray: not a slice or array")
	}
	w.WriteVarUint(uint64(v.Len()))
	for i := 0; i < v.Len(); i++ {
		el := v.Index(i).Interface()
		s, ok := el.(Serializable)
		if !ok {
			panic("WriteArray: element does not implement Serializable")
		}
		s.EncodeBinary(w)
		if w.Err != nil {
			return
		}
	}
}
