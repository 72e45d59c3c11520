package trace

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"pwlsynth/app/regs"
)

const fileVersion = 1

var fileMagic = [4]byte{'P', 'W', 'L', 'T'}

// Header is the fixed size header at the start of a trace file. All fields
// are big endian.
type Header struct {
	MagicID [4]byte
	Version uint16
	Variant uint16
	Count   uint32
}

// ChipVariant returns the chip variant the trace was recorded against.
func (h Header) ChipVariant() regs.Variant {
	return regs.Variant(h.Variant)
}

// record is the on-disk form of an Op
type record struct {
	Kind  uint8
	Addr  uint8
	Value uint16
}

// Save writes ops to w as a trace file.
func Save(w io.Writer, variant regs.Variant, ops []Op) error {
	h := Header{
		MagicID: fileMagic,
		Version: fileVersion,
		Variant: uint16(variant),
		Count:   uint32(len(ops)),
	}
	if err := binary.Write(w, binary.BigEndian, h); err != nil {
		return fmt.Errorf("trace: %w", err)
	}

	recs := make([]record, len(ops))
	for i, op := range ops {
		recs[i] = record{Kind: uint8(op.Kind), Addr: op.Addr, Value: op.Value}
	}
	if err := binary.Write(w, binary.BigEndian, recs); err != nil {
		return fmt.Errorf("trace: %w", err)
	}
	return nil
}

// Load reads a trace file written by Save.
func Load(r io.Reader) (Header, []Op, error) {
	var h Header
	if err := binary.Read(r, binary.BigEndian, &h); err != nil {
		return h, nil, fmt.Errorf("trace: %w", err)
	}
	if h.MagicID != fileMagic {
		return h, nil, errors.New("trace: not a valid trace file")
	}
	if h.Version != fileVersion {
		return h, nil, errors.New("trace: unsupported trace version")
	}

	ops := make([]Op, 0, min(h.Count, 1<<16))
	for i := uint32(0); i < h.Count; i++ {
		var rec record
		if err := binary.Read(r, binary.BigEndian, &rec); err != nil {
			return h, nil, fmt.Errorf("trace: record %d: %w", i, err)
		}
		ops = append(ops, Op{Kind: Kind(rec.Kind), Addr: rec.Addr, Value: rec.Value})
	}
	return h, ops, nil
}
