package compiler

import (
	"bytes"
	"encoding/binary"
	"math"

	"github.com/cbegin/scgo/internal/graph"
)

// scgfMagic and scgfVersion are the fixed SCgf file header fields (spec.md §4.6).
var scgfMagic = [4]byte{'S', 'C', 'g', 'f'}

const scgfVersion = 2

// Encode serializes defs into the SCgf binary format (spec.md §4.6, §6): big-endian
// throughout, Pascal-style (single-byte length prefix) strings. The byte-pushing shape
// here — a bytes.Buffer plus binary.Write/PutUint* calls walking a typed structure in
// order — is adapted from the teacher's internal/audio/stream.go StreamReader, which
// does the same thing little-endian for a raw PCM stream instead of big-endian for a
// graph description.
func Encode(defs ...*graph.SynthDef) []byte {
	var buf bytes.Buffer
	buf.Write(scgfMagic[:])
	writeU32(&buf, scgfVersion)
	writeU16(&buf, uint16(len(defs)))
	for _, d := range defs {
		writeSynthDef(&buf, d)
	}
	return buf.Bytes()
}

func writeSynthDef(buf *bytes.Buffer, d *graph.SynthDef) {
	writePString(buf, d.Name)

	writeU32(buf, uint32(len(d.Constants)))
	for _, c := range d.Constants {
		writeF32(buf, c)
	}

	values := d.ParameterValues()
	writeU32(buf, uint32(len(values)))
	for _, v := range values {
		writeF32(buf, v)
	}

	nameIndex := d.ParameterNameIndex()
	writeU32(buf, uint32(len(nameIndex)))
	for _, ni := range nameIndex {
		writePString(buf, ni.Name)
		writeU32(buf, uint32(ni.Index))
	}

	writeU32(buf, uint32(len(d.UGens)))
	index := make(map[*graph.UGen]int, len(d.UGens))
	for i, u := range d.UGens {
		index[u] = i
	}
	for _, u := range d.UGens {
		writeUGen(buf, u, index)
	}

	writeU16(buf, 0) // variant count, always 0 for this core (spec.md §4.6)
}

func writeUGen(buf *bytes.Buffer, u *graph.UGen, index map[*graph.UGen]int) {
	writePString(buf, u.Name)
	buf.WriteByte(u.Rate.Byte())
	writeU32(buf, uint32(len(u.Inputs)))
	writeU32(buf, uint32(u.NumOutputs))
	writeU16(buf, uint16(u.SpecialIndex))
	for _, in := range u.Inputs {
		op := in.(*graph.OutputProxy) // internConstants has already rewritten every ConstantProxy
		if op.UGen == nil {
			writeI32(buf, -1)
			writeU32(buf, uint32(op.OutputIndex))
			continue
		}
		writeI32(buf, int32(index[op.UGen]))
		writeU32(buf, uint32(op.OutputIndex))
	}
	for _, r := range u.OutputRates {
		buf.WriteByte(r.Byte())
	}
}

func writePString(buf *bytes.Buffer, s string) {
	buf.WriteByte(byte(len(s)))
	buf.WriteString(s)
}

func writeU16(buf *bytes.Buffer, v uint16) {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	buf.Write(b[:])
}

func writeU32(buf *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	buf.Write(b[:])
}

func writeI32(buf *bytes.Buffer, v int32) {
	writeU32(buf, uint32(v))
}

func writeF32(buf *bytes.Buffer, v float32) {
	writeU32(buf, math.Float32bits(v))
}
