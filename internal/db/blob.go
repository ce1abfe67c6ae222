package db

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Images are stored as little-endian float32: pixel values live in [0, 1]
// and do not need double precision. Labels keep float64 so reloaded
// control points match the exported .npy files exactly.

func encodeImageBlob(pix []float64) []byte {
	blob := make([]byte, 4*len(pix))
	for i, v := range pix {
		binary.LittleEndian.PutUint32(blob[4*i:], math.Float32bits(float32(v)))
	}
	return blob
}

func decodeImageBlob(blob []byte) ([]float64, error) {
	if len(blob)%4 != 0 {
		return nil, fmt.Errorf("image blob length %d is not a multiple of 4", len(blob))
	}
	pix := make([]float64, len(blob)/4)
	for i := range pix {
		pix[i] = float64(math.Float32frombits(binary.LittleEndian.Uint32(blob[4*i:])))
	}
	return pix, nil
}

func encodeLabelBlob(label []float64) []byte {
	blob := make([]byte, 8*len(label))
	for i, v := range label {
		binary.LittleEndian.PutUint64(blob[8*i:], math.Float64bits(v))
	}
	return blob
}

func decodeLabelBlob(blob []byte) ([]float64, error) {
	if len(blob)%8 != 0 {
		return nil, fmt.Errorf("label blob length %d is not a multiple of 8", len(blob))
	}
	label := make([]float64, len(blob)/8)
	for i := range label {
		label[i] = math.Float64frombits(binary.LittleEndian.Uint64(blob[8*i:]))
	}
	return label, nil
}
