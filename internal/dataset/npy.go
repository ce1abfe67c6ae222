package dataset

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// NumPy .npy version 1.0 layout: magic, version, little-endian uint16
// header length, a Python dict literal padded with spaces and a newline
// so the data starts on a 64-byte boundary, then raw little-endian data.
const (
	npyMagic     = "\x93NUMPY"
	npyAlign     = 64
	npyPrelude   = len(npyMagic) + 2 + 2
	npyDescr     = "<f8"
	maxNPYHeader = 1 << 16
)

// ErrNPYFormat reports a malformed or unsupported .npy stream.
var ErrNPYFormat = errors.New("unsupported npy format")

func npyHeader(shape []int) []byte {
	dims := make([]string, len(shape))
	for i, d := range shape {
		dims[i] = strconv.Itoa(d)
	}
	tuple := strings.Join(dims, ", ")
	if len(shape) == 1 {
		tuple += ","
	}
	dict := fmt.Sprintf("{'descr': '%s', 'fortran_order': False, 'shape': (%s), }", npyDescr, tuple)

	total := npyPrelude + len(dict) + 1
	pad := (npyAlign - total%npyAlign) % npyAlign
	header := dict + strings.Repeat(" ", pad) + "\n"

	var buf bytes.Buffer
	buf.WriteString(npyMagic)
	buf.Write([]byte{1, 0})
	_ = binary.Write(&buf, binary.LittleEndian, uint16(len(header)))
	buf.WriteString(header)
	return buf.Bytes()
}

// WriteNPY writes rows as a float64 array of the given shape. The rows
// are concatenated in order and must hold exactly prod(shape) values.
func WriteNPY(w io.Writer, shape []int, rows [][]float64) error {
	want := 1
	for _, d := range shape {
		want *= d
	}
	got := 0
	for _, r := range rows {
		got += len(r)
	}
	if got != want {
		return fmt.Errorf("npy shape %v needs %d values, got %d", shape, want, got)
	}

	bw := bufio.NewWriter(w)
	if _, err := bw.Write(npyHeader(shape)); err != nil {
		return fmt.Errorf("write npy header: %w", err)
	}
	var b [8]byte
	for _, r := range rows {
		for _, v := range r {
			binary.LittleEndian.PutUint64(b[:], math.Float64bits(v))
			if _, err := bw.Write(b[:]); err != nil {
				return fmt.Errorf("write npy data: %w", err)
			}
		}
	}
	return bw.Flush()
}

// ReadNPY reads a C-ordered little-endian float64 .npy stream as written
// by WriteNPY or numpy.save.
func ReadNPY(r io.Reader) (shape []int, data []float64, err error) {
	prelude := make([]byte, npyPrelude)
	if _, err := io.ReadFull(r, prelude); err != nil {
		return nil, nil, fmt.Errorf("read npy prelude: %w", err)
	}
	if string(prelude[:len(npyMagic)]) != npyMagic {
		return nil, nil, fmt.Errorf("%w: bad magic", ErrNPYFormat)
	}
	if prelude[6] != 1 {
		return nil, nil, fmt.Errorf("%w: version %d.%d", ErrNPYFormat, prelude[6], prelude[7])
	}
	hlen := int(binary.LittleEndian.Uint16(prelude[8:]))
	if hlen >= maxNPYHeader {
		return nil, nil, fmt.Errorf("%w: header length %d", ErrNPYFormat, hlen)
	}
	header := make([]byte, hlen)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, nil, fmt.Errorf("read npy header: %w", err)
	}

	shape, err = parseNPYHeader(string(header))
	if err != nil {
		return nil, nil, err
	}
	n := 1
	for _, d := range shape {
		n *= d
	}

	raw := make([]byte, 8*n)
	if _, err := io.ReadFull(r, raw); err != nil {
		return nil, nil, fmt.Errorf("read npy data: %w", err)
	}
	data = make([]float64, n)
	for i := range data {
		data[i] = math.Float64frombits(binary.LittleEndian.Uint64(raw[8*i:]))
	}
	return shape, data, nil
}

func parseNPYHeader(h string) ([]int, error) {
	if !strings.Contains(h, "'descr': '"+npyDescr+"'") {
		return nil, fmt.Errorf("%w: only %s arrays are supported", ErrNPYFormat, npyDescr)
	}
	if !strings.Contains(h, "'fortran_order': False") {
		return nil, fmt.Errorf("%w: fortran order", ErrNPYFormat)
	}
	i := strings.Index(h, "'shape': (")
	if i < 0 {
		return nil, fmt.Errorf("%w: missing shape", ErrNPYFormat)
	}
	rest := h[i+len("'shape': ("):]
	j := strings.Index(rest, ")")
	if j < 0 {
		return nil, fmt.Errorf("%w: unterminated shape", ErrNPYFormat)
	}
	var shape []int
	for _, f := range strings.Split(rest[:j], ",") {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		d, err := strconv.Atoi(f)
		if err != nil || d < 0 {
			return nil, fmt.Errorf("%w: bad dimension %q", ErrNPYFormat, f)
		}
		shape = append(shape, d)
	}
	return shape, nil
}
