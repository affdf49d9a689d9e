package artifact

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/kailas-cloud/movierec/internal/domain"
	"github.com/kailas-cloud/movierec/internal/domain/similarity"
)

// Similarity file layout (little-endian):
//
//	[4]byte magic "SIMM" | uint32 version | uint32 n | n*n float32 row-major
var matrixMagic = [4]byte{'S', 'I', 'M', 'M'}

const (
	matrixVersion    = 1
	matrixHeaderSize = 12
	chunkFloats      = 64 * 1024
)

// ReadMatrix loads a similarity matrix file.
func ReadMatrix(path string) (similarity.Matrix, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return similarity.Matrix{}, domain.NewArtifactMissing(path, err)
		}
		return similarity.Matrix{}, domain.NewArtifactCorrupt(path, fmt.Errorf("open: %w", err))
	}
	defer func() { _ = f.Close() }()

	stat, err := f.Stat()
	if err != nil {
		return similarity.Matrix{}, domain.NewArtifactCorrupt(path, fmt.Errorf("stat: %w", err))
	}

	m, err := DecodeMatrix(bufio.NewReaderSize(f, 1<<20), stat.Size())
	if err != nil {
		return similarity.Matrix{}, domain.NewArtifactCorrupt(path, err)
	}
	return m, nil
}

// DecodeMatrix reads a similarity matrix from r. size is the total byte length
// of the stream, or -1 when unknown. NaN scores are rejected.
func DecodeMatrix(r io.Reader, size int64) (similarity.Matrix, error) {
	var hdr [matrixHeaderSize]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return similarity.Matrix{}, fmt.Errorf("read header: %w", err)
	}
	if [4]byte(hdr[0:4]) != matrixMagic {
		return similarity.Matrix{}, fmt.Errorf("bad magic %q", hdr[0:4])
	}
	if v := binary.LittleEndian.Uint32(hdr[4:8]); v != matrixVersion {
		return similarity.Matrix{}, fmt.Errorf("unsupported version %d", v)
	}
	n := int(binary.LittleEndian.Uint32(hdr[8:12]))

	total := int64(n) * int64(n)
	if size >= 0 && size != matrixHeaderSize+4*total {
		return similarity.Matrix{}, fmt.Errorf("file is %d bytes, want %d for %dx%d matrix",
			size, matrixHeaderSize+4*total, n, n)
	}

	data := make([]float32, total)
	buf := make([]byte, 4*chunkFloats)
	for off := 0; off < len(data); off += chunkFloats {
		cnt := min(chunkFloats, len(data)-off)
		if _, err := io.ReadFull(r, buf[:4*cnt]); err != nil {
			return similarity.Matrix{}, fmt.Errorf("read values at %d: %w", off, err)
		}
		for i := 0; i < cnt; i++ {
			v := math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:]))
			if math.IsNaN(float64(v)) {
				return similarity.Matrix{}, fmt.Errorf("NaN score at row %d col %d", (off+i)/n, (off+i)%n)
			}
			data[off+i] = v
		}
	}

	m, err := similarity.New(n, data)
	if err != nil {
		return similarity.Matrix{}, fmt.Errorf("build matrix: %w", err)
	}
	return m, nil
}

// EncodeMatrix writes m in the similarity file layout.
func EncodeMatrix(w io.Writer, m similarity.Matrix) error {
	var hdr [matrixHeaderSize]byte
	copy(hdr[0:4], matrixMagic[:])
	binary.LittleEndian.PutUint32(hdr[4:8], matrixVersion)
	binary.LittleEndian.PutUint32(hdr[8:12], uint32(m.N())) //nolint:gosec // n fits: n*n float32 already in memory
	if _, err := w.Write(hdr[:]); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	row := make([]byte, 4*m.N())
	for i := 0; i < m.N(); i++ {
		for j, v := range m.Row(i) {
			binary.LittleEndian.PutUint32(row[j*4:], math.Float32bits(v))
		}
		if _, err := w.Write(row); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	return nil
}
