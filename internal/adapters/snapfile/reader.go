package snapfile

import (
	"bufio"
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/pic-tools/picmovie/internal/domain"
)

var magic = [4]byte{'P', 'I', 'C', 'S'}

// formatVersion is the newest container version this reader understands.
const formatVersion = 1

// maxItems bounds the declared item count so a corrupt header cannot
// trigger a huge allocation.
const maxItems = 1024

// maxGridCells bounds the declared item dimensions. A 2-D slice of a
// simulation domain stays far below this; anything larger is a corrupt
// item header, not data.
const maxGridCells = 64 << 20

// Reader implements ports.SnapshotReader for the binary snapshot
// container. The zero value is ready to use.
type Reader struct{}

// NewReader creates a snapshot file reader.
func NewReader() *Reader {
	return &Reader{}
}

type header struct {
	Time  float64
	XLo   float64
	XHi   float64
	ZLo   float64
	ZHi   float64
	Items uint16
}

// Read decodes the full snapshot at path.
func (r *Reader) Read(ctx context.Context, path string) (*domain.Snapshot, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot: %w", err)
	}
	defer f.Close()

	br := bufio.NewReaderSize(f, 64*1024)
	hdr, err := readHeader(br, path)
	if err != nil {
		return nil, err
	}

	snap := &domain.Snapshot{
		Time:  hdr.Time,
		X:     domain.AxisBounds{Lo: hdr.XLo, Hi: hdr.XHi},
		Z:     domain.AxisBounds{Lo: hdr.ZLo, Hi: hdr.ZHi},
		Items: make(map[string]domain.Grid, hdr.Items),
	}

	for i := 0; i < int(hdr.Items); i++ {
		name, nx, nz, err := readItemHeader(br, path)
		if err != nil {
			return nil, err
		}
		grid, err := readValues(br, path, nx, nz)
		if err != nil {
			return nil, err
		}
		snap.Items[name] = grid
	}

	return snap, nil
}

// ReadItem decodes only the named item, skipping the values of every
// other item.
func (r *Reader) ReadItem(ctx context.Context, path, name string) (domain.Grid, error) {
	select {
	case <-ctx.Done():
		return domain.Grid{}, ctx.Err()
	default:
	}

	f, err := os.Open(path)
	if err != nil {
		return domain.Grid{}, fmt.Errorf("open snapshot: %w", err)
	}
	defer f.Close()

	br := bufio.NewReaderSize(f, 64*1024)
	hdr, err := readHeader(br, path)
	if err != nil {
		return domain.Grid{}, err
	}

	for i := 0; i < int(hdr.Items); i++ {
		itemName, nx, nz, err := readItemHeader(br, path)
		if err != nil {
			return domain.Grid{}, err
		}
		if itemName == name {
			return readValues(br, path, nx, nz)
		}
		if _, err := io.CopyN(io.Discard, br, int64(nx)*int64(nz)*8); err != nil {
			return domain.Grid{}, fmt.Errorf("snapshot %s: skip item %s: %w", path, itemName, err)
		}
	}

	return domain.Grid{}, fmt.Errorf("snapshot %s: no item %q", path, name)
}

func readHeader(br *bufio.Reader, path string) (header, error) {
	var m [4]byte
	if _, err := io.ReadFull(br, m[:]); err != nil {
		return header{}, fmt.Errorf("snapshot %s: read magic: %w", path, err)
	}
	if !bytes.Equal(m[:], magic[:]) {
		return header{}, fmt.Errorf("snapshot %s: bad magic %q", path, m)
	}

	var version uint16
	if err := binary.Read(br, binary.LittleEndian, &version); err != nil {
		return header{}, fmt.Errorf("snapshot %s: read version: %w", path, err)
	}
	if version == 0 || version > formatVersion {
		return header{}, fmt.Errorf("snapshot %s: unsupported format version %d", path, version)
	}

	var hdr header
	if err := binary.Read(br, binary.LittleEndian, &hdr); err != nil {
		return header{}, fmt.Errorf("snapshot %s: read header: %w", path, err)
	}
	if hdr.Items > maxItems {
		return header{}, fmt.Errorf("snapshot %s: implausible item count %d", path, hdr.Items)
	}
	return hdr, nil
}

func readItemHeader(br *bufio.Reader, path string) (string, uint32, uint32, error) {
	var nameLen uint16
	if err := binary.Read(br, binary.LittleEndian, &nameLen); err != nil {
		return "", 0, 0, fmt.Errorf("snapshot %s: read item name length: %w", path, err)
	}
	nameBytes := make([]byte, nameLen)
	if _, err := io.ReadFull(br, nameBytes); err != nil {
		return "", 0, 0, fmt.Errorf("snapshot %s: read item name: %w", path, err)
	}

	var dims [2]uint32
	if err := binary.Read(br, binary.LittleEndian, &dims); err != nil {
		return "", 0, 0, fmt.Errorf("snapshot %s: read item dims: %w", path, err)
	}
	// Validated here so the value and skip paths both stay within the
	// bound and the cell product cannot overflow int.
	if cells := uint64(dims[0]) * uint64(dims[1]); cells > maxGridCells {
		return "", 0, 0, fmt.Errorf("snapshot %s: item %s: implausible dims %dx%d", path, nameBytes, dims[0], dims[1])
	}
	return string(nameBytes), dims[0], dims[1], nil
}

func readValues(br *bufio.Reader, path string, nx, nz uint32) (domain.Grid, error) {
	n := int(nx) * int(nz)
	values := make([]float64, n)
	if err := binary.Read(br, binary.LittleEndian, values); err != nil {
		return domain.Grid{}, fmt.Errorf("snapshot %s: read values: %w", path, err)
	}
	return domain.Grid{NX: int(nx), NZ: int(nz), Values: values}, nil
}
