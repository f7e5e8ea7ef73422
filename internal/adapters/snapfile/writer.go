package snapfile

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"os"
	"sort"

	"github.com/pic-tools/picmovie/internal/domain"
)

// Write encodes the snapshot into the binary container at path. Items are
// written in sorted name order so output is deterministic.
func Write(path string, snap *domain.Snapshot) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create snapshot: %w", err)
	}

	bw := bufio.NewWriterSize(f, 64*1024)
	if err := encode(bw, snap); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("write snapshot %s: %w", path, err)
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("write snapshot %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return fmt.Errorf("close snapshot %s: %w", path, err)
	}
	return nil
}

func encode(bw *bufio.Writer, snap *domain.Snapshot) error {
	if _, err := bw.Write(magic[:]); err != nil {
		return err
	}
	if err := binary.Write(bw, binary.LittleEndian, uint16(formatVersion)); err != nil {
		return err
	}

	hdr := header{
		Time:  snap.Time,
		XLo:   snap.X.Lo,
		XHi:   snap.X.Hi,
		ZLo:   snap.Z.Lo,
		ZHi:   snap.Z.Hi,
		Items: uint16(len(snap.Items)),
	}
	if err := binary.Write(bw, binary.LittleEndian, hdr); err != nil {
		return err
	}

	names := make([]string, 0, len(snap.Items))
	for name := range snap.Items {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		grid := snap.Items[name]
		if grid.Len() != grid.NX*grid.NZ {
			return fmt.Errorf("item %s: %d values for %dx%d grid", name, grid.Len(), grid.NX, grid.NZ)
		}
		if err := binary.Write(bw, binary.LittleEndian, uint16(len(name))); err != nil {
			return err
		}
		if _, err := bw.WriteString(name); err != nil {
			return err
		}
		dims := [2]uint32{uint32(grid.NX), uint32(grid.NZ)}
		if err := binary.Write(bw, binary.LittleEndian, dims); err != nil {
			return err
		}
		if err := binary.Write(bw, binary.LittleEndian, grid.Values); err != nil {
			return err
		}
	}
	return nil
}
