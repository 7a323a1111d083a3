package voxel

import (
	"bufio"
	"encoding/binary"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// Magic is the 8-byte header that starts every voxel file
const Magic = "VOXELSRS"

// recordSize is three int32 coordinates plus one packed uint32 color
const recordSize = 16

// Write encodes samples in the VOXELSRS layout: magic, little-endian uint64
// count, then one 16-byte record per sample.
func Write(w io.Writer, samples []Sample) error {
	bw := bufio.NewWriter(w)

	if _, err := bw.WriteString(Magic); err != nil {
		return errors.Wrap(err, "failed to write magic")
	}

	var header [8]byte
	binary.LittleEndian.PutUint64(header[:], uint64(len(samples)))
	if _, err := bw.Write(header[:]); err != nil {
		return errors.Wrap(err, "failed to write voxel count")
	}

	var record [recordSize]byte
	for _, s := range samples {
		binary.LittleEndian.PutUint32(record[0:4], uint32(s.Coord.X))
		binary.LittleEndian.PutUint32(record[4:8], uint32(s.Coord.Y))
		binary.LittleEndian.PutUint32(record[8:12], uint32(s.Coord.Z))
		binary.LittleEndian.PutUint32(record[12:16], s.Color.Packed())
		if _, err := bw.Write(record[:]); err != nil {
			return errors.Wrap(err, "failed to write voxel record")
		}
	}

	return errors.Wrap(bw.Flush(), "failed to flush voxel data")
}

// WriteFile writes samples to path. The data goes to a temporary file in the
// same directory first, so a failed write never leaves a partial file behind.
func WriteFile(path string, samples []Sample) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return errors.Wrap(err, "failed to create voxel file")
	}
	defer os.Remove(tmp.Name())

	if err := Write(tmp, samples); err != nil {
		tmp.Close()
		return errors.Wrapf(err, "failed to write %s", path)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrapf(err, "failed to close %s", tmp.Name())
	}

	return errors.Wrap(os.Rename(tmp.Name(), path), "failed to move voxel file into place")
}

// Read decodes a VOXELSRS stream
func Read(r io.Reader) ([]Sample, error) {
	br := bufio.NewReader(r)

	var header [len(Magic) + 8]byte
	if _, err := io.ReadFull(br, header[:]); err != nil {
		return nil, errors.Wrap(err, "failed to read voxel header")
	}
	if string(header[:len(Magic)]) != Magic {
		return nil, errors.Errorf("invalid voxel magic %q", header[:len(Magic)])
	}
	count := binary.LittleEndian.Uint64(header[len(Magic):])

	// The count is untrusted; grow past this only as records actually arrive.
	capacity := count
	if capacity > 1<<20 {
		capacity = 1 << 20
	}
	samples := make([]Sample, 0, capacity)

	var record [recordSize]byte
	for i := uint64(0); i < count; i++ {
		if _, err := io.ReadFull(br, record[:]); err != nil {
			return nil, errors.Wrapf(err, "failed to read voxel record %d of %d", i, count)
		}
		samples = append(samples, Sample{
			Coord: Coord{
				X: int32(binary.LittleEndian.Uint32(record[0:4])),
				Y: int32(binary.LittleEndian.Uint32(record[4:8])),
				Z: int32(binary.LittleEndian.Uint32(record[8:12])),
			},
			Color: UnpackColor(binary.LittleEndian.Uint32(record[12:16])),
		})
	}

	return samples, nil
}

// ReadFile reads a voxel file from disk
func ReadFile(path string) ([]Sample, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open voxel file")
	}
	defer file.Close()

	return Read(file)
}
