package loaders

import (
	"bufio"
	"encoding/binary"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/colon-crab-colon/voxelizer/pkg/core"
	"github.com/colon-crab-colon/voxelizer/pkg/geometry"
	"github.com/colon-crab-colon/voxelizer/pkg/voxel"
)

// PLYHeader represents the parsed header information from a PLY file
type PLYHeader struct {
	Format      string // Only "binary_little_endian" is readable
	Version     string // Usually "1.0"
	VertexCount int
	VertexProps []PLYProperty
	// Elements declared before the vertex element; their data is skipped
	leading []plyElement
}

// PLYProperty represents a property definition in the PLY header
type PLYProperty struct {
	Name     string
	Type     string
	IsList   bool
	ListType string // For list properties, the type of the count
	DataType string // For list properties, the type of the data
}

type plyElement struct {
	name  string
	count int
	props []PLYProperty
}

// LoadPointCloudPLY loads the vertices of a binary little-endian PLY file as
// a point cloud
func LoadPointCloudPLY(filename string) (*geometry.PointCloud, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open PLY file")
	}
	defer file.Close()

	return ReadPointCloudPLY(file)
}

// ReadPointCloudPLY reads a PLY point cloud. Vertices need float x, y and z
// properties; uchar red, green, blue and alpha are used when present and
// default to opaque white. Stored positions are (x, z, y) since scanned
// clouds are Z-up. Points with a NaN or infinite coordinate are dropped.
func ReadPointCloudPLY(r io.Reader) (*geometry.PointCloud, error) {
	reader := bufio.NewReaderSize(r, 1024*1024)

	header, err := parsePLYHeader(reader)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse PLY header")
	}

	for _, element := range header.leading {
		if err := skipElement(reader, element); err != nil {
			return nil, errors.Wrapf(err, "failed to skip PLY element %q", element.name)
		}
	}

	layout, err := newVertexLayout(header.VertexProps)
	if err != nil {
		return nil, err
	}

	// The count is untrusted; grow past this only as records actually arrive.
	capacity := header.VertexCount
	if capacity > 1<<20 {
		capacity = 1 << 20
	}
	points := make([]geometry.Point, 0, capacity)
	record := make([]byte, layout.size)
	for i := 0; i < header.VertexCount; i++ {
		if _, err := io.ReadFull(reader, record); err != nil {
			return nil, errors.Wrapf(err, "failed to read vertex %d of %d", i, header.VertexCount)
		}

		x := layout.float(record, layout.x)
		y := layout.float(record, layout.y)
		z := layout.float(record, layout.z)

		color := voxel.White
		for channel, offset := range layout.color {
			if offset >= 0 {
				color[channel] = record[offset]
			}
		}

		points = append(points, geometry.Point{
			Position: core.NewVec3(x, z, y),
			Color:    color,
		})
	}

	// NewPointCloud drops the non-finite points
	return geometry.NewPointCloud(points), nil
}

// parsePLYHeader parses the PLY header up to and including end_header
func parsePLYHeader(reader *bufio.Reader) (*PLYHeader, error) {
	header := &PLYHeader{}

	magic, err := readHeaderLine(reader)
	if err != nil {
		return nil, err
	}
	if magic != "ply" {
		return nil, errors.Errorf("invalid PLY magic %q", magic)
	}

	var current *plyElement
	var elements []*plyElement

	for {
		line, err := readHeaderLine(reader)
		if err != nil {
			return nil, err
		}
		if line == "end_header" {
			break
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		switch parts[0] {
		case "format":
			if len(parts) < 3 {
				return nil, errors.Errorf("invalid format line %q", line)
			}
			header.Format = parts[1]
			header.Version = parts[2]
		case "comment", "obj_info":
			// Ignore comments
		case "element":
			if len(parts) < 3 {
				return nil, errors.Errorf("invalid element line %q", line)
			}
			count, err := strconv.Atoi(parts[2])
			if err != nil || count < 0 {
				return nil, errors.Errorf("invalid element count: %s", parts[2])
			}
			current = &plyElement{name: parts[1], count: count}
			elements = append(elements, current)
		case "property":
			if current == nil {
				return nil, errors.Errorf("property before any element: %q", line)
			}
			prop, err := parsePLYProperty(parts[1:])
			if err != nil {
				return nil, errors.Wrap(err, "failed to parse property")
			}
			current.props = append(current.props, prop)
		default:
			return nil, errors.Errorf("unexpected header line %q", line)
		}
	}

	if header.Format != "binary_little_endian" {
		return nil, errors.Errorf("unsupported PLY format %q, only binary_little_endian is supported", header.Format)
	}

	for i, element := range elements {
		if element.name == "vertex" {
			header.VertexCount = element.count
			header.VertexProps = element.props
			for _, leading := range elements[:i] {
				header.leading = append(header.leading, *leading)
			}
			return header, nil
		}
	}

	return nil, errors.New("PLY file has no vertex element")
}

// readHeaderLine reads one header line without its line terminator
func readHeaderLine(reader *bufio.Reader) (string, error) {
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", errors.Wrap(err, "error reading header")
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// parsePLYProperty parses a property line from the PLY header
func parsePLYProperty(parts []string) (PLYProperty, error) {
	if len(parts) < 2 {
		return PLYProperty{}, errors.New("invalid property definition")
	}

	prop := PLYProperty{}

	if parts[0] == "list" {
		if len(parts) < 4 {
			return PLYProperty{}, errors.New("invalid list property definition")
		}
		prop.IsList = true
		prop.ListType = parts[1]
		prop.DataType = parts[2]
		prop.Name = parts[3]
	} else {
		prop.Type = parts[0]
		prop.Name = parts[1]
	}

	if getTypeSize(prop.Type) == 0 && !prop.IsList {
		return PLYProperty{}, errors.Errorf("unsupported data type: %s", prop.Type)
	}

	return prop, nil
}

// vertexLayout holds byte offsets of the properties we read from a vertex record
type vertexLayout struct {
	size    int
	x, y, z plyField
	color   [4]int // red, green, blue, alpha offsets; -1 when absent
}

var colorChannels = map[string]int{"red": 0, "green": 1, "blue": 2, "alpha": 3}

type plyField struct {
	offset int
	double bool
}

func newVertexLayout(props []PLYProperty) (*vertexLayout, error) {
	layout := &vertexLayout{
		x:     plyField{offset: -1},
		y:     plyField{offset: -1},
		z:     plyField{offset: -1},
		color: [4]int{-1, -1, -1, -1},
	}

	for _, prop := range props {
		if prop.IsList {
			return nil, errors.Errorf("list property %q in vertex element is not supported", prop.Name)
		}

		switch prop.Name {
		case "x", "y", "z":
			if prop.Type != "float" && prop.Type != "float32" && prop.Type != "double" && prop.Type != "float64" {
				return nil, errors.Errorf("vertex property %s has type %s, expected float", prop.Name, prop.Type)
			}
			field := plyField{offset: layout.size, double: getTypeSize(prop.Type) == 8}
			switch prop.Name {
			case "x":
				layout.x = field
			case "y":
				layout.y = field
			case "z":
				layout.z = field
			}
		case "red", "green", "blue", "alpha":
			if getTypeSize(prop.Type) == 1 {
				layout.color[colorChannels[prop.Name]] = layout.size
			}
		}

		layout.size += getTypeSize(prop.Type)
	}

	if layout.x.offset < 0 || layout.y.offset < 0 || layout.z.offset < 0 {
		return nil, errors.New("PLY vertex element is missing x, y or z")
	}

	return layout, nil
}

func (l *vertexLayout) float(record []byte, field plyField) float64 {
	if field.double {
		return math.Float64frombits(binary.LittleEndian.Uint64(record[field.offset:]))
	}
	return float64(math.Float32frombits(binary.LittleEndian.Uint32(record[field.offset:])))
}

// skipElement skips all records of an element we do not read
func skipElement(reader *bufio.Reader, element plyElement) error {
	for i := 0; i < element.count; i++ {
		for _, prop := range element.props {
			if err := skipProperty(reader, prop); err != nil {
				return err
			}
		}
	}
	return nil
}

// skipProperty skips a property in the buffered binary stream
func skipProperty(reader *bufio.Reader, prop PLYProperty) error {
	if !prop.IsList {
		_, err := reader.Discard(getTypeSize(prop.Type))
		return err
	}

	countSize := getTypeSize(prop.ListType)
	dataSize := getTypeSize(prop.DataType)
	if countSize == 0 || dataSize == 0 {
		return errors.Errorf("unsupported list property types %s/%s", prop.ListType, prop.DataType)
	}

	buf := make([]byte, countSize)
	if _, err := io.ReadFull(reader, buf); err != nil {
		return err
	}

	var count uint64
	switch countSize {
	case 1:
		count = uint64(buf[0])
	case 2:
		count = uint64(binary.LittleEndian.Uint16(buf))
	case 4:
		count = uint64(binary.LittleEndian.Uint32(buf))
	default:
		count = binary.LittleEndian.Uint64(buf)
	}

	_, err := reader.Discard(int(count) * dataSize)
	return err
}

// getTypeSize returns the size in bytes of a PLY data type, 0 if unknown
func getTypeSize(dataType string) int {
	switch dataType {
	case "float", "float32", "int", "int32", "uint", "uint32":
		return 4
	case "double", "float64":
		return 8
	case "short", "int16", "ushort", "uint16":
		return 2
	case "char", "int8", "uchar", "uint8":
		return 1
	default:
		return 0
	}
}
