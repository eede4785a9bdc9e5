package compression

import (
	"bytes"
	"compress/gzip"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/dungeonmaze/server/internal/worldgen"
)

const (
	// Magic number for the cell grid format
	GridMagic = "CGRD"
	// Current format version
	GridVersion = 1
	// Gzip compression level (balance between size and speed)
	DefaultGzipLevel = 6

	// Bytes per encoded cell: four walls, floor, ceiling, special, and a
	// door/window flag bitmask
	cellRecordSize = 8

	// Bit positions in the cell flags byte
	flagDoorTop      = 0x01
	flagDoorBottom   = 0x02
	flagDoorLeft     = 0x04
	flagDoorRight    = 0x08
	flagWindowTop    = 0x10
	flagWindowBottom = 0x20
	flagWindowLeft   = 0x40
	flagWindowRight  = 0x80

	// Longest structure name the header can carry
	maxStructureNameLen = 255
)

// GridHeader is the fixed-width binary header preceding the cell records.
type GridHeader struct {
	Magic   [4]byte // "CGRD"
	Version uint8
	Height  uint8
	Width   uint8
	ChunkX  int64
	ChunkY  int64
	ChunkZ  int64
}

// EncodeChunkGrid encodes a chunk's cell grid to the binary format:
// header, length-prefixed structure name, then Height*Width fixed-width
// cell records in row-major order.
func EncodeChunkGrid(chunk *worldgen.Chunk) ([]byte, error) {
	if chunk == nil {
		return nil, fmt.Errorf("chunk is nil")
	}

	height := len(chunk.Cells)
	if height == 0 || height > 255 {
		return nil, fmt.Errorf("grid height %d out of range", height)
	}
	width := len(chunk.Cells[0])
	if width == 0 || width > 255 {
		return nil, fmt.Errorf("grid width %d out of range", width)
	}

	name := string(chunk.Structure)
	if len(name) > maxStructureNameLen {
		return nil, fmt.Errorf("structure name too long: %d bytes", len(name))
	}

	var buf bytes.Buffer

	header := GridHeader{
		Version: GridVersion,
		Height:  uint8(height),
		Width:   uint8(width),
		ChunkX:  chunk.X,
		ChunkY:  chunk.Y,
		ChunkZ:  chunk.Z,
	}
	copy(header.Magic[:], GridMagic)

	if err := binary.Write(&buf, binary.LittleEndian, header); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	buf.WriteByte(uint8(len(name)))
	buf.WriteString(name)

	for h := 0; h < height; h++ {
		if len(chunk.Cells[h]) != width {
			return nil, fmt.Errorf("ragged grid: row %d has %d cells, want %d", h, len(chunk.Cells[h]), width)
		}
		for w := 0; w < width; w++ {
			cell := chunk.Cells[h][w]
			record := [cellRecordSize]byte{
				uint8(cell.WallTop),
				uint8(cell.WallBottom),
				uint8(cell.WallLeft),
				uint8(cell.WallRight),
				uint8(cell.Floor),
				uint8(cell.Ceiling),
				uint8(cell.Special),
				encodeCellFlags(cell),
			}
			buf.Write(record[:])
		}
	}

	return buf.Bytes(), nil
}

// DecodeChunkGrid decodes data produced by EncodeChunkGrid.
func DecodeChunkGrid(data []byte) (*worldgen.Chunk, error) {
	reader := bytes.NewReader(data)

	var header GridHeader
	if err := binary.Read(reader, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	if string(header.Magic[:]) != GridMagic {
		return nil, fmt.Errorf("bad magic %q", header.Magic)
	}
	if header.Version != GridVersion {
		return nil, fmt.Errorf("unsupported version %d", header.Version)
	}
	if header.Height == 0 || header.Width == 0 {
		return nil, fmt.Errorf("empty grid dimensions %dx%d", header.Height, header.Width)
	}

	nameLen, err := reader.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("failed to read structure name length: %w", err)
	}
	nameBytes := make([]byte, nameLen)
	if _, err := io.ReadFull(reader, nameBytes); err != nil {
		return nil, fmt.Errorf("failed to read structure name: %w", err)
	}

	height := int(header.Height)
	width := int(header.Width)

	cells := make([][]worldgen.Cell, height)
	for h := 0; h < height; h++ {
		cells[h] = make([]worldgen.Cell, width)
		for w := 0; w < width; w++ {
			var record [cellRecordSize]byte
			if _, err := io.ReadFull(reader, record[:]); err != nil {
				return nil, fmt.Errorf("truncated cell record at (%d,%d): %w", h, w, err)
			}
			cell := worldgen.Cell{
				WallTop:    worldgen.CellWall(record[0]),
				WallBottom: worldgen.CellWall(record[1]),
				WallLeft:   worldgen.CellWall(record[2]),
				WallRight:  worldgen.CellWall(record[3]),
				Floor:      worldgen.CellWall(record[4]),
				Ceiling:    worldgen.CellWall(record[5]),
				Special:    worldgen.CellSpecial(record[6]),
			}
			decodeCellFlags(&cell, record[7])
			cells[h][w] = cell
		}
	}

	return &worldgen.Chunk{
		X:         header.ChunkX,
		Y:         header.ChunkY,
		Z:         header.ChunkZ,
		Cells:     cells,
		Structure: worldgen.StructureName(nameBytes),
	}, nil
}

// encodeCellFlags packs a cell's door and window booleans into one byte.
func encodeCellFlags(cell worldgen.Cell) byte {
	var flags byte
	if cell.DoorTop {
		flags |= flagDoorTop
	}
	if cell.DoorBottom {
		flags |= flagDoorBottom
	}
	if cell.DoorLeft {
		flags |= flagDoorLeft
	}
	if cell.DoorRight {
		flags |= flagDoorRight
	}
	if cell.WindowTop {
		flags |= flagWindowTop
	}
	if cell.WindowBottom {
		flags |= flagWindowBottom
	}
	if cell.WindowLeft {
		flags |= flagWindowLeft
	}
	if cell.WindowRight {
		flags |= flagWindowRight
	}
	return flags
}

// decodeCellFlags unpacks the flag byte written by encodeCellFlags.
func decodeCellFlags(cell *worldgen.Cell, flags byte) {
	cell.DoorTop = flags&flagDoorTop != 0
	cell.DoorBottom = flags&flagDoorBottom != 0
	cell.DoorLeft = flags&flagDoorLeft != 0
	cell.DoorRight = flags&flagDoorRight != 0
	cell.WindowTop = flags&flagWindowTop != 0
	cell.WindowBottom = flags&flagWindowBottom != 0
	cell.WindowLeft = flags&flagWindowLeft != 0
	cell.WindowRight = flags&flagWindowRight != 0
}

// CompressChunkGrid encodes a chunk grid and compresses it with gzip.
// Returns the compressed bytes and the uncompressed encoded size.
func CompressChunkGrid(chunk *worldgen.Chunk) ([]byte, int, error) {
	encoded, err := EncodeChunkGrid(chunk)
	if err != nil {
		return nil, 0, err
	}

	compressed, err := gzipCompress(encoded, DefaultGzipLevel)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to compress with gzip: %w", err)
	}

	return compressed, len(encoded), nil
}

// DecompressChunkGrid reverses CompressChunkGrid.
func DecompressChunkGrid(compressed []byte) (*worldgen.Chunk, error) {
	reader, err := gzip.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer reader.Close()

	encoded, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress: %w", err)
	}

	return DecodeChunkGrid(encoded)
}

// gzipCompress compresses data using gzip
func gzipCompress(data []byte, level int) ([]byte, error) {
	var buf bytes.Buffer

	writer, err := gzip.NewWriterLevel(&buf, level)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip writer: %w", err)
	}

	if _, err := writer.Write(data); err != nil {
		writer.Close()
		return nil, fmt.Errorf("failed to write to gzip: %w", err)
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to close gzip writer: %w", err)
	}

	return buf.Bytes(), nil
}
