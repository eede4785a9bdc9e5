package compression

import (
	"encoding/base64"
	"fmt"

	"github.com/dungeonmaze/server/internal/worldgen"
)

// CompressedGrid represents a compressed cell grid ready for transmission
type CompressedGrid struct {
	Format           string `json:"format"`            // "cellgrid_gzip"
	Data             string `json:"data"`              // Base64-encoded compressed data
	Size             int    `json:"size"`              // Compressed size in bytes
	UncompressedSize int    `json:"uncompressed_size"` // Uncompressed size in bytes (for progress tracking)
}

// FormatCompressedGrid wraps compressed grid bytes for JSON transmission
func FormatCompressedGrid(compressedData []byte, uncompressedSize int) *CompressedGrid {
	base64Data := base64.StdEncoding.EncodeToString(compressedData)

	return &CompressedGrid{
		Format:           "cellgrid_gzip",
		Data:             base64Data,
		Size:             len(compressedData),
		UncompressedSize: uncompressedSize,
	}
}

// CompressAndFormatGrid compresses a chunk's cell grid and formats it for
// transmission in a single step.
func CompressAndFormatGrid(chunk *worldgen.Chunk) (*CompressedGrid, error) {
	compressed, uncompressedSize, err := CompressChunkGrid(chunk)
	if err != nil {
		return nil, err
	}
	return FormatCompressedGrid(compressed, uncompressedSize), nil
}

// ParseCompressedGrid decodes a CompressedGrid back into a chunk.
func ParseCompressedGrid(grid *CompressedGrid) (*worldgen.Chunk, error) {
	if grid == nil {
		return nil, fmt.Errorf("grid is nil")
	}
	if grid.Format != "cellgrid_gzip" {
		return nil, fmt.Errorf("unsupported format %q", grid.Format)
	}

	compressed, err := base64.StdEncoding.DecodeString(grid.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64 data: %w", err)
	}

	return DecompressChunkGrid(compressed)
}
