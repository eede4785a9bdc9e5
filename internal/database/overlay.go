package database

import (
	"database/sql"
	"fmt"
	"time"
)

// OverlayStorage persists the mutable per-cell overlay on top of the
// deterministic world. Generation itself never touches the database; the
// overlay records only player-caused changes (emptied treasure chests) and
// is merged onto freshly generated chunks by the API layer.
type OverlayStorage struct {
	db *sql.DB
}

// NewOverlayStorage creates a new overlay storage instance
func NewOverlayStorage(db *sql.DB) *OverlayStorage {
	return &OverlayStorage{db: db}
}

// CellOverlay is the stored overlay state for one cell.
type CellOverlay struct {
	ChunkX       int64
	ChunkY       int64
	ChunkZ       int64
	CellX        int
	CellZ        int
	ChestEmptied bool
	UpdatedAt    time.Time
}

// CellKey addresses a cell within a chunk grid.
type CellKey struct {
	X int
	Z int
}

// GetChunkOverlays returns the overlay state for every recorded cell of a
// chunk, keyed by cell position. Chunks with no recorded changes return an
// empty map.
func (s *OverlayStorage) GetChunkOverlays(chunkX, chunkY, chunkZ int64) (map[CellKey]CellOverlay, error) {
	query := `
		SELECT chunk_x, chunk_y, chunk_z, cell_x, cell_z, chest_emptied, updated_at
		FROM cell_overlays
		WHERE chunk_x = $1 AND chunk_y = $2 AND chunk_z = $3
	`
	rows, err := s.db.Query(query, chunkX, chunkY, chunkZ)
	if err != nil {
		return nil, fmt.Errorf("failed to query cell overlays: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	overlays := make(map[CellKey]CellOverlay)
	for rows.Next() {
		var o CellOverlay
		if err := rows.Scan(&o.ChunkX, &o.ChunkY, &o.ChunkZ, &o.CellX, &o.CellZ, &o.ChestEmptied, &o.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan cell overlay: %w", err)
		}
		overlays[CellKey{X: o.CellX, Z: o.CellZ}] = o
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate cell overlays: %w", err)
	}

	return overlays, nil
}

// GetCellOverlay returns the overlay state for a single cell, or nil when
// the cell has no recorded changes.
func (s *OverlayStorage) GetCellOverlay(chunkX, chunkY, chunkZ int64, cellX, cellZ int) (*CellOverlay, error) {
	if err := validateCellPosition(cellX, cellZ); err != nil {
		return nil, err
	}

	var o CellOverlay
	query := `
		SELECT chunk_x, chunk_y, chunk_z, cell_x, cell_z, chest_emptied, updated_at
		FROM cell_overlays
		WHERE chunk_x = $1 AND chunk_y = $2 AND chunk_z = $3 AND cell_x = $4 AND cell_z = $5
	`
	err := s.db.QueryRow(query, chunkX, chunkY, chunkZ, cellX, cellZ).Scan(
		&o.ChunkX, &o.ChunkY, &o.ChunkZ, &o.CellX, &o.CellZ, &o.ChestEmptied, &o.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query cell overlay: %w", err)
	}

	return &o, nil
}

// SetChestEmptied records that the treasure chest in a cell has been
// emptied. The record is idempotent: repeated calls update the timestamp
// but keep a single row per cell.
func (s *OverlayStorage) SetChestEmptied(chunkX, chunkY, chunkZ int64, cellX, cellZ int) error {
	if err := validateCellPosition(cellX, cellZ); err != nil {
		return err
	}

	query := `
		INSERT INTO cell_overlays (chunk_x, chunk_y, chunk_z, cell_x, cell_z, chest_emptied, updated_at)
		VALUES ($1, $2, $3, $4, $5, TRUE, CURRENT_TIMESTAMP)
		ON CONFLICT (chunk_x, chunk_y, chunk_z, cell_x, cell_z)
		DO UPDATE SET
			chest_emptied = TRUE,
			updated_at = CURRENT_TIMESTAMP
	`
	if _, err := s.db.Exec(query, chunkX, chunkY, chunkZ, cellX, cellZ); err != nil {
		return fmt.Errorf("failed to record emptied chest: %w", err)
	}
	return nil
}

// ResetChunkOverlays deletes every overlay record for a chunk, restoring
// its generated state. Returns the number of cells reset.
func (s *OverlayStorage) ResetChunkOverlays(chunkX, chunkY, chunkZ int64) (int64, error) {
	query := `
		DELETE FROM cell_overlays
		WHERE chunk_x = $1 AND chunk_y = $2 AND chunk_z = $3
	`
	result, err := s.db.Exec(query, chunkX, chunkY, chunkZ)
	if err != nil {
		return 0, fmt.Errorf("failed to reset chunk overlays: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count reset overlays: %w", err)
	}
	return affected, nil
}

func validateCellPosition(cellX, cellZ int) error {
	if cellX < 0 || cellZ < 0 {
		return fmt.Errorf("invalid cell position: (%d,%d) (must be >= 0)", cellX, cellZ)
	}
	return nil
}
