package persistence

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"
	"lukechampine.com/blake3"

	"github.com/talgya/civic-industry/internal/world"
)

// ErrCorruptSnapshot is returned when a snapshot's content does not match
// the digest recorded with it.
var ErrCorruptSnapshot = errors.New("galaxy snapshot digest mismatch")

// Encoders are safe for concurrent use and expensive to build.
var (
	encoder, _ = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	decoder, _ = zstd.NewReader(nil)
)

type snapshotRow struct {
	ID      string `db:"id"`
	Tick    uint64 `db:"tick"`
	Digest  string `db:"digest"`
	RawSize int    `db:"raw_size"`
	Data    []byte `db:"data"`
}

// SaveSnapshot stores the galaxy as compressed JSON under a fresh save id
// and points the latest-snapshot marker at it. Older snapshots are kept.
func (db *DB) SaveSnapshot(g *world.Galaxy, tick uint64) (string, error) {
	raw, err := json.Marshal(g)
	if err != nil {
		return "", fmt.Errorf("encode galaxy: %w", err)
	}
	sum := blake3.Sum256(raw)
	row := snapshotRow{
		ID:      uuid.NewString(),
		Tick:    tick,
		Digest:  hex.EncodeToString(sum[:]),
		RawSize: len(raw),
		Data:    encoder.EncodeAll(raw, nil),
	}

	tx, err := db.conn.Beginx()
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	if _, err := tx.NamedExec(`INSERT INTO galaxy_snapshots (id, tick, digest, raw_size, data)
		VALUES (:id, :tick, :digest, :raw_size, :data)`, row); err != nil {
		return "", fmt.Errorf("insert snapshot: %w", err)
	}
	if _, err := tx.Exec("INSERT OR REPLACE INTO world_meta (key, value) VALUES (?, ?)",
		MetaLatestSnapshot, row.ID); err != nil {
		return "", fmt.Errorf("save meta: %w", err)
	}
	return row.ID, tx.Commit()
}

// LoadSnapshot restores the galaxy recorded by the latest-snapshot marker,
// verifies its digest and rebuilds the derived indexes.
func (db *DB) LoadSnapshot() (*world.Galaxy, uint64, error) {
	id, err := db.GetMeta(MetaLatestSnapshot)
	if err != nil {
		return nil, 0, fmt.Errorf("no snapshot recorded: %w", err)
	}
	return db.LoadSnapshotByID(id)
}

// LoadSnapshotByID restores one specific snapshot.
func (db *DB) LoadSnapshotByID(id string) (*world.Galaxy, uint64, error) {
	var row snapshotRow
	if err := db.conn.Get(&row, "SELECT * FROM galaxy_snapshots WHERE id = ?", id); err != nil {
		return nil, 0, fmt.Errorf("select snapshot %s: %w", id, err)
	}
	raw, err := decoder.DecodeAll(row.Data, make([]byte, 0, row.RawSize))
	if err != nil {
		return nil, 0, fmt.Errorf("decompress snapshot %s: %w", id, err)
	}
	sum := blake3.Sum256(raw)
	if hex.EncodeToString(sum[:]) != row.Digest {
		return nil, 0, fmt.Errorf("snapshot %s: %w", id, ErrCorruptSnapshot)
	}

	g := world.NewGalaxy()
	if err := json.Unmarshal(raw, g); err != nil {
		return nil, 0, fmt.Errorf("decode galaxy: %w", err)
	}
	g.Finalize()
	return g, row.Tick, nil
}

// PruneSnapshots deletes all but the newest keep snapshots.
func (db *DB) PruneSnapshots(keep int) (int64, error) {
	res, err := db.conn.Exec(`DELETE FROM galaxy_snapshots WHERE id NOT IN
		(SELECT id FROM galaxy_snapshots ORDER BY tick DESC, rowid DESC LIMIT ?)`, keep)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
