package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AnalysisRepository stores analysis summaries keyed by snapshot fingerprint.
type AnalysisRepository struct {
	pool *pgxpool.Pool
}

func NewAnalysisRepository(pool *pgxpool.Pool) *AnalysisRepository {
	return &AnalysisRepository{pool: pool}
}

// Save stores a in a single transaction, replacing any earlier analysis
// with the same fingerprint. It returns the analysis id.
func (r *AnalysisRepository) Save(ctx context.Context, a Analysis) (int64, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	var id int64
	err = tx.QueryRow(ctx,
		`INSERT INTO analyses (fingerprint, name, tile_width, tile_height, max_altitude, lakes)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (fingerprint) DO UPDATE SET
		  name = $2, tile_width = $3, tile_height = $4, max_altitude = $5, lakes = $6,
		  created_at = now()
		 RETURNING analysis_id`,
		a.Fingerprint, a.Name, a.TileWidth, a.TileHeight, a.MaxAltitude, a.Lakes,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("saving analysis %q: %w", a.Fingerprint, err)
	}

	for _, table := range []string{"areas", "connectors", "bases"} {
		if _, err := tx.Exec(ctx, `DELETE FROM `+table+` WHERE analysis_id = $1`, id); err != nil {
			return 0, fmt.Errorf("deleting old %s of analysis %d: %w", table, id, err)
		}
	}

	if len(a.Areas) > 0 {
		rows := make([][]any, 0, len(a.Areas))
		for _, x := range a.Areas {
			rows = append(rows, []any{id, x.AreaID, x.TopX, x.TopY, x.MiniTiles, x.HighestAltitude, x.Group, x.Minerals, x.Geysers})
		}
		if _, err := tx.CopyFrom(ctx,
			pgx.Identifier{"areas"},
			[]string{"analysis_id", "area_id", "top_x", "top_y", "mini_tiles", "highest_altitude", "group_id", "minerals", "geysers"},
			pgx.CopyFromRows(rows),
		); err != nil {
			return 0, fmt.Errorf("inserting areas of analysis %d: %w", id, err)
		}
	}

	if len(a.Connectors) > 0 {
		rows := make([][]any, 0, len(a.Connectors))
		for _, c := range a.Connectors {
			rows = append(rows, []any{id, c.ConnectorID, c.AreaA, c.AreaB, c.CenterX, c.CenterY, c.Pseudo, c.Blocked})
		}
		if _, err := tx.CopyFrom(ctx,
			pgx.Identifier{"connectors"},
			[]string{"analysis_id", "connector_id", "area_a", "area_b", "center_x", "center_y", "pseudo", "blocked"},
			pgx.CopyFromRows(rows),
		); err != nil {
			return 0, fmt.Errorf("inserting connectors of analysis %d: %w", id, err)
		}
	}

	if len(a.Bases) > 0 {
		batch := &pgx.Batch{}
		for _, b := range a.Bases {
			batch.Queue(
				`INSERT INTO bases
				 (analysis_id, base_id, area_id, location_x, location_y, minerals, geysers, blocking_minerals, starting)
				 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
				id, b.BaseID, b.AreaID, b.LocationX, b.LocationY, b.Minerals, b.Geysers, b.BlockingMinerals, b.Starting,
			)
		}
		br := tx.SendBatch(ctx, batch)
		for range a.Bases {
			if _, err := br.Exec(); err != nil {
				br.Close() //nolint:errcheck
				return 0, fmt.Errorf("inserting bases of analysis %d: %w", id, err)
			}
		}
		if err := br.Close(); err != nil {
			return 0, fmt.Errorf("close base batch: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("committing analysis %d: %w", id, err)
	}
	slog.Debug("saved analysis",
		"analysisID", id,
		"fingerprint", a.Fingerprint,
		"areas", len(a.Areas),
		"connectors", len(a.Connectors),
		"bases", len(a.Bases))
	return id, nil
}

// Load returns the analysis stored under fingerprint.
// Returns nil if there is none (not an error).
func (r *AnalysisRepository) Load(ctx context.Context, fingerprint string) (*Analysis, error) {
	a := Analysis{Fingerprint: fingerprint}
	err := r.pool.QueryRow(ctx,
		`SELECT analysis_id, name, tile_width, tile_height, max_altitude, lakes, created_at
		 FROM analyses WHERE fingerprint = $1`, fingerprint,
	).Scan(&a.ID, &a.Name, &a.TileWidth, &a.TileHeight, &a.MaxAltitude, &a.Lakes, &a.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying analysis %q: %w", fingerprint, err)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT area_id, top_x, top_y, mini_tiles, highest_altitude, group_id, minerals, geysers
		 FROM areas WHERE analysis_id = $1 ORDER BY area_id`, a.ID)
	if err != nil {
		return nil, fmt.Errorf("querying areas of analysis %d: %w", a.ID, err)
	}
	a.Areas, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (AreaRow, error) {
		var x AreaRow
		err := row.Scan(&x.AreaID, &x.TopX, &x.TopY, &x.MiniTiles, &x.HighestAltitude, &x.Group, &x.Minerals, &x.Geysers)
		return x, err
	})
	if err != nil {
		return nil, fmt.Errorf("scanning areas of analysis %d: %w", a.ID, err)
	}

	rows, err = r.pool.Query(ctx,
		`SELECT connector_id, area_a, area_b, center_x, center_y, pseudo, blocked
		 FROM connectors WHERE analysis_id = $1 ORDER BY connector_id`, a.ID)
	if err != nil {
		return nil, fmt.Errorf("querying connectors of analysis %d: %w", a.ID, err)
	}
	a.Connectors, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (ConnectorRow, error) {
		var c ConnectorRow
		err := row.Scan(&c.ConnectorID, &c.AreaA, &c.AreaB, &c.CenterX, &c.CenterY, &c.Pseudo, &c.Blocked)
		return c, err
	})
	if err != nil {
		return nil, fmt.Errorf("scanning connectors of analysis %d: %w", a.ID, err)
	}

	rows, err = r.pool.Query(ctx,
		`SELECT base_id, area_id, location_x, location_y, minerals, geysers, blocking_minerals, starting
		 FROM bases WHERE analysis_id = $1 ORDER BY base_id`, a.ID)
	if err != nil {
		return nil, fmt.Errorf("querying bases of analysis %d: %w", a.ID, err)
	}
	a.Bases, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (BaseRow, error) {
		var b BaseRow
		err := row.Scan(&b.BaseID, &b.AreaID, &b.LocationX, &b.LocationY, &b.Minerals, &b.Geysers, &b.BlockingMinerals, &b.Starting)
		return b, err
	})
	if err != nil {
		return nil, fmt.Errorf("scanning bases of analysis %d: %w", a.ID, err)
	}
	return &a, nil
}

// Delete removes the analysis stored under fingerprint, if any.
func (r *AnalysisRepository) Delete(ctx context.Context, fingerprint string) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM analyses WHERE fingerprint = $1`, fingerprint); err != nil {
		return fmt.Errorf("deleting analysis %q: %w", fingerprint, err)
	}
	return nil
}
