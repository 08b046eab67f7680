// Package sqlite provides a SQLite implementation of the WorldStore interface.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/ersonp/world-core/internal/domain/entities"
	"github.com/ersonp/world-core/internal/domain/ports"
	"github.com/ersonp/world-core/internal/infrastructure/config"
)

// timeNow returns the current time (can be mocked in tests).
var timeNow = time.Now

// Repository implements ports.WorldStore using SQLite.
type Repository struct {
	db   *sql.DB
	path string
}

// NewRepository creates a new SQLite repository.
func NewRepository(cfg config.SQLiteConfig) (*Repository, error) {
	if cfg.Path == "" {
		return nil, errors.New("sqlite path is required")
	}

	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}

	// Enable foreign keys for referential integrity
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	// Enable WAL mode for better concurrent read/write performance
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	// Set busy timeout to avoid "database is locked" errors
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	return &Repository{
		db:   db,
		path: cfg.Path,
	}, nil
}

// Close closes the database connection.
func (r *Repository) Close() error {
	return r.db.Close()
}

// Path returns the database file path.
func (r *Repository) Path() string {
	return r.path
}

// EnsureSchema creates the database schema if it doesn't exist.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	schema := `
	-- Generated worlds
	CREATE TABLE IF NOT EXISTS worlds (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	-- Regions of a world (flat; regions are never bucketed)
	CREATE TABLE IF NOT EXISTS regions (
		id TEXT NOT NULL,
		world_id TEXT NOT NULL REFERENCES worlds(id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		grid_x INTEGER NOT NULL,
		grid_y INTEGER NOT NULL,
		theme TEXT NOT NULL DEFAULT '',
		biome TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (world_id, id)
	);

	-- Placed entities (items, NPCs, locations)
	CREATE TABLE IF NOT EXISTS world_entities (
		id TEXT NOT NULL,
		world_id TEXT NOT NULL REFERENCES worlds(id) ON DELETE CASCADE,
		kind TEXT NOT NULL,
		name TEXT NOT NULL,
		rarity TEXT NOT NULL,
		category TEXT NOT NULL,
		visual_description TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		purpose TEXT NOT NULL DEFAULT '',
		image_ref TEXT NOT NULL DEFAULT '',
		region TEXT NOT NULL,
		x INTEGER NOT NULL,
		y INTEGER NOT NULL,
		attributes TEXT NOT NULL DEFAULT '{}',
		conversation TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (world_id, id)
	);
	CREATE INDEX IF NOT EXISTS idx_entities_world_kind ON world_entities(world_id, kind);
	CREATE INDEX IF NOT EXISTS idx_entities_bucket ON world_entities(world_id, region, x, y);
	`

	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

// SaveWorld persists a world with all its regions and entities in one
// transaction.
func (r *Repository) SaveWorld(ctx context.Context, world *entities.World) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	createdAt := world.CreatedAt
	if createdAt.IsZero() {
		createdAt = timeNow()
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO worlds (id, name, created_at) VALUES (?, ?, ?)`,
		world.ID, world.Name, createdAt,
	); err != nil {
		return fmt.Errorf("saving world: %w", err)
	}

	for i := range world.Regions {
		region := &world.Regions[i]
		if _, err := tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO regions (id, world_id, name, grid_x, grid_y, theme, biome, description, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			region.ID, world.ID, region.Name, region.GridX, region.GridY,
			region.Theme, region.Biome, region.Description, region.CreatedAt,
		); err != nil {
			return fmt.Errorf("saving region %s: %w", region.ID, err)
		}
	}

	for _, e := range world.AllEntities() {
		if err := saveEntityTx(ctx, tx, world.ID, e); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// SaveEntity upserts a single entity of an already-saved world.
func (r *Repository) SaveEntity(ctx context.Context, worldID string, entity *entities.Entity) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := saveEntityTx(ctx, tx, worldID, entity); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// saveEntityTx upserts one entity row inside an open transaction.
func saveEntityTx(ctx context.Context, tx *sql.Tx, worldID string, e *entities.Entity) error {
	attrsJSON, err := json.Marshal(e.Attributes)
	if err != nil {
		return fmt.Errorf("marshaling attributes for %s: %w", e.ID, err)
	}

	var convJSON any
	if e.Conversation != nil {
		raw, err := json.Marshal(e.Conversation)
		if err != nil {
			return fmt.Errorf("marshaling conversation for %s: %w", e.ID, err)
		}
		convJSON = string(raw)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO world_entities
		 (id, world_id, kind, name, rarity, category, visual_description, description, purpose, image_ref, region, x, y, attributes, conversation, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, worldID, string(e.Kind), e.Name, string(e.Rarity), e.Category,
		e.VisualDescription, e.Description, e.Purpose, e.ImageRef,
		e.Position.Region, e.Position.X, e.Position.Y,
		string(attrsJSON), convJSON, e.CreatedAt,
	); err != nil {
		return fmt.Errorf("saving entity %s: %w", e.ID, err)
	}
	return nil
}

// FindWorld loads a world by ID, including regions and entities.
func (r *Repository) FindWorld(ctx context.Context, id string) (*entities.World, error) {
	world := &entities.World{ID: id}

	err := r.db.QueryRowContext(ctx,
		`SELECT name, created_at FROM worlds WHERE id = ?`, id,
	).Scan(&world.Name, &world.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("world not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("loading world: %w", err)
	}

	regions, err := r.loadRegions(ctx, id)
	if err != nil {
		return nil, err
	}
	world.Regions = regions

	ents, err := r.loadEntities(ctx, id)
	if err != nil {
		return nil, err
	}
	for _, e := range ents {
		switch e.Kind {
		case entities.KindLocation:
			world.Locations = append(world.Locations, e)
		case entities.KindNPC:
			world.NPCs = append(world.NPCs, e)
		case entities.KindItem:
			world.Items = append(world.Items, e)
		}
	}

	return world, nil
}

// ListWorlds returns summaries of all saved worlds, newest first.
func (r *Repository) ListWorlds(ctx context.Context) ([]ports.WorldSummary, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT w.id, w.name, w.created_at,
			(SELECT COUNT(*) FROM regions rg WHERE rg.world_id = w.id),
			(SELECT COUNT(*) FROM world_entities we WHERE we.world_id = w.id)
		FROM worlds w
		ORDER BY w.created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing worlds: %w", err)
	}
	defer rows.Close()

	var summaries []ports.WorldSummary
	for rows.Next() {
		var s ports.WorldSummary
		var createdAt time.Time
		if err := rows.Scan(&s.ID, &s.Name, &createdAt, &s.RegionCount, &s.EntityCount); err != nil {
			return nil, fmt.Errorf("scanning world row: %w", err)
		}
		s.CreatedAt = createdAt.Format(time.RFC3339)
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

// DeleteWorld removes a world; regions and entities cascade.
func (r *Repository) DeleteWorld(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM worlds WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting world: %w", err)
	}
	return nil
}

// loadRegions loads all regions of a world in creation order.
func (r *Repository) loadRegions(ctx context.Context, worldID string) ([]entities.Region, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, grid_x, grid_y, theme, biome, description, created_at
		 FROM regions WHERE world_id = ? ORDER BY created_at, id`, worldID)
	if err != nil {
		return nil, fmt.Errorf("loading regions: %w", err)
	}
	defer rows.Close()

	var regions []entities.Region
	for rows.Next() {
		var region entities.Region
		if err := rows.Scan(&region.ID, &region.Name, &region.GridX, &region.GridY,
			&region.Theme, &region.Biome, &region.Description, &region.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning region row: %w", err)
		}
		regions = append(regions, region)
	}
	return regions, rows.Err()
}

// loadEntities loads all entities of a world.
func (r *Repository) loadEntities(ctx context.Context, worldID string) ([]*entities.Entity, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, kind, name, rarity, category, visual_description, description, purpose, image_ref, region, x, y, attributes, conversation, created_at
		 FROM world_entities WHERE world_id = ? ORDER BY created_at, id`, worldID)
	if err != nil {
		return nil, fmt.Errorf("loading entities: %w", err)
	}
	defer rows.Close()

	var ents []*entities.Entity
	for rows.Next() {
		var (
			e         entities.Entity
			kind      string
			rarity    string
			attrsJSON string
			convJSON  sql.NullString
		)
		if err := rows.Scan(&e.ID, &kind, &e.Name, &rarity, &e.Category,
			&e.VisualDescription, &e.Description, &e.Purpose, &e.ImageRef,
			&e.Position.Region, &e.Position.X, &e.Position.Y,
			&attrsJSON, &convJSON, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning entity row: %w", err)
		}

		e.Kind = entities.Kind(kind)
		e.Rarity = entities.Rarity(rarity)

		if err := json.Unmarshal([]byte(attrsJSON), &e.Attributes); err != nil {
			return nil, fmt.Errorf("unmarshaling attributes for %s: %w", e.ID, err)
		}
		if convJSON.Valid {
			if err := json.Unmarshal([]byte(convJSON.String), &e.Conversation); err != nil {
				return nil, fmt.Errorf("unmarshaling conversation for %s: %w", e.ID, err)
			}
		}

		ents = append(ents, &e)
	}
	return ents, rows.Err()
}
