package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/siherrmann/lexent/core/registry"
	"github.com/siherrmann/lexent/helper"
	"github.com/siherrmann/lexent/model"
	loadSql "github.com/siherrmann/lexent/sql"
)

// EntitiesDBHandlerFunctions defines the interface for Entities database operations.
type EntitiesDBHandlerFunctions interface {
	InsertEntity(entity *model.Entity) error
	InsertMention(entityID int64, mention model.Mention) error
	DeleteEntity(label string, name string) error
	SelectEntityByName(label string, name string) (*model.Entity, error)
	SelectEntitiesByLabel(label string) ([]*model.Entity, error)
	SelectEntitiesBySearch(searchTerm string, label *string, limit int) ([]*model.Entity, error)
	SelectEntityLabels() ([]string, error)
	SelectMentions(entityID int64) ([]model.Mention, error)
	MergeEntities(ctx context.Context, label string, target string, source string) error
	SaveRegistry(ctx context.Context, reg *registry.Registry) error
	LoadRegistry(ctx context.Context, label string) (*registry.Registry, error)
}

// EntitiesDBHandler stores registries as entities with ordered mentions.
type EntitiesDBHandler struct {
	db *helper.Database
}

// queryer is satisfied by *sql.DB and *sql.Tx.
type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// NewEntitiesDBHandler creates a new entities database handler.
// It initializes the database connection and loads entity-related SQL functions.
// If force is true, it will reload the SQL functions even if they already exist.
func NewEntitiesDBHandler(db *helper.Database, force bool) (*EntitiesDBHandler, error) {
	if db == nil {
		return nil, helper.NewError("database connection validation", fmt.Errorf("database connection is nil"))
	}

	entitiesDbHandler := &EntitiesDBHandler{
		db: db,
	}

	err := loadSql.LoadEntitiesSql(entitiesDbHandler.db.Instance, force)
	if err != nil {
		return nil, helper.NewError("load entities sql", err)
	}

	err = entitiesDbHandler.CreateTable()
	if err != nil {
		return nil, helper.NewError("create table", err)
	}

	db.Logger.Info("Initialized EntitiesDBHandler")

	return entitiesDbHandler, nil
}

// CreateTable creates the 'entities' and 'entity_mentions' tables in the database.
// If the tables already exist, it does not create them again.
func (h *EntitiesDBHandler) CreateTable() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := h.db.Instance.ExecContext(ctx, `SELECT init_entities();`)
	if err != nil {
		log.Panicf("error initializing entities table: %#v", err)
	}

	h.db.Logger.Info("Checked/created table entities")

	return nil
}

// InsertEntity inserts a new entity or merges the metadata of an existing one
func (h *EntitiesDBHandler) InsertEntity(entity *model.Entity) error {
	return insertEntity(context.Background(), h.db.Instance, entity)
}

func insertEntity(ctx context.Context, q queryer, entity *model.Entity) error {
	row := q.QueryRowContext(
		ctx,
		`SELECT * FROM insert_entity($1, $2, $3)`,
		entity.Label,
		entity.Name,
		entity.Metadata,
	)

	err := row.Scan(
		&entity.ID,
		&entity.RID,
		&entity.Label,
		&entity.Name,
		&entity.Metadata,
		&entity.CreatedAt,
	)
	if err != nil {
		return helper.NewError("scan", err)
	}

	return nil
}

// InsertMention appends a mention to an entity
func (h *EntitiesDBHandler) InsertMention(entityID int64, mention model.Mention) error {
	return insertMention(context.Background(), h.db.Instance, entityID, mention)
}

func insertMention(ctx context.Context, q queryer, entityID int64, mention model.Mention) error {
	_, err := q.ExecContext(
		ctx,
		`SELECT insert_mention($1, $2, $3, $4, $5, $6)`,
		entityID,
		mention.Page,
		mention.Text,
		mention.Start,
		mention.End,
		mention.SegmentNumber,
	)
	if err != nil {
		return helper.NewError("exec", err)
	}
	return nil
}

// DeleteEntity deletes an entity and its mentions
func (h *EntitiesDBHandler) DeleteEntity(label string, name string) error {
	_, err := h.db.Instance.Exec(
		`SELECT delete_entity($1, $2)`,
		label,
		name,
	)
	if err != nil {
		return helper.NewError("exec", err)
	}
	return nil
}

// SelectEntityByName retrieves an entity of a label with its mentions
func (h *EntitiesDBHandler) SelectEntityByName(label string, name string) (*model.Entity, error) {
	entity := &model.Entity{}
	row := h.db.Instance.QueryRow(
		`SELECT * FROM select_entity_by_name($1, $2)`,
		label,
		name,
	)

	err := row.Scan(
		&entity.ID,
		&entity.RID,
		&entity.Label,
		&entity.Name,
		&entity.Metadata,
		&entity.CreatedAt,
	)
	if err != nil {
		return nil, helper.NewError("scan", err)
	}

	entity.Mentions, err = h.SelectMentions(entity.ID)
	if err != nil {
		return nil, err
	}

	return entity, nil
}

// SelectEntitiesByLabel retrieves the entities of a label ordered by name, without mentions
func (h *EntitiesDBHandler) SelectEntitiesByLabel(label string) ([]*model.Entity, error) {
	return selectEntities(context.Background(), h.db.Instance, `SELECT * FROM select_entities_by_label($1)`, label)
}

// SelectEntitiesBySearch searches entity names by substring and trigram similarity
func (h *EntitiesDBHandler) SelectEntitiesBySearch(searchTerm string, label *string, limit int) ([]*model.Entity, error) {
	return selectEntities(context.Background(), h.db.Instance, `SELECT * FROM search_entities($1, $2, $3)`, searchTerm, label, limit)
}

func selectEntities(ctx context.Context, q queryer, query string, args ...any) ([]*model.Entity, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	var entities []*model.Entity
	for rows.Next() {
		entity := &model.Entity{}
		err := rows.Scan(
			&entity.ID,
			&entity.RID,
			&entity.Label,
			&entity.Name,
			&entity.Metadata,
			&entity.CreatedAt,
		)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}

		entities = append(entities, entity)
	}

	err = rows.Err()
	if err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return entities, nil
}

// SelectEntityLabels retrieves all labels with stored entities
func (h *EntitiesDBHandler) SelectEntityLabels() ([]string, error) {
	rows, err := h.db.Instance.Query(`SELECT * FROM select_entity_labels()`)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	var labels []string
	for rows.Next() {
		var label string
		if err := rows.Scan(&label); err != nil {
			return nil, helper.NewError("scan", err)
		}
		labels = append(labels, label)
	}

	err = rows.Err()
	if err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return labels, nil
}

// SelectMentions retrieves the mentions of an entity in insertion order
func (h *EntitiesDBHandler) SelectMentions(entityID int64) ([]model.Mention, error) {
	return selectMentions(context.Background(), h.db.Instance, entityID)
}

func selectMentions(ctx context.Context, q queryer, entityID int64) ([]model.Mention, error) {
	rows, err := q.QueryContext(ctx, `SELECT * FROM select_mentions_by_entity($1)`, entityID)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	var mentions []model.Mention
	for rows.Next() {
		var m model.Mention
		err := rows.Scan(
			&m.Page,
			&m.Text,
			&m.Start,
			&m.End,
			&m.SegmentNumber,
		)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}
		mentions = append(mentions, m)
	}

	err = rows.Err()
	if err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return mentions, nil
}

// MergeEntities appends the mentions of source to target, creating target if
// absent, and deletes source. It mirrors registry.Registry.Merge.
func (h *EntitiesDBHandler) MergeEntities(ctx context.Context, label string, target string, source string) error {
	_, err := h.db.Instance.ExecContext(
		ctx,
		`SELECT merge_entities($1, $2, $3)`,
		label,
		target,
		source,
	)
	if err != nil {
		return helper.NewError("exec", err)
	}
	return nil
}

// SaveRegistry replaces all stored entities of the registry's label with the
// registry content in one transaction.
func (h *EntitiesDBHandler) SaveRegistry(ctx context.Context, reg *registry.Registry) error {
	tx, err := h.db.Instance.BeginTx(ctx, nil)
	if err != nil {
		return helper.NewError("begin transaction", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	_, err = tx.ExecContext(ctx, `SELECT delete_entities_by_label($1)`, reg.Label)
	if err != nil {
		return helper.NewError("delete entities by label", err)
	}

	for _, name := range reg.Keys() {
		info, _ := reg.Get(name)
		entity := &model.Entity{Label: reg.Label, Name: name, Metadata: model.Metadata{}}
		if err := insertEntity(ctx, tx, entity); err != nil {
			return helper.NewError("insert entity "+name, err)
		}
		for _, mention := range info.Mentions {
			if err := insertMention(ctx, tx, entity.ID, mention); err != nil {
				return helper.NewError("insert mention of "+name, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return helper.NewError("commit", err)
	}

	h.db.Logger.Info("Saved registry", "label", reg.Label, "entities", reg.Len(), "mentions", reg.MentionCount())
	return nil
}

// LoadRegistry rebuilds the registry of a label with entities in name order
// and mentions in insertion order.
func (h *EntitiesDBHandler) LoadRegistry(ctx context.Context, label string) (*registry.Registry, error) {
	entities, err := selectEntities(ctx, h.db.Instance, `SELECT * FROM select_entities_by_label($1)`, label)
	if err != nil {
		return nil, err
	}

	reg := registry.New(label)
	for _, entity := range entities {
		mentions, err := selectMentions(ctx, h.db.Instance, entity.ID)
		if err != nil {
			return nil, err
		}
		info := reg.Ensure(entity.Name)
		for _, m := range mentions {
			info.Add(m)
		}
	}

	return reg, nil
}
