package themes

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/JaimeStill/vantage/pkg/pagination"
	"github.com/JaimeStill/vantage/pkg/query"
	"github.com/JaimeStill/vantage/pkg/repository"
)

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a theme repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "themes"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) List(ctx context.Context, page pagination.PageRequest) (*pagination.PageResult[Theme], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Title", "SoWhat")

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count themes: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanTheme)
	if err != nil {
		return nil, fmt.Errorf("query themes: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Theme, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	t, err := repository.QueryOne(ctx, r.db, q, args, scanTheme)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &t, nil
}

func (r *repo) ByIDs(ctx context.Context, ids []uuid.UUID) ([]Theme, error) {
	if len(ids) == 0 {
		return []Theme{}, nil
	}

	values := make([]any, len(ids))
	for i, id := range ids {
		values[i] = id
	}

	q, args := query.NewBuilder(projection).WhereIn("ID", values).Build()

	items, err := repository.QueryMany(ctx, r.db, q, args, scanTheme)
	if err != nil {
		return nil, fmt.Errorf("query themes by ids: %w", err)
	}

	// Preserve requested order.
	byID := make(map[uuid.UUID]Theme, len(items))
	for _, t := range items {
		byID[t.ID] = t
	}

	ordered := make([]Theme, 0, len(items))
	for _, id := range ids {
		if t, ok := byID[id]; ok {
			ordered = append(ordered, t)
		}
	}

	return ordered, nil
}

func (r *repo) Save(ctx context.Context, draft Draft) (*Theme, error) {
	signalIDsJSON, err := repository.MarshalJSONValue(draft.SignalIDs())
	if err != nil {
		return nil, fmt.Errorf("marshal signal ids: %w", err)
	}

	keyPlayersJSON, err := repository.MarshalJSONValue(draft.KeyPlayers)
	if err != nil {
		return nil, fmt.Errorf("marshal key players: %w", err)
	}

	impactAreasJSON, err := repository.MarshalJSONValue(draft.ImpactAreas)
	if err != nil {
		return nil, fmt.Errorf("marshal impact areas: %w", err)
	}

	nowWhatJSON, err := repository.MarshalJSONValue(draft.NowWhat)
	if err != nil {
		return nil, fmt.Errorf("marshal now what: %w", err)
	}

	insertQ := `
		INSERT INTO themes(
			title, signal_ids, key_players, aggregate_confidence,
			impact_areas, so_what, now_what, is_competitor
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, title, signal_ids, key_players, aggregate_confidence,
				  impact_areas, so_what, now_what, is_competitor, created_at`

	t, err := repository.QueryOne(ctx, r.db, insertQ,
		[]any{draft.Title, signalIDsJSON, keyPlayersJSON, draft.AggregateConfidence,
			impactAreasJSON, draft.SoWhat, nowWhatJSON, draft.IsCompetitor},
		scanTheme,
	)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("theme saved",
		"id", t.ID,
		"title", t.Title,
		"signals", len(t.SignalIDs),
		"is_competitor", t.IsCompetitor,
	)
	return &t, nil
}

func (r *repo) Delete(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}

	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		for _, id := range ids {
			if _, err := tx.ExecContext(ctx, "DELETE FROM themes WHERE id = $1", id); err != nil {
				return struct{}{}, fmt.Errorf("delete theme %s: %w", id, err)
			}
		}
		return struct{}{}, nil
	})

	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("themes deleted", "count", len(ids))
	return nil
}
