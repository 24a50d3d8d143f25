package sources

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/JaimeStill/vantage/internal/classify"
	"github.com/JaimeStill/vantage/pkg/pagination"
	"github.com/JaimeStill/vantage/pkg/query"
	"github.com/JaimeStill/vantage/pkg/repository"
)

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a data source repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "sources"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[DataSource], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Name", "URL")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count data sources: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanSource)
	if err != nil {
		return nil, fmt.Errorf("query data sources: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Enabled(ctx context.Context) ([]DataSource, error) {
	enabled := true
	qb := query.
		NewBuilder(projection, defaultSort).
		WhereEquals("Enabled", &enabled)

	q, args := qb.Build()

	items, err := repository.QueryMany(ctx, r.db, q, args, scanSource)
	if err != nil {
		return nil, fmt.Errorf("query enabled data sources: %w", err)
	}
	return items, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*DataSource, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	d, err := repository.QueryOne(ctx, r.db, q, args, scanSource)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &d, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*DataSource, error) {
	cmd.Name = strings.TrimSpace(cmd.Name)
	if cmd.Name == "" {
		return nil, ErrInvalidName
	}
	if !validSourceType(cmd.SourceType) {
		return nil, ErrInvalidSourceType
	}

	if cmd.DefaultConfidence == "" {
		cmd.DefaultConfidence = classify.ConfidenceMedium
	}
	if !classify.ValidConfidence(cmd.DefaultConfidence) {
		return nil, ErrInvalidConfidence
	}

	if cmd.DefaultImpactAreas == nil {
		cmd.DefaultImpactAreas = []string{}
	}
	for _, area := range cmd.DefaultImpactAreas {
		if !classify.ValidImpactArea(area) {
			return nil, ErrInvalidImpactAreas
		}
	}

	enabled := true
	if cmd.Enabled != nil {
		enabled = *cmd.Enabled
	}

	configJSON, err := repository.MarshalJSONValue(cmd.Config)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}

	areasJSON, err := repository.MarshalJSONValue(cmd.DefaultImpactAreas)
	if err != nil {
		return nil, fmt.Errorf("marshal default impact areas: %w", err)
	}

	insertQ := `
		INSERT INTO data_sources(
			name, source_type, url, config, enabled,
			default_confidence, default_impact_areas
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + returningColumns

	d, err := repository.QueryOne(ctx, r.db, insertQ,
		[]any{cmd.Name, cmd.SourceType, cmd.URL, configJSON, enabled, cmd.DefaultConfidence, areasJSON},
		scanSource,
	)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("data source created",
		"id", d.ID,
		"name", d.Name,
		"source_type", d.SourceType,
	)
	return &d, nil
}

func (r *repo) Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*DataSource, error) {
	if cmd.DefaultConfidence != nil && !classify.ValidConfidence(*cmd.DefaultConfidence) {
		return nil, ErrInvalidConfidence
	}
	for _, area := range cmd.DefaultImpactAreas {
		if !classify.ValidImpactArea(area) {
			return nil, ErrInvalidImpactAreas
		}
	}

	d, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (DataSource, error) {
		findQ, findArgs := query.NewBuilder(projection).BuildSingle("ID", id)
		current, err := repository.QueryOne(ctx, tx, findQ, findArgs, scanSource)
		if err != nil {
			return DataSource{}, err
		}

		if cmd.Name != nil {
			current.Name = strings.TrimSpace(*cmd.Name)
			if current.Name == "" {
				return DataSource{}, ErrInvalidName
			}
		}
		if cmd.URL != nil {
			current.URL = cmd.URL
		}
		if cmd.Config != nil {
			current.Config = cmd.Config
		}
		if cmd.Enabled != nil {
			current.Enabled = *cmd.Enabled
		}
		if cmd.DefaultConfidence != nil {
			current.DefaultConfidence = *cmd.DefaultConfidence
		}
		if cmd.DefaultImpactAreas != nil {
			current.DefaultImpactAreas = cmd.DefaultImpactAreas
		}

		configJSON, err := repository.MarshalJSONValue(current.Config)
		if err != nil {
			return DataSource{}, fmt.Errorf("marshal config: %w", err)
		}

		areasJSON, err := repository.MarshalJSONValue(current.DefaultImpactAreas)
		if err != nil {
			return DataSource{}, fmt.Errorf("marshal default impact areas: %w", err)
		}

		updateQ := `
			UPDATE data_sources
			SET name = $1, url = $2, config = $3, enabled = $4,
			    default_confidence = $5, default_impact_areas = $6,
			    updated_at = NOW()
			WHERE id = $7
			RETURNING ` + returningColumns

		return repository.QueryOne(ctx, tx, updateQ,
			[]any{current.Name, current.URL, configJSON, current.Enabled,
				current.DefaultConfidence, areasJSON, id},
			scanSource,
		)
	})

	if err != nil {
		if err == ErrInvalidName {
			return nil, err
		}
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("data source updated", "id", d.ID, "name", d.Name)
	return &d, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		if err := repository.ExecExpectOne(
			ctx, tx,
			"DELETE FROM data_sources WHERE id = $1",
			id,
		); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, nil
	})

	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("data source deleted", "id", id)
	return nil
}

func (r *repo) RecordSuccess(ctx context.Context, id uuid.UUID) error {
	err := repository.ExecExpectOne(ctx, r.db, `
		UPDATE data_sources
		SET last_fetched_at = NOW(), last_success_at = NOW(),
		    error_count = 0, last_error = NULL, updated_at = NOW()
		WHERE id = $1`,
		id,
	)
	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return nil
}

func (r *repo) RecordFailure(ctx context.Context, id uuid.UUID, collectErr error) error {
	msg := collectErr.Error()
	if len(msg) > 1000 {
		msg = msg[:1000]
	}

	err := repository.ExecExpectOne(ctx, r.db, `
		UPDATE data_sources
		SET last_fetched_at = NOW(), error_count = error_count + 1,
		    last_error = $1, updated_at = NOW()
		WHERE id = $2`,
		msg, id,
	)
	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return nil
}

const returningColumns = `id, name, source_type, url, config, enabled,
		last_fetched_at, last_success_at, error_count, last_error,
		default_confidence, default_impact_areas, created_at, updated_at`

func validSourceType(v string) bool {
	switch v {
	case TypeRSS, TypeWeb, TypeLinkedIn, TypeEmail:
		return true
	}
	return false
}
