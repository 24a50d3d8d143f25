package entities

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/JaimeStill/vantage/pkg/pagination"
	"github.com/JaimeStill/vantage/pkg/query"
	"github.com/JaimeStill/vantage/pkg/repository"
)

type repo struct {
	db         *sql.DB
	resolver   *Resolver
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates an entity repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger, pagination pagination.Config) System {
	r := &repo{
		db:         db,
		logger:     logger.With("system", "entities"),
		pagination: pagination,
	}
	r.resolver = NewResolver(r.All)
	return r
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Entity], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Name", "Notes")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count entities: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanEntity)
	if err != nil {
		return nil, fmt.Errorf("query entities: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) All(ctx context.Context) ([]Entity, error) {
	q, args := query.NewBuilder(projection, defaultSort).Build()

	items, err := repository.QueryMany(ctx, r.db, q, args, scanEntity)
	if err != nil {
		return nil, fmt.Errorf("query entity catalog: %w", err)
	}
	return items, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Entity, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	e, err := repository.QueryOne(ctx, r.db, q, args, scanEntity)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &e, nil
}

func (r *repo) FindByName(ctx context.Context, name string) (*Entity, error) {
	findQ := `
		SELECT id, name, segment, aliases, metadata, notes, created_at, updated_at
		FROM entities
		WHERE LOWER(name) = LOWER($1)
		   OR aliases @> jsonb_build_array($1::text)
		LIMIT 1`

	e, err := repository.QueryOne(ctx, r.db, findQ, []any{name}, scanEntity)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &e, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Entity, error) {
	cmd.Name = strings.TrimSpace(cmd.Name)
	if cmd.Name == "" {
		return nil, ErrInvalidName
	}

	if cmd.Segment == "" {
		cmd.Segment = InferSegment(cmd.Name)
	}
	if !ValidSegment(cmd.Segment) {
		return nil, ErrInvalidSegment
	}

	if cmd.Aliases == nil {
		cmd.Aliases = []string{}
	}

	aliasesJSON, err := repository.MarshalJSONValue(cmd.Aliases)
	if err != nil {
		return nil, fmt.Errorf("marshal aliases: %w", err)
	}

	metadataJSON, err := repository.MarshalJSONValue(cmd.Metadata)
	if err != nil {
		return nil, fmt.Errorf("marshal metadata: %w", err)
	}

	insertQ := `
		INSERT INTO entities(name, segment, aliases, metadata, notes)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, name, segment, aliases, metadata, notes, created_at, updated_at`

	e, err := repository.QueryOne(ctx, r.db, insertQ,
		[]any{cmd.Name, cmd.Segment, aliasesJSON, metadataJSON, cmd.Notes},
		scanEntity,
	)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.resolver.Invalidate()

	r.logger.Info("entity created",
		"id", e.ID,
		"name", e.Name,
		"segment", e.Segment,
	)
	return &e, nil
}

func (r *repo) Ensure(ctx context.Context, name string) (*Entity, error) {
	e, err := r.FindByName(ctx, name)
	if err == nil {
		return e, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	return r.Create(ctx, CreateCommand{
		Name:    name,
		Segment: InferSegment(name),
	})
}

func (r *repo) Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*Entity, error) {
	if cmd.Segment != nil && !ValidSegment(*cmd.Segment) {
		return nil, ErrInvalidSegment
	}

	e, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Entity, error) {
		findQ, findArgs := query.NewBuilder(projection).BuildSingle("ID", id)
		current, err := repository.QueryOne(ctx, tx, findQ, findArgs, scanEntity)
		if err != nil {
			return Entity{}, err
		}

		if cmd.Name != nil {
			current.Name = strings.TrimSpace(*cmd.Name)
			if current.Name == "" {
				return Entity{}, ErrInvalidName
			}
		}
		if cmd.Segment != nil {
			current.Segment = *cmd.Segment
		}
		if cmd.Aliases != nil {
			current.Aliases = cmd.Aliases
		}
		if cmd.Metadata != nil {
			current.Metadata = cmd.Metadata
		}
		if cmd.Notes != nil {
			current.Notes = cmd.Notes
		}

		aliasesJSON, err := repository.MarshalJSONValue(current.Aliases)
		if err != nil {
			return Entity{}, fmt.Errorf("marshal aliases: %w", err)
		}

		metadataJSON, err := repository.MarshalJSONValue(current.Metadata)
		if err != nil {
			return Entity{}, fmt.Errorf("marshal metadata: %w", err)
		}

		updateQ := `
			UPDATE entities
			SET name = $1, segment = $2, aliases = $3, metadata = $4,
			    notes = $5, updated_at = NOW()
			WHERE id = $6
			RETURNING id, name, segment, aliases, metadata, notes, created_at, updated_at`

		return repository.QueryOne(ctx, tx, updateQ,
			[]any{current.Name, current.Segment, aliasesJSON, metadataJSON, current.Notes, id},
			scanEntity,
		)
	})

	if err != nil {
		if err == ErrInvalidName {
			return nil, err
		}
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.resolver.Invalidate()

	r.logger.Info("entity updated", "id", e.ID, "name", e.Name)
	return &e, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		if err := repository.ExecExpectOne(
			ctx, tx,
			"DELETE FROM entities WHERE id = $1",
			id,
		); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, nil
	})

	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.resolver.Invalidate()

	r.logger.Info("entity deleted", "id", id)
	return nil
}

func (r *repo) SegmentStatistics(ctx context.Context) ([]SegmentStats, error) {
	statsQ := `
		SELECT seg.segment,
		       COUNT(DISTINCT e.id) AS entity_count,
		       COUNT(se.signal_id) AS signal_count,
		       COUNT(se.signal_id) FILTER (
		           WHERE s.created_at >= NOW() - INTERVAL '7 days'
		             AND s.deleted_at IS NULL
		       ) AS recent_signals
		FROM (VALUES ('customer'), ('competitor'), ('industry'), ('influencer'))
		     AS seg(segment)
		LEFT JOIN entities e ON e.segment = seg.segment
		LEFT JOIN signal_entities se ON se.entity_id = e.id
		LEFT JOIN signals s ON s.id = se.signal_id
		GROUP BY seg.segment
		ORDER BY seg.segment`

	stats, err := repository.QueryMany(ctx, r.db, statsQ, nil,
		func(s repository.Scanner) (SegmentStats, error) {
			var st SegmentStats
			err := s.Scan(&st.Segment, &st.EntityCount, &st.SignalCount, &st.RecentSignals)
			return st, err
		},
	)
	if err != nil {
		return nil, fmt.Errorf("query segment statistics: %w", err)
	}
	return stats, nil
}

func (r *repo) Resolve(ctx context.Context, text string) ([]Match, error) {
	return r.resolver.Resolve(ctx, text)
}
