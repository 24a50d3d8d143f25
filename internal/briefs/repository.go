package briefs

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/vantage/internal/signals"
	"github.com/JaimeStill/vantage/internal/themes"
	"github.com/JaimeStill/vantage/pkg/pagination"
	"github.com/JaimeStill/vantage/pkg/query"
	"github.com/JaimeStill/vantage/pkg/repository"
)

type repo struct {
	db         *sql.DB
	themes     themes.System
	signals    signals.System
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a brief repository implementing the System interface.
func New(
	db *sql.DB,
	themeSys themes.System,
	signalSys signals.System,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		themes:     themeSys,
		signals:    signalSys,
		logger:     logger.With("system", "briefs"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
) (*pagination.PageResult[WeeklyBrief], error) {
	page.Normalize(r.pagination)

	qb := query.NewBuilder(projection, defaultSort)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count briefs: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanBrief)
	if err != nil {
		return nil, fmt.Errorf("query briefs: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*WeeklyBrief, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	brief, err := repository.QueryOne(ctx, r.db, q, args, scanBrief)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	return &brief, nil
}

// Full expands a brief into its themes and their cited signals, preserving
// theme rank order.
func (r *repo) Full(ctx context.Context, id uuid.UUID) (*FullBrief, error) {
	brief, err := r.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	briefThemes, err := r.themes.ByIDs(ctx, brief.ThemeIDs)
	if err != nil {
		return nil, fmt.Errorf("load brief themes: %w", err)
	}

	views := make([]ThemeView, 0, len(briefThemes))
	for _, t := range briefThemes {
		sigs, err := r.signals.ByIDs(ctx, t.SignalIDs)
		if err != nil {
			return nil, fmt.Errorf("load theme signals: %w", err)
		}

		views = append(views, ThemeView{Theme: t, Signals: sigs})
	}

	return &FullBrief{
		ID:            brief.ID,
		WeekStart:     brief.WeekStart,
		WeekEnd:       brief.WeekEnd,
		TotalSignals:  brief.TotalSignals,
		CoverageAreas: brief.CoverageAreas,
		Themes:        views,
		GeneratedAt:   brief.GeneratedAt,
	}, nil
}

func (r *repo) Current(ctx context.Context) (*WeeklyBrief, error) {
	q, args := query.NewBuilder(projection, defaultSort).BuildPage(1, 1)

	briefs, err := repository.QueryMany(ctx, r.db, q, args, scanBrief)
	if err != nil {
		return nil, fmt.Errorf("query current brief: %w", err)
	}
	if len(briefs) == 0 {
		return nil, ErrNotFound
	}

	return &briefs[0], nil
}

func (r *repo) ForWeek(ctx context.Context, weekStart, weekEnd time.Time) (*WeeklyBrief, error) {
	qb := query.
		NewBuilder(projection).
		WhereEquals("WeekStart", weekStart).
		WhereEquals("WeekEnd", weekEnd)

	q, args := qb.Build()

	briefs, err := repository.QueryMany(ctx, r.db, q, args, scanBrief)
	if err != nil {
		return nil, fmt.Errorf("query brief for week: %w", err)
	}
	if len(briefs) == 0 {
		return nil, ErrNotFound
	}

	return &briefs[0], nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*WeeklyBrief, error) {
	themeIDsJSON, err := repository.MarshalJSONValue(cmd.ThemeIDs)
	if err != nil {
		return nil, fmt.Errorf("marshal theme ids: %w", err)
	}

	coverageJSON, err := repository.MarshalJSONValue(cmd.CoverageAreas)
	if err != nil {
		return nil, fmt.Errorf("marshal coverage areas: %w", err)
	}

	insert := `
		INSERT INTO weekly_briefs(week_start, week_end, theme_ids, total_signals, coverage_areas)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, week_start, week_end, theme_ids, total_signals, coverage_areas, generated_at`

	brief, err := repository.QueryOne(ctx, r.db, insert,
		[]any{cmd.WeekStart, cmd.WeekEnd, themeIDsJSON, cmd.TotalSignals, coverageJSON},
		scanBrief,
	)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("brief created",
		"id", brief.ID,
		"week_start", brief.WeekStart.Format("2006-01-02"),
		"week_end", brief.WeekEnd.Format("2006-01-02"),
		"themes", len(brief.ThemeIDs),
		"total_signals", brief.TotalSignals,
	)
	return &brief, nil
}
