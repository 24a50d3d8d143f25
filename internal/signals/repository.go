package signals

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/vantage/internal/classify"
	"github.com/JaimeStill/vantage/internal/embeddings"
	"github.com/JaimeStill/vantage/internal/entities"
	"github.com/JaimeStill/vantage/pkg/pagination"
	"github.com/JaimeStill/vantage/pkg/query"
	"github.com/JaimeStill/vantage/pkg/repository"
)

type repo struct {
	db         *sql.DB
	entities   entities.System
	provider   embeddings.Provider
	index      *embeddings.Index
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a signal repository implementing the System interface.
func New(
	db *sql.DB,
	ents entities.System,
	provider embeddings.Provider,
	index *embeddings.Index,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		entities:   ents,
		provider:   provider,
		index:      index,
		logger:     logger.With("system", "signals"),
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
) (*pagination.PageResult[Signal], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereNullable("DeletedAt", nil).
		WhereSearch(page.Search, "Entity", "Topic", "EvidenceSnippet")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count signals: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanSignal)
	if err != nil {
		return nil, fmt.Errorf("query signals: %w", err)
	}

	if err := r.attachLinks(ctx, items); err != nil {
		return nil, err
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Signal, error) {
	qb := query.
		NewBuilder(projection).
		WhereEquals("ID", id).
		WhereNullable("DeletedAt", nil)

	q, args := qb.BuildSingleOrNull()

	sig, err := repository.QueryOne(ctx, r.db, q, args, scanSignal)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	items := []Signal{sig}
	if err := r.attachLinks(ctx, items); err != nil {
		return nil, err
	}

	return &items[0], nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Signal, error) {
	if err := validateCreate(&cmd); err != nil {
		return nil, err
	}

	if err := r.checkDuplicate(ctx, cmd.SourceURL); err != nil {
		return nil, err
	}

	primary, err := r.entities.Ensure(ctx, cmd.Entity)
	if err != nil {
		return nil, fmt.Errorf("ensure primary entity: %w", err)
	}

	linkIDs := []uuid.UUID{primary.ID}
	for _, tag := range cmd.EntityTags {
		e, err := r.entities.FindByName(ctx, tag)
		if err != nil {
			continue
		}
		if !slices.Contains(linkIDs, e.ID) {
			linkIDs = append(linkIDs, e.ID)
		}
	}

	sig, err := r.insert(ctx, cmd, linkIDs)
	if err != nil {
		return nil, err
	}

	r.embed(ctx, sig, "")

	r.logger.Info("signal created",
		"id", sig.ID,
		"entity", sig.Entity,
		"topic", sig.Topic,
		"status", sig.Status,
	)
	return sig, nil
}

func (r *repo) CreateFromCollector(ctx context.Context, cs CollectorSignal) (*Signal, error) {
	cmd := CreateCommand{
		Entity:          cs.Entity,
		EventType:       cs.EventType,
		Topic:           cs.Topic,
		SourceURL:       cs.SourceURL,
		EvidenceSnippet: cs.EvidenceSnippet,
		Confidence:      cs.Confidence,
		ImpactAreas:     cs.ImpactAreas,
		EntityTags:      cs.EntityTags,
		Status:          cs.Status,
		Notes:           cs.Notes,
		DataSourceID:    cs.DataSourceID,
	}

	if err := validateCreate(&cmd); err != nil {
		return nil, err
	}

	if err := r.checkDuplicate(ctx, cmd.SourceURL); err != nil {
		return nil, err
	}

	matches, err := r.entities.Resolve(ctx, cs.Title+" "+cs.EvidenceSnippet)
	if err != nil {
		r.logger.Warn("entity resolution failed", "error", err)
		matches = nil
	}

	primary, err := r.entities.Ensure(ctx, cmd.Entity)
	if err != nil {
		return nil, fmt.Errorf("ensure primary entity: %w", err)
	}

	linkIDs := []uuid.UUID{primary.ID}
	for _, m := range matches {
		if m.ID == primary.ID {
			continue
		}
		if !slices.Contains(linkIDs, m.ID) {
			linkIDs = append(linkIDs, m.ID)
		}
		if !containsFold(cmd.EntityTags, m.Name) {
			cmd.EntityTags = append(cmd.EntityTags, m.Name)
		}
	}

	sig, err := r.insert(ctx, cmd, linkIDs)
	if err != nil {
		return nil, err
	}

	r.embed(ctx, sig, cs.Title)

	r.logger.Info("signal collected",
		"id", sig.ID,
		"entity", sig.Entity,
		"topic", sig.Topic,
		"status", sig.Status,
		"linked_entities", len(linkIDs),
	)
	return sig, nil
}

func (r *repo) Review(ctx context.Context, id uuid.UUID, cmd ReviewCommand) (*Signal, error) {
	if cmd.Status != StatusApproved && cmd.Status != StatusRejected {
		return nil, ErrInvalidStatus
	}

	reviewQ := `
		UPDATE signals
		SET status = $1, reviewed_by = $2, reviewed_at = NOW(), updated_at = NOW()
		WHERE id = $3 AND deleted_at IS NULL
		RETURNING ` + returningColumns

	sig, err := repository.QueryOne(ctx, r.db, reviewQ,
		[]any{cmd.Status, cmd.ReviewerName, id},
		scanSignal,
	)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("signal reviewed",
		"id", sig.ID,
		"status", sig.Status,
		"reviewed_by", cmd.ReviewerName,
	)
	return &sig, nil
}

func (r *repo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		if err := repository.ExecExpectOne(
			ctx, tx,
			"UPDATE signals SET deleted_at = NOW(), updated_at = NOW() WHERE id = $1 AND deleted_at IS NULL",
			id,
		); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, nil
	})

	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.index.Remove(id.String())

	r.logger.Info("signal deleted", "id", id)
	return nil
}

func (r *repo) ForWeek(ctx context.Context, weekEnd time.Time) ([]Signal, error) {
	weekStart := weekEnd.AddDate(0, 0, -6)
	start := time.Date(weekStart.Year(), weekStart.Month(), weekStart.Day(), 0, 0, 0, 0, weekStart.Location())
	end := time.Date(weekEnd.Year(), weekEnd.Month(), weekEnd.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), weekEnd.Location())

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereNullable("DeletedAt", nil).
		WhereRaw("s.created_at >= $%d", start).
		WhereRaw("s.created_at <= $%d", end)

	q, args := qb.Build()

	items, err := repository.QueryMany(ctx, r.db, q, args, scanSignal)
	if err != nil {
		return nil, fmt.Errorf("query signals for week: %w", err)
	}

	if err := r.attachLinks(ctx, items); err != nil {
		return nil, err
	}

	return items, nil
}

func (r *repo) ByIDs(ctx context.Context, ids []uuid.UUID) ([]Signal, error) {
	if len(ids) == 0 {
		return []Signal{}, nil
	}

	values := make([]any, len(ids))
	for i, id := range ids {
		values[i] = id
	}

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereNullable("DeletedAt", nil).
		WhereIn("ID", values)

	q, args := qb.Build()

	items, err := repository.QueryMany(ctx, r.db, q, args, scanSignal)
	if err != nil {
		return nil, fmt.Errorf("query signals by ids: %w", err)
	}

	if err := r.attachLinks(ctx, items); err != nil {
		return nil, err
	}

	return items, nil
}

func (r *repo) SemanticSearch(ctx context.Context, q string, limit int) ([]SearchResult, error) {
	if !r.provider.Available() {
		r.logger.Warn("semantic search skipped, embedding provider unavailable")
		return []SearchResult{}, nil
	}

	if limit <= 0 {
		limit = 20
	}

	vec, err := r.provider.Embed(ctx, q)
	if err != nil {
		r.logger.Warn("query embedding failed", "error", err)
		return []SearchResult{}, nil
	}

	neighbors := r.index.Search(vec, limit)
	if len(neighbors) == 0 {
		return []SearchResult{}, nil
	}

	ids := make([]uuid.UUID, 0, len(neighbors))
	similarity := make(map[uuid.UUID]float32, len(neighbors))
	for _, n := range neighbors {
		id, err := uuid.Parse(n.ID)
		if err != nil {
			continue
		}
		ids = append(ids, id)
		similarity[id] = n.Similarity
	}

	items, err := r.ByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]Signal, len(items))
	for _, s := range items {
		byID[s.ID] = s
	}

	results := make([]SearchResult, 0, len(ids))
	for _, id := range ids {
		if s, ok := byID[id]; ok {
			results = append(results, SearchResult{Signal: s, Similarity: similarity[id]})
		}
	}

	return results, nil
}

// WarmIndex loads stored embeddings into the vector index. Called once at
// startup; returns the number of indexed signals.
func (r *repo) WarmIndex(ctx context.Context) (int, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, embedding FROM signals WHERE deleted_at IS NULL AND embedding IS NOT NULL",
	)
	if err != nil {
		return 0, fmt.Errorf("query embeddings: %w", err)
	}
	defer rows.Close()

	count := 0
	for rows.Next() {
		var id uuid.UUID
		var vec repository.JSON[[]float32]
		if err := rows.Scan(&id, &vec); err != nil {
			return count, fmt.Errorf("scan embedding: %w", err)
		}
		r.index.Add(id.String(), vec.V)
		count++
	}

	if err := rows.Err(); err != nil {
		return count, err
	}

	r.logger.Info("embedding index warmed", "signals", count)
	return count, nil
}

const returningColumns = `id, entity, event_type, topic, source_url, evidence_snippet,
		confidence, impact_areas, entity_tags, status, curator_name,
		reviewed_by, reviewed_at, notes, data_source_id, embedding,
		created_at, updated_at, deleted_at`

func (r *repo) insert(ctx context.Context, cmd CreateCommand, linkIDs []uuid.UUID) (*Signal, error) {
	impactJSON, err := repository.MarshalJSONValue(cmd.ImpactAreas)
	if err != nil {
		return nil, fmt.Errorf("marshal impact areas: %w", err)
	}

	tagsJSON, err := repository.MarshalJSONValue(cmd.EntityTags)
	if err != nil {
		return nil, fmt.Errorf("marshal entity tags: %w", err)
	}

	insertQ := `
		INSERT INTO signals(
			entity, event_type, topic, source_url, evidence_snippet,
			confidence, impact_areas, entity_tags, status, curator_name,
			notes, data_source_id
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING ` + returningColumns

	insertArgs := []any{
		cmd.Entity,
		cmd.EventType,
		cmd.Topic,
		cmd.SourceURL,
		cmd.EvidenceSnippet,
		cmd.Confidence,
		impactJSON,
		tagsJSON,
		cmd.Status,
		cmd.CuratorName,
		cmd.Notes,
		cmd.DataSourceID,
	}

	sig, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Signal, error) {
		s, err := repository.QueryOne(ctx, tx, insertQ, insertArgs, scanSignal)
		if err != nil {
			return Signal{}, fmt.Errorf("insert signal: %w", err)
		}

		for i, entityID := range linkIDs {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO signal_entities(signal_id, entity_id, is_primary) VALUES ($1, $2, $3)",
				s.ID, entityID, i == 0,
			); err != nil {
				return Signal{}, fmt.Errorf("link entity: %w", err)
			}
		}

		return s, nil
	})

	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	return &sig, nil
}

// embed generates and stores the signal embedding best-effort. Failures are
// logged and never surfaced to the caller.
func (r *repo) embed(ctx context.Context, sig *Signal, title string) {
	if !r.provider.Available() {
		return
	}

	text := embeddings.SignalText(title, sig.EvidenceSnippet, sig.Entity, sig.Topic)
	vec, err := r.provider.Embed(ctx, text)
	if err != nil {
		r.logger.Warn("signal embedding failed", "id", sig.ID, "error", err)
		return
	}

	vecJSON, err := repository.MarshalJSONValue(vec)
	if err != nil {
		r.logger.Warn("signal embedding marshal failed", "id", sig.ID, "error", err)
		return
	}

	if _, err := r.db.ExecContext(ctx,
		"UPDATE signals SET embedding = $1 WHERE id = $2",
		vecJSON, sig.ID,
	); err != nil {
		r.logger.Warn("signal embedding store failed", "id", sig.ID, "error", err)
		return
	}

	sig.Embedding = vec
	r.index.Add(sig.ID.String(), vec)
}

func (r *repo) checkDuplicate(ctx context.Context, sourceURL string) error {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM signals WHERE source_url = $1 AND deleted_at IS NULL)",
		sourceURL,
	).Scan(&exists)

	if err != nil {
		return fmt.Errorf("check duplicate signal: %w", err)
	}
	if exists {
		return ErrDuplicate
	}
	return nil
}

func (r *repo) attachLinks(ctx context.Context, items []Signal) error {
	if len(items) == 0 {
		return nil
	}

	placeholders := make([]string, len(items))
	args := make([]any, len(items))
	for i, s := range items {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = s.ID
	}

	linksQ := fmt.Sprintf(`
		SELECT se.signal_id, se.entity_id, e.name, e.segment, se.is_primary
		FROM signal_entities se
		JOIN entities e ON e.id = se.entity_id
		WHERE se.signal_id IN (%s)
		ORDER BY se.is_primary DESC, e.name`,
		strings.Join(placeholders, ", "),
	)

	rows, err := r.db.QueryContext(ctx, linksQ, args...)
	if err != nil {
		return fmt.Errorf("query signal entity links: %w", err)
	}
	defer rows.Close()

	links := make(map[uuid.UUID][]EntityLink)
	for rows.Next() {
		var signalID uuid.UUID
		var link EntityLink
		if err := rows.Scan(&signalID, &link.EntityID, &link.Name, &link.Segment, &link.IsPrimary); err != nil {
			return fmt.Errorf("scan signal entity link: %w", err)
		}
		links[signalID] = append(links[signalID], link)
	}

	if err := rows.Err(); err != nil {
		return err
	}

	for i := range items {
		items[i].EntityLinks = links[items[i].ID]
	}

	return nil
}

func validateCreate(cmd *CreateCommand) error {
	cmd.Entity = strings.TrimSpace(cmd.Entity)
	if cmd.Entity == "" {
		return ErrInvalidEntity
	}

	if strings.TrimSpace(cmd.SourceURL) == "" {
		return ErrInvalidSourceURL
	}

	if n := len(cmd.EvidenceSnippet); n < 50 || n > 500 {
		return ErrInvalidSnippet
	}

	if !classify.ValidEventType(cmd.EventType) {
		return ErrInvalidEventType
	}

	if !classify.ValidConfidence(cmd.Confidence) {
		return ErrInvalidConfidence
	}

	if len(cmd.ImpactAreas) == 0 {
		return ErrInvalidImpactAreas
	}
	for _, area := range cmd.ImpactAreas {
		if !classify.ValidImpactArea(area) {
			return ErrInvalidImpactAreas
		}
	}

	if cmd.Status == "" {
		cmd.Status = StatusApproved
	}
	switch cmd.Status {
	case StatusPendingReview, StatusApproved, StatusRejected:
	default:
		return ErrInvalidStatus
	}

	if cmd.EntityTags == nil {
		cmd.EntityTags = []string{}
	}

	return nil
}

func containsFold(items []string, v string) bool {
	for _, item := range items {
		if strings.EqualFold(item, v) {
			return true
		}
	}
	return false
}
