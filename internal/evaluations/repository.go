package evaluations

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	gaconfig "github.com/JaimeStill/go-agents/pkg/config"

	"github.com/JaimeStill/vantage/internal/signals"
	"github.com/JaimeStill/vantage/pkg/pagination"
	"github.com/JaimeStill/vantage/pkg/query"
	"github.com/JaimeStill/vantage/pkg/repository"
)

type repo struct {
	db         *sql.DB
	signals    signals.System
	judge      *Judge
	threshold  float64
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates an evaluation repository implementing the System interface.
// Threshold is the overall score at or above which content passes.
func New(
	db *sql.DB,
	sigs signals.System,
	agent gaconfig.AgentConfig,
	threshold float64,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		signals:    sigs,
		judge:      NewJudge(agent, logger),
		threshold:  threshold,
		logger:     logger.With("system", "evaluations"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) Evaluate(
	ctx context.Context,
	contentType string,
	contentID uuid.UUID,
	data map[string]any,
) (*EvaluationRun, error) {
	if !ValidContentType(contentType) {
		return nil, ErrInvalidContentType
	}

	hallucinationScore, ruleIssues, cited, err := CheckHallucinations(ctx, r.signals, contentType, data)
	if err != nil {
		return nil, fmt.Errorf("hallucination checks: %w", err)
	}

	scores, judgeIssues := r.judge.Evaluate(ctx, contentType, data, cited)

	overall := (hallucinationScore + scores.Grounding + scores.Relevance +
		scores.Actionability + scores.Coherence) / 5.0

	run := EvaluationRun{
		ContentType:        contentType,
		ContentID:          contentID,
		HallucinationScore: hallucinationScore,
		GroundingScore:     scores.Grounding,
		RelevanceScore:     scores.Relevance,
		ActionabilityScore: scores.Actionability,
		CoherenceScore:     scores.Coherence,
		OverallScore:       overall,
		Passed:             overall >= r.threshold,
		Threshold:          r.threshold,
		EvaluatorModel:     r.judge.Model(),
		EvaluationMethod:   "hybrid",
	}

	allIssues := append(ruleIssues, judgeIssues...)

	saved, err := r.persist(ctx, run, allIssues)
	if err != nil {
		return nil, err
	}

	r.logger.Info("content evaluated",
		"id", saved.ID,
		"content_type", contentType,
		"content_id", contentID,
		"overall_score", saved.OverallScore,
		"passed", saved.Passed,
		"issues", len(saved.Issues),
	)
	return saved, nil
}

func (r *repo) persist(ctx context.Context, run EvaluationRun, issues []Issue) (*EvaluationRun, error) {
	insertRunQ := `
		INSERT INTO evaluation_runs(
			content_type, content_id, hallucination_score, grounding_score,
			relevance_score, actionability_score, coherence_score,
			overall_score, passed, threshold, evaluator_model, evaluation_method
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, content_type, content_id, hallucination_score, grounding_score,
				  relevance_score, actionability_score, coherence_score,
				  overall_score, passed, threshold, evaluator_model,
				  evaluation_method, created_at`

	insertIssueQ := `
		INSERT INTO evaluation_issues(
			evaluation_run_id, issue_type, severity, description,
			affected_signal_ids, affected_entities, details
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, evaluation_run_id, issue_type, severity, description,
				  affected_signal_ids, affected_entities, details, created_at`

	saved, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (EvaluationRun, error) {
		created, err := repository.QueryOne(ctx, tx, insertRunQ,
			[]any{run.ContentType, run.ContentID, run.HallucinationScore,
				run.GroundingScore, run.RelevanceScore, run.ActionabilityScore,
				run.CoherenceScore, run.OverallScore, run.Passed, run.Threshold,
				run.EvaluatorModel, run.EvaluationMethod},
			scanRun,
		)
		if err != nil {
			return EvaluationRun{}, fmt.Errorf("insert evaluation run: %w", err)
		}

		for _, issue := range issues {
			signalIDsJSON, err := repository.MarshalJSONValue(issue.SignalIDs)
			if err != nil {
				return EvaluationRun{}, fmt.Errorf("marshal issue signal ids: %w", err)
			}

			entitiesJSON, err := repository.MarshalJSONValue(issue.Entities)
			if err != nil {
				return EvaluationRun{}, fmt.Errorf("marshal issue entities: %w", err)
			}

			detailsJSON, err := repository.MarshalJSONValue(issue.Details)
			if err != nil {
				return EvaluationRun{}, fmt.Errorf("marshal issue details: %w", err)
			}

			saved, err := repository.QueryOne(ctx, tx, insertIssueQ,
				[]any{created.ID, issue.Type, issue.Severity, issue.Description,
					signalIDsJSON, entitiesJSON, detailsJSON},
				scanIssue,
			)
			if err != nil {
				return EvaluationRun{}, fmt.Errorf("insert evaluation issue: %w", err)
			}

			created.Issues = append(created.Issues, saved)
		}

		return created, nil
	})

	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	return &saved, nil
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[EvaluationRun], error) {
	page.Normalize(r.pagination)

	qb := query.NewBuilder(projection, defaultSort)
	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count evaluation runs: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanRun)
	if err != nil {
		return nil, fmt.Errorf("query evaluation runs: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*EvaluationRun, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	run, err := repository.QueryOne(ctx, r.db, q, args, scanRun)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	issues, err := r.issuesForRun(ctx, run.ID)
	if err != nil {
		return nil, err
	}
	run.Issues = issues

	return &run, nil
}

func (r *repo) ForContent(ctx context.Context, contentType string, contentID uuid.UUID) ([]EvaluationRun, error) {
	qb := query.
		NewBuilder(projection, defaultSort).
		WhereEquals("ContentType", contentType).
		WhereEquals("ContentID", contentID)

	q, args := qb.Build()

	runs, err := repository.QueryMany(ctx, r.db, q, args, scanRun)
	if err != nil {
		return nil, fmt.Errorf("query evaluation runs for content: %w", err)
	}

	for i := range runs {
		issues, err := r.issuesForRun(ctx, runs[i].ID)
		if err != nil {
			return nil, err
		}
		runs[i].Issues = issues
	}

	return runs, nil
}

func (r *repo) issuesForRun(ctx context.Context, runID uuid.UUID) ([]EvaluationIssue, error) {
	issuesQ := `
		SELECT id, evaluation_run_id, issue_type, severity, description,
		       affected_signal_ids, affected_entities, details, created_at
		FROM evaluation_issues
		WHERE evaluation_run_id = $1
		ORDER BY created_at`

	issues, err := repository.QueryMany(ctx, r.db, issuesQ, []any{runID}, scanIssue)
	if err != nil {
		return nil, fmt.Errorf("query evaluation issues: %w", err)
	}
	return issues, nil
}
