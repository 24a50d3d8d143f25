package api

import (
	"github.com/JaimeStill/vantage/internal/briefs"
	"github.com/JaimeStill/vantage/internal/embeddings"
	"github.com/JaimeStill/vantage/internal/entities"
	"github.com/JaimeStill/vantage/internal/evaluations"
	"github.com/JaimeStill/vantage/internal/jobs"
	"github.com/JaimeStill/vantage/internal/narrative"
	"github.com/JaimeStill/vantage/internal/signals"
	"github.com/JaimeStill/vantage/internal/sources"
	"github.com/JaimeStill/vantage/internal/themes"
	"github.com/JaimeStill/vantage/internal/workflow"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Entities    entities.System
	Signals     signals.System
	Sources     sources.System
	Themes      themes.System
	Briefs      briefs.System
	Evaluations evaluations.System
	Jobs        *jobs.Runner
}

// NewDomain creates all domain systems from the API runtime and wires the
// brief pipeline runtime across them.
func NewDomain(runtime *Runtime) *Domain {
	db := runtime.Database.Connection()

	entitySystem := entities.New(db, runtime.Logger, runtime.Pagination)

	provider := embeddings.NewProvider(runtime.Intelligence.Embeddings, runtime.Logger)
	index := embeddings.NewIndex()

	signalSystem := signals.New(
		db,
		entitySystem,
		provider,
		index,
		runtime.Logger,
		runtime.Pagination,
	)

	sourceSystem := sources.New(db, runtime.Logger, runtime.Pagination)
	themeSystem := themes.New(db, runtime.Logger, runtime.Pagination)

	evaluationSystem := evaluations.New(
		db,
		signalSystem,
		runtime.Intelligence.Judge,
		runtime.Intelligence.EvaluationThreshold,
		runtime.Logger,
		runtime.Pagination,
	)

	briefSystem := briefs.New(
		db,
		themeSystem,
		signalSystem,
		runtime.Logger,
		runtime.Pagination,
	)

	pipeline := &workflow.Runtime{
		Signals:             signalSystem,
		Themes:              themeSystem,
		Briefs:              briefSystem,
		Evaluations:         evaluationSystem,
		Narrative:           narrative.NewGenerator(runtime.Intelligence.Agent, runtime.Logger),
		Storage:             runtime.Storage,
		CompetitorThreshold: runtime.Intelligence.CompetitorThreshold,
		Logger:              runtime.Logger,
	}

	runner := jobs.NewRunner(
		sourceSystem,
		signalSystem,
		entitySystem,
		pipeline,
		runtime.Logger,
	)

	return &Domain{
		Entities:    entitySystem,
		Signals:     signalSystem,
		Sources:     sourceSystem,
		Themes:      themeSystem,
		Briefs:      briefSystem,
		Evaluations: evaluationSystem,
		Jobs:        runner,
	}
}
