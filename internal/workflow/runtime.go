// Package workflow implements the weekly brief generation pipeline as a
// state graph: select signals, synthesize themes, generate narratives,
// persist, evaluate, and publish. Evaluation and publication failures
// degrade into the result; they never abort a run.
package workflow

import (
	"log/slog"

	"github.com/JaimeStill/vantage/internal/briefs"
	"github.com/JaimeStill/vantage/internal/evaluations"
	"github.com/JaimeStill/vantage/internal/narrative"
	"github.com/JaimeStill/vantage/internal/signals"
	"github.com/JaimeStill/vantage/internal/themes"
	"github.com/JaimeStill/vantage/pkg/storage"
)

// Runtime bundles the dependencies that workflow nodes require.
// It is constructed by higher-level composition code from Infrastructure
// and Domain systems.
type Runtime struct {
	Signals             signals.System
	Themes              themes.System
	Briefs              briefs.System
	Evaluations         evaluations.System
	Narrative           *narrative.Generator
	Storage             storage.System
	CompetitorThreshold float64
	Logger              *slog.Logger
}
