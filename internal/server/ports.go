package server

import (
	"context"

	"github.com/spigell/talent-scout/internal/ai"
	"github.com/spigell/talent-scout/internal/llamacloud"

	"go.uber.org/zap"
)

// CandidateRetriever is the retrieval capability consumed by the candidate
// tools.
type CandidateRetriever interface {
	RetrieveByQualifications(ctx context.Context, required, preferred []string, topK int, enableReranking bool) ([]*llamacloud.CandidateMatch, error)
	SearchBySkills(ctx context.Context, skills string, topK int) ([]*llamacloud.CandidateMatch, error)
}

// Deps aggregates the capabilities exposed through the MCP tools. Retriever,
// Extractor and Scorer may be nil when their construction failed; the
// corresponding tools then answer with a "service is not available" envelope
// instead of the whole server refusing to start.
type Deps struct {
	Retriever CandidateRetriever
	Extractor ai.Extractor
	Scorer    ai.Scorer
	Logger    *zap.Logger
}

// Validate ensures the non-optional dependencies are present.
func (d *Deps) Validate() error {
	if d == nil {
		return ErrMissingDeps
	}
	if d.Logger == nil {
		return ErrMissingLogger
	}
	return nil
}
