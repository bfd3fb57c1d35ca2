package llamacloud

import (
	"context"
	"fmt"

	"github.com/spigell/talent-scout/internal/jobdesc"

	"go.uber.org/zap"
)

// Retriever drives the full candidate retrieval pipeline: build the query,
// run it against the index, normalize every raw record, then dedupe and rank.
type Retriever struct {
	client *Client
	logger *zap.Logger
}

// NewRetriever wraps an already constructed client.
func NewRetriever(client *Client, logger *zap.Logger) *Retriever {
	return &Retriever{
		client: client,
		logger: logger,
	}
}

// Retrieve returns candidates matching a structured job requirement, best
// score first.
func (r *Retriever) Retrieve(ctx context.Context, job *jobdesc.JobRequirement, topK int, enableReranking bool) ([]*CandidateMatch, error) {
	r.logger.Info("starting candidate retrieval", zap.String("job_title", job.Title))

	query := BuildSearchQuery(job)

	return r.retrieve(ctx, query, RetrievalParams{TopK: topK, EnableReranking: enableReranking})
}

// RetrieveByQualifications returns candidates matching the given required and
// preferred qualification lists.
func (r *Retriever) RetrieveByQualifications(ctx context.Context, required, preferred []string, topK int, enableReranking bool) ([]*CandidateMatch, error) {
	r.logger.Info("starting candidate retrieval by qualifications",
		zap.Strings("required", required),
		zap.Strings("preferred", preferred),
	)

	query := BuildQualificationsQuery(required, preferred)

	return r.retrieve(ctx, query, RetrievalParams{TopK: topK, EnableReranking: enableReranking})
}

// SearchBySkills returns candidates matching a free-form skills string.
// Re-ranking is off for skill search.
func (r *Retriever) SearchBySkills(ctx context.Context, skills string, topK int) ([]*CandidateMatch, error) {
	r.logger.Info("starting skill-based search", zap.String("skills", skills))

	query := BuildSkillsQuery(skills)

	return r.retrieve(ctx, query, RetrievalParams{TopK: topK, EnableReranking: false})
}

func (r *Retriever) retrieve(ctx context.Context, query string, params RetrievalParams) ([]*CandidateMatch, error) {
	r.logger.Debug("built search query", zap.String("query", query))

	records, err := r.client.Retrieve(ctx, query, params)
	if err != nil {
		return nil, fmt.Errorf("retrieving candidates: %w", err)
	}

	candidates := make([]*CandidateMatch, 0, len(records))
	for i, record := range records {
		candidate := NormalizeCandidate(record)
		candidates = append(candidates, candidate)

		r.logger.Debug("processed candidate",
			zap.Int("position", i+1),
			zap.String("candidate_name", candidate.CandidateName),
			zap.Float64("score", candidate.Score),
		)
	}

	ranked := DedupeAndRank(candidates)

	r.logger.Info("retrieved unique candidates",
		zap.Int("raw", len(records)),
		zap.Int("unique", len(ranked)),
	)

	return ranked, nil
}
