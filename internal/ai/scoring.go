package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/talent-scout/internal/logger"
)

// ScoringRequest bundles the inputs of one scoring call.
type ScoringRequest struct {
	Resume         string
	Required       []string
	Preferred      []string
	JobTitle       string
	JobDescription string
}

// QualificationScore is the model's verdict on a single qualification on the
// 0 (Not Met) / 1 (Somewhat Met) / 2 (Strongly Met) scale.
type QualificationScore struct {
	Qualification string `json:"qualification"`
	Score         int    `json:"score"`
	Explanation   string `json:"explanation"`
}

// ScoringBreakdown splits the total by qualification group.
type ScoringBreakdown struct {
	RequiredTotal  int `json:"requiredTotal"`
	PreferredTotal int `json:"preferredTotal"`
	RequiredCount  int `json:"requiredCount"`
	PreferredCount int `json:"preferredCount"`
}

// ScoringResult is the complete scoring outcome returned to the caller.
type ScoringResult struct {
	RequiredScores   []QualificationScore `json:"requiredScores"`
	PreferredScores  []QualificationScore `json:"preferredScores"`
	TotalScore       int                  `json:"totalScore"`
	MaxPossibleScore int                  `json:"maxPossibleScore"`
	MatchPercentage  float64              `json:"matchPercentage"`
	OverallFeedback  string               `json:"overallFeedback"`
	ScoringBreakdown ScoringBreakdown     `json:"scoringBreakdown"`
}

// rawScoring is the shape requested from the model. Scores arrive as loose
// JSON numbers and are coerced afterwards.
type rawScoring struct {
	RequiredScores  []rawScore `json:"requiredScores"`
	PreferredScores []rawScore `json:"preferredScores"`
	OverallFeedback string     `json:"overallFeedback"`
}

type rawScore struct {
	Qualification string      `json:"qualification"`
	Score         json.Number `json:"score"`
	Explanation   string      `json:"explanation"`
}

// ScoreCandidate evaluates the resume against each qualification and derives
// the aggregate totals and match percentage.
func (a *Assistant) ScoreCandidate(ctx context.Context, req *ScoringRequest) (*ScoringResult, error) {
	prompt := buildScoringPrompt(req)

	a.logger.Debug("scoring request",
		zap.Int("required_count", len(req.Required)),
		zap.Int("preferred_count", len(req.Preferred)),
		zap.String("prompt_preview", logger.TruncateForLog(prompt, a.maxLogLen)),
	)

	raw, err := a.generator.GenerateContent(ctx, scoringSystemPrompt, prompt)
	if err != nil {
		return nil, err
	}

	var parsed rawScoring
	if err := json.Unmarshal([]byte(ExtractJSON(raw)), &parsed); err != nil {
		a.logger.Error("malformed scoring response", zap.String("content", raw))
		return nil, fmt.Errorf("parsing scoring response: %w", err)
	}

	result := buildScoringResult(&parsed, len(req.Required), len(req.Preferred))

	a.logger.Info("scored candidate",
		zap.Int("total_score", result.TotalScore),
		zap.Int("max_possible_score", result.MaxPossibleScore),
		zap.Float64("match_percentage", result.MatchPercentage),
	)

	return result, nil
}

// buildScoringResult computes totals, the maximum and the match percentage
// (one decimal, 0 when nothing was evaluated).
func buildScoringResult(parsed *rawScoring, requiredCount, preferredCount int) *ScoringResult {
	requiredScores := coerceScores(parsed.RequiredScores)
	preferredScores := coerceScores(parsed.PreferredScores)

	requiredTotal := sumScores(requiredScores)
	preferredTotal := sumScores(preferredScores)

	totalScore := requiredTotal + preferredTotal
	maxPossibleScore := (requiredCount + preferredCount) * 2

	matchPercentage := 0.0
	if maxPossibleScore > 0 {
		matchPercentage = math.Round(float64(totalScore)/float64(maxPossibleScore)*1000) / 10
	}

	return &ScoringResult{
		RequiredScores:   requiredScores,
		PreferredScores:  preferredScores,
		TotalScore:       totalScore,
		MaxPossibleScore: maxPossibleScore,
		MatchPercentage:  matchPercentage,
		OverallFeedback:  parsed.OverallFeedback,
		ScoringBreakdown: ScoringBreakdown{
			RequiredTotal:  requiredTotal,
			PreferredTotal: preferredTotal,
			RequiredCount:  requiredCount,
			PreferredCount: preferredCount,
		},
	}
}

func coerceScores(raw []rawScore) []QualificationScore {
	scores := make([]QualificationScore, 0, len(raw))
	for _, item := range raw {
		scores = append(scores, QualificationScore{
			Qualification: item.Qualification,
			Score:         coerceScore(item.Score),
			Explanation:   item.Explanation,
		})
	}
	return scores
}

// coerceScore tolerates models answering "2.0" or skipping the field.
func coerceScore(n json.Number) int {
	if n == "" {
		return 0
	}
	if i, err := n.Int64(); err == nil {
		return int(i)
	}
	if f, err := n.Float64(); err == nil {
		return int(f)
	}
	return 0
}

func sumScores(scores []QualificationScore) int {
	total := 0
	for _, s := range scores {
		total += s.Score
	}
	return total
}

func buildScoringPrompt(req *ScoringRequest) string {
	parts := []string{
		"You are a professional recruiter tasked with evaluating how well a candidate's resume matches the qualifications for a job.",
		"",
	}

	if req.JobTitle != "" {
		parts = append(parts, fmt.Sprintf("JOB TITLE: %s", req.JobTitle))
	}

	if req.JobDescription != "" {
		parts = append(parts, fmt.Sprintf("JOB DESCRIPTION: %s", req.JobDescription))
	}

	parts = append(parts,
		"",
		"CANDIDATE'S RESUME:",
		req.Resume,
		"",
		"Please evaluate the candidate against each qualification using the following scale:",
		"0 - Not Met: The candidate's resume shows no evidence of meeting this qualification",
		"1 - Somewhat Met: The candidate's resume shows some evidence of meeting this qualification but may lack depth or completeness",
		"2 - Strongly Met: The candidate's resume clearly demonstrates they meet or exceed this qualification",
		"",
		"Please evaluate ONLY the following qualifications, and return your response in JSON format with explanations for each score:",
		"",
	)

	if len(req.Required) > 0 {
		parts = append(parts, "REQUIRED QUALIFICATIONS:")
		for i, qual := range req.Required {
			parts = append(parts, strconv.Itoa(i+1)+". "+qual)
		}
		parts = append(parts, "")
	}

	if len(req.Preferred) > 0 {
		parts = append(parts, "PREFERRED QUALIFICATIONS:")
		for i, qual := range req.Preferred {
			parts = append(parts, strconv.Itoa(i+1)+". "+qual)
		}
		parts = append(parts, "")
	}

	parts = append(parts,
		`Format your response as valid JSON with this structure:`,
		`{`,
		`  "requiredScores": [`,
		`    {`,
		`      "qualification": "qualification text",`,
		`      "score": 0/1/2,`,
		`      "explanation": "brief explanation for the score"`,
		`    },`,
		`    ...`,
		`  ],`,
		`  "preferredScores": [`,
		`    {`,
		`      "qualification": "qualification text",`,
		`      "score": 0/1/2,`,
		`      "explanation": "brief explanation for the score"`,
		`    },`,
		`    ...`,
		`  ],`,
		`  "overallFeedback": "brief overall assessment of the candidate"`,
		`}`,
	)

	return strings.Join(parts, "\n")
}
