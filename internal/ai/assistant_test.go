package ai

import (
	"context"
	"strings"
	"testing"

	"go.uber.org/zap"
)

type stubGenerator struct {
	response   string
	err        error
	lastSystem string
	lastPrompt string
}

func (s *stubGenerator) GenerateContent(_ context.Context, system, prompt string) (string, error) {
	s.lastSystem = system
	s.lastPrompt = prompt
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func (s *stubGenerator) Model() string {
	return "stub-model"
}

func TestExtractJobRequirements(t *testing.T) {
	stub := &stubGenerator{response: `{
		"title": "Backend Engineer",
		"company": "Acme",
		"location": "Remote",
		"required_qualifications": ["Go", "SQL"],
		"preferred_qualifications": ["Kubernetes"],
		"description": "Build services",
		"experience_level": "senior",
		"employment_type": "full-time"
	}`}

	assistant := NewAssistant(stub, zap.NewNop(), 0)

	job, err := assistant.ExtractJobRequirements(context.Background(), "We are hiring a backend engineer...")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if job.Title != "Backend Engineer" {
		t.Fatalf("unexpected title: %q", job.Title)
	}

	if len(job.RequiredQualifications) != 2 {
		t.Fatalf("unexpected required qualifications: %v", job.RequiredQualifications)
	}

	if !strings.Contains(stub.lastPrompt, "We are hiring a backend engineer...") {
		t.Fatalf("prompt must embed the job description text")
	}

	if !strings.Contains(stub.lastSystem, "extracts structured data") {
		t.Fatalf("unexpected system prompt: %q", stub.lastSystem)
	}
}

func TestExtractJobRequirementsAppliesDefaults(t *testing.T) {
	stub := &stubGenerator{response: `{"title": "Data Analyst"}`}
	assistant := NewAssistant(stub, zap.NewNop(), 0)

	job, err := assistant.ExtractJobRequirements(context.Background(), "short job description text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if job.Company != "Unknown" {
		t.Fatalf("unexpected company default: %q", job.Company)
	}

	if job.Location != "Not specified" {
		t.Fatalf("unexpected location default: %q", job.Location)
	}

	if job.RequiredQualifications == nil || job.PreferredQualifications == nil {
		t.Fatalf("qualification lists must never be nil")
	}
}

func TestExtractJobRequirementsStripsCodeFences(t *testing.T) {
	stub := &stubGenerator{response: "```json\n{\"title\": \"QA Engineer\"}\n```"}
	assistant := NewAssistant(stub, zap.NewNop(), 0)

	job, err := assistant.ExtractJobRequirements(context.Background(), "some job description")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if job.Title != "QA Engineer" {
		t.Fatalf("unexpected title: %q", job.Title)
	}
}

func TestExtractJobRequirementsParseError(t *testing.T) {
	stub := &stubGenerator{response: "this is not json"}
	assistant := NewAssistant(stub, zap.NewNop(), 0)

	_, err := assistant.ExtractJobRequirements(context.Background(), "some job description")
	if err == nil || !strings.Contains(err.Error(), "parsing extraction response") {
		t.Fatalf("expected a parse error, got %v", err)
	}
}

func TestScoreCandidateTotals(t *testing.T) {
	stub := &stubGenerator{response: `{
		"requiredScores": [
			{"qualification": "Python", "score": 2, "explanation": "clear evidence"},
			{"qualification": "SQL", "score": 2, "explanation": "clear evidence"}
		],
		"preferredScores": [
			{"qualification": "AWS", "score": 2, "explanation": "clear evidence"}
		],
		"overallFeedback": "strong candidate"
	}`}

	assistant := NewAssistant(stub, zap.NewNop(), 0)

	result, err := assistant.ScoreCandidate(context.Background(), &ScoringRequest{
		Resume:    "resume text",
		Required:  []string{"Python", "SQL"},
		Preferred: []string{"AWS"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.TotalScore != 6 {
		t.Fatalf("unexpected total score: %d", result.TotalScore)
	}

	if result.MaxPossibleScore != 6 {
		t.Fatalf("unexpected max possible score: %d", result.MaxPossibleScore)
	}

	if result.MatchPercentage != 100.0 {
		t.Fatalf("unexpected match percentage: %v", result.MatchPercentage)
	}

	if result.ScoringBreakdown.RequiredTotal != 4 || result.ScoringBreakdown.PreferredTotal != 2 {
		t.Fatalf("unexpected breakdown: %+v", result.ScoringBreakdown)
	}

	if result.ScoringBreakdown.RequiredCount != 2 || result.ScoringBreakdown.PreferredCount != 1 {
		t.Fatalf("unexpected counts: %+v", result.ScoringBreakdown)
	}

	if result.OverallFeedback != "strong candidate" {
		t.Fatalf("unexpected feedback: %q", result.OverallFeedback)
	}
}

func TestScoreCandidateRounding(t *testing.T) {
	stub := &stubGenerator{response: `{
		"requiredScores": [
			{"qualification": "Go", "score": 1, "explanation": "partial"},
			{"qualification": "Rust", "score": 0, "explanation": "none"},
			{"qualification": "SQL", "score": 1, "explanation": "partial"}
		],
		"preferredScores": [],
		"overallFeedback": "mixed"
	}`}

	assistant := NewAssistant(stub, zap.NewNop(), 0)

	result, err := assistant.ScoreCandidate(context.Background(), &ScoringRequest{
		Resume:   "resume text",
		Required: []string{"Go", "Rust", "SQL"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 2 of 6 is 33.333..., rounded to one decimal.
	if result.MatchPercentage != 33.3 {
		t.Fatalf("unexpected match percentage: %v", result.MatchPercentage)
	}
}

func TestScoreCandidateEmptyQualifications(t *testing.T) {
	stub := &stubGenerator{response: `{"requiredScores": [], "preferredScores": [], "overallFeedback": ""}`}
	assistant := NewAssistant(stub, zap.NewNop(), 0)

	result, err := assistant.ScoreCandidate(context.Background(), &ScoringRequest{Resume: "resume"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.MaxPossibleScore != 0 || result.MatchPercentage != 0 {
		t.Fatalf("zero qualifications must score 0/0: %+v", result)
	}
}

func TestScoreCandidatePromptLayout(t *testing.T) {
	stub := &stubGenerator{response: `{"requiredScores": [], "preferredScores": [], "overallFeedback": ""}`}
	assistant := NewAssistant(stub, zap.NewNop(), 0)

	_, err := assistant.ScoreCandidate(context.Background(), &ScoringRequest{
		Resume:         "resume text",
		Required:       []string{"Python", "SQL"},
		Preferred:      []string{"AWS"},
		JobTitle:       "Data Engineer",
		JobDescription: "build pipelines",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	prompt := stub.lastPrompt

	for _, fragment := range []string{
		"JOB TITLE: Data Engineer",
		"JOB DESCRIPTION: build pipelines",
		"0 - Not Met",
		"1 - Somewhat Met",
		"2 - Strongly Met",
		"REQUIRED QUALIFICATIONS:",
		"1. Python",
		"2. SQL",
		"PREFERRED QUALIFICATIONS:",
		"1. AWS",
		`"overallFeedback"`,
	} {
		if !strings.Contains(prompt, fragment) {
			t.Fatalf("prompt missing %q:\n%s", fragment, prompt)
		}
	}
}

func TestScoreCandidateCoercesLooseScores(t *testing.T) {
	stub := &stubGenerator{response: `{
		"requiredScores": [
			{"qualification": "Go", "score": 2.0, "explanation": "strong"},
			{"qualification": "SQL", "explanation": "missing score"}
		],
		"preferredScores": [],
		"overallFeedback": ""
	}`}

	assistant := NewAssistant(stub, zap.NewNop(), 0)

	result, err := assistant.ScoreCandidate(context.Background(), &ScoringRequest{
		Resume:   "resume",
		Required: []string{"Go", "SQL"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.RequiredScores[0].Score != 2 || result.RequiredScores[1].Score != 0 {
		t.Fatalf("unexpected coerced scores: %+v", result.RequiredScores)
	}

	if result.TotalScore != 2 {
		t.Fatalf("unexpected total: %d", result.TotalScore)
	}
}
