// Package ai implements the text-generation collaborator: job description
// extraction and candidate scoring built on top of an exchangeable content
// generator (OpenAI by default, Gemini as an alternative).
package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	_ "embed"

	"github.com/spigell/talent-scout/internal/jobdesc"
	"github.com/spigell/talent-scout/internal/logger"

	"go.uber.org/zap"
)

// ContentGenerator is a prompt-in/text-out call to a hosted model. The
// implementation is expected to request JSON-formatted output.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, system, prompt string) (string, error)
	Model() string
}

// Extractor turns free-form job description text into a structured requirement.
type Extractor interface {
	ExtractJobRequirements(ctx context.Context, text string) (*jobdesc.JobRequirement, error)
}

// Scorer evaluates a resume against job qualifications.
type Scorer interface {
	ScoreCandidate(ctx context.Context, req *ScoringRequest) (*ScoringResult, error)
}

//go:embed extract_prompt.md
var extractPromptTemplate string

const (
	extractionSystemPrompt = "You are a helpful assistant that extracts structured data from job descriptions."
	scoringSystemPrompt    = "You are a professional recruiter who evaluates how well candidate resumes match job qualifications."

	defaultMaxLogLength = 200
)

// Assistant implements Extractor and Scorer over a ContentGenerator.
type Assistant struct {
	generator ContentGenerator
	logger    *zap.Logger
	maxLogLen int
}

// NewAssistant builds an assistant around the given generator.
func NewAssistant(generator ContentGenerator, log *zap.Logger, maxLogLength int) *Assistant {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	return &Assistant{
		generator: generator,
		logger:    logger.WithProvider(log, "", generator.Model()),
		maxLogLen: maxLogLength,
	}
}

// ExtractJobRequirements asks the model to pull structured fields out of the
// job description text and fills conventional defaults for missing ones.
func (a *Assistant) ExtractJobRequirements(ctx context.Context, text string) (*jobdesc.JobRequirement, error) {
	prompt := strings.ReplaceAll(extractPromptTemplate, "{{JD_TEXT}}", text)

	a.logger.Debug("extraction request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", logger.TruncateForLog(prompt, a.maxLogLen)),
	)

	raw, err := a.generator.GenerateContent(ctx, extractionSystemPrompt, prompt)
	if err != nil {
		return nil, err
	}

	a.logger.Debug("extraction response",
		zap.String("response_preview", logger.TruncateForLog(raw, a.maxLogLen)),
	)

	var job jobdesc.JobRequirement
	if err := json.Unmarshal([]byte(ExtractJSON(raw)), &job); err != nil {
		a.logger.Error("malformed extraction response", zap.String("content", raw))
		return nil, fmt.Errorf("parsing extraction response: %w", err)
	}

	job.ApplyDefaults()

	return &job, nil
}

// ExtractJSON strips markdown code fences the model may wrap around its JSON
// output.
func ExtractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}
