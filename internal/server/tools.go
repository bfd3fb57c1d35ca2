package server

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/spigell/talent-scout/internal/ai"
	"github.com/spigell/talent-scout/internal/jobdesc"
	"github.com/spigell/talent-scout/internal/llamacloud"
	"github.com/spigell/talent-scout/internal/logger"
)

const (
	defaultTopK = 10
	maxTopK     = 50
)

// MathInput is the input schema for the arithmetic demo tools.
type MathInput struct {
	A int `json:"a" jsonschema:"the first number"`
	B int `json:"b" jsonschema:"the second number"`
}

// ExtractInput is the input schema for extract_job_requirements.
type ExtractInput struct {
	JDText string `json:"jd_text" jsonschema:"the job description text to analyze"`
}

// FindCandidatesInput is the input schema for find_matching_candidates.
type FindCandidatesInput struct {
	RequiredQualifications  string `json:"required_qualifications" jsonschema:"comma-separated string of required qualifications"`
	PreferredQualifications string `json:"preferred_qualifications,omitempty" jsonschema:"comma-separated string of preferred qualifications (optional)"`
	TopK                    *int   `json:"top_k,omitempty" jsonschema:"number of top candidates to retrieve (default 10, max 50)"`
	EnableReranking         *bool  `json:"enable_reranking,omitempty" jsonschema:"whether to enable reranking for better results (default true)"`
}

// SkillSearchInput is the input schema for search_candidates_by_skills.
type SkillSearchInput struct {
	Skills string `json:"skills" jsonschema:"comma-separated list of skills or keywords to search for"`
	TopK   *int   `json:"top_k,omitempty" jsonschema:"number of top candidates to retrieve (default 10, max 50)"`
}

// ScoreInput is the input schema for score_candidate_qualifications.
type ScoreInput struct {
	CandidateResume         string `json:"candidate_resume" jsonschema:"the candidate's resume text content"`
	RequiredQualifications  string `json:"required_qualifications" jsonschema:"comma-separated string of required qualifications"`
	PreferredQualifications string `json:"preferred_qualifications,omitempty" jsonschema:"comma-separated string of preferred qualifications (optional)"`
	JobTitle                string `json:"job_title,omitempty" jsonschema:"job title for context (optional)"`
	JobDescription          string `json:"job_description,omitempty" jsonschema:"job description for context (optional)"`
}

type searchParameters struct {
	TopK                    int      `json:"top_k"`
	EnableReranking         bool     `json:"enable_reranking"`
	RequiredQualifications  []string `json:"required_qualifications"`
	PreferredQualifications []string `json:"preferred_qualifications"`
}

type findCandidatesResult struct {
	SearchType       string                      `json:"search_type"`
	TotalCandidates  int                         `json:"total_candidates"`
	SearchParameters searchParameters            `json:"search_parameters"`
	Candidates       []*llamacloud.CandidateMatch `json:"candidates"`
}

type skillSearchParameters struct {
	TopK int `json:"top_k"`
}

type skillSearchResult struct {
	SearchSkills     []string                     `json:"search_skills"`
	TotalCandidates  int                          `json:"total_candidates"`
	SearchParameters skillSearchParameters        `json:"search_parameters"`
	Candidates       []*llamacloud.CandidateMatch `json:"candidates"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "add",
		Description: "Add two numbers together",
	}, s.handleAdd)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "subtract",
		Description: "Subtract two numbers",
	}, s.handleSubtract)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "multiply",
		Description: "Multiply two numbers",
	}, s.handleMultiply)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "extract_job_requirements",
		Description: "Extract structured job requirements from job description text",
	}, s.handleExtractJobRequirements)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "find_matching_candidates",
		Description: "Find candidates matching job qualifications from the resume index",
	}, s.handleFindMatchingCandidates)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_candidates_by_skills",
		Description: "Search candidates by specific skills or keywords from the resume index",
	}, s.handleSearchCandidatesBySkills)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "score_candidate_qualifications",
		Description: "Score a candidate's resume against specific job qualifications using LLM evaluation",
	}, s.handleScoreCandidateQualifications)
}

func (s *Server) handleAdd(_ context.Context, _ *mcp.CallToolRequest, input MathInput) (*mcp.CallToolResult, any, error) {
	s.logger.Info("tool called", zap.String(logger.FieldTool, "add"), zap.Int("a", input.A), zap.Int("b", input.B))
	return textResult(strconv.Itoa(input.A + input.B)), nil, nil
}

func (s *Server) handleSubtract(_ context.Context, _ *mcp.CallToolRequest, input MathInput) (*mcp.CallToolResult, any, error) {
	s.logger.Info("tool called", zap.String(logger.FieldTool, "subtract"), zap.Int("a", input.A), zap.Int("b", input.B))
	return textResult(strconv.Itoa(input.A - input.B)), nil, nil
}

func (s *Server) handleMultiply(_ context.Context, _ *mcp.CallToolRequest, input MathInput) (*mcp.CallToolResult, any, error) {
	s.logger.Info("tool called", zap.String(logger.FieldTool, "multiply"), zap.Int("a", input.A), zap.Int("b", input.B))
	return textResult(strconv.Itoa(input.A * input.B)), nil, nil
}

func (s *Server) handleExtractJobRequirements(ctx context.Context, _ *mcp.CallToolRequest, input ExtractInput) (*mcp.CallToolResult, any, error) {
	s.logger.Info("tool called",
		zap.String(logger.FieldTool, "extract_job_requirements"),
		zap.Int("jd_text_length", len(input.JDText)),
	)

	if s.deps.Extractor == nil {
		return errorResult(msgAIUnavailable), nil, nil
	}

	text := strings.TrimSpace(input.JDText)
	if text == "" {
		return errorResult("Job description text cannot be empty"), nil, nil
	}

	if len(text) < 10 {
		return errorResult("Job description text is too short to be meaningful"), nil, nil
	}

	job, err := s.deps.Extractor.ExtractJobRequirements(ctx, input.JDText)
	if err != nil {
		s.logger.Error("extraction failed", zap.Error(err))
		return errorResult(fmt.Sprintf("Failed to extract job requirements: %v", err)), nil, nil
	}

	return jsonResult(job, false), nil, nil
}

func (s *Server) handleFindMatchingCandidates(ctx context.Context, _ *mcp.CallToolRequest, input FindCandidatesInput) (*mcp.CallToolResult, any, error) {
	topK := defaultTopK
	if input.TopK != nil {
		topK = *input.TopK
	}

	enableReranking := true
	if input.EnableReranking != nil {
		enableReranking = *input.EnableReranking
	}

	s.logger.Info("tool called",
		zap.String(logger.FieldTool, "find_matching_candidates"),
		zap.Int("top_k", topK),
		zap.Bool("enable_reranking", enableReranking),
	)

	if s.deps.Retriever == nil {
		return errorResult(msgRetrievalUnavailable), nil, nil
	}

	if strings.TrimSpace(input.RequiredQualifications) == "" {
		return errorResult("Required qualifications cannot be empty"), nil, nil
	}

	if topK < 1 || topK > maxTopK {
		return errorResult("top_k must be an integer between 1 and 50"), nil, nil
	}

	required := jobdesc.SplitCommaList(input.RequiredQualifications)
	preferred := jobdesc.SplitCommaList(input.PreferredQualifications)

	candidates, err := s.deps.Retriever.RetrieveByQualifications(ctx, required, preferred, topK, enableReranking)
	if err != nil {
		s.logger.Error("candidate retrieval failed", zap.Error(err))
		return errorResult(fmt.Sprintf("Failed to find matching candidates: %v", err)), nil, nil
	}

	result := findCandidatesResult{
		SearchType:      "qualifications_based",
		TotalCandidates: len(candidates),
		SearchParameters: searchParameters{
			TopK:                    topK,
			EnableReranking:         enableReranking,
			RequiredQualifications:  required,
			PreferredQualifications: preferred,
		},
		Candidates: candidates,
	}

	s.logger.Info("found matching candidates", zap.Int("count", len(candidates)))

	return jsonResult(result, true), nil, nil
}

func (s *Server) handleSearchCandidatesBySkills(ctx context.Context, _ *mcp.CallToolRequest, input SkillSearchInput) (*mcp.CallToolResult, any, error) {
	topK := defaultTopK
	if input.TopK != nil {
		topK = *input.TopK
	}

	s.logger.Info("tool called",
		zap.String(logger.FieldTool, "search_candidates_by_skills"),
		zap.String("skills", input.Skills),
		zap.Int("top_k", topK),
	)

	if s.deps.Retriever == nil {
		return errorResult(msgRetrievalUnavailable), nil, nil
	}

	if strings.TrimSpace(input.Skills) == "" {
		return errorResult("Skills parameter cannot be empty"), nil, nil
	}

	if topK < 1 || topK > maxTopK {
		return errorResult("top_k must be an integer between 1 and 50"), nil, nil
	}

	skills := jobdesc.SplitCommaList(input.Skills)

	candidates, err := s.deps.Retriever.SearchBySkills(ctx, strings.Join(skills, ", "), topK)
	if err != nil {
		s.logger.Error("skill search failed", zap.Error(err))
		return errorResult(fmt.Sprintf("Failed to search candidates by skills: %v", err)), nil, nil
	}

	result := skillSearchResult{
		SearchSkills:     skills,
		TotalCandidates:  len(candidates),
		SearchParameters: skillSearchParameters{TopK: topK},
		Candidates:       candidates,
	}

	s.logger.Info("found candidates by skills", zap.Int("count", len(candidates)))

	return jsonResult(result, true), nil, nil
}

func (s *Server) handleScoreCandidateQualifications(ctx context.Context, _ *mcp.CallToolRequest, input ScoreInput) (*mcp.CallToolResult, any, error) {
	s.logger.Info("tool called", zap.String(logger.FieldTool, "score_candidate_qualifications"))

	if s.deps.Scorer == nil {
		return errorResult(msgAIUnavailable), nil, nil
	}

	if strings.TrimSpace(input.CandidateResume) == "" {
		return errorResult("Candidate resume cannot be empty"), nil, nil
	}

	if strings.TrimSpace(input.RequiredQualifications) == "" {
		return errorResult("Required qualifications cannot be empty"), nil, nil
	}

	req := &ai.ScoringRequest{
		Resume:         input.CandidateResume,
		Required:       jobdesc.SplitCommaList(input.RequiredQualifications),
		Preferred:      jobdesc.SplitCommaList(input.PreferredQualifications),
		JobTitle:       input.JobTitle,
		JobDescription: input.JobDescription,
	}

	result, err := s.deps.Scorer.ScoreCandidate(ctx, req)
	if err != nil {
		s.logger.Error("candidate scoring failed", zap.Error(err))
		return errorResult(fmt.Sprintf("Failed to score candidate qualifications: %v", err)), nil, nil
	}

	return jsonResult(result, true), nil, nil
}

// textResult wraps plain text in a tool call result.
func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

// jsonResult serializes the value to a JSON text payload.
func jsonResult(v any, indent bool) *mcp.CallToolResult {
	var data []byte
	var err error
	if indent {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return errorResult(fmt.Sprintf("Failed to serialize result: %v", err))
	}
	return textResult(string(data))
}

// errorResult wraps a failure into the JSON error envelope. Faults never
// leave the façade as protocol errors.
func errorResult(msg string) *mcp.CallToolResult {
	payload, _ := json.Marshal(map[string]string{"error": msg})
	return textResult(string(payload))
}
