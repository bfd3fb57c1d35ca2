package llamacloud

import "testing"

func TestDedupeAndRankDropsRepeatedFiles(t *testing.T) {
	candidates := []*CandidateMatch{
		{NodeID: "a", Score: 0.5, FileName: "one.pdf"},
		{NodeID: "b", Score: 0.9, FileName: "two.pdf"},
		{NodeID: "c", Score: 0.8, FileName: "one.pdf"},
		{NodeID: "d", Score: 0.7, FileName: ""},
		{NodeID: "e", Score: 0.6, FileName: ""},
	}

	result := DedupeAndRank(candidates)

	if len(result) != 4 {
		t.Fatalf("expected 4 candidates, got %d", len(result))
	}

	for _, c := range result {
		if c.NodeID == "c" {
			t.Fatalf("second occurrence of one.pdf must be dropped")
		}
	}

	// Candidates without a file name are never deduplicated.
	var unnamed int
	for _, c := range result {
		if c.FileName == "" {
			unnamed++
		}
	}
	if unnamed != 2 {
		t.Fatalf("expected both unnamed candidates to survive, got %d", unnamed)
	}
}

func TestDedupeAndRankOrdersByScoreDescending(t *testing.T) {
	candidates := []*CandidateMatch{
		{NodeID: "a", Score: 0.1},
		{NodeID: "b", Score: 0.9},
		{NodeID: "c", Score: 0.5},
	}

	result := DedupeAndRank(candidates)

	for i := 1; i < len(result); i++ {
		if result[i-1].Score < result[i].Score {
			t.Fatalf("scores must be non-increasing: %v before %v", result[i-1].Score, result[i].Score)
		}
	}

	if result[0].NodeID != "b" || result[1].NodeID != "c" || result[2].NodeID != "a" {
		t.Fatalf("unexpected order: %v %v %v", result[0].NodeID, result[1].NodeID, result[2].NodeID)
	}
}

func TestDedupeAndRankIsStableOnTies(t *testing.T) {
	candidates := []*CandidateMatch{
		{NodeID: "first", Score: 0.5},
		{NodeID: "second", Score: 0.5},
		{NodeID: "third", Score: 0.5},
	}

	result := DedupeAndRank(candidates)

	if result[0].NodeID != "first" || result[1].NodeID != "second" || result[2].NodeID != "third" {
		t.Fatalf("equal scores must keep input order: %v %v %v", result[0].NodeID, result[1].NodeID, result[2].NodeID)
	}
}

func TestDedupeAndRankKeepsFirstOccurrence(t *testing.T) {
	candidates := []*CandidateMatch{
		{NodeID: "low", Score: 0.2, FileName: "same.pdf"},
		{NodeID: "high", Score: 0.9, FileName: "same.pdf"},
	}

	result := DedupeAndRank(candidates)

	if len(result) != 1 {
		t.Fatalf("expected a single candidate, got %d", len(result))
	}

	// Dedup happens before ranking, so the earlier record wins even with a
	// lower score.
	if result[0].NodeID != "low" {
		t.Fatalf("expected the first occurrence to win, got %q", result[0].NodeID)
	}
}
