package llamacloud

import (
	"path"
	"regexp"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// UnknownCandidate is the sentinel name used when no candidate name could be
// inferred from a retrieved record.
const UnknownCandidate = "Unknown Candidate"

// nameScanLimit bounds how far into the content the name heuristics look.
const nameScanLimit = 200

// CandidateMatch is the uniform representation of one retrieved resume chunk.
// CandidateName and FileName are best-effort derived fields, never identity.
type CandidateMatch struct {
	NodeID        string         `json:"node_id"`
	Score         float64        `json:"score"`
	Content       string         `json:"content"`
	Metadata      map[string]any `json:"metadata"`
	CandidateName string         `json:"candidate_name"`
	FileName      string         `json:"file_name"`
}

// rawNode mirrors the variable shape of a retrieval result: either a flat
// node carrying text and metadata directly, or a scored wrapper around an
// inner node.
type rawNode struct {
	ID        string         `json:"id_"`
	NodeID    string         `json:"node_id"`
	Score     float64        `json:"score"`
	Text      string         `json:"text"`
	Content   string         `json:"content"`
	Metadata  map[string]any `json:"metadata"`
	ExtraInfo map[string]any `json:"extra_info"`
	Node      *rawNode       `json:"node"`
}

// Name heuristics: a two-capitalized-word pattern at the start of the text,
// after a "Name:" label, or followed by a line break. Checked in this order.
var namePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^([A-Z][a-z]+ [A-Z][a-z]+)`),
	regexp.MustCompile(`Name:?\s*([A-Z][a-z]+ [A-Z][a-z]+)`),
	regexp.MustCompile(`([A-Z][a-z]+ [A-Z][a-z]+)\s*\n`),
}

// NormalizeCandidate maps one raw search record into a CandidateMatch. It is
// a total function: when the record cannot be decoded it falls back to
// pulling out whatever identifier, score, content and metadata it can find,
// leaving the remaining fields at their defaults.
func NormalizeCandidate(record map[string]any) *CandidateMatch {
	var node rawNode
	cfg := &mapstructure.DecoderConfig{
		Result:           &node,
		TagName:          "json",
		WeaklyTypedInput: true,
	}

	decoder, err := mapstructure.NewDecoder(cfg)
	if err == nil {
		err = decoder.Decode(record)
	}
	if err != nil {
		return fallbackCandidate(record)
	}

	nodeID := node.ID
	if nodeID == "" {
		nodeID = node.NodeID
	}

	var content string
	var metadata map[string]any
	if node.Node != nil {
		inner := node.Node
		if nodeID == "" {
			nodeID = inner.ID
		}
		content = firstNonEmpty(inner.Text, inner.Content)
		metadata = firstNonEmptyMap(inner.Metadata, inner.ExtraInfo)
	} else {
		content = firstNonEmpty(node.Text, node.Content)
		metadata = firstNonEmptyMap(node.Metadata, node.ExtraInfo)
	}

	fileName := fileNameFromMetadata(metadata)

	name := nameFromFileName(fileName)
	if name == "" {
		name = nameFromContent(content)
	}
	if name == "" {
		name = UnknownCandidate
	}

	return &CandidateMatch{
		NodeID:        nodeID,
		Score:         node.Score,
		Content:       content,
		Metadata:      metadata,
		CandidateName: name,
		FileName:      fileName,
	}
}

// fallbackCandidate performs the best-effort extraction used when decoding
// fails. Name inference is skipped; the sentinel is kept.
func fallbackCandidate(record map[string]any) *CandidateMatch {
	match := &CandidateMatch{CandidateName: UnknownCandidate}

	if id, ok := record["id_"].(string); ok && id != "" {
		match.NodeID = id
	} else if id, ok := record["node_id"].(string); ok {
		match.NodeID = id
	}

	if score, ok := record["score"].(float64); ok {
		match.Score = score
	}

	match.Content = firstNonEmpty(stringValue(record["text"]), stringValue(record["content"]))

	if meta, ok := record["metadata"].(map[string]any); ok {
		match.Metadata = meta
	}

	return match
}

// fileNameFromMetadata looks up the source file under the metadata keys the
// index is known to use, first non-empty wins.
func fileNameFromMetadata(metadata map[string]any) string {
	for _, key := range []string{"file_name", "filename", "file_path"} {
		if value := stringValue(metadata[key]); value != "" {
			return value
		}
	}
	return ""
}

// nameFromFileName derives a candidate name from the source file: base name
// up to the first dot, underscores and hyphens replaced with spaces, then
// title-cased. Names starting with "resume" are rejected so generic file
// names do not masquerade as people.
func nameFromFileName(fileName string) string {
	if fileName == "" {
		return ""
	}

	base := path.Base(strings.ReplaceAll(fileName, "\\", "/"))
	namePart, _, _ := strings.Cut(base, ".")
	namePart = strings.ReplaceAll(namePart, "_", " ")
	namePart = strings.ReplaceAll(namePart, "-", " ")
	namePart = strings.TrimSpace(namePart)

	if namePart == "" || strings.HasPrefix(strings.ToLower(namePart), "resume") {
		return ""
	}

	return titleCase(namePart)
}

// nameFromContent scans the head of the retrieved text with the name
// heuristics, in order.
func nameFromContent(content string) string {
	if content == "" {
		return ""
	}

	head := content
	if runes := []rune(head); len(runes) > nameScanLimit {
		head = string(runes[:nameScanLimit])
	}

	for _, pattern := range namePatterns {
		if m := pattern.FindStringSubmatch(head); m != nil {
			return m[1]
		}
	}

	return ""
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, word := range words {
		runes := []rune(word)
		for j, r := range runes {
			if j == 0 {
				runes[j] = []rune(strings.ToUpper(string(r)))[0]
			} else {
				runes[j] = []rune(strings.ToLower(string(r)))[0]
			}
		}
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstNonEmptyMap(maps ...map[string]any) map[string]any {
	for _, m := range maps {
		if len(m) > 0 {
			return m
		}
	}
	return map[string]any{}
}

func stringValue(v any) string {
	s, _ := v.(string)
	return s
}
