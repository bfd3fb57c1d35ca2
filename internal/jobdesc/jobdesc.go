// Package jobdesc holds the structured job requirement entity extracted from
// free-text job descriptions.
package jobdesc

import "strings"

// Defaults applied when the extraction model omits a field.
const (
	UnknownTitle   = "Unknown Position"
	UnknownCompany = "Unknown"
	NotSpecified   = "Not specified"
)

// JobRequirement is the structured form of a job description. It is built
// once per request and never mutated afterwards.
type JobRequirement struct {
	Title                   string   `json:"title"`
	Company                 string   `json:"company"`
	Location                string   `json:"location"`
	RequiredQualifications  []string `json:"required_qualifications"`
	PreferredQualifications []string `json:"preferred_qualifications"`
	Description             string   `json:"description"`
	ExperienceLevel         string   `json:"experience_level"`
	EmploymentType          string   `json:"employment_type"`
}

// ApplyDefaults fills empty fields with their conventional fallbacks and
// makes sure the qualification slices are non-nil so they serialize as [].
func (j *JobRequirement) ApplyDefaults() {
	if strings.TrimSpace(j.Title) == "" {
		j.Title = UnknownTitle
	}
	if strings.TrimSpace(j.Company) == "" {
		j.Company = UnknownCompany
	}
	if strings.TrimSpace(j.Location) == "" {
		j.Location = NotSpecified
	}
	if strings.TrimSpace(j.ExperienceLevel) == "" {
		j.ExperienceLevel = NotSpecified
	}
	if strings.TrimSpace(j.EmploymentType) == "" {
		j.EmploymentType = NotSpecified
	}
	if j.RequiredQualifications == nil {
		j.RequiredQualifications = []string{}
	}
	if j.PreferredQualifications == nil {
		j.PreferredQualifications = []string{}
	}
}

// SplitCommaList splits a comma-separated string into trimmed, non-empty
// items. An empty or whitespace-only input yields an empty slice.
func SplitCommaList(s string) []string {
	items := []string{}
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		items = append(items, part)
	}
	return items
}
