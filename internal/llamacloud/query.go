package llamacloud

import (
	"fmt"
	"strings"

	"github.com/spigell/talent-scout/internal/jobdesc"
)

// BuildSearchQuery turns a structured job requirement into a natural-language
// query for the resume index. Clauses with empty source fields are omitted.
func BuildSearchQuery(job *jobdesc.JobRequirement) string {
	parts := make([]string, 0, 4)

	if job.Title != "" {
		parts = append(parts, fmt.Sprintf("Job Title: %s", job.Title))
	}

	if len(job.RequiredQualifications) > 0 {
		parts = append(parts, fmt.Sprintf("Required Qualifications: %s", strings.Join(job.RequiredQualifications, " ")))
	}

	if len(job.PreferredQualifications) > 0 {
		parts = append(parts, fmt.Sprintf("Preferred Qualifications: %s", strings.Join(job.PreferredQualifications, " ")))
	}

	if job.ExperienceLevel != "" {
		parts = append(parts, fmt.Sprintf("Experience Level: %s", job.ExperienceLevel))
	}

	return strings.Join(parts, " ")
}

// BuildQualificationsQuery builds a query straight from qualification lists.
// A combined clause covering both lists is appended so the search stays broad.
func BuildQualificationsQuery(required, preferred []string) string {
	parts := make([]string, 0, 3)

	if len(required) > 0 {
		parts = append(parts, fmt.Sprintf("Required skills and qualifications: %s", strings.Join(required, ", ")))
	}

	if len(preferred) > 0 {
		parts = append(parts, fmt.Sprintf("Preferred skills and experience: %s", strings.Join(preferred, ", ")))
	}

	all := make([]string, 0, len(required)+len(preferred))
	all = append(all, required...)
	all = append(all, preferred...)
	if len(all) > 0 {
		parts = append(parts, fmt.Sprintf("Relevant experience with: %s", strings.Join(all, ", ")))
	}

	return strings.Join(parts, " ")
}

// BuildSkillsQuery builds the query used by the skill search tool.
func BuildSkillsQuery(skills string) string {
	return fmt.Sprintf("Skills and experience in: %s", skills)
}
