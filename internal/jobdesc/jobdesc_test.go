package jobdesc

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
)

func TestApplyDefaults(t *testing.T) {
	job := &JobRequirement{}
	job.ApplyDefaults()

	if job.Title != UnknownTitle {
		t.Fatalf("expected title %q, got %q", UnknownTitle, job.Title)
	}
	if job.Company != UnknownCompany {
		t.Fatalf("expected company %q, got %q", UnknownCompany, job.Company)
	}
	for name, got := range map[string]string{
		"location":         job.Location,
		"experience level": job.ExperienceLevel,
		"employment type":  job.EmploymentType,
	} {
		if got != NotSpecified {
			t.Fatalf("expected %s to default to %q, got %q", name, NotSpecified, got)
		}
	}
}

func TestApplyDefaultsKeepsExistingValues(t *testing.T) {
	job := &JobRequirement{
		Title:                  "Backend Engineer",
		Company:                "Acme",
		RequiredQualifications: []string{"Go"},
	}
	job.ApplyDefaults()

	if job.Title != "Backend Engineer" || job.Company != "Acme" {
		t.Fatalf("populated fields should be untouched, got %+v", job)
	}
	if len(job.RequiredQualifications) != 1 {
		t.Fatalf("unexpected required qualifications %v", job.RequiredQualifications)
	}
}

func TestApplyDefaultsSerializesEmptySlices(t *testing.T) {
	job := &JobRequirement{}
	job.ApplyDefaults()

	data, err := json.Marshal(job)
	if err != nil {
		t.Fatalf("marshaling job: %v", err)
	}
	if strings.Contains(string(data), "null") {
		t.Fatalf("qualification slices should serialize as [], got %s", data)
	}
}

func TestSplitCommaList(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  []string
	}{
		{"simple", "Go,Kubernetes", []string{"Go", "Kubernetes"}},
		{"trims whitespace", "  Go , Kubernetes ,gRPC ", []string{"Go", "Kubernetes", "gRPC"}},
		{"drops empty items", "Go,,Kubernetes,", []string{"Go", "Kubernetes"}},
		{"empty input", "", []string{}},
		{"whitespace only", "  , ,  ", []string{}},
		{"multi-word items", "machine learning, data science", []string{"machine learning", "data science"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := SplitCommaList(tc.input)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("SplitCommaList(%q) = %v, want %v", tc.input, got, tc.want)
			}
		})
	}
}
