package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/krshsl/campusjobs/backend/models"
)

func TestEstimateSalary(t *testing.T) {
	gen := &fakeGenerator{response: `{"min": 95000, "max": 70000.4, "currency": "usd", "period": "year", "confidence": "medium", "rationale": " Entry level pay in the region. "}`}
	career := NewCareerService(newTestRepo(t), gen)

	estimate, err := career.EstimateSalary(context.Background(), SalaryInput{
		Role:            "Backend Engineer",
		Location:        "Seattle",
		ExperienceYears: 1,
		Skills:          []string{"Go", "go", "SQL"},
	})
	if err != nil {
		t.Fatalf("EstimateSalary() error = %v", err)
	}
	// Reversed bounds are swapped
	if estimate.Min != 70000 || estimate.Max != 95000 {
		t.Errorf("range = %d..%d, want 70000..95000", estimate.Min, estimate.Max)
	}
	if estimate.Currency != "USD" || estimate.Rationale != "Entry level pay in the region." {
		t.Errorf("estimate = %+v", estimate)
	}
}

func TestEstimateSalaryErrors(t *testing.T) {
	repo := newTestRepo(t)

	tests := []struct {
		name    string
		gen     TextGenerator
		in      SalaryInput
		wantErr error
		status  int
	}{
		{"missing role", &fakeGenerator{}, SalaryInput{}, nil, 400},
		{"experience out of range", &fakeGenerator{}, SalaryInput{Role: "dev", ExperienceYears: 51}, nil, 400},
		{"no model", nil, SalaryInput{Role: "dev"}, ErrAIUnavailable, 503},
		{"bad period", &fakeGenerator{response: `{"min": 1, "max": 2, "currency": "USD", "period": "week", "confidence": "low", "rationale": ""}`}, SalaryInput{Role: "dev"}, ErrAIOutput, 502},
		{"negative salary", &fakeGenerator{response: `{"min": -1, "max": 2, "currency": "USD", "period": "year", "confidence": "low", "rationale": ""}`}, SalaryInput{Role: "dev"}, ErrAIOutput, 502},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCareerService(repo, tt.gen).EstimateSalary(context.Background(), tt.in)
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
			if got := statusOf(err); got != tt.status {
				t.Errorf("status = %d, want %d", got, tt.status)
			}
		})
	}
}

func TestMatchJobsWithModel(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	recruiter := createUser(t, repo, "recruiter", models.RoleRecruiter)
	student := createUser(t, repo, "student", models.RoleStudent)
	student.Skills = []string{"Go"}

	backend := createJob(t, repo, recruiter, "Backend Intern", "Go", "SQL")
	frontend := createJob(t, repo, recruiter, "Frontend Intern", "React")

	gen := &fakeGenerator{response: fmt.Sprintf(`{"matches": [
	  {"job_id": %q, "score": 140, "reason": "Strong Go background"},
	  {"job_id": "not-a-listing", "score": 99, "reason": "hallucinated"}
	]}`, backend.ID)}

	matches, err := NewCareerService(repo, gen).MatchJobs(ctx, student, 10)
	if err != nil {
		t.Fatalf("MatchJobs() error = %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("matches = %d, want 2", len(matches))
	}

	first, second := matches[0], matches[1]
	if first.Job.ID != backend.ID || first.Score != 100 || first.Source != MatchSourceAI {
		t.Errorf("first match = %s score %d source %s", first.Job.Title, first.Score, first.Source)
	}
	// The listing the model skipped falls back to skill overlap
	if second.Job.ID != frontend.ID || second.Source != MatchSourceSkills || second.Score != 0 {
		t.Errorf("second match = %s score %d source %s", second.Job.Title, second.Score, second.Source)
	}
}

func TestMatchJobsFallback(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	recruiter := createUser(t, repo, "recruiter", models.RoleRecruiter)
	student := createUser(t, repo, "student", models.RoleStudent)
	student.Skills = []string{"go"}

	createJob(t, repo, recruiter, "Backend Intern", "Go", "SQL")
	createJob(t, repo, recruiter, "Data Intern", "Python", "SQL", "Statistics", "Pandas")
	if _, err := NewResumeService(repo, nil).Create(ctx, student.ID, ResumeInput{Content: "Built reporting in SQL and Python"}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	for name, gen := range map[string]TextGenerator{
		"no model":     nil,
		"model errors": &fakeGenerator{err: errors.New("boom")},
		"model junk":   &fakeGenerator{response: "no idea"},
	} {
		t.Run(name, func(t *testing.T) {
			matches, err := NewCareerService(repo, gen).MatchJobs(ctx, student, 10)
			if err != nil {
				t.Fatalf("MatchJobs() error = %v", err)
			}
			if len(matches) != 2 {
				t.Fatalf("matches = %d, want 2", len(matches))
			}
			// Go from skills plus SQL from the resume: 2/2
			if matches[0].Job.Title != "Backend Intern" || matches[0].Score != 100 {
				t.Errorf("first = %s %d", matches[0].Job.Title, matches[0].Score)
			}
			// Python and SQL from the resume: 2/4
			if matches[1].Score != 50 || matches[1].Source != MatchSourceSkills {
				t.Errorf("second = %s %d %s", matches[1].Job.Title, matches[1].Score, matches[1].Source)
			}
		})
	}
}

func TestSkillMatch(t *testing.T) {
	tests := []struct {
		name   string
		skills []string
		resume string
		job    []string
		want   int
	}{
		{"no listing skills", []string{"Go"}, "", nil, 0},
		{"case insensitive", []string{"GO"}, "", []string{"go"}, 100},
		{"partial", []string{"Go"}, "", []string{"Go", "Rust", "SQL"}, 33},
		{"resume mention", nil, "shipped a Kafka consumer", []string{"kafka", "Go"}, 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := skillMatch(tt.skills, tt.resume, models.JobListing{Skills: tt.job})
			if got.Score != tt.want {
				t.Errorf("score = %d, want %d (%s)", got.Score, tt.want, got.Reason)
			}
		})
	}
}

func TestClampScore(t *testing.T) {
	tests := []struct {
		in   float64
		want int
	}{
		{-5, 0},
		{49.6, 50},
		{100.4, 100},
		{1e20, 100},
		{-1e20, 0},
		{math.NaN(), 0},
	}
	for _, tt := range tests {
		if got := clampScore(tt.in); got != tt.want {
			t.Errorf("clampScore(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestMatchJobsHugeModelScore(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	recruiter := createUser(t, repo, "recruiter", models.RoleRecruiter)
	student := createUser(t, repo, "student", models.RoleStudent)
	job := createJob(t, repo, recruiter, "Backend Intern", "Go")

	gen := &fakeGenerator{response: fmt.Sprintf(`{"matches": [{"job_id": %q, "score": 1e20}]}`, job.ID)}
	matches, err := NewCareerService(repo, gen).MatchJobs(ctx, student, 10)
	if err != nil {
		t.Fatalf("MatchJobs() error = %v", err)
	}
	if len(matches) != 1 || matches[0].Score != 100 || matches[0].Source != MatchSourceAI {
		t.Errorf("matches = %+v, want one ai match scored 100", matches)
	}
}

func TestEstimateSalaryHugeAmounts(t *testing.T) {
	gen := &fakeGenerator{response: `{"min": 1e30, "max": 5e25, "currency": "USD", "period": "year", "confidence": "low", "rationale": ""}`}
	estimate, err := NewCareerService(newTestRepo(t), gen).EstimateSalary(context.Background(), SalaryInput{Role: "dev"})
	if err != nil {
		t.Fatalf("EstimateSalary() error = %v", err)
	}
	if estimate.Min != maxSalaryAmount || estimate.Max != maxSalaryAmount {
		t.Errorf("range = %d..%d, want both capped at %d", estimate.Min, estimate.Max, maxSalaryAmount)
	}
}

func TestMatchJobsLimit(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	recruiter := createUser(t, repo, "recruiter", models.RoleRecruiter)
	student := createUser(t, repo, "student", models.RoleStudent)
	for i := 0; i < defaultMatchLimit+2; i++ {
		createJob(t, repo, recruiter, fmt.Sprintf("Intern %d", i), "Go")
	}
	career := NewCareerService(repo, nil)

	tests := []struct {
		name  string
		limit int
		want  int
	}{
		{"default", 0, defaultMatchLimit},
		{"small", 3, 3},
		{"above candidate cap", matchCandidates + 100, defaultMatchLimit + 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matches, err := career.MatchJobs(ctx, student, tt.limit)
			if err != nil {
				t.Fatalf("MatchJobs() error = %v", err)
			}
			if len(matches) != tt.want {
				t.Errorf("MatchJobs(%d) = %d matches, want %d", tt.limit, len(matches), tt.want)
			}
		})
	}
}
