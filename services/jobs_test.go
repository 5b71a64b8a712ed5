package services

import (
	"context"
	"errors"
	"testing"

	"github.com/krshsl/campusjobs/backend/models"
	"github.com/krshsl/campusjobs/backend/repository"
)

func intPtr(n int) *int { return &n }

func TestJobInputValidate(t *testing.T) {
	valid := func() JobInput {
		return JobInput{
			Title:          "Intern",
			Company:        "Northwind",
			EmploymentType: models.EmploymentInternship,
			Description:    "Build things",
		}
	}

	tests := []struct {
		name   string
		mutate func(*JobInput)
		ok     bool
	}{
		{"valid", func(*JobInput) {}, true},
		{"missing title", func(in *JobInput) { in.Title = " " }, false},
		{"missing company", func(in *JobInput) { in.Company = "" }, false},
		{"missing description", func(in *JobInput) { in.Description = "" }, false},
		{"unknown employment type", func(in *JobInput) { in.EmploymentType = "gig" }, false},
		{"negative salary", func(in *JobInput) { in.SalaryMin = intPtr(-1) }, false},
		{"min above max", func(in *JobInput) { in.SalaryMin, in.SalaryMax = intPtr(10), intPtr(5) }, false},
		{"min equals max", func(in *JobInput) { in.SalaryMin, in.SalaryMax = intPtr(5), intPtr(5) }, true},
		{"ftp url", func(in *JobInput) { in.ApplicationURL = "ftp://example.com" }, false},
		{"https url", func(in *JobInput) { in.ApplicationURL = "https://example.com/apply" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid()
			tt.mutate(&in)
			err := in.validate()
			if tt.ok && err != nil {
				t.Errorf("validate() error = %v", err)
			}
			if !tt.ok && statusOf(err) != 400 {
				t.Errorf("validate() error = %v, want 400", err)
			}
		})
	}
}

func TestJobOwnership(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	jobs := NewJobService(repo)
	owner := createUser(t, repo, "owner", models.RoleRecruiter)
	other := createUser(t, repo, "other", models.RoleRecruiter)
	admin := createUser(t, repo, "admin", models.RoleAdmin)

	job, err := jobs.CreateJob(ctx, owner, JobInput{
		Title:          "Intern",
		Company:        "Northwind",
		EmploymentType: models.EmploymentInternship,
		Description:    "<ul><li>Go</li></ul>",
		Skills:         []string{"Go", " go "},
	})
	if err != nil {
		t.Fatalf("CreateJob() error = %v", err)
	}
	if len(job.Skills) != 1 || job.DescriptionText != "- Go" {
		t.Errorf("job = skills %v text %q", job.Skills, job.DescriptionText)
	}

	if _, err := jobs.CloseJob(ctx, other, job.ID); !errors.Is(err, ErrForbidden) {
		t.Errorf("CloseJob(other) error = %v, want ErrForbidden", err)
	}
	if _, err := jobs.CloseJob(ctx, admin, job.ID); err != nil {
		t.Fatalf("CloseJob(admin) error = %v", err)
	}
	if _, err := jobs.CloseJob(ctx, owner, job.ID); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("CloseJob(closed) error = %v, want ErrInvalidTransition", err)
	}

	all, total, err := jobs.ListJobs(ctx, repository.JobFilter{Status: "all", Limit: 10})
	if err != nil || total != 1 || len(all) != 1 {
		t.Errorf("ListJobs(all) = %d/%d, %v", len(all), total, err)
	}

	if err := jobs.DeleteJob(ctx, other, job.ID); !errors.Is(err, ErrForbidden) {
		t.Errorf("DeleteJob(other) error = %v, want ErrForbidden", err)
	}
	if err := jobs.DeleteJob(ctx, owner, job.ID); err != nil {
		t.Fatalf("DeleteJob() error = %v", err)
	}
	if _, err := jobs.GetJob(ctx, job.ID); !errors.Is(err, ErrJobNotFound) {
		t.Errorf("GetJob(deleted) error = %v, want ErrJobNotFound", err)
	}
}

func TestApplicationLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	jobs := NewJobService(repo)
	recruiter := createUser(t, repo, "recruiter", models.RoleRecruiter)
	student := createUser(t, repo, "student", models.RoleStudent)
	other := createUser(t, repo, "other", models.RoleStudent)
	job := createJob(t, repo, recruiter, "Intern", "Go")

	if _, err := jobs.Apply(ctx, recruiter, job.ID, ApplyInput{}); !errors.Is(err, ErrForbidden) {
		t.Errorf("Apply(recruiter) error = %v, want ErrForbidden", err)
	}

	otherResume, err := NewResumeService(repo, nil).Create(ctx, other.ID, ResumeInput{Content: "cv"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := jobs.Apply(ctx, student, job.ID, ApplyInput{ResumeID: &otherResume.ID}); !errors.Is(err, ErrResumeNotFound) {
		t.Errorf("Apply(foreign resume) error = %v, want ErrResumeNotFound", err)
	}

	application, err := jobs.Apply(ctx, student, job.ID, ApplyInput{CoverLetter: " hello "})
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if application.Status != models.ApplicationSubmitted || application.CoverLetter != "hello" {
		t.Errorf("application = %+v", application)
	}

	if _, err := jobs.UpdateApplicationStatus(ctx, recruiter, application.ID, "hired"); statusOf(err) != 400 {
		t.Errorf("unknown status error = %v, want 400", err)
	}
	if _, err := jobs.UpdateApplicationStatus(ctx, student, application.ID, models.ApplicationOffered); !errors.Is(err, ErrForbidden) {
		t.Errorf("UpdateApplicationStatus(applicant) error = %v, want ErrForbidden", err)
	}
	updated, err := jobs.UpdateApplicationStatus(ctx, recruiter, application.ID, models.ApplicationReviewing)
	if err != nil || updated.Status != models.ApplicationReviewing {
		t.Fatalf("UpdateApplicationStatus() = %+v, %v", updated, err)
	}

	if _, err := jobs.Withdraw(ctx, other, application.ID); !errors.Is(err, ErrForbidden) {
		t.Errorf("Withdraw(other) error = %v, want ErrForbidden", err)
	}
	if _, err := jobs.Withdraw(ctx, student, application.ID); err != nil {
		t.Fatalf("Withdraw() error = %v", err)
	}
	if _, err := jobs.UpdateApplicationStatus(ctx, recruiter, application.ID, models.ApplicationOffered); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("UpdateApplicationStatus(withdrawn) error = %v, want ErrInvalidTransition", err)
	}

	mine, err := jobs.ListMyApplications(ctx, student.ID)
	if err != nil || len(mine) != 1 {
		t.Errorf("ListMyApplications() = %d, %v", len(mine), err)
	}
}

func TestApplyToClosedJob(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	jobs := NewJobService(repo)
	recruiter := createUser(t, repo, "recruiter", models.RoleRecruiter)
	student := createUser(t, repo, "student", models.RoleStudent)
	job := createJob(t, repo, recruiter, "Intern")

	if _, err := jobs.CloseJob(ctx, recruiter, job.ID); err != nil {
		t.Fatalf("CloseJob() error = %v", err)
	}
	if _, err := jobs.Apply(ctx, student, job.ID, ApplyInput{}); !errors.Is(err, ErrJobClosed) {
		t.Errorf("Apply(closed) error = %v, want ErrJobClosed", err)
	}
}
