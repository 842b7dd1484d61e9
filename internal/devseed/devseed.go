// Package devseed inserts demo applications for local development.
package devseed

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jobhuntos/jobhunt-api/internal/domain/model"
)

// Creator stores new applications.
type Creator interface {
	Create(ctx context.Context, req *model.CreateApplicationRequest) (*model.Application, error)
}

// Applications returns the demo records. Follow-up dates are relative to today.
func Applications(today time.Time) []*model.CreateApplicationRequest {
	day := func(offset int) *model.Date {
		d := model.DateOf(today.AddDate(0, 0, offset))
		return &d
	}
	return []*model.CreateApplicationRequest{
		{
			Company:        "Acme",
			Role:           "Backend Developer",
			Location:       stringPtr("Remote"),
			Source:         stringPtr("LinkedIn"),
			Link:           stringPtr("https://jobs.acme.example/backend"),
			SalaryMin:      intPtr(110000),
			SalaryMax:      intPtr(140000),
			EmploymentType: enumPtr(model.EmploymentFullTime),
			Stage:          enumPtr(model.StageApplied),
			Status:         enumPtr(model.StatusActive),
			NextActionDate: day(3),
			Notes:          stringPtr("Follow up with the recruiter"),
		},
		{
			Company:        "Globex",
			Role:           "Site Reliability Engineer",
			Location:       stringPtr("Berlin"),
			Source:         stringPtr("Referral"),
			EmploymentType: enumPtr(model.EmploymentFullTime),
			Stage:          enumPtr(model.StagePhone),
			Status:         enumPtr(model.StatusActive),
			NextActionDate: day(1),
		},
		{
			Company:        "Initech",
			Role:           "Go Engineer",
			Source:         stringPtr("Company site"),
			SalaryMin:      intPtr(95000),
			EmploymentType: enumPtr(model.EmploymentContract),
			Stage:          enumPtr(model.StageOnsite),
			Status:         enumPtr(model.StatusActive),
			NextActionDate: day(7),
			Notes:          stringPtr("Take-home due before onsite"),
		},
		{
			Company:        "Umbrella",
			Role:           "Platform Engineer",
			Location:       stringPtr("Hybrid, London"),
			EmploymentType: enumPtr(model.EmploymentFullTime),
			Stage:          enumPtr(model.StageRejected),
			Status:         enumPtr(model.StatusClosed),
		},
		{
			Company: "Hooli",
			Role:    "Data Engineering Intern",
			Source:  stringPtr("Job board"),
			Link:    stringPtr("https://careers.hooli.example/intern"),
			Stage:   enumPtr(model.StageWishlist),
		},
		{
			Company:        "Stark Industries",
			Role:           "Backend Developer",
			SalaryMin:      intPtr(130000),
			SalaryMax:      intPtr(160000),
			EmploymentType: enumPtr(model.EmploymentFullTime),
			Stage:          enumPtr(model.StageOffer),
			Status:         enumPtr(model.StatusActive),
			NextActionDate: day(2),
			Notes:          stringPtr("Offer expires soon"),
		},
		{
			Company:        "Vandelay",
			Role:           "Part-time API Developer",
			EmploymentType: enumPtr(model.EmploymentPartTime),
			Stage:          enumPtr(model.StageGhosted),
			Status:         enumPtr(model.StatusArchived),
		},
	}
}

// Run inserts the demo records through c and returns how many were created.
// It stops at the first failure.
func Run(ctx context.Context, c Creator, logger *slog.Logger) (int, error) {
	if logger == nil {
		logger = slog.Default()
	}
	created := 0
	for _, req := range Applications(time.Now().UTC()) {
		app, err := c.Create(ctx, req)
		if err != nil {
			return created, fmt.Errorf("seed %s / %s: %w", req.Company, req.Role, err)
		}
		created++
		logger.InfoContext(ctx, "created application", "id", app.ID, "company", app.Company, "role", app.Role)
	}
	return created, nil
}

func stringPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }

func enumPtr[T ~string](v T) *T { return &v }
