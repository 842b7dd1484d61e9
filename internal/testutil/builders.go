package testutil

import (
	"github.com/jobhuntos/jobhunt-api/internal/domain/model"
)

// ApplicationRequestBuilder provides a fluent interface for building CreateApplicationRequest objects for testing.
type ApplicationRequestBuilder struct {
	req *model.CreateApplicationRequest
}

// NewApplicationRequest creates a builder with the required fields filled in.
func NewApplicationRequest(company, role string) *ApplicationRequestBuilder {
	return &ApplicationRequestBuilder{
		req: &model.CreateApplicationRequest{
			Company: company,
			Role:    role,
		},
	}
}

// WithStage sets the stage.
func (b *ApplicationRequestBuilder) WithStage(s model.Stage) *ApplicationRequestBuilder {
	b.req.Stage = &s
	return b
}

// WithStatus sets the status.
func (b *ApplicationRequestBuilder) WithStatus(s model.Status) *ApplicationRequestBuilder {
	b.req.Status = &s
	return b
}

// WithEmploymentType sets the employment type.
func (b *ApplicationRequestBuilder) WithEmploymentType(e model.EmploymentType) *ApplicationRequestBuilder {
	b.req.EmploymentType = &e
	return b
}

// WithLocation sets the location.
func (b *ApplicationRequestBuilder) WithLocation(loc string) *ApplicationRequestBuilder {
	b.req.Location = &loc
	return b
}

// WithSource sets where the posting was found.
func (b *ApplicationRequestBuilder) WithSource(src string) *ApplicationRequestBuilder {
	b.req.Source = &src
	return b
}

// WithLink sets the posting URL.
func (b *ApplicationRequestBuilder) WithLink(link string) *ApplicationRequestBuilder {
	b.req.Link = &link
	return b
}

// WithSalary sets the salary range.
func (b *ApplicationRequestBuilder) WithSalary(minSalary, maxSalary int) *ApplicationRequestBuilder {
	b.req.SalaryMin = &minSalary
	b.req.SalaryMax = &maxSalary
	return b
}

// WithNextActionDate sets the follow-up date.
func (b *ApplicationRequestBuilder) WithNextActionDate(d model.Date) *ApplicationRequestBuilder {
	b.req.NextActionDate = &d
	return b
}

// WithNotes sets free-form notes.
func (b *ApplicationRequestBuilder) WithNotes(notes string) *ApplicationRequestBuilder {
	b.req.Notes = &notes
	return b
}

// Build returns the constructed CreateApplicationRequest.
func (b *ApplicationRequestBuilder) Build() *model.CreateApplicationRequest {
	return b.req
}
