//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"strings"
	"time"

	apperrors "github.com/jobhuntos/jobhunt-api/internal/errors"
)

// EmploymentType is the kind of position applied for.
type EmploymentType string

const (
	EmploymentFullTime EmploymentType = "full-time"
	EmploymentPartTime EmploymentType = "part-time"
	EmploymentContract EmploymentType = "contract"
	EmploymentIntern   EmploymentType = "intern"
)

// EmploymentTypes lists every supported employment type.
var EmploymentTypes = []EmploymentType{
	EmploymentFullTime, EmploymentPartTime, EmploymentContract, EmploymentIntern,
}

// Valid reports whether the employment type is supported.
func (e EmploymentType) Valid() bool {
	switch e {
	case EmploymentFullTime, EmploymentPartTime, EmploymentContract, EmploymentIntern:
		return true
	default:
		return false
	}
}

// Stage is the position of an application in the hiring pipeline.
type Stage string

const (
	StageWishlist Stage = "wishlist"
	StageApplied  Stage = "applied"
	StageOA       Stage = "oa"
	StagePhone    Stage = "phone"
	StageOnsite   Stage = "onsite"
	StageOffer    Stage = "offer"
	StageRejected Stage = "rejected"
	StageGhosted  Stage = "ghosted"
)

// Stages lists every supported stage in pipeline order.
var Stages = []Stage{
	StageWishlist, StageApplied, StageOA, StagePhone, StageOnsite, StageOffer, StageRejected, StageGhosted,
}

// Valid reports whether the stage is supported.
func (s Stage) Valid() bool {
	switch s {
	case StageWishlist, StageApplied, StageOA, StagePhone, StageOnsite, StageOffer, StageRejected, StageGhosted:
		return true
	default:
		return false
	}
}

// Status is the lifecycle state of an application.
type Status string

const (
	StatusActive    Status = "active"
	StatusClosed    Status = "closed"
	StatusArchived  Status = "archived"
	StatusWithdrawn Status = "withdrawn"
)

// Statuses lists every supported status.
var Statuses = []Status{StatusActive, StatusClosed, StatusArchived, StatusWithdrawn}

// Valid reports whether the status is supported.
func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusClosed, StatusArchived, StatusWithdrawn:
		return true
	default:
		return false
	}
}

// ParseEmploymentType normalizes an employment type string and reports whether it is supported.
func ParseEmploymentType(value string) (EmploymentType, bool) {
	v := EmploymentType(strings.ToLower(strings.TrimSpace(value)))
	return v, v.Valid()
}

// ParseStage normalizes a stage string and reports whether it is supported.
func ParseStage(value string) (Stage, bool) {
	v := Stage(strings.ToLower(strings.TrimSpace(value)))
	return v, v.Valid()
}

// ParseStatus normalizes a status string and reports whether it is supported.
func ParseStatus(value string) (Status, bool) {
	v := Status(strings.ToLower(strings.TrimSpace(value)))
	return v, v.Valid()
}

// Application is a single tracked job application.
type Application struct {
	ID             int64           `json:"id"               db:"id"`
	Company        string          `json:"company"          db:"company"`
	Role           string          `json:"role"             db:"role"`
	Location       *string         `json:"location"         db:"location"`
	Source         *string         `json:"source"           db:"source"`
	Link           *string         `json:"link"             db:"link"`
	SalaryMin      *int            `json:"salary_min"       db:"salary_min"`
	SalaryMax      *int            `json:"salary_max"       db:"salary_max"`
	EmploymentType *EmploymentType `json:"employment_type"  db:"employment_type"`
	Stage          *Stage          `json:"stage"            db:"stage"`
	Status         *Status         `json:"status"           db:"status"`
	NextActionDate *Date           `json:"next_action_date" db:"next_action_date"`
	Notes          *string         `json:"notes"            db:"notes"`
	CreatedAt      time.Time       `json:"created_at"       db:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"       db:"updated_at"`
}

// CreateApplicationRequest represents parameters to create an Application.
type CreateApplicationRequest struct {
	Company        string          `json:"company"          validate:"required,max=200"`
	Role           string          `json:"role"             validate:"required,max=200"`
	Location       *string         `json:"location"         validate:"omitempty,max=200"`
	Source         *string         `json:"source"           validate:"omitempty,max=200"`
	Link           *string         `json:"link"             validate:"omitempty,max=500,http_url"`
	SalaryMin      *int            `json:"salary_min"       validate:"omitempty,gte=0,lte=2147483647"`
	SalaryMax      *int            `json:"salary_max"       validate:"omitempty,gte=0,lte=2147483647"`
	EmploymentType *EmploymentType `json:"employment_type"  validate:"omitempty,employment_type"`
	Stage          *Stage          `json:"stage"            validate:"omitempty,stage"`
	Status         *Status         `json:"status"           validate:"omitempty,status"`
	NextActionDate *Date           `json:"next_action_date"`
	Notes          *string         `json:"notes"`
}

// Validate normalizes and validates CreateApplicationRequest.
func (r *CreateApplicationRequest) Validate() error {
	r.normalize()
	if err := validateFields(r); err != nil {
		return err
	}
	return checkSalaryRange(r.SalaryMin, r.SalaryMax)
}

func (r *CreateApplicationRequest) normalize() {
	r.Company = strings.TrimSpace(r.Company)
	r.Role = strings.TrimSpace(r.Role)
	r.Location = trimOptional(r.Location)
	r.Source = trimOptional(r.Source)
	r.Link = trimOptional(r.Link)
	r.EmploymentType = normalizeEnum(r.EmploymentType)
	r.Stage = normalizeEnum(r.Stage)
	r.Status = normalizeEnum(r.Status)
}

// UpdateApplicationRequest represents a partial update. Only keys present in
// the request body are applied; an explicit null clears an optional field.
type UpdateApplicationRequest struct {
	Company        Patch[string]         `json:"company"`
	Role           Patch[string]         `json:"role"`
	Location       Patch[string]         `json:"location"`
	Source         Patch[string]         `json:"source"`
	Link           Patch[string]         `json:"link"`
	SalaryMin      Patch[int]            `json:"salary_min"`
	SalaryMax      Patch[int]            `json:"salary_max"`
	EmploymentType Patch[EmploymentType] `json:"employment_type"`
	Stage          Patch[Stage]          `json:"stage"`
	Status         Patch[Status]         `json:"status"`
	NextActionDate Patch[Date]           `json:"next_action_date"`
	Notes          Patch[string]         `json:"notes"`
}

// HasUpdates reports whether any field is set in UpdateApplicationRequest.
func (r *UpdateApplicationRequest) HasUpdates() bool {
	return r.Company.Set || r.Role.Set || r.Location.Set || r.Source.Set || r.Link.Set ||
		r.SalaryMin.Set || r.SalaryMax.Set || r.EmploymentType.Set || r.Stage.Set || r.Status.Set ||
		r.NextActionDate.Set || r.Notes.Set
}

// Validate re-validates only the supplied fields, using the same rules as create.
func (r *UpdateApplicationRequest) Validate() error {
	if !r.HasUpdates() {
		return apperrors.Validation("at least one field must be updated")
	}
	if r.Company.Set && r.Company.Null {
		return apperrors.ValidationField("company", "cannot be null")
	}
	if r.Role.Set && r.Role.Null {
		return apperrors.ValidationField("role", "cannot be null")
	}

	r.normalize()

	view, fields := r.asCreateView()
	if err := validatePartial(view, fields...); err != nil {
		return err
	}
	return checkSalaryRange(r.SalaryMin.Ptr(), r.SalaryMax.Ptr())
}

func (r *UpdateApplicationRequest) normalize() {
	trimPatch(&r.Company)
	trimPatch(&r.Role)
	trimOptionalPatch(&r.Location)
	trimOptionalPatch(&r.Source)
	trimOptionalPatch(&r.Link)
	if r.EmploymentType.Set && !r.EmploymentType.Null {
		r.EmploymentType.Value = *normalizeEnum(&r.EmploymentType.Value)
	}
	if r.Stage.Set && !r.Stage.Null {
		r.Stage.Value = *normalizeEnum(&r.Stage.Value)
	}
	if r.Status.Set && !r.Status.Null {
		r.Status.Value = *normalizeEnum(&r.Status.Value)
	}
}

// asCreateView copies the supplied non-null values into a create request so the
// create struct tags stay the single set of field rules.
func (r *UpdateApplicationRequest) asCreateView() (*CreateApplicationRequest, []string) {
	view := &CreateApplicationRequest{}
	var fields []string
	if r.Company.Set {
		view.Company = r.Company.Value
		fields = append(fields, "Company")
	}
	if r.Role.Set {
		view.Role = r.Role.Value
		fields = append(fields, "Role")
	}
	if p := r.Location.Ptr(); p != nil {
		view.Location = p
		fields = append(fields, "Location")
	}
	if p := r.Source.Ptr(); p != nil {
		view.Source = p
		fields = append(fields, "Source")
	}
	if p := r.Link.Ptr(); p != nil {
		view.Link = p
		fields = append(fields, "Link")
	}
	if p := r.SalaryMin.Ptr(); p != nil {
		view.SalaryMin = p
		fields = append(fields, "SalaryMin")
	}
	if p := r.SalaryMax.Ptr(); p != nil {
		view.SalaryMax = p
		fields = append(fields, "SalaryMax")
	}
	if p := r.EmploymentType.Ptr(); p != nil {
		view.EmploymentType = p
		fields = append(fields, "EmploymentType")
	}
	if p := r.Stage.Ptr(); p != nil {
		view.Stage = p
		fields = append(fields, "Stage")
	}
	if p := r.Status.Ptr(); p != nil {
		view.Status = p
		fields = append(fields, "Status")
	}
	return view, fields
}

func checkSalaryRange(minSalary, maxSalary *int) error {
	if minSalary != nil && maxSalary != nil && *minSalary > *maxSalary {
		return apperrors.ValidationField("salary_min", "must be less than or equal to salary_max")
	}
	return nil
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func trimPatch(p *Patch[string]) {
	if p.Set && !p.Null {
		p.Value = strings.TrimSpace(p.Value)
	}
}

// trimOptionalPatch treats a blank optional value as a request to clear it.
func trimOptionalPatch(p *Patch[string]) {
	trimPatch(p)
	if p.Set && !p.Null && p.Value == "" {
		*p = PatchNull[string]()
	}
}

func normalizeEnum[T ~string](v *T) *T {
	if v == nil {
		return nil
	}
	n := T(strings.ToLower(strings.TrimSpace(string(*v))))
	return &n
}
