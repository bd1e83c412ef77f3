package model

import (
	"fmt"
	"time"
)

// JobType is the closed set of employment types a posting can carry
type JobType string

const (
	JobTypeFullTime   JobType = "Full-time"
	JobTypePartTime   JobType = "Part-time"
	JobTypeContract   JobType = "Contract"
	JobTypeInternship JobType = "Internship"
)

// Valid reports whether the job type is one of the known values
func (t JobType) Valid() bool {
	switch t {
	case JobTypeFullTime, JobTypePartTime, JobTypeContract, JobTypeInternship:
		return true
	}
	return false
}

// ValidationError rejects a request before any persistence attempt
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}

// Job represents a posting under exactly one company. CompanyID never
// changes after creation. IsActive controls public visibility only;
// deletion is a separate, hard operation.
type Job struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	CompanyID   uint      `json:"company_id" gorm:"index;not null"`
	Title       string    `json:"title" gorm:"type:varchar(100);not null;index"`
	Location    string    `json:"location" gorm:"type:varchar(100);not null"`
	Description string    `json:"description" gorm:"type:text;not null"`
	JobType     JobType   `json:"job_type" gorm:"type:varchar(20);not null;default:'Full-time'"`
	MinSalary   *int      `json:"min_salary"`
	MaxSalary   *int      `json:"max_salary"`
	Currency    string    `json:"currency" gorm:"type:varchar(3);not null;default:'USD'"`
	IsActive    bool      `json:"is_active" gorm:"not null;default:true"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// JobSummary is the listing projection: enough for a job card, without
// the full description.
type JobSummary struct {
	ID        uint      `json:"id"`
	Title     string    `json:"title"`
	Location  string    `json:"location"`
	JobType   JobType   `json:"job_type"`
	MinSalary *int      `json:"min_salary"`
	MaxSalary *int      `json:"max_salary"`
	Currency  string    `json:"currency"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// Summary projects the job for listing views
func (j *Job) Summary() JobSummary {
	return JobSummary{
		ID:        j.ID,
		Title:     j.Title,
		Location:  j.Location,
		JobType:   j.JobType,
		MinSalary: j.MinSalary,
		MaxSalary: j.MaxSalary,
		Currency:  j.Currency,
		IsActive:  j.IsActive,
		CreatedAt: j.CreatedAt,
	}
}

// JobCreateRequest carries the fields of a new posting
type JobCreateRequest struct {
	Title       string  `json:"title"`
	Location    string  `json:"location"`
	Description string  `json:"description"`
	JobType     JobType `json:"job_type"`
	MinSalary   *int    `json:"min_salary"`
	MaxSalary   *int    `json:"max_salary"`
	Currency    string  `json:"currency"`
}

// Validate checks the request and fills defaults. Rejections happen here,
// before anything touches the database.
func (r *JobCreateRequest) Validate() error {
	if len(r.Title) < 3 {
		return &ValidationError{Field: "title", Message: "must be at least 3 characters"}
	}
	if len(r.Location) < 2 {
		return &ValidationError{Field: "location", Message: "must be at least 2 characters"}
	}
	if len(r.Description) < 10 {
		return &ValidationError{Field: "description", Message: "must be at least 10 characters"}
	}
	if r.JobType == "" {
		r.JobType = JobTypeFullTime
	}
	if !r.JobType.Valid() {
		return &ValidationError{Field: "job_type", Message: "unknown job type"}
	}
	if r.Currency == "" {
		r.Currency = "USD"
	}
	if err := validateCurrency(r.Currency); err != nil {
		return err
	}
	return validateSalaryRange(r.MinSalary, r.MaxSalary)
}

// JobUpdateRequest carries a partial update. A nil field was omitted and
// leaves the stored value untouched; a set field replaces it. This is the
// only way "absent" and "set" are told apart.
type JobUpdateRequest struct {
	Title       *string  `json:"title"`
	Location    *string  `json:"location"`
	Description *string  `json:"description"`
	JobType     *JobType `json:"job_type"`
	MinSalary   *int     `json:"min_salary"`
	MaxSalary   *int     `json:"max_salary"`
	Currency    *string  `json:"currency"`
}

// Validate checks only the fields that were supplied
func (r *JobUpdateRequest) Validate() error {
	if r.Title != nil && len(*r.Title) < 3 {
		return &ValidationError{Field: "title", Message: "must be at least 3 characters"}
	}
	if r.Location != nil && len(*r.Location) < 2 {
		return &ValidationError{Field: "location", Message: "must be at least 2 characters"}
	}
	if r.Description != nil && len(*r.Description) < 10 {
		return &ValidationError{Field: "description", Message: "must be at least 10 characters"}
	}
	if r.JobType != nil && !r.JobType.Valid() {
		return &ValidationError{Field: "job_type", Message: "unknown job type"}
	}
	if r.Currency != nil {
		if err := validateCurrency(*r.Currency); err != nil {
			return err
		}
	}
	return nil
}

// Apply writes the supplied fields onto the job. Call CheckSalaryRange
// afterwards: an update may set only one bound and still break the
// min/max invariant against the stored value.
func (j *Job) Apply(r *JobUpdateRequest) {
	if r.Title != nil {
		j.Title = *r.Title
	}
	if r.Location != nil {
		j.Location = *r.Location
	}
	if r.Description != nil {
		j.Description = *r.Description
	}
	if r.JobType != nil {
		j.JobType = *r.JobType
	}
	if r.MinSalary != nil {
		j.MinSalary = r.MinSalary
	}
	if r.MaxSalary != nil {
		j.MaxSalary = r.MaxSalary
	}
	if r.Currency != nil {
		j.Currency = *r.Currency
	}
}

// CheckSalaryRange validates the job's salary bounds as stored
func (j *Job) CheckSalaryRange() error {
	return validateSalaryRange(j.MinSalary, j.MaxSalary)
}

func validateSalaryRange(min, max *int) error {
	if min != nil && *min < 0 {
		return &ValidationError{Field: "min_salary", Message: "must not be negative"}
	}
	if max != nil && *max < 0 {
		return &ValidationError{Field: "max_salary", Message: "must not be negative"}
	}
	if min != nil && max != nil && *max < *min {
		return &ValidationError{Field: "max_salary", Message: "must be greater than or equal to min_salary"}
	}
	return nil
}

func validateCurrency(code string) error {
	if len(code) != 3 {
		return &ValidationError{Field: "currency", Message: "must be a 3-letter code"}
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return &ValidationError{Field: "currency", Message: "must be uppercase letters"}
		}
	}
	return nil
}
