package store

import (
	"errors"

	"gorm.io/gorm"

	"github.com/BhanuBurman/career-page-builder/internal/model"
)

// ErrJobNotFound is returned when no job matches the id, or when the job
// exists under a different company. The two cases are deliberately
// indistinguishable so id guessing cannot probe other tenants' postings.
var ErrJobNotFound = errors.New("job not found")

// JobStore persists job postings. Ownership of the company is the
// caller's responsibility (checked by the access policy before any
// mutation lands here); this store only enforces company-id match.
type JobStore struct {
	db *gorm.DB
}

// NewJobStore creates a job store backed by the given database
func NewJobStore(db *gorm.DB) *JobStore {
	return &JobStore{db: db}
}

// Create validates and persists a new posting under the given company.
// Invalid requests are rejected before anything is written.
func (s *JobStore) Create(companyID uint, req *model.JobCreateRequest) (*model.Job, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	job := model.Job{
		CompanyID:   companyID,
		Title:       req.Title,
		Location:    req.Location,
		Description: req.Description,
		JobType:     req.JobType,
		MinSalary:   req.MinSalary,
		MaxSalary:   req.MaxSalary,
		Currency:    req.Currency,
		IsActive:    true,
	}

	if err := s.db.Create(&job).Error; err != nil {
		return nil, err
	}
	return &job, nil
}

// GetByID fetches a job by its id, regardless of company
func (s *JobStore) GetByID(jobID uint) (*model.Job, error) {
	var job model.Job
	if err := s.db.First(&job, jobID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, err
	}
	return &job, nil
}

// ListByCompany returns the company's jobs, newest first. With activeOnly
// set, postings toggled inactive are excluded.
func (s *JobStore) ListByCompany(companyID uint, activeOnly bool) ([]model.Job, error) {
	query := s.db.Where("company_id = ?", companyID)
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	var jobs []model.Job
	if err := query.Order("created_at DESC").Find(&jobs).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}

// Update applies the supplied fields to a job belonging to the given
// company. A company mismatch reads as not-found.
func (s *JobStore) Update(jobID, companyID uint, req *model.JobUpdateRequest) (*model.Job, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	job, err := s.getScoped(jobID, companyID)
	if err != nil {
		return nil, err
	}

	job.Apply(req)

	// A partial update may move one salary bound past the stored other
	if err := job.CheckSalaryRange(); err != nil {
		return nil, err
	}

	if err := s.db.Save(job).Error; err != nil {
		return nil, err
	}
	return job, nil
}

// Delete removes a job permanently. Returns false when the job does not
// exist or belongs to another company; nothing is mutated in that case.
func (s *JobStore) Delete(jobID, companyID uint) (bool, error) {
	result := s.db.Where("id = ? AND company_id = ?", jobID, companyID).Delete(&model.Job{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// SetActive sets the visibility flag directly. Setting the current value
// again is a no-op success, so the operation is idempotent.
func (s *JobStore) SetActive(jobID, companyID uint, isActive bool) (*model.Job, error) {
	job, err := s.getScoped(jobID, companyID)
	if err != nil {
		return nil, err
	}

	if job.IsActive == isActive {
		return job, nil
	}

	job.IsActive = isActive
	if err := s.db.Save(job).Error; err != nil {
		return nil, err
	}
	return job, nil
}

func (s *JobStore) getScoped(jobID, companyID uint) (*model.Job, error) {
	var job model.Job
	if err := s.db.Where("id = ? AND company_id = ?", jobID, companyID).First(&job).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, err
	}
	return &job, nil
}
