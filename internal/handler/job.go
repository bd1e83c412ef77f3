package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/BhanuBurman/career-page-builder/internal/metrics"
	"github.com/BhanuBurman/career-page-builder/internal/model"
	"github.com/BhanuBurman/career-page-builder/internal/policy"
	"github.com/BhanuBurman/career-page-builder/internal/store"
	"github.com/BhanuBurman/career-page-builder/pkg/logger"
	"github.com/BhanuBurman/career-page-builder/pkg/notifier"
)

// JobStore is the persistence surface the job handlers need. All scoped
// mutations take the owning company id; ownership of that company is
// checked here, before the store is touched.
type JobStore interface {
	Create(companyID uint, req *model.JobCreateRequest) (*model.Job, error)
	GetByID(jobID uint) (*model.Job, error)
	ListByCompany(companyID uint, activeOnly bool) ([]model.Job, error)
	Update(jobID, companyID uint, req *model.JobUpdateRequest) (*model.Job, error)
	Delete(jobID, companyID uint) (bool, error)
	SetActive(jobID, companyID uint, isActive bool) (*model.Job, error)
}

// JobHandler serves the job posting endpoints
type JobHandler struct {
	companies CompanyStore
	jobs      JobStore
	notify    notifier.Notifier
}

// NewJobHandler creates a job handler
func NewJobHandler(companies CompanyStore, jobs JobStore, notify notifier.Notifier) *JobHandler {
	return &JobHandler{companies: companies, jobs: jobs, notify: notify}
}

// Create handles job creation under a company the caller owns
func (h *JobHandler) Create(c echo.Context) error {
	log := logger.FromEcho(c)
	metrics.RecordJobOperation("create")

	company, err := h.ownedCompany(c)
	if err != nil {
		return writePolicyError(c, err)
	}

	var req model.JobCreateRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse job creation request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	defer metrics.TrackDBOperation("insert")(time.Now())

	job, err := h.jobs.Create(company.ID, &req)
	if err != nil {
		var verr *model.ValidationError
		if errors.As(err, &verr) {
			log.Warn("Job validation failed", zap.String("field", verr.Field), zap.String("reason", verr.Message))
			return c.JSON(http.StatusBadRequest, echo.Map{"error": verr.Error()})
		}
		log.Error("Failed to create job", zap.Uint("company_id", company.ID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "job creation failed"})
	}

	log.Info("Job created",
		zap.Uint("id", job.ID),
		zap.String("title", job.Title),
		zap.Uint("company_id", job.CompanyID))
	h.notify.Notify("job_created",
		zap.String("company_slug", company.Slug),
		zap.String("title", job.Title))

	return c.JSON(http.StatusCreated, job)
}

// ListPublic serves the public job board of a company. Only active
// postings are visible to anonymous visitors.
func (h *JobHandler) ListPublic(c echo.Context) error {
	log := logger.FromEcho(c)
	metrics.RecordJobOperation("list")

	company, err := h.companies.GetBySlug(c.Param("slug"))
	if err != nil {
		if errors.Is(err, store.ErrCompanyNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "company not found"})
		}
		log.Error("Failed to fetch company", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch company"})
	}

	defer metrics.TrackDBOperation("query")(time.Now())

	jobs, err := h.jobs.ListByCompany(company.ID, true)
	if err != nil {
		log.Error("Failed to list jobs", zap.Uint("company_id", company.ID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to list jobs"})
	}

	summaries := make([]model.JobSummary, 0, len(jobs))
	for i := range jobs {
		summaries = append(summaries, jobs[i].Summary())
	}
	return c.JSON(http.StatusOK, summaries)
}

// ListForOwner serves the owner's dashboard listing, inactive postings
// included
func (h *JobHandler) ListForOwner(c echo.Context) error {
	log := logger.FromEcho(c)
	metrics.RecordJobOperation("list")

	company, err := h.ownedCompany(c)
	if err != nil {
		return writePolicyError(c, err)
	}

	defer metrics.TrackDBOperation("query")(time.Now())

	jobs, err := h.jobs.ListByCompany(company.ID, false)
	if err != nil {
		log.Error("Failed to list jobs", zap.Uint("company_id", company.ID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to list jobs"})
	}
	return c.JSON(http.StatusOK, jobs)
}

// GetPublic serves the public detail view of a job. Inactive postings
// read as not-found even though the row exists.
func (h *JobHandler) GetPublic(c echo.Context) error {
	log := logger.FromEcho(c)
	metrics.RecordJobOperation("get")

	company, err := h.companies.GetBySlug(c.Param("slug"))
	if err != nil {
		if errors.Is(err, store.ErrCompanyNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "company not found"})
		}
		log.Error("Failed to fetch company", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch company"})
	}

	jobID, err := jobIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid job ID"})
	}

	job, err := h.jobs.GetByID(jobID)
	if err != nil && !errors.Is(err, store.ErrJobNotFound) {
		log.Error("Failed to fetch job", zap.Uint("job_id", jobID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch job"})
	}
	if err != nil || job.CompanyID != company.ID || !job.IsActive {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "job not found"})
	}

	return c.JSON(http.StatusOK, job)
}

// Update applies a partial update to a job under a company the caller owns
func (h *JobHandler) Update(c echo.Context) error {
	log := logger.FromEcho(c)
	metrics.RecordJobOperation("update")

	company, err := h.ownedCompany(c)
	if err != nil {
		return writePolicyError(c, err)
	}

	jobID, err := jobIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid job ID"})
	}

	var req model.JobUpdateRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse job update request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	defer metrics.TrackDBOperation("update")(time.Now())

	job, err := h.jobs.Update(jobID, company.ID, &req)
	if err != nil {
		return h.writeJobError(c, err, jobID)
	}

	log.Info("Job updated", zap.Uint("id", job.ID), zap.Uint("company_id", job.CompanyID))
	return c.JSON(http.StatusOK, job)
}

// Delete removes a job permanently
func (h *JobHandler) Delete(c echo.Context) error {
	log := logger.FromEcho(c)
	metrics.RecordJobOperation("delete")

	company, err := h.ownedCompany(c)
	if err != nil {
		return writePolicyError(c, err)
	}

	jobID, err := jobIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid job ID"})
	}

	defer metrics.TrackDBOperation("delete")(time.Now())

	deleted, err := h.jobs.Delete(jobID, company.ID)
	if err != nil {
		log.Error("Failed to delete job", zap.Uint("job_id", jobID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "job deletion failed"})
	}
	if !deleted {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "job not found"})
	}

	log.Info("Job deleted", zap.Uint("id", jobID), zap.Uint("company_id", company.ID))
	return c.NoContent(http.StatusNoContent)
}

// Toggle sets the active flag of a job, controlling public visibility
func (h *JobHandler) Toggle(c echo.Context) error {
	log := logger.FromEcho(c)
	metrics.RecordJobOperation("toggle")

	company, err := h.ownedCompany(c)
	if err != nil {
		return writePolicyError(c, err)
	}

	jobID, err := jobIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid job ID"})
	}

	var req struct {
		IsActive *bool `json:"is_active"`
	}
	if err := c.Bind(&req); err != nil || req.IsActive == nil {
		log.Error("Failed to parse job toggle request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "is_active is required"})
	}

	defer metrics.TrackDBOperation("update")(time.Now())

	job, err := h.jobs.SetActive(jobID, company.ID, *req.IsActive)
	if err != nil {
		return h.writeJobError(c, err, jobID)
	}

	log.Info("Job active flag set",
		zap.Uint("id", job.ID),
		zap.Bool("is_active", job.IsActive))
	return c.JSON(http.StatusOK, job)
}

// ownedCompany loads the company addressed by the slug parameter and
// authorizes the caller against its owner
func (h *JobHandler) ownedCompany(c echo.Context) (*model.Company, error) {
	company, err := h.companies.GetBySlug(c.Param("slug"))
	if err != nil {
		return nil, err
	}

	if err := policy.Authorize(subjectFromContext(c), company.OwnerID); err != nil {
		return nil, err
	}
	return company, nil
}

func (h *JobHandler) writeJobError(c echo.Context, err error, jobID uint) error {
	log := logger.FromEcho(c)

	var verr *model.ValidationError
	switch {
	case errors.Is(err, store.ErrJobNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "job not found"})
	case errors.As(err, &verr):
		log.Warn("Job validation failed", zap.String("field", verr.Field), zap.String("reason", verr.Message))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": verr.Error()})
	default:
		log.Error("Job operation failed", zap.Uint("job_id", jobID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "job operation failed"})
	}
}

func jobIDParam(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
