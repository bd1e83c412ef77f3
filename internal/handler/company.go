package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/BhanuBurman/career-page-builder/internal/metrics"
	"github.com/BhanuBurman/career-page-builder/internal/model"
	"github.com/BhanuBurman/career-page-builder/internal/policy"
	"github.com/BhanuBurman/career-page-builder/internal/store"
	"github.com/BhanuBurman/career-page-builder/pkg/jwtutil"
	"github.com/BhanuBurman/career-page-builder/pkg/logger"
	"github.com/BhanuBurman/career-page-builder/pkg/notifier"
)

// CompanyStore is the persistence surface the company handlers need
type CompanyStore interface {
	Create(name string, branding *model.BrandingConfig, content *model.PageContent, ownerID string) (*model.Company, error)
	Update(companySlug string, branding *model.BrandingConfig, content *model.PageContent) (*model.Company, error)
	GetBySlug(companySlug string) (*model.Company, error)
	ListByOwner(ownerID string) ([]model.Company, error)
	Delete(companySlug string) error
}

// CompanyHandler serves the company endpoints
type CompanyHandler struct {
	companies CompanyStore
	notify    notifier.Notifier
}

// NewCompanyHandler creates a company handler
func NewCompanyHandler(companies CompanyStore, notify notifier.Notifier) *CompanyHandler {
	return &CompanyHandler{companies: companies, notify: notify}
}

// subjectFromContext extracts the verified token subject set by the auth
// middleware. An empty subject is a malformed caller context, not an
// authentication failure.
func subjectFromContext(c echo.Context) string {
	claims, ok := c.Get("claims").(*jwtutil.Claims)
	if !ok {
		return ""
	}
	return claims.Subject
}

// Create handles company creation. The slug is allocated automatically
// from the name and the token subject becomes the owner.
func (h *CompanyHandler) Create(c echo.Context) error {
	log := logger.FromEcho(c)
	metrics.RecordCompanyOperation("create")

	subjectID := subjectFromContext(c)
	if subjectID == "" {
		log.Error("Missing subject id in token claims")
		metrics.RecordAuthError("missing_subject")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing user id in token"})
	}

	var req struct {
		Name     string                `json:"name"`
		Branding *model.BrandingConfig `json:"branding"`
		Content  *model.PageContent    `json:"content"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse company creation request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if len(req.Name) < 2 {
		log.Error("Invalid company data", zap.String("name", req.Name))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name must be at least 2 characters"})
	}

	defer metrics.TrackDBOperation("insert")(time.Now())

	company, err := h.companies.Create(req.Name, req.Branding, req.Content, subjectID)
	if err != nil {
		log.Error("Failed to create company", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "company creation failed"})
	}

	log.Info("Company created",
		zap.String("name", company.Name),
		zap.String("slug", company.Slug),
		zap.Uint("id", company.ID),
		zap.String("owner_id", company.OwnerID))
	h.notify.Notify("company_created",
		zap.String("slug", company.Slug),
		zap.String("owner_id", company.OwnerID))

	return c.JSON(http.StatusCreated, company)
}

// Update handles partial updates of branding and page content. Only the
// owner may edit, and only the sections present in the payload change.
func (h *CompanyHandler) Update(c echo.Context) error {
	log := logger.FromEcho(c)
	metrics.RecordCompanyOperation("update")

	company, err := h.ownedCompany(c)
	if err != nil {
		return writePolicyError(c, err)
	}

	var req struct {
		Branding *model.BrandingConfig `json:"branding"`
		Content  *model.PageContent    `json:"content"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse company update request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	defer metrics.TrackDBOperation("update")(time.Now())

	updated, err := h.companies.Update(company.Slug, req.Branding, req.Content)
	if err != nil {
		if errors.Is(err, store.ErrCompanyNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "company not found"})
		}
		log.Error("Failed to update company", zap.String("slug", company.Slug), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "company update failed"})
	}

	log.Info("Company updated", zap.String("slug", updated.Slug))
	return c.JSON(http.StatusOK, updated)
}

// GetPublic serves the anonymous career-page view of a company
func (h *CompanyHandler) GetPublic(c echo.Context) error {
	log := logger.FromEcho(c)
	metrics.RecordCompanyOperation("get")

	company, err := h.companies.GetBySlug(c.Param("slug"))
	if err != nil {
		if errors.Is(err, store.ErrCompanyNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "company not found"})
		}
		log.Error("Failed to fetch company", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch company"})
	}

	return c.JSON(http.StatusOK, company.PublicView())
}

// GetDetail serves the owner's full view, including owner id and edit
// metadata that the public projection strips.
func (h *CompanyHandler) GetDetail(c echo.Context) error {
	metrics.RecordCompanyOperation("get")

	company, err := h.ownedCompany(c)
	if err != nil {
		return writePolicyError(c, err)
	}

	return c.JSON(http.StatusOK, company)
}

// List returns every company owned by the caller
func (h *CompanyHandler) List(c echo.Context) error {
	log := logger.FromEcho(c)
	metrics.RecordCompanyOperation("list")

	subjectID := subjectFromContext(c)
	if subjectID == "" {
		log.Error("Missing subject id in token claims")
		metrics.RecordAuthError("missing_subject")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing user id in token"})
	}

	defer metrics.TrackDBOperation("query")(time.Now())

	companies, err := h.companies.ListByOwner(subjectID)
	if err != nil {
		log.Error("Failed to list companies", zap.String("owner_id", subjectID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to list companies"})
	}

	items := make([]model.CompanyListItem, 0, len(companies))
	for i := range companies {
		items = append(items, companies[i].ListItem())
	}
	return c.JSON(http.StatusOK, items)
}

// Delete destroys a company and all of its jobs
func (h *CompanyHandler) Delete(c echo.Context) error {
	log := logger.FromEcho(c)
	metrics.RecordCompanyOperation("delete")

	company, err := h.ownedCompany(c)
	if err != nil {
		return writePolicyError(c, err)
	}

	defer metrics.TrackDBOperation("delete")(time.Now())

	if err := h.companies.Delete(company.Slug); err != nil {
		if errors.Is(err, store.ErrCompanyNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "company not found"})
		}
		log.Error("Failed to delete company", zap.String("slug", company.Slug), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "company deletion failed"})
	}

	log.Info("Company deleted", zap.String("slug", company.Slug))
	return c.NoContent(http.StatusNoContent)
}

// ownedCompany loads the addressed company and authorizes the caller
// against its owner. Used by every owner-scoped company endpoint.
func (h *CompanyHandler) ownedCompany(c echo.Context) (*model.Company, error) {
	company, err := h.companies.GetBySlug(c.Param("slug"))
	if err != nil {
		return nil, err
	}

	if err := policy.Authorize(subjectFromContext(c), company.OwnerID); err != nil {
		return nil, err
	}
	return company, nil
}

// writePolicyError maps lookup and authorization failures onto HTTP
// statuses. Shared by the company and job handlers.
func writePolicyError(c echo.Context, err error) error {
	log := logger.FromEcho(c)

	switch {
	case errors.Is(err, store.ErrCompanyNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "company not found"})
	case errors.Is(err, policy.ErrMissingSubject):
		log.Error("Missing subject id in token claims")
		metrics.RecordAuthError("missing_subject")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing user id in token"})
	case errors.Is(err, policy.ErrNotOwner):
		log.Warn("Ownership check failed", zap.String("slug", c.Param("slug")))
		metrics.RecordAuthError("permission_denied")
		return c.JSON(http.StatusForbidden, echo.Map{"error": "you do not have permission to manage this company"})
	default:
		log.Error("Failed to fetch company", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch company"})
	}
}
