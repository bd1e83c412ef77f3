package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/BhanuBurman/career-page-builder/internal/model"
	"github.com/BhanuBurman/career-page-builder/internal/slug"
	"github.com/BhanuBurman/career-page-builder/internal/store"
	"github.com/BhanuBurman/career-page-builder/pkg/jwtutil"
)

// fakeCompanyStore mimics the persistence contract in memory, including
// slug allocation, so handler flows can be exercised without a database.
type fakeCompanyStore struct {
	companies   map[string]*model.Company
	nextID      uint
	updateCalls int
}

func newFakeCompanyStore(companies ...*model.Company) *fakeCompanyStore {
	f := &fakeCompanyStore{companies: make(map[string]*model.Company)}
	for _, c := range companies {
		f.companies[c.Slug] = c
		if c.ID > f.nextID {
			f.nextID = c.ID
		}
	}
	return f
}

func (f *fakeCompanyStore) Create(name string, branding *model.BrandingConfig, content *model.PageContent, ownerID string) (*model.Company, error) {
	f.nextID++
	company := &model.Company{
		ID:       f.nextID,
		Name:     name,
		OwnerID:  ownerID,
		Branding: model.DefaultBranding(),
		Content:  model.DefaultContent(),
	}
	if branding != nil {
		company.Branding = *branding
	}
	if content != nil {
		company.Content = *content
	}
	company.Slug = slug.Allocate(name, func(s string) bool {
		_, taken := f.companies[s]
		return taken
	})
	f.companies[company.Slug] = company
	return company, nil
}

func (f *fakeCompanyStore) Update(companySlug string, branding *model.BrandingConfig, content *model.PageContent) (*model.Company, error) {
	company, ok := f.companies[companySlug]
	if !ok {
		return nil, store.ErrCompanyNotFound
	}
	f.updateCalls++
	if branding != nil {
		company.Branding = *branding
	}
	if content != nil {
		company.Content = *content
	}
	return company, nil
}

func (f *fakeCompanyStore) GetBySlug(companySlug string) (*model.Company, error) {
	company, ok := f.companies[companySlug]
	if !ok {
		return nil, store.ErrCompanyNotFound
	}
	return company, nil
}

func (f *fakeCompanyStore) ListByOwner(ownerID string) ([]model.Company, error) {
	var out []model.Company
	for _, c := range f.companies {
		if c.OwnerID == ownerID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeCompanyStore) Delete(companySlug string) error {
	if _, ok := f.companies[companySlug]; !ok {
		return store.ErrCompanyNotFound
	}
	delete(f.companies, companySlug)
	return nil
}

// fakeJobStore mirrors the scoped-mutation semantics of the real store:
// a company mismatch reads as not-found and mutates nothing.
type fakeJobStore struct {
	jobs   map[uint]*model.Job
	nextID uint
}

func newFakeJobStore(jobs ...*model.Job) *fakeJobStore {
	f := &fakeJobStore{jobs: make(map[uint]*model.Job)}
	for _, j := range jobs {
		f.jobs[j.ID] = j
		if j.ID > f.nextID {
			f.nextID = j.ID
		}
	}
	return f
}

func (f *fakeJobStore) Create(companyID uint, req *model.JobCreateRequest) (*model.Job, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	f.nextID++
	job := &model.Job{
		ID:          f.nextID,
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
	f.jobs[job.ID] = job
	return job, nil
}

func (f *fakeJobStore) GetByID(jobID uint) (*model.Job, error) {
	job, ok := f.jobs[jobID]
	if !ok {
		return nil, store.ErrJobNotFound
	}
	return job, nil
}

func (f *fakeJobStore) ListByCompany(companyID uint, activeOnly bool) ([]model.Job, error) {
	var out []model.Job
	for _, j := range f.jobs {
		if j.CompanyID != companyID {
			continue
		}
		if activeOnly && !j.IsActive {
			continue
		}
		out = append(out, *j)
	}
	return out, nil
}

func (f *fakeJobStore) Update(jobID, companyID uint, req *model.JobUpdateRequest) (*model.Job, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	job, err := f.getScoped(jobID, companyID)
	if err != nil {
		return nil, err
	}
	updated := *job
	updated.Apply(req)
	if err := updated.CheckSalaryRange(); err != nil {
		return nil, err
	}
	*job = updated
	return job, nil
}

func (f *fakeJobStore) Delete(jobID, companyID uint) (bool, error) {
	if _, err := f.getScoped(jobID, companyID); err != nil {
		return false, nil
	}
	delete(f.jobs, jobID)
	return true, nil
}

func (f *fakeJobStore) SetActive(jobID, companyID uint, isActive bool) (*model.Job, error) {
	job, err := f.getScoped(jobID, companyID)
	if err != nil {
		return nil, err
	}
	job.IsActive = isActive
	return job, nil
}

func (f *fakeJobStore) getScoped(jobID, companyID uint) (*model.Job, error) {
	job, ok := f.jobs[jobID]
	if !ok || job.CompanyID != companyID {
		return nil, store.ErrJobNotFound
	}
	return job, nil
}

// newTestContext builds an Echo context the way the middleware stack
// would: JSON body, request-scoped logger, and (for authenticated
// routes) verified claims carrying the subject.
func newTestContext(t *testing.T, method, target string, body interface{}) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
	}

	e := echo.New()
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("logger", zap.NewNop())
	return c, rec
}

func withSubject(c echo.Context, subject string) {
	c.Set("claims", &jwtutil.Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: subject},
	})
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dest interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), dest); err != nil {
		t.Fatalf("failed to decode response body %q: %v", rec.Body.String(), err)
	}
}
