package store

import (
	"errors"

	"gorm.io/gorm"

	"github.com/BhanuBurman/career-page-builder/internal/model"
	"github.com/BhanuBurman/career-page-builder/internal/slug"
)

// ErrCompanyNotFound is returned when no company matches the given slug
var ErrCompanyNotFound = errors.New("company not found")

// createRetries bounds how often a create re-allocates after losing a
// slug race to a concurrent writer.
const createRetries = 3

// CompanyStore persists companies. It receives its database handle at
// construction; nothing here reaches for package-level state.
type CompanyStore struct {
	db *gorm.DB
}

// NewCompanyStore creates a company store backed by the given database
func NewCompanyStore(db *gorm.DB) *CompanyStore {
	return &CompanyStore{db: db}
}

// Create persists a new company, allocating a unique slug from the display
// name. Two concurrent creates with the same name can both pass the probe;
// the unique index on slug is the final arbiter, and the loser re-allocates
// instead of overwriting.
func (s *CompanyStore) Create(name string, branding *model.BrandingConfig, content *model.PageContent, ownerID string) (*model.Company, error) {
	company := model.Company{
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

	var err error
	for attempt := 0; attempt < createRetries; attempt++ {
		company.Slug = slug.Allocate(name, s.slugExists)

		err = s.db.Create(&company).Error
		if err == nil {
			return &company, nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, err
		}
	}
	return nil, err
}

// Update replaces only the sections that were supplied; omitted sections
// are left untouched, not cleared. The slug and owner are immutable.
func (s *CompanyStore) Update(companySlug string, branding *model.BrandingConfig, content *model.PageContent) (*model.Company, error) {
	company, err := s.GetBySlug(companySlug)
	if err != nil {
		return nil, err
	}

	if branding != nil {
		company.Branding = *branding
	}
	if content != nil {
		company.Content = *content
	}

	if err := s.db.Save(company).Error; err != nil {
		return nil, err
	}
	return company, nil
}

// GetBySlug looks up a company by its exact slug
func (s *CompanyStore) GetBySlug(companySlug string) (*model.Company, error) {
	var company model.Company
	if err := s.db.Where("slug = ?", companySlug).First(&company).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCompanyNotFound
		}
		return nil, err
	}
	return &company, nil
}

// ListByOwner returns every company owned by the given subject
func (s *CompanyStore) ListByOwner(ownerID string) ([]model.Company, error) {
	var companies []model.Company
	if err := s.db.Where("owner_id = ?", ownerID).Order("created_at DESC").Find(&companies).Error; err != nil {
		return nil, err
	}
	return companies, nil
}

// Delete removes a company and all of its jobs in one transaction.
// Destroying the parent without its children would strand postings, so
// the cascade is an explicit operation of this store.
func (s *CompanyStore) Delete(companySlug string) error {
	company, err := s.GetBySlug(companySlug)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("company_id = ?", company.ID).Delete(&model.Job{}).Error; err != nil {
			return err
		}
		return tx.Delete(company).Error
	})
}

func (s *CompanyStore) slugExists(candidate string) bool {
	var count int64
	s.db.Model(&model.Company{}).Where("slug = ?", candidate).Count(&count)
	return count > 0
}
