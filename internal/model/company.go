package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// BrandingConfig stores arbitrary branding knobs (colors, logo) as JSONB
// so recruiters can restyle their page without schema migrations.
type BrandingConfig struct {
	PrimaryColor   string `json:"primary_color"`
	SecondaryColor string `json:"secondary_color"`
	LogoURL        string `json:"logo_url,omitempty"`
}

// DefaultBranding returns the branding applied when none is supplied
func DefaultBranding() BrandingConfig {
	return BrandingConfig{
		PrimaryColor:   "#000000",
		SecondaryColor: "#ffffff",
	}
}

// HeaderSection is the hero block at the top of a career page
type HeaderSection struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
}

// AboutSection is one ordered block of page copy. Alignment determines
// whether the text sits left or right of the image.
type AboutSection struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url,omitempty"`
	Alignment   string `json:"alignment"`
}

// PageContent stores the order and text of the career page sections
type PageContent struct {
	Header        HeaderSection  `json:"header"`
	AboutSections []AboutSection `json:"about_sections"`
}

// DefaultContent returns the page content applied when none is supplied
func DefaultContent() PageContent {
	return PageContent{
		Header: HeaderSection{
			Title:    "We are hiring",
			Subtitle: "Join our team to build the future.",
		},
		AboutSections: []AboutSection{},
	}
}

func (b BrandingConfig) Value() (driver.Value, error) {
	return json.Marshal(b)
}

func (b *BrandingConfig) Scan(value interface{}) error {
	return scanJSON(value, b)
}

func (p PageContent) Value() (driver.Value, error) {
	return json.Marshal(p)
}

func (p *PageContent) Scan(value interface{}) error {
	return scanJSON(value, p)
}

func scanJSON(value interface{}, dest interface{}) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, dest)
	case string:
		return json.Unmarshal([]byte(v), dest)
	case nil:
		return nil
	default:
		return fmt.Errorf("unsupported type %T for JSONB column", value)
	}
}

// Company represents a recruiter's branded career micro-site. The slug is
// the tenant identifier (e.g. "white-carrot"): it is assigned once at
// creation, globally unique, and every public request addresses it.
// OwnerID is the token subject of the recruiter who created the company,
// stored as an opaque string, and is the sole authority for mutation of
// the company and all of its jobs.
type Company struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Name      string         `json:"name" gorm:"type:varchar(100);not null"`
	Slug      string         `json:"slug" gorm:"type:varchar(120);uniqueIndex;not null"`
	OwnerID   string         `json:"owner_id" gorm:"type:varchar(64);index;not null"`
	Branding  BrandingConfig `json:"branding" gorm:"type:jsonb"`
	Content   PageContent    `json:"content" gorm:"type:jsonb"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`

	// Relations. Jobs die with the company; the cascade is an explicit
	// store transaction, not a mapping-layer side effect.
	Jobs []Job `json:"jobs,omitempty" gorm:"foreignKey:CompanyID"`
}

// CompanyPublicView is the unauthenticated projection of a company.
// Owner identity and edit metadata are stripped.
type CompanyPublicView struct {
	ID        uint           `json:"id"`
	Name      string         `json:"name"`
	Slug      string         `json:"slug"`
	Branding  BrandingConfig `json:"branding"`
	Content   PageContent    `json:"content"`
	CreatedAt time.Time      `json:"created_at"`
}

// PublicView projects the company for anonymous visitors
func (c *Company) PublicView() CompanyPublicView {
	return CompanyPublicView{
		ID:        c.ID,
		Name:      c.Name,
		Slug:      c.Slug,
		Branding:  c.Branding,
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
	}
}

// CompanyListItem is the owner's dashboard projection: page content and
// jobs are omitted to keep list responses small.
type CompanyListItem struct {
	ID        uint           `json:"id"`
	Name      string         `json:"name"`
	Slug      string         `json:"slug"`
	OwnerID   string         `json:"owner_id"`
	Branding  BrandingConfig `json:"branding"`
	CreatedAt time.Time      `json:"created_at"`
}

// ListItem projects the company for the owner's company list
func (c *Company) ListItem() CompanyListItem {
	return CompanyListItem{
		ID:        c.ID,
		Name:      c.Name,
		Slug:      c.Slug,
		OwnerID:   c.OwnerID,
		Branding:  c.Branding,
		CreatedAt: c.CreatedAt,
	}
}
