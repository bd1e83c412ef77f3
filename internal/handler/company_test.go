package handler_test

import (
	"net/http"
	"testing"

	"go.uber.org/zap"

	"github.com/BhanuBurman/career-page-builder/internal/handler"
	"github.com/BhanuBurman/career-page-builder/internal/model"
	"github.com/BhanuBurman/career-page-builder/pkg/notifier"
)

func newCompanyHandler(companies *fakeCompanyStore) *handler.CompanyHandler {
	return handler.NewCompanyHandler(companies, notifier.NewLogNotifier(zap.NewNop()))
}

func acmeCompany() *model.Company {
	return &model.Company{
		ID:       1,
		Name:     "Acme",
		Slug:     "acme",
		OwnerID:  "owner-a",
		Branding: model.DefaultBranding(),
		Content:  model.DefaultContent(),
	}
}

// ── Create ─────────────────────────────────────────────────────────────────

func TestCreateCompany(t *testing.T) {
	companies := newFakeCompanyStore()
	h := newCompanyHandler(companies)

	c, rec := newTestContext(t, http.MethodPost, "/api/companies", map[string]interface{}{
		"name": "White Carrot!!",
	})
	withSubject(c, "recruiter-1")

	if err := h.Create(c); err != nil {
		t.Fatalf("Create returned unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("Create status = %d, want %d", rec.Code, http.StatusCreated)
	}

	var got model.Company
	decodeBody(t, rec, &got)
	if got.Slug != "white-carrot" {
		t.Errorf("Slug = %q, want %q", got.Slug, "white-carrot")
	}
	if got.OwnerID != "recruiter-1" {
		t.Errorf("OwnerID = %q, want the token subject", got.OwnerID)
	}
	if got.Branding.PrimaryColor != "#000000" {
		t.Errorf("default PrimaryColor = %q, want %q", got.Branding.PrimaryColor, "#000000")
	}
}

func TestCreateCompany_SlugCollision(t *testing.T) {
	companies := newFakeCompanyStore()
	h := newCompanyHandler(companies)

	for i, wantSlug := range []string{"white-carrot", "white-carrot-1"} {
		c, rec := newTestContext(t, http.MethodPost, "/api/companies", map[string]interface{}{
			"name": "White Carrot",
		})
		withSubject(c, "recruiter-1")

		if err := h.Create(c); err != nil {
			t.Fatalf("Create #%d returned unexpected error: %v", i+1, err)
		}
		var got model.Company
		decodeBody(t, rec, &got)
		if got.Slug != wantSlug {
			t.Errorf("Create #%d Slug = %q, want %q", i+1, got.Slug, wantSlug)
		}
	}
}

func TestCreateCompany_MissingSubject(t *testing.T) {
	h := newCompanyHandler(newFakeCompanyStore())

	c, rec := newTestContext(t, http.MethodPost, "/api/companies", map[string]interface{}{
		"name": "Acme",
	})
	withSubject(c, "")

	if err := h.Create(c); err != nil {
		t.Fatalf("Create returned unexpected error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Create with empty subject status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestCreateCompany_NameTooShort(t *testing.T) {
	h := newCompanyHandler(newFakeCompanyStore())

	c, rec := newTestContext(t, http.MethodPost, "/api/companies", map[string]interface{}{
		"name": "A",
	})
	withSubject(c, "recruiter-1")

	if err := h.Create(c); err != nil {
		t.Fatalf("Create returned unexpected error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Create with 1-char name status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

// ── Update ─────────────────────────────────────────────────────────────────

func TestUpdateCompany_Owner(t *testing.T) {
	companies := newFakeCompanyStore(acmeCompany())
	h := newCompanyHandler(companies)

	c, rec := newTestContext(t, http.MethodPatch, "/api/companies/acme/edit", map[string]interface{}{
		"branding": map[string]interface{}{
			"primary_color":   "#ff0000",
			"secondary_color": "#00ff00",
		},
	})
	c.SetParamNames("slug")
	c.SetParamValues("acme")
	withSubject(c, "owner-a")

	if err := h.Update(c); err != nil {
		t.Fatalf("Update returned unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Update status = %d, want %d", rec.Code, http.StatusOK)
	}

	updated := companies.companies["acme"]
	if updated.Branding.PrimaryColor != "#ff0000" {
		t.Errorf("PrimaryColor = %q, want %q", updated.Branding.PrimaryColor, "#ff0000")
	}
	// Content was omitted from the payload and must stay untouched
	if updated.Content.Header.Title != "We are hiring" {
		t.Errorf("Content.Header.Title = %q, want the untouched default", updated.Content.Header.Title)
	}
}

func TestUpdateCompany_NotOwner(t *testing.T) {
	companies := newFakeCompanyStore(acmeCompany())
	h := newCompanyHandler(companies)

	c, rec := newTestContext(t, http.MethodPatch, "/api/companies/acme/edit", map[string]interface{}{
		"branding": map[string]interface{}{"primary_color": "#ff0000"},
	})
	c.SetParamNames("slug")
	c.SetParamValues("acme")
	withSubject(c, "owner-b")

	if err := h.Update(c); err != nil {
		t.Fatalf("Update returned unexpected error: %v", err)
	}
	if rec.Code != http.StatusForbidden {
		t.Errorf("Update by non-owner status = %d, want %d", rec.Code, http.StatusForbidden)
	}
	if companies.updateCalls != 0 {
		t.Error("Update by non-owner reached the store")
	}
	if companies.companies["acme"].Branding.PrimaryColor != "#000000" {
		t.Error("Update by non-owner changed the branding")
	}
}

func TestUpdateCompany_UnknownSlug(t *testing.T) {
	h := newCompanyHandler(newFakeCompanyStore())

	c, rec := newTestContext(t, http.MethodPatch, "/api/companies/ghost/edit", map[string]interface{}{})
	c.SetParamNames("slug")
	c.SetParamValues("ghost")
	withSubject(c, "owner-a")

	if err := h.Update(c); err != nil {
		t.Fatalf("Update returned unexpected error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("Update on unknown slug status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

// ── Reads ──────────────────────────────────────────────────────────────────

func TestGetCompanyPublic_StripsOwnerFields(t *testing.T) {
	h := newCompanyHandler(newFakeCompanyStore(acmeCompany()))

	c, rec := newTestContext(t, http.MethodGet, "/companies/acme", nil)
	c.SetParamNames("slug")
	c.SetParamValues("acme")

	if err := h.GetPublic(c); err != nil {
		t.Fatalf("GetPublic returned unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("GetPublic status = %d, want %d", rec.Code, http.StatusOK)
	}

	var body map[string]interface{}
	decodeBody(t, rec, &body)
	if _, leaked := body["owner_id"]; leaked {
		t.Error("public view leaked owner_id")
	}
	if _, leaked := body["updated_at"]; leaked {
		t.Error("public view leaked updated_at")
	}
	if body["slug"] != "acme" {
		t.Errorf("public view slug = %v, want %q", body["slug"], "acme")
	}
}

func TestGetCompanyDetail(t *testing.T) {
	h := newCompanyHandler(newFakeCompanyStore(acmeCompany()))

	c, rec := newTestContext(t, http.MethodGet, "/api/companies/acme", nil)
	c.SetParamNames("slug")
	c.SetParamValues("acme")
	withSubject(c, "owner-a")

	if err := h.GetDetail(c); err != nil {
		t.Fatalf("GetDetail returned unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("GetDetail status = %d, want %d", rec.Code, http.StatusOK)
	}

	var body map[string]interface{}
	decodeBody(t, rec, &body)
	if body["owner_id"] != "owner-a" {
		t.Errorf("owner detail owner_id = %v, want %q", body["owner_id"], "owner-a")
	}
}

func TestGetCompanyDetail_NotOwner(t *testing.T) {
	h := newCompanyHandler(newFakeCompanyStore(acmeCompany()))

	c, rec := newTestContext(t, http.MethodGet, "/api/companies/acme", nil)
	c.SetParamNames("slug")
	c.SetParamValues("acme")
	withSubject(c, "owner-b")

	if err := h.GetDetail(c); err != nil {
		t.Fatalf("GetDetail returned unexpected error: %v", err)
	}
	if rec.Code != http.StatusForbidden {
		t.Errorf("GetDetail by non-owner status = %d, want %d", rec.Code, http.StatusForbidden)
	}
}

func TestListCompanies_OnlyOwn(t *testing.T) {
	other := &model.Company{ID: 2, Name: "Globex", Slug: "globex", OwnerID: "owner-b"}
	h := newCompanyHandler(newFakeCompanyStore(acmeCompany(), other))

	c, rec := newTestContext(t, http.MethodGet, "/api/companies", nil)
	withSubject(c, "owner-a")

	if err := h.List(c); err != nil {
		t.Fatalf("List returned unexpected error: %v", err)
	}

	var items []model.CompanyListItem
	decodeBody(t, rec, &items)
	if len(items) != 1 || items[0].Slug != "acme" {
		t.Errorf("List = %+v, want only the caller's company", items)
	}
}

// ── Delete ─────────────────────────────────────────────────────────────────

func TestDeleteCompany_Owner(t *testing.T) {
	companies := newFakeCompanyStore(acmeCompany())
	h := newCompanyHandler(companies)

	c, rec := newTestContext(t, http.MethodDelete, "/api/companies/acme", nil)
	c.SetParamNames("slug")
	c.SetParamValues("acme")
	withSubject(c, "owner-a")

	if err := h.Delete(c); err != nil {
		t.Fatalf("Delete returned unexpected error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Errorf("Delete status = %d, want %d", rec.Code, http.StatusNoContent)
	}
	if _, exists := companies.companies["acme"]; exists {
		t.Error("Delete left the company in the store")
	}
}

func TestDeleteCompany_NotOwner(t *testing.T) {
	companies := newFakeCompanyStore(acmeCompany())
	h := newCompanyHandler(companies)

	c, rec := newTestContext(t, http.MethodDelete, "/api/companies/acme", nil)
	c.SetParamNames("slug")
	c.SetParamValues("acme")
	withSubject(c, "owner-b")

	if err := h.Delete(c); err != nil {
		t.Fatalf("Delete returned unexpected error: %v", err)
	}
	if rec.Code != http.StatusForbidden {
		t.Errorf("Delete by non-owner status = %d, want %d", rec.Code, http.StatusForbidden)
	}
	if _, exists := companies.companies["acme"]; !exists {
		t.Error("Delete by non-owner removed the company")
	}
}
