package doctemplates

import (
	"context"
	"errors"
	"testing"

	"github.com/lexassist/lexassist/internal/models"
	"github.com/lexassist/lexassist/internal/utils"
)

type fakeStore struct {
	templates []*models.DocumentTemplate
}

func (f *fakeStore) FindExact(_ context.Context, issueType, subCategory, language string) (*models.DocumentTemplate, error) {
	for _, t := range f.templates {
		if t.Active && t.IssueType == issueType && t.Language == language &&
			t.SubCategory != nil && *t.SubCategory == subCategory {
			return t, nil
		}
	}
	return nil, utils.ErrNotFound
}

func (f *fakeStore) FindByIssueType(_ context.Context, issueType, language string) (*models.DocumentTemplate, error) {
	// Mirrors the SQL ordering: rows without a sub_category come first.
	var fallback *models.DocumentTemplate
	for _, t := range f.templates {
		if !t.Active || t.IssueType != issueType || t.Language != language {
			continue
		}
		if t.SubCategory == nil {
			return t, nil
		}
		if fallback == nil {
			fallback = t
		}
	}
	if fallback != nil {
		return fallback, nil
	}
	return nil, utils.ErrNotFound
}

func sub(s string) *string { return &s }

func TestResolveFallbackOrder(t *testing.T) {
	exact := &models.DocumentTemplate{ID: "exact", IssueType: "A", SubCategory: sub("B"), Language: "en", Active: true}
	byType := &models.DocumentTemplate{ID: "bytype", IssueType: "A", Language: "en", Active: true}
	store := &fakeStore{templates: []*models.DocumentTemplate{exact, byType}}
	r := NewResolver(store)

	got, err := r.Resolve(context.Background(), "A", "B", "en")
	if err != nil {
		t.Fatalf("Resolve(A,B,en): %v", err)
	}
	if got.ID != "exact" {
		t.Errorf("Resolve(A,B,en) = %s, want exact match first", got.ID)
	}

	got, err = r.Resolve(context.Background(), "A", "C", "en")
	if err != nil {
		t.Fatalf("Resolve(A,C,en): %v", err)
	}
	if got.ID != "bytype" {
		t.Errorf("Resolve(A,C,en) = %s, want issue-type fallback", got.ID)
	}
}

func TestResolveGeneralConsultationFallback(t *testing.T) {
	general := &models.DocumentTemplate{ID: "general", IssueType: "General Consultation", Language: "en", Active: true}
	r := NewResolver(&fakeStore{templates: []*models.DocumentTemplate{general}})

	got, err := r.Resolve(context.Background(), "unknown_type", "", "en")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got.ID != "general" {
		t.Errorf("Resolve = %s, want the General Consultation template", got.ID)
	}
}

func TestResolveNothingMatches(t *testing.T) {
	r := NewResolver(&fakeStore{})

	_, err := r.Resolve(context.Background(), "A", "B", "en")
	if err == nil {
		t.Fatal("expected error when no template matches at any stage")
	}
	var ae *utils.AppError
	if !errors.As(err, &ae) || ae.Code != utils.CodeNotFound {
		t.Errorf("err = %v, want NOT_FOUND AppError", err)
	}
}

func TestResolveIgnoresInactive(t *testing.T) {
	inactive := &models.DocumentTemplate{ID: "off", IssueType: "A", Language: "en", Active: false}
	general := &models.DocumentTemplate{ID: "general", IssueType: "General Consultation", Language: "en", Active: true}
	r := NewResolver(&fakeStore{templates: []*models.DocumentTemplate{inactive, general}})

	got, err := r.Resolve(context.Background(), "A", "", "en")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got.ID != "general" {
		t.Errorf("Resolve = %s, inactive templates must be skipped", got.ID)
	}
}
