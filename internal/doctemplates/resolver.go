// Package doctemplates selects and fills document templates.
package doctemplates

import (
	"context"
	"errors"

	"github.com/lexassist/lexassist/internal/models"
	"github.com/lexassist/lexassist/internal/utils"
)

// Fallback issue type tried when nothing matches the requested one.
const generalConsultation = "General Consultation"

// Store is the template lookup boundary; both finders consider active
// templates only.
type Store interface {
	FindExact(ctx context.Context, issueType, subCategory, language string) (*models.DocumentTemplate, error)
	FindByIssueType(ctx context.Context, issueType, language string) (*models.DocumentTemplate, error)
}

type Resolver struct {
	store Store
}

func NewResolver(store Store) *Resolver {
	return &Resolver{store: store}
}

// Resolve walks the fallback order: exact (issueType, subCategory,
// language) match, then (issueType, language) ignoring sub-category, then
// the General Consultation template for the same language. No match at
// any stage is an error, never a silent empty render.
func (r *Resolver) Resolve(ctx context.Context, issueType, subCategory, language string) (*models.DocumentTemplate, error) {
	const op = "Resolver.Resolve"

	if subCategory != "" {
		tpl, err := r.store.FindExact(ctx, issueType, subCategory, language)
		if err == nil {
			return tpl, nil
		}
		if !errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeInternal, op, "template lookup failed", err)
		}
	}

	tpl, err := r.store.FindByIssueType(ctx, issueType, language)
	if err == nil {
		return tpl, nil
	}
	if !errors.Is(err, utils.ErrNotFound) {
		return nil, utils.E(utils.CodeInternal, op, "template lookup failed", err)
	}

	tpl, err = r.store.FindByIssueType(ctx, generalConsultation, language)
	if err == nil {
		return tpl, nil
	}
	if errors.Is(err, utils.ErrNotFound) {
		return nil, utils.E(utils.CodeNotFound, op, "no template for issue type "+issueType, err)
	}
	return nil, utils.E(utils.CodeInternal, op, "template lookup failed", err)
}
