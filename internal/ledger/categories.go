package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Veraticus/budgie/internal/common"
	"github.com/Veraticus/budgie/internal/config"
	"github.com/Veraticus/budgie/internal/model"
	"github.com/shopspring/decimal"
)

// CategoryEdit lists the changes EditCategory applies. Nil fields are left
// untouched.
type CategoryEdit struct {
	Name        *string
	Limit       *decimal.Decimal
	Description *string
	ClearLimit  bool
}

// Categories returns the categories of kind, or all of them when kind is
// empty, ordered by kind then name.
func (s *Session) Categories(kind model.CategoryKind) []*model.Category {
	var out []*model.Category
	for _, c := range s.sortedCategories() {
		if kind == "" || c.Kind() == kind {
			out = append(out, c)
		}
	}
	return out
}

// Category looks a category up by identifier.
func (s *Session) Category(id string) (*model.Category, bool) {
	c, ok := s.categories[id]
	return c, ok
}

// CategoryByName finds a category by case-insensitive trimmed name. An empty
// kind matches either kind.
func (s *Session) CategoryByName(name string, kind model.CategoryKind) (*model.Category, bool) {
	name = strings.TrimSpace(name)
	for _, c := range s.sortedCategories() {
		if (kind == "" || c.Kind() == kind) && strings.EqualFold(c.Name(), name) {
			return c, true
		}
	}
	return nil, false
}

// CreateCategory validates p and adds the category. Name and kind together
// must be unique.
func (s *Session) CreateCategory(ctx context.Context, p model.CategoryParams) (*model.Category, error) {
	c, err := model.NewCategory(p)
	if err != nil {
		return nil, err
	}
	if _, exists := s.CategoryByName(c.Name(), c.Kind()); exists {
		return nil, fmt.Errorf("%w: %s category %q", common.ErrAlreadyExists, c.Kind(), c.Name())
	}
	if _, exists := s.categories[c.ID()]; exists {
		return nil, fmt.Errorf("%w: category id %s", common.ErrAlreadyExists, c.ID())
	}

	s.categories[c.ID()] = c
	if err := s.save(ctx); err != nil {
		delete(s.categories, c.ID())
		return nil, err
	}

	slog.Info("category created", "category", c.Name(), "kind", c.Kind())
	return c, nil
}

// EditCategory applies edit to the category with id. Either every change is
// applied or none is.
func (s *Session) EditCategory(ctx context.Context, id string, edit CategoryEdit) (*model.Category, error) {
	c, ok := s.categories[id]
	if !ok {
		return nil, fmt.Errorf("%w: category %s", common.ErrNotFound, id)
	}

	// Validate the edited state on a scratch copy before touching the shared handle.
	previous := paramsOf(c)
	p := previous
	if edit.Name != nil {
		p.Name = *edit.Name
	}
	if edit.ClearLimit {
		p.Limit = nil
	}
	if edit.Limit != nil {
		p.Limit = edit.Limit
	}
	if edit.Description != nil {
		p.Description = *edit.Description
	}

	scratch, err := model.NewCategory(p)
	if err != nil {
		return nil, err
	}
	if other, exists := s.CategoryByName(scratch.Name(), scratch.Kind()); exists && other.ID() != c.ID() {
		return nil, fmt.Errorf("%w: %s category %q", common.ErrAlreadyExists, scratch.Kind(), scratch.Name())
	}

	if err := apply(c, p); err != nil {
		return nil, err
	}
	if err := s.save(ctx); err != nil {
		if rollbackErr := apply(c, previous); rollbackErr != nil {
			slog.Error("failed to roll back category edit", "category", c.ID(), "error", rollbackErr)
		}
		return nil, err
	}

	slog.Info("category edited", "category", c.Name(), "id", c.ID())
	return c, nil
}

func apply(c *model.Category, p model.CategoryParams) error {
	if err := c.Rename(p.Name); err != nil {
		return err
	}
	if err := c.SetLimit(p.Limit); err != nil {
		return err
	}
	c.SetDescription(p.Description)
	return nil
}

func paramsOf(c *model.Category) model.CategoryParams {
	p := model.CategoryParams{
		ID:          c.ID(),
		Name:        c.Name(),
		Kind:        c.Kind(),
		Description: c.Description(),
	}
	if limit, ok := c.Limit(); ok {
		p.Limit = &limit
	}
	return p
}

// DeleteCategory removes a category that no entry references.
func (s *Session) DeleteCategory(ctx context.Context, id string) error {
	c, ok := s.categories[id]
	if !ok {
		return fmt.Errorf("%w: category %s", common.ErrNotFound, id)
	}
	for _, e := range s.entries {
		if e.Category().ID() == id {
			return fmt.Errorf("%w: %q has entries", common.ErrCategoryInUse, c.Name())
		}
	}

	delete(s.categories, id)
	if err := s.save(ctx); err != nil {
		s.categories[id] = c
		return err
	}

	slog.Info("category deleted", "category", c.Name())
	return nil
}

// BootstrapDefaults seeds the configured default categories when none exist
// yet. It returns how many categories were created.
func (s *Session) BootstrapDefaults(ctx context.Context) (int, error) {
	if len(s.categories) > 0 {
		return 0, nil
	}

	seed := func(kind model.CategoryKind, defaults []config.DefaultCategory) error {
		for _, d := range defaults {
			c, err := model.NewCategory(model.CategoryParams{
				Name:        d.Name,
				Kind:        kind,
				Limit:       d.Limit,
				Description: d.Description,
			})
			if err != nil {
				return fmt.Errorf("default %s category %q: %w", kind, d.Name, err)
			}
			if _, exists := s.CategoryByName(c.Name(), kind); exists {
				continue
			}
			s.categories[c.ID()] = c
		}
		return nil
	}

	if err := seed(model.CategoryKindIncome, s.opts.DefaultIncome); err != nil {
		clear(s.categories)
		return 0, err
	}
	if err := seed(model.CategoryKindExpense, s.opts.DefaultExpense); err != nil {
		clear(s.categories)
		return 0, err
	}

	created := len(s.categories)
	if created == 0 {
		return 0, nil
	}
	if err := s.save(ctx); err != nil {
		clear(s.categories)
		return 0, err
	}

	slog.Info("default categories created", "count", created)
	return created, nil
}
