package services

import (
	"context"
	"strings"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/repositories"
	"github.com/shashiranjanraj/storefront/pkg/orm"
	"github.com/shashiranjanraj/storefront/pkg/slug"
)

type AttributeInput struct {
	Name         string `json:"name" validate:"required,max=255"`
	Slug         string `json:"slug" validate:"nullable,max=255"`
	Type         string `json:"type" validate:"required,in=select,color,text"`
	IsFilterable bool   `json:"is_filterable"`
	SortOrder    int    `json:"sort_order" validate:"gte=0"`
}

type AttributeValueInput struct {
	Value     string `json:"value" validate:"required,max=255"`
	Slug      string `json:"slug" validate:"nullable,max=255"`
	ColorCode string `json:"color_code" validate:"nullable,regex=^#[0-9a-fA-F]{3}([0-9a-fA-F]{3})?$"`
	SortOrder int    `json:"sort_order" validate:"gte=0"`
}

type AttributeService struct {
	Deps
	repo *repositories.AttributeRepository
}

func NewAttributeService(d Deps) *AttributeService {
	return &AttributeService{Deps: d, repo: repositories.NewAttributeRepository(d.DB)}
}

func (s *AttributeService) List(ctx context.Context, term string, page orm.PageParams) ([]models.Attribute, orm.Pagination, error) {
	return s.repo.List(ctx, term, page)
}

func (s *AttributeService) Find(ctx context.Context, id uint) (*models.Attribute, error) {
	a, err := s.repo.FindWithValues(ctx, id)
	return a, missing(err, "Attribute")
}

func (s *AttributeService) Create(ctx context.Context, in AttributeInput) (*models.Attribute, error) {
	a := &models.Attribute{}
	if err := s.save(ctx, a, in); err != nil {
		return nil, err
	}
	return s.Find(ctx, a.ID)
}

func (s *AttributeService) Update(ctx context.Context, id uint, in AttributeInput) (*models.Attribute, error) {
	a, err := s.repo.Find(ctx, id)
	if err != nil {
		return nil, missing(err, "Attribute")
	}
	if err := s.save(ctx, a, in); err != nil {
		return nil, err
	}
	return s.Find(ctx, id)
}

func (s *AttributeService) save(ctx context.Context, a *models.Attribute, in AttributeInput) error {
	if a.ID == 0 || in.Slug != "" {
		sl, err := makeSlug(in.Slug, in.Name, func(c string) (bool, error) { return s.repo.Exists(ctx, "slug", c, a.ID) })
		if err != nil {
			return err
		}
		a.Slug = sl
	}
	a.Name = strings.TrimSpace(in.Name)
	a.Type = in.Type
	a.IsFilterable = in.IsFilterable
	a.SortOrder = in.SortOrder
	if a.ID == 0 {
		return s.repo.Create(ctx, a)
	}
	return s.repo.Save(ctx, a)
}

// Delete removes the attribute with its values and every product and
// variant link to them.
func (s *AttributeService) Delete(ctx context.Context, id uint) error {
	if _, err := s.repo.Find(ctx, id); err != nil {
		return missing(err, "Attribute")
	}
	return s.tx(ctx, func(ctx context.Context) error {
		return s.repo.DeleteCascade(ctx, id)
	})
}

func (s *AttributeService) AddValue(ctx context.Context, attributeID uint, in AttributeValueInput) (*models.AttributeValue, error) {
	if _, err := s.repo.Find(ctx, attributeID); err != nil {
		return nil, missing(err, "Attribute")
	}
	v := &models.AttributeValue{AttributeID: attributeID}
	if err := s.saveValue(ctx, v, in); err != nil {
		return nil, err
	}
	return v, nil
}

func (s *AttributeService) UpdateValue(ctx context.Context, id uint, in AttributeValueInput) (*models.AttributeValue, error) {
	v, err := s.repo.Values.Find(ctx, id)
	if err != nil {
		return nil, missing(err, "Attribute value")
	}
	if err := s.saveValue(ctx, v, in); err != nil {
		return nil, err
	}
	return v, nil
}

func (s *AttributeService) saveValue(ctx context.Context, v *models.AttributeValue, in AttributeValueInput) error {
	if v.ID == 0 || in.Slug != "" {
		base := in.Slug
		if strings.TrimSpace(base) == "" {
			base = in.Value
		}
		sl, err := slug.Unique(slug.Make(base), func(c string) (bool, error) {
			return s.repo.ValueSlugTaken(ctx, v.AttributeID, c, v.ID)
		})
		if err != nil {
			return err
		}
		v.Slug = sl
	}
	v.Value = strings.TrimSpace(in.Value)
	v.ColorCode = in.ColorCode
	v.SortOrder = in.SortOrder
	if v.ID == 0 {
		return s.repo.Values.Create(ctx, v)
	}
	return s.repo.Values.Save(ctx, v)
}

func (s *AttributeService) DeleteValue(ctx context.Context, id uint) error {
	if _, err := s.repo.Values.Find(ctx, id); err != nil {
		return missing(err, "Attribute value")
	}
	return s.tx(ctx, func(ctx context.Context) error {
		return s.repo.DeleteValue(ctx, id)
	})
}
