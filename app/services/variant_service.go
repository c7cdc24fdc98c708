package services

import (
	"context"
	"mime/multipart"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/repositories"
	"github.com/shashiranjanraj/storefront/pkg/collection"
)

type VariantInput struct {
	SKU               string           `json:"sku" validate:"required,max=100"`
	Name              string           `json:"name" validate:"nullable,max=255"`
	Price             decimal.Decimal  `json:"price" validate:"gte=0"`
	OldPrice          *decimal.Decimal `json:"old_price" validate:"nullable,gte=0"`
	Stock             int              `json:"stock" validate:"gte=0"`
	IsDefault         bool             `json:"is_default"`
	IsActive          bool             `json:"is_active"`
	AttributeValueIDs []uint           `json:"attribute_value_ids"`
}

// MaxVariantImages caps one upload request.
const MaxVariantImages = 10

type VariantService struct {
	Deps
	repo       *repositories.VariantRepository
	products   *repositories.ProductRepository
	attributes *repositories.AttributeRepository
}

func NewVariantService(d Deps) *VariantService {
	return &VariantService{
		Deps:       d,
		repo:       repositories.NewVariantRepository(d.DB),
		products:   repositories.NewProductRepository(d.DB),
		attributes: repositories.NewAttributeRepository(d.DB),
	}
}

func (s *VariantService) ForProduct(ctx context.Context, productID uint) ([]models.ProductVariant, error) {
	if _, err := s.products.Find(ctx, productID); err != nil {
		return nil, missing(err, "Product")
	}
	return s.repo.ForProduct(ctx, productID)
}

func (s *VariantService) Find(ctx context.Context, id uint) (*models.ProductVariant, error) {
	v, err := s.repo.FindFull(ctx, id)
	return v, missing(err, "Variant")
}

func (s *VariantService) Create(ctx context.Context, productID uint, in VariantInput) (*models.ProductVariant, error) {
	if _, err := s.products.Find(ctx, productID); err != nil {
		return nil, missing(err, "Product")
	}
	v := &models.ProductVariant{ProductID: productID}
	if err := s.save(ctx, v, in); err != nil {
		return nil, err
	}
	return s.Find(ctx, v.ID)
}

func (s *VariantService) Update(ctx context.Context, id uint, in VariantInput) (*models.ProductVariant, error) {
	v, err := s.repo.Find(ctx, id)
	if err != nil {
		return nil, missing(err, "Variant")
	}
	if err := s.save(ctx, v, in); err != nil {
		return nil, err
	}
	return s.Find(ctx, id)
}

func (s *VariantService) save(ctx context.Context, v *models.ProductVariant, in VariantInput) error {
	sku := strings.TrimSpace(in.SKU)
	if taken, err := s.repo.Exists(ctx, "sku", sku, v.ID); err != nil {
		return err
	} else if taken {
		return Invalid("sku", "The sku has already been taken.")
	}

	valueIDs := collection.Unique(in.AttributeValueIDs)
	if len(valueIDs) > 0 {
		attrIDs, err := s.products.AttributeIDs(ctx, v.ProductID)
		if err != nil {
			return err
		}
		ok, err := s.attributes.ValuesBelongTo(ctx, valueIDs, attrIDs)
		if err != nil {
			return err
		}
		if len(ok) != len(valueIDs) {
			return Invalid("attribute_value_ids", "Every attribute value must belong to one of the product's attributes.")
		}
	}

	v.SKU = sku
	v.Name = strings.TrimSpace(in.Name)
	v.Price = in.Price
	v.OldPrice = in.OldPrice
	v.Stock = in.Stock
	v.IsDefault = in.IsDefault
	v.IsActive = in.IsActive

	return s.tx(ctx, func(ctx context.Context) error {
		var err error
		if v.ID == 0 {
			err = s.repo.Create(ctx, v)
		} else {
			err = s.repo.Save(ctx, v)
		}
		if err != nil {
			return err
		}
		if v.IsDefault {
			if err := s.repo.ClearDefault(ctx, v.ProductID, v.ID); err != nil {
				return err
			}
		}
		return s.repo.SyncAttributeValues(ctx, v, valueIDs)
	})
}

func (s *VariantService) Delete(ctx context.Context, id uint) error {
	if _, err := s.repo.Find(ctx, id); err != nil {
		return missing(err, "Variant")
	}
	paths, err := s.repo.ImagePaths(ctx, id)
	if err != nil {
		return err
	}
	if err := s.tx(ctx, func(ctx context.Context) error { return s.repo.DeleteCascade(ctx, id) }); err != nil {
		return err
	}
	s.removeFiles(ctx, paths...)
	return nil
}

// AddImages stores uploaded images for a variant. The first image of a
// variant without a main image becomes the main one.
func (s *VariantService) AddImages(ctx context.Context, variantID uint, files []*multipart.FileHeader) ([]models.ProductVariantImage, error) {
	if _, err := s.repo.Find(ctx, variantID); err != nil {
		return nil, missing(err, "Variant")
	}
	if len(files) == 0 {
		return nil, Invalid("images", "The images field is required.")
	}
	if len(files) > MaxVariantImages {
		return nil, Invalid("images", "The images must not have more than 10 items.")
	}

	var stored []string
	for _, fh := range files {
		p, err := s.storeImage(ctx, "images", "variants", fh)
		if err != nil {
			s.removeFiles(ctx, stored...)
			return nil, err
		}
		stored = append(stored, p)
	}

	images := make([]models.ProductVariantImage, len(stored))
	err := s.tx(ctx, func(ctx context.Context) error {
		next, err := s.repo.NextImageOrder(ctx, variantID)
		if err != nil {
			return err
		}
		hasMain, err := s.repo.HasMainImage(ctx, variantID)
		if err != nil {
			return err
		}
		for i, p := range stored {
			images[i] = models.ProductVariantImage{
				ProductVariantID: variantID,
				Path:             p,
				SortOrder:        next + i,
				IsMain:           !hasMain && i == 0,
			}
		}
		return s.repo.Images.DB(ctx).Create(&images).Error
	})
	if err != nil {
		s.removeFiles(ctx, stored...)
		return nil, err
	}
	return images, nil
}

// DeleteImage removes one image; when it was the main image the next one
// in order takes over.
func (s *VariantService) DeleteImage(ctx context.Context, imageID uint) error {
	img, err := s.repo.Images.Find(ctx, imageID)
	if err != nil {
		return missing(err, "Image")
	}
	err = s.tx(ctx, func(ctx context.Context) error {
		if err := s.repo.Images.Delete(ctx, imageID); err != nil {
			return err
		}
		if !img.IsMain {
			return nil
		}
		var next models.ProductVariantImage
		err := s.repo.Images.DB(ctx).
			Where("product_variant_id = ?", img.ProductVariantID).
			Order("sort_order, id").
			First(&next).Error
		if repositories.IsNotFound(err) {
			return nil
		}
		if err != nil {
			return err
		}
		return s.repo.Images.Query(ctx).Where("id = ?", next.ID).Update("is_main", true).Error
	})
	if err != nil {
		return err
	}
	s.removeFiles(ctx, img.Path)
	return nil
}
