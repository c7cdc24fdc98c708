package migrations

import (
	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/pkg/migration"
)

func init() {
	migration.Register("20260101000001_create_catalog_tables", &tables{
		models: []interface{}{
			&models.ProductCategory{},
			&models.Brand{},
			&models.Attribute{},
			&models.AttributeValue{},
			&models.BlogCategory{},
			&models.BlogPost{},
			&models.Product{},
			&models.ProductSpecification{},
			&models.ProductVariant{},
			&models.ProductVariantImage{},
			&models.ProductReview{},
			&models.ProductReviewImage{},
		},
		drop: []string{
			"product_review_images", "product_reviews",
			"variant_attribute_values", "product_variant_images", "product_variants",
			"product_specifications", "product_attributes", "blog_post_products",
			"products", "blog_posts", "blog_categories",
			"attribute_values", "attributes", "brands", "product_categories",
		},
	})
}
