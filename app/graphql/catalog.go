// Package graphql exposes the catalog as a read-only GraphQL query type.
package graphql

import (
	"github.com/graphql-go/graphql"
	"github.com/shopspring/decimal"

	"github.com/shopfront/storefront/app/models"
	"github.com/shopfront/storefront/app/services"
	"github.com/shopfront/storefront/pkg/collection"
)

var productType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Product",
	Fields: graphql.Fields{
		"id":                  &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"title":               &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"description":         &graphql.Field{Type: graphql.String},
		"price":               &graphql.Field{Type: graphql.NewNonNull(graphql.Float)},
		"stock":               &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"category":            &graphql.Field{Type: graphql.String},
		"slug":                &graphql.Field{Type: graphql.String},
		"brand":               &graphql.Field{Type: graphql.String},
		"color":               &graphql.Field{Type: graphql.String},
		"size":                &graphql.Field{Type: graphql.String},
		"image":               &graphql.Field{Type: graphql.String},
		"image_url":           &graphql.Field{Type: graphql.String},
		"discount_percentage": &graphql.Field{Type: graphql.Float},
		"discounted_price":    &graphql.Field{Type: graphql.Float},
	},
})

// Query builds the root query type over products.
func Query(products *services.ProductService) *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"products": &graphql.Field{
				Type: graphql.NewList(productType),
				Args: graphql.FieldConfigArgument{
					"category": &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					category, _ := p.Args["category"].(string)
					list, err := products.List(p.Context, category)
					if err != nil {
						return nil, err
					}
					return collection.Map(list, view), nil
				},
			},
			"product": &graphql.Field{
				Type: productType,
				Args: graphql.FieldConfigArgument{
					"key": &graphql.ArgumentConfig{
						Type:        graphql.NewNonNull(graphql.String),
						Description: "Numeric id or slug.",
					},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					key, _ := p.Args["key"].(string)
					item, err := products.Get(p.Context, key)
					if services.KindOf(err) == services.KindNotFound {
						return nil, nil
					}
					if err != nil {
						return nil, err
					}
					return view(item), nil
				},
			},
		},
	})
}

func view(p models.Product) map[string]any {
	return map[string]any{
		"id":                  p.ID,
		"title":               p.Title,
		"description":         p.Description,
		"price":               p.Price.InexactFloat64(),
		"stock":               p.Stock,
		"category":            p.Category,
		"slug":                p.Slug,
		"brand":               p.Brand,
		"color":               p.Color,
		"size":                p.Size,
		"image":               p.Image,
		"image_url":           p.ImageURL,
		"discount_percentage": nullFloat(p.DiscountPercentage),
		"discounted_price":    nullFloat(p.DiscountedPrice),
	}
}

func nullFloat(d decimal.NullDecimal) *float64 {
	if !d.Valid {
		return nil
	}
	f := d.Decimal.InexactFloat64()
	return &f
}
