package models

import (
	"github.com/JonMunkholm/importguess/internal/core"
	"github.com/JonMunkholm/importguess/internal/guess"
)

func init() {
	registerProductCategory()
	registerProduct()
}

func registerProductCategory() {
	core.Register(core.ModelDefinition{
		Key:   "product.category",
		Label: "Product Category",
		Fields: []core.Field{
			{Name: "name", Label: "Name", Type: guess.TypeChar, Required: true},
			{Name: "parent_id", Label: "Parent Category", Type: guess.TypeMany2One, Relation: "product.category"},
		},
	})
}

func registerProduct() {
	core.Register(core.ModelDefinition{
		Key:   "product.template",
		Label: "Product",
		Fields: []core.Field{
			{Name: "name", Label: "Name", Type: guess.TypeChar, Required: true},
			{Name: "default_code", Label: "Internal Reference", Type: guess.TypeChar},
			{Name: "barcode", Label: "Barcode", Type: guess.TypeChar},
			{Name: "type", Label: "Product Type", Type: guess.TypeSelection},
			{Name: "list_price", Label: "Sales Price", Type: guess.TypeMonetary},
			{Name: "standard_price", Label: "Cost", Type: guess.TypeFloat},
			{Name: "weight", Label: "Weight", Type: guess.TypeFloat},
			{Name: "sale_ok", Label: "Can be Sold", Type: guess.TypeBoolean},
			{Name: "description", Label: "Description", Type: guess.TypeHTML},
			{Name: "categ_id", Label: "Product Category", Type: guess.TypeMany2One, Relation: "product.category"},
			{Name: "available_date", Label: "Available From", Type: guess.TypeDate},
			{Name: "write_date", Label: "Last Updated on", Type: guess.TypeDatetime, Readonly: true},
		},
	})
}
