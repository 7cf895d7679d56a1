package models

import (
	"github.com/JonMunkholm/importguess/internal/core"
	"github.com/JonMunkholm/importguess/internal/guess"
)

func init() {
	registerCountry()
	registerPartnerCategory()
	registerPartnerBank()
	registerPartner()
}

func registerCountry() {
	core.Register(core.ModelDefinition{
		Key:   "res.country",
		Label: "Country",
		Fields: []core.Field{
			{Name: "name", Label: "Country Name", Type: guess.TypeChar, Required: true},
			{Name: "code", Label: "Country Code", Type: guess.TypeChar},
			{Name: "phone_code", Label: "Country Calling Code", Type: guess.TypeInteger},
		},
	})
}

func registerPartnerCategory() {
	core.Register(core.ModelDefinition{
		Key:   "res.partner.category",
		Label: "Contact Tag",
		Fields: []core.Field{
			{Name: "name", Label: "Tag Name", Type: guess.TypeChar, Required: true},
			{Name: "active", Label: "Active", Type: guess.TypeBoolean},
		},
	})
}

func registerPartnerBank() {
	core.Register(core.ModelDefinition{
		Key:   "res.partner.bank",
		Label: "Bank Account",
		Fields: []core.Field{
			{Name: "acc_number", Label: "Account Number", Type: guess.TypeChar, Required: true},
			{Name: "bank_name", Label: "Bank", Type: guess.TypeChar},
			{Name: "allow_out_payment", Label: "Send Money", Type: guess.TypeBoolean},
		},
	})
}

func registerPartner() {
	core.Register(core.ModelDefinition{
		Key:   "res.partner",
		Label: "Contact",
		Fields: []core.Field{
			{Name: "name", Label: "Name", Type: guess.TypeChar, Required: true},
			{Name: "email", Label: "Email", Type: guess.TypeChar},
			{Name: "phone", Label: "Phone", Type: guess.TypeChar},
			{Name: "is_company", Label: "Is a Company", Type: guess.TypeBoolean},
			{Name: "company_type", Label: "Company Type", Type: guess.TypeSelection},
			{Name: "comment", Label: "Notes", Type: guess.TypeHTML},
			{Name: "birthday", Label: "Birthday", Type: guess.TypeDate},
			{Name: "credit_limit", Label: "Credit Limit", Type: guess.TypeFloat},
			{Name: "country_id", Label: "Country", Type: guess.TypeMany2One, Relation: "res.country"},
			{Name: "category_id", Label: "Tags", Type: guess.TypeMany2Many, Relation: "res.partner.category"},
			{Name: "bank_ids", Label: "Banks", Type: guess.TypeOne2Many, Relation: "res.partner.bank"},
			{Name: "child_ids", Label: "Contacts", Type: guess.TypeOne2Many, Relation: "res.partner"},
			{Name: "image_1920", Label: "Image", Type: guess.TypeBinary},
			{Name: "create_date", Label: "Created on", Type: guess.TypeDatetime, Readonly: true},
		},
	})
}
