package models

import (
	"github.com/JonMunkholm/importguess/internal/core"
	"github.com/JonMunkholm/importguess/internal/guess"
)

func init() {
	registerInvoiceLine()
	registerInvoice()
}

func registerInvoiceLine() {
	core.Register(core.ModelDefinition{
		Key:   "account.move.line",
		Label: "Invoice Line",
		Fields: []core.Field{
			{Name: "name", Label: "Label", Type: guess.TypeChar},
			{Name: "product_id", Label: "Product", Type: guess.TypeMany2One, Relation: "product.template"},
			{Name: "quantity", Label: "Quantity", Type: guess.TypeFloat},
			{Name: "price_unit", Label: "Unit Price", Type: guess.TypeMonetary},
			{Name: "discount", Label: "Discount (%)", Type: guess.TypeFloat},
			{Name: "date_maturity", Label: "Due Date", Type: guess.TypeDate},
			{Name: "price_subtotal", Label: "Subtotal", Type: guess.TypeMonetary, Readonly: true},
		},
	})
}

func registerInvoice() {
	core.Register(core.ModelDefinition{
		Key:   "account.move",
		Label: "Invoice",
		Fields: []core.Field{
			{Name: "name", Label: "Number", Type: guess.TypeChar},
			{Name: "ref", Label: "Reference", Type: guess.TypeChar},
			{Name: "move_type", Label: "Type", Type: guess.TypeSelection, Required: true},
			{Name: "partner_id", Label: "Customer", Type: guess.TypeMany2One, Relation: "res.partner", Required: true},
			{Name: "invoice_date", Label: "Invoice Date", Type: guess.TypeDate},
			{Name: "invoice_date_due", Label: "Due Date", Type: guess.TypeDate},
			{Name: "currency_id", Label: "Currency", Type: guess.TypeMany2One, Relation: "res.currency"},
			{Name: "invoice_line_ids", Label: "Invoice Lines", Type: guess.TypeOne2Many, Relation: "account.move.line"},
			{Name: "narration", Label: "Terms and Conditions", Type: guess.TypeHTML},
			{Name: "amount_total", Label: "Total", Type: guess.TypeMonetary, Readonly: true},
		},
	})
}
