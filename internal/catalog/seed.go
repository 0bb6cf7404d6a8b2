package catalog

import (
	"context"
	"log"

	"github.com/acervohq/acervo/internal/schema"
	"github.com/acervohq/acervo/internal/types"
)

// SeedDemo populates the catalog with a small acquisitions pipeline for
// demos: two custom BI fields placed in the layout, a handful of works in
// negotiation, and one saved filter. Everything flows through the normal
// mutation path so persistence and events behave as in production.
func SeedDemo(ctx context.Context, svc *Service) {
	genero := types.FieldDefinition{
		ID: "genero", Label: "Gênero", Type: types.FieldSingleSelect,
		IsVisible: true, IsBI: true,
		Options: []string{"Romance", "Ensaio", "Poesia", "Infantil"},
	}
	adiantamento := types.FieldDefinition{
		ID: "valor_adiantamento", Label: "Valor do Adiantamento", Type: types.FieldCurrency,
		IsVisible: true, IsBI: true,
	}

	svc.ApplySchemaOp(ctx, "seed", func(s types.Schema) types.Schema {
		s = schema.AddField(s, genero)
		s = schema.AddField(s, adiantamento)
		if len(s.Tabs) == 0 {
			return s
		}
		tabID := s.Tabs[0].ID
		s = schema.PlaceCell(s, "titulo", tabID, 0, 6)
		s = schema.PlaceCell(s, "isbn", tabID, 0, 3)
		s = schema.PlaceCell(s, "genero", tabID, 0, 3)
		s = schema.AddRow(s, tabID)
		s = schema.PlaceCell(s, "valor_adiantamento", tabID, 1, 4)
		s = schema.PlaceCell(s, "status_pagamento", tabID, 1, 4)
		return s
	})

	works := []struct {
		id   string
		data map[string]any
	}{
		{"obra-vidas-secas", map[string]any{
			"titulo":             "Vidas Secas: Edição Comentada",
			"isbn":               "978-85-250-4056-3",
			"genero":             "Romance",
			"valor_adiantamento": "R$ 5.400,00",
			"status_pagamento":   "Pago",
			"autores":            []any{map[string]any{"nome": "Graciliano Ramos", "papel": "autor"}},
		}},
		{"obra-quarto-despejo", map[string]any{
			"titulo":             "Quarto de Despejo",
			"isbn":               "978-85-08-13423-5",
			"genero":             "Romance",
			"valor_adiantamento": "R$ 2.100,00",
			"status_pagamento":   "Em Aberto",
			"autores":            []any{map[string]any{"nome": "Carolina Maria de Jesus", "papel": "autora"}},
		}},
		{"obra-morte-vida", map[string]any{
			"titulo":             "Morte e Vida Severina",
			"isbn":               "978-85-7962-036-1",
			"genero":             "Poesia",
			"valor_adiantamento": "R$ 3.350,50",
			"status_pagamento":   "Em Aberto",
			"capas":              []any{},
		}},
		{"obra-menino-maluquinho", map[string]any{
			"titulo":             "O Menino Maluquinho",
			"genero":             "Infantil",
			"valor_adiantamento": "R$ 1.800,00",
			"status_pagamento":   "Pago",
			"capas":              []any{"capa-menino-frente.png"},
		}},
	}
	for _, w := range works {
		svc.SaveRecord(ctx, w.id, w.data)
	}

	svc.SaveFilter(ctx, types.SavedFilter{
		ID:          "filtro-pendentes",
		Name:        "Pagamentos pendentes",
		GlobalLogic: types.LogicAnd,
		Blocks: []types.FilterBlock{{
			ID:    "bloco-1",
			Logic: types.LogicAnd,
			Rules: []types.FilterRule{{
				FieldID: "status_pagamento", Operator: "equals", Value: "Em Aberto",
			}},
		}},
	})

	log.Printf("catalog: seeded %d demo records", len(works))
}
