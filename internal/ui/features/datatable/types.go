package datatable

import (
	"fmt"

	"github.com/leapstack-labs/contratos/internal/resource"
	"github.com/leapstack-labs/contratos/internal/table"
	"github.com/leapstack-labs/contratos/internal/ui/views"
	"github.com/leapstack-labs/contratos/internal/ui/workspace"
)

// Config describes one data table page.
type Config[T any, F table.Form] struct {
	// Path is the page's URL; its actions live below it.
	Path              string
	Title             string
	Subtitle          string
	SearchPlaceholder string
	NewLabel          string
	// CounterNoun, when set, shows "N <noun>" under the table.
	CounterNoun   string
	ShowFirstLast bool
	Binding       func(*workspace.Workspace) workspace.Binding[T, F]
}

// Contracts is the contract table page.
var Contracts = Config[resource.Contract, *resource.ContractForm]{
	Path:              "/contratos",
	Title:             "Contratos",
	Subtitle:          "Gerencie os contratos de fornecimento.",
	SearchPlaceholder: "Buscar por número, empresa ou descrição",
	NewLabel:          "Novo Contrato",
	Binding: func(ws *workspace.Workspace) workspace.Binding[resource.Contract, *resource.ContractForm] {
		return ws.Contracts
	},
}

// Companies is the supplier table page.
var Companies = Config[resource.Company, *resource.CompanyForm]{
	Path:              "/empresas",
	Title:             "Empresas",
	Subtitle:          "Fornecedores cadastrados.",
	SearchPlaceholder: "Buscar por nome, CNPJ ou e-mail",
	NewLabel:          "Nova Empresa",
	Binding: func(ws *workspace.Workspace) workspace.Binding[resource.Company, *resource.CompanyForm] {
		return ws.Companies
	},
}

// Users is the read-only user table page.
var Users = Config[resource.User, table.Form]{
	Path:              "/usuarios",
	Title:             "Usuários",
	SearchPlaceholder: "Buscar por nome ou e-mail",
	CounterNoun:       "usuário(s)",
	ShowFirstLast:     true,
	Binding: func(ws *workspace.Workspace) workspace.Binding[resource.User, table.Form] {
		return ws.Users
	},
}

// SearchSignals carry the search box.
type SearchSignals struct {
	Search string `json:"search"`
}

// FormSignals carry the editor inputs.
type FormSignals struct {
	Form map[string]string `json:"form"`
}

func tableData[T any, F table.Form](cfg Config[T, F], b workspace.Binding[T, F]) views.TableData {
	v := b.Table.View()
	spec := b.Table.Spec()

	d := views.TableData{
		Path:          cfg.Path,
		Headers:       make([]views.Header, len(v.Columns)),
		Rows:          make([]views.Row, 0, len(v.Rows)),
		Loading:       v.Loading,
		Err:           v.Err,
		Empty:         v.Empty(),
		PageNumber:    v.PageNumber(),
		PageCount:     v.PageCount,
		PageSize:      v.PageSize,
		PageSizes:     v.PageSizes,
		CanPrev:       v.CanPrev(),
		CanNext:       v.CanNext(),
		Total:         v.Total,
		ShowFirstLast: cfg.ShowFirstLast,
		Editable:      b.Editor != nil,
	}
	for i, col := range v.Columns {
		d.Headers[i] = views.Header{
			Key:       col.Key,
			Label:     col.Label,
			Sortable:  col.Sortable,
			Indicator: v.Indicator(col),
		}
	}
	if !v.Loading {
		for _, row := range v.Rows {
			id := ""
			if spec.ID != nil {
				id = spec.ID(row)
			}
			d.Rows = append(d.Rows, views.Row{ID: id, Cells: v.Cells(row)})
		}
	}
	if cfg.CounterNoun != "" {
		d.Counter = fmt.Sprintf("%d %s", v.Total, cfg.CounterNoun)
	}
	return d
}

func editorData[T any, F table.Form](cfg Config[T, F], b workspace.Binding[T, F]) views.EditorData {
	d := views.EditorData{Path: cfg.Path}
	if b.Editor != nil {
		d.EditorView = b.Editor.View()
	} else {
		d.Values = map[string]string{}
	}
	return d
}
