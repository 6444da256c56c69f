package resource

import (
	"strings"
	"time"

	"github.com/leapstack-labs/contratos/internal/api"
	"github.com/leapstack-labs/contratos/internal/format"
	"github.com/leapstack-labs/contratos/internal/table"
)

// Contract is a supply contract.
type Contract struct {
	ID           ID
	Number       string
	SupplierID   ID
	SupplierName string
	Description  string
	StartDate    time.Time
	EndDate      time.Time
	Status       Status
	Amount       float64
}

type supplierRef struct {
	ID   ID     `json:"id"`
	Nome string `json:"nome"`
	Name string `json:"name"`
}

// contractWire accepts every field name the backend has used for contracts.
type contractWire struct {
	ID          ID           `json:"id"`
	Numero      string       `json:"numero"`
	Descricao   string       `json:"descricao"`
	Valor       Amount       `json:"valor"`
	SupplierID  ID           `json:"supplierId"`
	EmpresaID   ID           `json:"empresaId"`
	Supplier    *supplierRef `json:"supplier"`
	EmpresaNome string       `json:"empresaNome"`
	Empresa     string       `json:"empresa"`
	DataInicio  string       `json:"dataInicio"`
	Inicio      string       `json:"inicio"`
	DataFim     string       `json:"dataFim"`
	Fim         string       `json:"fim"`
	Status      Status       `json:"status"`
}

func (w contractWire) contract() Contract {
	c := Contract{
		ID:          w.ID,
		Number:      strings.TrimSpace(w.Numero),
		Description: strings.TrimSpace(w.Descricao),
		Amount:      float64(w.Valor),
		SupplierID:  ID(first(string(w.SupplierID), string(w.EmpresaID))),
		StartDate:   wireDate(w.DataInicio, w.Inicio),
		EndDate:     wireDate(w.DataFim, w.Fim),
		Status:      w.Status,
	}
	if w.Supplier != nil {
		c.SupplierID = ID(first(string(c.SupplierID), string(w.Supplier.ID)))
		c.SupplierName = first(w.Supplier.Nome, w.Supplier.Name)
	}
	c.SupplierName = first(c.SupplierName, w.EmpresaNome, w.Empresa)
	return c
}

// DecodeContract reads one contract from its wire form.
var DecodeContract = decodeJSON(contractWire.contract)

// Supplier returns the display name of the contract's supplier, falling
// back to its id.
func (c Contract) Supplier() string {
	if c.SupplierName != "" {
		return c.SupplierName
	}
	if c.SupplierID != "" {
		return "#" + string(c.SupplierID)
	}
	return "-"
}

// ContractColumns are the contract table's columns.
var ContractColumns = []table.Column[Contract]{
	{Key: "numero", Label: "Número", Sortable: true, Cell: func(c Contract) string { return c.Number }},
	{Key: "empresa", Label: "Empresa", Cell: Contract.Supplier},
	{Key: "descricao", Label: "Descrição", Sortable: true, Cell: func(c Contract) string { return c.Description }},
	{Key: "inicio", Label: "Início", Sortable: true, SortField: "dataInicio", Cell: func(c Contract) string { return format.FormatDate(c.StartDate) }},
	{Key: "fim", Label: "Fim", Sortable: true, SortField: "dataFim", Cell: func(c Contract) string { return format.FormatDate(c.EndDate) }},
	{Key: "status", Label: "Status", Sortable: true, Cell: func(c Contract) string { return c.Status.String() }},
	{Key: "valor", Label: "Valor", Sortable: true, Cell: func(c Contract) string { return format.FormatBRL(c.Amount) }},
}

// ContractSpec configures the contract table.
var ContractSpec = table.Spec[Contract]{
	Name:       "contracts",
	Columns:    ContractColumns,
	ID:         func(c Contract) string { return string(c.ID) },
	FetchError: "Falha ao buscar contratos.",
}

// ContractEndpoint is the contract collection of client.
func ContractEndpoint(client *api.Client) Endpoint[Contract] {
	return Endpoint[Contract]{Client: client, Path: ContractsPath, Decode: DecodeContract, Sorted: true}
}

// NewContractTable creates the contract table controller.
func NewContractTable(client *api.Client, opts ...table.Option) *table.Controller[Contract] {
	return table.New(ContractSpec, ContractEndpoint(client), opts...)
}

// NewContractEditor creates the contract editor for t.
func NewContractEditor(t *table.Controller[Contract], client *api.Client) *table.Editor[Contract, *ContractForm] {
	return table.NewEditor(t, ContractEndpoint(client), table.EditorSpec[Contract, *ContractForm]{
		CreateTitle: "Novo Contrato",
		EditTitle:   "Editar Contrato",
		SaveError:   "Falha ao salvar contrato.",
		New:         NewContractForm,
		From:        ContractFormFrom,
	})
}

// Contract form messages.
const (
	msgContractRequired = "Preencha número e empresa."
	msgInvalidDate      = "Data inválida."
	msgEndBeforeStart   = "A data de fim deve ser posterior ao início."
	msgNegativeAmount   = "O valor não pode ser negativo."
	msgInvalidStatus    = "Status inválido."
)

var contractFields = []table.Field{
	{Name: "numero", Label: "Número", Kind: table.KindText, Placeholder: "CT-0001"},
	{Name: "empresa", Label: "Empresa (ID)", Kind: table.KindText, Placeholder: "ID do fornecedor"},
	{Name: "descricao", Label: "Descrição", Kind: table.KindText},
	{Name: "dataInicio", Label: "Início", Kind: table.KindDate},
	{Name: "dataFim", Label: "Fim", Kind: table.KindDate},
	{Name: "status", Label: "Status", Kind: table.KindSelect, Options: StatusLabels},
	{Name: "valor", Label: "Valor (R$)", Kind: table.KindMoney, Placeholder: "10.000,00"},
}

// ContractForm holds a contract as it is typed: dates in ISO form, the
// amount as pt-BR text and the status as its label.
type ContractForm struct {
	values map[string]string
}

// NewContractForm returns an empty form with status Ativo.
func NewContractForm() *ContractForm {
	return &ContractForm{values: map[string]string{"status": StatusAtivo.String()}}
}

// ContractFormFrom pre-fills a form from c.
func ContractFormFrom(c Contract) *ContractForm {
	f := &ContractForm{values: map[string]string{
		"numero":     c.Number,
		"empresa":    string(c.SupplierID),
		"descricao":  c.Description,
		"dataInicio": format.ISO(c.StartDate),
		"dataFim":    format.ISO(c.EndDate),
		"status":     c.Status.String(),
		"valor":      format.FormatAmount(c.Amount),
	}}
	if c.Status == StatusUnknown {
		f.values["status"] = StatusAtivo.String()
	}
	return f
}

// Fields implements table.Form.
func (f *ContractForm) Fields() []table.Field { return contractFields }

// Value implements table.Form.
func (f *ContractForm) Value(field string) string { return f.values[field] }

// Set implements table.Form.
func (f *ContractForm) Set(field, value string) { f.values[field] = value }

// Validate implements table.Form.
func (f *ContractForm) Validate() table.FieldErrors {
	errs := table.FieldErrors{}
	for _, name := range []string{"numero", "empresa"} {
		if strings.TrimSpace(f.values[name]) == "" {
			errs[name] = msgContractRequired
		}
	}

	start, startErr := format.ParseDate(f.values["dataInicio"])
	if startErr != nil {
		errs["dataInicio"] = msgInvalidDate
	}
	end, endErr := format.ParseDate(f.values["dataFim"])
	if endErr != nil {
		errs["dataFim"] = msgInvalidDate
	}
	if startErr == nil && endErr == nil && !start.IsZero() && !end.IsZero() && end.Before(start) {
		errs["dataFim"] = msgEndBeforeStart
	}

	if _, err := ParseStatus(f.values["status"]); err != nil {
		errs["status"] = msgInvalidStatus
	}
	if format.ParseAmount(f.values["valor"]) < 0 {
		errs["valor"] = msgNegativeAmount
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// ContractPayload is the body of a contract write.
type ContractPayload struct {
	Numero     string  `json:"numero"`
	Descricao  string  `json:"descricao"`
	Valor      float64 `json:"valor"`
	EmpresaID  ID      `json:"empresaId"`
	DataInicio *string `json:"dataInicio"`
	DataFim    *string `json:"dataFim"`
	Status     Status  `json:"status"`
}

// Payload implements table.Form.
func (f *ContractForm) Payload() any {
	status, err := ParseStatus(f.values["status"])
	if err != nil {
		status = StatusAtivo
	}
	return ContractPayload{
		Numero:     strings.TrimSpace(f.values["numero"]),
		Descricao:  strings.TrimSpace(f.values["descricao"]),
		Valor:      format.ParseAmount(f.values["valor"]),
		EmpresaID:  ID(strings.TrimSpace(f.values["empresa"])),
		DataInicio: isoOrNil(f.values["dataInicio"]),
		DataFim:    isoOrNil(f.values["dataFim"]),
		Status:     status,
	}
}

func isoOrNil(v string) *string {
	t, err := format.ParseDate(v)
	if err != nil || t.IsZero() {
		return nil
	}
	s := format.ISO(t)
	return &s
}
