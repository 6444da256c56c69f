package resource

import (
	"strings"

	"github.com/leapstack-labs/contratos/internal/api"
	"github.com/leapstack-labs/contratos/internal/format"
	"github.com/leapstack-labs/contratos/internal/table"
)

// Company is a supplier. CNPJ and Phone hold digits only.
type Company struct {
	ID    ID
	Name  string
	CNPJ  string
	Email string
	Phone string
}

type companyWire struct {
	ID              ID     `json:"id"`
	Nome            string `json:"nome"`
	Name            string `json:"name"`
	CNPJ            string `json:"cnpj"`
	Document        string `json:"document"`
	CNPJNumber      string `json:"cnpjNumber"`
	Email           string `json:"email"`
	Telefone        string `json:"telefone"`
	Phone           string `json:"phone"`
	TelefoneContato string `json:"telefoneContato"`
}

func (w companyWire) company() Company {
	return Company{
		ID:    w.ID,
		Name:  first(w.Nome, w.Name),
		CNPJ:  format.Digits(first(w.CNPJ, w.Document, w.CNPJNumber)),
		Email: strings.TrimSpace(w.Email),
		Phone: format.Digits(first(w.Telefone, w.Phone, w.TelefoneContato)),
	}
}

// DecodeCompany reads one company from its wire form.
var DecodeCompany = decodeJSON(companyWire.company)

// CompanyColumns are the company table's columns.
var CompanyColumns = []table.Column[Company]{
	{Key: "nome", Label: "Nome", Sortable: true, Cell: func(c Company) string { return c.Name }},
	{Key: "cnpj", Label: "CNPJ", Sortable: true, Cell: func(c Company) string { return format.MaskCNPJ(c.CNPJ) }},
	{Key: "email", Label: "E-mail", Sortable: true, Cell: func(c Company) string { return c.Email }},
	{Key: "telefone", Label: "Telefone", Cell: func(c Company) string { return format.MaskPhone(c.Phone) }},
}

// CompanySpec configures the company table.
var CompanySpec = table.Spec[Company]{
	Name:       "companies",
	Columns:    CompanyColumns,
	ID:         func(c Company) string { return string(c.ID) },
	FetchError: "Falha ao buscar empresas.",
}

// CompanyEndpoint is the supplier collection of client.
func CompanyEndpoint(client *api.Client) Endpoint[Company] {
	return Endpoint[Company]{Client: client, Path: SuppliersPath, Decode: DecodeCompany, Sorted: true}
}

// NewCompanyTable creates the company table controller.
func NewCompanyTable(client *api.Client, opts ...table.Option) *table.Controller[Company] {
	return table.New(CompanySpec, CompanyEndpoint(client), opts...)
}

// NewCompanyEditor creates the company editor for t.
func NewCompanyEditor(t *table.Controller[Company], client *api.Client) *table.Editor[Company, *CompanyForm] {
	return table.NewEditor(t, CompanyEndpoint(client), table.EditorSpec[Company, *CompanyForm]{
		CreateTitle: "Nova Empresa",
		EditTitle:   "Editar Empresa",
		SaveError:   "Falha ao salvar empresa.",
		New:         NewCompanyForm,
		From:        CompanyFormFrom,
	})
}

// Company form messages.
const (
	msgNameRequired  = "Informe o nome da empresa."
	msgCNPJRequired  = "Informe o CNPJ."
	msgCNPJInvalid   = "CNPJ inválido."
	msgEmailRequired = "Informe o e-mail."
	msgEmailInvalid  = "E-mail inválido."
	msgPhoneRequired = "Informe o telefone."
	msgPhoneShort    = "Telefone incompleto."
)

var companyFields = []table.Field{
	{Name: "nome", Label: "Nome", Kind: table.KindText, Placeholder: "Nome da empresa"},
	{Name: "cnpj", Label: "CNPJ", Kind: table.KindText, Placeholder: "00.000.000/0000-00"},
	{Name: "email", Label: "E-mail", Kind: table.KindEmail, Placeholder: "contato@empresa.com"},
	{Name: "telefone", Label: "Telefone", Kind: table.KindText, Placeholder: "(11) 99999-9999"},
}

// CompanyForm holds a company as typed. CNPJ and phone are kept masked.
type CompanyForm struct {
	nome, cnpj, email, telefone string
}

// NewCompanyForm returns an empty form.
func NewCompanyForm() *CompanyForm { return &CompanyForm{} }

// CompanyFormFrom pre-fills a form from c.
func CompanyFormFrom(c Company) *CompanyForm {
	return &CompanyForm{
		nome:     c.Name,
		cnpj:     format.MaskCNPJ(c.CNPJ),
		email:    c.Email,
		telefone: format.MaskPhone(c.Phone),
	}
}

// Fields implements table.Form.
func (f *CompanyForm) Fields() []table.Field { return companyFields }

// Value implements table.Form.
func (f *CompanyForm) Value(field string) string {
	switch field {
	case "nome":
		return f.nome
	case "cnpj":
		return f.cnpj
	case "email":
		return f.email
	case "telefone":
		return f.telefone
	}
	return ""
}

// Set implements table.Form. CNPJ and phone are masked as they are typed.
func (f *CompanyForm) Set(field, value string) {
	switch field {
	case "nome":
		f.nome = value
	case "cnpj":
		f.cnpj = format.MaskCNPJ(value)
	case "email":
		f.email = value
	case "telefone":
		f.telefone = format.MaskPhone(value)
	}
}

// Validate implements table.Form.
func (f *CompanyForm) Validate() table.FieldErrors {
	errs := table.FieldErrors{}
	if strings.TrimSpace(f.nome) == "" {
		errs["nome"] = msgNameRequired
	}

	switch {
	case strings.TrimSpace(f.cnpj) == "":
		errs["cnpj"] = msgCNPJRequired
	case !format.ValidCNPJ(f.cnpj):
		errs["cnpj"] = msgCNPJInvalid
	}

	switch {
	case strings.TrimSpace(f.email) == "":
		errs["email"] = msgEmailRequired
	case !format.ValidEmail(f.email):
		errs["email"] = msgEmailInvalid
	}

	switch phone := format.Digits(f.telefone); {
	case phone == "":
		errs["telefone"] = msgPhoneRequired
	case len(phone) < format.MinPhoneDigits:
		errs["telefone"] = msgPhoneShort
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// CompanyPayload is the body of a supplier write.
type CompanyPayload struct {
	Nome     string `json:"nome"`
	CNPJ     string `json:"cnpj"`
	Email    string `json:"email"`
	Telefone string `json:"telefone"`
}

// Payload implements table.Form.
func (f *CompanyForm) Payload() any {
	return CompanyPayload{
		Nome:     strings.TrimSpace(f.nome),
		CNPJ:     format.Digits(f.cnpj),
		Email:    strings.TrimSpace(f.email),
		Telefone: format.Digits(f.telefone),
	}
}
