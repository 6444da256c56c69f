package resource

import (
	"strings"

	"github.com/leapstack-labs/contratos/internal/api"
	"github.com/leapstack-labs/contratos/internal/table"
)

// User is a person with access to the console. Users are listed, not edited.
type User struct {
	ID    ID
	Name  string
	Email string
}

type userWire struct {
	ID    ID     `json:"id"`
	Nome  string `json:"nome"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (w userWire) user() User {
	return User{ID: w.ID, Name: first(w.Nome, w.Name), Email: strings.TrimSpace(w.Email)}
}

// DecodeUser reads one user from its wire form.
var DecodeUser = decodeJSON(userWire.user)

// UserColumns are the user table's columns. The persons endpoint does not sort.
var UserColumns = []table.Column[User]{
	{Key: "nome", Label: "Nome", Cell: func(u User) string { return u.Name }},
	{Key: "email", Label: "E-mail", Cell: func(u User) string { return u.Email }},
}

// UserSpec configures the user table.
var UserSpec = table.Spec[User]{
	Name:       "users",
	Columns:    UserColumns,
	ID:         func(u User) string { return string(u.ID) },
	FetchError: "Falha ao carregar usuários.",
}

// UserEndpoint is the persons collection of client.
func UserEndpoint(client *api.Client) Endpoint[User] {
	return Endpoint[User]{Client: client, Path: PersonsPath, Decode: DecodeUser}
}

// NewUserTable creates the user table controller.
func NewUserTable(client *api.Client, opts ...table.Option) *table.Controller[User] {
	return table.New(UserSpec, UserEndpoint(client), opts...)
}
