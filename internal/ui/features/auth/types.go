package auth

import (
	"errors"
	"net/http"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/leapstack-labs/contratos/internal/api"
)

// HomePath is where a successful login lands.
const HomePath = "/inicio"

const (
	msgEmailRequired    = "Informe seu e-mail"
	msgEmailInvalid     = "E-mail inválido"
	msgPasswordRequired = "Informe sua senha"
	msgNameRequired     = "Informe seu nome"
	msgMinPassword      = "Mínimo de 4 caracteres"
	msgMinName          = "Mínimo de 2 caracteres"

	msgOperationFailed = "Operação não pode ser realizada"
	msgRegistered      = "Conta criada com sucesso!"
	msgCheckFields     = "Verifique os campos e tente novamente."
	msgInvalidData     = "Dados inválidos."
	msgInternal        = "Erro interno."
	msgRegisterFailed  = "Não foi possível realizar a operação."
)

var emailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)

// LoginSignals are the login form's signals.
type LoginSignals struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s LoginSignals) validate() map[string]string {
	errs := map[string]string{}
	if msg := checkEmail(s.Email); msg != "" {
		errs["email"] = msg
	}
	if msg := checkLength(s.Password, 4, msgPasswordRequired, msgMinPassword); msg != "" {
		errs["password"] = msg
	}
	return errs
}

// RegisterSignals are the registration form's signals.
type RegisterSignals struct {
	Nome  string `json:"nome"`
	Email string `json:"email"`
	Senha string `json:"senha"`
}

func (s RegisterSignals) validate() map[string]string {
	errs := map[string]string{}
	if msg := checkLength(strings.TrimSpace(s.Nome), 2, msgNameRequired, msgMinName); msg != "" {
		errs["nome"] = msg
	}
	if msg := checkEmail(s.Email); msg != "" {
		errs["email"] = msg
	}
	if msg := checkLength(s.Senha, 4, msgPasswordRequired, msgMinPassword); msg != "" {
		errs["senha"] = msg
	}
	return errs
}

func checkEmail(v string) string {
	v = strings.TrimSpace(v)
	switch {
	case v == "":
		return msgEmailRequired
	case !emailPattern.MatchString(v):
		return msgEmailInvalid
	}
	return ""
}

func checkLength(v string, minLen int, required, short string) string {
	switch {
	case v == "":
		return required
	case utf8.RuneCountInString(v) < minLen:
		return short
	}
	return ""
}

// loginMessage explains a failed login. Rejected credentials show the
// server's own message.
func loginMessage(err error) string {
	var re *api.RequestError
	if errors.As(err, &re) && re.Status == http.StatusUnauthorized && re.Message != "" {
		return re.Message
	}
	return msgOperationFailed
}

// registerMessage explains a failed registration, preferring the name,
// e-mail and password errors in that order.
func registerMessage(err error) string {
	var re *api.RequestError
	if !errors.As(err, &re) {
		return msgRegisterFailed
	}
	switch {
	case re.Status == http.StatusBadRequest && len(re.Fields) > 0:
		for _, field := range []string{"Nome", "Email", "Senha"} {
			for key, msgs := range re.Fields {
				if strings.EqualFold(key, field) && len(msgs) > 0 {
					return msgs[0]
				}
			}
		}
		if re.Message != "" {
			return re.Message
		}
		return msgCheckFields
	case re.Status == http.StatusUnprocessableEntity:
		if re.Message != "" {
			return re.Message
		}
		return msgInvalidData
	case re.Status >= http.StatusInternalServerError:
		return msgInternal
	}
	return msgRegisterFailed
}
