package views

import "github.com/a-h/templ"

// LoginData is the login page and its form fragment.
type LoginData struct {
	Shell
	Email  string
	Errors map[string]string
	Alert  string
}

// Signals is the initial datastar signal set of the form.
func (d LoginData) Signals() map[string]any {
	return map[string]any{"email": d.Email, "password": ""}
}

// LoginPage renders the full login page.
func LoginPage(data LoginData) templ.Component { return component("login-page", data) }

// LoginForm renders the #login-form fragment.
func LoginForm(data LoginData) templ.Component { return component("login-form", data) }

// RegisterData is the registration page and its form fragment.
type RegisterData struct {
	Shell
	Nome   string
	Email  string
	Errors map[string]string
	Alert  string
	Notice string
}

// Signals is the initial datastar signal set of the form.
func (d RegisterData) Signals() map[string]any {
	return map[string]any{"nome": d.Nome, "email": d.Email, "senha": ""}
}

// RegisterPage renders the full registration page.
func RegisterPage(data RegisterData) templ.Component { return component("register-page", data) }

// RegisterForm renders the #register-form fragment.
func RegisterForm(data RegisterData) templ.Component { return component("register-form", data) }
