package views

import "github.com/a-h/templ"

// Card is one total on the dashboard.
type Card struct {
	Label string
	Href  string
	Total int
	Err   string
}

// DashboardData is the dashboard fragment.
type DashboardData struct {
	Cards []Card
}

// HomeData is the dashboard page.
type HomeData struct {
	Shell
	Dashboard DashboardData
}

// HomePage renders the full dashboard page.
func HomePage(data HomeData) templ.Component { return component("home-page", data) }

// Dashboard renders the #dashboard fragment.
func Dashboard(data DashboardData) templ.Component { return component("dashboard", data) }
