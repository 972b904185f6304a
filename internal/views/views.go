// Package views renders the few server-side HTML pages of the admin area.
package views

import (
	"bytes"
	"html/template"

	"github.com/gofiber/fiber/v2"
)

const layout = `{{define "layout"}}<!doctype html>
<html lang="en">
<head><meta charset="utf-8"><title>{{.Title}} · {{.AppName}}</title></head>
<body>
{{template "content" .}}
</body>
</html>{{end}}`

var (
	loginTmpl = template.Must(template.Must(template.New("login").Parse(layout)).Parse(`{{define "content"}}
<main id="login">
  <h1>{{.AppName}} admin</h1>
  {{with .Error}}<p class="error" role="alert">{{.}}</p>{{end}}
  <form method="post" action="/auth/login">
    <label>Email <input type="email" name="email" value="{{.Email}}" required></label>
    <label>Password <input type="password" name="password" required></label>
    <button type="submit">Sign in</button>
  </form>
</main>{{end}}`))

	consoleTmpl = template.Must(template.Must(template.New("console").Parse(layout)).Parse(`{{define "content"}}
<main id="admin-console" data-testid="admin-console">
  <header>
    <h1>{{.AppName}} console</h1>
    <p>Signed in as {{.UserName}} ({{.UserEmail}}, {{.Role}})</p>
    <form method="post" action="/auth/logout"><button type="submit">Sign out</button></form>
  </header>
  {{if .StatsAvailable}}
  <section id="stats">
    <p>Cars in stock: {{.Total}}</p>
    <p>Available: {{.Available}} · Reserved: {{.Reserved}} · Sold: {{.Sold}}</p>
  </section>
  {{else}}
  <section id="stats"><p>Inventory statistics are unavailable right now.</p></section>
  {{end}}
</main>{{end}}`))

	deniedTmpl = template.Must(template.Must(template.New("denied").Parse(layout)).Parse(`{{define "content"}}
<main id="access-denied">
  <h1>Access denied</h1>
  <p>Your account does not have permission to view this page.</p>
  <a href="/login">Back to sign in</a>
</main>{{end}}`))
)

// LoginPage is the data for the sign-in form.
type LoginPage struct {
	AppName string
	Title   string
	Email   string
	Error   string
}

// ConsolePage is the data for the admin landing page.
type ConsolePage struct {
	AppName        string
	Title          string
	UserName       string
	UserEmail      string
	Role           string
	StatsAvailable bool
	Total          int
	Available      int
	Reserved       int
	Sold           int
}

// DeniedPage is the data for the access-denied fallback. It carries nothing
// from the protected view.
type DeniedPage struct {
	AppName string
	Title   string
}

// Login renders the sign-in page.
func Login(c *fiber.Ctx, status int, page LoginPage) error {
	page.Title = "Sign in"
	return render(c, status, loginTmpl, page)
}

// Console renders the admin console.
func Console(c *fiber.Ctx, page ConsolePage) error {
	page.Title = "Console"
	return render(c, fiber.StatusOK, consoleTmpl, page)
}

// Denied renders the access-denied fallback with 403.
func Denied(c *fiber.Ctx, appName string) error {
	return render(c, fiber.StatusForbidden, deniedTmpl, DeniedPage{AppName: appName, Title: "Access denied"})
}

func render(c *fiber.Ctx, status int, tmpl *template.Template, data any) error {
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to render page")
	}
	c.Set(fiber.HeaderCacheControl, "no-store")
	c.Type("html", "utf-8")
	return c.Status(status).Send(buf.Bytes())
}
