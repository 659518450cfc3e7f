// Package templates renders the transactional emails the worker sends.
package templates

import (
	"bytes"
	"fmt"
	"html/template"
)

var welcomeHTML = template.Must(template.New("welcome").Parse(`
<html>
  <body style="font-family: sans-serif; color: #222;">
    <h2>Welcome, {{.Username}}!</h2>
    <p>Your account is ready. Log in and write your first post.</p>
  </body>
</html>
`))

// Render returns subject, text and HTML bodies for the named template.
func Render(name string, data map[string]any) (subject, text, html string, err error) {
	switch name {
	case "welcome":
		var buf bytes.Buffer
		if err := welcomeHTML.Execute(&buf, data); err != nil {
			return "", "", "", err
		}
		subject = "Welcome to the blog"
		text = fmt.Sprintf("Welcome, %v! Your account is ready.", data["Username"])
		return subject, text, buf.String(), nil
	default:
		return "", "", "", fmt.Errorf("unknown email template %q", name)
	}
}
