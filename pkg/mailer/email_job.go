package mailer

// Template names understood by the email worker.
const (
	TemplateWelcome = "welcome"
)

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
// Text/HTML are optional; when Template is set the worker renders subject and
// body from it using Data.
type EmailJob struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	HTML     string         `json:"html,omitempty"`
	Template string         `json:"template,omitempty"`
	Data     map[string]any `json:"data,omitempty"`
}
