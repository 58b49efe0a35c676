package main

import (
	"errors"
	"fmt"
	"net/http"
	"net/smtp"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var errSMTPNotConfigured = errors.New("SMTP credentials not configured")

// headerSafe keeps form input from adding mail headers.
var headerSafe = strings.NewReplacer("\r", "", "\n", " ")

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// ContactMessage is one contact form submission.
type ContactMessage struct {
	Name    string
	Email   string
	Message string
	// Page is the address the form was sent from, when the browser says.
	Page string
}

// Mailer delivers contact form submissions. The recipient is TO_EMAIL or,
// when unset, the email on the last loaded profile.
type Mailer struct {
	host, port string
	user, pass string
	toEmail    string
	profile    func() *ProfileRecord
	send       sendFunc
	logger     *zap.Logger
}

func NewMailer(cfg *Config, profile func() *ProfileRecord, logger *zap.Logger) *Mailer {
	return &Mailer{
		host:    cfg.SMTPHost,
		port:    cfg.SMTPPort,
		user:    cfg.SMTPUser,
		pass:    cfg.SMTPPass,
		toEmail: cfg.ToEmail,
		profile: profile,
		send:    smtp.SendMail,
		logger:  logger,
	}
}

func (m *Mailer) owner() ProfileRecord {
	if m.profile != nil {
		if p := m.profile(); p != nil {
			return *p
		}
	}
	return ProfileRecord{}
}

func (m *Mailer) Send(msg ContactMessage) error {
	if m.user == "" || m.pass == "" {
		return errSMTPNotConfigured
	}
	owner := m.owner()
	to := m.toEmail
	if to == "" {
		to = owner.Email
	}
	if to == "" {
		return errors.New("no recipient: set TO_EMAIL or an email on the profile feed")
	}
	name, email := headerSafe.Replace(msg.Name), headerSafe.Replace(msg.Email)

	greeting := "Olá"
	if owner.Name != "" {
		greeting += ", " + owner.Name
	}
	from := ""
	if msg.Page != "" {
		from = " em " + headerSafe.Replace(msg.Page)
	}
	body := fmt.Sprintf("%s!\n\n%s <%s> escreveu pelo formulário de contato do portfólio%s:\n\n%s\n",
		greeting, name, email, from, msg.Message)

	raw := []byte("To: " + to + "\r\n" +
		"Subject: Contato pelo portfólio: " + name + "\r\n" +
		"From: " + m.user + "\r\n" +
		"Reply-To: " + email + "\r\n" +
		"Content-Type: text/plain; charset=UTF-8\r\n" +
		"\r\n" +
		body)

	auth := smtp.PlainAuth("", m.user, m.pass, m.host)
	if err := m.send(m.host+":"+m.port, auth, m.user, []string{to}, raw); err != nil {
		return fmt.Errorf("sending contact email: %w", err)
	}
	return nil
}

func (a *App) setupContactRoutes(r *gin.Engine) {
	// HTMX contact form, returns just the form HTML
	r.GET("/contact-form", func(c *gin.Context) {
		c.HTML(http.StatusOK, "contact.html", gin.H{
			"title": "Contact Me",
		})
	})

	r.POST("/contact", func(c *gin.Context) {
		name := strings.TrimSpace(c.PostForm("fullName"))
		email := strings.TrimSpace(c.PostForm("email"))
		message := strings.TrimSpace(c.PostForm("message"))

		if name == "" || email == "" || message == "" {
			c.HTML(http.StatusOK, "contact-error.html", gin.H{
				"error": "Please fill in your name, email and message.",
			})
			return
		}

		msg := ContactMessage{Name: name, Email: email, Message: message, Page: c.GetHeader("Referer")}
		if err := a.mailer.Send(msg); err != nil {
			a.logger.Error("contact email failed", zap.Error(err))
			c.HTML(http.StatusOK, "contact-error.html", gin.H{
				"error": "Sorry, there was an error sending your message. Please try again later.",
			})
			return
		}

		a.logger.Info("contact email sent", zap.String("client", a.clientHash(c)))
		c.HTML(http.StatusOK, "contact-success.html", gin.H{
			"success": "Thank you for your message! I'll get back to you soon.",
		})
	})
}
