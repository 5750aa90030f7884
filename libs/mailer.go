package libs

import (
	"errors"
	"fmt"
	"html"
	"log"
	"strings"

	"storefront/models"

	"gopkg.in/gomail.v2"
)

var ErrMailerNotConfigured = errors.New("SMTP configuration missing")

type SMTPOptions struct {
	Host string
	Port int
	User string
	Pass string
	From string
	// FrontendURL is used to build links inside emails.
	FrontendURL string
}

type EmailService struct {
	dialer      *gomail.Dialer
	from        string
	frontendURL string
}

func NewEmailService(opts SMTPOptions) (*EmailService, error) {
	if opts.Host == "" || opts.User == "" || opts.Pass == "" {
		return nil, ErrMailerNotConfigured
	}

	port := opts.Port
	if port == 0 {
		port = 587
	}

	return &EmailService{
		dialer:      gomail.NewDialer(opts.Host, port, opts.User, opts.Pass),
		from:        opts.From,
		frontendURL: strings.TrimRight(opts.FrontendURL, "/"),
	}, nil
}

const emailLayout = `
<!DOCTYPE html>
<html>
<head>
    <style>
        body { font-family: Arial, sans-serif; background-color: #f4f4f4; padding: 20px; }
        .container { max-width: 600px; margin: 0 auto; background-color: white; padding: 30px; border-radius: 10px; }
        .logo { font-size: 24px; font-weight: bold; color: #16a34a; text-align: center; margin-bottom: 30px; }
        .code-box { background-color: #f0fdf4; border: 2px dashed #16a34a; padding: 20px; text-align: center; margin: 30px 0; border-radius: 8px; }
        .code { font-size: 36px; font-weight: bold; color: #16a34a; letter-spacing: 8px; }
        table { width: 100%%; border-collapse: collapse; }
        td, th { padding: 8px; border-bottom: 1px solid #eee; text-align: left; }
        .footer { text-align: center; margin-top: 30px; color: #666; font-size: 12px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="logo">Storefront</div>
        %s
        <div class="footer">
            <p>This is an automated email. Please do not reply.</p>
        </div>
    </div>
</body>
</html>`

func (s *EmailService) send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", fmt.Sprintf(emailLayout, body))

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func (s *EmailService) SendVerificationEmail(to, name, code string) error {
	link := fmt.Sprintf("%s/verify-email?code=%s", s.frontendURL, code)
	body := fmt.Sprintf(`
        <h2>Verify your email</h2>
        <p>Hello %s,</p>
        <p>Thanks for registering. Confirm your email address to finish setting up your account:</p>
        <p style="text-align:center;"><a href="%s">Verify email</a></p>
        <div class="code-box"><div class="code">%s</div></div>
        <p>The code expires in 24 hours.</p>`,
		html.EscapeString(name), html.EscapeString(link), html.EscapeString(code))

	return s.send(to, "Verify your email - Storefront", body)
}

func (s *EmailService) SendPasswordResetOTP(to, name, otp string) error {
	body := fmt.Sprintf(`
        <h2>Password Reset Request</h2>
        <p>Hello %s,</p>
        <p>Use the following One-Time Password (OTP) to reset your password:</p>
        <div class="code-box"><div class="code">%s</div></div>
        <p><strong>This code will expire in 1 hour.</strong></p>
        <p>If you did not request a password reset, please ignore this email.</p>`,
		html.EscapeString(name), html.EscapeString(otp))

	return s.send(to, "Password Reset OTP - Storefront", body)
}

func (s *EmailService) SendOrderConfirmation(to string, order *models.Order) error {
	var rows strings.Builder
	for _, item := range order.Items {
		fmt.Fprintf(&rows, "<tr><td>%s</td><td>%d</td><td>%s</td></tr>",
			html.EscapeString(item.Name), item.Quantity, FormatEuro(item.LineTotal.StringFixed(2)))
	}

	body := fmt.Sprintf(`
        <h2>Order Confirmation</h2>
        <p>Hello %s, thank you for your order!</p>
        <p><strong>Order:</strong> %s<br><strong>Payment reference:</strong> %s</p>
        <table>
            <tr><th>Product</th><th>Qty</th><th>Total</th></tr>
            %s
        </table>
        <p><strong>Subtotal:</strong> %s<br><strong>Total:</strong> %s</p>`,
		html.EscapeString(order.Billing.FullName),
		html.EscapeString(order.OrderID),
		html.EscapeString(order.PaymentID),
		rows.String(),
		FormatEuro(order.SubTotalAmt.StringFixed(2)),
		FormatEuro(order.TotalAmt.StringFixed(2)),
	)

	return s.send(to, fmt.Sprintf("Order Confirmation #%s - Storefront", order.OrderID), body)
}

func FormatEuro(amount string) string {
	return "€" + amount
}

// LogMailer writes emails to the log. Used when SMTP is not configured.
type LogMailer struct{}

func (LogMailer) SendVerificationEmail(to, _, code string) error {
	log.Printf("[mail] verification code for %s: %s", to, code)
	return nil
}

func (LogMailer) SendPasswordResetOTP(to, _, otp string) error {
	log.Printf("[mail] password reset otp for %s: %s", to, otp)
	return nil
}

func (LogMailer) SendOrderConfirmation(to string, order *models.Order) error {
	log.Printf("[mail] order confirmation %s for %s", order.OrderID, to)
	return nil
}
