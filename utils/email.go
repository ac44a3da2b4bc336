package utils

import (
	"fmt"
	"log"
	"os"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/aseka33/nyumba-ai-marketplace/config"
)

// SendEmail sends an email using SendGrid
func SendEmail(toName, toEmail, subject, textContent, htmlContent string) error {
	apiKey := os.Getenv("SENDGRID_API_KEY")
	if apiKey == "" {
		return fmt.Errorf("SENDGRID_API_KEY is not set in environment variables")
	}

	from := mail.NewEmail(config.SenderName, config.SenderEmail)
	to := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(from, subject, to, textContent, htmlContent)
	client := sendgrid.NewSendClient(apiKey)

	response, err := client.Send(message)
	if err != nil {
		log.Printf("Error sending email to %s: %v", toEmail, err)
		return err
	}

	if response.StatusCode >= 400 {
		log.Printf("SendGrid API Error: Status Code %d, Body: %s", response.StatusCode, response.Body)
		return fmt.Errorf("failed to send email, status code: %d", response.StatusCode)
	}

	log.Printf("Email sent successfully to %s. Status Code: %d", toEmail, response.StatusCode)
	return nil
}

// SendAnalysisReadyEmail notifies the uploader that their room analysis is
// ready. Best-effort: failures are logged and never affect the asset. The
// signature matches the pipeline's Notify hook.
func SendAnalysisReadyEmail(assetID, toEmail string) {
	subject := "Your room design analysis is ready"
	text := fmt.Sprintf("Your room analysis (%s) has finished processing. Open the app to see your recommendations and the redesigned view.", assetID)
	html := fmt.Sprintf("<p>Your room analysis (<strong>%s</strong>) has finished processing.</p><p>Open the app to see your recommendations and the redesigned view.</p>", assetID)

	if err := SendEmail("", toEmail, subject, text, html); err != nil {
		log.Printf("Failed to send analysis-ready email for %s: %v", assetID, err)
	}
}
