package email

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

// EmailService handles sending emails via AWS SES
type EmailService struct {
	client    *ses.Client
	fromEmail string
	fromName  string
}

// NewEmailService creates a new email service using AWS SES
func NewEmailService(region, fromEmail, fromName string) (*EmailService, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := ses.NewFromConfig(cfg)

	return &EmailService{
		client:    client,
		fromEmail: fromEmail,
		fromName:  fromName,
	}, nil
}

// SendNewsletterWelcome sends the welcome email to a new newsletter subscriber
func (e *EmailService) SendNewsletterWelcome(ctx context.Context, toEmail string) error {
	subject := "Welcome to the BlogSpace Newsletter"
	htmlBody := `
		<!DOCTYPE html>
		<html>
		<head>
			<meta charset="UTF-8">
			<style>
				body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; }
				.container { max-width: 600px; margin: 0 auto; padding: 20px; }
			</style>
		</head>
		<body>
			<div class="container">
				<h1>Welcome to BlogSpace</h1>
				<p>Thanks for subscribing to our newsletter.</p>
				<p>You'll get a digest of trending posts and the best new writing on BlogSpace.</p>
				<hr>
				<p style="color: #999; font-size: 12px;">This is an automated message from BlogSpace. If you didn't subscribe, you can safely ignore this email.</p>
			</div>
		</body>
		</html>
	`

	textBody := `
Welcome to BlogSpace

Thanks for subscribing to our newsletter.

You'll get a digest of trending posts and the best new writing on BlogSpace.

This is an automated message from BlogSpace. If you didn't subscribe, you can safely ignore this email.
	`

	return e.send(ctx, toEmail, subject, htmlBody, textBody)
}

func (e *EmailService) send(ctx context.Context, toEmail, subject, htmlBody, textBody string) error {
	from := e.fromEmail
	if e.fromName != "" {
		from = fmt.Sprintf("%s <%s>", e.fromName, e.fromEmail)
	}

	input := &ses.SendEmailInput{
		Source: aws.String(from),
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data:    aws.String(subject),
				Charset: aws.String("UTF-8"),
			},
			Body: &types.Body{
				Html: &types.Content{
					Data:    aws.String(htmlBody),
					Charset: aws.String("UTF-8"),
				},
				Text: &types.Content{
					Data:    aws.String(textBody),
					Charset: aws.String("UTF-8"),
				},
			},
		},
	}

	sendCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if _, err := e.client.SendEmail(sendCtx, input); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
