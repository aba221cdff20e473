package notifier

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/labstack/gommon/log"
)

// SESのうち使うのはSendEmailだけ
type sesAPI interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type SESConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	SenderEmail     string
}

// SESNotifier はAWS SESでメールを送る
type SESNotifier struct {
	client sesAPI
	sender string
}

// NewSESNotifier はキーが無ければデフォルトの認証情報チェーンを使う
func NewSESNotifier(ctx context.Context, cfg SESConfig) (*SESNotifier, error) {
	if cfg.SenderEmail == "" {
		return nil, errors.New("sender email address is not configured")
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS SDK config: %w", err)
	}

	return newSESNotifier(ses.NewFromConfig(awsCfg), cfg.SenderEmail), nil
}

func newSESNotifier(client sesAPI, sender string) *SESNotifier {
	return &SESNotifier{client: client, sender: sender}
}

func (n *SESNotifier) OrderPlaced(ctx context.Context, o OrderPlaced) error {
	subject := fmt.Sprintf("Order %s confirmation", o.OrderNumber)
	text := fmt.Sprintf(
		"Dear %s,\n\nThank you for your order! Your order %s has been placed.\n"+
			"Total: %s\n\nWe'll send you another email when your order ships.",
		o.CustomerName, o.OrderNumber, o.Total.StringFixed(2))
	html := fmt.Sprintf(
		"<p>Dear %s,</p><p>Thank you for your order! Your order <strong>%s</strong> has been placed.</p>"+
			"<p>Total: %s</p><p>We'll send you another email when your order ships.</p>",
		o.CustomerName, o.OrderNumber, o.Total.StringFixed(2))

	return n.send(ctx, o.Email, subject, text, html)
}

func (n *SESNotifier) CommissionUpdated(ctx context.Context, c CommissionUpdated) error {
	subject := fmt.Sprintf("Commission request #%d is now %s", c.CommissionID, c.Status)
	text := fmt.Sprintf("Dear %s,\n\nYour commission request #%d is now %s.", c.CustomerName, c.CommissionID, c.Status)
	html := fmt.Sprintf("<p>Dear %s,</p><p>Your commission request #%d is now <strong>%s</strong>.</p>",
		c.CustomerName, c.CommissionID, c.Status)

	return n.send(ctx, c.Email, subject, text, html)
}

func (n *SESNotifier) send(ctx context.Context, to, subject, text, html string) error {
	if to == "" {
		return errors.New("recipient email address is empty")
	}

	input := &ses.SendEmailInput{
		Source: aws.String(n.sender),
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{Charset: aws.String("UTF-8"), Data: aws.String(subject)},
			Body: &types.Body{
				Html: &types.Content{Charset: aws.String("UTF-8"), Data: aws.String(html)},
				Text: &types.Content{Charset: aws.String("UTF-8"), Data: aws.String(text)},
			},
		},
	}

	if _, err := n.client.SendEmail(ctx, input); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}

	log.Infof("email sent to %s: %s", to, subject)
	return nil
}
