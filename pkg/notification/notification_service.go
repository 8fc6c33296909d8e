package notification

import (
	"context"
	"fmt"

	"quickdeliver/internal/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

// ServiceInterface defines the contract for the lifecycle notification service.
type ServiceInterface interface {
	DeliveryAccepted(ctx context.Context, recipient string, d *models.Delivery) error
	DeliveryDelivered(ctx context.Context, recipient string, d *models.Delivery) error
}

// SESService sends lifecycle emails through Amazon SES.
type SESService struct {
	client *sesv2.Client
	sender string
}

// NewSESService builds the SES-backed notifier using the default AWS credential
// chain for the given region.
func NewSESService(ctx context.Context, region, sender string) (*SESService, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("notification: load aws config: %w", err)
	}
	return &SESService{client: sesv2.NewFromConfig(cfg), sender: sender}, nil
}

func (s *SESService) send(ctx context.Context, recipient, subject, body string) error {
	_, err := s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(s.sender),
		Destination:      &types.Destination{ToAddresses: []string{recipient}},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(subject)},
				Body:    &types.Body{Text: &types.Content{Data: aws.String(body)}},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("notification: send email: %w", err)
	}
	return nil
}

// DeliveryAccepted notifies the customer that an agent took their delivery.
func (s *SESService) DeliveryAccepted(ctx context.Context, recipient string, d *models.Delivery) error {
	body := fmt.Sprintf("Your delivery from %s to %s has been accepted by an agent and will be picked up shortly.",
		d.PickupLocation, d.DropLocation)
	return s.send(ctx, recipient, "Your delivery has been accepted", body)
}

// DeliveryDelivered notifies the customer that their delivery reached its destination.
func (s *SESService) DeliveryDelivered(ctx context.Context, recipient string, d *models.Delivery) error {
	body := fmt.Sprintf("Your delivery to %s has been completed. You can now rate your delivery agent.",
		d.DropLocation)
	return s.send(ctx, recipient, "Your delivery is complete", body)
}

// NoopService is used when no sender address is configured (local development,
// tests). It accepts every notification and does nothing.
type NoopService struct{}

func NewNoopService() *NoopService { return &NoopService{} }

func (n *NoopService) DeliveryAccepted(ctx context.Context, recipient string, d *models.Delivery) error {
	return nil
}

func (n *NoopService) DeliveryDelivered(ctx context.Context, recipient string, d *models.Delivery) error {
	return nil
}
