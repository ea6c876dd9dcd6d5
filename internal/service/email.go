package service

import (
	"context"
	"fmt"

	"equiphire-backend/internal/domain"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type emailService struct {
	apiKey    string
	fromEmail string
	fromName  string
}

func NewEmailService(apiKey, fromEmail, fromName string) EmailService {
	return &emailService{
		apiKey:    apiKey,
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

func (s *emailService) send(to, toName, subject, body string) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	recipient := mail.NewEmail(toName, to)
	message := mail.NewSingleEmail(from, subject, recipient, body, "")

	client := sendgrid.NewSendClient(s.apiKey)
	response, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}
	return nil
}

func (s *emailService) SendBookingRequestedNotification(ctx context.Context, email, name, bookingNumber, startDate, endDate string) error {
	subject := fmt.Sprintf("New hire request %s", bookingNumber)
	body := fmt.Sprintf("Hello %s,\n\nYou have a new equipment hire request %s for %s to %s. Accept or reject it from your dashboard.\n\nEquipHire", name, bookingNumber, startDate, endDate)
	return s.send(email, name, subject, body)
}

func (s *emailService) SendBookingStatusNotification(ctx context.Context, email, name, bookingNumber string, status domain.BookingStatus, note string) error {
	subject := fmt.Sprintf("Booking %s: %s", bookingNumber, domain.StatusLabels[status])
	body := fmt.Sprintf("Hello %s,\n\nBooking %s is now %s.", name, bookingNumber, domain.StatusLabels[status])
	if note != "" {
		body += fmt.Sprintf("\n\nNote: %s", note)
	}
	body += "\n\nEquipHire"
	return s.send(email, name, subject, body)
}

func (s *emailService) SendDisputeRaisedNotification(ctx context.Context, email, name, bookingNumber, reason string) error {
	subject := fmt.Sprintf("Dispute opened on booking %s", bookingNumber)
	body := fmt.Sprintf("Hello %s,\n\nA dispute has been opened on booking %s.\n\nReason: %s\n\nYou may submit a response with supporting evidence from your dashboard.\n\nEquipHire", name, bookingNumber, reason)
	return s.send(email, name, subject, body)
}

func (s *emailService) SendDisputeResolvedNotification(ctx context.Context, email, name, bookingNumber string, tag domain.ResolutionTag, notes string) error {
	subject := fmt.Sprintf("Dispute resolved on booking %s", bookingNumber)
	body := fmt.Sprintf("Hello %s,\n\nThe dispute on booking %s has been resolved (%s).", name, bookingNumber, tag)
	if notes != "" {
		body += fmt.Sprintf("\n\n%s", notes)
	}
	body += "\n\nEquipHire"
	return s.send(email, name, subject, body)
}
