package service

import (
	"context"
	"fmt"
	"time"

	"equiphire-backend/internal/domain"
	"equiphire-backend/internal/logger"
	"equiphire-backend/internal/metrics"
	"equiphire-backend/internal/repository"
)

type disputeService struct {
	disputes repository.DisputeRepository
	bookings repository.BookingRepository
	parties  repository.PartyRepository
	emails   EmailService
}

func NewDisputeService(
	disputes repository.DisputeRepository,
	bookings repository.BookingRepository,
	parties repository.PartyRepository,
	emails EmailService,
) DisputeService {
	return &disputeService{
		disputes: disputes,
		bookings: bookings,
		parties:  parties,
		emails:   emails,
	}
}

func (s *disputeService) RaiseDispute(ctx context.Context, bookingID, raisedBy int64, role domain.Role, reason, description string, evidence []string) (*domain.Dispute, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !domain.TransitionExists(b.Status, domain.BookingStatusDisputed) {
		return nil, fmt.Errorf("booking %s cannot be disputed while %s: %w", b.BookingNumber, b.Status, domain.ErrInvalidState)
	}
	if !domain.CanDispute(b.Status, role) {
		return nil, fmt.Errorf("role %s cannot dispute booking %s while %s: %w", role, b.BookingNumber, b.Status, domain.ErrForbidden)
	}

	prev := b.Status
	b.Status = domain.BookingStatusDisputed
	d := &domain.Dispute{
		BookingID:    b.ID,
		RaisedBy:     raisedBy,
		RaisedByRole: role,
		Reason:       reason,
		Description:  description,
		Evidence:     evidence,
		Status:       domain.DisputeStatusOpen,
	}
	entry := &domain.StatusLogEntry{
		BookingID:      b.ID,
		PreviousStatus: &prev,
		NewStatus:      domain.BookingStatusDisputed,
		ActionType:     domain.ActionDispute,
		Role:           role,
		Note:           reason,
	}

	// Dispute row and forced booking transition commit together or not
	// at all.
	if err := s.disputes.CreateWithTransition(ctx, d, b, entry); err != nil {
		metrics.IncTransitionFailure(failureReason(err))
		return nil, err
	}
	metrics.IncTransition(string(domain.BookingStatusDisputed))
	metrics.IncDispute("opened")
	logger.Info("dispute raised", "booking_number", b.BookingNumber, "dispute_id", d.ID, "raised_by_role", role)

	s.notifyCounterParty(ctx, b, role, func(email, name string) error {
		return s.emails.SendDisputeRaisedNotification(ctx, email, name, b.BookingNumber, reason)
	})
	return d, nil
}

func (s *disputeService) SubmitResponse(ctx context.Context, disputeID int64, role domain.Role, text string, evidence []string) (*domain.Dispute, error) {
	d, err := s.disputes.GetByID(ctx, disputeID)
	if err != nil {
		return nil, err
	}
	if role != domain.CounterParty(d.RaisedByRole) {
		return nil, fmt.Errorf("role %s is not the responding party: %w", role, domain.ErrForbidden)
	}
	if d.Status != domain.DisputeStatusOpen && d.Status != domain.DisputeStatusUnderReview {
		return nil, fmt.Errorf("dispute %d is %s: %w", d.ID, d.Status, domain.ErrInvalidState)
	}
	if d.RespondedOn != nil {
		return nil, fmt.Errorf("dispute %d: %w", d.ID, domain.ErrAlreadyResponded)
	}

	now := time.Now()
	d.ResponseText = text
	d.ResponseEvidence = evidence
	d.RespondedOn = &now
	if err := s.disputes.UpdateResponse(ctx, d); err != nil {
		return nil, err
	}
	metrics.IncDispute("responded")
	logger.Info("dispute response submitted", "dispute_id", d.ID, "role", role)
	return d, nil
}

func (s *disputeService) ResolveDispute(ctx context.Context, disputeID int64, role domain.Role, newStatus domain.DisputeStatus, tag domain.ResolutionTag, notes string, refundCents int64) (*domain.Dispute, error) {
	if role != domain.RoleAdmin {
		return nil, fmt.Errorf("only the arbitrator resolves disputes: %w", domain.ErrForbidden)
	}
	if !newStatus.Valid() {
		return nil, fmt.Errorf("unknown dispute status %q: %w", newStatus, domain.ErrInvalidState)
	}
	if !tag.Valid() {
		return nil, fmt.Errorf("unknown resolution tag %q: %w", tag, domain.ErrInvalidState)
	}
	d, err := s.disputes.GetByID(ctx, disputeID)
	if err != nil {
		return nil, err
	}
	// A final ruling is immutable: only open or under_review disputes can
	// be resolved.
	if d.Status != domain.DisputeStatusOpen && d.Status != domain.DisputeStatusUnderReview {
		return nil, fmt.Errorf("dispute %d is already %s: %w", d.ID, d.Status, domain.ErrInvalidState)
	}
	b, err := s.bookings.GetByID(ctx, d.BookingID)
	if err != nil {
		return nil, err
	}
	if refundCents < 0 || refundCents > b.TotalAmountCents {
		return nil, fmt.Errorf("refund of %d cents against total %d: %w", refundCents, b.TotalAmountCents, domain.ErrInvalidRefund)
	}

	d.Status = newStatus
	d.ResolutionTag = tag
	d.ResolutionNotes = notes
	d.RefundAmountCents = refundCents
	if newStatus == domain.DisputeStatusResolved || newStatus == domain.DisputeStatusClosed {
		now := time.Now()
		d.ResolvedOn = &now
	}

	target, forces := tag.TerminalOutcome()
	if !forces {
		if err := s.disputes.Resolve(ctx, d, nil, nil); err != nil {
			return nil, err
		}
		metrics.IncDispute("updated")
		return d, nil
	}

	// The forced escape edge out of disputed goes through the same table
	// validation as any other transition.
	if err := domain.ValidateTransition(b.Status, target, role); err != nil {
		return nil, fmt.Errorf("booking %s: forced %s -> %s: %w", b.BookingNumber, b.Status, target, err)
	}
	prev := b.Status
	b.Status = target
	if target == domain.BookingStatusCancelled {
		reason := notes
		if reason == "" {
			reason = "dispute resolved against the booking"
		}
		b.CancellationReason = reason
		b.CancelledBy = role
		if tag == domain.ResolutionFullRefund && b.PaymentStatus == domain.PaymentStatusConfirmed {
			b.PaymentStatus = domain.PaymentStatusRefunded
		}
	}
	entry := &domain.StatusLogEntry{
		BookingID:      b.ID,
		PreviousStatus: &prev,
		NewStatus:      target,
		ActionType:     domain.ActionDispute,
		Role:           role,
		Note:           notes,
	}
	if err := s.disputes.Resolve(ctx, d, b, entry); err != nil {
		metrics.IncTransitionFailure(failureReason(err))
		return nil, err
	}
	metrics.IncTransition(string(target))
	metrics.IncDispute("resolved")
	logger.Info("dispute resolved",
		"dispute_id", d.ID, "tag", tag, "refund_cents", refundCents, "booking_status", b.Status)

	for _, id := range []int64{b.ContractorID, b.OwnerID} {
		if p, err := s.parties.GetContact(ctx, id); err == nil {
			if err := s.emails.SendDisputeResolvedNotification(ctx, p.Email, p.Name, b.BookingNumber, tag, notes); err != nil {
				logger.Error("dispute resolution email failed", "dispute_id", d.ID, "error", err)
			}
		}
	}
	return d, nil
}

func (s *disputeService) GetDispute(ctx context.Context, disputeID, userID int64, role domain.Role) (*domain.Dispute, error) {
	d, err := s.disputes.GetByID(ctx, disputeID)
	if err != nil {
		return nil, err
	}
	if err := s.checkPartyAccess(ctx, d.BookingID, userID, role); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *disputeService) GetOpenDispute(ctx context.Context, bookingID, userID int64, role domain.Role) (*domain.Dispute, error) {
	if err := s.checkPartyAccess(ctx, bookingID, userID, role); err != nil {
		return nil, err
	}
	return s.disputes.GetOpenByBooking(ctx, bookingID)
}

// checkPartyAccess allows the admin and the parent booking's parties.
func (s *disputeService) checkPartyAccess(ctx context.Context, bookingID, userID int64, role domain.Role) error {
	if role == domain.RoleAdmin {
		return nil
	}
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return err
	}
	switch {
	case role == domain.RoleContractor && b.ContractorID == userID:
		return nil
	case role == domain.RoleOwner && b.OwnerID == userID:
		return nil
	}
	return fmt.Errorf("user %d (%s) is not a party to booking %d: %w", userID, role, bookingID, domain.ErrForbidden)
}

func (s *disputeService) notifyCounterParty(ctx context.Context, b *domain.Booking, actor domain.Role, send func(email, name string) error) {
	id := b.OwnerID
	if actor == domain.RoleOwner {
		id = b.ContractorID
	}
	p, err := s.parties.GetContact(ctx, id)
	if err != nil {
		logger.Error("party lookup failed", "party_id", id, "error", err)
		return
	}
	if err := send(p.Email, p.Name); err != nil {
		logger.Error("dispute email failed", "booking_number", b.BookingNumber, "error", err)
	}
}
