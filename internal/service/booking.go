package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"equiphire-backend/internal/domain"
	"equiphire-backend/internal/logger"
	"equiphire-backend/internal/metrics"
	"equiphire-backend/internal/repository"
	"equiphire-backend/internal/utils"

	"github.com/google/uuid"
)

const defaultCancellationReason = "cancelled without a stated reason"

type bookingService struct {
	bookings repository.BookingRepository
	logs     repository.StatusLogRepository
	parties  repository.PartyRepository
	emails   EmailService
}

func NewBookingService(
	bookings repository.BookingRepository,
	logs repository.StatusLogRepository,
	parties repository.PartyRepository,
	emails EmailService,
) BookingService {
	return &bookingService{
		bookings: bookings,
		logs:     logs,
		parties:  parties,
		emails:   emails,
	}
}

// edgeHook applies the side effects coupled to reaching a specific target
// status. Keyed by target so the engine's validate-mutate-log loop stays
// uniform. A hook may adjust the log note and veto the transition with a
// structural precondition error.
type edgeHook func(b *domain.Booking, role domain.Role, note string) (domain.ActionType, string, error)

var edgeHooks = map[domain.BookingStatus]edgeHook{
	domain.BookingStatusConfirmed: func(b *domain.Booking, role domain.Role, note string) (domain.ActionType, string, error) {
		if b.PaymentStatus != domain.PaymentStatusAwaitingVerification {
			return "", "", fmt.Errorf("payment for booking %s is not awaiting verification: %w", b.BookingNumber, domain.ErrInvalidState)
		}
		b.PaymentStatus = domain.PaymentStatusConfirmed
		b.OwnerPayoutCents = utils.OwnerPayoutCents(b.RentalAmountCents, b.PlatformFeeCents)
		if note == "" {
			note = "payment verified by owner"
		}
		return domain.ActionPaymentUpdate, note, nil
	},
	domain.BookingStatusCancelled: func(b *domain.Booking, role domain.Role, note string) (domain.ActionType, string, error) {
		// A cancelled booking always records who cancelled and why,
		// defaulting the reason rather than leaving it empty.
		if note == "" {
			note = defaultCancellationReason
		}
		b.CancellationReason = note
		b.CancelledBy = role
		return domain.ActionCancellation, note, nil
	},
	domain.BookingStatusDisputed: func(b *domain.Booking, role domain.Role, note string) (domain.ActionType, string, error) {
		return domain.ActionDispute, note, nil
	},
}

func (s *bookingService) CreateBooking(ctx context.Context, req CreateBookingRequest) (*domain.Booking, error) {
	days, err := utils.RentalDays(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}
	if req.DailyRateCents < 0 || req.DepositCents < 0 {
		return nil, fmt.Errorf("negative rate or deposit: %w", domain.ErrInvalidState)
	}

	costs := utils.ComputeCosts(req.DailyRateCents, days, req.DepositCents)

	b := &domain.Booking{
		BookingNumber:      newBookingNumber(),
		ContractorID:       req.ContractorID,
		OwnerID:            req.OwnerID,
		EquipmentID:        req.EquipmentID,
		StartDate:          req.StartDate,
		EndDate:            req.EndDate,
		Status:             domain.BookingStatusRequested,
		PaymentStatus:      domain.PaymentStatusPending,
		RentalAmountCents:  costs.RentalAmountCents,
		PlatformFeeCents:   costs.PlatformFeeCents,
		VATAmountCents:     costs.VATAmountCents,
		DepositAmountCents: costs.DepositAmountCents,
		TotalAmountCents:   costs.TotalAmountCents,
		Version:            1,
	}
	entry := &domain.StatusLogEntry{
		NewStatus:  domain.BookingStatusRequested,
		ActionType: domain.ActionStatusChange,
		Role:       domain.RoleContractor,
		Note:       req.Note,
	}

	if err := s.bookings.Create(ctx, b, entry); err != nil {
		return nil, err
	}
	metrics.IncTransition(string(domain.BookingStatusRequested))
	logger.Info("booking created", "booking_number", b.BookingNumber, "contractor_id", b.ContractorID, "owner_id", b.OwnerID)

	if owner, err := s.parties.GetContact(ctx, b.OwnerID); err == nil {
		if err := s.emails.SendBookingRequestedNotification(ctx, owner.Email, owner.Name, b.BookingNumber, b.StartDate, b.EndDate); err != nil {
			logger.Error("booking request email failed", "booking_number", b.BookingNumber, "error", err)
		}
	}
	return b, nil
}

func (s *bookingService) RequestTransition(ctx context.Context, bookingID int64, target domain.BookingStatus, role domain.Role, note string) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if err := domain.ValidateTransition(b.Status, target, role); err != nil {
		metrics.IncTransitionFailure(failureReason(err))
		return nil, fmt.Errorf("booking %s: %s -> %s as %s: %w", b.BookingNumber, b.Status, target, role, err)
	}

	prev := b.Status
	b.Status = target
	action := domain.ActionStatusChange
	if hook, ok := edgeHooks[target]; ok {
		action, note, err = hook(b, role, note)
		if err != nil {
			metrics.IncTransitionFailure(failureReason(err))
			return nil, err
		}
	}

	entry := &domain.StatusLogEntry{
		BookingID:      b.ID,
		PreviousStatus: &prev,
		NewStatus:      target,
		ActionType:     action,
		Role:           role,
		Note:           note,
	}
	if err := s.bookings.ApplyTransition(ctx, b, entry); err != nil {
		metrics.IncTransitionFailure(failureReason(err))
		return nil, err
	}

	metrics.IncTransition(string(target))
	logger.Info("booking transitioned",
		"booking_number", b.BookingNumber, "from", prev, "to", target, "role", role)

	s.notifyTransition(ctx, b, role, note)
	return b, nil
}

func (s *bookingService) CanTransition(b *domain.Booking, target domain.BookingStatus, role domain.Role) bool {
	return domain.CanTransition(b.Status, target, role)
}

func (s *bookingService) MarkPaymentMade(ctx context.Context, bookingID int64, role domain.Role, note string) (*domain.Booking, error) {
	if role != domain.RoleContractor {
		return nil, fmt.Errorf("only the contractor may mark payment made: %w", domain.ErrForbidden)
	}
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.Status != domain.BookingStatusPendingPayment || b.PaymentStatus != domain.PaymentStatusPending {
		return nil, fmt.Errorf("booking %s is not awaiting a payment: %w", b.BookingNumber, domain.ErrInvalidState)
	}

	// Status is unchanged; only the payment sub-state moves. The log
	// entry still records the atomic payment_update.
	prev := b.Status
	b.PaymentStatus = domain.PaymentStatusAwaitingVerification
	if note == "" {
		note = "payment marked as made by contractor"
	}
	entry := &domain.StatusLogEntry{
		BookingID:      b.ID,
		PreviousStatus: &prev,
		NewStatus:      b.Status,
		ActionType:     domain.ActionPaymentUpdate,
		Role:           role,
		Note:           note,
	}
	if err := s.bookings.ApplyTransition(ctx, b, entry); err != nil {
		metrics.IncTransitionFailure(failureReason(err))
		return nil, err
	}
	logger.Info("payment marked as made", "booking_number", b.BookingNumber)

	if owner, err := s.parties.GetContact(ctx, b.OwnerID); err == nil {
		if err := s.emails.SendBookingStatusNotification(ctx, owner.Email, owner.Name, b.BookingNumber, b.Status, note); err != nil {
			logger.Error("payment notification email failed", "booking_number", b.BookingNumber, "error", err)
		}
	}
	return b, nil
}

func (s *bookingService) GetBooking(ctx context.Context, bookingID int64) (*domain.Booking, error) {
	return s.bookings.GetByID(ctx, bookingID)
}

func (s *bookingService) GetBookingByNumber(ctx context.Context, number string) (*domain.Booking, error) {
	return s.bookings.GetByNumber(ctx, number)
}

func (s *bookingService) ListByContractor(ctx context.Context, contractorID int64, status string, page, pageSize int32) ([]domain.Booking, int32, error) {
	return s.bookings.ListByContractor(ctx, contractorID, status, page, pageSize)
}

func (s *bookingService) ListByOwner(ctx context.Context, ownerID int64, status string, page, pageSize int32) ([]domain.Booking, int32, error) {
	return s.bookings.ListByOwner(ctx, ownerID, status, page, pageSize)
}

func (s *bookingService) GetStatusHistory(ctx context.Context, bookingID int64) ([]domain.StatusLogEntry, error) {
	if _, err := s.bookings.GetByID(ctx, bookingID); err != nil {
		return nil, err
	}
	return s.logs.ListByBooking(ctx, bookingID)
}

func (s *bookingService) GetProgress(ctx context.Context, bookingID int64) ([]domain.Stage, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	history, err := s.logs.ListByBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	return domain.Project(b.Status, history), nil
}

func (s *bookingService) UpdateNotes(ctx context.Context, bookingID int64, role domain.Role, notes string) error {
	if role != domain.RoleContractor && role != domain.RoleOwner {
		return fmt.Errorf("only booking parties keep notes: %w", domain.ErrForbidden)
	}
	return s.bookings.UpdateNotes(ctx, bookingID, role, notes)
}

func (s *bookingService) MarkReturnsDue(ctx context.Context, asOf string) (int, error) {
	due, err := s.bookings.ListReturnsDue(ctx, asOf)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, b := range due {
		// Each booking goes through the engine like any other caller;
		// a lost optimistic-concurrency race just skips this one.
		if _, err := s.RequestTransition(ctx, b.ID, domain.BookingStatusReturnDue, domain.RoleSystem, "rental period ended"); err != nil {
			logger.Error("return-due sweep failed for booking", "booking_id", b.ID, "error", err)
			continue
		}
		count++
	}
	return count, nil
}

// notifyTransition emails the counter-party of the acting role. Best
// effort: failures are logged, never surfaced.
func (s *bookingService) notifyTransition(ctx context.Context, b *domain.Booking, actor domain.Role, note string) {
	var recipients []int64
	switch actor {
	case domain.RoleOwner:
		recipients = []int64{b.ContractorID}
	case domain.RoleContractor:
		recipients = []int64{b.OwnerID}
	default:
		recipients = []int64{b.ContractorID, b.OwnerID}
	}

	for _, id := range recipients {
		p, err := s.parties.GetContact(ctx, id)
		if err != nil {
			logger.Error("party lookup failed", "party_id", id, "error", err)
			continue
		}
		if err := s.emails.SendBookingStatusNotification(ctx, p.Email, p.Name, b.BookingNumber, b.Status, note); err != nil {
			logger.Error("status notification email failed", "booking_number", b.BookingNumber, "error", err)
		}
	}
}

func newBookingNumber() string {
	return "EH-" + strings.ToUpper(uuid.NewString()[:8])
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidTransition):
		return "invalid_transition"
	case errors.Is(err, domain.ErrForbidden):
		return "forbidden"
	case errors.Is(err, domain.ErrInvalidState):
		return "invalid_state"
	case errors.Is(err, domain.ErrConcurrentModification):
		return "concurrent_modification"
	default:
		return "internal"
	}
}
