package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"equiphire-backend/internal/domain"
)

// memStore is an in-memory stand-in for the postgres store with the same
// transactional semantics: version-checked transition writes, and
// all-or-nothing dispute creation. Error injection hooks let tests simulate
// mid-transaction failures.
type memStore struct {
	mu       sync.Mutex
	bookings map[int64]*domain.Booking
	logs     []domain.StatusLogEntry
	disputes map[int64]*domain.Dispute

	nextBookingID int64
	nextDisputeID int64
	nextLogID     int64

	failApplyTransition error
}

func newMemStore() *memStore {
	return &memStore{
		bookings: make(map[int64]*domain.Booking),
		disputes: make(map[int64]*domain.Dispute),
	}
}

func copyBooking(b *domain.Booking) *domain.Booking {
	c := *b
	return &c
}

func (s *memStore) Create(ctx context.Context, b *domain.Booking, entry *domain.StatusLogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextBookingID++
	b.ID = s.nextBookingID
	b.CreatedOn = time.Now()
	b.UpdatedOn = b.CreatedOn
	s.bookings[b.ID] = copyBooking(b)
	entry.BookingID = b.ID
	s.appendLogLocked(entry)
	return nil
}

func (s *memStore) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return copyBooking(b), nil
}

func (s *memStore) GetByNumber(ctx context.Context, number string) (*domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.bookings {
		if b.BookingNumber == number {
			return copyBooking(b), nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *memStore) ApplyTransition(ctx context.Context, b *domain.Booking, entry *domain.StatusLogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applyTransitionLocked(b, entry)
}

func (s *memStore) applyTransitionLocked(b *domain.Booking, entry *domain.StatusLogEntry) error {
	if s.failApplyTransition != nil {
		return s.failApplyTransition
	}
	stored, ok := s.bookings[b.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if stored.Version != b.Version {
		return domain.ErrConcurrentModification
	}
	b.Version++
	b.UpdatedOn = time.Now()
	s.bookings[b.ID] = copyBooking(b)
	s.appendLogLocked(entry)
	return nil
}

func (s *memStore) appendLogLocked(entry *domain.StatusLogEntry) {
	s.nextLogID++
	entry.ID = s.nextLogID
	// Strictly increasing timestamps keep history ordering deterministic.
	entry.CreatedOn = time.Unix(s.nextLogID, 0)
	s.logs = append(s.logs, *entry)
}

func (s *memStore) UpdateNotes(ctx context.Context, id int64, role domain.Role, notes string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok {
		return domain.ErrNotFound
	}
	if role == domain.RoleOwner {
		b.OwnerNotes = notes
	} else {
		b.ContractorNotes = notes
	}
	return nil
}

func (s *memStore) ListByContractor(ctx context.Context, contractorID int64, status string, page, pageSize int32) ([]domain.Booking, int32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Booking
	for _, b := range s.bookings {
		if b.ContractorID == contractorID && (status == "" || string(b.Status) == status) {
			out = append(out, *b)
		}
	}
	return out, int32(len(out)), nil
}

func (s *memStore) ListByOwner(ctx context.Context, ownerID int64, status string, page, pageSize int32) ([]domain.Booking, int32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Booking
	for _, b := range s.bookings {
		if b.OwnerID == ownerID && (status == "" || string(b.Status) == status) {
			out = append(out, *b)
		}
	}
	return out, int32(len(out)), nil
}

func (s *memStore) ListReturnsDue(ctx context.Context, asOf string) ([]domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Booking
	for _, b := range s.bookings {
		if b.Status == domain.BookingStatusOnHire && b.EndDate < asOf {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (s *memStore) ListByBooking(ctx context.Context, bookingID int64) ([]domain.StatusLogEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.StatusLogEntry
	for _, e := range s.logs {
		if e.BookingID == bookingID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *memStore) CreateWithTransition(ctx context.Context, d *domain.Dispute, b *domain.Booking, entry *domain.StatusLogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	// The booking transition is the part that can fail; nothing is
	// stored unless it succeeds.
	if err := s.applyTransitionLocked(b, entry); err != nil {
		return err
	}
	s.nextDisputeID++
	d.ID = s.nextDisputeID
	d.CreatedOn = time.Now()
	d.UpdatedOn = d.CreatedOn
	dc := *d
	s.disputes[d.ID] = &dc
	return nil
}

func (s *memStore) GetDisputeByID(ctx context.Context, id int64) (*domain.Dispute, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.disputes[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	dc := *d
	return &dc, nil
}

func (s *memStore) GetOpenByBooking(ctx context.Context, bookingID int64) (*domain.Dispute, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range s.disputes {
		if d.BookingID == bookingID && (d.Status == domain.DisputeStatusOpen || d.Status == domain.DisputeStatusUnderReview) {
			dc := *d
			return &dc, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *memStore) UpdateResponse(ctx context.Context, d *domain.Dispute) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.disputes[d.ID]; !ok {
		return domain.ErrNotFound
	}
	dc := *d
	s.disputes[d.ID] = &dc
	return nil
}

func (s *memStore) Resolve(ctx context.Context, d *domain.Dispute, b *domain.Booking, entry *domain.StatusLogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.disputes[d.ID]; !ok {
		return domain.ErrNotFound
	}
	if b != nil && entry != nil {
		if err := s.applyTransitionLocked(b, entry); err != nil {
			return err
		}
	}
	dc := *d
	s.disputes[d.ID] = &dc
	return nil
}

// disputeRepo adapts memStore to the DisputeRepository interface, whose
// GetByID collides with the booking repo's method name.
type disputeRepo struct {
	*memStore
}

func (r disputeRepo) GetByID(ctx context.Context, id int64) (*domain.Dispute, error) {
	return r.GetDisputeByID(ctx, id)
}

// stubParties resolves every id to a synthetic contact.
type stubParties struct{}

func (stubParties) GetContact(ctx context.Context, id int64) (*domain.Party, error) {
	return &domain.Party{ID: id, Name: fmt.Sprintf("Party %d", id), Email: fmt.Sprintf("party%d@example.com", id)}, nil
}

// recorderEmail records sent notifications instead of delivering them.
type recorderEmail struct {
	mu   sync.Mutex
	sent []string
}

func (e *recorderEmail) record(kind string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sent = append(e.sent, kind)
	return nil
}

func (e *recorderEmail) SendBookingRequestedNotification(ctx context.Context, email, name, bookingNumber, startDate, endDate string) error {
	return e.record("requested")
}

func (e *recorderEmail) SendBookingStatusNotification(ctx context.Context, email, name, bookingNumber string, status domain.BookingStatus, note string) error {
	return e.record("status:" + string(status))
}

func (e *recorderEmail) SendDisputeRaisedNotification(ctx context.Context, email, name, bookingNumber, reason string) error {
	return e.record("dispute_raised")
}

func (e *recorderEmail) SendDisputeResolvedNotification(ctx context.Context, email, name, bookingNumber string, tag domain.ResolutionTag, notes string) error {
	return e.record("dispute_resolved")
}
