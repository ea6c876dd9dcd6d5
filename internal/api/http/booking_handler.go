package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"equiphire-backend/internal/domain"
	"equiphire-backend/internal/service"

	"github.com/gorilla/mux"
)

type BookingHandler struct {
	svc service.BookingService
}

func NewBookingHandler(svc service.BookingService) *BookingHandler {
	return &BookingHandler{svc: svc}
}

type createBookingRequest struct {
	OwnerID        int64  `json:"owner_id"`
	EquipmentID    int64  `json:"equipment_id"`
	StartDate      string `json:"start_date"`
	EndDate        string `json:"end_date"`
	DailyRateCents int64  `json:"daily_rate_cents"`
	DepositCents   int64  `json:"deposit_cents"`
	Note           string `json:"note"`
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFrom(r.Context())
	if !ok || claims.Role != domain.RoleContractor {
		writeJSON(w, http.StatusForbidden, errorBody{Error: "only contractors create bookings"})
		return
	}

	var req createBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body"})
		return
	}

	b, err := h.svc.CreateBooking(r.Context(), service.CreateBookingRequest{
		ContractorID:   claims.UserID,
		OwnerID:        req.OwnerID,
		EquipmentID:    req.EquipmentID,
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
		DailyRateCents: req.DailyRateCents,
		DepositCents:   req.DepositCents,
		Note:           req.Note,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, b)
}

func (h *BookingHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims, id, ok := h.bookingRequest(w, r)
	if !ok {
		return
	}
	b, err := h.svc.GetBooking(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if !mayView(claims.Role, claims.UserID, b) {
		writeJSON(w, http.StatusForbidden, errorBody{Error: "not a party to this booking"})
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (h *BookingHandler) GetByNumber(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFrom(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: "missing claims"})
		return
	}
	b, err := h.svc.GetBookingByNumber(r.Context(), mux.Vars(r)["number"])
	if err != nil {
		writeError(w, err)
		return
	}
	if !mayView(claims.Role, claims.UserID, b) {
		writeJSON(w, http.StatusForbidden, errorBody{Error: "not a party to this booking"})
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFrom(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: "missing claims"})
		return
	}
	status := r.URL.Query().Get("status")
	page := queryInt32(r, "page", 1)
	pageSize := queryInt32(r, "page_size", 20)

	var (
		bookings []domain.Booking
		total    int32
		err      error
	)
	switch claims.Role {
	case domain.RoleContractor:
		bookings, total, err = h.svc.ListByContractor(r.Context(), claims.UserID, status, page, pageSize)
	case domain.RoleOwner:
		bookings, total, err = h.svc.ListByOwner(r.Context(), claims.UserID, status, page, pageSize)
	default:
		writeJSON(w, http.StatusForbidden, errorBody{Error: "listing requires a party role"})
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"bookings": bookings,
		"total":    total,
		"page":     page,
	})
}

type transitionRequest struct {
	Target string `json:"target"`
	Note   string `json:"note"`
}

func (h *BookingHandler) Transition(w http.ResponseWriter, r *http.Request) {
	claims, id, ok := h.bookingRequest(w, r)
	if !ok {
		return
	}
	var req transitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body"})
		return
	}
	b, err := h.svc.RequestTransition(r.Context(), id, domain.BookingStatus(req.Target), claims.Role, req.Note)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

// Actions returns the targets the calling role may move the booking to,
// so clients can decide which buttons to render. Backed by the same table
// as the transition endpoint.
func (h *BookingHandler) Actions(w http.ResponseWriter, r *http.Request) {
	claims, id, ok := h.bookingRequest(w, r)
	if !ok {
		return
	}
	b, err := h.svc.GetBooking(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	targets := domain.AllowedTargets(b.Status, claims.Role)
	if targets == nil {
		targets = []domain.BookingStatus{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"targets": targets})
}

type paymentRequest struct {
	Note string `json:"note"`
}

func (h *BookingHandler) MarkPayment(w http.ResponseWriter, r *http.Request) {
	claims, id, ok := h.bookingRequest(w, r)
	if !ok {
		return
	}
	var req paymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body"})
		return
	}
	b, err := h.svc.MarkPaymentMade(r.Context(), id, claims.Role, req.Note)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (h *BookingHandler) History(w http.ResponseWriter, r *http.Request) {
	_, id, ok := h.bookingRequest(w, r)
	if !ok {
		return
	}
	entries, err := h.svc.GetStatusHistory(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if entries == nil {
		entries = []domain.StatusLogEntry{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"history": entries})
}

func (h *BookingHandler) Progress(w http.ResponseWriter, r *http.Request) {
	_, id, ok := h.bookingRequest(w, r)
	if !ok {
		return
	}
	stages, err := h.svc.GetProgress(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"stages": stages})
}

type notesRequest struct {
	Notes string `json:"notes"`
}

func (h *BookingHandler) UpdateNotes(w http.ResponseWriter, r *http.Request) {
	claims, id, ok := h.bookingRequest(w, r)
	if !ok {
		return
	}
	var req notesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body"})
		return
	}
	if err := h.svc.UpdateNotes(r.Context(), id, claims.Role, req.Notes); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

// bookingRequest extracts claims and the booking id path variable.
func (h *BookingHandler) bookingRequest(w http.ResponseWriter, r *http.Request) (claims claimsOut, id int64, ok bool) {
	c, found := ClaimsFrom(r.Context())
	if !found {
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: "missing claims"})
		return claimsOut{}, 0, false
	}
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid booking id"})
		return claimsOut{}, 0, false
	}
	return claimsOut{UserID: c.UserID, Role: c.Role}, id, true
}

type claimsOut struct {
	UserID int64
	Role   domain.Role
}

func mayView(role domain.Role, userID int64, b *domain.Booking) bool {
	switch role {
	case domain.RoleAdmin:
		return true
	case domain.RoleContractor:
		return b.ContractorID == userID
	case domain.RoleOwner:
		return b.OwnerID == userID
	}
	return false
}

func queryInt32(r *http.Request, key string, def int32) int32 {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 32)
	if err != nil || n < 1 {
		return def
	}
	return int32(n)
}
