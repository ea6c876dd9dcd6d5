package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"equiphire-backend/internal/domain"
	"equiphire-backend/internal/service"

	"github.com/gorilla/mux"
)

type DisputeHandler struct {
	svc service.DisputeService
}

func NewDisputeHandler(svc service.DisputeService) *DisputeHandler {
	return &DisputeHandler{svc: svc}
}

type raiseDisputeRequest struct {
	Reason      string   `json:"reason"`
	Description string   `json:"description"`
	Evidence    []string `json:"evidence"`
}

func (h *DisputeHandler) Raise(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFrom(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: "missing claims"})
		return
	}
	bookingID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid booking id"})
		return
	}
	var req raiseDisputeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body"})
		return
	}
	if req.Reason == "" {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "reason is required"})
		return
	}

	d, err := h.svc.RaiseDispute(r.Context(), bookingID, claims.UserID, claims.Role, req.Reason, req.Description, req.Evidence)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, d)
}

// GetOpenForBooking returns the booking's unresolved dispute.
func (h *DisputeHandler) GetOpenForBooking(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFrom(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: "missing claims"})
		return
	}
	bookingID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid booking id"})
		return
	}
	d, err := h.svc.GetOpenDispute(r.Context(), bookingID, claims.UserID, claims.Role)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (h *DisputeHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFrom(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: "missing claims"})
		return
	}
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid dispute id"})
		return
	}
	d, err := h.svc.GetDispute(r.Context(), id, claims.UserID, claims.Role)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

type disputeResponseRequest struct {
	Text     string   `json:"text"`
	Evidence []string `json:"evidence"`
}

func (h *DisputeHandler) Respond(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFrom(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: "missing claims"})
		return
	}
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid dispute id"})
		return
	}
	var req disputeResponseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body"})
		return
	}

	d, err := h.svc.SubmitResponse(r.Context(), id, claims.Role, req.Text, req.Evidence)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

type resolveDisputeRequest struct {
	Status      string `json:"status"`
	Tag         string `json:"resolution_tag"`
	Notes       string `json:"notes"`
	RefundCents int64  `json:"refund_amount_cents"`
}

func (h *DisputeHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFrom(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: "missing claims"})
		return
	}
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid dispute id"})
		return
	}
	var req resolveDisputeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body"})
		return
	}

	d, err := h.svc.ResolveDispute(r.Context(), id, claims.Role,
		domain.DisputeStatus(req.Status), domain.ResolutionTag(req.Tag), req.Notes, req.RefundCents)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}
