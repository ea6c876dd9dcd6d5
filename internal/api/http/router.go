package http

import (
	"net/http"

	"equiphire-backend/internal/security"
	"equiphire-backend/internal/service"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter assembles the HTTP surface over the lifecycle core.
func NewRouter(bookings service.BookingService, disputes service.DisputeService, tokens security.TokenManager) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	bh := NewBookingHandler(bookings)
	dh := NewDisputeHandler(disputes)
	auth := NewAuthMiddleware(tokens)

	v1 := r.PathPrefix("/v1").Subrouter()
	v1.Use(auth.Handler)

	v1.HandleFunc("/bookings", bh.Create).Methods(http.MethodPost)
	v1.HandleFunc("/bookings", bh.List).Methods(http.MethodGet)
	v1.HandleFunc("/bookings/{id:[0-9]+}", bh.Get).Methods(http.MethodGet)
	v1.HandleFunc("/bookings/number/{number}", bh.GetByNumber).Methods(http.MethodGet)
	v1.HandleFunc("/bookings/{id:[0-9]+}/transition", bh.Transition).Methods(http.MethodPost)
	v1.HandleFunc("/bookings/{id:[0-9]+}/actions", bh.Actions).Methods(http.MethodGet)
	v1.HandleFunc("/bookings/{id:[0-9]+}/payment", bh.MarkPayment).Methods(http.MethodPost)
	v1.HandleFunc("/bookings/{id:[0-9]+}/history", bh.History).Methods(http.MethodGet)
	v1.HandleFunc("/bookings/{id:[0-9]+}/progress", bh.Progress).Methods(http.MethodGet)
	v1.HandleFunc("/bookings/{id:[0-9]+}/notes", bh.UpdateNotes).Methods(http.MethodPut)

	v1.HandleFunc("/bookings/{id:[0-9]+}/disputes", dh.Raise).Methods(http.MethodPost)
	v1.HandleFunc("/bookings/{id:[0-9]+}/disputes", dh.GetOpenForBooking).Methods(http.MethodGet)
	v1.HandleFunc("/disputes/{id:[0-9]+}", dh.Get).Methods(http.MethodGet)
	v1.HandleFunc("/disputes/{id:[0-9]+}/response", dh.Respond).Methods(http.MethodPost)
	v1.HandleFunc("/disputes/{id:[0-9]+}/resolution", dh.Resolve).Methods(http.MethodPost)

	return r
}
