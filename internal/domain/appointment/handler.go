package appointment

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/frizerski/booking-api/internal/domain/schedule"
	"github.com/frizerski/booking-api/internal/pkg/errorhandler"
	"github.com/frizerski/booking-api/internal/pkg/response"
	"github.com/frizerski/booking-api/internal/pkg/validator"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// Handler handles appointment HTTP requests
type Handler struct {
	service  *Service
	hub      *Hub
	upgrader websocket.Upgrader
}

// NewHandler creates appointment handler; hub may be nil when live updates are off
func NewHandler(service *Service, hub *Hub, allowedOrigins []string) *Handler {
	return &Handler{
		service: service,
		hub:     hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if len(allowedOrigins) == 0 || origin == "" {
					return true
				}
				for _, allowed := range allowedOrigins {
					if origin == allowed {
						return true
					}
				}
				log.Warn().Str("origin", origin).Msg("WebSocket origin rejected")
				return false
			},
		},
	}
}

// AvailableSlots handles GET /appointments/available-slots?serviceId&stylistId&date
func (h *Handler) AvailableSlots(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	fields := map[string]string{}

	serviceID := queryID(q.Get("serviceId"), "serviceId", fields)
	rawStylist := q.Get("stylistId")
	if rawStylist == "" {
		rawStylist = q.Get("frizerId")
	}
	stylistID := queryID(rawStylist, "stylistId", fields)
	date := q.Get("date")
	if date == "" {
		fields["date"] = "date is required"
	}
	if len(fields) > 0 {
		response.ValidationError(w, fields)
		return
	}

	avail, err := h.service.AvailableSlots(r.Context(), stylistID, serviceID, date)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.OK(w, avail)
}

// Create handles POST /appointments
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeBooking(w, r)
	if !ok {
		return
	}

	d, err := h.service.Create(r.Context(), req.Input())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.Created(w, ResponseFromDetailed(d))
}

// Update handles PUT /appointments/{id} (admin)
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	req, ok := decodeBooking(w, r)
	if !ok {
		return
	}

	d, err := h.service.Update(r.Context(), id, req.Input())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.OK(w, ResponseFromDetailed(d))
}

// Delete handles DELETE /appointments/{id} (admin)
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	response.OK(w, true)
}

// List handles GET /appointments
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.List(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.OK(w, ListResponse(items))
}

// Get handles GET /appointments/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	d, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.OK(w, ResponseFromDetailed(d))
}

// ListByDate handles GET /appointments/date/{date}[?stylistId=]
func (h *Handler) ListByDate(w http.ResponseWriter, r *http.Request) {
	var stylistID int64
	if raw := r.URL.Query().Get("stylistId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			response.BadRequest(w, "Invalid stylistId")
			return
		}
		stylistID = id
	}

	items, err := h.service.ListByDate(r.Context(), chi.URLParam(r, "date"), stylistID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.OK(w, ListResponse(items))
}

// WebSocket handles WS /ws/availability?stylistId&date
func (h *Handler) WebSocket(w http.ResponseWriter, r *http.Request) {
	if h.hub == nil {
		response.ServiceUnavailable(w, "Live availability is disabled")
		return
	}

	q := r.URL.Query()
	stylistID, err := strconv.ParseInt(q.Get("stylistId"), 10, 64)
	if err != nil || stylistID <= 0 {
		response.BadRequest(w, "Invalid stylistId")
		return
	}
	date := q.Get("date")
	if _, err := schedule.ParseDate(date); err != nil {
		response.BadRequest(w, "Invalid date")
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	client := &Client{
		StylistID: stylistID,
		Date:      date,
		Conn:      conn,
		Send:      make(chan []byte, 16),
	}
	h.hub.Register(client)

	go h.wsReader(client)
	go h.wsWriter(client)
}

// wsReader only keeps the connection alive; clients never send commands
func (h *Handler) wsReader(client *Client) {
	defer func() {
		h.hub.Unregister(client)
		client.Conn.Close()
	}()

	client.Conn.SetReadLimit(maxMessageSize)
	client.Conn.SetReadDeadline(time.Now().Add(pongWait))
	client.Conn.SetPongHandler(func(string) error {
		client.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := client.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Debug().Err(err).Int64("stylist_id", client.StylistID).Msg("WebSocket read error")
			}
			return
		}
	}
}

func (h *Handler) wsWriter(client *Client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		client.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-client.Send:
			client.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				client.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := client.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			client.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := client.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	var verr *ValidationError
	var serr *StorageError

	switch {
	case errors.As(err, &verr):
		response.ValidationError(w, verr.Fields)
	case errors.Is(err, ErrAppointmentNotFound):
		response.NotFound(w, "Appointment not found")
	case errors.Is(err, ErrStylistNotFound):
		response.NotFound(w, "Stylist not found")
	case errors.Is(err, ErrServiceNotFound):
		response.NotFound(w, "Service not found")
	case errors.Is(err, ErrSlotUnavailable):
		response.SlotUnavailable(w, "The selected time is no longer available, please pick another slot")
	case errors.As(err, &serr):
		errorhandler.LogDatabaseError(r.Context(), serr.Op, serr.Err)
		response.InternalError(w)
	default:
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "INTERNAL_ERROR", "Appointment request failed", err)
	}
}

func decodeBooking(w http.ResponseWriter, r *http.Request) (*BookingRequest, bool) {
	var req BookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return nil, false
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return nil, false
	}
	return &req, true
}

func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(w, "Invalid appointment ID")
		return 0, false
	}
	return id, true
}

func queryID(raw, field string, fields map[string]string) int64 {
	if raw == "" {
		fields[field] = field + " is required"
		return 0
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		fields[field] = field + " must be a positive integer"
		return 0
	}
	return id
}
