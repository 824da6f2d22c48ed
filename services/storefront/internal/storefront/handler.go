package storefront

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/aquamarinepk/aqm"
	"github.com/aquamarinepk/aqm/telemetry"
	"github.com/go-chi/chi/v5"

	"github.com/appetiteclub/dinner/services/storefront/internal/backend"
	"github.com/appetiteclub/dinner/services/storefront/internal/deliverytime"
	"github.com/appetiteclub/dinner/services/storefront/internal/hint"
	"github.com/appetiteclub/dinner/services/storefront/internal/revision"
	"github.com/appetiteclub/dinner/services/storefront/internal/voice"
)

const (
	MaxBodyBytes  = 1 << 20
	MaxAudioBytes = voice.MaxRecordingBytes

	messageLoginRequired = "로그인이 필요합니다."
	messageNoSession     = "음성 주문 세션을 찾을 수 없습니다."
	messageBusy          = "이전 요청을 처리 중입니다. 잠시 후 다시 시도해주세요."
	messageEmpty         = "메시지를 입력해주세요."
	messageNotRecording  = "녹음 중이 아닙니다."
	messageRecording     = "이미 녹음 중입니다."
	messageTooLong       = "녹음이 너무 깁니다. 녹음을 마치고 다시 시도해주세요."
	messageNotEditable   = "접수 대기 상태의 주문만 수정하거나 취소할 수 있습니다."
	messageStyleInvalid  = "샴페인 축제 디너는 심플 스타일을 선택할 수 없습니다."
	messageUnknownItem   = "주문에 없는 메뉴입니다."
	messageConfirmCancel = "주문을 취소하시겠습니까?"
	messageOrderNotFound = "주문을 찾을 수 없습니다."
	messageBackendFailed = "서버와 통신 중 오류가 발생했습니다."
)

type ProfileSource interface {
	GetProfile(ctx context.Context) (*backend.Customer, error)
}

type HandlerDeps struct {
	Sessions *voice.Registry
	Profiles ProfileSource
	Orders   *revision.Updater
	Hints    hint.Store
	Audit    *AuditLogger
}

type Handler struct {
	sessions *voice.Registry
	profiles ProfileSource
	orders   *revision.Updater
	hints    hint.Store
	audit    *AuditLogger
	logger   aqm.Logger
	config   *aqm.Config
	tlm      *telemetry.HTTP
	now      func() time.Time
}

func NewHandler(hd HandlerDeps, config *aqm.Config, logger aqm.Logger) *Handler {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}
	return &Handler{
		sessions: hd.Sessions,
		profiles: hd.Profiles,
		orders:   hd.Orders,
		hints:    hd.Hints,
		audit:    hd.Audit,
		logger:   logger,
		config:   config,
		tlm:      telemetry.NewHTTP(),
		now:      time.Now,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/voice/sessions", func(r chi.Router) {
		r.Post("/", h.StartSession)
		r.Get("/{id}", h.GetSession)
		r.Delete("/{id}", h.CloseSession)
		r.Post("/{id}/reset", h.ResetSession)
		r.Post("/{id}/messages", h.SendMessage)
		r.Post("/{id}/confirm", h.ConfirmOrder)
		r.Post("/{id}/recording", h.StartRecording)
		r.Put("/{id}/recording", h.AppendAudio)
		r.Delete("/{id}/recording", h.StopRecording)
		r.Delete("/{id}/speech/{seq}", h.SpeechPlayed)
	})

	r.Route("/orders/{id}", func(r chi.Router) {
		r.Get("/", h.GetOrder)
		r.Post("/revisions/preview", h.PreviewRevision)
		r.Put("/revisions", h.ReviseOrder)
		r.Post("/cancel", h.CancelOrder)
		r.Get("/modifications", h.ListModifications)
	})

	r.Get("/checkout/hint", h.TakeHint)
}

func (h *Handler) log(r *http.Request) aqm.Logger {
	return h.logger.With("request_id", aqm.RequestIDFrom(r.Context()))
}

// Voice sessions

type messageRequest struct {
	Text string `json:"text"`
}

type confirmRequest struct {
	Message string `json:"message"`
}

func (h *Handler) StartSession(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.StartSession")
	defer finish()

	log := h.log(r)
	ctx, owner, ok := h.authorize(w, r)
	if !ok {
		return
	}

	customer := voice.Customer{Owner: owner}
	if h.profiles != nil {
		profile, err := h.profiles.GetProfile(ctx)
		if err != nil {
			log.Info("cannot load customer profile, greeting without name", "error", err)
		} else if profile != nil {
			customer.ID = profile.ID
			customer.Name = profile.Name
		}
	}

	s, err := h.sessions.Create(ctx, customer)
	if err != nil {
		log.Error("cannot open voice session", "error", err)
		aqm.RespondError(w, http.StatusInternalServerError, voice.MessageSendFailed)
		return
	}

	w.WriteHeader(http.StatusCreated)
	aqm.RespondSuccess(w, s.State())
}

func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.GetSession")
	defer finish()

	_, s, ok := h.session(w, r)
	if !ok {
		return
	}
	aqm.RespondSuccess(w, s.State())
}

func (h *Handler) CloseSession(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.CloseSession")
	defer finish()

	_, owner, ok := h.authorize(w, r)
	if !ok {
		return
	}
	if err := h.sessions.Remove(chi.URLParam(r, "id"), owner); err != nil {
		h.respondSessionError(w, h.log(r), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ResetSession(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ResetSession")
	defer finish()

	ctx, s, ok := h.session(w, r)
	if !ok {
		return
	}
	if err := s.Reset(ctx); err != nil {
		h.respondSessionError(w, h.log(r), err)
		return
	}
	aqm.RespondSuccess(w, s.State())
}

func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.SendMessage")
	defer finish()

	log := h.log(r)
	ctx, s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req messageRequest
	if !h.decode(w, r, log, &req) {
		return
	}

	turn, err := s.SendUtterance(ctx, req.Text)
	if err != nil {
		h.respondSessionError(w, log, err)
		return
	}
	aqm.RespondSuccess(w, turn)
}

func (h *Handler) ConfirmOrder(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ConfirmOrder")
	defer finish()

	log := h.log(r)
	ctx, s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req confirmRequest
	if r.ContentLength != 0 && !h.decode(w, r, log, &req) {
		return
	}

	turn, err := s.Confirm(ctx, req.Message)
	if err != nil {
		h.respondSessionError(w, log, err)
		return
	}
	aqm.RespondSuccess(w, turn)
}

func (h *Handler) StartRecording(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.StartRecording")
	defer finish()

	_, s, ok := h.session(w, r)
	if !ok {
		return
	}
	if err := s.StartRecording(); err != nil {
		h.respondSessionError(w, h.log(r), err)
		return
	}
	aqm.RespondSuccess(w, s.State())
}

func (h *Handler) AppendAudio(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.AppendAudio")
	defer finish()

	log := h.log(r)
	_, s, ok := h.session(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, MaxAudioBytes)
	defer r.Body.Close()

	chunk, err := io.ReadAll(r.Body)
	if err != nil {
		log.Debug("failed to read audio chunk", "error", err)
		aqm.RespondError(w, http.StatusBadRequest, "Failed to read request body")
		return
	}

	if err := s.AppendAudio(chunk); err != nil {
		h.respondSessionError(w, log, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func (h *Handler) StopRecording(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.StopRecording")
	defer finish()

	ctx, s, ok := h.session(w, r)
	if !ok {
		return
	}

	turn, err := s.StopRecording(ctx)
	if err != nil {
		h.respondSessionError(w, h.log(r), err)
		return
	}
	aqm.RespondSuccess(w, turn)
}

func (h *Handler) SpeechPlayed(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.SpeechPlayed")
	defer finish()

	_, s, ok := h.session(w, r)
	if !ok {
		return
	}

	seq, err := strconv.ParseInt(chi.URLParam(r, "seq"), 10, 64)
	if err != nil {
		aqm.RespondError(w, http.StatusBadRequest, "Invalid speech sequence")
		return
	}
	s.SpeechPlayed(seq)
	w.WriteHeader(http.StatusNoContent)
}

// Orders

type revisionRequest struct {
	revision.Draft
	Confirmed bool `json:"confirmed"`
}

type cancelRequest struct {
	Confirmed bool `json:"confirmed"`
}

type cancelResponse struct {
	Order   *revision.OrderView `json:"order"`
	Message string              `json:"message"`
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.GetOrder")
	defer finish()

	log := h.log(r)
	ctx, id, ok := h.order(w, r)
	if !ok {
		return
	}

	view, err := h.orders.View(ctx, id)
	if err != nil {
		h.respondOrderError(w, log, err, messageBackendFailed)
		return
	}
	aqm.RespondSuccess(w, view)
}

func (h *Handler) PreviewRevision(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.PreviewRevision")
	defer finish()

	log := h.log(r)
	ctx, id, ok := h.order(w, r)
	if !ok {
		return
	}

	var req revisionRequest
	if !h.decode(w, r, log, &req) {
		return
	}

	diff, err := h.orders.Preview(ctx, id, &req.Draft)
	if err != nil {
		h.respondOrderError(w, log, err, messageBackendFailed)
		return
	}
	aqm.RespondSuccess(w, diff)
}

func (h *Handler) ReviseOrder(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ReviseOrder")
	defer finish()

	log := h.log(r)
	ctx, id, ok := h.order(w, r)
	if !ok {
		return
	}

	var req revisionRequest
	if !h.decode(w, r, log, &req) {
		return
	}

	res, err := h.orders.Update(ctx, id, &req.Draft, req.Confirmed)
	if errors.Is(err, revision.ErrConfirmationRequired) {
		aqm.RespondError(w, http.StatusConflict, res.Diff.Message)
		return
	}
	target := strconv.FormatInt(id, 10)
	if err != nil {
		h.audit.LogOrderChange(ctx, ActionOrderRevise, target, false, err.Error())
		h.respondOrderError(w, log, err, revision.MessageUpdateFailed)
		return
	}

	h.audit.LogOrderChange(ctx, ActionOrderRevise, target, true, "")
	aqm.RespondSuccess(w, res)
}

func (h *Handler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.CancelOrder")
	defer finish()

	log := h.log(r)
	ctx, id, ok := h.order(w, r)
	if !ok {
		return
	}

	var req cancelRequest
	if r.ContentLength != 0 && !h.decode(w, r, log, &req) {
		return
	}

	view, err := h.orders.Cancel(ctx, id, req.Confirmed)
	if errors.Is(err, revision.ErrConfirmationRequired) {
		aqm.RespondError(w, http.StatusConflict, messageConfirmCancel)
		return
	}
	target := strconv.FormatInt(id, 10)
	if err != nil {
		h.audit.LogOrderChange(ctx, ActionOrderCancel, target, false, err.Error())
		h.respondOrderError(w, log, err, revision.MessageCancelFailed)
		return
	}

	h.audit.LogOrderChange(ctx, ActionOrderCancel, target, true, "")
	aqm.RespondSuccess(w, cancelResponse{Order: view, Message: revision.MessageCancelled})
}

func (h *Handler) ListModifications(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListModifications")
	defer finish()

	log := h.log(r)
	ctx, id, ok := h.order(w, r)
	if !ok {
		return
	}

	entries, err := h.orders.Modifications(ctx, id)
	if err != nil {
		h.respondOrderError(w, log, err, messageBackendFailed)
		return
	}
	if entries == nil {
		entries = []revision.LogEntry{}
	}
	aqm.RespondSuccess(w, entries)
}

// Checkout

type hintResponse struct {
	Found           bool   `json:"found"`
	DeliveryTime    string `json:"deliveryTime,omitempty"`
	DeliveryType    string `json:"deliveryType"`
	ReservationTime string `json:"reservationTime,omitempty"`
}

func (h *Handler) TakeHint(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.TakeHint")
	defer finish()

	log := h.log(r)
	ctx, owner, ok := h.authorize(w, r)
	if !ok {
		return
	}

	resp := hintResponse{DeliveryType: string(deliverytime.Immediate)}
	if h.hints == nil {
		aqm.RespondSuccess(w, resp)
		return
	}

	var customerID int64
	if h.profiles != nil {
		if profile, err := h.profiles.GetProfile(ctx); err == nil && profile != nil {
			customerID = profile.ID
		}
	}

	ts, found, err := h.hints.Take(ctx, HintKey(customerID, owner))
	if err != nil {
		log.Error("cannot read delivery time hint", "error", err)
	}
	if found {
		resp.Found = true
		resp.DeliveryTime = ts
		resp.DeliveryType = string(deliverytime.TypeOf(ts, h.now()))
		if rt, ok := deliverytime.ReservationTime(ts, nil); ok {
			resp.ReservationTime = rt
		}
	}
	aqm.RespondSuccess(w, resp)
}

// Helpers

// authorize attaches the customer's token to the request context for
// outgoing API calls and derives the session owner from it.
func (h *Handler) authorize(w http.ResponseWriter, r *http.Request) (context.Context, string, bool) {
	token := bearerToken(r)
	if token == "" {
		aqm.RespondError(w, http.StatusUnauthorized, messageLoginRequired)
		return nil, "", false
	}
	return backend.WithToken(r.Context(), token), ownerKey(token), true
}

func (h *Handler) session(w http.ResponseWriter, r *http.Request) (context.Context, *voice.Session, bool) {
	ctx, owner, ok := h.authorize(w, r)
	if !ok {
		return nil, nil, false
	}

	s, err := h.sessions.Get(chi.URLParam(r, "id"), owner)
	if err != nil {
		h.respondSessionError(w, h.log(r), err)
		return nil, nil, false
	}
	return ctx, s, true
}

func (h *Handler) order(w http.ResponseWriter, r *http.Request) (context.Context, int64, bool) {
	ctx, _, ok := h.authorize(w, r)
	if !ok {
		return nil, 0, false
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		aqm.RespondError(w, http.StatusBadRequest, "Invalid order ID")
		return nil, 0, false
	}
	return ctx, id, true
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, log aqm.Logger, dest interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	defer r.Body.Close()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Debug("failed to read request body", "error", err)
		aqm.RespondError(w, http.StatusBadRequest, "Failed to read request body")
		return false
	}

	if err := json.Unmarshal(body, dest); err != nil {
		log.Debug("failed to decode request body", "error", err)
		aqm.RespondError(w, http.StatusBadRequest, "Invalid JSON in request body")
		return false
	}
	return true
}

func (h *Handler) respondSessionError(w http.ResponseWriter, log aqm.Logger, err error) {
	switch {
	case errors.Is(err, voice.ErrSessionNotFound), errors.Is(err, voice.ErrSessionClosed):
		aqm.RespondError(w, http.StatusNotFound, messageNoSession)
	case errors.Is(err, voice.ErrBusy), errors.Is(err, voice.ErrRecorderBusy):
		aqm.RespondError(w, http.StatusConflict, messageBusy)
	case errors.Is(err, voice.ErrAlreadyRecording):
		aqm.RespondError(w, http.StatusConflict, messageRecording)
	case errors.Is(err, voice.ErrNotRecording):
		aqm.RespondError(w, http.StatusConflict, messageNotRecording)
	case errors.Is(err, voice.ErrRecordingTooLarge):
		aqm.RespondError(w, http.StatusRequestEntityTooLarge, messageTooLong)
	case errors.Is(err, voice.ErrEmptyUtterance):
		aqm.RespondError(w, http.StatusBadRequest, messageEmpty)
	default:
		log.Error("voice session request failed", "error", err)
		aqm.RespondError(w, http.StatusInternalServerError, voice.MessageSendFailed)
	}
}

func (h *Handler) respondOrderError(w http.ResponseWriter, log aqm.Logger, err error, fallback string) {
	switch {
	case errors.Is(err, revision.ErrNotEditable):
		aqm.RespondError(w, http.StatusConflict, messageNotEditable)
		return
	case errors.Is(err, revision.ErrStyleNotAllowed):
		aqm.RespondError(w, http.StatusBadRequest, messageStyleInvalid)
		return
	case errors.Is(err, revision.ErrUnknownItem):
		aqm.RespondError(w, http.StatusBadRequest, messageUnknownItem)
		return
	}

	var apiErr *backend.APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
		aqm.RespondError(w, http.StatusNotFound, backend.MessageOf(err, messageOrderNotFound))
		return
	}

	log.Error("order request failed", "error", err)
	aqm.RespondError(w, http.StatusBadGateway, backend.MessageOf(err, fallback))
}
