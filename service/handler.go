package service

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/pushgate/pushgate/pkg/metric"
	"github.com/pushgate/pushgate/pkg/registry"
	"github.com/pushgate/pushgate/pkg/worker"
)

type saveTokenRequest struct {
	DeviceToken string `json:"device_token" validate:"required"`
	UserToken   string `json:"user_token" validate:"required"`
}

type pushRequest struct {
	Message  string `json:"message" validate:"required"`
	Sandbox  bool   `json:"sandbox"`
	Category string `json:"category,omitempty"`
}

type handler struct {
	registry *registry.Registry
	worker   *worker.Worker
	validate *validator.Validate
	logger   *zap.Logger

	recvSave   *metric.Peer
	recvRemove *metric.Peer
	recvPush   *metric.Peer
}

func newHandler(reg *registry.Registry, w *worker.Worker, svcMetric *metric.Service, logger *zap.Logger) (*handler, error) {

	h := &handler{
		registry: reg,
		worker:   w,
		validate: validator.New(),
		logger:   logger,
	}

	var err error

	h.recvSave, err = svcMetric.GetPeerMetrics("save_token")
	if err != nil {
		return nil, err
	}

	h.recvRemove, err = svcMetric.GetPeerMetrics("remove")
	if err != nil {
		return nil, err
	}

	h.recvPush, err = svcMetric.GetPeerMetrics("push")
	if err != nil {
		return nil, err
	}

	return h, nil
}

func (h *handler) Router() chi.Router {

	r := chi.NewRouter()

	r.Get("/", h.Hello)
	r.Get("/health", h.Health)
	r.Post("/save_token", h.SaveToken)
	r.Delete("/remove/{device_token}", h.RemoveToken)
	r.Post("/push", h.Push)
	r.Post("/push/{user_token}", h.Push)

	return r
}

func (h *handler) Hello(w http.ResponseWriter, r *http.Request) {
	render.PlainText(w, r, "Hello world!")
}

func (h *handler) Health(w http.ResponseWriter, r *http.Request) {

	svcInfo := Info()

	render.JSON(w, r, &healthResponse{
		Status:  "healthy",
		Message: svcInfo.Name + " " + svcInfo.Version,
	})
}

func (h *handler) SaveToken(w http.ResponseWriter, r *http.Request) {

	h.recvSave.Inc()

	req := &saveTokenRequest{}
	if err := render.DecodeJSON(r.Body, req); err != nil {
		sendStatus(w, r, http.StatusBadRequest, false, "invalid request body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		sendStatus(w, r, http.StatusBadRequest, false, "device_token and user_token are required")
		return
	}

	if err := h.registry.Register(req.UserToken, req.DeviceToken); err != nil {
		h.logger.Error("register device", zap.Error(err))
		sendStatus(w, r, http.StatusInternalServerError, false, "registry storage failure")
		return
	}

	sendStatus(w, r, http.StatusOK, true, "Device registered/updated successfully")
}

func (h *handler) RemoveToken(w http.ResponseWriter, r *http.Request) {

	h.recvRemove.Inc()

	deviceToken := chi.URLParam(r, "device_token")

	err := h.registry.Remove(deviceToken)
	switch err {
	case nil:
		render.PlainText(w, r, "Device removed successfully")
	case registry.ErrNotFound:
		render.Status(r, http.StatusNotFound)
		render.PlainText(w, r, "Device not found")
	default:
		h.logger.Error("remove device", zap.Error(err))
		render.Status(r, http.StatusInternalServerError)
		render.PlainText(w, r, "registry storage failure")
	}
}

func (h *handler) Push(w http.ResponseWriter, r *http.Request) {

	h.recvPush.Inc()

	req := &pushRequest{}
	if err := render.DecodeJSON(r.Body, req); err != nil {
		sendPushResult(w, r, http.StatusBadRequest, false, "invalid request body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		sendPushResult(w, r, http.StatusBadRequest, false, "message is required")
		return
	}

	res := <-h.worker.Send(r.Context(), &worker.Request{
		UserToken: chi.URLParam(r, "user_token"),
		Message:   req.Message,
		Category:  req.Category,
		Sandbox:   req.Sandbox,
	})

	if res.Error != nil {
		code, message := translateDispatchError(res.Error)
		sendPushResult(w, r, code, false, message)
		return
	}

	sendPushResult(w, r, http.StatusOK, true, "notification sent: "+res.ApnsID)
}

// translateDispatchError maps worker error codes onto the external statuses.
// Internal causes stay in the logs; callers get a human-readable summary,
// except upstream rejections where the provider detail is the summary.
func translateDispatchError(err error) (int, string) {

	respErr, ok := err.(*worker.ResponseError)
	if !ok {
		return http.StatusInternalServerError, "dispatch failed"
	}

	switch respErr.Code {
	case worker.ErrorCodeBadRequest:
		return http.StatusBadRequest, "no user token supplied"
	case worker.ErrorCodeNotFound:
		return http.StatusNotFound, "no device registered for user"
	case worker.ErrorCodeStorage:
		return http.StatusInternalServerError, "registry storage failure"
	case worker.ErrorCodeCredential:
		return http.StatusInternalServerError, "push credentials unavailable"
	case worker.ErrorCodeUpstream:
		return http.StatusInternalServerError, "provider error: " + respErr.Err().Error()
	}

	return http.StatusInternalServerError, "dispatch failed"
}
