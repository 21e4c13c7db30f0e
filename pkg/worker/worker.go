package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"net/url"
	"runtime"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/pushgate/pushgate/pkg/metric"
	"github.com/pushgate/pushgate/pkg/payload"
	"github.com/pushgate/pushgate/pkg/provider/apns"
	"github.com/pushgate/pushgate/pkg/registry"
)

// kind value in metrics, kept in APNs terms
const kindApns = "apple"

// Notifications are worthless after a short while; the gateway drops
// undeliverable ones past this point.
const sendExpiration = 20 * time.Minute

var (
	ErrEmptyUserToken   = NewResponseError(ErrorCodeBadRequest, errors.New("empty user token"))
	ErrEmptyDeviceToken = NewResponseError(ErrorCodeNotFound, errors.New("empty device token"))
)

// Provider is the upstream push transport consumed by the worker.
type Provider interface {
	Send(ctx context.Context, req *apns.Request) (*apns.Response, error)
}

// ProviderFactory resolves a transport per endpoint, selected per request.
type ProviderFactory interface {
	Provider(endpoint apns.Endpoint) (Provider, error)
}

type ProviderFactoryFunc func(endpoint apns.Endpoint) (Provider, error)

func (f ProviderFactoryFunc) Provider(endpoint apns.Endpoint) (Provider, error) {
	return f(endpoint)
}

// Worker runs the dispatch pipeline: registry lookup, payload build,
// upstream send. Each request executes to completion on its own slot of the
// thread pool.
type Worker struct {
	topic     string
	threads   chan struct{}
	logger    *zap.Logger
	metric    *metric.Provider
	registry  *registry.Registry
	providers ProviderFactory
}

func New(
	cfg *Config,
	logger *zap.Logger,
	svcMetric *metric.Service,
	reg *registry.Registry,
	providers ProviderFactory,
) (*Worker, error) {

	countThreads := cfg.CountThreads
	if countThreads <= 0 {
		countThreads = runtime.NumCPU()
	}

	threads := make(chan struct{}, countThreads)
	for i := 0; i < countThreads; i++ {
		threads <- struct{}{}
	}

	providerMetric, err := svcMetric.GetProviderMetrics(kindApns)
	if err != nil {
		return nil, err
	}

	return &Worker{
		topic:     cfg.Topic,
		threads:   threads,
		logger:    logger.With(zap.String("worker", kindApns)),
		metric:    providerMetric,
		registry:  reg,
		providers: providers,
	}, nil
}

func (w *Worker) Send(ctx context.Context, req *Request) <-chan *Response {

	ch := make(chan *Response, 1)
	reserved := <-w.threads

	go func() {
		defer func() { w.threads <- reserved }()
		defer close(ch)

		ch <- w.dispatch(ctx, req)
	}()

	return ch
}

func (w *Worker) dispatch(ctx context.Context, req *Request) *Response {

	correlationID := req.CorrelationID
	if correlationID == "" {
		correlationID = uuid.NewString()
	}

	res := &Response{
		CorrelationID: correlationID,
		UserToken:     req.UserToken,
	}

	l := w.logger.With(zap.String("id", correlationID))

	if req.UserToken == "" {
		l.Error(ErrEmptyUserToken.Error())
		res.Error = ErrEmptyUserToken
		return res
	}

	deviceToken, err := w.registry.Lookup(req.UserToken)
	if err == registry.ErrNotFound {
		l.Info("no device for user")
		res.Error = NewResponseError(ErrorCodeNotFound, err)
		return res
	} else if err != nil {
		l.Error("registry lookup", zap.Error(err))
		res.Error = NewResponseError(ErrorCodeStorage, err)
		return res
	} else if deviceToken == "" {
		l.Info("empty device token for user")
		res.Error = ErrEmptyDeviceToken
		return res
	}

	res.DeviceToken = deviceToken

	// hide device token to hash
	l = l.With(zap.String("token hash", TokenHash(deviceToken)))

	out, err := w.newProviderRequest(req, deviceToken)
	if err != nil {
		l.Error("encode notification", zap.Error(err))
		res.Error = NewResponseError(ErrorCodeUnknown, err)
		return res
	}

	endpoint := apns.EndpointProduction
	if req.Sandbox {
		endpoint = apns.EndpointSandbox
	}

	provider, err := w.providers.Provider(endpoint)
	if err != nil {
		w.metric.FailsInc()
		l.Error("provider credentials", zap.Error(err))
		res.Error = NewResponseError(ErrorCodeCredential, err)
		return res
	}

	timerCancel := w.metric.NewIOTimer()
	answer, err := provider.Send(ctx, out)
	timerCancel()

	if err != nil {
		w.metric.FailsInc()
		l.Error("failed to send", zap.Error(err))
		res.Error = NewResponseError(ErrorCodeUpstream, err)
		return res

	} else if !answer.Sent() {
		w.metric.FailsInc()
		err := errors.New(strconv.Itoa(answer.StatusCode) + " " + answer.Reason)
		l.Error("rejected by gateway", zap.Error(err))
		res.Error = NewResponseError(ErrorCodeUpstream, err)
		return res
	}

	w.metric.SuccessInc()
	res.ApnsID = answer.ID
	l.Info("success send", zap.String("endpoint", endpoint.String()))

	return res
}

func (w *Worker) newProviderRequest(req *Request, deviceToken string) (*apns.Request, error) {

	p := payload.Build(req.Message, req.Category, true)

	buf := bytes.NewBuffer(nil)
	if err := json.NewEncoder(buf).Encode(p); err != nil {
		return nil, err
	}

	return &apns.Request{
		Token: url.QueryEscape(deviceToken),
		Headers: apns.RequestHeader{
			Topic:      w.topic,
			Expiration: time.Now().Add(sendExpiration),
		},
		Payload: buf.Bytes(),
	}, nil
}
