package service

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pushgate/pushgate/pkg/metric"
	"github.com/pushgate/pushgate/pkg/provider/apns"
	"github.com/pushgate/pushgate/pkg/registry"
	"github.com/pushgate/pushgate/pkg/worker"
)

const shutdownTimeout = 5 * time.Second

type Service struct {
	handler       *handler
	logger        *zap.Logger
	db            *badger.DB
	apiPort       string
	adminPort     string
	ctxDone       context.Context
	ctxDoneCancel func()
}

func New(cfg *viper.Viper, over *Overrides, logger *zap.Logger) (*Service, error) {

	c, err := NewConfig(cfg, over)
	if err != nil {
		return nil, err
	}

	// the store stays open for the process lifetime; open failure is fatal
	db, err := badger.Open(badger.DefaultOptions(c.DBPath).WithLogger(nil))
	if err != nil {
		return nil, err
	}

	reg := registry.New(db)
	svcMetric := metric.New()

	factory := apns.NewFactory(apns.NewKeyCache(), c.Apns.KeyFile, c.Apns.KeyID, c.Apns.TeamID)
	if c.Apns.Host != "" {
		factory.SetTransport(c.Apns.Host, nil)
	}

	w, err := worker.New(
		&worker.Config{
			Topic:        c.Apns.Topic,
			CountThreads: c.Apns.Workers,
		},
		logger,
		svcMetric,
		reg,
		worker.ProviderFactoryFunc(func(endpoint apns.Endpoint) (worker.Provider, error) {
			client, err := factory.Client(endpoint)
			if err != nil {
				return nil, err
			}
			return client, nil
		}),
	)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	h, err := newHandler(reg, w, svcMetric, logger)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	ctxDone, ctxDoneCancel := context.WithCancel(context.Background())

	return &Service{
		handler:       h,
		logger:        logger,
		db:            db,
		apiPort:       c.ApiPort,
		adminPort:     c.AdminPort,
		ctxDone:       ctxDone,
		ctxDoneCancel: ctxDoneCancel,
	}, nil
}

func (s *Service) Close() error {
	s.ctxDoneCancel()
	return nil
}

func (s *Service) Run() error {

	defer func() {
		if err := s.db.Close(); err != nil {
			s.logger.Error("close registry store", zap.Error(err))
		}
	}()

	adminRouter := chi.NewRouter()
	adminRouter.Handle("/metrics", promhttp.Handler())
	adminRouter.Get("/info", func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, Info())
	})

	apiSvr := &http.Server{
		Addr:    net.JoinHostPort("0.0.0.0", s.apiPort),
		Handler: s.handler.Router(),
	}
	adminSvr := &http.Server{
		Addr:    net.JoinHostPort("0.0.0.0", s.adminPort),
		Handler: adminRouter,
	}

	retval := make(chan error, 2)
	var wg sync.WaitGroup

	for name, svr := range map[string]*http.Server{
		"api":   apiSvr,
		"admin": adminSvr,
	} {
		wg.Add(1)
		go func(name string, svr *http.Server) {
			defer wg.Done()

			s.logger.Info("listen", zap.String("server", name), zap.String("addr", svr.Addr))

			err := svr.ListenAndServe()
			if err != nil && err != http.ErrServerClosed {
				s.logger.Error("server closed", zap.String("server", name), zap.Error(err))
			}
			retval <- err
		}(name, svr)
	}

	go func() {
		<-s.ctxDone.Done()

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		for _, svr := range []*http.Server{apiSvr, adminSvr} {
			if err := svr.Shutdown(ctx); err != nil {
				s.logger.Error("shutdown", zap.Error(err))
			}
		}
	}()

	err := <-retval
	s.ctxDoneCancel()
	wg.Wait()

	if err == http.ErrServerClosed {
		return nil
	}

	return err
}
