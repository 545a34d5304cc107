package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	apihistory "github.com/kilianp07/pitwall/api/history"
	apistrategy "github.com/kilianp07/pitwall/api/strategy"
	"github.com/kilianp07/pitwall/config"
	"github.com/kilianp07/pitwall/core/events"
	corehistory "github.com/kilianp07/pitwall/core/history"
	coremetrics "github.com/kilianp07/pitwall/core/metrics"
	coremon "github.com/kilianp07/pitwall/core/monitoring"
	"github.com/kilianp07/pitwall/core/prediction"
	"github.com/kilianp07/pitwall/core/strategy"
	"github.com/kilianp07/pitwall/infra/artifacts"
	"github.com/kilianp07/pitwall/infra/history"
	"github.com/kilianp07/pitwall/infra/logger"
	"github.com/kilianp07/pitwall/infra/metrics"
	infmon "github.com/kilianp07/pitwall/infra/monitoring"
	"github.com/kilianp07/pitwall/infra/mqtt"
	"github.com/kilianp07/pitwall/internal/eventbus"
)

// Service wires the strategy simulator to the HTTP API and the event
// consumers (metrics, history, MQTT).
type Service struct {
	Simulator *strategy.Simulator

	cfg       *config.Config
	bus       *eventbus.TypedBus[events.StrategyEvent]
	store     corehistory.Store
	sink      coremetrics.MetricsSink
	mqtt      *mqtt.PahoClient
	publisher *mqtt.StrategyPublisher
	handler   http.Handler
	log       logger.Logger
	consumers []<-chan struct{}
}

// New loads the model artifacts and builds a Service. Any artifact failure
// is returned wrapping prediction.ErrModelUnavailable; the service must not
// start in that case.
func New(cfg *config.Config) (*Service, error) {
	bundle, err := artifacts.LoadBundle(cfg.Models)
	if err != nil {
		return nil, fmt.Errorf("load models: %w", err)
	}
	return NewWithBundle(cfg, bundle)
}

// NewWithBundle builds a Service around an already loaded bundle.
func NewWithBundle(cfg *config.Config, bundle *prediction.ModelBundle) (*Service, error) {
	logg := logger.New("service")

	mon, err := infmon.NewSentryMonitor(cfg.Sentry)
	if err != nil {
		return nil, fmt.Errorf("sentry: %w", err)
	}
	coremon.Init(mon)

	bus := eventbus.NewTyped[events.StrategyEvent]()
	sim, err := strategy.NewSimulator(bundle, cfg.Strategy,
		strategy.WithLogger(logger.New("strategy")),
		strategy.WithPublisher(bus),
	)
	if err != nil {
		return nil, fmt.Errorf("simulator: %w", err)
	}

	sink, err := metrics.NewSink(cfg.Metrics)
	if err != nil {
		return nil, fmt.Errorf("metrics sink: %w", err)
	}
	store, err := history.NewStore(cfg.History)
	if err != nil {
		return nil, fmt.Errorf("history store: %w", err)
	}

	svc := &Service{
		Simulator: sim,
		cfg:       cfg,
		bus:       bus,
		store:     store,
		sink:      sink,
		log:       logg,
	}
	if cfg.MQTT.Enabled {
		client, err := mqtt.NewPahoClient(cfg.MQTT)
		if err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("mqtt client: %w", err)
		}
		svc.mqtt = client
		svc.publisher = mqtt.NewStrategyPublisher(client, cfg.MQTT.TopicPrefix, logger.New("mqtt_publisher"))
	}
	svc.handler = svc.routes()
	return svc, nil
}

func (s *Service) routes() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/predict_strategy", apistrategy.NewPredictHandler(s.Simulator, logger.New("api")))
	mux.Handle("/compounds", apistrategy.NewCompoundsHandler(s.Simulator))
	mux.Handle("/api/predictions", apihistory.NewHandler(s.store, s.cfg.Server.HistoryToken))
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	c := cors.New(cors.Options{
		AllowedOrigins:   s.cfg.Server.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions, http.MethodHead},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{apistrategy.RequestIDHeader},
		AllowCredentials: true,
	})
	return c.Handler(s.recoverPanics(mux))
}

// recoverPanics turns a handler panic into a 500 reported to monitoring.
func (s *Service) recoverPanics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				err := fmt.Errorf("panic serving %s: %v", r.URL.Path, rec)
				s.log.Errorf("%v", err)
				coremon.CaptureException(err, map[string]string{"path": r.URL.Path})
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write([]byte(`{"detail":"internal server error"}` + "\n"))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// Handler returns the HTTP handler of the service.
func (s *Service) Handler() http.Handler { return s.handler }

// Start launches the event consumers. They stop when ctx is canceled or the
// service is closed.
func (s *Service) Start(ctx context.Context) {
	s.consumers = append(s.consumers,
		metrics.StartEventCollector(ctx, s.bus, s.sink),
		history.StartRecorder(ctx, s.bus, s.store, logger.New("history")),
	)
	if s.publisher != nil {
		s.consumers = append(s.consumers, s.publisher.Start(ctx, s.bus))
	}
	if port := s.cfg.Metrics.PrometheusPort; port != "" {
		go func() {
			if err := metrics.StartPromServer(ctx, port); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}
}

// Run starts the service and blocks until the context is cancelled.
func (s *Service) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Server.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.Server.Addr, err)
	}
	s.Start(ctx)
	return s.Serve(ctx, ln)
}

// Serve answers HTTP requests on ln until ctx is canceled, then shuts the
// server down gracefully.
func (s *Service) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       s.cfg.Server.ReadTimeout(),
		WriteTimeout:      s.cfg.Server.WriteTimeout(),
	}
	errCh := make(chan error, 1)
	go func() {
		s.log.Infof("listening on %s", ln.Addr())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return err
		}
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout())
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// Close stops the consumers and releases resources held by the service.
func (s *Service) Close() error {
	s.bus.Close()
	for _, done := range s.consumers {
		<-done
	}
	metrics.CloseSink(s.sink)
	if s.mqtt != nil {
		s.mqtt.Disconnect()
	}
	coremon.Flush(2 * time.Second)
	return s.store.Close()
}
