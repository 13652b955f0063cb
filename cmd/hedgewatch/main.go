package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/goodnatureofminers/hedgewatch/internal/cache"
	"github.com/goodnatureofminers/hedgewatch/internal/hedge/blockchair"
	"github.com/goodnatureofminers/hedgewatch/internal/hedge/contracts"
	"github.com/goodnatureofminers/hedgewatch/internal/hedge/discovery"
	"github.com/goodnatureofminers/hedgewatch/internal/hedge/electrum"
	"github.com/goodnatureofminers/hedgewatch/internal/hedge/model"
	"github.com/goodnatureofminers/hedgewatch/internal/hedge/node"
	"github.com/goodnatureofminers/hedgewatch/internal/hedge/oracle"
	"github.com/goodnatureofminers/hedgewatch/internal/hedge/premium"
	ledger "github.com/goodnatureofminers/hedgewatch/internal/hedge/repository/clickhouse"
	"github.com/goodnatureofminers/hedgewatch/internal/hedge/service/monitor"
	"github.com/goodnatureofminers/hedgewatch/internal/hedge/settlement"
	"github.com/goodnatureofminers/hedgewatch/internal/hedge/txlog"
	"github.com/goodnatureofminers/hedgewatch/internal/hedge/upstream"
	"github.com/goodnatureofminers/hedgewatch/internal/metrics"
	"github.com/goodnatureofminers/hedgewatch/internal/transport"
	grpcMiddleware "github.com/grpc-ecosystem/go-grpc-middleware"
	grpcZap "github.com/grpc-ecosystem/go-grpc-middleware/logging/zap"
	grpcRecovery "github.com/grpc-ecosystem/go-grpc-middleware/recovery"
	grpcCtxTags "github.com/grpc-ecosystem/go-grpc-middleware/tags"
	grpcPrometheus "github.com/grpc-ecosystem/go-grpc-prometheus"
	gwruntime "github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"github.com/jessevdk/go-flags"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"github.com/rs/cors"
	"go.uber.org/zap"
	"google.golang.org/grpc"
)

func main() {
	var cfg config
	if _, err := flags.Parse(&cfg); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			return
		}
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := newLogger(cfg)
	if err != nil {
		panic("can't initialize zap logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync()
	}()
	grpcZap.ReplaceGrpcLoggerV2(logger)

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("hedgewatch stopped", zap.Error(err))
		stop()
		_ = logger.Sync()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config, logger *zap.Logger) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	monitorCfg, err := cfg.monitorConfig()
	if err != nil {
		return err
	}
	wallets, err := cfg.wallets()
	if err != nil {
		return err
	}

	breakers := metrics.NewCircuitBreaker()
	httpClient := func(service string, rps int) *upstream.Client {
		return upstream.New(service, upstream.Options{
			Timeout:       cfg.HTTPTimeout,
			RPS:           rps,
			OnStateChange: breakers.OnStateChange,
		})
	}
	electrumClient := electrum.NewClient(cfg.ElectrumServers, cfg.ElectrumTimeout, breakers.OnStateChange, logger)
	blockchairClient := blockchair.NewClient(cfg.BlockchairURL, httpClient("blockchair", cfg.BlockchairRPS), logger)

	var details discovery.DetailSource = blockchairClient
	if cfg.NodeRPCHost != "" {
		rpc, err := node.Dial(node.Config{
			Host: cfg.NodeRPCHost,
			User: cfg.NodeRPCUser,
			Pass: cfg.NodeRPCPass,
			TLS:  cfg.NodeRPCTLS,
		})
		if err != nil {
			return err
		}
		defer rpc.Shutdown()
		details = node.NewSource(node.NewObservedClient(rpc, metrics.NewClient("node")))
		logger.Info("transaction details from node", zap.String("host", cfg.NodeRPCHost))
	}

	health := transport.NewHealth(healthServiceName)
	deps := monitor.Deps{
		Balances: []monitor.NamedBalanceSource{
			{Name: "electrum", Source: electrumClient},
			{Name: "blockchair", Source: blockchairClient},
		},
		Prices:   oracle.NewClient(cfg.OracleURL, httpClient("oracle", 0), logger),
		Premiums: premium.NewClient(cfg.PremiumURL, httpClient("premium", 0)),
		TxLog:    txlog.New(cfg.CacheDir),
		Health:   health,
		Metrics:  metrics.NewMonitor(),
	}

	var fundings *cache.Cache[model.ContractFunding]
	if cfg.SettlementDir != "" {
		helper := settlement.NewClient(settlement.Config{
			Dir:     cfg.SettlementDir,
			Node:    cfg.SettlementNode,
			Token:   cfg.SettlementToken,
			Timeout: cfg.SettlementTimeout,
		}, nil, logger)
		statusPool := pond.NewPool(cfg.StatusWorkers)
		defer statusPool.StopAndWait()

		settled := cache.New[model.Contract](cfg.path(settledCacheFile), logger)
		deps.Contracts = contracts.NewLoader(helper, settled, statusPool, logger)
		deps.Executor = helper
		fundings = cache.New[model.ContractFunding](cfg.path(fundingCacheFile), logger)
		logger.Info("caches loaded",
			zap.Int("fundings", fundings.Len()),
			zap.Int("settled_contracts", settled.Len()),
		)
	} else {
		logger.Warn("no settlement helper configured, contracts are not loaded")
	}

	watches := make([]monitor.Watch, 0, len(wallets))
	for _, w := range wallets {
		watch := monitor.Watch{Wallet: w}
		if fundings != nil && w.HasKey() {
			watch.Discovery = discovery.New(discovery.Sources{
				Primary:      electrumClient,
				PrimaryName:  "electrum",
				Fallback:     blockchairClient,
				FallbackName: "blockchair",
				Details:      details,
			}, fundings, metrics.NewDiscovery(w.Currency), discovery.Config{BatchDelay: cfg.BatchDelay},
				logger.With(zap.String("currency", string(w.Currency))))
		}
		watches = append(watches, watch)
	}

	if cfg.ClickhouseDSN != "" {
		repo, err := ledger.NewRepository(cfg.ClickhouseDSN, metrics.NewClickhouseRepository())
		if err != nil {
			return err
		}
		defer func() {
			if err := repo.Close(); err != nil {
				logger.Warn("close clickhouse", zap.Error(err))
			}
		}()
		deps.Ledger = repo
	}

	svc, err := monitor.New(watches, deps, monitorCfg, logger)
	if err != nil {
		return err
	}
	scheduler, err := newScheduler(cfg.CronSpec, svc, logger)
	if err != nil {
		return fmt.Errorf("cron %q: %w", cfg.CronSpec, err)
	}

	grpcServer, err := serveGRPC(cfg.Addr, health, logger)
	if err != nil {
		return err
	}
	defer grpcServer.GracefulStop()
	defer health.Shutdown()

	httpServer, err := newHTTPServer(cfg.RestAddr, svc, health, logger)
	if err != nil {
		return err
	}

	monitorDone := make(chan struct{})
	go func() {
		defer close(monitorDone)
		if err := svc.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("monitor stopped", zap.Error(err))
		}
	}()
	scheduler.Start()
	logger.Info("scheduler started", zap.String("cron", cfg.CronSpec), zap.Int("wallets", len(watches)), zap.String("execution", string(monitorCfg.Execution)))

	go func() {
		<-ctx.Done()
		logger.Info("Shutting down the http server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("Failed to shutdown http server", zap.Error(err))
		}
	}()

	logger.Info("Starting HTTP server", zap.String("addr", cfg.RestAddr))
	serveErr := httpServer.ListenAndServe()
	if errors.Is(serveErr, http.ErrServerClosed) {
		serveErr = nil
	}
	cancel()

	<-scheduler.Stop().Done()
	<-monitorDone
	return serveErr
}

func newScheduler(spec string, svc *monitor.Service, logger *zap.Logger) (*cron.Cron, error) {
	cronLogger := cron.PrintfLogger(zap.NewStdLog(logger.Named("cron")))
	c := cron.New(cron.WithChain(cron.Recover(cronLogger)))
	_, err := c.AddFunc(spec, func() {
		if !svc.Trigger() {
			logger.Debug("refresh already pending")
		}
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

func serveGRPC(addr string, health *transport.Health, logger *zap.Logger) (*grpc.Server, error) {
	chain := []grpc.UnaryServerInterceptor{
		grpcRecovery.UnaryServerInterceptor(),
		grpcCtxTags.UnaryServerInterceptor(),
		grpcPrometheus.UnaryServerInterceptor,
		grpcZap.UnaryServerInterceptor(logger),
	}
	grpcServer := grpc.NewServer(
		grpc.UnaryInterceptor(grpcMiddleware.ChainUnaryServer(chain...)),
	)
	health.Register(grpcServer)
	grpcPrometheus.EnableHandlingTimeHistogram()
	grpcPrometheus.Register(grpcServer)

	socket, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", addr, err)
	}
	go func() {
		logger.Info("Starting gRPC server", zap.String("addr", addr))
		if err := grpcServer.Serve(socket); err != nil {
			logger.Error("gRPC server stopped", zap.Error(err))
		}
	}()
	return grpcServer, nil
}

func newHTTPServer(addr string, svc *monitor.Service, health *transport.Health, logger *zap.Logger) (*http.Server, error) {
	gw := gwruntime.NewServeMux()
	if err := transport.NewStatusHandler(svc.Status(), svc, logger).Register(gw); err != nil {
		return nil, fmt.Errorf("register status handler: %w", err)
	}
	if err := health.RegisterHTTP(gw); err != nil {
		return nil, fmt.Errorf("register health handler: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/", gw)
	mux.Handle("/metrics", promhttp.Handler())

	return &http.Server{
		Addr:              addr,
		Handler:           cors.Default().Handler(mux),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    http.DefaultMaxHeaderBytes,
	}, nil
}
