package bootstrap

import (
	"context"
	"fmt"
	"log"
	"time"

	"grounded-qa-be/internal/config"
	"grounded-qa-be/internal/controller"
	"grounded-qa-be/internal/events"
	"grounded-qa-be/internal/metrics"
	"grounded-qa-be/internal/pkg/logger"
	"grounded-qa-be/internal/pkg/serverutils"
	"grounded-qa-be/internal/repository/memory"
	"grounded-qa-be/internal/repository/unitofwork"
	"grounded-qa-be/internal/service"
	pktNats "grounded-qa-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	ChatController controller.IChatController

	// Background services, started by main.
	AuditConsumer service.IAuditConsumer

	Logger   logger.ILogger
	Registry *prometheus.Registry

	closers []func()
}

func NewContainer(db *gorm.DB, cfg *config.Config) (*Container, error) {
	// 1. Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	pipelineMetrics := metrics.NewPipelineMetrics(registry)

	c := &Container{Logger: sysLogger, Registry: registry}

	// 2. Event bus (in-process audit trail)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 64},
		watermill.NewStdLogger(false, false),
	)
	c.closers = append(c.closers, func() { _ = pubSub.Close() })

	// 3. Infrastructure; both are optional at runtime
	var eventSink events.Sink
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	} else {
		eventSink = natsPub
		c.closers = append(c.closers, natsPub.Close)
	}

	rdb := connectRedis(cfg.App.RedisURL)
	if rdb != nil {
		c.closers = append(c.closers, func() { _ = rdb.Close() })
	}

	// 4. Pipeline
	deps := PipelineDeps{Observer: pipelineMetrics, CacheOnError: pipelineMetrics.CacheError}
	if rdb != nil {
		deps.Redis = rdb
	}
	pipeline, err := NewPipeline(cfg, sysLogger, deps)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("bootstrap pipeline: %w", err)
	}

	// 5. Services
	chatService := service.NewChatService(
		uowFactory,
		pipeline,
		memory.NewRunRegistry(memory.DefaultRunTTL),
		service.NewAuditPublisher(service.DefaultAuditTopic, pubSub),
		events.NewNatsPublisher(eventSink, sysLogger),
		sysLogger,
	)
	c.AuditConsumer = service.NewAuditConsumer(pubSub, service.DefaultAuditTopic, uowFactory, sysLogger)

	// 6. Controllers
	c.ChatController = controller.NewChatController(chatService, serverutils.JwtMiddleware(cfg.Auth.JwtSecret))

	return c, nil
}

// Close releases connections in reverse order of creation.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	_ = c.Logger.Sync()
}

// connectRedis returns nil when Redis is not configured or not reachable.
func connectRedis(url string) *redis.Client {
	if url == "" {
		return nil
	}
	opt, err := redis.ParseURL(url)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{Addr: url}
	}
	rdb := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis, search cache disabled: %v", err)
		_ = rdb.Close()
		return nil
	}
	return rdb
}
