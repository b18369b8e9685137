// cmd/ledger-service/main.go
package main

import (
	"github.com/rs/zerolog/log"

	"github.com/Ai-Whisperers/Vete-sub012/internal/app/ledger"
	"github.com/Ai-Whisperers/Vete-sub012/internal/config"
	"github.com/Ai-Whisperers/Vete-sub012/internal/infra/kafka"
	"github.com/Ai-Whisperers/Vete-sub012/internal/infra/memory"
	"github.com/Ai-Whisperers/Vete-sub012/internal/infra/postgres"
	"github.com/Ai-Whisperers/Vete-sub012/internal/infra/rabbitmq"
	"github.com/Ai-Whisperers/Vete-sub012/internal/logger"
	"github.com/Ai-Whisperers/Vete-sub012/internal/ports/emitter"
	"github.com/Ai-Whisperers/Vete-sub012/internal/ports/repository"
	"github.com/Ai-Whisperers/Vete-sub012/internal/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if err := logger.Setup(cfg.LogLevel, cfg.LogFormat); err != nil {
		log.Fatal().Err(err).Msg("failed to set up logging")
	}

	var store repository.LedgerStore
	switch cfg.StoreBackend {
	case "memory":
		store = memory.NewLedgerStore()
		log.Warn().Msg("using in-memory store; state is lost on restart")
	default:
		db, err := postgres.Open(cfg.GetDBURL())
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to postgres")
		}
		defer db.Close()
		store = postgres.NewLedgerStore(db)
	}

	var auditEmitter emitter.AuditEmitter
	switch cfg.AuditBackend {
	case "kafka":
		ke := kafka.NewAuditEmitter(cfg.KafkaBroker, cfg.KafkaTopic)
		defer ke.Close()
		auditEmitter = ke
	case "rabbitmq":
		re, err := rabbitmq.NewAuditEmitter(cfg.GetRabbitMQURL(), cfg.RabbitQueue)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to rabbitmq")
		}
		defer re.Close()
		auditEmitter = re
	default:
		auditEmitter = emitter.Nop{}
	}

	svc := ledger.NewService(store, auditEmitter, logger.WithComponent("ledger"))
	server := web.NewServer(svc, logger.WithComponent("web"))

	log.Info().Str("addr", cfg.ListenAddr).Msg("payment ledger listening")
	if err := server.Run(cfg.ListenAddr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
