package service

import (
	"sawmill.app/ledger/internal/queue"
	"sawmill.app/ledger/internal/store"
)

type ServicesConfig struct {
	Stores   *store.Stores
	TxRunner TxRunner
	Producer queue.Producer
	Limiter  RateLimiter
	Clock    Clock
}

type Services struct {
	stores   *store.Stores
	txRunner TxRunner
	producer queue.Producer
	limiter  RateLimiter
	clock    Clock
}

func NewServices(cfg ServicesConfig) *Services {
	return &Services{
		stores:   cfg.Stores,
		txRunner: cfg.TxRunner,
		producer: cfg.Producer,
		limiter:  cfg.Limiter,
		clock:    cfg.Clock,
	}
}

func (s *Services) Intake() IntakeService {
	return NewIntakeService(s.stores.Intake(), s.limiter, s.producer)
}

func (s *Services) Dispatcher() Dispatcher {
	return NewDispatcher(s.clock)
}

func (s *Services) Reporter() *Reporter {
	return NewReporter(s.clock)
}

func (s *Services) TxRunner() TxRunner {
	return s.txRunner
}

func (s *Services) Stores() *store.Stores {
	return s.stores
}
