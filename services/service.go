package services

import (
	"go.uber.org/zap"
)

// Service implements the tracking operations over a Store. It carries
// no state of its own beyond the store and logger; every operation is a
// short-lived request-scoped call with the owner passed explicitly.
type Service struct {
	store Store
	log   *zap.SugaredLogger
}

// New creates a Service. A nil logger falls back to a no-op logger so
// tests can construct services without logging setup.
func New(store Store, log *zap.SugaredLogger) *Service {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Service{store: store, log: log}
}
