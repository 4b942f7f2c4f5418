package community

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/mrzappu/LastRpcode/db"
	"github.com/mrzappu/LastRpcode/routing"
)

const ledgerTimeout = 5 * time.Second

// Service turns platform events and commands into notifications and moderation actions.
type Service struct {
	platform Platform
	routes   *routing.Store
	ledger   Ledger
	brand    string
	now      func() time.Time

	dms sync.WaitGroup
}

// NewService builds a service. ledger may be nil to skip recording moderation actions.
// brand is the server name shown in welcome and goodbye titles.
func NewService(platform Platform, routes *routing.Store, ledger Ledger, brand string) *Service {
	return &Service{
		platform: platform,
		routes:   routes,
		ledger:   ledger,
		brand:    brand,
		now:      time.Now,
	}
}

// Wait blocks until every in-flight direct message attempt has finished.
func (s *Service) Wait() {
	s.dms.Wait()
}

// record appends a moderation action to the ledger. Failures are only logged.
func (s *Service) record(a db.ModerationAction) {
	if s.ledger == nil {
		return
	}
	a.At = s.now()

	ctx, cancel := context.WithTimeout(context.Background(), ledgerTimeout)
	defer cancel()

	id, err := s.ledger.Record(ctx, a)
	if err != nil {
		slog.Error("failed to record moderation action", "action", a.Action, "target", a.TargetID, "error", err)
		return
	}
	slog.Debug("recorded moderation action", "id", id, "action", a.Action, "target", a.TargetID)
}
