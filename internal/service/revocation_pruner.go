package service

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// PruneStore is the slice of the revocation repository the pruning
// job needs.
type PruneStore interface {
	PruneExpired(ctx context.Context, now time.Time) (int64, error)
}

// RevocationPruner periodically deletes ledger rows whose tokens have
// expired on their own. Expiry is checked before the ledger on every
// request, so removing those rows never changes an authorization
// decision; it only keeps the table, and the point lookups against
// it, small.
type RevocationPruner struct {
	store PruneStore
	spec  string
	cron  *cron.Cron
}

// NewRevocationPruner builds a pruner around a six-field cron spec
// (seconds included), e.g. "0 */10 * * * *" for every ten minutes.
func NewRevocationPruner(store PruneStore, spec string) *RevocationPruner {
	return &RevocationPruner{
		store: store,
		spec:  spec,
		cron:  cron.New(cron.WithSeconds()),
	}
}

// Start registers the job and launches the scheduler in its own
// goroutine. An invalid cron spec is reported immediately.
func (p *RevocationPruner) Start() error {
	if _, err := p.cron.AddFunc(p.spec, p.runOnce); err != nil {
		return err
	}
	p.cron.Start()
	return nil
}

// Stop halts the scheduler and waits for a running prune to finish.
func (p *RevocationPruner) Stop() {
	<-p.cron.Stop().Done()
}

func (p *RevocationPruner) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	n, err := p.store.PruneExpired(ctx, time.Now().UTC())
	if err != nil {
		log.Printf("revocation-pruner: prune failed: %v", err)
		return
	}
	if n > 0 {
		log.Printf("revocation-pruner: removed %d expired entries", n)
	}
}
