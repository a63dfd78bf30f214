// Package watch re-scans a configured set of addresses on an interval and
// broadcasts fresh reports over the WebSocket hub, so dashboards track how
// a target's exposure evolves without polling the scan endpoint.
package watch

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/taylorferran/solana-privacy-scanner-sub000/internal/api"
	"github.com/taylorferran/solana-privacy-scanner-sub000/internal/db"
	"github.com/taylorferran/solana-privacy-scanner-sub000/internal/scan"
	"github.com/taylorferran/solana-privacy-scanner-sub000/pkg/models"
)

type Watcher struct {
	scanner   *scan.Scanner
	wsHub     *api.Hub
	dbStore   *db.PostgresStore
	addresses []string
	interval  time.Duration
}

// watchPayload mirrors the scan endpoint's stream message shape, tagged
// with a distinct event so clients can tell scheduled rescans from
// on-demand scans.
type watchPayload struct {
	Event  string        `json:"event"`
	ScanID string        `json:"scanId,omitempty"`
	Report models.Report `json:"report"`
}

func NewWatcher(scanner *scan.Scanner, wsHub *api.Hub, dbStore *db.PostgresStore, addresses []string, interval time.Duration) *Watcher {
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	return &Watcher{
		scanner:   scanner,
		wsHub:     wsHub,
		dbStore:   dbStore,
		addresses: addresses,
		interval:  interval,
	}
}

// Run rescans the watch list on every tick until the context is canceled.
// One failing address never blocks the rest of the list.
func (w *Watcher) Run(ctx context.Context) {
	if len(w.addresses) == 0 {
		log.Println("[watch] no watched addresses configured, watcher idle")
		return
	}
	log.Printf("[watch] watching %d addresses every %s", len(w.addresses), w.interval)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.sweep(ctx)
	for {
		select {
		case <-ctx.Done():
			log.Println("[watch] stopping watcher")
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *Watcher) sweep(ctx context.Context) {
	for _, address := range w.addresses {
		report, err := w.scanner.Scan(ctx, address, models.TargetAccount)
		if err != nil {
			log.Printf("[watch] scan of %s failed: %v", address, err)
			continue
		}

		scanID := ""
		if w.dbStore != nil {
			if id, err := w.dbStore.SaveReport(ctx, report); err != nil {
				log.Printf("[watch] failed to persist report for %s: %v", address, err)
			} else {
				scanID = id
			}
		}

		payload, err := json.Marshal(watchPayload{Event: "watch.rescan", ScanID: scanID, Report: report})
		if err != nil {
			log.Printf("[watch] marshal payload for %s: %v", address, err)
			continue
		}
		w.wsHub.Broadcast(payload)
	}
}
