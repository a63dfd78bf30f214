// Package scan orchestrates one full scan: collect history over RPC,
// normalize into a Context, run the detector battery, and build the
// report. Everything non-deterministic (network, clock) happens here;
// the detect package below it stays pure.
package scan

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/taylorferran/solana-privacy-scanner-sub000/internal/detect"
	"github.com/taylorferran/solana-privacy-scanner-sub000/internal/labels"
	"github.com/taylorferran/solana-privacy-scanner-sub000/internal/normalize"
	"github.com/taylorferran/solana-privacy-scanner-sub000/internal/solana"
	"github.com/taylorferran/solana-privacy-scanner-sub000/pkg/models"
)

const defaultTxLimit = 200

// Scanner runs scans end to end. Construct via NewScanner; the zero value
// has no RPC client and will fail every scan.
type Scanner struct {
	rpc       *solana.Client
	labels    *labels.Store
	evaluator *detect.Evaluator
	txLimit   int
	now       func() time.Time
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithTxLimit caps how many transactions are fetched per account scan.
func WithTxLimit(limit int) Option {
	return func(s *Scanner) {
		if limit > 0 {
			s.txLimit = limit
		}
	}
}

// WithDetectors appends caller-supplied detectors to the built-in battery.
func WithDetectors(extra ...detect.Detector) Option {
	return func(s *Scanner) {
		s.evaluator = detect.NewEvaluator(extra...)
	}
}

// WithClock overrides the report timestamp source, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Scanner) { s.now = now }
}

func NewScanner(rpc *solana.Client, store *labels.Store, opts ...Option) *Scanner {
	s := &Scanner{
		rpc:       rpc,
		labels:    store,
		evaluator: detect.NewEvaluator(),
		txLimit:   defaultTxLimit,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scan dispatches on target type.
func (s *Scanner) Scan(ctx context.Context, target string, targetType models.TargetType) (models.Report, error) {
	switch targetType {
	case models.TargetAccount, models.TargetProgram:
		return s.scanAddress(ctx, target, targetType)
	case models.TargetTransaction:
		return s.scanTransaction(ctx, target)
	default:
		return models.Report{}, fmt.Errorf("unknown target type %q", targetType)
	}
}

// scanAddress collects signature history for an account or program and
// analyzes every reachable transaction.
func (s *Scanner) scanAddress(ctx context.Context, address string, targetType models.TargetType) (models.Report, error) {
	sigs, err := s.rpc.GetSignaturesForAddress(ctx, address, s.txLimit)
	if err != nil {
		return models.Report{}, fmt.Errorf("fetch signatures for %s: %w", address, err)
	}

	txs := make([]*solana.TransactionResult, 0, len(sigs))
	for _, sig := range sigs {
		tx, err := s.rpc.GetTransaction(ctx, sig.Signature)
		if err != nil {
			// Partial history degrades the report, it never aborts the scan.
			log.Printf("[scan] skipping %s: %v", sig.Signature, err)
			continue
		}
		txs = append(txs, tx)
	}

	return s.analyze(address, targetType, txs), nil
}

func (s *Scanner) scanTransaction(ctx context.Context, signature string) (models.Report, error) {
	tx, err := s.rpc.GetTransaction(ctx, signature)
	if err != nil {
		return models.Report{}, fmt.Errorf("fetch transaction %s: %w", signature, err)
	}
	return s.analyze(signature, models.TargetTransaction, []*solana.TransactionResult{tx}), nil
}

// Analyze runs the deterministic pipeline over already-normalized input.
// Exposed so callers holding a prebuilt Context (tests, replays) can skip
// collection.
func (s *Scanner) Analyze(mctx *models.Context) models.Report {
	findings := s.evaluator.Evaluate(mctx)
	return detect.BuildReport(mctx, findings, s.now().UTC())
}

func (s *Scanner) analyze(target string, targetType models.TargetType, txs []*solana.TransactionResult) models.Report {
	mctx := normalize.BuildContext(target, targetType, txs, s.labels)
	return s.Analyze(mctx)
}
