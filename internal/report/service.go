package report

import (
	"context"
	"fmt"
	"time"

	"github.com/advcompro/garage-dashboard/internal/cache"
	"github.com/advcompro/garage-dashboard/internal/domain"
	"go.uber.org/zap"
)

// Gateway computes reports remotely
type Gateway interface {
	Report(ctx context.Context, start, end time.Time) (*domain.Report, error)
}

// Source supplies the local collections
type Source interface {
	Customers() []domain.Customer
	Mechanics() []domain.Mechanic
}

// Snapshots persists the last generated report
type Snapshots interface {
	Load(ctx context.Context) (*cache.Snapshot, error)
	Update(ctx context.Context, fn func(*cache.Snapshot)) error
}

// Service generates reports from the store or the Gateway
type Service struct {
	gw            Gateway
	source        Source
	snapshots     Snapshots
	defaultSource domain.ReportSource
	capacity      Capacity
	logger        *zap.Logger
}

func NewService(gw Gateway, source Source, snapshots Snapshots, defaultSource domain.ReportSource, capacity Capacity, logger *zap.Logger) *Service {
	if !defaultSource.IsValid() {
		defaultSource = domain.ReportSourceLocal
	}
	return &Service{
		gw:            gw,
		source:        source,
		snapshots:     snapshots,
		defaultSource: defaultSource,
		capacity:      capacity,
		logger:        logger,
	}
}

// Generate builds the report for iv. An empty source selects the configured
// default. Empty intervals return an empty report without any Gateway call
// and are not cached.
func (s *Service) Generate(ctx context.Context, iv Interval, source domain.ReportSource) (*domain.Report, error) {
	if source == "" {
		source = s.defaultSource
	}
	if !source.IsValid() {
		return nil, fmt.Errorf("%w: unknown report source %q", domain.ErrInvalidInput, source)
	}
	if iv.IsEmpty() {
		return Empty(iv, source), nil
	}

	var (
		r   *domain.Report
		err error
	)
	switch source {
	case domain.ReportSourceRemote:
		r, err = s.gw.Report(ctx, iv.Start, iv.End)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch report: %w", err)
		}
		r.Start, r.End, r.Source = iv.Start, iv.End, domain.ReportSourceRemote
	default:
		r = Aggregate(s.source.Customers(), iv)
	}

	s.logger.Info("Report generated",
		zap.String("source", string(r.Source)),
		zap.Time("start", iv.Start),
		zap.Time("end", iv.End),
		zap.Int("cars", r.TotalCars),
		zap.String("income", r.TotalIncome.String()),
	)

	if s.snapshots != nil {
		cached := *r
		if err := s.snapshots.Update(ctx, func(snap *cache.Snapshot) { snap.Report = &cached }); err != nil {
			s.logger.Warn("Failed to cache report", zap.Error(err))
		}
	}
	return r, nil
}

// Cached returns the last generated report, or nil when none was saved
func (s *Service) Cached(ctx context.Context) (*domain.Report, error) {
	if s.snapshots == nil {
		return nil, nil
	}
	snap, err := s.snapshots.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load cached report: %w", err)
	}
	return snap.Report, nil
}

// Dashboard summarizes the current store contents
func (s *Service) Dashboard(now time.Time) domain.DashboardSummary {
	return Summarize(s.source.Customers(), s.source.Mechanics(), s.capacity, now)
}
