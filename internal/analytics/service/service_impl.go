package service

import (
	"context"

	"github.com/smallbiznis/clientdesk/internal/analytics/domain"
	"github.com/smallbiznis/clientdesk/internal/analytics/engine"
	billingdomain "github.com/smallbiznis/clientdesk/internal/billing/domain"
	clientdomain "github.com/smallbiznis/clientdesk/internal/client/domain"
	"github.com/smallbiznis/clientdesk/internal/clock"
	"github.com/smallbiznis/clientdesk/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	Clock       clock.Clock
	Weights     *config.AnalyticsConfigHolder
	ClientRepo  clientdomain.Repository
	BillingRepo billingdomain.Repository
}

// Service runs the aggregation engine over a fresh snapshot per call.
type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	clock       clock.Clock
	weights     *config.AnalyticsConfigHolder
	clientRepo  clientdomain.Repository
	billingRepo billingdomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("analytics.service"),
		clock:       p.Clock,
		weights:     p.Weights,
		clientRepo:  p.ClientRepo,
		billingRepo: p.BillingRepo,
	}
}

func (s *Service) Summary(ctx context.Context, req domain.SummaryRequest) (domain.Summary, error) {
	clients, records, err := s.snapshot(ctx)
	if err != nil {
		return domain.Summary{}, err
	}
	return engine.Summary(clients, records, req.Currency, s.weights.Current()), nil
}

func (s *Service) ClientScores(ctx context.Context) (domain.ClientScores, error) {
	clients, records, err := s.snapshot(ctx)
	if err != nil {
		return domain.ClientScores{}, err
	}

	cfg := s.weights.Current()
	scores := engine.ClientScores(clients, records, cfg, s.clock.Now())
	return domain.ClientScores{
		Scores:   scores,
		HighRisk: engine.HighRisk(scores, cfg),
	}, nil
}

func (s *Service) Invoices(ctx context.Context, query domain.InvoiceQuery) ([]billingdomain.BillingRecord, error) {
	clients, records, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return engine.FilterSort(records, clients, query), nil
}

func (s *Service) Forecast(ctx context.Context) (domain.Forecast, error) {
	clients, records, err := s.snapshot(ctx)
	if err != nil {
		return domain.Forecast{}, err
	}
	return engine.Forecast(clients, records, s.weights.Current(), s.clock.Now()), nil
}

func (s *Service) Engagement(ctx context.Context) ([]domain.Engagement, error) {
	clients, records, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return engine.EngagementScores(clients, records, s.clock.Now()), nil
}

func (s *Service) Overview(ctx context.Context) (domain.Overview, error) {
	clients, records, err := s.snapshot(ctx)
	if err != nil {
		return domain.Overview{}, err
	}
	return engine.Overview(clients, records, s.clock.Now()), nil
}

// snapshot fetches both collections; fetch failures surface to the
// caller untouched, never masked by the aggregation.
func (s *Service) snapshot(ctx context.Context) ([]*clientdomain.Client, []*billingdomain.BillingRecord, error) {
	clients, err := s.clientRepo.ListAll(ctx, s.db)
	if err != nil {
		return nil, nil, err
	}
	records, err := s.billingRepo.ListAll(ctx, s.db)
	if err != nil {
		return nil, nil, err
	}
	return clients, records, nil
}
