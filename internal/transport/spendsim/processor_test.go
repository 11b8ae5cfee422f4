package spendsim

import (
	"context"
	"io"
	"sync"
	"testing"

	"github.com/fsdevblog/groph-smm/internal/domain"
	"github.com/fsdevblog/groph-smm/internal/service"
	"github.com/fsdevblog/groph-smm/internal/transport/spendsim/mocks"
	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/suite"
)

type ProcessorTestSuite struct {
	suite.Suite
	mockCtrl  *gomock.Controller
	mockSvs   *mocks.MockServicer
	processor *Processor
}

func TestProcessorSuite(t *testing.T) {
	suite.Run(t, new(ProcessorTestSuite))
}

func (s *ProcessorTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockSvs = mocks.NewMockServicer(s.mockCtrl)

	l := logrus.New()
	l.SetOutput(io.Discard)

	s.processor = New(s.mockSvs, l).SetSpendWorkers(3).SetLimitPerIteration(10)
}

func (s *ProcessorTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func (s *ProcessorTestSuite) TestProcessNoCampaigns() {
	s.mockSvs.EXPECT().ActiveCampaigns(gomock.Any(), uint(10)).Return(nil, nil)

	err := s.processor.process(s.T().Context())
	s.Require().ErrorIs(err, ErrNoCampaigns)
}

func (s *ProcessorTestSuite) TestProcessAccruesEveryCampaign() {
	campaigns := []domain.Campaign{
		{ID: 1, Budget: decimal.NewFromInt(100), Status: domain.CampaignStatusActive},
		{ID: 2, Budget: decimal.NewFromInt(50), Status: domain.CampaignStatusActive},
		{ID: 3, Budget: decimal.NewFromInt(200), Status: domain.CampaignStatusActive},
	}
	s.mockSvs.EXPECT().ActiveCampaigns(gomock.Any(), uint(10)).Return(campaigns, nil)

	var mu sync.Mutex
	seen := make(map[int64]bool)
	s.mockSvs.EXPECT().AccrueSpend(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, campaignID int64, delta service.SpendDelta) (*domain.Campaign, error) {
			mu.Lock()
			seen[campaignID] = true
			mu.Unlock()
			s.True(delta.Spend.IsPositive(), "campaign %d spend: %s", campaignID, delta.Spend)
			return &domain.Campaign{ID: campaignID, Status: domain.CampaignStatusActive}, nil
		},
	).Times(len(campaigns))

	s.Require().NoError(s.processor.process(s.T().Context()))
	s.Len(seen, len(campaigns))
}

// Кампания, ушедшая из active между выборкой и начислением, не валит итерацию.
func (s *ProcessorTestSuite) TestProcessSkipsPausedCampaign() {
	campaigns := []domain.Campaign{
		{ID: 1, Budget: decimal.NewFromInt(100), Status: domain.CampaignStatusActive},
	}
	s.mockSvs.EXPECT().ActiveCampaigns(gomock.Any(), uint(10)).Return(campaigns, nil)
	s.mockSvs.EXPECT().AccrueSpend(gomock.Any(), int64(1), gomock.Any()).
		Return(nil, domain.NewCampaignStateError(1, domain.CampaignStatusPaused, domain.CampaignStatusActive))

	s.Require().NoError(s.processor.process(s.T().Context()))
}

func (s *ProcessorTestSuite) TestDeltaForPlausibleMetrics() {
	campaign := &domain.Campaign{ID: 1, Budget: decimal.NewFromInt(1000)}

	for range 100 {
		delta := deltaFor(campaign)

		spend := delta.Spend.InexactFloat64()
		// 2% бюджета с джиттером +-30%
		s.GreaterOrEqual(spend, 1000*defaultSpendRate*0.7)
		s.LessOrEqual(spend, 1000*defaultSpendRate*1.3)

		s.GreaterOrEqual(delta.Impressions, int64(0))
		s.LessOrEqual(delta.Clicks, delta.Impressions)
		s.LessOrEqual(delta.Results, delta.Clicks)
	}
}

func TestJitter(t *testing.T) {
	for range 100 {
		got := jitter(100, 0.3, 0.3)
		if got < 70 || got > 130 {
			t.Fatalf("jitter out of range: %f", got)
		}
	}

	// отрицательные проценты откатываются к 15%
	for range 100 {
		got := jitter(100, -1, 0.3)
		if got < 85 || got > 115 {
			t.Fatalf("jitter out of range with fallback percents: %f", got)
		}
	}
}
