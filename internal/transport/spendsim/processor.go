// Package spendsim симулирует открутку активных рекламных кампаний.
package spendsim

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/fsdevblog/groph-smm/internal/service"
	"github.com/shopspring/decimal"

	"github.com/sirupsen/logrus"

	"github.com/fsdevblog/groph-smm/internal/domain"
)

const (
	defaultServiceTimeout         = 3 * time.Second
	defaultTickInterval           = 5 * time.Second
	defaultLimitPerIteration uint = 100
	defaultSpendWorkers      uint = 10

	// доля бюджета, откручиваемая за один тик до джиттера.
	defaultSpendRate = 0.02
)

// Processor в бесконечном цикле начисляет активным кампаниям траты и счетчики
// показов/кликов/результатов.
type Processor struct {
	svs               Servicer
	l                 *logrus.Entry
	limitPerIteration uint
	spendWorkers      uint
	tickInterval      time.Duration
}

// New создает новый экземпляр симулятора открутки.
func New(svs Servicer, l *logrus.Logger) *Processor {
	loggerEntry := l.WithFields(logrus.Fields{
		"component": "spendsim",
		"module":    "processor",
	})

	return &Processor{
		svs:               svs,
		l:                 loggerEntry,
		limitPerIteration: defaultLimitPerIteration,
		spendWorkers:      defaultSpendWorkers,
		tickInterval:      defaultTickInterval,
	}
}

// SetLimitPerIteration устанавливает кол-во кампаний, обрабатываемых в одной итерации.
func (p *Processor) SetLimitPerIteration(limit uint) *Processor {
	p.limitPerIteration = limit
	return p
}

// SetSpendWorkers устанавливает кол-во воркеров, начисляющих открутку.
func (p *Processor) SetSpendWorkers(workers uint) *Processor {
	p.spendWorkers = workers
	return p
}

// SetTickInterval устанавливает паузу между итерациями открутки.
func (p *Processor) SetTickInterval(interval time.Duration) *Processor {
	p.tickInterval = interval
	return p
}

// Run запускает симуляцию в бесконечном цикле до отмены контекста.
//
// Алгоритм работы:
//  1. В каждой итерации запрашивает через сервисный слой список активных кампаний.
//     Объем списка лимитируется через SetLimitPerIteration.
//  2. Для каждой итерации создаются N воркеров (кол-во настраивается через
//     SetSpendWorkers), каждый генерирует прирост открутки и применяет его
//     через сервисный слой.
//  3. Между итерациями выдерживается пауза SetTickInterval.
func (p *Processor) Run(ctx context.Context) {
	p.l.WithFields(logrus.Fields{
		"limitPerIteration": p.limitPerIteration,
		"spendWorkers":      p.spendWorkers,
		"tickInterval":      p.tickInterval,
	}).Info("Starting")

	for {
		select {
		case <-ctx.Done():
			p.l.Info("Got stop signal, exiting...")
			return
		default:
			if err := p.process(ctx); err != nil && !errors.Is(err, ErrNoCampaigns) {
				p.l.WithError(err).Error("process error")
			}
			select {
			case <-ctx.Done():
			case <-time.After(p.tickInterval):
			}
		}
	}
}

// process выполняет одну итерацию: получение активных кампаний и начисление открутки.
// Возвращает ErrNoCampaigns если крутить нечего.
func (p *Processor) process(ctx context.Context) error {
	campaigns, campaignsErr := p.produce(ctx)
	if campaignsErr != nil {
		return fmt.Errorf("process: %w", campaignsErr)
	}

	for _, result := range p.runWorkers(ctx, campaigns) {
		l := p.l.WithFields(logrus.Fields{
			"worker":     result.WorkerID,
			"campaignID": result.CampaignID,
		})
		switch {
		case result.Error != nil:
			// Кампанию могли поставить на паузу между выборкой и начислением,
			// это штатная гонка и не повод для error-лога.
			var stateErr *domain.CampaignStateError
			if errors.As(result.Error, &stateErr) {
				l.WithError(result.Error).Info("campaign left active state, skipping")
			} else {
				l.WithError(result.Error).Error("accrue spend for campaign")
			}
		case result.Completed:
			l.Info("campaign budget exhausted, completed")
		}
	}
	return nil
}

// workerResult результат начисления открутки одной кампании.
type workerResult struct {
	WorkerID   uint
	CampaignID int64
	Error      error
	Completed  bool
}

// runWorkers запускает параллельных воркеров начисления и ожидает конца их работы.
// Реализует паттерн fan-out/fan-in.
func (p *Processor) runWorkers(ctx context.Context, campaigns []domain.Campaign) []workerResult {
	var taskCh = make(chan *domain.Campaign, len(campaigns))

	for _, campaign := range campaigns {
		taskCh <- &campaign
	}
	close(taskCh)

	wg := new(sync.WaitGroup)
	wg.Add(int(p.spendWorkers)) // nolint:gosec

	var resultCh = make(chan *workerResult, len(campaigns))

	for i := range p.spendWorkers {
		go p.worker(ctx, wg, i+1, taskCh, resultCh)
	}
	wg.Wait()

	close(resultCh)

	var results = make([]workerResult, 0, len(campaigns))
	for result := range resultCh {
		results = append(results, *result)
	}
	return results
}

// worker начисляет открутку кампаниям из канала и отправляет результаты.
func (p *Processor) worker(
	ctx context.Context,
	wg *sync.WaitGroup,
	workerID uint,
	taskCh <-chan *domain.Campaign,
	resultCh chan<- *workerResult,
) {
	defer wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case task, ok := <-taskCh:
			if !ok {
				return
			}
			resultCh <- p.processWorkerTask(ctx, workerID, task)
		}
	}
}

// processWorkerTask генерирует прирост открутки и применяет его через сервисный слой.
func (p *Processor) processWorkerTask(ctx context.Context, workerID uint, task *domain.Campaign) *workerResult {
	result := workerResult{
		WorkerID:   workerID,
		CampaignID: task.ID,
	}

	reqCtx, cancel := context.WithTimeout(ctx, defaultServiceTimeout)
	defer cancel()

	updated, err := p.svs.AccrueSpend(reqCtx, task.ID, deltaFor(task))
	if err != nil {
		result.Error = err
		return &result
	}

	result.Completed = updated.Status == domain.CampaignStatusCompleted
	return &result
}

// deltaFor генерирует прирост открутки за тик. Траты это джиттерная доля бюджета,
// клики и результаты выводятся из показов через случайные ctr и конверсию,
// чтобы производные метрики кампании выглядели правдоподобно.
func deltaFor(campaign *domain.Campaign) service.SpendDelta {
	budget, _ := campaign.Budget.Float64()
	spend := jitter(budget*defaultSpendRate, 0.3, 0.3)

	// порядка тысячи показов на единицу потраченного.
	impressions := int64(jitter(spend*1000, 0.2, 0.2))
	clicks := int64(float64(impressions) * (0.01 + rand.Float64()*0.04)) // nolint:gosec
	results := int64(float64(clicks) * (0.05 + rand.Float64()*0.15))    // nolint:gosec

	return service.SpendDelta{
		Spend:       decimal.NewFromFloat(spend),
		Impressions: impressions,
		Clicks:      clicks,
		Results:     results,
	}
}

// produce получает список активных кампаний.
// Возвращает ErrNoCampaigns, если кампании отсутствуют.
func (p *Processor) produce(ctx context.Context) ([]domain.Campaign, error) {
	produceCtx, cancel := context.WithTimeout(ctx, defaultServiceTimeout)
	defer cancel()

	campaigns, campaignsErr := p.svs.ActiveCampaigns(produceCtx, p.limitPerIteration)
	if campaignsErr != nil {
		return nil, fmt.Errorf("produce: %w", campaignsErr)
	}

	if len(campaigns) == 0 {
		return nil, ErrNoCampaigns
	}
	return campaigns, nil
}

// jitter возвращает value, рассыпавшееся на случайный процент в пределах
// [1-minPercent, 1+maxPercent]. Например, при minPercent=0.15, maxPercent=0.15
// получим диапазон [0.85*value, 1.15*value].
//
// minPercent и maxPercent должны быть >= 0 (0.1 = 10%). Если указано иное, значение выставится в 0.15.
func jitter(value, minPercent, maxPercent float64) float64 {
	if minPercent < 0 || maxPercent < 0 {
		minPercent = 0.15
		maxPercent = 0.15
	}
	factor := 1 - minPercent + rand.Float64()*(minPercent+maxPercent) // nolint:gosec
	return value * factor
}
