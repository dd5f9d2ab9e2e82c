package orchestration

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/vsinha/rawmat/pkg/application/dto"
	"github.com/vsinha/rawmat/pkg/application/services/allocation"
	"github.com/vsinha/rawmat/pkg/application/services/bom"
	"github.com/vsinha/rawmat/pkg/application/services/forecast"
	"github.com/vsinha/rawmat/pkg/application/services/netting"
	"github.com/vsinha/rawmat/pkg/application/services/risk"
	"github.com/vsinha/rawmat/pkg/application/services/safetystock"
	"github.com/vsinha/rawmat/pkg/application/services/supplier"
	"github.com/vsinha/rawmat/pkg/config"
	"github.com/vsinha/rawmat/pkg/domain/entities"
	"github.com/vsinha/rawmat/pkg/infrastructure/events"
	"github.com/vsinha/rawmat/pkg/infrastructure/metrics"
)

// Stage names used in logs, metrics and stage errors
const (
	StageForecast     = "forecast"
	StageExplosion    = "bom_explosion"
	StageNetting      = "netting"
	StageSafetyStock  = "safety_stock"
	StageSupplier     = "supplier_selection"
	StageSummary      = "summary"
	StageEnrichment   = "forecast_enrichment"
	StageStyleYarnBOM = "style_yarn_bom"
)

// PlanningOrchestrator runs the procurement pipeline: unify forecasts, explode the
// BOM, net against inventory, add safety stock, select suppliers and summarize.
// It keeps no state between runs.
type PlanningOrchestrator struct {
	cfg config.PlanningConfig

	aggregator *forecast.Aggregator
	exploder   *bom.Exploder
	netter     *netting.Netter
	estimator  *safetystock.Estimator
	scorer     *supplier.Scorer
	sizer      *supplier.OrderSizer
	allocator  *allocation.Allocator
	assessor   *risk.Assessor

	salesHistory SalesHistorySource
	styleYarn    StyleYarnExploder
	styleYarnSet bool

	logger     *zap.Logger
	clock      func() time.Time
	eventStore events.EventStore
	metrics    *metrics.PlanningMetrics
}

// Option configures a PlanningOrchestrator
type Option func(*PlanningOrchestrator)

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(po *PlanningOrchestrator) {
		if logger != nil {
			po.logger = logger
		}
	}
}

// WithClock sets the source of the run date
func WithClock(clock func() time.Time) Option {
	return func(po *PlanningOrchestrator) {
		if clock != nil {
			po.clock = clock
		}
	}
}

// WithEventStore records run events into the store, one stream per run id
func WithEventStore(store events.EventStore) Option {
	return func(po *PlanningOrchestrator) {
		po.eventStore = store
	}
}

// WithMetrics records run metrics
func WithMetrics(m *metrics.PlanningMetrics) Option {
	return func(po *PlanningOrchestrator) {
		po.metrics = m
	}
}

// WithSalesHistory merges sales-history forecasts into stage 1
func WithSalesHistory(source SalesHistorySource) Option {
	return func(po *PlanningOrchestrator) {
		if source != nil {
			po.salesHistory = source
		}
	}
}

// WithStyleYarnExploder replaces the style-yarn exploder used when
// use_style_yarn_bom is set. A nil exploder leaves style-yarn runs on the flat BOM.
func WithStyleYarnExploder(exploder StyleYarnExploder) Option {
	return func(po *PlanningOrchestrator) {
		po.styleYarn = exploder
		po.styleYarnSet = true
	}
}

// NewPlanningOrchestrator validates the configuration and wires the pipeline.
// An invalid configuration is returned as *entities.ConfigError before anything runs.
func NewPlanningOrchestrator(cfg config.PlanningConfig, opts ...Option) (*PlanningOrchestrator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	po := &PlanningOrchestrator{
		cfg:          cfg,
		salesHistory: NoSalesHistory{},
		logger:       zap.NewNop(),
		clock:        time.Now,
	}
	for _, opt := range opts {
		opt(po)
	}

	weights := make(map[entities.ForecastSource]float64, len(cfg.ForecastSourceWeights))
	for name, weight := range cfg.ForecastSourceWeights {
		source, err := entities.ParseForecastSource(name)
		if err != nil {
			return nil, &entities.ConfigError{Field: "forecast_source_weights", Message: err.Error()}
		}
		weights[source] = weight
	}

	po.aggregator = forecast.NewAggregatorWithWeights(weights)
	po.exploder = bom.NewExploder(po.logger)
	po.netter = netting.NewNetter(po.logger)
	po.estimator = safetystock.NewEstimator(cfg, po.logger)
	po.scorer = supplier.NewScorer(cfg)
	po.sizer = supplier.NewOrderSizer(cfg)
	po.allocator = allocation.NewAllocator(po.sizer, po.logger)
	po.assessor = risk.NewAssessor()
	if !po.styleYarnSet {
		po.styleYarn = bom.NewPercentageExploder(po.logger)
	}

	return po, nil
}

// planningRun accumulates the non-fatal outcomes of one run
type planningRun struct {
	id          string
	orderDate   time.Time
	warnings    []entities.ComputationWarning
	stageErrors []*entities.PipelineStageError
}

func (r *planningRun) warn(warnings ...entities.ComputationWarning) {
	r.warnings = append(r.warnings, warnings...)
}

// materialNeed is a buffered requirement handed to supplier selection
type materialNeed struct {
	materialID  entities.MaterialID
	unit        string
	requirement float64
}

// materialOutcome is the stage 5 output of one material
type materialOutcome struct {
	recommendations []*entities.Recommendation
	warnings        []entities.ComputationWarning
}

// Plan runs the pipeline over one input snapshot. Stages run strictly in order;
// only supplier selection fans out per material. Non-fatal problems come back as
// warnings and stage errors on the result. An error is returned only for a nil
// input or a cancelled context.
func (po *PlanningOrchestrator) Plan(ctx context.Context, input *PlanningInput) (*dto.PlanningResult, error) {
	if input == nil {
		return nil, fmt.Errorf("planning input cannot be nil")
	}

	timer := metrics.NewTimer()
	now := po.clock().UTC()
	run := &planningRun{
		id:          uuid.NewString(),
		orderDate:   time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC),
		warnings:    make([]entities.ComputationWarning, 0),
		stageErrors: make([]*entities.PipelineStageError, 0),
	}
	logger := po.logger.With(zap.String("run_id", run.id))

	po.emit(run.id, events.RunStarted{
		Forecasts: len(input.Forecasts),
		Materials: len(input.Inventory),
		Offers:    len(input.Offers),
		StyleYarn: po.cfg.UseStyleYarnBOM,
	})
	logger.Debug("planning run started",
		zap.Int("forecasts", len(input.Forecasts)),
		zap.Int("offers", len(input.Offers)))

	var demand map[entities.SKU]float64
	po.stage(StageForecast, func() {
		demand = po.unifyForecasts(ctx, run, input, logger)
	})
	if err := ctx.Err(); err != nil {
		return nil, po.cancelled(run, err)
	}

	var requirements *bom.RequirementSet
	po.stage(StageExplosion, func() {
		requirements = po.explode(ctx, run, input, demand, logger)
	})
	if err := ctx.Err(); err != nil {
		return nil, po.cancelled(run, err)
	}

	var netted *netting.Result
	po.stage(StageNetting, func() {
		netted = po.net(run, input, requirements)
	})
	if err := ctx.Err(); err != nil {
		return nil, po.cancelled(run, err)
	}

	var plans []dto.MaterialPlan
	var needs []materialNeed
	po.stage(StageSafetyStock, func() {
		plans, needs = po.buffer(run, input, requirements, netted)
	})
	if err := ctx.Err(); err != nil {
		return nil, po.cancelled(run, err)
	}

	var recommendations []*entities.Recommendation
	var selectErr error
	po.stage(StageSupplier, func() {
		recommendations, selectErr = po.selectSuppliers(ctx, run, input, needs)
	})
	if selectErr != nil {
		return nil, po.cancelled(run, selectErr)
	}

	var summary dto.PlanningSummary
	po.stage(StageSummary, func() {
		summary = BuildSummary(recommendations, po.cfg.TopN)
	})

	result := &dto.PlanningResult{
		RunID:           run.id,
		PlanningDate:    run.orderDate,
		Recommendations: recommendations,
		MaterialPlans:   plans,
		Warnings:        run.warnings,
		StageErrors:     make([]dto.StageErrorReport, 0, len(run.stageErrors)),
		Summary:         summary,
	}
	for _, stageErr := range run.stageErrors {
		result.StageErrors = append(result.StageErrors, dto.StageErrorReport{
			Stage: stageErr.Stage,
			Error: stageErr.Err.Error(),
		})
	}

	po.record(run, result)
	logger.Info("planning run completed",
		zap.Int("recommendations", len(recommendations)),
		zap.Int("warnings", len(run.warnings)),
		zap.Int("stage_errors", len(run.stageErrors)),
		zap.String("total_cost", summary.TotalCost.StringFixed(2)),
		zap.Duration("duration", timer.Duration()))

	return result, nil
}

// unifyForecasts is stage 1. A failing sales-history source is recorded and skipped.
func (po *PlanningOrchestrator) unifyForecasts(
	ctx context.Context,
	run *planningRun,
	input *PlanningInput,
	logger *zap.Logger,
) map[entities.SKU]float64 {
	forecasts := append([]*entities.Forecast(nil), input.Forecasts...)

	extra, err := po.salesHistory.SalesForecasts(ctx)
	if err != nil {
		po.stageFailed(run, StageEnrichment, err, logger)
	} else if len(extra) > 0 {
		forecasts = append(forecasts, extra...)
		logger.Debug("sales history merged", zap.Int("forecasts", len(extra)))
	}

	return po.aggregator.Unify(forecasts)
}

// explode is stage 2. Style-yarn mode falls back to the flat BOM when no exploder is
// wired or the exploder fails.
func (po *PlanningOrchestrator) explode(
	ctx context.Context,
	run *planningRun,
	input *PlanningInput,
	demand map[entities.SKU]float64,
	logger *zap.Logger,
) *bom.RequirementSet {
	if po.cfg.UseStyleYarnBOM {
		if po.styleYarn == nil {
			logger.Warn("style-yarn BOM requested without an exploder, using flat BOM")
		} else {
			set, err := po.styleYarn.Explode(ctx, demand, input.BlendLines)
			if err == nil {
				run.warn(set.Warnings...)
				return set
			}
			po.stageFailed(run, StageStyleYarnBOM, err, logger)
		}
	}

	set := po.exploder.ExplodeFlat(demand, input.BOMLines)
	run.warn(set.Warnings...)
	return set
}

// net is stage 3
func (po *PlanningOrchestrator) net(run *planningRun, input *PlanningInput, requirements *bom.RequirementSet) *netting.Result {
	gross := make(map[entities.MaterialID]netting.GrossRequirement, len(requirements.Requirements))
	for id, req := range requirements.Requirements {
		gross[id] = netting.GrossRequirement{MaterialID: id, Qty: req.TotalQty, Unit: req.Unit}
	}

	result := po.netter.Net(gross, input.inventoryByMaterial())
	run.warn(result.Warnings...)

	for _, id := range result.MaterialIDs() {
		req := result.Requirements[id]
		po.emit(run.id, events.RequirementNetted{
			MaterialID: id,
			Gross:      req.Gross,
			Available:  req.Available(),
			Net:        req.Net,
			Status:     req.Status,
		})
	}
	return result
}

// buffer is stage 4. Only materials short after netting carry safety stock.
func (po *PlanningOrchestrator) buffer(
	run *planningRun,
	input *PlanningInput,
	requirements *bom.RequirementSet,
	netted *netting.Result,
) ([]dto.MaterialPlan, []materialNeed) {
	offers := input.offersByMaterial()
	plans := make([]dto.MaterialPlan, 0, len(netted.Requirements))
	needs := make([]materialNeed, 0)

	for _, id := range netted.MaterialIDs() {
		req := netted.Requirements[id]
		plan := dto.MaterialPlan{
			MaterialID: id,
			Unit:       req.Unit,
			Gross:      req.Gross,
			OnHand:     req.OnHand,
			OpenPO:     req.OpenPO,
			Net:        req.Net,
			Status:     req.Status,
			Buffered:   req.Net,
		}
		if gross := requirements.Get(id); gross != nil {
			plan.Name = gross.Name
		}

		if req.Net > 0 {
			estimate := po.estimator.Estimate(id, req.Net, input.history(id), po.leadTimeDays(offers[id]))
			if estimate.Warning != nil {
				run.warn(*estimate.Warning)
			}
			plan.SafetyStock = estimate.Qty
			plan.SafetyStockMethod = string(estimate.Method)
			plan.SafetyStockFallback = estimate.Fallback
			plan.Buffered = req.Net + estimate.Qty

			needs = append(needs, materialNeed{
				materialID:  id,
				unit:        req.Unit,
				requirement: plan.Buffered,
			})
		}

		plans = append(plans, plan)
	}

	return plans, needs
}

// leadTimeDays is the longest quoted lead time of a material, or the configured default
func (po *PlanningOrchestrator) leadTimeDays(offers []*entities.SupplierOffer) int {
	if len(offers) == 0 {
		return po.cfg.DefaultLeadTimeDays
	}
	longest := 0
	for _, offer := range offers {
		if offer.LeadTimeDays > longest {
			longest = offer.LeadTimeDays
		}
	}
	return longest
}

// selectSuppliers is stage 5. Materials are independent, so each gets its own
// goroutine and its own result slot; slots are merged in material order after the
// barrier and the recommendations sorted by material then supplier.
func (po *PlanningOrchestrator) selectSuppliers(
	ctx context.Context,
	run *planningRun,
	input *PlanningInput,
	needs []materialNeed,
) ([]*entities.Recommendation, error) {
	offers := input.offersByMaterial()
	outcomes := make([]materialOutcome, len(needs))

	g, gctx := errgroup.WithContext(ctx)
	if po.cfg.Workers > 0 {
		g.SetLimit(po.cfg.Workers)
	}
	for i, need := range needs {
		i, need := i, need
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			outcomes[i] = po.planMaterial(need, offers[need.materialID], run.orderDate)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	recommendations := make([]*entities.Recommendation, 0, len(needs))
	for _, outcome := range outcomes {
		recommendations = append(recommendations, outcome.recommendations...)
		run.warn(outcome.warnings...)
	}
	SortRecommendations(recommendations)

	return recommendations, nil
}

// planMaterial selects the supplier or suppliers of one material and builds the
// recommendations. It touches no shared state.
func (po *PlanningOrchestrator) planMaterial(
	need materialNeed,
	offers []*entities.SupplierOffer,
	orderDate time.Time,
) materialOutcome {
	outcome := materialOutcome{}

	ranked := po.scorer.Rank(offers)
	if len(ranked) == 0 {
		outcome.warnings = append(outcome.warnings, entities.NewComputationWarning(
			entities.WarningNoEligibleSupplier,
			string(need.materialID),
			"no eligible supplier for requirement of %g %s (%d offers)",
			need.requirement, need.unit, len(offers),
		))
		return outcome
	}

	if po.cfg.EnableMultiSupplier && len(ranked) > 1 {
		scoreBySupplier := make(map[entities.SupplierID]supplier.ScoredOffer, len(ranked))
		candidates := make([]*entities.SupplierOffer, 0, len(ranked))
		for _, scored := range ranked {
			scoreBySupplier[scored.Offer.SupplierID] = scored
			candidates = append(candidates, scored.Offer)
		}

		allocated := po.allocator.Allocate(need.materialID, need.requirement, candidates)
		if allocated.Warning != nil {
			outcome.warnings = append(outcome.warnings, *allocated.Warning)
		}
		for _, a := range allocated.Allocations {
			rec := po.recommend(need, scoreBySupplier[a.Offer.SupplierID], a.Qty, a.EOQ, orderDate, entities.MultiSupplier)
			if rec != nil {
				outcome.recommendations = append(outcome.recommendations, rec)
			}
		}
		return outcome
	}

	best := ranked[0]
	plan := po.sizer.Size(best.Offer, need.requirement)
	if rec := po.recommend(need, best, plan.OrderQty, plan.EOQ, orderDate, entities.SingleSupplier); rec != nil {
		outcome.recommendations = append(outcome.recommendations, rec)
	}
	return outcome
}

func (po *PlanningOrchestrator) recommend(
	need materialNeed,
	scored supplier.ScoredOffer,
	qty, eoq float64,
	orderDate time.Time,
	mode entities.AllocationMode,
) *entities.Recommendation {
	offer := scored.Offer
	rec, err := entities.NewRecommendation(need.materialID, offer.SupplierID, qty, offer.CostPerUnit, orderDate, offer.LeadTimeDays)
	if err != nil {
		po.logger.Error("failed to create recommendation",
			zap.String("material_id", string(need.materialID)),
			zap.String("supplier_id", string(offer.SupplierID)),
			zap.Error(err))
		return nil
	}

	rec.Unit = need.unit
	rec.Requirement = need.requirement
	rec.EOQ = eoq
	rec.Score = scored.Score
	rec.Tier = scored.Tier
	rec.Mode = mode
	po.assessor.Apply(rec, offer.Reliability)

	return rec
}

// SortRecommendations orders recommendations by material id then supplier id
func SortRecommendations(recommendations []*entities.Recommendation) {
	sort.SliceStable(recommendations, func(i, j int) bool {
		if recommendations[i].MaterialID != recommendations[j].MaterialID {
			return recommendations[i].MaterialID < recommendations[j].MaterialID
		}
		return recommendations[i].SupplierID < recommendations[j].SupplierID
	})
}

func (po *PlanningOrchestrator) stage(name string, fn func()) {
	timer := metrics.NewTimer()
	fn()
	if po.metrics != nil {
		po.metrics.RecordStage(name, timer.Duration())
	}
}

func (po *PlanningOrchestrator) stageFailed(run *planningRun, stage string, err error, logger *zap.Logger) {
	stageErr := &entities.PipelineStageError{Stage: stage, Err: err}
	run.stageErrors = append(run.stageErrors, stageErr)

	logger.Warn("optional stage feature failed, using default behavior",
		zap.String("stage", stage),
		zap.Error(err))
	if po.metrics != nil {
		po.metrics.RecordFallback(stage)
	}
	po.emit(run.id, events.StageFailed{Stage: stage, Error: err.Error()})
}

func (po *PlanningOrchestrator) cancelled(run *planningRun, err error) error {
	if po.metrics != nil {
		po.metrics.RecordRun("cancelled", 0)
	}
	return fmt.Errorf("planning run %s cancelled: %w", run.id, err)
}

// record publishes the outcome of a completed run to the event store and metrics
func (po *PlanningOrchestrator) record(run *planningRun, result *dto.PlanningResult) {
	for _, rec := range result.Recommendations {
		po.emit(run.id, events.RecommendationCreated{Recommendation: *rec})
		if po.metrics != nil {
			po.metrics.RecordRecommendation(string(rec.Mode))
		}
	}
	for _, warning := range result.Warnings {
		po.emit(run.id, events.WarningRaised{Warning: warning})
		if po.metrics != nil {
			po.metrics.RecordWarning(string(warning.Code))
		}
	}
	po.emit(run.id, events.RunCompleted{
		Recommendations: len(result.Recommendations),
		Warnings:        len(result.Warnings),
		TotalCost:       result.Summary.TotalCost,
	})
	if po.metrics != nil {
		po.metrics.RecordRun("success", result.Summary.TotalCost.InexactFloat64())
	}
}

func (po *PlanningOrchestrator) emit(runID string, payload events.Payload) {
	if po.eventStore == nil {
		return
	}
	if err := po.eventStore.AppendEvent(runID, events.NewEvent(runID, payload, po.clock())); err != nil {
		po.logger.Warn("failed to record event",
			zap.String("event_type", payload.EventType()),
			zap.Error(err))
	}
}
