package engine

import (
	"time"

	"github.com/google/uuid"

	ordermodel "github.com/agustxnpm/foodflow-sub003/internal/domains/order/model"
	"github.com/agustxnpm/foodflow-sub003/internal/domains/promotion/model"
	"github.com/agustxnpm/foodflow-sub003/pkg/money"
)

// Policy holds the tunable edges of engine behavior.
//
// AttributeZeroDiscount controls what happens when the winning promotion
// computes a zero discount (e.g. a 2x1 with a single unit on the order):
// false leaves the lines unattributed, true records the promotion with a
// zero amount so the ticket can show "promo pending one more unit".
type Policy struct {
	AttributeZeroDiscount bool
}

// Engine is the promotion rule engine. It is stateless and pure with respect
// to everything except the order passed in: no I/O, no locks, no retained
// state between calls. Concurrent recalculation of the SAME order must be
// serialized by the caller.
type Engine struct {
	policy Policy
}

// New builds an engine with the given policy.
func New(policy Policy) *Engine {
	return &Engine{policy: policy}
}

// NewDefault builds an engine with the default policy: no attribution
// without an actual discount.
func NewDefault() *Engine {
	return &Engine{}
}

// Recalculate re-runs every candidate promotion against the order and
// rewrites the engine-owned fields (discount, promotion id/name) of every
// line. Manual discounts are never touched. Idempotent: unchanged inputs
// produce identical output.
//
// Candidates are assumed pre-filtered (tenant, status ACTIVE) and valid;
// their list order is the tie-break for equal priorities.
func (e *Engine) Recalculate(order *ordermodel.Order, candidates []*model.Promotion, now time.Time) {
	order.ClearPromotions()
	if len(order.Lines) == 0 || len(candidates) == 0 {
		return
	}

	ctx := model.NewEvalContext(now, order.ProductIDs(), order.GrossSubtotal())

	for _, group := range groupLines(order) {
		e.applyBest(order, group, candidates, ctx)
	}
}

// ApplyOnAdd adds a product to the order (merging into an existing line when
// the configuration is identical) and recalculates the whole order so
// cross-line thresholds involving sibling lines stay consistent. Returns the
// affected line.
func (e *Engine) ApplyOnAdd(
	order *ordermodel.Order,
	productID uuid.UUID,
	categoryID uuid.UUID,
	productName string,
	unitPrice money.Money,
	qty money.Quantity,
	notes string,
	extras []ordermodel.Extra,
	candidates []*model.Promotion,
	now time.Time,
) (*ordermodel.OrderLine, error) {
	line, err := order.AddItem(productID, categoryID, productName, unitPrice, qty, notes, extras)
	if err != nil {
		return nil, err
	}
	e.Recalculate(order, candidates, now)
	return line, nil
}

// =====================================================
// GROUPING
// =====================================================

// productGroup collects the promotable lines of one product, in insertion
// order. Lines with extras never enter a group: a customized line is a
// different offering and gets no automatic promotion.
type productGroup struct {
	productID  uuid.UUID
	categoryID uuid.UUID
	lines      []*ordermodel.OrderLine
	totalQty   money.Quantity
}

func groupLines(order *ordermodel.Order) []*productGroup {
	byProduct := make(map[uuid.UUID]*productGroup)
	var groups []*productGroup

	for _, line := range order.Lines {
		if line.HasExtras() {
			continue
		}
		g, ok := byProduct[line.ProductID]
		if !ok {
			g = &productGroup{productID: line.ProductID, categoryID: line.CategoryID}
			byProduct[line.ProductID] = g
			groups = append(groups, g)
		}
		g.lines = append(g.lines, line)
		g.totalQty = g.totalQty.Add(line.Quantity)
	}
	return groups
}

// =====================================================
// CONFLICT RESOLUTION
// =====================================================

// application is one promotion computed against one group: the per-line
// discounts and which lines get the attribution.
type application struct {
	promo      *model.Promotion
	discounts  []money.Money
	attributed []bool
	total      money.Money
}

// applyBest computes every candidate against the group, drops the ones that
// grant nothing (unless the policy attributes zero discounts), picks the
// highest priority — first in list on ties — and writes it to the lines.
func (e *Engine) applyBest(order *ordermodel.Order, g *productGroup, candidates []*model.Promotion, ctx model.EvalContext) {
	var best *application
	for _, p := range candidates {
		if !p.IsActive() || !p.CanActivate(ctx) || !p.TargetsProduct(g.productID, g.categoryID) {
			continue
		}
		app := e.compute(order, g, p)
		if app == nil {
			continue
		}
		if app.total.IsZero() && !e.policy.AttributeZeroDiscount {
			continue
		}
		if best == nil || p.Priority > best.promo.Priority {
			best = app
		}
	}
	if best == nil {
		return
	}

	for i, line := range g.lines {
		if best.attributed[i] {
			line.ApplyPromotion(best.promo.ID, best.promo.Name, best.discounts[i])
		}
	}
}

// =====================================================
// STRATEGY DISPATCH
// =====================================================

// compute runs the promotion's strategy against the group. Returns nil when
// the strategy does not apply at all (combo with its trigger unmet); a zero
// total with allocations is a valid result, not an error.
func (e *Engine) compute(order *ordermodel.Order, g *productGroup, p *model.Promotion) *application {
	switch s := p.Strategy.(type) {
	case model.DirectDiscount:
		return e.computePerLine(g, p, func(line *ordermodel.OrderLine) money.Money {
			base := line.BaseSubtotal()
			if s.Mode == model.ModePercentage {
				return base.Percent(s.Value)
			}
			return money.New(s.Value).MulInt(line.Quantity.Int64()).Min(base)
		})

	case model.ConditionalCombo:
		if !comboTriggered(order, p, s.MinTriggerQty) {
			return nil
		}
		return e.computePerLine(g, p, func(line *ordermodel.OrderLine) money.Money {
			return line.BaseSubtotal().Percent(s.BenefitPercentage)
		})

	case model.FixedQuantity:
		cycles := g.totalQty.Cycles(s.Buy)
		freeUnits := cycles * s.FreePerCycle().Int64()
		total := g.lines[0].UnitPrice.MulInt(freeUnits)
		return e.distribute(g, p, total, g.totalQty.InCycle(s.Buy))

	case model.FixedPricePerQuantity:
		cycles := g.totalQty.Cycles(s.ActivationQty)
		perCycle := g.lines[0].UnitPrice.MulInt(s.ActivationQty.Int64()).Sub(s.PackPrice)
		if perCycle.IsNegative() {
			// Pack price above the regular price grants nothing.
			perCycle = money.Zero()
		}
		total := perCycle.MulInt(cycles)
		return e.distribute(g, p, total, g.totalQty.InCycle(s.ActivationQty))

	default:
		return nil
	}
}

// computePerLine handles strategies that are independent per line: each line
// computes its own discount, and the group sum equals the aggregate by
// construction.
func (e *Engine) computePerLine(g *productGroup, p *model.Promotion, discountFor func(*ordermodel.OrderLine) money.Money) *application {
	app := &application{
		promo:      p,
		discounts:  make([]money.Money, len(g.lines)),
		attributed: make([]bool, len(g.lines)),
		total:      money.Zero(),
	}
	for i, line := range g.lines {
		d := discountFor(line)
		app.discounts[i] = d
		app.attributed[i] = d.IsPositive() || e.policy.AttributeZeroDiscount
		app.total = app.total.Add(d)
	}
	return app
}

// distribute spreads a quantity-threshold strategy's total discount across
// the group. The discount belongs to the units inside complete cycles;
// walking the lines in insertion order, each line is allocated as many
// in-cycle units as it can cover, and the discount is split proportionally
// to those allocations (the last participating line absorbs the rounding
// remainder). Lines holding only remainder units get no discount and no
// attribution.
func (e *Engine) distribute(g *productGroup, p *model.Promotion, total money.Money, inCycle money.Quantity) *application {
	app := &application{
		promo:      p,
		discounts:  make([]money.Money, len(g.lines)),
		attributed: make([]bool, len(g.lines)),
		total:      total,
	}

	weights := make([]int64, len(g.lines))
	remaining := inCycle
	for i, line := range g.lines {
		alloc := line.Quantity
		if alloc > remaining {
			alloc = remaining
		}
		weights[i] = alloc.Int64()
		remaining -= alloc
	}

	shares := total.Shares(weights)
	for i := range g.lines {
		app.discounts[i] = shares[i]
		app.attributed[i] = weights[i] > 0
	}

	if total.IsZero() && e.policy.AttributeZeroDiscount {
		for i := range app.attributed {
			app.attributed[i] = true
			app.discounts[i] = money.Zero()
		}
	}
	return app
}

// comboTriggered checks the combo's activation: at least minQty units of a
// TRIGGER-scoped product across the order's promotable lines. A combo whose
// scope defines no triggers applies unconditionally.
func comboTriggered(order *ordermodel.Order, p *model.Promotion, minQty money.Quantity) bool {
	if len(p.Triggers()) == 0 {
		return true
	}
	var qty money.Quantity
	for _, line := range order.Lines {
		if line.HasExtras() {
			continue
		}
		if p.TriggersProduct(line.ProductID, line.CategoryID) {
			qty = qty.Add(line.Quantity)
		}
	}
	return qty >= minQty
}
