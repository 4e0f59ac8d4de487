package services

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"metro-rent-assistant/apperrors"
	"metro-rent-assistant/models"
	"metro-rent-assistant/utils"
)

// RecommenderOptions tune the ranking queries.
type RecommenderOptions struct {
	// RowLimit bounds intent results and is the default limit of the
	// ranking queries.
	RowLimit int
	// IncludeUSAggregate keeps the country-wide row in rankings.
	IncludeUSAggregate bool
}

// BudgetQuery describes a budget filter. Limit <= 0 returns every match.
type BudgetQuery struct {
	Budget float64
	State  string
	Trend  models.TrendLabel
	Limit  int
}

// Recommender executes ranking, filtering and comparison queries against
// the dataset store. It never mutates a record.
type Recommender struct {
	store    *DatasetStore
	resolver *MetroResolver
	opts     RecommenderOptions
	logger   *utils.Logger
}

// NewRecommender creates a recommender over store.
func NewRecommender(store *DatasetStore, opts RecommenderOptions, logger *utils.Logger) *Recommender {
	if opts.RowLimit <= 0 {
		opts.RowLimit = models.DefaultRowLimit
	}
	if logger == nil {
		logger = utils.NewNopLogger()
	}
	return &Recommender{
		store:    store,
		resolver: NewMetroResolver(store),
		opts:     opts,
		logger:   logger,
	}
}

// RowLimit returns the configured result bound.
func (r *Recommender) RowLimit() int {
	return r.opts.RowLimit
}

// FilterByBudget returns metros whose current rent is at or under the
// budget, cheapest first. The budget must be positive and finite.
func (r *Recommender) FilterByBudget(q BudgetQuery) ([]*models.MetroRecord, error) {
	if q.Budget <= 0 || math.IsNaN(q.Budget) || math.IsInf(q.Budget, 0) {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidBudget, q.Budget)
	}
	switch q.Trend {
	case "", models.TrendRising, models.TrendFlat, models.TrendFalling:
	default:
		return nil, fmt.Errorf("%w: %q", apperrors.ErrInvalidTrend, q.Trend)
	}

	rows, err := r.candidates(q.State, currentRent)
	if err != nil {
		return nil, err
	}

	matched := rows[:0]
	for _, m := range rows {
		if *m.CurrentRent > q.Budget {
			continue
		}
		if q.Trend != "" && m.TrendLabel != q.Trend {
			continue
		}
		matched = append(matched, m)
	}

	sortBy(matched, currentRent, true)
	return truncate(matched, q.Limit), nil
}

// CheapestMetros ranks metros by current rent, lowest first.
func (r *Recommender) CheapestMetros(limit int, state string) ([]*models.MetroRecord, error) {
	return r.rankBy(currentRent, true, limit, state)
}

// MostExpensiveMetros ranks metros by current rent, highest first.
func (r *Recommender) MostExpensiveMetros(limit int, state string) ([]*models.MetroRecord, error) {
	return r.rankBy(currentRent, false, limit, state)
}

// BestRentGrowth ranks metros by percentage rent change over the horizon.
// Up puts the largest signed change first, down the most negative.
func (r *Recommender) BestRentGrowth(limit int, horizon models.Horizon, direction models.Direction, state string) ([]*models.MetroRecord, error) {
	var column func(*models.MetroRecord) *float64
	switch horizon {
	case models.Horizon3Y:
		column = pct3yr
	case models.Horizon5Y:
		column = pct5yr
	default:
		return nil, fmt.Errorf("%w: %q", apperrors.ErrInvalidHorizon, horizon)
	}

	switch direction {
	case models.DirectionUp, models.DirectionDown:
	default:
		return nil, fmt.Errorf("%w: %q", apperrors.ErrInvalidDirection, direction)
	}

	return r.rankBy(column, direction == models.DirectionDown, limit, state)
}

// CompareMetros resolves both names independently. Unresolved names are
// nil records in the result.
func (r *Recommender) CompareMetros(nameA, nameB string) (*models.CompareResult, error) {
	a, err := r.resolver.Resolve(nameA)
	if err != nil {
		return nil, err
	}
	b, err := r.resolver.Resolve(nameB)
	if err != nil {
		return nil, err
	}

	res := &models.CompareResult{QueryA: nameA, QueryB: nameB, A: a, B: b}
	if a != nil && b != nil && a.CurrentRent != nil && b.CurrentRent != nil {
		res.RentDifference = models.Float(*b.CurrentRent - *a.CurrentRent)
	}
	return res, nil
}

// Resolve looks up a single metro by name.
func (r *Recommender) Resolve(name string) (*models.MetroRecord, error) {
	return r.resolver.Resolve(name)
}

// Execute runs the query plan for intent, bounded to the row limit.
func (r *Recommender) Execute(intent models.Intent) (*models.QueryResult, error) {
	res := &models.QueryResult{Intent: intent}
	limit := r.opts.RowLimit

	var err error
	switch in := intent.(type) {
	case models.EmptyIntent:
	case models.CompareIntent:
		res.Compare, err = r.CompareMetros(in.MetroA, in.MetroB)
	case models.GrowthIntent:
		res.Rows, err = r.BestRentGrowth(limit, in.Horizon, in.Direction, in.State)
	case models.CheapestIntent:
		res.Rows, err = r.CheapestMetros(limit, in.State)
	case models.MostExpensiveIntent:
		res.Rows, err = r.MostExpensiveMetros(limit, in.State)
	case models.BudgetSearchIntent:
		if in.Budget == nil {
			res.Rows, err = r.CheapestMetros(limit, in.State)
		} else {
			res.Rows, err = r.FilterByBudget(BudgetQuery{Budget: *in.Budget, State: in.State, Limit: limit})
		}
	default:
		err = fmt.Errorf("unsupported intent %T", intent)
	}
	if err != nil {
		return nil, err
	}

	r.logger.Debug("[recommender] %s intent returned %d rows", intent.Kind(), len(res.Rows))
	return res, nil
}

func (r *Recommender) rankBy(column func(*models.MetroRecord) *float64, ascending bool, limit int, state string) ([]*models.MetroRecord, error) {
	if limit <= 0 {
		limit = r.opts.RowLimit
	}
	rows, err := r.candidates(state, column)
	if err != nil {
		return nil, err
	}
	sortBy(rows, column, ascending)
	return truncate(rows, limit), nil
}

// candidates returns a fresh slice of rows where column is present, the
// state matches (when given) and, unless configured otherwise, the US
// aggregate row is skipped. Rows without a state never match a state filter.
func (r *Recommender) candidates(state string, column func(*models.MetroRecord) *float64) ([]*models.MetroRecord, error) {
	table, err := r.store.Load()
	if err != nil {
		return nil, err
	}

	state = strings.TrimSpace(state)
	out := make([]*models.MetroRecord, 0, len(table.Rows))
	for _, m := range table.Rows {
		if !r.opts.IncludeUSAggregate && m.IsUSAggregate() {
			continue
		}
		if column(m) == nil {
			continue
		}
		if state != "" && (m.State == "" || !strings.EqualFold(m.State, state)) {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

func currentRent(m *models.MetroRecord) *float64 { return m.CurrentRent }
func pct3yr(m *models.MetroRecord) *float64      { return m.Rent3yrPctChange }
func pct5yr(m *models.MetroRecord) *float64      { return m.Rent5yrPctChange }

// sortBy orders rows on a column that is present on every row. The sort is
// stable so ties keep table order.
func sortBy(rows []*models.MetroRecord, column func(*models.MetroRecord) *float64, ascending bool) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := *column(rows[i]), *column(rows[j])
		if ascending {
			return a < b
		}
		return a > b
	})
}

func truncate(rows []*models.MetroRecord, limit int) []*models.MetroRecord {
	if limit > 0 && len(rows) > limit {
		return rows[:limit]
	}
	return rows
}
