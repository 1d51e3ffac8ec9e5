package spending

import (
	"context"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/budgetflow/budgetflow/pkg/usaspending"
)

// Loader fetches categories and amount records from the spending API.
// Both load phases are full fan-out: every request in a phase is issued
// before any response is awaited, and a single failure aborts the phase.
type Loader struct {
	client *usaspending.Client
	logger *log.Logger
}

// NewLoader creates a Loader. A nil logger falls back to log.Default().
func NewLoader(client *usaspending.Client, logger *log.Logger) *Loader {
	if logger == nil {
		logger = log.Default()
	}
	return &Loader{client: client, logger: logger}
}

// Categories runs one aggregate query per axis, all concurrently, and
// returns the table of categories with non-zero amounts in response order.
func (l *Loader) Categories(ctx context.Context, fy string) (Table, error) {
	lists := make([][]Category, len(Kinds))

	g, ctx := errgroup.WithContext(ctx)
	for i, kind := range Kinds {
		g.Go(func() error {
			results, err := l.client.Spending(ctx, usaspending.Request{
				Type:    string(kind),
				Filters: usaspending.Filters{FY: fy},
			})
			if err != nil {
				return err
			}
			categories := make([]Category, 0, len(results))
			for _, r := range results {
				if r.Amount == 0 {
					continue
				}
				categories = append(categories, Category{ID: r.ID.String(), Name: r.Name})
			}
			lists[i] = categories
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	table := make(Table, len(Kinds))
	for i, kind := range Kinds {
		table[kind] = lists[i]
		l.logger.Debug("loaded categories", "kind", kind, "count", len(lists[i]))
	}
	return table, nil
}

// Amounts queries the agency breakdown for every (object class, budget
// function) pair in the table, all concurrently, and returns the flat
// record list. Records appear in request-issue order: object classes
// outermost, budget functions inner, agencies in response order. Agency
// rows with zero amounts are dropped; agency identifiers are never kept.
func (l *Loader) Amounts(ctx context.Context, fy string, table Table) ([]Record, error) {
	type pair struct {
		objectClass    Category
		budgetFunction Category
	}

	var pairs []pair
	for _, oc := range table[KindObjectClass] {
		for _, bf := range table[KindBudgetFunction] {
			pairs = append(pairs, pair{objectClass: oc, budgetFunction: bf})
		}
	}

	// One slot per pair so response order cannot perturb record order.
	slots := make([][]Record, len(pairs))

	g, ctx := errgroup.WithContext(ctx)
	for i, p := range pairs {
		g.Go(func() error {
			results, err := l.client.Spending(ctx, usaspending.Request{
				Type: string(KindAgency),
				Filters: usaspending.Filters{
					FY:             fy,
					ObjectClass:    p.objectClass.ID,
					BudgetFunction: p.budgetFunction.ID,
				},
			})
			if err != nil {
				return err
			}
			records := make([]Record, 0, len(results))
			for _, r := range results {
				if r.Amount == 0 {
					continue
				}
				records = append(records, Record{
					ObjectClass:    p.objectClass.Name,
					BudgetFunction: p.budgetFunction.Name,
					Agency:         r.Name,
					Amount:         r.Amount,
				})
			}
			slots[i] = records
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var records []Record
	for _, s := range slots {
		records = append(records, s...)
	}
	l.logger.Debug("loaded amounts", "pairs", len(pairs), "records", len(records))
	return records, nil
}
