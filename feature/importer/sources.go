package importer

import (
	"context"
	"errors"
	"time"

	"bling-sync/core/utils"
	"bling-sync/core/walker"
	"bling-sync/feature/bling"
)

var errNoWindow = errors.New("windowed source called without a window")

func idRows(ids []int64) []walker.Row {
	rows := make([]walker.Row, 0, len(ids))
	for _, id := range ids {
		rows = append(rows, walker.Row{ID: id})
	}
	return rows
}

// catalogSource walks an unwindowed listing and refreshes every row.
type catalogSource struct {
	kind    string
	list    func(ctx context.Context, page int) ([]int64, error)
	refresh func(ctx context.Context, id string) error
}

func (s *catalogSource) Kind() string         { return s.kind }
func (s *catalogSource) Windowed() bool       { return false }
func (s *catalogSource) StartDate() time.Time { return time.Time{} }

func (s *catalogSource) FetchPage(ctx context.Context, page int, _ *time.Time) (walker.PageResult, error) {
	ids, err := s.list(ctx, page)
	if err != nil {
		return walker.PageResult{}, err
	}
	return walker.Page(idRows(ids), false), nil
}

func (s *catalogSource) Process(ctx context.Context, row walker.Row, _ *time.Time) error {
	return s.refresh(ctx, utils.OriginalID(row.ID))
}

// invoiceCategorySource stores operation natures straight from the listing.
type invoiceCategorySource struct {
	im *Importer
}

func (s *invoiceCategorySource) Kind() string         { return KindInvoiceCategory }
func (s *invoiceCategorySource) Windowed() bool       { return false }
func (s *invoiceCategorySource) StartDate() time.Time { return time.Time{} }

func (s *invoiceCategorySource) FetchPage(ctx context.Context, page int, _ *time.Time) (walker.PageResult, error) {
	natures, err := s.im.api.ListOperationNatures(ctx, page)
	if err != nil {
		return walker.PageResult{}, err
	}
	rows := make([]walker.Row, 0, len(natures))
	for _, n := range natures {
		rows = append(rows, walker.Row{ID: n.ID, Summary: n})
	}
	return walker.Page(rows, false), nil
}

func (s *invoiceCategorySource) Process(ctx context.Context, row walker.Row, _ *time.Time) error {
	n, ok := row.Summary.(bling.OperationNature)
	if !ok {
		_, err := s.im.invoiceCategories.Refresh(ctx, utils.OriginalID(row.ID))
		return err
	}
	return s.im.invoiceCategories.Save(ctx, mapInvoiceCategory(n))
}

// orderSource walks closed and completed orders by issue day.
type orderSource struct {
	im    *Importer
	start time.Time
}

func (s *orderSource) Kind() string         { return KindOrder }
func (s *orderSource) Windowed() bool       { return true }
func (s *orderSource) StartDate() time.Time { return s.start }

// FetchPage marks zero-total orders as skipped.
func (s *orderSource) FetchPage(ctx context.Context, page int, window *time.Time) (walker.PageResult, error) {
	if window == nil {
		return walker.PageResult{}, errNoWindow
	}
	orders, err := s.im.api.ListOrders(ctx, page, *window)
	if err != nil {
		return walker.PageResult{}, err
	}
	rows := make([]walker.Row, 0, len(orders))
	for _, o := range orders {
		rows = append(rows, walker.Row{ID: o.ID, Skip: o.Total.IsZero(), Summary: o})
	}
	return walker.Page(rows, true), nil
}

func (s *orderSource) Process(ctx context.Context, row walker.Row, _ *time.Time) error {
	summary, _ := row.Summary.(bling.OrderSummary)
	_, err := s.im.SyncOrder(ctx, row.ID, summary.Situation.ID == bling.OrderSituationClosed)
	return err
}

// accountSource walks payables or receivables by issue day.
type accountSource struct {
	im         *Importer
	kind       string
	start      time.Time
	receivable bool
}

func (s *accountSource) Kind() string         { return s.kind }
func (s *accountSource) Windowed() bool       { return true }
func (s *accountSource) StartDate() time.Time { return s.start }

func (s *accountSource) list(ctx context.Context, page int, day time.Time, by bling.DateFilter) ([]bling.AccountSummary, error) {
	if s.receivable {
		return s.im.api.ListReceivables(ctx, page, day, by)
	}
	return s.im.api.ListPayables(ctx, page, day, by)
}

func accountRows(accounts []bling.AccountSummary) []walker.Row {
	rows := make([]walker.Row, 0, len(accounts))
	for _, a := range accounts {
		rows = append(rows, walker.Row{ID: a.ID, Summary: a})
	}
	return rows
}

func (s *accountSource) FetchPage(ctx context.Context, page int, window *time.Time) (walker.PageResult, error) {
	if window == nil {
		return walker.PageResult{}, errNoWindow
	}
	accounts, err := s.list(ctx, page, *window, bling.ByIssue)
	if err != nil {
		return walker.PageResult{}, err
	}
	return walker.Page(accountRows(accounts), true), nil
}

func (s *accountSource) Process(ctx context.Context, row walker.Row, _ *time.Time) error {
	id := utils.OriginalID(row.ID)
	var err error
	if s.receivable {
		_, err = s.im.receivables.Refresh(ctx, id)
	} else {
		_, err = s.im.payables.Refresh(ctx, id)
	}
	return err
}

// settlementSource walks payables or receivables by settlement day and
// records the payments or receipts of each.
type settlementSource struct {
	im         *Importer
	kind       string
	start      time.Time
	receivable bool
}

func (s *settlementSource) Kind() string         { return s.kind }
func (s *settlementSource) Windowed() bool       { return true }
func (s *settlementSource) StartDate() time.Time { return s.start }

func (s *settlementSource) FetchPage(ctx context.Context, page int, window *time.Time) (walker.PageResult, error) {
	if window == nil {
		return walker.PageResult{}, errNoWindow
	}
	accounts := &accountSource{im: s.im, receivable: s.receivable}
	list, err := accounts.list(ctx, page, *window, bling.BySettlement)
	if err != nil {
		return walker.PageResult{}, err
	}
	return walker.Page(accountRows(list), true), nil
}

func (s *settlementSource) Process(ctx context.Context, row walker.Row, window *time.Time) error {
	if window == nil {
		return errNoWindow
	}
	_, err := s.im.Settle(ctx, utils.OriginalID(row.ID), *window, s.receivable)
	return err
}

// invoiceSource walks the invoices of one type by issue day.
type invoiceSource struct {
	im          *Importer
	kind        string
	start       time.Time
	invoiceType int
}

func (s *invoiceSource) Kind() string         { return s.kind }
func (s *invoiceSource) Windowed() bool       { return true }
func (s *invoiceSource) StartDate() time.Time { return s.start }

func (s *invoiceSource) FetchPage(ctx context.Context, page int, window *time.Time) (walker.PageResult, error) {
	if window == nil {
		return walker.PageResult{}, errNoWindow
	}
	invoices, err := s.im.api.ListInvoices(ctx, page, *window, s.invoiceType)
	if err != nil {
		return walker.PageResult{}, err
	}
	rows := make([]walker.Row, 0, len(invoices))
	for _, inv := range invoices {
		rows = append(rows, walker.Row{ID: inv.ID})
	}
	return walker.Page(rows, true), nil
}

func (s *invoiceSource) Process(ctx context.Context, row walker.Row, _ *time.Time) error {
	_, err := s.im.invoices.Refresh(ctx, utils.OriginalID(row.ID))
	return err
}
