package importer

import (
	"context"
	"errors"
	"strings"
	"time"

	"bling-sync/core/utils"
	"bling-sync/core/walker"
	"bling-sync/feature/bling"
	"bling-sync/feature/models"

	"go.uber.org/zap"
)

type payableAdapter struct {
	entity[models.Payable]
	im *Importer
}

func newPayableAdapter(im *Importer) *payableAdapter {
	return &payableAdapter{
		entity: entity[models.Payable]{
			kind:     KindPayable,
			key:      func(p *models.Payable) *uint { return &p.ID },
			original: func(p *models.Payable) string { return p.IDOriginal },
		},
		im: im,
	}
}

func (a *payableAdapter) Fetch(ctx context.Context, id string) (*models.Payable, error) {
	acc, err := a.im.loadAccount(ctx, id, false)
	if err != nil {
		return nil, err
	}
	mapped, err := a.im.mapAccount(ctx, acc)
	if err != nil {
		return nil, err
	}
	return &models.Payable{Account: *mapped}, nil
}

type receivableAdapter struct {
	entity[models.Receivable]
	im *Importer
}

func newReceivableAdapter(im *Importer) *receivableAdapter {
	return &receivableAdapter{
		entity: entity[models.Receivable]{
			kind:     KindReceivable,
			key:      func(r *models.Receivable) *uint { return &r.ID },
			original: func(r *models.Receivable) string { return r.IDOriginal },
		},
		im: im,
	}
}

func (a *receivableAdapter) Fetch(ctx context.Context, id string) (*models.Receivable, error) {
	acc, err := a.im.loadAccount(ctx, id, true)
	if err != nil {
		return nil, err
	}
	mapped, err := a.im.mapAccount(ctx, acc)
	if err != nil {
		return nil, err
	}
	return &models.Receivable{Account: *mapped}, nil
}

// loadAccount fetches an account detail and logs the payload. Payables
// without a document number get their id pushed back as the number, since
// settlements are matched on it.
func (im *Importer) loadAccount(ctx context.Context, id string, receivable bool) (*bling.Account, error) {
	n, err := parseID(id)
	if err != nil {
		return nil, err
	}

	fetch, kind := im.api.PayablePayload, cachePayable
	if receivable {
		fetch, kind = im.api.ReceivablePayload, cacheReceivable
	}
	raw, err := fetch(ctx, n)
	if err != nil {
		return nil, err
	}
	if err := im.cache.Put(ctx, kind, id, raw); err != nil {
		return nil, err
	}
	acc, err := bling.ParseAccount(raw)
	if err != nil {
		return nil, err
	}

	if !receivable && strings.TrimSpace(acc.DocumentNumber) == "" {
		err := im.api.UpdatePayableDocument(ctx, acc, id)
		switch {
		case err == nil:
			acc.DocumentNumber = id
		case errors.Is(err, walker.ErrRateLimited), ctx.Err() != nil:
			return nil, err
		default:
			im.logger.Warn("Failed to set payable document number",
				zap.String("id", id), zap.Error(err))
		}
	}
	return acc, nil
}

func (im *Importer) mapAccount(ctx context.Context, acc *bling.Account) (*models.Account, error) {
	person, err := im.persons.Resolve(ctx, utils.OriginalID(acc.Contact.ID))
	if err != nil {
		return nil, err
	}
	method, err := im.paymentMethods.Resolve(ctx, utils.OriginalID(acc.PaymentMethod.ID))
	if err != nil {
		return nil, err
	}
	carrier, err := im.carriers.Resolve(ctx, utils.OriginalID(acc.Carrier.ID))
	if err != nil {
		return nil, err
	}
	chart, err := im.chartAccounts.Resolve(ctx, utils.OriginalID(acc.Category.ID))
	if err != nil {
		return nil, err
	}

	row := &models.Account{
		IDOriginal:      utils.OriginalID(acc.ID),
		PersonID:        refID(person, func(p *models.Person) uint { return p.ID }),
		DocumentNumber:  utils.Truncate(strings.TrimSpace(acc.DocumentNumber), 50),
		History:         acc.History,
		Situation:       models.AccountSituation(acc.Situation),
		PaymentMethodID: refID(method, func(m *models.PaymentMethod) uint { return m.ID }),
		Value:           acc.Value,
		CarrierID:       refID(carrier, func(c *models.Carrier) uint { return c.ID }),
		ChartAccountID:  refID(chart, func(c *models.ChartAccount) uint { return c.ID }),
	}
	for _, d := range []struct {
		dst **time.Time
		src string
	}{
		{&row.IssuedAt, acc.IssueDate},
		{&row.DueAt, acc.DueDate},
		{&row.CompetenceAt, acc.Competence},
	} {
		t, err := utils.ParseDate(d.src, im.loc)
		if err != nil {
			return nil, err
		}
		*d.dst = t
	}
	return row, nil
}
