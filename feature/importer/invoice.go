package importer

import (
	"context"

	"bling-sync/core/utils"
	"bling-sync/feature/bling"
	"bling-sync/feature/models"
)

type invoiceAdapter struct {
	entity[models.Invoice]
	im *Importer
}

func newInvoiceAdapter(im *Importer) *invoiceAdapter {
	return &invoiceAdapter{
		entity: entity[models.Invoice]{
			kind:     kindInvoice,
			key:      func(i *models.Invoice) *uint { return &i.ID },
			original: func(i *models.Invoice) string { return i.IDOriginal },
		},
		im: im,
	}
}

func (a *invoiceAdapter) Fetch(ctx context.Context, id string) (*models.Invoice, error) {
	n, err := parseID(id)
	if err != nil {
		return nil, err
	}
	raw, err := a.im.api.InvoicePayload(ctx, n)
	if err != nil {
		return nil, err
	}
	if err := a.im.cache.Put(ctx, cacheInvoice, id, raw); err != nil {
		return nil, err
	}
	inv, err := bling.ParseInvoice(raw)
	if err != nil {
		return nil, err
	}
	return a.im.mapInvoice(ctx, inv)
}

func (im *Importer) mapInvoice(ctx context.Context, inv *bling.Invoice) (*models.Invoice, error) {
	person, err := im.persons.Resolve(ctx, utils.OriginalID(inv.Contact.ID))
	if err != nil {
		return nil, err
	}
	category, err := im.invoiceCategories.Resolve(ctx, utils.OriginalID(inv.OperationNature.ID))
	if err != nil {
		return nil, err
	}
	seller, err := im.salespeople.Resolve(ctx, utils.OriginalID(inv.Salesperson.ID))
	if err != nil {
		return nil, err
	}
	issued, err := utils.ParseDate(inv.IssuedAt, im.loc)
	if err != nil {
		return nil, err
	}
	operation, err := utils.ParseDate(inv.OperationAt, im.loc)
	if err != nil {
		return nil, err
	}

	return &models.Invoice{
		IDOriginal:    utils.OriginalID(inv.ID),
		Number:        utils.Truncate(inv.Number, 20),
		IssuedAt:      issued,
		OperationAt:   operation,
		Type:          int16(inv.Type),
		Situation:     int16(inv.Situation),
		PersonID:      refID(person, func(p *models.Person) uint { return p.ID }),
		CategoryID:    refID(category, func(c *models.InvoiceCategory) uint { return c.ID }),
		SalespersonID: refID(seller, func(s *models.Salesperson) uint { return s.ID }),
		Value:         inv.Value,
		AccessKey:     utils.Truncate(inv.AccessKey, 44),
		Series:        int16(inv.Series),
		XMLLink:       inv.XML,
	}, nil
}
