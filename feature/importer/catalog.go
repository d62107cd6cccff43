package importer

import (
	"context"
	"fmt"
	"strings"

	"bling-sync/core/utils"
	"bling-sync/core/walker"
	"bling-sync/feature/bling"
	"bling-sync/feature/models"

	"gorm.io/gorm"
)

// Salespeople.

type salespersonAdapter struct {
	entity[models.Salesperson]
	im *Importer
}

func newSalespersonAdapter(im *Importer) *salespersonAdapter {
	return &salespersonAdapter{
		entity: entity[models.Salesperson]{
			kind:     KindSalesperson,
			key:      func(s *models.Salesperson) *uint { return &s.ID },
			original: func(s *models.Salesperson) string { return s.IDOriginal },
		},
		im: im,
	}
}

func (a *salespersonAdapter) Fetch(ctx context.Context, id string) (*models.Salesperson, error) {
	n, err := parseID(id)
	if err != nil {
		return nil, err
	}
	s, err := a.im.api.GetSalesperson(ctx, n)
	if err != nil {
		return nil, err
	}
	person, err := a.im.persons.Resolve(ctx, utils.OriginalID(s.Contact.ID))
	if err != nil {
		return nil, err
	}

	row := &models.Salesperson{
		IDOriginal: utils.OriginalID(s.ID),
		PersonID:   refID(person, func(p *models.Person) uint { return p.ID }),
		Status:     1,
	}
	for _, c := range s.Commissions {
		row.Commissions = append(row.Commissions, models.Commission{
			CommissionRate:  c.Rate,
			DiscountMaximum: c.MaxDiscount,
		})
	}
	return row, nil
}

func (a *salespersonAdapter) ResetChildren(ctx context.Context, tx *gorm.DB, existing, s *models.Salesperson) error {
	if err := tx.WithContext(ctx).Where("id_vendedor = ?", existing.ID).Delete(&models.Commission{}).Error; err != nil {
		return err
	}
	for i := range s.Commissions {
		s.Commissions[i].ID = 0
		s.Commissions[i].SalespersonID = existing.ID
	}
	return nil
}

// Payment methods.

type paymentMethodAdapter struct {
	entity[models.PaymentMethod]
	im *Importer
}

func newPaymentMethodAdapter(im *Importer) *paymentMethodAdapter {
	return &paymentMethodAdapter{
		entity: entity[models.PaymentMethod]{
			kind:     KindPaymentMethod,
			key:      func(m *models.PaymentMethod) *uint { return &m.ID },
			original: func(m *models.PaymentMethod) string { return m.IDOriginal },
		},
		im: im,
	}
}

// FindByNaturalKey matches on the name, which is unique locally.
func (a *paymentMethodAdapter) FindByNaturalKey(ctx context.Context, tx *gorm.DB, m *models.PaymentMethod) (*models.PaymentMethod, error) {
	return first[models.PaymentMethod](tx.WithContext(ctx).Where("nome = ?", m.Name))
}

func (a *paymentMethodAdapter) Fetch(ctx context.Context, id string) (*models.PaymentMethod, error) {
	n, err := parseID(id)
	if err != nil {
		return nil, err
	}
	m, err := a.im.api.GetPaymentMethod(ctx, n)
	if err != nil {
		return nil, err
	}

	row := &models.PaymentMethod{
		IDOriginal:  utils.OriginalID(m.ID),
		Name:        utils.Truncate(utils.FirstNonEmpty(strings.TrimSpace(m.Description), "Forma "+utils.OriginalID(m.ID)), 100),
		PaymentType: int16(m.PaymentType),
		Purpose:     int16(m.Purpose),
		Status:      int16(m.Situation),
		FeeRate:     m.Fees.Rate,
		FeeValue:    m.Fees.Value,
	}
	if m.Card != nil && m.Card.Brand != 0 {
		brand := int16(m.Card.Brand)
		row.CardBrand = &brand
	}
	return row, nil
}

// Chart of accounts.

type chartAccountAdapter struct {
	entity[models.ChartAccount]
	im *Importer
}

func newChartAccountAdapter(im *Importer) *chartAccountAdapter {
	return &chartAccountAdapter{
		entity: entity[models.ChartAccount]{
			kind:     KindChartAccount,
			key:      func(c *models.ChartAccount) *uint { return &c.ID },
			original: func(c *models.ChartAccount) string { return c.IDOriginal },
		},
		im: im,
	}
}

func chartType(code int) string {
	switch code {
	case 1:
		return models.ChartExpense
	case 2:
		return models.ChartRevenue
	default:
		return models.ChartRevenueAndExpense
	}
}

func (a *chartAccountAdapter) Fetch(ctx context.Context, id string) (*models.ChartAccount, error) {
	n, err := parseID(id)
	if err != nil {
		return nil, err
	}
	c, err := a.im.api.GetCategory(ctx, n)
	if err != nil {
		return nil, err
	}

	row := &models.ChartAccount{
		IDOriginal:  utils.OriginalID(c.ID),
		Description: utils.Truncate(c.Description, 150),
		Type:        chartType(c.Type),
	}

	ctx = enter(ctx, KindChartAccount, row.IDOriginal)
	parentID := utils.OriginalID(c.ParentID)
	if c.ParentID != 0 && !visiting(ctx, KindChartAccount, parentID) {
		parent, err := a.im.chartAccounts.Resolve(ctx, parentID)
		if err != nil {
			return nil, err
		}
		row.ParentID = refID(parent, func(p *models.ChartAccount) uint { return p.ID })
	}
	return row, nil
}

// Carriers.

type carrierAdapter struct {
	entity[models.Carrier]
	im *Importer
}

func newCarrierAdapter(im *Importer) *carrierAdapter {
	return &carrierAdapter{
		entity: entity[models.Carrier]{
			kind:     KindCarrier,
			key:      func(c *models.Carrier) *uint { return &c.ID },
			original: func(c *models.Carrier) string { return c.IDOriginal },
		},
		im: im,
	}
}

func (a *carrierAdapter) Fetch(ctx context.Context, id string) (*models.Carrier, error) {
	n, err := parseID(id)
	if err != nil {
		return nil, err
	}
	l, err := a.im.api.GetLedgerAccount(ctx, n)
	if err != nil {
		return nil, err
	}
	return &models.Carrier{
		IDOriginal:  utils.OriginalID(l.ID),
		Description: utils.Truncate(l.Description, 150),
	}, nil
}

// Invoice categories. The ERP only lists operation natures, so a single one
// is found by paging through the listing.

type invoiceCategoryAdapter struct {
	entity[models.InvoiceCategory]
	im *Importer
}

func newInvoiceCategoryAdapter(im *Importer) *invoiceCategoryAdapter {
	return &invoiceCategoryAdapter{
		entity: entity[models.InvoiceCategory]{
			kind:     KindInvoiceCategory,
			key:      func(c *models.InvoiceCategory) *uint { return &c.ID },
			original: func(c *models.InvoiceCategory) string { return c.IDOriginal },
		},
		im: im,
	}
}

func mapInvoiceCategory(n bling.OperationNature) *models.InvoiceCategory {
	return &models.InvoiceCategory{
		IDOriginal:  utils.OriginalID(n.ID),
		Description: n.Description,
	}
}

func (a *invoiceCategoryAdapter) Fetch(ctx context.Context, id string) (*models.InvoiceCategory, error) {
	want, err := parseID(id)
	if err != nil {
		return nil, err
	}
	for page := 1; ; page++ {
		natures, err := a.im.api.ListOperationNatures(ctx, page)
		if err != nil {
			return nil, err
		}
		for _, n := range natures {
			if n.ID == want {
				return mapInvoiceCategory(n), nil
			}
		}
		if len(natures) < walker.PageSize {
			return nil, fmt.Errorf("operation nature %s: %w", id, bling.ErrNotFound)
		}
	}
}
