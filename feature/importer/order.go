package importer

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"bling-sync/core/appmath"
	"bling-sync/core/bigdecimal"
	"bling-sync/core/discount"
	"bling-sync/core/utils"
	"bling-sync/feature/bling"
	"bling-sync/feature/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	hundred        = decimal.NewFromInt(100)
	one            = decimal.NewFromInt(1)
	priceTolerance = decimal.RequireFromString("0.10")
)

type orderAdapter struct {
	entity[models.Order]
	im *Importer
}

func newOrderAdapter(im *Importer) *orderAdapter {
	return &orderAdapter{
		entity: entity[models.Order]{
			kind:     KindOrder,
			key:      func(o *models.Order) *uint { return &o.ID },
			original: func(o *models.Order) string { return o.IDOriginal },
		},
		im: im,
	}
}

func (a *orderAdapter) Fetch(ctx context.Context, id string) (*models.Order, error) {
	n, err := parseID(id)
	if err != nil {
		return nil, err
	}
	raw, err := a.im.orderPayload(ctx, n, false)
	if err != nil {
		return nil, err
	}
	o, err := bling.ParseOrder(raw)
	if err != nil {
		return nil, err
	}
	return a.im.mapOrder(ctx, o)
}

func (a *orderAdapter) ResetChildren(ctx context.Context, tx *gorm.DB, existing, o *models.Order) error {
	tx = tx.WithContext(ctx)
	if err := tx.Where("id_venda = ?", existing.ID).Delete(&models.OrderItem{}).Error; err != nil {
		return err
	}
	if err := tx.Where("id_venda = ?", existing.ID).Delete(&models.OrderInstallment{}).Error; err != nil {
		return err
	}
	for i := range o.Items {
		o.Items[i].ID = 0
		o.Items[i].OrderID = existing.ID
	}
	for i := range o.Installments {
		o.Installments[i].ID = 0
		o.Installments[i].OrderID = existing.ID
	}
	return nil
}

// orderPayload returns the order detail. Closed orders no longer change, so
// their logged payload is reused; any other order is fetched and logged again.
func (im *Importer) orderPayload(ctx context.Context, id int64, closed bool) ([]byte, error) {
	key := utils.OriginalID(id)
	fetch := func(ctx context.Context) ([]byte, error) {
		return im.api.OrderPayload(ctx, id)
	}
	if closed {
		return im.cache.GetOrFetch(ctx, cacheOrder, key, fetch)
	}
	raw, err := fetch(ctx)
	if err != nil {
		return nil, err
	}
	if err := im.cache.Put(ctx, cacheOrder, key, raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// SyncOrder imports order id and returns the stored row.
func (im *Importer) SyncOrder(ctx context.Context, id int64, closed bool) (*models.Order, error) {
	raw, err := im.orderPayload(ctx, id, closed)
	if err != nil {
		return nil, err
	}
	o, err := bling.ParseOrder(raw)
	if err != nil {
		return nil, err
	}
	row, err := im.mapOrder(ctx, o)
	if err != nil {
		return nil, err
	}
	if err := im.orders.Save(ctx, row); err != nil {
		return nil, err
	}
	return row, nil
}

// unitPrice recovers the list price of a discounted item. Prices within ten
// cents of the product price are snapped to it.
func unitPrice(it bling.OrderItem, product *models.Product) (decimal.Decimal, error) {
	price := it.Value
	if it.Discount.IsPositive() {
		rate, err := appmath.Divide(it.Discount, hundred, 10, bigdecimal.HalfUp)
		if err != nil {
			return decimal.Zero, err
		}
		factor := appmath.SumP(10, one, rate.Neg())
		gross, err := appmath.Divide(it.Value, factor, appmath.MoneyPrecision, bigdecimal.HalfDown)
		switch {
		case errors.Is(err, bigdecimal.ErrDivideByZero):
			// Fully discounted: the list price cannot be recovered.
		case err != nil:
			return decimal.Zero, err
		default:
			price = gross
		}
	}
	if product != nil && product.Price.IsPositive() &&
		appmath.SumP(6, price, product.Price.Neg()).Abs().LessThan(priceTolerance) {
		price = product.Price
	}
	return price, nil
}

type orderTotals struct {
	subtotal decimal.Decimal
	discount decimal.Decimal
	items    decimal.Decimal
}

func (im *Importer) mapOrderItem(ctx context.Context, it bling.OrderItem, order *models.Order, totals *orderTotals) (models.OrderItem, error) {
	product, err := im.products.Resolve(ctx, utils.OriginalID(it.Product.ID))
	if err != nil {
		return models.OrderItem{}, err
	}
	price, err := unitPrice(it, product)
	if err != nil {
		return models.OrderItem{}, fmt.Errorf("item %d price: %w", it.ID, err)
	}
	subtotal, err := appmath.Multiply(price, it.Quantity, appmath.MoneyPrecision, bigdecimal.HalfUp)
	if err != nil {
		return models.OrderItem{}, err
	}
	total, err := appmath.Multiply(it.Value, it.Quantity, appmath.MoneyPrecision, bigdecimal.HalfUp)
	if err != nil {
		return models.OrderItem{}, err
	}
	discountValue := decimal.Zero
	if it.Discount.IsPositive() {
		discountValue = appmath.Sum(subtotal, total.Neg())
	}

	totals.subtotal = appmath.Sum(totals.subtotal, subtotal)
	totals.discount = appmath.Sum(totals.discount, discountValue)
	totals.items = appmath.Sum(totals.items, total)

	return models.OrderItem{
		IDOriginal:      utils.OriginalID(it.ID),
		Date:            order.IssuedAt,
		Status:          order.State,
		ProductID:       refID(product, func(p *models.Product) uint { return p.ID }),
		Unit:            utils.Truncate(it.Unit, 6),
		Quantity:        it.Quantity,
		Price:           price,
		DiscountValue:   discountValue,
		DiscountPercent: it.Discount,
		Total:           total,
	}, nil
}

// orderDiscount is the order-level discount to spread over the items. A
// percentage applies to the products total.
func (im *Importer) orderDiscount(o *bling.Order) (decimal.Decimal, error) {
	if !o.Discount.Value.IsPositive() {
		return decimal.Zero, nil
	}
	if o.Discount.Unit != bling.DiscountUnitPercent {
		return o.Discount.Value, nil
	}
	amount, err := discount.FromPercent(o.Discount.Value, o.ProductsTotal)
	if err != nil {
		return decimal.Zero, err
	}
	productsNet := appmath.Sum(o.Total, o.OtherExpenses.Neg(), o.Shipping.Freight.Neg())
	if charged := appmath.Sum(o.ProductsTotal, productsNet.Neg()); !charged.Equal(amount) {
		im.logger.Warn("Order discount differs from charged total",
			zap.Int64("order", o.ID),
			zap.String("percent", o.Discount.Value.String()),
			zap.String("amount", amount.StringFixed(2)),
			zap.String("charged", charged.StringFixed(2)),
		)
	}
	return amount, nil
}

func (im *Importer) mapOrder(ctx context.Context, o *bling.Order) (*models.Order, error) {
	person, err := im.persons.Resolve(ctx, utils.OriginalID(o.Contact.ID))
	if err != nil {
		return nil, err
	}
	seller, err := im.salespeople.Resolve(ctx, utils.OriginalID(o.Salesperson.ID))
	if err != nil {
		return nil, err
	}
	issued, err := utils.ParseDate(o.Date, im.loc)
	if err != nil {
		return nil, err
	}
	shipped, err := utils.ParseDate(o.ShippingDate, im.loc)
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		IDOriginal:    utils.OriginalID(o.ID),
		Identifier:    fmt.Sprint(o.Number),
		CompanyID:     im.cfg.CompanyID,
		State:         models.OrderCompleted,
		IssuedAt:      issued,
		ShippedAt:     shipped,
		PersonID:      refID(person, func(p *models.Person) uint { return p.ID }),
		SalespersonID: refID(seller, func(s *models.Salesperson) uint { return s.ID }),
		OtherExpenses: o.OtherExpenses,
		Freight:       o.Shipping.Freight,
		Total:         o.Total,
	}
	if o.Situation.ID == bling.OrderSituationClosed {
		order.State = models.OrderClosed
	}

	items := append([]bling.OrderItem(nil), o.Items...)
	sort.SliceStable(items, func(i, j int) bool { return items[i].ID < items[j].ID })

	var totals orderTotals
	lines := make([]*discount.Line, 0, len(items))
	for _, it := range items {
		item, err := im.mapOrderItem(ctx, it, order, &totals)
		if err != nil {
			return nil, err
		}
		order.Items = append(order.Items, item)
		lines = append(lines, &discount.Line{ExternalID: item.IDOriginal, Subtotal: item.Total})
	}

	spread, err := im.orderDiscount(o)
	if err != nil {
		return nil, fmt.Errorf("order %d discount: %w", o.ID, err)
	}
	result, err := discount.Distribute(lines, spread, totals.items)
	if err != nil {
		return nil, fmt.Errorf("order %d discount: %w", o.ID, err)
	}
	if result.Discount.IsPositive() {
		// Lines and items share the same id order.
		for i, l := range lines {
			order.Items[i].DistributedDiscount = l.DiscountAmount
			order.Items[i].Total = l.Total
		}
	}

	order.Subtotal = totals.subtotal
	order.DiscountValue = totals.discount
	order.DistributedDiscount = result.Discount
	if totals.subtotal.IsPositive() {
		ratio, err := appmath.Divide(appmath.SumP(6, totals.discount, result.Discount), totals.subtotal, 10, bigdecimal.HalfUp)
		if err != nil {
			return nil, err
		}
		order.DiscountRatio = ratio
	}

	installments := append([]bling.OrderInstallment(nil), o.Installments...)
	sort.SliceStable(installments, func(i, j int) bool { return installments[i].ID < installments[j].ID })
	for i, p := range installments {
		method, err := im.paymentMethods.Resolve(ctx, utils.OriginalID(p.PaymentMethod.ID))
		if err != nil {
			return nil, err
		}
		due, err := utils.ParseDate(p.DueDate, im.loc)
		if err != nil {
			return nil, err
		}
		order.Installments = append(order.Installments, models.OrderInstallment{
			IDOriginal:      utils.OriginalID(p.ID),
			Installment:     fmt.Sprintf("%d/%d", i+1, len(installments)),
			Notes:           utils.Truncate(p.Notes, 200),
			IssuedAt:        shipped,
			DueAt:           due,
			PaymentMethodID: refID(method, func(m *models.PaymentMethod) uint { return m.ID }),
			Value:           p.Value,
		})
	}
	return order, nil
}
