package importer

import (
	"context"
	"errors"
	"fmt"
	"time"
	_ "time/tzdata"

	"bling-sync/core/cache"
	"bling-sync/core/reconcile"
	"bling-sync/core/utils"
	"bling-sync/core/walker"
	"bling-sync/feature/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrUnknownKind is returned for kinds no source is registered for.
var ErrUnknownKind = errors.New("unknown sync kind")

// Entity kinds, also used as cursor keys.
const (
	KindPerson          = "pessoa"
	KindSalesperson     = "vendedor"
	KindPaymentMethod   = "forma-pagamento"
	KindChartAccount    = "plano_conta"
	KindCarrier         = "portador"
	KindProduct         = "produto"
	KindInvoiceCategory = "nfe-categoria"
	KindOrder           = "venda"
	KindPayable         = "conta_pagar"
	KindReceivable      = "conta_receber"
	KindPayment         = "pagamento"
	KindReceipt         = "recebimento"
	KindInboundInvoice  = "nfe-entrada"
	KindOutboundInvoice = "nfe-saida"
	kindInvoice         = "nfe"
)

// Response log kinds.
const (
	cacheOrder      = "venda"
	cachePayable    = "conta_pagar"
	cacheReceivable = "conta_receber"
	cacheBordereau  = "bordero"
	cacheInvoice    = "nfe"
)

// Deps are the collaborators of an Importer.
type Deps struct {
	DB     *gorm.DB
	API    API
	Cache  *cache.Cache
	Logger *zap.Logger
	Config Config
	// Sleep pauses between bordereau fetches. Nil uses a context-aware timer.
	Sleep func(ctx context.Context, d time.Duration) error
}

// Importer owns the resolvers and walker sources of every kind.
type Importer struct {
	db     *gorm.DB
	api    API
	cache  *cache.Cache
	logger *zap.Logger
	cfg    Config
	loc    *time.Location
	sleep  func(ctx context.Context, d time.Duration) error

	persons           *reconcile.Resolver[models.Person]
	salespeople       *reconcile.Resolver[models.Salesperson]
	paymentMethods    *reconcile.Resolver[models.PaymentMethod]
	chartAccounts     *reconcile.Resolver[models.ChartAccount]
	carriers          *reconcile.Resolver[models.Carrier]
	products          *reconcile.Resolver[models.Product]
	invoiceCategories *reconcile.Resolver[models.InvoiceCategory]
	orders            *reconcile.Resolver[models.Order]
	payables          *reconcile.Resolver[models.Payable]
	receivables       *reconcile.Resolver[models.Receivable]
	invoices          *reconcile.Resolver[models.Invoice]

	kinds   []string
	sources map[string]walker.Source
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// New wires the resolvers and sources over deps.
func New(deps Deps) (*Importer, error) {
	if deps.DB == nil || deps.API == nil {
		return nil, errors.New("importer: database and api are required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	responses := deps.Cache
	if responses == nil {
		responses = cache.New(deps.DB, logger)
	}
	sleep := deps.Sleep
	if sleep == nil {
		sleep = sleepCtx
	}
	loc, err := time.LoadLocation(utils.FirstNonEmpty(deps.Config.Timezone, "UTC"))
	if err != nil {
		return nil, fmt.Errorf("importer: timezone: %w", err)
	}

	im := &Importer{
		db:     deps.DB,
		api:    deps.API,
		cache:  responses,
		logger: logger,
		cfg:    deps.Config,
		loc:    loc,
		sleep:  sleep,
	}

	named := func(kind string) *zap.Logger { return logger.With(zap.String("kind", kind)) }
	im.persons = reconcile.NewResolver[models.Person](im.db, newPersonAdapter(im), named(KindPerson))
	im.salespeople = reconcile.NewResolver[models.Salesperson](im.db, newSalespersonAdapter(im), named(KindSalesperson))
	im.paymentMethods = reconcile.NewResolver[models.PaymentMethod](im.db, newPaymentMethodAdapter(im), named(KindPaymentMethod))
	im.chartAccounts = reconcile.NewResolver[models.ChartAccount](im.db, newChartAccountAdapter(im), named(KindChartAccount))
	im.carriers = reconcile.NewResolver[models.Carrier](im.db, newCarrierAdapter(im), named(KindCarrier))
	im.products = reconcile.NewResolver[models.Product](im.db, newProductAdapter(im), named(KindProduct))
	im.invoiceCategories = reconcile.NewResolver[models.InvoiceCategory](im.db, newInvoiceCategoryAdapter(im), named(KindInvoiceCategory))
	im.orders = reconcile.NewResolver[models.Order](im.db, newOrderAdapter(im), named(KindOrder))
	im.payables = reconcile.NewResolver[models.Payable](im.db, newPayableAdapter(im), named(KindPayable))
	im.receivables = reconcile.NewResolver[models.Receivable](im.db, newReceivableAdapter(im), named(KindReceivable))
	im.invoices = reconcile.NewResolver[models.Invoice](im.db, newInvoiceAdapter(im), named(kindInvoice))

	if err := im.registerSources(); err != nil {
		return nil, err
	}
	return im, nil
}

func (im *Importer) startDate(name, value string) (time.Time, error) {
	t, err := utils.ParseDate(value, im.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("importer: %s start date: %w", name, err)
	}
	if t == nil {
		return time.Time{}, fmt.Errorf("importer: %s start date is empty", name)
	}
	return *t, nil
}

func (im *Importer) registerSources() error {
	ordersStart, err := im.startDate("orders", im.cfg.OrdersStart)
	if err != nil {
		return err
	}
	accountsStart, err := im.startDate("accounts", im.cfg.AccountsStart)
	if err != nil {
		return err
	}
	settlementsStart, err := im.startDate("settlements", im.cfg.SettlementsStart)
	if err != nil {
		return err
	}
	invoicesStart, err := im.startDate("invoices", im.cfg.InvoicesStart)
	if err != nil {
		return err
	}

	im.sources = map[string]walker.Source{}
	for _, src := range []walker.Source{
		&catalogSource{kind: KindPerson, list: im.api.ListContacts, refresh: refresher(im.persons)},
		&catalogSource{kind: KindSalesperson, list: im.api.ListSalespeople, refresh: refresher(im.salespeople)},
		&catalogSource{kind: KindPaymentMethod, list: im.api.ListPaymentMethods, refresh: refresher(im.paymentMethods)},
		&catalogSource{kind: KindChartAccount, list: im.api.ListCategories, refresh: refresher(im.chartAccounts)},
		&catalogSource{kind: KindCarrier, list: im.api.ListLedgerAccounts, refresh: refresher(im.carriers)},
		&catalogSource{kind: KindProduct, list: im.api.ListProducts, refresh: refresher(im.products)},
		&invoiceCategorySource{im: im},
		&orderSource{im: im, start: ordersStart},
		&accountSource{im: im, kind: KindPayable, start: accountsStart},
		&accountSource{im: im, kind: KindReceivable, start: accountsStart, receivable: true},
		&settlementSource{im: im, kind: KindPayment, start: settlementsStart},
		&settlementSource{im: im, kind: KindReceipt, start: settlementsStart, receivable: true},
		&invoiceSource{im: im, kind: KindInboundInvoice, start: invoicesStart, invoiceType: 0},
		&invoiceSource{im: im, kind: KindOutboundInvoice, start: invoicesStart, invoiceType: 1},
	} {
		im.kinds = append(im.kinds, src.Kind())
		im.sources[src.Kind()] = src
	}
	return nil
}

// Kinds lists every registered kind in dependency order.
func (im *Importer) Kinds() []string {
	return append([]string(nil), im.kinds...)
}

// Source returns the walker source of kind.
func (im *Importer) Source(kind string) (walker.Source, error) {
	src, ok := im.sources[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	return src, nil
}

// Enabled returns the kinds selected by the enabled_kinds setting, in
// dependency order. An empty setting enables every kind.
func (im *Importer) Enabled() ([]string, error) {
	selected := utils.SplitList(im.cfg.EnabledKinds)
	if len(selected) == 0 {
		return im.Kinds(), nil
	}
	return im.Select(selected)
}

// Select validates kinds and returns them in dependency order.
func (im *Importer) Select(kinds []string) ([]string, error) {
	want := map[string]bool{}
	for _, k := range kinds {
		if _, ok := im.sources[k]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownKind, k)
		}
		want[k] = true
	}
	var out []string
	for _, k := range im.kinds {
		if want[k] {
			out = append(out, k)
		}
	}
	return out, nil
}

// Stats returns the reconcile counters of every resolver.
func (im *Importer) Stats() map[string]reconcile.Stats {
	return map[string]reconcile.Stats{
		KindPerson:          im.persons.Stats(),
		KindSalesperson:     im.salespeople.Stats(),
		KindPaymentMethod:   im.paymentMethods.Stats(),
		KindChartAccount:    im.chartAccounts.Stats(),
		KindCarrier:         im.carriers.Stats(),
		KindProduct:         im.products.Stats(),
		KindInvoiceCategory: im.invoiceCategories.Stats(),
		KindOrder:           im.orders.Stats(),
		KindPayable:         im.payables.Stats(),
		KindReceivable:      im.receivables.Stats(),
		kindInvoice:         im.invoices.Stats(),
	}
}
