package importer_test

import (
	"context"
	"errors"
	"testing"

	"bling-sync/core/walker"
	"bling-sync/feature/bling"
	"bling-sync/feature/importer"
	"bling-sync/feature/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImporter_Kinds(t *testing.T) {
	f := setup(t)

	kinds := f.im.Kinds()
	require.Len(t, kinds, 14)
	assert.Equal(t, importer.KindPerson, kinds[0])
	assert.Equal(t, importer.KindOutboundInvoice, kinds[len(kinds)-1])

	_, err := f.im.Source("estoque")
	assert.True(t, errors.Is(err, importer.ErrUnknownKind))

	selected, err := f.im.Select([]string{importer.KindOrder, importer.KindPerson})
	require.NoError(t, err)
	assert.Equal(t, []string{importer.KindPerson, importer.KindOrder}, selected)

	_, err = f.im.Select([]string{"estoque"})
	assert.True(t, errors.Is(err, importer.ErrUnknownKind))

	enabled, err := f.im.Enabled()
	require.NoError(t, err)
	assert.Equal(t, kinds, enabled)
}

func TestImporter_StartDates(t *testing.T) {
	f := setup(t)

	tests := []struct {
		kind string
		want string
	}{
		{importer.KindOrder, "2024-01-01"},
		{importer.KindPayable, "2024-01-01"},
		{importer.KindPayment, "2023-01-01"},
		{importer.KindInboundInvoice, "2023-01-01"},
	}
	for _, tt := range tests {
		src, err := f.im.Source(tt.kind)
		require.NoError(t, err)
		assert.True(t, src.Windowed(), tt.kind)
		assert.Equal(t, tt.want, src.StartDate().Format("2006-01-02"), tt.kind)
	}

	catalog, err := f.im.Source(importer.KindProduct)
	require.NoError(t, err)
	assert.False(t, catalog.Windowed())
}

func TestNew_RejectsBadConfig(t *testing.T) {
	f := setup(t)

	cfg := testConfig()
	cfg.OrdersStart = ""
	_, err := importer.New(importer.Deps{DB: f.db, API: f.api, Config: cfg})
	assert.Error(t, err)

	cfg = testConfig()
	cfg.Timezone = "Mars/Olympus"
	_, err = importer.New(importer.Deps{DB: f.db, API: f.api, Config: cfg})
	assert.Error(t, err)

	_, err = importer.New(importer.Deps{DB: f.db})
	assert.Error(t, err)
}

func TestPerson_AdoptsRowWithSameDocument(t *testing.T) {
	f := setup(t)
	doc := "12345678000199"
	require.NoError(t, f.db.Create(&models.Person{IDOriginal: "legacy", Name: "Antigo", DocumentNumber: &doc}).Error)
	f.api.contacts[12] = &bling.Contact{
		ID:             12,
		Name:           "Novo Nome",
		Situation:      "A",
		Type:           "J",
		DocumentNumber: "12.345.678/0001-99",
		Address:        bling.ContactAddresses{General: bling.Address{Street: "Rua A", City: "Recife"}},
	}

	src, err := f.im.Source(importer.KindPerson)
	require.NoError(t, err)
	require.NoError(t, src.Process(context.Background(), walker.Row{ID: 12}, nil))

	assert.Equal(t, int64(1), count(t, f.db, &models.Person{}, ""))
	var p models.Person
	require.NoError(t, f.db.Take(&p).Error)
	assert.Equal(t, "12", p.IDOriginal)
	assert.Equal(t, "Novo Nome", p.Name)
	// No state on the address: it is not stored.
	assert.Equal(t, int64(0), count(t, f.db, &models.Address{}, ""))

	assert.Equal(t, int64(1), f.im.Stats()[importer.KindPerson].Conflicts)
}

func TestPerson_IndividualWithAddress(t *testing.T) {
	f := setup(t)
	f.api.contacts[13] = &bling.Contact{
		ID:             13,
		Name:           "Maria Souza",
		Situation:      "I",
		Type:           "F",
		DocumentNumber: "123.456.789-09",
		RG:             " ",
		Extra:          bling.ContactExtra{BirthDate: "1990-07-15", Sex: "F", Birthplace: "Recife"},
		Address:        bling.ContactAddresses{General: bling.Address{ZipCode: "50.030-230", City: "Recife", State: "PE"}},
	}
	src, err := f.im.Source(importer.KindPerson)
	require.NoError(t, err)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		require.NoError(t, src.Process(ctx, walker.Row{ID: 13}, nil))
	}

	var p models.Person
	require.NoError(t, f.db.Preload("Addresses").Where("id_original = ?", "13").Take(&p).Error)
	assert.Equal(t, models.PersonIndividual, p.Type)
	assert.Equal(t, int16(0), p.Status)
	require.NotNil(t, p.DocumentNumber)
	assert.Equal(t, "12345678909", *p.DocumentNumber)
	assert.Nil(t, p.RG)
	require.NotNil(t, p.BirthDate)
	assert.Equal(t, "1990-07-15", p.BirthDate.Format("2006-01-02"))
	require.Len(t, p.Addresses, 1)
	assert.Equal(t, "50030230", p.Addresses[0].ZipCode)
}

func TestProduct_SupplierAndParent(t *testing.T) {
	f := setup(t)
	f.api.products[81] = &bling.Product{ID: 81, Name: "Camiseta", Situation: "A", Price: decimal.RequireFromString("49.9")}
	f.api.products[80] = &bling.Product{
		ID:        80,
		Name:      "Camiseta P",
		Situation: "A",
		Format:    "V",
		Price:     decimal.RequireFromString("49.9"),
		Supplier:  &bling.ProductSupplier{Contact: bling.Ref{ID: 10}, CostPrice: decimal.RequireFromString("21.5")},
		Variation: &bling.ProductVariation{Name: "Tamanho:P", Parent: bling.Ref{ID: 81}},
	}
	f.api.products[82] = &bling.Product{
		ID:        82,
		Name:      "Camiseta M",
		Situation: "A",
		Supplier:  &bling.ProductSupplier{Contact: bling.Ref{ID: 10}},
	}

	src, err := f.im.Source(importer.KindProduct)
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, src.Process(ctx, walker.Row{ID: 80}, nil))
	require.NoError(t, src.Process(ctx, walker.Row{ID: 82}, nil))

	var child, parent models.Product
	require.NoError(t, f.db.Where("id_original = ?", "80").Take(&child).Error)
	require.NoError(t, f.db.Where("id_original = ?", "81").Take(&parent).Error)
	require.NotNil(t, child.ParentID)
	assert.Equal(t, parent.ID, *child.ParentID)
	assert.Equal(t, "Tamanho:P", child.Variation)
	assert.Equal(t, "21.50", child.Cost.StringFixed(2))
	assert.Equal(t, "S", parent.Format)
	assert.Equal(t, int16(1), child.Status)

	assert.Equal(t, int64(1), count(t, f.db, &models.Supplier{}, ""))
	require.NotNil(t, child.SupplierID)
	assert.Equal(t, int64(2), count(t, f.db, &models.Product{}, "id_fornecedor = ?", *child.SupplierID))
}

func TestInvoiceCategories_FromListing(t *testing.T) {
	f := setup(t)
	f.api.natures = []bling.OperationNature{{ID: 5, Description: "Venda de mercadoria"}, {ID: 6, Description: "Devolução"}}

	src, err := f.im.Source(importer.KindInvoiceCategory)
	require.NoError(t, err)
	ctx := context.Background()

	page, err := src.FetchPage(ctx, 1, nil)
	require.NoError(t, err)
	for _, row := range page.Items() {
		require.NoError(t, src.Process(ctx, row, nil))
	}
	assert.Equal(t, int64(2), count(t, f.db, &models.InvoiceCategory{}, ""))

	end, err := src.FetchPage(ctx, 2, nil)
	require.NoError(t, err)
	assert.True(t, end.IsEnd())
}

func TestInvoiceSource_ResolvesReferences(t *testing.T) {
	f := setup(t)
	f.api.natures = []bling.OperationNature{{ID: 5, Description: "Venda de mercadoria"}}
	f.api.salespeople[3] = &bling.Salesperson{
		ID:          3,
		Contact:     bling.Ref{ID: 10},
		Commissions: []bling.Commission{{Rate: decimal.RequireFromString("2.5"), MaxDiscount: decimal.RequireFromString("10")}},
	}
	f.api.invoicePages["1|2024-03-05"] = []bling.Summary{{ID: 900}}
	f.api.invoices[900] = `{"data":{
		"id": 900, "tipo": 1, "situacao": 5, "numero": "000123",
		"dataEmissao": "2024-03-05 10:15:00", "dataOperacao": "2024-03-05",
		"chaveAcesso": "35240311222333000181550010000001231000001234",
		"contato": {"id": 10}, "naturezaOperacao": {"id": 5}, "vendedor": {"id": 3},
		"serie": 1, "valorNota": 315.4, "xml": "https://example.com/nfe/900.xml"
	}}`

	src, err := f.im.Source(importer.KindOutboundInvoice)
	require.NoError(t, err)
	window := day("2024-03-05")
	ctx := context.Background()

	page, err := src.FetchPage(ctx, 1, &window)
	require.NoError(t, err)
	require.Len(t, page.Items(), 1)
	require.NoError(t, src.Process(ctx, page.Items()[0], &window))

	var inv models.Invoice
	require.NoError(t, f.db.Where("id_original = ?", "900").Take(&inv).Error)
	assert.Equal(t, int16(1), inv.Type)
	assert.Equal(t, "315.40", inv.Value.StringFixed(2))
	assert.NotNil(t, inv.PersonID)
	assert.NotNil(t, inv.CategoryID)
	assert.NotNil(t, inv.SalespersonID)
	require.NotNil(t, inv.IssuedAt)
	assert.Equal(t, 10, inv.IssuedAt.Hour())

	assert.Equal(t, int64(1), count(t, f.db, &models.Commission{}, ""))
	_, found, err := f.cache.Get(ctx, "nfe", "900")
	require.NoError(t, err)
	assert.True(t, found)

	inbound, err := f.im.Source(importer.KindInboundInvoice)
	require.NoError(t, err)
	empty, err := inbound.FetchPage(ctx, 1, &window)
	require.NoError(t, err)
	assert.True(t, empty.IsEnd())
}
