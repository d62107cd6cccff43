package bling

import (
	"context"
	"fmt"
	"time"

	"bling-sync/core/utils"
)

const (
	pathOrders       = "pedidos/vendas"
	pathPayables     = "contas/pagar"
	pathReceivables  = "contas/receber"
	pathBordereaux   = "borderos"
	pathInvoices     = "nfe"
	pathContacts     = "contatos"
	pathSalespeople  = "vendedores"
	pathPaymentTypes = "formas-pagamentos"
	pathCategories   = "categorias/receitas-despesas"
	pathLedger       = "contas-contabeis"
	pathProducts     = "produtos"
	pathNatures      = "naturezas-operacoes"
)

// DateFilter selects which date an account listing is windowed on.
type DateFilter int

const (
	// ByIssue filters on the emission date.
	ByIssue DateFilter = iota
	// BySettlement filters on the payment or receipt date.
	BySettlement
)

// ListOrders lists closed and completed orders issued on day.
func (c *Client) ListOrders(ctx context.Context, page int, day time.Time) ([]OrderSummary, error) {
	q := pageQuery(page)
	q.Add("idsSituacoes[]", fmt.Sprint(OrderSituationClosed))
	q.Add("idsSituacoes[]", fmt.Sprint(OrderSituationCompleted))
	q.Set("dataInicial", utils.FormatDate(day))
	q.Set("dataFinal", utils.FormatDate(day))

	var out envelope[[]OrderSummary]
	if err := c.get(ctx, pathOrders, q, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// OrderPayload returns the raw order detail.
func (c *Client) OrderPayload(ctx context.Context, id int64) ([]byte, error) {
	return c.getRaw(ctx, idPath(pathOrders, id))
}

// ParseOrder decodes an order detail payload.
func ParseOrder(raw []byte) (*Order, error) {
	o, err := decodeData[Order](raw)
	if err != nil {
		return nil, fmt.Errorf("decode order: %w", err)
	}
	return o, nil
}

// ListPayables lists payables of day, filtered by emission or payment date.
func (c *Client) ListPayables(ctx context.Context, page int, day time.Time, by DateFilter) ([]AccountSummary, error) {
	q := pageQuery(page)
	d := utils.FormatDate(day)
	if by == BySettlement {
		q.Set("dataPagamentoInicial", d)
		q.Set("dataPagamentoFinal", d)
	} else {
		q.Set("dataEmissaoInicial", d)
		q.Set("dataEmissaoFinal", d)
	}

	var out envelope[[]AccountSummary]
	if err := c.get(ctx, pathPayables, q, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// ListReceivables lists receivables of day, filtered by emission or receipt date.
func (c *Client) ListReceivables(ctx context.Context, page int, day time.Time, by DateFilter) ([]AccountSummary, error) {
	q := pageQuery(page)
	d := utils.FormatDate(day)
	q.Set("dataInicial", d)
	q.Set("dataFinal", d)
	if by == BySettlement {
		q.Set("tipoFiltroData", "R")
	} else {
		q.Set("tipoFiltroData", "E")
	}

	var out envelope[[]AccountSummary]
	if err := c.get(ctx, pathReceivables, q, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// PayablePayload returns the raw payable detail.
func (c *Client) PayablePayload(ctx context.Context, id int64) ([]byte, error) {
	return c.getRaw(ctx, idPath(pathPayables, id))
}

// ReceivablePayload returns the raw receivable detail.
func (c *Client) ReceivablePayload(ctx context.Context, id int64) ([]byte, error) {
	return c.getRaw(ctx, idPath(pathReceivables, id))
}

// ParseAccount decodes a payable or receivable detail payload.
func ParseAccount(raw []byte) (*Account, error) {
	a, err := decodeData[Account](raw)
	if err != nil {
		return nil, fmt.Errorf("decode account: %w", err)
	}
	return a, nil
}

// UpdatePayableDocument sets the document number of payable a.
func (c *Client) UpdatePayableDocument(ctx context.Context, a *Account, document string) error {
	body := DocumentUpdate{
		Contact:        a.Contact,
		Value:          a.Value,
		DueDate:        a.DueDate,
		IssueDate:      a.IssueDate,
		Competence:     a.Competence,
		DocumentNumber: document,
	}
	return c.put(ctx, idPath(pathPayables, a.ID), body, nil)
}

// BordereauPayload returns the raw bordereau detail.
func (c *Client) BordereauPayload(ctx context.Context, id int64) ([]byte, error) {
	return c.getRaw(ctx, idPath(pathBordereaux, id))
}

// ParseBordereau decodes a bordereau payload.
func ParseBordereau(raw []byte) (*Bordereau, error) {
	b, err := decodeData[Bordereau](raw)
	if err != nil {
		return nil, fmt.Errorf("decode bordereau: %w", err)
	}
	return b, nil
}

// ListInvoices lists invoices of type kind issued on day.
func (c *Client) ListInvoices(ctx context.Context, page int, day time.Time, kind int) ([]Summary, error) {
	q := pageQuery(page)
	d := utils.FormatDate(day)
	q.Set("tipo", fmt.Sprint(kind))
	q.Set("dataEmissaoInicial", d+" 00:00:01")
	q.Set("dataEmissaoFinal", d+" 23:59:59")

	var out envelope[[]Summary]
	if err := c.get(ctx, pathInvoices, q, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// InvoicePayload returns the raw invoice detail.
func (c *Client) InvoicePayload(ctx context.Context, id int64) ([]byte, error) {
	return c.getRaw(ctx, idPath(pathInvoices, id))
}

// ParseInvoice decodes an invoice payload.
func ParseInvoice(raw []byte) (*Invoice, error) {
	inv, err := decodeData[Invoice](raw)
	if err != nil {
		return nil, fmt.Errorf("decode invoice: %w", err)
	}
	return inv, nil
}

func listIDs(ctx context.Context, c *Client, path string, page int) ([]int64, error) {
	var out envelope[[]Summary]
	if err := c.get(ctx, path, pageQuery(page), &out); err != nil {
		return nil, err
	}
	ids := make([]int64, len(out.Data))
	for i, s := range out.Data {
		ids[i] = s.ID
	}
	return ids, nil
}

func detail[T any](ctx context.Context, c *Client, path string, id int64) (*T, error) {
	var out envelope[T]
	if err := c.get(ctx, idPath(path, id), nil, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// ListContacts lists contact ids.
func (c *Client) ListContacts(ctx context.Context, page int) ([]int64, error) {
	return listIDs(ctx, c, pathContacts, page)
}

// GetContact returns a contact detail.
func (c *Client) GetContact(ctx context.Context, id int64) (*Contact, error) {
	return detail[Contact](ctx, c, pathContacts, id)
}

// ListSalespeople lists salesperson ids.
func (c *Client) ListSalespeople(ctx context.Context, page int) ([]int64, error) {
	return listIDs(ctx, c, pathSalespeople, page)
}

// GetSalesperson returns a salesperson detail.
func (c *Client) GetSalesperson(ctx context.Context, id int64) (*Salesperson, error) {
	return detail[Salesperson](ctx, c, pathSalespeople, id)
}

// ListPaymentMethods lists payment method ids.
func (c *Client) ListPaymentMethods(ctx context.Context, page int) ([]int64, error) {
	return listIDs(ctx, c, pathPaymentTypes, page)
}

// GetPaymentMethod returns a payment method detail.
func (c *Client) GetPaymentMethod(ctx context.Context, id int64) (*PaymentMethod, error) {
	return detail[PaymentMethod](ctx, c, pathPaymentTypes, id)
}

// ListCategories lists revenue and expense category ids.
func (c *Client) ListCategories(ctx context.Context, page int) ([]int64, error) {
	return listIDs(ctx, c, pathCategories, page)
}

// GetCategory returns a revenue and expense category.
func (c *Client) GetCategory(ctx context.Context, id int64) (*Category, error) {
	return detail[Category](ctx, c, pathCategories, id)
}

// ListLedgerAccounts lists ledger account ids.
func (c *Client) ListLedgerAccounts(ctx context.Context, page int) ([]int64, error) {
	return listIDs(ctx, c, pathLedger, page)
}

// GetLedgerAccount returns a ledger account.
func (c *Client) GetLedgerAccount(ctx context.Context, id int64) (*LedgerAccount, error) {
	return detail[LedgerAccount](ctx, c, pathLedger, id)
}

// ListProducts lists product ids.
func (c *Client) ListProducts(ctx context.Context, page int) ([]int64, error) {
	return listIDs(ctx, c, pathProducts, page)
}

// GetProduct returns a product detail.
func (c *Client) GetProduct(ctx context.Context, id int64) (*Product, error) {
	return detail[Product](ctx, c, pathProducts, id)
}

// ListOperationNatures lists operation natures with their descriptions.
func (c *Client) ListOperationNatures(ctx context.Context, page int) ([]OperationNature, error) {
	var out envelope[[]OperationNature]
	if err := c.get(ctx, pathNatures, pageQuery(page), &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}
