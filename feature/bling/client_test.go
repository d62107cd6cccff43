package bling_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bling-sync/core/walker"
	"bling-sync/feature/bling"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

type staticToken string

func (s staticToken) AccessToken(context.Context) (string, error) {
	return string(s), nil
}

func newTestClient(t *testing.T, h http.HandlerFunc) *bling.Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return bling.NewClient(bling.Config{BaseURL: srv.URL}, staticToken("tok"), nil,
		bling.WithLimiter(rate.NewLimiter(rate.Inf, 1)))
}

func TestListOrders(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/pedidos/vendas", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		q := r.URL.Query()
		assert.Equal(t, []string{"9", "12"}, q["idsSituacoes[]"])
		assert.Equal(t, "2024-03-05", q.Get("dataInicial"))
		assert.Equal(t, "2024-03-05", q.Get("dataFinal"))
		assert.Equal(t, "2", q.Get("pagina"))
		assert.Equal(t, "100", q.Get("limite"))
		_, _ = io.WriteString(w, `{"data":[{"id":7,"numero":70,"total":"12.30","totalProdutos":12.3,"situacao":{"id":9,"valor":1}}]}`)
	})

	rows, err := client.ListOrders(context.Background(), 2, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(7), rows[0].ID)
	assert.Equal(t, "12.3", rows[0].Total.String())
	assert.Equal(t, int64(9), rows[0].Situation.ID)
}

func TestClientErrors(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		rateLimited bool
		notFound    bool
	}{
		{
			name:        "Too Many Requests",
			status:      http.StatusTooManyRequests,
			body:        `{"error":{"type":"TOO_MANY_REQUESTS","message":"slow down"}}`,
			rateLimited: true,
		},
		{
			name:        "Request Limit Message",
			status:      http.StatusBadRequest,
			body:        `{"error":{"type":"X","message":"` + bling.MessageRequestLimit + `"}}`,
			rateLimited: true,
		},
		{
			name:     "Not Found",
			status:   http.StatusNotFound,
			body:     `{"error":{"type":"RESOURCE_NOT_FOUND","message":"Não encontrado"}}`,
			notFound: true,
		},
		{
			name:   "Validation",
			status: http.StatusBadRequest,
			body:   `{"error":{"type":"VALIDATION_ERROR","message":"invalid","description":"campo"}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})

			_, err := client.GetContact(context.Background(), 1)
			require.Error(t, err)
			assert.Equal(t, tt.rateLimited, errors.Is(err, walker.ErrRateLimited))
			assert.Equal(t, tt.notFound, errors.Is(err, bling.ErrNotFound))

			var apiErr *bling.APIError
			if tt.rateLimited {
				assert.False(t, errors.As(err, &apiErr))
			} else {
				require.True(t, errors.As(err, &apiErr))
				assert.Equal(t, tt.status, apiErr.Status)
			}
		})
	}
}

func TestClientTransportErrorIsNotRateLimit(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	client := bling.NewClient(bling.Config{BaseURL: srv.URL}, staticToken("tok"), nil,
		bling.WithLimiter(rate.NewLimiter(rate.Inf, 1)))

	_, err := client.GetContact(context.Background(), 1)
	require.Error(t, err)
	assert.False(t, errors.Is(err, walker.ErrRateLimited))
	assert.Contains(t, err.Error(), "GET contatos/1")
}

func TestUpdatePayableDocument(t *testing.T) {
	var got map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/contas/pagar/55", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	})

	raw := []byte(`{"data":{"id":55,"valor":"10.50","vencimento":"2024-01-10","dataEmissao":"2024-01-02","contato":{"id":3},"numeroDocumento":""}}`)
	acc, err := bling.ParseAccount(raw)
	require.NoError(t, err)

	require.NoError(t, client.UpdatePayableDocument(context.Background(), acc, "55"))
	assert.Equal(t, "55", got["numeroDocumento"])
	assert.Equal(t, "2024-01-10", got["vencimento"])
	assert.Equal(t, "10.5", got["valor"])
	assert.Equal(t, float64(3), got["contato"].(map[string]any)["id"])
}

func TestListInvoicesAndPayables(t *testing.T) {
	day := time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		switch r.URL.Path {
		case "/nfe":
			assert.Equal(t, "1", q.Get("tipo"))
			assert.Equal(t, "2023-01-02 00:00:01", q.Get("dataEmissaoInicial"))
			assert.Equal(t, "2023-01-02 23:59:59", q.Get("dataEmissaoFinal"))
		case "/contas/pagar":
			assert.Equal(t, "2023-01-02", q.Get("dataPagamentoInicial"))
			assert.Empty(t, q.Get("dataEmissaoInicial"))
		case "/contas/receber":
			assert.Equal(t, "E", q.Get("tipoFiltroData"))
			assert.Equal(t, "2023-01-02", q.Get("dataInicial"))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_, _ = io.WriteString(w, `{"data":[{"id":1},{"id":2}]}`)
	})

	ctx := context.Background()
	inv, err := client.ListInvoices(ctx, 1, day, bling.InvoiceOutbound)
	require.NoError(t, err)
	assert.Len(t, inv, 2)

	pay, err := client.ListPayables(ctx, 1, day, bling.BySettlement)
	require.NoError(t, err)
	assert.Len(t, pay, 2)

	rec, err := client.ListReceivables(ctx, 1, day, bling.ByIssue)
	require.NoError(t, err)
	assert.Len(t, rec, 2)
}

func TestParseOrder(t *testing.T) {
	raw := []byte(`{"data":{"id":10,"numero":99,"total":105.5,"totalProdutos":100,"outrasDespesas":0,
		"desconto":{"valor":5,"unidade":"REAL"},"transporte":{"frete":10.5},
		"itens":[{"id":2,"quantidade":2,"valor":25,"desconto":0,"produto":{"id":8}}],
		"parcelas":[{"id":4,"dataVencimento":"2024-02-01","valor":105.5,"formaPagamento":{"id":6}}],
		"vendedor":{"id":0},"contato":{"id":3}}}`)

	o, err := bling.ParseOrder(raw)
	require.NoError(t, err)
	assert.Equal(t, int64(99), o.Number)
	assert.Equal(t, "10.5", o.Shipping.Freight.String())
	assert.Equal(t, "REAL", o.Discount.Unit)
	require.Len(t, o.Items, 1)
	assert.Equal(t, int64(8), o.Items[0].Product.ID)
	assert.Equal(t, int64(6), o.Installments[0].PaymentMethod.ID)

	_, err = bling.ParseOrder([]byte("not json"))
	assert.Error(t, err)
}
