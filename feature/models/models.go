package models

// All returns every entity in migration order.
func All() []any {
	return []any{
		&Person{},
		&Address{},
		&Supplier{},
		&Salesperson{},
		&Commission{},
		&PaymentMethod{},
		&ChartAccount{},
		&Carrier{},
		&InvoiceCategory{},
		&Product{},
		&Order{},
		&OrderItem{},
		&OrderInstallment{},
		&Payable{},
		&Receivable{},
		&PayablePayment{},
		&ReceivableReceipt{},
		&Invoice{},
	}
}
