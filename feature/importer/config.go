package importer

// Config holds the sync settings of the importers.
type Config struct {
	// CompanyID is stored on every imported order.
	CompanyID uint `mapstructure:"company_id" default:"1"`
	// EnabledKinds is a comma separated list of kinds; empty enables all.
	EnabledKinds string `mapstructure:"enabled_kinds" default:""`
	// Timezone is the location ERP dates are interpreted in.
	Timezone string `mapstructure:"timezone" default:"America/Sao_Paulo"`
	// BordereauDelayMS is the pause between two bordereau fetches of one account.
	BordereauDelayMS int `mapstructure:"bordereau_delay_ms" default:"330"`

	// OrdersStart is the first window of the order cursor.
	OrdersStart string `mapstructure:"orders_start" default:"2024-01-01"`
	// AccountsStart is the first window of the payable and receivable cursors.
	AccountsStart string `mapstructure:"accounts_start" default:"2024-01-01"`
	// SettlementsStart is the first window of the payment and receipt cursors.
	SettlementsStart string `mapstructure:"settlements_start" default:"2023-01-01"`
	// InvoicesStart is the first window of the invoice cursors.
	InvoicesStart string `mapstructure:"invoices_start" default:"2023-01-01"`
}
