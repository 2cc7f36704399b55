package shared

// Sales pipeline permissions declared for RBAC.
const (
	// Customer permissions
	PermCustomerView   = "sales.customer.view"
	PermCustomerCreate = "sales.customer.create"
	PermCustomerEdit   = "sales.customer.edit"

	// Quotation permissions
	PermQuotationView      = "sales.quotation.view"
	PermQuotationCreate    = "sales.quotation.create"
	PermQuotationEdit      = "sales.quotation.edit"
	PermQuotationApprove   = "sales.quotation.approve"
	PermQuotationConvert   = "sales.quotation.convert"
	PermQuotationDuplicate = "sales.quotation.duplicate"

	// Sales order permissions
	PermSalesOrderView          = "sales.order.view"
	PermSalesOrderUpdateStatus  = "sales.order.update_status"
	PermSalesOrderRecordPayment = "sales.order.record_payment"

	// Invoice permissions
	PermInvoiceView   = "sales.invoice.view"
	PermInvoiceCreate = "sales.invoice.create"
	PermInvoiceCancel = "sales.invoice.cancel"

	// Direct payment permissions
	PermPaymentRecord = "sales.payment.record"
	PermPaymentView   = "sales.payment.view"

	// Settings permissions
	PermSettingsView   = "settings.view"
	PermSettingsManage = "settings.manage"
)

// SalesScopes lists all permissions related to the sales pipeline.
func SalesScopes() []string {
	return []string{
		PermCustomerView,
		PermCustomerCreate,
		PermCustomerEdit,
		PermQuotationView,
		PermQuotationCreate,
		PermQuotationEdit,
		PermQuotationApprove,
		PermQuotationConvert,
		PermQuotationDuplicate,
		PermSalesOrderView,
		PermSalesOrderUpdateStatus,
		PermSalesOrderRecordPayment,
		PermInvoiceView,
		PermInvoiceCreate,
		PermInvoiceCancel,
		PermPaymentRecord,
		PermPaymentView,
	}
}
