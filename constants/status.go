package constants

// TxStatus is the canonical status for rows in transactions.
type TxStatus string

// Stable values (store these exact strings in DB).
const (
	TxStatusPending    TxStatus = "pending"    // entered, not yet checked
	TxStatusValidated  TxStatus = "validated"  // checked by a treasurer
	TxStatusReconciled TxStatus = "reconciled" // matched against a bank statement
)

var txStatuses = []TxStatus{TxStatusPending, TxStatusValidated, TxStatusReconciled}

// KnownTxStatus reports whether s is one of the stable transaction statuses.
func KnownTxStatus(s TxStatus) bool {
	for _, k := range txStatuses {
		if s == k {
			return true
		}
	}
	return false
}

// CanTransition is the single place to tighten the transaction status
// lifecycle. The intended path is pending -> validated -> reconciled, but any
// transition between known statuses is currently allowed so that validate and
// reconcile stay idempotent and order-free.
func CanTransition(from, to TxStatus) bool {
	return KnownTxStatus(from) && KnownTxStatus(to)
}

// InvoiceStatus is the canonical status for rows in invoices.
type InvoiceStatus string

const (
	InvoiceStatusQuote     InvoiceStatus = "quote"
	InvoiceStatusPending   InvoiceStatus = "pending"
	InvoiceStatusPaid      InvoiceStatus = "paid"
	InvoiceStatusOverdue   InvoiceStatus = "overdue"
	InvoiceStatusCancelled InvoiceStatus = "cancelled"
)

var invoiceStatuses = []InvoiceStatus{
	InvoiceStatusQuote,
	InvoiceStatusPending,
	InvoiceStatusPaid,
	InvoiceStatusOverdue,
	InvoiceStatusCancelled,
}

// KnownInvoiceStatus reports whether s is one of the stable invoice statuses.
func KnownInvoiceStatus(s InvoiceStatus) bool {
	for _, k := range invoiceStatuses {
		if s == k {
			return true
		}
	}
	return false
}

// ProjectStatus is the lifecycle of an ad-hoc budget project.
type ProjectStatus string

const (
	ProjectStatusPlanned   ProjectStatus = "planned"
	ProjectStatusOngoing   ProjectStatus = "ongoing"
	ProjectStatusCompleted ProjectStatus = "completed"
)

// KnownProjectStatus reports whether s is one of the stable project statuses.
func KnownProjectStatus(s ProjectStatus) bool {
	switch s {
	case ProjectStatusPlanned, ProjectStatusOngoing, ProjectStatusCompleted:
		return true
	}
	return false
}

// Transaction and invoice sides.
const (
	TypeIncome  = "income"
	TypeExpense = "expense"

	DocTypeInvoice = "invoice"
	DocTypeQuote   = "quote"

	ClientTypeClient   = "client"
	ClientTypeSupplier = "supplier"
)

// Reference-code prefixes. These are the only user-facing identifiers.
const (
	PrefixTransaction = "TRA"
	PrefixInvoice     = "FAC"
	PrefixQuote       = "DEV"
)
