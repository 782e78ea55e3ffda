package domain

// AccountSpec is the fixed shape of a well-known default account, created when
// a selector finds nothing. Identical inputs on an empty registry always
// produce the same account.
type AccountSpec struct {
	Code string
	Name string
	Type AccountType
}

// NormalBalance returns the conventional side for the spec's account type.
func (s AccountSpec) NormalBalance() NormalBalance {
	return s.Type.DefaultNormalBalance()
}

// Well-known default accounts auto-provisioned by the document adapters.
var (
	DefaultReceivable = AccountSpec{Code: "1100", Name: "Accounts Receivable", Type: AccountTypeAsset}
	DefaultPayable    = AccountSpec{Code: "2000", Name: "Accounts Payable", Type: AccountTypeLiability}
	DefaultRevenue    = AccountSpec{Code: "4000", Name: "Sales Revenue", Type: AccountTypeRevenue}
	DefaultExpense    = AccountSpec{Code: "5000", Name: "General Expense", Type: AccountTypeExpense}
)

// AccountSelector describes how an adapter resolves an account: explicit code
// first, then the first active account of Type whose name contains
// NameContains, then Fallback is created.
type AccountSelector struct {
	Code         string
	Type         AccountType
	NameContains string
	Fallback     AccountSpec
}
