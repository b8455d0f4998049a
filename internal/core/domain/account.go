package domain

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset          AccountType = "ASSET"
	Liability      AccountType = "LIABILITY"
	Equity         AccountType = "EQUITY"
	Revenue        AccountType = "REVENUE"
	ExpenseAccount AccountType = "EXPENSE"
)

// IsValid reports whether t is a known account type.
func (t AccountType) IsValid() bool {
	switch t {
	case Asset, Liability, Equity, Revenue, ExpenseAccount:
		return true
	default:
		return false
	}
}

// Account is an entry in the chart of accounts. Journal lines reference it by Code.
type Account struct {
	Code        string      `json:"code" yaml:"code"`
	Name        string      `json:"name" yaml:"name"`
	AccountType AccountType `json:"accountType" yaml:"type"`
}
