// Package chart loads the chart of accounts and the posting roles the journal poster uses.
package chart

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/Africall/sote-minimart/internal/core/domain"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultChart []byte

// Role names an account by what postings use it for.
type Role string

const (
	RoleCash           Role = "cash"
	RoleMpesaClearing  Role = "mpesa_clearing"
	RoleCardClearing   Role = "card_clearing"
	RoleBank           Role = "bank"
	RoleInventory      Role = "inventory"
	RoleVATPayable     Role = "vat_payable"
	RoleCashTransfers  Role = "cash_transfers"
	RoleSalesRevenue   Role = "sales_revenue"
	RoleCOGS           Role = "cogs"
	RoleGeneralExpense Role = "general_expense"
	RoleCashOverShort  Role = "cash_over_short"
)

var requiredRoles = []Role{
	RoleCash, RoleMpesaClearing, RoleCardClearing, RoleBank, RoleInventory, RoleVATPayable,
	RoleCashTransfers, RoleSalesRevenue, RoleCOGS, RoleGeneralExpense, RoleCashOverShort,
}

// Chart is a validated chart of accounts.
type Chart struct {
	Accounts          []domain.Account  `yaml:"accounts"`
	Roles             map[Role]string   `yaml:"roles"`
	ExpenseCategories map[string]string `yaml:"expense_categories"`

	byCode map[string]domain.Account
}

// Default returns the embedded chart.
func Default() (*Chart, error) {
	return Parse(defaultChart)
}

// Load reads a chart from path, or returns the embedded one when path is empty.
func Load(path string) (*Chart, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read chart of accounts %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML chart.
func Parse(data []byte) (*Chart, error) {
	var c Chart
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse chart of accounts: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Chart) validate() error {
	c.byCode = make(map[string]domain.Account, len(c.Accounts))
	for _, a := range c.Accounts {
		if a.Code == "" {
			return fmt.Errorf("chart of accounts: account %q has no code", a.Name)
		}
		if !a.AccountType.IsValid() {
			return fmt.Errorf("chart of accounts: account %s has unknown type %q", a.Code, a.AccountType)
		}
		if _, dup := c.byCode[a.Code]; dup {
			return fmt.Errorf("chart of accounts: duplicate account code %s", a.Code)
		}
		c.byCode[a.Code] = a
	}
	for _, r := range requiredRoles {
		code, ok := c.Roles[r]
		if !ok {
			return fmt.Errorf("chart of accounts: role %s is not mapped", r)
		}
		if _, ok := c.byCode[code]; !ok {
			return fmt.Errorf("chart of accounts: role %s points at unknown account %s", r, code)
		}
	}
	normalised := make(map[string]string, len(c.ExpenseCategories))
	for category, code := range c.ExpenseCategories {
		if _, ok := c.byCode[code]; !ok {
			return fmt.Errorf("chart of accounts: expense category %s points at unknown account %s", category, code)
		}
		normalised[strings.ToLower(category)] = code
	}
	c.ExpenseCategories = normalised
	return nil
}

// Account returns the account code for a role. Roles are validated on load.
func (c *Chart) Account(r Role) string {
	return c.Roles[r]
}

// ExpenseAccount returns the account for an expense category, or the general expense account.
func (c *Chart) ExpenseAccount(category string) string {
	if code, ok := c.ExpenseCategories[strings.ToLower(strings.TrimSpace(category))]; ok {
		return code
	}
	return c.Account(RoleGeneralExpense)
}

// PaymentAccount returns the asset account a payment component lands in.
func (c *Chart) PaymentAccount(m domain.PaymentMethod) (string, error) {
	switch m {
	case domain.PaymentCash:
		return c.Account(RoleCash), nil
	case domain.PaymentMpesa:
		return c.Account(RoleMpesaClearing), nil
	case domain.PaymentCard:
		return c.Account(RoleCardClearing), nil
	case domain.PaymentSplit:
		return "", fmt.Errorf("split is not a payment component")
	default:
		return "", fmt.Errorf("unknown payment method %q", m)
	}
}

// FundingAccount returns the account an expense is paid from.
func (c *Chart) FundingAccount(f domain.FundingSource) (string, error) {
	switch f {
	case domain.FundedByCash:
		return c.Account(RoleCash), nil
	case domain.FundedByMpesa:
		return c.Account(RoleMpesaClearing), nil
	case domain.FundedByBank:
		return c.Account(RoleBank), nil
	default:
		return "", fmt.Errorf("unknown funding source %q", f)
	}
}
