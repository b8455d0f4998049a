package chart_test

import (
	"testing"

	"github.com/Africall/sote-minimart/internal/core/domain"
	"github.com/Africall/sote-minimart/internal/platform/chart"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	c, err := chart.Default()
	require.NoError(t, err)

	assert.Equal(t, "1000", c.Account(chart.RoleCash))
	assert.Equal(t, "6200", c.ExpenseAccount("Electricity"))
	assert.Equal(t, "6000", c.ExpenseAccount("stationery"))

	acc, err := c.PaymentAccount(domain.PaymentMpesa)
	require.NoError(t, err)
	assert.Equal(t, "1010", acc)

	_, err = c.PaymentAccount(domain.PaymentSplit)
	assert.Error(t, err)

	acc, err = c.FundingAccount(domain.FundedByBank)
	require.NoError(t, err)
	assert.Equal(t, "1030", acc)

	for _, a := range c.Accounts {
		if a.Code == c.Account(chart.RoleCOGS) {
			assert.Equal(t, domain.ExpenseAccount, a.AccountType)
		}
	}
}

func TestParse_RejectsUnmappedRole(t *testing.T) {
	_, err := chart.Parse([]byte(`
accounts:
  - {code: "1000", name: "Cash", type: ASSET}
roles:
  cash: "1000"
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is not mapped")
}

func TestParse_RejectsUnknownAccountType(t *testing.T) {
	_, err := chart.Parse([]byte(`
accounts:
  - {code: "1000", name: "Cash", type: MONEY}
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown type")
}
