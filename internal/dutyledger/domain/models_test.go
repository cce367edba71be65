package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateNormalizesKnownValues(t *testing.T) {
	ledger := DutyLedger{
		Name:    "Commission",
		Kind:    " deduction ",
		Method:  "PERCENTAGE",
		ApplyOn: " Subtotal ",
		Rate:    2,
	}
	require.NoError(t, ledger.Validate())
	assert.Equal(t, "DEDUCTION", ledger.Kind)
	assert.Equal(t, "percentage", ledger.Method)
	assert.Equal(t, "subtotal", ledger.ApplyOn)
}

func TestValidateDefaultsMethodAndApplyOn(t *testing.T) {
	ledger := DutyLedger{Name: "Market Fee", Kind: "CHARGE"}
	require.NoError(t, ledger.Validate())
	assert.Equal(t, "hybrid", ledger.Method)
	assert.Equal(t, "running_total", ledger.ApplyOn)
}

func TestValidateRejectsUnknownValues(t *testing.T) {
	ledger := DutyLedger{Name: " ", Kind: "CHARGE"}
	assert.ErrorIs(t, ledger.Validate(), ErrInvalidName)

	ledger = DutyLedger{Name: "Fee", Kind: "SURCHARGE"}
	assert.ErrorIs(t, ledger.Validate(), ErrInvalidKind)

	ledger = DutyLedger{Name: "Fee", Kind: "CHARGE", Method: "tiered"}
	assert.ErrorIs(t, ledger.Validate(), ErrInvalidMethod)

	ledger = DutyLedger{Name: "Fee", Kind: "CHARGE", ApplyOn: "grand_total"}
	assert.ErrorIs(t, ledger.Validate(), ErrInvalidApplyOn)
}
