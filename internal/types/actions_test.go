package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecisionValid(t *testing.T) {
	assert.True(t, DecisionApproved.Valid())
	assert.True(t, DecisionRejected.Valid())

	for _, d := range []Decision{"", "Maybe", "Approved", "REJECTED", "approved "} {
		assert.False(t, d.Valid(), "decision %q", d)
	}
}
