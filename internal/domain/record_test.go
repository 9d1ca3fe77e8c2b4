package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeStats(t *testing.T) {
	t.Parallel()

	t.Run("violations carry fine total", func(t *testing.T) {
		stats := ComputeStats([]*Violation{
			{Status: ViolationPending, FineAmount: decimal.NewFromInt(800000)},
			{Status: ViolationPaid, FineAmount: decimal.NewFromInt(1200000)},
			{Status: ViolationPending, FineAmount: decimal.NewFromInt(500000)},
		})

		assert.Equal(t, 3, stats.Total)
		assert.Equal(t, map[string]int{"pending": 2, "paid": 1}, stats.ByStatus)
		require.NotNil(t, stats.FineTotal)
		assert.True(t, decimal.NewFromInt(2500000).Equal(*stats.FineTotal))
	})

	t.Run("empty violations report zero fines", func(t *testing.T) {
		stats := ComputeStats([]*Violation{})
		assert.Zero(t, stats.Total)
		require.NotNil(t, stats.FineTotal)
		assert.True(t, stats.FineTotal.IsZero())
	})

	t.Run("licenses have no fines", func(t *testing.T) {
		stats := ComputeStats([]*License{{Status: LicenseActive}, {Status: LicenseRevoked}})
		assert.Equal(t, 2, stats.Total)
		assert.Nil(t, stats.FineTotal)
	})
}

func TestAuditFilterMatches(t *testing.T) {
	t.Parallel()

	log := &AuditLog{Identity: "0xabc", Action: AuditActionOf(ResourceLicenses, AuditVerbCreate), ResourceType: ResourceLicenses, ResourceID: "L1"}

	assert.True(t, AuditFilter{}.Matches(log))
	assert.True(t, AuditFilter{Identity: "0XABC", ResourceType: ResourceLicenses}.Matches(log))
	assert.False(t, AuditFilter{Action: AuditActionOf(ResourceLicenses, AuditVerbDelete)}.Matches(log))
	assert.Equal(t, AuditAction("licenses.create"), log.Action)
}
