package secretscout

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/secretscout/secretscout/internal/types"
)

func TestExceedsThresholdHighFailsOnCriticalAndHigh(t *testing.T) {
	findings := []types.Finding{{Severity: types.SeverityMedium}}
	assert.False(t, exceedsThreshold(findings, "high"))

	findings = append(findings, types.Finding{Severity: types.SeverityHigh})
	assert.True(t, exceedsThreshold(findings, "high"))
}

func TestExceedsThresholdLowFailsOnAnyFinding(t *testing.T) {
	findings := []types.Finding{{Severity: types.SeverityLow}}
	assert.True(t, exceedsThreshold(findings, "low"))
}

func TestExceedsThresholdNoFindingsNeverFails(t *testing.T) {
	assert.False(t, exceedsThreshold(nil, "low"))
}

func TestExceedsThresholdUnknownFailOnDefaultsToLow(t *testing.T) {
	findings := []types.Finding{{Severity: types.SeverityLow}}
	assert.True(t, exceedsThreshold(findings, "not-a-real-severity"))
}
