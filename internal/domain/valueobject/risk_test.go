package valueobject_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/altcred/trustengine/internal/domain/valueobject"
)

func TestRiskFromScore(t *testing.T) {
	cases := []struct {
		score int
		want  valueobject.RiskCategory
	}{
		{900, valueobject.RiskLow},
		{750, valueobject.RiskLow},
		{749, valueobject.RiskMedium},
		{650, valueobject.RiskMedium},
		{649, valueobject.RiskHigh},
		{550, valueobject.RiskHigh},
		{549, valueobject.RiskVeryHigh},
		{300, valueobject.RiskVeryHigh},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, valueobject.RiskFromScore(tc.score), "score %d", tc.score)
	}
}

func TestRiskFromScoreAndDefault(t *testing.T) {
	// A default probability above the band's ceiling demotes the category
	// regardless of score.
	assert.Equal(t, valueobject.RiskLow, valueobject.RiskFromScoreAndDefault(800, 0.10))
	assert.Equal(t, valueobject.RiskMedium, valueobject.RiskFromScoreAndDefault(800, 0.20))
	assert.Equal(t, valueobject.RiskHigh, valueobject.RiskFromScoreAndDefault(800, 0.40))
	assert.Equal(t, valueobject.RiskVeryHigh, valueobject.RiskFromScoreAndDefault(800, 0.60))

	assert.Equal(t, valueobject.RiskMedium, valueobject.RiskFromScoreAndDefault(700, 0.10))
	assert.Equal(t, valueobject.RiskVeryHigh, valueobject.RiskFromScoreAndDefault(500, 0.05))
}
