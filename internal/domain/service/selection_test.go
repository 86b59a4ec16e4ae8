package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/altcred/trustengine/internal/domain/model"
	"github.com/altcred/trustengine/internal/domain/service"
)

func TestSelectionPolicy_Decide(t *testing.T) {
	cases := []struct {
		name      string
		aiEnabled bool
		demoMode  bool
		samples   int
		want      model.ScorerSource
	}{
		{"untrained defaults to rule-based", false, false, 0, model.SourceRuleBased},
		{"below threshold stays rule-based", false, false, 9, model.SourceRuleBased},
		{"at threshold switches to adaptive", false, false, 10, model.SourceAdaptive},
		{"well past threshold stays adaptive", false, false, 500, model.SourceAdaptive},
		{"ai enabled goes external first", true, false, 0, model.SourceExternalAI},
		{"ai beats adaptive history", true, false, 100, model.SourceExternalAI},
		{"demo mode forces rule-based", false, true, 100, model.SourceRuleBased},
		{"demo mode overrides ai", true, true, 100, model.SourceRuleBased},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			policy := service.NewSelectionPolicy(service.DefaultSampleThreshold, tc.aiEnabled, tc.demoMode)
			assert.Equal(t, tc.want, policy.Decide(tc.samples))
		})
	}
}

func TestSelectionPolicy_DefaultThreshold(t *testing.T) {
	policy := service.NewSelectionPolicy(0, false, false)
	assert.Equal(t, service.DefaultSampleThreshold, policy.SampleThreshold)

	custom := service.NewSelectionPolicy(25, false, false)
	assert.Equal(t, model.SourceRuleBased, custom.Decide(24))
	assert.Equal(t, model.SourceAdaptive, custom.Decide(25))
}
