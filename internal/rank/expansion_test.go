package rank

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fernbridge/codelens/internal/store"
)

func TestResolutionMultiplier_RanksByConfidenceClass(t *testing.T) {
	assert.Equal(t, 1.0, resolutionMultiplier(store.ResolutionLocal))
	assert.Equal(t, 0.9, resolutionMultiplier(store.ResolutionImport))
	assert.Equal(t, 0.75, resolutionMultiplier(store.ResolutionHeuristic))
	assert.Equal(t, 0.8, resolutionMultiplier("unknown"))
}

func TestEvidenceBoost_ClampsToRange(t *testing.T) {
	assert.Equal(t, 1.0, evidenceBoost(0))
	assert.Greater(t, evidenceBoost(5), 1.0)
	assert.LessOrEqual(t, evidenceBoost(1000000), 1.75)
}
