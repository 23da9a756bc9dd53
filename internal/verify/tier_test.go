package verify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/crosscheck-ai/crosscheck/internal/model"
)

func newTestPipeline() *Pipeline {
	return New(DefaultOptions())
}

func TestClassifyTier_StrictDomain(t *testing.T) {
	p := newTestPipeline()

	assert.Equal(t, model.TierStrict, p.ClassifyTier("health", "best breakfast spots"))
	assert.Equal(t, model.TierStrict, p.ClassifyTier("finance", "anything at all"))
	assert.Equal(t, model.TierStrict, p.ClassifyTier("LEGAL", "tell me a story"))
}

func TestClassifyTier_StrictKeyword(t *testing.T) {
	p := newTestPipeline()

	assert.Equal(t, model.TierStrict, p.ClassifyTier("general", "paracetamol dosage for adults"))
	assert.Equal(t, model.TierStrict, p.ClassifyTier("general", "how to renew my passport"))
	assert.Equal(t, model.TierStrict, p.ClassifyTier("general", "current home loan interest rate"))
}

func TestClassifyTier_Standard(t *testing.T) {
	p := newTestPipeline()

	assert.Equal(t, model.TierStandard, p.ClassifyTier("shopping", "iphone 16 price in india"))
	assert.Equal(t, model.TierStandard, p.ClassifyTier("entertainment", "dune part two rating"))
	assert.Equal(t, model.TierStandard, p.ClassifyTier("sports", "india vs australia result"))
	assert.Equal(t, model.TierStandard, p.ClassifyTier("general", "how many moons does jupiter have"))
}

func TestClassifyTier_NoVerify(t *testing.T) {
	p := newTestPipeline()

	assert.Equal(t, model.TierNoVerify, p.ClassifyTier("general", "write me a poem about autumn"))
	assert.Equal(t, model.TierNoVerify, p.ClassifyTier("general", "what should I name my cat"))
}

func TestClassifyTier_BoundaryAware(t *testing.T) {
	p := newTestPipeline()

	// "mg" must not match inside "among"; "vs" not inside "vsauce".
	assert.Equal(t, model.TierNoVerify, p.ClassifyTier("general", "who is the most popular among my friends"))
	assert.Equal(t, model.TierNoVerify, p.ClassifyTier("general", "tell me about vsauce videos"))
	assert.Equal(t, model.TierStrict, p.ClassifyTier("general", "500 mg twice a day"))
}

func TestClassifyTier_CaseInsensitive(t *testing.T) {
	p := newTestPipeline()

	assert.Equal(t, model.TierStrict, p.ClassifyTier("general", "PARACETAMOL Dosage"))
	assert.Equal(t, model.TierStandard, p.ClassifyTier("general", "LAPTOP PRICE comparison"))
}

func TestClassifyTier_Deterministic(t *testing.T) {
	p := newTestPipeline()

	first := p.ClassifyTier("entertainment", "oppenheimer imdb rating")
	for i := 0; i < 50; i++ {
		assert.Equal(t, first, p.ClassifyTier("entertainment", "oppenheimer imdb rating"))
	}
}
