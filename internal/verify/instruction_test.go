package verify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/crosscheck-ai/crosscheck/internal/model"
)

func TestInstruction_NoVerifyPassesThrough(t *testing.T) {
	out := SynthesizeInstruction(model.TierNoVerify, model.ConfidenceLow, model.AgreementDetail{})
	assert.Empty(t, out)
}

func TestInstruction_HighConfidenceVerified(t *testing.T) {
	out := SynthesizeInstruction(model.TierStandard, model.ConfidenceHigh, model.AgreementDetail{})
	assert.Contains(t, out, "[VERIFIED]")
}

func TestInstruction_MediumCarriesConflicts(t *testing.T) {
	detail := model.AgreementDetail{ConflictDescription: "rating: 6.5 (brave) vs 9.0 (tavily)"}

	out := SynthesizeInstruction(model.TierStandard, model.ConfidenceMedium, detail)

	assert.Contains(t, out, "[CAUTION]")
	assert.Contains(t, out, "rating: 6.5 (brave) vs 9.0 (tavily)")
}

func TestInstruction_LowNonStrictHedges(t *testing.T) {
	out := SynthesizeInstruction(model.TierStandard, model.ConfidenceLow, model.AgreementDetail{})

	assert.Contains(t, out, "[UNVERIFIED]")
	assert.NotContains(t, out, "[REFUSE-SPECIFICS]")
}

func TestInstruction_LowStrictRefusesSpecifics(t *testing.T) {
	out := SynthesizeInstruction(model.TierStrict, model.ConfidenceLow, model.AgreementDetail{})

	assert.Contains(t, out, "[REFUSE-SPECIFICS]")
	assert.Contains(t, out, "authoritative sources")
	assert.Contains(t, out, "Do not state any number, name, or date as fact")
}
