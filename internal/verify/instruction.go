package verify

import (
	"strings"

	"github.com/crosscheck-ai/crosscheck/internal/model"
)

// Instruction templates keyed by (tier, confidence level). These are
// directives for the downstream answer generator, not user-facing text.
const (
	instructionVerified = "[VERIFIED] The context above was cross-checked across independent " +
		"sources and is consistent. State the facts plainly and cite the sources."

	instructionCaution = "[CAUTION] Sources partially disagree on the facts above. Hedge your " +
		"wording, attribute values to their sources, and do not present any divergent value " +
		"as settled fact."

	instructionUnverified = "[UNVERIFIED] The facts above could not be verified across sources. " +
		"Avoid stating specific numbers or dates, and say explicitly that the information is " +
		"unverified."

	instructionRefusal = "[REFUSE-SPECIFICS] Verification failed for a high-stakes query. Do not " +
		"state any number, name, or date as fact. Tell the user the information could not be " +
		"verified and direct them to authoritative sources for this topic."
)

// SynthesizeInstruction emits the policy string controlling how
// confidently the downstream consumer may state the fact. NO_VERIFY
// queries pass through unannotated.
func SynthesizeInstruction(tier model.Tier, level model.ConfidenceLevel, agreement model.AgreementDetail) string {
	if tier == model.TierNoVerify {
		return ""
	}

	switch level {
	case model.ConfidenceHigh:
		return instructionVerified
	case model.ConfidenceMedium:
		if agreement.ConflictDescription != "" {
			return instructionCaution + " Conflicts: " + agreement.ConflictDescription + "."
		}
		return instructionCaution
	default:
		if tier == model.TierStrict {
			return instructionRefusal
		}
		if agreement.ConflictDescription != "" {
			return strings.TrimSuffix(instructionUnverified, ".") +
				". Conflicts: " + agreement.ConflictDescription + "."
		}
		return instructionUnverified
	}
}
