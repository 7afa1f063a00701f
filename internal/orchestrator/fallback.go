package orchestrator

import (
	"github.com/danielpatrickdp/neurosym-core/internal/gate"
	"github.com/danielpatrickdp/neurosym-core/internal/rubric"
)

// #region fallback-texts

// Pre-approved responses sent whenever a plan fails verification.
const (
	CrisisFallback = "Ik maak me zorgen om hoe het nu met je gaat. Je hoeft dit niet alleen te dragen. " +
		"Bel 113 (0800-0113) of 112 bij direct gevaar; daar zitten mensen klaar om met je te praten."
	SupportFallback = "Dank je dat je dit met me deelt. Ik wil je graag goed helpen. " +
		"Kun je me vertellen wat je op dit moment het meest nodig hebt?"
)

// FallbackKind names which fixed response was used.
type FallbackKind string

const (
	FallbackCrisis  FallbackKind = "crisis"
	FallbackSupport FallbackKind = "support"
)

// #endregion

// #region select

const crisisSnapshotLevel = 80

// selectFallback returns the crisis referral when any crisis rubric reached
// the strictness alert level or the crisis snapshot is above 80.
func selectFallback(assessments []rubric.Assessment, cfg rubric.StrictnessConfig, snap gate.RubricSnapshot) (FallbackKind, string) {
	if snap.Crisis > crisisSnapshotLevel {
		return FallbackCrisis, CrisisFallback
	}
	mul := cfg.Weights.RiskMultiplier
	if mul == 0 {
		mul = 1
	}
	for _, a := range assessments {
		if a.Category == rubric.CategoryCrisis && a.RiskScore > 0 && a.RiskScore*mul >= cfg.Thresholds.RiskAlert {
			return FallbackCrisis, CrisisFallback
		}
	}
	return FallbackSupport, SupportFallback
}

// #endregion
