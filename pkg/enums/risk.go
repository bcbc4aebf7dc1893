package enums

import "fmt"

// RiskLevel is the scam-risk label attached to products and transactions.
type RiskLevel string

const (
	RiskLevelLow    RiskLevel = "low"
	RiskLevelMedium RiskLevel = "medium"
	RiskLevelHigh   RiskLevel = "high"
)

var validRiskLevels = []RiskLevel{RiskLevelLow, RiskLevelMedium, RiskLevelHigh}

func (r RiskLevel) IsValid() bool {
	for _, candidate := range validRiskLevels {
		if candidate == r {
			return true
		}
	}
	return false
}

func ParseRiskLevel(value string) (RiskLevel, error) {
	for _, candidate := range validRiskLevels {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid risk level %q", value)
}

// ScamShieldStatus is the marketplace badge derived from a risk level.
type ScamShieldStatus string

const (
	ScamShieldSafe    ScamShieldStatus = "safe"
	ScamShieldWarning ScamShieldStatus = "warning"
	ScamShieldDanger  ScamShieldStatus = "danger"
)

// ShieldFor maps a risk level to its badge.
func ShieldFor(level RiskLevel) ScamShieldStatus {
	switch level {
	case RiskLevelLow:
		return ScamShieldSafe
	case RiskLevelMedium:
		return ScamShieldWarning
	default:
		return ScamShieldDanger
	}
}
