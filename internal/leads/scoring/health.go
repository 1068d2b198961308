package scoring

// Health labels shown on the dashboard. These are presentation, not pipeline
// state: the cut-points arrive as configuration and are never hard-coded at
// call sites.
const (
	HealthHot  = "Hot"
	HealthWarm = "Warm"
	HealthCold = "Cold"
)

// HealthConfig holds the configurable Hot/Warm cut-points.
type HealthConfig struct {
	HotMin  int
	WarmMin int
}

// DefaultHealthConfig matches the shipped dashboard defaults.
func DefaultHealthConfig() HealthConfig {
	return HealthConfig{HotMin: 70, WarmMin: 40}
}

// Label maps a score to its health label.
func (c HealthConfig) Label(score int) string {
	switch {
	case score >= c.HotMin:
		return HealthHot
	case score >= c.WarmMin:
		return HealthWarm
	default:
		return HealthCold
	}
}
