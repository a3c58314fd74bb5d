package dice

import "go.uber.org/zap"

// Roller wraps a Source and logger to provide logged draws.
// All draws are logged at debug level with label, bound, and value.
type Roller struct {
	src    Source
	logger *zap.Logger
}

// NewLoggedRoller creates a Roller that draws from src and logs each draw to logger.
//
// Precondition: src and logger must be non-nil.
func NewLoggedRoller(src Source, logger *zap.Logger) *Roller {
	return &Roller{src: src, logger: logger}
}

// Roll draws a value in [0, n) for the named decision and logs it.
//
// Precondition: n > 0.
// Postcondition: result.Value is in [0, n); the draw is logged.
func (r *Roller) Roll(label string, n int) Draw {
	d := Draw{Label: label, N: n, Value: r.src.Intn(n)}
	r.logger.Debug("dice draw",
		zap.String("label", d.Label),
		zap.Int("n", d.N),
		zap.Int("value", d.Value),
	)
	return d
}
