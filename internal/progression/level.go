package progression

// DefaultXPBase is the XP cost of the first level on the triangular curve.
const DefaultXPBase = 100

// Curve maps cumulative XP to levels. The curve is triangular: reaching level
// L costs base * L * (L+1) / 2 XP in total, so each level costs base more
// than the one before it.
type Curve struct {
	base int64
}

// NewCurve builds a curve with the given per-level XP base. Non-positive
// values fall back to the default.
func NewCurve(base int64) Curve {
	if base <= 0 {
		base = DefaultXPBase
	}
	return Curve{base: base}
}

// XPForLevel returns the cumulative XP required to reach a level.
func (c Curve) XPForLevel(level int32) int64 {
	if level <= 0 {
		return 0
	}
	l := int64(level)
	return c.base * l * (l + 1) / 2
}

// LevelInfo describes where an XP total sits on the curve.
type LevelInfo struct {
	Level          int32
	XPIntoLevel    int64
	XPForNextLevel int64
}

// LevelAt returns the largest level whose cumulative requirement does not
// exceed xp, along with progress toward the next level. Total for all xp >= 0;
// negative input clamps to zero.
func (c Curve) LevelAt(xp int64) LevelInfo {
	if xp < 0 {
		xp = 0
	}
	var level int32
	for c.XPForLevel(level+1) <= xp {
		level++
	}
	return LevelInfo{
		Level:          level,
		XPIntoLevel:    xp - c.XPForLevel(level),
		XPForNextLevel: c.XPForLevel(level+1) - c.XPForLevel(level),
	}
}

// Progress returns the fraction of the current level completed, in [0, 1).
// It is the inverse companion of LevelAt, used for progress bars.
func (li LevelInfo) Progress() float64 {
	if li.XPForNextLevel <= 0 {
		return 0
	}
	return float64(li.XPIntoLevel) / float64(li.XPForNextLevel)
}
