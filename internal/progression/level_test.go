package progression

import "testing"

func TestXPForLevel(t *testing.T) {
	c := NewCurve(100)
	cases := []struct {
		level int32
		want  int64
	}{
		{0, 0},
		{1, 100},
		{2, 300},
		{3, 600},
		{4, 1000},
		{-1, 0},
	}
	for _, tc := range cases {
		if got := c.XPForLevel(tc.level); got != tc.want {
			t.Errorf("XPForLevel(%d) = %d, want %d", tc.level, got, tc.want)
		}
	}
}

func TestLevelAt(t *testing.T) {
	c := NewCurve(100)
	cases := []struct {
		xp   int64
		want int32
	}{
		{0, 0},
		{99, 0},
		{100, 1},
		{299, 1},
		{300, 2},
		{599, 2},
		{600, 3},
		{-50, 0},
	}
	for _, tc := range cases {
		if got := c.LevelAt(tc.xp).Level; got != tc.want {
			t.Errorf("LevelAt(%d).Level = %d, want %d", tc.xp, got, tc.want)
		}
	}
}

func TestLevelAtProgress(t *testing.T) {
	c := NewCurve(100)
	info := c.LevelAt(150)
	if info.Level != 1 {
		t.Fatalf("Level = %d, want 1", info.Level)
	}
	if info.XPIntoLevel != 50 {
		t.Errorf("XPIntoLevel = %d, want 50", info.XPIntoLevel)
	}
	if info.XPForNextLevel != 200 {
		t.Errorf("XPForNextLevel = %d, want 200", info.XPForNextLevel)
	}
	if got := info.Progress(); got != 0.25 {
		t.Errorf("Progress() = %f, want 0.25", got)
	}
}

func TestNewCurveDefaultsBase(t *testing.T) {
	c := NewCurve(0)
	if got := c.XPForLevel(1); got != DefaultXPBase {
		t.Errorf("XPForLevel(1) = %d, want %d", got, DefaultXPBase)
	}
}

func TestLevelAtCustomBase(t *testing.T) {
	c := NewCurve(50)
	if got := c.LevelAt(50).Level; got != 1 {
		t.Errorf("LevelAt(50).Level = %d, want 1", got)
	}
	if got := c.LevelAt(149).Level; got != 1 {
		t.Errorf("LevelAt(149).Level = %d, want 1", got)
	}
	if got := c.LevelAt(150).Level; got != 2 {
		t.Errorf("LevelAt(150).Level = %d, want 2", got)
	}
}
