package todo

import (
	"fmt"
	"strings"
)

// Name length caps used by the presets.
const (
	CompactNameLength = 30
	NarrowNameLength  = 50
	WideNameLength    = 100

	// CappedTaskCount is the task cap of the capped preset.
	CappedTaskCount = 4

	// NarrowWidth is the viewport width, in columns, below which the
	// adaptive preset switches to NarrowNameLength.
	NarrowWidth = 80
)

// Preset names a predefined Limits configuration.
type Preset string

const (
	PresetCapped   Preset = "capped"
	PresetOpen     Preset = "open"
	PresetAdaptive Preset = "adaptive"
)

// ParsePreset parses a preset name, ignoring case.
func ParsePreset(s string) (Preset, error) {
	switch p := Preset(strings.ToLower(strings.TrimSpace(s))); p {
	case PresetCapped, PresetOpen, PresetAdaptive:
		return p, nil
	}
	return "", fmt.Errorf("unknown preset %q, must be one of: capped, open, adaptive", s)
}

// Limits bounds task names and the task count.
// MaxTaskCount of zero means the list is unbounded.
type Limits struct {
	MaxNameLength int  `json:"max_name_length" toml:"max_name_length"`
	MaxTaskCount  int  `json:"max_task_count" toml:"max_task_count"`
	Adaptive      bool `json:"adaptive,omitempty" toml:"-"`
}

// CappedLimits returns the 30 character, four task configuration.
func CappedLimits() Limits {
	return Limits{MaxNameLength: CompactNameLength, MaxTaskCount: CappedTaskCount}
}

// OpenLimits returns the 100 character, unbounded configuration.
func OpenLimits() Limits {
	return Limits{MaxNameLength: WideNameLength}
}

// AdaptiveLimits returns an unbounded configuration whose name length is
// chosen from the viewport width. Until a width is known it uses the wide cap.
func AdaptiveLimits() Limits {
	return Limits{MaxNameLength: WideNameLength, Adaptive: true}
}

// PresetLimits returns the Limits for p.
func PresetLimits(p Preset) Limits {
	switch p {
	case PresetCapped:
		return CappedLimits()
	case PresetAdaptive:
		return AdaptiveLimits()
	default:
		return OpenLimits()
	}
}

// NameLengthForWidth returns the adaptive name cap for a viewport width.
func NameLengthForWidth(width int) int {
	if width > 0 && width < NarrowWidth {
		return NarrowNameLength
	}
	return WideNameLength
}

// Bounded reports whether the task count is capped.
func (l Limits) Bounded() bool {
	return l.MaxTaskCount > 0
}

// Validate checks that the limits are usable.
func (l Limits) Validate() error {
	if l.MaxNameLength <= 0 {
		return &ValidationError{Path: "max_name_length", Err: fmt.Errorf("must be positive, got %d", l.MaxNameLength)}
	}
	if l.MaxTaskCount < 0 {
		return &ValidationError{Path: "max_task_count", Err: fmt.Errorf("must not be negative, got %d", l.MaxTaskCount)}
	}
	return nil
}

func (l Limits) String() string {
	count := "unbounded"
	if l.Bounded() {
		count = fmt.Sprintf("%d", l.MaxTaskCount)
	}
	return fmt.Sprintf("name<=%d tasks=%s", l.MaxNameLength, count)
}
