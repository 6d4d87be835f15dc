package pipeline

import (
	"errors"
	"fmt"
)

// Block is one timestamped line of caption text.
type Block struct {
	Time string `json:"time"` // MM:SS
	Text string `json:"text"`
}

// Profile selects how aggressively caption text is scrubbed.
type Profile string

const (
	// ProfileFull removes tags, URLs, parenthetical annotations and emoji.
	ProfileFull Profile = "full"
	// ProfileMinimal removes tags and emoji only.
	ProfileMinimal Profile = "minimal"
)

// Mode selects the final rendering of a transcript.
type Mode string

const (
	// ModeFlattened joins every block into one paragraph without timestamps.
	ModeFlattened Mode = "flattened"
	// ModeGrouped renders merged groups as "MM:SS\ntext" separated by blank lines.
	ModeGrouped Mode = "grouped"
)

var (
	ErrInvalidGroupSize = errors.New("group size must be at least 1")
	ErrUnknownProfile   = errors.New("unknown cleaning profile")
	ErrUnknownMode      = errors.New("unknown output mode")
)

// Options configures a pipeline run. Empty Profile and Mode select the defaults.
type Options struct {
	GroupSize int
	Profile   Profile
	Mode      Mode
}

// DefaultOptions returns full cleaning, flattened output and groups of three.
func DefaultOptions() Options {
	return Options{
		GroupSize: 3,
		Profile:   ProfileFull,
		Mode:      ModeFlattened,
	}
}

// Validate reports the first invalid field in o.
func (o Options) Validate() error {
	if o.GroupSize < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidGroupSize, o.GroupSize)
	}
	switch o.Profile {
	case "", ProfileFull, ProfileMinimal:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownProfile, o.Profile)
	}
	switch o.Mode {
	case "", ModeFlattened, ModeGrouped:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownMode, o.Mode)
	}
	return nil
}

func (o Options) profile() Profile {
	if o.Profile == "" {
		return ProfileFull
	}
	return o.Profile
}

func (o Options) mode() Mode {
	if o.Mode == "" {
		return ModeFlattened
	}
	return o.Mode
}

// Transcript holds every rendering produced by one Normalize call.
type Transcript struct {
	Blocks []Block `json:"blocks"`
	Groups []Block `json:"groups"`
	Text   string  `json:"text"`
	Timed  string  `json:"timed"`
}
