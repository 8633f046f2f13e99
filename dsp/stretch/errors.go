package stretch

import "errors"

var (
	// ErrInvalidSampleRate indicates a non-positive or non-finite sample rate.
	ErrInvalidSampleRate = errors.New("stretch: sample rate must be positive and finite")
	// ErrInvalidChannelCount indicates a channel count below 1.
	ErrInvalidChannelCount = errors.New("stretch: channel count must be >= 1")
	// ErrInvalidRatio indicates a non-positive or non-finite ratio value.
	ErrInvalidRatio = errors.New("stretch: ratio must be positive and finite")
	// ErrFormantOptionConflict indicates both formant options were requested together.
	ErrFormantOptionConflict = errors.New("stretch: formant shifted and preserved options are mutually exclusive")
)
