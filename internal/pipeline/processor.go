package pipeline

// Normalize runs parse, deduplicate and merge over raw caption text and
// returns every rendering at once. A nil Transcript with a nil error means
// the input held no usable captions.
func Normalize(raw string, opts Options) (*Transcript, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	blocks := Deduplicate(Parse(raw, opts.profile()))
	if len(blocks) == 0 {
		return nil, nil
	}

	groups, err := Group(blocks, opts.GroupSize)
	if err != nil {
		return nil, err
	}

	return &Transcript{
		Blocks: blocks,
		Groups: groups,
		Text:   Flatten(blocks),
		Timed:  RenderGrouped(groups),
	}, nil
}

// Process returns the transcript rendered in opts.Mode, or "" when the input
// held no usable captions.
func Process(raw string, opts Options) (string, error) {
	t, err := Normalize(raw, opts)
	if err != nil || t == nil {
		return "", err
	}
	if opts.mode() == ModeGrouped {
		return t.Timed, nil
	}
	return t.Text, nil
}
