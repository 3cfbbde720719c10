package controller

// Message types.
type previewMsg struct {
	seq  uint64
	text string
	err  error
}

// List item types.
type pickItem struct {
	path     string
	selected bool
}

func (p pickItem) FilterValue() string {
	return p.path
}
