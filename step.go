package isoset

// Step describes one backend invocation for the caller's step-reporting
// layer. This package only produces the data; rendering belongs to the
// pipeline.
type Step struct {
	// Name is the human-readable step label, e.g.
	// "archive tests (https://iso.example.com/default-gzip)".
	Name string

	// Args is the full command line, binary first.
	Args []string

	// Infra marks the step as infrastructure rather than a test step.
	Infra bool

	// Links are derived UI links, such as the browse link for a
	// successful archive.
	Links []Link
}

// Link is a labeled URL attached to a step.
type Link struct {
	Label string
	URL   string
}
