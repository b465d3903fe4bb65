package domain

// ImagesDiscoveredMsg is sent when source expansion completes
type ImagesDiscoveredMsg struct {
	Images []ImageFile
	Err    error
}

// BatchProgressMsg is sent after each file of a batch is written
type BatchProgressMsg struct {
	Progress   ProgressState
	InputPath  string
	OutputPath string
}

// BatchDoneMsg is sent once when a batch ends, successfully or not
type BatchDoneMsg struct {
	Outcome Outcome
}
