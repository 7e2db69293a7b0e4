package ai

// Operation names used in logs and metrics.
const (
	OperationImage      = "image"
	OperationSpeech     = "speech"
	OperationCaption    = "caption"
	OperationPrompt     = "prompt"
	OperationGeneration = "generation"
)
