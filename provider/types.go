package provider

// Request represents a provider-agnostic completion request.
type Request struct {
	// Prompt is the full text the model continues from.
	Prompt string

	// Grammar is GBNF grammar text constraining the completion. Empty
	// means unconstrained generation.
	Grammar string

	Temperature *float64
	MaxTokens   *int
	Seed        *int

	// Stop ends generation when one of these strings is produced.
	Stop []string
}

// Response contains the backend's completion.
type Response struct {
	Content string

	TokensEvaluated int
	TokensPredicted int

	StopReason StopReason
}

// StopReason indicates why the backend stopped generating.
type StopReason string

const (
	StopReasonEOS   StopReason = "eos"
	StopReasonWord  StopReason = "stop_word"
	StopReasonLimit StopReason = "limit"
)
