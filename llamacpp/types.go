package llamacpp

// completionRequest is the body of a llama.cpp server /completion call.
type completionRequest struct {
	Prompt      string   `json:"prompt"`
	Grammar     string   `json:"grammar,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
	NPredict    *int     `json:"n_predict,omitempty"`
	Seed        *int     `json:"seed,omitempty"`
	Stop        []string `json:"stop,omitempty"`
}

// completionResponse is the llama.cpp server /completion reply.
type completionResponse struct {
	Content         string `json:"content"`
	TokensEvaluated int    `json:"tokens_evaluated"`
	TokensPredicted int    `json:"tokens_predicted"`
	StoppedEOS      bool   `json:"stopped_eos"`
	StoppedWord     bool   `json:"stopped_word"`
	StoppedLimit    bool   `json:"stopped_limit"`
}

// errorResponse is the error body the server returns on failure.
type errorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}
