package models

// TestCaseRequest carries one test case either inline or as object-storage
// references resolved by the transport before judging.
type TestCaseRequest struct {
	Input          string `json:"input,omitempty"`
	ExpectedOutput string `json:"expected_output,omitempty"`
	InputFile      string `json:"input_file,omitempty"`
	ExpectedFile   string `json:"expected_file,omitempty"`
}
