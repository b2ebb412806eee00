package dto

type AskRequest struct {
	Query    string `json:"query" form:"query" validate:"max=2000"`
	Location string `json:"location,omitempty" form:"location" validate:"omitempty,oneof=Singapore Others"`
	Need     string `json:"need,omitempty" form:"need" validate:"omitempty,oneof=CPF"`
}

type SourceDTO struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet,omitempty"`
}

// AskResponse is the outcome of one query cycle.
type AskResponse struct {
	State      string      `json:"state"` // "idle" | "answered" | "no_results" | "error"
	Query      string      `json:"query"`
	Location   string      `json:"location"`
	Need       string      `json:"need"`
	Notice     string      `json:"notice,omitempty"`
	Answer     string      `json:"answer,omitempty"`
	AnswerHTML string      `json:"answer_html,omitempty"`
	Sources    []SourceDTO `json:"sources"`
	Warning    string      `json:"warning,omitempty"`
	Error      string      `json:"error,omitempty"`
}
