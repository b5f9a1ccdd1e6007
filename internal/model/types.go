package model

// Chunk is one retrieved piece of context, in retrieval-rank order.
type Chunk struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// AskResult pairs an answer with the chunks it was grounded on.
type AskResult struct {
	Answer  string  `json:"answer"`
	Context []Chunk `json:"context"`
}
