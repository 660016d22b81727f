package domain

// CandidateMetadata is the product snapshot stored alongside each vector in
// the search index and returned with every query hit.
type CandidateMetadata struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Features    string `json:"features"`
	URL         string `json:"url"`
	Image       string `json:"image"`
}

// SearchResult is one raw nearest-neighbor hit from the index: metadata plus
// cosine distance in [0,2], lower = closer.
type SearchResult struct {
	Metadata CandidateMetadata `json:"metadata"`
	Distance float64           `json:"distance"`
}

// RetrievalCandidate is a search result that survived relevance filtering.
// Similarity = 1 - Distance, so 1.0 is a perfect match.
type RetrievalCandidate struct {
	Metadata   CandidateMetadata `json:"metadata"`
	Similarity float64           `json:"similarity"`
}

// ChatRequest is a natural-language shopping query. TopK bounds how many raw
// candidates are requested from the index before relevance filtering.
type ChatRequest struct {
	Query string `json:"query" binding:"required"`
	TopK  int    `json:"top_k"`
}

// ChatResponse is the assistant's reply plus the candidates it was grounded
// on. Products is empty when nothing relevant was retrieved.
type ChatResponse struct {
	Reply    string               `json:"response"`
	Products []RetrievalCandidate `json:"products"`
}
