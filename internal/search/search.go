package search

// Result is a single question hit returned to the caller, with parent
// references so the client can locate it in the tree.
type Result struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Snippet    string `json:"snippet"`
	SubTopicID string `json:"subTopicId"`
	TopicID    string `json:"topicId"`
	Difficulty string `json:"difficulty"`
	Status     string `json:"status"`
}

// Query describes a global question search request.
type Query struct {
	Text       string
	Difficulty string // empty = any
	Status     string
	SubTopicID string
	Limit      int
	Offset     int
}

// Response is the envelope returned by the search endpoint.
type Response struct {
	Results []Result `json:"results"`
	Total   int      `json:"total"`
	Query   string   `json:"query"`
}

// Searcher can execute a question search.
type Searcher interface {
	Search(q Query) ([]Result, int, error)
	Healthy() bool
}

// QuestionRecord is the data we index for a question.
type QuestionRecord struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	SubTopicID  string   `json:"subTopicId"`
	TopicID     string   `json:"topicId"`
	Difficulty  string   `json:"difficulty"`
	Status      string   `json:"status"`
}
