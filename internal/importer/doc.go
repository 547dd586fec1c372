// Package importer maps externally-shaped sheet documents into the store's
// create operations. External documents use loose field names ("name" for
// title, "problemStatement" for description, a completed boolean instead of
// a status) and may reference parents that do not exist; unrecognized fields
// are ignored and orphaned children are skipped and counted.
package importer

// Document is the external sheet shape accepted by Import and produced by
// the JSON exporter, so exports round-trip.
type Document struct {
	Data DocumentData `json:"data"`
}

type DocumentData struct {
	Topics    []ExternalTopic    `json:"topics"`
	SubTopics []ExternalSubTopic `json:"subTopics"`
	Questions []ExternalQuestion `json:"questions"`
}

type ExternalTopic struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Color       string `json:"color"`
	Order       *int   `json:"order"`
}

type ExternalSubTopic struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Title       string `json:"title"`
	Description string `json:"description"`
	TopicID     string `json:"topicId"`
	Order       *int   `json:"order"`
}

type ExternalQuestion struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	ProblemStatement string   `json:"problemStatement"`
	SubTopicID       string   `json:"subTopicId"`
	Difficulty       string   `json:"difficulty"`
	Status           string   `json:"status"`
	IsCompleted      *bool    `json:"isCompleted"`
	Tags             []string `json:"tags"`
	Order            *int     `json:"order"`
}

// Summary reports what an import created and skipped.
type Summary struct {
	Topics           int `json:"topics"`
	SubTopics        int `json:"subTopics"`
	Questions        int `json:"questions"`
	SkippedSubTopics int `json:"skippedSubTopics"`
	SkippedQuestions int `json:"skippedQuestions"`
}
