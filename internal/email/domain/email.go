package domain

// Email is the persisted unit. The embedding vector lives only in the vector
// store; a record without one failed or skipped embedding at ingestion.
// Records are never mutated in place, updates are delete+reinsert.
type Email struct {
	ID           string `json:"id"`
	Sender       string `json:"sender"`
	Subject      string `json:"subject"`
	Body         string `json:"body"`
	ReceivedDate string `json:"received_date"` // lenient free-text timestamp, not validated
}

// RetrievedEmail is an Email plus its similarity score from a vector query.
// Only exists within one pipeline invocation, ordered similarity-descending.
type RetrievedEmail struct {
	Email
	Score float64 `json:"score"`
}

// IncomingEmail is an email as submitted for ingestion, before the store
// assigns an identifier.
type IncomingEmail struct {
	Sender       string `json:"sender"`
	Subject      string `json:"subject"`
	Body         string `json:"body"`
	ReceivedDate string `json:"received_date"`
}

// EmailReference points a generated answer back at a source record.
type EmailReference struct {
	ID      string `json:"id"`
	Subject string `json:"subject"`
}

// ChatAnswer is the result of one question through the retrieval pipeline.
// References are the attributed subset of the retrieved record ids.
type ChatAnswer struct {
	Answer     string           `json:"answer"`
	References []EmailReference `json:"references"`
}
