package dto

import "ava-backend/internal/email/domain"

// AskRequest is the body of POST /api/email_rag.
type AskRequest struct {
	Message string `json:"message" binding:"required"`
}

// IngestRequest is the body of POST /api/emails/ingest.
type IngestRequest struct {
	Emails []domain.IncomingEmail `json:"emails" binding:"required"`
}

// RawIngestRequest carries raw RFC 822 messages for POST /api/emails/ingest/raw.
type RawIngestRequest struct {
	Messages []string `json:"messages" binding:"required"`
}

// IngestResponse reports per-batch accounting. Succeeded plus Failed always
// equals the submitted batch size.
type IngestResponse struct {
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
}
