package usecase

import (
	"fmt"
	"regexp"
	"strings"

	"ava-backend/internal/email/domain"
)

// groundingSeparator delimits email blocks inside the grounding context.
const groundingSeparator = "\n---\n"

var emailIDMarker = regexp.MustCompile(`\[EMAIL_ID:\s*([^\]\s]+)\s*\]`)

// FormatGrounding renders retrieved emails into the context block handed to
// the generator. One block per email, id marker first so the attribution step
// can recover which records were in scope. Deterministic: same emails in the
// same order produce the same string.
func FormatGrounding(emails []domain.Email) string {
	blocks := make([]string, 0, len(emails))
	for _, e := range emails {
		blocks = append(blocks, fmt.Sprintf(
			"[EMAIL_ID: %s]\nSender: %s\nSubject: %s\nDate: %s\nBody: %s",
			e.ID, e.Sender, e.Subject, e.ReceivedDate, e.Body,
		))
	}
	return strings.Join(blocks, groundingSeparator)
}

// GroundingIDs extracts the record ids present in a grounding block, in
// order of appearance.
func GroundingIDs(grounding string) []string {
	matches := emailIDMarker.FindAllStringSubmatch(grounding, -1)
	ids := make([]string, 0, len(matches))
	for _, m := range matches {
		ids = append(ids, m[1])
	}
	return ids
}
