package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"ava-backend/internal/email/domain"
)

// attributeReferences asks the generator which grounding emails were actually
// relevant to the answer, then filters its output against the ids that were
// really in the grounding block. Retrieval order is preserved. Attribution is
// best-effort: any failure degrades to an empty reference list rather than
// failing the whole question.
func (s *assistantService) attributeReferences(
	ctx context.Context,
	grounding, question, answer string,
	retrieved []domain.RetrievedEmail,
) []domain.EmailReference {
	raw, err := s.llm.Complete(ctx, buildAttributionPrompt(grounding, question, answer))
	if err != nil {
		log.Printf("[Email] Attribution call failed, returning no references: %v", err)
		return []domain.EmailReference{}
	}

	arr, err := extractJSONArray(raw)
	if err != nil {
		log.Printf("[Email] Attribution response unparseable, returning no references: %v", err)
		return []domain.EmailReference{}
	}

	var returned []string
	if err := json.Unmarshal([]byte(arr), &returned); err != nil {
		log.Printf("[Email] Attribution response unparseable, returning no references: %v", err)
		return []domain.EmailReference{}
	}

	claimed := make(map[string]bool, len(returned))
	for _, id := range returned {
		claimed[id] = true
	}

	inGrounding := make(map[string]bool)
	for _, id := range GroundingIDs(grounding) {
		inGrounding[id] = true
	}

	// Walk the retrieved set so references keep retrieval order, and keep
	// only ids the model named that were actually in the grounding block.
	refs := make([]domain.EmailReference, 0, len(retrieved))
	for _, r := range retrieved {
		if claimed[r.ID] && inGrounding[r.ID] {
			refs = append(refs, domain.EmailReference{ID: r.ID, Subject: r.Subject})
		}
	}
	return refs
}

func buildAttributionPrompt(grounding, question, answer string) string {
	return fmt.Sprintf(`Below are emails, a question, and the answer that was given.

Emails:
%s

Question: %s

Answer: %s

Which emails were actually used to produce the answer? Reply with a JSON array of the EMAIL_ID values of the relevant emails, for example ["id1","id2"]. If none were relevant, reply with []. Reply with the JSON array only.`, grounding, question, answer)
}
