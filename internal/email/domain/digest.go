package domain

import "fmt"

// Bucket caps for the homescreen digest.
const (
	MaxUrgent    = 5
	MaxDelegate  = 3
	MaxWaitingOn = 3
)

// CategorizedEmail is one digest entry. Generated fresh on every cache miss,
// never persisted.
type CategorizedEmail struct {
	ID        string `json:"id"`
	Heading   string `json:"heading"`
	Subject   string `json:"subject"`
	Sender    string `json:"sender"`
	Reasoning string `json:"reasoning"`
}

// HomescreenDigest is the three-bucket categorization of recent emails.
type HomescreenDigest struct {
	Urgent    []CategorizedEmail `json:"urgent"`
	Delegate  []CategorizedEmail `json:"delegate"`
	WaitingOn []CategorizedEmail `json:"waiting_on"`
}

// Validate checks the digest shape against the batch of ids it was generated
// from: bucket caps and batch membership. It does NOT reject the same id
// appearing in more than one bucket; the categorizer may do that and the
// source behavior tolerates it.
func (d *HomescreenDigest) Validate(batchIDs map[string]bool) error {
	if len(d.Urgent) > MaxUrgent {
		return fmt.Errorf("urgent bucket has %d entries, cap is %d", len(d.Urgent), MaxUrgent)
	}
	if len(d.Delegate) > MaxDelegate {
		return fmt.Errorf("delegate bucket has %d entries, cap is %d", len(d.Delegate), MaxDelegate)
	}
	if len(d.WaitingOn) > MaxWaitingOn {
		return fmt.Errorf("waiting_on bucket has %d entries, cap is %d", len(d.WaitingOn), MaxWaitingOn)
	}

	for _, bucket := range [][]CategorizedEmail{d.Urgent, d.Delegate, d.WaitingOn} {
		for _, entry := range bucket {
			if entry.ID == "" {
				return fmt.Errorf("digest entry %q has no id", entry.Subject)
			}
			if !batchIDs[entry.ID] {
				return fmt.Errorf("digest references id %s not in the categorized batch", entry.ID)
			}
		}
	}

	return nil
}
