package domain

// UserSettings holds the free-text preference hints fed to the categorizer.
// LoopContext is stored for the frontend but the digest's waiting_on bucket
// has no user-customizable hint.
type UserSettings struct {
	UrgentContext   string `json:"urgent_context"`
	DelegateContext string `json:"delegate_context"`
	LoopContext     string `json:"loop_context"`
}
