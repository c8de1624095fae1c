package dto

// TriggerReconciliationRequest starts a reconciliation workflow
type TriggerReconciliationRequest struct {
	// Publish uploads the curated tables once saved
	Publish bool `json:"publish"`
	// Notify announces the published objects, requires Publish
	Notify bool `json:"notify"`
}

// Validate checks the flag combination
func (r *TriggerReconciliationRequest) Validate() error {
	if r.Notify && !r.Publish {
		return errNotifyWithoutPublish
	}
	return nil
}
