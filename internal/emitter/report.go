package emitter

// Stats counts the outcomes of one kind of action.
type Stats struct {
	Attempted int `json:"attempted" yaml:"attempted"`
	Succeeded int `json:"succeeded" yaml:"succeeded"`
	Failed    int `json:"failed" yaml:"failed"`

	// Skipped counts actions not sent because their toggle was off or the
	// run was a dry run.
	Skipped int `json:"skipped" yaml:"skipped"`
}

// Report summarizes one emission.
type Report struct {
	Discard  Stats `json:"discard" yaml:"discard"`
	Favorite Stats `json:"favorite" yaml:"favorite"`
	Release  Stats `json:"release" yaml:"release"`
	DryRun   bool  `json:"dry_run" yaml:"dry_run"`

	// ItemsDiscarded sums the counts of successful discard calls.
	ItemsDiscarded int `json:"items_discarded" yaml:"items_discarded"`
}

// Failed returns the number of failed calls across all kinds.
func (r *Report) Failed() int {
	return r.Discard.Failed + r.Favorite.Failed + r.Release.Failed
}

// Succeeded returns the number of successful calls across all kinds.
func (r *Report) Succeeded() int {
	return r.Discard.Succeeded + r.Favorite.Succeeded + r.Release.Succeeded
}
