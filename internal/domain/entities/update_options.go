package entities

import "time"

// UpdateOptions holds runtime options for one pass of the update workflow.
type UpdateOptions struct {
	DryRun        bool
	Limit         int
	ProposalDelay time.Duration
	Changelog     bool
	MetadataURL   string // rubygems compatible registry used for proposal links
}
