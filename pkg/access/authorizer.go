// Package access decides which application sections a role may view.
//
// The decision table lives in the embedded sections.cedar policy set and
// is evaluated through a single Authorizer entry point. Lookups are pure:
// no I/O, no side effects, deterministic for a given (role, section)
// pair. Unknown roles match no permit policy and are denied everything
// (fail-closed).
package access

import (
	_ "embed"
	"fmt"
	"log/slog"

	"github.com/cedar-policy/cedar-go"
)

//go:embed sections.cedar
var sectionsPolicies []byte

// Config contains options for the Authorizer.
type Config struct {
	// Logger for decision logging. If nil, uses slog.Default().
	Logger *slog.Logger

	// PolicyBytes allows loading policies from a custom source (for
	// testing). If nil, the embedded sections.cedar is used.
	PolicyBytes []byte
}

// Authorizer wraps the Cedar policy engine. All section-visibility
// decisions flow through this single component.
type Authorizer struct {
	policies *cedar.PolicySet
	logger   *slog.Logger
}

// NewAuthorizer creates an authorizer with the given configuration.
func NewAuthorizer(cfg Config) (*Authorizer, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	policyData := cfg.PolicyBytes
	if policyData == nil {
		policyData = sectionsPolicies
	}

	ps, err := cedar.NewPolicySetFromBytes("sections.cedar", policyData)
	if err != nil {
		return nil, fmt.Errorf("failed to parse policies: %w", err)
	}

	return &Authorizer{
		policies: ps,
		logger:   logger,
	}, nil
}

// CanAccessSection reports whether the role may view the section.
// Unknown roles are denied every section.
func (a *Authorizer) CanAccessSection(role Role, section Section) bool {
	entities := buildEntities(role, section)
	req := cedar.Request{
		Principal: cedar.NewEntityUID("Meridian::Role", cedar.String(role)),
		Action:    cedar.NewEntityUID("Meridian::Action", cedar.String(ActionViewSection)),
		Resource:  cedar.NewEntityUID("Meridian::Section", cedar.String(section)),
		Context:   cedar.NewRecord(cedar.RecordMap{}),
	}

	decision, diagnostic := cedar.Authorize(a.policies, entities, req)

	policyID := ""
	if len(diagnostic.Reasons) > 0 {
		policyID = string(diagnostic.Reasons[0].PolicyID)
	}
	a.logger.Debug("section access decision",
		"role", role,
		"section", section,
		"decision", decision == cedar.Allow,
		"policy_id", policyID,
	)
	for _, err := range diagnostic.Errors {
		a.logger.Error("policy evaluation error",
			"policy", err.PolicyID,
			"error", err.Message,
		)
	}

	return decision == cedar.Allow
}

// VisibleSections returns the sections the role may view, in navigation
// order. An unknown role yields an empty slice.
func (a *Authorizer) VisibleSections(role Role) []Section {
	var visible []Section
	for _, section := range Sections {
		if a.CanAccessSection(role, section) {
			visible = append(visible, section)
		}
	}
	return visible
}

// PolicyCount returns the number of loaded policies.
func (a *Authorizer) PolicyCount() int {
	count := 0
	for range a.policies.All() {
		count++
	}
	return count
}

// buildEntities constructs the Cedar entity map for a decision. Roles
// and sections carry no attributes; policies match on identity alone.
func buildEntities(role Role, section Section) cedar.EntityMap {
	roleUID := cedar.NewEntityUID("Meridian::Role", cedar.String(role))
	sectionUID := cedar.NewEntityUID("Meridian::Section", cedar.String(section))

	return cedar.EntityMap{
		roleUID: cedar.Entity{
			UID:        roleUID,
			Parents:    cedar.NewEntityUIDSet(),
			Attributes: cedar.NewRecord(cedar.RecordMap{}),
		},
		sectionUID: cedar.Entity{
			UID:        sectionUID,
			Parents:    cedar.NewEntityUIDSet(),
			Attributes: cedar.NewRecord(cedar.RecordMap{}),
		},
	}
}
