package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuthorizer(t *testing.T) *Authorizer {
	t.Helper()
	a, err := NewAuthorizer(Config{})
	require.NoError(t, err)
	return a
}

// sectionTable is the full visibility matrix. Sections absent from a
// role's set must be denied; the matrix is asserted exhaustively in both
// directions.
var sectionTable = map[Role][]Section{
	RoleSuperAdmin: {
		SectionDashboard, SectionProjects, SectionDeliverables, SectionClients,
		SectionTickets, SectionReports, SectionUsers, SectionSettings,
	},
	RoleAdmin: {
		SectionDashboard, SectionProjects, SectionDeliverables, SectionClients,
		SectionTickets, SectionReports, SectionUsers, SectionSettings,
	},
	RoleSystemAdmin: {
		SectionDashboard, SectionTickets, SectionUsers, SectionSettings,
	},
	RoleProjectManager: {
		SectionDashboard, SectionProjects, SectionDeliverables, SectionClients,
		SectionTickets, SectionReports,
	},
	RoleConsultant: {
		SectionDashboard, SectionProjects, SectionDeliverables, SectionTickets,
	},
	RoleMainClient: {
		SectionDashboard, SectionProjects, SectionDeliverables, SectionTickets,
		SectionReports,
	},
	RoleSubClient: {
		SectionDashboard, SectionDeliverables, SectionTickets,
	},
	RolePolicyEditor: {
		SectionDashboard, SectionProjects, SectionDeliverables,
	},
	RolePolicyReviewer: {
		SectionDashboard, SectionDeliverables, SectionReports,
	},
	RoleQualityMonitor: {
		SectionDashboard, SectionDeliverables, SectionTickets, SectionReports,
	},
}

func TestCanAccessSectionMatrix(t *testing.T) {
	a := newTestAuthorizer(t)

	for role, allowed := range sectionTable {
		allowedSet := make(map[Section]bool, len(allowed))
		for _, s := range allowed {
			allowedSet[s] = true
		}
		for _, section := range Sections {
			want := allowedSet[section]
			got := a.CanAccessSection(role, section)
			assert.Equal(t, want, got, "role=%s section=%s", role, section)
		}
	}
}

func TestMatrixCoversEveryRole(t *testing.T) {
	for _, role := range Roles {
		_, ok := sectionTable[role]
		assert.True(t, ok, "role %s missing from the test matrix", role)
	}
}

func TestUnknownRoleDeniedEverything(t *testing.T) {
	a := newTestAuthorizer(t)

	for _, role := range []Role{"", "intern", "SUPER_ADMIN", "root"} {
		for _, section := range Sections {
			assert.False(t, a.CanAccessSection(role, section),
				"unknown role %q must be denied section %s", role, section)
		}
		assert.Empty(t, a.VisibleSections(role))
	}
}

func TestUnknownSectionDenied(t *testing.T) {
	a := newTestAuthorizer(t)
	assert.False(t, a.CanAccessSection(RoleSuperAdmin, "billing"))
}

func TestVisibleSectionsOrder(t *testing.T) {
	a := newTestAuthorizer(t)

	visible := a.VisibleSections(RoleSubClient)
	assert.Equal(t, []Section{SectionDashboard, SectionDeliverables, SectionTickets}, visible)

	visible = a.VisibleSections(RoleSuperAdmin)
	assert.Equal(t, Sections, visible)
}

func TestPolicyCount(t *testing.T) {
	a := newTestAuthorizer(t)
	assert.Equal(t, len(Roles), a.PolicyCount(), "one permit per role")
}

func TestCustomPolicyBytes(t *testing.T) {
	policy := []byte(`permit (
  principal == Meridian::Role::"auditor",
  action == Meridian::Action::"section:view",
  resource == Meridian::Section::"reports"
);`)
	a, err := NewAuthorizer(Config{PolicyBytes: policy})
	require.NoError(t, err)

	assert.True(t, a.CanAccessSection("auditor", SectionReports))
	assert.False(t, a.CanAccessSection("auditor", SectionDashboard))
	assert.False(t, a.CanAccessSection(RoleSuperAdmin, SectionReports))
}

func TestInvalidPolicyRejected(t *testing.T) {
	_, err := NewAuthorizer(Config{PolicyBytes: []byte("permit (")})
	require.Error(t, err)
}
