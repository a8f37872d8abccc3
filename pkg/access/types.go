package access

// Role is the closed set of platform roles. The role decoded from a
// credential is advisory and used only to gate what the client shows;
// the backend remains authoritative for every operation.
type Role string

const (
	RoleSuperAdmin     Role = "super_admin"
	RoleAdmin          Role = "admin"
	RoleSystemAdmin    Role = "system_admin"
	RoleProjectManager Role = "project_manager"
	RoleConsultant     Role = "consultant"
	RoleMainClient     Role = "main_client"
	RoleSubClient      Role = "sub_client"
	RolePolicyEditor   Role = "policy_editor"
	RolePolicyReviewer Role = "policy_reviewer"
	RoleQualityMonitor Role = "quality_monitor"
)

// Roles lists every known role, for exhaustive enumeration.
var Roles = []Role{
	RoleSuperAdmin,
	RoleAdmin,
	RoleSystemAdmin,
	RoleProjectManager,
	RoleConsultant,
	RoleMainClient,
	RoleSubClient,
	RolePolicyEditor,
	RolePolicyReviewer,
	RoleQualityMonitor,
}

// Section is the closed set of navigable application areas.
type Section string

const (
	SectionDashboard    Section = "dashboard"
	SectionProjects     Section = "projects"
	SectionDeliverables Section = "deliverables"
	SectionClients      Section = "clients"
	SectionTickets      Section = "tickets"
	SectionReports      Section = "reports"
	SectionUsers        Section = "users"
	SectionSettings     Section = "settings"
)

// Sections lists every known section, for exhaustive enumeration.
var Sections = []Section{
	SectionDashboard,
	SectionProjects,
	SectionDeliverables,
	SectionClients,
	SectionTickets,
	SectionReports,
	SectionUsers,
	SectionSettings,
}

// ActionViewSection is the single action the section policy set decides.
const ActionViewSection = "section:view"
