package authz

import "github.com/tendant/simple-ats/pkg/domain"

// Resources guarded by the policy.
const (
	ResourceTenants        = "tenants"
	ResourceUsers          = "users"
	ResourceJobs           = "jobs"
	ResourceCandidates     = "candidates"
	ResourceInterviews     = "interviews"
	ResourceEmailTemplates = "email_templates"
	ResourcePolicy         = "policy"
)

// Actions. ActionAny in a rule matches every action.
const (
	ActionRead   = "read"
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
	ActionAny    = "*"
)

// Resources lists every resource in display order.
var Resources = []string{
	ResourceTenants,
	ResourceUsers,
	ResourceJobs,
	ResourceCandidates,
	ResourceInterviews,
	ResourceEmailTemplates,
	ResourcePolicy,
}

// Actions lists the concrete actions in display order.
var Actions = []string{ActionRead, ActionCreate, ActionUpdate, ActionDelete}

// Rule grants a role an action on a resource.
type Rule struct {
	Role     domain.Role `json:"role"`
	Resource string      `json:"resource"`
	Action   string      `json:"action"`
}

// Inheritance makes Role hold every rule granted to Inherits.
type Inheritance struct {
	Role     domain.Role `json:"role"`
	Inherits domain.Role `json:"inherits"`
}

// DefaultRules is the policy table. Platform admins manage tenants only;
// tenant-scoped resources belong to the tenant roles.
var DefaultRules = []Rule{
	{domain.RolePlatformAdmin, ResourceTenants, ActionAny},
	{domain.RolePlatformAdmin, ResourcePolicy, ActionRead},

	{domain.RoleTenantAdmin, ResourceUsers, ActionAny},
	{domain.RoleTenantAdmin, ResourceEmailTemplates, ActionAny},

	{domain.RoleRecruiter, ResourceJobs, ActionAny},
	{domain.RoleRecruiter, ResourceCandidates, ActionAny},
	{domain.RoleRecruiter, ResourceInterviews, ActionAny},
	{domain.RoleRecruiter, ResourceEmailTemplates, ActionRead},

	{domain.RoleInterviewer, ResourceJobs, ActionRead},
	{domain.RoleInterviewer, ResourceCandidates, ActionRead},
	{domain.RoleInterviewer, ResourceInterviews, ActionRead},
	{domain.RoleInterviewer, ResourceInterviews, ActionUpdate},
	{domain.RoleInterviewer, ResourcePolicy, ActionRead},
}

// DefaultInheritance chains the tenant roles.
var DefaultInheritance = []Inheritance{
	{domain.RoleTenantAdmin, domain.RoleRecruiter},
	{domain.RoleRecruiter, domain.RoleInterviewer},
}
