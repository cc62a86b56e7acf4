// Package authz evaluates the role/resource/action policy table with casbin.
package authz

import (
	"fmt"
	"sync"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"github.com/tendant/simple-ats/pkg/domain"
)

const modelText = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && r.obj == p.obj && (p.act == "*" || r.act == p.act)
`

// Enforcer answers policy questions for the HTTP layer and the UI.
type Enforcer struct {
	mu          sync.RWMutex
	enforcer    *casbin.Enforcer
	rules       []Rule
	inheritance []Inheritance
}

// New loads rules and inheritance into a casbin enforcer.
func New(rules []Rule, inheritance []Inheritance) (*Enforcer, error) {
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, fmt.Errorf("authz: parse model: %w", err)
	}
	enf, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("authz: failed to initialize enforcer: %w", err)
	}

	policies := make([][]string, 0, len(rules))
	for _, r := range rules {
		if !r.Role.Valid() {
			return nil, fmt.Errorf("authz: unknown role %q", r.Role)
		}
		policies = append(policies, []string{string(r.Role), r.Resource, r.Action})
	}
	if len(policies) > 0 {
		if _, err := enf.AddPolicies(policies); err != nil {
			return nil, fmt.Errorf("authz: load policies: %w", err)
		}
	}

	groups := make([][]string, 0, len(inheritance))
	for _, g := range inheritance {
		groups = append(groups, []string{string(g.Role), string(g.Inherits)})
	}
	if len(groups) > 0 {
		if _, err := enf.AddGroupingPolicies(groups); err != nil {
			return nil, fmt.Errorf("authz: load inheritance: %w", err)
		}
	}

	return &Enforcer{
		enforcer:    enf,
		rules:       append([]Rule(nil), rules...),
		inheritance: append([]Inheritance(nil), inheritance...),
	}, nil
}

// NewDefault loads DefaultRules and DefaultInheritance.
func NewDefault() (*Enforcer, error) {
	return New(DefaultRules, DefaultInheritance)
}

// Allowed reports whether role may perform action on resource.
func (e *Enforcer) Allowed(role domain.Role, resource, action string) (bool, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	ok, err := e.enforcer.Enforce(string(role), resource, action)
	if err != nil {
		return false, fmt.Errorf("authz: enforce failed: %w", err)
	}
	return ok, nil
}

// Table is the policy as published to clients.
type Table struct {
	Rules       []Rule        `json:"rules"`
	Inheritance []Inheritance `json:"inheritance"`
	// Effective lists, per role, the resource actions the role ends up with
	// after inheritance.
	Effective map[domain.Role]map[string][]string `json:"effective"`
}

// Table returns the declared rules plus the effective permissions per role.
func (e *Enforcer) Table() (*Table, error) {
	effective := make(map[domain.Role]map[string][]string, len(domain.Roles))
	for _, role := range domain.Roles {
		perms := make(map[string][]string)
		for _, resource := range Resources {
			for _, action := range Actions {
				ok, err := e.Allowed(role, resource, action)
				if err != nil {
					return nil, err
				}
				if ok {
					perms[resource] = append(perms[resource], action)
				}
			}
		}
		effective[role] = perms
	}

	return &Table{
		Rules:       append([]Rule(nil), e.rules...),
		Inheritance: append([]Inheritance(nil), e.inheritance...),
		Effective:   effective,
	}, nil
}
