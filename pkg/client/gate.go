package client

// Entry points and post-login destinations.
const (
	LoginPath          = "/login"
	AdminLoginPath     = "/admin"
	PatientDashboard   = "/patient-dashboard"
	DoctorDashboard    = "/doctor-dashboard"
	AdminDashboardPath = "/admin-dashboard"
)

// DashboardFor is the redirect table applied after a successful login.
func DashboardFor(role Role) string {
	switch role {
	case RoleAdmin:
		return AdminDashboardPath
	case RoleDoctor:
		return DoctorDashboard
	default:
		return PatientDashboard
	}
}

// Decision is the outcome of a role-gate check. RedirectTarget is only set
// when Allowed is false.
type Decision struct {
	Allowed        bool
	RedirectTarget string
}

// RoleGate guards protected views against the current session.
type RoleGate struct {
	session *SessionStore
}

func NewRoleGate(session *SessionStore) *RoleGate {
	return &RoleGate{session: session}
}

// Authorize decides whether the current session may render a view requiring
// the given role. It reads the store fresh on every call, so a session
// cleared elsewhere is caught on the next navigation. Missing and mismatched
// identities are bounced to the entry point for the required role; roles
// never escalate or degrade silently.
func (g *RoleGate) Authorize(required Role) Decision {
	deny := Decision{Allowed: false, RedirectTarget: LoginPath}
	if required == RoleAdmin {
		deny.RedirectTarget = AdminLoginPath
	}

	identity, ok := g.session.Get()
	if !ok {
		return deny
	}
	if identity.Role != required {
		return deny
	}
	return Decision{Allowed: true}
}
