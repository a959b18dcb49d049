// Package auth provides caller identity resolution and role handling.
//
// The engine trusts the identity headers set by the upstream identity
// resolver; it never verifies credentials itself.
package auth

// Role is the caller's role as reported by the identity resolver.
type Role string

// Supported caller roles.
const (
	RoleClient Role = "client"
	RoleMember Role = "team-member"
	RoleAdmin  Role = "administrator"
)

// Valid reports whether the role is one of the supported roles.
func (r Role) Valid() bool {
	return r == RoleClient || r == RoleMember || r == RoleAdmin
}

// Caller is the resolved identity of the acting user.
type Caller struct {
	UserID   string
	Role     Role
	ClientID string
	MemberID string
}

// IsClient reports whether the caller acts as a client.
func (c Caller) IsClient() bool {
	return c.Role == RoleClient
}

// IsMember reports whether the caller acts as a team member.
func (c Caller) IsMember() bool {
	return c.Role == RoleMember
}

// IsAdmin reports whether the caller is an administrator.
func (c Caller) IsAdmin() bool {
	return c.Role == RoleAdmin
}

// ParticipantID returns the stable identifier used to attribute votes and
// roster membership. Two team members share a role but never a participant id.
func (c Caller) ParticipantID() string {
	switch c.Role {
	case RoleMember:
		return c.MemberID
	case RoleClient:
		return c.ClientID
	default:
		return c.UserID
	}
}
