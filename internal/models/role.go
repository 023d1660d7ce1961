package models

// Role is the single authorization label attached to every user. The set is
// closed: values outside this enumeration are rejected at the boundary and a
// user always carries exactly one of them.
type Role string

const (
	// RoleServerAdmin is the server administrator role.
	RoleServerAdmin Role = "サーバー管理者"
	// RoleECGInstructor is an instructor in the English conversation track.
	RoleECGInstructor Role = "ECG講師"
	// RoleJCGInstructor is an instructor in the Japanese conversation track.
	RoleJCGInstructor Role = "JCG講師"
	// RoleClass1Member is a member enrolled in the Class1 program.
	RoleClass1Member Role = "Class1 Members"
	// RoleECGMember is a regular member of the English conversation track.
	RoleECGMember Role = "ECGメンバー"
	// RoleJCGMember is a regular member of the Japanese conversation track.
	RoleJCGMember Role = "JCGメンバー"
	// RoleTrial is a trial participant. Trial participants can never post.
	RoleTrial Role = "Trial参加者"
)

// AllRoles returns the closed role enumeration.
func AllRoles() []Role {
	return []Role{
		RoleServerAdmin,
		RoleECGInstructor,
		RoleJCGInstructor,
		RoleClass1Member,
		RoleECGMember,
		RoleJCGMember,
		RoleTrial,
	}
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleServerAdmin, RoleECGInstructor, RoleJCGInstructor,
		RoleClass1Member, RoleECGMember, RoleJCGMember, RoleTrial:
		return true
	}
	return false
}

// IsAdmin reports whether r grants server administration rights.
func (r Role) IsAdmin() bool {
	return r == RoleServerAdmin
}

// IsInstructor reports whether r is one of the two instructor roles.
func (r Role) IsInstructor() bool {
	return r == RoleECGInstructor || r == RoleJCGInstructor
}
