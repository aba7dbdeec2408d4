package domain

import "time"

// Role labels assigned at registration. The role is derived from rank, not
// chosen by the registrant.
const (
	RoleUser      = "User"
	RoleReadOnly  = "ReadOnly"
	RoleReadWrite = "ReadWrite"
	RoleAdmin     = "Admin"
)

// Rank is an officer's rank label.
type Rank string

const (
	RankUndefined  Rank = "Undefined"
	RankConstable  Rank = "Constable"
	RankSergeant   Rank = "Sergeant"
	RankLieutenant Rank = "Lieutenant"
	RankCaptain    Rank = "Captain"
	RankInspector  Rank = "Inspector"
	RankChief      Rank = "Chief"
)

// Department is the division an officer is assigned to.
type Department string

const (
	DepartmentUndefined         Department = "Undefined"
	DepartmentHomicideDivision  Department = "HomicideDivision"
	DepartmentTrafficDivision   Department = "TrafficDivision"
	DepartmentSpecialOperations Department = "SpecialOperations"
	DepartmentCyberCrimeUnit    Department = "CyberCrimeUnit"
	DepartmentDrugEnforcement   Department = "DrugEnforcement"
	DepartmentForensicUnit      Department = "ForensicUnit"
	DepartmentPatrolDivision    Department = "PatrolDivision"
	DepartmentAdministrative    Department = "Administrative"
	DepartmentIntelligence      Department = "Intelligence"
	DepartmentCommunityPolicing Department = "CommunityPolicing"
)

// OfficerStatus tracks whether an officer is in active service.
type OfficerStatus string

const (
	StatusUndefined OfficerStatus = "Undefined"
	StatusActive    OfficerStatus = "Active"
	StatusSuspended OfficerStatus = "Suspended"
	StatusRetired   OfficerStatus = "Retired"
)

// AccessLevel gates what an officer may do in downstream systems.
type AccessLevel string

const (
	AccessUndefined AccessLevel = "Undefined"
	AccessReadOnly  AccessLevel = "ReadOnly"
	AccessReadWrite AccessLevel = "ReadWrite"
	AccessAdmin     AccessLevel = "Admin"
)

// User is an officer identity record. Email and phone number are unique.
// Token rows cascade-delete with the user.
type User struct {
	ID                   string
	IdentificationNumber string
	BadgeNumber          string
	Name                 string
	LastName             string
	Email                string
	PhoneNumber          string
	CPF                  string
	PasswordHash         string
	Role                 string
	DateOfBirth          time.Time
	DateOfJoining        time.Time
	Rank                 Rank
	Department           Department
	Status               OfficerStatus
	AccessLevel          AccessLevel
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// RoleForRank maps an officer's rank to the role label and access level
// assigned at registration.
func RoleForRank(rank Rank) (string, AccessLevel) {
	switch rank {
	case RankConstable:
		return RoleReadOnly, AccessReadOnly
	case RankSergeant, RankLieutenant:
		return RoleReadWrite, AccessReadWrite
	case RankCaptain, RankInspector, RankChief:
		return RoleAdmin, AccessAdmin
	default:
		return RoleUser, AccessUndefined
	}
}
