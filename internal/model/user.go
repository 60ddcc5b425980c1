package model

import (
    "errors"
    "strings"
    "time"
)

// Role enumerates the account types recognised by the platform.  It is a
// closed set: any value not produced by ParseRole is invalid, and the
// authorization middleware treats unknown roles as forbidden.  Modelling the
// role as a dedicated type keeps free-form strings out of the allow-set
// checks.
type Role string

const (
    RoleIndividual     Role = "individual"      // a single volunteer
    RoleUniversityClub Role = "university_club" // a student club registering groups
    RoleCompany        Role = "company"         // a corporate sponsor
    RoleMinistry       Role = "ministry"        // event organiser / administrator
)

// ErrInvalidRole is returned by ParseRole for values outside the closed set.
var ErrInvalidRole = errors.New("invalid role")

// ParseRole normalises and validates a role string.  Input is trimmed and
// lower-cased so that "Ministry" and "ministry" are equivalent.
func ParseRole(s string) (Role, error) {
    switch Role(strings.ToLower(strings.TrimSpace(s))) {
    case RoleIndividual:
        return RoleIndividual, nil
    case RoleUniversityClub:
        return RoleUniversityClub, nil
    case RoleCompany:
        return RoleCompany, nil
    case RoleMinistry:
        return RoleMinistry, nil
    }
    return "", ErrInvalidRole
}

// Valid reports whether r is one of the four recognised roles.
func (r Role) Valid() bool {
    _, err := ParseRole(string(r))
    return err == nil
}

func (r Role) String() string { return string(r) }

// User represents an application user record as stored in the `users`
// table.  The json tags are omitted because these structs are used by the
// repository layer; handlers define separate response types.
//
// Fields:
//  ID               – primary key identifier of the user.
//  Name             – display name.
//  Email            – unique email address, the login key.
//  PasswordHash     – bcrypt hashed password.  Never the plaintext.
//  Role             – one of the four closed roles.
//  OrganizationName – organisation behind the account; meaningful for
//                     university_club and company roles, nil otherwise.
//  CreatedAt        – timestamp of creation.
type User struct {
    ID               uint64    // users.id
    Name             string    // users.name
    Email            string    // users.email
    PasswordHash     string    // users.password_hash
    Role             Role      // users.role
    OrganizationName *string   // users.organization_name (nullable)
    CreatedAt        time.Time // users.created_at
}
