package auth

import "github.com/spec-kit/content-service/internal/domain"

// Operation names a protected business operation.
type Operation string

const (
	OpLogout          Operation = "auth.logout"
	OpMe              Operation = "auth.me"
	OpPermissionsList Operation = "permission.list"
	OpArticlesList    Operation = "article.list"
	OpArticlesGet     Operation = "article.get"
	OpArticlesCreate  Operation = "article.create"
	OpArticlesUpdate  Operation = "article.update"
	OpArticlesDelete  Operation = "article.delete"
	OpUsersList       Operation = "user.list"
	OpUsersGet        Operation = "user.get"
	OpUsersCreate     Operation = "user.create"
	OpUsersUpdate     Operation = "user.update"
	OpUsersDelete     Operation = "user.delete"
)

// PermissionSet is the exact set of codes allowed to run an operation. An
// empty set admits any authenticated principal.
type PermissionSet map[domain.PermissionCode]struct{}

// NewPermissionSet builds a set from codes.
func NewPermissionSet(codes ...domain.PermissionCode) PermissionSet {
	set := make(PermissionSet, len(codes))
	for _, code := range codes {
		set[code] = struct{}{}
	}
	return set
}

// Allows reports membership of code.
func (s PermissionSet) Allows(code domain.PermissionCode) bool {
	_, ok := s[code]
	return ok
}

// Policy maps each operation to its permission set. Operations missing from
// the policy are denied.
type Policy map[Operation]PermissionSet

// DefaultPolicy is the operation table served by the API.
func DefaultPolicy() Policy {
	var (
		anyone  = NewPermissionSet()
		readers = NewPermissionSet(domain.PermissionReader, domain.PermissionEditor, domain.PermissionAdmin)
		editors = NewPermissionSet(domain.PermissionEditor, domain.PermissionAdmin)
		admins  = NewPermissionSet(domain.PermissionAdmin)
	)
	return Policy{
		OpLogout:          anyone,
		OpMe:              anyone,
		OpPermissionsList: anyone,
		OpArticlesList:    readers,
		OpArticlesGet:     readers,
		OpArticlesCreate:  editors,
		OpArticlesUpdate:  editors,
		OpArticlesDelete:  editors,
		OpUsersList:       admins,
		OpUsersGet:        admins,
		OpUsersCreate:     admins,
		OpUsersUpdate:     admins,
		OpUsersDelete:     admins,
	}
}
