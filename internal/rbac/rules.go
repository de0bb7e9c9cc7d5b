package rbac

import "cybersense-learning-service/internal/domain"

// Permission names used across route gates.
const (
	PermContentManage = "content:manage"
	PermAnswerKeyView = "content:view_answer_keys"
	PermUsersManage   = "users:manage"
	PermQuizTake      = "quiz:take"
	PermProgressView  = "progress:view-own"
	PermForumPost     = "forum:post"
)

// RolePermissions is the default policy. User-management permissions are
// intentionally absent from the User row; everything else every role has.
var RolePermissions = map[domain.Role][]string{
	domain.RoleUser: {
		PermQuizTake,
		PermProgressView,
		PermForumPost,
	},
	domain.RoleAdmin: {
		PermContentManage,
		PermAnswerKeyView,
		PermUsersManage,
		PermQuizTake,
		PermProgressView,
		PermForumPost,
	},
	domain.RoleSuperAdmin: {
		"*",
	},
}
