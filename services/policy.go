package services

import (
	"newsdesk/models"
)

// Operation names an action gated by the authorization policy.
type Operation string

const (
	OpViewPublicArticles      Operation = "view_public_articles"
	OpManageSubscriptions     Operation = "manage_subscriptions"
	OpCreateArticle           Operation = "create_article"
	OpViewJournalistDashboard Operation = "view_journalist_dashboard"
	OpViewEditorQueue         Operation = "view_editor_queue"
	OpDecideArticle           Operation = "decide_article"
	OpReadFeed                Operation = "read_feed"
)

type rule struct {
	anonymous bool
	roles     []models.UserRole // empty means any authenticated role
	denied    string
}

var policy = map[Operation]rule{
	OpViewPublicArticles:      {anonymous: true},
	OpManageSubscriptions:     {},
	OpCreateArticle:           {roles: []models.UserRole{models.RoleJournalist}, denied: "Only journalists can create articles."},
	OpViewJournalistDashboard: {roles: []models.UserRole{models.RoleJournalist}, denied: "Only journalists can view this page."},
	OpViewEditorQueue:         {roles: []models.UserRole{models.RoleEditor}, denied: "Only editors can view this page."},
	OpDecideArticle:           {roles: []models.UserRole{models.RoleEditor}, denied: "Only editors can review articles."},
	OpReadFeed:                {roles: []models.UserRole{models.RoleReader}, denied: "Only readers can access this endpoint."},
}

// Authorize decides whether actor may perform op. A nil actor is an
// unauthenticated caller. Unknown operations are denied.
func Authorize(actor *models.User, op Operation) error {
	r, ok := policy[op]
	if !ok {
		return models.ErrorForbidden{Message: "You are not allowed to perform this action."}
	}
	if r.anonymous {
		return nil
	}
	if actor == nil {
		return models.ErrorUnauthorized{Message: "Authentication credentials were not provided."}
	}
	if len(r.roles) == 0 {
		return nil
	}
	for _, role := range r.roles {
		if actor.Role == role {
			return nil
		}
	}
	return models.ErrorForbidden{Message: r.denied}
}
