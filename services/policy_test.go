package services

import (
	"testing"

	"newsdesk/models"

	"github.com/stretchr/testify/assert"
)

func TestAuthorize(t *testing.T) {
	reader := &models.User{ID: 1, Role: models.RoleReader}
	journalist := &models.User{ID: 2, Role: models.RoleJournalist}
	editor := &models.User{ID: 3, Role: models.RoleEditor}

	type outcome int
	const (
		allowed outcome = iota
		unauthenticated
		forbidden
	)

	cases := []struct {
		op    Operation
		actor *models.User
		want  outcome
	}{
		{OpViewPublicArticles, nil, allowed},
		{OpViewPublicArticles, reader, allowed},
		{OpManageSubscriptions, nil, unauthenticated},
		{OpManageSubscriptions, reader, allowed},
		{OpManageSubscriptions, journalist, allowed},
		{OpManageSubscriptions, editor, allowed},
		{OpCreateArticle, nil, unauthenticated},
		{OpCreateArticle, reader, forbidden},
		{OpCreateArticle, journalist, allowed},
		{OpCreateArticle, editor, forbidden},
		{OpViewJournalistDashboard, journalist, allowed},
		{OpViewJournalistDashboard, editor, forbidden},
		{OpViewEditorQueue, editor, allowed},
		{OpViewEditorQueue, journalist, forbidden},
		{OpDecideArticle, editor, allowed},
		{OpDecideArticle, reader, forbidden},
		{OpDecideArticle, nil, unauthenticated},
		{OpReadFeed, reader, allowed},
		{OpReadFeed, journalist, forbidden},
		{OpReadFeed, editor, forbidden},
		{OpReadFeed, nil, unauthenticated},
	}

	for _, tc := range cases {
		name := string(tc.op) + "/anonymous"
		if tc.actor != nil {
			name = string(tc.op) + "/" + string(tc.actor.Role)
		}
		t.Run(name, func(t *testing.T) {
			err := Authorize(tc.actor, tc.op)
			switch tc.want {
			case allowed:
				assert.NoError(t, err)
			case unauthenticated:
				assert.IsType(t, models.ErrorUnauthorized{}, err)
			case forbidden:
				assert.IsType(t, models.ErrorForbidden{}, err)
			}
		})
	}
}

func TestAuthorize_DenialMessages(t *testing.T) {
	reader := &models.User{Role: models.RoleReader}
	journalist := &models.User{Role: models.RoleJournalist}

	assert.EqualError(t, Authorize(reader, OpCreateArticle), "Only journalists can create articles.")
	assert.EqualError(t, Authorize(reader, OpDecideArticle), "Only editors can review articles.")
	assert.EqualError(t, Authorize(reader, OpViewEditorQueue), "Only editors can view this page.")
	assert.EqualError(t, Authorize(journalist, OpReadFeed), "Only readers can access this endpoint.")
	assert.EqualError(t, Authorize(nil, OpReadFeed), "Authentication credentials were not provided.")
}

func TestAuthorize_UnknownOperationDenied(t *testing.T) {
	err := Authorize(&models.User{Role: models.RoleEditor}, Operation("drop_tables"))
	assert.IsType(t, models.ErrorForbidden{}, err)
}
