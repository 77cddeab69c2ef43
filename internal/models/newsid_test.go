package models_test

import (
	"testing"

	"news_publisher/internal/models"

	"github.com/stretchr/testify/require"
)

func TestParseNewsID(t *testing.T) {
	testCases := []struct {
		name      string
		input     string
		wantLocal bool
	}{
		{name: "numeric id is local", input: "42", wantLocal: true},
		{name: "synthesized id is external", input: "breaking_news_today", wantLocal: false},
		{name: "mixed id is external", input: "42abc", wantLocal: false},
		{name: "empty id is external", input: "", wantLocal: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			id := models.ParseNewsID(tc.input)
			require.Equal(t, tc.wantLocal, id.IsLocal())
			require.Equal(t, tc.input, id.String())
		})
	}
}

func TestParseNewsID_LocalValue(t *testing.T) {
	id := models.ParseNewsID("17")
	require.True(t, id.IsLocal())
	require.Equal(t, int64(17), id.Local())
}

func TestParseNewsID_ExternalValue(t *testing.T) {
	id := models.ParseNewsID("some_external_title")
	require.False(t, id.IsLocal())
	require.Equal(t, "some_external_title", id.External())
}

func TestRoleValid(t *testing.T) {
	require.True(t, models.RoleReader.Valid())
	require.True(t, models.RoleAuthor.Valid())
	require.True(t, models.RoleAdmin.Valid())
	require.False(t, models.Role("moderator").Valid())
}

func TestUnifiedEffectiveTime(t *testing.T) {
	news := models.News{
		Author: &models.User{Username: "ivanov"},
		Agency: &models.Agency{Name: "ТАСС"},
	}
	unified := news.Unified()
	require.False(t, unified.IsExternal)
	require.Equal(t, models.SourceLocal, unified.SourceType)
	require.Equal(t, unified.CreatedAt, unified.EffectiveTime())

	unified.IsExternal = true
	require.Equal(t, unified.PublishedAt, unified.EffectiveTime())
}
