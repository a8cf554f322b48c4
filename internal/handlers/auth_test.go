package handlers

import (
	"testing"

	"github.com/SAP-F-2025/assessment-scheduler/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoleFor(t *testing.T) {
	tests := []struct {
		isAdmin bool
		tag     string
		want    models.UserRole
	}{
		{true, "", models.RoleAdmin},
		{true, "teacher", models.RoleAdmin},
		{false, "teacher", models.RoleTeacher},
		{false, " Teacher ", models.RoleTeacher},
		{false, "admin", models.RoleAdmin},
		{false, "student", models.RoleViewer},
		{false, "", models.RoleViewer},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, roleFor(tt.isAdmin, tt.tag), "isAdmin=%v tag=%q", tt.isAdmin, tt.tag)
	}
}

func TestBearerToken(t *testing.T) {
	token, err := bearerToken("Bearer abc.def.ghi")
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", token)

	token, err = bearerToken("bearer   abc")
	require.NoError(t, err)
	assert.Equal(t, "abc", token)

	for _, header := range []string{"", "Bearer", "Bearer ", "Basic abc", "abc"} {
		_, err := bearerToken(header)
		assert.ErrorIs(t, err, errMissingToken, header)
	}
}
