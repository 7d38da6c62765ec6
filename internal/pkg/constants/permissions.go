package constants

const (
	ViewAdminPanel        = "view_admin_panel"
	ModerateUsers         = "moderate_users"
	ResolveReports        = "resolve_reports"
	ManageAnnouncements   = "manage_announcements"
	ManageRecommendations = "manage_recommendations"
)

// PermissionRoles maps each permission to the roles allowed to perform it.
var PermissionRoles = map[string][]string{
	ViewAdminPanel:        {Admin},
	ModerateUsers:         {Admin},
	ResolveReports:        {Admin},
	ManageAnnouncements:   {Admin},
	ManageRecommendations: {Admin},
}

// AllowedRole returns true if role is in the list of allowed roles for the permission.
func AllowedRole(permission, role string) bool {
	roles, ok := PermissionRoles[permission]
	if !ok {
		return false
	}
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
