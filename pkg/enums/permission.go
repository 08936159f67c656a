package enums

// Permission tokens are granted per module; the estimate module's view
// tokens decide a caller's visibility tier.
const (
	PermissionViewEstimate        = "view_estimate"
	PermissionViewTeamEstimates   = "view_team_estimates"
	PermissionViewMemberEstimates = "view_member_estimates"
	PermissionViewAllEstimates    = "view_all_estimates"

	PermissionCreateEstimate = "create_estimate"
	PermissionEditEstimate   = "edit_estimate"
	PermissionDeleteEstimate = "delete_estimate"
)

// ModuleEstimate is the permission module key for estimate collections.
const ModuleEstimate = "estimate"
