package employee

type Permission string

const (
	// Attendance
	PermissionAttendanceCheck   Permission = "attendance.check"
	PermissionAttendanceViewAll Permission = "attendance.view_all"

	// Leave
	PermissionLeaveRequest     Permission = "leave.request"
	PermissionLeaveDecide      Permission = "leave.decide"
	PermissionLeaveViewBalance Permission = "leave.view_balance"

	// Reports
	PermissionReportsView     Permission = "reports.view"
	PermissionReportsGenerate Permission = "reports.generate"

	// Administration
	PermissionEmployeeManage Permission = "employee.manage"

	// Notifications
	PermissionNotificationsView Permission = "notifications.view"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RolePersonnel: {
		PermissionAttendanceCheck,
		PermissionLeaveRequest,
		PermissionLeaveViewBalance,
		PermissionNotificationsView,
	},
	RoleAuthorized: {
		PermissionAttendanceViewAll,
		PermissionLeaveDecide,
		PermissionLeaveViewBalance,
		PermissionReportsView,
		PermissionReportsGenerate,
		PermissionEmployeeManage,
		PermissionNotificationsView,
	},
}

// HasPermission checks whether a role carries a permission.
func HasPermission(role Role, permission Permission) bool {
	for _, p := range RolePermissions[role] {
		if p == permission {
			return true
		}
	}
	return false
}
