package model

// Privilege is a permission checked at the entry of a privileged operation
type Privilege string

const (
	// User management
	PrivUserView   Privilege = "user:view"
	PrivUserCreate Privilege = "user:create"
	// Batches
	PrivBatchView   Privilege = "batch:view"
	PrivBatchCreate Privilege = "batch:create"
	// Slabs
	PrivSlabView  Privilege = "slab:view"
	PrivSlabWrite Privilege = "slab:write"
	// Reports
	PrivReportExport Privilege = "report:export"
)

var markerPrivileges = []Privilege{
	PrivBatchView,
	PrivBatchCreate,
	PrivSlabView,
	PrivSlabWrite,
	PrivReportExport,
}

// admin gets everything a marker has plus user management
var rolePrivileges = map[Role][]Privilege{
	RoleMarker: markerPrivileges,
	RoleAdmin:  append([]Privilege{PrivUserView, PrivUserCreate}, markerPrivileges...),
}
