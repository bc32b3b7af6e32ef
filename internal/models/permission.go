package models

// Kind names one backend resource.
type Kind string

const (
	KindClient    Kind = "client"
	KindPersonnel Kind = "personnel"
	KindService   Kind = "service"
	KindItem      Kind = "item"
	KindPayment   Kind = "payment"
	KindVisit     Kind = "visit"
	KindUser      Kind = "user"
)

// Kinds lists every resource kind in display order.
var Kinds = []Kind{KindClient, KindPersonnel, KindService, KindItem, KindPayment, KindVisit, KindUser}

// Action is a mutating operation on a resource.
type Action string

const (
	ActionAdd    Action = "add"
	ActionChange Action = "change"
	ActionDelete Action = "delete"
)

// Permission values as the backend grants them, e.g. "delete_client".
type Permission string

func PermissionFor(action Action, kind Kind) Permission {
	return Permission(string(action) + "_" + string(kind))
}
