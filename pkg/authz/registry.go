package authz

const (
	RoleITAdmin   = "it-admin"
	RoleITEditor  = "it-editor"
	RoleViewer    = "viewer"
	RoleAnonymous = "anonymous"
)

// Dialog actions. Opening a dialog needs edit; Save additionally
// checks save so read-mostly roles can be given a look-but-don't-touch
// policy.
const (
	ActionView = "view"
	ActionEdit = "edit"
	ActionSave = "save"
)

const DomainGlobal = "global"

// ObjectForKind maps a record kind key to its casbin object.
func ObjectForKind(kind string) string {
	return "records." + kind
}
