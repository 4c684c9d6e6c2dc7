package domain

// Fixed settings keys.
const (
	SettingWorkflowURL = "workflow_url"
	SettingDirectory   = "directory"
)

// DirectorySettings configures provisioning into an external LDAP directory.
type DirectorySettings struct {
	Enabled       bool   `json:"enabled"`
	URL           string `json:"url"`
	BindDN        string `json:"bindDN"`
	BindPassword  string `json:"bindPassword"`
	BaseDN        string `json:"baseDN"`
	UserContainer string `json:"userContainer"`
}
