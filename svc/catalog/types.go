package catalog

// PermissionRef is the value type embedded in plans and subscriptions.
// Attaching a catalog permission copies its fields into the owning document,
// so later catalog edits never retroactively change what a plan grants.
type PermissionRef struct {
	Name        string `bson:"name" json:"name"`
	Description string `bson:"description" json:"description"`
	APIEndpoint string `bson:"api_endpoint" json:"api_endpoint"`
}

// Plan is a named bundle of permissions plus a usage quota.
type Plan struct {
	ID          string          `bson:"-" json:"id"`
	Name        string          `bson:"name" json:"name"`
	Description string          `bson:"description" json:"description"`
	Permissions []PermissionRef `bson:"permissions" json:"permissions"`
	UsageLimit  int64           `bson:"usage_limit" json:"usage_limit"`
}

// Permission is a catalog entry with an independent lifecycle from plans.
type Permission struct {
	ID          string `bson:"-" json:"id"`
	Name        string `bson:"name" json:"name"`
	Description string `bson:"description" json:"description"`
	APIEndpoint string `bson:"api_endpoint" json:"api_endpoint"`
}

// Ref returns the embeddable copy of a catalog permission.
func (p Permission) Ref() PermissionRef {
	return PermissionRef{
		Name:        p.Name,
		Description: p.Description,
		APIEndpoint: p.APIEndpoint,
	}
}
