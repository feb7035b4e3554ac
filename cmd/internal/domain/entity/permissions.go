package entity

// Permission is a custom type for bitwise flags.
// Only admin accounts carry permissions, engineers and entreprises are
// authorized by role and ownership.
type Permission int64

const (
	// PermissionAdministrator grants god-mode.
	PermissionAdministrator Permission = 1 << iota

	// PermissionVerifyEngineers allows reviewing engineer documents and
	// reading the uploaded files.
	PermissionVerifyEngineers

	// PermissionManageEntreprises allows validating, suspending and
	// rejecting entreprise accounts.
	PermissionManageEntreprises

	// PermissionManageSubscriptions allows activating, rejecting and
	// deactivating entreprise subscriptions.
	PermissionManageSubscriptions

	// PermissionManageSponsors allows editing the public sponsor list.
	PermissionManageSponsors
)

// Has checks if the permission bitmask contains ALL bits
// requested in 'target'. It ignores Administrator status.
func (p Permission) Has(target Permission) bool {
	return (p & target) == target
}

// HasAny returns true if the user has ANY of the target permissions
func (p Permission) HasAny(target Permission) bool {
	return (p & target) > 0
}

func (p Permission) Add(perm Permission) Permission {
	return p | perm
}

func (p Permission) Remove(perm Permission) Permission {
	return p &^ perm
}

// HasEffective checks if the permission bitmask contains the target bits
// OR if the permission includes Administrator
func (p Permission) HasEffective(target Permission) bool {
	return p.Has(PermissionAdministrator) || p.Has(target)
}
