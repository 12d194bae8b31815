package model

// Filter is a conjunction of optional predicates over the catalog. Nil
// pointers mean "no constraint". By default soft-deleted rows and rows whose
// owner is deactivated are excluded; the two Include flags override that for
// internal and admin read paths.
type Filter struct {
	OwnerID               *uint
	NameContains          *string
	MinPrice              *float64
	MaxPrice              *float64
	IsAvailable           *bool
	IncludeDeleted        bool
	IncludeInactiveOwners bool
}
