// Package models holds the GORM persistence models backing the registry
// and ledger repositories. Domain entities stay free of ORM tags; these
// models carry the table mappings and convert to and from domain types.
//
// Files:
//   - base.go: shared BaseModel and AggregateModel embeds
//   - asset.go: asset record model for the registry aggregate
//   - ledger.go: ownership token and value ledger models
//   - settings.go: registry-level configuration model
package models
