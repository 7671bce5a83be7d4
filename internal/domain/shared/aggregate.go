package shared

// BaseAggregateRoot extends BaseEntity with a version counter used for
// optimistic locking at the persistence layer.
type BaseAggregateRoot struct {
	BaseEntity
	Version int `gorm:"not null;default:1"`
}

// NewBaseAggregateRoot starts an aggregate at version 1.
func NewBaseAggregateRoot() BaseAggregateRoot {
	return BaseAggregateRoot{
		BaseEntity: NewBaseEntity(),
		Version:    1,
	}
}

// Touch bumps the version alongside the modification timestamp.
func (a *BaseAggregateRoot) Touch() {
	a.BaseEntity.Touch()
	a.Version++
}
