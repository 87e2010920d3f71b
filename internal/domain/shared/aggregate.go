package shared

// AggregateRoot marks an entity as a consistency boundary with an
// optimistic-lock version.
type AggregateRoot interface {
	Entity
	GetVersion() int
	IncrementVersion()
}

// BaseAggregateRoot extends BaseEntity with the version column used by
// SaveWithLock to detect concurrent writers.
type BaseAggregateRoot struct {
	BaseEntity
	Version int `gorm:"not null;default:1"`
}

// NewBaseAggregateRoot returns a new aggregate root at version 1
func NewBaseAggregateRoot() BaseAggregateRoot {
	return BaseAggregateRoot{
		BaseEntity: NewBaseEntity(),
		Version:    1,
	}
}

func (a *BaseAggregateRoot) GetVersion() int { return a.Version }

// IncrementVersion bumps the version; repositories call it on every
// successful guarded save.
func (a *BaseAggregateRoot) IncrementVersion() { a.Version++ }
