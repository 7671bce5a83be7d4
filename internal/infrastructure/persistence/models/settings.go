package models

import (
	"github.com/factoring/backend/internal/domain/asset"
)

// RegistryConfigModel persists the registry-level settings. The table holds
// a single row.
type RegistryConfigModel struct {
	BaseModel
	BaseURI         string `gorm:"type:varchar(512);not null;default:''"`
	FormulasVersion string `gorm:"type:varchar(64);not null;default:''"`
}

// TableName returns the table name for GORM
func (RegistryConfigModel) TableName() string {
	return "registry_config"
}

// ToDomain converts the persistence model to a domain RegistryConfig.
func (m *RegistryConfigModel) ToDomain() *asset.RegistryConfig {
	return &asset.RegistryConfig{
		BaseEntity:      m.BaseModel.ToDomain(),
		BaseURI:         m.BaseURI,
		FormulasVersion: m.FormulasVersion,
	}
}

// FromDomain populates the persistence model from a domain RegistryConfig.
func (m *RegistryConfigModel) FromDomain(cfg *asset.RegistryConfig) {
	m.FromDomainBaseEntity(cfg.BaseEntity)
	m.BaseURI = cfg.BaseURI
	m.FormulasVersion = cfg.FormulasVersion
}
