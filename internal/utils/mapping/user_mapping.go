package mapping

import (
	"github.com/SscSPs/trakmymedia/internal/core/domain"
	"github.com/SscSPs/trakmymedia/internal/models"
)

// ToModelUser converts a domain User to a model User
func ToModelUser(d domain.User) models.User {
	return models.User{
		UserID:          d.UserID,
		Email:           d.Email,
		Username:        d.Username,
		PasswordHash:    d.PasswordHash,
		Name:            d.DisplayName,
		Image:           d.AvatarURL,
		ProfileComplete: d.ProfileComplete,
		AuthProvider:    string(d.AuthProvider),
		ProviderUserID:  d.ProviderUserID,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainUser converts a model User to a domain User
func ToDomainUser(m models.User) domain.User {
	return domain.User{
		UserID:          m.UserID,
		Email:           m.Email,
		Username:        m.Username,
		PasswordHash:    m.PasswordHash,
		DisplayName:     m.Name,
		AvatarURL:       m.Image,
		ProfileComplete: m.ProfileComplete,
		AuthProvider:    domain.AuthProvider(m.AuthProvider),
		ProviderUserID:  m.ProviderUserID,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}
