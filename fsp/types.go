package fsp

import (
	"time"
)

// RecordType classifies the entity a record points to
type RecordType string

const (
	// RecordTypeUser is a VK user
	RecordTypeUser RecordType = "user"
	// RecordTypeGroup is a VK group
	RecordTypeGroup RecordType = "group"
	// RecordTypeExternal is an identity outside the supported networks
	RecordTypeExternal RecordType = "external"
	// RecordTypeInstagram is an Instagram account
	RecordTypeInstagram RecordType = "instagram"
	// RecordTypeTelegram is a Telegram user or channel
	RecordTypeTelegram RecordType = "telegram"
)

// RecordTypes lists every record type known to the service
var RecordTypes = []RecordType{
	RecordTypeUser,
	RecordTypeGroup,
	RecordTypeExternal,
	RecordTypeInstagram,
	RecordTypeTelegram,
}

// IsValid checks if the record type is one of the known values
func (t RecordType) IsValid() bool {
	for _, known := range RecordTypes {
		if t == known {
			return true
		}
	}
	return false
}

// RecordSource is the platform a record was submitted from
type RecordSource string

const (
	// RecordSourceVK marks records submitted from VK
	RecordSourceVK RecordSource = "vk"
	// RecordSourceTelegram marks records submitted from Telegram
	RecordSourceTelegram RecordSource = "telegram"
)

// IsValid checks if the record source is one of the known values
func (s RecordSource) IsValid() bool {
	return s == RecordSourceVK || s == RecordSourceTelegram
}

// Entity is the external identity a record refers to
type Entity struct {
	ID          string     `json:"id"`
	DisplayName string     `json:"displayName"`
	Link        string     `json:"link"`
	Type        RecordType `json:"type"`
}

// AuthorUser is an actor id resolved by the service
type AuthorUser struct {
	DisplayName string       `json:"displayName"`
	ID          string       `json:"id"`
	Link        string       `json:"link"`
	Source      RecordSource `json:"source"`
	// Timestamp is in milliseconds since the Unix epoch
	Timestamp int64 `json:"timestamp"`
}

// Time returns the timestamp as a time.Time
func (a *AuthorUser) Time() time.Time {
	if a == nil || a.Timestamp == 0 {
		return time.Time{}
	}
	return time.UnixMilli(a.Timestamp)
}

// Record is a catalog row as it is stored, with actors kept as bare ids
type Record struct {
	ID            int64          `json:"id"`
	EntityID      string         `json:"entityId"`
	Entity        map[string]any `json:"entity"`
	Type          RecordType     `json:"type"`
	Source        RecordSource   `json:"source"`
	Description   string         `json:"description"`
	CreatedAt     int64          `json:"createdAt"`
	CreatorID     string         `json:"creatorId"`
	CreatedSource RecordSource   `json:"createdSource"`
	UpdatedAt     int64          `json:"updatedAt"`
	UpdatedBy     string         `json:"updatedBy,omitempty"`
	UpdatedSource RecordSource   `json:"updatedSource,omitempty"`
	DeletedDate   *time.Time     `json:"deletedDate,omitempty"`
	DeletedAt     int64          `json:"deletedAt,omitempty"`
	DeletedBy     string         `json:"deletedBy,omitempty"`
	DeletedSource RecordSource   `json:"deletedSource,omitempty"`
	Photos        []string       `json:"photos"`
}

// IsDeleted checks if the record was soft-deleted
func (r *Record) IsDeleted() bool {
	return r.DeletedAt != 0 || r.DeletedDate != nil || r.DeletedBy != ""
}

// EnrichedRecord is a record whose actors are resolved into AuthorUser values.
// This is the shape every endpoint used by Client returns.
type EnrichedRecord struct {
	ID          int64        `json:"id"`
	Entity      Entity       `json:"entity"`
	Type        RecordType   `json:"type"`
	Source      RecordSource `json:"source"`
	Description string       `json:"description"`
	Photos      []string     `json:"photos,omitempty"`
	CreatedBy   *AuthorUser  `json:"createdBy,omitempty"`
	UpdatedBy   *AuthorUser  `json:"updatedBy,omitempty"`
	DeletedBy   *AuthorUser  `json:"deletedBy,omitempty"`
}

// IsDeleted checks if the record was soft-deleted
func (r *EnrichedRecord) IsDeleted() bool {
	return r.DeletedBy != nil
}

// Page is one slice of the full record listing
type Page struct {
	Offset int              `json:"offset"`
	Count  int              `json:"count"`
	Items  []EnrichedRecord `json:"items"`
}

// emptyPage is what FindAll degrades to when the listing is unavailable
func emptyPage(offset int) *Page {
	return &Page{
		Offset: offset,
		Count:  0,
		Items:  []EnrichedRecord{},
	}
}
