package fsp

import (
	"strconv"
)

// queryEncoder is implemented by payloads sent as query parameters
type queryEncoder interface {
	queryParams() map[string]string
}

// FindRequest looks up the record stored for an entity
type FindRequest struct {
	EntityID string       `json:"entityId"`
	Type     RecordType   `json:"type,omitempty"`
	Source   RecordSource `json:"source,omitempty"`
}

func (r FindRequest) queryParams() map[string]string {
	params := map[string]string{"entityId": r.EntityID}
	if r.Type != "" {
		params["type"] = string(r.Type)
	}
	if r.Source != "" {
		params["source"] = string(r.Source)
	}
	return params
}

// FindByIDRequest looks up a record by its id
type FindByIDRequest struct {
	ID int64 `json:"id"`
}

func (r FindByIDRequest) queryParams() map[string]string {
	return map[string]string{"id": strconv.FormatInt(r.ID, 10)}
}

// FindAllRequest selects a page of the record listing
type FindAllRequest struct {
	Offset int          `json:"offset"`
	Limit  int          `json:"limit"`
	Type   RecordType   `json:"type,omitempty"`
	Source RecordSource `json:"source,omitempty"`
}

func (r FindAllRequest) queryParams() map[string]string {
	params := map[string]string{
		"offset": strconv.Itoa(r.Offset),
		"limit":  strconv.Itoa(r.Limit),
	}
	if r.Type != "" {
		params["type"] = string(r.Type)
	}
	if r.Source != "" {
		params["source"] = string(r.Source)
	}
	return params
}

// CreateEntity is the entity description sent with a CreateRequest.
// Its shape depends on the record type, see the New*CreateRequest helpers.
type CreateEntity interface {
	createEntity()
}

// VKUserEntity describes a VK user
type VKUserEntity struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func (VKUserEntity) createEntity() {}

// VKGroupEntity describes a VK group
type VKGroupEntity struct {
	Name string `json:"name"`
}

func (VKGroupEntity) createEntity() {}

// OtherEntity is a free-form entity for external, instagram and telegram records
type OtherEntity map[string]any

func (OtherEntity) createEntity() {}

// CreateRequest is the body of a record creation
type CreateRequest struct {
	EntityID    string       `json:"entityId"`
	Entity      CreateEntity `json:"entity"`
	Type        RecordType   `json:"type"`
	Source      RecordSource `json:"source"`
	Description string       `json:"description"`
	CreatorID   string       `json:"creatorId"`
}

// NewVKUserCreateRequest builds a CreateRequest for a VK user record
func NewVKUserCreateRequest(entityID string, entity VKUserEntity, source RecordSource, description, creatorID string) CreateRequest {
	return CreateRequest{
		EntityID:    entityID,
		Entity:      entity,
		Type:        RecordTypeUser,
		Source:      source,
		Description: description,
		CreatorID:   creatorID,
	}
}

// NewVKGroupCreateRequest builds a CreateRequest for a VK group record
func NewVKGroupCreateRequest(entityID string, entity VKGroupEntity, source RecordSource, description, creatorID string) CreateRequest {
	return CreateRequest{
		EntityID:    entityID,
		Entity:      entity,
		Type:        RecordTypeGroup,
		Source:      source,
		Description: description,
		CreatorID:   creatorID,
	}
}

// NewOtherCreateRequest builds a CreateRequest for any type other than
// user and group. The type is not checked; the service rejects bad pairs.
func NewOtherCreateRequest(entityID string, recordType RecordType, entity OtherEntity, source RecordSource, description, creatorID string) CreateRequest {
	if entity == nil {
		entity = OtherEntity{}
	}
	return CreateRequest{
		EntityID:    entityID,
		Entity:      entity,
		Type:        recordType,
		Source:      source,
		Description: description,
		CreatorID:   creatorID,
	}
}

// EditRequest updates the description of a record
type EditRequest struct {
	ID          int64        `json:"id"`
	Source      RecordSource `json:"source"`
	Description string       `json:"description"`
	UpdatorID   string       `json:"updatorId"`
}
