package entities

import (
	"errors"
	"fmt"
)

// AttributeType is the declared value type of an attribute.
type AttributeType string

// Attribute value types accepted from the generation backend.
const (
	AttributeInteger AttributeType = "integer"
	AttributeNumber  AttributeType = "number"
	AttributeString  AttributeType = "string"
	AttributeBoolean AttributeType = "boolean"
	AttributeArray   AttributeType = "array"
)

// Valid reports whether t is a known attribute type tag.
func (t AttributeType) Valid() bool {
	switch t {
	case AttributeInteger, AttributeNumber, AttributeString, AttributeBoolean, AttributeArray:
		return true
	}
	return false
}

// Attribute is a named game-balance value assigned to an entity. All four
// fields must be populated together; an attribute is never created with only
// a value.
type Attribute struct {
	Value       any           `json:"value"`
	Type        AttributeType `json:"type"`
	Description string        `json:"description"`
	Reference   string        `json:"reference"`
}

// Validate checks the four-field completeness invariant.
func (a Attribute) Validate() error {
	if a.Value == nil {
		return errors.New("attribute value is empty")
	}
	if a.Type == "" {
		return errors.New("attribute type is empty")
	}
	if !a.Type.Valid() {
		return fmt.Errorf("unknown attribute type %q", a.Type)
	}
	if a.Description == "" {
		return errors.New("attribute description is empty")
	}
	if a.Reference == "" {
		return errors.New("attribute reference is empty")
	}
	return nil
}

// Definition strips the value, leaving the reusable taxonomy entry.
func (a Attribute) Definition(name string) AttributeDefinition {
	return AttributeDefinition{
		Name:        name,
		Type:        a.Type,
		Description: a.Description,
		Reference:   a.Reference,
	}
}

// AttributeDefinition describes an attribute without a value. Definitions
// live in the per-kind taxonomy and calibrate future generations.
type AttributeDefinition struct {
	Name        string        `json:"name"`
	Type        AttributeType `json:"type"`
	Description string        `json:"description"`
	Reference   string        `json:"reference"`
}

// CategoryDefinition is a named, ordered list of attribute definitions
// within one entity kind's taxonomy.
type CategoryDefinition struct {
	Name       string                `json:"name"`
	Attributes []AttributeDefinition `json:"attributes"`
}

// CommonCategory holds attributes shared by every category of a kind. Its
// definitions are always included in taxonomy lookups.
const CommonCategory = "common"
