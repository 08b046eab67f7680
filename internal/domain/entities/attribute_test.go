package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validAttribute() Attribute {
	return Attribute{
		Value:       12,
		Type:        AttributeInteger,
		Description: "damage dealt per hit",
		Reference:   "a dagger deals 5, a greatsword deals 20",
	}
}

func TestAttribute_Validate(t *testing.T) {
	assert.NoError(t, validAttribute().Validate())

	tests := []struct {
		name    string
		mutate  func(*Attribute)
		wantErr string
	}{
		{"missing value", func(a *Attribute) { a.Value = nil }, "value is empty"},
		{"missing type", func(a *Attribute) { a.Type = "" }, "type is empty"},
		{"unknown type", func(a *Attribute) { a.Type = "float" }, "unknown attribute type"},
		{"missing description", func(a *Attribute) { a.Description = "" }, "description is empty"},
		{"missing reference", func(a *Attribute) { a.Reference = "" }, "reference is empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := validAttribute()
			tt.mutate(&a)
			err := a.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestAttributeType_Valid(t *testing.T) {
	for _, typ := range []AttributeType{AttributeInteger, AttributeNumber, AttributeString, AttributeBoolean, AttributeArray} {
		assert.True(t, typ.Valid(), "type %s", typ)
	}
	assert.False(t, AttributeType("float").Valid())
	assert.False(t, AttributeType("").Valid())
}

func TestAttribute_Definition(t *testing.T) {
	def := validAttribute().Definition("damage")

	assert.Equal(t, "damage", def.Name)
	assert.Equal(t, AttributeInteger, def.Type)
	assert.Equal(t, "damage dealt per hit", def.Description)
	assert.Equal(t, "a dagger deals 5, a greatsword deals 20", def.Reference)
}
