package qualification

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestIsValidObjectType(t *testing.T) {
	for _, known := range KnownObjectTypes {
		assert.True(t, IsValidObjectType(known))
	}
	assert.False(t, IsValidObjectType(ObjectType("warehouse")))
	assert.False(t, IsValidObjectType(ObjectType("")))
}

func TestValidate(t *testing.T) {
	t.Run("Room", func(t *testing.T) {
		obj := QualificationObject{
			ObjectType: ObjectTypeRoom,
			Data: ObjectData{
				Name:          "Storage room 4",
				Address:       "12 Industrial Way",
				Area:          48.5,
				ClimateSystem: "split system",
			},
		}
		assert.NoError(t, obj.Validate())

		obj.Data.Area = 0
		assert.Error(t, obj.Validate())
	})

	t.Run("Vehicle", func(t *testing.T) {
		obj := QualificationObject{
			ObjectType: ObjectTypeVehicle,
			Data: ObjectData{
				VIN:                "WDB9066331S812345",
				RegistrationNumber: "AB 1234 CD",
				BodyVolume:         16,
			},
		}
		assert.NoError(t, obj.Validate())

		obj.Data.VIN = "  "
		assert.Error(t, obj.Validate())
	})

	t.Run("Cold Room", func(t *testing.T) {
		obj := QualificationObject{
			ObjectType: ObjectTypeColdRoom,
			Data: ObjectData{
				Name:            "Cold room 1",
				InventoryNumber: "INV-0042",
				ChamberVolume:   120,
			},
		}
		assert.NoError(t, obj.Validate())

		obj.Data.InventoryNumber = ""
		assert.Error(t, obj.Validate())
	})

	t.Run("Refrigerator And Freezer", func(t *testing.T) {
		for _, objType := range []ObjectType{ObjectTypeRefrigerator, ObjectTypeFreezer} {
			obj := QualificationObject{
				ObjectType: objType,
				Data: ObjectData{
					SerialNumber:    "SN-99812",
					InventoryNumber: "INV-0108",
				},
			}
			assert.NoError(t, obj.Validate())

			obj.Data.SerialNumber = ""
			assert.Error(t, obj.Validate())
		}
	})

	t.Run("Unknown Type", func(t *testing.T) {
		obj := QualificationObject{ObjectType: ObjectType("container")}
		assert.Error(t, obj.Validate())
	})
}

func TestDisplayName(t *testing.T) {
	obj := QualificationObject{ID: uuid.New()}

	assert.Equal(t, obj.ID.String(), obj.DisplayName(), "falls back to the ID")

	obj.Data.SerialNumber = "SN-1"
	assert.Equal(t, "SN-1", obj.DisplayName())

	obj.Data.VIN = "VIN-1"
	assert.Equal(t, "VIN-1", obj.DisplayName(), "VIN wins over serial number")

	obj.Data.Name = "Cold room 1"
	assert.Equal(t, "Cold room 1", obj.DisplayName(), "name wins over everything")
}
