package convert

import (
	"image"
	"reflect"

	"github.com/godbus/dbus/v5"
)

var (
	boolSignature   = dbus.SignatureOfType(reflect.TypeOf(false))
	byteSignature   = dbus.SignatureOfType(reflect.TypeOf(byte(0)))
	stringSignature = dbus.SignatureOfType(reflect.TypeOf(""))
	uint32Signature = dbus.SignatureOfType(reflect.TypeOf(uint32(0)))
	rectSignature   = dbus.SignatureOfType(reflect.TypeOf([]int32{}))
)

func FromBool(input bool) dbus.Variant {
	return dbus.MakeVariantWithSignature(input, boolSignature)
}

func FromByte(input byte) dbus.Variant {
	return dbus.MakeVariantWithSignature(input, byteSignature)
}

func FromString(input string) dbus.Variant {
	return dbus.MakeVariantWithSignature(input, stringSignature)
}

func FromUint32(input uint32) dbus.Variant {
	return dbus.MakeVariantWithSignature(input, uint32Signature)
}

// FromRect flattens a rectangle to [x0 y0 x1 y1].
func FromRect(r image.Rectangle) dbus.Variant {
	coords := []int32{int32(r.Min.X), int32(r.Min.Y), int32(r.Max.X), int32(r.Max.Y)}
	return dbus.MakeVariantWithSignature(coords, rectSignature)
}
