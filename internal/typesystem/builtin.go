package typesystem

import "github.com/lyralang/lyra/internal/config"

// Convenience constructors for the built-in types.

func AnyType() Type     { return TCon{Name: config.AnyTypeName} }
func NothingType() Type { return TCon{Name: config.NothingTypeName} }
func UnitType() Type    { return TCon{Name: config.UnitTypeName} }
func IntType() Type     { return TCon{Name: config.IntTypeName} }
func DoubleType() Type  { return TCon{Name: config.DoubleTypeName} }
func NumberType() Type  { return TCon{Name: config.NumberTypeName} }
func StringType() Type  { return TCon{Name: config.StringTypeName} }
func BooleanType() Type { return TCon{Name: config.BooleanTypeName} }

// NullType is the type of the null literal: Nothing?
func NullType() Type { return TCon{Name: config.NothingTypeName, Null: true} }
