// Package schema describes the typed feature schema a query is planned against:
// attribute names, their semantic types, index availability, and cardinality hints.
package schema

import "fmt"

// SemanticType is the declared type of a schema attribute.
type SemanticType uint8

const (
	TypeInt SemanticType = iota
	TypeLong
	TypeFloat
	TypeDouble
	TypeBool
	TypeString
	TypeUUID
	TypeDate
	TypePoint
	TypeLineString
	TypePolygon
	TypeGeometry
)

func (t SemanticType) String() string {
	switch t {
	case TypeInt:
		return "Int"
	case TypeLong:
		return "Long"
	case TypeFloat:
		return "Float"
	case TypeDouble:
		return "Double"
	case TypeBool:
		return "Bool"
	case TypeString:
		return "String"
	case TypeUUID:
		return "Uuid"
	case TypeDate:
		return "Date"
	case TypePoint:
		return "Point"
	case TypeLineString:
		return "LineString"
	case TypePolygon:
		return "Polygon"
	case TypeGeometry:
		return "Geometry"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(t))
	}
}

// IsGeometry reports whether the type is one of the geometry variants.
func (t SemanticType) IsGeometry() bool {
	switch t {
	case TypePoint, TypeLineString, TypePolygon, TypeGeometry:
		return true
	default:
		return false
	}
}

// Cardinality is the selectivity class the user has declared for an attribute.
// Default is Unknown when no hint is given (§4.3).
type Cardinality uint8

const (
	Unknown Cardinality = iota
	High
	Low
)

func (c Cardinality) String() string {
	switch c {
	case High:
		return "HIGH"
	case Low:
		return "LOW"
	default:
		return "UNKNOWN"
	}
}

// AttributeDescriptor describes a single attribute in a feature schema.
type AttributeDescriptor struct {
	Name          string
	Type          SemanticType
	Indexed       bool
	Cardinality   Cardinality
	DefaultGeom   bool // marks the default geometry attribute
	DefaultDate   bool // marks the default date attribute
	SRID          int  // geometry SRID, 0 if not a geometry or unset
}

// Descriptor is the ordered schema for a feature type.
type Descriptor struct {
	TypeName   string
	Attributes []AttributeDescriptor
}

// ByName looks up an attribute by name.
func (d *Descriptor) ByName(name string) (*AttributeDescriptor, bool) {
	for i := range d.Attributes {
		if d.Attributes[i].Name == name {
			return &d.Attributes[i], true
		}
	}
	return nil, false
}

// DefaultGeometry returns the attribute marked as the default geometry, if any.
func (d *Descriptor) DefaultGeometry() (*AttributeDescriptor, bool) {
	for i := range d.Attributes {
		if d.Attributes[i].DefaultGeom {
			return &d.Attributes[i], true
		}
	}
	return nil, false
}

// DefaultDateAttr returns the attribute marked as the default date, if any.
func (d *Descriptor) DefaultDateAttr() (*AttributeDescriptor, bool) {
	for i := range d.Attributes {
		if d.Attributes[i].DefaultDate {
			return &d.Attributes[i], true
		}
	}
	return nil, false
}

// Validate enforces the schema invariant: at most one default geometry and at
// most one default date attribute.
func (d *Descriptor) Validate() error {
	geomCount, dateCount := 0, 0
	seen := make(map[string]bool, len(d.Attributes))
	for _, attr := range d.Attributes {
		if seen[attr.Name] {
			return fmt.Errorf("%w: duplicate attribute %q", ErrInvalidSchema, attr.Name)
		}
		seen[attr.Name] = true
		if attr.DefaultGeom {
			geomCount++
		}
		if attr.DefaultDate {
			dateCount++
		}
	}
	if geomCount > 1 {
		return fmt.Errorf("%w: more than one default geometry attribute", ErrInvalidSchema)
	}
	if dateCount > 1 {
		return fmt.Errorf("%w: more than one default date attribute", ErrInvalidSchema)
	}
	return nil
}
