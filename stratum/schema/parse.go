package schema

import (
	"fmt"
	"strconv"
	"strings"
)

// Parse parses the external schema string grammar (§6):
//
//	name:type[:opt=val]...[,name:type[:opt=val]...]...
//
// Attributes are separated by ',' and a single attribute is accepted;
// options follow the type, each introduced by ':'.
// Recognized options: index=(true|false), cardinality=(high|unknown|low),
// srid=<int> (geometry only), default=(true|false).
func Parse(s string) (*Descriptor, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("%w: empty schema string", ErrInvalidSchema)
	}

	fields := splitTopLevel(s, ',')
	desc := &Descriptor{Attributes: make([]AttributeDescriptor, 0, len(fields))}

	for _, field := range fields {
		attr, err := parseAttribute(field)
		if err != nil {
			return nil, err
		}
		desc.Attributes = append(desc.Attributes, attr)
	}

	if err := desc.Validate(); err != nil {
		return nil, err
	}
	return desc, nil
}

// splitTopLevel splits on sep but never inside a [...] option group, since
// option groups may themselves enumerate comma-separated values in future
// extensions of the grammar.
func splitTopLevel(s string, sep byte) []string {
	var parts []string
	depth := 0
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '[':
			depth++
		case ']':
			if depth > 0 {
				depth--
			}
		default:
			if s[i] == sep && depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	parts = append(parts, s[start:])
	return parts
}

func parseAttribute(field string) (AttributeDescriptor, error) {
	parts := strings.Split(field, ":")
	if len(parts) < 2 {
		return AttributeDescriptor{}, fmt.Errorf("%w: attribute %q missing name:type", ErrInvalidSchema, field)
	}

	name := strings.TrimSpace(parts[0])
	if name == "" {
		return AttributeDescriptor{}, fmt.Errorf("%w: empty attribute name in %q", ErrInvalidSchema, field)
	}

	typ, err := parseType(strings.TrimSpace(parts[1]))
	if err != nil {
		return AttributeDescriptor{}, fmt.Errorf("%w: attribute %q: %v", ErrInvalidSchema, name, err)
	}

	attr := AttributeDescriptor{Name: name, Type: typ}

	for _, opt := range parts[2:] {
		if err := applyOption(&attr, strings.TrimSpace(opt)); err != nil {
			return AttributeDescriptor{}, fmt.Errorf("%w: attribute %q: %v", ErrInvalidSchema, name, err)
		}
	}

	return attr, nil
}

func parseType(s string) (SemanticType, error) {
	switch strings.ToLower(s) {
	case "int":
		return TypeInt, nil
	case "long":
		return TypeLong, nil
	case "float":
		return TypeFloat, nil
	case "double":
		return TypeDouble, nil
	case "bool", "boolean":
		return TypeBool, nil
	case "string":
		return TypeString, nil
	case "uuid":
		return TypeUUID, nil
	case "date":
		return TypeDate, nil
	case "point":
		return TypePoint, nil
	case "linestring":
		return TypeLineString, nil
	case "polygon":
		return TypePolygon, nil
	case "geometry":
		return TypeGeometry, nil
	default:
		return 0, fmt.Errorf("unrecognized type %q", s)
	}
}

func applyOption(attr *AttributeDescriptor, opt string) error {
	if opt == "" {
		return nil
	}
	kv := strings.SplitN(opt, "=", 2)
	if len(kv) != 2 {
		return fmt.Errorf("malformed option %q", opt)
	}
	key := strings.ToLower(strings.TrimSpace(kv[0]))
	val := strings.TrimSpace(kv[1])

	switch key {
	case "index":
		b, err := strconv.ParseBool(val)
		if err != nil {
			return fmt.Errorf("option index: %v", err)
		}
		attr.Indexed = b
	case "cardinality":
		switch strings.ToLower(val) {
		case "high":
			attr.Cardinality = High
		case "low":
			attr.Cardinality = Low
		case "unknown":
			attr.Cardinality = Unknown
		default:
			return fmt.Errorf("unrecognized cardinality %q", val)
		}
	case "srid":
		if !attr.Type.IsGeometry() {
			return fmt.Errorf("srid option only valid on geometry attributes")
		}
		n, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("option srid: %v", err)
		}
		attr.SRID = n
	case "default":
		b, err := strconv.ParseBool(val)
		if err != nil {
			return fmt.Errorf("option default: %v", err)
		}
		if attr.Type.IsGeometry() {
			attr.DefaultGeom = b
		} else if attr.Type == TypeDate {
			attr.DefaultDate = b
		} else {
			return fmt.Errorf("default option only valid on geometry or date attributes")
		}
	default:
		return fmt.Errorf("unrecognized option %q", key)
	}
	return nil
}
