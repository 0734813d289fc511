// Package cardinality implements the Cardinality Oracle (§4.3): a pure
// function from a schema attribute to its declared selectivity class.
package cardinality

import "github.com/stratumdb/stratum/stratum/schema"

// Of returns the cardinality hint attached to an attribute descriptor.
// Default is schema.Unknown when the descriptor carries no hint — this
// mirrors the zero value of schema.Cardinality, so Of never needs to guess.
func Of(attr *schema.AttributeDescriptor) schema.Cardinality {
	if attr == nil {
		return schema.Unknown
	}
	return attr.Cardinality
}

// OfName looks up an attribute by name in the schema and returns its
// cardinality, or schema.Unknown if the attribute doesn't exist.
func OfName(desc *schema.Descriptor, name string) schema.Cardinality {
	attr, ok := desc.ByName(name)
	if !ok {
		return schema.Unknown
	}
	return Of(attr)
}
