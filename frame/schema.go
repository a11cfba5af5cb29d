package frame

import (
	"strings"

	"github.com/c360studio/semframe/owl"
)

// Tag is a frame keyword.
type Tag string

// Frame tags.
const (
	TagName           Tag = "name"
	TagSubclass       Tag = "subclass"
	TagEquivalent     Tag = "equivalent"
	TagDisjoint       Tag = "disjoint"
	TagSuperproperty  Tag = "superproperty"
	TagDomain         Tag = "domain"
	TagRange          Tag = "range"
	TagInverse        Tag = "inverse"
	TagCharacteristic Tag = "characteristic"
	TagType           Tag = "type"
	TagFact           Tag = "fact"
	TagSame           Tag = "same"
	TagDifferent      Tag = "different"
	TagAnnotation     Tag = "annotation"
	TagComment        Tag = "comment"
	TagLabel          Tag = "label"
)

// Order is the fixed order in which tags are compiled.
var Order = []Tag{
	TagName,
	TagSubclass,
	TagEquivalent,
	TagDisjoint,
	TagSuperproperty,
	TagDomain,
	TagRange,
	TagInverse,
	TagCharacteristic,
	TagType,
	TagFact,
	TagSame,
	TagDifferent,
	TagAnnotation,
	TagComment,
	TagLabel,
}

var aliases = map[string]Tag{
	"inverseof":       TagInverse,
	"subclassof":      TagSubclass,
	"superclass":      TagSubclass,
	"subpropertyof":   TagSuperproperty,
	"characteristics": TagCharacteristic,
	"sameas":          TagSame,
}

// ParseTag normalizes a keyword such as ":inverse-of" into a Tag. Unknown
// keywords come back as-is so that compilation can report them.
func ParseTag(s string) Tag {
	s = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ":"))
	key := strings.NewReplacer("-", "", "_", "").Replace(s)
	if t, ok := aliases[key]; ok {
		return t
	}
	return Tag(s)
}

var schemas = map[owl.Kind][]Tag{
	owl.KindClass: {
		TagName, TagSubclass, TagEquivalent, TagDisjoint,
		TagAnnotation, TagComment, TagLabel,
	},
	owl.KindObjectProperty: {
		TagName, TagSuperproperty, TagEquivalent, TagDisjoint, TagDomain, TagRange,
		TagInverse, TagCharacteristic, TagAnnotation, TagComment, TagLabel,
	},
	owl.KindAnnotationProperty: {
		TagName, TagSuperproperty, TagAnnotation, TagComment, TagLabel,
	},
	owl.KindIndividual: {
		TagName, TagType, TagFact, TagSame, TagDifferent,
		TagAnnotation, TagComment, TagLabel,
	},
}

// SchemaFor lists the tags recognized for kind, in compile order.
func SchemaFor(kind owl.Kind) []Tag {
	allowed := schemas[kind]
	out := make([]Tag, 0, len(allowed))
	for _, t := range Order {
		if Allowed(kind, t) {
			out = append(out, t)
		}
	}
	return out
}

// Allowed reports whether tag is in the schema for kind.
func Allowed(kind owl.Kind, tag Tag) bool {
	for _, t := range schemas[kind] {
		if t == tag {
			return true
		}
	}
	return false
}
