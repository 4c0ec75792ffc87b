package model

import (
	"strconv"
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// ErrInvalidTag is returned by ParseTag for tags that are not "<Kind>:<id>"
var ErrInvalidTag = goerr.New("invalid coverage tag")

// TagKind is the grid dimension a coverage tag points at
type TagKind string

const (
	TagKindAttribute  TagKind = "Attribute"
	TagKindComponent  TagKind = "Component"
	TagKindCapability TagKind = "Capability"
)

// Tag is a parsed "<Kind>:<id>" coverage tag
type Tag struct {
	Kind TagKind
	ID   int64
}

// ParseTag parses a coverage tag. Kind names are case sensitive and no
// whitespace is trimmed.
func ParseTag(s string) (Tag, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return Tag{}, goerr.Wrap(ErrInvalidTag, "tag must have exactly one ':'", goerr.V("tag", s))
	}

	kind := TagKind(parts[0])
	switch kind {
	case TagKindAttribute, TagKindComponent, TagKindCapability:
	default:
		return Tag{}, goerr.Wrap(ErrInvalidTag, "unknown tag kind", goerr.V("tag", s), goerr.V("kind", parts[0]))
	}

	id, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return Tag{}, goerr.Wrap(ErrInvalidTag, "tag id is not numeric", goerr.V("tag", s), goerr.V("id", parts[1]))
	}

	return Tag{Kind: kind, ID: id}, nil
}

// String formats the tag back to "<Kind>:<id>"
func (t Tag) String() string {
	return string(t.Kind) + ":" + strconv.FormatInt(t.ID, 10)
}
