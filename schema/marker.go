package schema

import (
	"database/sql"
	"database/sql/driver"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/structtag"

	"github.com/syssam/relmap"
)

// TagName is the struct tag key read by the registry.
const TagName = "relmap"

// ReadOnly marks an entity as read-only when embedded:
//
//	type OrderSummary struct {
//	    schema.ReadOnly
//	    CustomerID int64
//	    Total      float64
//	}
type ReadOnly struct{}

// KeyLess marks an entity without a primary key when embedded. Such an
// entity is addressed by its alternate key, if it declares one.
type KeyLess struct{}

// TableNamer is implemented by entities that name their table.
type TableNamer interface {
	TableName() string
}

// SchemaNamer is implemented by entities that name their database schema.
type SchemaNamer interface {
	SchemaName() string
}

var (
	readOnlyType = reflect.TypeFor[ReadOnly]()
	keyLessType  = reflect.TypeFor[KeyLess]()
	timeType     = reflect.TypeFor[time.Time]()
	valuerType   = reflect.TypeFor[driver.Valuer]()
	scannerType  = reflect.TypeFor[sql.Scanner]()
)

// marker holds the parsed relmap tag of one field.
type marker struct {
	ignore     bool
	column     string
	key        bool
	altKey     bool
	required   bool
	readOnly   bool
	maxLength  *int
	generation *GenerationKind
	sequence   string
	fk         string
	nav        string
}

// parseMarker reads the relmap tag of f. A missing tag yields the zero
// marker.
func parseMarker(entity string, f reflect.StructField) (marker, error) {
	var mk marker
	raw, ok := f.Tag.Lookup(TagName)
	if !ok {
		return mk, nil
	}
	if raw == "-" {
		mk.ignore = true
		return mk, nil
	}
	tags, err := structtag.Parse(string(f.Tag))
	if err != nil || tags == nil {
		return mk, &relmap.MappingError{Entity: entity, Property: f.Name, Message: "malformed struct tag", Cause: err}
	}
	tag, err := tags.Get(TagName)
	if err != nil {
		return mk, &relmap.MappingError{Entity: entity, Property: f.Name, Message: "malformed struct tag", Cause: err}
	}
	mk.column = tag.Name
	for _, opt := range tag.Options {
		name, value, _ := strings.Cut(strings.TrimSpace(opt), "=")
		switch name {
		case "pk", "key":
			mk.key = true
		case "altkey":
			mk.altKey = true
		case "required":
			mk.required = true
		case "readonly":
			mk.readOnly = true
		case "maxlen":
			n, err := strconv.Atoi(value)
			if err != nil || n < 0 {
				return mk, relmap.NewMappingError(entity, f.Name, "invalid maxlen "+strconv.Quote(value))
			}
			mk.maxLength = &n
		case "identity":
			mk.setGeneration(GenerationIdentity)
		case "computed":
			mk.setGeneration(GenerationComputed)
		case "nogen":
			mk.setGeneration(GenerationNone)
		case "sequence":
			if value == "" {
				return mk, relmap.NewMappingError(entity, f.Name, "sequence option requires a name")
			}
			mk.setGeneration(GenerationSequence)
			mk.sequence = value
		case "fk":
			if value == "" {
				return mk, relmap.NewMappingError(entity, f.Name, "fk option requires a name")
			}
			mk.fk = value
		case "nav":
			mk.nav = value
		case "":
		default:
			return mk, relmap.NewMappingError(entity, f.Name, "unknown tag option "+strconv.Quote(name))
		}
	}
	return mk, nil
}

func (mk *marker) setGeneration(k GenerationKind) {
	mk.generation = &k
}

// isScalar reports whether values of t map to a single column: primitives,
// strings, byte sequences, time values, driver.Valuer implementations
// (decimals, UUIDs, sql.Null*), enums over those kinds and pointers to any
// of them.
func isScalar(t reflect.Type) bool {
	if t.Implements(valuerType) || reflect.PointerTo(t).Implements(scannerType) {
		return true
	}
	switch t.Kind() {
	case reflect.Pointer:
		return isScalar(t.Elem())
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	case reflect.Slice, reflect.Array:
		return t.Elem().Kind() == reflect.Uint8
	case reflect.Struct:
		return t == timeType
	default:
		return false
	}
}

// isInteger reports whether t is an integer type, possibly behind a pointer.
func isInteger(t reflect.Type) bool {
	switch indirect(t).Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	default:
		return false
	}
}
