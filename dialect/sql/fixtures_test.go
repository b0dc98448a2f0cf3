package sql

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/syssam/relmap/schema"
)

type Product struct {
	ID          int64
	Name        string `relmap:"name,required,maxlen=80"`
	Description *string
	Price       float64
	Active      bool
	Created     time.Time `relmap:"created_at,computed"`
	SKU         uuid.UUID
}

func (Product) TableName() string { return "products" }

type Tag struct {
	schema.KeyLess
	TenantID int64  `relmap:"tenant_id,altkey"`
	Code     string `relmap:"code,altkey"`
	Label    string
}

type Membership struct {
	TenantID int64  `relmap:"tenant_id,altkey"`
	Code     string `relmap:"code,altkey"`
	Label    string
}

type ProductSummary struct {
	schema.ReadOnly
	Name  string
	Total float64
}

type Ticket struct {
	Number int64 `relmap:",pk,sequence=ticket_seq"`
	Title  string
}

type Setting struct {
	Key     string `relmap:",pk"`
	Version int64  `relmap:",computed"`
}

type Counter struct {
	ID int64
}

type OrderLine struct {
	OrderID int64 `relmap:",pk"`
	Line    int   `relmap:",pk"`
	Qty     int
}

type Note struct {
	ID     int64
	Title  string
	Body   *string
	Pinned bool
	Ref    uuid.UUID
}

// mustMapping builds the mapping of T in a fresh registry. configure, if
// set, runs before the build.
func mustMapping[T any](tb testing.TB, configure func(*schema.Registry)) *schema.EntityMapping {
	tb.Helper()
	r := schema.NewRegistry()
	if configure != nil {
		configure(r)
	}
	m, err := schema.MappingOf[T](r)
	if err != nil {
		tb.Fatal(err)
	}
	return m
}
