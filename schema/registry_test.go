package schema

import (
	"context"
	"log/slog"
	"reflect"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/syssam/relmap"
)

type Customer struct {
	ID      int64
	Name    string `relmap:"customer_name,required,maxlen=100"`
	Email   *string
	Created time.Time `relmap:",computed"`
	Orders  []Order
}

type Order struct {
	OrderID    int64
	CustomerID int64 `relmap:",fk=Customer,nav=Customer"`
	Reference  uuid.UUID
	Total      float64
	Paid       bool
	Customer   *Customer
	internal   string
}

func (Order) TableName() string  { return "orders" }
func (Order) SchemaName() string { return "sales" }

type Audit struct {
	CreatedBy string
	UpdatedAt *time.Time `relmap:"updated_at"`
}

type Invoice struct {
	Audit
	Number int64  `relmap:",pk,nogen"`
	Amount int64
	Note   string `relmap:"-"`
}

type TenantCode struct {
	KeyLess
	Tenant int64  `relmap:",altkey"`
	Code   string `relmap:",altkey"`
	Label  string
}

type Membership struct {
	Tenant int64  `relmap:",altkey"`
	User   string `relmap:",altkey"`
	Role   string
}

type Country struct {
	Id   string
	Name string
}

type OrderSummary struct {
	ReadOnly
	CustomerID int64
	Total      float64
}

type Ticket struct {
	Number   int64  `relmap:",pk,sequence=ticket_seq"`
	Title    string `relmap:",maxlen=200"`
	Revision int64  `relmap:",readonly"`
}

type Employee struct {
	EmployeeID int64
	ManagerID  *int64 `relmap:",fk=Employee"`
	Name       string
}

type Shipment struct {
	ID         int64
	Carrier    *Carrier `relmap:",fk=CarrierRef"`
	CarrierRef int64
}

type Carrier struct {
	Code string `relmap:",pk"`
	Name string
}

type NoProps struct {
	Children []Order
}

type NoKey struct {
	Name string
}

func TestMappingConventions(t *testing.T) {
	r := NewRegistry()
	m, err := MappingOf[Customer](r)
	require.NoError(t, err)
	assert.Equal(t, "Customer", m.Name)
	assert.Equal(t, "Customer", m.Table)
	assert.Empty(t, m.Schema)
	assert.Equal(t, []string{"ID", "Name", "Email", "Created"}, propertyNames(m.Properties))
	require.Len(t, m.Keys, 1)
	id := m.Keys[0]
	assert.Equal(t, "ID", id.Name)
	assert.Equal(t, GenerationIdentity, id.Generation, "conventional integer key defaults to identity")
	assert.True(t, id.IsGenerated())

	name, ok := m.Property("name")
	require.True(t, ok)
	assert.Equal(t, "customer_name", name.Column)
	assert.True(t, name.Required)
	require.NotNil(t, name.MaxLength)
	assert.Equal(t, 100, *name.MaxLength)

	email, ok := m.Property("Email")
	require.True(t, ok)
	assert.True(t, email.Nullable())
	assert.True(t, email.IsString())

	created, _ := m.Property("Created")
	assert.Equal(t, GenerationComputed, created.Generation)
	assert.True(t, created.IsGenerated())
}

func TestMappingTableAndForeignKey(t *testing.T) {
	r := NewRegistry()
	r.Register(Customer{})
	m, err := r.MappingFor(&Order{})
	require.NoError(t, err)
	assert.Equal(t, "orders", m.Table)
	assert.Equal(t, "sales", m.Schema)
	assert.Equal(t, []string{"OrderID", "CustomerID", "Reference", "Total", "Paid"}, propertyNames(m.Properties))
	require.Len(t, m.Keys, 1)
	assert.Equal(t, "OrderID", m.Keys[0].Name)

	require.Len(t, m.ForeignKeys, 1)
	fk := m.ForeignKeys[0]
	assert.Equal(t, "Customer", fk.Navigation)
	assert.Equal(t, "CustomerID", fk.Property.Name)
	assert.Equal(t, reflect.TypeFor[Customer](), fk.Principal)
	assert.Equal(t, "Customer", fk.PrincipalName)
	assert.Equal(t, "CustomerID", fk.Column)
	assert.Equal(t, "ID", fk.PrincipalKeyColumn)
	assert.Equal(t, "Customer", fk.PrincipalTable)
	assert.Empty(t, fk.PrincipalSchema)

	o := Order{OrderID: 7, Total: 9.5}
	v, err := m.Value(&o, "Total")
	require.NoError(t, err)
	assert.Equal(t, 9.5, v)
	values, err := m.Values(o, m.Keys)
	require.NoError(t, err)
	assert.Equal(t, []any{int64(7)}, values)
}

func TestMappingIdempotent(t *testing.T) {
	build := func() *EntityMapping {
		r := NewRegistry()
		r.Register(Customer{})
		m, err := MappingOf[Order](r)
		require.NoError(t, err)
		return m
	}
	assert.Equal(t, build(), build())

	r := NewRegistry()
	m1, err := MappingOf[Customer](r)
	require.NoError(t, err)
	m2, err := r.Mapping(reflect.TypeFor[*Customer]())
	require.NoError(t, err)
	assert.Same(t, m1, m2)
}

func TestMappingEmbedded(t *testing.T) {
	m, err := MappingOf[Invoice](NewRegistry())
	require.NoError(t, err)
	assert.Equal(t, []string{"CreatedBy", "UpdatedAt", "Number", "Amount"}, propertyNames(m.Properties))
	updated, _ := m.Property("UpdatedAt")
	assert.Equal(t, "updated_at", updated.Column)
	assert.Equal(t, []int{0, 1}, updated.Index)
	require.Len(t, m.Keys, 1)
	assert.Equal(t, GenerationNone, m.Keys[0].Generation, "nogen disables the identity default")

	v, err := updated.Value(Invoice{})
	require.NoError(t, err)
	assert.Nil(t, v)
	by, _ := m.Property("CreatedBy")
	v, err = by.Value(&Invoice{Audit: Audit{CreatedBy: "ops"}})
	require.NoError(t, err)
	assert.Equal(t, "ops", v)
}

func TestMappingDominantFields(t *testing.T) {
	type A struct{ Name, Left string }
	type B struct{ Name, Right string }
	type Both struct {
		A
		B
		ID int64
	}
	type Shadow struct {
		A
		ID   int64
		Name string `relmap:"label"`
	}
	m, err := MappingOf[Both](NewRegistry())
	require.NoError(t, err)
	assert.Equal(t, []string{"Left", "Right", "ID"}, propertyNames(m.Properties))

	m, err = MappingOf[Shadow](NewRegistry())
	require.NoError(t, err)
	assert.Equal(t, []string{"Left", "ID", "Name"}, propertyNames(m.Properties))
	name, _ := m.Property("Name")
	assert.Equal(t, "label", name.Column)
	assert.Equal(t, []int{2}, name.Index)
}

func TestMappingAlternateKey(t *testing.T) {
	m, err := MappingOf[TenantCode](NewRegistry())
	require.NoError(t, err)
	assert.True(t, m.KeyLess)
	assert.Empty(t, m.Keys)
	assert.Equal(t, []string{"Tenant", "Code"}, propertyNames(m.AlternateKeys))
	assert.Equal(t, m.AlternateKeys, m.KeyProperties())
	assert.False(t, m.CanMutate())
	for _, p := range m.AlternateKeys {
		assert.Equal(t, GenerationNone, p.Generation)
	}

	m, err = MappingOf[Membership](NewRegistry())
	require.NoError(t, err)
	assert.False(t, m.KeyLess)
	assert.Empty(t, m.Keys)
	assert.Equal(t, []string{"Tenant", "User"}, propertyNames(m.KeyProperties()))
	assert.True(t, m.CanMutate())
	assert.Empty(t, m.MutationBlocker())
	role, _ := m.Property("Role")
	assert.False(t, m.IsKey(role))
}

func TestMappingMutationBlocker(t *testing.T) {
	tests := []struct {
		name string
		m    *EntityMapping
		want string
	}{
		{name: "PrimaryKey", m: &EntityMapping{Keys: []*PropertyMapping{{Name: "ID"}}}},
		{name: "AlternateKey", m: &EntityMapping{AlternateKeys: []*PropertyMapping{{Name: "Code"}}}},
		{name: "ReadOnly", m: &EntityMapping{ReadOnly: true, Keys: []*PropertyMapping{{Name: "ID"}}}, want: "entity is read-only"},
		{name: "KeyLess", m: &EntityMapping{KeyLess: true, AlternateKeys: []*PropertyMapping{{Name: "Code"}}}, want: "entity is key-less"},
		{name: "NoKey", m: &EntityMapping{}, want: "entity has no key"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.m.MutationBlocker())
			assert.Equal(t, tt.want == "", tt.m.CanMutate())
		})
	}
}

func TestMappingReadOnly(t *testing.T) {
	m, err := MappingOf[OrderSummary](NewRegistry())
	require.NoError(t, err)
	assert.True(t, m.ReadOnly)
	assert.Empty(t, m.Keys)
	assert.False(t, m.CanMutate())

	r := NewRegistry()
	Configure[Customer](r).ReadOnly()
	m, err = MappingOf[Customer](r)
	require.NoError(t, err)
	assert.True(t, m.ReadOnly)
	assert.False(t, m.CanMutate())
}

func TestMappingGeneration(t *testing.T) {
	m, err := MappingOf[Ticket](NewRegistry())
	require.NoError(t, err)
	number := m.Keys[0]
	assert.Equal(t, GenerationSequence, number.Generation)
	assert.Equal(t, "ticket_seq", number.Sequence)
	assert.True(t, number.IsSequence())
	rev, _ := m.Property("Revision")
	assert.True(t, rev.ReadOnly)
	assert.True(t, rev.IsGenerated())
	title, _ := m.Property("Title")
	assert.False(t, title.IsGenerated())

	r := NewRegistry(WithConventionalIdentity(false))
	m, err = MappingOf[Customer](r)
	require.NoError(t, err)
	assert.Equal(t, GenerationNone, m.Keys[0].Generation)

	r = NewRegistry()
	Configure[Customer](r).Property("ID").Generation(GenerationNone)
	m, err = MappingOf[Customer](r)
	require.NoError(t, err)
	assert.False(t, m.Keys[0].IsGenerated())

	m, err = MappingOf[Country](NewRegistry())
	require.NoError(t, err)
	require.Len(t, m.Keys, 1)
	assert.Equal(t, "Id", m.Keys[0].Name)
	assert.Equal(t, GenerationNone, m.Keys[0].Generation, "conventional identity applies to integer keys only")
}

func TestMappingFluentOverrides(t *testing.T) {
	r := NewRegistry(WithColumnNaming(SnakeCase), WithTableNaming(PluralSnakeCase))
	c := Configure[Customer](r).Schema("crm")
	c.Property("Name").Column("full_name").MaxLength(50)
	c.Property("Email").Required(true).Column("mail")
	c.Property("Created").Ignore()
	c.AlternateKey("Email")
	m, err := MappingOf[Customer](r)
	require.NoError(t, err)
	assert.Equal(t, "customers", m.Table)
	assert.Equal(t, "crm", m.Schema)
	assert.Equal(t, []string{"ID", "Name", "Email"}, propertyNames(m.Properties))

	name, _ := m.Property("Name")
	assert.Equal(t, "full_name", name.Column)
	assert.True(t, name.Required, "marker values merge with fluent ones")
	assert.Equal(t, 50, *name.MaxLength)
	email, _ := m.Property("Email")
	assert.Equal(t, "mail", email.Column)
	assert.True(t, email.Required)
	id, _ := m.Property("ID")
	assert.Equal(t, "id", id.Column)
	assert.Equal(t, []string{"Email"}, propertyNames(m.AlternateKeys))

	r = NewRegistry()
	Configure[Order](r).Table("order_rows").Key("Reference", "OrderID")
	Configure[Customer](r)
	m, err = MappingOf[Order](r)
	require.NoError(t, err)
	assert.Equal(t, "order_rows", m.Table)
	assert.Equal(t, []string{"Reference", "OrderID"}, propertyNames(m.Keys))
	for _, k := range m.Keys {
		assert.Equal(t, GenerationNone, k.Generation, "composite keys are never identity by default")
	}
}

func TestMappingForeignKeys(t *testing.T) {
	t.Run("SelfReference", func(t *testing.T) {
		m, err := MappingOf[Employee](NewRegistry())
		require.NoError(t, err)
		require.Len(t, m.ForeignKeys, 1)
		fk := m.ForeignKeys[0]
		assert.Equal(t, "ManagerID", fk.Column)
		assert.Equal(t, "EmployeeID", fk.PrincipalKeyColumn)
		assert.Equal(t, "Employee", fk.PrincipalTable)
	})
	t.Run("NavigationSide", func(t *testing.T) {
		m, err := MappingOf[Shipment](NewRegistry())
		require.NoError(t, err)
		require.Len(t, m.ForeignKeys, 1)
		fk := m.ForeignKeys[0]
		assert.Equal(t, "Carrier", fk.Navigation)
		assert.Equal(t, "CarrierRef", fk.Column)
		assert.Equal(t, "Code", fk.PrincipalKeyColumn)
	})
	t.Run("Fluent", func(t *testing.T) {
		r := NewRegistry()
		Configure[Order](r).ForeignKey("CustomerID", reflect.TypeFor[Customer]()).Navigation("Customer")
		Configure[Invoice](r).ForeignKey("Amount", &Order{})
		m, err := MappingOf[Order](r)
		require.NoError(t, err)
		require.Len(t, m.ForeignKeys, 1)
		assert.Equal(t, "Customer", m.ForeignKeys[0].Navigation)
		m, err = MappingOf[Invoice](r)
		require.NoError(t, err)
		require.Len(t, m.ForeignKeys, 1)
		assert.Equal(t, "orders", m.ForeignKeys[0].PrincipalTable)
		assert.Equal(t, "sales", m.ForeignKeys[0].PrincipalSchema)
		assert.Equal(t, "OrderID", m.ForeignKeys[0].PrincipalKeyColumn)
	})
	t.Run("NavigationPrincipal", func(t *testing.T) {
		m, err := MappingOf[Order](NewRegistry())
		require.NoError(t, err, "the navigation type names an unregistered principal")
		require.Len(t, m.ForeignKeys, 1)
		assert.Equal(t, "Customer", m.ForeignKeys[0].PrincipalTable)
	})
	t.Run("UnknownPrincipal", func(t *testing.T) {
		r := NewRegistry()
		Configure[Invoice](r).ForeignKey("Amount", "Vendor")
		_, err := MappingOf[Invoice](r)
		require.Error(t, err)
		assert.True(t, relmap.IsMappingError(err))
		assert.Contains(t, err.Error(), "entity Invoice")
		assert.Contains(t, err.Error(), "principal Vendor")
	})
	t.Run("CompositePrincipal", func(t *testing.T) {
		r := NewRegistry()
		Configure[Customer](r).Key("ID", "Name")
		_, err := MappingOf[Order](r)
		require.ErrorIs(t, err, relmap.ErrMapping)
		assert.Contains(t, err.Error(), "composite")
		assert.Contains(t, err.Error(), "principal Customer")
	})
	t.Run("MissingNavigation", func(t *testing.T) {
		r := NewRegistry()
		Configure[Invoice](r).ForeignKey("Amount", "Order").Navigation("Buyer")
		_, err := MappingOf[Invoice](r)
		require.ErrorIs(t, err, relmap.ErrMapping)
		assert.Contains(t, err.Error(), "navigation Buyer not found")
	})
}

func TestMappingErrors(t *testing.T) {
	tests := []struct {
		name  string
		build func(*Registry) error
		want  string
	}{
		{
			name: "NoProperties",
			build: func(r *Registry) error {
				_, err := MappingOf[NoProps](r)
				return err
			},
			want: "no mappable properties",
		},
		{
			name: "NoKey",
			build: func(r *Registry) error {
				_, err := MappingOf[NoKey](r)
				return err
			},
			want: "entity has no key",
		},
		{
			name: "KeyNotFound",
			build: func(r *Registry) error {
				Configure[Customer](r).Key("Missing")
				_, err := MappingOf[Customer](r)
				return err
			},
			want: "key property not found",
		},
		{
			name: "PropertyNotFound",
			build: func(r *Registry) error {
				Configure[Customer](r).Property("Missing").Column("x")
				_, err := MappingOf[Customer](r)
				return err
			},
			want: "configured property not found",
		},
		{
			name: "KeyLessWithKey",
			build: func(r *Registry) error {
				Configure[Customer](r).KeyLess().Key("ID")
				_, err := MappingOf[Customer](r)
				return err
			},
			want: "key-less entity declares a primary key",
		},
		{
			name: "NotStruct",
			build: func(r *Registry) error {
				_, err := r.Mapping(reflect.TypeFor[int]())
				return err
			},
			want: "named struct type",
		},
		{
			name: "BadTag",
			build: func(r *Registry) error {
				type Bad struct {
					ID int64 `relmap:",shiny"`
				}
				_, err := MappingOf[Bad](r)
				return err
			},
			want: `unknown tag option "shiny"`,
		},
		{
			name: "BadMaxLen",
			build: func(r *Registry) error {
				type Bad struct {
					ID   int64
					Name string `relmap:",maxlen=x"`
				}
				_, err := MappingOf[Bad](r)
				return err
			},
			want: "invalid maxlen",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.build(NewRegistry())
			require.Error(t, err)
			assert.ErrorIs(t, err, relmap.ErrMapping)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestMappingKeyLessWithoutKeys(t *testing.T) {
	r := NewRegistry()
	Configure[NoKey](r).KeyLess()
	m, err := MappingOf[NoKey](r)
	require.NoError(t, err)
	assert.True(t, m.KeyLess)
	assert.Empty(t, m.KeyProperties())
}

// countingHandler counts build records.
type countingHandler struct {
	slog.Handler
	builds atomic.Int32
}

func (h *countingHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *countingHandler) Handle(_ context.Context, rec slog.Record) error {
	if strings.HasSuffix(rec.Message, "mapping built") {
		h.builds.Add(1)
	}
	return nil
}

func TestMappingConcurrentBuild(t *testing.T) {
	h := &countingHandler{}
	r := NewRegistry(WithLogger(slog.New(h)))
	r.Register(Customer{})
	var (
		g        errgroup.Group
		mappings = make([]*EntityMapping, 32)
	)
	for i := range mappings {
		g.Go(func() error {
			m, err := MappingOf[Order](r)
			mappings[i] = m
			return err
		})
	}
	require.NoError(t, g.Wait())
	for _, m := range mappings {
		assert.Same(t, mappings[0], m)
	}
	assert.EqualValues(t, 1, h.builds.Load())
}

func TestRegistryBuild(t *testing.T) {
	r := NewRegistry()
	r.Register(Order{})
	r.Register(&Customer{})
	r.Register(reflect.TypeFor[Order]())
	mappings, err := r.Build()
	require.NoError(t, err)
	require.Len(t, mappings, 2)
	assert.Equal(t, "Order", mappings[0].Name)
	assert.Equal(t, "Customer", mappings[1].Name)

	r.Register(NoKey{})
	_, err = r.Build()
	require.ErrorIs(t, err, relmap.ErrMapping)
}
