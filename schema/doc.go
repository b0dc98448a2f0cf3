// Package schema builds the relational mapping of Go entity types.
//
// A mapping is derived once per type from three sources, merged in order of
// increasing precedence:
//
//   - conventions: column = property name, key = Id or {Type}Id;
//   - declarative markers: the relmap struct tag, TableName/SchemaName
//     methods and the embedded ReadOnly and KeyLess markers;
//   - fluent overrides: the EntityConfig builder API, or a YAML file
//     applied through Registry.Apply.
//
// # Quick Start
//
//	type Customer struct {
//	    ID   int64
//	    Name string `relmap:"customer_name,required,maxlen=100"`
//	}
//
//	type Order struct {
//	    OrderID    int64
//	    CustomerID int64 `relmap:",fk=Customer,nav=Customer"`
//	    Total      float64
//	    Customer   *Customer
//	}
//
//	func (Order) TableName() string { return "orders" }
//
//	r := schema.NewRegistry()
//	r.Register(Customer{})
//	schema.Configure[Order](r).Schema("sales")
//
//	m, err := schema.MappingOf[Order](r)
//
// # Struct Tag
//
// The first element of the relmap tag is the column name (empty keeps the
// default). Options follow, comma separated:
//
//	pk              primary key member, in declaration order
//	altkey          alternate key member
//	required        value required on write
//	maxlen=N        maximum length
//	identity        generated by the database on insert
//	computed        computed by the database
//	sequence=NAME   filled from the named sequence on insert
//	nogen           explicitly not generated
//	readonly        never written
//	fk=Type         scalar foreign key to the registered entity Type
//	nav=Field       navigation field of the foreign key above
//
// On a navigation field (a struct or pointer to struct), fk=Field names the
// scalar foreign-key property instead. A tag of "-" skips the field.
//
// # Concurrency
//
// Configure a Registry before the first call to Mapping. After that, every
// mapping is built exactly once and shared read-only; Registry methods are
// safe for concurrent use.
package schema
