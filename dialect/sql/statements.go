package sql

import (
	"strings"

	"github.com/syssam/relmap"
	"github.com/syssam/relmap/dialect"
	"github.com/syssam/relmap/schema"
)

// Statement names used in generation errors.
const (
	StmtSelect = "select"
	StmtInsert = "insert"
	StmtUpdate = "update"
	StmtDelete = "delete"
)

// Statements holds the CRUD statements of one entity in one dialect. All
// texts are computed by NewStatements; the accessors only read them.
//
// Placeholders are named after the properties they bind, so one Params set
// built from an entity serves every statement:
//
//	s, err := sql.NewStatements(dialect.Postgres, m)
//	q, err := s.Update()      // UPDATE "orders" SET "Total" = @Total WHERE "ID" = @ID
//	p, err := s.UpdateValues(order)
//	query, args := sql.Bind(dialect.Postgres, q, p)
type Statements struct {
	dialect dialect.Dialect
	mapping *schema.EntityMapping

	table        string
	selectAll    string
	keyPredicate string

	selectByKey     string
	insert          string
	insertReturning string
	update          string
	deleteByKey     string

	insertParams []string
	updateParams []string
	keyParams    []string

	selectErr error
	insertErr error
	updateErr error
	deleteErr error
}

// NewStatements generates the statements of m in dialect d.
func NewStatements(d dialect.Dialect, m *schema.EntityMapping) (*Statements, error) {
	if d == nil || m == nil {
		return nil, relmap.NewGenerationError("", "", "dialect and mapping are required")
	}
	s := &Statements{
		dialect: d,
		mapping: m,
		table:   dialect.QuoteTable(d, m.Schema, m.Table),
	}
	s.genSelect()
	s.genKeyPredicate()
	s.genInsert()
	s.genUpdate()
	s.genDelete()
	return s, nil
}

// Dialect returns the dialect of the statements.
func (s *Statements) Dialect() dialect.Dialect { return s.dialect }

// Mapping returns the entity mapping of the statements.
func (s *Statements) Mapping() *schema.EntityMapping { return s.mapping }

// Table returns the quoted, schema-qualified table name.
func (s *Statements) Table() string { return s.table }

// SelectAll returns the statement reading every row. Columns are aliased to
// their property names.
func (s *Statements) SelectAll() string { return s.selectAll }

// SelectByKey returns the statement reading one row by key.
func (s *Statements) SelectByKey() (string, error) { return s.selectByKey, s.selectErr }

// Insert returns the INSERT statement.
func (s *Statements) Insert() (string, error) { return s.insert, s.insertErr }

// InsertReturningKey returns an INSERT that also yields the generated key.
// ok is false if no key column is generated or the dialect cannot return
// it from the same statement.
func (s *Statements) InsertReturningKey() (query string, ok bool) {
	return s.insertReturning, s.insertReturning != ""
}

// Update returns the UPDATE-by-key statement.
func (s *Statements) Update() (string, error) { return s.update, s.updateErr }

// DeleteByKey returns the DELETE-by-key statement.
func (s *Statements) DeleteByKey() (string, error) { return s.deleteByKey, s.deleteErr }

// KeyPredicate returns the WHERE condition shared by the by-key statements,
// or "" if the entity has no key.
func (s *Statements) KeyPredicate() string { return s.keyPredicate }

// InsertParams returns the parameter names bound by Insert, in order.
func (s *Statements) InsertParams() []string { return s.insertParams }

// UpdateParams returns the parameter names bound by Update, in order.
func (s *Statements) UpdateParams() []string { return s.updateParams }

// KeyParams returns the parameter names bound by KeyPredicate, in order.
func (s *Statements) KeyParams() []string { return s.keyParams }

// InsertValues reads the Insert parameters from entity.
func (s *Statements) InsertValues(entity any) (*Params, error) {
	return s.values(entity, s.insertParams)
}

// UpdateValues reads the Update parameters from entity.
func (s *Statements) UpdateValues(entity any) (*Params, error) {
	return s.values(entity, s.updateParams)
}

// KeyValues reads the key parameters from entity.
func (s *Statements) KeyValues(entity any) (*Params, error) {
	return s.values(entity, s.keyParams)
}

func (s *Statements) values(entity any, names []string) (*Params, error) {
	params := NewParams()
	for _, name := range names {
		v, err := s.mapping.Value(entity, name)
		if err != nil {
			return nil, err
		}
		params.Add(name, v)
	}
	return params, nil
}

func (s *Statements) genSelect() {
	d := s.dialect
	cols := make([]string, len(s.mapping.Properties))
	for i, p := range s.mapping.Properties {
		cols[i] = d.QuoteIdent(p.Column) + " AS " + d.QuoteIdent(p.Name)
	}
	s.selectAll = "SELECT " + strings.Join(cols, ", ") + " FROM " + s.table
}

func (s *Statements) genKeyPredicate() {
	keys := s.mapping.KeyProperties()
	if len(keys) == 0 {
		s.selectErr = s.errorf(StmtSelect, "entity has no key")
		return
	}
	conds := make([]string, len(keys))
	for i, p := range keys {
		conds[i] = s.dialect.QuoteIdent(p.Column) + " = " + s.dialect.Placeholder(p.Name)
		s.keyParams = append(s.keyParams, p.Name)
	}
	s.keyPredicate = strings.Join(conds, " AND ")
	s.selectByKey = s.selectAll + " WHERE " + s.keyPredicate
}

func (s *Statements) genInsert() {
	if s.insertErr = s.mutable(StmtInsert); s.insertErr != nil {
		return
	}
	d := s.dialect
	ins := dialect.Insert{Table: s.table}
	for _, p := range s.mapping.Properties {
		switch {
		case p.IsSequence():
			next, ok := d.SequenceNext(p.Sequence)
			if !ok {
				s.insertErr = s.errorf(StmtInsert, "dialect "+d.Name()+" has no sequences for property "+p.Name)
				return
			}
			ins.Columns = append(ins.Columns, d.QuoteIdent(p.Column))
			ins.Values = append(ins.Values, next)
		case !p.IsGenerated():
			ins.Columns = append(ins.Columns, d.QuoteIdent(p.Column))
			ins.Values = append(ins.Values, d.Placeholder(p.Name))
			s.insertParams = append(s.insertParams, p.Name)
		}
	}
	if len(ins.Columns) == 0 {
		s.insertErr = s.errorf(StmtInsert, "no insertable columns")
		return
	}
	s.insert = ins.String()
	var keys []string
	for _, p := range s.mapping.Keys {
		if p.IsGenerated() {
			keys = append(keys, d.QuoteIdent(p.Column))
		}
	}
	if q, ok := d.InsertReturningKey(ins, keys); ok {
		s.insertReturning = q
	}
}

func (s *Statements) genUpdate() {
	if s.updateErr = s.mutable(StmtUpdate); s.updateErr != nil {
		return
	}
	d, m := s.dialect, s.mapping
	var sets []string
	for _, p := range m.Properties {
		if m.IsKey(p) || p.IsGenerated() {
			continue
		}
		sets = append(sets, d.QuoteIdent(p.Column)+" = "+d.Placeholder(p.Name))
		s.updateParams = append(s.updateParams, p.Name)
	}
	if len(sets) == 0 {
		s.updateParams = nil
		s.updateErr = s.errorf(StmtUpdate, "no updatable columns")
		return
	}
	s.updateParams = append(s.updateParams, s.keyParams...)
	s.update = "UPDATE " + s.table + " SET " + strings.Join(sets, ", ") + " WHERE " + s.keyPredicate
}

func (s *Statements) genDelete() {
	if s.deleteErr = s.mutable(StmtDelete); s.deleteErr != nil {
		return
	}
	s.deleteByKey = "DELETE FROM " + s.table + " WHERE " + s.keyPredicate
}

// mutable reports why the entity cannot be written, if it cannot.
func (s *Statements) mutable(stmt string) error {
	if msg := s.mapping.MutationBlocker(); msg != "" {
		return s.errorf(stmt, msg)
	}
	return nil
}

func (s *Statements) errorf(stmt, msg string) error {
	return relmap.NewGenerationError(s.mapping.Name, stmt, msg)
}
