package matchdoc

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/lyoubo/reextractor/internal/model"
)

var (
	// ErrUnknownReference is returned when a document refers to an entity or
	// statement ID it does not declare.
	ErrUnknownReference = errors.New("unknown reference")

	// ErrDuplicateID is returned when two entities or two statements share
	// an ID.
	ErrDuplicateID = errors.New("duplicate id")

	// ErrMissingID is returned when an entity or statement has no ID.
	ErrMissingID = errors.New("missing id")
)

// Load reads and resolves a match-pair document from a YAML or JSON file.
func Load(path string) (*model.MatchPair, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening match document: %w", err)
	}
	defer f.Close()

	mp, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return mp, nil
}

// Decode reads one document and resolves every reference into a MatchPair.
func Decode(r io.Reader) (*model.MatchPair, error) {
	var doc Document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return &model.MatchPair{}, nil
		}
		return nil, fmt.Errorf("parsing match document: %w", err)
	}
	return doc.Resolve()
}

// resolver turns IDs into shared pointers.
type resolver struct {
	entities   map[string]*model.Entity
	statements map[string]*model.Statement
}

// Resolve converts the document into a MatchPair. Every entity and
// statement becomes exactly one value shared by all references to it.
func (d *Document) Resolve() (*model.MatchPair, error) {
	res := &resolver{
		entities:   make(map[string]*model.Entity, len(d.Entities)),
		statements: make(map[string]*model.Statement, len(d.Statements)),
	}
	if err := res.declareEntities(d.Entities); err != nil {
		return nil, err
	}
	if err := res.linkEntities(d.Entities); err != nil {
		return nil, err
	}
	if err := res.declareStatements(d.Statements); err != nil {
		return nil, err
	}
	if err := res.linkStatements(d.Statements); err != nil {
		return nil, err
	}

	mp := &model.MatchPair{CommitID: d.Commit}
	var err error
	if mp.MatchedEntities, err = res.entityPairs(d.MatchedEntities); err != nil {
		return nil, fmt.Errorf("matched_entities: %w", err)
	}
	if mp.Extracted, err = res.entityList(d.Extracted); err != nil {
		return nil, fmt.Errorf("extracted: %w", err)
	}
	if mp.Inlined, err = res.entityList(d.Inlined); err != nil {
		return nil, fmt.Errorf("inlined: %w", err)
	}
	if mp.Added, err = res.entityList(d.Added); err != nil {
		return nil, fmt.Errorf("added: %w", err)
	}
	if mp.MatchedStatements, err = res.statementPairs(d.MatchedStatements); err != nil {
		return nil, fmt.Errorf("matched_statements: %w", err)
	}
	if mp.AddedStatements, err = res.statementList(d.AddedStatements); err != nil {
		return nil, fmt.Errorf("added_statements: %w", err)
	}
	if mp.DeletedStatements, err = res.statementList(d.DeletedStatements); err != nil {
		return nil, fmt.Errorf("deleted_statements: %w", err)
	}
	return mp, nil
}

func (res *resolver) declareEntities(entities []Entity) error {
	for _, e := range entities {
		if e.ID == "" {
			return fmt.Errorf("entity %q: %w", e.Name, ErrMissingID)
		}
		if _, ok := res.entities[e.ID]; ok {
			return fmt.Errorf("entity %q: %w", e.ID, ErrDuplicateID)
		}
		entity := &model.Entity{
			ID:               e.ID,
			Kind:             e.Kind,
			Namespace:        e.Namespace,
			Name:             e.Name,
			File:             e.File,
			Range:            e.Range,
			Text:             e.Text,
			Modifiers:        e.Modifiers,
			Annotations:      e.Annotations,
			QualifiedName:    e.QualifiedName,
			Superclass:       e.Superclass,
			Interfaces:       e.Interfaces,
			Resolved:         e.Resolved,
			Constructor:      e.Constructor,
			ReturnType:       e.ReturnType,
			ThrownExceptions: e.ThrownExceptions,
			Body:             e.Body,
			MatchedNodes:     e.MatchedNodes,
			UnmatchedNodes:   e.UnmatchedNodes,
			Type:             e.Type,
		}
		for _, p := range e.Parameters {
			entity.Parameters = append(entity.Parameters, &model.Parameter{
				Name:        p.Name,
				Type:        p.Type,
				Varargs:     p.Varargs,
				Final:       p.Final,
				Annotations: p.Annotations,
				File:        e.File,
				Range:       p.Range,
				Text:        p.Text,
			})
		}
		res.entities[e.ID] = entity
	}
	return nil
}

func (res *resolver) linkEntities(entities []Entity) error {
	for _, e := range entities {
		entity := res.entities[e.ID]
		if e.Parent != "" {
			parent, err := res.entity(e.Parent)
			if err != nil {
				return fmt.Errorf("parent of entity %q: %w", e.ID, err)
			}
			entity.Parent = parent
		}
		for _, id := range e.Dependencies {
			dep, err := res.entity(id)
			if err != nil {
				return fmt.Errorf("dependency of entity %q: %w", e.ID, err)
			}
			entity.Dependencies = append(entity.Dependencies, dep)
		}
	}
	return nil
}

func (res *resolver) declareStatements(statements []Statement) error {
	for _, s := range statements {
		if s.ID == "" {
			return fmt.Errorf("statement %q: %w", s.Text, ErrMissingID)
		}
		if _, ok := res.statements[s.ID]; ok {
			return fmt.Errorf("statement %q: %w", s.ID, ErrDuplicateID)
		}
		stmt := &model.Statement{
			ID:               s.ID,
			Kind:             s.Kind,
			Text:             s.Text,
			Role:             s.Role,
			File:             s.File,
			Range:            s.Range,
			Expression:       s.Expression,
			AnonymousClasses: s.AnonymousClasses,
			Lambdas:          s.Lambdas,
		}
		for _, v := range s.Variables {
			stmt.Variables = append(stmt.Variables, &model.Variable{
				Name:        v.Name,
				Type:        v.Type,
				Initializer: v.Initializer,
				Final:       v.Final,
				Annotations: v.Annotations,
				Range:       v.Range,
				Text:        v.Text,
			})
		}
		res.statements[s.ID] = stmt
	}
	return nil
}

// linkStatements attaches parents, children and owning methods. Children
// keep document order; depth, method and file flow down from each root.
func (res *resolver) linkStatements(statements []Statement) error {
	for _, s := range statements {
		stmt := res.statements[s.ID]
		if s.Method != "" {
			m, err := res.entity(s.Method)
			if err != nil {
				return fmt.Errorf("method of statement %q: %w", s.ID, err)
			}
			stmt.Method = m
			if stmt.File == "" {
				stmt.File = m.File
			}
		}
		if s.Parent == "" {
			continue
		}
		parent, err := res.statement(s.Parent)
		if err != nil {
			return fmt.Errorf("parent of statement %q: %w", s.ID, err)
		}
		if parent == stmt {
			return fmt.Errorf("statement %q is its own parent: %w", s.ID, ErrUnknownReference)
		}
		stmt.Parent = parent
		stmt.Index = len(parent.Children)
		parent.Children = append(parent.Children, stmt)
	}

	for _, s := range statements {
		if root := res.statements[s.ID]; root.Parent == nil {
			inherit(root)
		}
	}
	return nil
}

// inherit propagates depth, owning method and file to every descendant.
func inherit(s *model.Statement) {
	for _, c := range s.Children {
		c.Depth = s.Depth + 1
		if c.Method == nil {
			c.Method = s.Method
		}
		if c.File == "" {
			c.File = s.File
		}
		inherit(c)
	}
}

func (res *resolver) entity(id string) (*model.Entity, error) {
	e, ok := res.entities[id]
	if !ok {
		return nil, fmt.Errorf("entity %q: %w", id, ErrUnknownReference)
	}
	return e, nil
}

func (res *resolver) statement(id string) (*model.Statement, error) {
	s, ok := res.statements[id]
	if !ok {
		return nil, fmt.Errorf("statement %q: %w", id, ErrUnknownReference)
	}
	return s, nil
}

func (res *resolver) entityList(ids []string) ([]*model.Entity, error) {
	out := make([]*model.Entity, 0, len(ids))
	for _, id := range ids {
		e, err := res.entity(id)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func (res *resolver) statementList(ids []string) ([]*model.Statement, error) {
	out := make([]*model.Statement, 0, len(ids))
	for _, id := range ids {
		s, err := res.statement(id)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func (res *resolver) entityPairs(pairs []Pair) ([]model.EntityPair, error) {
	out := make([]model.EntityPair, 0, len(pairs))
	for _, p := range pairs {
		old, err := res.entity(p.Old)
		if err != nil {
			return nil, err
		}
		new, err := res.entity(p.New)
		if err != nil {
			return nil, err
		}
		out = append(out, model.EntityPair{Old: old, New: new})
	}
	return out, nil
}

func (res *resolver) statementPairs(pairs []Pair) ([]model.StatementPair, error) {
	out := make([]model.StatementPair, 0, len(pairs))
	for _, p := range pairs {
		old, err := res.statement(p.Old)
		if err != nil {
			return nil, err
		}
		new, err := res.statement(p.New)
		if err != nil {
			return nil, err
		}
		out = append(out, model.StatementPair{Old: old, New: new})
	}
	return out, nil
}
