package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/fwojciec/domgrab"
	"github.com/gobwas/glob"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ domgrab.RuleSetService = (*RuleSetService)(nil)

// RuleSetService implements domgrab.RuleSetService using SQLite.
type RuleSetService struct {
	db *DB
}

// NewRuleSetService creates a new RuleSetService.
func NewRuleSetService(db *DB) *RuleSetService {
	return &RuleSetService{db: db}
}

// CreateRuleSet validates and stores rs, assigning IDs to the rule set and
// to any rule without one. Returns ECONFLICT if the name is taken.
func (s *RuleSetService) CreateRuleSet(ctx context.Context, rs *domgrab.RuleSet) error {
	if rs == nil {
		return domgrab.Errorf(domgrab.EINVALID, "rule set required")
	}
	if strings.TrimSpace(rs.Name) == "" {
		return domgrab.Errorf(domgrab.EINVALID, "rule set name required")
	}
	if err := rs.Validate(); err != nil {
		return err
	}
	if rs.URLPattern != "" {
		if _, err := compilePattern(rs.URLPattern); err != nil {
			return domgrab.Errorf(domgrab.EINVALID, "invalid URL pattern %q: %v", rs.URLPattern, err)
		}
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var count int
	if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM rule_sets WHERE name = ?", rs.Name).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return domgrab.Errorf(domgrab.ECONFLICT, "rule set %q already exists", rs.Name)
	}

	rs.ID = uuid.New().String()
	now := time.Now().UTC().Truncate(time.Second)
	rs.CreatedAt = now
	rs.UpdatedAt = now

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO rule_sets (id, name, url_pattern, format, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, rs.ID, rs.Name, rs.URLPattern, string(rs.Format),
		rs.CreatedAt.Format(time.RFC3339), rs.UpdatedAt.Format(time.RFC3339)); err != nil {
		return err
	}

	if err := insertRules(ctx, tx, rs); err != nil {
		return err
	}

	return tx.Commit()
}

// FindRuleSetByID retrieves a rule set and its rules by ID.
func (s *RuleSetService) FindRuleSetByID(ctx context.Context, id string) (*domgrab.RuleSet, error) {
	sets, err := s.FindRuleSets(ctx, domgrab.RuleSetFilter{ID: &id})
	if err != nil {
		return nil, err
	}
	if len(sets) == 0 {
		return nil, domgrab.Errorf(domgrab.ENOTFOUND, "rule set not found")
	}
	return sets[0], nil
}

// FindRuleSets retrieves rule sets matching the filter, ordered by name.
func (s *RuleSetService) FindRuleSets(ctx context.Context, filter domgrab.RuleSetFilter) ([]*domgrab.RuleSet, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, name, url_pattern, format, created_at, updated_at FROM rule_sets WHERE 1=1")

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}
	if filter.Name != nil {
		query.WriteString(" AND name = ?")
		args = append(args, *filter.Name)
	}

	query.WriteString(" ORDER BY name")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	sets, err := s.queryRuleSets(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	for _, rs := range sets {
		if err := s.loadRules(ctx, rs); err != nil {
			return nil, err
		}
	}
	return sets, nil
}

// FindRuleSetForURL returns the oldest rule set whose URL pattern matches
// rawURL. Patterns without a slash match the host alone, with '.' as the
// separator; patterns with a slash match host+path, with '/' as the
// separator. Returns ENOTFOUND when no pattern matches.
func (s *RuleSetService) FindRuleSetForURL(ctx context.Context, rawURL string) (*domgrab.RuleSet, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return nil, domgrab.Errorf(domgrab.EINVALID, "invalid URL %q", rawURL)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, url_pattern FROM rule_sets
		WHERE url_pattern != ''
		ORDER BY created_at, rowid
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var matchID string
	for rows.Next() {
		var id, pattern string
		if err := rows.Scan(&id, &pattern); err != nil {
			return nil, err
		}
		ok, err := MatchURL(pattern, u)
		if err != nil {
			continue
		}
		if ok {
			matchID = id
			break
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	if matchID == "" {
		return nil, domgrab.Errorf(domgrab.ENOTFOUND, "no rule set matches %s", rawURL)
	}
	return s.FindRuleSetByID(ctx, matchID)
}

// DeleteRuleSet permanently removes a rule set and its rules.
func (s *RuleSetService) DeleteRuleSet(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM rule_sets WHERE id = ?", id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domgrab.Errorf(domgrab.ENOTFOUND, "rule set not found")
	}
	return nil
}

// MatchURL reports whether pattern matches u. See FindRuleSetForURL.
func MatchURL(pattern string, u *url.URL) (bool, error) {
	g, err := compilePattern(pattern)
	if err != nil {
		return false, err
	}
	if !strings.Contains(pattern, "/") {
		return g.Match(u.Hostname()), nil
	}
	path := u.Path
	if path == "" {
		path = "/"
	}
	return g.Match(u.Hostname() + path), nil
}

func compilePattern(pattern string) (glob.Glob, error) {
	if strings.Contains(pattern, "/") {
		return glob.Compile(pattern, '/')
	}
	return glob.Compile(pattern, '.')
}

func (s *RuleSetService) queryRuleSets(ctx context.Context, query string, args ...any) ([]*domgrab.RuleSet, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sets []*domgrab.RuleSet
	for rows.Next() {
		var rs domgrab.RuleSet
		var format, createdAt, updatedAt string
		if err := rows.Scan(&rs.ID, &rs.Name, &rs.URLPattern, &format, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		rs.Format = domgrab.Format(format)
		if rs.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
			return nil, err
		}
		if rs.UpdatedAt, err = parseRFC3339(updatedAt, "updated_at"); err != nil {
			return nil, err
		}
		sets = append(sets, &rs)
	}
	return sets, rows.Err()
}

type ruleRow struct {
	seq           int64
	parentSeq     sql.NullInt64
	id            string
	kind          domgrab.RuleKind
	name          string
	path          string
	containerPath string
	attribute     string
}

func (s *RuleSetService) loadRules(ctx context.Context, rs *domgrab.RuleSet) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, parent_seq, id, kind, name, path, container_path, attribute
		FROM rules
		WHERE rule_set_id = ?
		ORDER BY position, seq
	`, rs.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	var all []ruleRow
	for rows.Next() {
		var r ruleRow
		var kind string
		if err := rows.Scan(&r.seq, &r.parentSeq, &r.id, &kind, &r.name, &r.path, &r.containerPath, &r.attribute); err != nil {
			return err
		}
		r.kind = domgrab.RuleKind(kind)
		all = append(all, r)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	objects := make(map[int64]int)
	arrays := make(map[int64]int)
	for _, r := range all {
		if r.parentSeq.Valid {
			continue
		}
		switch r.kind {
		case domgrab.KindField:
			rs.Fields = append(rs.Fields, r.field())
		case domgrab.KindObject:
			objects[r.seq] = len(rs.Objects)
			rs.Objects = append(rs.Objects, domgrab.ObjectRule{ID: r.id, Name: r.name})
		case domgrab.KindArray:
			arrays[r.seq] = len(rs.Arrays)
			rs.Arrays = append(rs.Arrays, domgrab.ArrayRule{ID: r.id, Name: r.name, ContainerPath: r.containerPath})
		default:
			return domgrab.Errorf(domgrab.EINTERNAL, "unknown rule kind %q", r.kind)
		}
	}
	for _, r := range all {
		if !r.parentSeq.Valid {
			continue
		}
		if i, ok := objects[r.parentSeq.Int64]; ok {
			rs.Objects[i].Children = append(rs.Objects[i].Children, r.field())
		} else if i, ok := arrays[r.parentSeq.Int64]; ok {
			rs.Arrays[i].Children = append(rs.Arrays[i].Children, r.field())
		} else {
			return errors.New("child rule without parent")
		}
	}
	return nil
}

func (r ruleRow) field() domgrab.FieldRule {
	return domgrab.FieldRule{ID: r.id, Name: r.name, Path: r.path, Attribute: domgrab.Attribute(r.attribute)}
}

func insertRules(ctx context.Context, tx *sql.Tx, rs *domgrab.RuleSet) error {
	for i := range rs.Fields {
		if _, err := insertField(ctx, tx, rs.ID, nil, i, &rs.Fields[i]); err != nil {
			return err
		}
	}
	for i := range rs.Objects {
		o := &rs.Objects[i]
		seq, err := insertRule(ctx, tx, rs.ID, nil, i, &o.ID, domgrab.KindObject, o.Name, "", "", "")
		if err != nil {
			return err
		}
		for j := range o.Children {
			if _, err := insertField(ctx, tx, rs.ID, &seq, j, &o.Children[j]); err != nil {
				return err
			}
		}
	}
	for i := range rs.Arrays {
		a := &rs.Arrays[i]
		seq, err := insertRule(ctx, tx, rs.ID, nil, i, &a.ID, domgrab.KindArray, a.Name, "", a.ContainerPath, "")
		if err != nil {
			return err
		}
		for j := range a.Children {
			if _, err := insertField(ctx, tx, rs.ID, &seq, j, &a.Children[j]); err != nil {
				return err
			}
		}
	}
	return nil
}

func insertField(ctx context.Context, tx *sql.Tx, ruleSetID string, parent *int64, position int, f *domgrab.FieldRule) (int64, error) {
	return insertRule(ctx, tx, ruleSetID, parent, position, &f.ID, domgrab.KindField, f.Name, f.Path, "", string(f.Attribute))
}

// insertRule stores one rule row, assigning *id when empty, and returns the
// row's sequence number.
func insertRule(ctx context.Context, tx *sql.Tx, ruleSetID string, parent *int64, position int, id *string, kind domgrab.RuleKind, name, path, containerPath, attribute string) (int64, error) {
	if *id == "" {
		*id = uuid.New().String()
	}
	result, err := tx.ExecContext(ctx, `
		INSERT INTO rules (rule_set_id, parent_seq, id, kind, position, name, path, container_path, attribute)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, ruleSetID, parent, *id, string(kind), position, name, path, containerPath, attribute)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}
