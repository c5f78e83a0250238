package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/arloliu/tsline/lineprotocol"
	"github.com/arloliu/tsline/resultset"
)

// Privilege is a database privilege level for GRANT and REVOKE statements.
type Privilege string

const (
	PrivilegeRead  Privilege = "READ"
	PrivilegeWrite Privilege = "WRITE"
	PrivilegeAll   Privilege = "ALL"
)

// RetentionPolicy describes a retention policy as reported by the server.
type RetentionPolicy struct {
	Name        string
	Duration    string
	Replication int
	Default     bool
}

// User describes a user as reported by SHOW USERS.
type User struct {
	Name  string
	Admin bool
}

// ContinuousQuery is one continuous query registered on a database.
type ContinuousQuery struct {
	Name  string
	Query string
}

// CreateDatabase creates a database. Creating an existing database is not an
// error on the server side.
func (c *Client) CreateDatabase(ctx context.Context, name string) error {
	return c.exec(ctx, "CREATE DATABASE "+lineprotocol.QuoteIdent(name))
}

// DropDatabase drops a database and all of its data.
func (c *Client) DropDatabase(ctx context.Context, name string) error {
	return c.exec(ctx, "DROP DATABASE "+lineprotocol.QuoteIdent(name))
}

// ListDatabases returns the names of all databases on the server.
func (c *Client) ListDatabases(ctx context.Context) ([]string, error) {
	return c.stringColumn(ctx, "SHOW DATABASES", "name")
}

// CreateRetentionPolicy creates a retention policy on a database. An empty
// database falls back to the client default.
//
// Parameters:
//   - database: the database the policy belongs to.
//   - rp: Name, Duration (e.g. "30d", "INF") and Replication are required;
//     Default marks the policy as the database default.
func (c *Client) CreateRetentionPolicy(ctx context.Context, database string, rp RetentionPolicy) error {
	cmd := fmt.Sprintf("CREATE RETENTION POLICY %s ON %s DURATION %s REPLICATION %d",
		lineprotocol.QuoteIdent(rp.Name),
		lineprotocol.QuoteIdent(c.databaseOr(database)),
		rp.Duration,
		rp.Replication,
	)
	if rp.Default {
		cmd += " DEFAULT"
	}

	return c.exec(ctx, cmd)
}

// AlterRetentionPolicy modifies an existing retention policy. Zero-valued
// fields are left unchanged; the server rejects a statement that alters
// nothing.
func (c *Client) AlterRetentionPolicy(ctx context.Context, database string, rp RetentionPolicy) error {
	cmd := fmt.Sprintf("ALTER RETENTION POLICY %s ON %s",
		lineprotocol.QuoteIdent(rp.Name),
		lineprotocol.QuoteIdent(c.databaseOr(database)),
	)
	if rp.Duration != "" {
		cmd += " DURATION " + rp.Duration
	}
	if rp.Replication > 0 {
		cmd += fmt.Sprintf(" REPLICATION %d", rp.Replication)
	}
	if rp.Default {
		cmd += " DEFAULT"
	}

	return c.exec(ctx, cmd)
}

// DropRetentionPolicy drops a retention policy and all data stored under it.
func (c *Client) DropRetentionPolicy(ctx context.Context, database, name string) error {
	cmd := fmt.Sprintf("DROP RETENTION POLICY %s ON %s",
		lineprotocol.QuoteIdent(name),
		lineprotocol.QuoteIdent(c.databaseOr(database)),
	)

	return c.exec(ctx, cmd)
}

// ListRetentionPolicies returns the retention policies of a database.
func (c *Client) ListRetentionPolicies(ctx context.Context, database string) ([]RetentionPolicy, error) {
	cmd := "SHOW RETENTION POLICIES ON " + lineprotocol.QuoteIdent(c.databaseOr(database))

	rs, err := c.QueryOne(ctx, Query{Command: cmd})
	if err != nil {
		return nil, err
	}

	var policies []RetentionPolicy
	for pt := range rs.AllPoints() {
		policies = append(policies, RetentionPolicy{
			Name:        stringAt(pt, "name"),
			Duration:    stringAt(pt, "duration"),
			Replication: intAt(pt, "replicaN"),
			Default:     boolAt(pt, "default"),
		})
	}

	return policies, nil
}

// CreateUser creates a user; admin grants cluster administration privileges.
func (c *Client) CreateUser(ctx context.Context, name, password string, admin bool) error {
	cmd := fmt.Sprintf("CREATE USER %s WITH PASSWORD %s",
		lineprotocol.QuoteIdent(name),
		lineprotocol.QuoteLiteral(password),
	)
	if admin {
		cmd += " WITH ALL PRIVILEGES"
	}

	return c.exec(ctx, cmd)
}

// DropUser removes a user.
func (c *Client) DropUser(ctx context.Context, name string) error {
	return c.exec(ctx, "DROP USER "+lineprotocol.QuoteIdent(name))
}

// SetUserPassword changes an existing user's password.
func (c *Client) SetUserPassword(ctx context.Context, name, password string) error {
	cmd := fmt.Sprintf("SET PASSWORD FOR %s = %s",
		lineprotocol.QuoteIdent(name),
		lineprotocol.QuoteLiteral(password),
	)

	return c.exec(ctx, cmd)
}

// ListUsers returns all users and their admin status.
func (c *Client) ListUsers(ctx context.Context) ([]User, error) {
	rs, err := c.QueryOne(ctx, Query{Command: "SHOW USERS"})
	if err != nil {
		return nil, err
	}

	var users []User
	for pt := range rs.AllPoints() {
		users = append(users, User{
			Name:  stringAt(pt, "user"),
			Admin: boolAt(pt, "admin"),
		})
	}

	return users, nil
}

// GrantPrivilege grants a privilege on a database to a user.
func (c *Client) GrantPrivilege(ctx context.Context, p Privilege, database, user string) error {
	cmd := fmt.Sprintf("GRANT %s ON %s TO %s",
		p,
		lineprotocol.QuoteIdent(c.databaseOr(database)),
		lineprotocol.QuoteIdent(user),
	)

	return c.exec(ctx, cmd)
}

// RevokePrivilege revokes a privilege on a database from a user.
func (c *Client) RevokePrivilege(ctx context.Context, p Privilege, database, user string) error {
	cmd := fmt.Sprintf("REVOKE %s ON %s FROM %s",
		p,
		lineprotocol.QuoteIdent(c.databaseOr(database)),
		lineprotocol.QuoteIdent(user),
	)

	return c.exec(ctx, cmd)
}

// GrantAdmin grants cluster administration privileges to a user.
func (c *Client) GrantAdmin(ctx context.Context, user string) error {
	return c.exec(ctx, "GRANT ALL PRIVILEGES TO "+lineprotocol.QuoteIdent(user))
}

// RevokeAdmin revokes cluster administration privileges from a user.
func (c *Client) RevokeAdmin(ctx context.Context, user string) error {
	return c.exec(ctx, "REVOKE ALL PRIVILEGES FROM "+lineprotocol.QuoteIdent(user))
}

// CreateContinuousQuery registers a continuous query on a database. The body
// is the full SELECT ... INTO ... GROUP BY ... clause between BEGIN and END.
func (c *Client) CreateContinuousQuery(ctx context.Context, database, name, body string) error {
	cmd := fmt.Sprintf("CREATE CONTINUOUS QUERY %s ON %s BEGIN %s END",
		lineprotocol.QuoteIdent(name),
		lineprotocol.QuoteIdent(c.databaseOr(database)),
		body,
	)

	return c.exec(ctx, cmd)
}

// DropContinuousQuery removes a continuous query from a database.
func (c *Client) DropContinuousQuery(ctx context.Context, database, name string) error {
	cmd := fmt.Sprintf("DROP CONTINUOUS QUERY %s ON %s",
		lineprotocol.QuoteIdent(name),
		lineprotocol.QuoteIdent(c.databaseOr(database)),
	)

	return c.exec(ctx, cmd)
}

// ListContinuousQueries returns the continuous queries of every database,
// keyed by database name. The response carries one series per database, so
// this is the natural consumer of ResultSet.Items.
func (c *Client) ListContinuousQueries(ctx context.Context) (map[string][]ContinuousQuery, error) {
	rs, err := c.QueryOne(ctx, Query{Command: "SHOW CONTINUOUS QUERIES"})
	if err != nil {
		return nil, err
	}

	queries := make(map[string][]ContinuousQuery)
	for key, points := range rs.Items() {
		db := key.Measurement
		if _, ok := queries[db]; !ok {
			queries[db] = nil
		}

		for pt := range points {
			queries[db] = append(queries[db], ContinuousQuery{
				Name:  stringAt(pt, "name"),
				Query: stringAt(pt, "query"),
			})
		}
	}

	return queries, nil
}

// ListSeries returns the series keys of a database, each in canonical
// "measurement,tag=value" form.
func (c *Client) ListSeries(ctx context.Context, database string) ([]string, error) {
	rs, err := c.QueryOne(ctx, Query{Command: "SHOW SERIES", Database: c.databaseOr(database)})
	if err != nil {
		return nil, err
	}

	var keys []string
	for pt := range rs.AllPoints() {
		if key := stringAt(pt, "key"); key != "" {
			keys = append(keys, key)
		}
	}

	return keys, nil
}

// DropSeries deletes series from a database, optionally narrowed to a
// measurement and a tag match. With neither filter the statement drops every
// series in the database.
func (c *Client) DropSeries(ctx context.Context, database, measurement string, tags map[string]string) error {
	cmd := "DROP SERIES"
	if measurement != "" {
		cmd += " FROM " + lineprotocol.QuoteIdent(measurement)
	}

	if len(tags) > 0 {
		conds := make([]string, 0, len(tags))
		for _, k := range sortedKeys(tags) {
			conds = append(conds, lineprotocol.QuoteIdent(k)+" = "+lineprotocol.QuoteLiteral(tags[k]))
		}
		cmd += " WHERE " + strings.Join(conds, " AND ")
	}

	_, err := c.Query(ctx, Query{Command: cmd, Database: c.databaseOr(database), Method: http.MethodPost})

	return err
}

// ListMeasurements returns the measurement names of a database.
func (c *Client) ListMeasurements(ctx context.Context, database string) ([]string, error) {
	rs, err := c.QueryOne(ctx, Query{Command: "SHOW MEASUREMENTS", Database: c.databaseOr(database)})
	if err != nil {
		return nil, err
	}

	var names []string
	for pt := range rs.AllPoints() {
		if name := stringAt(pt, "name"); name != "" {
			names = append(names, name)
		}
	}

	return names, nil
}

// DropMeasurement deletes a measurement and all of its series.
func (c *Client) DropMeasurement(ctx context.Context, database, name string) error {
	cmd := "DROP MEASUREMENT " + lineprotocol.QuoteIdent(name)

	_, err := c.Query(ctx, Query{Command: cmd, Database: c.databaseOr(database), Method: http.MethodPost})

	return err
}

// exec runs a data-modifying statement, discarding the result set.
func (c *Client) exec(ctx context.Context, cmd string) error {
	_, err := c.Query(ctx, Query{Command: cmd, Method: http.MethodPost})

	return err
}

// databaseOr resolves an explicit database against the client default.
func (c *Client) databaseOr(database string) string {
	if database != "" {
		return database
	}

	return c.database
}

// sortedKeys keeps generated WHERE clauses deterministic.
func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	return keys
}

// stringAt reads a string column from a point, tolerating absence.
func stringAt(pt resultset.Point, column string) string {
	s, _ := pt[column].(string)

	return s
}

// boolAt reads a bool column from a point, tolerating absence.
func boolAt(pt resultset.Point, column string) bool {
	b, _ := pt[column].(bool)

	return b
}

// intAt reads an integer column from a point. Responses decode numbers as
// json.Number; other numeric shapes are tolerated for hand-built results.
func intAt(pt resultset.Point, column string) int {
	switch v := pt[column].(type) {
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0
		}

		return int(n)
	case int:
		return v
	case float64:
		return int(v)
	default:
		return 0
	}
}

// stringColumn collects one string column across every row of a
// single-statement query.
func (c *Client) stringColumn(ctx context.Context, cmd, column string) ([]string, error) {
	rs, err := c.QueryOne(ctx, Query{Command: cmd})
	if err != nil {
		return nil, err
	}

	var values []string
	for pt := range rs.AllPoints() {
		if v := stringAt(pt, column); v != "" {
			values = append(values, v)
		}
	}

	return values, nil
}
