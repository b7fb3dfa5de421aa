package schema

import (
	"fmt"
	"reflect"
	"strings"
)

// generateDDL creates a CREATE TABLE statement from struct tags.
// The statement is safe to run against an existing table.
func generateDDL(model any, tableName string) string {
	v := reflect.ValueOf(model)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	t := v.Type()

	var columns []string

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		dbTag := field.Tag.Get("db")
		ddlTag := field.Tag.Get("ddl")

		if dbTag != "" && ddlTag != "" {
			columns = append(columns, fmt.Sprintf("    %s %s", dbTag, ddlTag))
		}
	}

	ddl := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n%s\n);",
		tableName,
		strings.Join(columns, ",\n"))

	return ddl
}

// Node DDL methods
func (n Node) TableDDL() string {
	return generateDDL(n, n.TableName())
}

func (n Node) IndexDDL() []string {
	return []string{
		"CREATE INDEX IF NOT EXISTS idx_nodes_name ON nodes(name);",
	}
}

func (n Node) TableName() string {
	return "nodes"
}

// Link DDL methods
func (l Link) TableDDL() string {
	return generateDDL(l, l.TableName())
}

func (l Link) IndexDDL() []string {
	return []string{}
}

func (l Link) TableName() string {
	return "links"
}

// AllDDL returns table and index statements for every model in
// creation order.
func AllDDL() []string {
	var res []string
	for _, m := range []DDLGenerator{Node{}, Link{}} {
		res = append(res, m.TableDDL())
		res = append(res, m.IndexDDL()...)
	}
	return res
}
