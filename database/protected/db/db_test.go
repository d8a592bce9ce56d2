package db

import (
	"testing"

	"github.com/donnyhardyanto/dxdata/utils"
)

func TestSQLPartFieldNames(t *testing.T) {
	tests := []struct {
		name       string
		fieldNames []string
		want       string
	}{
		{"nil means all columns", nil, `*`},
		{"empty means all columns", []string{}, `*`},
		{"single", []string{"id"}, `id`},
		{"multiple", []string{"id", "name"}, `id, name`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SQLPartFieldNames(tt.fieldNames)
			if got != tt.want {
				t.Errorf("SQLPartFieldNames(%v) = %q, want %q", tt.fieldNames, got, tt.want)
			}
		})
	}
}

func TestSQLPartWhereFieldNameValues(t *testing.T) {
	tests := []struct {
		name      string
		where     utils.JSON
		connector string
		want      string
	}{
		{"empty", utils.JSON{}, ConnectorAnd, ``},
		{"single", utils.JSON{"id": 1}, ConnectorAnd, `id=:id`},
		{"two and sorted", utils.JSON{"name": "x", "id": 1}, ConnectorAnd, `id=:id and name=:name`},
		{"two or", utils.JSON{"name": "x", "id": 1}, ConnectorOr, `id=:id or name=:name`},
		{"nil value is null", utils.JSON{"deleted_at": nil, "id": 1}, ConnectorAnd, `deleted_at is null and id=:id`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SQLPartWhereFieldNameValues(tt.where, tt.connector)
			if got != tt.want {
				t.Errorf("SQLPartWhereFieldNameValues(%v, %q) = %q, want %q", tt.where, tt.connector, got, tt.want)
			}
		})
	}
}

func TestSQLPartSetFieldNameValues(t *testing.T) {
	newSetKeyValues, s := SQLPartSetFieldNameValues(utils.JSON{"name": "Bob", "email": "b@x.com"})
	if s != `email=:NEW_email,name=:NEW_name` {
		t.Errorf("unexpected set part %q", s)
	}
	if newSetKeyValues[`NEW_name`] != "Bob" || newSetKeyValues[`NEW_email`] != "b@x.com" {
		t.Errorf("unexpected rebound set values %v", newSetKeyValues)
	}
	if _, exists := newSetKeyValues[`name`]; exists {
		t.Error("original parameter name must not survive rebinding")
	}
}

func TestSQLPartInsertFieldNamesFieldValues(t *testing.T) {
	fn, fv := SQLPartInsertFieldNamesFieldValues(utils.JSON{"name": "Ann", "email": "a@x.com"})
	if fn != `email,name` {
		t.Errorf("unexpected field names %q", fn)
	}
	if fv != `:email,:name` {
		t.Errorf("unexpected field values %q", fv)
	}
}

func TestSQLPartConstructSelect(t *testing.T) {
	tests := []struct {
		name       string
		driverName string
		fieldNames []string
		where      utils.JSON
		orderby    map[string]string
		limit      int64
		want       string
		wantErr    bool
	}{
		{
			name:       "postgres all parts",
			driverName: "postgres",
			fieldNames: []string{"id", "name"},
			where:      utils.JSON{"id": 1},
			orderby:    map[string]string{"name": "asc"},
			limit:      10,
			want:       `select id, name from users where id=:id order by name asc limit 10`,
		},
		{
			name:       "postgres bare",
			driverName: "postgres",
			want:       `select * from users`,
		},
		{
			name:       "mysql limit",
			driverName: "mysql",
			where:      utils.JSON{"id": 1},
			limit:      3,
			want:       `select * from users where id=:id limit 3`,
		},
		{
			name:       "sqlserver top",
			driverName: "sqlserver",
			limit:      5,
			want:       `select top 5 * from users`,
		},
		{
			name:       "oracle fetch first",
			driverName: "oracle",
			limit:      5,
			want:       `select * from users fetch first 5 rows only`,
		},
		{
			name:       "unknown driver",
			driverName: "sybase",
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SQLPartConstructSelect(tt.driverName, "users", tt.fieldNames, tt.where, ConnectorAnd, tt.orderby, tt.limit)
			if (err != nil) != tt.wantErr {
				t.Fatalf("SQLPartConstructSelect() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("SQLPartConstructSelect() = %q, want %q", got, tt.want)
			}
		})
	}
}
