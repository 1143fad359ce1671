package querybuilder

import (
	"reflect"
	"testing"
	"time"
)

func assertSQL(t *testing.T, gotQuery string, gotArgs []any, wantQuery string, wantArgs ...any) {
	t.Helper()
	if gotQuery != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, gotQuery)
	}
	if len(wantArgs) == 0 && len(gotArgs) == 0 {
		return
	}
	if !reflect.DeepEqual(gotArgs, wantArgs) {
		t.Fatalf("unexpected args: want %+v got %+v", wantArgs, gotArgs)
	}
}

func TestSelectBuilder(t *testing.T) {
	t.Parallel()

	cutoff := time.Date(2025, 3, 16, 4, 0, 0, 0, time.UTC)
	query, args, err := Select("id", "round").
		From("races").
		Where(Lt("starts_at", cutoff), IsNull("result"), IsNull("deleted_at")).
		OrderBy("starts_at ASC").
		Limit(20).
		Offset(40).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}
	assertSQL(t, query, args,
		"SELECT id, round FROM races WHERE starts_at < $1 AND result IS NULL AND deleted_at IS NULL ORDER BY starts_at ASC LIMIT 20 OFFSET 40",
		cutoff,
	)
}

func TestSelectBuilder_InAndExpr(t *testing.T) {
	t.Parallel()

	query, args, err := Select("room_id", "COUNT(*)").
		From("scores").
		Where(InStrings("room_id", []string{"a", "b"}), Expr("points >= ?", 10), IsNotNull("calculated_at")).
		GroupBy("room_id").
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}
	assertSQL(t, query, args,
		"SELECT room_id, COUNT(*) FROM scores WHERE room_id IN ($1, $2) AND points >= $3 AND calculated_at IS NOT NULL GROUP BY room_id",
		"a", "b", 10,
	)

	query, _, _ = Select("id").From("rooms").Where(In("id", nil)).ToSQL()
	if query != "SELECT id FROM rooms WHERE 1=0" {
		t.Fatalf("unexpected empty IN query: %s", query)
	}
}

func TestInsertBuilder(t *testing.T) {
	t.Parallel()

	query, args, err := InsertInto("participants").
		Columns("room_id", "user_id").
		Values("r1", "u1").
		Values("r1", "u2").
		Suffix("ON CONFLICT DO NOTHING").
		ToSQL()
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}
	assertSQL(t, query, args,
		"INSERT INTO participants (room_id, user_id) VALUES ($1, $2), ($3, $4) ON CONFLICT DO NOTHING",
		"r1", "u1", "r1", "u2",
	)

	if _, _, err := InsertInto("participants").Columns("a", "b").Values("x").ToSQL(); err == nil {
		t.Fatalf("expected mismatched row error")
	}
}

func TestUpdateBuilder(t *testing.T) {
	t.Parallel()

	query, args, err := Update("rooms").
		Set("status", "locked").
		SetExpr("updated_at", "NOW()").
		Where(Eq("id", "r1"), EqLiteral("status", "open")).
		ToSQL()
	if err != nil {
		t.Fatalf("build update query: %v", err)
	}
	assertSQL(t, query, args,
		"UPDATE rooms SET status = $1, updated_at = NOW() WHERE id = $2 AND status = 'open'",
		"locked", "r1",
	)
}

func TestInsertModel_SkipsColumns(t *testing.T) {
	t.Parallel()

	type row struct {
		ID        string    `db:"id"`
		Name      string    `db:"name"`
		CreatedAt time.Time `db:"created_at"`
		ignored   string
	}

	query, args, err := InsertModel("seasons", row{ID: "s1", Name: "2025"}, "RETURNING id", "created_at")
	if err != nil {
		t.Fatalf("InsertModel error: %v", err)
	}
	assertSQL(t, query, args, "INSERT INTO seasons (id, name) VALUES ($1, $2) RETURNING id", "s1", "2025")
}
