package querybuilder

import "testing"

func TestSelectBuilder(t *testing.T) {
	query, args, err := Select("id", "week").
		From("games").
		Where(Eq("week", 3), IsNull("winner_team_id")).
		OrderBy("week", "seq").
		Limit(10).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT id, week FROM games WHERE week = $1 AND winner_team_id IS NULL ORDER BY week, seq LIMIT 10"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 1 || args[0] != 3 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectBuilder_EmptyInShortCircuits(t *testing.T) {
	query, args, err := Select("id").
		From("picks").
		Where(In("user_id", nil)).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT id FROM picks WHERE 1=0"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 0 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertBuilder(t *testing.T) {
	query, args, err := InsertInto("payments").
		Columns("user_id", "amount_cents").
		Values("u-1", int64(2500)).
		Values("u-2", int64(1500)).
		Suffix("RETURNING id").
		ToSQL()
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO payments (user_id, amount_cents) VALUES ($1, $2), ($3, $4) RETURNING id"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 4 || args[0] != "u-1" || args[3] != int64(1500) {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestUpdateBuilder_NowIsLiteral(t *testing.T) {
	query, args, err := Update("picks").
		Set("points", 4).
		Set("updated_at", Now()).
		Where(Eq("id", "pk-1")).
		ToSQL()
	if err != nil {
		t.Fatalf("build update query: %v", err)
	}

	wantQuery := "UPDATE picks SET points = $1, updated_at = now() WHERE id = $2"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != 4 || args[1] != "pk-1" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestDeleteBuilder_RequiresWhere(t *testing.T) {
	if _, _, err := DeleteFrom("payments").ToSQL(); err == nil {
		t.Fatal("expected error for delete without where")
	}

	query, args, err := DeleteFrom("payments").
		Where(Eq("kind", "PRIZE"), IsNull("week")).
		ToSQL()
	if err != nil {
		t.Fatalf("build delete query: %v", err)
	}

	wantQuery := "DELETE FROM payments WHERE kind = $1 AND week IS NULL"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 1 || args[0] != "PRIZE" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestExprCondition_RewritesPlaceholders(t *testing.T) {
	query, args, err := Select("id").
		From("survivor_picks").
		Where(Eq("week", 2), Expr("dead_at > ?", "2025-09-01")).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT id FROM survivor_picks WHERE week = $1 AND dead_at > $2"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[1] != "2025-09-01" {
		t.Fatalf("unexpected args: %+v", args)
	}
}
