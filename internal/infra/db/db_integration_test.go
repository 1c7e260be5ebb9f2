package db

import (
	"context"
	"database/sql"
	"os"
	"testing"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// 実DBに対する軽い整合性テスト。TEST_DATABASE_DSNがないときはスキップ。
func testDSN(t *testing.T) string {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("TEST_DATABASE_DSN is not set")
	}
	return dsn
}

func TestConditionalStockUpdate(t *testing.T) {
	dsn := testDSN(t)

	conn, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Fatalf("sql.Open failed: %v", err)
	}
	defer func() { _ = conn.Close() }()

	ctx := context.Background()
	if err := conn.PingContext(ctx); err != nil {
		t.Fatalf("ping failed: %v", err)
	}

	//在庫減算の条件付きUPDATEがDB上でも「足りるときだけ1件更新」になることを確認
	if _, err := conn.ExecContext(ctx, `CREATE TEMP TABLE tmp_stock (id bigint primary key, stock bigint not null)`); err != nil {
		t.Fatalf("create temp table: %v", err)
	}
	if _, err := conn.ExecContext(ctx, `INSERT INTO tmp_stock (id, stock) VALUES (1, 3)`); err != nil {
		t.Fatalf("insert: %v", err)
	}

	res, err := conn.ExecContext(ctx, `UPDATE tmp_stock SET stock = stock - $1 WHERE id = $2 AND stock >= $1`, 2, 1)
	if err != nil {
		t.Fatalf("decrease: %v", err)
	}
	if n, _ := res.RowsAffected(); n != 1 {
		t.Fatalf("want 1 row affected, got %d", n)
	}

	//残り1個に対する2個の減算は0件更新
	res, err = conn.ExecContext(ctx, `UPDATE tmp_stock SET stock = stock - $1 WHERE id = $2 AND stock >= $1`, 2, 1)
	if err != nil {
		t.Fatalf("decrease: %v", err)
	}
	if n, _ := res.RowsAffected(); n != 0 {
		t.Fatalf("want 0 rows affected, got %d", n)
	}

	var stock int64
	if err := conn.QueryRowContext(ctx, `SELECT stock FROM tmp_stock WHERE id = 1`).Scan(&stock); err != nil {
		t.Fatalf("select: %v", err)
	}
	if stock != 1 {
		t.Fatalf("want stock 1, got %d", stock)
	}
}

func TestClampedAdjustment(t *testing.T) {
	dsn := testDSN(t)

	conn, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Fatalf("sql.Open failed: %v", err)
	}
	defer func() { _ = conn.Close() }()

	ctx := context.Background()

	//ワーカーの符号付き調整は0未満に沈まない
	if _, err := conn.ExecContext(ctx, `CREATE TEMP TABLE tmp_adjust (id bigint primary key, stock bigint not null)`); err != nil {
		t.Fatalf("create temp table: %v", err)
	}
	if _, err := conn.ExecContext(ctx, `INSERT INTO tmp_adjust (id, stock) VALUES (1, 2)`); err != nil {
		t.Fatalf("insert: %v", err)
	}

	if _, err := conn.ExecContext(ctx, `UPDATE tmp_adjust SET stock = GREATEST(stock + $1, 0) WHERE id = $2`, -5, 1); err != nil {
		t.Fatalf("adjust: %v", err)
	}

	var stock int64
	if err := conn.QueryRowContext(ctx, `SELECT stock FROM tmp_adjust WHERE id = 1`).Scan(&stock); err != nil {
		t.Fatalf("select: %v", err)
	}
	if stock != 0 {
		t.Fatalf("want stock clamped to 0, got %d", stock)
	}
}
