package warehouse

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"io"
	"strconv"
)

// stubDriver serves a fixed number of two-column rows; the DSN is the row
// count. The last row carries a nil revenue so NULL mapping is exercised.
type stubDriver struct{}

func (stubDriver) Open(dsn string) (driver.Conn, error) {
	n, err := strconv.Atoi(dsn)
	if err != nil {
		return nil, fmt.Errorf("stub driver: bad dsn %q", dsn)
	}
	return &stubConn{rows: n}, nil
}

type stubConn struct{ rows int }

func (c *stubConn) Prepare(string) (driver.Stmt, error) { return &stubStmt{rows: c.rows}, nil }
func (c *stubConn) Close() error                        { return nil }
func (c *stubConn) Begin() (driver.Tx, error)           { return nil, errors.New("stub driver: transactions not supported") }

type stubStmt struct{ rows int }

func (s *stubStmt) Close() error  { return nil }
func (s *stubStmt) NumInput() int { return 0 }

func (s *stubStmt) Exec([]driver.Value) (driver.Result, error) {
	return nil, errors.New("stub driver: exec not supported")
}

func (s *stubStmt) Query([]driver.Value) (driver.Rows, error) {
	return &stubRows{total: s.rows}, nil
}

type stubRows struct {
	total  int
	served int
}

func (r *stubRows) Columns() []string { return []string{"region", "revenue"} }
func (r *stubRows) Close() error      { return nil }

func (r *stubRows) Next(dest []driver.Value) error {
	if r.served >= r.total {
		return io.EOF
	}
	dest[0] = fmt.Sprintf("region-%d", r.served)
	if r.served == r.total-1 {
		dest[1] = nil
	} else {
		dest[1] = int64(100 + r.served)
	}
	r.served++
	return nil
}
