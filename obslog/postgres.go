package obslog

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"
	logger "github.com/sirupsen/logrus"
)

const DefaultTable = "observation_log"

// Postgres stores observation lines in a table, one row per cycle.
type Postgres struct {
	db       *sql.DB
	table    string
	station  int
	deviceID string
}

func OpenPostgres(ctx context.Context, dsn, table string, station int, deviceID string) (*Postgres, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	db.SetMaxOpenConns(2)

	p := &Postgres{db: db, table: pq.QuoteIdentifier(table), station: station, deviceID: deviceID}
	if err := p.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	logger.Infof("Observation log table [%v] ready", table)
	return p, nil
}

func (p *Postgres) migrate(ctx context.Context) error {
	_, err := p.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS `+p.table+` (
		id        BIGSERIAL PRIMARY KEY,
		station   INTEGER NOT NULL,
		device_id TEXT NOT NULL,
		taken_at  TIMESTAMPTZ NOT NULL,
		line      TEXT NOT NULL
	)`)
	if err != nil {
		return fmt.Errorf("create %s: %w", p.table, err)
	}
	return nil
}

func (p *Postgres) Write(ctx context.Context, at time.Time, line string) error {
	_, err := p.db.ExecContext(ctx,
		`INSERT INTO `+p.table+` (station, device_id, taken_at, line) VALUES ($1, $2, $3, $4)`,
		p.station, p.deviceID, at.UTC(), line)
	if err != nil {
		return fmt.Errorf("insert observation: %w", err)
	}
	return nil
}

func (p *Postgres) Close() error {
	return p.db.Close()
}
