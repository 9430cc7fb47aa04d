package journal

// Schema creates the journal tables.
const Schema = `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	time DATETIME NOT NULL,
	quote TEXT NOT NULL,
	cost TEXT NOT NULL,
	value TEXT NOT NULL,
	pnl TEXT NOT NULL,
	pnl_percent REAL NOT NULL,
	orders INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_runs_time ON runs(time);
`
