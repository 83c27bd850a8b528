package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS classifications (
    key                  TEXT PRIMARY KEY,
    description          TEXT NOT NULL,
    amount               TEXT NOT NULL,
    category             TEXT NOT NULL,
    provider             TEXT NOT NULL,
    model                TEXT,
    created_at           TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS columns (
    key                  TEXT PRIMARY KEY,
    field                TEXT NOT NULL,
    header               TEXT NOT NULL,
    created_at           TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_classifications_provider ON classifications(provider, model);
`
