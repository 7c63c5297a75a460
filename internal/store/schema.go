package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS transactions (
    id           TEXT PRIMARY KEY,
    date         TEXT NOT NULL,
    amount       REAL NOT NULL,
    category     TEXT NOT NULL,
    description  TEXT,
    imported_at  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS model_banks (
    name         TEXT PRIMARY KEY,
    blob         TEXT NOT NULL,
    saved_at     TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_transactions_date ON transactions(date);
CREATE INDEX IF NOT EXISTS idx_transactions_category ON transactions(category);
`
