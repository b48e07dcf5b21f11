package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS preferences (
    suite                TEXT NOT NULL,
    key                  TEXT NOT NULL,
    value                BLOB NOT NULL,
    updated_at           TEXT NOT NULL,
    PRIMARY KEY (suite, key)
);

CREATE INDEX IF NOT EXISTS idx_preferences_updated ON preferences(updated_at);
`
