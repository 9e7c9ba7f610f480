package eventlog

const (
	schemaSQL = `
CREATE TABLE IF NOT EXISTS participant (
    name    TEXT NOT NULL,
    age     TEXT,
    profile TEXT
);

CREATE TABLE IF NOT EXISTS steps (
    seq          INTEGER PRIMARY KEY,
    kind         TEXT    NOT NULL DEFAULT 'event',
    type         TEXT,
    client_x     REAL    NOT NULL DEFAULT 0,
    client_y     REAL    NOT NULL DEFAULT 0,
    pressure     REAL,
    pointer_type TEXT,
    button       INTEGER,
    at_ms        INTEGER NOT NULL DEFAULT 0
);`

	selectParticipantSQL = `
SELECT
    name,
    age,
    profile
FROM participant
LIMIT 1`

	selectStepsSQL = `
SELECT
    seq,
    kind,
    type,
    client_x,
    client_y,
    pressure,
    pointer_type,
    button,
    at_ms
FROM steps
ORDER BY seq`

	insertStepSQL = `
INSERT INTO steps (seq,
                   kind,
                   type,
                   client_x,
                   client_y,
                   pressure,
                   pointer_type,
                   button,
                   at_ms)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	insertParticipantSQL = `
INSERT INTO participant (name,
                         age,
                         profile)
VALUES (?, ?, ?)`
)
