package store

const schemaSQLite = `
CREATE TABLE IF NOT EXISTS vehicles (
    id              INTEGER PRIMARY KEY AUTOINCREMENT,
    reg_number      TEXT NOT NULL UNIQUE,
    trailer_type    TEXT NOT NULL DEFAULT '',
    make_model      TEXT NOT NULL DEFAULT '',
    fuel_rating     REAL NOT NULL DEFAULT 0,
    max_tons        REAL NOT NULL DEFAULT 0,
    hazmat_certified INTEGER NOT NULL DEFAULT 0,
    status          TEXT NOT NULL DEFAULT 'Idle',
    driver_name     TEXT,
    location        TEXT NOT NULL DEFAULT 'Depot',
    last_lat        REAL NOT NULL DEFAULT 0,
    last_lon        REAL NOT NULL DEFAULT 0,
    active          INTEGER NOT NULL DEFAULT 1,
    created_at      TEXT NOT NULL DEFAULT (datetime('now','localtime')),
    updated_at      TEXT NOT NULL DEFAULT (datetime('now','localtime'))
);
CREATE INDEX IF NOT EXISTS idx_vehicles_status ON vehicles(status);

CREATE TABLE IF NOT EXISTS rfqs (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    rfq_ref     TEXT NOT NULL UNIQUE,
    client      TEXT NOT NULL DEFAULT '',
    commodity   TEXT NOT NULL DEFAULT '',
    requires_hazmat INTEGER NOT NULL DEFAULT 0,
    tons        REAL NOT NULL DEFAULT 0,
    origin      TEXT NOT NULL DEFAULT '',
    destination TEXT NOT NULL DEFAULT '',
    corridor    TEXT NOT NULL DEFAULT '',
    status      TEXT NOT NULL DEFAULT 'Pending',
    created_at  TEXT NOT NULL DEFAULT (datetime('now','localtime')),
    updated_at  TEXT NOT NULL DEFAULT (datetime('now','localtime'))
);
CREATE INDEX IF NOT EXISTS idx_rfqs_status ON rfqs(status);

CREATE TABLE IF NOT EXISTS trips (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    trip_ref    TEXT NOT NULL UNIQUE,
    rfq_id      INTEGER NOT NULL REFERENCES rfqs(id),
    reg_number  TEXT NOT NULL,
    driver_name TEXT NOT NULL DEFAULT '',
    status      TEXT NOT NULL DEFAULT 'GATE_IN',
    tare_weight REAL,
    gross_weight REAL,
    net_weight  REAL,
    ticket_no   TEXT NOT NULL DEFAULT '',
    quoted_rate REAL NOT NULL DEFAULT 0,
    mission_id  INTEGER,
    start_time  TEXT NOT NULL DEFAULT (datetime('now','localtime')),
    end_time    TEXT,
    updated_at  TEXT NOT NULL DEFAULT (datetime('now','localtime'))
);
CREATE INDEX IF NOT EXISTS idx_trips_status ON trips(status);
CREATE INDEX IF NOT EXISTS idx_trips_vehicle ON trips(reg_number);

CREATE TABLE IF NOT EXISTS trip_history (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    trip_id     INTEGER NOT NULL REFERENCES trips(id),
    status      TEXT NOT NULL,
    detail      TEXT NOT NULL DEFAULT '',
    created_at  TEXT NOT NULL DEFAULT (datetime('now','localtime'))
);
CREATE INDEX IF NOT EXISTS idx_trip_history_trip ON trip_history(trip_id);

CREATE TABLE IF NOT EXISTS missions (
    id           INTEGER PRIMARY KEY AUTOINCREMENT,
    mission_name TEXT NOT NULL DEFAULT '',
    reg_number   TEXT NOT NULL,
    driver_name  TEXT NOT NULL DEFAULT '',
    status       TEXT NOT NULL DEFAULT 'Staged',
    location     TEXT NOT NULL DEFAULT '',
    pod_ref      TEXT NOT NULL DEFAULT '',
    pod_signatory TEXT NOT NULL DEFAULT '',
    start_time   TEXT NOT NULL DEFAULT (datetime('now','localtime')),
    end_time     TEXT,
    updated_at   TEXT NOT NULL DEFAULT (datetime('now','localtime'))
);
CREATE INDEX IF NOT EXISTS idx_missions_vehicle ON missions(reg_number);
CREATE INDEX IF NOT EXISTS idx_missions_status ON missions(status);

CREATE TABLE IF NOT EXISTS mission_history (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    mission_id  INTEGER NOT NULL REFERENCES missions(id),
    status      TEXT NOT NULL,
    detail      TEXT NOT NULL DEFAULT '',
    created_at  TEXT NOT NULL DEFAULT (datetime('now','localtime'))
);
CREATE INDEX IF NOT EXISTS idx_mission_history_mission ON mission_history(mission_id);

CREATE TABLE IF NOT EXISTS gps_pings (
    id             INTEGER PRIMARY KEY AUTOINCREMENT,
    reg_number     TEXT NOT NULL,
    latitude       REAL NOT NULL DEFAULT 0,
    longitude      REAL NOT NULL DEFAULT 0,
    speed          REAL NOT NULL DEFAULT 0,
    heading        REAL NOT NULL DEFAULT 0,
    ignition       INTEGER NOT NULL DEFAULT 0,
    signal_quality REAL NOT NULL DEFAULT 0,
    source         TEXT NOT NULL DEFAULT '',
    recorded_at    TEXT NOT NULL DEFAULT (datetime('now','localtime'))
);
CREATE INDEX IF NOT EXISTS idx_gps_vehicle ON gps_pings(reg_number, id);

CREATE TABLE IF NOT EXISTS incidents (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    driver_name TEXT NOT NULL DEFAULT '',
    reg_number  TEXT NOT NULL DEFAULT '',
    kind        TEXT NOT NULL DEFAULT '',
    details     TEXT NOT NULL DEFAULT '',
    created_at  TEXT NOT NULL DEFAULT (datetime('now','localtime'))
);
CREATE INDEX IF NOT EXISTS idx_incidents_vehicle ON incidents(reg_number);

CREATE TABLE IF NOT EXISTS outbox (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    topic       TEXT NOT NULL,
    payload     BLOB NOT NULL,
    msg_type    TEXT NOT NULL DEFAULT '',
    ref_id      TEXT NOT NULL DEFAULT '',
    retries     INTEGER NOT NULL DEFAULT 0,
    created_at  TEXT NOT NULL DEFAULT (datetime('now','localtime')),
    sent_at     TEXT
);
CREATE INDEX IF NOT EXISTS idx_outbox_pending ON outbox(sent_at) WHERE sent_at IS NULL;

CREATE TABLE IF NOT EXISTS audit_log (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    entity_type TEXT NOT NULL,
    entity_id   INTEGER NOT NULL DEFAULT 0,
    action      TEXT NOT NULL,
    old_value   TEXT NOT NULL DEFAULT '',
    new_value   TEXT NOT NULL DEFAULT '',
    actor       TEXT NOT NULL DEFAULT 'system',
    created_at  TEXT NOT NULL DEFAULT (datetime('now','localtime'))
);
CREATE INDEX IF NOT EXISTS idx_audit_entity ON audit_log(entity_type, entity_id);

CREATE TABLE IF NOT EXISTS admin_users (
    id            INTEGER PRIMARY KEY AUTOINCREMENT,
    username      TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    created_at    TEXT NOT NULL DEFAULT (datetime('now','localtime'))
);
`
