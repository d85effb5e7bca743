package store

const schemaPostgres = `
CREATE TABLE IF NOT EXISTS vehicles (
    id              BIGSERIAL PRIMARY KEY,
    reg_number      TEXT NOT NULL UNIQUE,
    trailer_type    TEXT NOT NULL DEFAULT '',
    make_model      TEXT NOT NULL DEFAULT '',
    fuel_rating     DOUBLE PRECISION NOT NULL DEFAULT 0,
    max_tons        DOUBLE PRECISION NOT NULL DEFAULT 0,
    hazmat_certified BOOLEAN NOT NULL DEFAULT FALSE,
    status          TEXT NOT NULL DEFAULT 'Idle',
    driver_name     TEXT,
    location        TEXT NOT NULL DEFAULT 'Depot',
    last_lat        DOUBLE PRECISION NOT NULL DEFAULT 0,
    last_lon        DOUBLE PRECISION NOT NULL DEFAULT 0,
    active          BOOLEAN NOT NULL DEFAULT TRUE,
    created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_vehicles_status ON vehicles(status);

CREATE TABLE IF NOT EXISTS rfqs (
    id          BIGSERIAL PRIMARY KEY,
    rfq_ref     TEXT NOT NULL UNIQUE,
    client      TEXT NOT NULL DEFAULT '',
    commodity   TEXT NOT NULL DEFAULT '',
    requires_hazmat BOOLEAN NOT NULL DEFAULT FALSE,
    tons        DOUBLE PRECISION NOT NULL DEFAULT 0,
    origin      TEXT NOT NULL DEFAULT '',
    destination TEXT NOT NULL DEFAULT '',
    corridor    TEXT NOT NULL DEFAULT '',
    status      TEXT NOT NULL DEFAULT 'Pending',
    created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_rfqs_status ON rfqs(status);

CREATE TABLE IF NOT EXISTS trips (
    id          BIGSERIAL PRIMARY KEY,
    trip_ref    TEXT NOT NULL UNIQUE,
    rfq_id      BIGINT NOT NULL REFERENCES rfqs(id),
    reg_number  TEXT NOT NULL,
    driver_name TEXT NOT NULL DEFAULT '',
    status      TEXT NOT NULL DEFAULT 'GATE_IN',
    tare_weight DOUBLE PRECISION,
    gross_weight DOUBLE PRECISION,
    net_weight  DOUBLE PRECISION,
    ticket_no   TEXT NOT NULL DEFAULT '',
    quoted_rate DOUBLE PRECISION NOT NULL DEFAULT 0,
    mission_id  BIGINT,
    start_time  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    end_time    TIMESTAMPTZ,
    updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_trips_status ON trips(status);
CREATE INDEX IF NOT EXISTS idx_trips_vehicle ON trips(reg_number);

CREATE TABLE IF NOT EXISTS trip_history (
    id          BIGSERIAL PRIMARY KEY,
    trip_id     BIGINT NOT NULL REFERENCES trips(id),
    status      TEXT NOT NULL,
    detail      TEXT NOT NULL DEFAULT '',
    created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_trip_history_trip ON trip_history(trip_id);

CREATE TABLE IF NOT EXISTS missions (
    id           BIGSERIAL PRIMARY KEY,
    mission_name TEXT NOT NULL DEFAULT '',
    reg_number   TEXT NOT NULL,
    driver_name  TEXT NOT NULL DEFAULT '',
    status       TEXT NOT NULL DEFAULT 'Staged',
    location     TEXT NOT NULL DEFAULT '',
    pod_ref      TEXT NOT NULL DEFAULT '',
    pod_signatory TEXT NOT NULL DEFAULT '',
    start_time   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    end_time     TIMESTAMPTZ,
    updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_missions_vehicle ON missions(reg_number);
CREATE INDEX IF NOT EXISTS idx_missions_status ON missions(status);

CREATE TABLE IF NOT EXISTS mission_history (
    id          BIGSERIAL PRIMARY KEY,
    mission_id  BIGINT NOT NULL REFERENCES missions(id),
    status      TEXT NOT NULL,
    detail      TEXT NOT NULL DEFAULT '',
    created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_mission_history_mission ON mission_history(mission_id);

CREATE TABLE IF NOT EXISTS gps_pings (
    id             BIGSERIAL PRIMARY KEY,
    reg_number     TEXT NOT NULL,
    latitude       DOUBLE PRECISION NOT NULL DEFAULT 0,
    longitude      DOUBLE PRECISION NOT NULL DEFAULT 0,
    speed          DOUBLE PRECISION NOT NULL DEFAULT 0,
    heading        DOUBLE PRECISION NOT NULL DEFAULT 0,
    ignition       BOOLEAN NOT NULL DEFAULT FALSE,
    signal_quality DOUBLE PRECISION NOT NULL DEFAULT 0,
    source         TEXT NOT NULL DEFAULT '',
    recorded_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_gps_vehicle ON gps_pings(reg_number, id);

CREATE TABLE IF NOT EXISTS incidents (
    id          BIGSERIAL PRIMARY KEY,
    driver_name TEXT NOT NULL DEFAULT '',
    reg_number  TEXT NOT NULL DEFAULT '',
    kind        TEXT NOT NULL DEFAULT '',
    details     TEXT NOT NULL DEFAULT '',
    created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_incidents_vehicle ON incidents(reg_number);

CREATE TABLE IF NOT EXISTS outbox (
    id          BIGSERIAL PRIMARY KEY,
    topic       TEXT NOT NULL,
    payload     BYTEA NOT NULL,
    msg_type    TEXT NOT NULL DEFAULT '',
    ref_id      TEXT NOT NULL DEFAULT '',
    retries     INTEGER NOT NULL DEFAULT 0,
    created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    sent_at     TIMESTAMPTZ
);
CREATE INDEX IF NOT EXISTS idx_outbox_pending ON outbox(sent_at) WHERE sent_at IS NULL;

CREATE TABLE IF NOT EXISTS audit_log (
    id          BIGSERIAL PRIMARY KEY,
    entity_type TEXT NOT NULL,
    entity_id   BIGINT NOT NULL DEFAULT 0,
    action      TEXT NOT NULL,
    old_value   TEXT NOT NULL DEFAULT '',
    new_value   TEXT NOT NULL DEFAULT '',
    actor       TEXT NOT NULL DEFAULT 'system',
    created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_audit_entity ON audit_log(entity_type, entity_id);

CREATE TABLE IF NOT EXISTS admin_users (
    id            BIGSERIAL PRIMARY KEY,
    username      TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`
