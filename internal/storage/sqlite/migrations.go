package sqlite

import "database/sql"

// schema contains the SQL statements to set up the database schema.
// These run on startup to ensure tables exist.
// IMPORTANT: customers must be created before users and groups due to foreign
// key constraints.
const schema = `
CREATE TABLE IF NOT EXISTS accounting_infos (
    id TEXT PRIMARY KEY,
    invoice_country TEXT
);

CREATE TABLE IF NOT EXISTS customers (
    id TEXT PRIMARY KEY,
    type TEXT NOT NULL,
    canceled_premium INTEGER NOT NULL DEFAULT 0,
    accounting_info_id TEXT NOT NULL,
    hide_buy_dialogs INTEGER NOT NULL DEFAULT 0,
    payment_interval INTEGER NOT NULL DEFAULT 1,
    tax_included INTEGER NOT NULL DEFAULT 1,
    period_start INTEGER NOT NULL,
    FOREIGN KEY (accounting_info_id) REFERENCES accounting_infos(id)
);

CREATE TABLE IF NOT EXISTS bookings (
    customer_id TEXT NOT NULL,
    feature_type INTEGER NOT NULL,
    count INTEGER NOT NULL,
    PRIMARY KEY (customer_id, feature_type),
    FOREIGN KEY (customer_id) REFERENCES customers(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS group_infos (
    list_id TEXT NOT NULL,
    element_id TEXT NOT NULL,
    group_id TEXT NOT NULL,
    name TEXT NOT NULL,
    mail_address TEXT,
    PRIMARY KEY (list_id, element_id)
);

CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    mail_address TEXT NOT NULL UNIQUE,
    customer_id TEXT NOT NULL,
    global_admin INTEGER NOT NULL DEFAULT 0,
    info_list_id TEXT NOT NULL,
    info_element_id TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    FOREIGN KEY (customer_id) REFERENCES customers(id)
);

CREATE TABLE IF NOT EXISTS groups (
    id TEXT PRIMARY KEY,
    type TEXT NOT NULL,
    owner_user_id TEXT,
    customer_id TEXT NOT NULL,
    members_list_id TEXT NOT NULL UNIQUE,
    invitations_list_id TEXT NOT NULL UNIQUE,
    info_list_id TEXT NOT NULL,
    info_element_id TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    FOREIGN KEY (customer_id) REFERENCES customers(id)
);

CREATE TABLE IF NOT EXISTS group_members (
    list_id TEXT NOT NULL,
    element_id TEXT NOT NULL,
    group_id TEXT NOT NULL,
    user_id TEXT NOT NULL,
    info_list_id TEXT NOT NULL,
    info_element_id TEXT NOT NULL,
    capability INTEGER,
    PRIMARY KEY (list_id, element_id),
    UNIQUE (group_id, user_id),
    FOREIGN KEY (group_id) REFERENCES groups(id) ON DELETE CASCADE,
    FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS sent_group_invitations (
    list_id TEXT NOT NULL,
    element_id TEXT NOT NULL,
    group_id TEXT NOT NULL,
    invitee_mail_address TEXT NOT NULL,
    capability INTEGER NOT NULL,
    created_at INTEGER NOT NULL,
    PRIMARY KEY (list_id, element_id),
    UNIQUE (group_id, invitee_mail_address),
    FOREIGN KEY (group_id) REFERENCES groups(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS share_notifications (
    id TEXT PRIMARY KEY,
    group_id TEXT NOT NULL,
    sender_id TEXT NOT NULL,
    recipient TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    sent_at INTEGER,
    FOREIGN KEY (group_id) REFERENCES groups(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_group_members_user_id ON group_members(user_id);
CREATE INDEX IF NOT EXISTS idx_group_members_list_id ON group_members(list_id);
CREATE INDEX IF NOT EXISTS idx_sent_group_invitations_list_id ON sent_group_invitations(list_id);
CREATE INDEX IF NOT EXISTS idx_share_notifications_group_id ON share_notifications(group_id);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
