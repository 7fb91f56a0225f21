package store

// Money is stored as TEXT so decimals round-trip exactly on both drivers.
// Dates are TEXT in YYYY-MM-DD form, which also sorts chronologically.
const schema = `
CREATE TABLE IF NOT EXISTS properties (
	account_id TEXT NOT NULL,
	id         TEXT NOT NULL,
	name       TEXT NOT NULL,
	bedrooms   INTEGER NOT NULL DEFAULT 0,
	bathrooms  INTEGER NOT NULL DEFAULT 0,
	sort_order INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (account_id, id)
);

CREATE TABLE IF NOT EXISTS channels (
	account_id      TEXT NOT NULL,
	id              TEXT NOT NULL,
	name            TEXT NOT NULL,
	commission_rate TEXT NOT NULL DEFAULT '0',
	PRIMARY KEY (account_id, id)
);

CREATE TABLE IF NOT EXISTS products (
	account_id       TEXT NOT NULL,
	id               TEXT NOT NULL,
	name             TEXT NOT NULL,
	unit_price       TEXT NOT NULL DEFAULT '0',
	package_cost     TEXT NOT NULL DEFAULT '0',
	package_quantity TEXT NOT NULL DEFAULT '0',
	unit             TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (account_id, id)
);

CREATE TABLE IF NOT EXISTS bookings (
	account_id       TEXT NOT NULL,
	id               TEXT NOT NULL,
	property_id      TEXT NOT NULL,
	channel_id       TEXT NOT NULL DEFAULT '',
	guest_name       TEXT NOT NULL DEFAULT '',
	check_in         TEXT NOT NULL,
	check_out        TEXT NOT NULL,
	number_of_guests INTEGER NOT NULL DEFAULT 1,
	gross_revenue    TEXT NOT NULL DEFAULT '0',
	status           TEXT NOT NULL CHECK (status IN ('CONFIRMED', 'CANCELLED')),
	channel_display  TEXT NOT NULL DEFAULT '',
	source_label     TEXT NOT NULL DEFAULT '',
	arrival_info     TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (account_id, id)
);

CREATE TABLE IF NOT EXISTS booking_products (
	account_id   TEXT NOT NULL,
	booking_id   TEXT NOT NULL,
	position     INTEGER NOT NULL,
	product_id   TEXT NOT NULL,
	product_name TEXT NOT NULL DEFAULT '',
	quantity     TEXT NOT NULL,
	unit_price   TEXT NOT NULL,
	PRIMARY KEY (account_id, booking_id, position),
	FOREIGN KEY (account_id, booking_id) REFERENCES bookings (account_id, id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS booking_guests (
	account_id      TEXT NOT NULL,
	booking_id      TEXT NOT NULL,
	position        INTEGER NOT NULL,
	first_name      TEXT NOT NULL DEFAULT '',
	last_name       TEXT NOT NULL DEFAULT '',
	birth_date      TEXT,
	document_type   TEXT NOT NULL DEFAULT '',
	document_number TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (account_id, booking_id, position),
	FOREIGN KEY (account_id, booking_id) REFERENCES bookings (account_id, id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS fixed_costs (
	account_id  TEXT NOT NULL,
	id          TEXT NOT NULL,
	property_id TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	amount      TEXT NOT NULL,
	frequency   TEXT NOT NULL CHECK (frequency IN ('MONTHLY', 'QUARTERLY', 'YEARLY', 'ONE_TIME')),
	start_date  TEXT NOT NULL,
	PRIMARY KEY (account_id, id)
);

CREATE INDEX IF NOT EXISTS idx_bookings_check_in ON bookings (account_id, check_in);
CREATE INDEX IF NOT EXISTS idx_fixed_costs_property ON fixed_costs (account_id, property_id);
`

const (
	propertyColumns = `id, name, bedrooms, bathrooms`
	channelColumns  = `id, name, commission_rate`
	productColumns  = `id, name, unit_price, package_cost, package_quantity, unit`
	bookingColumns  = `id, property_id, channel_id, guest_name, check_in, check_out, number_of_guests,
		gross_revenue, status, channel_display, source_label, arrival_info`
	fixedCostColumns = `id, property_id, description, amount, frequency, start_date`
)

const (
	qPropertiesAll = `SELECT ` + propertyColumns + ` FROM properties WHERE account_id = ? ORDER BY sort_order, id`

	qPropertyUpsert = `INSERT INTO properties (account_id, id, name, bedrooms, bathrooms, sort_order)
		VALUES (?, ?, ?, ?, ?, (SELECT COALESCE(MAX(sort_order), 0) + 1 FROM properties WHERE account_id = ?))
		ON CONFLICT (account_id, id) DO UPDATE SET
			name = excluded.name, bedrooms = excluded.bedrooms, bathrooms = excluded.bathrooms`

	qChannelsAll = `SELECT ` + channelColumns + ` FROM channels WHERE account_id = ? ORDER BY name, id`

	qChannelUpsert = `INSERT INTO channels (account_id, id, name, commission_rate) VALUES (?, ?, ?, ?)
		ON CONFLICT (account_id, id) DO UPDATE SET
			name = excluded.name, commission_rate = excluded.commission_rate`

	qProductsAll = `SELECT ` + productColumns + ` FROM products WHERE account_id = ? ORDER BY name, id`

	qProductUpsert = `INSERT INTO products (account_id, id, name, unit_price, package_cost, package_quantity, unit)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (account_id, id) DO UPDATE SET
			name = excluded.name, unit_price = excluded.unit_price, package_cost = excluded.package_cost,
			package_quantity = excluded.package_quantity, unit = excluded.unit`

	qFixedCostsAll = `SELECT ` + fixedCostColumns + ` FROM fixed_costs WHERE account_id = ? ORDER BY start_date, id`

	qFixedCostUpsert = `INSERT INTO fixed_costs (account_id, id, property_id, description, amount, frequency, start_date)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (account_id, id) DO UPDATE SET
			property_id = excluded.property_id, description = excluded.description, amount = excluded.amount,
			frequency = excluded.frequency, start_date = excluded.start_date`

	qBookingUpsert = `INSERT INTO bookings (account_id, ` + bookingColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (account_id, id) DO UPDATE SET
			property_id = excluded.property_id, channel_id = excluded.channel_id, guest_name = excluded.guest_name,
			check_in = excluded.check_in, check_out = excluded.check_out,
			number_of_guests = excluded.number_of_guests, gross_revenue = excluded.gross_revenue,
			status = excluded.status, channel_display = excluded.channel_display,
			source_label = excluded.source_label, arrival_info = excluded.arrival_info`

	qBookingProductsDelete = `DELETE FROM booking_products WHERE account_id = ? AND booking_id = ?`
	qBookingGuestsDelete   = `DELETE FROM booking_guests WHERE account_id = ? AND booking_id = ?`

	qBookingProductInsert = `INSERT INTO booking_products
		(account_id, booking_id, position, product_id, product_name, quantity, unit_price)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	qBookingGuestInsert = `INSERT INTO booking_guests
		(account_id, booking_id, position, first_name, last_name, birth_date, document_type, document_number)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	qCounts = `SELECT
		(SELECT COUNT(*) FROM properties WHERE account_id = ?),
		(SELECT COUNT(*) FROM channels WHERE account_id = ?),
		(SELECT COUNT(*) FROM products WHERE account_id = ?),
		(SELECT COUNT(*) FROM bookings WHERE account_id = ?),
		(SELECT COUNT(*) FROM fixed_costs WHERE account_id = ?)`
)
