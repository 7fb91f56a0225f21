package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"stayledger/internal/models"
	"stayledger/internal/services"
)

// bookingWhere builds the condition shared by the booking, product line and
// guest queries.
func (db *DB) bookingWhere(filter services.BookingFilter) (string, []any) {
	conds := []string{"account_id = ?"}
	args := []any{db.account}
	if !filter.From.IsZero() {
		conds = append(conds, "check_in >= ?")
		args = append(args, formatDate(filter.From))
	}
	if !filter.To.IsZero() {
		conds = append(conds, "check_in <= ?")
		args = append(args, formatDate(filter.To))
	}
	return strings.Join(conds, " AND "), args
}

// ListBookings returns bookings checking in within the filter, with their
// product lines and guest registry, ordered by check-in.
func (db *DB) ListBookings(ctx context.Context, filter services.BookingFilter) ([]models.Booking, error) {
	where, args := db.bookingWhere(filter)

	rows, err := db.query(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE `+where+` ORDER BY check_in, id`, args...)
	if err != nil {
		return nil, fmt.Errorf("query bookings: %w", err)
	}
	bookings, err := scanAll(rows, scanBooking)
	if err != nil {
		return nil, fmt.Errorf("scan bookings: %w", err)
	}
	if len(bookings) == 0 {
		return bookings, nil
	}

	index := make(map[string]int, len(bookings))
	for i, b := range bookings {
		index[b.ID] = i
	}

	subArgs := append([]any{db.account}, args...)
	sub := ` AND booking_id IN (SELECT id FROM bookings WHERE ` + where + `)`

	rows, err = db.query(ctx, `SELECT booking_id, product_id, product_name, quantity, unit_price
		FROM booking_products WHERE account_id = ?`+sub+` ORDER BY booking_id, position`, subArgs...)
	if err != nil {
		return nil, fmt.Errorf("query product lines: %w", err)
	}
	type line struct {
		bookingID string
		models.ProductLine
	}
	lines, err := scanAll(rows, func(rows *sql.Rows, l *line) error {
		return rows.Scan(&l.bookingID, &l.ProductID, &l.ProductName, &l.Quantity, &l.UnitPrice)
	})
	if err != nil {
		return nil, fmt.Errorf("scan product lines: %w", err)
	}
	for _, l := range lines {
		if i, ok := index[l.bookingID]; ok {
			bookings[i].Products = append(bookings[i].Products, l.ProductLine)
		}
	}

	rows, err = db.query(ctx, `SELECT booking_id, first_name, last_name, birth_date, document_type, document_number
		FROM booking_guests WHERE account_id = ?`+sub+` ORDER BY booking_id, position`, subArgs...)
	if err != nil {
		return nil, fmt.Errorf("query guests: %w", err)
	}
	type guest struct {
		bookingID string
		models.Guest
	}
	guests, err := scanAll(rows, func(rows *sql.Rows, g *guest) error {
		var birth sql.NullString
		if err := rows.Scan(&g.bookingID, &g.FirstName, &g.LastName, &birth, &g.DocumentType, &g.DocumentNumber); err != nil {
			return err
		}
		if birth.Valid && birth.String != "" {
			t, err := parseDate(birth.String)
			if err != nil {
				return err
			}
			g.BirthDate = &t
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan guests: %w", err)
	}
	for _, g := range guests {
		if i, ok := index[g.bookingID]; ok {
			bookings[i].Guests = append(bookings[i].Guests, g.Guest)
		}
	}

	return bookings, nil
}

func scanBooking(rows *sql.Rows, b *models.Booking) error {
	var checkIn, checkOut string
	err := rows.Scan(&b.ID, &b.PropertyID, &b.ChannelID, &b.GuestName, &checkIn, &checkOut,
		&b.NumberOfGuests, &b.GrossRevenue, &b.Status, &b.ChannelDisplay, &b.SourceLabel, &b.ArrivalInfo)
	if err != nil {
		return err
	}
	if b.CheckIn, err = parseDate(checkIn); err != nil {
		return err
	}
	b.CheckOut, err = parseDate(checkOut)
	return err
}

// SaveBooking upserts a booking and replaces its product lines and guest
// registry. Product lines are stored as given; their prices are never
// refreshed from the catalogue.
func (db *DB) SaveBooking(ctx context.Context, b models.Booking) error {
	channelID := b.ChannelID
	if channelID == "" && b.Channel != nil {
		channelID = b.Channel.ID
	}

	err := db.inTx(ctx, func(tx *sql.Tx) error {
		err := db.txExec(ctx, tx, qBookingUpsert, db.account,
			b.ID, b.PropertyID, channelID, b.GuestName, formatDate(b.CheckIn), formatDate(b.CheckOut),
			b.NumberOfGuests, b.GrossRevenue, b.Status, b.ChannelDisplay, b.SourceLabel, b.ArrivalInfo)
		if err != nil {
			return err
		}

		if err := db.txExec(ctx, tx, qBookingProductsDelete, db.account, b.ID); err != nil {
			return err
		}
		for i, l := range b.Products {
			err := db.txExec(ctx, tx, qBookingProductInsert, db.account, b.ID, i,
				l.ProductID, l.ProductName, l.Quantity, l.UnitPrice)
			if err != nil {
				return err
			}
		}

		if err := db.txExec(ctx, tx, qBookingGuestsDelete, db.account, b.ID); err != nil {
			return err
		}
		for i, g := range b.Guests {
			var birth sql.NullString
			if g.BirthDate != nil {
				birth = sql.NullString{String: formatDate(*g.BirthDate), Valid: true}
			}
			err := db.txExec(ctx, tx, qBookingGuestInsert, db.account, b.ID, i,
				g.FirstName, g.LastName, birth, g.DocumentType, g.DocumentNumber)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("save booking %s: %w", b.ID, err)
	}
	return nil
}
