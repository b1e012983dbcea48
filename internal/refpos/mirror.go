package refpos

import (
	"encoding/json"

	"github.com/pkg/errors"

	"DoshiiWithPos/internal/database"
	"DoshiiWithPos/internal/doshiiapi/models"
	"DoshiiWithPos/internal/pos"
)

// Bookings, members and partner apps are mirrored as JSON payload rows;
// the POS only needs them whole, never field by field.

// ---- pos.Reservations ----

func (p *RefPos) GetBookingsFromPos() ([]*models.Booking, error) {
	var rows []database.Booking
	if err := p.db.Select(&rows, "SELECT * FROM Bookings"); err != nil {
		return nil, errors.Wrap(err, "failed to select bookings")
	}
	bookings := make([]*models.Booking, 0, len(rows))
	for _, row := range rows {
		var booking models.Booking
		if err := json.Unmarshal([]byte(row.PAYLOAD), &booking); err != nil {
			return nil, errors.Wrapf(err, "failed to unmarshal booking, bookingId:%s", row.BOOKING_ID)
		}
		bookings = append(bookings, &booking)
	}
	return bookings, nil
}

func (p *RefPos) CreateBookingOnPos(booking *models.Booking) error {
	if p.payloadRowExists("Bookings", "BookingID", booking.Id) {
		return &pos.BookingExistOnPosError{BookingId: booking.Id}
	}
	payload, err := json.Marshal(booking)
	if err != nil {
		return errors.Wrap(err, "failed to marshal booking")
	}
	_, err = p.db.Exec("INSERT INTO Bookings (BookingID, Payload) VALUES (?, ?)", booking.Id, string(payload))
	return errors.Wrapf(err, "failed to insert booking, bookingId:%s", booking.Id)
}

func (p *RefPos) UpdateBookingOnPos(booking *models.Booking) error {
	if !p.payloadRowExists("Bookings", "BookingID", booking.Id) {
		return &pos.BookingDoesNotExistOnPosError{BookingId: booking.Id}
	}
	payload, err := json.Marshal(booking)
	if err != nil {
		return errors.Wrap(err, "failed to marshal booking")
	}
	_, err = p.db.Exec("UPDATE Bookings SET Payload = ? WHERE BookingID = ?", string(payload), booking.Id)
	return errors.Wrapf(err, "failed to update booking, bookingId:%s", booking.Id)
}

func (p *RefPos) DeleteBookingOnPos(booking *models.Booking) error {
	if !p.payloadRowExists("Bookings", "BookingID", booking.Id) {
		return &pos.BookingDoesNotExistOnPosError{BookingId: booking.Id}
	}
	_, err := p.db.Exec("DELETE FROM Bookings WHERE BookingID = ?", booking.Id)
	return errors.Wrapf(err, "failed to delete booking, bookingId:%s", booking.Id)
}

// ---- pos.Rewards ----

func (p *RefPos) GetMembersFromPos() ([]*models.Member, error) {
	var rows []database.Member
	if err := p.db.Select(&rows, "SELECT * FROM Members"); err != nil {
		return nil, errors.Wrap(err, "failed to select members")
	}
	members := make([]*models.Member, 0, len(rows))
	for _, row := range rows {
		var member models.Member
		if err := json.Unmarshal([]byte(row.PAYLOAD), &member); err != nil {
			return nil, errors.Wrapf(err, "failed to unmarshal member, memberId:%s", row.MEMBER_ID)
		}
		members = append(members, &member)
	}
	return members, nil
}

func (p *RefPos) CreateMemberOnPos(member *models.Member) error {
	if p.payloadRowExists("Members", "MemberID", member.Id) {
		return &pos.MemberExistOnPosError{MemberId: member.Id}
	}
	payload, err := json.Marshal(member)
	if err != nil {
		return errors.Wrap(err, "failed to marshal member")
	}
	_, err = p.db.Exec("INSERT INTO Members (MemberID, Payload) VALUES (?, ?)", member.Id, string(payload))
	return errors.Wrapf(err, "failed to insert member, memberId:%s", member.Id)
}

func (p *RefPos) UpdateMemberOnPos(member *models.Member) error {
	if !p.payloadRowExists("Members", "MemberID", member.Id) {
		return &pos.MemberDoesNotExistOnPosError{MemberId: member.Id}
	}
	payload, err := json.Marshal(member)
	if err != nil {
		return errors.Wrap(err, "failed to marshal member")
	}
	_, err = p.db.Exec("UPDATE Members SET Payload = ? WHERE MemberID = ?", string(payload), member.Id)
	return errors.Wrapf(err, "failed to update member, memberId:%s", member.Id)
}

func (p *RefPos) DeleteMemberOnPos(member *models.Member) error {
	if !p.payloadRowExists("Members", "MemberID", member.Id) {
		return &pos.MemberDoesNotExistOnPosError{MemberId: member.Id}
	}
	_, err := p.db.Exec("DELETE FROM Members WHERE MemberID = ?", member.Id)
	return errors.Wrapf(err, "failed to delete member, memberId:%s", member.Id)
}

// ---- pos.Apps ----

func (p *RefPos) GetAppsFromPos() ([]*models.App, error) {
	var rows []database.App
	if err := p.db.Select(&rows, "SELECT * FROM Apps"); err != nil {
		return nil, errors.Wrap(err, "failed to select apps")
	}
	apps := make([]*models.App, 0, len(rows))
	for _, row := range rows {
		var app models.App
		if err := json.Unmarshal([]byte(row.PAYLOAD), &app); err != nil {
			return nil, errors.Wrapf(err, "failed to unmarshal app, appId:%s", row.APP_ID)
		}
		apps = append(apps, &app)
	}
	return apps, nil
}

func (p *RefPos) CreateAppOnPos(app *models.App) error {
	payload, err := json.Marshal(app)
	if err != nil {
		return errors.Wrap(err, "failed to marshal app")
	}
	_, err = p.db.Exec(
		"INSERT INTO Apps (AppID, Payload) VALUES (?, ?) ON CONFLICT(AppID) DO UPDATE SET Payload = excluded.Payload",
		app.Id, string(payload))
	return errors.Wrapf(err, "failed to upsert app, appId:%s", app.Id)
}

func (p *RefPos) UpdateAppOnPos(app *models.App) error {
	if !p.payloadRowExists("Apps", "AppID", app.Id) {
		return &pos.AppDoesNotExistOnPosError{AppId: app.Id}
	}
	payload, err := json.Marshal(app)
	if err != nil {
		return errors.Wrap(err, "failed to marshal app")
	}
	_, err = p.db.Exec("UPDATE Apps SET Payload = ? WHERE AppID = ?", string(payload), app.Id)
	return errors.Wrapf(err, "failed to update app, appId:%s", app.Id)
}

func (p *RefPos) DeleteAppOnPos(app *models.App) error {
	if !p.payloadRowExists("Apps", "AppID", app.Id) {
		return &pos.AppDoesNotExistOnPosError{AppId: app.Id}
	}
	_, err := p.db.Exec("DELETE FROM Apps WHERE AppID = ?", app.Id)
	return errors.Wrapf(err, "failed to delete app, appId:%s", app.Id)
}

func (p *RefPos) payloadRowExists(table, column, id string) bool {
	var count int
	err := p.db.Get(&count, "SELECT COUNT(*) FROM "+table+" WHERE "+column+" = ?", id)
	return err == nil && count > 0
}
