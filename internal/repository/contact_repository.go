package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/RadislavKrasnov/contacts-api/internal/model"
)

const contactColumns = "id,first_name,last_name,email,phone_number,birthday,additional_info,user_id"

// ContactRepo provides access to the 'contacts' table. All queries are scoped
// by user id; GetByID returns (nil, nil) when no row matches.
type ContactRepo struct{ DB *sql.DB }

func NewContactRepo(db *sql.DB) *ContactRepo { return &ContactRepo{DB: db} }

// List returns a page of the user's contacts.
func (r *ContactRepo) List(ctx context.Context, userID uint64, skip, limit int) ([]model.Contact, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+contactColumns+" FROM contacts WHERE user_id=? ORDER BY id LIMIT ? OFFSET ?",
		userID, limit, skip)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectContacts(rows)
}

// GetByID fetches one of the user's contacts.
func (r *ContactRepo) GetByID(ctx context.Context, id, userID uint64) (*model.Contact, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+contactColumns+" FROM contacts WHERE id=? AND user_id=? LIMIT 1", id, userID)
	return scanContact(row)
}

// Create inserts a contact and returns it with its assigned id.
func (r *ContactRepo) Create(ctx context.Context, c model.Contact) (*model.Contact, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO contacts (first_name, last_name, email, phone_number, birthday, additional_info, user_id) VALUES (?,?,?,?,?,?,?)",
		c.FirstName, c.LastName, c.Email, c.PhoneNumber, c.Birthday, nullable(c.AdditionalInfo), c.UserID)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, uint64(id), c.UserID)
}

// Update overwrites a contact's fields and returns the updated row, or
// (nil, nil) when the contact does not belong to the user.
func (r *ContactRepo) Update(ctx context.Context, id uint64, c model.Contact) (*model.Contact, error) {
	existing, err := r.GetByID(ctx, id, c.UserID)
	if err != nil || existing == nil {
		return nil, err
	}
	if _, err := r.DB.ExecContext(ctx,
		"UPDATE contacts SET first_name=?, last_name=?, email=?, phone_number=?, birthday=?, additional_info=? WHERE id=? AND user_id=?",
		c.FirstName, c.LastName, c.Email, c.PhoneNumber, c.Birthday, nullable(c.AdditionalInfo), id, c.UserID); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id, c.UserID)
}

// Delete removes a contact and returns the deleted row, or (nil, nil) when it
// did not exist for this user.
func (r *ContactRepo) Delete(ctx context.Context, id, userID uint64) (*model.Contact, error) {
	c, err := r.GetByID(ctx, id, userID)
	if err != nil || c == nil {
		return nil, err
	}
	if _, err := r.DB.ExecContext(ctx,
		"DELETE FROM contacts WHERE id=? AND user_id=?", id, userID); err != nil {
		return nil, err
	}
	return c, nil
}

// Search filters the user's contacts by optional first name, last name and
// email, matching case-insensitive prefixes.
func (r *ContactRepo) Search(ctx context.Context, userID uint64, firstName, lastName, email string) ([]model.Contact, error) {
	query := "SELECT " + contactColumns + " FROM contacts WHERE user_id=?"
	args := []interface{}{userID}
	if firstName != "" {
		query += " AND first_name LIKE ?"
		args = append(args, firstName+"%")
	}
	if lastName != "" {
		query += " AND last_name LIKE ?"
		args = append(args, lastName+"%")
	}
	if email != "" {
		query += " AND email LIKE ?"
		args = append(args, strings.ToLower(email)+"%")
	}
	rows, err := r.DB.QueryContext(ctx, query+" ORDER BY id", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectContacts(rows)
}

// UpcomingBirthdays returns contacts whose birthday falls within the next
// seven days, year-agnostic.
func (r *ContactRepo) UpcomingBirthdays(ctx context.Context, userID uint64) ([]model.Contact, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+contactColumns+" FROM contacts WHERE user_id=? AND "+
			"DATE_ADD(birthday, INTERVAL YEAR(CURDATE())-YEAR(birthday)+"+
			"(DAYOFYEAR(CURDATE())>DAYOFYEAR(birthday)) YEAR) "+
			"BETWEEN CURDATE() AND DATE_ADD(CURDATE(), INTERVAL 7 DAY) ORDER BY id",
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectContacts(rows)
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func scanContact(row *sql.Row) (*model.Contact, error) {
	var (
		c    model.Contact
		info sql.NullString
	)
	err := row.Scan(&c.ID, &c.FirstName, &c.LastName, &c.Email,
		&c.PhoneNumber, &c.Birthday, &info, &c.UserID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	c.AdditionalInfo = info.String
	return &c, nil
}

func collectContacts(rows *sql.Rows) ([]model.Contact, error) {
	var out []model.Contact
	for rows.Next() {
		var (
			c    model.Contact
			info sql.NullString
		)
		if err := rows.Scan(&c.ID, &c.FirstName, &c.LastName, &c.Email,
			&c.PhoneNumber, &c.Birthday, &info, &c.UserID); err != nil {
			return nil, err
		}
		c.AdditionalInfo = info.String
		out = append(out, c)
	}
	return out, rows.Err()
}
