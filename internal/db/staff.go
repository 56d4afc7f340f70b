package db

import (
	"context"
	"time"

	"wakala/internal/model"
)

// RegisterStaffContact adds or updates a staff notification recipient.
func (db *DB) RegisterStaffContact(ctx context.Context, name string, chatID int64) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO staff_contacts (name, chat_id, added_at)
		VALUES (?, ?, ?)
		ON CONFLICT(chat_id) DO UPDATE SET name = excluded.name`,
		name, chatID, time.Now(),
	)
	return err
}

// RemoveStaffContact removes a recipient by chat id.
func (db *DB) RemoveStaffContact(ctx context.Context, chatID int64) error {
	_, err := db.ExecContext(ctx,
		"DELETE FROM staff_contacts WHERE chat_id = ?", chatID)
	return err
}

// ListStaffContacts returns all notification recipients.
func (db *DB) ListStaffContacts(ctx context.Context) ([]model.StaffContact, error) {
	rows, err := db.QueryContext(ctx,
		"SELECT id, name, chat_id, added_at FROM staff_contacts ORDER BY added_at")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var contacts []model.StaffContact
	for rows.Next() {
		var c model.StaffContact
		if err := rows.Scan(&c.ID, &c.Name, &c.ChatID, &c.AddedAt); err != nil {
			return nil, err
		}
		contacts = append(contacts, c)
	}
	return contacts, rows.Err()
}
