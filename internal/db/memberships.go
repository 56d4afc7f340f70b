package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"wakala/internal/model"
)

// CreateMembership inserts a member or volunteer intake record.
func (db *DB) CreateMembership(ctx context.Context, m *model.Membership) error {
	if m.MemberType == "" {
		m.MemberType = model.MemberTypeMember
	}
	now := time.Now()
	res, err := db.ExecContext(ctx, `
		INSERT INTO memberships (full_name_en, full_name_ar, email, phone, city, member_type, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		m.FullNameEN, m.FullNameAR, m.Email, m.Phone, m.City, m.MemberType, now,
	)
	if err != nil {
		return fmt.Errorf("insert membership: %w", err)
	}
	m.ID, err = res.LastInsertId()
	if err != nil {
		return err
	}
	m.CreatedAt = now
	return nil
}

// ListMemberships returns all intake records, optionally filtered by type,
// oldest first (stable order for the dedup pass).
func (db *DB) ListMemberships(ctx context.Context, memberType string) ([]model.Membership, error) {
	var rows *sql.Rows
	var err error
	if memberType != "" {
		rows, err = db.QueryContext(ctx, `
			SELECT id, full_name_en, full_name_ar, email, phone, city, member_type, created_at
			FROM memberships WHERE member_type = ? ORDER BY created_at, id`,
			memberType)
	} else {
		rows, err = db.QueryContext(ctx, `
			SELECT id, full_name_en, full_name_ar, email, phone, city, member_type, created_at
			FROM memberships ORDER BY created_at, id`)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var memberships []model.Membership
	for rows.Next() {
		var m model.Membership
		var nameAR, city sql.NullString
		if err := rows.Scan(&m.ID, &m.FullNameEN, &nameAR, &m.Email, &m.Phone, &city, &m.MemberType, &m.CreatedAt); err != nil {
			return nil, err
		}
		if nameAR.Valid {
			m.FullNameAR = nameAR.String
		}
		if city.Valid {
			m.City = city.String
		}
		memberships = append(memberships, m)
	}
	return memberships, rows.Err()
}
