package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"wakala/internal/model"
)

var membershipColumns = []string{
	"ID", "Full Name (EN)", "Full Name (AR)", "Email", "Phone", "City", "Type", "Registered",
}

// DedupeMemberships removes duplicate intake records. Two records are
// duplicates when they share a normalized email, or failing that a
// digits-only phone number. The first occurrence wins (input is expected
// oldest-first). Returns the kept records and the number removed.
func DedupeMemberships(memberships []model.Membership) ([]model.Membership, int) {
	seenEmail := make(map[string]bool)
	seenPhone := make(map[string]bool)

	var kept []model.Membership
	removed := 0
	for _, m := range memberships {
		email := NormalizeEmail(m.Email)
		phone := NormalizePhone(m.Phone)

		if email != "" && seenEmail[email] {
			removed++
			continue
		}
		if email == "" && phone != "" && seenPhone[phone] {
			removed++
			continue
		}

		if email != "" {
			seenEmail[email] = true
		}
		if phone != "" {
			seenPhone[phone] = true
		}
		kept = append(kept, m)
	}
	return kept, removed
}

// NormalizeEmail lowercases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizePhone strips everything except digits.
func NormalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func membershipRow(m *model.Membership) []string {
	return []string{
		fmt.Sprintf("%d", m.ID),
		m.FullNameEN,
		m.FullNameAR,
		m.Email,
		m.Phone,
		m.City,
		m.MemberType,
		m.CreatedAt.Format("2006-01-02 15:04"),
	}
}

// WriteMembershipsCSV writes deduplicated memberships as CSV.
func WriteMembershipsCSV(w io.Writer, memberships []model.Membership) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(membershipColumns); err != nil {
		return err
	}
	for i := range memberships {
		if err := cw.Write(membershipRow(&memberships[i])); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteMembershipsXLSX writes deduplicated memberships as an Excel sheet.
func WriteMembershipsXLSX(w io.Writer, memberships []model.Membership) error {
	writer := NewExcelizeWriter()
	defer writer.Close()

	rows := make([][]string, 0, len(memberships))
	for i := range memberships {
		rows = append(rows, membershipRow(&memberships[i]))
	}
	if err := writer.WriteTable("Memberships", membershipColumns, rows); err != nil {
		return err
	}
	return writer.Save(w)
}
