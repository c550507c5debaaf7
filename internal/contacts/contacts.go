// Package contacts parses uploaded contact lists for the campaign
// wizard.
package contacts

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"outrexo/internal/personalize"
)

// ParseCSV reads a contact list with a header row. Every column becomes
// a contact field keyed by its (trimmed) header; one column must be an
// email address. Rows without an "@" in the email cell are skipped and
// reported.
func ParseCSV(r io.Reader) ([]personalize.Contact, []string, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil, fmt.Errorf("file is empty")
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read header row: %w", err)
	}

	emailCol := -1
	for i, h := range header {
		header[i] = strings.TrimSpace(h)
		if strings.EqualFold(header[i], "email") {
			emailCol = i
		}
	}
	if emailCol == -1 {
		return nil, nil, fmt.Errorf("no email column found in header %v", header)
	}

	var (
		contacts []personalize.Contact
		skipped  []string
		line     = 1
	)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read row %d: %w", line, err)
		}

		contact := personalize.Contact{}
		for i, value := range record {
			if i >= len(header) || header[i] == "" {
				continue
			}
			contact[header[i]] = strings.TrimSpace(value)
		}

		if !strings.Contains(contact.Email(), "@") {
			skipped = append(skipped, fmt.Sprintf("row %d: missing or invalid email", line))
			continue
		}
		contacts = append(contacts, contact)
	}

	if len(contacts) == 0 {
		return nil, skipped, fmt.Errorf("no valid contacts found")
	}
	return contacts, skipped, nil
}
