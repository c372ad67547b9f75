package mcpserver

// ContactFormatContract describes the field formats accepted for contacts
// and notes, so LLM consumers can produce values that pass validation.
const ContactFormatContract = `# Berkana Contact Format

Every contact is keyed by its name. Names are compared exactly (case and
spacing matter) and must not be blank.

## Fields

| Field    | Format                                   | Example            |
|----------|------------------------------------------|--------------------|
| name     | any non-blank text                       | Olena Kovalenko    |
| phone    | exactly 10 digits, no separators         | 0501234567         |
| email    | local@domain.tld                         | olena@example.com  |
| address  | free text                                | Kyiv, Khreshchatyk |
| birthday | DD.MM.YYYY, must be a real calendar date | 02.01.1990         |

A contact may hold several phone numbers. Email, address and birthday are
optional and hold at most one value each.

## Birthdays

Upcoming birthdays are computed from today's date. A birthday that already
passed this year counts for next year. People born on 29 February are
congratulated on 28 February in non-leap years.

## Notes

Notes are free text. Tags may be passed as a comma-separated list and are
also picked up from inline ` + "`#hashtags`" + ` in the text. Notes are addressed
by their 1-based number in the current listing; numbers shift after a delete.
`
