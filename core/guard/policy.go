package guard

import (
	"regexp"
	"strings"
)

// Policy is the configurable part of the guard: which entities the assistant
// may create records for, and which fields an INSERT may never set.
type Policy struct {
	// AllowedInsertEntities is the allow-list of record types safe for
	// assisted creation.
	AllowedInsertEntities []string

	// ReservedFields are system-reserved fields (document status, ordering
	// index, tree position) that an INSERT must not touch. Rejecting
	// docstatus assignments is what keeps assistant-created records in
	// draft disposition.
	ReservedFields []string

	reservedPatterns []*regexp.Regexp
}

// NewPolicy builds a policy and precompiles its reserved-field patterns.
// Field names are matched on word boundaries so a reserved name like "idx"
// does not reject unrelated columns that merely contain it.
func NewPolicy(allowedInsertEntities, reservedFields []string) Policy {
	p := Policy{
		AllowedInsertEntities: append([]string(nil), allowedInsertEntities...),
		ReservedFields:        append([]string(nil), reservedFields...),
	}
	p.reservedPatterns = make([]*regexp.Regexp, 0, len(reservedFields))
	for _, field := range reservedFields {
		p.reservedPatterns = append(p.reservedPatterns,
			regexp.MustCompile(`(?i)\b`+regexp.QuoteMeta(field)+`\b`))
	}
	return p
}

// AllowsInsert reports whether the entity is on the assisted-creation
// allow-list. Matching is case-sensitive: entity names are proper nouns in
// the ERP schema.
func (p Policy) AllowsInsert(entity string) bool {
	for _, allowed := range p.AllowedInsertEntities {
		if allowed == entity {
			return true
		}
	}
	return false
}

// ReservedFieldIn returns the first reserved field referenced by the
// statement, or "" if none appears.
func (p Policy) ReservedFieldIn(sql string) string {
	for i, pattern := range p.reservedPatterns {
		if pattern.MatchString(sql) {
			return p.ReservedFields[i]
		}
	}
	return ""
}

// TableEntity maps a row-store table name to its domain entity by stripping
// the fixed "tab" prefix. Tables outside the convention map to "".
func TableEntity(table string) string {
	if strings.HasPrefix(table, "tab") && len(table) > 3 {
		return table[3:]
	}
	return ""
}
